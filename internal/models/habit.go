package models

import "time"

const DefaultHabitColor = "#FF6B35"

type Habit struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	Color     string    `json:"color" db:"color"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type HabitLog struct {
	HabitID int64     `json:"habit_id" db:"habit_id"`
	LogDate time.Time `json:"log_date" db:"log_date"`
	Done    bool      `json:"done" db:"done"`
}

// HabitCompletion is one (email, day) pair on which at least one habit was done.
type HabitCompletion struct {
	Email string
	Date  time.Time
}
