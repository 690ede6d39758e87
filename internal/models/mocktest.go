package models

import "time"

type MockTest struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	TestName  string    `json:"test_name" db:"test_name"`
	Source    string    `json:"source" db:"source"`
	Score     float64   `json:"score" db:"score"`
	MaxScore  float64   `json:"max_score" db:"max_score"`
	DateTaken string    `json:"date_taken" db:"date_taken"` // YYYY-MM-DD
	Notes     string    `json:"notes" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
