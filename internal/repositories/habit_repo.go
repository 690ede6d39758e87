package repositories

import (
	"context"
	"time"

	"preppulse/internal/models"
)

type HabitRepository interface {
	Create(ctx context.Context, habit *models.Habit) error
	List(ctx context.Context, email string) ([]*models.Habit, error)
	Update(ctx context.Context, habit *models.Habit) error
	Delete(ctx context.Context, email string, id int64) error

	// SetLog upserts the (habit, day) log. It returns ErrNotFound when the
	// habit does not belong to email.
	SetLog(ctx context.Context, email string, habitID int64, day time.Time, done bool) error
	LogsBetween(ctx context.Context, email string, from, to time.Time) ([]*models.HabitLog, error)

	Completions(ctx context.Context) ([]models.HabitCompletion, error)
	CountsByEmail(ctx context.Context) (map[string]int, error)
}

type habitRepo struct {
	db Database
}

func NewHabitRepository(db Database) HabitRepository {
	return &habitRepo{db: db}
}

func (r *habitRepo) Create(ctx context.Context, habit *models.Habit) error {
	query := `
		INSERT INTO habits (email, name, color, position, created_at)
		SELECT $1, $2, $3, COALESCE(MAX(position), -1) + 1, NOW()
		FROM habits
		WHERE email = $1
		RETURNING id, position, created_at
	`
	return r.db.QueryRow(ctx, query, habit.Email, habit.Name, habit.Color).Scan(&habit.ID, &habit.Position, &habit.CreatedAt)
}

func (r *habitRepo) List(ctx context.Context, email string) ([]*models.Habit, error) {
	query := `
		SELECT id, email, name, color, position, created_at
		FROM habits
		WHERE email = $1
		ORDER BY position, id
	`
	rows, err := r.db.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []*models.Habit{}
	for rows.Next() {
		h := &models.Habit{}
		if err := rows.Scan(&h.ID, &h.Email, &h.Name, &h.Color, &h.Position, &h.CreatedAt); err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (r *habitRepo) Update(ctx context.Context, habit *models.Habit) error {
	tag, err := r.db.Exec(ctx, `UPDATE habits SET name = $1, color = $2 WHERE id = $3 AND email = $4`,
		habit.Name, habit.Color, habit.ID, habit.Email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the habit; its logs go with it through ON DELETE CASCADE.
func (r *habitRepo) Delete(ctx context.Context, email string, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM habits WHERE id = $1 AND email = $2`, id, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *habitRepo) SetLog(ctx context.Context, email string, habitID int64, day time.Time, done bool) error {
	query := `
		INSERT INTO habit_logs (habit_id, email, log_date, done)
		SELECT id, email, $3::date, $4::boolean
		FROM habits
		WHERE id = $1 AND email = $2
		ON CONFLICT (habit_id, log_date) DO UPDATE SET done = EXCLUDED.done
	`
	tag, err := r.db.Exec(ctx, query, habitID, email, day, done)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// LogsBetween returns logs with from <= log_date < to.
func (r *habitRepo) LogsBetween(ctx context.Context, email string, from, to time.Time) ([]*models.HabitLog, error) {
	query := `
		SELECT hl.habit_id, hl.log_date, hl.done
		FROM habit_logs hl
		JOIN habits h ON h.id = hl.habit_id
		WHERE hl.email = $1 AND hl.log_date >= $2 AND hl.log_date < $3
		ORDER BY hl.log_date, hl.habit_id
	`
	rows, err := r.db.Query(ctx, query, email, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []*models.HabitLog{}
	for rows.Next() {
		l := &models.HabitLog{}
		if err := rows.Scan(&l.HabitID, &l.LogDate, &l.Done); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// Completions lists every distinct (email, day) with at least one done habit.
func (r *habitRepo) Completions(ctx context.Context) ([]models.HabitCompletion, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT email, log_date
		FROM habit_logs
		WHERE done
		ORDER BY email, log_date
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.HabitCompletion
	for rows.Next() {
		var c models.HabitCompletion
		if err := rows.Scan(&c.Email, &c.Date); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *habitRepo) CountsByEmail(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT email, COUNT(*) FROM habits GROUP BY email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var email string
		var n int
		if err := rows.Scan(&email, &n); err != nil {
			return nil, err
		}
		counts[email] = n
	}
	return counts, rows.Err()
}
