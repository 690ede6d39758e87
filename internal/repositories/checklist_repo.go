package repositories

import "context"

// ChecklistRepository stores each user's checklist as a JSON document.
type ChecklistRepository interface {
	Get(ctx context.Context, email string) (string, error)
	Save(ctx context.Context, email, data string) error
}

type checklistRepo struct {
	db Database
}

func NewChecklistRepository(db Database) ChecklistRepository {
	return &checklistRepo{db: db}
}

func (r *checklistRepo) Get(ctx context.Context, email string) (string, error) {
	var data string
	err := r.db.QueryRow(ctx, `SELECT data FROM skill_checklists WHERE email = $1`, email).Scan(&data)
	if err != nil {
		return "", notFound(err)
	}
	return data, nil
}

func (r *checklistRepo) Save(ctx context.Context, email, data string) error {
	query := `
		INSERT INTO skill_checklists (email, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (email) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, email, data)
	return err
}
