package repositories

import (
	"context"

	"preppulse/internal/models"
)

type MockTestRepository interface {
	Create(ctx context.Context, test *models.MockTest) error
	List(ctx context.Context, email string) ([]*models.MockTest, error)
	Update(ctx context.Context, test *models.MockTest) error
	Delete(ctx context.Context, email string, id int64) error
}

type mockTestRepo struct {
	db Database
}

func NewMockTestRepository(db Database) MockTestRepository {
	return &mockTestRepo{db: db}
}

func (r *mockTestRepo) Create(ctx context.Context, test *models.MockTest) error {
	query := `
		INSERT INTO mock_tests (email, test_name, source, score, max_score, date_taken, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, test.Email, test.TestName, test.Source, test.Score, test.MaxScore, test.DateTaken, test.Notes).
		Scan(&test.ID, &test.CreatedAt, &test.UpdatedAt)
}

func (r *mockTestRepo) List(ctx context.Context, email string) ([]*models.MockTest, error) {
	query := `
		SELECT id, email, test_name, source, score, max_score, to_char(date_taken, 'YYYY-MM-DD'), notes, created_at, updated_at
		FROM mock_tests
		WHERE email = $1
		ORDER BY date_taken DESC, created_at DESC
	`
	rows, err := r.db.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tests := []*models.MockTest{}
	for rows.Next() {
		t := &models.MockTest{}
		if err := rows.Scan(&t.ID, &t.Email, &t.TestName, &t.Source, &t.Score, &t.MaxScore, &t.DateTaken, &t.Notes, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

func (r *mockTestRepo) Update(ctx context.Context, test *models.MockTest) error {
	query := `
		UPDATE mock_tests
		SET test_name = $1, source = $2, score = $3, max_score = $4, date_taken = $5::date, notes = $6, updated_at = NOW()
		WHERE id = $7 AND email = $8
	`
	tag, err := r.db.Exec(ctx, query, test.TestName, test.Source, test.Score, test.MaxScore, test.DateTaken, test.Notes, test.ID, test.Email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mockTestRepo) Delete(ctx context.Context, email string, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM mock_tests WHERE id = $1 AND email = $2`, id, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
