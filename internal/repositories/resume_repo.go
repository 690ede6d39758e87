package repositories

import (
	"context"

	"preppulse/internal/models"
)

type ResumeRepository interface {
	Create(ctx context.Context, resume *models.Resume) error
	GetLatest(ctx context.Context, email string) (*models.Resume, error)
	GetByID(ctx context.Context, email string, id int64) (*models.Resume, error)
	List(ctx context.Context, email string) ([]*models.ResumeSummary, error)
	SaveAnalysis(ctx context.Context, email string, id int64, analysisJSON string, atsScore float64) error
}

type resumeRepo struct {
	db Database
}

func NewResumeRepository(db Database) ResumeRepository {
	return &resumeRepo{db: db}
}

const resumeColumns = `id, email, filename, file_path, file_content, analysis_data, ats_score, created_at, updated_at`

func (r *resumeRepo) Create(ctx context.Context, resume *models.Resume) error {
	query := `
		INSERT INTO resumes (email, filename, file_path, file_content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, resume.Email, resume.Filename, resume.FilePath, resume.FileContent).
		Scan(&resume.ID, &resume.CreatedAt, &resume.UpdatedAt)
}

func (r *resumeRepo) GetLatest(ctx context.Context, email string) (*models.Resume, error) {
	query := `SELECT ` + resumeColumns + `
		FROM resumes
		WHERE email = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	return r.scanOne(ctx, query, email)
}

func (r *resumeRepo) GetByID(ctx context.Context, email string, id int64) (*models.Resume, error) {
	query := `SELECT ` + resumeColumns + `
		FROM resumes
		WHERE id = $1 AND email = $2
	`
	return r.scanOne(ctx, query, id, email)
}

func (r *resumeRepo) scanOne(ctx context.Context, query string, args ...any) (*models.Resume, error) {
	res := &models.Resume{}
	err := r.db.QueryRow(ctx, query, args...).Scan(&res.ID, &res.Email, &res.Filename, &res.FilePath,
		&res.FileContent, &res.AnalysisData, &res.ATSScore, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return res, nil
}

func (r *resumeRepo) List(ctx context.Context, email string) ([]*models.ResumeSummary, error) {
	return listResumeSummaries(ctx, r.db, email)
}

func listResumeSummaries(ctx context.Context, db Database, email string) ([]*models.ResumeSummary, error) {
	query := `
		SELECT id, filename, ats_score, created_at
		FROM resumes
		WHERE email = $1
		ORDER BY created_at DESC
	`
	rows, err := db.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resumes := []*models.ResumeSummary{}
	for rows.Next() {
		s := &models.ResumeSummary{}
		if err := rows.Scan(&s.ID, &s.Filename, &s.ATSScore, &s.CreatedAt); err != nil {
			return nil, err
		}
		resumes = append(resumes, s)
	}
	return resumes, rows.Err()
}

// SaveAnalysis overwrites any previous analysis of the resume.
func (r *resumeRepo) SaveAnalysis(ctx context.Context, email string, id int64, analysisJSON string, atsScore float64) error {
	query := `
		UPDATE resumes
		SET analysis_data = $1, ats_score = $2, updated_at = NOW()
		WHERE id = $3 AND email = $4
	`
	tag, err := r.db.Exec(ctx, query, analysisJSON, atsScore, id, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
