package repositories

import (
	"context"

	"preppulse/internal/models"

	"github.com/jackc/pgx/v5"
)

type OnboardingRepository interface {
	// Save replaces the user's answers and marks onboarding as completed.
	Save(ctx context.Context, resp *models.OnboardingResponse) error
	Get(ctx context.Context, email string) (*models.OnboardingResponse, error)
}

type onboardingRepo struct {
	db Database
}

func NewOnboardingRepository(db Database) OnboardingRepository {
	return &onboardingRepo{db: db}
}

func (r *onboardingRepo) Save(ctx context.Context, resp *models.OnboardingResponse) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO onboarding_responses
				(email, department, problem_solving, resume_ready, interview_ready, consistency, overall_score, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			ON CONFLICT (email) DO UPDATE SET
				department = EXCLUDED.department,
				problem_solving = EXCLUDED.problem_solving,
				resume_ready = EXCLUDED.resume_ready,
				interview_ready = EXCLUDED.interview_ready,
				consistency = EXCLUDED.consistency,
				overall_score = EXCLUDED.overall_score,
				created_at = NOW()
			RETURNING id, created_at
		`
		err := tx.QueryRow(ctx, query, resp.Email, resp.Department, resp.ProblemSolving, resp.ResumeReady,
			resp.InterviewReady, resp.Consistency, resp.OverallScore).Scan(&resp.ID, &resp.CreatedAt)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO first_login (email, completed, updated_at)
			VALUES ($1, TRUE, NOW())
			ON CONFLICT (email) DO UPDATE SET completed = TRUE, updated_at = NOW()
		`, resp.Email)
		return err
	})
}

func (r *onboardingRepo) Get(ctx context.Context, email string) (*models.OnboardingResponse, error) {
	resp := &models.OnboardingResponse{}
	query := `
		SELECT id, email, department, problem_solving, resume_ready, interview_ready, consistency, overall_score, created_at
		FROM onboarding_responses
		WHERE email = $1
	`
	err := r.db.QueryRow(ctx, query, email).Scan(&resp.ID, &resp.Email, &resp.Department, &resp.ProblemSolving,
		&resp.ResumeReady, &resp.InterviewReady, &resp.Consistency, &resp.OverallScore, &resp.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return resp, nil
}
