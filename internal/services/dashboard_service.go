package services

import (
	"context"
	"errors"
	"fmt"

	"preppulse/internal/checklist"
	"preppulse/internal/models"
	"preppulse/internal/repositories"
)

type Dashboard struct {
	FullName   string                     `json:"full_name"`
	Checklist  *checklist.Checklist       `json:"checklist"`
	Progress   ChecklistProgress          `json:"progress"`
	Onboarding *models.OnboardingResponse `json:"onboarding"`
	Analysis   *models.ResumeAnalysis     `json:"analysis"`
}

type DashboardService interface {
	// Get builds the dashboard. The name is read from the users table so that
	// renames show up without a new login; fullName is used only when there
	// is no user row, as for the configured admin.
	Get(ctx context.Context, email, fullName string) (*Dashboard, error)
}

type dashboardService struct {
	checklists ChecklistService
	onboarding OnboardingService
	resumes    repositories.ResumeRepository
	users      repositories.UserRepository
}

func NewDashboardService(checklists ChecklistService, onboarding OnboardingService, resumes repositories.ResumeRepository, users repositories.UserRepository) DashboardService {
	return &dashboardService{checklists: checklists, onboarding: onboarding, resumes: resumes, users: users}
}

func (s *dashboardService) Get(ctx context.Context, email, fullName string) (*Dashboard, error) {
	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		fullName = user.FullName
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("load user: %w", err)
	}

	c, err := s.checklists.GetOrCreate(ctx, email)
	if err != nil {
		return nil, err
	}
	onboarding, err := s.onboarding.Get(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("load onboarding: %w", err)
	}

	d := &Dashboard{FullName: fullName, Checklist: c, Onboarding: onboarding}
	d.Progress.Done, d.Progress.Pending = c.Progress()

	latest, err := s.resumes.GetLatest(ctx, email)
	switch {
	case err == nil:
		d.Analysis = latestAnalysis(latest)
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("load latest resume: %w", err)
	}
	return d, nil
}

// latestAnalysis returns the stored analysis with the row's ATS score, which
// is authoritative.
func latestAnalysis(r *models.Resume) *models.ResumeAnalysis {
	a := r.Analysis()
	if a != nil && r.ATSScore != nil {
		a.ATSScore = *r.ATSScore
	}
	return a
}
