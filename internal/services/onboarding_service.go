package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"preppulse/internal/models"
	"preppulse/internal/repositories"
)

const msgIncompleteOnboarding = "Please complete all questions."

type OnboardingService interface {
	Submit(ctx context.Context, email string, in OnboardingInput) (*models.OnboardingResponse, error)
	// Get returns nil, nil when the user has not onboarded yet.
	Get(ctx context.Context, email string) (*models.OnboardingResponse, error)
}

// OnboardingInput accepts the scores as numbers or numeric strings.
type OnboardingInput struct {
	Department     string `json:"department"`
	ProblemSolving any    `json:"problem_solving"`
	ResumeReady    string `json:"resume_ready"`
	InterviewReady string `json:"interview_ready"`
	Consistency    any    `json:"consistency"`
}

type onboardingService struct {
	repo repositories.OnboardingRepository
}

func NewOnboardingService(repo repositories.OnboardingRepository) OnboardingService {
	return &onboardingService{repo: repo}
}

func (s *onboardingService) Submit(ctx context.Context, email string, in OnboardingInput) (*models.OnboardingResponse, error) {
	department := strings.TrimSpace(in.Department)
	problemSolving, ok1 := parseScale(in.ProblemSolving)
	consistency, ok2 := parseScale(in.Consistency)
	resumeScore, ok3 := yesNoScore(in.ResumeReady)
	interviewScore, ok4 := yesNoScore(in.InterviewReady)
	if department == "" || !ok1 || !ok2 || !ok3 || !ok4 {
		return nil, invalid(msgIncompleteOnboarding)
	}

	resp := &models.OnboardingResponse{
		Email:          email,
		Department:     department,
		ProblemSolving: problemSolving,
		ResumeReady:    resumeScore,
		InterviewReady: interviewScore,
		Consistency:    consistency,
		OverallScore:   overallScore(problemSolving, consistency, resumeScore, interviewScore),
	}
	if err := s.repo.Save(ctx, resp); err != nil {
		return nil, fmt.Errorf("save onboarding: %w", err)
	}
	return resp, nil
}

func (s *onboardingService) Get(ctx context.Context, email string) (*models.OnboardingResponse, error) {
	resp, err := s.repo.Get(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	return resp, err
}

func overallScore(scores ...int) float64 {
	sum := 0
	for _, s := range scores {
		sum += s
	}
	avg := float64(sum) / float64(len(scores))
	return math.Round(avg*10) / 10
}

func yesNoScore(v string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes":
		return 10, true
	case "no":
		return 5, true
	}
	return 0, false
}

// parseScale accepts an integer 0-10 given as a JSON number or a string.
func parseScale(v any) (int, bool) {
	var n int
	switch t := v.(type) {
	case float64:
		if t != math.Trunc(t) {
			return 0, false
		}
		n = int(t)
	case int:
		n = t
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if n < 0 || n > 10 {
		return 0, false
	}
	return n, true
}
