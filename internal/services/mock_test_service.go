package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"preppulse/internal/models"
	"preppulse/internal/repositories"
)

type MockTestService interface {
	Create(ctx context.Context, email string, in MockTestInput) (int64, error)
	List(ctx context.Context, email string) ([]*models.MockTest, error)
	Update(ctx context.Context, email string, id int64, in MockTestInput) error
	Delete(ctx context.Context, email string, id int64) error
}

// MockTestInput accepts scores as JSON numbers or numeric strings.
type MockTestInput struct {
	TestName  string `json:"test_name"`
	Source    string `json:"source"`
	Score     any    `json:"score"`
	MaxScore  any    `json:"max_score"`
	DateTaken string `json:"date_taken"`
	Notes     string `json:"notes"`
}

type mockTestService struct {
	repo repositories.MockTestRepository
}

func NewMockTestService(repo repositories.MockTestRepository) MockTestService {
	return &mockTestService{repo: repo}
}

func (s *mockTestService) Create(ctx context.Context, email string, in MockTestInput) (int64, error) {
	test, err := buildMockTest(email, in)
	if err != nil {
		return 0, err
	}
	if err := s.repo.Create(ctx, test); err != nil {
		return 0, fmt.Errorf("create mock test: %w", err)
	}
	return test.ID, nil
}

func (s *mockTestService) List(ctx context.Context, email string) ([]*models.MockTest, error) {
	return s.repo.List(ctx, email)
}

func (s *mockTestService) Update(ctx context.Context, email string, id int64, in MockTestInput) error {
	test, err := buildMockTest(email, in)
	if err != nil {
		return err
	}
	test.ID = id
	return s.repo.Update(ctx, test)
}

func (s *mockTestService) Delete(ctx context.Context, email string, id int64) error {
	return s.repo.Delete(ctx, email, id)
}

func buildMockTest(email string, in MockTestInput) (*models.MockTest, error) {
	score, ok1 := parseNumber(in.Score)
	maxScore, ok2 := parseNumber(in.MaxScore)
	if !ok1 || !ok2 {
		return nil, invalid("Score values must be numeric.")
	}

	test := &models.MockTest{
		Email:     email,
		TestName:  strings.TrimSpace(in.TestName),
		Source:    strings.TrimSpace(in.Source),
		Score:     score,
		MaxScore:  maxScore,
		DateTaken: strings.TrimSpace(in.DateTaken),
		Notes:     strings.TrimSpace(in.Notes),
	}
	if test.TestName == "" || test.Source == "" || test.DateTaken == "" {
		return nil, invalid("Please fill in all required fields.")
	}
	if _, err := time.Parse(time.DateOnly, test.DateTaken); err != nil {
		return nil, invalid("Date must be in YYYY-MM-DD format.")
	}
	if maxScore <= 0 || score < 0 || score > maxScore {
		return nil, invalid("Score must be between 0 and max score.")
	}
	return test, nil
}

func parseNumber(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
