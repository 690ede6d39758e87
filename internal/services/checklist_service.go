package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"preppulse/internal/checklist"
	"preppulse/internal/llm"
	"preppulse/internal/models"
	"preppulse/internal/repositories"
)

const checklistPrompt = "Create a placement skill checklist for a student. " +
	"Return JSON only with schema {title: string, groups: [{name: string, items: " +
	"[{id: string, name: string, meta: string, status: 'learned'|'pending'}]}]}. " +
	"Use only ASCII characters. Provide exactly 4 groups with 3-5 items each. " +
	"Use short unique lowercase ids with hyphens. " +
	"Status should reflect the student's readiness where possible."

var checklistSchema = &llm.Schema{
	Name: "skill_checklist",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"groups"},
		"properties": map[string]any{
			"title": map[string]any{"type": "string"},
			"groups": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":     "object",
					"required": []any{"name", "items"},
					"properties": map[string]any{
						"name": map[string]any{"type": "string"},
						"items": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type":     "object",
								"required": []any{"name"},
								"properties": map[string]any{
									"id":     map[string]any{"type": "string"},
									"name":   map[string]any{"type": "string"},
									"meta":   map[string]any{"type": "string"},
									"status": map[string]any{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
	},
}

// ChecklistGenerator builds a personalized checklist. It never fails: any
// problem yields the default checklist.
type ChecklistGenerator interface {
	Generate(ctx context.Context, onboarding *models.OnboardingResponse) *checklist.Checklist
}

type llmChecklistGenerator struct {
	provider llm.Provider
	timeout  time.Duration
}

// NewChecklistGenerator accepts a nil provider, in which case every call
// returns the default checklist.
func NewChecklistGenerator(provider llm.Provider, timeout time.Duration) ChecklistGenerator {
	return &llmChecklistGenerator{provider: provider, timeout: timeout}
}

type studentContext struct {
	Department     *string  `json:"department"`
	ProblemSolving *int     `json:"problem_solving"`
	ResumeReady    *int     `json:"resume_ready"`
	InterviewReady *int     `json:"interview_ready"`
	Consistency    *int     `json:"consistency"`
	OverallScore   *float64 `json:"overall_score"`
}

func (g *llmChecklistGenerator) Generate(ctx context.Context, onboarding *models.OnboardingResponse) *checklist.Checklist {
	if g.provider == nil {
		return checklist.Default()
	}

	var student studentContext
	if onboarding != nil {
		student = studentContext{
			Department:     &onboarding.Department,
			ProblemSolving: &onboarding.ProblemSolving,
			ResumeReady:    &onboarding.ResumeReady,
			InterviewReady: &onboarding.InterviewReady,
			Consistency:    &onboarding.Consistency,
			OverallScore:   &onboarding.OverallScore,
		}
	}
	studentJSON, _ := json.Marshal(student)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: "You are a placement mentor.",
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: checklistPrompt},
			{Role: llm.RoleUser, Content: "Student context: " + string(studentJSON)},
		},
		Format:      llm.FormatJSON,
		Schema:      checklistSchema,
		Temperature: 0.2,
	})
	if err != nil {
		log.Printf("WARN: checklist generation failed, using default: %v", err)
		return checklist.Default()
	}

	c, err := checklist.Parse([]byte(resp.Content))
	if err != nil {
		log.Printf("WARN: generated checklist rejected, using default: %v", err)
		return checklist.Default()
	}
	return c
}

var (
	ErrChecklistNotFound = fmt.Errorf("checklist not found: %w", repositories.ErrNotFound)
	ErrItemNotFound      = fmt.Errorf("item not found: %w", repositories.ErrNotFound)
)

type ChecklistService interface {
	// GetOrCreate returns the stored checklist, generating and saving one
	// when none exists or the stored value is unusable.
	GetOrCreate(ctx context.Context, email string) (*checklist.Checklist, error)
	UpdateItem(ctx context.Context, email, itemID, status string) (*ChecklistProgress, error)
}

type ChecklistProgress struct {
	Done    int `json:"done"`
	Pending int `json:"pending"`
}

type checklistService struct {
	repo       repositories.ChecklistRepository
	onboarding repositories.OnboardingRepository
	generator  ChecklistGenerator
}

func NewChecklistService(repo repositories.ChecklistRepository, onboarding repositories.OnboardingRepository, generator ChecklistGenerator) ChecklistService {
	return &checklistService{repo: repo, onboarding: onboarding, generator: generator}
}

func (s *checklistService) load(ctx context.Context, email string) (*checklist.Checklist, error) {
	data, err := s.repo.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	return checklist.Parse([]byte(data))
}

func (s *checklistService) GetOrCreate(ctx context.Context, email string) (*checklist.Checklist, error) {
	c, err := s.load(ctx, email)
	switch {
	case err == nil:
		return c, nil
	case errors.Is(err, checklist.ErrInvalidChecklist):
		log.Printf("WARN: stored checklist for %s is invalid, regenerating: %v", email, err)
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("load checklist: %w", err)
	}

	onboarding, err := s.onboarding.Get(ctx, email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("load onboarding: %w", err)
	}

	c = s.generator.Generate(ctx, onboarding)
	if err := s.save(ctx, email, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *checklistService) UpdateItem(ctx context.Context, email, itemID, status string) (*ChecklistProgress, error) {
	st, ok := checklist.ParseStatus(status)
	if !ok || itemID == "" {
		return nil, invalid("Invalid payload")
	}

	c, err := s.load(ctx, email)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil, ErrChecklistNotFound
	case errors.Is(err, checklist.ErrInvalidChecklist):
		return nil, fmt.Errorf("stored checklist is corrupted: %w", err)
	case err != nil:
		return nil, err
	}
	if !c.SetStatus(itemID, st) {
		return nil, ErrItemNotFound
	}
	if err := s.save(ctx, email, c); err != nil {
		return nil, err
	}

	done, pending := c.Progress()
	return &ChecklistProgress{Done: done, Pending: pending}, nil
}

func (s *checklistService) save(ctx context.Context, email string, c *checklist.Checklist) error {
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("encode checklist: %w", err)
	}
	if err := s.repo.Save(ctx, email, data); err != nil {
		return fmt.Errorf("save checklist: %w", err)
	}
	return nil
}
