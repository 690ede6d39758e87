package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"
	"unicode/utf8"

	"preppulse/internal/extract"
	"preppulse/internal/llm"
	"preppulse/internal/models"
	"preppulse/internal/repositories"
)

const maxResumeChars = 12000

const analysisSystemPrompt = "You are a concise ATS resume expert. Give brief, direct feedback. No lengthy explanations."

const analysisPrompt = `Analyze this resume for ATS optimization. Give SHORT, CONCISE feedback.

Return JSON with:
1. "ats_score": 0-100 ATS compatibility score
2. "suggestions": Array (max 8 items), each with:
   - "id": e.g., "sug-1"
   - "category": "formatting" | "content" | "keywords" | "structure" | "grammar"
   - "severity": "critical" | "important" | "minor"
   - "title": 3-6 words max
   - "description": 1-2 sentences max, be direct
   - "original_text": EXACT text from resume needing change (null if general advice)
   - "suggested_text": Fixed version (null if general advice)
   - "section": "Experience" | "Skills" | "Education" | "Summary" | "Contact" | "Projects"
   - "line_hint": approximate line number or position hint (e.g., "near top", "middle", "line 15")
3. "strengths": 3-5 brief points (5-10 words each)
4. "missing_sections": Array of missing recommended sections

IMPORTANT: Keep all text brief and actionable. No fluff.

Resume content:
`

var nullableString = map[string]any{"type": []any{"string", "null"}}

var analysisSchema = &llm.Schema{
	Name: "resume_analysis",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"ats_score", "suggestions", "strengths", "missing_sections"},
		"properties": map[string]any{
			"ats_score": map[string]any{"type": "number", "minimum": 0, "maximum": 100},
			"suggestions": map[string]any{
				"type":     "array",
				"maxItems": 8,
				"items": map[string]any{
					"type":     "object",
					"required": []any{"id", "category", "severity", "title", "description"},
					"properties": map[string]any{
						"id":             map[string]any{"type": "string"},
						"category":       map[string]any{"enum": []any{"formatting", "content", "keywords", "structure", "grammar"}},
						"severity":       map[string]any{"enum": []any{"critical", "important", "minor"}},
						"title":          map[string]any{"type": "string"},
						"description":    map[string]any{"type": "string"},
						"original_text":  nullableString,
						"suggested_text": nullableString,
						"section":        map[string]any{"type": "string"},
						"line_hint":      map[string]any{"type": "string"},
					},
				},
			},
			"strengths":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"missing_sections": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
	},
}

// ResumeAnalyzer critiques resume text. Failures are reported inside the
// returned analysis, never as an error.
type ResumeAnalyzer interface {
	Analyze(ctx context.Context, text string) *models.ResumeAnalysis
}

type llmResumeAnalyzer struct {
	provider llm.Provider
	timeout  time.Duration
}

// NewResumeAnalyzer returns nil when provider is nil, so that analysis
// reports ErrAIUnavailable instead of calling a missing provider.
func NewResumeAnalyzer(provider llm.Provider, timeout time.Duration) ResumeAnalyzer {
	if provider == nil {
		return nil
	}
	return &llmResumeAnalyzer{provider: provider, timeout: timeout}
}

func degradedAnalysis(reason string) *models.ResumeAnalysis {
	return &models.ResumeAnalysis{
		Error:           reason,
		Suggestions:     []models.ResumeSuggestion{},
		Strengths:       []string{},
		MissingSections: []string{},
	}
}

func (a *llmResumeAnalyzer) Analyze(ctx context.Context, text string) *models.ResumeAnalysis {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.provider.Generate(ctx, llm.Request{
		System:      analysisSystemPrompt,
		Messages:    llm.UserPrompt(analysisPrompt + truncateRunes(text, maxResumeChars)),
		Format:      llm.FormatJSON,
		Schema:      analysisSchema,
		MaxTokens:   2048,
		Temperature: 0.3,
	})
	if err != nil {
		log.Printf("WARN: resume analysis failed: %v", err)
		var invalidResp *llm.ErrInvalidResponse
		if errors.As(err, &invalidResp) {
			return degradedAnalysis("Failed to parse AI response")
		}
		return degradedAnalysis(err.Error())
	}

	var analysis models.ResumeAnalysis
	if err := json.Unmarshal([]byte(resp.Content), &analysis); err != nil {
		log.Printf("WARN: resume analysis decode failed: %v", err)
		return degradedAnalysis("Failed to parse AI response")
	}
	if analysis.Suggestions == nil {
		analysis.Suggestions = []models.ResumeSuggestion{}
	}
	if analysis.Strengths == nil {
		analysis.Strengths = []string{}
	}
	if analysis.MissingSections == nil {
		analysis.MissingSections = []string{}
	}
	return &analysis
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// ResumeDetail is the latest-resume view, with the analysis decoded.
type ResumeDetail struct {
	ID          int64                  `json:"id"`
	Filename    string                 `json:"filename"`
	FileContent string                 `json:"file_content"`
	ATSScore    *float64               `json:"ats_score"`
	Analysis    *models.ResumeAnalysis `json:"analysis"`
	CreatedAt   time.Time              `json:"created_at"`
}

type AnalyzeResult struct {
	ResumeID int64                  `json:"resume_id"`
	ATSScore float64                `json:"ats_score"`
	Analysis *models.ResumeAnalysis `json:"analysis"`
}

// ResumeFile is an open stored file. The caller must close Body.
type ResumeFile struct {
	Body        io.ReadCloser
	Size        int64
	Filename    string
	ContentType string
}

type ResumeService interface {
	Upload(ctx context.Context, email, filename string, data []byte) (*models.Resume, error)
	// Latest returns nil, nil when the user has no resume.
	Latest(ctx context.Context, email string) (*ResumeDetail, error)
	List(ctx context.Context, email string) ([]*models.ResumeSummary, error)
	// Analyze uses the given resume, or the latest one when id is nil.
	Analyze(ctx context.Context, email string, id *int64) (*AnalyzeResult, error)
	OpenFile(ctx context.Context, email string, id *int64) (*ResumeFile, error)
}

type resumeService struct {
	repo     repositories.ResumeRepository
	storage  StorageService
	analyzer ResumeAnalyzer
}

// NewResumeService accepts a nil analyzer when no AI provider is configured.
func NewResumeService(repo repositories.ResumeRepository, storage StorageService, analyzer ResumeAnalyzer) ResumeService {
	return &resumeService{repo: repo, storage: storage, analyzer: analyzer}
}

func (s *resumeService) Upload(ctx context.Context, email, filename string, data []byte) (*models.Resume, error) {
	if filename == "" {
		return nil, invalid("No file selected")
	}
	if !extract.Allowed(filename) {
		return nil, invalid("File type not allowed. Use PDF, DOC, DOCX, or TXT")
	}
	safe := extract.SafeFilename(filename)
	if safe == "" || !extract.Allowed(safe) {
		return nil, invalid("Invalid filename")
	}

	text, err := extract.Text(safe, data)
	if err != nil {
		log.Printf("WARN: text extraction failed for %s: %v", safe, err)
	}
	if text == "" {
		return nil, invalid("Could not extract text from the uploaded file.")
	}

	objectName := ResumeObjectName(email, safe)
	if err := s.storage.Upload(ctx, objectName, data, extract.MimeType(safe)); err != nil {
		return nil, fmt.Errorf("store resume file: %w", err)
	}

	resume := &models.Resume{Email: email, Filename: safe, FilePath: objectName, FileContent: text}
	if err := s.repo.Create(ctx, resume); err != nil {
		if derr := s.storage.Delete(ctx, objectName); derr != nil {
			log.Printf("WARN: failed to remove orphaned object %s: %v", objectName, derr)
		}
		return nil, fmt.Errorf("save resume: %w", err)
	}
	return resume, nil
}

func (s *resumeService) Latest(ctx context.Context, email string) (*ResumeDetail, error) {
	r, err := s.repo.GetLatest(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ResumeDetail{
		ID:          r.ID,
		Filename:    r.Filename,
		FileContent: r.FileContent,
		ATSScore:    r.ATSScore,
		Analysis:    r.Analysis(),
		CreatedAt:   r.CreatedAt,
	}, nil
}

func (s *resumeService) List(ctx context.Context, email string) ([]*models.ResumeSummary, error) {
	return s.repo.List(ctx, email)
}

func (s *resumeService) pick(ctx context.Context, email string, id *int64) (*models.Resume, error) {
	if id != nil {
		return s.repo.GetByID(ctx, email, *id)
	}
	return s.repo.GetLatest(ctx, email)
}

func (s *resumeService) Analyze(ctx context.Context, email string, id *int64) (*AnalyzeResult, error) {
	r, err := s.pick(ctx, email, id)
	if err != nil {
		return nil, err
	}
	if r.FileContent == "" {
		return nil, invalid("Resume has no extracted text to analyze.")
	}
	if s.analyzer == nil {
		return nil, ErrAIUnavailable
	}

	analysis := s.analyzer.Analyze(ctx, r.FileContent)
	data, err := json.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("encode analysis: %w", err)
	}
	if err := s.repo.SaveAnalysis(ctx, email, r.ID, string(data), analysis.ATSScore); err != nil {
		return nil, fmt.Errorf("save analysis: %w", err)
	}
	return &AnalyzeResult{ResumeID: r.ID, ATSScore: analysis.ATSScore, Analysis: analysis}, nil
}

func (s *resumeService) OpenFile(ctx context.Context, email string, id *int64) (*ResumeFile, error) {
	r, err := s.pick(ctx, email, id)
	if err != nil {
		return nil, err
	}
	body, size, err := s.storage.Open(ctx, r.FilePath)
	if err != nil {
		return nil, err
	}
	return &ResumeFile{Body: body, Size: size, Filename: r.Filename, ContentType: extract.MimeType(r.Filename)}, nil
}
