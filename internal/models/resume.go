package models

import (
	"encoding/json"
	"time"
)

type Resume struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Filename     string    `json:"filename" db:"filename"`
	FilePath     string    `json:"-" db:"file_path"`
	FileContent  string    `json:"file_content" db:"file_content"`
	AnalysisData *string   `json:"-" db:"analysis_data"`
	ATSScore     *float64  `json:"ats_score" db:"ats_score"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Analysis decodes the stored analysis JSON. It returns nil when the resume
// has not been analyzed or the stored value is unreadable.
func (r *Resume) Analysis() *ResumeAnalysis {
	if r.AnalysisData == nil || *r.AnalysisData == "" {
		return nil
	}
	var analysis ResumeAnalysis
	if err := json.Unmarshal([]byte(*r.AnalysisData), &analysis); err != nil {
		return nil
	}
	return &analysis
}

// ResumeSummary is the listing form of a resume, without extracted text.
type ResumeSummary struct {
	ID        int64     `json:"id" db:"id"`
	Filename  string    `json:"filename" db:"filename"`
	ATSScore  *float64  `json:"ats_score" db:"ats_score"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ResumeAnalysis is the persisted critique of a resume.
type ResumeAnalysis struct {
	ATSScore        float64            `json:"ats_score"`
	Suggestions     []ResumeSuggestion `json:"suggestions"`
	Strengths       []string           `json:"strengths"`
	MissingSections []string           `json:"missing_sections"`
	Error           string             `json:"error,omitempty"`
}

type ResumeSuggestion struct {
	ID            string  `json:"id"`
	Category      string  `json:"category"`
	Severity      string  `json:"severity"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	OriginalText  *string `json:"original_text"`
	SuggestedText *string `json:"suggested_text"`
	Section       string  `json:"section"`
	LineHint      string  `json:"line_hint"`
}
