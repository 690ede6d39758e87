package models

import "time"

type OnboardingResponse struct {
	ID             int64     `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	Department     string    `json:"department" db:"department"`
	ProblemSolving int       `json:"problem_solving" db:"problem_solving"`
	ResumeReady    int       `json:"resume_ready" db:"resume_ready"`
	InterviewReady int       `json:"interview_ready" db:"interview_ready"`
	Consistency    int       `json:"consistency" db:"consistency"`
	OverallScore   float64   `json:"overall_score" db:"overall_score"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
