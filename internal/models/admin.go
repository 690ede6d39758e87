package models

import (
	"encoding/json"
	"time"
)

// AdminUser is a user row joined with onboarding progress.
type AdminUser struct {
	ID             int64     `json:"id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	CreatedAt      time.Time `json:"created_at"`
	Department     *string   `json:"department"`
	OverallScore   *float64  `json:"overall_score"`
	OnboardingDone bool      `json:"onboarding_done"`
}

type AdminUserDetails struct {
	User       *User               `json:"user"`
	Onboarding *OnboardingResponse `json:"onboarding"`
	Checklist  json.RawMessage     `json:"checklist"`
	MockTests  []*MockTest         `json:"mock_tests"`
	Resumes    []*ResumeSummary    `json:"resumes"`
	Habits     []*Habit            `json:"habits"`
	FirstLogin *FirstLogin         `json:"first_login"`
}

type DepartmentCount struct {
	Department string `json:"department"`
	Count      int64  `json:"cnt"`
}

type AdminStats struct {
	TotalUsers     int64             `json:"total_users"`
	TotalResumes   int64             `json:"total_resumes"`
	TotalMockTests int64             `json:"total_mock_tests"`
	TotalHabits    int64             `json:"total_habits"`
	Onboarded      int64             `json:"onboarded"`
	AvgATS         float64           `json:"avg_ats"`
	AvgOnboarding  float64           `json:"avg_onboarding"`
	Departments    []DepartmentCount `json:"departments"`
}

// QueryResult is the tabular result of an admin table read or raw query.
type QueryResult struct {
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	Affected int64            `json:"affected"`
}
