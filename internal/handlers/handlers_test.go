package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"preppulse/internal/common"
	"preppulse/internal/leaderboard"
	"preppulse/internal/middleware"
	"preppulse/internal/models"
	"preppulse/internal/repositories"
	"preppulse/internal/services"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	userSID  = "user-session"
	adminSID = "admin-session"
	email    = "asha@example.com"
)

type HandlersTestSuite struct {
	suite.Suite
	e *echo.Echo

	auth        *MockAuthService
	onboarding  *MockOnboardingService
	dashboard   *MockDashboardService
	checklists  *MockChecklistService
	mockTests   *MockMockTestService
	habits      *MockHabitService
	leaderboard *MockLeaderboardService
	resumes     *MockResumeService
	chat        *MockChatService
	admin       *MockAdminService
}

func (s *HandlersTestSuite) SetupTest() {
	s.auth = new(MockAuthService)
	s.onboarding = new(MockOnboardingService)
	s.dashboard = new(MockDashboardService)
	s.checklists = new(MockChecklistService)
	s.mockTests = new(MockMockTestService)
	s.habits = new(MockHabitService)
	s.leaderboard = new(MockLeaderboardService)
	s.resumes = new(MockResumeService)
	s.chat = new(MockChatService)
	s.admin = new(MockAdminService)

	s.auth.On("Session", mock.Anything, userSID).
		Return(&models.Session{Email: email, FullName: "Asha Rao"}, nil).Maybe()
	s.auth.On("Session", mock.Anything, adminSID).
		Return(&models.Session{Email: "admin@example.com", IsAdmin: true}, nil).Maybe()

	s.e = echo.New()
	s.e.HTTPErrorHandler = common.HTTPErrorHandler

	router := &Router{
		Auth:       NewAuthHandlers(s.auth, 24*time.Hour),
		Onboarding: NewOnboardingHandlers(s.onboarding),
		Dashboard:  NewDashboardHandlers(s.dashboard, s.checklists),
		MockTests:  NewMockTestHandlers(s.mockTests),
		Habits:     NewHabitHandlers(s.habits, s.leaderboard),
		Resumes:    NewResumeHandlers(s.resumes),
		Chat:       NewChatHandlers(s.chat),
		Admin:      NewAdminHandlers(s.admin),
	}
	router.Register(s.e, s.auth, middleware.NewVersionMiddleware("test"))
}

func (s *HandlersTestSuite) request(method, path, sid string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sid})
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *HandlersTestSuite) errorMessage(rec *httptest.ResponseRecorder) string {
	var body common.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Message
}

func (s *HandlersTestSuite) decode(rec *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v))
}

// Auth

func (s *HandlersTestSuite) TestLoginSetsSessionCookie() {
	s.auth.On("Login", mock.Anything, email, "secret1").Return(&services.LoginResult{
		SessionID: "new-sid",
		Session:   &models.Session{Email: email},
		Redirect:  "/onboarding",
	}, nil)

	rec := s.request(http.MethodPost, "/api/auth/login", "", LoginRequest{Email: email, Password: "secret1"})

	s.Equal(http.StatusOK, rec.Code)
	var resp LoginResponse
	s.decode(rec, &resp)
	s.Equal("/onboarding", resp.Redirect)
	s.False(resp.IsAdmin)

	cookies := rec.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal(middleware.SessionCookie, cookies[0].Name)
	s.Equal("new-sid", cookies[0].Value)
	s.True(cookies[0].HttpOnly)
}

func (s *HandlersTestSuite) TestLoginBadCredentials() {
	s.auth.On("Login", mock.Anything, email, "wrong").Return(nil, services.ErrInvalidCredentials)

	rec := s.request(http.MethodPost, "/api/auth/login", "", LoginRequest{Email: email, Password: "wrong"})

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("Invalid email or password.", s.errorMessage(rec))
}

func (s *HandlersTestSuite) TestRegisterDuplicateEmail() {
	s.auth.On("Register", mock.Anything, mock.Anything).Return(nil, services.ErrEmailTaken)

	rec := s.request(http.MethodPost, "/api/auth/register", "", services.RegisterInput{
		FullName: "Asha", Email: email, Password: "secret1", ConfirmPassword: "secret1",
	})
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *HandlersTestSuite) TestRegisterValidation() {
	s.auth.On("Register", mock.Anything, mock.Anything).
		Return(nil, &services.ValidationError{Message: "Passwords do not match."})

	rec := s.request(http.MethodPost, "/api/auth/register", "", services.RegisterInput{FullName: "A", Email: email})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Passwords do not match.", s.errorMessage(rec))
}

func (s *HandlersTestSuite) TestResetPasswordErrors() {
	s.auth.On("ResetPassword", mock.Anything, "old", "secret1", "secret1").Return(services.ErrExpiredResetToken)
	s.auth.On("ResetPassword", mock.Anything, "junk", "secret1", "secret1").Return(services.ErrInvalidResetToken)

	rec := s.request(http.MethodPost, "/api/auth/reset-password", "", ResetPasswordRequest{Token: "old", Password: "secret1", ConfirmPassword: "secret1"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Reset link has expired.", s.errorMessage(rec))

	rec = s.request(http.MethodPost, "/api/auth/reset-password", "", ResetPasswordRequest{Token: "junk", Password: "secret1", ConfirmPassword: "secret1"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Invalid reset link.", s.errorMessage(rec))
}

func (s *HandlersTestSuite) TestForgotPasswordIsGeneric() {
	s.auth.On("ForgotPassword", mock.Anything, "nobody@example.com").Return(nil)

	rec := s.request(http.MethodPost, "/api/auth/forgot-password", "", ForgotPasswordRequest{Email: "nobody@example.com"})
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "If an account exists, a reset link has been sent.")
}

func (s *HandlersTestSuite) TestLogoutClearsCookie() {
	s.auth.On("Logout", mock.Anything, userSID).Return(nil)

	rec := s.request(http.MethodPost, "/api/auth/logout", userSID, nil)
	s.Equal(http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal(-1, cookies[0].MaxAge)
}

func (s *HandlersTestSuite) TestMe() {
	rec := s.request(http.MethodGet, "/api/auth/me", userSID, nil)
	s.Equal(http.StatusOK, rec.Code)
	var me MeResponse
	s.decode(rec, &me)
	s.Equal(email, me.Email)
	s.Equal("Asha Rao", me.FullName)
	s.Equal("v1", rec.Header().Get("X-API-Version"))
}

func (s *HandlersTestSuite) TestProtectedRouteWithoutSession() {
	rec := s.request(http.MethodGet, "/api/dashboard", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("Unauthorized", s.errorMessage(rec))
}

// Dashboard and checklist

func (s *HandlersTestSuite) TestDashboard() {
	s.dashboard.On("Get", mock.Anything, email, "Asha Rao").
		Return(&services.Dashboard{FullName: "Asha Rao", Progress: services.ChecklistProgress{Done: 1, Pending: 3}}, nil)

	rec := s.request(http.MethodGet, "/api/dashboard", userSID, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"pending":3`)
}

func (s *HandlersTestSuite) TestChecklistUpdateErrors() {
	s.checklists.On("UpdateItem", mock.Anything, email, "missing", "learned").Return(nil, services.ErrItemNotFound)
	s.checklists.On("UpdateItem", mock.Anything, email, "x", "bogus").
		Return(nil, &services.ValidationError{Message: "Invalid payload"})

	rec := s.request(http.MethodPost, "/api/skill-checklist/update", userSID, ChecklistUpdateRequest{ItemID: "missing", Status: "learned"})
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("Item not found", s.errorMessage(rec))

	rec = s.request(http.MethodPost, "/api/skill-checklist/update", userSID, ChecklistUpdateRequest{ItemID: "x", Status: "bogus"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Invalid payload", s.errorMessage(rec))
}

func (s *HandlersTestSuite) TestChecklistUpdateProgress() {
	s.checklists.On("UpdateItem", mock.Anything, email, "dsa-1", "learned").
		Return(&services.ChecklistProgress{Done: 2, Pending: 5}, nil)

	rec := s.request(http.MethodPost, "/api/skill-checklist/update", userSID, ChecklistUpdateRequest{ItemID: "dsa-1", Status: "learned"})
	s.Equal(http.StatusOK, rec.Code)
	var p services.ChecklistProgress
	s.decode(rec, &p)
	s.Equal(services.ChecklistProgress{Done: 2, Pending: 5}, p)
}

// Onboarding

func (s *HandlersTestSuite) TestOnboardingGetWhenMissing() {
	s.onboarding.On("Get", mock.Anything, email).Return(nil, nil)

	rec := s.request(http.MethodGet, "/api/onboarding", userSID, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("null", strings.TrimSpace(rec.Body.String()))
}

func (s *HandlersTestSuite) TestOnboardingSubmit() {
	s.onboarding.On("Submit", mock.Anything, email, mock.AnythingOfType("services.OnboardingInput")).
		Return(&models.OnboardingResponse{Email: email, Department: "CSE", OverallScore: 7.5}, nil)

	rec := s.request(http.MethodPost, "/api/onboarding", userSID, map[string]any{
		"department": "CSE", "problem_solving": 6, "resume_ready": "yes", "interview_ready": "no", "consistency": "9",
	})
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"overall_score":7.5`)
}

// Mock tests

func (s *HandlersTestSuite) TestCreateMockTest() {
	s.mockTests.On("Create", mock.Anything, email, mock.AnythingOfType("services.MockTestInput")).Return(int64(12), nil)

	rec := s.request(http.MethodPost, "/api/mock-tests", userSID, map[string]any{
		"test_name": "Aptitude 1", "source": "IndiaBix", "score": 8, "max_score": 10, "date_taken": "2024-03-01",
	})
	s.Equal(http.StatusCreated, rec.Code)
	var resp idResponse
	s.decode(rec, &resp)
	s.Equal(int64(12), resp.ID)
}

func (s *HandlersTestSuite) TestCreateMockTestRejectsOutOfRangeScore() {
	s.mockTests.On("Create", mock.Anything, email, mock.Anything).
		Return(int64(0), &services.ValidationError{Message: "Score must be between 0 and max score."})

	rec := s.request(http.MethodPost, "/api/mock-tests", userSID, map[string]any{
		"test_name": "Aptitude 1", "source": "IndiaBix", "score": 15, "max_score": 10, "date_taken": "2024-03-01",
	})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Score must be between 0 and max score.", s.errorMessage(rec))
}

func (s *HandlersTestSuite) TestMockTestOtherUsersRowIsNotFound() {
	s.mockTests.On("Delete", mock.Anything, email, int64(99)).Return(repositories.ErrNotFound)

	rec := s.request(http.MethodDelete, "/api/mock-tests/99", userSID, nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("Not found", s.errorMessage(rec))
}

func (s *HandlersTestSuite) TestMockTestBadID() {
	rec := s.request(http.MethodDelete, "/api/mock-tests/abc", userSID, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlersTestSuite) TestListMockTestsEmpty() {
	s.mockTests.On("List", mock.Anything, email).Return(nil, nil)

	rec := s.request(http.MethodGet, "/api/mock-tests", userSID, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"items":[]}`, rec.Body.String())
}

// Habits and leaderboard

func (s *HandlersTestSuite) TestToggleHabit() {
	s.habits.On("Toggle", mock.Anything, email, services.ToggleInput{HabitID: 3, Date: "2024-01-02", Done: true}).Return(nil)

	rec := s.request(http.MethodPost, "/api/habits/toggle", userSID, map[string]any{"habit_id": 3, "date": "2024-01-02", "done": true})
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"ok"}`, rec.Body.String())
}

func (s *HandlersTestSuite) TestToggleOtherUsersHabit() {
	s.habits.On("Toggle", mock.Anything, email, mock.Anything).Return(repositories.ErrNotFound)

	rec := s.request(http.MethodPost, "/api/habits/toggle", userSID, map[string]any{"habit_id": 4, "date": "2024-01-02", "done": true})
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlersTestSuite) TestHabitLogs() {
	s.habits.On("MonthLogs", mock.Anything, email, 2024, 1).
		Return(&services.MonthLogs{Year: 2024, Month: 1, Logs: map[string]bool{"3_2024-01-02": true}}, nil)

	rec := s.request(http.MethodGet, "/api/habits/logs?year=2024&month=1", userSID, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"year":2024,"month":1,"logs":{"3_2024-01-02":true}}`, rec.Body.String())
}

func (s *HandlersTestSuite) TestHabitLogsDefaultsAndBadInput() {
	s.habits.On("MonthLogs", mock.Anything, email, 0, 0).
		Return(&services.MonthLogs{Year: 2026, Month: 10, Logs: map[string]bool{}}, nil)

	rec := s.request(http.MethodGet, "/api/habits/logs", userSID, nil)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.request(http.MethodGet, "/api/habits/logs?year=abc", userSID, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Invalid year/month.", s.errorMessage(rec))
}

func (s *HandlersTestSuite) TestLeaderboard() {
	s.leaderboard.On("Get", mock.Anything).Return([]leaderboard.Entry{
		{Email: email, Name: "Asha Rao", BestStreak: 3, CurrentStreak: 1, TotalHabits: 2},
	}, nil)

	rec := s.request(http.MethodGet, "/api/leaderboard", userSID, nil)
	s.Equal(http.StatusOK, rec.Code)
	var resp LeaderboardResponse
	s.decode(rec, &resp)
	s.Equal(email, resp.CurrentUser)
	s.Require().Len(resp.Items, 1)
	s.Equal(3, resp.Items[0].BestStreak)
}

// Resumes

func (s *HandlersTestSuite) uploadRequest(filename string, content []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	s.Require().NoError(err)
	_, err = part.Write(content)
	s.Require().NoError(err)
	s.Require().NoError(w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/resume/upload", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: userSID})
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *HandlersTestSuite) TestUploadResume() {
	content := []byte("Asha Rao\nSkills: Go, SQL")
	s.resumes.On("Upload", mock.Anything, email, "cv.txt", content).
		Return(&models.Resume{ID: 5, Filename: "cv.txt", FileContent: string(content)}, nil)

	rec := s.uploadRequest("cv.txt", content)
	s.Equal(http.StatusOK, rec.Code)
	var resp UploadResponse
	s.decode(rec, &resp)
	s.Equal(int64(5), resp.ID)
	s.Equal("Resume uploaded successfully", resp.Message)
}

func (s *HandlersTestSuite) TestUploadResumeRejected() {
	s.resumes.On("Upload", mock.Anything, email, "cv.exe", mock.Anything).
		Return(nil, &services.ValidationError{Message: "File type not allowed. Use PDF, DOC, DOCX, or TXT"})

	rec := s.uploadRequest("cv.exe", []byte("MZ"))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("File type not allowed. Use PDF, DOC, DOCX, or TXT", s.errorMessage(rec))
}

func (s *HandlersTestSuite) TestUploadWithoutFile() {
	rec := s.request(http.MethodPost, "/api/resume/upload", userSID, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("No file provided", s.errorMessage(rec))
}

func (s *HandlersTestSuite) TestLatestResumeNone() {
	s.resumes.On("Latest", mock.Anything, email).Return(nil, nil)

	rec := s.request(http.MethodGet, "/api/resume/latest", userSID, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"resume":null}`, rec.Body.String())
}

func (s *HandlersTestSuite) TestAnalyzeResume() {
	id := int64(5)
	s.resumes.On("Analyze", mock.Anything, email, &id).Return(&services.AnalyzeResult{
		ResumeID: 5, ATSScore: 72, Analysis: &models.ResumeAnalysis{ATSScore: 72},
	}, nil)

	rec := s.request(http.MethodPost, "/api/resume/analyze", userSID, map[string]any{"resume_id": 5})
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"ats_score":72`)
}

func (s *HandlersTestSuite) TestAnalyzeResumeErrors() {
	s.resumes.On("Analyze", mock.Anything, email, (*int64)(nil)).Return(nil, repositories.ErrNotFound).Once()

	rec := s.request(http.MethodPost, "/api/resume/analyze", userSID, nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("No resume found", s.errorMessage(rec))

	s.resumes.On("Analyze", mock.Anything, email, (*int64)(nil)).Return(nil, services.ErrAIUnavailable).Once()
	rec = s.request(http.MethodPost, "/api/resume/analyze", userSID, map[string]any{})
	s.Equal(http.StatusServiceUnavailable, rec.Code)
}

func (s *HandlersTestSuite) TestServeResumeFile() {
	id := int64(5)
	s.resumes.On("OpenFile", mock.Anything, email, &id).Return(&services.ResumeFile{
		Body:        io.NopCloser(strings.NewReader("%PDF-1.4")),
		Size:        8,
		Filename:    "cv.pdf",
		ContentType: "application/pdf",
	}, nil)

	rec := s.request(http.MethodGet, "/api/resume/file/5", userSID, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("application/pdf", rec.Header().Get(echo.HeaderContentType))
	s.Contains(rec.Header().Get(echo.HeaderContentDisposition), `inline; filename=cv.pdf`)
	s.Equal("%PDF-1.4", rec.Body.String())
}

func (s *HandlersTestSuite) TestServeResumeFileMissingObject() {
	s.resumes.On("OpenFile", mock.Anything, email, (*int64)(nil)).Return(nil, services.ErrObjectNotFound)

	rec := s.request(http.MethodGet, "/api/resume/file", userSID, nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("File not found", s.errorMessage(rec))
}

// Chat

func (s *HandlersTestSuite) TestChat() {
	audio, mime := "bXAz", "audio/mpeg"
	s.chat.On("Chat", mock.Anything, email, "How do I prepare?", "focus on DSA").
		Return(&services.ChatReply{Reply: "Practice daily.", Audio: &audio, Mime: &mime}, nil)

	rec := s.request(http.MethodPost, "/api/chat", userSID, ChatRequest{Message: "How do I prepare?", Context: "focus on DSA"})
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"reply":"Practice daily.","audio":"bXAz","mime":"audio/mpeg"}`, rec.Body.String())
}

func (s *HandlersTestSuite) TestChatErrors() {
	cases := []struct {
		err    error
		status int
	}{
		{&services.ValidationError{Message: "Message is required."}, http.StatusBadRequest},
		{services.ErrRateLimited, http.StatusTooManyRequests},
		{services.ErrChatFailed, http.StatusBadGateway},
		{services.ErrAIUnavailable, http.StatusServiceUnavailable},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		s.chat.On("Chat", mock.Anything, email, "hi", nil).Return(nil, tc.err).Once()
		rec := s.request(http.MethodPost, "/api/chat", userSID, ChatRequest{Message: "hi"})
		s.Equal(tc.status, rec.Code, tc.err.Error())
	}
	s.chat.AssertExpectations(s.T())
}

// Admin

func (s *HandlersTestSuite) TestAdminRoutesRequireAdmin() {
	rec := s.request(http.MethodGet, "/api/admin/stats", userSID, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.admin.AssertNotCalled(s.T(), "Stats", mock.Anything)
}

func (s *HandlersTestSuite) TestAdminStats() {
	s.admin.On("Stats", mock.Anything).Return(&models.AdminStats{TotalUsers: 4, AvgATS: 71.5}, nil)

	rec := s.request(http.MethodGet, "/api/admin/stats", adminSID, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"total_users":4`)
}

func (s *HandlersTestSuite) TestAdminUserDetailsNotFound() {
	s.admin.On("UserDetails", mock.Anything, "ghost@example.com").Return(nil, repositories.ErrNotFound)

	rec := s.request(http.MethodGet, "/api/admin/users/ghost@example.com", adminSID, nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("User not found", s.errorMessage(rec))
}

func (s *HandlersTestSuite) TestAdminUpdateUserConflict() {
	s.admin.On("UpdateUser", mock.Anything, email, services.AdminUserUpdate{NewEmail: "taken@example.com"}).
		Return(repositories.ErrDuplicateEmail)

	rec := s.request(http.MethodPut, "/api/admin/users/"+email, adminSID, services.AdminUserUpdate{NewEmail: "taken@example.com"})
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *HandlersTestSuite) TestAdminDeleteUser() {
	s.admin.On("DeleteUser", mock.Anything, email).Return(nil)

	rec := s.request(http.MethodDelete, "/api/admin/users/"+email, adminSID, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"ok":true}`, rec.Body.String())
}

func (s *HandlersTestSuite) TestAdminTableRows() {
	s.admin.On("TableRows", mock.Anything, "habits").Return(&models.QueryResult{
		Columns: []string{"id", "name"},
		Rows:    []map[string]any{{"id": 1, "name": "DSA"}},
	}, nil)
	s.admin.On("TableRows", mock.Anything, "nope").Return(nil, repositories.ErrUnknownTable)

	rec := s.request(http.MethodGet, "/api/admin/tables/habits", adminSID, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"table":"habits","columns":["id","name"],"rows":[{"id":1,"name":"DSA"}]}`, rec.Body.String())

	rec = s.request(http.MethodGet, "/api/admin/tables/nope", adminSID, nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("Table not found", s.errorMessage(rec))
}

func (s *HandlersTestSuite) TestAdminDeleteRow() {
	s.admin.On("DeleteRow", mock.Anything, "habits", int64(7)).Return(int64(1), nil)

	rec := s.request(http.MethodDelete, "/api/admin/tables/habits/rows/7", adminSID, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"ok":true,"affected":1}`, rec.Body.String())
}

func (s *HandlersTestSuite) TestAdminQuery() {
	s.admin.On("RunQuery", mock.Anything, "SELECT 1 AS one").Return(&models.QueryResult{
		Columns: []string{"one"}, Rows: []map[string]any{{"one": 1}}, Affected: 1,
	}, nil)

	rec := s.request(http.MethodPost, "/api/admin/query", adminSID, QueryRequest{SQL: "SELECT 1 AS one"})
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"columns":["one"],"rows":[{"one":1}],"affected":1}`, rec.Body.String())
}

func (s *HandlersTestSuite) TestAdminQueryDriverErrorIsVerbatim() {
	pgErr := &pgconn.PgError{Severity: "ERROR", Code: "42601", Message: `syntax error at or near "SELEC"`}
	s.admin.On("RunQuery", mock.Anything, "SELEC 1").Return(nil, pgErr)
	s.admin.On("RunQuery", mock.Anything, "").Return(nil, &services.ValidationError{Message: "Empty query"})

	rec := s.request(http.MethodPost, "/api/admin/query", adminSID, map[string]string{"query": "SELEC 1"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(pgErr.Error(), s.errorMessage(rec))

	rec = s.request(http.MethodPost, "/api/admin/query", adminSID, QueryRequest{})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Empty query", s.errorMessage(rec))
}

func (s *HandlersTestSuite) TestAdminLeaderboard() {
	s.admin.On("Leaderboard", mock.Anything).Return(nil, nil)

	rec := s.request(http.MethodGet, "/api/admin/leaderboard", adminSID, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[]`, rec.Body.String())
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
