package handlers

import (
	"context"
	"io"

	"preppulse/internal/checklist"
	"preppulse/internal/leaderboard"
	"preppulse/internal/models"
	"preppulse/internal/services"

	"github.com/stretchr/testify/mock"
)

// ret returns args.Get(0) as T, or the zero T when it is nil.
func ret[T any](args mock.Arguments) T {
	var zero T
	if v := args.Get(0); v != nil {
		return v.(T)
	}
	return zero
}

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, in)
	return ret[*models.User](args), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	args := m.Called(ctx, email, password)
	return ret[*services.LoginResult](args), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockAuthService) Session(ctx context.Context, sessionID string) (*models.Session, error) {
	args := m.Called(ctx, sessionID)
	return ret[*models.Session](args), args.Error(1)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, password, confirm string) error {
	return m.Called(ctx, token, password, confirm).Error(0)
}

func (m *MockAuthService) GenerateResetToken(email string) (string, error) {
	args := m.Called(email)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateResetToken(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

type MockOnboardingService struct{ mock.Mock }

func (m *MockOnboardingService) Submit(ctx context.Context, email string, in services.OnboardingInput) (*models.OnboardingResponse, error) {
	args := m.Called(ctx, email, in)
	return ret[*models.OnboardingResponse](args), args.Error(1)
}

func (m *MockOnboardingService) Get(ctx context.Context, email string) (*models.OnboardingResponse, error) {
	args := m.Called(ctx, email)
	return ret[*models.OnboardingResponse](args), args.Error(1)
}

type MockDashboardService struct{ mock.Mock }

func (m *MockDashboardService) Get(ctx context.Context, email, fullName string) (*services.Dashboard, error) {
	args := m.Called(ctx, email, fullName)
	return ret[*services.Dashboard](args), args.Error(1)
}

type MockChecklistService struct{ mock.Mock }

func (m *MockChecklistService) GetOrCreate(ctx context.Context, email string) (*checklist.Checklist, error) {
	args := m.Called(ctx, email)
	return ret[*checklist.Checklist](args), args.Error(1)
}

func (m *MockChecklistService) UpdateItem(ctx context.Context, email, itemID, status string) (*services.ChecklistProgress, error) {
	args := m.Called(ctx, email, itemID, status)
	return ret[*services.ChecklistProgress](args), args.Error(1)
}

type MockMockTestService struct{ mock.Mock }

func (m *MockMockTestService) Create(ctx context.Context, email string, in services.MockTestInput) (int64, error) {
	args := m.Called(ctx, email, in)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMockTestService) List(ctx context.Context, email string) ([]*models.MockTest, error) {
	args := m.Called(ctx, email)
	return ret[[]*models.MockTest](args), args.Error(1)
}

func (m *MockMockTestService) Update(ctx context.Context, email string, id int64, in services.MockTestInput) error {
	return m.Called(ctx, email, id, in).Error(0)
}

func (m *MockMockTestService) Delete(ctx context.Context, email string, id int64) error {
	return m.Called(ctx, email, id).Error(0)
}

type MockHabitService struct{ mock.Mock }

func (m *MockHabitService) Create(ctx context.Context, email string, in services.HabitInput) (int64, error) {
	args := m.Called(ctx, email, in)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockHabitService) List(ctx context.Context, email string) ([]*models.Habit, error) {
	args := m.Called(ctx, email)
	return ret[[]*models.Habit](args), args.Error(1)
}

func (m *MockHabitService) Update(ctx context.Context, email string, id int64, in services.HabitInput) error {
	return m.Called(ctx, email, id, in).Error(0)
}

func (m *MockHabitService) Delete(ctx context.Context, email string, id int64) error {
	return m.Called(ctx, email, id).Error(0)
}

func (m *MockHabitService) Toggle(ctx context.Context, email string, in services.ToggleInput) error {
	return m.Called(ctx, email, in).Error(0)
}

func (m *MockHabitService) MonthLogs(ctx context.Context, email string, year, month int) (*services.MonthLogs, error) {
	args := m.Called(ctx, email, year, month)
	return ret[*services.MonthLogs](args), args.Error(1)
}

type MockLeaderboardService struct{ mock.Mock }

func (m *MockLeaderboardService) Get(ctx context.Context) ([]leaderboard.Entry, error) {
	args := m.Called(ctx)
	return ret[[]leaderboard.Entry](args), args.Error(1)
}

func (m *MockLeaderboardService) Refresh(ctx context.Context) ([]leaderboard.Entry, error) {
	args := m.Called(ctx)
	return ret[[]leaderboard.Entry](args), args.Error(1)
}

type MockResumeService struct{ mock.Mock }

func (m *MockResumeService) Upload(ctx context.Context, email, filename string, data []byte) (*models.Resume, error) {
	args := m.Called(ctx, email, filename, data)
	return ret[*models.Resume](args), args.Error(1)
}

func (m *MockResumeService) Latest(ctx context.Context, email string) (*services.ResumeDetail, error) {
	args := m.Called(ctx, email)
	return ret[*services.ResumeDetail](args), args.Error(1)
}

func (m *MockResumeService) List(ctx context.Context, email string) ([]*models.ResumeSummary, error) {
	args := m.Called(ctx, email)
	return ret[[]*models.ResumeSummary](args), args.Error(1)
}

func (m *MockResumeService) Analyze(ctx context.Context, email string, id *int64) (*services.AnalyzeResult, error) {
	args := m.Called(ctx, email, id)
	return ret[*services.AnalyzeResult](args), args.Error(1)
}

func (m *MockResumeService) OpenFile(ctx context.Context, email string, id *int64) (*services.ResumeFile, error) {
	args := m.Called(ctx, email, id)
	return ret[*services.ResumeFile](args), args.Error(1)
}

type MockChatService struct{ mock.Mock }

func (m *MockChatService) Chat(ctx context.Context, email, message string, extra any) (*services.ChatReply, error) {
	args := m.Called(ctx, email, message, extra)
	return ret[*services.ChatReply](args), args.Error(1)
}

type MockAdminService struct{ mock.Mock }

func (m *MockAdminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	args := m.Called(ctx)
	return ret[*models.AdminStats](args), args.Error(1)
}

func (m *MockAdminService) RefreshStats(ctx context.Context) (*models.AdminStats, error) {
	args := m.Called(ctx)
	return ret[*models.AdminStats](args), args.Error(1)
}

func (m *MockAdminService) Users(ctx context.Context) ([]*models.AdminUser, error) {
	args := m.Called(ctx)
	return ret[[]*models.AdminUser](args), args.Error(1)
}

func (m *MockAdminService) UserDetails(ctx context.Context, email string) (*models.AdminUserDetails, error) {
	args := m.Called(ctx, email)
	return ret[*models.AdminUserDetails](args), args.Error(1)
}

func (m *MockAdminService) UpdateUser(ctx context.Context, email string, in services.AdminUserUpdate) error {
	return m.Called(ctx, email, in).Error(0)
}

func (m *MockAdminService) DeleteUser(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAdminService) Tables(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return ret[[]string](args), args.Error(1)
}

func (m *MockAdminService) TableRows(ctx context.Context, table string) (*models.QueryResult, error) {
	args := m.Called(ctx, table)
	return ret[*models.QueryResult](args), args.Error(1)
}

func (m *MockAdminService) DeleteRow(ctx context.Context, table string, id int64) (int64, error) {
	args := m.Called(ctx, table, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAdminService) RunQuery(ctx context.Context, sql string) (*models.QueryResult, error) {
	args := m.Called(ctx, sql)
	return ret[*models.QueryResult](args), args.Error(1)
}

func (m *MockAdminService) Leaderboard(ctx context.Context) ([]leaderboard.Entry, error) {
	args := m.Called(ctx)
	return ret[[]leaderboard.Entry](args), args.Error(1)
}

type MockStorageService struct{ mock.Mock }

func (m *MockStorageService) Upload(ctx context.Context, objectName string, data []byte, contentType string) error {
	return m.Called(ctx, objectName, data, contentType).Error(0)
}

func (m *MockStorageService) Open(ctx context.Context, objectName string) (io.ReadCloser, int64, error) {
	args := m.Called(ctx, objectName)
	return ret[io.ReadCloser](args), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorageService) Delete(ctx context.Context, objectName string) error {
	return m.Called(ctx, objectName).Error(0)
}

func (m *MockStorageService) EnsureBucketExists(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockStorageService) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }
