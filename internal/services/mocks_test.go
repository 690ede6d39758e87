package services

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"preppulse/internal/caching"
	"preppulse/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	args := m.Called(ctx, email, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) EnsureFirstLogin(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockUserRepository) GetFirstLogin(ctx context.Context, email string) (*models.FirstLogin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FirstLogin), args.Error(1)
}

func (m *MockUserRepository) DisplayNames(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]string), args.Error(1)
}

type MockOnboardingRepository struct {
	mock.Mock
}

func (m *MockOnboardingRepository) Save(ctx context.Context, resp *models.OnboardingResponse) error {
	args := m.Called(ctx, resp)
	return args.Error(0)
}

func (m *MockOnboardingRepository) Get(ctx context.Context, email string) (*models.OnboardingResponse, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OnboardingResponse), args.Error(1)
}

type MockChecklistRepository struct {
	mock.Mock
}

func (m *MockChecklistRepository) Get(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockChecklistRepository) Save(ctx context.Context, email, data string) error {
	args := m.Called(ctx, email, data)
	return args.Error(0)
}

type MockMockTestRepository struct {
	mock.Mock
}

func (m *MockMockTestRepository) Create(ctx context.Context, test *models.MockTest) error {
	args := m.Called(ctx, test)
	return args.Error(0)
}

func (m *MockMockTestRepository) List(ctx context.Context, email string) ([]*models.MockTest, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]*models.MockTest), args.Error(1)
}

func (m *MockMockTestRepository) Update(ctx context.Context, test *models.MockTest) error {
	args := m.Called(ctx, test)
	return args.Error(0)
}

func (m *MockMockTestRepository) Delete(ctx context.Context, email string, id int64) error {
	args := m.Called(ctx, email, id)
	return args.Error(0)
}

type MockResumeRepository struct {
	mock.Mock
}

func (m *MockResumeRepository) Create(ctx context.Context, resume *models.Resume) error {
	args := m.Called(ctx, resume)
	return args.Error(0)
}

func (m *MockResumeRepository) GetLatest(ctx context.Context, email string) (*models.Resume, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resume), args.Error(1)
}

func (m *MockResumeRepository) GetByID(ctx context.Context, email string, id int64) (*models.Resume, error) {
	args := m.Called(ctx, email, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resume), args.Error(1)
}

func (m *MockResumeRepository) List(ctx context.Context, email string) ([]*models.ResumeSummary, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]*models.ResumeSummary), args.Error(1)
}

func (m *MockResumeRepository) SaveAnalysis(ctx context.Context, email string, id int64, analysisJSON string, atsScore float64) error {
	args := m.Called(ctx, email, id, analysisJSON, atsScore)
	return args.Error(0)
}

type MockHabitRepository struct {
	mock.Mock
}

func (m *MockHabitRepository) Create(ctx context.Context, habit *models.Habit) error {
	args := m.Called(ctx, habit)
	return args.Error(0)
}

func (m *MockHabitRepository) List(ctx context.Context, email string) ([]*models.Habit, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]*models.Habit), args.Error(1)
}

func (m *MockHabitRepository) Update(ctx context.Context, habit *models.Habit) error {
	args := m.Called(ctx, habit)
	return args.Error(0)
}

func (m *MockHabitRepository) Delete(ctx context.Context, email string, id int64) error {
	args := m.Called(ctx, email, id)
	return args.Error(0)
}

func (m *MockHabitRepository) SetLog(ctx context.Context, email string, habitID int64, day time.Time, done bool) error {
	args := m.Called(ctx, email, habitID, day, done)
	return args.Error(0)
}

func (m *MockHabitRepository) LogsBetween(ctx context.Context, email string, from, to time.Time) ([]*models.HabitLog, error) {
	args := m.Called(ctx, email, from, to)
	return args.Get(0).([]*models.HabitLog), args.Error(1)
}

func (m *MockHabitRepository) Completions(ctx context.Context) ([]models.HabitCompletion, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.HabitCompletion), args.Error(1)
}

func (m *MockHabitRepository) CountsByEmail(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int), args.Error(1)
}

type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) ListUsers(ctx context.Context) ([]*models.AdminUser, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.AdminUser), args.Error(1)
}

func (m *MockAdminRepository) UserDetails(ctx context.Context, email string) (*models.AdminUserDetails, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminUserDetails), args.Error(1)
}

func (m *MockAdminRepository) Stats(ctx context.Context) (*models.AdminStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminStats), args.Error(1)
}

func (m *MockAdminRepository) DeleteUser(ctx context.Context, email string) ([]string, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAdminRepository) UpdateUser(ctx context.Context, email, fullName, newEmail string) error {
	args := m.Called(ctx, email, fullName, newEmail)
	return args.Error(0)
}

func (m *MockAdminRepository) TableNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAdminRepository) TableRows(ctx context.Context, table string) (*models.QueryResult, error) {
	args := m.Called(ctx, table)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QueryResult), args.Error(1)
}

func (m *MockAdminRepository) DeleteRow(ctx context.Context, table string, id int64) (int64, error) {
	args := m.Called(ctx, table, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAdminRepository) RunQuery(ctx context.Context, sql string) (*models.QueryResult, error) {
	args := m.Called(ctx, sql)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QueryResult), args.Error(1)
}

type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) Upload(ctx context.Context, objectName string, data []byte, contentType string) error {
	args := m.Called(ctx, objectName, data, contentType)
	return args.Error(0)
}

func (m *MockStorageService) Open(ctx context.Context, objectName string) (io.ReadCloser, int64, error) {
	args := m.Called(ctx, objectName)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorageService) Delete(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

func (m *MockStorageService) EnsureBucketExists(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStorageService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

// newTestCache returns a CacheService backed by an in-process redis.
func newTestCache(t *testing.T) (caching.CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return caching.NewCacheServiceWithClient(client), mr
}

func readCloser(s string) io.ReadCloser {
	return io.NopCloser(bytes.NewReader([]byte(s)))
}
