package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"preppulse/internal/leaderboard"
	"preppulse/internal/models"
	"preppulse/internal/repositories"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type HabitServiceTestSuite struct {
	suite.Suite
	repo    *MockHabitRepository
	mr      *miniredis.Miniredis
	service *habitService
}

func (suite *HabitServiceTestSuite) SetupTest() {
	suite.repo = &MockHabitRepository{}
	cacheSvc, mr := newTestCache(suite.T())
	suite.mr = mr
	suite.service = NewHabitService(suite.repo, cacheSvc).(*habitService)
	suite.service.now = func() time.Time { return time.Date(2024, 2, 14, 9, 0, 0, 0, time.UTC) }

	// seed a cached leaderboard so invalidation is observable
	require.NoError(suite.T(), cacheSvc.SetLeaderboard(context.Background(), []leaderboard.Entry{{Email: "x@y.z"}}, time.Minute))
}

func (suite *HabitServiceTestSuite) TearDownTest() {
	suite.repo.AssertExpectations(suite.T())
}

func TestHabitServiceTestSuite(t *testing.T) {
	suite.Run(t, new(HabitServiceTestSuite))
}

func (suite *HabitServiceTestSuite) TestCreate_DefaultsColor() {
	ctx := context.Background()
	suite.repo.On("Create", ctx, mock.MatchedBy(func(h *models.Habit) bool {
		return h.Name == "DSA practice" && h.Color == models.DefaultHabitColor
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Habit).ID = 5
	}).Return(nil).Once()

	id, err := suite.service.Create(ctx, "a@b.c", HabitInput{Name: "  DSA practice "})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(5), id)
}

func (suite *HabitServiceTestSuite) TestCreate_Validation() {
	cases := []struct {
		in  HabitInput
		msg string
	}{
		{HabitInput{Name: " "}, "Habit name is required."},
		{HabitInput{Name: strings.Repeat("a", 61)}, "Habit name too long."},
		{HabitInput{Name: "Read", Color: "red"}, "Color must be a hex value like #FF6B35."},
	}
	for _, tc := range cases {
		_, err := suite.service.Create(context.Background(), "a@b.c", tc.in)
		var verr *ValidationError
		require.ErrorAs(suite.T(), err, &verr)
		assert.Equal(suite.T(), tc.msg, verr.Message)
	}
}

func (suite *HabitServiceTestSuite) TestToggle_UpsertsAndInvalidatesLeaderboard() {
	ctx := context.Background()
	day := time.Date(2024, 2, 13, 0, 0, 0, 0, time.UTC)
	suite.repo.On("SetLog", ctx, "a@b.c", int64(5), day, true).Return(nil).Once()

	require.NoError(suite.T(), suite.service.Toggle(ctx, "a@b.c", ToggleInput{HabitID: 5, Date: "2024-02-13", Done: true}))
	assert.False(suite.T(), suite.mr.Exists("preppulse:leaderboard"))
}

func (suite *HabitServiceTestSuite) TestToggle_OtherUsersHabit() {
	ctx := context.Background()
	suite.repo.On("SetLog", ctx, "intruder@b.c", int64(5), mock.Anything, false).Return(repositories.ErrNotFound).Once()

	err := suite.service.Toggle(ctx, "intruder@b.c", ToggleInput{HabitID: 5, Date: "2024-02-13"})
	assert.ErrorIs(suite.T(), err, repositories.ErrNotFound)
	assert.True(suite.T(), suite.mr.Exists("preppulse:leaderboard"))
}

func (suite *HabitServiceTestSuite) TestToggle_RequiresIDAndDate() {
	err := suite.service.Toggle(context.Background(), "a@b.c", ToggleInput{Date: "2024-02-13"})
	var verr *ValidationError
	require.ErrorAs(suite.T(), err, &verr)
	assert.Equal(suite.T(), "habit_id and date required.", verr.Message)
}

func (suite *HabitServiceTestSuite) TestDelete_InvalidatesLeaderboard() {
	ctx := context.Background()
	suite.repo.On("Delete", ctx, "a@b.c", int64(5)).Return(nil).Once()

	require.NoError(suite.T(), suite.service.Delete(ctx, "a@b.c", 5))
	assert.False(suite.T(), suite.mr.Exists("preppulse:leaderboard"))
}

func (suite *HabitServiceTestSuite) TestMonthLogs_DefaultsToCurrentMonth() {
	ctx := context.Background()
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	suite.repo.On("LogsBetween", ctx, "a@b.c", from, to).Return([]*models.HabitLog{
		{HabitID: 5, LogDate: time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), Done: true},
		{HabitID: 6, LogDate: time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), Done: false},
	}, nil).Once()

	out, err := suite.service.MonthLogs(ctx, "a@b.c", 0, 0)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2024, out.Year)
	assert.Equal(suite.T(), 2, out.Month)
	assert.Equal(suite.T(), map[string]bool{"5_2024-02-03": true, "6_2024-02-03": false}, out.Logs)
}

func (suite *HabitServiceTestSuite) TestMonthLogs_InvalidMonth() {
	_, err := suite.service.MonthLogs(context.Background(), "a@b.c", 2024, 13)
	var verr *ValidationError
	require.ErrorAs(suite.T(), err, &verr)
	assert.Equal(suite.T(), "Invalid year/month.", verr.Message)
}
