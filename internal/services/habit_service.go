package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"preppulse/internal/caching"
	"preppulse/internal/models"
	"preppulse/internal/repositories"
)

const maxHabitNameLength = 60

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type HabitService interface {
	Create(ctx context.Context, email string, in HabitInput) (int64, error)
	List(ctx context.Context, email string) ([]*models.Habit, error)
	Update(ctx context.Context, email string, id int64, in HabitInput) error
	Delete(ctx context.Context, email string, id int64) error
	Toggle(ctx context.Context, email string, in ToggleInput) error
	MonthLogs(ctx context.Context, email string, year, month int) (*MonthLogs, error)
}

type HabitInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type ToggleInput struct {
	HabitID int64  `json:"habit_id"`
	Date    string `json:"date"`
	Done    bool   `json:"done"`
}

// MonthLogs maps "<habit_id>_<YYYY-MM-DD>" to the done flag.
type MonthLogs struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Logs  map[string]bool `json:"logs"`
}

type habitService struct {
	repo     repositories.HabitRepository
	cacheSvc caching.CacheService
	now      func() time.Time
}

func NewHabitService(repo repositories.HabitRepository, cacheSvc caching.CacheService) HabitService {
	return &habitService{repo: repo, cacheSvc: cacheSvc, now: time.Now}
}

func buildHabit(email string, in HabitInput) (*models.Habit, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("Habit name is required.")
	}
	if utf8.RuneCountInString(name) > maxHabitNameLength {
		return nil, invalid("Habit name too long.")
	}
	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = models.DefaultHabitColor
	}
	if !hexColor.MatchString(color) {
		return nil, invalid("Color must be a hex value like #FF6B35.")
	}
	return &models.Habit{Email: email, Name: name, Color: color}, nil
}

func (s *habitService) Create(ctx context.Context, email string, in HabitInput) (int64, error) {
	habit, err := buildHabit(email, in)
	if err != nil {
		return 0, err
	}
	if err := s.repo.Create(ctx, habit); err != nil {
		return 0, fmt.Errorf("create habit: %w", err)
	}
	s.invalidateLeaderboard(ctx)
	return habit.ID, nil
}

func (s *habitService) List(ctx context.Context, email string) ([]*models.Habit, error) {
	return s.repo.List(ctx, email)
}

func (s *habitService) Update(ctx context.Context, email string, id int64, in HabitInput) error {
	habit, err := buildHabit(email, in)
	if err != nil {
		return err
	}
	habit.ID = id
	return s.repo.Update(ctx, habit)
}

func (s *habitService) Delete(ctx context.Context, email string, id int64) error {
	if err := s.repo.Delete(ctx, email, id); err != nil {
		return err
	}
	s.invalidateLeaderboard(ctx)
	return nil
}

func (s *habitService) Toggle(ctx context.Context, email string, in ToggleInput) error {
	if in.HabitID <= 0 || strings.TrimSpace(in.Date) == "" {
		return invalid("habit_id and date required.")
	}
	day, err := time.Parse(time.DateOnly, strings.TrimSpace(in.Date))
	if err != nil {
		return invalid("Date must be in YYYY-MM-DD format.")
	}
	if err := s.repo.SetLog(ctx, email, in.HabitID, day, in.Done); err != nil {
		return err
	}
	s.invalidateLeaderboard(ctx)
	return nil
}

// MonthLogs defaults to the current month when year or month is zero.
func (s *habitService) MonthLogs(ctx context.Context, email string, year, month int) (*MonthLogs, error) {
	if year == 0 || month == 0 {
		today := s.now()
		year, month = today.Year(), int(today.Month())
	}
	if year < 1 || month < 1 || month > 12 {
		return nil, invalid("Invalid year/month.")
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	logs, err := s.repo.LogsBetween(ctx, email, from, from.AddDate(0, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("load habit logs: %w", err)
	}

	out := &MonthLogs{Year: year, Month: month, Logs: make(map[string]bool, len(logs))}
	for _, l := range logs {
		out.Logs[fmt.Sprintf("%d_%s", l.HabitID, l.LogDate.Format(time.DateOnly))] = l.Done
	}
	return out, nil
}

// A stale leaderboard is tolerable; the refresh job rebuilds it.
func (s *habitService) invalidateLeaderboard(ctx context.Context) {
	if s.cacheSvc == nil {
		return
	}
	if err := s.cacheSvc.InvalidateLeaderboard(ctx); err != nil {
		log.Printf("WARN: failed to invalidate leaderboard cache: %v", err)
	}
}
