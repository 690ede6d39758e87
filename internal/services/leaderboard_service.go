package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"preppulse/internal/caching"
	"preppulse/internal/leaderboard"
	"preppulse/internal/repositories"
)

const LeaderboardTTL = 5 * time.Minute

type LeaderboardService interface {
	// Get serves the cached leaderboard, computing it on a miss.
	Get(ctx context.Context) ([]leaderboard.Entry, error)
	// Refresh recomputes the leaderboard and replaces the cached copy.
	Refresh(ctx context.Context) ([]leaderboard.Entry, error)
}

type leaderboardService struct {
	habitRepo repositories.HabitRepository
	userRepo  repositories.UserRepository
	cacheSvc  caching.CacheService
	now       func() time.Time
}

func NewLeaderboardService(habitRepo repositories.HabitRepository, userRepo repositories.UserRepository, cacheSvc caching.CacheService) LeaderboardService {
	return &leaderboardService{habitRepo: habitRepo, userRepo: userRepo, cacheSvc: cacheSvc, now: time.Now}
}

func (s *leaderboardService) Get(ctx context.Context) ([]leaderboard.Entry, error) {
	cached, err := s.cacheSvc.GetLeaderboard(ctx)
	if err != nil {
		log.Printf("WARN: leaderboard cache read failed: %v", err)
	}
	if cached != nil {
		return cached, nil
	}
	return s.Refresh(ctx)
}

func (s *leaderboardService) Refresh(ctx context.Context) ([]leaderboard.Entry, error) {
	completions, err := s.habitRepo.Completions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load completions: %w", err)
	}
	names, err := s.userRepo.DisplayNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("load display names: %w", err)
	}
	counts, err := s.habitRepo.CountsByEmail(ctx)
	if err != nil {
		return nil, fmt.Errorf("load habit counts: %w", err)
	}

	entries := leaderboard.Compute(completions, names, counts, s.now())
	if err := s.cacheSvc.SetLeaderboard(ctx, entries, LeaderboardTTL); err != nil {
		log.Printf("WARN: leaderboard cache write failed: %v", err)
	}
	return entries, nil
}
