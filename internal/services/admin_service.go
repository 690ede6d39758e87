package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"preppulse/internal/caching"
	"preppulse/internal/leaderboard"
	"preppulse/internal/models"
	"preppulse/internal/repositories"
)

const AdminStatsTTL = 5 * time.Minute

type AdminService interface {
	Stats(ctx context.Context) (*models.AdminStats, error)
	RefreshStats(ctx context.Context) (*models.AdminStats, error)
	Users(ctx context.Context) ([]*models.AdminUser, error)
	UserDetails(ctx context.Context, email string) (*models.AdminUserDetails, error)
	UpdateUser(ctx context.Context, email string, in AdminUserUpdate) error
	DeleteUser(ctx context.Context, email string) error

	Tables(ctx context.Context) ([]string, error)
	TableRows(ctx context.Context, table string) (*models.QueryResult, error)
	DeleteRow(ctx context.Context, table string, id int64) (int64, error)
	// RunQuery executes trusted SQL. Driver errors are returned unwrapped so
	// their text can be shown as-is.
	RunQuery(ctx context.Context, sql string) (*models.QueryResult, error)

	Leaderboard(ctx context.Context) ([]leaderboard.Entry, error)
}

type AdminUserUpdate struct {
	FullName string `json:"full_name"`
	NewEmail string `json:"new_email"`
}

type adminService struct {
	repo        repositories.AdminRepository
	storage     StorageService
	cacheSvc    caching.CacheService
	leaderboard LeaderboardService
}

func NewAdminService(repo repositories.AdminRepository, storage StorageService, cacheSvc caching.CacheService, lb LeaderboardService) AdminService {
	return &adminService{repo: repo, storage: storage, cacheSvc: cacheSvc, leaderboard: lb}
}

func (s *adminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	cached, err := s.cacheSvc.GetAdminStats(ctx)
	if err != nil {
		log.Printf("WARN: admin stats cache read failed: %v", err)
	}
	if cached != nil {
		return cached, nil
	}
	return s.RefreshStats(ctx)
}

func (s *adminService) RefreshStats(ctx context.Context) (*models.AdminStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("compute admin stats: %w", err)
	}
	if err := s.cacheSvc.SetAdminStats(ctx, stats, AdminStatsTTL); err != nil {
		log.Printf("WARN: admin stats cache write failed: %v", err)
	}
	return stats, nil
}

func (s *adminService) Users(ctx context.Context) ([]*models.AdminUser, error) {
	return s.repo.ListUsers(ctx)
}

func (s *adminService) UserDetails(ctx context.Context, email string) (*models.AdminUserDetails, error) {
	return s.repo.UserDetails(ctx, email)
}

func (s *adminService) UpdateUser(ctx context.Context, email string, in AdminUserUpdate) error {
	fullName := strings.TrimSpace(in.FullName)
	newEmail := normalizeEmail(in.NewEmail)
	if fullName == "" && newEmail == "" {
		return invalid("Nothing to update.")
	}
	if newEmail != "" && !strings.Contains(newEmail, "@") {
		return invalid("Invalid email address.")
	}

	if err := s.repo.UpdateUser(ctx, email, fullName, newEmail); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// DeleteUser removes the user's rows, then their stored files. File removal
// is best-effort.
func (s *adminService) DeleteUser(ctx context.Context, email string) error {
	paths, err := s.repo.DeleteUser(ctx, email)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := s.storage.Delete(ctx, p); err != nil {
			log.Printf("WARN: failed to delete stored resume %s: %v", p, err)
		}
	}
	s.invalidate(ctx)
	return nil
}

func (s *adminService) invalidate(ctx context.Context) {
	if err := s.cacheSvc.InvalidateAdminStats(ctx); err != nil {
		log.Printf("WARN: failed to invalidate admin stats: %v", err)
	}
	if err := s.cacheSvc.InvalidateLeaderboard(ctx); err != nil {
		log.Printf("WARN: failed to invalidate leaderboard: %v", err)
	}
}

func (s *adminService) Tables(ctx context.Context) ([]string, error) {
	return s.repo.TableNames(ctx)
}

func (s *adminService) TableRows(ctx context.Context, table string) (*models.QueryResult, error) {
	return s.repo.TableRows(ctx, table)
}

func (s *adminService) DeleteRow(ctx context.Context, table string, id int64) (int64, error) {
	n, err := s.repo.DeleteRow(ctx, table, id)
	if err == nil && n > 0 {
		s.invalidate(ctx)
	}
	return n, err
}

func (s *adminService) RunQuery(ctx context.Context, sql string) (*models.QueryResult, error) {
	sql = strings.TrimSpace(sql)
	if sql == "" {
		return nil, invalid("Empty query")
	}
	return s.repo.RunQuery(ctx, sql)
}

func (s *adminService) Leaderboard(ctx context.Context) ([]leaderboard.Entry, error) {
	return s.leaderboard.Get(ctx)
}
