package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"preppulse/internal/leaderboard"
	"preppulse/internal/models"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "preppulse"

var (
	leaderboardKey = keyPrefix + ":leaderboard"
	adminStatsKey  = keyPrefix + ":admin:stats"
)

type CacheService interface {
	// Session management
	SetSession(ctx context.Context, sessionID string, session *models.Session, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Leaderboard caching
	GetLeaderboard(ctx context.Context) ([]leaderboard.Entry, error)
	SetLeaderboard(ctx context.Context, entries []leaderboard.Entry, ttl time.Duration) error
	InvalidateLeaderboard(ctx context.Context) error

	// Admin dashboard caching
	GetAdminStats(ctx context.Context) (*models.AdminStats, error)
	SetAdminStats(ctx context.Context, stats *models.AdminStats, ttl time.Duration) error
	InvalidateAdminStats(ctx context.Context) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port as well as host:port
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsedAddr = strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")
	}

	log.Printf("DEBUG: Creating Redis client with address: %s (original: %s)", parsedAddr, addr)

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	} else {
		log.Printf("DEBUG: Redis connection established successfully")
	}

	return &redisCacheService{client: client}
}

// NewCacheServiceWithClient wraps an existing client.
func NewCacheServiceWithClient(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, sessionID)
}

// getJSON decodes key into dst. It reports false on a cache miss.
func (r *redisCacheService) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		// A stale or foreign value is treated as a miss.
		log.Printf("WARN: dropping undecodable cache entry %s: %v", key, err)
		r.client.Del(ctx, key)
		return false, nil
	}
	return true, nil
}

func (r *redisCacheService) setJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) SetSession(ctx context.Context, sessionID string, session *models.Session, ttl time.Duration) error {
	return r.setJSON(ctx, sessionKey(sessionID), session, ttl)
}

// GetSession returns nil, nil when the session does not exist or has expired.
func (r *redisCacheService) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	var session models.Session
	ok, err := r.getJSON(ctx, sessionKey(sessionID), &session)
	if err != nil || !ok {
		return nil, err
	}
	return &session, nil
}

func (r *redisCacheService) DeleteSession(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, sessionKey(sessionID)).Err()
}

// GetLeaderboard returns nil, nil on a cache miss.
func (r *redisCacheService) GetLeaderboard(ctx context.Context) ([]leaderboard.Entry, error) {
	var entries []leaderboard.Entry
	ok, err := r.getJSON(ctx, leaderboardKey, &entries)
	if err != nil || !ok {
		return nil, err
	}
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	return entries, nil
}

func (r *redisCacheService) SetLeaderboard(ctx context.Context, entries []leaderboard.Entry, ttl time.Duration) error {
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	return r.setJSON(ctx, leaderboardKey, entries, ttl)
}

func (r *redisCacheService) InvalidateLeaderboard(ctx context.Context) error {
	return r.client.Del(ctx, leaderboardKey).Err()
}

func (r *redisCacheService) GetAdminStats(ctx context.Context) (*models.AdminStats, error) {
	var stats models.AdminStats
	ok, err := r.getJSON(ctx, adminStatsKey, &stats)
	if err != nil || !ok {
		return nil, err
	}
	return &stats, nil
}

func (r *redisCacheService) SetAdminStats(ctx context.Context, stats *models.AdminStats, ttl time.Duration) error {
	return r.setJSON(ctx, adminStatsKey, stats, ttl)
}

func (r *redisCacheService) InvalidateAdminStats(ctx context.Context) error {
	return r.client.Del(ctx, adminStatsKey).Err()
}

// IsRateLimited counts a hit against key in a fixed window and reports
// whether the count is now over limit. On a redis error it reports false
// along with the error.
func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("%s:ratelimit:%s", keyPrefix, key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return false, err
	}

	// Set expiry on first request
	if count == 1 {
		if err := r.client.Expire(ctx, cacheKey, window).Err(); err != nil {
			return false, fmt.Errorf("set rate limit window: %w", err)
		}
	}

	if count <= int64(limit) {
		return false, nil
	}
	// A counter that lost its expiry would lock the caller out for good.
	if ttl, err := r.client.TTL(ctx, cacheKey).Result(); err == nil && ttl < 0 {
		r.client.Expire(ctx, cacheKey, window)
	}
	return true, nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
