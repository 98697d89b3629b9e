package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"arisefit/internal/progression"
	"arisefit/internal/repository"
)

const leaderboardKey = "arisefit:leaderboard"

// LeaderboardEntry is one row on the global leaderboard.
type LeaderboardEntry struct {
	Position int              `json:"position"`
	UserID   int64            `json:"userId"`
	Username string           `json:"username"`
	Level    int              `json:"level"`
	XP       int              `json:"xp"`
	Rank     progression.Rank `json:"rank"`
}

// LeaderboardService keeps a Redis sorted set of hunters ordered by level
// then XP. Without Redis it falls back to querying the users table, which is
// correct but unsorted-by-cache.
type LeaderboardService struct {
	rdb   *redis.Client
	users *repository.UserRepository
}

// NewLeaderboardService creates the leaderboard service. redisAddr may be
// empty, in which case only the SQL fallback is used.
func NewLeaderboardService(redisAddr, redisPassword string, users *repository.UserRepository) *LeaderboardService {
	var rdb *redis.Client
	if redisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: redisPassword,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Printf("Leaderboard cache unavailable, using database fallback: %v", err)
			rdb = nil
		}
	}
	return &LeaderboardService{rdb: rdb, users: users}
}

// score packs level and XP remainder into one sortable float. XP toward a
// level never exceeds 100*level <= 10000, so the multiplier keeps level
// strictly dominant.
func score(level, xp int) float64 {
	return float64(level)*100000 + float64(xp)
}

// RecordScore upserts a user's leaderboard position. Errors are logged, not
// returned; the leaderboard is advisory.
func (s *LeaderboardService) RecordScore(ctx context.Context, userID int64, username string, level, xp int) {
	if s.rdb == nil {
		return
	}
	member := fmt.Sprintf("%d:%s", userID, username)
	if err := s.rdb.ZAdd(ctx, leaderboardKey, redis.Z{Score: score(level, xp), Member: member}).Err(); err != nil {
		log.Printf("Failed to record leaderboard score for user %d: %v", userID, err)
	}
}

// Top returns the highest-ranked hunters.
func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	if s.rdb != nil {
		entries, err := s.topFromRedis(ctx, limit)
		if err == nil {
			return entries, nil
		}
		log.Printf("Leaderboard cache read failed, using database fallback: %v", err)
	}

	return s.topFromDatabase(limit)
}

func (s *LeaderboardService) topFromRedis(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	zs, err := s.rdb.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(zs))
	for i, z := range zs {
		member, _ := z.Member.(string)
		idStr, username, ok := strings.Cut(member, ":")
		if !ok {
			continue
		}
		userID, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			continue
		}

		level := int(z.Score) / 100000
		xp := int(z.Score) % 100000
		entries = append(entries, LeaderboardEntry{
			Position: i + 1,
			UserID:   userID,
			Username: username,
			Level:    level,
			XP:       xp,
			Rank:     progression.RankForLevel(level),
		})
	}
	return entries, nil
}

func (s *LeaderboardService) topFromDatabase(limit int) ([]LeaderboardEntry, error) {
	users, err := s.users.TopByLevel(limit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, LeaderboardEntry{
			Position: i + 1,
			UserID:   u.ID,
			Username: u.Username,
			Level:    u.Level,
			XP:       u.XP,
			Rank:     progression.RankForLevel(u.Level),
		})
	}
	return entries, nil
}

// Close releases the Redis connection if one exists.
func (s *LeaderboardService) Close() error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
