package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/quizladder/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

const cacheKey = "leaderboard:top50"

// Cache holds the most recent ranked list. Misses and backend failures look
// the same to callers: the list is simply read from the database.
type Cache interface {
	Get(ctx context.Context) ([]models.LeaderboardEntry, bool)
	Set(ctx context.Context, entries []models.LeaderboardEntry)
	Invalidate(ctx context.Context)
}

// RedisCache stores the ranked list as one JSON value with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to the redis:// URL and checks it with a ping.
func NewRedisCache(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	log.Printf("[leaderboard] redis cache enabled (ttl %s)", ttl)
	return &RedisCache{client: client, ttl: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context) ([]models.LeaderboardEntry, bool) {
	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("[leaderboard] cache get: %v", err)
		return nil, false
	}

	var entries []models.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("[leaderboard] cache decode: %v", err)
		return nil, false
	}
	return entries, true
}

func (c *RedisCache) Set(ctx context.Context, entries []models.LeaderboardEntry) {
	data, err := json.Marshal(entries)
	if err != nil {
		log.Printf("[leaderboard] cache encode: %v", err)
		return
	}
	if err := c.client.Set(ctx, cacheKey, data, c.ttl).Err(); err != nil {
		log.Printf("[leaderboard] cache set: %v", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, cacheKey).Err(); err != nil {
		log.Printf("[leaderboard] cache invalidate: %v", err)
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
