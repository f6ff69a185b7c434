package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

var ErrCacheMiss = errors.New("key not found")

// CacheService is a JSON value cache on Redis. Calls go through a circuit
// breaker so a dead Redis fails fast instead of stalling every request.
type CacheService struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker
	logger  *logrus.Logger
}

func NewCacheService(client *redis.Client, logger *logrus.Logger) *CacheService {
	return &CacheService{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker(breakerSettings(logger)),
		logger:  logger,
	}
}

// breakerSettings trips after at least 3 requests with 60% of them failing.
func breakerSettings(logger *logrus.Logger) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        "redis",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		// a miss is an answer, not an outage
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCacheMiss)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"component": "circuit_breaker",
				"service":   name,
				"from":      from.String(),
				"to":        to.String(),
			}).Info("Circuit breaker state changed")
		},
	}
}

// NewRedisClient parses a redis:// URL and checks the server answers.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	_, err = s.breaker.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, key, data, expiration).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	out, err := s.breaker.Execute(func() (interface{}, error) {
		data, err := s.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return data, err
	})
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache: %w", err)
	}

	if err := json.Unmarshal(out.([]byte), dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.client.Del(ctx, keys...).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

// Ping bypasses the breaker so readiness reflects Redis itself.
func (s *CacheService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *CacheService) BreakerState() gobreaker.State {
	return s.breaker.State()
}

// Cache key generators
func SessionCacheKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}
