package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"youthPolicyHub/business/policy"
	"youthPolicyHub/domain"
	"youthPolicyHub/pkg/logger"
	"youthPolicyHub/pkg/metrics"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "youth_policy:ranking:"

var _ policy.RankingCache = (*RankingCache)(nil)

// RankingCache keeps shared ranked lists as JSON strings with a TTL.
type RankingCache struct {
	client redis.Cmdable
}

func NewRankingCache(client redis.Cmdable) *RankingCache {
	return &RankingCache{
		client: client,
	}
}

// GetPolicies reports a miss for an absent key. An entry that no longer decodes is
// dropped and also reported as a miss.
func (r *RankingCache) GetPolicies(ctx context.Context, key string) ([]domain.PolicySummary, bool, error) {
	val, err := r.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get ranking from Redis: %w", err)
	}

	var policies []domain.PolicySummary
	if err := json.Unmarshal([]byte(val), &policies); err != nil {
		logger.Warn("Dropping undecodable ranking cache entry", "key", key, "error", err)
		metrics.HotCacheRequests.WithLabelValues("corrupt").Inc()
		if delErr := r.client.Del(ctx, keyPrefix+key).Err(); delErr != nil {
			logger.Warn("Failed to drop ranking cache entry", "key", key, "error", delErr)
		}
		return nil, false, nil
	}

	return policies, true, nil
}

func (r *RankingCache) SetPolicies(ctx context.Context, key string, policies []domain.PolicySummary, ttl time.Duration) error {
	jsonData, err := json.Marshal(policies)
	if err != nil {
		return fmt.Errorf("failed to marshal ranking: %w", err)
	}

	if err := r.client.Set(ctx, keyPrefix+key, jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store ranking in Redis: %w", err)
	}

	return nil
}

// Invalidate removes a ranked list so the next read rebuilds it.
func (r *RankingCache) Invalidate(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate ranking: %w", err)
	}

	return nil
}
