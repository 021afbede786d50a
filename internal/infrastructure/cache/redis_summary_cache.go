package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	appinv "github.com/ecomops/backend/internal/application/inventory"
	"github.com/ecomops/backend/internal/domain/inventory"
	"github.com/ecomops/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const summaryKeyPrefix = "inventory:summary:"

// RedisSummaryCache caches per-organization stock summaries in Redis.
// All operations are best-effort: a Redis failure degrades to a cache miss
// and is logged, never surfaced to the caller.
type RedisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisSummaryCache creates a cache backed by a new Redis connection
func NewRedisSummaryCache(cfg *config.RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisSummaryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSummaryCache{client: client, ttl: ttl, logger: logger}, nil
}

// NewRedisSummaryCacheWithClient creates a cache sharing an existing client
func NewRedisSummaryCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisSummaryCache {
	return &RedisSummaryCache{client: client, ttl: ttl, logger: logger}
}

func summaryKey(organizationID uuid.UUID) string {
	return summaryKeyPrefix + organizationID.String()
}

// GetSummary returns the cached summary, or false on miss or Redis failure
func (c *RedisSummaryCache) GetSummary(ctx context.Context, organizationID uuid.UUID) (*inventory.StockSummary, bool) {
	payload, err := c.client.Get(ctx, summaryKey(organizationID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("summary cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var summary inventory.StockSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		c.logger.Warn("summary cache payload corrupt, dropping",
			zap.String("organization_id", organizationID.String()),
			zap.Error(err),
		)
		c.client.Del(ctx, summaryKey(organizationID))
		return nil, false
	}
	return &summary, true
}

// SetSummary stores the summary with the configured TTL
func (c *RedisSummaryCache) SetSummary(ctx context.Context, organizationID uuid.UUID, summary *inventory.StockSummary) {
	payload, err := json.Marshal(summary)
	if err != nil {
		c.logger.Warn("summary cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, summaryKey(organizationID), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("summary cache write failed", zap.Error(err))
	}
}

// InvalidateSummary drops the cached summary for an organization
func (c *RedisSummaryCache) InvalidateSummary(ctx context.Context, organizationID uuid.UUID) {
	if err := c.client.Del(ctx, summaryKey(organizationID)).Err(); err != nil {
		c.logger.Warn("summary cache invalidation failed", zap.Error(err))
	}
}

// Close closes the Redis client
func (c *RedisSummaryCache) Close() error {
	return c.client.Close()
}

var _ appinv.SummaryCache = (*RedisSummaryCache)(nil)
