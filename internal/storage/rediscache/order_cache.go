package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"grocery-report/internal/domain"
	"grocery-report/internal/frequency"
	"grocery-report/internal/observability"
)

// Defaults for OrderCache.
const (
	DefaultTTL       = 24 * time.Hour
	DefaultKeyPrefix = "grocery:order:"
)

// OrderCache is a frequency.HistoryLoader that serves order details from Redis
// and falls back to the wrapped loader on a miss. Listings are never cached
// since new deliveries change them. Redis failures degrade to the wrapped loader.
type OrderCache struct {
	next    frequency.HistoryLoader
	client  redis.UniversalClient
	ttl     time.Duration
	prefix  string
	logger  *zap.Logger
	metrics *observability.Metrics
}

// Compile-time interface check.
var _ frequency.HistoryLoader = (*OrderCache)(nil)

// Option configures OrderCache.
type Option func(*OrderCache)

// WithTTL sets how long cached details live.
func WithTTL(d time.Duration) Option {
	return func(c *OrderCache) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithKeyPrefix sets the Redis key prefix.
func WithKeyPrefix(p string) Option {
	return func(c *OrderCache) {
		c.prefix = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *OrderCache) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *OrderCache) {
		c.metrics = m
	}
}

// NewOrderCache wraps next with a Redis cache.
func NewOrderCache(next frequency.HistoryLoader, client redis.UniversalClient, opts ...Option) *OrderCache {
	c := &OrderCache{
		next:   next,
		client: client,
		ttl:    DefaultTTL,
		prefix: DefaultKeyPrefix,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListRecentOrders delegates to the wrapped loader.
func (c *OrderCache) ListRecentOrders(ctx context.Context, count int) ([]domain.OrderSummary, error) {
	return c.next.ListRecentOrders(ctx, count)
}

// GetOrderDetail returns the cached detail or loads and caches it.
// Unknown orders are not cached.
func (c *OrderCache) GetOrderDetail(ctx context.Context, orderID string) (*domain.OrderDetail, error) {
	key := c.prefix + orderID

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var detail domain.OrderDetail
		if err := json.Unmarshal(data, &detail); err == nil {
			c.metrics.RecordCacheLookup("hit")
			return &detail, nil
		}
		c.logger.Warn("discarding undecodable cache entry", zap.String("order_id", orderID), zap.Error(err))
		c.metrics.RecordCacheLookup("error")
	case errors.Is(err, redis.Nil):
		c.metrics.RecordCacheLookup("miss")
	default:
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("order cache read failed", zap.String("order_id", orderID), zap.Error(err))
		c.metrics.RecordCacheLookup("error")
	}

	detail, err := c.next.GetOrderDetail(ctx, orderID)
	if err != nil || detail == nil {
		return detail, err
	}

	payload, err := json.Marshal(detail)
	if err != nil {
		c.logger.Warn("order cache encode failed", zap.String("order_id", orderID), zap.Error(err))
		return detail, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("order cache write failed", zap.String("order_id", orderID), zap.Error(err))
	}
	return detail, nil
}

// Invalidate removes a cached order detail.
func (c *OrderCache) Invalidate(ctx context.Context, orderID string) error {
	return c.client.Del(ctx, c.prefix+orderID).Err()
}
