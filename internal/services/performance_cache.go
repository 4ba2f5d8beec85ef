// internal/services/performance_cache.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/vms-backend/internal/config"
	"github.com/javajoker/vms-backend/internal/metrics"
)

// PerformanceCache stores rendered vendor performance views.
type PerformanceCache interface {
	Get(ctx context.Context, vendorID uint) (*VendorPerformance, bool)
	Set(ctx context.Context, perf *VendorPerformance)
	Invalidate(ctx context.Context, vendorID uint)
}

// NewPerformanceCache returns a Redis-backed cache, or a no-op cache when no
// Redis host is configured.
func NewPerformanceCache(cfg *config.Config) PerformanceCache {
	if !cfg.RedisEnabled() {
		return NoopPerformanceCache{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return NewRedisPerformanceCache(client, time.Duration(cfg.Redis.CacheTTL)*time.Second)
}

type RedisPerformanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPerformanceCache(client *redis.Client, ttl time.Duration) *RedisPerformanceCache {
	return &RedisPerformanceCache{client: client, ttl: ttl}
}

func performanceKey(vendorID uint) string {
	return fmt.Sprintf("vms:vendor:%d:performance", vendorID)
}

func (c *RedisPerformanceCache) Get(ctx context.Context, vendorID uint) (*VendorPerformance, bool) {
	data, err := c.client.Get(ctx, performanceKey(vendorID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheLookupCounter.WithLabelValues("miss").Inc()
		} else {
			metrics.CacheLookupCounter.WithLabelValues("error").Inc()
			logrus.WithError(err).WithField("vendor_id", vendorID).Warn("Performance cache read failed")
		}
		return nil, false
	}

	var perf VendorPerformance
	if err := json.Unmarshal(data, &perf); err != nil {
		metrics.CacheLookupCounter.WithLabelValues("error").Inc()
		return nil, false
	}

	metrics.CacheLookupCounter.WithLabelValues("hit").Inc()
	return &perf, true
}

func (c *RedisPerformanceCache) Set(ctx context.Context, perf *VendorPerformance) {
	data, err := json.Marshal(perf)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, performanceKey(perf.ID), data, c.ttl).Err(); err != nil {
		logrus.WithError(err).WithField("vendor_id", perf.ID).Warn("Performance cache write failed")
	}
}

func (c *RedisPerformanceCache) Invalidate(ctx context.Context, vendorID uint) {
	if err := c.client.Del(ctx, performanceKey(vendorID)).Err(); err != nil {
		logrus.WithError(err).WithField("vendor_id", vendorID).Warn("Performance cache invalidation failed")
	}
}

type NoopPerformanceCache struct{}

func (NoopPerformanceCache) Get(context.Context, uint) (*VendorPerformance, bool) { return nil, false }
func (NoopPerformanceCache) Set(context.Context, *VendorPerformance)              {}
func (NoopPerformanceCache) Invalidate(context.Context, uint)                     {}

// CacheInvalidationListener drops cached views of recalculated vendors.
func CacheInvalidationListener(cache PerformanceCache) Listener {
	return ListenerFunc(func(ctx context.Context, events []RecalculationEvent) {
		seen := make(map[uint]bool)
		for _, e := range events {
			if seen[e.VendorID] {
				continue
			}
			seen[e.VendorID] = true
			cache.Invalidate(ctx, e.VendorID)
		}
	})
}

// MetricsListener counts recalculations per metric.
func MetricsListener() Listener {
	return ListenerFunc(func(_ context.Context, events []RecalculationEvent) {
		for _, e := range events {
			metrics.RecalculationCounter.WithLabelValues(string(e.Metric)).Inc()
		}
	})
}
