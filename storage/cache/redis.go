package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/edusight/backend/core"
	"github.com/edusight/backend/core/analytics"
)

type reportCache struct {
	client *redis.Client
}

var _ analytics.ReportCache = (*reportCache)(nil) // interface compliance check

// NewReportCache stores comprehensive reports in Redis as JSON. A missing
// key reads as (nil, nil) so callers recompute transparently.
func NewReportCache(conf *core.Config) *reportCache {
	return &reportCache{
		client: redis.NewClient(&redis.Options{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
		}),
	}
}

func (c *reportCache) GetReport(ctx context.Context, key string) (*analytics.Report, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading cached report")
	}

	var rpt analytics.Report
	if err := json.Unmarshal(data, &rpt); err != nil {
		return nil, errors.Wrap(err, "decoding cached report")
	}
	return &rpt, nil
}

func (c *reportCache) SetReport(ctx context.Context, key string, rpt *analytics.Report, ttl time.Duration) error {
	data, err := json.Marshal(rpt)
	if err != nil {
		return errors.Wrap(err, "encoding report")
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return errors.Wrap(err, "caching report")
	}
	return nil
}

// Ping verifies the Redis connection at startup.
func (c *reportCache) Ping(ctx context.Context) error {
	return errors.Wrap(c.client.Ping(ctx).Err(), "pinging redis")
}

// Close releases the underlying connection pool.
func (c *reportCache) Close() error {
	return c.client.Close()
}
