package health

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// CachedProvider decorates a Provider with a short-lived read-through
// cache and a rate limiter. Snapshot loads fan out ten queries at a
// time; without this layer a dashboard refresh followed by a widget
// refresh would hit the device health store with the same queries twice
// within seconds.
type CachedProvider struct {
	inner   Provider
	cache   *gocache.Cache
	limiter *rate.Limiter
}

// NewCachedProvider wraps inner with a TTL cache and a per-minute query
// budget. A ratePerMinute of 0 disables limiting.
func NewCachedProvider(inner Provider, ttl time.Duration, ratePerMinute int) *CachedProvider {
	limit := rate.Inf
	if ratePerMinute > 0 {
		limit = rate.Limit(float64(ratePerMinute) / 60.0)
	}
	return &CachedProvider{
		inner:   inner,
		cache:   gocache.New(ttl, 2*ttl),
		limiter: rate.NewLimiter(limit, max(1, ratePerMinute)),
	}
}

func (c *CachedProvider) wait(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}

// QuerySamples passes through uncached; sample ranges vary per call and
// are cheap to reread relative to their cardinality.
func (c *CachedProvider) QuerySamples(ctx context.Context, metric Metric, start, end time.Time) ([]Sample, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return c.inner.QuerySamples(ctx, metric, start, end)
}

// QueryLatest returns the cached latest value when fresh.
func (c *CachedProvider) QueryLatest(ctx context.Context, metric Metric) (Quantity, error) {
	key := "latest:" + string(metric)
	if v, ok := c.cache.Get(key); ok {
		return v.(Quantity), nil
	}
	if err := c.wait(ctx); err != nil {
		return Quantity{}, err
	}
	q, err := c.inner.QueryLatest(ctx, metric)
	if err != nil {
		return Quantity{}, err
	}
	c.cache.SetDefault(key, q)
	return q, nil
}

// QuerySum returns the cached sum for an identical window when fresh.
func (c *CachedProvider) QuerySum(ctx context.Context, metric Metric, start, end time.Time) (Quantity, error) {
	key := fmt.Sprintf("sum:%s:%d:%d", metric, start.Unix(), end.Unix())
	if v, ok := c.cache.Get(key); ok {
		return v.(Quantity), nil
	}
	if err := c.wait(ctx); err != nil {
		return Quantity{}, err
	}
	q, err := c.inner.QuerySum(ctx, metric, start, end)
	if err != nil {
		return Quantity{}, err
	}
	c.cache.SetDefault(key, q)
	return q, nil
}

// QuerySleep passes through uncached.
func (c *CachedProvider) QuerySleep(ctx context.Context, start, end time.Time) ([]SleepSegment, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return c.inner.QuerySleep(ctx, start, end)
}

// Observe passes through; subscriptions are long-lived and not rate
// limited.
func (c *CachedProvider) Observe(ctx context.Context, metric Metric) (<-chan Notification, error) {
	return c.inner.Observe(ctx, metric)
}

// Invalidate drops cached values for the metric, typically after a
// provider change notification.
func (c *CachedProvider) Invalidate(metric Metric) {
	c.cache.Delete("latest:" + string(metric))
}
