package api

import (
	"context"
	"sync"
	"time"

	"github.com/Akashdeep-Patra/sdash/internal/survey"
)

// CachedService wraps a Service with a TTL cache for the two read calls.
// Successful writes invalidate it so the next read is fresh.
//
// The dashboard and the survey table both load on startup and again on
// every refresh; the cache collapses those into one backend round trip
// per TTL window.
type CachedService struct {
	inner Service
	ttl   time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
	gen   uint64 // bumped by Invalidate; reads started before it are not stored
	now   func() time.Time
}

type cacheEntry struct {
	val    any
	expiry time.Time
}

const (
	keySurveys  = "surveys"
	keyOverview = "overview"
)

// Compile-time check.
var _ Service = (*CachedService)(nil)

// NewCachedService wraps inner with a TTL cache. A TTL <= 0 disables caching.
func NewCachedService(inner Service, ttl time.Duration) *CachedService {
	return &CachedService{
		inner: inner,
		ttl:   ttl,
		cache: make(map[string]cacheEntry, 2),
		now:   time.Now,
	}
}

// Invalidate clears all cached entries. A read already in flight when it is
// called still returns its result but does not repopulate the cache.
func (c *CachedService) Invalidate() {
	c.mu.Lock()
	c.gen++
	c.cache = make(map[string]cacheEntry, 2)
	c.mu.Unlock()
}

// get returns the live entry for key, plus the generation a miss should be
// stored under.
func (c *CachedService) get(key string) (any, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.cache[key]
	if !ok || c.now().After(e.expiry) {
		return nil, c.gen, false
	}
	return e.val, c.gen, true
}

// set stores only successful results; errors are never cached.
func (c *CachedService) set(key string, val any, gen uint64) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.cache[key] = cacheEntry{val: val, expiry: c.now().Add(c.ttl)}
}

func (c *CachedService) invalidateAndReturn(err error) error {
	if err == nil {
		c.Invalidate()
	}
	return err
}

// Endpoint delegates to the inner service.
func (c *CachedService) Endpoint() string { return c.inner.Endpoint() }

// ListSurveys returns the survey list (cached). Callers get their own copy.
func (c *CachedService) ListSurveys(ctx context.Context) ([]survey.Survey, error) {
	v, gen, ok := c.get(keySurveys)
	if ok {
		return append([]survey.Survey(nil), v.([]survey.Survey)...), nil
	}
	list, err := c.inner.ListSurveys(ctx)
	if err != nil {
		return nil, err
	}
	c.set(keySurveys, append([]survey.Survey(nil), list...), gen)
	return list, nil
}

// Overview returns the dashboard aggregate (cached).
func (c *CachedService) Overview(ctx context.Context) (survey.Overview, error) {
	v, gen, ok := c.get(keyOverview)
	if ok {
		return v.(survey.Overview), nil
	}
	o, err := c.inner.Overview(ctx)
	if err != nil {
		return o, err
	}
	c.set(keyOverview, o, gen)
	return o, nil
}

// CreateSurvey creates a survey and invalidates the cache.
func (c *CachedService) CreateSurvey(ctx context.Context, d survey.Draft) (survey.Survey, error) {
	s, err := c.inner.CreateSurvey(ctx, d)
	return s, c.invalidateAndReturn(err)
}

// UpdateSurvey updates a survey and invalidates the cache.
func (c *CachedService) UpdateSurvey(ctx context.Context, id string, d survey.Draft) (survey.Survey, error) {
	s, err := c.inner.UpdateSurvey(ctx, id, d)
	return s, c.invalidateAndReturn(err)
}

// DeleteSurvey deletes a survey and invalidates the cache.
func (c *CachedService) DeleteSurvey(ctx context.Context, id string) error {
	return c.invalidateAndReturn(c.inner.DeleteSurvey(ctx, id))
}
