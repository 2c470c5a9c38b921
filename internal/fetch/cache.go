package fetch

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Store is the key/value store backing a CachingProber.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Prober checks whether a URL serves an image.
type Prober interface {
	Probe(ctx context.Context, url string) (*ProbeResult, error)
}

// CachingProber remembers successful probe results. Failures are never cached.
type CachingProber struct {
	next  Prober
	store Store
	ttl   time.Duration
	log   *slog.Logger
}

// NewCachingProber wraps next. A nil store or non-positive ttl returns a
// prober that always calls through.
func NewCachingProber(next Prober, store Store, ttl time.Duration, logger *slog.Logger) *CachingProber {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		store = nil
	}
	return &CachingProber{next: next, store: store, ttl: ttl, log: logger.With("component", "probe-cache")}
}

func probeKey(url string) string {
	return "probe:" + url
}

// Probe returns a cached result for url or probes it.
func (p *CachingProber) Probe(ctx context.Context, url string) (*ProbeResult, error) {
	if p.store == nil {
		return p.next.Probe(ctx, url)
	}

	if data, ok := p.store.Get(ctx, probeKey(url)); ok {
		var res ProbeResult
		if err := json.Unmarshal(data, &res); err == nil {
			p.log.Debug("cache hit", "url", url)
			return &res, nil
		}
	}

	res, err := p.next.Probe(ctx, url)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(res); err == nil {
		if err := p.store.Set(ctx, probeKey(url), data, p.ttl); err != nil {
			p.log.Warn("failed to cache probe result", "url", url, "error", err)
		}
	}
	return res, nil
}
