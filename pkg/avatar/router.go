package avatar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avatarworks/mouthpiece/pkg/types"
)

const opSpeak = "speak"

// FailoverRouter tries providers in configured order until one succeeds.
// Per attempt it consults the health tracker before anything else, the
// response cache before rate limiting, and the rate limiter before the wire
// call, then records the outcome. Health is advisory: unhealthy providers
// are skipped, never called.
type FailoverRouter struct {
	transports   map[ProviderID]Transport
	health       *HealthTracker
	limiter      *RateLimiter
	cache        *ResponseCache
	cacheEnabled bool
	logger       *slog.Logger
}

// NewFailoverRouter wires a router over shared per-client state. The cache
// may be nil when caching is disabled.
func NewFailoverRouter(transports map[ProviderID]Transport, health *HealthTracker, limiter *RateLimiter, cache *ResponseCache, logger *slog.Logger) *FailoverRouter {
	return &FailoverRouter{
		transports:   transports,
		health:       health,
		limiter:      limiter,
		cache:        cache,
		cacheEnabled: cache != nil,
		logger:       logger,
	}
}

// Speak runs the failover loop over the given provider order. It returns the
// first successful result, or an *AllProvidersFailedError carrying the last
// underlying error when every candidate was unhealthy or failed. Context
// cancellation propagates as-is and is never counted as exhaustion.
func (r *FailoverRouter) Speak(ctx context.Context, order []ProviderID, req types.SpeakRequest) (*types.SpeakResult, error) {
	if len(order) == 0 {
		return nil, ErrNoProviders
	}

	var lastErr error
	for _, provider := range order {
		// Health and cache are re-checked per attempt so a provider's
		// status can flip mid-sequence in long-running processes.
		if !r.health.IsHealthy(provider) {
			r.logger.Debug("skipping unhealthy provider", "provider", provider)
			continue
		}

		if r.cacheEnabled {
			// A key-derivation failure is a cache miss, never a call abort.
			if key, err := CacheKey(opSpeak, provider, req); err == nil {
				if cached, ok := r.cache.Lookup(key); ok {
					r.logger.Debug("cache hit", "provider", provider)
					return &cached, nil
				}
			}
		}

		result, err := r.attempt(ctx, provider, req)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			// The attempt did not complete; no health outcome was recorded.
			return nil, ctx.Err()
		}

		lastErr = err
		r.logger.Warn("provider failed", "provider", provider, "error", err)
	}

	err := &AllProvidersFailedError{LastErr: lastErr}
	r.logger.Error("all avatar providers failed", "error", err)
	return nil, err
}

// attempt performs one rate-limited transport call and records its outcome.
func (r *FailoverRouter) attempt(ctx context.Context, provider ProviderID, req types.SpeakRequest) (*types.SpeakResult, error) {
	transport, ok := r.transports[provider]
	if !ok {
		return nil, &UnsupportedProviderError{Provider: provider}
	}

	if err := r.limiter.Admit(ctx, provider); err != nil {
		// Cancelled while waiting on admission: the attempt never started.
		return nil, err
	}

	nativeEmotion := MapEmotion(provider, req.Emotion)

	start := time.Now()
	payload, err := transport.Speak(ctx, req, nativeEmotion)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		r.health.Record(provider, false, elapsed, err.Error())
		return nil, err
	}

	r.health.Record(provider, true, elapsed, "")

	result := types.SpeakResult{
		Status:       types.StatusSuccess,
		Provider:     string(provider),
		Payload:      payload,
		ResponseTime: elapsed,
		Timestamp:    start,
	}

	// Only successes are cached: a failing provider is retried on the next
	// identical request instead of being short-circuited indefinitely.
	if r.cacheEnabled {
		if key, keyErr := CacheKey(opSpeak, provider, req); keyErr == nil {
			r.cache.Store(key, result)
		}
	}

	return &result, nil
}

// Probe issues one synthetic, uncached request against a single provider and
// reports the outcome. Rate limits still apply; health counters do not move.
func (r *FailoverRouter) Probe(ctx context.Context, provider ProviderID, probe types.SpeakRequest) types.HealthReport {
	now := time.Now()
	transport, ok := r.transports[provider]
	if !ok {
		return types.HealthReport{
			Status:    "unhealthy",
			Timestamp: now,
			Error:     fmt.Sprintf("unsupported avatar provider: %s", provider),
		}
	}

	if err := r.limiter.Admit(ctx, provider); err != nil {
		return types.HealthReport{Status: "unhealthy", Timestamp: now, Error: err.Error()}
	}

	start := time.Now()
	_, err := transport.Speak(ctx, probe, MapEmotion(provider, probe.Emotion))
	elapsed := time.Since(start).Seconds()

	if err != nil {
		return types.HealthReport{Status: "unhealthy", Timestamp: start, Error: err.Error()}
	}
	return types.HealthReport{Status: "healthy", ResponseTime: elapsed, Timestamp: start}
}
