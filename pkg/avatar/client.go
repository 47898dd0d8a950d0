package avatar

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/avatarworks/mouthpiece/pkg/alert"
	"github.com/avatarworks/mouthpiece/pkg/config"
	"github.com/avatarworks/mouthpiece/pkg/types"
)

// Client is the multi-provider avatar communication client. It owns the
// provider order, the shared connection resource, and all per-instance
// mutable state (health counters, rate windows, cache entries), so multiple
// independently configured clients can coexist in one process.
//
// One Client serves concurrent Speak calls; the failover loop inside each
// call is sequential.
type Client struct {
	avatarID string
	cfg      config.AvatarConfig
	logger   *slog.Logger

	conn       *conn
	order      []ProviderID
	transports map[ProviderID]Transport
	health     *HealthTracker
	limiter    *RateLimiter
	cache      *ResponseCache
	router     *FailoverRouter

	mu     sync.Mutex
	closed bool
}

// New creates a client from configuration. Every configured provider must be
// a member of the closed provider set; anything else is a fatal
// *UnsupportedProviderError. A nil logger falls back to slog.Default and a
// nil alerter to the no-op alerter.
func New(cfg *config.Config, logger *slog.Logger, alerter alert.Alerter) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if alerter == nil {
		alerter = &alert.NoOpAlerter{}
	}

	avatarCfg := cfg.Avatar

	order, err := providerOrder(avatarCfg)
	if err != nil {
		return nil, err
	}

	sharedConn := newConn(time.Duration(avatarCfg.DefaultTimeoutSeconds) * time.Second)

	transports := make(map[ProviderID]Transport, len(order))
	for _, provider := range order {
		transport := newTransport(provider, avatarCfg, sharedConn)
		if cfg.CircuitBreaker.Enabled && provider != ProviderMock {
			transport = newBreakerTransport(transport, cfg.CircuitBreaker, alerter, logger)
		}
		transports[provider] = transport
	}

	rateLimits := make(map[ProviderID]int, len(avatarCfg.RateLimits))
	for raw, perMinute := range avatarCfg.RateLimits {
		provider, ok := ParseProviderID(raw)
		if !ok {
			return nil, &UnsupportedProviderError{Provider: ProviderID(raw)}
		}
		rateLimits[provider] = perMinute
	}

	health := NewHealthTracker(order...)
	limiter := NewRateLimiter(rateLimits)

	var cache *ResponseCache
	if avatarCfg.CacheEnabled {
		cache = NewResponseCache(
			time.Duration(avatarCfg.CacheTTLSeconds)*time.Second,
			avatarCfg.CacheMaxEntries,
		)
	}

	client := &Client{
		avatarID:   avatarCfg.AvatarID,
		cfg:        avatarCfg,
		logger:     logger.With("avatar_id", avatarCfg.AvatarID),
		conn:       sharedConn,
		order:      order,
		transports: transports,
		health:     health,
		limiter:    limiter,
		cache:      cache,
		router:     NewFailoverRouter(transports, health, limiter, cache, logger),
	}
	return client, nil
}

// providerOrder resolves and validates [primary, fallbacks...]. The order is
// fixed at construction and never reordered at call time.
func providerOrder(cfg config.AvatarConfig) ([]ProviderID, error) {
	raw := append([]string{cfg.PrimaryProvider}, cfg.FallbackProviders...)

	order := make([]ProviderID, 0, len(raw))
	seen := make(map[ProviderID]bool, len(raw))
	for _, name := range raw {
		provider, ok := ParseProviderID(name)
		if !ok {
			return nil, &UnsupportedProviderError{Provider: ProviderID(name)}
		}
		if seen[provider] {
			continue
		}
		seen[provider] = true
		order = append(order, provider)
	}
	if len(order) == 0 {
		return nil, ErrNoProviders
	}
	return order, nil
}

// newTransport builds the wire transport for one provider.
func newTransport(provider ProviderID, cfg config.AvatarConfig, conn *conn) Transport {
	endpoint := cfg.Endpoints[string(provider)]
	apiKey := cfg.APIKeys[string(provider)]

	switch provider {
	case ProviderDUIX:
		return newDUIXTransport(endpoint, apiKey, conn)
	case ProviderSenseAvatar:
		return newSenseAvatarTransport(endpoint, apiKey, conn)
	case ProviderAkool:
		return newAkoolTransport(endpoint, apiKey, conn)
	case ProviderLocal:
		return newLocalTransport(endpoint, conn)
	default:
		return newMockTransport()
	}
}

// Speak renders one utterance, trying the primary provider and then each
// fallback in configured order. The only error surfaced besides context
// cancellation and validation is *AllProvidersFailedError.
func (c *Client) Speak(ctx context.Context, req types.SpeakRequest) (*types.SpeakResult, error) {
	if c.isClosed() {
		return nil, ErrClientClosed
	}
	if req.AvatarID == "" {
		req.AvatarID = c.avatarID
	}
	if req.Emotion == "" {
		req.Emotion = EmotionNeutral
	}
	if req.Language == "" {
		req.Language = "en"
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return c.router.Speak(ctx, c.order, req)
}

// HealthCheck probes the given providers (all configured providers when none
// are named) with a synthetic request and reports per-provider outcomes.
// Probes bypass the cache and never return an error: failures show up as an
// unhealthy status in the report.
func (c *Client) HealthCheck(ctx context.Context, providers ...ProviderID) map[ProviderID]types.HealthReport {
	if len(providers) == 0 {
		providers = c.order
	}

	probe := types.SpeakRequest{
		Text:     "Health check",
		Emotion:  EmotionNeutral,
		Language: "en",
		AvatarID: c.avatarID,
	}

	reports := make(map[ProviderID]types.HealthReport, len(providers))
	for _, provider := range providers {
		reports[provider] = c.router.Probe(ctx, provider, probe)
	}
	return reports
}

// Stats returns a snapshot of provider health, cache size, and rate-window
// occupancy.
func (c *Client) Stats() types.Stats {
	healthSnapshot := c.health.Snapshot()
	providerHealth := make(map[string]types.ProviderHealth, len(healthSnapshot))
	for provider, h := range healthSnapshot {
		providerHealth[string(provider)] = h
	}

	historySize := 0
	for _, n := range c.limiter.Occupancy() {
		historySize += n
	}

	cacheSize := 0
	if c.cache != nil {
		cacheSize = c.cache.Len()
	}

	fallbacks := make([]string, 0, len(c.order))
	for _, provider := range c.order[1:] {
		fallbacks = append(fallbacks, string(provider))
	}

	return types.Stats{
		AvatarID:           c.avatarID,
		PrimaryProvider:    string(c.order[0]),
		FallbackProviders:  fallbacks,
		ProviderHealth:     providerHealth,
		CacheSize:          cacheSize,
		RequestHistorySize: historySize,
	}
}

// ClearCache drops all cached responses and returns how many were dropped.
func (c *Client) ClearCache() int {
	if c.cache == nil {
		return 0
	}
	n := c.cache.Clear()
	c.logger.Info("cleared cached responses", "count", n)
	return n
}

// Providers returns the configured provider order, primary first.
func (c *Client) Providers() []ProviderID {
	order := make([]ProviderID, len(c.order))
	copy(order, c.order)
	return order
}

// Close releases the shared connection resource. It is safe to call more
// than once and from any exit path.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
