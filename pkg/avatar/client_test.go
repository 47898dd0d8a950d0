package avatar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarworks/mouthpiece/pkg/config"
	"github.com/avatarworks/mouthpiece/pkg/types"
)

func testConfig(primary string, fallbacks ...string) *config.Config {
	return &config.Config{
		Avatar: config.AvatarConfig{
			AvatarID:              "avatar-test",
			PrimaryProvider:       primary,
			FallbackProviders:     fallbacks,
			DefaultTimeoutSeconds: 5,
			CacheEnabled:          true,
			CacheTTLSeconds:       300,
			CacheMaxEntries:       100,
		},
	}
}

func newTestClient(t *testing.T, cfg *config.Config) *Client {
	t.Helper()
	client, err := New(cfg, discardLogger(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	// Strip the simulated network delay from any mock transport.
	for _, transport := range client.transports {
		if mock, ok := transport.(*mockTransport); ok {
			mock.delay = 0
		}
	}
	return client
}

func TestNew_RejectsUnknownProvider(t *testing.T) {
	_, err := New(testConfig("hologram"), discardLogger(), nil)

	var unsupportedErr *UnsupportedProviderError
	require.ErrorAs(t, err, &unsupportedErr)
	assert.Equal(t, ProviderID("hologram"), unsupportedErr.Provider)
}

func TestNew_RejectsUnknownRateLimitProvider(t *testing.T) {
	cfg := testConfig("mock")
	cfg.Avatar.RateLimits = map[string]int{"hologram": 10}

	_, err := New(cfg, discardLogger(), nil)
	require.ErrorIs(t, err, &UnsupportedProviderError{})
}

func TestNew_DeduplicatesProviderOrder(t *testing.T) {
	client := newTestClient(t, testConfig("mock", "local", "mock"))

	assert.Equal(t, []ProviderID{ProviderMock, ProviderLocal}, client.Providers())
}

func TestClient_SpeakFillsDefaults(t *testing.T) {
	client := newTestClient(t, testConfig("mock"))

	result, err := client.Speak(context.Background(), types.SpeakRequest{Text: "hello there"})
	require.NoError(t, err)

	assert.Equal(t, types.StatusSuccess, result.Status)
	assert.Equal(t, string(ProviderMock), result.Provider)

	data, ok := result.Payload["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "avatar-test", data["avatar_id"])
	assert.Equal(t, "en", data["language"])
	assert.Equal(t, EmotionNeutral, data["emotion"])
}

func TestClient_SpeakRejectsEmptyText(t *testing.T) {
	client := newTestClient(t, testConfig("mock"))

	_, err := client.Speak(context.Background(), types.SpeakRequest{})
	assert.ErrorIs(t, err, types.ErrEmptyText)
}

func TestClient_SpeakFailsOverToFallback(t *testing.T) {
	// A dead local endpoint forces failover to the mock provider.
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	cfg := testConfig("local", "mock")
	cfg.Avatar.Endpoints = map[string]string{"local": dead.URL}
	client := newTestClient(t, cfg)

	result, err := client.Speak(context.Background(), types.SpeakRequest{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, string(ProviderMock), result.Provider)

	health := client.health.Snapshot()
	assert.Equal(t, types.HealthError, health[ProviderLocal].Status)
	assert.Equal(t, types.HealthHealthy, health[ProviderMock].Status)
}

func TestClient_SpeakAfterCloseFails(t *testing.T) {
	client := newTestClient(t, testConfig("mock"))
	require.NoError(t, client.Close())

	_, err := client.Speak(context.Background(), types.SpeakRequest{Text: "hello"})
	assert.ErrorIs(t, err, ErrClientClosed)
}

func TestClient_CloseIsIdempotent(t *testing.T) {
	client := newTestClient(t, testConfig("mock"))

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
}

func TestClient_Stats(t *testing.T) {
	client := newTestClient(t, testConfig("mock", "local"))

	_, err := client.Speak(context.Background(), types.SpeakRequest{Text: "hello"})
	require.NoError(t, err)

	stats := client.Stats()
	assert.Equal(t, "avatar-test", stats.AvatarID)
	assert.Equal(t, "mock", stats.PrimaryProvider)
	assert.Equal(t, []string{"local"}, stats.FallbackProviders)
	assert.Equal(t, 1, stats.CacheSize)
	assert.Equal(t, uint64(1), stats.ProviderHealth["mock"].SuccessCount)
}

func TestClient_ClearCache(t *testing.T) {
	client := newTestClient(t, testConfig("mock"))

	_, err := client.Speak(context.Background(), types.SpeakRequest{Text: "hello"})
	require.NoError(t, err)
	require.Equal(t, 1, client.Stats().CacheSize)

	assert.Equal(t, 1, client.ClearCache())
	assert.Equal(t, 0, client.Stats().CacheSize)
}

func TestClient_ClearCacheWhenDisabled(t *testing.T) {
	cfg := testConfig("mock")
	cfg.Avatar.CacheEnabled = false
	client := newTestClient(t, cfg)

	assert.Equal(t, 0, client.ClearCache())
}

func TestClient_HealthCheck(t *testing.T) {
	client := newTestClient(t, testConfig("mock"))

	reports := client.HealthCheck(context.Background())
	require.Len(t, reports, 1)

	report := reports[ProviderMock]
	assert.Equal(t, "healthy", report.Status)
	assert.Empty(t, report.Error)

	// Probes never touch the health counters.
	assert.Equal(t, uint64(0), client.health.Snapshot()[ProviderMock].SuccessCount)
}
