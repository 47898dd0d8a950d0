package avatar

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarworks/mouthpiece/pkg/types"
)

func speakRequest(text string) types.SpeakRequest {
	return types.SpeakRequest{
		Text:     text,
		Emotion:  "happy",
		Language: "en",
		AvatarID: "u1",
	}
}

func TestCacheKey_Deterministic(t *testing.T) {
	k1, err := CacheKey("speak", ProviderMock, speakRequest("hi"))
	require.NoError(t, err)
	k2, err := CacheKey("speak", ProviderMock, speakRequest("hi"))
	require.NoError(t, err)

	assert.Equal(t, k1, k2, "structurally identical requests must collide to the same key")
}

func TestCacheKey_DistinctPerProvider(t *testing.T) {
	k1, err := CacheKey("speak", ProviderMock, speakRequest("hi"))
	require.NoError(t, err)
	k2, err := CacheKey("speak", ProviderDUIX, speakRequest("hi"))
	require.NoError(t, err)

	assert.NotEqual(t, k1, k2, "the cache is per-provider, keys must differ")
}

func TestCacheKey_IgnoresVoiceAndGesture(t *testing.T) {
	req := speakRequest("hi")
	req.VoiceID = "v1"
	req.Gesture = "wave"

	k1, err := CacheKey("speak", ProviderMock, speakRequest("hi"))
	require.NoError(t, err)
	k2, err := CacheKey("speak", ProviderMock, req)
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
}

func TestResponseCache_RoundTrip(t *testing.T) {
	cache := NewResponseCache(time.Minute, 10)

	result := types.SpeakResult{
		Status:   types.StatusSuccess,
		Provider: string(ProviderMock),
		Payload:  map[string]any{"task_id": "t1"},
	}
	cache.Store("k", result)

	got, ok := cache.Lookup("k")
	require.True(t, ok)
	assert.Equal(t, result, got)
	assert.Equal(t, 1, cache.Len())
}

func TestResponseCache_MissOnAbsentKey(t *testing.T) {
	cache := NewResponseCache(time.Minute, 10)

	_, ok := cache.Lookup("absent")
	assert.False(t, ok)
}

func TestResponseCache_ExpiresAfterTTL(t *testing.T) {
	cache := NewResponseCache(30*time.Millisecond, 10)

	cache.Store("k", types.SpeakResult{Status: types.StatusSuccess})

	time.Sleep(60 * time.Millisecond)

	_, ok := cache.Lookup("k")
	assert.False(t, ok, "expired entry must not be returned")
	assert.Equal(t, 0, cache.Len(), "expired entry must be purged on lookup")
}

func TestResponseCache_EvictsOldestTenth(t *testing.T) {
	cache := NewResponseCache(time.Minute, 10)

	for i := 0; i < 11; i++ {
		cache.Store(fmt.Sprintf("k%d", i), types.SpeakResult{Status: types.StatusSuccess})
		time.Sleep(time.Millisecond) // distinct cachedAt ordering
	}

	assert.Equal(t, 10, cache.Len())

	_, ok := cache.Lookup("k0")
	assert.False(t, ok, "oldest entry must be evicted")

	for i := 1; i < 11; i++ {
		_, ok := cache.Lookup(fmt.Sprintf("k%d", i))
		assert.True(t, ok, "entry k%d must be retained", i)
	}
}

func TestResponseCache_Clear(t *testing.T) {
	cache := NewResponseCache(time.Minute, 10)
	cache.Store("a", types.SpeakResult{})
	cache.Store("b", types.SpeakResult{})

	assert.Equal(t, 2, cache.Clear())
	assert.Equal(t, 0, cache.Len())
}
