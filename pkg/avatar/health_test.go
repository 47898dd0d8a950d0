package avatar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarworks/mouthpiece/pkg/types"
)

func TestHealthTracker_UncheckedProviderIsHealthy(t *testing.T) {
	tracker := NewHealthTracker(ProviderDUIX)

	assert.True(t, tracker.IsHealthy(ProviderDUIX), "first attempt is optimistic")
	assert.True(t, tracker.IsHealthy(ProviderAkool), "unregistered providers are optimistic too")
}

func TestHealthTracker_StatusFollowsLastOutcome(t *testing.T) {
	tracker := NewHealthTracker(ProviderDUIX)

	tracker.Record(ProviderDUIX, false, 0.5, "boom")
	assert.False(t, tracker.IsHealthy(ProviderDUIX))

	tracker.Record(ProviderDUIX, true, 0.2, "")
	assert.True(t, tracker.IsHealthy(ProviderDUIX), "a success flips the provider back to healthy")

	snapshot := tracker.Snapshot()[ProviderDUIX]
	assert.Equal(t, types.HealthHealthy, snapshot.Status)
	assert.Empty(t, snapshot.LastError, "a success clears the last error")
}

func TestHealthTracker_CircuitBreaker(t *testing.T) {
	tracker := NewHealthTracker(ProviderDUIX)

	// 4 errors, 0 successes: error rate 1.0 and count above the threshold.
	for i := 0; i < 4; i++ {
		tracker.Record(ProviderDUIX, false, 0.1, "fail")
	}
	assert.False(t, tracker.IsHealthy(ProviderDUIX))

	// Even a recent success does not reopen a provider failing most of the
	// time.
	tracker.Record(ProviderDUIX, true, 0.1, "")
	assert.False(t, tracker.IsHealthy(ProviderDUIX), "4 errors vs 1 success is still above the trip threshold")
}

func TestHealthTracker_OccasionalErrorStaysHealthy(t *testing.T) {
	tracker := NewHealthTracker(ProviderAkool)

	tracker.Record(ProviderAkool, false, 0.1, "blip")
	for i := 0; i < 10; i++ {
		tracker.Record(ProviderAkool, true, 0.1, "")
	}

	assert.True(t, tracker.IsHealthy(ProviderAkool))
}

func TestHealthTracker_CountersAreMonotonic(t *testing.T) {
	tracker := NewHealthTracker(ProviderMock)

	tracker.Record(ProviderMock, true, 0.1, "")
	tracker.Record(ProviderMock, false, 0.2, "x")
	tracker.Record(ProviderMock, true, 0.3, "")

	snapshot := tracker.Snapshot()[ProviderMock]
	assert.Equal(t, uint64(2), snapshot.SuccessCount)
	assert.Equal(t, uint64(1), snapshot.ErrorCount)
	require.NotNil(t, snapshot.LastCheck)
	assert.Equal(t, 0.3, snapshot.ResponseTime)
}

func TestHealthTracker_SnapshotIsACopy(t *testing.T) {
	tracker := NewHealthTracker(ProviderMock)
	tracker.Record(ProviderMock, true, 0.1, "")

	snapshot := tracker.Snapshot()
	snapshot[ProviderMock] = types.ProviderHealth{Status: types.HealthError}

	assert.True(t, tracker.IsHealthy(ProviderMock), "mutating a snapshot must not affect the tracker")
}
