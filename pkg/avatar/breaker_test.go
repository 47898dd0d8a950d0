package avatar

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarworks/mouthpiece/pkg/alert"
	"github.com/avatarworks/mouthpiece/pkg/config"
	"github.com/avatarworks/mouthpiece/pkg/types"
)

func breakerConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         60,
		Timeout:          60,
		ReadyToTripRatio: 0.6,
	}
}

func TestBreakerTransport_PassesThroughSuccess(t *testing.T) {
	inner := &fakeTransport{provider: ProviderDUIX, payload: map[string]any{"ok": true}}
	wrapped := newBreakerTransport(inner, breakerConfig(), &alert.NoOpAlerter{}, discardLogger())

	payload, err := wrapped.Speak(context.Background(), types.SpeakRequest{Text: "hi"}, "joy")
	require.NoError(t, err)
	assert.Equal(t, true, payload["ok"])
	assert.Equal(t, 1, inner.callCount)
}

func TestBreakerTransport_OpensAfterRepeatedFailures(t *testing.T) {
	inner := &fakeTransport{provider: ProviderDUIX, err: errors.New("upstream down")}
	wrapped := newBreakerTransport(inner, breakerConfig(), &alert.NoOpAlerter{}, discardLogger())

	for i := 0; i < 3; i++ {
		_, err := wrapped.Speak(context.Background(), types.SpeakRequest{Text: "hi"}, "joy")
		require.Error(t, err)
	}
	callsBeforeOpen := inner.callCount

	// The circuit is open now. Calls fail without touching the transport
	// and surface as transport errors so the router fails over.
	_, err := wrapped.Speak(context.Background(), types.SpeakRequest{Text: "hi"}, "joy")
	require.Error(t, err)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, ProviderDUIX, transportErr.Provider)
	assert.Equal(t, callsBeforeOpen, inner.callCount)
}

func TestBreakerTransport_KeepsProviderIdentity(t *testing.T) {
	inner := &fakeTransport{provider: ProviderAkool}
	wrapped := newBreakerTransport(inner, breakerConfig(), &alert.NoOpAlerter{}, discardLogger())

	assert.Equal(t, ProviderAkool, wrapped.Provider())
}
