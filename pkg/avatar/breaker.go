package avatar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/avatarworks/mouthpiece/pkg/alert"
	"github.com/avatarworks/mouthpiece/pkg/config"
	"github.com/avatarworks/mouthpiece/pkg/types"
)

// breakerTransport wraps a Transport with circuit breaking. An open circuit
// surfaces as a transport error so the failover router moves on to the next
// provider instead of waiting out a failing one.
type breakerTransport struct {
	transport Transport
	cb        *gobreaker.CircuitBreaker
}

func newBreakerTransport(transport Transport, cfg config.CircuitBreakerConfig, alerter alert.Alerter, logger *slog.Logger) *breakerTransport {
	st := gobreaker.Settings{
		Name:        string(transport.Provider()),
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= cfg.ReadyToTripRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger != nil {
				logger.Warn("provider circuit state changed",
					"provider", name, "from", from.String(), "to", to.String())
			}
			if to == gobreaker.StateOpen && alerter != nil {
				msg := fmt.Sprintf("Circuit for avatar provider '%s' changed from %s to %s. Too many failures detected.", name, from, to)
				_ = alerter.Alert(fmt.Sprintf("URGENT: Avatar Provider Circuit Open - %s", name), msg)
			}
		},
	}

	return &breakerTransport{
		transport: transport,
		cb:        gobreaker.NewCircuitBreaker(st),
	}
}

func (t *breakerTransport) Provider() ProviderID {
	return t.transport.Provider()
}

func (t *breakerTransport) Speak(ctx context.Context, req types.SpeakRequest, nativeEmotion string) (map[string]any, error) {
	payload, err := t.cb.Execute(func() (interface{}, error) {
		return t.transport.Speak(ctx, req, nativeEmotion)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, &TransportError{Provider: t.transport.Provider(), Err: err}
		}
		return nil, err
	}
	return payload.(map[string]any), nil
}
