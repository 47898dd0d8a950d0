package avatar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/avatarworks/mouthpiece/pkg/types"
)

// Transport performs the wire call to one provider: it builds the
// provider-specific request payload, issues it, and parses the response into
// a normalized payload map. A non-2xx status or network failure surfaces as
// a *TransportError.
type Transport interface {
	// Provider returns the identity this transport serves.
	Provider() ProviderID

	// Speak sends the utterance with the provider-native emotion tag and
	// returns the provider's normalized response payload.
	Speak(ctx context.Context, req types.SpeakRequest, nativeEmotion string) (map[string]any, error)
}

// conn is the shared HTTP connection resource: created lazily on first use,
// reused across concurrent calls, and released exactly once. Close is safe
// to call when already closed.
type conn struct {
	timeout time.Duration

	once   sync.Once
	client *http.Client

	mu     sync.Mutex
	closed bool
}

func newConn(timeout time.Duration) *conn {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &conn{timeout: timeout}
}

// httpClient returns the underlying client, creating it on first use.
// Creation is idempotent under concurrent first-use.
func (c *conn) httpClient() *http.Client {
	c.once.Do(func() {
		c.client = &http.Client{Timeout: c.timeout}
	})
	return c.client
}

// Close releases idle connections. Subsequent calls are no-ops.
func (c *conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.client != nil {
		c.client.CloseIdleConnections()
	}
	return nil
}

// postJSON issues a JSON POST to the provider's endpoint and decodes the
// response body. Any failure is wrapped in a *TransportError attributed to
// the provider, except context cancellation which passes through.
func postJSON(ctx context.Context, c *conn, provider ProviderID, endpoint string, headers map[string]string, payload any) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransportError{Provider: provider, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Provider: provider, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &TransportError{Provider: provider, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Provider: provider, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{Provider: provider, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result map[string]any
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &TransportError{Provider: provider, Err: fmt.Errorf("decode response: %w", err)}
	}
	return result, nil
}
