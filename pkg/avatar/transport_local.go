package avatar

import (
	"context"

	"github.com/avatarworks/mouthpiece/pkg/types"
)

const defaultLocalEndpoint = "http://localhost:8000/speak"

// localTransport speaks to a self-hosted rendering service. No
// authentication; emotion tags pass through unmapped.
type localTransport struct {
	endpoint string
	conn     *conn
}

func newLocalTransport(endpoint string, conn *conn) *localTransport {
	if endpoint == "" {
		endpoint = defaultLocalEndpoint
	}
	return &localTransport{endpoint: endpoint, conn: conn}
}

func (t *localTransport) Provider() ProviderID {
	return ProviderLocal
}

func (t *localTransport) Speak(ctx context.Context, req types.SpeakRequest, nativeEmotion string) (map[string]any, error) {
	payload := map[string]any{
		"text":     req.Text,
		"emotion":  nativeEmotion,
		"language": req.Language,
	}
	if req.VoiceID != "" {
		payload["voice_id"] = req.VoiceID
	}
	if req.Gesture != "" {
		payload["gesture"] = req.Gesture
	}

	result, err := postJSON(ctx, t.conn, ProviderLocal, t.endpoint, nil, payload)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"data":    result,
		"message": "local avatar service processed request",
	}, nil
}
