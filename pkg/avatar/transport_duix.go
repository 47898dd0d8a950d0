package avatar

import (
	"context"

	"github.com/avatarworks/mouthpiece/pkg/types"
)

const defaultDUIXEndpoint = "https://api.duix.com/v1/avatar/speak"

// duixTransport speaks to the DUIX digital-human API. Authentication is a
// bearer token; successful responses carry avatar and audio stream URLs.
type duixTransport struct {
	endpoint string
	apiKey   string
	conn     *conn
}

func newDUIXTransport(endpoint, apiKey string, conn *conn) *duixTransport {
	if endpoint == "" {
		endpoint = defaultDUIXEndpoint
	}
	return &duixTransport{endpoint: endpoint, apiKey: apiKey, conn: conn}
}

func (t *duixTransport) Provider() ProviderID {
	return ProviderDUIX
}

func (t *duixTransport) Speak(ctx context.Context, req types.SpeakRequest, nativeEmotion string) (map[string]any, error) {
	payload := map[string]any{
		"avatar_id": req.AvatarID,
		"text":      req.Text,
		"emotion":   nativeEmotion,
		"language":  req.Language,
	}
	if req.VoiceID != "" {
		payload["voice_id"] = req.VoiceID
	}
	if req.Gesture != "" {
		payload["gesture"] = req.Gesture
	}

	headers := map[string]string{
		"Authorization": "Bearer " + t.apiKey,
	}

	result, err := postJSON(ctx, t.conn, ProviderDUIX, t.endpoint, headers, payload)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"data":       result,
		"avatar_url": result["avatar_url"],
		"audio_url":  result["audio_url"],
	}, nil
}
