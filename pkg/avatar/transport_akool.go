package avatar

import (
	"context"

	"github.com/avatarworks/mouthpiece/pkg/types"
)

const defaultAkoolEndpoint = "https://api.akool.com/v1/avatar/speak"

// akoolTransport speaks to the Akool video avatar API. Authentication is a
// bearer token; responses carry video and generation identifiers.
type akoolTransport struct {
	endpoint string
	apiKey   string
	conn     *conn
}

func newAkoolTransport(endpoint, apiKey string, conn *conn) *akoolTransport {
	if endpoint == "" {
		endpoint = defaultAkoolEndpoint
	}
	return &akoolTransport{endpoint: endpoint, apiKey: apiKey, conn: conn}
}

func (t *akoolTransport) Provider() ProviderID {
	return ProviderAkool
}

func (t *akoolTransport) Speak(ctx context.Context, req types.SpeakRequest, nativeEmotion string) (map[string]any, error) {
	payload := map[string]any{
		"avatar_id":  req.AvatarID,
		"input_text": req.Text,
		"emotion":    nativeEmotion,
		"language":   req.Language,
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

	result, err := postJSON(ctx, t.conn, ProviderAkool, t.endpoint, headers, payload)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"data":          result,
		"video_id":      result["video_id"],
		"generation_id": result["generation_id"],
	}, nil
}
