package avatar

import (
	"context"

	"github.com/avatarworks/mouthpiece/pkg/types"
)

const defaultSenseAvatarEndpoint = "https://api.senseavatar.com/v1/speak"

// senseAvatarTransport speaks to the SenseAvatar API. Authentication is an
// API-key header; rendering is asynchronous, so responses carry a task id
// alongside the video URL.
type senseAvatarTransport struct {
	endpoint string
	apiKey   string
	conn     *conn
}

func newSenseAvatarTransport(endpoint, apiKey string, conn *conn) *senseAvatarTransport {
	if endpoint == "" {
		endpoint = defaultSenseAvatarEndpoint
	}
	return &senseAvatarTransport{endpoint: endpoint, apiKey: apiKey, conn: conn}
}

func (t *senseAvatarTransport) Provider() ProviderID {
	return ProviderSenseAvatar
}

func (t *senseAvatarTransport) Speak(ctx context.Context, req types.SpeakRequest, nativeEmotion string) (map[string]any, error) {
	// SenseAvatar uses "avatar" and "lang" rather than the field names the
	// other providers share.
	payload := map[string]any{
		"avatar":  req.AvatarID,
		"text":    req.Text,
		"emotion": nativeEmotion,
		"lang":    req.Language,
	}
	if req.VoiceID != "" {
		payload["voice"] = req.VoiceID
	}
	if req.Gesture != "" {
		payload["gesture"] = req.Gesture
	}

	headers := map[string]string{
		"X-API-Key": t.apiKey,
	}

	result, err := postJSON(ctx, t.conn, ProviderSenseAvatar, t.endpoint, headers, payload)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"data":      result,
		"video_url": result["video_url"],
		"task_id":   result["task_id"],
	}, nil
}
