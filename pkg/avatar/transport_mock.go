package avatar

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avatarworks/mouthpiece/pkg/types"
)

// mockTransport is an in-process provider for tests and dry runs. It answers
// every request successfully after a short simulated network delay.
type mockTransport struct {
	delay time.Duration
}

func newMockTransport() *mockTransport {
	return &mockTransport{delay: 100 * time.Millisecond}
}

func (t *mockTransport) Provider() ProviderID {
	return ProviderMock
}

func (t *mockTransport) Speak(ctx context.Context, req types.SpeakRequest, nativeEmotion string) (map[string]any, error) {
	if t.delay > 0 {
		timer := time.NewTimer(t.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return map[string]any{
		"data": map[string]any{
			"text":      req.Text,
			"emotion":   nativeEmotion,
			"language":  req.Language,
			"avatar_id": req.AvatarID,
		},
		"task_id":        uuid.NewString(),
		"message":        "mock avatar service - request processed successfully",
		"mock_video_url": fmt.Sprintf("https://mock.avatar.com/video/%s", req.AvatarID),
	}, nil
}
