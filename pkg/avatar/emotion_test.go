package avatar

import "testing"

func TestMapEmotion(t *testing.T) {
	tests := []struct {
		name     string
		provider ProviderID
		emotion  string
		want     string
	}{
		{"duix maps happy to joy", ProviderDUIX, "happy", "joy"},
		{"duix maps analytical to thoughtful", ProviderDUIX, "analytical", "thoughtful"},
		{"duix unknown degrades to neutral", ProviderDUIX, "melancholic", "neutral"},
		{"sense maps neutral to normal", ProviderSenseAvatar, "neutral", "normal"},
		{"sense maps excited to energetic", ProviderSenseAvatar, "excited", "energetic"},
		{"sense unknown degrades to normal", ProviderSenseAvatar, "playful", "normal"},
		{"akool maps serious to professional", ProviderAkool, "serious", "professional"},
		{"akool maps friendly to warm", ProviderAkool, "friendly", "warm"},
		{"akool unknown degrades to neutral", ProviderAkool, "confused", "neutral"},
		{"local passes through", ProviderLocal, "excited", "excited"},
		{"mock passes through", ProviderMock, "happy", "happy"},
		{"local empty becomes neutral", ProviderLocal, "", "neutral"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapEmotion(tt.provider, tt.emotion); got != tt.want {
				t.Errorf("MapEmotion(%s, %q) = %q, want %q", tt.provider, tt.emotion, got, tt.want)
			}
		})
	}
}
