package avatar

// EmotionNeutral is the canonical fallback emotion.
const EmotionNeutral = "neutral"

// emotionTables maps each provider's canonical emotion vocabulary to its
// native one. Providers absent from this table accept canonical tags as-is.
var emotionTables = map[ProviderID]map[string]string{
	ProviderDUIX: {
		"neutral":    "neutral",
		"happy":      "joy",
		"sad":        "sadness",
		"angry":      "anger",
		"surprised":  "surprise",
		"excited":    "excitement",
		"confused":   "confusion",
		"serious":    "serious",
		"analytical": "thoughtful",
		"friendly":   "friendly",
		"playful":    "playful",
	},
	ProviderSenseAvatar: {
		"neutral":   "normal",
		"happy":     "happy",
		"sad":       "sad",
		"angry":     "angry",
		"surprised": "surprised",
		"excited":   "energetic",
		"serious":   "formal",
		"friendly":  "gentle",
	},
	ProviderAkool: {
		"neutral":  "neutral",
		"happy":    "happy",
		"sad":      "sad",
		"excited":  "excited",
		"serious":  "professional",
		"friendly": "warm",
	},
}

// MapEmotion translates a canonical emotion tag into the provider's native
// vocabulary. Unknown tags never fail; they degrade to the provider's neutral
// tag. Providers without a mapping table pass canonical tags through.
func MapEmotion(provider ProviderID, emotion string) string {
	table, ok := emotionTables[provider]
	if !ok {
		if emotion == "" {
			return EmotionNeutral
		}
		return emotion
	}
	if native, ok := table[emotion]; ok {
		return native
	}
	return table[EmotionNeutral]
}
