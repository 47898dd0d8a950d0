package avatar

// ProviderID represents a unique identifier for an avatar rendering provider.
type ProviderID string

const (
	// ProviderDUIX is the ID for the DUIX digital-human service.
	ProviderDUIX ProviderID = "duix"
	// ProviderSenseAvatar is the ID for the SenseAvatar service.
	ProviderSenseAvatar ProviderID = "sense_avatar"
	// ProviderAkool is the ID for the Akool video avatar service.
	ProviderAkool ProviderID = "akool"
	// ProviderLocal is the ID for a locally hosted rendering service.
	ProviderLocal ProviderID = "local"
	// ProviderMock is the ID for the in-process mock provider used in tests.
	ProviderMock ProviderID = "mock"
)

// Provider describes an avatar rendering destination.
type Provider struct {
	ID          ProviderID
	Name        string
	Description string
	IsLocal     bool
}

// BuiltInProviders contains the closed set of supported providers.
var BuiltInProviders = map[ProviderID]Provider{
	ProviderDUIX: {
		ID:          ProviderDUIX,
		Name:        "DUIX",
		Description: "Cloud digital-human rendering with audio and avatar streams",
		IsLocal:     false,
	},
	ProviderSenseAvatar: {
		ID:          ProviderSenseAvatar,
		Name:        "SenseAvatar",
		Description: "Cloud avatar video generation, task-based API",
		IsLocal:     false,
	},
	ProviderAkool: {
		ID:          ProviderAkool,
		Name:        "Akool",
		Description: "Cloud avatar video generation with generation identifiers",
		IsLocal:     false,
	},
	ProviderLocal: {
		ID:          ProviderLocal,
		Name:        "Local",
		Description: "Self-hosted rendering service, no authentication",
		IsLocal:     true,
	},
	ProviderMock: {
		ID:          ProviderMock,
		Name:        "Mock",
		Description: "In-process mock provider for tests and dry runs",
		IsLocal:     true,
	},
}

// GetProvider returns the provider with the given ID.
func GetProvider(id ProviderID) (Provider, bool) {
	p, ok := BuiltInProviders[id]
	return p, ok
}

// ParseProviderID validates a raw string against the closed provider set.
func ParseProviderID(raw string) (ProviderID, bool) {
	id := ProviderID(raw)
	_, ok := BuiltInProviders[id]
	return id, ok
}
