package types

import (
	"errors"
	"strings"
	"time"
)

// Validation errors
var (
	ErrEmptyText     = errors.New("text cannot be empty")
	ErrEmptyAvatarID = errors.New("avatar_id cannot be empty")
)

// ContextKey is a typed key for context values.
type ContextKey string

const (
	// ContextKeyAvatarID carries the avatar identity of the current request.
	ContextKeyAvatarID ContextKey = "avatar_id"
	// ContextKeyRequestID carries the server-assigned request identifier.
	ContextKeyRequestID ContextKey = "request_id"
	// ContextKeyRequestSource identifies where a request entered the system.
	ContextKeyRequestSource ContextKey = "request_source"
)

// Status represents the outcome of a speak call.
type Status string

const (
	// StatusSuccess indicates the provider accepted and rendered the request.
	StatusSuccess Status = "success"
	// StatusError indicates the call failed.
	StatusError Status = "error"
)

// SpeakRequest describes a single utterance to render. It is built once per
// call and never mutated afterwards.
type SpeakRequest struct {
	Text     string `json:"text"`
	Emotion  string `json:"emotion,omitempty"`
	Language string `json:"language,omitempty"`
	VoiceID  string `json:"voice_id,omitempty"`
	Gesture  string `json:"gesture,omitempty"`
	AvatarID string `json:"avatar_id"`
}

// Validate checks that the request carries the required fields.
func (r *SpeakRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyText
	}
	if r.AvatarID == "" {
		return ErrEmptyAvatarID
	}
	return nil
}

// SpeakResult is the normalized response returned to callers. Payload holds
// provider-specific response fields (media URLs, task/generation identifiers)
// passed through unmodified.
type SpeakResult struct {
	Status       Status         `json:"status"`
	Provider     string         `json:"provider"`
	Payload      map[string]any `json:"payload,omitempty"`
	ResponseTime float64        `json:"response_time"`
	Timestamp    time.Time      `json:"timestamp"`
	Error        string         `json:"error,omitempty"`
}

// HealthStatus represents the derived health of a provider.
type HealthStatus string

const (
	// HealthUnknown means the provider has never been called.
	HealthUnknown HealthStatus = "unknown"
	// HealthHealthy means the most recent call succeeded.
	HealthHealthy HealthStatus = "healthy"
	// HealthError means the most recent call failed.
	HealthError HealthStatus = "error"
)

// ProviderHealth is a point-in-time snapshot of a provider's outcome history.
// Counters only grow between process restarts.
type ProviderHealth struct {
	Status       HealthStatus `json:"status"`
	LastCheck    *time.Time   `json:"last_check,omitempty"`
	ResponseTime float64      `json:"response_time"`
	SuccessCount uint64       `json:"success_count"`
	ErrorCount   uint64       `json:"error_count"`
	LastError    string       `json:"last_error,omitempty"`
}

// HealthReport is the outcome of a live health probe against one provider.
type HealthReport struct {
	Status       string    `json:"status" yaml:"status"`
	ResponseTime float64   `json:"response_time,omitempty" yaml:"response_time,omitempty"`
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
	Error        string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// Stats is a snapshot of a client's internal state.
type Stats struct {
	AvatarID           string                    `json:"avatar_id" yaml:"avatar_id"`
	PrimaryProvider    string                    `json:"primary_provider" yaml:"primary_provider"`
	FallbackProviders  []string                  `json:"fallback_providers" yaml:"fallback_providers"`
	ProviderHealth     map[string]ProviderHealth `json:"provider_health" yaml:"provider_health"`
	CacheSize          int                       `json:"cache_size" yaml:"cache_size"`
	RequestHistorySize int                       `json:"request_history_size" yaml:"request_history_size"`
}
