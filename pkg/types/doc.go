// Package types defines the core data types for the mouthpiece avatar client.
//
// This package contains the fundamental types used throughout mouthpiece:
//   - SpeakRequest: An utterance to be rendered by an avatar provider
//   - SpeakResult: The normalized outcome of a rendered utterance
//   - ProviderHealth: Cumulative per-provider health counters
//   - HealthReport: The outcome of a single on-demand provider probe
//   - Stats: A point-in-time snapshot of client state
//
// # Validation
//
// SpeakRequest provides a Validate() method for input validation:
//
//	req := types.SpeakRequest{Text: "hello", AvatarID: "avatar-1"}
//	if err := req.Validate(); err != nil {
//	    // Handle validation error
//	}
//
// # JSON Serialization
//
// All types are designed to be JSON-serializable with appropriate struct tags.
// Sensitive fields are excluded from JSON serialization where appropriate.
package types
