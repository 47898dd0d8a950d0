// Package avatar provides a resilient communication client for remote avatar
// rendering providers.
//
// The client ships a fully-formed speak request ("render this utterance with
// this emotion") to one of several interchangeable providers, handling
// failover, health-aware routing, per-provider rate limiting, and response
// caching. It does not generate content and does not decide what to say.
//
// # Supported Providers
//
// The provider set is closed:
//   - DUIX: cloud digital-human rendering (bearer token)
//   - SenseAvatar: cloud avatar video generation (API-key header)
//   - Akool: cloud avatar video generation (bearer token)
//   - Local: self-hosted rendering service, unauthenticated
//   - Mock: in-process provider for tests and dry runs
//
// # Failover
//
// Providers are tried in configured order, primary first. Per attempt the
// router consults the health tracker (unhealthy providers are skipped), the
// response cache (a hit returns immediately without consuming rate-limit
// budget), and the rate limiter (the caller suspends until admitted), then
// dispatches to the provider transport and records the outcome. When every
// candidate is unhealthy or fails, Speak returns *AllProvidersFailedError
// carrying the last underlying error.
//
// # Usage
//
//	cfg, err := config.Load()
//	client, err := avatar.New(cfg, logger, nil)
//	defer client.Close()
//
//	result, err := client.Speak(ctx, types.SpeakRequest{
//		Text:    "Welcome to the show",
//		Emotion: "excited",
//	})
//
// # Error Handling
//
// The package defines specific error types for common failure modes:
//   - TransportError: a single provider call failed (recovered internally)
//   - AllProvidersFailedError: every candidate was unhealthy or failed
//   - UnsupportedProviderError: configuration names an unknown provider
//
// These errors support errors.Is() for type checking.
package avatar
