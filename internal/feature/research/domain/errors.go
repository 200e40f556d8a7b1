// Package domain defines domain-level errors for the research feature.
package domain

import "errors"

// Fatal errors abort the whole run before any company is processed.
var (
	// ErrTemplateNotFound indicates that the prompt template could not be loaded.
	// All companies share one template, so there is no per-company fallback.
	ErrTemplateNotFound = errors.New("prompt template not found")
)

// Per-company call errors. The batch orchestrator absorbs these into a result with status error.
var (
	// ErrRateLimitExceeded is returned when the provider kept signalling rate limits until retries ran out.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrAPI is returned when the provider kept failing with API-level errors until retries ran out.
	ErrAPI = errors.New("provider API error")

	// ErrCallFailed is returned for any other failure that persisted across all retries.
	ErrCallFailed = errors.New("call failed")
)

// Provider signals. Adapters wrap raw SDK errors with these so the call client can pick a backoff.
var (
	// ErrProviderRateLimited marks a single attempt rejected by the provider's rate limit.
	ErrProviderRateLimited = errors.New("provider rate limited")

	// ErrProviderAPI marks a single attempt that failed with a provider-side error.
	ErrProviderAPI = errors.New("provider returned an error")
)

// ErrNoCompanies indicates that the input worksheet yielded no company names.
var ErrNoCompanies = errors.New("no companies found in the input pipeline")
