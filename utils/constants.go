package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour

	// SessionTimeout is the default session timeout (24 hours)
	SessionTimeout = 24 * time.Hour
)

// External call plumbing constants
const (
	// DispatchRetryAttempts bounds retries against the voice provider and
	// catalog platforms before the failure is reported to the user.
	DispatchRetryAttempts = 3

	// DispatchRetryBackoff is the fixed delay between retry attempts.
	DispatchRetryBackoff = 1 * time.Second

	// ImageGenerationDelay is the fixed pause between sequential marketing
	// image requests, respecting the downstream rate limit.
	ImageGenerationDelay = 2 * time.Second

	// AutoSaveDebounce is how long campaign-config edits coalesce before a
	// pending write flushes.
	AutoSaveDebounce = 2 * time.Second
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// KnownBrandTokens are brand names that have shipped in shared script
// templates. Rendered scripts are scrubbed of these so a cloned template
// never speaks another tenant's brand on a live call.
var KnownBrandTokens = []string{
	"CoPromote",
	"Henry's H.E.L.P.",
	"Acme Protection",
}
