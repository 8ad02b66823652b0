// Package dto defines the request and response shapes of the campaign API.
package dto

// APIResponse is the envelope every endpoint answers with. Dashboard clients
// branch on Success and read Data or Error accordingly; Message is the
// human-readable summary surfaced in toasts.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty" validate:"omitempty"`
	Error   any    `json:"error,omitempty" validate:"omitempty"`
}

// ErrorDetail carries the machine-readable error code inside a failed
// APIResponse. Details holds field-level validation messages when present.
type ErrorDetail struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty" validate:"omitempty"`
}
