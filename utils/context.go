// Package utils provides utility functions for the application.
package utils

// ContextKey is the type used for values carried on request contexts.
type ContextKey string

// Context keys for request-scoped metadata
const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	TimeoutKey    ContextKey = "timeout"
	CancelFuncKey ContextKey = "cancel_func"
)
