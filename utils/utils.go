// Package utils provides utility functions for the application.
package utils

import (
	"strconv"

	"github.com/google/uuid"
)

func ToPtr[T any](v T) *T {
	return &v
}

func IsTrue(b *bool) bool {
	return b != nil && *b
}

// ParseUUID parses a UUID string, returning an error for malformed input.
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

/// FormatPrice renders a price for spoken scripts: whole dollars without
// trailing zeros ("150", "49.5").
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
