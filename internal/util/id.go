// Package util provides small helpers shared across Grelha packages.
package util

import (
	"github.com/google/uuid"
)

// NewRequestID generates a random identifier used to correlate a delegate
// call across log lines.
func NewRequestID() string {
	return uuid.New().String()
}

// ShortID returns the first block of an identifier, enough to tell delegate
// requests apart in alerts and log lines.
func ShortID(id string) string {
	if len(id) < 8 {
		return id
	}
	return id[:8]
}
