package util

import "github.com/google/uuid"

// NewID returns a new request id.
func NewID() string {
	return uuid.NewString()
}
