package services

import (
	"crypto/rand"
	"fmt"
)

const (
	referencePrefix   = "TKT-"
	referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referenceLength   = 8
)

// NewReference generates a ticket reference code: the TKT- prefix followed
// by 8 random uppercase alphanumeric characters. Codes are collision
// resistant but not guaranteed unique; the storage layer's uniqueness
// constraint is the final arbiter and collisions are retried there.
func NewReference() (string, error) {
	buf := make([]byte, referenceLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = referenceAlphabet[int(b)%len(referenceAlphabet)]
	}
	return referencePrefix + string(buf), nil
}
