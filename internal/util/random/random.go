package random

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a 64-character hex string backed by 32 bytes
// of crypto/rand entropy. Used for invitation tokens, which double as
// acceptance URL secrets.
func GenerateSecureToken() (string, error) {
	bytes := make([]byte, 32)

	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return hex.EncodeToString(bytes), nil
}
