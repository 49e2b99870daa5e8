package pkg

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/google/uuid"
)

// GenerateNewSessionID - generates a new unique cookie value.
func GenerateNewSessionID() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return uuid.NewString()
	}

	return base64.RawURLEncoding.EncodeToString(b)
}
