package pending

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// newToken returns a 256-bit random token in URL-safe base64.
func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
