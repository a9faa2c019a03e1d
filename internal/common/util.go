package common

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// AccessTokenHeaderName is the HTTP header carrying the access token on
// outbound API requests.
const AccessTokenHeaderName = "Authorization"

// MakeRandHexString generates a random hexadecimal string from size random
// bytes; the resulting string is twice as long as size.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateRandByteArray returns size bytes of cryptographically random data.
// It panics if the system random source fails.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// WipeByteArray overwrites the contents of the provided byte slice with
// zeros. Useful for passwords once they are no longer needed. A nil slice
// is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// EmailLocalPart returns the part of an email address before the '@'.
// If the address has no '@', the whole string is returned.
func EmailLocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}
