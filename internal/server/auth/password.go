package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	argonMemory      = 64 * 1024
	argonIterations  = 1
	argonParallelism = 4
	saltLength       = 16
	keyLength        = 32
)

var ErrPasswordMismatch = errors.New("password does not match")

// HashPassword generates a PHC-format Argon2id hash string including salt
// and parameters.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, argonIterations, argonMemory, argonParallelism, keyLength)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		argonMemory, argonIterations, argonParallelism, b64Salt, b64Hash), nil
}

// VerifyPassword compares a plaintext password against a PHC-style Argon2id
// hash. The hash's own parameters are used, so stored hashes survive future
// parameter changes.
func VerifyPassword(password, encodedHash string) error {
	var mem, iters uint32
	var par uint8
	var b64Salt, b64Hash string

	n, err := fmt.Sscanf(encodedHash, "$argon2id$v=19$m=%d,t=%d,p=%d$%s",
		&mem, &iters, &par, &b64Hash)
	if err != nil || n != 4 {
		return errors.New("invalid hash format")
	}
	// The final %s captured "salt$hash"; split it.
	for i := 0; i < len(b64Hash); i++ {
		if b64Hash[i] == '$' {
			b64Salt, b64Hash = b64Hash[:i], b64Hash[i+1:]
			break
		}
	}
	if b64Salt == "" {
		return errors.New("invalid hash format")
	}

	salt, err := base64.RawStdEncoding.DecodeString(b64Salt)
	if err != nil {
		return errors.New("invalid hash format")
	}
	expected, err := base64.RawStdEncoding.DecodeString(b64Hash)
	if err != nil {
		return errors.New("invalid hash format")
	}

	computed := argon2.IDKey([]byte(password), salt, iters, mem, par, uint32(len(expected)))

	if subtle.ConstantTimeCompare(computed, expected) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}
