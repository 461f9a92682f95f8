package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const saltLength = 16

// Argon2id parameters. Memory is in KiB; raising these raises the cost of
// brute forcing a leaked hash without touching stored records, because the
// hash is recomputed from (password, salt) on every verification.
const (
	hashTime    = 3
	hashMemory  = 64 * 1024
	hashThreads = 4
	hashKeyLen  = 32
)

// Hasher derives and verifies password hashes with a caller-visible salt.
// bcrypt embeds its salt in the digest; the user record here stores salt and
// hash in separate columns, so the derivation takes the salt explicitly.
type Hasher struct{}

// NewHasher constructs a Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// GenerateSalt produces a fresh random salt. Never reused across users.
func (h *Hasher) GenerateSalt() (string, error) {
	raw := make([]byte, saltLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("auth: generate salt: %w", err)
	}
	return base64.RawStdEncoding.EncodeToString(raw), nil
}

// Hash derives the credential hash. Deterministic given (password, salt).
func (h *Hasher) Hash(password, salt string) (string, error) {
	if password == "" {
		return "", errors.New("auth: password required")
	}
	if salt == "" {
		return "", errors.New("auth: salt required")
	}
	key := argon2.IDKey([]byte(password), []byte(salt), hashTime, hashMemory, hashThreads, hashKeyLen)
	return base64.RawStdEncoding.EncodeToString(key), nil
}

// Verify recomputes the hash and compares in constant time.
func (h *Hasher) Verify(password, salt, expected string) bool {
	computed, err := h.Hash(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(expected)) == 1
}
