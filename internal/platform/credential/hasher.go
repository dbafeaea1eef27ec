// Package credential derives and verifies salted password hashes with
// PBKDF2-HMAC-SHA256.
package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// Iterations is the PBKDF2 work factor used for every stored hash.
	Iterations = 100_000
	// KeyLength is the derived key size in bytes (256 bits).
	KeyLength = 32
	// SaltLength is the random salt size in bytes.
	SaltLength = 16
)

// Credential is the hex-encoded pair persisted on a user row.
type Credential struct {
	Hash string
	Salt string
}

// DecodeError reports a stored salt or hash that is not valid hex.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode stored %s: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Hasher hashes new passwords and verifies candidates against stored ones.
type Hasher struct {
	random     io.Reader
	iterations int
}

// NewHasher returns a Hasher reading salts from crypto/rand.
func NewHasher() *Hasher {
	return &Hasher{random: rand.Reader, iterations: Iterations}
}

// NewHasherWithSource returns a Hasher reading salts from r. Intended for tests.
func NewHasherWithSource(r io.Reader) *Hasher {
	return &Hasher{random: r, iterations: Iterations}
}

// HashForStorage generates a fresh salt and derives the password hash.
func (h *Hasher) HashForStorage(password string) (Credential, error) {
	salt := make([]byte, SaltLength)
	if _, err := io.ReadFull(h.random, salt); err != nil {
		return Credential{}, fmt.Errorf("generate salt: %w", err)
	}
	key := h.derive(password, salt)
	return Credential{
		Hash: hex.EncodeToString(key),
		Salt: hex.EncodeToString(salt),
	}, nil
}

// Verify re-derives the hash of password with the stored salt and compares it
// with the stored hash in constant time.
func (h *Hasher) Verify(password, saltHex, hashHex string) (bool, error) {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false, &DecodeError{Field: "salt", Err: err}
	}
	want, err := hex.DecodeString(hashHex)
	if err != nil {
		return false, &DecodeError{Field: "hash", Err: err}
	}
	got := h.derive(password, salt)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func (h *Hasher) derive(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, h.iterations, KeyLength, sha256.New)
}
