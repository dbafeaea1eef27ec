// Package jwtmw issues and verifies the admin session token and guards gin
// routes with it.
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"myshop_backend/internal/shared/apperr"
)

// SessionTTL is the lifetime of an issued session token.
const SessionTTL = 7 * 24 * time.Hour

// ErrMissingSecret is returned when the codec has no signing secret.
var ErrMissingSecret = apperr.New(apperr.KindConfiguration, "session secret is not configured")

// Identity is the payload carried by a session token.
type Identity struct {
	Subject string
	Email   string
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 session tokens with a shared secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec creates a Codec keyed by the raw bytes of secret.
func NewCodec(secret string) *Codec {
	return &Codec{
		secret: []byte(secret),
		ttl:    SessionTTL,
		now:    time.Now,
	}
}

// WithClock returns a copy of the codec that reads the current time from now.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

// Configured reports whether a signing secret is present.
func (c *Codec) Configured() bool {
	return len(c.secret) > 0
}

// Sign issues a token for id expiring SessionTTL from now.
func (c *Codec) Sign(id Identity) (string, error) {
	if !c.Configured() {
		return "", ErrMissingSecret
	}
	now := c.now()
	claims := sessionClaims{
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token. Any failure, including a
// payload without sub or email, yields ok == false.
func (c *Codec) Verify(token string) (Identity, bool) {
	if !c.Configured() || token == "" {
		return Identity{}, false
	}
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return Identity{}, false
	}
	if claims.Subject == "" || claims.Email == "" {
		return Identity{}, false
	}
	return Identity{Subject: claims.Subject, Email: claims.Email}, true
}

// IsMissingSecret reports whether err came from an unconfigured codec.
func IsMissingSecret(err error) bool {
	return errors.Is(err, ErrMissingSecret)
}
