package jwtmw

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestCodec_RoundTrip verifies that a signed token decodes to the same identity.
func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := NewCodec("secret")
	token, err := codec.Sign(Identity{Subject: "u1", Email: "a@b.co"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id, ok := codec.Verify(token)
	if !ok {
		t.Fatal("expected token to verify")
	}
	if id != (Identity{Subject: "u1", Email: "a@b.co"}) {
		t.Errorf("unexpected identity: %+v", id)
	}
}

// TestCodec_Verify_Rejects covers every way a token can be invalid.
func TestCodec_Verify_Rejects(t *testing.T) {
	t.Parallel()

	const secret = "test-secret"
	codec := NewCodec(secret)
	valid, _ := codec.Sign(Identity{Subject: "u1", Email: "a@b.co"})

	tests := []struct {
		name  string
		codec *Codec
		token string
	}{
		{"wrong secret", NewCodec("other-secret"), valid},
		{"malformed token", codec, "not.a.valid.token"},
		{"random string", codec, "randomstring"},
		{"empty token", codec, ""},
		{"tampered signature", codec, valid[:len(valid)-2] + "xx"},
		{"expired", codec, signRaw(t, secret, jwt.MapClaims{"sub": "u1", "email": "a@b.co", "exp": time.Now().Add(-time.Minute).Unix()})},
		{"no expiry", codec, signRaw(t, secret, jwt.MapClaims{"sub": "u1", "email": "a@b.co"})},
		{"missing sub", codec, signRaw(t, secret, jwt.MapClaims{"email": "a@b.co", "exp": time.Now().Add(time.Hour).Unix()})},
		{"missing email", codec, signRaw(t, secret, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(time.Hour).Unix()})},
		{"unconfigured codec", NewCodec(""), valid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, ok := tt.codec.Verify(tt.token); ok {
				t.Error("expected token to be rejected")
			}
		})
	}
}

// TestCodec_Verify_NoneAlgorithm verifies that unsigned tokens are rejected.
func TestCodec_Verify_NoneAlgorithm(t *testing.T) {
	t.Parallel()

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":   "u1",
		"email": "a@b.co",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	tokenStr, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)

	if _, ok := NewCodec("secret").Verify(tokenStr); ok {
		t.Error("expected none-signed token to be rejected")
	}
}

// TestCodec_Sign_Claims verifies the header and the exact claim set.
func TestCodec_Sign_Claims(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	codec := NewCodec("test-secret").WithClock(func() time.Time { return now })

	tokenStr, err := codec.Sign(Identity{Subject: "abc123", Email: "admin@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims := jwt.MapClaims{}
	token, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if token.Header["alg"] != "HS256" {
		t.Errorf("expected alg HS256, got %v", token.Header["alg"])
	}
	if len(claims) != 4 {
		t.Errorf("expected exactly sub, email, iat, exp; got %v", claims)
	}
	if claims["sub"] != "abc123" || claims["email"] != "admin@example.com" {
		t.Errorf("unexpected identity claims: %v", claims)
	}
	if int64(claims["iat"].(float64)) != now.Unix() {
		t.Errorf("expected iat %d, got %v", now.Unix(), claims["iat"])
	}
	if int64(claims["exp"].(float64)) != now.Add(7*24*time.Hour).Unix() {
		t.Errorf("expected exp seven days after iat, got %v", claims["exp"])
	}
}

// TestCodec_Expiry uses a movable clock to cross the seven day boundary.
func TestCodec_Expiry(t *testing.T) {
	t.Parallel()

	issued := time.Now()
	codec := NewCodec("test-secret").WithClock(func() time.Time { return issued })
	token, err := codec.Sign(Identity{Subject: "u1", Email: "a@b.co"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	almost := codec.WithClock(func() time.Time { return issued.Add(SessionTTL - time.Minute) })
	if _, ok := almost.Verify(token); !ok {
		t.Error("expected token to be valid just before expiry")
	}

	after := codec.WithClock(func() time.Time { return issued.Add(SessionTTL + time.Minute) })
	if _, ok := after.Verify(token); ok {
		t.Error("expected token to be expired")
	}
}

// TestCodec_Sign_MissingSecret verifies the configuration error.
func TestCodec_Sign_MissingSecret(t *testing.T) {
	t.Parallel()

	_, err := NewCodec("").Sign(Identity{Subject: "u1", Email: "a@b.co"})
	if !IsMissingSecret(err) {
		t.Errorf("expected ErrMissingSecret, got %v", err)
	}
}

func signRaw(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}
