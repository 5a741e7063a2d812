package credentials

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// tokenLifetime is effectively unlimited — stored API tokens do not expire
// on their own; users rotate them explicitly.
const tokenLifetime = 36500 * 24 * time.Hour

// CredentialError means no usable API key exists for the calling identity.
// It is fatal for an entire extraction batch.
type CredentialError struct {
	UserID int
	Err    error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("no usable API key for user %d: %v", e.UserID, e.Err)
}

func (e *CredentialError) Unwrap() error { return e.Err }

// Resolver loads and decrypts per-user API tokens. Tokens are stored as
// long-lived HS256 JWTs whose subject is the raw key, signed with the
// service secret.
type Resolver struct {
	pool   *pgxpool.Pool
	secret []byte
}

func NewResolver(pool *pgxpool.Pool, secret string) *Resolver {
	return &Resolver{pool: pool, secret: []byte(secret)}
}

// DecryptedKey returns the caller's raw API key. The result is request-scoped:
// callers must not cache it beyond the current batch.
func (r *Resolver) DecryptedKey(ctx context.Context, userID int) (string, error) {
	var encrypted *string
	err := r.pool.QueryRow(ctx,
		"SELECT api_token FROM users WHERE id = $1", userID,
	).Scan(&encrypted)
	if err != nil {
		return "", &CredentialError{UserID: userID, Err: fmt.Errorf("load api token: %w", err)}
	}
	if encrypted == nil || *encrypted == "" {
		return "", &CredentialError{UserID: userID, Err: fmt.Errorf("no API key configured")}
	}

	key, err := Decrypt(r.secret, *encrypted)
	if err != nil {
		return "", &CredentialError{UserID: userID, Err: err}
	}
	return key, nil
}

// Encrypt wraps a raw API token in a signed JWT for at-rest storage.
func Encrypt(secret []byte, token string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   token,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("encrypt token: %w", err)
	}
	return signed, nil
}

// Decrypt recovers the raw API token from its stored form.
func Decrypt(secret []byte, encrypted string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(encrypted, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("invalid stored token")
	}
	return claims.Subject, nil
}

// Preview renders a short, log-safe form of a key: first 3 and last 5
// characters. Full keys must never appear in logs or API responses.
func Preview(key string) string {
	if len(key) < 9 {
		return "..."
	}
	return key[:3] + "..." + key[len(key)-5:]
}
