// Package auth signs and verifies session tokens and hashes passwords.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// DefaultTokenValidity is how long a freshly issued session token lives.
	DefaultTokenValidity = 24 * time.Hour
	// DefaultLeeway is the clock skew tolerated when checking exp/iat/nbf.
	DefaultLeeway = 5 * time.Second
)

// Claims are the JWT claims of a session token. Subject holds the user id in
// decimal; UserID repeats it as a number for clients that read the payload.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"uid"`
}

// TokenManager issues and verifies HS256 session tokens. It is safe for
// concurrent use; the secret is never mutated after construction.
type TokenManager struct {
	secret   []byte
	validity time.Duration
	leeway   time.Duration
	now      func() time.Time
}

// Option customizes a TokenManager.
type Option func(*TokenManager)

// WithClock replaces time.Now, for tests that need to move time.
func WithClock(now func() time.Time) Option {
	return func(m *TokenManager) { m.now = now }
}

// WithLeeway overrides DefaultLeeway.
func WithLeeway(d time.Duration) Option {
	return func(m *TokenManager) { m.leeway = d }
}

// NewTokenManager returns a manager signing with secret. A non-positive
// validity falls back to DefaultTokenValidity.
func NewTokenManager(secret []byte, validity time.Duration, opts ...Option) *TokenManager {
	if validity <= 0 {
		validity = DefaultTokenValidity
	}
	m := &TokenManager{
		secret:   secret,
		validity: validity,
		leeway:   DefaultLeeway,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Validity returns the lifetime of issued tokens.
func (m *TokenManager) Validity() time.Duration { return m.validity }

// Generate signs a token for userID.
func (m *TokenManager) Generate(userID int64) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.validity)),
			ID:        uuid.NewString(),
		},
		UserID: userID,
	})

	return token.SignedString(m.secret)
}

// Parse verifies signature, algorithm and expiry and returns the user id.
// Expired tokens yield common.ErrTokenExpired, anything else
// common.ErrInvalidToken.
func (m *TokenManager) Parse(tokenString string) (int64, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(m.leeway),
		jwt.WithTimeFunc(m.now),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, common.ErrTokenExpired
		}
		return 0, common.ErrInvalidToken
	}
	if !token.Valid {
		return 0, common.ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id != claims.UserID {
		return 0, common.ErrInvalidToken
	}

	return id, nil
}
