// Package auth issues and verifies the HS256 bearer tokens that identify API
// callers. Account sign-in happens elsewhere; this package only trusts
// tokens signed with the application secret.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/codr1/Padelicious/internal/apperror"
	"github.com/codr1/Padelicious/internal/identity"
)

const (
	DefaultTokenTTL = 24 * time.Hour
	tokenIssuer     = "padelicious"
)

var (
	errSecretMissing = errors.New("token secret is required")
	ErrInvalidToken  = apperror.Unauthenticated("invalid or expired token")
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*TokenManager)

func WithTTL(ttl time.Duration) Option {
	return func(m *TokenManager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *TokenManager) { m.now = now }
}

func NewTokenManager(secret string, opts ...Option) (*TokenManager, error) {
	if secret == "" {
		return nil, errSecretMissing
	}
	m := &TokenManager{
		secret: []byte(secret),
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Issue signs a token for caller.
func (m *TokenManager) Issue(caller identity.Caller) (string, error) {
	if !caller.Valid() {
		return "", fmt.Errorf("cannot issue token for user %d", caller.ID)
	}
	now := m.now()
	claims := Claims{
		Role: string(caller.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(caller.ID, 10),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies raw and returns the caller it names. Every failure is
// reported as ErrInvalidToken.
func (m *TokenManager) Parse(raw string) (identity.Caller, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return identity.Caller{}, apperror.Wrap(apperror.KindAuth, ErrInvalidToken.Message, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return identity.Caller{}, ErrInvalidToken
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return identity.Caller{}, ErrInvalidToken
	}
	return identity.Caller{ID: id, Role: identity.ParseRole(claims.Role)}, nil
}

// BearerToken extracts the token from an Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
