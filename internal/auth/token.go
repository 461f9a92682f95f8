package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sentinel-iam/sentinel/internal/platform/httpx"
	"github.com/sentinel-iam/sentinel/internal/rbac"
)

// RoleClaim is the role snapshot embedded at signing time. It is
// informational only: authorization re-resolves the live role from storage
// per request, so a role mutated after issuance never grants through a
// stale token.
type RoleClaim struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Claims is the identity payload carried by a signed token.
type Claims struct {
	Email string    `json:"email"`
	Role  RoleClaim `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and validates signed, time-bound identity tokens.
// The signing secret is process-wide, loaded once, never rotated at runtime.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService constructs a TokenService. An empty secret is external
// misconfiguration and refuses construction.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("auth: signing secret required")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for the given identity, expiring ttl from now.
func (t *TokenService) Issue(email string, role *rbac.Role) (string, error) {
	now := t.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	if role != nil {
		claims.Role = RoleClaim{ID: role.ID, Name: role.Name}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Validate verifies signature and expiry. Expired, malformed and badly
// signed tokens fail uniformly so callers cannot distinguish the cause.
func (t *TokenService) Validate(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return nil, httpx.ErrUnauthenticated
	}
	return claims, nil
}
