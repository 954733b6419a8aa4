package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/zipnivasa/realtime/internal/domain"
)

const defaultLeeway = 30 * time.Second

// Claims is the token payload issued by the marketplace's auth service:
// the user's ID and role alongside the registered claims.
type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 access tokens and extracts the caller identity.
// The secret is shared with the auth service that issues the tokens.
type Verifier struct {
	secret []byte
	leeway time.Duration
}

// NewVerifier creates a token verifier for the given shared secret.
func NewVerifier(secret string) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("token verifier requires a secret")
	}
	return &Verifier{secret: []byte(secret), leeway: defaultLeeway}, nil
}

// Verify parses and validates a token, returning the identity it carries.
// All failure modes collapse into ErrUnauthenticated; callers don't branch on
// why a token was bad.
func (v *Verifier) Verify(token string) (domain.Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil || !parsed.Valid {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	if strings.TrimSpace(claims.ID) == "" {
		return domain.Identity{}, fmt.Errorf("%w: token has no user id", domain.ErrUnauthenticated)
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	return domain.Identity{UserID: claims.ID, Role: role}, nil
}

// Issue signs a token for the given identity. In production tokens come from
// the auth service; tests and local tooling need a compatible signer.
func (v *Verifier) Issue(userID string, role domain.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		ID:   userID,
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
