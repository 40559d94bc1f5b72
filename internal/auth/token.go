package auth

import (
	"fmt"
	"time"

	"github.com/redmonkez12/go-todo-api/internal/apperror"
	"github.com/redmonkez12/go-todo-api/internal/config"
)

var (
	ErrEmailClaimRequired = apperror.Validation("Email is required")
	ErrInvalidToken       = apperror.InvalidToken("Invalid token")
)

// Claims are the identity fields carried by an access token. On Verify the
// registered fields are filled in from the token.
type Claims struct {
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Issuer    string    `json:"iss,omitempty"`
	Audience  string    `json:"aud,omitempty"`
	ID        string    `json:"jti,omitempty"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// TokenService issues and verifies signed, time-limited bearer tokens.
// Implementations include JWTService (HS256) and PasetoService (v4.local).
type TokenService interface {
	// Issue fails with ErrEmailClaimRequired when claims.Email is empty.
	Issue(claims Claims) (string, error)
	// Verify fails with ErrInvalidToken for any bad, foreign or expired token.
	Verify(token string) (*Claims, error)
}

// TokenOptions are shared by every TokenService implementation.
type TokenOptions struct {
	Issuer   string
	Audience string
	TTL      time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

func (o TokenOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// NewTokenService builds the strategy selected by configuration.
func NewTokenService(cfg config.AuthConfig) (TokenService, error) {
	opts := TokenOptions{
		Issuer:   cfg.Issuer,
		Audience: cfg.Audience,
		TTL:      cfg.AccessTokenDuration,
	}

	switch cfg.TokenStrategy {
	case config.TokenStrategyJWT, "":
		return NewJWTService(cfg.JWTSecret, opts)
	case config.TokenStrategyPaseto:
		return NewPasetoService(cfg.PasetoKey, opts)
	default:
		return nil, fmt.Errorf("unsupported token strategy %q", cfg.TokenStrategy)
	}
}
