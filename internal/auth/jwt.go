package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type jwtClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// JWTService signs HS256 JWTs with a server-held secret.
type JWTService struct {
	secret []byte
	opts   TokenOptions
}

func NewJWTService(secret []byte, opts TokenOptions) (*JWTService, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret must not be empty")
	}
	if opts.TTL <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", opts.TTL)
	}
	return &JWTService{secret: secret, opts: opts}, nil
}

func (s *JWTService) Issue(claims Claims) (string, error) {
	if claims.Email == "" {
		return "", ErrEmailClaimRequired
	}

	now := s.opts.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		Email: claims.Email,
		Name:  claims.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.opts.Issuer,
			Audience:  jwt.ClaimStrings{s.opts.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.TTL)),
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) Verify(tokenStr string) (*Claims, error) {
	parsed := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, parsed,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.opts.Issuer),
		jwt.WithAudience(s.opts.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.opts.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if parsed.Email == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{
		Email:  parsed.Email,
		Name:   parsed.Name,
		Issuer: parsed.Issuer,
		ID:     parsed.ID,
	}
	if len(parsed.Audience) > 0 {
		claims.Audience = parsed.Audience[0]
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time
	}
	if parsed.ExpiresAt != nil {
		claims.ExpiresAt = parsed.ExpiresAt.Time
	}
	return claims, nil
}
