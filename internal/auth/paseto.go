package auth

import (
	"fmt"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

// PasetoService issues PASETO v4.local tokens (XChaCha20-Poly1305 with a
// 32-byte symmetric key).
type PasetoService struct {
	key  paseto.V4SymmetricKey
	opts TokenOptions
}

func NewPasetoService(symmetricKey []byte, opts TokenOptions) (*PasetoService, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be exactly 32 bytes, got %d", len(symmetricKey))
	}
	if opts.TTL <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", opts.TTL)
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &PasetoService{key: key, opts: opts}, nil
}

func (s *PasetoService) Issue(claims Claims) (string, error) {
	if claims.Email == "" {
		return "", ErrEmailClaimRequired
	}

	now := s.opts.now()

	token := paseto.NewToken()
	token.SetIssuer(s.opts.Issuer)
	token.SetAudience(s.opts.Audience)
	token.SetJti(uuid.NewString())
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.opts.TTL))
	token.SetString("email", claims.Email)
	if claims.Name != "" {
		token.SetString("name", claims.Name)
	}

	return token.V4Encrypt(s.key, nil), nil
}

func (s *PasetoService) Verify(tokenStr string) (*Claims, error) {
	// expiry is checked against the injected clock rather than the
	// parser's built-in time.Now rule
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(
		paseto.IssuedBy(s.opts.Issuer),
		paseto.ForAudience(s.opts.Audience),
		s.notExpired(),
	)

	token, err := parser.ParseV4Local(s.key, tokenStr, nil)
	if err != nil {
		return nil, ErrInvalidToken
	}

	email, err := token.GetString("email")
	if err != nil || email == "" {
		return nil, ErrInvalidToken
	}
	// name is optional
	name, _ := token.GetString("name")
	jti, _ := token.GetJti()

	issuedAt, err := token.GetIssuedAt()
	if err != nil {
		return nil, ErrInvalidToken
	}
	expiresAt, err := token.GetExpiration()
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Claims{
		Email:     email,
		Name:      name,
		Issuer:    s.opts.Issuer,
		Audience:  s.opts.Audience,
		ID:        jti,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *PasetoService) notExpired() paseto.Rule {
	return func(token paseto.Token) error {
		exp, err := token.GetExpiration()
		if err != nil {
			return err
		}
		if !s.opts.now().Before(exp) {
			return fmt.Errorf("token expired at %s", exp)
		}
		return nil
	}
}
