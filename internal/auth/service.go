package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/redmonkez12/go-todo-api/internal/apperror"
	"github.com/redmonkez12/go-todo-api/internal/logging"
	"github.com/redmonkez12/go-todo-api/internal/user"
)

var (
	ErrCredentialsRequired  = apperror.Validation("Email and password are required")
	ErrInvalidEmailFormat   = apperror.Validation("Invalid email format")
	ErrUserExists           = apperror.Conflict("User already exists")
	ErrUserNotFound         = apperror.NotFound("User not found")
	ErrPasswordRequired     = apperror.Validation("Password is required")
	ErrInvalidCredentials   = apperror.Authentication("Invalid credentials")
	ErrNameAndEmailRequired = apperror.Validation("Email and name are required")
)

// emailPattern is a loose shape check: something@something.something with
// no whitespace. Deliverability is not checked.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserRepository is the credential store the service needs.
type UserRepository interface {
	Create(ctx context.Context, email, passwordHash string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// Service handles authentication business logic
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenService
	logger *logging.Logger
}

func NewService(users UserRepository, hasher PasswordHasher, tokens TokenService, logger *logging.Logger) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates a new account. The lookup before insert is advisory; the
// unique constraint on email settles concurrent registrations.
func (s *Service) Register(ctx context.Context, email, password string) (*user.User, error) {
	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmailFormat
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrUserExists
	case !errors.Is(err, user.ErrNotFound):
		return nil, apperror.Internal(fmt.Errorf("failed to look up user: %w", err))
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, apperror.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	newUser, err := s.users.Create(ctx, email, passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, apperror.Internal(fmt.Errorf("failed to create user: %w", err))
	}

	s.logger.Info("user registered", "user_id", newUser.ID)
	return newUser, nil
}

// SignIn checks the credentials and issues an access token carrying the email.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", apperror.Internal(fmt.Errorf("failed to look up user: %w", err))
	}

	if password == "" || u.PasswordHash == "" {
		return "", ErrPasswordRequired
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(Claims{Email: u.Email})
	if err != nil {
		return "", apperror.Internal(fmt.Errorf("failed to issue token: %w", err))
	}
	return token, nil
}

// GenerateToken issues a token for an arbitrary email and name without any
// credential check.
func (s *Service) GenerateToken(ctx context.Context, email, name string) (string, error) {
	if email == "" || name == "" {
		return "", ErrNameAndEmailRequired
	}

	token, err := s.tokens.Issue(Claims{Email: email, Name: name})
	if err != nil {
		return "", apperror.Internal(fmt.Errorf("failed to issue token: %w", err))
	}
	return token, nil
}

// VerifyToken returns the claims of a valid token or ErrInvalidToken.
func (s *Service) VerifyToken(token string) (*Claims, error) {
	return s.tokens.Verify(token)
}
