package application

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sweetshop/sweetshop/internal/domain"
)

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Claims    domain.Claims
}

// AuthService signs users in and verifies their session tokens.
type AuthService struct {
	users  domain.UserRepository
	hasher domain.PasswordHasher
	tokens domain.TokenIssuer
	runtime
}

func NewAuthService(
	users domain.UserRepository,
	hasher domain.PasswordHasher,
	tokens domain.TokenIssuer,
	opts ...Option,
) *AuthService {
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		runtime: newRuntime(opts),
	}
}

// Login checks the credentials and issues a session token. Unknown emails
// and wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrUnauthorized)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.InfoContext(ctx, "login failed")
			return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		s.logger.InfoContext(ctx, "login failed")
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	claims := domain.Claims{Subject: user.ID, Email: user.Email}
	token, expiresAt, err := s.tokens.Issue(claims)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}
	s.logger.InfoContext(ctx, "login succeeded", slog.String("user_id", user.ID))
	return &Session{Token: token, ExpiresAt: expiresAt, Claims: claims}, nil
}

// Authenticate verifies a session token and returns its claims.
func (s *AuthService) Authenticate(token string) (domain.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Claims{}, fmt.Errorf("%w: missing token", domain.ErrUnauthorized)
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return domain.Claims{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return claims, nil
}

// CreateUser provisions a back-office account. An empty password is replaced
// by a random one, which is returned so it can be shown once.
func (s *AuthService) CreateUser(ctx context.Context, email, name, password string) (*domain.User, string, error) {
	if password == "" {
		generated, err := GeneratePassword(12)
		if err != nil {
			return nil, "", err
		}
		password = generated
	}
	if err := domain.ValidateCredentials(email, name, password); err != nil {
		return nil, "", err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}
	user := &domain.User{
		ID:           s.newID(),
		Email:        domain.NormalizeEmail(email),
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}
	s.logger.InfoContext(ctx, "user created", slog.String("user_id", user.ID))
	return user, password, nil
}

// GeneratePassword returns n random bytes encoded as URL-safe base64.
func GeneratePassword(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
