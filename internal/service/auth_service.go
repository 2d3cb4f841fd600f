package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"casamento/internal/credentials"
)

var (
	ErrInvalidCredentials = errors.New("invalid password")
	ErrAdminDisabled      = errors.New("admin access not configured")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

const adminSubject = "admin"

// AuthService issues and verifies admin tokens for the guest API
type AuthService struct {
	passwordHash string
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

// NewAuthService creates a new auth service. An empty password hash disables admin
// login. An empty secret is replaced by a random one, so tokens do not survive restarts.
func NewAuthService(passwordHash, secret string, ttl time.Duration) (*AuthService, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate jwt secret: %w", err)
		}
	}
	return &AuthService{
		passwordHash: passwordHash,
		secret:       key,
		ttl:          ttl,
		now:          time.Now,
	}, nil
}

// Login checks the admin password and returns a signed token
func (s *AuthService) Login(password string) (string, error) {
	if s.passwordHash == "" {
		return "", ErrAdminDisabled
	}
	if !credentials.CheckPassword(s.passwordHash, password) {
		return "", ErrInvalidCredentials
	}
	return s.IssueToken()
}

// IssueToken signs a new admin token without checking a password
func (s *AuthService) IssueToken() (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// ValidateToken verifies signature, expiry and subject of an admin token
func (s *AuthService) ValidateToken(raw string) error {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject != adminSubject {
		return ErrInvalidToken
	}
	return nil
}
