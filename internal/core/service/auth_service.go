package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/rosterhq/roster-api/internal/core/domain"
	"github.com/rosterhq/roster-api/internal/core/ports"
)

// apiKeyPrefix tags issued keys so they are identifiable in headers and logs.
const apiKeyPrefix = "pk_"

// apiKeyBytes is the entropy of an issued key: 32 bytes = 256 bits, enough to
// make collisions and guessing negligible without an explicit collision check.
const apiKeyBytes = 32

// AuthService implements registration, both login flows, and validation of
// both credential schemes.
type AuthService struct {
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	throttle ports.LoginThrottle
	secret   []byte
	tokenTTL time.Duration
	logger   zerolog.Logger
}

// NewAuthService builds an AuthService. The signing secret must be provided
// by configuration; throttle may be nil to disable login throttling.
func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, throttle ports.LoginThrottle, secret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = ports.SessionTTL
	}
	return &AuthService{
		repo:     repo,
		hasher:   hasher,
		throttle: throttle,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Register creates a new user. The role defaults to "user" when empty; a
// duplicate username fails with ErrUserExists without mutating state.
func (s *AuthService) Register(ctx context.Context, username, password string, role domain.Role) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("username", created.Username).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// Login authenticates username/password and rotates the API key. The prior
// key becomes invalid the instant the new one is stored. Unknown users, bad
// passwords and inactive accounts are deliberately indistinguishable.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.Identity, string, error) {
	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		return domain.Identity{}, "", err
	}

	key, err := issueAPIKey()
	if err != nil {
		return domain.Identity{}, "", fmt.Errorf("issue api key: %w", err)
	}
	if err := s.repo.SetAPIKey(ctx, user.Username, key); err != nil {
		return domain.Identity{}, "", fmt.Errorf("rotate api key: %w", err)
	}

	s.logger.Info().Str("username", user.Username).Msg("login succeeded, api key rotated")
	return user.Identity(), key, nil
}

// LoginForSession authenticates username/password and issues a signed session
// token. No API-key rotation happens on this path.
func (s *AuthService) LoginForSession(ctx context.Context, username, password string) (string, error) {
	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}

	token, err := s.issueSessionToken(user)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	s.logger.Info().Str("username", user.Username).Msg("session token issued")
	return token, nil
}

// ValidateSession checks signature and expiry only; the token is stateless
// and no store lookup is performed. Any malformed, forged or expired token
// yields ErrInvalidToken, never partial claims.
func (s *AuthService) ValidateSession(token string) (domain.Identity, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if username == "" || !domain.Role(role).Valid() {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	return domain.Identity{Username: username, Role: domain.Role(role), Active: true}, nil
}

// ValidateAPIKey resolves the key through the credential store. Unknown keys
// and keys belonging to inactive users both fail with ErrInvalidAPIKey.
func (s *AuthService) ValidateAPIKey(ctx context.Context, key string) (domain.Identity, error) {
	if key == "" {
		return domain.Identity{}, domain.ErrInvalidAPIKey
	}
	user, err := s.repo.FindByAPIKey(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Identity{}, domain.ErrInvalidAPIKey
		}
		return domain.Identity{}, err
	}
	return user.Identity(), nil
}

// authenticate is the shared precondition of both login flows.
func (s *AuthService) authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil && s.throttle.TooMany(ctx, username) {
		return nil, domain.ErrTooManyAttempts
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Unknown user and bad password must look identical to the caller.
			s.recordFailure(ctx, username)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.recordFailure(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Active {
		s.recordFailure(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if s.throttle != nil {
		s.throttle.RecordFailure(ctx, username)
	}
}

func (s *AuthService) issueSessionToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// issueAPIKey generates an opaque bearer secret: a fixed scheme tag over
// 256 bits of cryptographically secure randomness.
func issueAPIKey() (string, error) {
	b := make([]byte, apiKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return apiKeyPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}
