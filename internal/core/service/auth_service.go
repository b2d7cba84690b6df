package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/libris/library-api/internal/core/domain"
	"github.com/libris/library-api/internal/core/ports"
)

const bearerPrefix = "Bearer "

// AuthService implements login, user creation, and per-request identity
// resolution. Every user authenticates with the single shared password (a
// documented legacy contract); the password is kept only as a bcrypt hash.
type AuthService struct {
	users        ports.UserRepository
	jwtSecret    []byte
	passwordHash []byte
	tokenTTL     time.Duration
	log          zerolog.Logger
}

func NewAuthService(users ports.UserRepository, jwtSecret, sharedPassword string, tokenTTL time.Duration, log zerolog.Logger) (*AuthService, error) {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(sharedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash shared password: %w", err)
	}

	return &AuthService{
		users:        users,
		jwtSecret:    []byte(jwtSecret),
		passwordHash: hash,
		tokenTTL:     tokenTTL,
		log:          log,
	}, nil
}

// Login verifies the username exists and the password matches the shared
// secret, then issues a signed token embedding username and user identity.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.ByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"username": user.Username,
		"id":       user.ID,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	s.log.Info().Str("username", user.Username).Msg("user logged in")
	return token, nil
}

func (s *AuthService) CreateUser(ctx context.Context, username, favoriteGenre string) (*domain.User, error) {
	return s.users.Insert(ctx, &domain.User{Username: username, FavoriteGenre: favoriteGenre})
}

// Authenticate maps the raw Authorization header to a user, once per
// request. No header or a non-Bearer scheme is anonymous. A token that
// fails verification returns domain.ErrInvalidToken; a valid token naming a
// user that no longer exists degrades to anonymous.
func (s *AuthService) Authenticate(ctx context.Context, authorization string) (*domain.User, error) {
	if !strings.HasPrefix(authorization, bearerPrefix) {
		return nil, nil
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(authorization, bearerPrefix), claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	id, ok := claims["id"].(string)
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.ByID(ctx, id)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.log.Debug().Str("user_id", id).Msg("token references missing user, treating as anonymous")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
