// Package services provides the application service layer
package services

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/sitedeck/sitedeck-go/internal/infrastructure/observability/logging"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/security"
	"github.com/sitedeck/sitedeck-go/pkg/config"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService issues and validates the admin token pair: a short-lived
// access token returned in the response body and a long-lived refresh token
// set as an httpOnly cookie by the handler.
type AuthService struct {
	logger *logging.ChanneledLogger
}

func NewAuthService(logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{logger: logger}
}

// TokenPair carries a freshly issued access/refresh token set.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Login verifies the admin credentials and issues both tokens.
func (s *AuthService) Login(email, password string) (*TokenPair, error) {
	if !credentialsMatch(email, password) {
		s.logger.Auth().Warn("Failed admin login attempt", "email", email)
		return nil, ErrInvalidCredentials
	}

	accessToken, err := security.GenerateAdminToken(email, security.TokenTypeAccess, config.JWTSecret, config.AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, err := security.GenerateAdminToken(email, security.TokenTypeRefresh, config.JWTSecret, config.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	s.logger.Auth().Info("Admin login", "email", email)
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(config.AccessTokenTTL / time.Second),
	}, nil
}

// Refresh validates a refresh token and issues a new access token.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := security.ValidateTokenType(refreshToken, config.JWTSecret, security.TokenTypeRefresh)
	if err != nil {
		s.logger.Auth().Debug("Refresh token rejected", "error", err.Error())
		return nil, ErrInvalidCredentials
	}

	email := security.SubjectFromClaims(claims)
	accessToken, err := security.GenerateAdminToken(email, security.TokenTypeAccess, config.JWTSecret, config.AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken: accessToken,
		ExpiresIn:   int64(config.AccessTokenTTL / time.Second),
	}, nil
}

// ValidateAccess checks an access token and returns the admin identity.
func (s *AuthService) ValidateAccess(token string) (string, error) {
	claims, err := security.ValidateTokenType(token, config.JWTSecret, security.TokenTypeAccess)
	if err != nil {
		return "", err
	}
	return security.SubjectFromClaims(claims), nil
}

// credentialsMatch accepts either a bcrypt hash or a plain value in
// ADMIN_PASSWORD; plain comparison is constant-time.
func credentialsMatch(email, password string) bool {
	if config.AdminPassword == "" || config.JWTSecret == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(strings.ToLower(email)), []byte(strings.ToLower(config.AdminEmail))) != 1 {
		return false
	}
	if strings.HasPrefix(config.AdminPassword, "$2") {
		return security.CheckPassword(config.AdminPassword, password)
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(config.AdminPassword)) == 1
}
