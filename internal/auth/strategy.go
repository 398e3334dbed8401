package auth

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"phonestore/internal/config"
	"phonestore/internal/domain"
	apperrors "phonestore/internal/errors"
)

const defaultDevPassword = "dev-admin"

// Strategy decides whether a bearer credential belongs to an administrator.
// It is evaluated on every request; results are never cached.
type Strategy interface {
	Authorize(ctx context.Context, bearer string) (*domain.Identity, error)
}

type ProfileFinder interface {
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
}

// TokenStrategy accepts HS256 tokens issued by the identity provider and
// checks the admin flag of the token subject's profile.
type TokenStrategy struct {
	secret   []byte
	profiles ProfileFinder
	logger   *zap.Logger
}

func NewTokenStrategy(secret string, profiles ProfileFinder, logger *zap.Logger) *TokenStrategy {
	return &TokenStrategy{
		secret:   []byte(secret),
		profiles: profiles,
		logger:   logger,
	}
}

func (s *TokenStrategy) Authorize(ctx context.Context, bearer string) (*domain.Identity, error) {
	token, err := jwt.ParseWithClaims(bearer, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		s.logger.Debug("token rejected", zap.Error(err))
		return nil, apperrors.NewUnauthorizedError("invalid token")
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return nil, apperrors.NewUnauthorizedError("token has no subject")
	}

	profile, err := s.profiles.FindByID(ctx, sub)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); !ok {
			s.logger.Error("profile lookup failed", zap.String("subject", sub), zap.Error(err))
		}
		return nil, apperrors.NewUnauthorizedError("unknown user")
	}
	if !profile.IsAdmin {
		s.logger.Warn("non-admin access attempt", zap.String("subject", sub))
		return nil, apperrors.NewUnauthorizedError("admin privileges required")
	}

	return &domain.Identity{ID: profile.ID, Email: profile.Email, IsAdmin: true}, nil
}

// StaticSecretStrategy compares the bearer value with a shared password.
type StaticSecretStrategy struct {
	password []byte
}

func NewStaticSecretStrategy(password string) *StaticSecretStrategy {
	return &StaticSecretStrategy{password: []byte(password)}
}

func (s *StaticSecretStrategy) Authorize(_ context.Context, bearer string) (*domain.Identity, error) {
	if subtle.ConstantTimeCompare([]byte(bearer), s.password) != 1 {
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}
	return &domain.Identity{ID: "static-admin", IsAdmin: true}, nil
}

// NewStrategy picks token verification when a JWT secret is configured and
// the shared password otherwise. The shared password is never used in
// production.
func NewStrategy(cfg *config.Config, profiles ProfileFinder, logger *zap.Logger) (Strategy, error) {
	if cfg.Auth.JWTSecret != "" {
		return NewTokenStrategy(cfg.Auth.JWTSecret, profiles, logger), nil
	}
	if cfg.IsProduction() {
		return nil, fmt.Errorf("static admin password is not allowed in production")
	}

	password := cfg.Auth.AdminPassword
	if password == "" {
		password = defaultDevPassword
		logger.Warn("ADMIN_PASSWORD not set, using the development default")
	}
	return NewStaticSecretStrategy(password), nil
}
