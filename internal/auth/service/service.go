// Package service implements credential checking and token issuance. The rest
// of the application trusts the identity the middleware extracts from the
// token; nothing else touches passwords.
package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"mudancer_backend/internal/auth/repository"
	"mudancer_backend/internal/auth/transport"
	"mudancer_backend/platform/apperr"
	"mudancer_backend/platform/config"
	"mudancer_backend/platform/logger"
	"mudancer_backend/platform/validator"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the persistence surface the service needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (repository.User, error)
	ProviderIDForUser(ctx context.Context, userID int64) (int64, error)
}

type Service struct {
	store     UserStore
	validator *validator.Validator
	cfg       config.AuthServiceConfig
	logger    *logger.Logger
}

func New(store UserStore, v *validator.Validator, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{store: store, validator: v, cfg: cfg, logger: log}
}

// Login checks credentials and issues an access token. requiredRole gates the
// endpoint: the admin login rejects provider accounts and vice versa, with the
// same generic message as a wrong password so the endpoints leak nothing.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest, requiredRole string) (transport.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		if fields := validator.FieldErrors(err); fields != nil {
			return transport.LoginResponse{}, apperr.ValidationFields("invalid credentials payload", fields)
		}
		return transport.LoginResponse{}, apperr.Validation("invalid credentials payload")
	}

	user, err := s.store.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.AuthEvent("login", req.Email, false, "unknown email")
			return transport.LoginResponse{}, apperr.Unauthorized("invalid credentials")
		}
		s.logger.DatabaseError("login", err)
		return transport.LoginResponse{}, apperr.Wrap(apperr.KindInternal, "something went wrong", err)
	}

	if user.Role != requiredRole {
		s.logger.AuthEvent("login", req.Email, false, "role mismatch")
		return transport.LoginResponse{}, apperr.Unauthorized("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.logger.AuthEvent("login", req.Email, false, "wrong password")
		return transport.LoginResponse{}, apperr.Unauthorized("invalid credentials")
	}

	var providerID int64
	if user.Role == "provider" {
		providerID, err = s.store.ProviderIDForUser(ctx, user.ID)
		if err != nil {
			s.logger.DatabaseError("login", err)
			return transport.LoginResponse{}, apperr.Wrap(apperr.KindInternal, "something went wrong", err)
		}
		if providerID == 0 {
			s.logger.AuthEvent("login", req.Email, false, "orphaned provider user")
			return transport.LoginResponse{}, apperr.Unauthorized("invalid credentials")
		}
	}

	token, err := s.issueToken(user, providerID)
	if err != nil {
		return transport.LoginResponse{}, apperr.Wrap(apperr.KindInternal, "could not issue token", err)
	}

	s.logger.AuthEvent("login", req.Email, true, "")
	return transport.LoginResponse{
		Token: token,
		User: transport.UserInfo{
			ID:         user.ID,
			Name:       user.Name,
			Email:      user.Email,
			Role:       user.Role,
			ProviderID: providerID,
		},
	}, nil
}

func (s *Service) issueToken(user repository.User, providerID int64) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10),
		"role": user.Role,
		"type": "access",
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
	}
	if providerID != 0 {
		claims["provider_id"] = providerID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}
