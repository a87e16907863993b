// Package service implements the admin provider directory.
package service

import (
	"context"
	"errors"

	"mudancer_backend/internal/providers/repository"
	"mudancer_backend/internal/providers/transport"
	"mudancer_backend/platform/apperr"
	"mudancer_backend/platform/logger"
	"mudancer_backend/platform/validator"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// ProviderStore is the persistence surface the service needs.
type ProviderStore interface {
	Create(ctx context.Context, params repository.CreateProviderParams) (repository.Provider, error)
	GetByID(ctx context.Context, id int64) (repository.ProviderWithStats, error)
	List(ctx context.Context, search string, limit, offset int) ([]repository.ProviderWithStats, int, error)
	Update(ctx context.Context, id int64, params repository.UpdateProviderParams) (repository.Provider, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	store     ProviderStore
	validator *validator.Validator
	logger    *logger.Logger
}

func New(store ProviderStore, v *validator.Validator, log *logger.Logger) *Service {
	return &Service{store: store, validator: v, logger: log}
}

// Create opens a provider account: a provider-role user for login and the
// profile row, together.
func (s *Service) Create(ctx context.Context, req transport.CreateProviderRequest) (transport.ProviderResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		if fields := validator.FieldErrors(err); fields != nil {
			return transport.ProviderResponse{}, apperr.ValidationFields("invalid provider data", fields)
		}
		return transport.ProviderResponse{}, apperr.Validation("invalid provider data")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return transport.ProviderResponse{}, apperr.Wrap(apperr.KindInternal, "could not hash password", err)
	}

	provider, err := s.store.Create(ctx, repository.CreateProviderParams{
		Name:         req.Name,
		RFC:          req.RFC,
		Address:      req.Address,
		Phone:        req.Phone,
		Email:        req.Email,
		Responsible:  req.Responsible,
		LogoURL:      req.LogoURL,
		Reputation:   req.Reputation,
		PasswordHash: string(hash),
	})
	if err != nil {
		return transport.ProviderResponse{}, s.mapStoreErr(err, "create provider")
	}
	return transport.ToProviderResponse(provider, 0), nil
}

func (s *Service) Get(ctx context.Context, id int64) (transport.ProviderResponse, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return transport.ProviderResponse{}, s.mapStoreErr(err, "get provider")
	}
	return transport.ToProviderResponse(p.Provider, p.CompletedCount), nil
}

// List searches the directory by company name or phone, paged.
func (s *Service) List(ctx context.Context, search string, page, perPage int) (transport.ListResponse, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	rows, total, err := s.store.List(ctx, search, perPage, (page-1)*perPage)
	if err != nil {
		return transport.ListResponse{}, s.mapStoreErr(err, "list providers")
	}

	providers := make([]transport.ProviderResponse, 0, len(rows))
	for _, p := range rows {
		providers = append(providers, transport.ToProviderResponse(p.Provider, p.CompletedCount))
	}
	return transport.ListResponse{Providers: providers, Total: total, Page: page, PerPage: perPage}, nil
}

func (s *Service) Update(ctx context.Context, id int64, req transport.UpdateProviderRequest) (transport.ProviderResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		if fields := validator.FieldErrors(err); fields != nil {
			return transport.ProviderResponse{}, apperr.ValidationFields("invalid provider data", fields)
		}
		return transport.ProviderResponse{}, apperr.Validation("invalid provider data")
	}

	provider, err := s.store.Update(ctx, id, repository.UpdateProviderParams{
		Name:        req.Name,
		RFC:         req.RFC,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		Responsible: req.Responsible,
		LogoURL:     req.LogoURL,
		Reputation:  req.Reputation,
	})
	if err != nil {
		return transport.ProviderResponse{}, s.mapStoreErr(err, "update provider")
	}

	stats, err := s.store.GetByID(ctx, provider.ID)
	if err != nil {
		return transport.ProviderResponse{}, s.mapStoreErr(err, "update provider")
	}
	return transport.ToProviderResponse(stats.Provider, stats.CompletedCount), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.mapStoreErr(err, "delete provider")
	}
	return nil
}

func (s *Service) mapStoreErr(err error, op string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound("provider not found")
	case errors.Is(err, repository.ErrDuplicateEmail):
		return apperr.Conflict("a provider with this email already exists")
	case errors.Is(err, repository.ErrDuplicateName):
		return apperr.Conflict("a provider with this company name already exists")
	}
	s.logger.DatabaseError(op, err)
	return apperr.Wrap(apperr.KindInternal, "something went wrong", err)
}
