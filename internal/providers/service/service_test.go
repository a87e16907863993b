package service

import (
	"context"
	"testing"

	"mudancer_backend/internal/providers/repository"
	"mudancer_backend/internal/providers/transport"
	"mudancer_backend/platform/apperr"
	"mudancer_backend/platform/logger"
	"mudancer_backend/platform/validator"

	"golang.org/x/crypto/bcrypt"
)

type fakeStore struct {
	providers map[int64]repository.Provider
	hashes    map[int64]string
	nextID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{providers: make(map[int64]repository.Provider), hashes: make(map[int64]string), nextID: 1}
}

func (s *fakeStore) Create(_ context.Context, params repository.CreateProviderParams) (repository.Provider, error) {
	for _, p := range s.providers {
		if p.Email == params.Email {
			return repository.Provider{}, repository.ErrDuplicateEmail
		}
		if p.Name == params.Name {
			return repository.Provider{}, repository.ErrDuplicateName
		}
	}
	p := repository.Provider{
		ID:         s.nextID,
		UserID:     s.nextID + 1000,
		Name:       params.Name,
		Phone:      params.Phone,
		Email:      params.Email,
		Reputation: params.Reputation,
	}
	s.nextID++
	s.providers[p.ID] = p
	s.hashes[p.ID] = params.PasswordHash
	return p, nil
}

func (s *fakeStore) GetByID(_ context.Context, id int64) (repository.ProviderWithStats, error) {
	p, ok := s.providers[id]
	if !ok {
		return repository.ProviderWithStats{}, repository.ErrNotFound
	}
	return repository.ProviderWithStats{Provider: p}, nil
}

func (s *fakeStore) List(_ context.Context, search string, limit, offset int) ([]repository.ProviderWithStats, int, error) {
	out := make([]repository.ProviderWithStats, 0)
	for _, p := range s.providers {
		out = append(out, repository.ProviderWithStats{Provider: p})
	}
	return out, len(out), nil
}

func (s *fakeStore) Update(_ context.Context, id int64, params repository.UpdateProviderParams) (repository.Provider, error) {
	p, ok := s.providers[id]
	if !ok {
		return repository.Provider{}, repository.ErrNotFound
	}
	p.Name = params.Name
	p.Email = params.Email
	p.Phone = params.Phone
	p.Reputation = params.Reputation
	s.providers[id] = p
	return p, nil
}

func (s *fakeStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.providers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.providers, id)
	return nil
}

func newTestService(store *fakeStore) *Service {
	return New(store, validator.New(), logger.New("development"))
}

func validCreate() transport.CreateProviderRequest {
	return transport.CreateProviderRequest{
		Name:       "Mudanzas del Norte",
		Phone:      "5512345678",
		Email:      "contacto@norte.example.com",
		Reputation: 4.5,
		Password:   "supersecret1",
	}
}

func TestCreateHashesPassword(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	resp, err := svc.Create(context.Background(), validCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	hash := store.hashes[resp.ID]
	if hash == "supersecret1" || hash == "" {
		t.Fatal("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("supersecret1")); err != nil {
		t.Errorf("stored hash does not match the password: %v", err)
	}
}

func TestCreateValidatesFields(t *testing.T) {
	svc := newTestService(newFakeStore())

	req := validCreate()
	req.Phone = "123"
	req.Email = "nope"
	req.Reputation = 9

	_, err := svc.Create(context.Background(), req)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := err.(*apperr.Error).Details.(map[string]string)
	for _, field := range []string{"telefono", "email", "reputacion"} {
		if _, ok := fields[field]; !ok {
			t.Errorf("missing field error for %s in %v", field, fields)
		}
	}
}

func TestCreateDuplicateEmailConflicts(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.Create(ctx, validCreate()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	dup := validCreate()
	dup.Name = "Otra Empresa"
	_, err := svc.Create(ctx, dup)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict on duplicate email, got %v", err)
	}
}

func TestCreateDuplicateNameConflicts(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.Create(ctx, validCreate()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	dup := validCreate()
	dup.Email = "otro@example.com"
	_, err := svc.Create(ctx, dup)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict on duplicate name, got %v", err)
	}
}

func TestDeleteUnknownProviderIsNotFound(t *testing.T) {
	svc := newTestService(newFakeStore())

	err := svc.Delete(context.Background(), 99)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
