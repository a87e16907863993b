package service

import (
	"context"
	"testing"
	"time"

	"mudancer_backend/internal/auth/repository"
	"mudancer_backend/internal/auth/transport"
	"mudancer_backend/platform/apperr"
	"mudancer_backend/platform/logger"
	"mudancer_backend/platform/validator"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type fakeStore struct {
	users       map[string]repository.User
	providerIDs map[int64]int64
}

func (s *fakeStore) GetByEmail(_ context.Context, email string) (repository.User, error) {
	u, ok := s.users[email]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *fakeStore) ProviderIDForUser(_ context.Context, userID int64) (int64, error) {
	return s.providerIDs[userID], nil
}

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (testConfig) GetAccessTokenTTL() time.Duration { return time.Hour }

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(h)
}

func newTestService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()
	store := &fakeStore{
		users:       make(map[string]repository.User),
		providerIDs: make(map[int64]int64),
	}
	svc := New(store, validator.New(), testConfig{}, logger.New("development"))
	return svc, store
}

func TestLoginIssuesProviderToken(t *testing.T) {
	svc, store := newTestService(t)
	store.users["prov@example.com"] = repository.User{
		ID: 3, Name: "Mudanzas", Email: "prov@example.com",
		PasswordHash: hash(t, "hunter22"), Role: "provider",
	}
	store.providerIDs[3] = 12

	resp, err := svc.Login(context.Background(), transport.LoginRequest{
		Email: "prov@example.com", Password: "hunter22",
	}, "provider")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.User.ProviderID != 12 {
		t.Errorf("provider id = %d, want 12", resp.User.ProviderID)
	}

	parsed, err := jwt.Parse(resp.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != "3" || claims["role"] != "provider" || claims["type"] != "access" {
		t.Errorf("unexpected claims: %v", claims)
	}
	if pid, _ := claims["provider_id"].(float64); int64(pid) != 12 {
		t.Errorf("provider_id claim = %v, want 12", claims["provider_id"])
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, store := newTestService(t)
	store.users["admin@example.com"] = repository.User{
		ID: 1, Email: "admin@example.com", PasswordHash: hash(t, "correct"), Role: "admin",
	}

	_, err := svc.Login(context.Background(), transport.LoginRequest{
		Email: "admin@example.com", Password: "wrong",
	}, "admin")
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRejectsRoleMismatch(t *testing.T) {
	svc, store := newTestService(t)
	store.users["prov@example.com"] = repository.User{
		ID: 3, Email: "prov@example.com", PasswordHash: hash(t, "hunter22"), Role: "provider",
	}

	_, err := svc.Login(context.Background(), transport.LoginRequest{
		Email: "prov@example.com", Password: "hunter22",
	}, "admin")
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized on role mismatch, got %v", err)
	}
}

func TestLoginUnknownEmailLooksLikeBadPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), transport.LoginRequest{
		Email: "ghost@example.com", Password: "whatever",
	}, "admin")
	appErr, ok := err.(*apperr.Error)
	if !ok || appErr.Kind != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if appErr.Message != "invalid credentials" {
		t.Errorf("message %q leaks account existence", appErr.Message)
	}
}
