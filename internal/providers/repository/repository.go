// Package repository persists providers and their paired login users.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound       = errors.New("provider not found")
	ErrDuplicateEmail = errors.New("email already in use")
	ErrDuplicateName  = errors.New("company name already in use")
)

const uniqueViolation = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Provider mirrors the providers table. UserID links the login account; the
// relation is an explicit FK, never inferred from matching emails.
type Provider struct {
	ID          int64
	UserID      int64
	Name        string
	RFC         *string
	Address     *string
	Phone       string
	Email       string
	Responsible *string
	LogoURL     *string
	Reputation  float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProviderWithStats adds the completed-job count shown in the admin listing.
type ProviderWithStats struct {
	Provider
	CompletedCount int
}

const providerColumns = `id, user_id, nombre, rfc, direccion, telefono, email, responsable, logo_url, reputacion, created_at, updated_at`

// completedCount counts the provider's winning quotes on concluded leads.
const completedCountExpr = `(SELECT count(*) FROM quotes q JOIN leads l ON l.id = q.lead_id
	WHERE q.provider_id = providers.id AND q.seleccionada = true AND l.concluida = true)`

func scanProvider(row pgx.Row) (Provider, error) {
	var p Provider
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.RFC, &p.Address, &p.Phone, &p.Email,
		&p.Responsible, &p.LogoURL, &p.Reputation, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Provider{}, ErrNotFound
	}
	return p, err
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	if strings.Contains(pgErr.ConstraintName, "nombre") {
		return ErrDuplicateName
	}
	return ErrDuplicateEmail
}

type CreateProviderParams struct {
	Name         string
	RFC          *string
	Address      *string
	Phone        string
	Email        string
	Responsible  *string
	LogoURL      *string
	Reputation   float64
	PasswordHash string
}

// Create inserts the login user and the provider profile in one transaction.
// The user carries the provider role and shares the profile email.
func (r *Repository) Create(ctx context.Context, params CreateProviderParams) (Provider, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Provider{}, err
	}
	defer tx.Rollback(ctx)

	var userID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, 'provider')
		RETURNING id`, params.Name, params.Email, params.PasswordHash).Scan(&userID)
	if err != nil {
		return Provider{}, mapUniqueViolation(err)
	}

	provider, err := scanProvider(tx.QueryRow(ctx, `
		INSERT INTO providers (user_id, nombre, rfc, direccion, telefono, email, responsable, logo_url, reputacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+providerColumns,
		userID, params.Name, params.RFC, params.Address, params.Phone, params.Email,
		params.Responsible, params.LogoURL, params.Reputation))
	if err != nil {
		return Provider{}, mapUniqueViolation(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Provider{}, err
	}
	return provider, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (ProviderWithStats, error) {
	var p ProviderWithStats
	err := r.pool.QueryRow(ctx, `
		SELECT `+providerColumns+`, `+completedCountExpr+`
		FROM providers WHERE id = $1`, id).Scan(
		&p.ID, &p.UserID, &p.Name, &p.RFC, &p.Address, &p.Phone, &p.Email,
		&p.Responsible, &p.LogoURL, &p.Reputation, &p.CreatedAt, &p.UpdatedAt, &p.CompletedCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return ProviderWithStats{}, ErrNotFound
	}
	return p, err
}

// List returns providers matching the optional search term (name or phone),
// paged, with completed-job counts.
func (r *Repository) List(ctx context.Context, search string, limit, offset int) ([]ProviderWithStats, int, error) {
	pattern := "%" + search + "%"

	var total int
	if err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM providers
		WHERE $1 = '' OR nombre ILIKE $2 OR telefono LIKE $2`, search, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+providerColumns+`, `+completedCountExpr+`
		FROM providers
		WHERE $1 = '' OR nombre ILIKE $2 OR telefono LIKE $2
		ORDER BY nombre ASC
		LIMIT $3 OFFSET $4`, search, pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]ProviderWithStats, 0)
	for rows.Next() {
		var p ProviderWithStats
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.RFC, &p.Address, &p.Phone, &p.Email,
			&p.Responsible, &p.LogoURL, &p.Reputation, &p.CreatedAt, &p.UpdatedAt, &p.CompletedCount); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

type UpdateProviderParams struct {
	Name        string
	RFC         *string
	Address     *string
	Phone       string
	Email       string
	Responsible *string
	LogoURL     *string
	Reputation  float64
}

// Update edits the profile and keeps the paired user's email in sync.
func (r *Repository) Update(ctx context.Context, id int64, params UpdateProviderParams) (Provider, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Provider{}, err
	}
	defer tx.Rollback(ctx)

	provider, err := scanProvider(tx.QueryRow(ctx, `
		UPDATE providers
		SET nombre = $2, rfc = $3, direccion = $4, telefono = $5, email = $6,
			responsable = $7, logo_url = $8, reputacion = $9, updated_at = now()
		WHERE id = $1
		RETURNING `+providerColumns,
		id, params.Name, params.RFC, params.Address, params.Phone, params.Email,
		params.Responsible, params.LogoURL, params.Reputation))
	if err != nil {
		return Provider{}, mapUniqueViolation(err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE users SET name = $2, email = $3, updated_at = now()
		WHERE id = $1`, provider.UserID, params.Name, params.Email); err != nil {
		return Provider{}, mapUniqueViolation(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Provider{}, err
	}
	return provider, nil
}

// Delete removes the provider and its login user. The provider's quotes go
// with it through the FK cascade.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var userID int64
	err = tx.QueryRow(ctx, `DELETE FROM providers WHERE id = $1 RETURNING user_id`, id).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
