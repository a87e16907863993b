// Package repository persists quotes and owns the single-winner assignment
// transaction.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("quote not found")
	ErrLeadNotFound = errors.New("lead not found")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Quote mirrors the quotes table. The three payment fields are derived from
// precio_total at submission time and stored, matching what the customer was
// shown even if the split policy later changes.
type Quote struct {
	ID                  int64
	LeadID              int64
	ProviderID          int64
	Total               float64
	Deposit             float64
	Advance             float64
	FinalPayment        float64
	InsuranceFee        *float64
	Notes               *string
	Selected            bool
	Viewed              bool
	ClientInterested    bool
	ProviderConcludedAt *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

const quoteColumns = `id, lead_id, provider_id, precio_total, apartado, anticipo, pago_final,
	tarifa_seguro, notas, seleccionada, vista, cliente_interesada, concluida_proveedor_at, created_at, updated_at`

// QuoteWithProvider is a quote joined with its provider's contact details.
type QuoteWithProvider struct {
	Quote
	ProviderName  string
	ProviderPhone string
}

func scanQuote(row pgx.Row) (Quote, error) {
	var q Quote
	err := row.Scan(
		&q.ID, &q.LeadID, &q.ProviderID, &q.Total, &q.Deposit, &q.Advance, &q.FinalPayment,
		&q.InsuranceFee, &q.Notes, &q.Selected, &q.Viewed, &q.ClientInterested, &q.ProviderConcludedAt,
		&q.CreatedAt, &q.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Quote{}, ErrNotFound
	}
	return q, err
}

type CreateQuoteParams struct {
	LeadID       int64
	ProviderID   int64
	Total        float64
	Deposit      float64
	Advance      float64
	FinalPayment float64
	InsuranceFee *float64
	Notes        *string
}

// Create inserts a fresh quote: unselected and unseen by the admin.
func (r *Repository) Create(ctx context.Context, params CreateQuoteParams) (Quote, error) {
	return scanQuote(r.pool.QueryRow(ctx, `
		INSERT INTO quotes (lead_id, provider_id, precio_total, apartado, anticipo, pago_final, tarifa_seguro, notas)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+quoteColumns,
		params.LeadID, params.ProviderID, params.Total, params.Deposit, params.Advance,
		params.FinalPayment, params.InsuranceFee, params.Notes))
}

func (r *Repository) GetByID(ctx context.Context, id int64) (Quote, error) {
	return scanQuote(r.pool.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id))
}

// Assign selects the quote and adjudicates its lead in one transaction. The
// lead row lock serializes concurrent assignments; the partial unique index on
// quotes(lead_id) WHERE seleccionada is the store-level backstop. Any other
// selected quote on the lead is unselected first, so re-assignment moves the
// win instead of duplicating it.
func (r *Repository) Assign(ctx context.Context, quoteID int64) (QuoteWithProvider, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return QuoteWithProvider{}, err
	}
	defer tx.Rollback(ctx)

	quote, err := scanQuote(tx.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, quoteID))
	if err != nil {
		return QuoteWithProvider{}, err
	}

	var published, concluded bool
	err = tx.QueryRow(ctx, `
		SELECT publicada, concluida FROM leads WHERE id = $1 FOR UPDATE`, quote.LeadID).
		Scan(&published, &concluded)
	if errors.Is(err, pgx.ErrNoRows) {
		return QuoteWithProvider{}, ErrLeadNotFound
	}
	if err != nil {
		return QuoteWithProvider{}, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE quotes SET seleccionada = false, updated_at = now()
		WHERE lead_id = $1 AND seleccionada = true AND id <> $2`, quote.LeadID, quoteID); err != nil {
		return QuoteWithProvider{}, err
	}

	quote, err = scanQuote(tx.QueryRow(ctx, `
		UPDATE quotes SET seleccionada = true, vista = true, updated_at = now()
		WHERE id = $1
		RETURNING `+quoteColumns, quoteID))
	if err != nil {
		return QuoteWithProvider{}, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE leads SET adjudicada = true, vista = true, updated_at = now()
		WHERE id = $1`, quote.LeadID); err != nil {
		return QuoteWithProvider{}, err
	}

	assigned := QuoteWithProvider{Quote: quote}
	if err := tx.QueryRow(ctx, `
		SELECT nombre, telefono FROM providers WHERE id = $1`, quote.ProviderID).
		Scan(&assigned.ProviderName, &assigned.ProviderPhone); err != nil {
		return QuoteWithProvider{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return QuoteWithProvider{}, err
	}
	return assigned, nil
}

// RecordProviderConclusion stamps the provider's acknowledgement that the job
// is done. The lead's own concluida flag stays an admin decision.
func (r *Repository) RecordProviderConclusion(ctx context.Context, quoteID int64) (Quote, error) {
	return scanQuote(r.pool.QueryRow(ctx, `
		UPDATE quotes SET concluida_proveedor_at = now(), updated_at = now()
		WHERE id = $1
		RETURNING `+quoteColumns, quoteID))
}

// MarkClientInterest flags the quote as interesting to the customer. Purely
// informational for the admin, no effect on assignment.
func (r *Repository) MarkClientInterest(ctx context.Context, quoteID int64) (Quote, error) {
	return scanQuote(r.pool.QueryRow(ctx, `
		UPDATE quotes SET cliente_interesada = true, updated_at = now()
		WHERE id = $1
		RETURNING `+quoteColumns, quoteID))
}

// CountForProviderOnLead reports how many quotes the provider already placed
// on the lead.
func (r *Repository) CountForProviderOnLead(ctx context.Context, providerID, leadID int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM quotes WHERE provider_id = $1 AND lead_id = $2`, providerID, leadID).Scan(&n)
	return n, err
}

// CountForLead is the global bid count across all providers.
func (r *Repository) CountForLead(ctx context.Context, leadID int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM quotes WHERE lead_id = $1`, leadID).Scan(&n)
	return n, err
}
