package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// QuoteSummary is a quote joined with its provider, embedded in admin views.
type QuoteSummary struct {
	ID               int64
	LeadID           int64
	ProviderID       int64
	ProviderName     string
	ProviderPhone    string
	Total            float64
	Deposit          float64
	Advance          float64
	FinalPayment     float64
	InsuranceFee     *float64
	Notes            *string
	Selected         bool
	Viewed           bool
	ClientInterested bool
	CreatedAt        time.Time
}

// LeadWithCount is a lead plus its global quote count, the shape of the
// all-leads and new-leads listings.
type LeadWithCount struct {
	Lead
	QuotesCount int
}

// QuotedLead adds the unseen-quote count and the full quote list for the
// quoted-leads board.
type QuotedLead struct {
	Lead
	QuotesCount int
	NewQuotes   int
	Quotes      []QuoteSummary
}

// Order is an adjudicated lead with its selected quote.
type Order struct {
	Lead
	Selected QuoteSummary
}

const countedColumns = leadColumns + `, (SELECT count(*) FROM quotes q WHERE q.lead_id = leads.id) AS quotes_count`

func scanLeadWithCount(rows pgx.Rows) (LeadWithCount, error) {
	var l LeadWithCount
	err := rows.Scan(
		&l.ID, &l.PublicID, &l.PublicToken, &l.ClientName, &l.ClientEmail, &l.ClientPhone,
		&l.OriginState, &l.OriginCity, &l.OriginColonia, &l.OriginFloor, &l.OriginElevator, &l.OriginHaulage,
		&l.DestState, &l.DestCity, &l.DestColonia, &l.DestFloor, &l.DestElevator, &l.DestHaulage,
		&l.Packing, &l.CollectionDate, &l.EstimatedTime, &l.Modality, &l.Insurance,
		&l.Inventory, &l.DelicateItems, &l.Observations,
		&l.Published, &l.Adjudicated, &l.Concluded, &l.Viewed, &l.CreatedAt, &l.UpdatedAt,
		&l.QuotesCount,
	)
	return l, err
}

func (r *Repository) listCounted(ctx context.Context, where string) ([]LeadWithCount, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+countedColumns+` FROM leads `+where)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]LeadWithCount, 0)
	for rows.Next() {
		l, err := scanLeadWithCount(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// ListAll returns every lead, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]LeadWithCount, error) {
	return r.listCounted(ctx, `ORDER BY created_at DESC`)
}

// ListNew returns unpublished leads, newest first.
func (r *Repository) ListNew(ctx context.Context) ([]LeadWithCount, error) {
	return r.listCounted(ctx, `WHERE publicada = false ORDER BY created_at DESC`)
}

// ListQuoted returns published leads still open for bids, with their quotes.
func (r *Repository) ListQuoted(ctx context.Context) ([]QuotedLead, error) {
	leads, err := r.listCounted(ctx, `
		WHERE publicada = true AND adjudicada = false AND concluida = false
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return []QuotedLead{}, nil
	}

	ids := make([]int64, len(leads))
	for i, l := range leads {
		ids[i] = l.Lead.ID
	}
	quotes, err := r.quotesForLeads(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]QuotedLead, 0, len(leads))
	for _, l := range leads {
		ql := QuotedLead{Lead: l.Lead, QuotesCount: l.QuotesCount, Quotes: []QuoteSummary{}}
		for _, q := range quotes[l.Lead.ID] {
			ql.Quotes = append(ql.Quotes, q)
			if !q.Viewed {
				ql.NewQuotes++
			}
		}
		out = append(out, ql)
	}
	return out, nil
}

// ListOrders returns adjudicated leads with their selected quote, most
// recently updated first.
func (r *Repository) ListOrders(ctx context.Context) ([]Order, error) {
	leads, err := r.listCounted(ctx, `WHERE adjudicada = true ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return []Order{}, nil
	}

	ids := make([]int64, len(leads))
	for i, l := range leads {
		ids[i] = l.Lead.ID
	}
	quotes, err := r.quotesForLeads(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]Order, 0, len(leads))
	for _, l := range leads {
		order := Order{Lead: l.Lead}
		for _, q := range quotes[l.Lead.ID] {
			if q.Selected {
				order.Selected = q
				break
			}
		}
		out = append(out, order)
	}
	return out, nil
}

// QuotesForLead returns the quotes of a single lead with provider info, used
// by the admin lead detail.
func (r *Repository) QuotesForLead(ctx context.Context, leadID int64) ([]QuoteSummary, error) {
	byLead, err := r.quotesForLeads(ctx, []int64{leadID})
	if err != nil {
		return nil, err
	}
	quotes := byLead[leadID]
	if quotes == nil {
		quotes = []QuoteSummary{}
	}
	return quotes, nil
}

func (r *Repository) quotesForLeads(ctx context.Context, leadIDs []int64) (map[int64][]QuoteSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT q.id, q.lead_id, q.provider_id, p.nombre, p.telefono,
			q.precio_total, q.apartado, q.anticipo, q.pago_final, q.tarifa_seguro,
			q.notas, q.seleccionada, q.vista, q.cliente_interesada, q.created_at
		FROM quotes q
		JOIN providers p ON p.id = q.provider_id
		WHERE q.lead_id = ANY($1)
		ORDER BY q.created_at ASC`, leadIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byLead := make(map[int64][]QuoteSummary)
	for rows.Next() {
		var q QuoteSummary
		if err := rows.Scan(
			&q.ID, &q.LeadID, &q.ProviderID, &q.ProviderName, &q.ProviderPhone,
			&q.Total, &q.Deposit, &q.Advance, &q.FinalPayment, &q.InsuranceFee,
			&q.Notes, &q.Selected, &q.Viewed, &q.ClientInterested, &q.CreatedAt,
		); err != nil {
			return nil, err
		}
		byLead[q.LeadID] = append(byLead[q.LeadID], q)
	}
	return byLead, rows.Err()
}
