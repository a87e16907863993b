package repository

import (
	"context"
	"errors"

	leadsrepo "mudancer_backend/internal/leads/repository"

	"github.com/jackc/pgx/v5"
)

// LeadState is the lifecycle snapshot the submission guard needs.
type LeadState struct {
	ID          int64
	Published   bool
	Adjudicated bool
	Concluded   bool
}

func (r *Repository) GetLeadState(ctx context.Context, leadID int64) (LeadState, error) {
	var st LeadState
	err := r.pool.QueryRow(ctx, `
		SELECT id, publicada, adjudicada, concluida FROM leads WHERE id = $1`, leadID).
		Scan(&st.ID, &st.Published, &st.Adjudicated, &st.Concluded)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeadState{}, ErrLeadNotFound
	}
	return st, err
}

// AvailableLead is a lead open for bidding, with the global bid count.
type AvailableLead struct {
	Lead        leadsrepo.Lead
	QuotesCount int
}

const availableLeadColumns = `l.id, l.lead_id, l.public_token, l.nombre_cliente, l.email_cliente, l.telefono_cliente,
	l.estado_origen, l.localidad_origen, l.colonia_origen, l.piso_origen, l.elevador_origen, l.acarreo_origen,
	l.estado_destino, l.localidad_destino, l.colonia_destino, l.piso_destino, l.elevador_destino, l.acarreo_destino,
	l.empaque, l.fecha_recoleccion, l.tiempo_estimado, l.modalidad, l.seguro,
	l.inventario, l.articulos_delicados, l.observaciones,
	l.publicada, l.adjudicada, l.concluida, l.vista, l.created_at, l.updated_at`

func scanPrefixedLead(rows pgx.Rows, extra ...interface{}) (leadsrepo.Lead, error) {
	var l leadsrepo.Lead
	dest := []interface{}{
		&l.ID, &l.PublicID, &l.PublicToken, &l.ClientName, &l.ClientEmail, &l.ClientPhone,
		&l.OriginState, &l.OriginCity, &l.OriginColonia, &l.OriginFloor, &l.OriginElevator, &l.OriginHaulage,
		&l.DestState, &l.DestCity, &l.DestColonia, &l.DestFloor, &l.DestElevator, &l.DestHaulage,
		&l.Packing, &l.CollectionDate, &l.EstimatedTime, &l.Modality, &l.Insurance,
		&l.Inventory, &l.DelicateItems, &l.Observations,
		&l.Published, &l.Adjudicated, &l.Concluded, &l.Viewed, &l.CreatedAt, &l.UpdatedAt,
	}
	dest = append(dest, extra...)
	return l, rows.Scan(dest...)
}

// ListAvailable returns leads providers may bid on, newest first.
func (r *Repository) ListAvailable(ctx context.Context) ([]AvailableLead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+availableLeadColumns+`,
			(SELECT count(*) FROM quotes q WHERE q.lead_id = l.id) AS quotes_count
		FROM leads l
		WHERE l.publicada = true AND l.adjudicada = false
		ORDER BY l.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]AvailableLead, 0)
	for rows.Next() {
		var item AvailableLead
		item.Lead, err = scanPrefixedLead(rows, &item.QuotesCount)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// ProviderOrder is one of the caller's quotes on an adjudicated lead.
type ProviderOrder struct {
	Quote Quote
	Lead  leadsrepo.Lead
}

// ListOrdersForProvider returns the provider's quotes whose lead has been
// adjudicated, newest quote first.
func (r *Repository) ListOrdersForProvider(ctx context.Context, providerID int64) ([]ProviderOrder, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT q.id, q.lead_id, q.provider_id, q.precio_total, q.apartado, q.anticipo, q.pago_final,
			q.tarifa_seguro, q.notas, q.seleccionada, q.vista, q.cliente_interesada, q.concluida_proveedor_at, q.created_at, q.updated_at,
			`+availableLeadColumns+`
		FROM quotes q
		JOIN leads l ON l.id = q.lead_id
		WHERE q.provider_id = $1 AND l.adjudicada = true
		ORDER BY q.created_at DESC`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ProviderOrder, 0)
	for rows.Next() {
		var po ProviderOrder
		q := &po.Quote
		l := &po.Lead
		if err := rows.Scan(
			&q.ID, &q.LeadID, &q.ProviderID, &q.Total, &q.Deposit, &q.Advance, &q.FinalPayment,
			&q.InsuranceFee, &q.Notes, &q.Selected, &q.Viewed, &q.ClientInterested, &q.ProviderConcludedAt, &q.CreatedAt, &q.UpdatedAt,
			&l.ID, &l.PublicID, &l.PublicToken, &l.ClientName, &l.ClientEmail, &l.ClientPhone,
			&l.OriginState, &l.OriginCity, &l.OriginColonia, &l.OriginFloor, &l.OriginElevator, &l.OriginHaulage,
			&l.DestState, &l.DestCity, &l.DestColonia, &l.DestFloor, &l.DestElevator, &l.DestHaulage,
			&l.Packing, &l.CollectionDate, &l.EstimatedTime, &l.Modality, &l.Insurance,
			&l.Inventory, &l.DelicateItems, &l.Observations,
			&l.Published, &l.Adjudicated, &l.Concluded, &l.Viewed, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, po)
	}
	return out, rows.Err()
}
