package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound       = errors.New("lead not found")
	ErrDuplicatePhone = errors.New("a lead with this phone already exists")
)

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Lead mirrors the leads table. Column names keep the original Spanish wire
// vocabulary (publicada, adjudicada, concluida, vista) used by the frontend.
type Lead struct {
	ID             int64
	PublicID       string  // lead_id: human-shareable, immutable once set
	PublicToken    *string // opaque, generated once at publish time
	ClientName     string
	ClientEmail    string
	ClientPhone    string // canonical 10-digit form, customer lookup key
	OriginState    string
	OriginCity     string
	OriginColonia  string
	OriginFloor    *string
	OriginElevator bool
	OriginHaulage  int
	DestState      string
	DestCity       string
	DestColonia    string
	DestFloor      *string
	DestElevator   bool
	DestHaulage    int
	Packing        string
	CollectionDate time.Time
	EstimatedTime  string
	Modality       string
	Insurance      *float64
	Inventory      string
	DelicateItems  *string
	Observations   *string
	Published      bool
	Adjudicated    bool
	Concluded      bool
	Viewed         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const leadColumns = `id, lead_id, public_token, nombre_cliente, email_cliente, telefono_cliente,
	estado_origen, localidad_origen, colonia_origen, piso_origen, elevador_origen, acarreo_origen,
	estado_destino, localidad_destino, colonia_destino, piso_destino, elevador_destino, acarreo_destino,
	empaque, fecha_recoleccion, tiempo_estimado, modalidad, seguro,
	inventario, articulos_delicados, observaciones,
	publicada, adjudicada, concluida, vista, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID, &l.PublicID, &l.PublicToken, &l.ClientName, &l.ClientEmail, &l.ClientPhone,
		&l.OriginState, &l.OriginCity, &l.OriginColonia, &l.OriginFloor, &l.OriginElevator, &l.OriginHaulage,
		&l.DestState, &l.DestCity, &l.DestColonia, &l.DestFloor, &l.DestElevator, &l.DestHaulage,
		&l.Packing, &l.CollectionDate, &l.EstimatedTime, &l.Modality, &l.Insurance,
		&l.Inventory, &l.DelicateItems, &l.Observations,
		&l.Published, &l.Adjudicated, &l.Concluded, &l.Viewed, &l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return l, err
}

type CreateLeadParams struct {
	PublicID       string
	ClientName     string
	ClientEmail    string
	ClientPhone    string
	OriginState    string
	OriginCity     string
	OriginColonia  string
	OriginFloor    *string
	OriginElevator bool
	OriginHaulage  int
	DestState      string
	DestCity       string
	DestColonia    string
	DestFloor      *string
	DestElevator   bool
	DestHaulage    int
	Packing        string
	CollectionDate time.Time
	EstimatedTime  string
	Modality       string
	Insurance      *float64
	Inventory      string
	DelicateItems  *string
	Observations   *string
}

// Create inserts a lead in draft state. The unique index on telefono_cliente
// is the authoritative duplicate guard; the webhook's pre-check only exists
// for a friendlier error.
func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			lead_id, nombre_cliente, email_cliente, telefono_cliente,
			estado_origen, localidad_origen, colonia_origen, piso_origen, elevador_origen, acarreo_origen,
			estado_destino, localidad_destino, colonia_destino, piso_destino, elevador_destino, acarreo_destino,
			empaque, fecha_recoleccion, tiempo_estimado, modalidad, seguro,
			inventario, articulos_delicados, observaciones
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
		RETURNING `+leadColumns,
		params.PublicID, params.ClientName, params.ClientEmail, params.ClientPhone,
		params.OriginState, params.OriginCity, params.OriginColonia, params.OriginFloor, params.OriginElevator, params.OriginHaulage,
		params.DestState, params.DestCity, params.DestColonia, params.DestFloor, params.DestElevator, params.DestHaulage,
		params.Packing, params.CollectionDate, params.EstimatedTime, params.Modality, params.Insurance,
		params.Inventory, params.DelicateItems, params.Observations,
	)

	lead, err := scanLead(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Lead{}, ErrDuplicatePhone
		}
		return Lead{}, err
	}
	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
}

// GetByPhone resolves the customer self-service lookup key. The newest lead
// wins when a phone appears more than once (historical rows predating the
// unique index).
func (r *Repository) GetByPhone(ctx context.Context, phone string) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE telefono_cliente = $1
		ORDER BY created_at DESC
		LIMIT 1`, phone))
}

// PhoneExists is the webhook's fast-path duplicate check.
func (r *Repository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM leads WHERE telefono_cliente = $1)`, phone).Scan(&exists)
	return exists, err
}

// TokenExists reports whether a public token is already in use by any lead.
func (r *Repository) TokenExists(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM leads WHERE public_token = $1)`, token).Scan(&exists)
	return exists, err
}

type UpdateLeadParams struct {
	ClientName     string
	ClientEmail    string
	ClientPhone    string
	OriginState    string
	OriginCity     string
	OriginColonia  string
	OriginFloor    *string
	OriginElevator bool
	OriginHaulage  int
	DestState      string
	DestCity       string
	DestColonia    string
	DestFloor      *string
	DestElevator   bool
	DestHaulage    int
	Packing        string
	CollectionDate time.Time
	EstimatedTime  string
	Modality       string
	Insurance      *float64
	Inventory      string
	DelicateItems  *string
	Observations   *string
}

// Update applies the admin-editable field whitelist. The public lead_id and
// the lifecycle flags are deliberately not part of the parameter set; flags
// change only through the transition methods below. Every admin edit marks
// the lead as viewed.
func (r *Repository) Update(ctx context.Context, id int64, params UpdateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET
			nombre_cliente = $2, email_cliente = $3, telefono_cliente = $4,
			estado_origen = $5, localidad_origen = $6, colonia_origen = $7, piso_origen = $8, elevador_origen = $9, acarreo_origen = $10,
			estado_destino = $11, localidad_destino = $12, colonia_destino = $13, piso_destino = $14, elevador_destino = $15, acarreo_destino = $16,
			empaque = $17, fecha_recoleccion = $18, tiempo_estimado = $19, modalidad = $20, seguro = $21,
			inventario = $22, articulos_delicados = $23, observaciones = $24,
			vista = true, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		id,
		params.ClientName, params.ClientEmail, params.ClientPhone,
		params.OriginState, params.OriginCity, params.OriginColonia, params.OriginFloor, params.OriginElevator, params.OriginHaulage,
		params.DestState, params.DestCity, params.DestColonia, params.DestFloor, params.DestElevator, params.DestHaulage,
		params.Packing, params.CollectionDate, params.EstimatedTime, params.Modality, params.Insurance,
		params.Inventory, params.DelicateItems, params.Observations,
	)

	lead, err := scanLead(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Lead{}, ErrDuplicatePhone
		}
		return Lead{}, err
	}
	return lead, nil
}

// SetPublished flips the lead to published and stores its public token.
func (r *Repository) SetPublished(ctx context.Context, id int64, token string) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads
		SET publicada = true, vista = true, public_token = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns, id, token))
}

// SetAdjudicated marks the lead as awarded. The guard lives in the service;
// this only persists the transition.
func (r *Repository) SetAdjudicated(ctx context.Context, id int64) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads
		SET adjudicada = true, vista = true, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns, id))
}

// SetConcluded marks the job finished.
func (r *Repository) SetConcluded(ctx context.Context, id int64) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads
		SET concluida = true, vista = true, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns, id))
}
