// Package transport defines the wire types of the leads module. JSON field
// names keep the Spanish vocabulary the frontend already speaks.
package transport

import (
	"fmt"
	"time"

	"mudancer_backend/internal/leads/domain"
	"mudancer_backend/internal/leads/repository"
)

// DateLayout is the wire format for the collection date.
const DateLayout = "2006-01-02"

// PublicURL composes the shareable customer link. Empty unless the lead is
// published and carries a token.
func PublicURL(baseURL string, l repository.Lead) string {
	if !l.Published || l.PublicToken == nil || *l.PublicToken == "" {
		return ""
	}
	return fmt.Sprintf("%s/leads/%s/%s", baseURL, l.PublicID, *l.PublicToken)
}

// UpdateLeadRequest carries the admin-editable field whitelist. The public
// lead_id and the lifecycle flags are not editable. Only the client contact
// fields are mandatory: webhook-created leads arrive with most of the rest
// empty and must stay saveable as-is.
type UpdateLeadRequest struct {
	ClientName     string   `json:"nombre_cliente" validate:"required"`
	ClientEmail    string   `json:"email_cliente" validate:"required,email"`
	ClientPhone    string   `json:"telefono_cliente" validate:"required,len=10,numeric"`
	OriginState    string   `json:"estado_origen"`
	OriginCity     string   `json:"localidad_origen"`
	OriginColonia  string   `json:"colonia_origen"`
	OriginFloor    *string  `json:"piso_origen"`
	OriginElevator bool     `json:"elevador_origen"`
	OriginHaulage  int      `json:"acarreo_origen" validate:"gte=0"`
	DestState      string   `json:"estado_destino"`
	DestCity       string   `json:"localidad_destino"`
	DestColonia    string   `json:"colonia_destino"`
	DestFloor      *string  `json:"piso_destino"`
	DestElevator   bool     `json:"elevador_destino"`
	DestHaulage    int      `json:"acarreo_destino" validate:"gte=0"`
	Packing        string   `json:"empaque"`
	CollectionDate string   `json:"fecha_recoleccion" validate:"omitempty,datetime=2006-01-02"`
	EstimatedTime  string   `json:"tiempo_estimado"`
	Modality       string   `json:"modalidad"`
	Insurance      *float64 `json:"seguro" validate:"omitempty,gte=0"`
	Inventory      string   `json:"inventario"`
	DelicateItems  *string  `json:"articulos_delicados"`
	Observations   *string  `json:"observaciones"`
}

// LeadResponse is the canonical lead shape. Status is derived from the flags
// on every read, never stored.
type LeadResponse struct {
	ID             int64    `json:"id"`
	PublicID       string   `json:"lead_id"`
	ClientName     string   `json:"nombre_cliente"`
	ClientEmail    string   `json:"email_cliente"`
	ClientPhone    string   `json:"telefono_cliente"`
	OriginState    string   `json:"estado_origen"`
	OriginCity     string   `json:"localidad_origen"`
	OriginColonia  string   `json:"colonia_origen"`
	OriginFloor    *string  `json:"piso_origen"`
	OriginElevator bool     `json:"elevador_origen"`
	OriginHaulage  int      `json:"acarreo_origen"`
	DestState      string   `json:"estado_destino"`
	DestCity       string   `json:"localidad_destino"`
	DestColonia    string   `json:"colonia_destino"`
	DestFloor      *string  `json:"piso_destino"`
	DestElevator   bool     `json:"elevador_destino"`
	DestHaulage    int      `json:"acarreo_destino"`
	Packing        string   `json:"empaque"`
	CollectionDate string   `json:"fecha_recoleccion"`
	EstimatedTime  string   `json:"tiempo_estimado"`
	Modality       string   `json:"modalidad"`
	Insurance      *float64 `json:"seguro"`
	Inventory      string   `json:"inventario"`
	DelicateItems  *string  `json:"articulos_delicados"`
	Observations   *string  `json:"observaciones"`
	Published      bool     `json:"publicada"`
	Adjudicated    bool     `json:"adjudicada"`
	Concluded      bool     `json:"concluida"`
	IsNew          bool     `json:"is_new"`
	Status         string   `json:"status"`
	PublicURL      *string  `json:"public_url"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

// QuoteResponse is a quote with its provider, embedded in admin views.
type QuoteResponse struct {
	ID               int64    `json:"id"`
	LeadID           int64    `json:"lead_id"`
	ProviderID       int64    `json:"proveedor_id"`
	ProviderName     string   `json:"proveedor_nombre"`
	ProviderPhone    string   `json:"proveedor_telefono"`
	Total            float64  `json:"precio_total"`
	Deposit          float64  `json:"apartado"`
	Advance          float64  `json:"anticipo"`
	FinalPayment     float64  `json:"pago_final"`
	InsuranceFee     *float64 `json:"tarifa_seguro"`
	Notes            *string  `json:"notas"`
	Selected         bool     `json:"seleccionada"`
	ClientInterested bool     `json:"cliente_interesada"`
	IsNew            bool     `json:"is_new"`
	CreatedAt        string   `json:"created_at"`
}

// ListItemResponse is a lead row plus its quote count.
type ListItemResponse struct {
	LeadResponse
	QuotesCount int `json:"quotes_count"`
}

// QuotedLeadResponse adds the unseen-quote count and the embedded quotes.
type QuotedLeadResponse struct {
	LeadResponse
	QuotesCount int             `json:"quotes_count"`
	NewQuotes   int             `json:"new_quotes"`
	Quotes      []QuoteResponse `json:"cotizaciones"`
}

// OrderResponse is an adjudicated lead with its selected quote.
type OrderResponse struct {
	LeadResponse
	SelectedQuote *QuoteResponse `json:"cotizacion_seleccionada"`
}

// LeadDetailResponse is the admin show shape: the lead plus every quote.
type LeadDetailResponse struct {
	LeadResponse
	Quotes []QuoteResponse `json:"cotizaciones"`
}

// ToLeadResponse maps a stored lead to its wire shape. publicURL is empty
// until the lead is published.
func ToLeadResponse(l repository.Lead, publicURL string) LeadResponse {
	resp := LeadResponse{
		ID:             l.ID,
		PublicID:       l.PublicID,
		ClientName:     l.ClientName,
		ClientEmail:    l.ClientEmail,
		ClientPhone:    l.ClientPhone,
		OriginState:    l.OriginState,
		OriginCity:     l.OriginCity,
		OriginColonia:  l.OriginColonia,
		OriginFloor:    l.OriginFloor,
		OriginElevator: l.OriginElevator,
		OriginHaulage:  l.OriginHaulage,
		DestState:      l.DestState,
		DestCity:       l.DestCity,
		DestColonia:    l.DestColonia,
		DestFloor:      l.DestFloor,
		DestElevator:   l.DestElevator,
		DestHaulage:    l.DestHaulage,
		Packing:        l.Packing,
		CollectionDate: l.CollectionDate.Format(DateLayout),
		EstimatedTime:  l.EstimatedTime,
		Modality:       l.Modality,
		Insurance:      l.Insurance,
		Inventory:      l.Inventory,
		DelicateItems:  l.DelicateItems,
		Observations:   l.Observations,
		Published:      l.Published,
		Adjudicated:    l.Adjudicated,
		Concluded:      l.Concluded,
		IsNew:          !l.Viewed,
		Status: string(domain.Derive(domain.Flags{
			Published:   l.Published,
			Adjudicated: l.Adjudicated,
			Concluded:   l.Concluded,
		})),
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
		UpdatedAt: l.UpdatedAt.Format(time.RFC3339),
	}
	if publicURL != "" {
		resp.PublicURL = &publicURL
	}
	return resp
}

// ToQuoteResponse maps an embedded quote summary to its wire shape.
func ToQuoteResponse(q repository.QuoteSummary) QuoteResponse {
	return QuoteResponse{
		ID:               q.ID,
		LeadID:           q.LeadID,
		ProviderID:       q.ProviderID,
		ProviderName:     q.ProviderName,
		ProviderPhone:    q.ProviderPhone,
		Total:            q.Total,
		Deposit:          q.Deposit,
		Advance:          q.Advance,
		FinalPayment:     q.FinalPayment,
		InsuranceFee:     q.InsuranceFee,
		Notes:            q.Notes,
		Selected:         q.Selected,
		ClientInterested: q.ClientInterested,
		IsNew:            !q.Viewed,
		CreatedAt:        q.CreatedAt.Format(time.RFC3339),
	}
}

func ToQuoteResponses(quotes []repository.QuoteSummary) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, ToQuoteResponse(q))
	}
	return out
}
