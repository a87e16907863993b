// Package transport defines the wire types of the quotes module.
package transport

import (
	"time"

	leadstransport "mudancer_backend/internal/leads/transport"
	"mudancer_backend/internal/quotes/repository"
)

// SubmitQuoteRequest is a provider's bid on a lead.
type SubmitQuoteRequest struct {
	Total        float64  `json:"precio_total" validate:"gte=0"`
	InsuranceFee *float64 `json:"tarifa_seguro" validate:"omitempty,gte=0"`
	Notes        *string  `json:"notas"`
}

// QuoteResponse is the provider-facing quote shape.
type QuoteResponse struct {
	ID                  int64    `json:"id"`
	LeadID              int64    `json:"lead_id"`
	ProviderID          int64    `json:"proveedor_id"`
	ProviderName        string   `json:"proveedor_nombre,omitempty"`
	ProviderPhone       string   `json:"proveedor_telefono,omitempty"`
	Total               float64  `json:"precio_total"`
	Deposit             float64  `json:"apartado"`
	Advance             float64  `json:"anticipo"`
	FinalPayment        float64  `json:"pago_final"`
	InsuranceFee        *float64 `json:"tarifa_seguro"`
	Notes               *string  `json:"notas"`
	Selected            bool     `json:"seleccionada"`
	ClientInterested    bool     `json:"cliente_interesada"`
	ProviderConcludedAt *string  `json:"concluida_proveedor_at"`
	CreatedAt           string   `json:"created_at"`
}

// AvailableLeadResponse is a biddable lead with the global bid count.
type AvailableLeadResponse struct {
	leadstransport.LeadResponse
	QuotesCount int `json:"quotes_count"`
}

// LeadDetailResponse is a lead as seen by one provider, with their own bid
// count on it.
type LeadDetailResponse struct {
	leadstransport.LeadResponse
	QuotesCount   int `json:"quotes_count"`
	MyQuotesCount int `json:"my_quotes_count"`
}

// OrderResponse is one of the provider's quotes on an adjudicated lead.
type OrderResponse struct {
	Quote QuoteResponse               `json:"cotizacion"`
	Lead  leadstransport.LeadResponse `json:"lead"`
}

// AssignmentResponse is the outcome of selecting a quote: the winning quote
// and the refreshed lead.
type AssignmentResponse struct {
	Quote QuoteResponse               `json:"cotizacion"`
	Lead  leadstransport.LeadResponse `json:"lead"`
}

// ToQuoteResponse maps a stored quote to its wire shape.
func ToQuoteResponse(q repository.Quote) QuoteResponse {
	resp := QuoteResponse{
		ID:               q.ID,
		LeadID:           q.LeadID,
		ProviderID:       q.ProviderID,
		Total:            q.Total,
		Deposit:          q.Deposit,
		Advance:          q.Advance,
		FinalPayment:     q.FinalPayment,
		InsuranceFee:     q.InsuranceFee,
		Notes:            q.Notes,
		Selected:         q.Selected,
		ClientInterested: q.ClientInterested,
		CreatedAt:        q.CreatedAt.Format(time.RFC3339),
	}
	if q.ProviderConcludedAt != nil {
		ts := q.ProviderConcludedAt.Format(time.RFC3339)
		resp.ProviderConcludedAt = &ts
	}
	return resp
}

// ToQuoteWithProviderResponse adds the provider contact details to the quote
// shape.
func ToQuoteWithProviderResponse(q repository.QuoteWithProvider) QuoteResponse {
	resp := ToQuoteResponse(q.Quote)
	resp.ProviderName = q.ProviderName
	resp.ProviderPhone = q.ProviderPhone
	return resp
}
