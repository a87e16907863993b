// Package transport defines the wire types of the customer self-service flow.
package transport

import (
	leadstransport "mudancer_backend/internal/leads/transport"
)

// LookupResponse is what a customer sees for their own move: the lead and
// every quote with provider info.
type LookupResponse struct {
	Lead   leadstransport.LeadResponse    `json:"lead"`
	Quotes []leadstransport.QuoteResponse `json:"cotizaciones"`
}

// SelectQuoteRequest picks a winning quote. The phone doubles as the
// credential: the quote must belong to the lead registered under it.
type SelectQuoteRequest struct {
	Phone   string `json:"telefono" validate:"required,len=10,numeric"`
	QuoteID int64  `json:"cotizacion_id" validate:"required,gt=0"`
}
