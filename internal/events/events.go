// Package events defines the domain events exchanged between modules over the
// platform event bus.
package events

import platformevents "mudancer_backend/platform/events"

// Re-exports so modules only import internal/events.
type (
	Event       = platformevents.Event
	Handler     = platformevents.Handler
	HandlerFunc = platformevents.HandlerFunc
	Bus         = platformevents.Bus
	BaseEvent   = platformevents.BaseEvent
	InMemoryBus = platformevents.InMemoryBus
)

// NewBaseEvent creates a new base event with the current timestamp.
func NewBaseEvent() BaseEvent { return platformevents.NewBaseEvent() }

// LeadReceived fires when the webhook intake creates a lead.
type LeadReceived struct {
	BaseEvent
	LeadID   int64  `json:"leadId"`
	PublicID string `json:"publicId"`
	Phone    string `json:"phone"`
}

func (LeadReceived) EventName() string { return "lead.received" }

// LeadPublished fires when an admin publishes a lead to providers.
type LeadPublished struct {
	BaseEvent
	LeadID    int64  `json:"leadId"`
	PublicID  string `json:"publicId"`
	PublicURL string `json:"publicUrl"`
}

func (LeadPublished) EventName() string { return "lead.published" }

// QuoteSubmitted fires when a provider submits a bid on a lead.
type QuoteSubmitted struct {
	BaseEvent
	QuoteID    int64   `json:"quoteId"`
	LeadID     int64   `json:"leadId"`
	ProviderID int64   `json:"providerId"`
	Total      float64 `json:"total"`
}

func (QuoteSubmitted) EventName() string { return "quote.submitted" }

// QuoteAssigned fires when a quote is selected and its lead adjudicated,
// whether by the admin or by the customer.
type QuoteAssigned struct {
	BaseEvent
	QuoteID    int64  `json:"quoteId"`
	LeadID     int64  `json:"leadId"`
	ProviderID int64  `json:"providerId"`
	AssignedBy string `json:"assignedBy"` // "admin" or "customer"
}

func (QuoteAssigned) EventName() string { return "quote.assigned" }

// OrderConcluded fires when a provider acknowledges finishing a job. The
// authoritative lead transition remains the admin's concluir action.
type OrderConcluded struct {
	BaseEvent
	QuoteID    int64 `json:"quoteId"`
	LeadID     int64 `json:"leadId"`
	ProviderID int64 `json:"providerId"`
}

func (OrderConcluded) EventName() string { return "order.concluded" }
