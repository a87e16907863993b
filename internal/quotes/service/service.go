// Package service implements quote submission, the single-winner assignment,
// and the provider-facing views.
package service

import (
	"context"
	"errors"

	"mudancer_backend/internal/events"
	leadsdomain "mudancer_backend/internal/leads/domain"
	leadsrepo "mudancer_backend/internal/leads/repository"
	leadstransport "mudancer_backend/internal/leads/transport"
	"mudancer_backend/internal/quotes/repository"
	"mudancer_backend/internal/quotes/transport"
	"mudancer_backend/platform/apperr"
	"mudancer_backend/platform/config"
	"mudancer_backend/platform/logger"
	"mudancer_backend/platform/validator"
)

// QuoteStore is the persistence surface the service needs.
type QuoteStore interface {
	Create(ctx context.Context, params repository.CreateQuoteParams) (repository.Quote, error)
	GetByID(ctx context.Context, id int64) (repository.Quote, error)
	Assign(ctx context.Context, quoteID int64) (repository.QuoteWithProvider, error)
	RecordProviderConclusion(ctx context.Context, quoteID int64) (repository.Quote, error)
	CountForProviderOnLead(ctx context.Context, providerID, leadID int64) (int, error)
	CountForLead(ctx context.Context, leadID int64) (int, error)
	GetLeadState(ctx context.Context, leadID int64) (repository.LeadState, error)
	ListAvailable(ctx context.Context) ([]repository.AvailableLead, error)
	ListOrdersForProvider(ctx context.Context, providerID int64) ([]repository.ProviderOrder, error)
}

// LeadReader resolves full leads for assignment responses and the provider
// lead detail. The leads repository satisfies it.
type LeadReader interface {
	GetByID(ctx context.Context, id int64) (leadsrepo.Lead, error)
}

type Service struct {
	store     QuoteStore
	leads     LeadReader
	validator *validator.Validator
	cfg       config.PublicURLConfig
	bus       events.Bus
	logger    *logger.Logger
}

func New(store QuoteStore, leads LeadReader, v *validator.Validator, cfg config.PublicURLConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, leads: leads, validator: v, cfg: cfg, bus: bus, logger: log}
}

// Submit records a provider's bid. The lead must be published and not yet
// adjudicated. Several bids by the same provider on one lead are allowed;
// each supersedes nothing, the admin sees them all.
func (s *Service) Submit(ctx context.Context, providerID, leadID int64, req transport.SubmitQuoteRequest) (transport.QuoteResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		if fields := validator.FieldErrors(err); fields != nil {
			return transport.QuoteResponse{}, apperr.ValidationFields("invalid quote data", fields)
		}
		return transport.QuoteResponse{}, apperr.Validation("invalid quote data")
	}
	state, err := s.store.GetLeadState(ctx, leadID)
	if err != nil {
		return transport.QuoteResponse{}, s.mapStoreErr(err, "submit quote")
	}
	if !state.Published {
		return transport.QuoteResponse{}, apperr.Conflict("lead is not open for quotes")
	}
	if state.Adjudicated {
		return transport.QuoteResponse{}, apperr.Conflict("lead has already been adjudicated")
	}

	deposit, advance, final := SplitTotal(req.Total)
	quote, err := s.store.Create(ctx, repository.CreateQuoteParams{
		LeadID:       leadID,
		ProviderID:   providerID,
		Total:        req.Total,
		Deposit:      deposit,
		Advance:      advance,
		FinalPayment: final,
		InsuranceFee: req.InsuranceFee,
		Notes:        req.Notes,
	})
	if err != nil {
		return transport.QuoteResponse{}, s.mapStoreErr(err, "submit quote")
	}

	s.bus.Publish(ctx, events.QuoteSubmitted{
		BaseEvent:  events.NewBaseEvent(),
		QuoteID:    quote.ID,
		LeadID:     quote.LeadID,
		ProviderID: quote.ProviderID,
		Total:      quote.Total,
	})
	return transport.ToQuoteResponse(quote), nil
}

// Assign selects the quote and adjudicates its lead, atomically. Both the
// admin's assignment and the customer's selection land here, so the one
// winner invariant has a single enforcement point. assignedBy is recorded on
// the event for auditing.
func (s *Service) Assign(ctx context.Context, quoteID int64, assignedBy string) (transport.AssignmentResponse, error) {
	quote, err := s.store.GetByID(ctx, quoteID)
	if err != nil {
		return transport.AssignmentResponse{}, s.mapStoreErr(err, "assign quote")
	}

	state, err := s.store.GetLeadState(ctx, quote.LeadID)
	if err != nil {
		return transport.AssignmentResponse{}, s.mapStoreErr(err, "assign quote")
	}
	if state.Concluded {
		return transport.AssignmentResponse{}, apperr.Conflict("lead has already been concluded")
	}
	flags := leadsdomain.Flags{Published: state.Published, Adjudicated: state.Adjudicated, Concluded: state.Concluded}
	if !state.Adjudicated {
		if err := flags.CanAdjudicate(); err != nil {
			return transport.AssignmentResponse{}, apperr.Conflict("lead must be published before a quote can be assigned")
		}
	}

	assigned, err := s.store.Assign(ctx, quoteID)
	if err != nil {
		return transport.AssignmentResponse{}, s.mapStoreErr(err, "assign quote")
	}

	lead, err := s.leads.GetByID(ctx, assigned.LeadID)
	if err != nil {
		return transport.AssignmentResponse{}, s.mapStoreErr(err, "assign quote")
	}

	s.bus.Publish(ctx, events.QuoteAssigned{
		BaseEvent:  events.NewBaseEvent(),
		QuoteID:    assigned.ID,
		LeadID:     assigned.LeadID,
		ProviderID: assigned.ProviderID,
		AssignedBy: assignedBy,
	})
	publicURL := leadstransport.PublicURL(s.cfg.GetFrontendBaseURL(), lead)
	return transport.AssignmentResponse{
		Quote: transport.ToQuoteWithProviderResponse(assigned),
		Lead:  leadstransport.ToLeadResponse(lead, publicURL),
	}, nil
}

// ConcludeOrder records the provider's acknowledgement that the job is done.
// Only the owning provider may call it, and only after adjudication. The
// lead's authoritative concluida flag stays with the admin.
func (s *Service) ConcludeOrder(ctx context.Context, providerID, quoteID int64) (transport.QuoteResponse, error) {
	quote, err := s.store.GetByID(ctx, quoteID)
	if err != nil {
		return transport.QuoteResponse{}, s.mapStoreErr(err, "conclude order")
	}
	if quote.ProviderID != providerID {
		return transport.QuoteResponse{}, apperr.Forbidden("this order belongs to another provider")
	}

	state, err := s.store.GetLeadState(ctx, quote.LeadID)
	if err != nil {
		return transport.QuoteResponse{}, s.mapStoreErr(err, "conclude order")
	}
	if !state.Adjudicated {
		return transport.QuoteResponse{}, apperr.Conflict("lead has not been adjudicated")
	}

	quote, err = s.store.RecordProviderConclusion(ctx, quoteID)
	if err != nil {
		return transport.QuoteResponse{}, s.mapStoreErr(err, "conclude order")
	}

	s.bus.Publish(ctx, events.OrderConcluded{
		BaseEvent:  events.NewBaseEvent(),
		QuoteID:    quote.ID,
		LeadID:     quote.LeadID,
		ProviderID: quote.ProviderID,
	})
	return transport.ToQuoteResponse(quote), nil
}

// ListAvailable returns leads open for bidding, newest first. The quote count
// is global, every provider sees the same number.
func (s *Service) ListAvailable(ctx context.Context) ([]transport.AvailableLeadResponse, error) {
	rows, err := s.store.ListAvailable(ctx)
	if err != nil {
		return nil, s.mapStoreErr(err, "list available leads")
	}
	out := make([]transport.AvailableLeadResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, transport.AvailableLeadResponse{
			LeadResponse: leadstransport.ToLeadResponse(row.Lead, ""),
			QuotesCount:  row.QuotesCount,
		})
	}
	return out, nil
}

// GetLead returns the lead detail for a provider, including how many bids
// they already placed on it.
func (s *Service) GetLead(ctx context.Context, providerID, leadID int64) (transport.LeadDetailResponse, error) {
	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		return transport.LeadDetailResponse{}, s.mapStoreErr(err, "get lead")
	}
	if !lead.Published {
		return transport.LeadDetailResponse{}, apperr.NotFound("lead not found")
	}

	total, err := s.store.CountForLead(ctx, leadID)
	if err != nil {
		return transport.LeadDetailResponse{}, s.mapStoreErr(err, "get lead")
	}
	mine, err := s.store.CountForProviderOnLead(ctx, providerID, leadID)
	if err != nil {
		return transport.LeadDetailResponse{}, s.mapStoreErr(err, "get lead")
	}
	return transport.LeadDetailResponse{
		LeadResponse:  leadstransport.ToLeadResponse(lead, ""),
		QuotesCount:   total,
		MyQuotesCount: mine,
	}, nil
}

// ListOrders returns the provider's quotes on adjudicated leads.
func (s *Service) ListOrders(ctx context.Context, providerID int64) ([]transport.OrderResponse, error) {
	rows, err := s.store.ListOrdersForProvider(ctx, providerID)
	if err != nil {
		return nil, s.mapStoreErr(err, "list provider orders")
	}
	out := make([]transport.OrderResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, transport.OrderResponse{
			Quote: transport.ToQuoteResponse(row.Quote),
			Lead:  leadstransport.ToLeadResponse(row.Lead, ""),
		})
	}
	return out, nil
}

func (s *Service) mapStoreErr(err error, op string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound("quote not found")
	case errors.Is(err, repository.ErrLeadNotFound), errors.Is(err, leadsrepo.ErrNotFound):
		return apperr.NotFound("lead not found")
	}
	s.logger.DatabaseError(op, err)
	return apperr.Wrap(apperr.KindInternal, "something went wrong", err)
}
