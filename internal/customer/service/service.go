// Package service implements the unauthenticated customer flow. The phone
// number is the only credential; responses are shaped so an attacker probing
// numbers learns nothing beyond "no quotes yet".
package service

import (
	"context"
	"errors"

	"mudancer_backend/internal/customer/transport"
	leadsrepo "mudancer_backend/internal/leads/repository"
	leadstransport "mudancer_backend/internal/leads/transport"
	quotesrepo "mudancer_backend/internal/quotes/repository"
	quotestransport "mudancer_backend/internal/quotes/transport"
	"mudancer_backend/platform/apperr"
	"mudancer_backend/platform/logger"
	"mudancer_backend/platform/validator"
)

// noQuotesMessage is deliberately the same whether the phone is unknown or
// the lead simply has nothing to show yet.
const noQuotesMessage = "no quotes available for this phone number yet"

// LeadStore resolves leads and their quotes by phone.
type LeadStore interface {
	GetByPhone(ctx context.Context, phone string) (leadsrepo.Lead, error)
	QuotesForLead(ctx context.Context, leadID int64) ([]leadsrepo.QuoteSummary, error)
}

// QuoteStore resolves quotes for ownership checks and records the
// informational interest flag.
type QuoteStore interface {
	GetByID(ctx context.Context, id int64) (quotesrepo.Quote, error)
	MarkClientInterest(ctx context.Context, quoteID int64) (quotesrepo.Quote, error)
}

// Assigner runs the single-winner assignment. The quotes service satisfies
// it, so the customer path and the admin path share one invariant.
type Assigner interface {
	Assign(ctx context.Context, quoteID int64, assignedBy string) (quotestransport.AssignmentResponse, error)
}

type Service struct {
	leads     LeadStore
	quotes    QuoteStore
	assigner  Assigner
	validator *validator.Validator
	logger    *logger.Logger
}

func New(leads LeadStore, quotes QuoteStore, assigner Assigner, v *validator.Validator, log *logger.Logger) *Service {
	return &Service{leads: leads, quotes: quotes, assigner: assigner, validator: v, logger: log}
}

// Lookup returns the caller's lead and quotes, keyed by phone.
func (s *Service) Lookup(ctx context.Context, phone string) (transport.LookupResponse, error) {
	if err := s.validator.Var(phone, "required,len=10,numeric"); err != nil {
		return transport.LookupResponse{}, apperr.ValidationFields("invalid phone number",
			map[string]string{"telefono": "must be exactly 10 digits"})
	}

	lead, err := s.leadByPhone(ctx, phone)
	if err != nil {
		return transport.LookupResponse{}, err
	}

	quotes, err := s.leads.QuotesForLead(ctx, lead.ID)
	if err != nil {
		s.logger.DatabaseError("customer lookup", err)
		return transport.LookupResponse{}, apperr.Wrap(apperr.KindInternal, "something went wrong", err)
	}
	return transport.LookupResponse{
		Lead:   leadstransport.ToLeadResponse(lead, ""),
		Quotes: leadstransport.ToQuoteResponses(quotes),
	}, nil
}

// SelectQuote lets the customer pick their winning quote. The quote must
// belong to the lead registered under the given phone; past that check the
// assignment is exactly the admin's.
func (s *Service) SelectQuote(ctx context.Context, req transport.SelectQuoteRequest) (quotestransport.AssignmentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		if fields := validator.FieldErrors(err); fields != nil {
			return quotestransport.AssignmentResponse{}, apperr.ValidationFields("invalid selection", fields)
		}
		return quotestransport.AssignmentResponse{}, apperr.Validation("invalid selection")
	}

	lead, err := s.leadByPhone(ctx, req.Phone)
	if err != nil {
		return quotestransport.AssignmentResponse{}, err
	}

	quote, err := s.quotes.GetByID(ctx, req.QuoteID)
	if err != nil {
		if errors.Is(err, quotesrepo.ErrNotFound) {
			return quotestransport.AssignmentResponse{}, apperr.NotFound(noQuotesMessage)
		}
		s.logger.DatabaseError("customer select quote", err)
		return quotestransport.AssignmentResponse{}, apperr.Wrap(apperr.KindInternal, "something went wrong", err)
	}
	if quote.LeadID != lead.ID {
		// Same shape as an unknown quote, nothing to enumerate.
		return quotestransport.AssignmentResponse{}, apperr.NotFound(noQuotesMessage)
	}

	return s.assigner.Assign(ctx, req.QuoteID, "customer")
}

// MarkInterest flags a quote as interesting to the customer. Informational
// only; it never touches the assignment flags.
func (s *Service) MarkInterest(ctx context.Context, req transport.SelectQuoteRequest) error {
	if err := s.validator.Struct(req); err != nil {
		if fields := validator.FieldErrors(err); fields != nil {
			return apperr.ValidationFields("invalid selection", fields)
		}
		return apperr.Validation("invalid selection")
	}

	lead, err := s.leadByPhone(ctx, req.Phone)
	if err != nil {
		return err
	}

	quote, err := s.quotes.GetByID(ctx, req.QuoteID)
	if err != nil {
		if errors.Is(err, quotesrepo.ErrNotFound) {
			return apperr.NotFound(noQuotesMessage)
		}
		s.logger.DatabaseError("customer mark interest", err)
		return apperr.Wrap(apperr.KindInternal, "something went wrong", err)
	}
	if quote.LeadID != lead.ID {
		return apperr.NotFound(noQuotesMessage)
	}

	if _, err := s.quotes.MarkClientInterest(ctx, req.QuoteID); err != nil {
		s.logger.DatabaseError("customer mark interest", err)
		return apperr.Wrap(apperr.KindInternal, "something went wrong", err)
	}
	return nil
}

func (s *Service) leadByPhone(ctx context.Context, phone string) (leadsrepo.Lead, error) {
	lead, err := s.leads.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, leadsrepo.ErrNotFound) {
			return leadsrepo.Lead{}, apperr.NotFound(noQuotesMessage)
		}
		s.logger.DatabaseError("customer lookup", err)
		return leadsrepo.Lead{}, apperr.Wrap(apperr.KindInternal, "something went wrong", err)
	}
	return lead, nil
}
