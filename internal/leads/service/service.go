// Package service implements the admin-facing lead lifecycle operations.
package service

import (
	"context"
	"errors"
	"time"

	"mudancer_backend/internal/events"
	"mudancer_backend/internal/leads/domain"
	"mudancer_backend/internal/leads/repository"
	"mudancer_backend/internal/leads/transport"
	"mudancer_backend/platform/apperr"
	"mudancer_backend/platform/config"
	"mudancer_backend/platform/logger"
	"mudancer_backend/platform/token"
	"mudancer_backend/platform/validator"
)

// publicTokenBytes sizes the share-link token (32 URL-safe chars encoded).
const publicTokenBytes = 24

// LeadStore is the persistence surface the service needs. The pgx repository
// satisfies it in production; tests use fakes.
type LeadStore interface {
	GetByID(ctx context.Context, id int64) (repository.Lead, error)
	Update(ctx context.Context, id int64, params repository.UpdateLeadParams) (repository.Lead, error)
	SetPublished(ctx context.Context, id int64, token string) (repository.Lead, error)
	SetAdjudicated(ctx context.Context, id int64) (repository.Lead, error)
	SetConcluded(ctx context.Context, id int64) (repository.Lead, error)
	TokenExists(ctx context.Context, token string) (bool, error)
	ListAll(ctx context.Context) ([]repository.LeadWithCount, error)
	ListNew(ctx context.Context) ([]repository.LeadWithCount, error)
	ListQuoted(ctx context.Context) ([]repository.QuotedLead, error)
	ListOrders(ctx context.Context) ([]repository.Order, error)
	QuotesForLead(ctx context.Context, leadID int64) ([]repository.QuoteSummary, error)
}

type Service struct {
	store     LeadStore
	validator *validator.Validator
	cfg       config.PublicURLConfig
	bus       events.Bus
	logger    *logger.Logger
}

func New(store LeadStore, v *validator.Validator, cfg config.PublicURLConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, validator: v, cfg: cfg, bus: bus, logger: log}
}

// PublicURL composes the shareable customer link for a lead.
func (s *Service) PublicURL(l repository.Lead) string {
	return transport.PublicURL(s.cfg.GetFrontendBaseURL(), l)
}

// Get returns the lead with all its quotes.
func (s *Service) Get(ctx context.Context, id int64) (transport.LeadDetailResponse, error) {
	lead, err := s.store.GetByID(ctx, id)
	if err != nil {
		return transport.LeadDetailResponse{}, s.mapStoreErr(err, "get lead")
	}
	quotes, err := s.store.QuotesForLead(ctx, id)
	if err != nil {
		return transport.LeadDetailResponse{}, s.mapStoreErr(err, "get lead quotes")
	}
	return transport.LeadDetailResponse{
		LeadResponse: transport.ToLeadResponse(lead, s.PublicURL(lead)),
		Quotes:       transport.ToQuoteResponses(quotes),
	}, nil
}

// Update applies the editable field whitelist. Phone and email are validated
// together with the rest of the fields so the response lists every problem.
func (s *Service) Update(ctx context.Context, id int64, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		if fields := validator.FieldErrors(err); fields != nil {
			return transport.LeadResponse{}, apperr.ValidationFields("invalid lead data", fields)
		}
		return transport.LeadResponse{}, apperr.Validation("invalid lead data")
	}

	collectionDate, err := s.collectionDate(ctx, id, req.CollectionDate)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	lead, err := s.store.Update(ctx, id, repository.UpdateLeadParams{
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		ClientPhone:    req.ClientPhone,
		OriginState:    req.OriginState,
		OriginCity:     req.OriginCity,
		OriginColonia:  req.OriginColonia,
		OriginFloor:    req.OriginFloor,
		OriginElevator: req.OriginElevator,
		OriginHaulage:  req.OriginHaulage,
		DestState:      req.DestState,
		DestCity:       req.DestCity,
		DestColonia:    req.DestColonia,
		DestFloor:      req.DestFloor,
		DestElevator:   req.DestElevator,
		DestHaulage:    req.DestHaulage,
		Packing:        req.Packing,
		CollectionDate: collectionDate,
		EstimatedTime:  req.EstimatedTime,
		Modality:       req.Modality,
		Insurance:      req.Insurance,
		Inventory:      req.Inventory,
		DelicateItems:  req.DelicateItems,
		Observations:   req.Observations,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicatePhone) {
			return transport.LeadResponse{}, apperr.Conflict("another lead already uses this phone number")
		}
		return transport.LeadResponse{}, s.mapStoreErr(err, "update lead")
	}
	return transport.ToLeadResponse(lead, s.PublicURL(lead)), nil
}

// collectionDate parses the submitted date, keeping the stored one when the
// field is omitted.
func (s *Service) collectionDate(ctx context.Context, id int64, raw string) (time.Time, error) {
	if raw == "" {
		lead, err := s.store.GetByID(ctx, id)
		if err != nil {
			return time.Time{}, s.mapStoreErr(err, "update lead")
		}
		return lead.CollectionDate, nil
	}
	parsed, err := time.Parse(transport.DateLayout, raw)
	if err != nil {
		return time.Time{}, apperr.ValidationFields("invalid lead data",
			map[string]string{"fecha_recoleccion": "must be a date in YYYY-MM-DD format"})
	}
	return parsed, nil
}

// Publish makes the lead visible to providers. Idempotent: republishing keeps
// the existing token, so shared links never break. The first publish generates
// the token, regenerating on the unlikely collision.
func (s *Service) Publish(ctx context.Context, id int64) (transport.LeadResponse, error) {
	lead, err := s.store.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, s.mapStoreErr(err, "publish lead")
	}

	if lead.Published && lead.PublicToken != nil && *lead.PublicToken != "" {
		return transport.ToLeadResponse(lead, s.PublicURL(lead)), nil
	}

	tok, err := s.generateToken(ctx)
	if err != nil {
		return transport.LeadResponse{}, apperr.Wrap(apperr.KindInternal, "could not generate public token", err)
	}

	lead, err = s.store.SetPublished(ctx, id, tok)
	if err != nil {
		return transport.LeadResponse{}, s.mapStoreErr(err, "publish lead")
	}

	url := s.PublicURL(lead)
	s.bus.Publish(ctx, events.LeadPublished{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		PublicID:  lead.PublicID,
		PublicURL: url,
	})
	return transport.ToLeadResponse(lead, url), nil
}

func (s *Service) generateToken(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		tok, err := token.GenerateRandomToken(publicTokenBytes)
		if err != nil {
			return "", err
		}
		exists, err := s.store.TokenExists(ctx, tok)
		if err != nil {
			return "", err
		}
		if !exists {
			return tok, nil
		}
	}
	return "", errors.New("token collision retries exhausted")
}

// Adjudicate marks the lead as awarded. Only published leads qualify.
func (s *Service) Adjudicate(ctx context.Context, id int64) (transport.LeadResponse, error) {
	lead, err := s.store.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, s.mapStoreErr(err, "adjudicate lead")
	}
	if err := flags(lead).CanAdjudicate(); err != nil {
		return transport.LeadResponse{}, apperr.Conflict("lead must be published before it can be adjudicated")
	}

	lead, err = s.store.SetAdjudicated(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, s.mapStoreErr(err, "adjudicate lead")
	}
	return transport.ToLeadResponse(lead, s.PublicURL(lead)), nil
}

// Conclude marks the job finished. Only adjudicated leads qualify.
func (s *Service) Conclude(ctx context.Context, id int64) (transport.LeadResponse, error) {
	lead, err := s.store.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, s.mapStoreErr(err, "conclude lead")
	}
	if err := flags(lead).CanConclude(); err != nil {
		return transport.LeadResponse{}, apperr.Conflict("lead must be adjudicated before it can be concluded")
	}

	lead, err = s.store.SetConcluded(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, s.mapStoreErr(err, "conclude lead")
	}
	return transport.ToLeadResponse(lead, s.PublicURL(lead)), nil
}

// List returns every lead, newest first.
func (s *Service) List(ctx context.Context) ([]transport.ListItemResponse, error) {
	rows, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, s.mapStoreErr(err, "list leads")
	}
	return s.toListItems(rows), nil
}

// ListNew returns leads not yet published.
func (s *Service) ListNew(ctx context.Context) ([]transport.ListItemResponse, error) {
	rows, err := s.store.ListNew(ctx)
	if err != nil {
		return nil, s.mapStoreErr(err, "list new leads")
	}
	return s.toListItems(rows), nil
}

// ListQuoted returns published leads still open for bids, with every quote.
func (s *Service) ListQuoted(ctx context.Context) ([]transport.QuotedLeadResponse, error) {
	rows, err := s.store.ListQuoted(ctx)
	if err != nil {
		return nil, s.mapStoreErr(err, "list quoted leads")
	}
	out := make([]transport.QuotedLeadResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, transport.QuotedLeadResponse{
			LeadResponse: transport.ToLeadResponse(row.Lead, s.PublicURL(row.Lead)),
			QuotesCount:  row.QuotesCount,
			NewQuotes:    row.NewQuotes,
			Quotes:       transport.ToQuoteResponses(row.Quotes),
		})
	}
	return out, nil
}

// ListOrders returns adjudicated leads with their selected quote.
func (s *Service) ListOrders(ctx context.Context) ([]transport.OrderResponse, error) {
	rows, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, s.mapStoreErr(err, "list orders")
	}
	out := make([]transport.OrderResponse, 0, len(rows))
	for _, row := range rows {
		resp := transport.OrderResponse{
			LeadResponse: transport.ToLeadResponse(row.Lead, s.PublicURL(row.Lead)),
		}
		if row.Selected.ID != 0 {
			q := transport.ToQuoteResponse(row.Selected)
			resp.SelectedQuote = &q
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *Service) toListItems(rows []repository.LeadWithCount) []transport.ListItemResponse {
	out := make([]transport.ListItemResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, transport.ListItemResponse{
			LeadResponse: transport.ToLeadResponse(row.Lead, s.PublicURL(row.Lead)),
			QuotesCount:  row.QuotesCount,
		})
	}
	return out
}

func (s *Service) mapStoreErr(err error, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("lead not found")
	}
	s.logger.DatabaseError(op, err)
	return apperr.Wrap(apperr.KindInternal, "something went wrong", err)
}

func flags(l repository.Lead) domain.Flags {
	return domain.Flags{Published: l.Published, Adjudicated: l.Adjudicated, Concluded: l.Concluded}
}
