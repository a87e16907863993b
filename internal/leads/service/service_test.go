package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"mudancer_backend/internal/leads/repository"
	"mudancer_backend/internal/leads/transport"
	"mudancer_backend/platform/apperr"
	platformevents "mudancer_backend/platform/events"
	"mudancer_backend/platform/logger"
	"mudancer_backend/platform/validator"
)

type fakeStore struct {
	leads  map[int64]repository.Lead
	quotes map[int64][]repository.QuoteSummary
}

func newFakeStore(leads ...repository.Lead) *fakeStore {
	s := &fakeStore{leads: make(map[int64]repository.Lead), quotes: make(map[int64][]repository.QuoteSummary)}
	for _, l := range leads {
		s.leads[l.ID] = l
	}
	return s
}

func (s *fakeStore) GetByID(_ context.Context, id int64) (repository.Lead, error) {
	l, ok := s.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return l, nil
}

func (s *fakeStore) Update(_ context.Context, id int64, params repository.UpdateLeadParams) (repository.Lead, error) {
	l, ok := s.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	l.ClientName = params.ClientName
	l.ClientEmail = params.ClientEmail
	l.ClientPhone = params.ClientPhone
	l.CollectionDate = params.CollectionDate
	l.Viewed = true
	l.UpdatedAt = time.Now()
	s.leads[id] = l
	return l, nil
}

func (s *fakeStore) SetPublished(_ context.Context, id int64, token string) (repository.Lead, error) {
	l, ok := s.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	l.Published = true
	l.Viewed = true
	l.PublicToken = &token
	s.leads[id] = l
	return l, nil
}

func (s *fakeStore) SetAdjudicated(_ context.Context, id int64) (repository.Lead, error) {
	l, ok := s.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	l.Adjudicated = true
	l.Viewed = true
	s.leads[id] = l
	return l, nil
}

func (s *fakeStore) SetConcluded(_ context.Context, id int64) (repository.Lead, error) {
	l, ok := s.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	l.Concluded = true
	l.Viewed = true
	s.leads[id] = l
	return l, nil
}

func (s *fakeStore) TokenExists(_ context.Context, token string) (bool, error) {
	for _, l := range s.leads {
		if l.PublicToken != nil && *l.PublicToken == token {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) ListAll(_ context.Context) ([]repository.LeadWithCount, error) {
	out := make([]repository.LeadWithCount, 0, len(s.leads))
	for _, l := range s.leads {
		out = append(out, repository.LeadWithCount{Lead: l, QuotesCount: len(s.quotes[l.ID])})
	}
	return out, nil
}

func (s *fakeStore) ListNew(_ context.Context) ([]repository.LeadWithCount, error) {
	out := make([]repository.LeadWithCount, 0)
	for _, l := range s.leads {
		if !l.Published {
			out = append(out, repository.LeadWithCount{Lead: l})
		}
	}
	return out, nil
}

func (s *fakeStore) ListQuoted(_ context.Context) ([]repository.QuotedLead, error) {
	out := make([]repository.QuotedLead, 0)
	for _, l := range s.leads {
		if l.Published && !l.Adjudicated && !l.Concluded {
			ql := repository.QuotedLead{Lead: l, Quotes: s.quotes[l.ID], QuotesCount: len(s.quotes[l.ID])}
			for _, q := range ql.Quotes {
				if !q.Viewed {
					ql.NewQuotes++
				}
			}
			out = append(out, ql)
		}
	}
	return out, nil
}

func (s *fakeStore) ListOrders(_ context.Context) ([]repository.Order, error) {
	out := make([]repository.Order, 0)
	for _, l := range s.leads {
		if l.Adjudicated {
			order := repository.Order{Lead: l}
			for _, q := range s.quotes[l.ID] {
				if q.Selected {
					order.Selected = q
				}
			}
			out = append(out, order)
		}
	}
	return out, nil
}

func (s *fakeStore) QuotesForLead(_ context.Context, leadID int64) ([]repository.QuoteSummary, error) {
	return s.quotes[leadID], nil
}

type urlConfig struct{}

func (urlConfig) GetFrontendBaseURL() string { return "https://app.example.com" }

func newTestService(store *fakeStore) *Service {
	log := logger.New("development")
	return New(store, validator.New(), urlConfig{}, platformevents.NewInMemoryBus(log), log)
}

func draftLead(id int64) repository.Lead {
	return repository.Lead{
		ID:             id,
		PublicID:       "LEADABCXYZ1700000000",
		ClientName:     "Maria Lopez",
		ClientEmail:    "maria@example.com",
		ClientPhone:    "5512345678",
		CollectionDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
	}
}

func validUpdate() transport.UpdateLeadRequest {
	return transport.UpdateLeadRequest{
		ClientName:     "Maria Lopez",
		ClientEmail:    "maria@example.com",
		ClientPhone:    "5512345678",
		OriginState:    "CDMX",
		OriginCity:     "Benito Juarez",
		OriginColonia:  "Del Valle",
		OriginHaulage:  30,
		DestState:      "Jalisco",
		DestCity:       "Guadalajara",
		DestColonia:    "Americana",
		DestHaulage:    30,
		Packing:        "completo",
		CollectionDate: "2026-09-10",
		EstimatedTime:  "2 dias",
		Modality:       "completa",
		Inventory:      "3 camas, 1 refrigerador",
	}
}

func TestUpdateReportsAllFieldErrors(t *testing.T) {
	svc := newTestService(newFakeStore(draftLead(1)))

	req := validUpdate()
	req.ClientName = ""
	req.ClientEmail = "not-an-email"
	req.ClientPhone = "12345"

	_, err := svc.Update(context.Background(), 1, req)
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr, ok := err.(*apperr.Error)
	if !ok || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields, ok := appErr.Details.(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", appErr.Details)
	}
	for _, field := range []string{"nombre_cliente", "email_cliente", "telefono_cliente"} {
		if _, present := fields[field]; !present {
			t.Errorf("missing field error for %s in %v", field, fields)
		}
	}
}

func TestUpdateAcceptsSparseWebhookLead(t *testing.T) {
	store := newFakeStore(draftLead(1))
	svc := newTestService(store)

	resp, err := svc.Update(context.Background(), 1, transport.UpdateLeadRequest{
		ClientName:  "Ana Flores",
		ClientEmail: "ana@example.com",
		ClientPhone: "5598765432",
	})
	if err != nil {
		t.Fatalf("update with only contact fields: %v", err)
	}
	if resp.ClientName != "Ana Flores" {
		t.Errorf("client name = %q, want Ana Flores", resp.ClientName)
	}
	if resp.CollectionDate != "2026-09-10" {
		t.Errorf("collection date = %q, want the stored 2026-09-10", resp.CollectionDate)
	}
}

func TestUpdateMarksLeadViewed(t *testing.T) {
	store := newFakeStore(draftLead(1))
	svc := newTestService(store)

	resp, err := svc.Update(context.Background(), 1, validUpdate())
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.IsNew {
		t.Error("updated lead should no longer be new")
	}
}

func TestPublishGeneratesTokenAndURL(t *testing.T) {
	store := newFakeStore(draftLead(1))
	svc := newTestService(store)

	resp, err := svc.Publish(context.Background(), 1)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !resp.Published {
		t.Error("lead should be published")
	}
	if resp.Status != "published" {
		t.Errorf("status = %q, want published", resp.Status)
	}
	if resp.PublicURL == nil {
		t.Fatal("public URL should be set after publish")
	}
	prefix := "https://app.example.com/leads/LEADABCXYZ1700000000/"
	if !strings.HasPrefix(*resp.PublicURL, prefix) {
		t.Errorf("public URL %q missing prefix %q", *resp.PublicURL, prefix)
	}
}

func TestPublishIsIdempotent(t *testing.T) {
	store := newFakeStore(draftLead(1))
	svc := newTestService(store)

	first, err := svc.Publish(context.Background(), 1)
	if err != nil {
		t.Fatalf("first publish: %v", err)
	}
	second, err := svc.Publish(context.Background(), 1)
	if err != nil {
		t.Fatalf("second publish: %v", err)
	}
	if *first.PublicURL != *second.PublicURL {
		t.Errorf("republishing changed the share link: %q then %q", *first.PublicURL, *second.PublicURL)
	}
}

func TestAdjudicateRequiresPublished(t *testing.T) {
	svc := newTestService(newFakeStore(draftLead(1)))

	_, err := svc.Adjudicate(context.Background(), 1)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for unpublished lead, got %v", err)
	}
}

func TestConcludeRequiresAdjudicated(t *testing.T) {
	lead := draftLead(1)
	lead.Published = true
	svc := newTestService(newFakeStore(lead))

	_, err := svc.Conclude(context.Background(), 1)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for unadjudicated lead, got %v", err)
	}
}

func TestLifecycleHappyPath(t *testing.T) {
	svc := newTestService(newFakeStore(draftLead(1)))
	ctx := context.Background()

	if _, err := svc.Publish(ctx, 1); err != nil {
		t.Fatalf("publish: %v", err)
	}
	adj, err := svc.Adjudicate(ctx, 1)
	if err != nil {
		t.Fatalf("adjudicate: %v", err)
	}
	if adj.Status != "adjudicated" {
		t.Errorf("status after adjudicate = %q", adj.Status)
	}
	done, err := svc.Conclude(ctx, 1)
	if err != nil {
		t.Fatalf("conclude: %v", err)
	}
	if done.Status != "concluded" {
		t.Errorf("status after conclude = %q", done.Status)
	}
}

func TestGetUnknownLeadIsNotFound(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.Get(context.Background(), 42)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
