package service

import (
	"context"
	"testing"

	"mudancer_backend/internal/customer/transport"
	leadsrepo "mudancer_backend/internal/leads/repository"
	quotesrepo "mudancer_backend/internal/quotes/repository"
	quotestransport "mudancer_backend/internal/quotes/transport"
	"mudancer_backend/platform/apperr"
	"mudancer_backend/platform/logger"
	"mudancer_backend/platform/validator"
)

type fakeLeadStore struct {
	byPhone map[string]leadsrepo.Lead
	quotes  map[int64][]leadsrepo.QuoteSummary
}

func (s *fakeLeadStore) GetByPhone(_ context.Context, phone string) (leadsrepo.Lead, error) {
	lead, ok := s.byPhone[phone]
	if !ok {
		return leadsrepo.Lead{}, leadsrepo.ErrNotFound
	}
	return lead, nil
}

func (s *fakeLeadStore) QuotesForLead(_ context.Context, leadID int64) ([]leadsrepo.QuoteSummary, error) {
	return s.quotes[leadID], nil
}

type fakeQuoteReader struct {
	quotes map[int64]quotesrepo.Quote
}

func (r *fakeQuoteReader) GetByID(_ context.Context, id int64) (quotesrepo.Quote, error) {
	q, ok := r.quotes[id]
	if !ok {
		return quotesrepo.Quote{}, quotesrepo.ErrNotFound
	}
	return q, nil
}

func (r *fakeQuoteReader) MarkClientInterest(_ context.Context, id int64) (quotesrepo.Quote, error) {
	q, ok := r.quotes[id]
	if !ok {
		return quotesrepo.Quote{}, quotesrepo.ErrNotFound
	}
	q.ClientInterested = true
	r.quotes[id] = q
	return q, nil
}

type fakeAssigner struct {
	assigned   []int64
	assignedBy []string
}

func (a *fakeAssigner) Assign(_ context.Context, quoteID int64, assignedBy string) (quotestransport.AssignmentResponse, error) {
	a.assigned = append(a.assigned, quoteID)
	a.assignedBy = append(a.assignedBy, assignedBy)
	return quotestransport.AssignmentResponse{}, nil
}

func newTestService() (*Service, *fakeLeadStore, *fakeQuoteReader, *fakeAssigner) {
	leads := &fakeLeadStore{
		byPhone: make(map[string]leadsrepo.Lead),
		quotes:  make(map[int64][]leadsrepo.QuoteSummary),
	}
	quotes := &fakeQuoteReader{quotes: make(map[int64]quotesrepo.Quote)}
	assigner := &fakeAssigner{}
	svc := New(leads, quotes, assigner, validator.New(), logger.New("development"))
	return svc, leads, quotes, assigner
}

func TestLookupValidatesPhoneShape(t *testing.T) {
	svc, _, _, _ := newTestService()

	for _, phone := range []string{"", "123", "55123456789", "55-1234-567"} {
		if _, err := svc.Lookup(context.Background(), phone); !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("Lookup(%q): expected validation error, got %v", phone, err)
		}
	}
}

func TestLookupUnknownPhoneIsGenericNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Lookup(context.Background(), "5512345678")
	appErr, ok := err.(*apperr.Error)
	if !ok || appErr.Kind != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if appErr.Message != noQuotesMessage {
		t.Errorf("message %q should not reveal whether the phone exists", appErr.Message)
	}
}

func TestLookupReturnsLeadAndQuotes(t *testing.T) {
	svc, leads, _, _ := newTestService()
	leads.byPhone["5512345678"] = leadsrepo.Lead{ID: 1, PublicID: "LEADX", ClientPhone: "5512345678", Published: true}
	leads.quotes[1] = []leadsrepo.QuoteSummary{
		{ID: 10, LeadID: 1, ProviderID: 3, ProviderName: "Mudanzas Norte", Total: 900},
	}

	resp, err := svc.Lookup(context.Background(), "5512345678")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(resp.Quotes) != 1 || resp.Quotes[0].ProviderName != "Mudanzas Norte" {
		t.Fatalf("quotes = %+v, want the provider-joined quote", resp.Quotes)
	}
}

func TestSelectQuoteDelegatesToAssigner(t *testing.T) {
	svc, leads, quotes, assigner := newTestService()
	leads.byPhone["5512345678"] = leadsrepo.Lead{ID: 1, ClientPhone: "5512345678", Published: true}
	quotes.quotes[10] = quotesrepo.Quote{ID: 10, LeadID: 1, ProviderID: 3}

	_, err := svc.SelectQuote(context.Background(), transport.SelectQuoteRequest{
		Phone: "5512345678", QuoteID: 10,
	})
	if err != nil {
		t.Fatalf("select quote: %v", err)
	}
	if len(assigner.assigned) != 1 || assigner.assigned[0] != 10 {
		t.Fatalf("assigned = %v, want [10]", assigner.assigned)
	}
	if assigner.assignedBy[0] != "customer" {
		t.Errorf("assignedBy = %q, want customer", assigner.assignedBy[0])
	}
}

func TestSelectQuoteRejectsForeignQuote(t *testing.T) {
	svc, leads, quotes, assigner := newTestService()
	leads.byPhone["5512345678"] = leadsrepo.Lead{ID: 1, ClientPhone: "5512345678"}
	quotes.quotes[10] = quotesrepo.Quote{ID: 10, LeadID: 2, ProviderID: 3}

	_, err := svc.SelectQuote(context.Background(), transport.SelectQuoteRequest{
		Phone: "5512345678", QuoteID: 10,
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for a quote on another lead, got %v", err)
	}
	if len(assigner.assigned) != 0 {
		t.Error("assignment must not run for a foreign quote")
	}
}

func TestMarkInterestSetsFlagWithoutAssigning(t *testing.T) {
	svc, leads, quotes, assigner := newTestService()
	leads.byPhone["5512345678"] = leadsrepo.Lead{ID: 1, ClientPhone: "5512345678", Published: true}
	quotes.quotes[10] = quotesrepo.Quote{ID: 10, LeadID: 1, ProviderID: 3}

	err := svc.MarkInterest(context.Background(), transport.SelectQuoteRequest{
		Phone: "5512345678", QuoteID: 10,
	})
	if err != nil {
		t.Fatalf("mark interest: %v", err)
	}
	if !quotes.quotes[10].ClientInterested {
		t.Error("interest flag should be set")
	}
	if len(assigner.assigned) != 0 {
		t.Error("marking interest must not assign the quote")
	}
}
