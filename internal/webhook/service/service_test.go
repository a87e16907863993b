package service

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"testing"
	"time"

	leadsrepo "mudancer_backend/internal/leads/repository"
	"mudancer_backend/internal/webhook/transport"
	"mudancer_backend/platform/apperr"
	platformevents "mudancer_backend/platform/events"
	"mudancer_backend/platform/logger"
)

type fakeLeadStore struct {
	created []leadsrepo.CreateLeadParams
	phones  map[string]bool
	nextID  int64
}

func (s *fakeLeadStore) Create(_ context.Context, params leadsrepo.CreateLeadParams) (leadsrepo.Lead, error) {
	if params.ClientPhone != "0000000000" {
		if s.phones[params.ClientPhone] {
			return leadsrepo.Lead{}, leadsrepo.ErrDuplicatePhone
		}
		s.phones[params.ClientPhone] = true
	}
	s.created = append(s.created, params)
	s.nextID++
	return leadsrepo.Lead{
		ID:          s.nextID,
		PublicID:    params.PublicID,
		ClientPhone: params.ClientPhone,
	}, nil
}

func (s *fakeLeadStore) PhoneExists(_ context.Context, phone string) (bool, error) {
	return s.phones[phone], nil
}

func newTestService(store *fakeLeadStore) *Service {
	log := logger.New("development")
	if store.phones == nil {
		store.phones = make(map[string]bool)
	}
	return New(store, platformevents.NewInMemoryBus(log), log)
}

func TestParseCollectionDate(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	fallback := time.Date(2026, 8, 8, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"iso date", "2026-09-15", time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)},
		{"spanish long form", "15 de mayo de 2026", time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)},
		{"spanish short form", "3 enero 2027", time.Date(2027, 1, 3, 0, 0, 0, 0, time.UTC)},
		{"uppercase month", "10 SEPTIEMBRE 2026", time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)},
		{"slash format", "25/12/2026", time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)},
		{"empty defaults a week out", "", fallback},
		{"garbage defaults a week out", "whenever works", fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCollectionDate(tt.input, now)
			if !got.Equal(tt.want) {
				t.Fatalf("ParseCollectionDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestGeneratePublicIDFormat(t *testing.T) {
	now := time.Unix(1700000000, 0)
	id, err := GeneratePublicID(now)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	pattern := regexp.MustCompile(`^LEAD[A-Z0-9]{6}1700000000$`)
	if !pattern.MatchString(id) {
		t.Fatalf("id %q does not match %v", id, pattern)
	}
}

func TestReceiveNormalizesPhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain 10 digits", "5512345678", "5512345678"},
		{"formatted", "(55) 1234-5678", "5512345678"},
		{"country code keeps last 10", "+52 1 55 1234 5678", "5512345678"},
		{"empty falls back", "", "0000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeLeadStore{}
			svc := newTestService(store)

			_, err := svc.Receive(context.Background(), transport.WPFormsRequest{
				ClientName: "Test", ClientPhone: tt.input,
			})
			if err != nil {
				t.Fatalf("receive: %v", err)
			}
			if got := store.created[0].ClientPhone; got != tt.want {
				t.Fatalf("phone = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReceiveRejectsDuplicatePhone(t *testing.T) {
	store := &fakeLeadStore{phones: map[string]bool{"5512345678": true}}
	svc := newTestService(store)

	_, err := svc.Receive(context.Background(), transport.WPFormsRequest{
		ClientName: "Test", ClientPhone: "5512345678",
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestReceiveAllowsRepeatedPhonelessSubmissions(t *testing.T) {
	store := &fakeLeadStore{}
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.Receive(ctx, transport.WPFormsRequest{ClientName: "Primero"}); err != nil {
		t.Fatalf("first receive: %v", err)
	}
	if _, err := svc.Receive(ctx, transport.WPFormsRequest{ClientName: "Segundo"}); err != nil {
		t.Fatalf("second receive: %v", err)
	}
	if len(store.created) != 2 {
		t.Fatalf("created %d leads, want 2", len(store.created))
	}
	for _, params := range store.created {
		if params.ClientPhone != "0000000000" {
			t.Errorf("phone = %q, want the fallback", params.ClientPhone)
		}
	}
}

func TestReceiveMapsFields(t *testing.T) {
	store := &fakeLeadStore{}
	svc := newTestService(store)

	insurance := 15000.0
	resp, err := svc.Receive(context.Background(), transport.WPFormsRequest{
		ClientName:      "Maria Lopez",
		ClientEmail:     "maria@example.com",
		ClientPhone:     "5512345678",
		ClientIdealDate: "2026-09-15",
		OriginState:     "CDMX",
		OriginCity:      "Coyoacan",
		OriginFloor:     " 2 ",
		OriginHaulage:   "50 metros",
		DestState:       "Jalisco",
		DestCity:        "Guadalajara",
		Inventory:       "3 camas",
		Packing:         "completo",
		Items:           "piano",
		OtherItem:       "pecera grande",
		ServiceModality: "completa",
		SafeMode:        "con seguro",
		InsuranceValue:  &insurance,
		Terms:           "acepto terminos",
	})
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if !resp.Success || !strings.HasPrefix(resp.LeadID, "LEAD") {
		t.Fatalf("response = %+v", resp)
	}

	created := store.created[0]
	if created.OriginHaulage != 30 || created.DestHaulage != 30 {
		t.Errorf("haulage defaults = (%d, %d), want (30, 30)", created.OriginHaulage, created.DestHaulage)
	}
	if created.OriginFloor == nil || *created.OriginFloor != "2" {
		t.Errorf("origin floor = %v, want trimmed \"2\"", created.OriginFloor)
	}
	if created.DestFloor != nil {
		t.Errorf("dest floor = %v, want nil", created.DestFloor)
	}
	if created.DelicateItems == nil || *created.DelicateItems != "piano || pecera grande" {
		t.Errorf("delicate items = %v", created.DelicateItems)
	}
	wantObs := "Acarreo origen: 50 metros\nSeguro modo: con seguro\nacepto terminos"
	if created.Observations == nil || *created.Observations != wantObs {
		t.Errorf("observations = %v, want %q", created.Observations, wantObs)
	}
	if created.Insurance == nil || *created.Insurance != 15000 {
		t.Errorf("insurance = %v, want 15000", created.Insurance)
	}
}

func TestFlexibleStringAcceptsBothShapes(t *testing.T) {
	var req transport.WPFormsRequest
	payload := `{"client_ideal_date": {"value": "2026-09-15"}}`
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		t.Fatalf("unmarshal wrapped: %v", err)
	}
	if string(req.ClientIdealDate) != "2026-09-15" {
		t.Errorf("wrapped value = %q", req.ClientIdealDate)
	}

	payload = `{"client_ideal_date": "2026-09-15"}`
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		t.Fatalf("unmarshal plain: %v", err)
	}
	if string(req.ClientIdealDate) != "2026-09-15" {
		t.Errorf("plain value = %q", req.ClientIdealDate)
	}
}
