// Package service maps WPForms submissions onto draft leads.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"mudancer_backend/internal/events"
	leadsrepo "mudancer_backend/internal/leads/repository"
	"mudancer_backend/internal/webhook/transport"
	"mudancer_backend/platform/apperr"
	"mudancer_backend/platform/logger"
	"mudancer_backend/platform/phone"
)

const (
	fallbackPhone  = "0000000000"
	defaultHaulage = 30
	publicIDChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// LeadCreator is the slice of the lead store the intake needs.
type LeadCreator interface {
	Create(ctx context.Context, params leadsrepo.CreateLeadParams) (leadsrepo.Lead, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
}

type Service struct {
	store  LeadCreator
	bus    events.Bus
	logger *logger.Logger
	now    func() time.Time
}

func New(store LeadCreator, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, bus: bus, logger: log, now: time.Now}
}

// Receive creates a draft lead from a WPForms submission. The phone unique
// index is the authoritative duplicate guard; the pre-check just returns a
// friendlier error for the common case.
func (s *Service) Receive(ctx context.Context, req transport.WPFormsRequest) (transport.WPFormsResponse, error) {
	normalized := phone.Normalize(req.ClientPhone)
	if normalized == "" {
		normalized = fallbackPhone
	}

	if normalized != fallbackPhone {
		exists, err := s.store.PhoneExists(ctx, normalized)
		if err != nil {
			s.logger.DatabaseError("webhook phone check", err)
			return transport.WPFormsResponse{}, apperr.Wrap(apperr.KindInternal, "something went wrong", err)
		}
		if exists {
			return transport.WPFormsResponse{}, apperr.Conflict("a lead with this phone number already exists")
		}
	}

	publicID, err := GeneratePublicID(s.now())
	if err != nil {
		return transport.WPFormsResponse{}, apperr.Wrap(apperr.KindInternal, "could not generate lead id", err)
	}

	lead, err := s.store.Create(ctx, leadsrepo.CreateLeadParams{
		PublicID:       publicID,
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		ClientPhone:    normalized,
		OriginState:    req.OriginState,
		OriginCity:     req.OriginCity,
		OriginColonia:  "",
		OriginFloor:    nullIfEmpty(req.OriginFloor),
		OriginElevator: false,
		OriginHaulage:  defaultHaulage,
		DestState:      req.DestState,
		DestCity:       req.DestCity,
		DestColonia:    "",
		DestFloor:      nullIfEmpty(req.DestFloor),
		DestElevator:   false,
		DestHaulage:    defaultHaulage,
		Packing:        req.Packing,
		CollectionDate: ParseCollectionDate(string(req.ClientIdealDate), s.now()),
		EstimatedTime:  "",
		Modality:       req.ServiceModality,
		Insurance:      req.InsuranceValue,
		Inventory:      req.Inventory,
		DelicateItems:  delicateItems(req.Items, req.OtherItem),
		Observations:   observations(req),
	})
	if err != nil {
		if errors.Is(err, leadsrepo.ErrDuplicatePhone) {
			return transport.WPFormsResponse{}, apperr.Conflict("a lead with this phone number already exists")
		}
		s.logger.DatabaseError("webhook create lead", err)
		return transport.WPFormsResponse{}, apperr.Wrap(apperr.KindInternal, "something went wrong", err)
	}

	s.bus.Publish(ctx, events.LeadReceived{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		PublicID:  lead.PublicID,
		Phone:     lead.ClientPhone,
	})
	return transport.WPFormsResponse{Success: true, LeadID: lead.PublicID}, nil
}

// GeneratePublicID builds the human-shareable lead id: a LEAD prefix, six
// random uppercase characters, and the unix timestamp.
func GeneratePublicID(now time.Time) (string, error) {
	var sb strings.Builder
	sb.WriteString("LEAD")
	for i := 0; i < 6; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(publicIDChars))))
		if err != nil {
			return "", err
		}
		sb.WriteByte(publicIDChars[n.Int64()])
	}
	sb.WriteString(fmt.Sprintf("%d", now.Unix()))
	return sb.String(), nil
}

// delicateItems merges the checkbox list and the free-text extra into one
// field, " || " separated as the admin UI expects.
func delicateItems(items, other string) *string {
	items = strings.TrimSpace(items)
	other = strings.TrimSpace(other)
	switch {
	case items != "" && other != "":
		joined := items + " || " + other
		return &joined
	case items != "":
		return &items
	case other != "":
		return &other
	default:
		return nil
	}
}

// observations assembles the form leftovers that have no column of their own.
func observations(req transport.WPFormsRequest) *string {
	parts := make([]string, 0, 3)
	if strings.TrimSpace(req.OriginHaulage) != "" {
		parts = append(parts, "Acarreo origen: "+req.OriginHaulage)
	}
	if strings.TrimSpace(req.SafeMode) != "" {
		parts = append(parts, "Seguro modo: "+req.SafeMode)
	}
	if strings.TrimSpace(req.Terms) != "" {
		parts = append(parts, req.Terms)
	}
	if len(parts) == 0 {
		return nil
	}
	joined := strings.Join(parts, "\n")
	return &joined
}

func nullIfEmpty(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
