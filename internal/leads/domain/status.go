// Package domain holds the lead lifecycle state machine. The four persisted
// booleans are really one ordinal state (draft -> published -> adjudicated ->
// concluded); the transition guards here are the only legal mutators, which
// prevents combinations like concluida=true with publicada=false.
package domain

import "errors"

// Status is the derived lifecycle status of a lead. It is never persisted;
// it is re-derived from the stored flags on every read.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusPublished   Status = "published"
	StatusAdjudicated Status = "adjudicated"
	StatusConcluded   Status = "concluded"
)

var (
	// ErrNotPublished rejects adjudication of a lead providers never saw.
	ErrNotPublished = errors.New("lead is not published")
	// ErrNotAdjudicated rejects concluding a lead with no awarded quote.
	ErrNotAdjudicated = errors.New("lead is not adjudicated")
)

// Flags is the persisted lifecycle flag triple. The viewed flag is
// deliberately absent: it never participates in status derivation.
type Flags struct {
	Published   bool
	Adjudicated bool
	Concluded   bool
}

// Derive maps the lifecycle flags to a status. Priority order matters: a more
// final flag wins regardless of the earlier ones.
func Derive(f Flags) Status {
	switch {
	case f.Concluded:
		return StatusConcluded
	case f.Adjudicated:
		return StatusAdjudicated
	case f.Published:
		return StatusPublished
	default:
		return StatusDraft
	}
}

// CanAdjudicate reports whether the adjudicated flag may be set.
func (f Flags) CanAdjudicate() error {
	if !f.Published {
		return ErrNotPublished
	}
	return nil
}

// CanConclude reports whether the concluded flag may be set.
func (f Flags) CanConclude() error {
	if !f.Adjudicated {
		return ErrNotAdjudicated
	}
	return nil
}
