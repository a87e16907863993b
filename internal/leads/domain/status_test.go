package domain

import "testing"

func TestDerivePriorityOrder(t *testing.T) {
	cases := []struct {
		name  string
		flags Flags
		want  Status
	}{
		{"all false", Flags{}, StatusDraft},
		{"published only", Flags{Published: true}, StatusPublished},
		{"adjudicated wins over published", Flags{Published: true, Adjudicated: true}, StatusAdjudicated},
		{"concluded wins over everything", Flags{Published: true, Adjudicated: true, Concluded: true}, StatusConcluded},
		{"concluded without earlier flags still concluded", Flags{Concluded: true}, StatusConcluded},
		{"adjudicated without published still adjudicated", Flags{Adjudicated: true}, StatusAdjudicated},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Derive(tc.flags); got != tc.want {
				t.Fatalf("Derive(%+v) = %q, want %q", tc.flags, got, tc.want)
			}
		})
	}
}

func TestTransitionGuards(t *testing.T) {
	if err := (Flags{}).CanAdjudicate(); err != ErrNotPublished {
		t.Fatalf("expected ErrNotPublished for draft lead, got %v", err)
	}
	if err := (Flags{Published: true}).CanAdjudicate(); err != nil {
		t.Fatalf("expected published lead to be adjudicable, got %v", err)
	}
	if err := (Flags{Published: true}).CanConclude(); err != ErrNotAdjudicated {
		t.Fatalf("expected ErrNotAdjudicated for quoted lead, got %v", err)
	}
	if err := (Flags{Published: true, Adjudicated: true}).CanConclude(); err != nil {
		t.Fatalf("expected adjudicated lead to be concludable, got %v", err)
	}
}
