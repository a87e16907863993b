package service

import "testing"

func TestSplitTotal(t *testing.T) {
	tests := []struct {
		name                    string
		total                   float64
		deposit, advance, final float64
	}{
		{"round thousand", 1000, 200, 400, 400},
		{"zero", 0, 0, 0, 0},
		{"cents round independently", 999.99, 200, 400, 400},
		{"small total", 10.01, 2, 4, 4},
		{"uneven total", 1234.56, 246.91, 493.82, 493.82},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deposit, advance, final := SplitTotal(tt.total)
			if deposit != tt.deposit || advance != tt.advance || final != tt.final {
				t.Fatalf("SplitTotal(%v) = (%v, %v, %v), want (%v, %v, %v)",
					tt.total, deposit, advance, final, tt.deposit, tt.advance, tt.final)
			}
		})
	}
}
