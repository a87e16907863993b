package service

import "math"

// Payment split percentages shown to customers: a deposit to reserve the
// date, an advance on pickup, and the balance on delivery.
const (
	depositShare = 0.20
	advanceShare = 0.40
	finalShare   = 0.40
)

// SplitTotal derives the three payment amounts from the total. Each share is
// rounded to 2 decimals independently, so the sum may drift a cent from the
// total. That matches what customers have always been shown.
func SplitTotal(total float64) (deposit, advance, final float64) {
	return round2(total * depositShare), round2(total * advanceShare), round2(total * finalShare)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
