package derive

import (
	"fmt"
	"math"

	"folio-backend/internal/domain"
)

// Tolerance is the float comparison bound for the engine invariants.
const Tolerance = 1e-6

// closeTo compares with an absolute bound for small magnitudes and a relative
// one for large, since summation order differs between the sector fold and
// the portfolio fold.
func closeTo(a, b float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= Tolerance*scale
}

// CheckAllocation verifies that portfolio percentages sum to 100 when the set
// has positive present value, and to 0 otherwise.
func CheckAllocation(holdings []domain.Holding) error {
	if len(holdings) == 0 {
		return nil
	}
	total, pct := 0.0, 0.0
	for _, h := range holdings {
		total += h.PresentValue
		pct += h.PortfolioPercentage
	}
	want := 0.0
	if total > 0 {
		want = 100
	}
	if math.Abs(pct-want) > Tolerance {
		return fmt.Errorf("portfolio percentages sum to %v, want %v", pct, want)
	}
	return nil
}

// CheckSectorPartition verifies that the sector fold is a partition: summing
// the sector totals reproduces the portfolio totals.
func CheckSectorPartition(holdings []domain.Holding, sectors []domain.SectorSummary) error {
	want := Summarize(holdings)
	var inv, pv, gl float64
	members := 0
	for _, s := range sectors {
		inv += s.TotalInvestment
		pv += s.TotalPresentValue
		gl += s.TotalGainLoss
		members += len(s.Holdings)
	}
	if members != len(holdings) {
		return fmt.Errorf("sector fold covers %d holdings, want %d", members, len(holdings))
	}
	if !closeTo(inv, want.TotalInvestment) || !closeTo(pv, want.TotalPresentValue) || !closeTo(gl, want.TotalGainLoss) {
		return fmt.Errorf("sector totals (%v, %v, %v) diverge from portfolio totals (%v, %v, %v)",
			inv, pv, gl, want.TotalInvestment, want.TotalPresentValue, want.TotalGainLoss)
	}
	return nil
}
