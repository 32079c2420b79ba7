// Package derive is the derivation engine: pure functions that turn raw
// holdings and live quotes into a consistent view model (per-holding derived
// fields, portfolio totals, sector rollups). It is the single authority for
// Investment, PresentValue, GainLoss and PortfolioPercentage on every code
// path; callers never compute these fields themselves.
package derive

import (
	"folio-backend/internal/domain"
)

// Derive fills the three per-holding derived fields from purchase price,
// quantity and current price. Pure and total; inputs are validated at the
// HTTP boundary.
func Derive(h domain.Holding) domain.Holding {
	h.Investment = h.PurchasePrice * float64(h.Quantity)
	h.PresentValue = h.CurrentPrice * float64(h.Quantity)
	h.GainLoss = h.PresentValue - h.Investment
	return h
}

// Allocate overwrites PortfolioPercentage on every holding against the total
// present value of the set. Must run as the last step after anything that
// touches PresentValue; all percentages are 0 when the total is 0.
func Allocate(holdings []domain.Holding) []domain.Holding {
	if len(holdings) == 0 {
		return []domain.Holding{}
	}
	total := 0.0
	for _, h := range holdings {
		total += h.PresentValue
	}
	out := make([]domain.Holding, len(holdings))
	for i, h := range holdings {
		if total > 0 {
			h.PortfolioPercentage = h.PresentValue / total * 100
		} else {
			h.PortfolioPercentage = 0
		}
		out[i] = h
	}
	return out
}

// Summarize folds the holdings set into portfolio totals.
// TotalGainLossPercentage is 0 when nothing is invested.
func Summarize(holdings []domain.Holding) domain.PortfolioSummary {
	var s domain.PortfolioSummary
	for _, h := range holdings {
		s.TotalInvestment += h.Investment
		s.TotalPresentValue += h.PresentValue
		s.TotalGainLoss += h.GainLoss
	}
	if s.TotalInvestment > 0 {
		s.TotalGainLossPercentage = s.TotalGainLoss / s.TotalInvestment * 100
	}
	return s
}

// AggregateBySector groups holdings by their exact sector label in a single
// pass. Sectors appear in order of first occurrence; members keep input
// order. Labels are matched case-sensitively without trimming, mirroring the
// backend's rename path.
func AggregateBySector(holdings []domain.Holding) []domain.SectorSummary {
	summaries := []domain.SectorSummary{}
	index := map[string]int{}
	for _, h := range holdings {
		i, ok := index[h.Sector]
		if !ok {
			i = len(summaries)
			index[h.Sector] = i
			summaries = append(summaries, domain.SectorSummary{Sector: h.Sector})
		}
		summaries[i].TotalInvestment += h.Investment
		summaries[i].TotalPresentValue += h.PresentValue
		summaries[i].TotalGainLoss += h.GainLoss
		summaries[i].Holdings = append(summaries[i].Holdings, h)
	}
	return summaries
}

// MergeQuotes folds a bulk quote result into a holdings set and re-derives
// the whole view. A holding whose symbol is present gets the new current
// price; PERatio and LatestEarnings are only overwritten when the quote
// carries them, so a missing fundamental never blanks out a known one. A
// holding whose symbol is absent keeps all prior values. Idempotent for a
// fixed quote map.
func MergeQuotes(holdings []domain.Holding, quotes map[string]domain.Quote) []domain.Holding {
	out := make([]domain.Holding, len(holdings))
	for i, h := range holdings {
		if q, ok := quotes[h.Symbol]; ok {
			h.CurrentPrice = q.CurrentPrice
			if q.PERatio != nil {
				h.PERatio = q.PERatio
			}
			if q.LatestEarnings != nil {
				h.LatestEarnings = q.LatestEarnings
			}
		}
		out[i] = Derive(h)
	}
	return Allocate(out)
}

// ReplaceSnapshot is the canonical pipeline for repository-sourced holdings:
// re-derive every holding locally (the backend's own computed values are
// advisory), then allocate. An empty input is a valid empty portfolio.
func ReplaceSnapshot(raw []domain.Holding) []domain.Holding {
	out := make([]domain.Holding, len(raw))
	for i, h := range raw {
		out[i] = Derive(h)
	}
	return Allocate(out)
}
