// Package portfolio owns the current holdings snapshot and orchestrates the
// holdings backend and quote gateway, feeding every result through the
// derivation engine. It is the only stateful component; the snapshot is
// swapped atomically and readers always get a full, consistent view.
package portfolio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"folio-backend/internal/derive"
	"folio-backend/internal/domain"

	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds upstream calls. The dashboard this replaces had no
// timeout at all; a hanging gateway would pin the busy flag forever.
const DefaultTimeout = 15 * time.Second

// Service is the view-state controller.
type Service struct {
	Repo      domain.HoldingsRepository
	Quotes    domain.QuoteGateway
	AccountID int64
	Timeout   time.Duration

	mu          sync.Mutex
	snapshot    []domain.Holding
	busy        bool
	lastUpdated *time.Time
	lastError   string
}

// NewService wires the controller for one account. accountID is explicit on
// construction and threaded into every backend call.
func NewService(repo domain.HoldingsRepository, quotes domain.QuoteGateway, accountID int64, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{Repo: repo, Quotes: quotes, AccountID: accountID, Timeout: timeout}
}

// View is what the dashboard observes: the snapshot plus the folds over it
// and the loading/error/lastUpdated flags. Summary and sectors are recomputed
// on every read, never stored.
type View struct {
	Holdings    []domain.Holding        `json:"holdings"`
	Summary     domain.PortfolioSummary `json:"summary"`
	Sectors     []domain.SectorSummary  `json:"sectors"`
	IsLoading   bool                    `json:"isLoading"`
	LastUpdated *time.Time              `json:"lastUpdated,omitempty"`
	Error       string                  `json:"error,omitempty"`
}

// View returns the current consistent view.
func (s *Service) View() View {
	s.mu.Lock()
	holdings := append([]domain.Holding(nil), s.snapshot...)
	v := View{
		Holdings:    holdings,
		IsLoading:   s.busy,
		LastUpdated: s.lastUpdated,
		Error:       s.lastError,
	}
	s.mu.Unlock()

	v.Summary = derive.Summarize(holdings)
	v.Sectors = derive.AggregateBySector(holdings)
	return v
}

// Snapshot returns a copy of the current holdings.
func (s *Service) Snapshot() []domain.Holding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Holding(nil), s.snapshot...)
}

// Summary folds the current snapshot into portfolio totals.
func (s *Service) Summary() domain.PortfolioSummary {
	return derive.Summarize(s.Snapshot())
}

// Sectors folds the current snapshot into sector summaries.
func (s *Service) Sectors() []domain.SectorSummary {
	return derive.AggregateBySector(s.Snapshot())
}

// begin claims the single refresh slot. A second refresh triggered while one
// is pending gets domain.ErrRefreshInFlight instead of corrupting state.
func (s *Service) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return domain.ErrRefreshInFlight
	}
	s.busy = true
	s.lastError = ""
	return nil
}

// end releases the refresh slot on every exit path and records the outcome.
func (s *Service) end(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		s.lastError = err.Error()
	}
}

// install swaps in a new snapshot atomically. The old one is discarded whole;
// readers never see a half-updated set.
func (s *Service) install(holdings []domain.Holding, stamp bool) {
	if err := derive.CheckAllocation(holdings); err != nil {
		log.Warn().Err(err).Msg("allocation invariant violated")
	}
	if err := derive.CheckSectorPartition(holdings, derive.AggregateBySector(holdings)); err != nil {
		log.Warn().Err(err).Msg("sector partition invariant violated")
	}
	s.mu.Lock()
	s.snapshot = holdings
	if stamp {
		now := time.Now()
		s.lastUpdated = &now
	}
	s.mu.Unlock()
}

// Refresh reloads the holdings set from the backend and re-derives the whole
// view. An empty result is a valid empty portfolio, not an error. On failure
// the prior snapshot is kept unchanged.
func (s *Service) Refresh(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	var err error
	defer func() { s.end(err) }()

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	raw, listErr := s.Repo.List(ctx, s.AccountID)
	if listErr != nil {
		err = fmt.Errorf("refresh holdings: %w", listErr)
		log.Error().Err(listErr).Int64("account_id", s.AccountID).Msg("holdings refresh failed")
		return err
	}

	s.install(derive.ReplaceSnapshot(raw), true)
	return nil
}

// UpdateLivePrices fetches quotes for every symbol in the snapshot and merges
// them in. Symbols missing from a successful response keep their prior values
// (per-symbol miss); a failed fetch keeps the whole prior snapshot. An empty
// snapshot, or an empty quote map, is a no-op.
func (s *Service) UpdateLivePrices(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	var err error
	defer func() { s.end(err) }()

	holdings := s.Snapshot()
	if len(holdings) == 0 {
		return nil
	}
	symbols := make([]string, len(holdings))
	for i, h := range holdings {
		symbols[i] = h.Symbol
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	quotes, quoteErr := s.Quotes.BulkQuote(ctx, symbols)
	if quoteErr != nil {
		err = fmt.Errorf("update live prices: %w", quoteErr)
		log.Error().Err(quoteErr).Int("symbols", len(symbols)).Msg("bulk quote failed")
		return err
	}
	if len(quotes) == 0 {
		return nil
	}

	s.install(derive.MergeQuotes(holdings, quotes), true)
	return nil
}

// AddHolding creates the holding on the backend, then refreshes. No
// optimistic local mutation: a backend rejection leaves the displayed state
// stale but correct.
func (s *Service) AddHolding(ctx context.Context, in domain.HoldingInput) (domain.Holding, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	created, err := s.Repo.Create(ctx, s.AccountID, in)
	if err != nil {
		return domain.Holding{}, fmt.Errorf("add holding: %w", err)
	}
	if err := s.Refresh(ctx); err != nil {
		return created, err
	}
	return created, nil
}

// UpdateHolding updates the holding on the backend, then refreshes.
func (s *Service) UpdateHolding(ctx context.Context, id string, in domain.HoldingInput) (domain.Holding, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	updated, err := s.Repo.Update(ctx, id, in)
	if err != nil {
		return domain.Holding{}, fmt.Errorf("update holding: %w", err)
	}
	if err := s.Refresh(ctx); err != nil {
		return updated, err
	}
	return updated, nil
}

// DeleteHolding deletes the holding on the backend, then refreshes, which
// drops it from the snapshot and recomputes every aggregate.
func (s *Service) DeleteHolding(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete holding: %w", err)
	}
	return s.Refresh(ctx)
}

// RenameSector renames a sector label on the backend, then refreshes.
func (s *Service) RenameSector(ctx context.Context, oldName, newName string) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	if err := s.Repo.RenameSector(ctx, oldName, newName); err != nil {
		return fmt.Errorf("rename sector: %w", err)
	}
	return s.Refresh(ctx)
}

// ListSectors returns the backend's sector labels.
func (s *Service) ListSectors(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	return s.Repo.ListSectors(ctx)
}

// StocksBySector returns the backend's reduced holding list for one sector.
func (s *Service) StocksBySector(ctx context.Context, sector string) ([]domain.SectorStock, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	return s.Repo.StocksBySector(ctx, sector)
}
