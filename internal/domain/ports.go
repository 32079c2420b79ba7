package domain

import "context"

// HoldingsRepository is the external backend that owns holding persistence.
// List returns holdings with live backend-computed fields; the engine still
// re-derives them locally (see internal/derive).
type HoldingsRepository interface {
	List(ctx context.Context, accountID int64) ([]Holding, error)
	Create(ctx context.Context, accountID int64, in HoldingInput) (Holding, error)
	Update(ctx context.Context, id string, in HoldingInput) (Holding, error)
	Delete(ctx context.Context, id string) error
	ListSectors(ctx context.Context) ([]string, error)
	StocksBySector(ctx context.Context, sector string) ([]SectorStock, error)
	RenameSector(ctx context.Context, oldName, newName string) error
}

// QuoteGateway returns live market data for a set of symbols. A symbol absent
// from a successful result is a per-symbol miss, not an error.
type QuoteGateway interface {
	BulkQuote(ctx context.Context, symbols []string) (map[string]Quote, error)
}
