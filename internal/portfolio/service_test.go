package portfolio

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"folio-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu       sync.Mutex
	holdings []domain.Holding
	listErr  error
	failNext error
	listCh   chan struct{} // when set, List blocks until a value is sent
}

func (f *fakeRepo) List(ctx context.Context, accountID int64) ([]domain.Holding, error) {
	if f.listCh != nil {
		select {
		case <-f.listCh:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Holding(nil), f.holdings...), nil
}

func (f *fakeRepo) Create(ctx context.Context, accountID int64, in domain.HoldingInput) (domain.Holding, error) {
	if f.failNext != nil {
		return domain.Holding{}, f.failNext
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	h := domain.Holding{
		ID:            "h-new",
		Symbol:        in.Symbol,
		Exchange:      in.Exchange,
		Name:          in.Name,
		Sector:        in.Sector,
		PurchasePrice: in.Price,
		Quantity:      in.Quantity,
		CurrentPrice:  in.Price,
	}
	f.holdings = append(f.holdings, h)
	return h, nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, in domain.HoldingInput) (domain.Holding, error) {
	if f.failNext != nil {
		return domain.Holding{}, f.failNext
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, h := range f.holdings {
		if h.ID == id {
			f.holdings[i].Quantity = in.Quantity
			f.holdings[i].PurchasePrice = in.Price
			return f.holdings[i], nil
		}
	}
	return domain.Holding{}, domain.ErrHoldingNotFound
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if f.failNext != nil {
		return f.failNext
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, h := range f.holdings {
		if h.ID == id {
			f.holdings = append(f.holdings[:i], f.holdings[i+1:]...)
			return nil
		}
	}
	return domain.ErrHoldingNotFound
}

func (f *fakeRepo) ListSectors(ctx context.Context) ([]string, error) {
	return []string{"Financials", "Technology"}, nil
}

func (f *fakeRepo) StocksBySector(ctx context.Context, sector string) ([]domain.SectorStock, error) {
	return nil, nil
}

func (f *fakeRepo) RenameSector(ctx context.Context, oldName, newName string) error {
	if f.failNext != nil {
		return f.failNext
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, h := range f.holdings {
		if h.Sector == oldName {
			f.holdings[i].Sector = newName
		}
	}
	return nil
}

type fakeGateway struct {
	quotes map[string]domain.Quote
	err    error
	calls  int
}

func (f *fakeGateway) BulkQuote(ctx context.Context, symbols []string) (map[string]domain.Quote, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]domain.Quote{}
	for _, s := range symbols {
		if q, ok := f.quotes[s]; ok {
			out[s] = q
		}
	}
	return out, nil
}

func seedRepo() *fakeRepo {
	return &fakeRepo{holdings: []domain.Holding{
		{ID: "h1", Symbol: "HDFCBANK", Sector: "Financials", PurchasePrice: 2450, Quantity: 10, CurrentPrice: 2450},
		{ID: "h2", Symbol: "SBIN", Sector: "Financials", PurchasePrice: 700, Quantity: 10, CurrentPrice: 700},
	}}
}

func newTestService(repo *fakeRepo, gw *fakeGateway) *Service {
	return NewService(repo, gw, 1, time.Second)
}

func TestRefresh_InstallsDerivedSnapshot(t *testing.T) {
	svc := newTestService(seedRepo(), &fakeGateway{})
	require.NoError(t, svc.Refresh(context.Background()))

	v := svc.View()
	require.Len(t, v.Holdings, 2)
	assert.Equal(t, 24500.0, v.Holdings[0].Investment)
	assert.InDelta(t, 100.0, v.Holdings[0].PortfolioPercentage+v.Holdings[1].PortfolioPercentage, 1e-6)
	assert.NotNil(t, v.LastUpdated)
	assert.Empty(t, v.Error)
	assert.False(t, v.IsLoading)
}

func TestRefresh_EmptyBackendIsValid(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeGateway{})
	require.NoError(t, svc.Refresh(context.Background()))

	v := svc.View()
	assert.Empty(t, v.Holdings)
	assert.Zero(t, v.Summary.TotalInvestment)
	assert.Empty(t, v.Sectors)
}

func TestRefresh_FailureKeepsPriorSnapshot(t *testing.T) {
	repo := seedRepo()
	svc := newTestService(repo, &fakeGateway{})
	require.NoError(t, svc.Refresh(context.Background()))
	before := svc.View()

	repo.mu.Lock()
	repo.listErr = errors.New("backend down")
	repo.mu.Unlock()

	err := svc.Refresh(context.Background())
	require.Error(t, err)

	after := svc.View()
	assert.Equal(t, before.Holdings, after.Holdings)
	assert.Equal(t, before.LastUpdated, after.LastUpdated)
	assert.Contains(t, after.Error, "backend down")
	assert.False(t, after.IsLoading)
}

func TestRefresh_SecondTriggerWhilePendingIsRejected(t *testing.T) {
	repo := seedRepo()
	repo.listCh = make(chan struct{})
	svc := newTestService(repo, &fakeGateway{})

	done := make(chan error, 1)
	go func() { done <- svc.Refresh(context.Background()) }()

	// Wait for the first refresh to claim the busy slot.
	require.Eventually(t, func() bool { return svc.View().IsLoading }, time.Second, time.Millisecond)

	err := svc.Refresh(context.Background())
	assert.ErrorIs(t, err, domain.ErrRefreshInFlight)

	repo.listCh <- struct{}{}
	require.NoError(t, <-done)
	assert.False(t, svc.View().IsLoading)
}

func TestUpdateLivePrices_MergesAndAllocates(t *testing.T) {
	gw := &fakeGateway{quotes: map[string]domain.Quote{
		"HDFCBANK": {Symbol: "HDFCBANK", CurrentPrice: 2650},
		"SBIN":     {Symbol: "SBIN", CurrentPrice: 750},
	}}
	svc := newTestService(seedRepo(), gw)
	require.NoError(t, svc.Refresh(context.Background()))
	require.NoError(t, svc.UpdateLivePrices(context.Background()))

	v := svc.View()
	assert.Equal(t, 2650.0, v.Holdings[0].CurrentPrice)
	assert.Equal(t, 26500.0, v.Holdings[0].PresentValue)
	assert.Equal(t, 34000.0, v.Summary.TotalPresentValue)
	assert.Equal(t, 2500.0, v.Summary.TotalGainLoss)
}

func TestUpdateLivePrices_EmptySnapshotIsNoop(t *testing.T) {
	gw := &fakeGateway{}
	svc := newTestService(&fakeRepo{}, gw)
	require.NoError(t, svc.Refresh(context.Background()))
	require.NoError(t, svc.UpdateLivePrices(context.Background()))
	assert.Zero(t, gw.calls)
}

func TestUpdateLivePrices_EmptyQuoteMapLeavesLastUpdated(t *testing.T) {
	svc := newTestService(seedRepo(), &fakeGateway{quotes: map[string]domain.Quote{}})
	require.NoError(t, svc.Refresh(context.Background()))
	before := svc.View()

	require.NoError(t, svc.UpdateLivePrices(context.Background()))

	after := svc.View()
	assert.Equal(t, before.Holdings, after.Holdings)
	assert.Equal(t, before.LastUpdated, after.LastUpdated)
}

func TestUpdateLivePrices_GatewayFailureKeepsSnapshot(t *testing.T) {
	gw := &fakeGateway{err: errors.New("gateway timeout")}
	svc := newTestService(seedRepo(), gw)
	require.NoError(t, svc.Refresh(context.Background()))
	before := svc.View()

	err := svc.UpdateLivePrices(context.Background())
	require.Error(t, err)

	after := svc.View()
	assert.Equal(t, before.Holdings, after.Holdings)
	assert.Contains(t, after.Error, "gateway timeout")
	assert.False(t, after.IsLoading)
}

func TestUpdateLivePrices_PartialMiss(t *testing.T) {
	gw := &fakeGateway{quotes: map[string]domain.Quote{
		"SBIN": {Symbol: "SBIN", CurrentPrice: 750},
	}}
	svc := newTestService(seedRepo(), gw)
	require.NoError(t, svc.Refresh(context.Background()))
	require.NoError(t, svc.UpdateLivePrices(context.Background()))

	v := svc.View()
	assert.Equal(t, 2450.0, v.Holdings[0].CurrentPrice) // miss: unchanged
	assert.Equal(t, 750.0, v.Holdings[1].CurrentPrice)  // hit: updated
}

func TestAddHolding_RefreshesSnapshot(t *testing.T) {
	svc := newTestService(seedRepo(), &fakeGateway{})
	require.NoError(t, svc.Refresh(context.Background()))

	created, err := svc.AddHolding(context.Background(), domain.HoldingInput{
		Symbol: "INFY", Exchange: domain.ExchangeNSE, Quantity: 5, Price: 1400, Sector: "Technology",
	})
	require.NoError(t, err)
	assert.Equal(t, "h-new", created.ID)

	v := svc.View()
	assert.Len(t, v.Holdings, 3)
	assert.Len(t, v.Sectors, 2)
}

func TestMutationFailure_LeavesSnapshotUntouched(t *testing.T) {
	repo := seedRepo()
	svc := newTestService(repo, &fakeGateway{})
	require.NoError(t, svc.Refresh(context.Background()))
	before := svc.View()

	repo.failNext = errors.New("rejected")
	_, err := svc.AddHolding(context.Background(), domain.HoldingInput{
		Symbol: "INFY", Exchange: domain.ExchangeNSE, Quantity: 5, Price: 1400,
	})
	require.Error(t, err)
	assert.Equal(t, before.Holdings, svc.View().Holdings)
}

func TestDeleteHolding_DecreasesInvestmentExactly(t *testing.T) {
	svc := newTestService(seedRepo(), &fakeGateway{})
	require.NoError(t, svc.Refresh(context.Background()))
	before := svc.View()
	removed := before.Holdings[1]

	require.NoError(t, svc.DeleteHolding(context.Background(), removed.ID))

	after := svc.View()
	assert.InDelta(t, before.Summary.TotalInvestment-removed.Investment, after.Summary.TotalInvestment, 1e-6)
	assert.InDelta(t, 100.0, after.Holdings[0].PortfolioPercentage, 1e-6)
}

func TestRenameSector_RegroupsAggregates(t *testing.T) {
	svc := newTestService(seedRepo(), &fakeGateway{})
	require.NoError(t, svc.Refresh(context.Background()))

	require.NoError(t, svc.RenameSector(context.Background(), "Financials", "Banking"))

	sectors := svc.Sectors()
	require.Len(t, sectors, 1)
	assert.Equal(t, "Banking", sectors[0].Sector)
	assert.Len(t, sectors[0].Holdings, 2)
}
