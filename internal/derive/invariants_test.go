package derive

import (
	"testing"

	"folio-backend/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var sectorLabels = []string{"Financials", "Technology", "Energy", "Healthcare", "Consumer"}

func genHolding() gopter.Gen {
	return gopter.CombineGens(
		gen.Identifier(),
		gen.Float64Range(0.01, 10000),
		gen.Int64Range(1, 10000),
		gen.Float64Range(0, 10000),
		gen.IntRange(0, len(sectorLabels)-1),
	).Map(func(vals []interface{}) domain.Holding {
		return domain.Holding{
			ID:            vals[0].(string),
			Symbol:        vals[0].(string),
			PurchasePrice: vals[1].(float64),
			Quantity:      vals[2].(int64),
			CurrentPrice:  vals[3].(float64),
			Sector:        sectorLabels[vals[4].(int)],
		}
	})
}

func genHoldings() gopter.Gen {
	return gen.SliceOf(genHolding())
}

func TestAllocationInvariant(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("percentages sum to 100 or 0 after ReplaceSnapshot", prop.ForAll(
		func(raw []domain.Holding) bool {
			return CheckAllocation(ReplaceSnapshot(raw)) == nil
		},
		genHoldings(),
	))

	properties.Property("percentages sum to 100 or 0 after MergeQuotes", prop.ForAll(
		func(raw []domain.Holding, price float64) bool {
			quotes := map[string]domain.Quote{}
			for i, h := range raw {
				if i%2 == 0 {
					quotes[h.Symbol] = domain.Quote{Symbol: h.Symbol, CurrentPrice: price}
				}
			}
			return CheckAllocation(MergeQuotes(ReplaceSnapshot(raw), quotes)) == nil
		},
		genHoldings(),
		gen.Float64Range(0, 5000),
	))

	properties.TestingRun(t)
}

func TestSectorPartitionInvariant(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("sector fold partitions the portfolio totals", prop.ForAll(
		func(raw []domain.Holding) bool {
			holdings := ReplaceSnapshot(raw)
			return CheckSectorPartition(holdings, AggregateBySector(holdings)) == nil
		},
		genHoldings(),
	))

	properties.TestingRun(t)
}

func TestMergeIdempotenceInvariant(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("merging the same quotes twice changes nothing", prop.ForAll(
		func(raw []domain.Holding, price float64) bool {
			quotes := map[string]domain.Quote{}
			for _, h := range raw {
				quotes[h.Symbol] = domain.Quote{Symbol: h.Symbol, CurrentPrice: price}
			}
			once := MergeQuotes(ReplaceSnapshot(raw), quotes)
			twice := MergeQuotes(once, quotes)
			if len(once) != len(twice) {
				return false
			}
			for i := range once {
				if once[i] != twice[i] {
					return false
				}
			}
			return true
		},
		genHoldings(),
		gen.Float64Range(0, 5000),
	))

	properties.TestingRun(t)
}
