package validation

import (
	"testing"

	"folio-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func validInput() domain.HoldingInput {
	return domain.HoldingInput{
		Symbol:   "HDFCBANK",
		Exchange: domain.ExchangeNSE,
		Quantity: 10,
		Price:    2450,
		Sector:   "Financials",
	}
}

func TestValidateHoldingInput(t *testing.T) {
	assert.NoError(t, ValidateHoldingInput(validInput()))

	in := validInput()
	in.Symbol = "  "
	assert.ErrorIs(t, ValidateHoldingInput(in), ErrSymbolRequired)

	in = validInput()
	in.Exchange = "NASDAQ"
	assert.ErrorIs(t, ValidateHoldingInput(in), ErrExchangeRequired)

	in = validInput()
	in.Quantity = 0
	assert.ErrorIs(t, ValidateHoldingInput(in), ErrQuantityInvalid)

	in = validInput()
	in.Quantity = -3
	assert.ErrorIs(t, ValidateHoldingInput(in), ErrQuantityInvalid)

	in = validInput()
	in.Price = 0
	assert.ErrorIs(t, ValidateHoldingInput(in), ErrPriceInvalid)

	// Sector is optional; empty means "uncategorized" at the backend.
	in = validInput()
	in.Sector = ""
	assert.NoError(t, ValidateHoldingInput(in))
}

func TestValidateSectorLabel(t *testing.T) {
	assert.NoError(t, ValidateSectorLabel("Consumer Goods"))
	assert.ErrorIs(t, ValidateSectorLabel(""), ErrSectorBlank)
	assert.ErrorIs(t, ValidateSectorLabel("   "), ErrSectorBlank)
}
