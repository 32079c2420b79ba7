// Package validation holds the entry-boundary checks for user-supplied
// holding data. The derivation engine assumes validated input and performs no
// numeric re-validation of its own.
package validation

import (
	"errors"
	"strings"

	"folio-backend/internal/domain"
)

var (
	ErrSymbolRequired   = errors.New("Symbol is required")
	ErrExchangeRequired = errors.New("Exchange must be NSE or BSE")
	ErrQuantityInvalid  = errors.New("Quantity must be a positive integer")
	ErrPriceInvalid     = errors.New("Price must be positive")
	ErrSectorBlank      = errors.New("Sector must not be blank")
)

// ValidateHoldingInput checks a create/update payload. Quantity and price are
// strictly positive so derived investment and present value can never go
// negative.
func ValidateHoldingInput(in domain.HoldingInput) error {
	if strings.TrimSpace(in.Symbol) == "" {
		return ErrSymbolRequired
	}
	if !in.Exchange.Valid() {
		return ErrExchangeRequired
	}
	if in.Quantity <= 0 {
		return ErrQuantityInvalid
	}
	if in.Price <= 0 {
		return ErrPriceInvalid
	}
	if in.Sector != "" && strings.TrimSpace(in.Sector) == "" {
		return ErrSectorBlank
	}
	return nil
}

// ValidateSectorLabel checks a rename target. Labels are stored verbatim
// (grouping is exact-match), so the only rule is that a label must not be
// empty or all whitespace.
func ValidateSectorLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return ErrSectorBlank
	}
	return nil
}
