package domain

import "errors"

var (
	ErrRefreshInFlight = errors.New("a refresh is already in progress")
	ErrHoldingNotFound = errors.New("holding not found")
	ErrSectorNotFound  = errors.New("sector not found")
)
