package externalApi

import "errors"

var (
	// ErrNotFound means the vendor does not know the symbol.
	ErrNotFound = errors.New("error not found")
	// ErrNoData means the symbol is known but the requested range is empty.
	ErrNoData = errors.New("error no data in range")
)
