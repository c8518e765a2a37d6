package ledger

import "errors"

var (
	// ErrInvalidShareCount means a non-positive (or below-minimum) share delta.
	ErrInvalidShareCount = errors.New("error invalid share count")
	// ErrHoldingNotFound means the symbol has no entry in the ledger.
	ErrHoldingNotFound = errors.New("error holding not found")
	// ErrStoreFailure wraps a persistence error from the backing store.
	ErrStoreFailure = errors.New("error portfolio store failure")
)
