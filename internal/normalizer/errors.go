package normalizer

import "errors"

var (
	// ErrInvalidSymbol means the vendor lookup returned no identity for the symbol.
	ErrInvalidSymbol = errors.New("error invalid symbol")
	// ErrDataUnavailable means the history response contained zero price points.
	ErrDataUnavailable = errors.New("error data unavailable")
)
