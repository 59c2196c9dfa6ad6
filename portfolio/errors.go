package portfolio

import "errors"

// All of these are expected, caller-recoverable conditions. Anything else
// coming out of the engine is a storage failure and should be treated as
// fatal by the caller.
var (
	// ErrInvalidQuantity rejects a zero, negative, or non-numeric quantity.
	ErrInvalidQuantity = errors.New("portfolio: quantity must be a positive whole number")

	// ErrInvalidAmount rejects a non-positive or malformed deposit amount.
	ErrInvalidAmount = errors.New("portfolio: amount must be positive")

	// ErrSymbolNotFound is returned when the quote service has no price
	// for the requested symbol.
	ErrSymbolNotFound = errors.New("portfolio: symbol not found")

	// ErrInsufficientFunds is returned when a buy costs more than the
	// account's cash.
	ErrInsufficientFunds = errors.New("portfolio: insufficient funds")

	// ErrInsufficientShares is returned when a sell exceeds the held
	// position.
	ErrInsufficientShares = errors.New("portfolio: insufficient shares")

	// ErrQuoteUnavailable is returned by View when a held symbol cannot
	// be priced. A partial valuation is never returned.
	ErrQuoteUnavailable = errors.New("portfolio: quote unavailable for held symbol")
)
