// Package quotes supplies current prices for stock symbols. The ledger
// treats a source as blocking, fallible I/O with no side effects: an absent
// symbol and a transport failure look the same to callers.
package quotes

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownSymbol is returned when a source has no price for a symbol,
// whatever the underlying reason.
var ErrUnknownSymbol = errors.New("quotes: unknown symbol")

// Quote is a point-in-time price for one symbol.
type Quote struct {
	Symbol string
	Name   string
	Price  decimal.Decimal
}

type Source interface {
	Lookup(ctx context.Context, symbol string) (Quote, error)
}

// Normalize maps user symbol input to canonical form: trimmed, uppercased.
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
