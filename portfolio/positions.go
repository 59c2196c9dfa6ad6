package portfolio

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/stockbook/ledger"
)

// Position is the net holding of one symbol, derived from the trade log.
type Position struct {
	Symbol   string
	Quantity int64
}

// Holding is a position priced at the live quote.
type Holding struct {
	Symbol   string
	Name     string
	Quantity int64
	Price    decimal.Decimal
	Value    decimal.Decimal // Price * Quantity
}

// Portfolio is a fully priced view of an account.
type Portfolio struct {
	Holdings   []Holding
	Cash       decimal.Decimal
	GrandTotal decimal.Decimal // sum of holding values plus cash
}

// aggregate sums signed trade quantities per symbol and drops symbols whose
// net is not strictly positive. Order follows each symbol's first trade.
func aggregate(trades []ledger.Trade) []Position {
	totals := make(map[string]int64)
	var order []string

	for _, t := range trades {
		if _, seen := totals[t.Symbol]; !seen {
			order = append(order, t.Symbol)
		}
		totals[t.Symbol] += t.Quantity
	}

	var out []Position
	for _, sym := range order {
		if totals[sym] > 0 {
			out = append(out, Position{Symbol: sym, Quantity: totals[sym]})
		}
	}
	return out
}

func netQuantity(trades []ledger.Trade, symbol string) int64 {
	var n int64
	for _, t := range trades {
		if t.Symbol == symbol {
			n += t.Quantity
		}
	}
	return n
}

// Positions returns the account's held positions from a consistent snapshot
// of the trade log.
func (e *Engine) Positions(ctx context.Context, accountID string) ([]Position, error) {
	_ = ctx

	var out []Position
	err := e.store.View(accountID, func(tx ledger.ReadTx) error {
		trades, err := tx.Trades()
		if err != nil {
			return err
		}
		out = aggregate(trades)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// View prices every held position at its live quote. If any held symbol
// cannot be priced the whole view fails; a partial valuation is never
// returned. The ledger snapshot is taken first, then quotes are fetched
// without holding the account lock.
func (e *Engine) View(ctx context.Context, accountID string) (Portfolio, error) {
	var (
		positions []Position
		cash      decimal.Decimal
	)
	err := e.store.View(accountID, func(tx ledger.ReadTx) error {
		trades, err := tx.Trades()
		if err != nil {
			return err
		}
		positions = aggregate(trades)
		cash = tx.Cash()
		return nil
	})
	if err != nil {
		return Portfolio{}, err
	}

	view := Portfolio{Cash: cash, GrandTotal: cash}
	for _, p := range positions {
		q, err := e.quotes.Lookup(ctx, p.Symbol)
		if err != nil {
			return Portfolio{}, fmt.Errorf("%q: %v: %w", p.Symbol, err, ErrQuoteUnavailable)
		}

		value := q.Price.Mul(decimal.NewFromInt(p.Quantity))
		view.Holdings = append(view.Holdings, Holding{
			Symbol:   p.Symbol,
			Name:     q.Name,
			Quantity: p.Quantity,
			Price:    q.Price,
			Value:    value,
		})
		view.GrandTotal = view.GrandTotal.Add(value)
	}
	return view, nil
}
