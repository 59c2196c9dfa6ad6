// Package portfolio implements the trading rules on top of the ledger:
// affordability-checked buys, position-checked sells, deposits, and
// live-priced portfolio views. Holdings are always recomputed from the
// trade log, never stored.
package portfolio

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/stockbook/ledger"
	"github.com/rustyeddy/stockbook/quotes"
)

type Engine struct {
	store  ledger.Store
	quotes quotes.Source
	log    zerolog.Logger
}

func NewEngine(store ledger.Store, src quotes.Source) *Engine {
	return &Engine{store: store, quotes: src, log: zerolog.Nop()}
}

// SetLogger attaches a logger for executed operations. Off by default.
func (e *Engine) SetLogger(l zerolog.Logger) { e.log = l }

// Fill reports an executed buy or sell.
type Fill struct {
	TradeID  string
	Symbol   string
	Quantity int64
	Price    decimal.Decimal
	Total    decimal.Decimal // cost for buys, proceeds for sells
	Cash     decimal.Decimal // balance after execution
}

// lookup maps a quote-source failure to the engine's error kind. The quote
// call happens before any ledger mutation, so a failure here aborts cleanly.
func (e *Engine) lookup(ctx context.Context, symbol string) (quotes.Quote, error) {
	q, err := e.quotes.Lookup(ctx, symbol)
	if err != nil {
		return quotes.Quote{}, fmt.Errorf("%q: %v: %w", symbol, err, ErrSymbolNotFound)
	}
	return q, nil
}

// Buy purchases quantity shares of symbol at the live quote. The cash debit
// and the trade append commit in one ledger transaction.
func (e *Engine) Buy(ctx context.Context, accountID, symbol string, quantity int64) (Fill, error) {
	if quantity <= 0 {
		return Fill{}, ErrInvalidQuantity
	}

	q, err := e.lookup(ctx, symbol)
	if err != nil {
		return Fill{}, err
	}

	cost := q.Price.Mul(decimal.NewFromInt(quantity))

	var fill Fill
	err = e.store.Update(accountID, func(tx ledger.Tx) error {
		cash := tx.Cash()
		if cash.LessThan(cost) {
			return fmt.Errorf("cost %s, cash %s: %w", cost, cash, ErrInsufficientFunds)
		}

		if err := tx.SetCash(cash.Sub(cost)); err != nil {
			return err
		}
		tr, err := tx.AppendTrade(q.Symbol, quantity, q.Price)
		if err != nil {
			return err
		}

		fill = Fill{
			TradeID:  tr.ID,
			Symbol:   tr.Symbol,
			Quantity: quantity,
			Price:    q.Price,
			Total:    cost,
			Cash:     cash.Sub(cost),
		}
		return nil
	})
	if err != nil {
		return Fill{}, err
	}

	e.log.Info().
		Str("account", accountID).
		Str("symbol", fill.Symbol).
		Int64("quantity", fill.Quantity).
		Str("price", fill.Price.String()).
		Str("cash", fill.Cash.String()).
		Msg("buy filled")
	return fill, nil
}

// Sell sells quantity shares of symbol at the live quote. The position
// check, the cash credit, and the trade append all happen inside one
// per-account transaction, so a concurrent sell cannot double-spend shares.
func (e *Engine) Sell(ctx context.Context, accountID, symbol string, quantity int64) (Fill, error) {
	if quantity <= 0 {
		return Fill{}, ErrInvalidQuantity
	}

	q, err := e.lookup(ctx, symbol)
	if err != nil {
		return Fill{}, err
	}

	proceeds := q.Price.Mul(decimal.NewFromInt(quantity))

	var fill Fill
	err = e.store.Update(accountID, func(tx ledger.Tx) error {
		trades, err := tx.Trades()
		if err != nil {
			return err
		}

		held := netQuantity(trades, q.Symbol)
		if quantity > held {
			return fmt.Errorf("sell %d, held %d: %w", quantity, held, ErrInsufficientShares)
		}

		if err := tx.SetCash(tx.Cash().Add(proceeds)); err != nil {
			return err
		}
		tr, err := tx.AppendTrade(q.Symbol, -quantity, q.Price)
		if err != nil {
			return err
		}

		fill = Fill{
			TradeID:  tr.ID,
			Symbol:   tr.Symbol,
			Quantity: -quantity,
			Price:    q.Price,
			Total:    proceeds,
			Cash:     tx.Cash(),
		}
		return nil
	})
	if err != nil {
		return Fill{}, err
	}

	e.log.Info().
		Str("account", accountID).
		Str("symbol", fill.Symbol).
		Int64("quantity", fill.Quantity).
		Str("price", fill.Price.String()).
		Str("cash", fill.Cash.String()).
		Msg("sell filled")
	return fill, nil
}

// Deposit adds amount to the account's cash and returns the new balance.
func (e *Engine) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Decimal{}, ErrInvalidAmount
	}

	var balance decimal.Decimal
	err := e.store.Update(accountID, func(tx ledger.Tx) error {
		if err := tx.SetCash(tx.Cash().Add(amount)); err != nil {
			return err
		}
		balance = tx.Cash()
		return nil
	})
	if err != nil {
		return decimal.Decimal{}, err
	}

	e.log.Info().
		Str("account", accountID).
		Str("amount", amount.String()).
		Str("cash", balance.String()).
		Msg("deposit")
	return balance, nil
}

// History returns the account's full trade log, oldest first.
func (e *Engine) History(ctx context.Context, accountID string) ([]ledger.Trade, error) {
	_ = ctx
	return e.store.ListTrades(accountID)
}

// Quote looks up the live price for a symbol without touching the ledger.
func (e *Engine) Quote(ctx context.Context, symbol string) (quotes.Quote, error) {
	return e.lookup(ctx, symbol)
}
