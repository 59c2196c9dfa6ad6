// Package ledger is the append-only record of trades plus per-account cash
// balances. Trades are never updated or deleted; holdings are derived by
// aggregating the trade log.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is a single executed buy or sell. Quantity is signed: positive for
// buys, negative for sells. Seq is assigned at insertion and is strictly
// increasing per account.
type Trade struct {
	ID         string
	AccountID  string
	Symbol     string
	Quantity   int64
	Price      decimal.Decimal
	Seq        int64
	ExecutedAt time.Time
}

// ReadTx is a consistent read snapshot of one account.
type ReadTx interface {
	// Cash returns the account's balance as of the snapshot.
	Cash() decimal.Decimal
	// Trades returns the account's trades oldest first.
	Trades() ([]Trade, error)
}

// Tx is a read-modify-write transaction on one account. Writes become
// visible all at once when the enclosing Update commits; returning an error
// from the Update callback discards them.
type Tx interface {
	ReadTx
	// SetCash overwrites the balance. The new balance must not be negative.
	SetCash(balance decimal.Decimal) error
	// AppendTrade inserts an immutable trade row and assigns its sequence.
	AppendTrade(symbol string, quantity int64, price decimal.Decimal) (Trade, error)
}

// Store is the durable ledger. Update and View serialize per account:
// two transactions on the same account never interleave, transactions on
// different accounts do not block each other.
type Store interface {
	CreateAccount(accountID string, openingCash decimal.Decimal) error
	GetCash(accountID string) (decimal.Decimal, error)
	ListTrades(accountID string) ([]Trade, error)

	Update(accountID string, fn func(tx Tx) error) error
	View(accountID string, fn func(tx ReadTx) error) error

	Close() error
}
