package ledger

import "errors"

// Domain errors. Storage I/O failures (disk, database) are returned as-is
// and are distinct from these.
var (
	// ErrAccountNotFound is returned when the account id is unknown.
	ErrAccountNotFound = errors.New("ledger: account not found")

	// ErrAccountExists is returned by CreateAccount for a duplicate id.
	ErrAccountExists = errors.New("ledger: account already exists")

	// ErrNegativeBalance is returned by SetCash when the new balance
	// would be negative.
	ErrNegativeBalance = errors.New("ledger: balance must not be negative")

	// ErrInvalidTrade is returned by AppendTrade for a zero quantity or a
	// non-positive price.
	ErrInvalidTrade = errors.New("ledger: invalid trade")
)
