package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/stockbook/internal/id"
)

// SQLite is the durable Store. Each Update runs inside one SQLite
// transaction, so the cash write and the trade insert land together or not
// at all.
type SQLite struct {
	db    *sql.DB
	locks accountLocks
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) CreateAccount(accountID string, openingCash decimal.Decimal) error {
	if openingCash.IsNegative() {
		return ErrNegativeBalance
	}

	_, err := s.db.Exec(`
		INSERT INTO accounts (account_id, cash) VALUES (?, ?)`,
		accountID, openingCash.String(),
	)
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("account %q: %w", accountID, ErrAccountExists)
	}
	return err
}

func (s *SQLite) GetCash(accountID string) (decimal.Decimal, error) {
	return getCash(s.db, accountID)
}

func (s *SQLite) ListTrades(accountID string) ([]Trade, error) {
	return listTrades(s.db, accountID)
}

// Update runs fn against a single-account read-modify-write transaction.
// The account lock is held for the whole call, so a concurrent Update on the
// same account cannot read the balance fn is about to change.
func (s *SQLite) Update(accountID string, fn func(tx Tx) error) error {
	mu := s.locks.get(accountID)
	mu.Lock()
	defer mu.Unlock()

	dbtx, err := s.db.Begin()
	if err != nil {
		return err
	}

	at, err := s.begin(dbtx, accountID)
	if err != nil {
		dbtx.Rollback()
		return err
	}

	if err := fn(at); err != nil {
		dbtx.Rollback()
		return err
	}

	if at.dirty {
		if _, err := dbtx.Exec(`
			UPDATE accounts SET cash = ? WHERE account_id = ?`,
			at.cash.String(), accountID,
		); err != nil {
			dbtx.Rollback()
			return err
		}
	}

	return dbtx.Commit()
}

// View runs fn against a read snapshot under the same account lock as
// Update, so it never observes a half-applied trade.
func (s *SQLite) View(accountID string, fn func(tx ReadTx) error) error {
	mu := s.locks.get(accountID)
	mu.Lock()
	defer mu.Unlock()

	dbtx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer dbtx.Rollback()

	at, err := s.begin(dbtx, accountID)
	if err != nil {
		return err
	}

	return fn(at)
}

func (s *SQLite) begin(dbtx *sql.Tx, accountID string) (*sqliteTx, error) {
	cash, err := getCash(dbtx, accountID)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: dbtx, accountID: accountID, cash: cash}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

type sqliteTx struct {
	tx        *sql.Tx
	accountID string
	cash      decimal.Decimal
	dirty     bool
}

func (t *sqliteTx) Cash() decimal.Decimal { return t.cash }

func (t *sqliteTx) SetCash(balance decimal.Decimal) error {
	if balance.IsNegative() {
		return ErrNegativeBalance
	}
	t.cash = balance
	t.dirty = true
	return nil
}

func (t *sqliteTx) Trades() ([]Trade, error) {
	return listTrades(t.tx, t.accountID)
}

func (t *sqliteTx) AppendTrade(symbol string, quantity int64, price decimal.Decimal) (Trade, error) {
	if quantity == 0 || !price.IsPositive() {
		return Trade{}, fmt.Errorf("append %q qty=%d price=%s: %w",
			symbol, quantity, price, ErrInvalidTrade)
	}

	tr := Trade{
		ID:         id.New(),
		AccountID:  t.accountID,
		Symbol:     symbol,
		Quantity:   quantity,
		Price:      price,
		ExecutedAt: time.Now().UTC(),
	}

	res, err := t.tx.Exec(`
		INSERT INTO trades (trade_id, account_id, symbol, quantity, price, executed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		tr.ID, tr.AccountID, tr.Symbol, tr.Quantity, tr.Price.String(), tr.ExecutedAt,
	)
	if err != nil {
		return Trade{}, err
	}

	tr.Seq, err = res.LastInsertId()
	if err != nil {
		return Trade{}, err
	}
	return tr, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

func getCash(q querier, accountID string) (decimal.Decimal, error) {
	var raw string
	err := q.QueryRow(`
		SELECT cash FROM accounts WHERE account_id = ?`, accountID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return decimal.Decimal{}, fmt.Errorf("account %q: %w", accountID, ErrAccountNotFound)
	}
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(raw)
}

func listTrades(q querier, accountID string) ([]Trade, error) {
	rows, err := q.Query(`
		SELECT seq, trade_id, account_id, symbol, quantity, price, executed_at
		FROM trades
		WHERE account_id = ?
		ORDER BY seq ASC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Trade
	for rows.Next() {
		var (
			tr  Trade
			raw string
		)
		if err := rows.Scan(
			&tr.Seq,
			&tr.ID,
			&tr.AccountID,
			&tr.Symbol,
			&tr.Quantity,
			&raw,
			&tr.ExecutedAt,
		); err != nil {
			return nil, err
		}
		if tr.Price, err = decimal.NewFromString(raw); err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
