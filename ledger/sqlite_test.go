package ledger

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	s, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s, path
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	_, path := newTestSQLite(t)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('accounts','trades')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, found["accounts"])
	assert.True(t, found["trades"])
}

func TestSQLiteCreateAccount(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)

	require.NoError(t, s.CreateAccount("alice", d("10000.00")))

	cash, err := s.GetCash("alice")
	require.NoError(t, err)
	assert.True(t, cash.Equal(d("10000.00")))

	err = s.CreateAccount("alice", d("1.00"))
	assert.ErrorIs(t, err, ErrAccountExists)

	err = s.CreateAccount("bob", d("-5"))
	assert.ErrorIs(t, err, ErrNegativeBalance)
}

func TestSQLiteUnknownAccount(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)

	_, err := s.GetCash("nobody")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	err = s.Update("nobody", func(tx Tx) error { return nil })
	assert.ErrorIs(t, err, ErrAccountNotFound)

	err = s.View("nobody", func(tx ReadTx) error { return nil })
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestSQLiteAppendAndList(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	require.NoError(t, s.CreateAccount("alice", d("10000")))

	err := s.Update("alice", func(tx Tx) error {
		if _, err := tx.AppendTrade("AAPL", 10, d("150.00")); err != nil {
			return err
		}
		_, err := tx.AppendTrade("AAPL", -4, d("160.00"))
		return err
	})
	require.NoError(t, err)

	trades, err := s.ListTrades("alice")
	require.NoError(t, err)
	require.Len(t, trades, 2)

	assert.Equal(t, int64(10), trades[0].Quantity)
	assert.Equal(t, int64(-4), trades[1].Quantity)
	assert.True(t, trades[0].Price.Equal(d("150.00")))
	assert.True(t, trades[1].Price.Equal(d("160.00")))
	assert.Less(t, trades[0].Seq, trades[1].Seq)
	assert.NotEmpty(t, trades[0].ID)
	assert.Equal(t, "alice", trades[0].AccountID)
}

func TestSQLiteAppendValidation(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	require.NoError(t, s.CreateAccount("alice", d("100")))

	err := s.Update("alice", func(tx Tx) error {
		_, err := tx.AppendTrade("AAPL", 0, d("150.00"))
		return err
	})
	assert.ErrorIs(t, err, ErrInvalidTrade)

	err = s.Update("alice", func(tx Tx) error {
		_, err := tx.AppendTrade("AAPL", 1, d("0"))
		return err
	})
	assert.ErrorIs(t, err, ErrInvalidTrade)

	trades, err := s.ListTrades("alice")
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestSQLiteUpdateRollsBackOnError(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	require.NoError(t, s.CreateAccount("alice", d("1000")))

	boom := errors.New("boom")
	err := s.Update("alice", func(tx Tx) error {
		if err := tx.SetCash(d("1")); err != nil {
			return err
		}
		if _, err := tx.AppendTrade("AAPL", 5, d("100")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// Neither the cash write nor the trade survived.
	cash, err := s.GetCash("alice")
	require.NoError(t, err)
	assert.True(t, cash.Equal(d("1000")))

	trades, err := s.ListTrades("alice")
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestSQLiteSetCashNegative(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	require.NoError(t, s.CreateAccount("alice", d("10")))

	err := s.Update("alice", func(tx Tx) error {
		return tx.SetCash(d("-0.01"))
	})
	assert.ErrorIs(t, err, ErrNegativeBalance)

	cash, err := s.GetCash("alice")
	require.NoError(t, err)
	assert.True(t, cash.Equal(d("10")))
}

func TestSQLiteViewSeesCommittedState(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	require.NoError(t, s.CreateAccount("alice", d("500")))

	require.NoError(t, s.Update("alice", func(tx Tx) error {
		if err := tx.SetCash(d("350")); err != nil {
			return err
		}
		_, err := tx.AppendTrade("NFLX", 2, d("75"))
		return err
	}))

	err := s.View("alice", func(tx ReadTx) error {
		assert.True(t, tx.Cash().Equal(d("350")))
		trades, err := tx.Trades()
		if err != nil {
			return err
		}
		assert.Len(t, trades, 1)
		return nil
	})
	require.NoError(t, err)
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	s, path := newTestSQLite(t)
	require.NoError(t, s.CreateAccount("alice", d("100")))
	require.NoError(t, s.Update("alice", func(tx Tx) error {
		_, err := tx.AppendTrade("MSFT", 3, d("310.00"))
		return err
	}))
	require.NoError(t, s.Close())

	s2, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s2.Close() })

	trades, err := s2.ListTrades("alice")
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "MSFT", trades[0].Symbol)
	assert.True(t, trades[0].Price.Equal(d("310.00")))
}
