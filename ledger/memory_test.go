package ledger

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCreateAccount(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	require.NoError(t, m.CreateAccount("alice", d("1000")))

	assert.ErrorIs(t, m.CreateAccount("alice", d("1")), ErrAccountExists)
	assert.ErrorIs(t, m.CreateAccount("bob", d("-1")), ErrNegativeBalance)

	_, err := m.GetCash("nobody")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestMemoryUpdateStagesWrites(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	require.NoError(t, m.CreateAccount("alice", d("1000")))

	boom := errors.New("boom")
	err := m.Update("alice", func(tx Tx) error {
		if err := tx.SetCash(d("0")); err != nil {
			return err
		}
		if _, err := tx.AppendTrade("AAPL", 1, d("100")); err != nil {
			return err
		}

		// The staged trade is visible inside the transaction.
		trades, err := tx.Trades()
		if err != nil {
			return err
		}
		assert.Len(t, trades, 1)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	cash, err := m.GetCash("alice")
	require.NoError(t, err)
	assert.True(t, cash.Equal(d("1000")))

	trades, err := m.ListTrades("alice")
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestMemorySeqMonotonic(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	require.NoError(t, m.CreateAccount("alice", d("1000")))

	for i := 0; i < 3; i++ {
		require.NoError(t, m.Update("alice", func(tx Tx) error {
			_, err := tx.AppendTrade("AAPL", 1, d("10"))
			return err
		}))
	}

	trades, err := m.ListTrades("alice")
	require.NoError(t, err)
	require.Len(t, trades, 3)
	assert.Equal(t, int64(1), trades[0].Seq)
	assert.Equal(t, int64(2), trades[1].Seq)
	assert.Equal(t, int64(3), trades[2].Seq)
}

func TestMemoryListTradesIsACopy(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	require.NoError(t, m.CreateAccount("alice", d("1000")))
	require.NoError(t, m.Update("alice", func(tx Tx) error {
		_, err := tx.AppendTrade("AAPL", 1, d("10"))
		return err
	}))

	trades, err := m.ListTrades("alice")
	require.NoError(t, err)
	trades[0].Symbol = "MUTATED"

	again, err := m.ListTrades("alice")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", again[0].Symbol)
}

func TestMemoryConcurrentUpdatesSerialize(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	require.NoError(t, m.CreateAccount("alice", d("0")))
	require.NoError(t, m.CreateAccount("bob", d("0")))

	const n = 50
	var wg sync.WaitGroup
	for _, acct := range []string{"alice", "bob"} {
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(acct string) {
				defer wg.Done()
				_ = m.Update(acct, func(tx Tx) error {
					if err := tx.SetCash(tx.Cash().Add(d("1"))); err != nil {
						return err
					}
					_, err := tx.AppendTrade("AAPL", 1, d("1"))
					return err
				})
			}(acct)
		}
	}
	wg.Wait()

	for _, acct := range []string{"alice", "bob"} {
		cash, err := m.GetCash(acct)
		require.NoError(t, err)
		assert.True(t, cash.Equal(d("50")), "account %s cash %s", acct, cash)

		trades, err := m.ListTrades(acct)
		require.NoError(t, err)
		assert.Len(t, trades, n)
	}
}
