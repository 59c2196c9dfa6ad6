package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/stockbook/internal/id"
)

// Memory is an in-process Store with the same transactional contract as
// SQLite. Used by tests and the quote simulator; nothing survives a restart.
type Memory struct {
	mu       sync.Mutex
	accounts map[string]*memAccount
}

type memAccount struct {
	mu      sync.Mutex
	cash    decimal.Decimal
	trades  []Trade
	nextSeq int64
}

func NewMemory() *Memory {
	return &Memory{accounts: make(map[string]*memAccount)}
}

func (m *Memory) CreateAccount(accountID string, openingCash decimal.Decimal) error {
	if openingCash.IsNegative() {
		return ErrNegativeBalance
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[accountID]; ok {
		return fmt.Errorf("account %q: %w", accountID, ErrAccountExists)
	}
	m.accounts[accountID] = &memAccount{cash: openingCash, nextSeq: 1}
	return nil
}

func (m *Memory) account(accountID string) (*memAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("account %q: %w", accountID, ErrAccountNotFound)
	}
	return a, nil
}

func (m *Memory) GetCash(accountID string) (decimal.Decimal, error) {
	a, err := m.account(accountID)
	if err != nil {
		return decimal.Decimal{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cash, nil
}

func (m *Memory) ListTrades(accountID string) ([]Trade, error) {
	a, err := m.account(accountID)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Trade(nil), a.trades...), nil
}

// Update stages writes in a memTx and applies them only if fn succeeds, so
// a failed operation leaves neither a cash change nor a trade behind.
func (m *Memory) Update(accountID string, fn func(tx Tx) error) error {
	a, err := m.account(accountID)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	tx := &memTx{acct: a, accountID: accountID, cash: a.cash, nextSeq: a.nextSeq}
	if err := fn(tx); err != nil {
		return err
	}

	a.cash = tx.cash
	a.nextSeq = tx.nextSeq
	a.trades = append(a.trades, tx.appended...)
	return nil
}

func (m *Memory) View(accountID string, fn func(tx ReadTx) error) error {
	a, err := m.account(accountID)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	return fn(&memTx{acct: a, accountID: accountID, cash: a.cash, nextSeq: a.nextSeq})
}

func (m *Memory) Close() error { return nil }

type memTx struct {
	acct      *memAccount
	accountID string
	cash      decimal.Decimal
	nextSeq   int64
	appended  []Trade
}

func (t *memTx) Cash() decimal.Decimal { return t.cash }

func (t *memTx) Trades() ([]Trade, error) {
	out := append([]Trade(nil), t.acct.trades...)
	return append(out, t.appended...), nil
}

func (t *memTx) SetCash(balance decimal.Decimal) error {
	if balance.IsNegative() {
		return ErrNegativeBalance
	}
	t.cash = balance
	return nil
}

func (t *memTx) AppendTrade(symbol string, quantity int64, price decimal.Decimal) (Trade, error) {
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
		Seq:        t.nextSeq,
		ExecutedAt: time.Now().UTC(),
	}
	t.nextSeq++
	t.appended = append(t.appended, tr)
	return tr, nil
}
