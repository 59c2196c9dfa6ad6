package ledger

import "sync"

// accountLocks hands out one mutex per account id so transactions on the
// same account serialize while different accounts proceed in parallel.
type accountLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (l *accountLocks) get(accountID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.m == nil {
		l.m = make(map[string]*sync.Mutex)
	}
	am, ok := l.m[accountID]
	if !ok {
		am = &sync.Mutex{}
		l.m[accountID] = am
	}
	return am
}
