package quotes

import (
	"context"
	"fmt"
	"sync"
)

// Static is an in-memory Source. Prices are whatever was last Set; handy
// for tests and offline use.
type Static struct {
	mu     sync.RWMutex
	quotes map[string]Quote
}

func NewStatic() *Static {
	return &Static{quotes: make(map[string]Quote)}
}

func (s *Static) Set(q Quote) {
	q.Symbol = Normalize(q.Symbol)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[q.Symbol] = q
}

// Remove drops a symbol so subsequent lookups fail. Tests use this to
// simulate a quote service losing a symbol.
func (s *Static) Remove(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.quotes, Normalize(symbol))
}

func (s *Static) Lookup(_ context.Context, symbol string) (Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.quotes[Normalize(symbol)]
	if !ok {
		return Quote{}, fmt.Errorf("%q: %w", symbol, ErrUnknownSymbol)
	}
	return q, nil
}
