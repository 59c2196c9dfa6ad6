package quotes

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticLookup(t *testing.T) {
	t.Parallel()

	s := NewStatic()
	s.Set(Quote{Symbol: "aapl", Name: "Apple Inc.", Price: decimal.RequireFromString("150.00")})

	// Lookup is case and whitespace insensitive.
	q, err := s.Lookup(context.Background(), " aapl ")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Symbol)
	assert.Equal(t, "Apple Inc.", q.Name)
	assert.True(t, q.Price.Equal(decimal.RequireFromString("150.00")))

	_, err = s.Lookup(context.Background(), "MSFT")
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestStaticRemove(t *testing.T) {
	t.Parallel()

	s := NewStatic()
	s.Set(Quote{Symbol: "NFLX", Price: decimal.RequireFromString("395.50")})

	_, err := s.Lookup(context.Background(), "NFLX")
	require.NoError(t, err)

	s.Remove("nflx")
	_, err = s.Lookup(context.Background(), "NFLX")
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "AAPL", Normalize("  aapl\n"))
	assert.Equal(t, "", Normalize("   "))
}
