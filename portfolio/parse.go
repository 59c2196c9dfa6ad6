package portfolio

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseQuantity parses user-entered share counts. Only unsigned whole
// numbers are accepted: "10" is valid, "-3", "2.5", and "1e2" are not.
func ParseQuantity(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidQuantity
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrInvalidQuantity
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrInvalidQuantity
	}
	return n, nil
}

// ParseAmount parses a user-entered cash amount. It must be a positive
// decimal number.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsPositive() {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return d, nil
}
