// ledger/csv.go
package ledger

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// WriteCSV writes trades as CSV with a header row, oldest first.
func WriteCSV(w io.Writer, trades []Trade) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"seq", "trade_id", "symbol", "quantity", "price", "executed_at"}); err != nil {
		return err
	}

	for _, t := range trades {
		cw.Write([]string{
			strconv.FormatInt(t.Seq, 10),
			t.ID,
			t.Symbol,
			strconv.FormatInt(t.Quantity, 10),
			t.Price.String(),
			t.ExecutedAt.Format(time.RFC3339),
		})
	}

	cw.Flush()
	return cw.Error()
}
