package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// Client fetches quotes from an HTTP JSON service:
//
//	GET {base}/quote?symbol=AAPL
//	200 {"symbol":"AAPL","name":"Apple Inc.","price":"150.00"}
//
// Any non-200 response or transport failure surfaces as ErrUnknownSymbol;
// the ledger does not distinguish "no such symbol" from "service down".
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type apiQuote struct {
	Symbol string      `json:"symbol"`
	Name   string      `json:"name"`
	Price  json.Number `json:"price"`
}

func (c *Client) Lookup(ctx context.Context, symbol string) (Quote, error) {
	symbol = Normalize(symbol)
	if symbol == "" {
		return Quote{}, fmt.Errorf("empty symbol: %w", ErrUnknownSymbol)
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	apiURL := fmt.Sprintf("%s/quote?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("%q: %v: %w", symbol, err, ErrUnknownSymbol)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("%q: quote service returned %s: %w",
			symbol, resp.Status, ErrUnknownSymbol)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Quote{}, fmt.Errorf("read response: %w", err)
	}

	var aq apiQuote
	if err := json.Unmarshal(body, &aq); err != nil {
		return Quote{}, fmt.Errorf("%q: decode quote: %v: %w", symbol, err, ErrUnknownSymbol)
	}

	price, err := decimal.NewFromString(aq.Price.String())
	if err != nil || !price.IsPositive() {
		return Quote{}, fmt.Errorf("%q: bad price %q: %w", symbol, aq.Price, ErrUnknownSymbol)
	}

	q := Quote{Symbol: Normalize(aq.Symbol), Name: aq.Name, Price: price}
	if q.Symbol == "" {
		q.Symbol = symbol
	}
	return q, nil
}
