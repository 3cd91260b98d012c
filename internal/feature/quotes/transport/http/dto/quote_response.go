// Package dto holds the JSON shapes of the quotes read API.
package dto

import "stock_etl/internal/feature/quotes/domain/entity"

// DateLayout formats the trading date in responses.
const DateLayout = "2006-01-02"

// QuoteResponse is one stored row. Nullable columns render as JSON null.
type QuoteResponse struct {
	Symbol    string   `json:"symbol"`
	Open      *float64 `json:"open"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
	Close     *float64 `json:"close"`
	Volume    *int64   `json:"volume"`
	Timestamp *string  `json:"timestamp"` // calendar date
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FromEntity converts a domain quote.
func FromEntity(q entity.Quote) QuoteResponse {
	out := QuoteResponse{
		Symbol: q.Symbol,
		Open:   q.Open,
		High:   q.High,
		Low:    q.Low,
		Close:  q.Close,
		Volume: q.Volume,
	}
	if q.Timestamp != nil {
		d := q.Timestamp.UTC().Format(DateLayout)
		out.Timestamp = &d
	}
	return out
}
