// Package entity defines the domain models for the quotes feature.
package entity

import "time"

// OutputSize selects how much history the provider returns for a daily series.
type OutputSize string

const (
	// OutputSizeCompact asks for the latest 100 data points.
	OutputSizeCompact OutputSize = "compact"
	// OutputSizeFull asks for the full available history.
	OutputSizeFull OutputSize = "full"
)

// Valid reports whether s is a size the provider understands.
func (s OutputSize) Valid() bool {
	return s == OutputSizeCompact || s == OutputSizeFull
}

// Quote represents one trading day of OHLCV data for a symbol.
//
// Every field except Symbol is independently nullable: a value the provider
// omitted or that could not be parsed is nil, and the rest of the record is kept.
type Quote struct {
	Symbol    string     // Upper-case ticker (e.g., "ASX", "MQG.AX")
	Open      *float64   // Opening price
	High      *float64   // Highest price of the day
	Low       *float64   // Lowest price of the day
	Close     *float64   // Closing price
	Volume    *int64     // Traded volume
	Timestamp *time.Time // Trading date (UTC midnight)
}
