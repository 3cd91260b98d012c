// Package usecase implements the ETL pipeline and the quote read path.
package usecase

import "errors"

var (
	// ErrConfiguration marks a fatal misconfiguration such as an unknown provider
	// name or a missing archive bucket. It is never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrEmptySymbol is returned when a fetch is requested for an empty symbol.
	ErrEmptySymbol = errors.New("symbol must not be empty")

	// ErrQuoteNotFound is returned when no stored rows match the requested symbol.
	ErrQuoteNotFound = errors.New("symbol not found")

	// ErrNoColumnarFiles is returned when a reload finds nothing to load.
	ErrNoColumnarFiles = errors.New("no columnar files found")
)
