// Package entity defines the domain models for the symbollist feature.
package entity

// Symbol is a ticker that has rows in the quotes table.
type Symbol struct {
	Code    string
	Records int64
}
