// Package dto defines data transfer objects for the symbollist HTTP API.
package dto

// SymbolItem represents a stored symbol in the API response.
type SymbolItem struct {
	Code    string `json:"code"`
	Records int64  `json:"records"`
}
