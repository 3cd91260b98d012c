// Package provider resolves a configured provider name to a MarketProvider.
package provider

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"stock_etl/internal/feature/quotes/adapters/alphavantage"
	"stock_etl/internal/feature/quotes/usecase"
)

// Settings carries what every provider constructor may need.
type Settings struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// Factory builds a MarketProvider from Settings.
type Factory func(s Settings) usecase.MarketProvider

// Registry maps provider names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a Registry with every built-in provider registered.
func NewRegistry() *Registry {
	r := &Registry{factories: map[string]Factory{}}
	r.Register(alphavantage.ProviderName, func(s Settings) usecase.MarketProvider {
		return alphavantage.NewClient(alphavantage.Config{APIKey: s.APIKey, BaseURL: s.BaseURL}, s.Client)
	})
	return r
}

// Register adds or replaces the factory for name. Names are case-insensitive.
func (r *Registry) Register(name string, f Factory) {
	r.factories[strings.ToLower(strings.TrimSpace(name))] = f
}

// Names lists the registered provider names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the provider registered under name, or an ErrConfiguration
// error for an unknown name.
func (r *Registry) Resolve(name string, s Settings) (usecase.MarketProvider, error) {
	f, ok := r.factories[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported provider %q (known: %s)",
			usecase.ErrConfiguration, name, strings.Join(r.Names(), ", "))
	}
	return f(s), nil
}
