// Package search defines the web search providers the overlay can host.
package search

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ErrEmptyQuery is returned for queries that are blank after trimming.
var ErrEmptyQuery = errors.New("search query is empty")

// Provider maps a query to a results page and describes the provider's
// account session.
type Provider interface {
	ID() string
	DisplayName() string
	Subtitle() string
	SearchURL(query string) (string, error)
	HomeURL() string
	SignInURL() string
	// CookieDomain is matched as a substring of cookie domains.
	CookieDomain() string
	SessionCookieNames() []string
	// InputSelectors locate the in-page query input, in priority order.
	InputSelectors() []string
}

const (
	DuckDuckGo = "duckduckgo"
	Brave      = "brave"
	Google     = "google"

	// DefaultID is the provider used when none is configured.
	DefaultID = Google
)

type engine struct {
	id             string
	displayName    string
	subtitle       string
	searchBase     string
	spaceAsPercent bool
	home           string
	signIn         string
	cookieDomain   string
	sessionCookies []string
	selectors      []string
}

func (e *engine) ID() string                   { return e.id }
func (e *engine) DisplayName() string          { return e.displayName }
func (e *engine) Subtitle() string             { return e.subtitle }
func (e *engine) HomeURL() string              { return e.home }
func (e *engine) SignInURL() string            { return e.signIn }
func (e *engine) CookieDomain() string         { return e.cookieDomain }
func (e *engine) SessionCookieNames() []string { return slices.Clone(e.sessionCookies) }
func (e *engine) InputSelectors() []string     { return slices.Clone(e.selectors) }

func (e *engine) SearchURL(query string) (string, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return "", ErrEmptyQuery
	}
	encoded := url.QueryEscape(trimmed)
	if e.spaceAsPercent {
		encoded = strings.ReplaceAll(encoded, "+", "%20")
	}
	raw := e.searchBase + encoded
	if _, err := url.Parse(raw); err != nil {
		return "", fmt.Errorf("build %s search url: %w", e.id, err)
	}
	return raw, nil
}

var providers = []*engine{
	{
		id:             DuckDuckGo,
		displayName:    "DuckDuckGo",
		subtitle:       "Privacy-first results with instant answers.",
		searchBase:     "https://duckduckgo.com/?ia=web&q=",
		spaceAsPercent: true,
		home:           "https://duckduckgo.com",
		selectors:      []string{`input[name="q"]`},
	},
	{
		id:          Brave,
		displayName: "Brave Search",
		subtitle:    "Independent index with AI summaries.",
		searchBase:  "https://search.brave.com/search?q=",
		home:        "https://search.brave.com",
		selectors:   []string{`textarea[name="q"]`, `input[name="q"]`},
	},
	{
		id:             Google,
		displayName:    "Google",
		subtitle:       "Comprehensive search across the web.",
		searchBase:     "https://www.google.com/search?q=",
		home:           "https://www.google.com",
		signIn:         "https://accounts.google.com",
		cookieDomain:   "google.com",
		sessionCookies: []string{"SID", "SSID", "HSID"},
		selectors:      []string{`textarea[name="q"]`, `input[name="q"]`},
	},
}

// Lookup returns the provider with id.
func Lookup(id string) (Provider, bool) {
	for _, p := range providers {
		if p.id == id {
			return p, true
		}
	}
	return nil, false
}

// MustLookup is Lookup for compile-time known ids.
func MustLookup(id string) Provider {
	p, ok := Lookup(id)
	if !ok {
		panic("search: unknown provider " + id)
	}
	return p
}

// Default returns the default provider.
func Default() Provider { return MustLookup(DefaultID) }

// All returns every provider in display order.
func All() []Provider {
	out := make([]Provider, 0, len(providers))
	for _, p := range providers {
		out = append(out, p)
	}
	return out
}

// SignInSupported reports whether p exposes an account session.
func SignInSupported(p Provider) bool {
	return p.SignInURL() != "" && len(p.SessionCookieNames()) > 0
}
