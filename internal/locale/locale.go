// Package locale maps the configured storefront to its language and currency.
package locale

import "strings"

// DefaultBaseURL is the storefront used when none is configured.
const DefaultBaseURL = "https://www.rohlik.cz"

// Storefront describes one regional storefront of the grocery service.
type Storefront struct {
	Domain         string
	AcceptLanguage string
	Currency       string
}

// storefronts is ordered so lookups are deterministic.
var storefronts = []Storefront{
	{Domain: "rohlik.cz", AcceptLanguage: "cs-CZ,cs;q=0.9,en;q=0.8", Currency: "CZK"},
	{Domain: "knuspr.de", AcceptLanguage: "de-DE,de;q=0.9,en;q=0.8", Currency: "EUR"},
	{Domain: "gurkerl.at", AcceptLanguage: "de-AT,de;q=0.9,en;q=0.8", Currency: "EUR"},
	{Domain: "kifli.hu", AcceptLanguage: "hu-HU,hu;q=0.9,en;q=0.8", Currency: "HUF"},
	{Domain: "sezamo.ro", AcceptLanguage: "ro-RO,ro;q=0.9,en;q=0.8", Currency: "RON"},
}

const (
	fallbackAcceptLanguage = "en;q=0.9"
	fallbackCurrency       = "CZK"
)

// Lookup returns the storefront whose domain occurs in baseURL.
func Lookup(baseURL string) (Storefront, bool) {
	for _, s := range storefronts {
		if strings.Contains(baseURL, s.Domain) {
			return s, true
		}
	}
	return Storefront{}, false
}

// AcceptLanguage returns the Accept-Language header value for baseURL.
func AcceptLanguage(baseURL string) string {
	if s, ok := Lookup(baseURL); ok {
		return s.AcceptLanguage
	}
	return fallbackAcceptLanguage
}

// Currency returns the display currency code for baseURL.
func Currency(baseURL string) string {
	if s, ok := Lookup(baseURL); ok {
		return s.Currency
	}
	return fallbackCurrency
}
