package domain

// Currency is an ISO-style currency code from the closed set the platform
// supports. The code, not an ordinal, is what gets persisted.
type Currency string

const (
	USD Currency = "USD"
	INR Currency = "INR"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	CAD Currency = "CAD"
	AUD Currency = "AUD"
	CHF Currency = "CHF"
)

type currencyInfo struct {
	Symbol      string
	DisplayName string
}

var currencies = map[Currency]currencyInfo{
	USD: {"$", "US Dollar"},
	INR: {"₹", "Indian Rupee"},
	EUR: {"€", "Euro"},
	GBP: {"£", "British Pound"},
	JPY: {"¥", "Japanese Yen"},
	CAD: {"C$", "Canadian Dollar"},
	AUD: {"A$", "Australian Dollar"},
	CHF: {"Fr", "Swiss Franc"},
}

// IsSupported reports whether c belongs to the supported currency set.
func (c Currency) IsSupported() bool {
	_, ok := currencies[c]
	return ok
}

// Symbol returns the display symbol for the currency, or the code itself if unknown.
func (c Currency) Symbol() string {
	if info, ok := currencies[c]; ok {
		return info.Symbol
	}
	return string(c)
}

// DisplayName returns the human-readable currency name.
func (c Currency) DisplayName() string {
	if info, ok := currencies[c]; ok {
		return info.DisplayName
	}
	return string(c)
}
