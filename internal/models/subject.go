package models

// SubjectProperty is the property under analysis. Price and DOM come
// from user input when given; otherwise they are proxied from comp
// medians (see risk.ResolveSubject). A proxied field is flagged so the
// reasoning text can note the reduced confidence.
type SubjectProperty struct {
	Address      string   `json:"address"`
	Price        *float64 `json:"price"`
	DaysOnMarket *int     `json:"days_on_market"`
	PriceProxied bool     `json:"price_proxied"`
	DOMProxied   bool     `json:"dom_proxied"`
}
