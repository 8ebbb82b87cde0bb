package models

// StockStatus is the availability signal reported for a target
type StockStatus string

const (
	StockIn      StockStatus = "In"
	StockOut     StockStatus = "Out"
	StockInvalid StockStatus = "Invalid"
)

// FetchStatus records how the fetch for a target terminated
type FetchStatus string

const (
	FetchOK                FetchStatus = "ok"
	FetchInvalid           FetchStatus = "invalid"
	FetchExhaustedAttempts FetchStatus = "exhausted_attempts"
	FetchExhaustedProxies  FetchStatus = "exhausted_proxies"
	FetchCancelled         FetchStatus = "cancelled"
)

// Target is a tracked SKU and the product page it is priced from
type Target struct {
	SKU string `json:"sku"`
	URL string `json:"url"`
}

// ExtractionResult is produced exactly once per target, in input order.
// Price is nil when no price applies (invalid or cancelled targets).
type ExtractionResult struct {
	SKU         string      `json:"sku"`
	URL         string      `json:"url"`
	StockStatus StockStatus `json:"stock"`
	Price       *string     `json:"price"`
	RemovalFlag bool        `json:"remove"`
	FetchStatus FetchStatus `json:"fetch_status"`
	Attempts    int         `json:"attempts"`
}

// PriceString returns the price or an empty string when absent
func (r ExtractionResult) PriceString() string {
	if r.Price == nil {
		return ""
	}
	return *r.Price
}

// NeedsReview reports whether the result carries placeholder values
func (r ExtractionResult) NeedsReview() bool {
	return r.FetchStatus != FetchOK
}
