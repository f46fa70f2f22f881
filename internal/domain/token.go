package domain

// TokenRecord is the persisted view of a token the pipeline has observed.
type TokenRecord struct {
	Mint         string `json:"mint"`
	BondingCurve string `json:"bondingCurve,omitempty"`
	Creator      string `json:"creator,omitempty"`
	Name         string `json:"name,omitempty"`
	Symbol       string `json:"symbol,omitempty"`
	URI          string `json:"uri,omitempty"`
	Signature    string `json:"signature"`
	Slot         int64  `json:"slot"`
	Timestamp    int64  `json:"timestamp"` // Unix ms
	Graduated    bool   `json:"graduated"`
}

// ATHRecord is the current per-mint price maximum.
// PriceSol is monotonically non-decreasing across the mint's lifetime.
type ATHRecord struct {
	Mint      string   `json:"mint"`
	PriceSol  float64  `json:"priceSol"`
	PriceUsd  *float64 `json:"priceUsd,omitempty"`
	Signature string   `json:"signature"`
	Slot      int64    `json:"slot"`
	Timestamp int64    `json:"timestamp"` // Unix ms
}

// ATHHistoryEntry is one append-only row of the per-mint maximum history.
type ATHHistoryEntry struct {
	Mint      string  `json:"mint"`
	PriceSol  float64 `json:"priceSol"`
	Signature string  `json:"signature"`
	Slot      int64   `json:"slot"`
	Timestamp int64   `json:"timestamp"` // Unix ms
}
