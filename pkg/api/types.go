package api

// Side is the order direction.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Account is the backend's snapshot of the active challenge.
// The authoritative copy lives server side; this is an eventually-stale
// read-only view. Status is one of "active", "failed", "passed", opaque
// tags as far as the client is concerned.
type Account struct {
	Balance      float64 `json:"balance"`
	StartBalance float64 `json:"start_balance"`
	Status       string  `json:"status"`
}

// Quote is a single ticker quote, replaced wholesale on each poll.
type Quote struct {
	Ticker   string  `json:"ticker"`
	Price    float64 `json:"price"`
	Change   float64 `json:"change"`
	Currency string  `json:"currency"`
}

// TradeRequest is the order payload. Amount is the fixed notional.
type TradeRequest struct {
	Ticker string `json:"ticker"`
	Type   Side   `json:"type"`
	Amount int    `json:"amount"`
}

// TradeResult is the backend's acknowledgement of an executed order.
type TradeResult struct {
	Message    string  `json:"message"`
	NewBalance float64 `json:"new_balance"`
	Status     string  `json:"status"`
}
