package app

import (
	"time"

	"github.com/tradesense/tradesense/pkg/api"
)

// uiTickMsg drives the dashboard redraw and feeds polled quotes into the
// chart series.
type uiTickMsg time.Time

// paymentDoneMsg fires when the simulated payment processing delay elapses.
type paymentDoneMsg struct{}

// challengeStartedMsg carries the result of the start_challenge call made
// right after payment.
type challengeStartedMsg struct {
	err error
}

// tradeDoneMsg carries the outcome of one submitted order.
type tradeDoneMsg struct {
	ticker string
	side   api.Side
	result *api.TradeResult
	err    error
}

// notifExpireMsg clears the notification slot. gen ties the expiry to the
// notification that scheduled it, so an overwritten notification keeps its
// own full lifetime.
type notifExpireMsg struct {
	gen int
}
