package simulator

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/tradesense/tradesense/pkg/api"
)

// Challenge status tags, as the client displays them.
const (
	StatusActive = "active"
	StatusFailed = "failed"
	StatusPassed = "passed"
)

const startBalance = 100_000

// Pass/fail thresholds relative to the starting balance.
var (
	failBelowRatio = decimal.NewFromFloat(0.90)
	passAboveRatio = decimal.NewFromFloat(1.10)
)

// ErrNoActiveChallenge is returned when a trade arrives with no active
// challenge. Its text is surfaced to the client verbatim.
var ErrNoActiveChallenge = errors.New("Aucun challenge actif")

// Challenge is the paper account being evaluated.
type Challenge struct {
	StartBalance decimal.Decimal
	Equity       decimal.Decimal
	Status       string
	StartedAt    time.Time
}

// Trade is one executed paper order.
type Trade struct {
	ID         string
	Ticker     string
	Side       api.Side
	EntryPrice decimal.Decimal
	Volume     decimal.Decimal
	Profit     decimal.Decimal
	ExecutedAt time.Time
}

// Ledger holds the challenge and its trades, all in memory. Each trade
// applies a random pnl within ±5% of the notional, then the challenge
// rules: equity at or below 90% of the start fails the challenge, at or
// above 110% passes it. A non-active challenge keeps its status.
type Ledger struct {
	mu        sync.Mutex
	rng       *rand.Rand
	challenge *Challenge
	trades    []Trade
}

// NewLedger creates an empty ledger. rng may be nil.
func NewLedger(rng *rand.Rand) *Ledger {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Ledger{rng: rng}
}

// StartChallenge discards any previous challenge and starts a fresh one.
func (l *Ledger) StartChallenge() *Challenge {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.challenge = &Challenge{
		StartBalance: decimal.NewFromInt(startBalance),
		Equity:       decimal.NewFromInt(startBalance),
		Status:       StatusActive,
		StartedAt:    time.Now(),
	}
	l.trades = nil
	return l.snapshotLocked()
}

// Account returns a copy of the current challenge, or nil when none exists.
func (l *Ledger) Account() *Challenge {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// ExecuteTrade applies one order against the active challenge and returns
// the recorded trade plus the post-trade challenge state.
func (l *Ledger) ExecuteTrade(ticker string, side api.Side, amount int, price float64) (*Trade, *Challenge, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.challenge == nil || l.challenge.Status != StatusActive {
		return nil, nil, ErrNoActiveChallenge
	}

	notional := decimal.NewFromInt(int64(amount))
	entry := decimal.NewFromFloat(price)
	pnl := notional.Mul(decimal.NewFromFloat((l.rng.Float64() - 0.5) * 0.10))
	l.challenge.Equity = l.challenge.Equity.Add(pnl)
	l.applyRulesLocked()

	trade := Trade{
		ID:         uuid.NewString(),
		Ticker:     ticker,
		Side:       side,
		EntryPrice: entry,
		Volume:     notional.Div(entry),
		Profit:     pnl,
		ExecutedAt: time.Now(),
	}
	l.trades = append(l.trades, trade)

	return &trade, l.snapshotLocked(), nil
}

// Trades returns a copy of the executed trades, oldest first.
func (l *Ledger) Trades() []Trade {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Trade, len(l.trades))
	copy(out, l.trades)
	return out
}

func (l *Ledger) applyRulesLocked() {
	c := l.challenge
	if c.Status != StatusActive {
		return
	}
	switch {
	case c.Equity.LessThanOrEqual(c.StartBalance.Mul(failBelowRatio)):
		c.Status = StatusFailed
	case c.Equity.GreaterThanOrEqual(c.StartBalance.Mul(passAboveRatio)):
		c.Status = StatusPassed
	}
}

func (l *Ledger) snapshotLocked() *Challenge {
	if l.challenge == nil {
		return nil
	}
	c := *l.challenge
	return &c
}
