package simulator

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/tradesense/tradesense/pkg/api"
)

// instrument is one simulated feed. Prices jitter around the base so the
// dashboard always has something moving; no real market data is involved.
type instrument struct {
	base     float64
	currency string
	last     float64
}

// Market serves simulated quotes for the supported tickers.
type Market struct {
	mu          sync.Mutex
	rng         *rand.Rand
	instruments map[string]*instrument
}

// NewMarket creates the default simulated market: Bitcoin in dollars plus
// two Casablanca listings in dirhams. rng may be nil.
func NewMarket(rng *rand.Rand) *Market {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Market{
		rng: rng,
		instruments: map[string]*instrument{
			"BTC-USD": {base: 64000.00, currency: "$"},
			"IAM":     {base: 92.50, currency: "MAD"},
			"ATW":     {base: 480.00, currency: "MAD"},
		},
	}
}

// Quote returns a fresh quote for ticker, or false for unknown tickers.
func (m *Market) Quote(ticker string) (*api.Quote, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inst, ok := m.instruments[ticker]
	if !ok {
		return nil, false
	}

	if inst.last == 0 {
		inst.last = inst.base
	}
	// Small step around the previous price, pulled gently back toward the
	// base so the walk cannot drift off screen.
	step := (m.rng.Float64() - 0.5) * inst.base * 0.01
	pull := (inst.base - inst.last) * 0.05
	inst.last = inst.last + step + pull

	change := (inst.last - inst.base) / inst.base * 100
	return &api.Quote{
		Ticker:   ticker,
		Price:    round2(inst.last),
		Change:   round2(change),
		Currency: inst.currency,
	}, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
