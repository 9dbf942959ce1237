package session

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tradesense/tradesense/pkg/api"
	"github.com/tradesense/tradesense/pkg/logger"
)

// Backend is the slice of the API client the session needs.
type Backend interface {
	Account(ctx context.Context) (*api.Account, error)
	Price(ctx context.Context, ticker string) (*api.Quote, error)
}

// Session polls ticker quotes and the account snapshot while the dashboard
// is active. It is an explicit handle: Start on dashboard entry, Stop on
// exit. Fetch failures are logged and swallowed; the loop never stops on
// error and never retries within a tick.
type Session struct {
	backend  Backend
	tickers  []string
	interval time.Duration
	log      *logrus.Entry

	quotes  map[string]*Slot[*api.Quote]
	account Slot[*api.Account]

	mu      sync.Mutex
	cancel  context.CancelFunc
	started bool
	wg      sync.WaitGroup
}

// New creates a session polling the given tickers every interval.
func New(backend Backend, tickers []string, interval time.Duration) *Session {
	quotes := make(map[string]*Slot[*api.Quote], len(tickers))
	for _, ticker := range tickers {
		quotes[ticker] = &Slot[*api.Quote]{}
	}
	return &Session{
		backend:  backend,
		tickers:  tickers,
		interval: interval,
		log:      logger.WithComponent("session"),
		quotes:   quotes,
	}
}

// Start launches the polling loop: an immediate round of fetches, then one
// round per interval until Stop. Starting an already-started session is a
// no-op.
func (s *Session) Start(parent context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	loopCtx, cancel := context.WithCancel(parent)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.pollOnce(loopCtx)
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				s.pollOnce(loopCtx)
			}
		}
	}()
}

// Stop cancels the polling loop and waits for it to exit. In-flight
// requests are not interrupted beyond context cancellation; late responses
// are rejected by the sequence guard if a newer one already landed.
func (s *Session) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.started = false
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// pollOnce fires one independent fetch per ticker plus the account fetch.
// No deduplication: if a previous round is still in flight, both run.
func (s *Session) pollOnce(ctx context.Context) {
	for _, ticker := range s.tickers {
		ticker := ticker
		slot := s.quotes[ticker]
		seq := slot.NextSeq()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			quote, err := s.backend.Price(ctx, ticker)
			if err != nil {
				s.log.WithError(err).Warnf("price poll failed for %s", ticker)
				return
			}
			slot.Apply(seq, quote)
		}()
	}

	seq := s.account.NextSeq()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.fetchAccount(ctx, seq)
	}()
}

// RefreshAccount fetches the account snapshot once, outside the timer.
// Used for read-after-write right after a successful trade. Safe to call
// whether or not the loop is running.
func (s *Session) RefreshAccount(ctx context.Context) {
	s.fetchAccount(ctx, s.account.NextSeq())
}

func (s *Session) fetchAccount(ctx context.Context, seq uint64) {
	account, err := s.backend.Account(ctx)
	if err != nil {
		s.log.WithError(err).Warn("account poll failed")
		return
	}
	if account == nil {
		// Backend has no challenge yet; keep whatever we had.
		return
	}
	s.account.Apply(seq, account)
}

// Quote returns the latest applied quote for ticker.
func (s *Session) Quote(ticker string) (*api.Quote, bool) {
	slot, ok := s.quotes[ticker]
	if !ok {
		return nil, false
	}
	return slot.Load()
}

// Account returns the latest applied account snapshot.
func (s *Session) Account() (*api.Account, bool) {
	return s.account.Load()
}
