package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tradesense/tradesense/pkg/api"
)

type fakeBackend struct {
	priceCalls   atomic.Int64
	accountCalls atomic.Int64

	priceErr   error
	accountNil bool
	balance    atomic.Int64
}

func (f *fakeBackend) Price(ctx context.Context, ticker string) (*api.Quote, error) {
	f.priceCalls.Add(1)
	if f.priceErr != nil {
		return nil, f.priceErr
	}
	return &api.Quote{Ticker: ticker, Price: 100, Change: 0.5}, nil
}

func (f *fakeBackend) Account(ctx context.Context) (*api.Account, error) {
	f.accountCalls.Add(1)
	if f.accountNil {
		return nil, nil
	}
	return &api.Account{Balance: float64(f.balance.Load()), StartBalance: 100000, Status: "active"}, nil
}

func (f *fakeBackend) requests() int64 {
	return f.priceCalls.Load() + f.accountCalls.Load()
}

func TestStartFiresOneImmediateRound(t *testing.T) {
	backend := &fakeBackend{}
	s := New(backend, []string{"BTC-USD", "IAM"}, time.Hour)
	s.Start(context.Background())
	defer s.Stop()

	waitFor(t, func() bool { return backend.requests() == 3 })
	// Interval is an hour: no further requests should show up.
	time.Sleep(30 * time.Millisecond)
	if got := backend.requests(); got != 3 {
		t.Fatalf("requests after immediate round got=%d want=3", got)
	}

	if _, ok := s.Quote("BTC-USD"); !ok {
		t.Error("BTC-USD quote should be populated after first round")
	}
	if _, ok := s.Quote("IAM"); !ok {
		t.Error("IAM quote should be populated after first round")
	}
	if _, ok := s.Account(); !ok {
		t.Error("account should be populated after first round")
	}
}

func TestPollingTicksIssueThreeRequestsEach(t *testing.T) {
	backend := &fakeBackend{}
	s := New(backend, []string{"BTC-USD", "IAM"}, 20*time.Millisecond)
	s.Start(context.Background())

	// Wait for the immediate round plus at least two ticks.
	waitFor(t, func() bool { return backend.requests() >= 9 })
	s.Stop()

	if backend.requests()%3 != 0 {
		t.Errorf("requests should arrive in rounds of three, got %d", backend.requests())
	}
}

func TestStopHaltsPolling(t *testing.T) {
	backend := &fakeBackend{}
	s := New(backend, []string{"BTC-USD", "IAM"}, 10*time.Millisecond)
	s.Start(context.Background())
	waitFor(t, func() bool { return backend.requests() >= 3 })
	s.Stop()

	after := backend.requests()
	time.Sleep(50 * time.Millisecond)
	if got := backend.requests(); got != after {
		t.Fatalf("requests after Stop: got=%d want=%d", got, after)
	}
}

func TestFetchFailureDoesNotStopLoop(t *testing.T) {
	backend := &fakeBackend{priceErr: errors.New("connection refused")}
	s := New(backend, []string{"BTC-USD"}, 10*time.Millisecond)
	s.Start(context.Background())
	defer s.Stop()

	// Price fetches keep failing; the loop must keep polling and the
	// account stream must be unaffected.
	waitFor(t, func() bool { return backend.priceCalls.Load() >= 3 })
	if _, ok := s.Quote("BTC-USD"); ok {
		t.Error("failed fetches must not populate the quote slot")
	}
	if _, ok := s.Account(); !ok {
		t.Error("account stream should be unaffected by price failures")
	}
}

func TestNilAccountKeepsLastValue(t *testing.T) {
	backend := &fakeBackend{}
	backend.balance.Store(100000)
	s := New(backend, []string{"BTC-USD"}, time.Hour)
	s.RefreshAccount(context.Background())

	account, ok := s.Account()
	if !ok || account.Balance != 100000 {
		t.Fatalf("expected populated account, got %+v ok=%v", account, ok)
	}

	backend.accountNil = true
	s.RefreshAccount(context.Background())
	account, ok = s.Account()
	if !ok || account.Balance != 100000 {
		t.Fatalf("nil response must keep last snapshot, got %+v ok=%v", account, ok)
	}
}

func TestRefreshAccountIsSingleRequest(t *testing.T) {
	backend := &fakeBackend{}
	s := New(backend, []string{"BTC-USD"}, time.Hour)
	s.RefreshAccount(context.Background())
	if got := backend.accountCalls.Load(); got != 1 {
		t.Fatalf("account calls got=%d want=1", got)
	}
	if got := backend.priceCalls.Load(); got != 0 {
		t.Fatalf("price calls got=%d want=0", got)
	}
}

func TestSlotRejectsStaleSequence(t *testing.T) {
	var slot Slot[*api.Quote]
	older := slot.NextSeq()
	newer := slot.NextSeq()

	if !slot.Apply(newer, &api.Quote{Price: 2}) {
		t.Fatal("newer response should apply")
	}
	if slot.Apply(older, &api.Quote{Price: 1}) {
		t.Fatal("stale response must be rejected")
	}

	quote, ok := slot.Load()
	if !ok || quote.Price != 2 {
		t.Fatalf("slot should hold the newer value, got %+v", quote)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
