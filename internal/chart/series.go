package chart

import (
	"math/rand"
	"sync"
	"time"
)

const (
	// syntheticPoints is the number of backdated points seeded before the
	// first real price, purely for visual effect.
	syntheticPoints = 50
	// syntheticSpacing is the time distance between seeded points.
	syntheticSpacing = 3 * time.Second
)

// Point is one plotted value. Time carries 1-second resolution.
type Point struct {
	Time  time.Time
	Value float64
}

// Series holds the plotted history for one ticker.
//
// The first observed price seeds a cosmetic backdated history (a bounded
// random walk around that price); every later observation appends exactly
// one live point. An observation whose timestamp is not strictly newer than
// the last point is dropped silently: polls can arrive faster than the
// 1-second plot resolution and that is not an error.
type Series struct {
	mu     sync.Mutex
	points []Point
	seeded bool
	rng    *rand.Rand
}

// NewSeries creates an empty series. rng may be nil, in which case a
// time-seeded source is used.
func NewSeries(rng *rand.Rand) *Series {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Series{rng: rng}
}

// Observe records a price at the given time. On the first call it seeds the
// synthetic history, then appends the live point.
func (s *Series) Observe(price float64, now time.Time) {
	now = now.Truncate(time.Second)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.seeded {
		s.seed(price, now)
		s.seeded = true
	}

	if len(s.points) > 0 && !now.After(s.points[len(s.points)-1].Time) {
		return
	}
	s.points = append(s.points, Point{Time: now, Value: price})
}

// seed generates the backdated random walk. Steps stay within ±0.25% of the
// running value, so the fake history hugs the first real price.
func (s *Series) seed(price float64, now time.Time) {
	walk := price
	seeded := make([]Point, 0, syntheticPoints)
	for i := syntheticPoints; i > 0; i-- {
		walk = walk + (s.rng.Float64()-0.5)*(walk*0.005)
		seeded = append(seeded, Point{
			Time:  now.Add(-time.Duration(i) * syntheticSpacing),
			Value: walk,
		})
	}
	// Generation walks i downward, so the slice is already in ascending
	// time order; sorting guards the invariant regardless.
	sortPointsByTime(seeded)
	s.points = seeded
}

// Points returns a copy of the plotted points in ascending time order.
func (s *Series) Points() []Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// Values returns the plotted values in time order.
func (s *Series) Values() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Value
	}
	return out
}

// Len returns the number of plotted points.
func (s *Series) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.points)
}

// Seeded reports whether the synthetic history has been generated.
func (s *Series) Seeded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seeded
}

func sortPointsByTime(points []Point) {
	for i := 1; i < len(points); i++ {
		for j := i; j > 0 && points[j].Time.Before(points[j-1].Time); j-- {
			points[j], points[j-1] = points[j-1], points[j]
		}
	}
}
