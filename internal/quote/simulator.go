// Package quote simulates market price movement for the synchronization pass.
// Real market-data feeds are out of scope; prices are perturbed randomly
// around their previous value.
package quote

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Tick is one simulated price movement for an instrument.
type Tick struct {
	Price         float64
	Change        float64
	ChangePercent float64
	Volume        int64
}

// Simulator produces simulated price ticks with a fixed relative volatility.
// Safe for concurrent use; the underlying random source is guarded by a mutex.
type Simulator struct {
	volatility float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator creates a Simulator with the given volatility in (0,1).
// The caller is responsible for validating the volatility range.
func NewSimulator(volatility float64) *Simulator {
	//nolint:gosec // G404: simulated market data, not security-sensitive
	return NewSimulatorWithSource(volatility, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSimulatorWithSource creates a Simulator with an explicit random source,
// allowing deterministic sequences in tests.
func NewSimulatorWithSource(volatility float64, rng *rand.Rand) *Simulator {
	return &Simulator{
		volatility: volatility,
		rng:        rng,
	}
}

// Next produces a new tick from a previous price. The offset is drawn
// uniformly from [-volatility/2, +volatility/2] and applied as a relative
// perturbation; price, change and changePercent are rounded to 2 decimals
// before being stored to bound floating drift.
func (s *Simulator) Next(previousPrice float64) Tick {
	s.mu.Lock()
	offset := (s.rng.Float64() - 0.5) * s.volatility
	volume := s.rng.Int63n(100_000_000) + 10_000_000
	s.mu.Unlock()

	newPrice := previousPrice * (1 + offset)
	change := newPrice - previousPrice
	changePercent := change / previousPrice * 100

	return Tick{
		Price:         round2(newPrice),
		Change:        round2(change),
		ChangePercent: round2(changePercent),
		Volume:        volume,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
