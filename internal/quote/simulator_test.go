package quote_test

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/quantpulse/Trading-Signals-Backend/internal/quote"
)

// TestSimulator_Next tests the price simulation properties.
//
// WHY: every downstream calculation (holdings, portfolios, signals) consumes
// simulated prices; the perturbation must stay bounded and internally
// consistent or the cascading aggregates drift.
func TestSimulator_Next(t *testing.T) {
	t.Run("perturbation is bounded by volatility", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		volatilities := []float64{0.02, 0.1, 0.5, 0.9}
		prices := []float64{0.5, 10, 100, 5000}

		for _, volatility := range volatilities {
			sim := quote.NewSimulatorWithSource(volatility, rng)
			for _, price := range prices {
				for i := 0; i < 200; i++ {
					tick := sim.Next(price)

					// Allow for the 2-decimal rounding of the stored change.
					bound := price*volatility/2 + 0.005
					if math.Abs(tick.Change) > bound {
						t.Fatalf("volatility %v price %v: change %v exceeds bound %v",
							volatility, price, tick.Change, bound)
					}
				}
			}
		}
	})

	t.Run("changePercent is consistent with change", func(t *testing.T) {
		rng := rand.New(rand.NewSource(2))
		sim := quote.NewSimulatorWithSource(0.02, rng)

		for i := 0; i < 500; i++ {
			previousPrice := 100.0
			tick := sim.Next(previousPrice)

			expected := tick.Change / previousPrice * 100
			if math.Abs(tick.ChangePercent-expected) > 0.01 {
				t.Fatalf("changePercent %v inconsistent with change %v (expected ~%v)",
					tick.ChangePercent, tick.Change, expected)
			}
		}
	})

	t.Run("values are rounded to two decimals", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))
		sim := quote.NewSimulatorWithSource(0.02, rng)

		for i := 0; i < 100; i++ {
			tick := sim.Next(123.456789)
			for name, v := range map[string]float64{
				"price":         tick.Price,
				"change":        tick.Change,
				"changePercent": tick.ChangePercent,
			} {
				if math.Abs(v*100-math.Round(v*100)) > 1e-9 {
					t.Fatalf("%s %v is not rounded to 2 decimals", name, v)
				}
			}
		}
	})

	t.Run("volume stays in expected range", func(t *testing.T) {
		rng := rand.New(rand.NewSource(4))
		sim := quote.NewSimulatorWithSource(0.02, rng)

		for i := 0; i < 100; i++ {
			tick := sim.Next(100)
			if tick.Volume < 10_000_000 || tick.Volume >= 110_000_000 {
				t.Fatalf("volume %d outside [10M, 110M)", tick.Volume)
			}
		}
	})

	t.Run("is safe for concurrent use", func(t *testing.T) {
		// One simulator is shared by the cron schedule and the HTTP sync
		// trigger; run under -race this catches unguarded source access.
		rng := rand.New(rand.NewSource(5))
		sim := quote.NewSimulatorWithSource(0.02, rng)

		var wg sync.WaitGroup
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 200; i++ {
					tick := sim.Next(100)
					if tick.Price <= 0 {
						t.Errorf("unexpected non-positive price %v", tick.Price)
						return
					}
				}
			}()
		}
		wg.Wait()
	})
}
