package runner

// concurrent.go: worker pool for equity-curve synthesis.
//
// Every trader owns its random stream, so curves can be built in any order
// and on any number of workers without changing a single output byte.

import (
	"log/slog"
	"runtime"
	"sync"

	"github.com/alejandrodnm/tradersim/internal/application/synth"
	"github.com/alejandrodnm/tradersim/internal/domain"
)

// synthesizeCurves builds one equity curve per trader, drawing from rngs[i]
// for trader i. Results are indexed like traders.
//
// If workers <= 0 it uses runtime.NumCPU().
func synthesizeCurves(
	traders []domain.Trader,
	rngs []*synth.Rand,
	points int,
	initial float64,
	workers int,
) [][]float64 {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(traders))

	curves := make([][]float64, len(traders))
	workCh := make(chan int, len(traders))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workCh {
				curves[i] = synth.EquityCurve(rngs[i], points, initial, traders[i].Archetype)
			}
		}()
	}

	for i := range traders {
		workCh <- i
	}
	close(workCh)
	wg.Wait()

	slog.Debug("equity curves synthesized", "traders", len(traders), "workers", workers)
	return curves
}
