package tasks

import (
	"context"
	"time"

	"github.com/nathantheresa/portfolio/internal/logging"
)

// Sweeper drops stale entries and reports how many it removed
type Sweeper interface {
	Sweep() int
}

// SweepRecorder receives the result of every sweep
type SweepRecorder interface {
	ObserveLedgerSweep(removed int)
}

// LedgerSweep periodically prunes the in-memory contact ledger so sources
// that stopped posting do not hold memory until they are evicted.
type LedgerSweep struct {
	ledger   Sweeper
	interval time.Duration
	recorder SweepRecorder
	logger   *logging.Logger
}

func NewLedgerSweep(ledger Sweeper, interval time.Duration, recorder SweepRecorder, logger *logging.Logger) *LedgerSweep {
	return &LedgerSweep{
		ledger:   ledger,
		interval: interval,
		recorder: recorder,
		logger:   logger,
	}
}

// Start runs the sweep in the background until ctx is cancelled. The
// returned channel is closed once the goroutine has exited.
func (ls *LedgerSweep) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ls.run(ctx)
	}()
	return done
}

func (ls *LedgerSweep) run(ctx context.Context) {
	ticker := time.NewTicker(ls.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ls.sweep()
		}
	}
}

func (ls *LedgerSweep) sweep() {
	removed := ls.ledger.Sweep()
	if ls.recorder != nil {
		ls.recorder.ObserveLedgerSweep(removed)
	}
	if removed > 0 {
		ls.logger.Debug("Ledger sweep removed %d idle sources", removed)
	}
}
