package scanner

import (
	"fmt"
	"sync"
	"time"
)

// progressTracker reports rebuild progress on an interval while workers run.
type progressTracker struct {
	total     int
	processed int
	errors    int
	startTime time.Time
	ticker    *time.Ticker
	done      chan bool
	mu        sync.Mutex
}

func newProgressTracker(total int) *progressTracker {
	return &progressTracker{
		total: total,
		done:  make(chan bool),
	}
}

func (t *progressTracker) start() {
	t.startTime = time.Now()
	t.ticker = time.NewTicker(2 * time.Second)

	go func() {
		for {
			select {
			case <-t.ticker.C:
				t.print()
			case <-t.done:
				return
			}
		}
	}()
}

func (t *progressTracker) stop() {
	t.ticker.Stop()
	close(t.done)
	t.print()
}

func (t *progressTracker) recordProcessed() {
	t.mu.Lock()
	t.processed++
	t.mu.Unlock()
}

func (t *progressTracker) recordError() {
	t.mu.Lock()
	t.errors++
	t.mu.Unlock()
}

func (t *progressTracker) print() {
	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := time.Since(t.startTime).Round(time.Millisecond)
	fmt.Printf("Indexed %d/%d entries (%d errors) in %v\n",
		t.processed, t.total, t.errors, elapsed)
}
