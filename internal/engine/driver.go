package engine

import (
	"sync"
	"time"
)

// TickDriver periodically invokes the engine's Tick on the serialization
// domain, per spec §4.11. Start records last_tick = now(); each fire
// computes the actual elapsed delta rather than assuming a fixed period,
// so a delayed goroutine schedule doesn't desync simulated time from
// wall-clock time.
type TickDriver struct {
	engine *Engine
	period time.Duration

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewTickDriver builds a driver that calls engine.Tick every period.
func NewTickDriver(engine *Engine, period time.Duration) *TickDriver {
	return &TickDriver{engine: engine, period: period, stop: make(chan struct{})}
}

// Start begins the periodic loop in a background goroutine.
func (d *TickDriver) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		lastTick := time.Now()
		ticker := time.NewTicker(d.period)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				delta := now.Sub(lastTick)
				lastTick = now
				d.engine.Submit(func() {
					d.engine.Tick(float64(delta.Milliseconds()))
				})
			case <-d.stop:
				return
			}
		}
	}()
}

// Stop cancels the periodic loop and waits for it to exit. Stopping the
// engine does not stop the loop; the engine itself is stopped separately
// by the caller.
func (d *TickDriver) Stop() {
	close(d.stop)
	d.wg.Wait()
}
