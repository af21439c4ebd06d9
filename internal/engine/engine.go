// Package engine owns the serialization domain (spec §5): a single
// goroutine draining a task queue, so tick processing, API mutations and
// listener fan-out are totally ordered and race-free. It also implements
// the tick pipeline itself (spec §4.7).
package engine

import (
	"math/rand"
	"sync"
	"sync/atomic"

	"dogpark-server/internal/collision"
	"dogpark-server/internal/loot"
	"dogpark-server/internal/players"
	"dogpark-server/internal/session"
	"dogpark-server/pkg/logger"
)

// ApplicationListener receives a callback after every completed tick, per
// spec §9. Implementations must not block the serialization domain for
// long — retirement's DB writeback is the one sanctioned exception (§5).
type ApplicationListener interface {
	OnTick(dt float64)
}

// ListenerHandle lets a caller deregister a listener. The spec models
// listeners as weak references pruned on next tick; Go's engine already
// holds the only strong reference to each listener for its whole lifetime,
// so an explicit handle serves the same "dead listeners don't run forever"
// purpose without reaching for runtime weak pointers (see DESIGN.md).
type ListenerHandle struct {
	removed atomic.Bool
}

// Remove marks the listener dead; it is pruned on the next tick.
func (h *ListenerHandle) Remove() { h.removed.Store(true) }

type registeredListener struct {
	listener ApplicationListener
	handle   *ListenerHandle
}

// Engine funnels every game-state mutation through one task queue.
type Engine struct {
	Game    *session.Game
	Players *players.Registry
	MaxIdleMs float64

	tasks chan func()
	done  chan struct{}
	wg    sync.WaitGroup

	mu        sync.Mutex
	listeners []registeredListener
}

// New builds an engine over the given game state. Run must be called
// before Submit is used.
func New(game *session.Game, registry *players.Registry, maxIdleMs float64) *Engine {
	return &Engine{
		Game:      game,
		Players:   registry,
		MaxIdleMs: maxIdleMs,
		tasks:     make(chan func(), 64),
		done:      make(chan struct{}),
	}
}

// Run spawns exactly one worker goroutine that drains the task queue, and
// returns immediately. Call Stop to drain and exit.
func (e *Engine) Run() {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		for {
			select {
			case task := <-e.tasks:
				task()
			case <-e.done:
				// Drain whatever is already queued before exiting, so a
				// shutdown never silently drops a pending mutation.
				for {
					select {
					case task := <-e.tasks:
						task()
					default:
						return
					}
				}
			}
		}
	}()
}

// Stop signals the worker to drain and exit, and waits for it to finish.
func (e *Engine) Stop() {
	close(e.done)
	e.wg.Wait()
}

// Submit runs fn on the serialization domain and blocks until it has run.
// Every game-state read or mutation from the HTTP layer goes through this.
func (e *Engine) Submit(fn func()) {
	result := make(chan struct{})
	e.tasks <- func() {
		fn()
		close(result)
	}
	<-result
}

// AddListener registers l for post-tick callbacks and returns a handle the
// caller can use to deregister it later.
func (e *Engine) AddListener(l ApplicationListener) *ListenerHandle {
	h := &ListenerHandle{}
	e.mu.Lock()
	e.listeners = append(e.listeners, registeredListener{listener: l, handle: h})
	e.mu.Unlock()
	return h
}

// Tick runs the full pipeline from spec §4.7 for every session, then fans
// the tick out to listeners. Must only be called from the serialization
// domain (i.e. from inside a Submit callback, or the tick driver).
func (e *Engine) Tick(dt float64) {
	log := logger.Component("engine")

	for _, s := range e.Game.Sessions() {
		spawnLoot(s, dt, e.Game.RNG())

		gatherers := session.AdvanceDogs(s, dt, e.MaxIdleMs)
		items := session.BuildItems(s)
		events := collision.Detect(items, gatherers)
		session.ApplyEvents(s, events, items, gatherers)
	}

	e.mu.Lock()
	live := e.listeners[:0]
	toRun := make([]ApplicationListener, 0, len(e.listeners))
	for _, rl := range e.listeners {
		if rl.handle.removed.Load() {
			continue
		}
		live = append(live, rl)
		toRun = append(toRun, rl.listener)
	}
	e.listeners = live
	e.mu.Unlock()

	for _, l := range toRun {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.WithField("panic", r).Error("listener panicked during OnTick")
				}
			}()
			l.OnTick(dt)
		}()
	}
}

// spawnLoot draws the generator's per-tick count and places each new item
// at a random road point, per spec §4.7 step 1.
func spawnLoot(s *session.GameSession, dt float64, rng *rand.Rand) {
	n := s.Generator.Next(dt, len(s.Loot), len(s.Dogs))
	for i := 0; i < n; i++ {
		typeIdx := 0
		if nt := len(s.Map.LootTypes); nt > 0 {
			typeIdx = rng.Intn(nt)
		}
		pos := loot.RandomRoadPoint(s.Map, rng)
		s.AddLoot(typeIdx, pos)
	}
}
