package snapshot

import (
	"dogpark-server/internal/players"
	"dogpark-server/internal/session"
	"dogpark-server/pkg/logger"
)

// Listener periodically saves the live game state to Path, per spec §4.9.
// A negative IntervalMs disables the periodic save; callers still invoke
// Save directly for the mandatory on-shutdown snapshot.
type Listener struct {
	Path       string
	IntervalMs float64
	Game       *session.Game
	Players    *players.Registry

	sinceLastSave float64
}

// NewListener builds a periodic snapshot listener. intervalMs < 0 means
// "manual only": OnTick never saves, only an explicit Save call does.
func NewListener(path string, intervalMs float64, game *session.Game, registry *players.Registry) *Listener {
	return &Listener{Path: path, IntervalMs: intervalMs, Game: game, Players: registry}
}

// OnTick accumulates elapsed time and saves once it reaches the configured
// interval, per spec §4.9. A save failure is logged and swallowed: it must
// never interrupt the tick or destroy the previous snapshot.
func (l *Listener) OnTick(dt float64) {
	if l.IntervalMs < 0 {
		return
	}
	l.sinceLastSave += dt
	if l.sinceLastSave < l.IntervalMs {
		return
	}
	l.sinceLastSave = 0
	if err := l.Save(); err != nil {
		logger.Component("snapshot").WithField("error", err.Error()).Warn("periodic snapshot save failed")
	}
}

// Save writes the current state to Path immediately, bypassing the
// interval accumulator. Used both by OnTick and by the shutdown path.
func (l *Listener) Save() error {
	return SaveState(l.Path, State{Game: l.Game, Players: l.Players})
}
