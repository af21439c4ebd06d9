package retirement

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"dogpark-server/internal/players"
	"dogpark-server/internal/session"
	"dogpark-server/pkg/logger"
)

// maxSuffixAttempts bounds the retry-with-suffix loop. The original never
// handled duplicate names at all — its OnTick just logs and retries next
// tick on any error, name collisions included — so retry-with-suffix here
// is this package's own resolution of spec §9's open question, not
// something carried over. Past this bound the dog is left in place to
// retry on a later tick, per the "commit failure never loses the dog"
// invariant.
const maxSuffixAttempts = 5

// Listener retires dogs that have been idle for at least MaxIdleMs, per
// spec §4.8. It implements engine.ApplicationListener by structural typing.
type Listener struct {
	Game     *session.Game
	Players  *players.Registry
	Factory  UnitOfWorkFactory
	MaxIdleMs float64
}

// NewListener builds a retirement listener over the given game state and
// DB unit-of-work factory.
func NewListener(g *session.Game, p *players.Registry, factory UnitOfWorkFactory, maxIdleMs float64) *Listener {
	return &Listener{Game: g, Players: p, Factory: factory, MaxIdleMs: maxIdleMs}
}

// OnTick scans every session for idle-expired dogs and retires each in its
// own unit of work, per spec §4.8. dt is unused: retirement acts on
// accumulated idle_for, not on this tick's delta.
func (l *Listener) OnTick(dt float64) {
	log := logger.Component("retirement")
	ctx := context.Background()

	for _, s := range l.Game.Sessions() {
		for _, d := range dogsSnapshot(s) {
			if d.IdleForMs < l.MaxIdleMs {
				continue
			}
			if err := l.retireOne(ctx, s, d); err != nil {
				log.WithFields(map[string]any{
					"dog_id": d.ID,
					"map_id": s.MapID,
					"error":  err.Error(),
				}).Warn("retirement failed, will retry next tick")
			}
		}
	}
}

// dogsSnapshot copies the dog pointer list so retireOne may mutate the
// session's dog map mid-iteration without disturbing a live range.
func dogsSnapshot(s *session.GameSession) []*session.Dog {
	out := make([]*session.Dog, 0, len(s.Dogs))
	for _, d := range s.Dogs {
		out = append(out, d)
	}
	return out
}

// retireOne performs the four steps of spec §4.8 as a single unit of work.
// Commit happens before any in-memory cleanup: a failing DB must not lose
// the dog.
func (l *Listener) retireOne(ctx context.Context, s *session.GameSession, d *session.Dog) error {
	uow, err := l.Factory.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}
	defer uow.Rollback(ctx)

	repo := uow.GetRetiredDogs()
	name := d.Name
	var saveErr error
	for attempt := 0; attempt < maxSuffixAttempts; attempt++ {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("generate retirement id: %w", err)
		}
		saveErr = repo.Save(ctx, RetiredDog{
			ID:         id,
			Name:       name,
			Score:      d.Score,
			PlayTimeMs: int64(d.AgeMs),
		})
		if saveErr == nil {
			break
		}
		if saveErr != ErrDuplicateName {
			return fmt.Errorf("save retired dog: %w", saveErr)
		}
		name = fmt.Sprintf("%s (%d)", d.Name, attempt+2)
	}
	if saveErr != nil {
		return fmt.Errorf("save retired dog: exhausted name retries: %w", saveErr)
	}

	if err := uow.Commit(ctx); err != nil {
		return fmt.Errorf("commit retirement: %w", err)
	}

	s.RemoveDog(d.ID)
	if err := l.Players.Remove(d.ID); err != nil {
		logger.Component("retirement").WithField("dog_id", d.ID).Warn("committed retirement but player already gone: " + err.Error())
	}
	return nil
}
