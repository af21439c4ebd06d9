package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"dogpark-server/internal/engine"
	"dogpark-server/internal/loot"
	"dogpark-server/internal/model"
	"dogpark-server/internal/players"
	"dogpark-server/internal/retirement"
	"dogpark-server/internal/session"
	"dogpark-server/pkg/logger"
)

// Server holds every dependency the HTTP handlers need. All game-state
// access goes through Engine.Submit so it runs on the serialization
// domain, per spec §5.
type Server struct {
	Game        *session.Game
	Engine      *engine.Engine
	Players     *players.Registry
	Factory     retirement.UnitOfWorkFactory
	SpawnPolicy loot.SpawnPolicy

	// TickEnabled is true only when no internal ticker is running
	// (--tick-period was not passed), per spec §6.
	TickEnabled bool
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleListMaps(w http.ResponseWriter, r *http.Request) {
	maps := s.Game.Maps()
	out := make([]MapSummary, 0, len(maps))
	for _, m := range maps {
		out = append(out, MapSummary{ID: m.ID, Name: m.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	m, ok := s.Game.Map(id)
	if !ok {
		writeError(w, errMapNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toMapDetail(m))
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request, req JoinRequest) {
	m, ok := s.Game.Map(req.MapID)
	if !ok {
		writeError(w, errMapNotFound)
		return
	}

	var resp JoinResponse
	failed := false
	s.Engine.Submit(func() {
		gs, err := s.Game.SessionFor(m.ID)
		if err != nil {
			// Map existed a moment ago; treat as internal, not the
			// client's fault.
			logger.Component("httpapi").WithField("error", err.Error()).Error("session lookup failed after map existence check")
			failed = true
			return
		}
		id := s.Game.NextDogID()
		pos := loot.DogSpawnPoint(s.SpawnPolicy, m, s.Game.RNG())
		dog := session.NewDog(id, req.UserName, pos, s.Game.BagCapacity(m))
		gs.AddDog(dog)

		token, player := s.Players.Join(id, m.ID, req.UserName)
		resp = JoinResponse{AuthToken: token, PlayerID: player.ID}
	})
	if failed {
		writeError(w, errInternal)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	player, apiErr := s.authenticate(r)
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}

	out := make(map[string]PlayerSummary)
	s.Engine.Submit(func() {
		gs, err := s.Game.SessionFor(player.MapID)
		if err != nil {
			return
		}
		for id, d := range gs.Dogs {
			out[itoa(id)] = PlayerSummary{Name: d.Name}
		}
	})
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	player, apiErr := s.authenticate(r)
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	debug := r.URL.Query().Get("debug") == "1"

	resp := StateResponse{Players: map[string]DogStateDTO{}, LostObjects: map[string]LostObjectDTO{}}
	s.Engine.Submit(func() {
		gs, err := s.Game.SessionFor(player.MapID)
		if err != nil {
			return
		}
		for id, d := range gs.Dogs {
			bag := make([]BagEntryDTO, 0, len(d.Bag))
			for _, e := range d.Bag {
				bag = append(bag, BagEntryDTO{ID: e.LootID, Type: e.LootType})
			}
			dto := DogStateDTO{
				Pos:   [2]float64{d.Pos.X, d.Pos.Y},
				Speed: [2]float64{d.Vel.X, d.Vel.Y},
				Dir:   d.Dir.String(),
				Bag:   bag,
				Score: d.Score,
			}
			if debug {
				idle := d.IdleForMs
				dto.IdleFor = &idle
				bagCap := d.BagCapacity
				dto.BagCap = &bagCap
			}
			resp.Players[itoa(id)] = dto
		}
		for id, l := range gs.Loot {
			resp.LostObjects[itoa(id)] = LostObjectDTO{Type: l.Type, Pos: [2]float64{l.Pos.X, l.Pos.Y}}
		}
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request, req ActionRequest) {
	player, apiErr := s.authenticate(r)
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}

	s.Engine.Submit(func() {
		gs, err := s.Game.SessionFor(player.MapID)
		if err != nil {
			return
		}
		dog, ok := gs.Dogs[player.ID]
		if !ok {
			return
		}
		speed := s.Game.Speed(gs.Map)
		if req.Move == "" {
			dog.SetVelocity(dog.Dir, true, speed)
			return
		}
		dir, _ := model.ParseDirection(req.Move)
		dog.SetVelocity(dir, false, speed)
	})
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request, req TickRequest) {
	if !s.TickEnabled {
		writeError(w, withMessage(errInvalidArgument, "tick endpoint is disabled while an internal ticker is running"))
		return
	}
	s.Engine.Submit(func() {
		s.Engine.Tick(float64(req.TimeDelta))
	})
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	start, maxItems, apiErr := parseRecordsQuery(r)
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	uow, err := s.Factory.Begin(ctx)
	if err != nil {
		logger.Component("httpapi").WithField("error", err.Error()).Error("records: begin unit of work")
		writeError(w, errInternal)
		return
	}
	defer uow.Rollback(ctx)

	rows, err := uow.GetRetiredDogs().FetchRange(ctx, start, maxItems)
	if err != nil {
		logger.Component("httpapi").WithField("error", err.Error()).Error("records: fetch range")
		writeError(w, errInternal)
		return
	}

	out := make([]RecordDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, RecordDTO{Name: row.Name, Score: row.Score, PlayTime: float64(row.PlayTimeMs) / 1000})
	}
	writeJSON(w, http.StatusOK, out)
}
