// Package players binds authenticated sessions to (map, dog) pairs and
// issues the bearer tokens clients present on every request after joining.
package players

import (
	"fmt"
	"math/rand"

	"dogpark-server/pkg/utils"
)

// Player is a (session, dog) pair; Player.ID always equals the dog's id
// (spec §3).
type Player struct {
	ID    uint64
	MapID string
	Name  string
}

// Registry owns the Player set and the token<->player bijection. Every
// method must run on the engine's serialization domain.
type Registry struct {
	players map[uint64]*Player
	tokens  map[string]uint64
	byPlayer map[uint64]string

	tokenRNGA *rand.Rand
	tokenRNGB *rand.Rand
}

// NewRegistry builds an empty registry. The two PRNGs are independent per
// spec §9 so token issuance never contends with the map/loot spawn PRNG.
func NewRegistry(seedA, seedB int64) *Registry {
	return &Registry{
		players:   make(map[uint64]*Player),
		tokens:    make(map[string]uint64),
		byPlayer:  make(map[uint64]string),
		tokenRNGA: rand.New(rand.NewSource(seedA)),
		tokenRNGB: rand.New(rand.NewSource(seedB)),
	}
}

// Join registers a new player and issues a fresh token, retrying on the
// astronomically unlikely token collision.
func (r *Registry) Join(id uint64, mapID, name string) (token string, p *Player) {
	p = &Player{ID: id, MapID: mapID, Name: name}
	r.players[id] = p

	for {
		tok := utils.NewToken(r.tokenRNGA, r.tokenRNGB)
		if _, taken := r.tokens[tok]; taken {
			continue
		}
		r.tokens[tok] = id
		r.byPlayer[id] = tok
		return tok, p
	}
}

// RestoreToken installs a (token, playerID) pair produced by the snapshot
// loader, bypassing issuance.
func (r *Registry) RestoreToken(token string, playerID uint64) {
	r.tokens[token] = playerID
	r.byPlayer[playerID] = token
}

// RestorePlayer installs a player produced by the snapshot loader.
func (r *Registry) RestorePlayer(p *Player) {
	r.players[p.ID] = p
}

// Lookup resolves a bearer token to its player, distinguishing "not our
// format" from "unknown token" is the HTTP layer's job, not this method's;
// Lookup only reports found/not-found.
func (r *Registry) Lookup(token string) (*Player, bool) {
	id, ok := r.tokens[token]
	if !ok {
		return nil, false
	}
	p, ok := r.players[id]
	return p, ok
}

// ByID returns the player with the given id, if any.
func (r *Registry) ByID(id uint64) (*Player, bool) {
	p, ok := r.players[id]
	return p, ok
}

// All returns every registered player.
func (r *Registry) All() map[uint64]*Player {
	return r.players
}

// Remove drops a player and its token together, keeping the bijection
// intact (spec §8 invariant 4).
func (r *Registry) Remove(id uint64) error {
	tok, ok := r.byPlayer[id]
	if !ok {
		return fmt.Errorf("players: unknown player %d", id)
	}
	delete(r.tokens, tok)
	delete(r.byPlayer, id)
	delete(r.players, id)
	return nil
}

// TokenFor returns the token bound to a player, if any.
func (r *Registry) TokenFor(id uint64) (string, bool) {
	tok, ok := r.byPlayer[id]
	return tok, ok
}
