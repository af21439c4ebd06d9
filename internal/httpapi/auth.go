package httpapi

import (
	"net/http"
	"strings"

	"dogpark-server/internal/players"
)

const bearerPrefix = "Bearer "

// authenticate extracts and validates the bearer token, per spec §6.
// A missing/malformed header is invalidToken; a well-formed but unknown
// token is unknownToken, so the two failure modes never leak into a
// single ambiguous error.
func (s *Server) authenticate(r *http.Request) (*players.Player, *APIError) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return nil, errInvalidToken
	}
	token := strings.TrimPrefix(header, bearerPrefix)
	if len(token) != 32 || !isHex(token) {
		return nil, errInvalidToken
	}

	var player *players.Player
	var found bool
	s.Engine.Submit(func() {
		player, found = s.Players.Lookup(token)
	})
	if !found {
		return nil, errUnknownToken
	}
	return player, nil
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
