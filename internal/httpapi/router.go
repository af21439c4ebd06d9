package httpapi

import (
	"net/http"

	"dogpark-server/internal/version"
	"dogpark-server/pkg/logger"
)

// NewRouter builds the full HTTP handler: the JSON API under /api/v1 plus
// a static file server over wwwRoot for everything else, per spec §6
// ("the static-file server... treated as a thin adapter").
func NewRouter(s *Server, wwwRoot string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/maps", s.handleListMaps)
	mux.HandleFunc("GET /api/v1/maps/{id}", s.handleGetMap)
	mux.HandleFunc("POST /api/v1/game/join", WithPayload(s.handleJoin))
	mux.HandleFunc("GET /api/v1/game/players", s.handleListPlayers)
	mux.HandleFunc("GET /api/v1/game/state", s.handleState)
	mux.HandleFunc("POST /api/v1/game/player/action", WithPayload(s.handleAction))
	mux.HandleFunc("POST /api/v1/game/tick", WithPayload(s.handleTick))
	mux.HandleFunc("GET /api/v1/game/records", s.handleRecords)
	mux.HandleFunc("GET /api/v1/version", handleVersion)

	// Only method-specific patterns are registered for the API paths. The
	// catch-all "/" pattern below matches every method, so a request to an
	// API path with a method that path does not register is served by the
	// file server (usually a 404); no 405 or Allow header is produced.

	fileServer := http.FileServer(http.Dir(wwwRoot))
	mux.Handle("/", fileServer)

	return recoverMiddleware(mux)
}

// recoverMiddleware turns a handler panic into a 500, per spec §7 ("all
// non-httpException exceptions from handlers are wrapped"). Without it a
// panic anywhere below the mux crashes the whole process instead of
// failing just the one request.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Component("httpapi").WithFields(map[string]any{
					"panic":  rec,
					"path":   r.URL.Path,
					"method": r.Method,
				}).Error("handler panicked")
				writeError(w, errInternal)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Info())
}
