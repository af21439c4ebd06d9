package httpapi

import (
	"net/http"
	"strconv"
)

func itoa(id uint64) string { return strconv.FormatUint(id, 10) }

// parseRecordsQuery validates the ?start=&maxItems= query parameters for
// GET /api/v1/game/records, per spec §6 (maxItems in (0,100]).
func parseRecordsQuery(r *http.Request) (start, maxItems int, apiErr *APIError) {
	start = 0
	maxItems = 100

	if v := r.URL.Query().Get("start"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, 0, withMessage(errInvalidArgument, "start must be a non-negative integer")
		}
		start = n
	}
	if v := r.URL.Query().Get("maxItems"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			return 0, 0, withMessage(errInvalidArgument, "maxItems must be in (0,100]")
		}
		maxItems = n
	}
	return start, maxItems, nil
}
