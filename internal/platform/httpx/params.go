package httpx

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// PathID extracts a positive integer path parameter. A missing or
// non-numeric value yields an INVALID_ID error.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, BadRequest("INVALID_ID", "invalid "+name)
	}
	return id, nil
}
