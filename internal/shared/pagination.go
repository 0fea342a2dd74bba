package shared

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hisaab-cloud/hisaab/internal/platform/httpx"
)

const (
	// DefaultLimit is applied when a list request omits the limit parameter.
	DefaultLimit = 50
	// MaxLimit caps every list request regardless of what was asked for.
	MaxLimit = 100
)

// PageParams carries normalized pagination values for list queries.
type PageParams struct {
	Limit  int
	Offset int
}

// ParsePage reads limit/offset query parameters, clamping limit to
// [1, MaxLimit] and offset to >= 0. Unparseable values fall back to defaults.
func ParsePage(r *http.Request) PageParams {
	p := PageParams{Limit: DefaultLimit}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.Limit = v
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.Offset = v
		}
	}

	return p
}

// QueryDate reads an optional YYYY-MM-DD query parameter. A malformed value
// is rejected with an INVALID_* code derived from the parameter name.
func QueryDate(r *http.Request, name string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, httpx.BadRequest("INVALID_"+FieldCode(name), name+" must be YYYY-MM-DD")
	}
	return &t, nil
}
