package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ignite/guest-marketing/internal/domain"
)

// parseLimit reads ?limit=, defaulting to domain.DefaultListLimit. The
// services clamp the value.
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return domain.DefaultListLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("limit: %q is not an integer", raw)
	}
	return n, nil
}

// parseDateParam reads a YYYY-MM-DD query parameter. A missing value
// returns nil unless required.
func parseDateParam(r *http.Request, name string, required bool) (*domain.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if required {
			return nil, fmt.Errorf("%s is required", name)
		}
		return nil, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: expected YYYY-MM-DD", name)
	}
	return &d, nil
}

// parseBoolParam reads a boolean query parameter, accepting
// true/false, 1/0, yes/no and on/off.
func parseBoolParam(r *http.Request, name string, def bool) (bool, error) {
	raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(name)))
	switch raw {
	case "":
		return def, nil
	case "true", "1", "yes", "on", "t", "y":
		return true, nil
	case "false", "0", "no", "off", "f", "n":
		return false, nil
	default:
		return false, fmt.Errorf("%s: %q is not a boolean", name, raw)
	}
}

func parseSegmentParam(r *http.Request) (domain.Segment, error) {
	return domain.ParseSegment(r.URL.Query().Get("segment"))
}
