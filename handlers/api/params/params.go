// Package params reads and bounds-checks request parameters.
package params

import (
	"fmt"
	"net/http"
	"strconv"

	"pinboard-server/core"
)

// QueryInt reads an integer query parameter, falling back to def when absent.
// Values that are not integers or fall outside [min, max] are unprocessable.
func QueryInt(r *http.Request, name string, def, min, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, core.ErrUnprocessable(fmt.Sprintf("%s must be an integer", name))
	}
	if v < min || v > max {
		return 0, core.ErrUnprocessable(fmt.Sprintf("%s must be between %d and %d", name, min, max))
	}
	return v, nil
}

// PathInt64 parses a chi-style URL parameter that was already extracted as raw.
func PathInt64(raw, name string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, core.ErrUnprocessable(fmt.Sprintf("%s must be an integer", name))
	}
	return v, nil
}
