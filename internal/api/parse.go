package api

import "time"

// parseDay parses a YYYY-MM-DD date. An empty string yields the zero time
// and is accepted.
func parseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, true
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
