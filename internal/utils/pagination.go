// Package utils provides small, generic helpers that carry no domain or
// business logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int, falling back to def when the
// string is empty or not a valid integer. The actions listing uses it to
// parse page and page_size query parameters, where a missing or garbled
// value should quietly mean "use the default" rather than fail the request.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
