package bankproto

import "strconv"

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
