package blipc

import "strconv"

// atoiDefault parses s as a decimal integer, returning def if s is empty or
// not a valid integer. Used throughout the emitters for command arguments
// that are tolerant of garbage input (the original scans with atoi, which
// silently returns 0 on non-numeric input; callers here choose their own
// fallback instead of silently treating garbage as zero).
func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
