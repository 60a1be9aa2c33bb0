// Package utils provides small parsing helpers for query and form parameters.
// They are transport-agnostic and carry no domain logic.
package utils

import (
	"strconv"
	"strings"
)

// AtoiDefault parses s as an int, returning def when s is empty, padded, or
// not a valid integer.
func AtoiDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// BoolDefault parses s with strconv.ParseBool semantics ("1", "t", "true",
// "0", "f", "false", case-insensitive), returning def for anything else.
func BoolDefault(s string, def bool) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}
