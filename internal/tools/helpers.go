package tools

import (
	"encoding/json"
	"math"
	"strconv"
)

// Args are the decoded "arguments" of a tools/call request.
type Args map[string]any

// Has reports whether key was supplied, including an explicit null.
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// String returns a non-empty string argument.
func (a Args) String(key string) (string, bool) {
	s, ok := a[key].(string)
	return s, ok && s != ""
}

// Bool returns a boolean argument.
func (a Args) Bool(key string) (bool, bool) {
	b, ok := a[key].(bool)
	return b, ok
}

// Number returns a numeric argument given as a JSON number or numeric string.
// NaN and infinities are treated as absent.
func (a Args) Number(key string) (float64, bool) {
	var f float64
	switch v := a[key].(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// StringSlice returns an array argument as strings.
func (a Args) StringSlice(key string) ([]string, bool) {
	v, ok := a[key].([]interface{})
	if !ok {
		return nil, false
	}
	return ToStringSlice(v), true
}

// ToStringSlice converts []interface{} (from MCP params) to []string.
// Non-string elements are silently skipped.
func ToStringSlice(v []interface{}) []string {
	out := make([]string, 0, len(v))
	for _, item := range v {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// clamp converts a numeric argument into [lo, hi]. Missing, non-numeric and
// zero values fall back to def.
func clamp(a Args, key string, def, lo, hi int) int {
	f, ok := a.Number(key)
	if !ok || f == 0 {
		return def
	}
	if f <= float64(lo) {
		return lo
	}
	if f >= float64(hi) {
		return hi
	}
	return int(f)
}

const (
	defaultLimit = 19
	maxLimit     = 50
	maxRandom    = 10
)

func clampLimit(a Args) int {
	return clamp(a, "limit", defaultLimit, 1, maxLimit)
}

func clampCount(a Args) int {
	return clamp(a, "count", 1, 1, maxRandom)
}

// offset returns a non-negative integer offset, default 0.
func offset(a Args) int {
	f, ok := a.Number("offset")
	if !ok || f < 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

// dedupe removes repeated strings while keeping first-seen order.
func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
