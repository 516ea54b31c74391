package sysloadbench

import "time"

// Params carries the keyword arguments of a run. They are handed to the
// setup, prerun and benchmark functions inside the worker process and must
// therefore be JSON-serializable; numbers arrive in the worker as float64.
type Params map[string]any

// String returns the string stored under key, or fallback.
func (p Params) String(key, fallback string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return fallback
}

// Int returns the integer stored under key, or fallback. Values that crossed
// the process boundary arrive as float64 and are truncated.
func (p Params) Int(key string, fallback int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return fallback
}

// Float returns the float stored under key, or fallback.
func (p Params) Float(key string, fallback float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return fallback
}

// Bool returns the bool stored under key, or fallback.
func (p Params) Bool(key string, fallback bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return fallback
}

// Duration returns the duration stored under key, or fallback. Durations
// serialize as integer nanoseconds, so numeric values are read back that
// way; strings are parsed with time.ParseDuration.
func (p Params) Duration(key string, fallback time.Duration) time.Duration {
	switch v := p[key].(type) {
	case time.Duration:
		return v
	case int:
		return time.Duration(v)
	case int64:
		return time.Duration(v)
	case float64:
		return time.Duration(v)
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
