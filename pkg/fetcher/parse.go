package fetcher

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Best-effort field coercion. The data API returns numeric fields
// inconsistently typed (number, string, occasionally garbage), and a
// failed parse must yield nil for that field only, never abort the
// surrounding entry.

// parseFloat coerces a loosely typed JSON value to a float, or nil
func parseFloat(v interface{}) *float64 {
	switch x := v.(type) {
	case float64:
		return &x
	case int:
		f := float64(x)
		return &f
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return &f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return &f
		}
	}
	return nil
}

// firstFloat coerces the first element of a list, or nil for an empty list
func firstFloat(list []interface{}) *float64 {
	if len(list) == 0 {
		return nil
	}
	return parseFloat(list[0])
}

// stripPMCPrefix removes the fixed "PMC" prefix from a PubMed Central ID
func stripPMCPrefix(id string) string {
	return strings.TrimPrefix(id, "PMC")
}
