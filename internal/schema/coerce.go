package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ParseID parses an id value. Integral JSON numbers and integer strings are
// accepted; everything else, including nil and bools, is rejected.
func ParseID(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int(x), true
	case json.Number:
		if n, ok := parseIntString(x.String()); ok {
			return n, true
		}
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return ParseID(f)
	case string:
		return parseIntString(x)
	default:
		return 0, false
	}
}

// CoerceCapacity never fails: unparsable or negative input becomes 0.
// This is deliberately looser than ParseID.
func CoerceCapacity(v any) int {
	n, ok := ParseID(v)
	if !ok || n < 0 {
		return 0
	}
	return n
}

func parseIntString(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// AsString formats a raw field value as text. nil becomes "".
func AsString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// CoerceDates accepts a list of strings or a literal-list string. Anything else,
// including a list with a non-string element, yields an empty list.
// Duplicates are dropped keeping the first occurrence.
func CoerceDates(v any) []string {
	var dates []string
	switch x := v.(type) {
	case []string:
		dates = x
	case []any:
		dates = make([]string, 0, len(x))
		for _, el := range x {
			s, ok := el.(string)
			if !ok {
				return []string{}
			}
			dates = append(dates, s)
		}
	case string:
		parsed, err := ParseList(x)
		if err != nil {
			return []string{}
		}
		dates = parsed
	default:
		return []string{}
	}
	return dedupe(dates)
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
