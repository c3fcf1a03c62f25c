// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// isoDatePrefix marks field values compared as dates by the ordering
// operators.
var isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// dateLayouts are tried in order by parseDate. Layouts without a zone parse
// as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"2006",
}

// parseDate parses s as a date and returns epoch milliseconds.
func parseDate(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return float64(t.UnixMilli()), true
		}
	}
	return math.NaN(), false
}

// parseDateAny parses a field value as a date. time.Time values are taken as
// is.
func parseDateAny(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return math.NaN(), false
	case time.Time:
		return float64(t.UnixMilli()), true
	default:
		return parseDate(stringify(v))
	}
}

// normalizeText lower cases and trims s for comparison.
func normalizeText(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// stringify renders v the way a UI would show it: nil is empty, arrays are
// comma joined and mappings are compact JSON.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return formatTime(t)
	case Value:
		return t.text()
	}

	if n, ok := toFloat64(v); ok {
		return formatNumber(n)
	}

	if items, ok := asList(v); ok {
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, stringify(item))
		}
		return strings.Join(parts, ",")
	}

	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}

	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}

// formatNumber renders n without trailing zeros or exponent.
func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// formatTime renders midnight UTC as a bare date and anything else as
// RFC3339.
func formatTime(t time.Time) string {
	if t.Equal(t.Truncate(24*time.Hour)) && t.Location() == time.UTC {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}

// toNumber coerces v to a number. Anything that is not numeric, including
// NaN, becomes 0.
func toNumber(v any) float64 {
	var n float64
	switch t := v.(type) {
	case nil:
		return 0
	case bool:
		if t {
			return 1
		}
		return 0
	case string:
		n = parseNumber(t)
	case time.Time:
		return float64(t.UnixMilli())
	case Value:
		return t.number()
	default:
		if f, ok := toFloat64(v); ok {
			n = f
		} else if items, ok := asList(v); ok {
			switch len(items) {
			case 0:
				return 0
			case 1:
				n = parseNumber(stringify(items[0]))
			default:
				return 0
			}
		}
	}

	if math.IsNaN(n) {
		return 0
	}
	return n
}

// parseNumber parses a decimal number. Blank is 0, garbage is NaN.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	// ParseFloat also accepts hex, underscores, "inf" and "nan"; only plain
	// decimal notation counts here.
	if strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && !strings.ContainsRune("+-.eE", r)
	}) >= 0 {
		return math.NaN()
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return n
		}
		return math.NaN()
	}
	return n
}

// isNumeric reports whether s is a plain decimal number.
func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && !math.IsNaN(parseNumber(s))
}

// asList returns the elements of v when v is a slice or array. Strings and
// byte slices are not lists.
func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case nil, string, []byte:
		return nil, false
	case []any:
		return t, true
	case []string:
		items := make([]any, len(t))
		for i, s := range t {
			items[i] = s
		}
		return items, true
	case []Value:
		items := make([]any, len(t))
		for i, s := range t {
			items[i] = s
		}
		return items, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// toFloat64 attempts to normalize various numeric types to float64.
// Returns (0, false) if v is not a recognized numeric type.
func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// IsDate reports whether s parses as a date.
func IsDate(s string) bool {
	_, ok := parseDate(s)
	return ok
}

// IsNumber reports whether s is plain decimal text.
func IsNumber(s string) bool {
	return isNumeric(s)
}

// ParseNumber parses plain decimal text. ok is false for anything else.
func ParseNumber(s string) (float64, bool) {
	if !isNumeric(s) {
		return 0, false
	}
	return parseNumber(s), true
}
