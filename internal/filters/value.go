// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"encoding/json"
	"strings"
	"time"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindDateRange
	KindNumberRange
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindDateRange:
		return "dateRange"
	case KindNumberRange:
		return "numberRange"
	default:
		return "unknown"
	}
}

// Value is the right hand side of a condition. Only the fields belonging to
// Kind are meaningful; the zero Value is null.
type Value struct {
	Kind Kind

	Str  string
	Num  float64
	Bool bool
	List []Value

	// DateRange bounds.
	Start string
	End   string

	// NumberRange bounds.
	Min float64
	Max float64
}

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// List returns a list value. An empty list holds a nil slice.
func List(items ...Value) Value {
	if len(items) == 0 {
		return Value{Kind: KindList}
	}
	return Value{Kind: KindList, List: items}
}

// Strings returns a list of string values.
func Strings(items ...string) Value {
	list := make([]Value, 0, len(items))
	for _, s := range items {
		list = append(list, String(s))
	}
	return List(list...)
}

// DateRange returns an inclusive {start,end} date range.
func DateRange(start, end string) Value {
	return Value{Kind: KindDateRange, Start: start, End: end}
}

// NumberRange returns an inclusive {min,max} numeric range.
func NumberRange(min, max float64) Value {
	return Value{Kind: KindNumberRange, Min: min, Max: max}
}

// ValueOf converts a decoded JSON or YAML value into a Value. Maps carrying
// min and max become numeric ranges, maps carrying start and end become date
// ranges. Any other shape it does not recognise becomes null.
func ValueOf(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case time.Time:
		return String(formatTime(t))
	case map[string]any:
		return rangeOf(t)
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[stringify(k)] = val
		}
		return rangeOf(m)
	}

	if n, ok := toFloat64(v); ok {
		return Number(n)
	}

	if items, ok := asList(v); ok {
		list := make([]Value, 0, len(items))
		for _, item := range items {
			list = append(list, ValueOf(item))
		}
		return List(list...)
	}

	return Null()
}

// rangeOf recognises the two range shapes. {min,max} wins when both are
// present.
func rangeOf(m map[string]any) Value {
	minV, hasMin := m["min"]
	maxV, hasMax := m["max"]
	if hasMin && hasMax {
		return NumberRange(toNumber(minV), toNumber(maxV))
	}

	start, hasStart := m["start"]
	end, hasEnd := m["end"]
	if hasStart && hasEnd {
		return DateRange(stringify(start), stringify(end))
	}

	return Null()
}

// Interface returns the plain Go form of v: nil, string, float64, bool,
// []any or map[string]any. It is the form used for JSON and YAML encoding.
func (v Value) Interface() any {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return v.Num
	case KindBool:
		return v.Bool
	case KindList:
		items := make([]any, 0, len(v.List))
		for _, item := range v.List {
			items = append(items, item.Interface())
		}
		return items
	case KindDateRange:
		return map[string]any{"start": v.Start, "end": v.End}
	case KindNumberRange:
		return map[string]any{"min": v.Min, "max": v.Max}
	default:
		return nil
	}
}

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// String renders v in the filter spec syntax: lists as a|b, ranges as a..b.
func (v Value) String() string {
	switch v.Kind {
	case KindList:
		parts := make([]string, 0, len(v.List))
		for _, item := range v.List {
			parts = append(parts, item.String())
		}
		return strings.Join(parts, "|")
	case KindDateRange:
		return v.Start + ".." + v.End
	case KindNumberRange:
		return formatNumber(v.Min) + ".." + formatNumber(v.Max)
	default:
		return v.text()
	}
}

// text is the string form used for comparisons.
func (v Value) text() string {
	return stringify(v.Interface())
}

// number is the numeric coercion of v. Ranges are 0.
func (v Value) number() float64 {
	switch v.Kind {
	case KindDateRange, KindNumberRange:
		return 0
	default:
		return toNumber(v.Interface())
	}
}

// MarshalJSON encodes v in its plain form.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes any JSON value, see ValueOf.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = ValueOf(raw)
	return nil
}

// MarshalYAML encodes v in its plain form.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.Interface(), nil
}

// UnmarshalYAML decodes any YAML value, see ValueOf. The callback form works
// with both yaml.v2 and yaml.v3.
func (v *Value) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*v = ValueOf(raw)
	return nil
}
