// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"strings"
	"time"

	"github.com/rosterq/rosterq/internal/driller"
)

// Condition is a single (field, operator, value) predicate. ID identifies
// the condition in a store and plays no part in matching.
type Condition struct {
	ID       string   `yaml:"id,omitempty" json:"id,omitempty"`
	Field    string   `yaml:"field" json:"field"`
	Operator Operator `yaml:"operator" json:"operator"`
	Value    Value    `yaml:"value" json:"value"`
}

// Matches reports whether record satisfies c.
func Matches(record any, c Condition) bool {
	field, _ := driller.Drill(record, c.Field)
	return match(field, c.Operator, c.Value)
}

// match evaluates op against a resolved field value. An absent field arrives
// as nil.
func match(field any, op Operator, v Value) bool {
	switch op {
	case OpEquals:
		return equals(field, v)
	case OpNotEquals:
		return !equals(field, v)
	case OpContains:
		return strings.Contains(fieldText(field), normalizeText(v.text()))
	case OpDoesNotContain:
		return !strings.Contains(fieldText(field), normalizeText(v.text()))
	case OpStartsWith:
		return strings.HasPrefix(fieldText(field), normalizeText(v.text()))
	case OpEndsWith:
		return strings.HasSuffix(fieldText(field), normalizeText(v.text()))
	case OpIsEmpty:
		return isEmpty(field)
	case OpIsNotEmpty:
		return !isEmpty(field)
	case OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual:
		return compare(field, op, v)
	case OpBetween:
		return between(field, v)
	case OpIn:
		return in(field, v)
	case OpNotIn:
		return !in(field, v)
	default:
		return false
	}
}

func fieldText(field any) string {
	return normalizeText(stringify(field))
}

func equals(field any, v Value) bool {
	if b, ok := field.(bool); ok && v.Kind == KindBool {
		return b == v.Bool
	}

	if _, ok := asList(field); ok {
		return false
	}

	s, isString := field.(string)
	if isString && v.Kind == KindString {
		return normalizeText(s) == normalizeText(v.Str)
	}

	if v.Kind == KindNumber {
		if _, isNumber := toFloat64(field); isString || isNumber {
			return toNumber(field) == v.Num
		}
	}

	return stringify(field) == v.text()
}

func isEmpty(field any) bool {
	if items, ok := asList(field); ok {
		return len(items) == 0
	}
	return strings.TrimSpace(stringify(field)) == ""
}

// compare applies an ordering operator. Fields that look like ISO dates are
// compared as epoch milliseconds, everything else as numbers. Range values
// compare as 0.
func compare(field any, op Operator, v Value) bool {
	var f float64
	dateMode := false

	switch t := field.(type) {
	case string:
		if isoDatePrefix.MatchString(t) {
			f, _ = parseDate(t)
			dateMode = true
		} else {
			f = toNumber(t)
		}
	case time.Time:
		f = float64(t.UnixMilli())
		dateMode = true
	default:
		f = toNumber(field)
	}

	var target float64
	switch {
	case v.Kind == KindDateRange || v.Kind == KindNumberRange:
		target = 0
	case dateMode:
		if ts, ok := parseDate(v.text()); ok {
			target = ts
		} else {
			target = v.number()
		}
	default:
		target = v.number()
	}

	// A field that failed to parse as a date is NaN and fails every
	// comparison.
	switch op {
	case OpGreaterThan:
		return f > target
	case OpLessThan:
		return f < target
	case OpGreaterThanOrEqual:
		return f >= target
	case OpLessThanOrEqual:
		return f <= target
	default:
		return false
	}
}

func between(field any, v Value) bool {
	switch v.Kind {
	case KindNumberRange:
		f := toNumber(field)
		return f >= v.Min && f <= v.Max
	case KindDateRange:
		if v.Start == "" || v.End == "" {
			return false
		}
		f, ok := parseDateAny(field)
		if !ok {
			return false
		}
		start, ok := parseDate(v.Start)
		if !ok {
			return false
		}
		end, ok := parseDate(v.End)
		if !ok {
			return false
		}
		return f >= start && f <= end
	default:
		return false
	}
}

// in reports whether the field, or any element of an array field, equals
// one of the list items. A non-list value is an empty list.
func in(field any, v Value) bool {
	if v.Kind != KindList {
		return false
	}

	wanted := make([]string, 0, len(v.List))
	for _, item := range v.List {
		wanted = append(wanted, normalizeText(item.text()))
	}

	contains := func(s string) bool {
		s = normalizeText(s)
		for _, w := range wanted {
			if s == w {
				return true
			}
		}
		return false
	}

	if items, ok := asList(field); ok {
		for _, item := range items {
			if contains(stringify(item)) {
				return true
			}
		}
		return false
	}

	return contains(stringify(field))
}

// Set is a compiled list of conditions, grouped by field with each path
// parsed once. A Set is immutable and safe for concurrent use.
type Set struct {
	groups []group
}

type group struct {
	field      string
	path       driller.Path
	conditions []Condition
}

// Compile groups conditions by field, keeping the order in which fields are
// first seen.
func Compile(conditions []Condition) *Set {
	s := &Set{}
	index := map[string]int{}
	for _, c := range conditions {
		i, ok := index[c.Field]
		if !ok {
			i = len(s.groups)
			index[c.Field] = i
			s.groups = append(s.groups, group{field: c.Field, path: driller.ParsePath(c.Field)})
		}
		s.groups[i].conditions = append(s.groups[i].conditions, c)
	}
	return s
}

// Fields returns the distinct field paths in the set, in first-seen order.
func (s *Set) Fields() []string {
	fields := make([]string, 0, len(s.groups))
	for _, g := range s.groups {
		fields = append(fields, g.field)
	}
	return fields
}

// Match reports whether record satisfies the set: every field group must
// have at least one matching condition. An empty set matches everything.
func (s *Set) Match(record any) bool {
	for _, g := range s.groups {
		field, _ := g.path.Drill(record)
		matched := false
		for _, c := range g.conditions {
			if match(field, c.Operator, c.Value) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// Apply returns the records that satisfy conditions, in their original
// order. The input slice is never modified; with no conditions the result is
// a copy of it.
func Apply[T any](records []T, conditions []Condition) []T {
	result := make([]T, 0, len(records))
	if len(conditions) == 0 {
		return append(result, records...)
	}

	set := Compile(conditions)
	for _, record := range records {
		if set.Match(record) {
			result = append(result, record)
		}
	}
	return result
}
