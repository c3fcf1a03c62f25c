// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"fmt"
	"strings"

	"github.com/rosterq/rosterq/internal/filters"
)

// FieldType is the declared type of a field.
type FieldType string

const (
	TypeString      FieldType = "string"
	TypeNumber      FieldType = "number"
	TypeDate        FieldType = "date"
	TypeBoolean     FieldType = "boolean"
	TypeSelect      FieldType = "select"
	TypeMultiselect FieldType = "multiselect"
)

// DefaultOperators are offered for a field that does not list its own.
var DefaultOperators = map[FieldType][]filters.Operator{
	TypeString: {
		filters.OpEquals, filters.OpNotEquals, filters.OpContains, filters.OpDoesNotContain,
		filters.OpStartsWith, filters.OpEndsWith, filters.OpIsEmpty, filters.OpIsNotEmpty,
	},
	TypeNumber: {
		filters.OpEquals, filters.OpNotEquals, filters.OpGreaterThan, filters.OpLessThan,
		filters.OpGreaterThanOrEqual, filters.OpLessThanOrEqual, filters.OpBetween,
		filters.OpIsEmpty, filters.OpIsNotEmpty,
	},
	TypeDate: {
		filters.OpEquals, filters.OpNotEquals, filters.OpGreaterThan, filters.OpLessThan,
		filters.OpGreaterThanOrEqual, filters.OpLessThanOrEqual, filters.OpBetween,
		filters.OpIsEmpty, filters.OpIsNotEmpty,
	},
	TypeBoolean: {filters.OpEquals},
	TypeSelect: {
		filters.OpEquals, filters.OpNotEquals, filters.OpIn, filters.OpNotIn,
		filters.OpIsEmpty, filters.OpIsNotEmpty,
	},
	TypeMultiselect: {filters.OpIn, filters.OpNotIn, filters.OpIsEmpty, filters.OpIsNotEmpty},
}

// Option is one choice of a select or multiselect field.
type Option struct {
	Value any    `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Field describes one filterable path.
type Field struct {
	Path        string             `json:"field" yaml:"field"`
	Label       string             `json:"label" yaml:"label"`
	Type        FieldType          `json:"type" yaml:"type"`
	Operators   []filters.Operator `json:"operators,omitempty" yaml:"operators,omitempty"`
	Options     []Option           `json:"options,omitempty" yaml:"options,omitempty"`
	Placeholder string             `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// AllowedOperators returns the field's own operators, or the defaults for its
// type.
func (f Field) AllowedOperators() []filters.Operator {
	if len(f.Operators) > 0 {
		return f.Operators
	}
	return DefaultOperators[f.Type]
}

// Allows reports whether op is offered for f.
func (f Field) Allows(op filters.Operator) bool {
	for _, o := range f.AllowedOperators() {
		if o == op {
			return true
		}
	}
	return false
}

// Catalog is an ordered list of fields.
type Catalog []Field

// Lookup finds the field with the given path.
func (c Catalog) Lookup(path string) (Field, bool) {
	for _, f := range c {
		if f.Path == path {
			return f, true
		}
	}
	return Field{}, false
}

// Paths returns every field path in catalog order.
func (c Catalog) Paths() []string {
	paths := make([]string, 0, len(c))
	for _, f := range c {
		paths = append(paths, f.Path)
	}
	return paths
}

// Validate lists the reasons cond may not behave the way it reads. The
// engine evaluates the condition regardless.
func (c Catalog) Validate(cond filters.Condition) []error {
	var problems []error

	if !cond.Operator.Valid() {
		problems = append(problems, fmt.Errorf("%s: unknown operator %q never matches", cond.Field, cond.Operator))
		return problems
	}

	f, ok := c.Lookup(cond.Field)
	if !ok {
		problems = append(problems, fmt.Errorf("%s: unknown field resolves to nothing", cond.Field))
	} else if !f.Allows(cond.Operator) {
		problems = append(problems, fmt.Errorf("%s: %s is not offered for %s fields", cond.Field, cond.Operator, f.Type))
	}

	v := cond.Value
	isRange := v.Kind == filters.KindDateRange || v.Kind == filters.KindNumberRange

	switch cond.Operator.Arity() {
	case filters.ArityRange:
		if !isRange {
			problems = append(problems, fmt.Errorf("%s: between needs a range value, never matches", cond.Field))
		}
	case filters.ArityList:
		if v.Kind != filters.KindList {
			problems = append(problems, fmt.Errorf("%s: %s needs a list value, treated as empty", cond.Field, cond.Operator))
		}
	case filters.ArityScalar:
		if isRange && cond.Operator.IsOrdering() {
			problems = append(problems, fmt.Errorf("%s: range value with %s compares as 0", cond.Field, cond.Operator))
		}
		if ok && f.Type == TypeNumber && cond.Operator.IsOrdering() && v.Kind == filters.KindString && !filters.IsNumber(v.Str) {
			problems = append(problems, fmt.Errorf("%s: %q is not a number, compares as 0", cond.Field, v.Str))
		}
		if ok && f.Type == TypeDate && cond.Operator.IsOrdering() && v.Kind == filters.KindString && !filters.IsDate(v.Str) {
			problems = append(problems, fmt.Errorf("%s: %q is not a date", cond.Field, v.Str))
		}
	}

	return problems
}

// ParseValue types raw input for a condition on f. Unlike
// filters.InferValue it knows the field's type, so "2020..2021" on a date
// field is a date range and "94102" on a string field stays text.
func (c Catalog) ParseValue(f Field, op filters.Operator, raw string) (filters.Value, error) {
	switch op.Arity() {
	case filters.ArityNone:
		return filters.Null(), nil

	case filters.ArityRange:
		lo, hi, ok := strings.Cut(raw, "..")
		if !ok {
			return filters.Null(), fmt.Errorf("%s: expected a range like a..b, got %q", f.Path, raw)
		}
		lo, hi = strings.TrimSpace(lo), strings.TrimSpace(hi)
		switch f.Type {
		case TypeNumber:
			minV, okMin := filters.ParseNumber(lo)
			maxV, okMax := filters.ParseNumber(hi)
			if !okMin || !okMax {
				return filters.Null(), fmt.Errorf("%s: range bounds must be numbers, got %q", f.Path, raw)
			}
			return filters.NumberRange(minV, maxV), nil
		case TypeDate:
			if !filters.IsDate(lo) || !filters.IsDate(hi) {
				return filters.Null(), fmt.Errorf("%s: range bounds must be dates, got %q", f.Path, raw)
			}
			return filters.DateRange(lo, hi), nil
		default:
			return filters.InferValue(op, raw), nil
		}

	case filters.ArityList:
		var items []filters.Value
		for _, part := range strings.Split(raw, "|") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if f.Type == TypeNumber {
				n, ok := filters.ParseNumber(part)
				if !ok {
					return filters.Null(), fmt.Errorf("%s: list item %q is not a number", f.Path, part)
				}
				items = append(items, filters.Number(n))
				continue
			}
			items = append(items, filters.String(part))
		}
		return filters.List(items...), nil
	}

	if op.IsText() {
		return filters.String(raw), nil
	}

	trimmed := strings.TrimSpace(raw)
	switch f.Type {
	case TypeNumber:
		n, ok := filters.ParseNumber(trimmed)
		if !ok {
			return filters.Null(), fmt.Errorf("%s: %q is not a number", f.Path, raw)
		}
		return filters.Number(n), nil
	case TypeDate:
		if !filters.IsDate(trimmed) {
			return filters.Null(), fmt.Errorf("%s: %q is not a date", f.Path, raw)
		}
		return filters.String(trimmed), nil
	case TypeBoolean:
		switch strings.ToLower(trimmed) {
		case "true", "yes", "1":
			return filters.Bool(true), nil
		case "false", "no", "0":
			return filters.Bool(false), nil
		}
		return filters.Null(), fmt.Errorf("%s: %q is not a boolean", f.Path, raw)
	default:
		return filters.String(raw), nil
	}
}

// Retype re-types the value of cond according to its field's declared
// type. Conditions on unknown fields, and values that do not parse for the
// field, come back unchanged.
func (c Catalog) Retype(cond filters.Condition) filters.Condition {
	f, ok := c.Lookup(cond.Field)
	if !ok || cond.Value.IsNull() {
		return cond
	}
	if v, err := c.ParseValue(f, cond.Operator, cond.Value.String()); err == nil {
		cond.Value = v
	}
	return cond
}

// RetypeAll applies Retype to each condition.
func (c Catalog) RetypeAll(conditions []filters.Condition) []filters.Condition {
	out := make([]filters.Condition, 0, len(conditions))
	for _, cond := range conditions {
		out = append(out, c.Retype(cond))
	}
	return out
}
