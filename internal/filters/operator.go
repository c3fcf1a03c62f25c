// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import "strings"

// Operator names a comparison. The string form is what gets persisted.
type Operator string

const (
	OpEquals             Operator = "equals"
	OpNotEquals          Operator = "notEquals"
	OpContains           Operator = "contains"
	OpDoesNotContain     Operator = "doesNotContain"
	OpStartsWith         Operator = "startsWith"
	OpEndsWith           Operator = "endsWith"
	OpIsEmpty            Operator = "isEmpty"
	OpIsNotEmpty         Operator = "isNotEmpty"
	OpGreaterThan        Operator = "greaterThan"
	OpLessThan           Operator = "lessThan"
	OpGreaterThanOrEqual Operator = "greaterThanOrEqual"
	OpLessThanOrEqual    Operator = "lessThanOrEqual"
	OpBetween            Operator = "between"
	OpIn                 Operator = "in"
	OpNotIn              Operator = "notIn"
)

// Operators lists every operator in display order.
var Operators = []Operator{
	OpEquals,
	OpNotEquals,
	OpContains,
	OpDoesNotContain,
	OpStartsWith,
	OpEndsWith,
	OpIsEmpty,
	OpIsNotEmpty,
	OpGreaterThan,
	OpLessThan,
	OpGreaterThanOrEqual,
	OpLessThanOrEqual,
	OpBetween,
	OpIn,
	OpNotIn,
}

// Arity describes the shape of value an operator expects.
type Arity int

const (
	ArityScalar Arity = iota
	ArityNone
	ArityRange
	ArityList
)

// Arity returns the value shape o expects. Unknown operators are scalar.
func (o Operator) Arity() Arity {
	switch o {
	case OpIsEmpty, OpIsNotEmpty:
		return ArityNone
	case OpBetween:
		return ArityRange
	case OpIn, OpNotIn:
		return ArityList
	default:
		return ArityScalar
	}
}

// Valid reports whether o is one of the known operators.
func (o Operator) Valid() bool {
	for _, op := range Operators {
		if op == o {
			return true
		}
	}
	return false
}

// IsText reports whether o compares string forms (substring style).
func (o Operator) IsText() bool {
	switch o {
	case OpContains, OpDoesNotContain, OpStartsWith, OpEndsWith:
		return true
	}
	return false
}

// IsOrdering reports whether o is one of the four ordering comparisons.
func (o Operator) IsOrdering() bool {
	switch o {
	case OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual:
		return true
	}
	return false
}

// ParseOperator finds the operator named s, ignoring case.
func ParseOperator(s string) (Operator, bool) {
	s = strings.TrimSpace(s)
	for _, op := range Operators {
		if strings.EqualFold(string(op), s) {
			return op, true
		}
	}
	return "", false
}

// symbols maps the short form operators accepted by BuildFilters.
var symbols = map[string]Operator{
	"=":  OpEquals,
	"!=": OpNotEquals,
	"@":  OpContains,
	"!@": OpDoesNotContain,
	"^":  OpStartsWith,
	"$":  OpEndsWith,
	">":  OpGreaterThan,
	"<":  OpLessThan,
	">=": OpGreaterThanOrEqual,
	"<=": OpLessThanOrEqual,
}
