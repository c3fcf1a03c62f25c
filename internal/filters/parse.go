// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/apex/log"
)

// longFormRegex matches "field:operator" with an optional ":value" tail, e.g.
// "salary:between:50000..100000" or "email:isEmpty".
var longFormRegex = regexp.MustCompile(`^([^:=!<>@^$]+):([A-Za-z]+)(?::(.*))?$`)

// shortFormRegex matches "field<symbol>value" where symbol is one of
// = != @ !@ ^ $ > < >= <=. Two character symbols are listed first so they
// win over their one character prefixes.
var shortFormRegex = regexp.MustCompile(`^([^:=!<>@^$]+)(!=|!@|>=|<=|=|@|\^|\$|>|<)(.*)$`)

// BuildFilters parses a filter specification string into a slice of
// Condition. Invalid entries are logged and skipped.
func BuildFilters(spec string) []Condition {
	//nolint:prealloc // Don't prealloc because we don't know what len will be.
	var conditions []Condition

	// If there are no filters specified, go home early.
	if strings.TrimSpace(spec) == "" {
		return conditions
	}

	// Default delimiter is ",", allow an override for situations where the value
	// contains commas.
	delim := ","
	if d, ok := os.LookupEnv("ROSTERQ_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	for _, entry := range strings.Split(spec, delim) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		c, err := ParseFilter(entry)
		if err != nil {
			log.Errorf("invalid filter: %s: %v", entry, err)
			continue
		}
		conditions = append(conditions, c)
	}

	return conditions
}

// ParseFilter parses a single long or short form filter entry.
func ParseFilter(entry string) (Condition, error) {
	entry = strings.TrimSpace(entry)

	if parts := longFormRegex.FindStringSubmatch(entry); parts != nil {
		// parts[1] is the field, parts[2] the operator name and parts[3] the
		// optional value.
		field := strings.TrimSpace(parts[1])
		op, ok := ParseOperator(parts[2])
		if !ok {
			return Condition{}, fmt.Errorf("unknown operator %q", parts[2])
		}
		return Condition{Field: field, Operator: op, Value: InferValue(op, parts[3])}, nil
	}

	if parts := shortFormRegex.FindStringSubmatch(entry); parts != nil {
		field := strings.TrimSpace(parts[1])
		op := symbols[parts[2]]
		return Condition{Field: field, Operator: op, Value: InferValue(op, parts[3])}, nil
	}

	return Condition{}, fmt.Errorf("expected field:operator[:value] or field<op>value")
}

// InferValue types raw text for op without knowing the field's type:
// "a..b" is a range, "a|b" a list, true/false a bool and decimal text a
// number. Substring operators always take the text as is.
func InferValue(op Operator, raw string) Value {
	switch op.Arity() {
	case ArityNone:
		return Null()
	case ArityRange:
		lo, hi, ok := strings.Cut(raw, "..")
		if !ok {
			return Null()
		}
		lo, hi = strings.TrimSpace(lo), strings.TrimSpace(hi)
		if isNumeric(lo) && isNumeric(hi) {
			return NumberRange(parseNumber(lo), parseNumber(hi))
		}
		return DateRange(lo, hi)
	case ArityList:
		if strings.TrimSpace(raw) == "" {
			return List()
		}
		var items []Value
		for _, part := range strings.Split(raw, "|") {
			part = strings.TrimSpace(part)
			if isNumeric(part) {
				items = append(items, Number(parseNumber(part)))
			} else {
				items = append(items, String(part))
			}
		}
		return List(items...)
	}

	if op.IsText() {
		return String(raw)
	}

	trimmed := strings.TrimSpace(raw)
	switch {
	case strings.EqualFold(trimmed, "true"):
		return Bool(true)
	case strings.EqualFold(trimmed, "false"):
		return Bool(false)
	case isNumeric(trimmed):
		return Number(parseNumber(trimmed))
	default:
		return String(raw)
	}
}

// FormatFilter renders c in long form, the inverse of ParseFilter.
func FormatFilter(c Condition) string {
	if c.Operator.Arity() == ArityNone {
		return c.Field + ":" + string(c.Operator)
	}
	return c.Field + ":" + string(c.Operator) + ":" + c.Value.String()
}
