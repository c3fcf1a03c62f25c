// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters evaluates filter conditions against records.
//
// A Condition is a (field, operator, value) predicate. The field is a
// dot-notation path resolved with the driller package, the operator is one of
// the Operator constants and the value is a Value, a tagged union of the
// shapes a condition can carry (null, string, number, bool, list, date range
// and numeric range).
//
// Operators:
//
//   - equals, notEquals : case-insensitive, trimmed equality (numeric when the
//     value is a number, exact when both sides are booleans)
//   - contains, doesNotContain : case-insensitive substring
//   - startsWith, endsWith : case-insensitive prefix / suffix
//   - isEmpty, isNotEmpty : empty array or blank string form
//   - greaterThan, lessThan, greaterThanOrEqual, lessThanOrEqual : date
//     comparison when the field looks like an ISO date, numeric otherwise
//   - between : inclusive numeric {min,max} or date {start,end} range
//   - in, notIn : membership in a list, against scalar or array fields
//
// Combining Conditions:
//
// Apply keeps a record when, for every distinct field, at least one condition
// on that field matches. Conditions on the same field are OR'd, fields are
// AND'd. Output order follows input order.
//
// Permissive Evaluation:
//
// Evaluation never fails. Missing fields, mismatched types, unparsable dates
// and non-numeric strings degrade to a default (absent, 0, empty list or
// false), so half-typed conditions from an interactive session can always be
// evaluated.
//
// Filter Specs:
//
// BuildFilters parses comma-delimited command line specs such as
// "department=Engineering,salary:between:50000..100000,skills:in:Go|Rust"
// into Conditions. Invalid entries are logged and skipped.
package filters
