// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterq/rosterq/internal/filters"
)

func TestEmployeesCatalog(t *testing.T) {
	cat := Employees()

	f, ok := cat.Lookup("address.city")
	require.True(t, ok)
	assert.Equal(t, TypeString, f.Type)
	assert.True(t, f.Allows(filters.OpDoesNotContain))
	assert.False(t, f.Allows(filters.OpBetween))

	f, ok = cat.Lookup("salary")
	require.True(t, ok)
	assert.True(t, f.Allows(filters.OpBetween))

	_, ok = cat.Lookup("hireDate")
	assert.False(t, ok)

	assert.Len(t, cat.Paths(), len(cat))
	for _, f := range cat {
		assert.NotEmpty(t, f.AllowedOperators(), f.Path)
	}
}

func TestParseValue(t *testing.T) {
	cat := Employees()
	field := func(path string) Field {
		f, ok := cat.Lookup(path)
		require.True(t, ok, path)
		return f
	}

	tests := []struct {
		name    string
		field   string
		op      filters.Operator
		raw     string
		want    filters.Value
		wantErr bool
	}{
		{"number scalar", "salary", filters.OpGreaterThan, " 100000 ", filters.Number(100000), false},
		{"number scalar garbage", "salary", filters.OpGreaterThan, "lots", filters.Value{}, true},
		{"number range", "salary", filters.OpBetween, "50000..90000", filters.NumberRange(50000, 90000), false},
		{"number range garbage", "salary", filters.OpBetween, "a..b", filters.Value{}, true},
		{"range without dots", "salary", filters.OpBetween, "50000", filters.Value{}, true},
		{"date range of years", "joinDate", filters.OpBetween, "2020..2021", filters.DateRange("2020", "2021"), false},
		{"date range garbage", "joinDate", filters.OpBetween, "2020..never", filters.Value{}, true},
		{"date scalar", "lastReview", filters.OpLessThan, "2024-06-01", filters.String("2024-06-01"), false},
		{"date scalar garbage", "lastReview", filters.OpLessThan, "yesterday", filters.Value{}, true},
		{"zip stays text", "address.zipCode", filters.OpEquals, "02134", filters.String("02134"), false},
		{"boolean yes", "isActive", filters.OpEquals, "yes", filters.Bool(true), false},
		{"boolean garbage", "isActive", filters.OpEquals, "maybe", filters.Value{}, true},
		{"select list", "department", filters.OpIn, "Sales| HR |", filters.Strings("Sales", "HR"), false},
		{"number list", "performanceRating", filters.OpIn, "4|5", filters.List(filters.Number(4), filters.Number(5)), false},
		{"number list garbage", "performanceRating", filters.OpIn, "4|five", filters.Value{}, true},
		{"no value", "skills", filters.OpIsEmpty, "ignored", filters.Null(), false},
		{"text operator on number field", "salary", filters.OpContains, "95", filters.String("95"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cat.ParseValue(field(tt.field), tt.op, tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRetype(t *testing.T) {
	cat := Employees()

	conds := cat.RetypeAll(filters.BuildFilters("joinDate:between:2020..2021,address.zipCode=94102,bogus=7,salary:in:1|2"))
	require.Len(t, conds, 4)

	assert.Equal(t, filters.DateRange("2020", "2021"), conds[0].Value)
	assert.Equal(t, filters.String("94102"), conds[1].Value)
	assert.Equal(t, filters.Number(7), conds[2].Value)
	assert.Equal(t, filters.List(filters.Number(1), filters.Number(2)), conds[3].Value)
}

func TestValidate(t *testing.T) {
	cat := Employees()

	tests := []struct {
		name  string
		cond  filters.Condition
		count int
	}{
		{"clean", filters.Condition{Field: "salary", Operator: filters.OpGreaterThan, Value: filters.Number(1)}, 0},
		{"unknown operator", filters.Condition{Field: "salary", Operator: "near", Value: filters.Number(1)}, 1},
		{"unknown field", filters.Condition{Field: "hireDate", Operator: filters.OpEquals, Value: filters.String("x")}, 1},
		{"operator not offered", filters.Condition{Field: "isActive", Operator: filters.OpContains, Value: filters.String("t")}, 1},
		{"range with ordering", filters.Condition{Field: "salary", Operator: filters.OpGreaterThan, Value: filters.NumberRange(1, 2)}, 1},
		{"between without range", filters.Condition{Field: "salary", Operator: filters.OpBetween, Value: filters.Number(1)}, 1},
		{"in without list", filters.Condition{Field: "department", Operator: filters.OpIn, Value: filters.String("HR")}, 1},
		{"not a number", filters.Condition{Field: "salary", Operator: filters.OpLessThan, Value: filters.String("lots")}, 1},
		{"not a date", filters.Condition{Field: "joinDate", Operator: filters.OpLessThan, Value: filters.String("soon")}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, cat.Validate(tt.cond), tt.count)
		})
	}
}
