// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package ctyval converts between decoded JSON shaped Go values and cty
// values, for HCL encoding and expression evaluation.
package ctyval

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// ToCty converts a Go value to a cty value. Slices become tuples and string
// keyed maps become objects; anything else unrecognised becomes its %v
// string.
func ToCty(val interface{}) cty.Value {
	switch v := val.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType)
	case cty.Value:
		return v
	case bool:
		return cty.BoolVal(v)
	case int:
		return cty.NumberIntVal(int64(v))
	case int32:
		return cty.NumberIntVal(int64(v))
	case int64:
		return cty.NumberIntVal(v)
	case uint64:
		return cty.NumberUIntVal(v)
	case float32:
		return cty.NumberFloatVal(float64(v))
	case float64:
		return cty.NumberFloatVal(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return cty.NumberFloatVal(f)
		}
		return cty.StringVal(v.String())
	case string:
		return cty.StringVal(v)
	case []interface{}:
		if len(v) == 0 {
			return cty.EmptyTupleVal
		}
		vals := make([]cty.Value, len(v))
		for i, item := range v {
			vals[i] = ToCty(item)
		}
		return cty.TupleVal(vals)
	case []string:
		items := make([]interface{}, len(v))
		for i, s := range v {
			items[i] = s
		}
		return ToCty(items)
	case map[string]interface{}:
		if len(v) == 0 {
			return cty.EmptyObjectVal
		}
		vals := make(map[string]cty.Value, len(v))
		for key, item := range v {
			vals[key] = ToCty(item)
		}
		return cty.ObjectVal(vals)
	}

	// Typed slices and maps, e.g. []map[string]any.
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]interface{}, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return ToCty(items)
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			m := make(map[string]interface{}, rv.Len())
			for _, k := range rv.MapKeys() {
				m[k.String()] = rv.MapIndex(k).Interface()
			}
			return ToCty(m)
		}
	}

	return cty.StringVal(fmt.Sprintf("%v", val))
}

// ToGo converts a cty value to plain Go: nil, bool, int64 or float64, string,
// []interface{} and map[string]interface{}. Unknown values become nil.
func ToGo(val cty.Value) interface{} {
	if val.IsNull() || !val.IsKnown() {
		return nil
	}

	ty := val.Type()
	switch {
	case ty == cty.Bool:
		return val.True()
	case ty == cty.Number:
		return number(val.AsBigFloat())
	case ty == cty.String:
		return val.AsString()
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		result := make([]interface{}, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, elemVal := it.Element()
			result = append(result, ToGo(elemVal))
		}
		return result
	case ty.IsObjectType() || ty.IsMapType():
		result := make(map[string]interface{})
		for it := val.ElementIterator(); it.Next(); {
			keyVal, elemVal := it.Element()
			result[keyVal.AsString()] = ToGo(elemVal)
		}
		return result
	default:
		return nil
	}
}

func number(bf *big.Float) interface{} {
	if bf.IsInt() {
		if i, acc := bf.Int64(); acc == big.Exact {
			return i
		}
	}
	f, _ := bf.Float64()
	return f
}

// Format renders val for display: scalars bare, everything else as JSON.
func Format(val cty.Value) string {
	if val.IsNull() {
		return "null"
	}
	if !val.IsKnown() {
		return "(unknown)"
	}

	switch val.Type() {
	case cty.Bool:
		return fmt.Sprintf("%t", val.True())
	case cty.Number:
		return fmt.Sprintf("%v", number(val.AsBigFloat()))
	case cty.String:
		return val.AsString()
	default:
		goVal := ToGo(val)
		if jsonBytes, err := json.Marshal(goVal); err == nil {
			return string(jsonBytes)
		}
		return fmt.Sprintf("%#v", goVal)
	}
}

// Keys returns the attribute names of an object value in sorted order.
func Keys(val cty.Value) []string {
	if val.IsNull() || !val.Type().IsObjectType() {
		return nil
	}
	var keys []string
	for k := range val.Type().AttributeTypes() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
