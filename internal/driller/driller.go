// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"reflect"
	"strings"

	"github.com/tidwall/gjson"
)

// Path is a field path split into its segments.
type Path []string

// ParsePath splits a dot-notation path into a Path.
func ParsePath(path string) Path {
	return Path(strings.Split(path, "."))
}

// String joins the segments back into dot notation.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Drill resolves path against record. The boolean is false when the path is
// absent from the record.
func Drill(record any, path string) (any, bool) {
	return ParsePath(path).Drill(record)
}

// Drill walks the record segment by segment, left to right.
func (p Path) Drill(record any) (any, bool) {
	current := record
	for _, key := range p {
		next, ok := lookup(current, key)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// DrillJSON resolves path against a raw JSON document using the same rules as
// Drill. Arrays are leaves, so "skills.0" is absent.
func DrillJSON(raw string, path string) (any, bool) {
	current := gjson.Parse(raw)
	for _, key := range ParsePath(path) {
		if !current.IsObject() {
			return nil, false
		}
		current = current.Get(gjson.Escape(key))
		if !current.Exists() {
			return nil, false
		}
	}
	return current.Value(), true
}

// lookup returns the value stored under key when v is a string-keyed map or a
// struct. Anything else is not a mapping.
func lookup(v any, key string) (any, bool) {
	// Fast paths for what encoding/json and yaml hand us.
	switch m := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		val, ok := m[key]
		return val, ok
	case map[string]string:
		val, ok := m[key]
		return val, ok
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	case reflect.Struct:
		return structField(rv, key)
	default:
		return nil, false
	}
}

// structField finds an exported field by its json tag name, falling back to
// the Go field name.
func structField(rv reflect.Value, key string) (any, bool) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}

		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}

		if name == key {
			return rv.Field(i).Interface(), true
		}
	}
	return nil, false
}
