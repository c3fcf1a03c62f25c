// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"github.com/apex/log"
	"github.com/mitchellh/mapstructure"

	"github.com/rosterq/rosterq/internal/filters"
)

// entry is the loose shape of a persisted condition.
type entry struct {
	ID       string      `mapstructure:"id"`
	Field    string      `mapstructure:"field"`
	Operator string      `mapstructure:"operator"`
	Value    interface{} `mapstructure:"value"`
}

// Decode turns decoded JSON, YAML or HCL entries into conditions. Entries
// that are not mappings, lack a string field or operator, or name an unknown
// operator are logged and dropped. Entries without an id get a fresh one.
func Decode(raw []interface{}) []filters.Condition {
	//nolint:prealloc
	var conditions []filters.Condition

	for i, item := range raw {
		var e entry
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:  &e,
			TagName: "mapstructure",
		})
		if err != nil {
			log.WithError(err).Error("building entry decoder")
			return conditions
		}

		if err := decoder.Decode(item); err != nil {
			log.Warnf("dropping stored filter %d: %v", i, err)
			continue
		}

		if e.Field == "" || e.Operator == "" {
			log.Warnf("dropping stored filter %d: missing field or operator", i)
			continue
		}

		op := filters.Operator(e.Operator)
		if !op.Valid() {
			log.Warnf("dropping stored filter %d: unknown operator %q", i, e.Operator)
			continue
		}

		if e.ID == "" {
			e.ID = NewID()
		}

		conditions = append(conditions, filters.Condition{
			ID:       e.ID,
			Field:    e.Field,
			Operator: op,
			Value:    filters.ValueOf(e.Value),
		})
	}

	return conditions
}

// encode returns the plain form of conditions for JSON, YAML or HCL output.
func encode(conditions []filters.Condition) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(conditions))
	for _, c := range conditions {
		m := map[string]interface{}{
			"id":       c.ID,
			"field":    c.Field,
			"operator": string(c.Operator),
		}
		if !c.Value.IsNull() {
			m["value"] = c.Value.Interface()
		}
		out = append(out, m)
	}
	return out
}
