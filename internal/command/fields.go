// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/rosterq/rosterq/internal/catalog"
	"github.com/rosterq/rosterq/internal/meta"
)

const fieldsDefaultAttrs = "path,label,type,operators,options"

func fieldsCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := NewQueryActionRunner(
		"fields",
		[]string{fieldsDefaultAttrs},
		func(context.Context, *cli.Command) ([]map[string]interface{}, error) {
			return fieldRows(catalog.Employees()), nil
		},
	)
	return runner.Run(ctx, cmd)
}

// fieldRows turns the catalog into records the output layer can render.
func fieldRows(cat catalog.Catalog) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(cat))
	for _, f := range cat {
		ops := make([]interface{}, 0, len(f.AllowedOperators()))
		for _, op := range f.AllowedOperators() {
			ops = append(ops, string(op))
		}

		var options []interface{}
		for _, o := range f.Options {
			options = append(options, o.Value)
		}

		rows = append(rows, map[string]interface{}{
			"path":        f.Path,
			"label":       f.Label,
			"type":        string(f.Type),
			"operators":   ops,
			"options":     options,
			"placeholder": f.Placeholder,
		})
	}
	return rows
}

func fieldsCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "fields",
		Usage:     "list the filterable fields",
		UsageText: "rosterq fields [flags]",
		Action:    fieldsCommandAction,
		Meta:      meta,
		NoSchema:  true,
	}).Build()
}
