// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/rosterq/rosterq/internal/attrs"
	"github.com/rosterq/rosterq/internal/catalog"
	"github.com/rosterq/rosterq/internal/filters"
	"github.com/rosterq/rosterq/internal/meta"
)

func queryCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := NewQueryActionRunner(
		"query",
		[]string{attrs.Default},
		queryFetch,
	)
	return runner.Run(ctx, cmd)
}

// queryFetch loads the records and keeps those matching every saved and
// --filter condition. The schema is taken from all records.
func queryFetch(ctx context.Context, cmd *cli.Command) ([]map[string]interface{}, error) {
	records, err := loadRecords(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if cmd.Bool("schema") {
		return records, nil
	}

	cat := catalog.Employees()
	conditions := gatherConditions(cmd)
	warnProblems(cmd, cat, conditions)

	return filters.Apply(records, cat.RetypeAll(conditions)), nil
}

func queryCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "query",
		Usage:     "employee query",
		UsageText: "rosterq query [@set] [flags]",
		Flags: []cli.Flag{
			newCountFlag(),
			newLimitFlag(),
			newNoStoreFlag(),
			NewSourceFlag(meta.Namespace(), meta.ConfigFile()),
			NewStoreFlag(meta.Namespace(), meta.ConfigFile()),
			newURLFlag(),
		},
		Action: queryCommandAction,
		Meta:   meta,
	}).Build()
}
