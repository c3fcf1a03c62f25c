// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rosterq/rosterq/internal/catalog"
	"github.com/rosterq/rosterq/internal/ctyval"
	"github.com/rosterq/rosterq/internal/filters"
	"github.com/rosterq/rosterq/internal/inspect"
	"github.com/rosterq/rosterq/internal/meta"
)

func inspectCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "inspect") {
		return nil
	}

	records, err := loadRecords(ctx, cmd)
	if err != nil {
		return err
	}

	cat := catalog.Employees()
	conditions := gatherConditions(cmd)
	warnProblems(cmd, cat, conditions)
	records = filters.Apply(records, cat.RetypeAll(conditions))

	if expr := cmd.String("expr"); expr != "" {
		val, err := inspect.Eval(records, expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout(cmd), ctyval.Format(val))
		return nil
	}

	return inspect.Run(records)
}

func inspectCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "evaluate expressions over the filtered records",
		UsageText: "rosterq inspect [--expr EXPR] [flags]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "expr",
				Aliases: []string{"e"},
				Usage:   "evaluate one expression and exit",
			},
			NewFilterFlag(),
			newNoStoreFlag(),
			NewSourceFlag(meta.Namespace(), meta.ConfigFile()),
			NewStoreFlag(meta.Namespace(), meta.ConfigFile()),
			newTldrFlag(),
			newURLFlag(),
		},
		Action: inspectCommandAction,
	}
}
