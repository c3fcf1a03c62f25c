// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rosterq/rosterq/internal/catalog"
	"github.com/rosterq/rosterq/internal/differ"
	"github.com/rosterq/rosterq/internal/filters"
	"github.com/rosterq/rosterq/internal/log"
	"github.com/rosterq/rosterq/internal/meta"
	"github.com/rosterq/rosterq/internal/output"
	"github.com/rosterq/rosterq/internal/store"
)

// diffSides returns the left (saved) and right condition sets. The right side
// is --right when given, else the left side with any picked conditions dropped
// and --filter appended.
func diffSides(cmd *cli.Command) (left, right []filters.Condition, err error) {
	if !cmd.Bool("no-store") {
		left = store.Initial(cmd.String("url"), storeFile(cmd))
	}

	if cmd.IsSet("right") {
		return left, filters.BuildFilters(cmd.String("right")), nil
	}

	right = left
	if cmd.Bool("pick") && len(left) > 0 {
		items := make([]differ.Item, 0, len(left))
		for _, c := range left {
			items = append(items, differ.Item{ID: c.ID, Label: filters.FormatFilter(c)})
		}
		picked, err := differ.Pick("Select filters to drop from the right side", items, 0)
		if err != nil {
			return nil, nil, err
		}
		drop := map[string]bool{}
		for _, p := range picked {
			drop[p.ID] = true
		}
		right = nil
		for _, c := range left {
			if !drop[c.ID] {
				right = append(right, c)
			}
		}
	}

	right = append(append([]filters.Condition{}, right...), filters.BuildFilters(cmd.String("filter"))...)
	return left, right, nil
}

func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "diff") {
		return nil
	}

	records, err := loadRecords(ctx, cmd)
	if err != nil {
		return err
	}

	left, right, err := diffSides(cmd)
	if err != nil {
		return err
	}
	log.Debugf("diff: left=%v right=%v", left, right)

	cat := catalog.Employees()
	warnProblems(cmd, cat, append(append([]filters.Condition{}, left...), right...))

	w := stdout(cmd)
	color := cmd.Bool("color")
	if !cmd.IsSet("color") {
		color = output.ColorDefault(w)
	}

	res, err := differ.Diff(
		filters.Apply(records, cat.RetypeAll(left)),
		filters.Apply(records, cat.RetypeAll(right)),
		differ.Options{
			Key:   cmd.String("key"),
			Omit:  cmd.StringSlice("omit"),
			Color: color && cmd.String("output") != "json",
		},
	)
	if err != nil {
		return err
	}

	if cmd.String("output") == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	differ.Write(w, res)
	return nil
}

func diffCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "compare the results of two filter sets",
		UsageText: "rosterq diff [--filter F | --right F | --pick] [flags]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "color",
				Aliases: []string{"c"},
				Usage:   "enable colored diff output",
				Sources: cli.EnvVars("ROSTERQ_COLOR"),
			},
			NewFilterFlag(),
			&cli.StringFlag{
				Name:  "key",
				Usage: "record field pairing the two sides",
				Value: "id",
			},
			newNoStoreFlag(),
			&cli.StringSliceFlag{
				Name:  "omit",
				Usage: "record fields to leave out of the comparison",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output format (text, json)",
				Value:   "text",
				Validator: func(value string) error {
					if value != "text" && value != "json" {
						return fmt.Errorf("must be one of [text json]")
					}
					return nil
				},
			},
			&cli.BoolFlag{
				Name:        "pick",
				Usage:       "choose saved filters to drop from the right side",
				HideDefault: true,
			},
			&cli.StringFlag{
				Name:  "right",
				Usage: "filter spec for the right side instead of the saved filters",
			},
			NewSourceFlag(meta.Namespace(), meta.ConfigFile()),
			NewStoreFlag(meta.Namespace(), meta.ConfigFile()),
			newTldrFlag(),
			newURLFlag(),
		},
		Action: diffCommandAction,
	}
}
