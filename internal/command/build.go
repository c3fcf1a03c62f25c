// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rosterq/rosterq/internal/attrs"
	"github.com/rosterq/rosterq/internal/builder"
	"github.com/rosterq/rosterq/internal/catalog"
	"github.com/rosterq/rosterq/internal/meta"
	"github.com/rosterq/rosterq/internal/store"
)

func buildCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "build") {
		return nil
	}

	records, err := loadRecords(ctx, cmd)
	if err != nil {
		return err
	}

	f := storeFile(cmd)
	st := store.New(store.Initial(cmd.String("url"), f)...)

	// Every edit is persisted once the user pauses typing.
	saver := builder.NewSaver(f, builder.DefaultDelay)
	st.OnChange(saver.Schedule)

	al := BuildAttrs(cmd, attrs.Default)
	runErr := builder.Run(builder.New(st, catalog.Employees(), records, al))

	// Catch anything still waiting on the timer, and the case where nothing
	// changed but the filters came from --url.
	saver.Schedule(st.List())
	if err := saver.Flush(); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("saving filters to %s: %w", f.Path, err))
	}
	return runErr
}

func buildCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "interactive filter builder",
		UsageText: "rosterq build [--source S] [--store F] [--url U]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "attrs",
				Aliases: []string{"a"},
				Usage:   "comma-separated list of attributes to show in the preview",
			},
			NewSourceFlag(meta.Namespace(), meta.ConfigFile()),
			NewStoreFlag(meta.Namespace(), meta.ConfigFile()),
			newURLFlag(),
			newTldrFlag(),
		},
		Action: buildCommandAction,
	}
}
