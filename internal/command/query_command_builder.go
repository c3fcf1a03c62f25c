// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/rosterq/rosterq/internal/meta"
)

// QueryCommandBuilder is a helper that constructs a cli.Command for the
// record-emitting subcommands (query, fields, filters ls) using a consistent
// pattern. The builder wires metadata, adds the tldr/schema flags, applies
// global flags, and sets up validators.
type QueryCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
	// NoSchema leaves out --schema for commands with a fixed shape.
	NoSchema bool
}

// Build returns a configured cli.Command from the builder.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	flags := append(qcb.Flags, newTldrFlag())
	if !qcb.NoSchema {
		flags = append(flags, newSchemaFlag())
	}

	return &cli.Command{
		Name:      qcb.Name,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		Metadata: map[string]any{
			"meta": qcb.Meta,
		},
		Flags: append(flags, NewGlobalFlags(qcb.Meta.Namespace(), qcb.Meta.ConfigFile())...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: qcb.Action,
	}
}
