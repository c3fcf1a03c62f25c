// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rosterq/rosterq/internal/log"
	"github.com/rosterq/rosterq/internal/output"
)

// QueryActionRunner encapsulates the common action pattern for the
// record-emitting subcommands. It handles the short-circuit checks, attrs,
// schema dumping, counting and output emission, with data fetching provided
// by FetchFn.
type QueryActionRunner struct {
	CommandName  string
	DefaultAttrs []string
	FetchFn      func(context.Context, *cli.Command) ([]map[string]interface{}, error)
}

// Run executes the query action with the provided context and command.
func (qar *QueryActionRunner) Run(
	ctx context.Context,
	cmd *cli.Command,
) error {
	// Step 1: GetMeta + debug.
	m := GetMeta(cmd)
	if len(m.Args) > 1 {
		log.Debugf("Executing action for %v", m.Args[1:])
	}

	// Step 2: Short-circuit checks.
	if ShortCircuitTLDR(ctx, cmd, qar.CommandName) {
		return nil
	}

	// Step 3: BuildAttrs + debug.
	attrs := BuildAttrs(cmd, qar.DefaultAttrs...)
	log.Debugf("attrs: %v", attrs.String())

	// Step 4: Fetch data.
	results, err := qar.FetchFn(ctx, cmd)
	if err != nil {
		return err
	}

	w := stdout(cmd)
	if cmd.Bool("schema") {
		output.DumpSchema(results, w)
		return nil
	}
	if cmd.Bool("count") {
		fmt.Fprintln(w, len(results))
		return nil
	}

	// Step 5: Emit + return.
	return output.SliceDiceSpit(results, attrs, outputOptions(cmd), w)
}

// NewQueryActionRunner creates a QueryActionRunner with the provided
// configuration.
func NewQueryActionRunner(
	commandName string,
	defaultAttrs []string,
	fetchFn func(context.Context, *cli.Command) ([]map[string]interface{}, error),
) *QueryActionRunner {
	return &QueryActionRunner{
		CommandName:  commandName,
		DefaultAttrs: defaultAttrs,
		FetchFn:      fetchFn,
	}
}
