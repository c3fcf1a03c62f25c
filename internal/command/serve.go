// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"net"

	"github.com/urfave/cli/v3"

	"github.com/rosterq/rosterq/internal/log"
	"github.com/rosterq/rosterq/internal/meta"
	"github.com/rosterq/rosterq/internal/server"
)

func serveCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "serve") {
		return nil
	}

	// The loader runs again on POST /_reset, so a remote source is re-read.
	load := func(ctx context.Context) ([]map[string]interface{}, error) {
		return loadRecords(ctx, cmd)
	}

	srv, err := server.New(ctx, load)
	if err != nil {
		return err
	}

	addr := cmd.String("addr")
	log.Debugf("serving on %s", addr)
	return server.Serve(ctx, addr, srv.Handler(), func(a net.Addr) {
		fmt.Fprintf(stdout(cmd), "serving employees on http://%s/api/employees\n", a)
	})
}

func serveCommandBuilder(meta meta.Meta) *cli.Command {
	addrFlag := &cli.StringFlag{
		Name:  "addr",
		Usage: "listen address",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("ROSTERQ_ADDR"),
		),
		Value: "localhost:8080",
	}
	if cfg := meta.ConfigFile(); cfg != "" {
		addrFlag = NameSpacedValueChainFlagFromConfigFile(meta.Namespace(), cfg, addrFlag)
	}

	return &cli.Command{
		Name:      "serve",
		Usage:     "serve the records over a small HTTP API",
		UsageText: "rosterq serve [--addr host:port] [--source S]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			addrFlag,
			NewSourceFlag(meta.Namespace(), meta.ConfigFile()),
			newTldrFlag(),
		},
		Action: serveCommandAction,
	}
}
