// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/rosterq/rosterq/internal/aws"
	"github.com/rosterq/rosterq/internal/fixture"
	"github.com/rosterq/rosterq/internal/log"
	"github.com/rosterq/rosterq/internal/meta"
)

func generateCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "generate") {
		return nil
	}

	n := cmd.Int("count")
	if n < 0 {
		return fmt.Errorf("--count must not be negative")
	}
	seed := cmd.Uint64("seed")

	data, err := json.MarshalIndent(fixture.Document(n, seed), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	data = append(data, '\n')

	out := cmd.String("out")
	log.Debugf("generating %d records, seed %d, to %q", n, seed, out)

	switch {
	case out == "" || out == "-":
		_, err = stdout(cmd).Write(data)
		return err

	case aws.IsS3URL(out):
		loc, err := aws.ParseS3URL(out)
		if err != nil {
			return err
		}
		cfg, err := aws.LoadAWSConfig(ctx)
		if err != nil {
			return fmt.Errorf("loading aws config: %w", err)
		}
		if err := aws.PutObject(ctx, aws.NewS3(cfg), loc, data, "application/json"); err != nil {
			return err
		}

	default:
		if dir := filepath.Dir(out); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return err
		}
	}

	fmt.Fprintf(stderr(cmd), "wrote %d records to %s\n", n, out)
	return nil
}

func generateCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "write generated employee records as JSON",
		UsageText: "rosterq generate [--count N] [--seed S] [--out file|s3://bucket/key|-]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "number of records",
				Value:   fixture.DefaultCount,
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "random seed; the same seed yields the same records",
				Value: fixture.DefaultSeed,
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"O"},
				Usage:   "destination: a file, s3://bucket/key or - for stdout",
				Value:   "-",
			},
			newTldrFlag(),
		},
		Action: generateCommandAction,
	}
}
