// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/rosterq/rosterq/internal/attrs"
	"github.com/rosterq/rosterq/internal/aws"
	"github.com/rosterq/rosterq/internal/catalog"
	"github.com/rosterq/rosterq/internal/config"
	"github.com/rosterq/rosterq/internal/filters"
	"github.com/rosterq/rosterq/internal/log"
	"github.com/rosterq/rosterq/internal/meta"
	"github.com/rosterq/rosterq/internal/output"
	"github.com/rosterq/rosterq/internal/source"
	"github.com/rosterq/rosterq/internal/store"
)

// defaultCacheHours is how long fetched remote records are reused when the
// config file does not say otherwise.
const defaultCacheHours = 1

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		al.SetGlobalTransformSpec()
	}
	return
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr rosterq <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "rosterq", subcmd)
			c.Stdout = stdout(cmd)
			c.Stderr = stderr(cmd)
			_ = c.Run()
		}
		return true
	}
	return false
}

// stdout is where a command writes its results.
func stdout(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.ErrWriter != nil {
		return root.ErrWriter
	}
	return os.Stderr
}

func stdin(cmd *cli.Command) io.Reader {
	if root := cmd.Root(); root != nil && root.Reader != nil {
		return root.Reader
	}
	return os.Stdin
}

// sourceOptions builds the record source options from config and the
// environment.
func sourceOptions(cmd *cli.Command) source.Options {
	hours, _ := config.GetInt("cache.hours", defaultCacheHours)
	return source.Options{
		CacheTTL: time.Duration(hours) * time.Hour,
		HTTP:     source.NewHTTPClient(),
		Stdin:    stdin(cmd),
	}
}

// loadRecords reads the records named by --source. A failing source is
// reported on stderr and replaced by the generated records.
func loadRecords(ctx context.Context, cmd *cli.Command) ([]map[string]interface{}, error) {
	spec := cmd.String("source")
	opts := sourceOptions(cmd)

	if aws.IsS3URL(spec) {
		cfg, err := aws.LoadAWSConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading aws config: %w", err)
		}
		opts.S3 = aws.NewS3(cfg)
	}

	records, err := source.LoadWithFallback(ctx, spec, opts)
	if err != nil {
		log.WithError(err).Warnf("loading records from %s", spec)
		fmt.Fprintf(stderr(cmd), "warning: %v; using generated records\n", err)
	}
	log.Debugf("loaded %d records from %q", len(records), spec)
	return records, nil
}

// storeFile returns the saved filter file named by --store.
func storeFile(cmd *cli.Command) store.File {
	path := cmd.String("store")
	if path == "" {
		path = store.DefaultPath()
	}
	return store.File{Path: path}
}

// gatherConditions returns the saved (or --url) conditions followed by those
// given with --filter.
func gatherConditions(cmd *cli.Command) []filters.Condition {
	var conditions []filters.Condition
	if !cmd.Bool("no-store") {
		conditions = store.Initial(cmd.String("url"), storeFile(cmd))
	}
	conditions = append(conditions, filters.BuildFilters(cmd.String("filter"))...)
	log.Debugf("conditions: %v", conditions)
	return conditions
}

// warnProblems reports conditions the catalog would not have offered. They
// still take part in filtering.
func warnProblems(cmd *cli.Command, cat catalog.Catalog, conditions []filters.Condition) {
	for _, c := range conditions {
		for _, problem := range cat.Validate(c) {
			fmt.Fprintf(stderr(cmd), "warning: %s: %v\n", filters.FormatFilter(c), problem)
		}
	}
}

// outputOptions collects the rendering flags.
func outputOptions(cmd *cli.Command) output.Options {
	color := cmd.Bool("color")
	if !cmd.IsSet("color") {
		color = output.ColorDefault(stdout(cmd))
	}
	padding, _ := config.GetInt("padding", 2)

	return output.Options{
		Format:  cmd.String("output"),
		Sort:    cmd.String("sort"),
		Limit:   cmd.Int("limit"),
		Titles:  cmd.Bool("titles"),
		Color:   color,
		Padding: padding,
	}
}
