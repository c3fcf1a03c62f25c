// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/rosterq/rosterq/internal/store"
)

// The shared flags are built fresh per command since a cli flag keeps the
// value it was last parsed with.

func newCountFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "count",
		Usage:       "print only the number of matching records",
		HideDefault: true,
	}
}

func newLimitFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "limit",
		Aliases: []string{"l"},
		Usage:   "limit the number of records emitted",
	}
}

func newNoStoreFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "no-store",
		Usage:       "ignore the saved filters",
		HideDefault: true,
	}
}

func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the record schema",
		HideDefault: true,
	}
}

func newTldrFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
}

func newURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "url",
		Usage: "take the starting filters from a URL's filters parameter",
	}
}

// NewGlobalFlags returns the flags shared by the commands that emit records.
// params[0] is the command namespace and params[1] the config file; when both
// are given, attrs and sort may also come from the config file.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	attrsFlag := &cli.StringFlag{
		Name:    "attrs",
		Aliases: []string{"a"},
		Usage:   "comma-separated list of attributes to include in results",
	}
	sortFlag := &cli.StringFlag{
		Name:    "sort",
		Aliases: []string{"s"},
		Usage:   "comma-separated list of attributes to sort the results by",
	}

	if len(params) == 2 && params[1] != "" {
		attrsFlag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], attrsFlag)
		sortFlag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], sortFlag)
	}

	flags = []cli.Flag{
		attrsFlag,
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.EnvVars("ROSTERQ_COLOR"),
			Value:   false,
		},
		NewFilterFlag(),
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format (text, json, yaml, csv, raw)",
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		sortFlag,
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}

	return
}

// NewFilterFlag constructs the --filter flag holding a filter spec.
func NewFilterFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "filter",
		Aliases: []string{"f"},
		Usage:   "comma-separated list of filters to apply to results",
		Validator: func(value string) error {
			return FlagValidators(value, FilterValidator)
		},
	}
}

// NewSourceFlag constructs the --source flag naming where records come from,
// optionally namespaced to a command and config file.
func NewSourceFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:    "source",
		Aliases: []string{"i"},
		Usage:   "records to query: fixture[:N[:SEED]], -, a file, an http(s) URL or s3://bucket/key",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("ROSTERQ_SOURCE"),
		),
		Value: "fixture",
	}

	if len(params) == 2 && params[1] != "" {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewStoreFlag constructs the --store flag naming the saved filter file,
// optionally namespaced to a command and config file.
func NewStoreFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "store",
		Usage: "file holding the saved filters (.json, .yaml or .hcl)",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("ROSTERQ_STORE"),
		),
		Value: store.DefaultPath(),
	}

	if len(params) == 2 && params[1] != "" {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	if ns != "" {
		src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
		flag.Sources.Chain = append(flag.Sources.Chain, src)
	}

	src := yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// pathHas reports whether target is an executable on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
