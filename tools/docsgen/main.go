// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// docsgen writes markdown, man and tldr pages for every rosterq subcommand.
// Names, usage and flags come from the command tree itself; examples and notes
// come from an optional docs/templates/rosterq.yaml.
//
//	go run ./tools/docsgen docs
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/rosterq/rosterq/internal/command"
	"github.com/rosterq/rosterq/internal/version"
)

type Config struct {
	Subcommands []Extra `yaml:"subcommands"`
}

// Extra is the hand written part of a page.
type Extra struct {
	ID          string    `yaml:"id"`
	Description string    `yaml:"description"`
	Examples    []Example `yaml:"examples"`
	Notes       []string  `yaml:"notes,omitempty"`
}

type Subcommand struct {
	ID          string
	Short       string
	Description string
	Usage       string
	Flags       []Flag
	Children    []Subcommand
	Examples    []Example
	Notes       []string
}

type Flag struct {
	ID          string
	Syntax      string
	Description string
	Default     string
	Env         string
}

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

type TemplateData struct {
	Subcommand
	Date    string
	Version string
	IDUpper string
}

type Outputs struct {
	Template *template.Template
	Folder   string
	Prefix   string
	Suffix   string
}

var funcs = template.FuncMap{"join": strings.Join}

var mdTmpl = template.Must(template.New("md").Funcs(funcs).Parse(`# rosterq {{.ID}}

{{.Short}}
{{- if .Description}}

{{.Description}}
{{- end}}

## Usage

    {{.Usage}}
{{- if .Flags}}

## Flags

| Flag | Description | Default |
|---|---|---|
{{- range .Flags}}
| ` + "`{{.Syntax}}`" + ` | {{.Description}}{{if .Env}} (env ` + "`{{.Env}}`" + `){{end}} | {{.Default}} |
{{- end}}
{{- end}}
{{- range .Children}}

## rosterq {{$.ID}} {{.ID}}

{{.Short}}

    {{.Usage}}
{{- end}}
{{- if .Examples}}

## Examples
{{- range .Examples}}

{{.Description}}:

    {{.Command}}
{{- end}}
{{- end}}
{{- if .Notes}}

## Notes
{{range .Notes}}
- {{.}}
{{- end}}
{{- end}}

_rosterq {{.Version}}, {{.Date}}_
`))

var manTmpl = template.Must(template.New("man").Funcs(funcs).Parse(`.TH ROSTERQ-{{.IDUpper}} 1 "{{.Date}}" "rosterq {{.Version}}" "rosterq Manual"
.SH NAME
rosterq-{{.ID}} \- {{.Short}}
.SH SYNOPSIS
{{.Usage}}
{{- if .Description}}
.SH DESCRIPTION
{{.Description}}
{{- end}}
{{- if .Flags}}
.SH OPTIONS
{{- range .Flags}}
.TP
.B {{.Syntax}}
{{.Description}}{{if .Default}} (default {{.Default}}){{end}}
{{- end}}
{{- end}}
{{- if .Examples}}
.SH EXAMPLES
{{- range .Examples}}
.TP
{{.Description}}
.B {{.Command}}
{{- end}}
{{- end}}
`))

var tldrTmpl = template.Must(template.New("tldr").Funcs(funcs).Parse(`# rosterq {{.ID}}

> {{.Short}}.
{{- range .Examples}}

- {{.Description}}:

` + "`{{.Command}}`" + `
{{- end}}
`))

func main() {
	docs := "docs"
	if len(os.Args) > 1 {
		docs = os.Args[1]
	}

	app, err := command.InitApp(context.Background(), []string{"rosterq"})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	extras, err := loadExtras(filepath.Join(docs, "templates", "rosterq.yaml"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := generate(docs, app, extras, time.Now()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadExtras reads the hand written examples. A missing file is fine.
func loadExtras(path string) (map[string]Extra, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	extras := make(map[string]Extra, len(config.Subcommands))
	for _, e := range config.Subcommands {
		extras[e.ID] = e
	}
	return extras, nil
}

// generate renders every page for app's subcommands under docs.
func generate(docs string, app *cli.Command, extras map[string]Extra, now time.Time) error {
	types := []Outputs{
		{Template: mdTmpl, Folder: filepath.Join(docs, "commands"), Suffix: ".md"},
		{Template: manTmpl, Folder: filepath.Join(docs, "man", "share", "man1"), Prefix: "rosterq-", Suffix: ".1"},
		{Template: tldrTmpl, Folder: filepath.Join(docs, "tldr"), Prefix: "rosterq-", Suffix: ".md"},
	}

	for _, cmd := range app.Commands {
		if cmd.Hidden {
			continue
		}
		sub := describe(cmd)
		if e, ok := extras[sub.ID]; ok {
			sub.Description = e.Description
			sub.Examples = e.Examples
			sub.Notes = e.Notes
		}

		metadata := TemplateData{
			Subcommand: sub,
			Date:       now.Format("January 2, 2006"),
			Version:    version.Version,
			IDUpper:    strings.ToUpper(sub.ID),
		}

		for _, t := range types {
			if err := os.MkdirAll(t.Folder, 0o755); err != nil {
				return err
			}

			path := filepath.Join(t.Folder, t.Prefix+sub.ID+t.Suffix)
			fmt.Println("Generating", path)
			if err := render(path, t.Template, metadata); err != nil {
				return err
			}
		}
	}
	return nil
}

func render(path string, tmpl *template.Template, data TemplateData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := tmpl.Execute(file, data); err != nil {
		file.Close()
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	return file.Close()
}

// describe collects what the help text knows about cmd.
func describe(cmd *cli.Command) Subcommand {
	sub := Subcommand{
		ID:    cmd.Name,
		Short: cmd.Usage,
		Usage: cmd.UsageText,
	}
	if sub.Usage == "" {
		sub.Usage = "rosterq " + cmd.Name + " [flags]"
	}

	for _, f := range cmd.Flags {
		if v, ok := f.(cli.VisibleFlag); ok && !v.IsVisible() {
			continue
		}
		sub.Flags = append(sub.Flags, describeFlag(f))
	}
	sort.Slice(sub.Flags, func(i, j int) bool {
		return sub.Flags[i].ID < sub.Flags[j].ID
	})

	for _, child := range cmd.Commands {
		sub.Children = append(sub.Children, describe(child))
	}
	return sub
}

func describeFlag(f cli.Flag) Flag {
	names := f.Names()
	parts := make([]string, 0, len(names))
	for _, n := range names {
		if len(n) == 1 {
			parts = append(parts, "-"+n)
		} else {
			parts = append(parts, "--"+n)
		}
	}

	flag := Flag{ID: names[0], Syntax: strings.Join(parts, ", ")}
	if d, ok := f.(cli.DocGenerationFlag); ok {
		flag.Description = d.GetUsage()
		if d.TakesValue() {
			flag.Syntax += " value"
			flag.Default = d.GetValue()
		}
		flag.Env = strings.Join(d.GetEnvVars(), ", ")
	}
	return flag
}
