// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rosterq/rosterq/internal/catalog"
	"github.com/rosterq/rosterq/internal/filters"
	"github.com/rosterq/rosterq/internal/log"
	"github.com/rosterq/rosterq/internal/meta"
	"github.com/rosterq/rosterq/internal/store"
)

const (
	filtersDefaultAttrs = "index:#,id::8,field,operator,value,problems"
	defaultAPIBase      = "http://localhost:8080/api/employees"
)

// loadStore reads the saved filters into a Store.
func loadStore(cmd *cli.Command) (*store.Store, store.File, error) {
	f := storeFile(cmd)
	conditions, err := f.Load()
	if err != nil {
		return nil, f, fmt.Errorf("reading filter store %s: %w", f.Path, err)
	}
	return store.New(conditions...), f, nil
}

// resolveRef finds the condition a user reference points at. A reference is
// a 1-based position or a unique id prefix.
func resolveRef(conditions []filters.Condition, ref string) (filters.Condition, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(conditions) {
			return filters.Condition{}, fmt.Errorf("no filter at position %d", n)
		}
		return conditions[n-1], nil
	}

	var found []filters.Condition
	for _, c := range conditions {
		if strings.HasPrefix(c.ID, ref) {
			found = append(found, c)
		}
	}
	switch len(found) {
	case 0:
		return filters.Condition{}, fmt.Errorf("no filter with id %q", ref)
	case 1:
		return found[0], nil
	default:
		return filters.Condition{}, fmt.Errorf("id %q is ambiguous", ref)
	}
}

// parseEntries turns add arguments into conditions. A bare catalog field
// gets its first operator and no value.
func parseEntries(cat catalog.Catalog, args []string) ([]filters.Condition, error) {
	var conditions []filters.Condition
	for _, arg := range args {
		if f, ok := cat.Lookup(strings.TrimSpace(arg)); ok {
			conditions = append(conditions, filters.Condition{
				Field:    f.Path,
				Operator: f.AllowedOperators()[0],
				Value:    filters.Null(),
			})
			continue
		}

		parsed := filters.BuildFilters(arg)
		if len(parsed) == 0 {
			return nil, fmt.Errorf("no valid filters in %q", arg)
		}
		conditions = append(conditions, parsed...)
	}
	return conditions, nil
}

func filtersAddAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return errors.New("usage: rosterq filters add <filter>...")
	}

	cat := catalog.Employees()
	entries, err := parseEntries(cat, cmd.Args().Slice())
	if err != nil {
		return err
	}

	var problems []error
	for i := range entries {
		entries[i] = cat.Retype(entries[i])
		for _, p := range cat.Validate(entries[i]) {
			problems = append(problems, fmt.Errorf("%s: %w", filters.FormatFilter(entries[i]), p))
		}
	}
	if len(problems) > 0 && !cmd.Bool("force") {
		return errors.Join(problems...)
	}

	st, f, err := loadStore(cmd)
	if err != nil {
		return err
	}
	w := stdout(cmd)
	for _, e := range entries {
		c := st.Add(e.Field, e.Operator, e.Value)
		fmt.Fprintf(w, "added %s %s\n", shortID(c.ID), filters.FormatFilter(c))
	}
	return f.Save(st.List())
}

func filtersRmAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return errors.New("usage: rosterq filters rm <position|id>...")
	}

	st, f, err := loadStore(cmd)
	if err != nil {
		return err
	}

	// Resolve every reference against the list as it was before removal so
	// positions stay stable.
	current := st.List()
	var ids []string
	for _, ref := range cmd.Args().Slice() {
		c, err := resolveRef(current, ref)
		if err != nil {
			return err
		}
		ids = append(ids, c.ID)
	}

	w := stdout(cmd)
	for _, id := range ids {
		if st.Remove(id) {
			fmt.Fprintf(w, "removed %s\n", shortID(id))
		}
	}
	return f.Save(st.List())
}

func filtersSetAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("usage: rosterq filters set <position|id> [--field F] [--operator O] [--value V]")
	}

	st, f, err := loadStore(cmd)
	if err != nil {
		return err
	}
	c, err := resolveRef(st.List(), cmd.Args().First())
	if err != nil {
		return err
	}

	cat := catalog.Employees()
	var patch store.Patch
	field, op := c.Field, c.Operator

	if cmd.IsSet("field") {
		field = cmd.String("field")
		patch.Field = &field
		// A new field starts over with its first operator.
		if fd, ok := cat.Lookup(field); ok && !cmd.IsSet("operator") && !fd.Allows(op) {
			op = fd.AllowedOperators()[0]
			patch.Operator = &op
		}
	}

	if cmd.IsSet("operator") {
		parsed, ok := filters.ParseOperator(cmd.String("operator"))
		if !ok {
			return fmt.Errorf("unknown operator %q", cmd.String("operator"))
		}
		op = parsed
		patch.Operator = &op
	}

	switch {
	case cmd.IsSet("value"):
		var v filters.Value
		if fd, ok := cat.Lookup(field); ok {
			if v, err = cat.ParseValue(fd, op, cmd.String("value")); err != nil {
				return err
			}
		} else {
			v = filters.InferValue(op, cmd.String("value"))
		}
		patch.Value = &v
	case op.Arity() != c.Operator.Arity():
		v := filters.Null()
		patch.Value = &v
	}

	updated, ok := st.Update(c.ID, patch)
	if !ok {
		return fmt.Errorf("filter %s vanished", c.ID)
	}
	warnProblems(cmd, cat, []filters.Condition{updated})
	fmt.Fprintf(stdout(cmd), "updated %s %s\n", shortID(updated.ID), filters.FormatFilter(updated))
	return f.Save(st.List())
}

func filtersClearAction(ctx context.Context, cmd *cli.Command) error {
	st, f, err := loadStore(cmd)
	if err != nil {
		return err
	}
	n := st.Len()
	st.Clear()
	fmt.Fprintf(stdout(cmd), "cleared %d filters\n", n)
	return f.Save(nil)
}

func filtersURLAction(ctx context.Context, cmd *cli.Command) error {
	st, _, err := loadStore(cmd)
	if err != nil {
		return err
	}
	base := defaultAPIBase
	if cmd.Args().Len() > 0 {
		base = cmd.Args().First()
	}
	u, err := store.EncodeURL(base, st.List())
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout(cmd), u)
	return nil
}

func filtersImportAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("usage: rosterq filters import <url|file>")
	}
	from := cmd.Args().First()

	var incoming []filters.Condition
	if strings.Contains(from, store.URLParam+"=") {
		incoming = store.DecodeURL(from)
	} else {
		var err error
		if incoming, err = (store.File{Path: from}).Load(); err != nil {
			return fmt.Errorf("reading %s: %w", from, err)
		}
	}
	if len(incoming) == 0 {
		return fmt.Errorf("no filters found in %s", from)
	}

	st, f, err := loadStore(cmd)
	if err != nil {
		return err
	}
	if cmd.Bool("append") {
		for _, c := range incoming {
			st.Add(c.Field, c.Operator, c.Value)
		}
	} else {
		st.Replace(incoming)
	}

	log.Debugf("imported %d filters from %s", len(incoming), from)
	fmt.Fprintf(stdout(cmd), "imported %d filters\n", len(incoming))
	return f.Save(st.List())
}

func filtersExportAction(ctx context.Context, cmd *cli.Command) error {
	st, _, err := loadStore(cmd)
	if err != nil {
		return err
	}

	to := "-"
	if cmd.Args().Len() > 0 {
		to = cmd.Args().First()
	}
	if to != "-" {
		if err := (store.File{Path: to}).Save(st.List()); err != nil {
			return err
		}
		fmt.Fprintf(stdout(cmd), "exported %d filters to %s\n", st.Len(), to)
		return nil
	}

	data, err := store.Marshal(store.Format(cmd.String("format")), st.List())
	if err != nil {
		return err
	}
	_, err = stdout(cmd).Write(data)
	return err
}

func filtersLsAction(ctx context.Context, cmd *cli.Command) error {
	runner := NewQueryActionRunner(
		"filters",
		[]string{filtersDefaultAttrs},
		func(context.Context, *cli.Command) ([]map[string]interface{}, error) {
			st, _, err := loadStore(cmd)
			if err != nil {
				return nil, err
			}
			return conditionRows(catalog.Employees(), st.List()), nil
		},
	)
	return runner.Run(ctx, cmd)
}

// conditionRows turns conditions into records the output layer can render.
func conditionRows(cat catalog.Catalog, conditions []filters.Condition) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(conditions))
	for i, c := range conditions {
		var problems []interface{}
		for _, p := range cat.Validate(c) {
			problems = append(problems, p.Error())
		}
		rows = append(rows, map[string]interface{}{
			"index":    i + 1,
			"id":       c.ID,
			"field":    c.Field,
			"operator": string(c.Operator),
			"value":    c.Value.String(),
			"problems": problems,
		})
	}
	return rows
}

func filtersCommandBuilder(meta meta.Meta) *cli.Command {
	ns, cfg := meta.Namespace(), meta.ConfigFile()
	storeFlag := func() cli.Flag { return NewStoreFlag(ns, cfg) }

	ls := (&QueryCommandBuilder{
		Name:      "ls",
		Usage:     "list the saved filters",
		UsageText: "rosterq filters ls [flags]",
		Flags:     []cli.Flag{storeFlag()},
		Action:    filtersLsAction,
		Meta:      meta,
		NoSchema:  true,
	}).Build()

	return &cli.Command{
		Name:      "filters",
		Usage:     "manage the saved filters",
		UsageText: "rosterq filters <add|rm|set|ls|clear|url|import|export> [args]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "add filters",
				UsageText: "rosterq filters add <field[:operator[:value]]|field<op>value>...",
				Flags: []cli.Flag{
					storeFlag(),
					&cli.BoolFlag{
						Name:        "force",
						Usage:       "save filters the field catalog would reject",
						HideDefault: true,
					},
				},
				Action: filtersAddAction,
			},
			{
				Name:      "rm",
				Aliases:   []string{"remove"},
				Usage:     "remove filters by position or id",
				UsageText: "rosterq filters rm <position|id>...",
				Flags:     []cli.Flag{storeFlag()},
				Action:    filtersRmAction,
			},
			{
				Name:      "set",
				Usage:     "change a filter's field, operator or value",
				UsageText: "rosterq filters set <position|id> [--field F] [--operator O] [--value V]",
				Flags: []cli.Flag{
					storeFlag(),
					&cli.StringFlag{Name: "field", Usage: "new field path"},
					&cli.StringFlag{Name: "operator", Aliases: []string{"op"}, Usage: "new operator"},
					&cli.StringFlag{Name: "value", Usage: "new value (a..b for ranges, a|b for lists)"},
				},
				Action: filtersSetAction,
			},
			ls,
			{
				Name:      "clear",
				Usage:     "remove every saved filter",
				UsageText: "rosterq filters clear",
				Flags:     []cli.Flag{storeFlag()},
				Action:    filtersClearAction,
			},
			{
				Name:      "url",
				Usage:     "print a URL carrying the saved filters",
				UsageText: "rosterq filters url [base]",
				Flags:     []cli.Flag{storeFlag()},
				Action:    filtersURLAction,
			},
			{
				Name:      "import",
				Usage:     "replace the saved filters with those in a URL or file",
				UsageText: "rosterq filters import [--append] <url|file>",
				Flags: []cli.Flag{
					storeFlag(),
					&cli.BoolFlag{
						Name:        "append",
						Usage:       "add to the saved filters instead of replacing them",
						HideDefault: true,
					},
				},
				Action: filtersImportAction,
			},
			{
				Name:      "export",
				Usage:     "write the saved filters to a file or stdout",
				UsageText: "rosterq filters export [--format json|yaml|hcl] [file|-]",
				Flags: []cli.Flag{
					storeFlag(),
					&cli.StringFlag{
						Name:  "format",
						Usage: "stdout encoding (json, yaml, hcl)",
						Value: string(store.FormatJSON),
					},
				},
				Action: filtersExportAction,
			},
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
