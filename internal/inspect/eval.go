// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/tryfunc"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/rosterq/rosterq/internal/catalog"
	"github.com/rosterq/rosterq/internal/ctyval"
	"github.com/rosterq/rosterq/internal/driller"
	"github.com/rosterq/rosterq/internal/filters"
)

// Eval evaluates an HCL expression against records. The expression sees
// the variables employees, count and fields.
func Eval(records []map[string]interface{}, expression string) (cty.Value, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(expression), "inspect", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("parsing expression: %s", diags.Error())
	}

	ctx := &hcl.EvalContext{
		Variables: Variables(records),
		Functions: Functions(),
	}

	result, diags := expr.Value(ctx)
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("evaluating expression: %s", diags.Error())
	}
	return result, nil
}

// Process evaluates one console line and renders the result or the error.
func Process(records []map[string]interface{}, line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	val, err := Eval(records, line)
	if err != nil {
		return "Error: " + err.Error()
	}
	return ctyval.Format(val)
}

// Variables builds the evaluation scope for records.
func Variables(records []map[string]interface{}) map[string]cty.Value {
	items := make([]interface{}, len(records))
	for i := range records {
		items[i] = records[i]
	}

	paths := catalog.Employees().Paths()
	fields := make([]interface{}, len(paths))
	for i := range paths {
		fields[i] = paths[i]
	}

	return map[string]cty.Value{
		"employees": ctyval.ToCty(items),
		"count":     cty.NumberIntVal(int64(len(records))),
		"fields":    ctyval.ToCty(fields),
	}
}

// Functions returns the cty stdlib functions, try and can, plus where and
// pluck for working with record lists.
func Functions() map[string]function.Function {
	funcs := map[string]function.Function{
		// Arithmetic
		"abs":    stdlib.AbsoluteFunc,
		"ceil":   stdlib.CeilFunc,
		"floor":  stdlib.FloorFunc,
		"log":    stdlib.LogFunc,
		"max":    stdlib.MaxFunc,
		"min":    stdlib.MinFunc,
		"pow":    stdlib.PowFunc,
		"signum": stdlib.SignumFunc,

		// Strings
		"chomp":      stdlib.ChompFunc,
		"format":     stdlib.FormatFunc,
		"indent":     stdlib.IndentFunc,
		"join":       stdlib.JoinFunc,
		"lower":      stdlib.LowerFunc,
		"replace":    stdlib.ReplaceFunc,
		"split":      stdlib.SplitFunc,
		"substr":     stdlib.SubstrFunc,
		"title":      stdlib.TitleFunc,
		"trim":       stdlib.TrimFunc,
		"trimprefix": stdlib.TrimPrefixFunc,
		"trimspace":  stdlib.TrimSpaceFunc,
		"trimsuffix": stdlib.TrimSuffixFunc,
		"upper":      stdlib.UpperFunc,

		// Collections
		"chunklist":    stdlib.ChunklistFunc,
		"coalesce":     stdlib.CoalesceFunc,
		"coalescelist": stdlib.CoalesceListFunc,
		"compact":      stdlib.CompactFunc,
		"concat":       stdlib.ConcatFunc,
		"contains":     stdlib.ContainsFunc,
		"distinct":     stdlib.DistinctFunc,
		"element":      stdlib.ElementFunc,
		"flatten":      stdlib.FlattenFunc,
		"index":        stdlib.IndexFunc,
		"keys":         stdlib.KeysFunc,
		"length":       stdlib.LengthFunc,
		"lookup":       stdlib.LookupFunc,
		"merge":        stdlib.MergeFunc,
		"reverse":      stdlib.ReverseListFunc,
		"setunion":     stdlib.SetUnionFunc,
		"slice":        stdlib.SliceFunc,
		"sort":         stdlib.SortFunc,
		"values":       stdlib.ValuesFunc,
		"zipmap":       stdlib.ZipmapFunc,

		// Data
		"csvdecode":  stdlib.CSVDecodeFunc,
		"jsondecode": stdlib.JSONDecodeFunc,
		"jsonencode": stdlib.JSONEncodeFunc,
		"formatdate": stdlib.FormatDateFunc,
		"formatlist": stdlib.FormatListFunc,
		"parseint":   stdlib.ParseIntFunc,
		"range":      stdlib.RangeFunc,
		"timeadd":    stdlib.TimeAddFunc,

		// Patterns
		"regex":    stdlib.RegexFunc,
		"regexall": stdlib.RegexAllFunc,
	}

	funcs["try"] = tryfunc.TryFunc
	funcs["can"] = tryfunc.CanFunc
	funcs["where"] = WhereFunc
	funcs["pluck"] = PluckFunc

	return funcs
}

// WhereFunc filters a record list with a --filter style spec, for example
// where(employees, "department=Sales,salary>90000").
var WhereFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "records", Type: cty.DynamicPseudoType},
		{Name: "spec", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.DynamicPseudoType),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		items, err := recordList(args[0])
		if err != nil {
			return cty.NilVal, err
		}
		conditions := filters.BuildFilters(args[1].AsString())
		return ctyval.ToCty(filters.Apply(items, conditions)), nil
	},
})

// PluckFunc extracts a dot path from every record in a list, for example
// pluck(employees, "address.city"). Records lacking the path yield null.
var PluckFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "records", Type: cty.DynamicPseudoType},
		{Name: "path", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.DynamicPseudoType),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		items, err := recordList(args[0])
		if err != nil {
			return cty.NilVal, err
		}
		path := driller.ParsePath(args[1].AsString())
		out := make([]interface{}, len(items))
		for i := range items {
			out[i], _ = path.Drill(items[i])
		}
		return ctyval.ToCty(out), nil
	},
})

func recordList(val cty.Value) ([]interface{}, error) {
	if val.IsNull() {
		return nil, nil
	}
	items, ok := ctyval.ToGo(val).([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected a list of records, got %s", val.Type().FriendlyName())
	}
	return items, nil
}
