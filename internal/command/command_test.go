// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rosterq/rosterq/internal/differ"
	"github.com/rosterq/rosterq/internal/filters"
	"github.com/rosterq/rosterq/internal/store"
)

//go:embed testdata/query_cases.yaml
var queryCasesYAML []byte

type result struct {
	out, err string
}

// run executes rosterq with args, feeding stdin, and captures both streams.
func run(t *testing.T, stdin string, args ...string) (result, error) {
	t.Helper()
	t.Setenv("ROSTERQ_CFG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("ROSTERQ_CACHE", "0")
	t.Setenv("NO_COLOR", "1")

	full := append([]string{"rosterq"}, args...)
	app, err := InitApp(context.Background(), full)
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &errOut
	app.Reader = strings.NewReader(stdin)

	err = app.Run(context.Background(), full)
	return result{out: out.String(), err: errOut.String()}, err
}

func mustRun(t *testing.T, args ...string) result {
	t.Helper()
	res, err := run(t, "", args...)
	require.NoError(t, err, "stderr: %s", res.err)
	return res
}

func decodeRows(t *testing.T, out string) []map[string]interface{} {
	t.Helper()
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &rows), out)
	return rows
}

func TestInitApp(t *testing.T) {
	app, err := InitApp(context.Background(), []string{"rosterq", "query"})
	require.NoError(t, err)

	var names []string
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{
		"build", "diff", "fields", "filters", "generate", "inspect", "query", "serve", "completion",
	}, names)

	// Flags are sorted for --help.
	for _, c := range app.Commands {
		for i := 1; i < len(c.Flags); i++ {
			assert.LessOrEqual(t, c.Flags[i-1].Names()[0], c.Flags[i].Names()[0], c.Name)
		}
	}

	assert.Equal(t, "query", GetMeta(app.Commands[6]).Namespace())
}

func TestQueryCounts(t *testing.T) {
	var cases []struct {
		Name  string   `yaml:"name"`
		Args  []string `yaml:"args"`
		Count int      `yaml:"count"`
	}
	require.NoError(t, yaml.Unmarshal(queryCasesYAML, &cases))
	require.NotEmpty(t, cases)

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			args := append([]string{"query", "--no-store", "--count"}, tc.Args...)
			res := mustRun(t, args...)
			assert.Equal(t, strconv.Itoa(tc.Count), strings.TrimSpace(res.out))
		})
	}
}

func TestQueryJSON(t *testing.T) {
	res := mustRun(t, "query", "--no-store", "--source", "fixture:60",
		"--filter", "department=Engineering", "-o", "json", "--sort", "-salary")

	rows := decodeRows(t, res.out)
	require.NotEmpty(t, rows)
	for _, row := range rows {
		assert.Equal(t, "Engineering", row["department"])
		assert.Contains(t, row, "first")
		assert.Contains(t, row, "active")
	}
}

func TestQueryLimitAndAttrs(t *testing.T) {
	res := mustRun(t, "query", "--no-store", "--source", "fixture:30",
		"--limit", "3", "-o", "json", "--attrs", "email,address.city:city")

	rows := decodeRows(t, res.out)
	require.Len(t, rows, 3)
	assert.Contains(t, rows[0], "email")
	assert.Contains(t, rows[0], "city")
}

func TestQueryUsesSavedFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filters.json")
	require.NoError(t, store.File{Path: path}.Save([]filters.Condition{
		{ID: "a", Field: "isActive", Operator: filters.OpEquals, Value: filters.Bool(false)},
	}))

	res := mustRun(t, "query", "--store", path, "--source", "fixture:80", "-o", "json")
	rows := decodeRows(t, res.out)
	require.NotEmpty(t, rows)
	for _, row := range rows {
		assert.Equal(t, false, row["active"])
	}

	// --no-store ignores the file.
	res = mustRun(t, "query", "--store", path, "--no-store", "--source", "fixture:80", "--count")
	assert.Equal(t, "80", strings.TrimSpace(res.out))
}

func TestQueryURLOverridesStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filters.json")
	require.NoError(t, store.File{Path: path}.Save([]filters.Condition{
		{ID: "a", Field: "salary", Operator: filters.OpGreaterThan, Value: filters.Number(1e9)},
	}))

	u, err := store.EncodeURL("http://x/api/employees", []filters.Condition{
		{ID: "b", Field: "isActive", Operator: filters.OpIsNotEmpty, Value: filters.Null()},
	})
	require.NoError(t, err)

	res := mustRun(t, "query", "--store", path, "--url", u, "--source", "fixture:15", "--count")
	assert.Equal(t, "15", strings.TrimSpace(res.out))
}

func TestQueryWarnsOnCatalogProblems(t *testing.T) {
	res := mustRun(t, "query", "--no-store", "--source", "fixture:5", "--filter", "hireDate=2020-01-01", "--count")
	assert.Contains(t, res.err, "warning: hireDate")
	assert.Equal(t, "0", strings.TrimSpace(res.out))
}

func TestQueryFallsBackToGeneratedRecords(t *testing.T) {
	res := mustRun(t, "query", "--no-store", "--source", filepath.Join(t.TempDir(), "missing.json"), "--count")
	assert.Contains(t, res.err, "using generated records")
	assert.Equal(t, "55", strings.TrimSpace(res.out))
}

func TestQueryStdin(t *testing.T) {
	doc := `{"employees":[{"id":1,"firstName":"Ada","salary":10},{"id":2,"firstName":"Bob","salary":20}]}`
	res, err := run(t, doc, "query", "--no-store", "--source", "-", "--filter", "salary>15", "-o", "raw")
	require.NoError(t, err)

	rows := decodeRows(t, res.out)
	require.Len(t, rows, 1)
	assert.Equal(t, "Bob", rows[0]["firstName"])
}

func TestQuerySchema(t *testing.T) {
	res := mustRun(t, "query", "--no-store", "--source", "fixture:5", "--schema")
	assert.Contains(t, res.out, "address.city")
	assert.Contains(t, res.out, "salary")
}

func TestQueryRejectsBadFlags(t *testing.T) {
	_, err := run(t, "", "query", "--no-store", "-o", "xml")
	assert.Error(t, err)

	_, err = run(t, "", "query", "--no-store", "--filter", ":::")
	assert.Error(t, err)

	_, err = run(t, "", "query", "--no-store", "--limit=-1")
	assert.Error(t, err)
}

func TestFiltersLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filters.yaml")

	res := mustRun(t, "filters", "add", "--store", path, "department=Sales", "salary:greaterThan:50000")
	assert.Equal(t, 2, strings.Count(res.out, "added "))

	res = mustRun(t, "filters", "ls", "--store", path, "-o", "json")
	rows := decodeRows(t, res.out)
	require.Len(t, rows, 2)
	assert.Equal(t, "department", rows[0]["field"])
	assert.Equal(t, "greaterThan", rows[1]["operator"])

	mustRun(t, "filters", "set", "--store", path, "--value", "60000", "2")
	got, err := store.File{Path: path}.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, filters.Number(60000), got[1].Value)

	// Switching to a range operator clears the value.
	mustRun(t, "filters", "set", "--store", path, "--operator", "between", "2")
	got, err = store.File{Path: path}.Load()
	require.NoError(t, err)
	assert.Equal(t, filters.OpBetween, got[1].Operator)
	assert.True(t, got[1].Value.IsNull())

	res = mustRun(t, "filters", "url", "--store", path)
	assert.True(t, strings.HasPrefix(res.out, defaultAPIBase+"?"+store.URLParam+"="))
	assert.Len(t, store.DecodeURL(strings.TrimSpace(res.out)), 2)

	mustRun(t, "filters", "rm", "--store", path, "1")
	got, err = store.File{Path: path}.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "salary", got[0].Field)

	res = mustRun(t, "filters", "clear", "--store", path)
	assert.Contains(t, res.out, "cleared 1 filters")
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFiltersAddBareField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filters.json")
	mustRun(t, "filters", "add", "--store", path, "email")

	got, err := store.File{Path: path}.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, filters.OpEquals, got[0].Operator)
	assert.True(t, got[0].Value.IsNull())
}

func TestFiltersAddRejectsCatalogProblems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filters.json")

	_, err := run(t, "", "filters", "add", "--store", path, "salary:contains:12")
	assert.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	mustRun(t, "filters", "add", "--store", path, "--force", "salary:contains:12")
	got, err := store.File{Path: path}.Load()
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFiltersRmUnknownRef(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filters.json")
	mustRun(t, "filters", "add", "--store", path, "isActive=true")

	_, err := run(t, "", "filters", "rm", "--store", path, "7")
	assert.Error(t, err)
	_, err = run(t, "", "filters", "rm", "--store", path, "zzzz")
	assert.Error(t, err)
}

func TestFiltersImportExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filters.json")
	mustRun(t, "filters", "add", "--store", path, "department=Engineering", "role^Senior")

	res := mustRun(t, "filters", "export", "--store", path, "--format", "yaml")
	assert.Contains(t, res.out, "field: department")

	hclPath := filepath.Join(dir, "shared.hcl")
	mustRun(t, "filters", "export", "--store", path, hclPath)
	data, err := os.ReadFile(hclPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `filter {`)

	other := filepath.Join(dir, "other.json")
	res = mustRun(t, "filters", "import", "--store", other, hclPath)
	assert.Contains(t, res.out, "imported 2 filters")

	u := mustRun(t, "filters", "url", "--store", path).out
	mustRun(t, "filters", "import", "--store", other, "--append", strings.TrimSpace(u))
	got, err := store.File{Path: other}.Load()
	require.NoError(t, err)
	assert.Len(t, got, 4)

	_, err = run(t, "", "filters", "import", "--store", other, filepath.Join(dir, "nothing.json"))
	assert.Error(t, err)
}

func TestFields(t *testing.T) {
	res := mustRun(t, "fields", "-o", "json")
	rows := decodeRows(t, res.out)

	byPath := map[string]map[string]interface{}{}
	for _, r := range rows {
		byPath[r["path"].(string)] = r
	}
	require.Contains(t, byPath, "salary")
	assert.Equal(t, "number", byPath["salary"]["type"])
	require.Contains(t, byPath, "address.city")
}

func TestGenerate(t *testing.T) {
	a := mustRun(t, "generate", "--count", "4", "--seed", "9")
	b := mustRun(t, "generate", "-n", "4", "--seed", "9")
	assert.Equal(t, a.out, b.out)

	var doc map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(a.out), &doc))
	assert.Len(t, doc["employees"], 4)

	path := filepath.Join(t.TempDir(), "out", "roster.json")
	res := mustRun(t, "generate", "--count", "2", "--out", path)
	assert.Contains(t, res.err, "wrote 2 records")

	res = mustRun(t, "query", "--no-store", "--source", path, "--count")
	assert.Equal(t, "2", strings.TrimSpace(res.out))
}

func TestDiff(t *testing.T) {
	res := mustRun(t, "diff", "--no-store", "--source", "fixture:20")
	assert.Contains(t, res.out, "identical (20 records)")

	res = mustRun(t, "diff", "--no-store", "--source", "fixture:40", "--right", "department=Sales", "-o", "json")
	var got differ.Result
	require.NoError(t, json.Unmarshal([]byte(res.out), &got))
	assert.Equal(t, 40, got.Left)
	assert.Less(t, got.Right, got.Left)
	assert.Len(t, got.OnlyLeft, got.Left-got.Right)
	assert.Empty(t, got.OnlyRight)
}

func TestDiffFilterAddsToRight(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filters.json")
	mustRun(t, "filters", "add", "--store", path, "isActive=true")

	res := mustRun(t, "diff", "--store", path, "--source", "fixture:40", "--filter", "salary>120000", "-o", "json")
	var got differ.Result
	require.NoError(t, json.Unmarshal([]byte(res.out), &got))
	assert.LessOrEqual(t, got.Right, got.Left)
	assert.Empty(t, got.OnlyRight)
}

func TestInspectExpr(t *testing.T) {
	res := mustRun(t, "inspect", "--no-store", "--source", "fixture:7", "--expr", "count")
	assert.Equal(t, "7", strings.TrimSpace(res.out))

	res = mustRun(t, "inspect", "--no-store", "--source", "fixture:30", "--filter", "department=Sales",
		"--expr", `length([for e in employees : e if e.department != "Sales"])`)
	assert.Equal(t, "0", strings.TrimSpace(res.out))

	_, err := run(t, "", "inspect", "--no-store", "--expr", "nosuch(")
	assert.Error(t, err)
}

func TestCompletion(t *testing.T) {
	res := mustRun(t, "completion", "bash")
	assert.Contains(t, res.out, "complete -F _rosterq rosterq")

	res = mustRun(t, "completion", "zsh")
	assert.Contains(t, res.out, "#compdef rosterq")
}
