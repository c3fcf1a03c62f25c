// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/rosterq/rosterq/internal/attrs"
)

func records() []map[string]interface{} {
	return []map[string]interface{}{
		{"id": 3.0, "name": "zebra", "salary": 90000.0, "dept": "Sales", "skills": []interface{}{"Go", "SQL"}, "address": map[string]interface{}{"city": "Austin"}},
		{"id": 1.0, "name": "Alpha", "salary": 120000.0, "dept": "Engineering", "skills": []interface{}{}, "address": map[string]interface{}{"city": "Boston"}},
		{"id": 2.0, "name": "beta", "salary": 90000.0, "dept": "Engineering", "skills": []interface{}{"Rust"}, "address": map[string]interface{}{"city": "Chicago"}},
	}
}

func names(rs []map[string]interface{}) []string {
	out := make([]string, len(rs))
	for i := range rs {
		out[i] = rs[i]["name"].(string)
	}
	return out
}

func attrList(t *testing.T, spec string) attrs.AttrList {
	t.Helper()
	var al attrs.AttrList
	require.NoError(t, al.Set(spec))
	require.NoError(t, al.SetGlobalTransformSpec())
	return al
}

func TestSortDataset(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		wantOrder []string
	}{
		{"ascending by name", "name", []string{"Alpha", "beta", "zebra"}},
		{"descending by name", "-name", []string{"zebra", "beta", "Alpha"}},
		{"case sensitive", "!name", []string{"Alpha", "beta", "zebra"}},
		{"case sensitive descending", "-!name", []string{"zebra", "beta", "Alpha"}},
		{"numeric", "id", []string{"Alpha", "beta", "zebra"}},
		{"ties keep order", "salary", []string{"zebra", "beta", "Alpha"}},
		{"multiple fields", "salary,name", []string{"beta", "zebra", "Alpha"}},
		{"nested path", "-address.city", []string{"beta", "Alpha", "zebra"}},
		{"missing path is stable", "nope", []string{"zebra", "Alpha", "beta"}},
		{"empty spec", "", []string{"zebra", "Alpha", "beta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := records()
			SortDataset(data, tt.spec)
			assert.Equal(t, tt.wantOrder, names(data))
		})
	}
}

func TestSortDatasetMixedNumberTypes(t *testing.T) {
	data := []map[string]interface{}{
		{"name": "a", "n": 10},
		{"name": "b", "n": 9.5},
		{"name": "c", "n": int64(2)},
	}
	SortDataset(data, "n")
	assert.Equal(t, []string{"c", "b", "a"}, names(data))
}

func TestSortPaths(t *testing.T) {
	al := attrList(t, "address.city:town,salary:pay")
	assert.Equal(t, "-address.city,!salary,name", sortPaths("-town,!pay,name", al))
	assert.Equal(t, "", sortPaths("", al))
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		emptyVal string
		want     string
	}{
		{"string", "hello", "", "hello"},
		{"empty string custom", "", "-", "-"},
		{"int", 42, "", "42"},
		{"int64", int64(-7), "", "-7"},
		{"whole float", 120000.0, "", "120000"},
		{"fraction", 4.25, "", "4.25"},
		{"zero stays", 0.0, "-", "0"},
		{"bool true", true, "", "true"},
		{"bool false", false, "-", "false"},
		{"nil default", nil, "", ""},
		{"nil custom", nil, "-", "-"},
		{"list", []interface{}{"Go", "SQL"}, "", "Go, SQL"},
		{"empty list", []interface{}{}, "-", "-"},
		{"map", map[string]int{"x": 1}, "", `{"x":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			if tt.emptyVal != "" {
				got = InterfaceToString(tt.value, tt.emptyVal)
			} else {
				got = InterfaceToString(tt.value)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSliceDiceSpitJSON(t *testing.T) {
	var buf bytes.Buffer
	al := attrList(t, "name,salary:pay:c,address.city:city,!id")
	require.NoError(t, SliceDiceSpit(records(), al, Options{Format: "json", Sort: "-pay,name"}, &buf))

	// Keys keep attr order.
	assert.True(t, strings.HasPrefix(buf.String(), `[{"name":"Alpha","pay":"120,000","city":"Boston"}`), buf.String())

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "beta", got[1]["name"])
	assert.NotContains(t, got[0], "id")
}

func TestSliceDiceSpitYAML(t *testing.T) {
	var buf bytes.Buffer
	al := attrList(t, "name,skills")
	require.NoError(t, SliceDiceSpit(records(), al, Options{Format: "yaml", Sort: "name", Limit: 2}, &buf))

	var got []yaml.MapSlice
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "name", got[0][0].Key)
	assert.Equal(t, "Alpha", got[0][0].Value)
	assert.Equal(t, "skills", got[0][1].Key)
}

func TestSliceDiceSpitCSV(t *testing.T) {
	var buf bytes.Buffer
	al := attrList(t, "name:Name,skills:Skills,address.city:City")
	require.NoError(t, SliceDiceSpit(records(), al, Options{Format: "csv"}, &buf))

	lines, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"Name", "Skills", "City"}, lines[0])
	assert.Equal(t, []string{"zebra", "Go, SQL", "Austin"}, lines[1])
	assert.Equal(t, []string{"Alpha", "", "Boston"}, lines[2])
}

func TestSliceDiceSpitRaw(t *testing.T) {
	var buf bytes.Buffer
	al := attrList(t, "name")
	require.NoError(t, SliceDiceSpit(records(), al, Options{Format: "raw", Sort: "id", Limit: 1}, &buf))

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Alpha", got[0]["name"])
	assert.Contains(t, got[0], "address")
}

func TestSliceDiceSpitUnknownFormat(t *testing.T) {
	err := SliceDiceSpit(records(), attrList(t, "name"), Options{Format: "xml"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "xml")
}

func TestTableWriter(t *testing.T) {
	al := attrList(t, "name:NAME,dept,!salary,skills")

	t.Run("titles header and footer", func(t *testing.T) {
		var buf bytes.Buffer
		err := SliceDiceSpit(records(), al, Options{Titles: true, Padding: 2, Header: "Roster", Footer: "3 employees", Sort: "name"}, &buf)
		require.NoError(t, err)

		out := buf.String()
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		assert.Contains(t, lines[0], "Roster")
		assert.Contains(t, out, "NAME")
		assert.Contains(t, out, "Go, SQL")
		assert.Contains(t, out, "3 employees")
		assert.NotContains(t, out, "salary")
		assert.NotContains(t, out, "90000")
		// Empty lists render as a dash.
		assert.Regexp(t, `Alpha\s+Engineering\s+-`, out)
	})

	t.Run("no titles", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, SliceDiceSpit(records(), al, Options{}, &buf))
		assert.NotContains(t, buf.String(), "NAME")
	})

	t.Run("empty result set writes nothing", func(t *testing.T) {
		var buf bytes.Buffer
		TableWriter(nil, al.Included(), Options{Titles: true}, &buf)
		assert.Empty(t, buf.String())
	})
}

func TestGetColors(t *testing.T) {
	header, even, odd := getColors("colors")
	assert.NotNil(t, header)
	assert.NotNil(t, even)
	assert.NotNil(t, odd)
}

func TestColorDefault(t *testing.T) {
	assert.False(t, ColorDefault(&bytes.Buffer{}))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, ColorDefault(nil))
}

func TestDumpSchema(t *testing.T) {
	var buf bytes.Buffer
	rs := records()
	rs[0]["manager"] = nil
	rs[1]["manager"] = "Kim"
	DumpSchema(rs, &buf)

	out := buf.String()
	assert.Contains(t, out, "address.city  string\n")
	assert.Contains(t, out, "skills  array\n")
	assert.Contains(t, out, "manager  null|string\n")
	assert.Less(t, strings.Index(out, "address.city"), strings.Index(out, "salary"))
}

func TestDumpSchemaEmpty(t *testing.T) {
	var buf bytes.Buffer
	DumpSchema(nil, &buf)
	assert.NotContains(t, buf.String(), "  ")
}

func BenchmarkSortDataset(b *testing.B) {
	for i := 0; i < b.N; i++ {
		data := records()
		SortDataset(data, "-salary,name")
	}
}
