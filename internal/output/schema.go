// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/apex/log"
)

// schemaTag is one discovered record path and the kinds of value seen there.
type schemaTag struct {
	Name  string
	Kinds map[string]bool
}

// print renders the tag into its display form.
func (t schemaTag) print() string {
	kinds := make([]string, 0, len(t.Kinds))
	for k := range t.Kinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	out := t.Name
	for i, k := range kinds {
		if i == 0 {
			out += "  "
		} else {
			out += "|"
		}
		out += k
	}
	return out
}

// maxSchemaDepth limits how deep nested objects are walked.
const maxSchemaDepth = 4

// DumpSchema writes the sorted set of dot paths found across records, with
// the JSON kinds seen at each, to w. If w is nil, os.Stdout is used.
func DumpSchema(records []map[string]interface{}, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	fmt.Fprintln(w,
		`Record paths that are available to the --attrs, --sort and --filter flags.`)
	fmt.Fprintln(w, "")

	tags := map[string]*schemaTag{}
	for _, record := range records {
		dumpSchemaWalker("", record, 0, tags)
	}
	if len(tags) == 0 {
		log.Debugf("no paths found in %d records", len(records))
		return
	}

	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintln(w, tags[name].print())
	}
}

// dumpSchemaWalker records every leaf path below holder.
func dumpSchemaWalker(holder string, obj map[string]interface{}, depth int, tags map[string]*schemaTag) {
	for key, value := range obj {
		name := key
		if holder != "" {
			name = holder + "." + key
		}

		if nested, ok := value.(map[string]interface{}); ok && depth < maxSchemaDepth {
			dumpSchemaWalker(name, nested, depth+1, tags)
			continue
		}

		tag, ok := tags[name]
		if !ok {
			tag = &schemaTag{Name: name, Kinds: map[string]bool{}}
			tags[name] = tag
		}
		tag.Kinds[kindOf(value)] = true
	}
}

func kindOf(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32:
		return "number"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
