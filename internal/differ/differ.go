// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/apex/log"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// Options tune a comparison.
type Options struct {
	// Key is the record field used to pair records across the two sides.
	// Empty means "id".
	Key string
	// Omit drops top level record fields before comparing.
	Omit []string
	// Color enables ANSI coloring of the rendered delta.
	Color bool
}

// Result summarizes how two result sets differ.
type Result struct {
	Left, Right int
	// OnlyLeft and OnlyRight hold the keys of unpaired records, sorted.
	OnlyLeft, OnlyRight []string
	// Changed holds keys present on both sides whose records differ.
	Changed  []string
	Modified bool
	// Text is the rendered delta. Empty when nothing changed.
	Text string
}

// Diff compares two result sets, pairing records by key.
func Diff(left, right []map[string]interface{}, opts Options) (Result, error) {
	log.Debugf("diff: left=%d right=%d", len(left), len(right))

	key := opts.Key
	if key == "" {
		key = "id"
	}

	lm := keyed(left, key, opts.Omit)
	rm := keyed(right, key, opts.Omit)

	res := Result{Left: len(left), Right: len(right)}
	for k := range lm {
		if _, ok := rm[k]; !ok {
			res.OnlyLeft = append(res.OnlyLeft, k)
		}
	}
	for k := range rm {
		if _, ok := lm[k]; !ok {
			res.OnlyRight = append(res.OnlyRight, k)
		}
	}
	sortKeys(res.OnlyLeft)
	sortKeys(res.OnlyRight)

	differ := gojsondiff.New()
	delta := differ.CompareObjects(lm, rm)
	if !delta.Modified() {
		return res, nil
	}
	res.Modified = true

	for _, d := range delta.Deltas() {
		if obj, ok := d.(*gojsondiff.Object); ok {
			res.Changed = append(res.Changed, obj.PostPosition().String())
		}
	}
	sortKeys(res.Changed)

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       opts.Color,
	}
	text, err := formatter.NewAsciiFormatter(lm, config).Format(delta)
	if err != nil {
		return res, fmt.Errorf("failed to format diff: %w", err)
	}
	res.Text = text

	return res, nil
}

// Write renders res to w. If w is nil, os.Stdout is used.
func Write(w io.Writer, res Result) {
	if w == nil {
		w = os.Stdout
	}

	if !res.Modified {
		fmt.Fprintf(w, "The result sets are identical (%d records).\n", res.Left)
		return
	}

	fmt.Fprintln(w, res.Text)
	fmt.Fprintf(w, "left: %d  right: %d  only left: %d  only right: %d  changed: %d\n",
		res.Left, res.Right, len(res.OnlyLeft), len(res.OnlyRight), len(res.Changed))
}

// keyed indexes records by key. The records pass through JSON so that both
// sides hold the same value types regardless of how they were loaded.
func keyed(records []map[string]interface{}, key string, omit []string) map[string]interface{} {
	out := make(map[string]interface{}, len(records))
	for i, record := range records {
		k := keyOf(record[key], i)

		data, err := json.Marshal(record)
		if err != nil {
			log.Warnf("diff: skipping record %s: %v", k, err)
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal(data, &m); err != nil {
			log.Warnf("diff: skipping record %s: %v", k, err)
			continue
		}
		for _, field := range omit {
			delete(m, field)
		}
		out[k] = m
	}
	return out
}

func keyOf(v interface{}, index int) string {
	switch v := v.(type) {
	case nil:
		return "#" + strconv.Itoa(index)
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// sortKeys orders keys numerically when they are all numbers.
func sortKeys(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		a, errA := strconv.ParseFloat(keys[i], 64)
		b, errB := strconv.ParseFloat(keys[j], 64)
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
}
