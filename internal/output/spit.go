// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"golang.org/x/term"
	"gopkg.in/yaml.v2"

	"github.com/rosterq/rosterq/internal/attrs"
	"github.com/rosterq/rosterq/internal/config"
)

// Formats lists the accepted --output values.
var Formats = []string{"text", "json", "yaml", "csv", "raw"}

// Options control how a result set is rendered.
type Options struct {
	// Format is one of Formats. Empty means text.
	Format string
	// Sort is a SortDataset spec. Keys may be output keys or record paths.
	Sort string
	// Limit caps the number of records emitted. Zero means no limit.
	Limit   int
	Titles  bool
	Color   bool
	Padding int
	Header  string
	Footer  string
}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	switch value := value.(type) {
	case nil:
		return emptyValue[0]
	case string:
		if value == "" {
			return emptyValue[0]
		}
		return value
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		if value == math.Trunc(value) && math.Abs(value) < 1e15 {
			return strconv.FormatInt(int64(value), 10)
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case []interface{}:
		if len(value) == 0 {
			return emptyValue[0]
		}
		parts := make([]string, len(value))
		for i := range value {
			parts[i] = InterfaceToString(value[i])
		}
		return strings.Join(parts, ", ")
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// SliceDiceSpit sorts, limits, projects and renders records. Records are
// expected to be already filtered. If w is nil, os.Stdout is used.
func SliceDiceSpit(records []map[string]interface{}, al attrs.AttrList, opts Options, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	// Sort keys may name output labels, so map them back to record paths.
	SortDataset(records, sortPaths(opts.Sort, al))

	if opts.Limit > 0 && len(records) > opts.Limit {
		records = records[:opts.Limit]
	}

	// If raw, dump the unprojected records and go home.
	if opts.Format == "raw" {
		return writeJSON(w, records)
	}

	included := al.Included()
	rows := make([][]interface{}, 0, len(records))
	for _, record := range records {
		rows = append(rows, al.Project(record))
	}

	switch opts.Format {
	case "json":
		out := make([]orderedRow, 0, len(rows))
		for _, row := range rows {
			out = append(out, orderedRow{attrs: included, values: row})
		}
		return writeJSON(w, out)
	case "yaml":
		out := make([]yaml.MapSlice, 0, len(rows))
		for _, row := range rows {
			item := make(yaml.MapSlice, 0, len(row))
			for i := range row {
				item = append(item, yaml.MapItem{Key: included[i].OutputKey, Value: row[i]})
			}
			out = append(out, item)
		}
		data, err := yaml.Marshal(out)
		if err != nil {
			return fmt.Errorf("yaml marshal: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "csv":
		return CSVWriter(rows, included, w)
	case "", "text":
		TableWriter(rows, included, opts, w)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want one of %s)", opts.Format, strings.Join(Formats, ", "))
	}
}

// orderedRow marshals to a JSON object whose keys keep attr order.
type orderedRow struct {
	attrs  attrs.AttrList
	values []interface{}
}

func (r orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := range r.attrs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.attrs[i].OutputKey)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		log.Errorf("SliceDiceSpit json marshal: %v", err)
		return fmt.Errorf("json marshal: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// CSVWriter writes a header of output keys and one line per row. List values
// are joined with ", ".
func CSVWriter(rows [][]interface{}, included attrs.AttrList, w io.Writer) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(included))
	for i := range included {
		header[i] = included[i].OutputKey
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		line := make([]string, len(row))
		for i := range row {
			line[i] = InterfaceToString(row[i])
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// TableWriter renders the rows in a tabular form honoring color, titles and
// padding options. Output is written to w. If w is nil, os.Stdout is used.
func TableWriter(rows [][]interface{}, included attrs.AttrList, opts Options, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	// We return early if there are no results to display.
	if len(rows) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
	}

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := make([]string, len(row))
		for i := range row {
			line[i] = InterfaceToString(row[i], "-")
		}
		cells = append(cells, line)
	}

	if opts.Header != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Header))
	}

	pad := opts.Padding
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(cells...)

	if opts.Titles {
		headers := make([]string, len(included))
		for i := range included {
			headers[i] = included[i].OutputKey
		}

		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)

	if opts.Footer != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Footer))
	}
}

// ColorDefault reports whether colored output suits w: a terminal, and
// NO_COLOR unset.
func ColorDefault(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// getColors returns configured color values for table rendering. Each color is
// selected based on terminal background color and brightness so that we can
// make sure output is reasonably visible for all(?) terminal themes.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	// Use the explicit color if found in the config and leave it up to the user
	// to choose appropriate colors for their theme.
	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil && colorCfg != "" {
			return lipgloss.Color(colorCfg)
		}

		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")

	return
}
