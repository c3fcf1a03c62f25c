// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"gopkg.in/yaml.v3"

	"github.com/rosterq/rosterq/internal/ctyval"
	"github.com/rosterq/rosterq/internal/filters"
)

// Format names a file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// blockType is the HCL block each condition is written as.
const blockType = "filter"

// File persists conditions at Path. The encoding follows the extension:
// .yaml/.yml, .hcl, anything else JSON.
type File struct {
	Path string
}

// DefaultPath is the store file used when none is configured.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".rosterq-filters.json"
	}
	return filepath.Join(dir, "rosterq", "filters.json")
}

// Format returns the encoding chosen by the file's extension.
func (f File) Format() Format {
	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".hcl":
		return FormatHCL
	default:
		return FormatJSON
	}
}

// Load reads the file. A missing file holds no conditions.
func (f File) Load() ([]filters.Condition, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return Unmarshal(f.Format(), data, f.Path)
}

// Save writes conditions to the file. Saving an empty list removes it.
func (f File) Save(conditions []filters.Condition) error {
	if len(conditions) == 0 {
		err := os.Remove(f.Path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		log.Debugf("removed empty filter store %s", f.Path)
		return nil
	}

	data, err := Marshal(f.Format(), conditions)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	// Write to a temp file and rename so a reader never sees half a file.
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	log.Debugf("saved %d filters to %s", len(conditions), f.Path)
	return nil
}

// Marshal encodes conditions in the given format.
func Marshal(format Format, conditions []filters.Condition) ([]byte, error) {
	plain := encode(conditions)

	switch format {
	case FormatYAML:
		return yaml.Marshal(plain)
	case FormatHCL:
		file := hclwrite.NewEmptyFile()
		body := file.Body()
		for i, m := range plain {
			if i > 0 {
				body.AppendNewline()
			}
			block := body.AppendNewBlock(blockType, nil).Body()
			keys := make([]string, 0, len(m))
			for k := range m {
				keys = append(keys, k)
			}
			sort.Slice(keys, func(a, b int) bool { return hclOrder(keys[a]) < hclOrder(keys[b]) })
			for _, k := range keys {
				block.SetAttributeValue(k, ctyval.ToCty(m[k]))
			}
		}
		return hclwrite.Format(file.Bytes()), nil
	default:
		data, err := json.MarshalIndent(plain, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

func hclOrder(key string) int {
	switch key {
	case "id":
		return 0
	case "field":
		return 1
	case "operator":
		return 2
	default:
		return 3
	}
}

// Unmarshal decodes conditions in the given format. name is used in
// diagnostics only. Malformed documents are errors; malformed entries are
// dropped, see Decode.
func Unmarshal(format Format, data []byte, name string) ([]filters.Condition, error) {
	var raw []interface{}

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
	case FormatHCL:
		file, diags := hclsyntax.ParseConfig(data, name, hcl.Pos{Line: 1, Column: 1})
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing %s: %s", name, diags.Error())
		}
		body, ok := file.Body.(*hclsyntax.Body)
		if !ok {
			return nil, fmt.Errorf("parsing %s: unexpected body type", name)
		}
		for _, block := range body.Blocks {
			if block.Type != blockType {
				log.Warnf("%s: ignoring %q block", name, block.Type)
				continue
			}
			m := map[string]interface{}{}
			for attrName, attr := range block.Body.Attributes {
				val, diags := attr.Expr.Value(nil)
				if diags.HasErrors() {
					log.Warnf("%s: %s: %s", name, attrName, diags.Error())
					continue
				}
				m[attrName] = ctyval.ToGo(val)
			}
			raw = append(raw, m)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
	}

	return Decode(raw), nil
}
