// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strings"

	"github.com/rosterq/rosterq/internal/attrs"
	"github.com/rosterq/rosterq/internal/driller"
)

type sortKey struct {
	path          string
	ascending     bool
	caseSensitive bool
}

func parseSortSpec(spec string) []sortKey {
	var keys []sortKey
	for _, field := range strings.Split(spec, ",") {
		field = strings.TrimSpace(field)
		key := sortKey{ascending: true}
		if strings.HasPrefix(field, "-") {
			field = strings.TrimPrefix(field, "-")
			key.ascending = false
		}
		if strings.HasPrefix(field, "!") {
			field = strings.TrimPrefix(field, "!")
			key.caseSensitive = true
		}
		if field == "" {
			continue
		}
		key.path = field
		keys = append(keys, key)
	}
	return keys
}

// SortDataset stable-sorts records by a comma separated list of dot paths.
// A leading - sorts descending and a leading ! compares case-sensitively.
// Numbers compare numerically, everything else as text. Missing values sort
// as empty text.
func SortDataset(resultSet []map[string]interface{}, spec string) {
	keys := parseSortSpec(spec)
	if len(keys) == 0 {
		return
	}

	sort.SliceStable(resultSet, func(one, two int) bool {
		for _, key := range keys {
			oneValue, _ := driller.Drill(resultSet[one], key.path)
			twoValue, _ := driller.Drill(resultSet[two], key.path)

			oneNum, oneOk := asNumber(oneValue)
			twoNum, twoOk := asNumber(twoValue)
			if oneOk && twoOk {
				if oneNum != twoNum {
					if key.ascending {
						return oneNum < twoNum
					}
					return oneNum > twoNum
				}
				continue
			}

			// Fall back to string comparison which can also handle bools.
			oneStr := InterfaceToString(oneValue)
			twoStr := InterfaceToString(twoValue)
			if !key.caseSensitive {
				oneStr = strings.ToLower(oneStr)
				twoStr = strings.ToLower(twoStr)
			}

			if oneStr != twoStr {
				if key.ascending {
					return oneStr < twoStr
				}
				return oneStr > twoStr
			}
		}
		return false
	})
}

// sortPaths rewrites sort keys naming an attr's output key to its path.
func sortPaths(spec string, al attrs.AttrList) string {
	keys := parseSortSpec(spec)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		path := key.path
		for _, a := range al {
			if a.OutputKey == path && a.Key != "*" {
				path = a.Key
				break
			}
		}
		prefix := ""
		if !key.ascending {
			prefix += "-"
		}
		if key.caseSensitive {
			prefix += "!"
		}
		parts = append(parts, prefix+path)
	}
	return strings.Join(parts, ",")
}

func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
