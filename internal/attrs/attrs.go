// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rosterq/rosterq/internal/driller"
	"github.com/rosterq/rosterq/internal/log"
)

// Attr represents each of the record fields to be included in the output.
type Attr struct {
	// The dot path to extract from each record.
	Key string `yaml:"key" json:"Key"`
	// Should this Attr be included in output or is it just
	// intended for sorting?
	Include bool `yaml:"include" json:"Include"`
	// The key to use in the output. This is also the column title when
	// output=text.
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// Transformation spec to apply to the output value.
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

var lengthRE = regexp.MustCompile(`-?\d+`)

// Value extracts the attr's key from record and applies the transform.
func (a *Attr) Value(record any) (interface{}, bool) {
	v, ok := driller.Drill(record, a.Key)
	if !ok {
		return nil, false
	}
	return a.Transform(v), true
}

// Transform applies the attribute's transform spec to a value and returns the
// transformed result. List elements are transformed one by one.
func (a *Attr) Transform(value interface{}) interface{} {
	if a.TransformSpec == "" {
		return value
	}

	switch v := value.(type) {
	case []interface{}:
		out := make([]interface{}, len(v))
		for i := range v {
			out[i] = a.Transform(v[i])
		}
		return out
	case map[string]interface{}:
		log.Tracef("map value: value=%v", value)
		return v
	case string:
		return a.transformString(v)
	}

	if n, ok := asFloat(value); ok && strings.Contains(a.TransformSpec, "c") {
		if n == math.Trunc(n) && math.Abs(n) < 1e15 {
			return humanize.Comma(int64(n))
		}
		return humanize.Commaf(n)
	}

	log.Tracef("untransformed value: value=%v", value)
	return value
}

func (a *Attr) transformString(result string) string {
	// Dates: t renders in the local zone, T as a relative time.
	if strings.ContainsAny(a.TransformSpec, "tT") {
		if t, dateOnly, ok := parseTime(result); ok {
			local := t.In(time.Local)
			switch {
			case strings.Contains(a.TransformSpec, "T"):
				result = humanize.Time(local)
				log.Tracef("time ago: result=%s", result)
			case dateOnly:
				result = t.Format("Jan 2, 2006")
				log.Tracef("date long: result=%s", result)
			default:
				result = local.Format("2006-01-02T15:04:05MST")
				log.Tracef("time local: result=%s", result)
			}
		}
	}

	if strings.Contains(a.TransformSpec, "c") {
		if n, err := strconv.ParseFloat(result, 64); err == nil {
			if n == math.Trunc(n) {
				result = humanize.Comma(int64(n))
			} else {
				result = humanize.Commaf(n)
			}
		}
	}

	// The case transformation appearing last wins. This covers a global
	// transformation prepended to the attr's own, so '*::U,name::l' is lower.
	lastL := strings.LastIndexAny(a.TransformSpec, "lL")
	lastU := strings.LastIndexAny(a.TransformSpec, "uU")

	if lastL > lastU {
		result = strings.ToLower(result)
		log.Tracef("case lower: result=%s", result)
	} else if lastU > lastL {
		result = strings.ToUpper(result)
		log.Tracef("case upper: result=%s", result)
	}

	// Length: the last number wins, same as case. Negative keeps both ends.
	match := lengthRE.FindAllString(a.TransformSpec, -1)
	if len(match) != 0 {
		l, _ := strconv.Atoi(match[len(match)-1])
		abs := int(math.Abs(float64(l)))
		runes := []rune(result)
		if len(runes) > abs {
			if l < 0 {
				lr := max(abs/2-1, 0)
				result = string(runes[:lr]) + ".." + string(runes[len(runes)-lr:])
				log.Tracef("length middle: result=%s", result)
			} else {
				result = string(runes[:l])
				log.Tracef("length trunc: result=%s", result)
			}
		}
	}

	return result
}

func parseTime(s string) (time.Time, bool, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, true
	}
	if len(s) >= 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return t, true, true
		}
	}
	return time.Time{}, false, false
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}

// AttrList is a collection of Attr used to shape output fields.
type AttrList []Attr

// Set parses each spec from --attrs and adds it to the AttrList.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		log.Debugf("early return: value=%s", value)
		return nil
	}

	const (
		keyIdx = iota
		outputIdx
		transformIdx
	)

	// There are three : delimited fields in each spec: the record path, the
	// output key and the transform spec. The latter two are optional. The
	// output key defaults to the last segment of the path.
	specs := strings.Split(value, ",")
	log.Debugf("specs split: specs=%v", specs)
specloop:
	for _, spec := range specs {
		if strings.TrimSpace(spec) == "" {
			continue
		}

		attr := Attr{
			Include: true,
		}

		fields := strings.Split(spec, ":")
		if len(fields) > 3 {
			return fmt.Errorf("invalid attr spec %q: too many fields", spec)
		}

		// A leading ! keeps the attr for sorting but hides it.
		attr.Key = strings.TrimPrefix(strings.TrimSpace(fields[keyIdx]), ".")
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		if attr.Key == "" {
			return fmt.Errorf("invalid attr spec %q: empty key", spec)
		}

		if attr.Key == "*" {
			attr.Include = false
		}
		log.Tracef("key parsed: key=%s, include=%v", attr.Key, attr.Include)

		if len(fields) == 1 || fields[outputIdx] == "" {
			segments := strings.Split(attr.Key, ".")
			attr.OutputKey = segments[len(segments)-1]
		} else {
			attr.OutputKey = strings.TrimSpace(fields[outputIdx])
		}
		log.Tracef("output set: outputKey=%s", attr.OutputKey)

		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}
		log.Tracef("transform set: spec=%s", attr.TransformSpec)

		// Respecifying an attr that already exists (a configured default, or
		// entered twice) updates it in place.
		for i := range *a {
			if (*a)[i].Key == attr.Key || (*a)[i].OutputKey == attr.Key {
				(*a)[i].Include = attr.Include
				(*a)[i].OutputKey = attr.OutputKey
				(*a)[i].TransformSpec = attr.TransformSpec
				log.Tracef("existing updated: i=%d", i)
				continue specloop
			}
		}

		*a = append(*a, attr)
		log.Tracef("attr appended: len=%d", len(*a))
	}

	return nil
}

// SetGlobalTransformSpec inserts a global transform spec at the front of all
// attrs in the list.
func (a *AttrList) SetGlobalTransformSpec() error {
	spec := ""

	// If there is more than one, take the first.
	for i := range *a {
		if (*a)[i].Key == "*" {
			spec = (*a)[i].TransformSpec
			break
		}
	}
	log.Debugf("global spec: spec=%s", spec)

	if spec == "" {
		return nil
	}

	for i := range *a {
		(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
	}
	log.Debugf("specs prepended")

	return nil
}

// Included returns the attrs that appear in output, in order.
func (a AttrList) Included() AttrList {
	out := make(AttrList, 0, len(a))
	for _, attr := range a {
		if attr.Include && attr.Key != "*" {
			out = append(out, attr)
		}
	}
	return out
}

// Project shapes record into an ordered set of output values, one per
// included attr. Missing paths yield nil.
func (a AttrList) Project(record any) []interface{} {
	included := a.Included()
	row := make([]interface{}, len(included))
	for i := range included {
		row[i], _ = included[i].Value(record)
	}
	return row
}

// String returns a string representation of the AttrList. This matches the
// format of the --attrs flag.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}

	resultStr := strings.Join(result, ",")
	log.Debugf("string built: result=%s", resultStr)
	return resultStr
}

// Type returns the flag type for use with the flag.Value interface.
func (a *AttrList) Type() string { return "list" }

// Default is the attr set used when none is configured.
const Default = "id,firstName:first,lastName:last,department,role,salary::c,joinDate:joined,isActive:active"
