// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/apex/log"

	"github.com/rosterq/rosterq/internal/filters"
)

// URLParam is the query parameter holding the encoded condition list.
const URLParam = "filters"

// EncodeURL sets the filters parameter of base to the JSON encoded
// conditions. An empty list removes the parameter.
func EncodeURL(base string, conditions []filters.Condition) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing url: %w", err)
	}

	q := u.Query()
	if len(conditions) == 0 {
		q.Del(URLParam)
	} else {
		data, err := json.Marshal(encode(conditions))
		if err != nil {
			return "", err
		}
		q.Set(URLParam, string(data))
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// DecodeURL reads conditions from the filters parameter of a URL or a bare
// query string. A value that was URI encoded twice is accepted too. Anything
// unreadable yields no conditions.
func DecodeURL(raw string) []filters.Condition {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var q url.Values
	if u, err := url.Parse(raw); err == nil && u.RawQuery != "" {
		q = u.Query()
	} else if parsed, err := url.ParseQuery(strings.TrimPrefix(raw, "?")); err == nil {
		q = parsed
	}

	encoded := q.Get(URLParam)
	if encoded == "" {
		return nil
	}

	if !strings.HasPrefix(strings.TrimSpace(encoded), "[") {
		if unescaped, err := url.QueryUnescape(encoded); err == nil {
			encoded = unescaped
		}
	}

	var entries []interface{}
	if err := json.Unmarshal([]byte(encoded), &entries); err != nil {
		log.Warnf("ignoring unreadable %s parameter: %v", URLParam, err)
		return nil
	}
	return Decode(entries)
}

// Initial returns the conditions to start from: those in rawURL when it
// holds any, otherwise those in f.
func Initial(rawURL string, f File) []filters.Condition {
	if fromURL := DecodeURL(rawURL); len(fromURL) > 0 {
		return fromURL
	}

	conditions, err := f.Load()
	if err != nil {
		log.WithError(err).Warnf("reading filter store %s", f.Path)
		return nil
	}
	return conditions
}
