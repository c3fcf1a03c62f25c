// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLRoundTrip(t *testing.T) {
	link, err := EncodeURL("http://localhost:8080/api/employees?page=2", sample())
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "2", u.Query().Get("page"))

	assert.Equal(t, sample(), DecodeURL(link))
	assert.Equal(t, sample(), DecodeURL("?"+u.RawQuery))
	assert.Equal(t, sample(), DecodeURL(u.RawQuery))
}

func TestEncodeURLEmptyDropsParam(t *testing.T) {
	link, err := EncodeURL("http://localhost/?filters=old&x=1", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/?x=1", link)
}

func TestDecodeURLDoubleEncoded(t *testing.T) {
	inner := url.QueryEscape(`[{"id":"z","field":"role","operator":"startsWith","value":"Senior"}]`)
	got := DecodeURL("http://localhost/?filters=" + url.QueryEscape(inner))
	require.Len(t, got, 1)
	assert.Equal(t, "z", got[0].ID)
}

func TestDecodeURLGarbage(t *testing.T) {
	assert.Empty(t, DecodeURL(""))
	assert.Empty(t, DecodeURL("http://localhost/"))
	assert.Empty(t, DecodeURL("http://localhost/?filters=%7Bnope"))
}

func TestInitialPrefersURL(t *testing.T) {
	f := File{Path: filepath.Join("testdata", "handwritten.yaml")}

	link, err := EncodeURL("http://localhost/", sample()[:1])
	require.NoError(t, err)

	assert.Len(t, Initial(link, f), 1)
	assert.Len(t, Initial("", f), 3)
	assert.Empty(t, Initial("", File{Path: filepath.Join("testdata", "missing.json")}))
}
