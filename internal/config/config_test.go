// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withConfig points ROSTERQ_CFG_FILE at a testdata file, loads it and runs fn
// with an optional namespace set.
func withConfig(t *testing.T, testFile, namespace string, fn func(t *testing.T)) {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("testdata", testFile))
	require.NoError(t, err)
	t.Setenv("ROSTERQ_CFG_FILE", absPath)

	Config = Type{}
	t.Cleanup(func() { Config = Type{} })

	_, err = Load()
	require.NoError(t, err)
	Config.Namespace = namespace

	fn(t)
}

func TestLoad(t *testing.T) {
	withConfig(t, "simple.yaml", "", func(t *testing.T) {
		assert.NotEmpty(t, Config.Source)
		assert.Equal(t, "fixture:80", Config.Data["source"])
	})
}

func TestLoad_ExplicitPath(t *testing.T) {
	t.Setenv("ROSTERQ_CFG_FILE", "/nonexistent/rosterq.yaml")
	Config = Type{}
	defer func() { Config = Type{} }()

	cfg, err := Load(filepath.Join("testdata", "namespace.yaml"))
	require.NoError(t, err)
	assert.Contains(t, cfg.Data, "query")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  string
	}{
		{"missing file", "/nonexistent/path/rosterq.yaml"},
		{"directory", "testdata"},
		{"invalid yaml", filepath.Join("testdata", "invalid.yaml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ROSTERQ_CFG_FILE", tt.env)
			Config = Type{}
			defer func() { Config = Type{} }()

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGetters(t *testing.T) {
	withConfig(t, "simple.yaml", "", func(t *testing.T) {
		s, err := GetString("sort")
		require.NoError(t, err)
		assert.Equal(t, "lastName,firstName", s)

		n, err := GetInt("limit")
		require.NoError(t, err)
		assert.Equal(t, 25, n)

		b, err := GetBool("color")
		require.NoError(t, err)
		assert.True(t, b)

		attrs, err := GetStringSlice("attrs")
		require.NoError(t, err)
		assert.Equal(t, []string{"firstName", "lastName", "salary::c"}, attrs)

		_, err = GetInt("sort")
		assert.Error(t, err)
		_, err = GetString("limit")
		assert.Error(t, err)
		_, err = GetBool("sort")
		assert.Error(t, err)

		d, err := GetString("missing", "fallback")
		require.NoError(t, err)
		assert.Equal(t, "fallback", d)

		_, err = GetString("missing")
		assert.Error(t, err)
	})
}

func TestNamespacePreference(t *testing.T) {
	withConfig(t, "namespace.yaml", "query", func(t *testing.T) {
		s, _ := GetString("sort")
		assert.Equal(t, "-salary", s)

		// Falls back to the unnamespaced key.
		attrs, err := GetStringSlice("attrs")
		require.NoError(t, err)
		assert.Equal(t, []string{"email"}, attrs)

		set, err := GetStringSlice("eng")
		require.NoError(t, err)
		assert.Equal(t, []string{"--filter", "department=Engineering"}, set)

		title, _ := GetString("colors.title")
		assert.Equal(t, "#623CE4", title)

		hours, _ := GetInt("cache.hours")
		assert.Equal(t, 2, hours)
	})

	withConfig(t, "namespace.yaml", "", func(t *testing.T) {
		s, _ := GetString("sort")
		assert.Equal(t, "lastName", s)
	})
}
