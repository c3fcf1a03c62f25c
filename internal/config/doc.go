// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for rosterq's user
// configuration. The configuration is a YAML document named rosterq.yaml in
// the user's configuration directory, typically:
//   - Linux: $XDG_CONFIG_HOME/rosterq.yaml or $HOME/.config/rosterq.yaml
//   - macOS: $HOME/Library/Application Support/rosterq.yaml
//   - Windows: %APPDATA%/rosterq.yaml
//
// ROSTERQ_CFG_FILE overrides the location.
package config
