// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/rosterq/rosterq/internal/config"
)

// Meta contains runtime metadata shared by commands. It carries CLI arguments,
// loaded configuration, context and the starting working directory.
type Meta struct {
	Args        []string
	Config      config.Type
	Context     context.Context
	StartingDir string
}

// Namespace returns the command namespace used for config lookups, which is
// the subcommand name when one was given.
func (m Meta) Namespace() string {
	return m.Config.Namespace
}

// ConfigFile returns the path of the loaded config file, or "" when none was
// found.
func (m Meta) ConfigFile() string {
	return m.Config.Source
}
