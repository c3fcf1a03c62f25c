// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package server is a small mock employees API. It serves the loaded records
// and applies conditions passed in the filters query parameter, so a URL
// produced by "rosterq filters url" can be fetched directly.
package server
