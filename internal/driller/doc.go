// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package driller resolves dot-notation field paths (e.g. "address.city")
// against records. Resolution is total: a missing key, or a segment that lands
// on something that is not a mapping (nil, a scalar or an array), yields "not
// found" rather than an error.
package driller
