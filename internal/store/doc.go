// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package store keeps the ordered list of filter conditions being built and
// persists it to a file or a URL query parameter.
package store
