// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package catalog describes the filterable fields of a record type: their
// paths, labels, types and the operators offered for each. The filter engine
// never consults it; the CLI and the builder use it to type raw input and to
// warn about conditions that cannot match the way they read.
package catalog
