// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package builder is the interactive terminal filter builder. Conditions are
// added, retargeted and edited against the field catalog while the matching
// employees update live; every change is saved to the condition store after a
// short quiet period.
package builder
