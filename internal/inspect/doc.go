// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package inspect evaluates HCL expressions over employee records, one-shot
// or from an interactive console.
package inspect
