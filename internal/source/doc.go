// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package source loads employee records from generated fixtures, stdin,
// local files, HTTP(S) endpoints and S3 objects. Documents are either a bare
// JSON array of records or an object holding the array under "employees".
package source
