// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws loads AWS configuration and moves record documents in and out
// of S3 for s3://bucket/key sources and outputs.
package aws
