// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"fmt"
	"strings"

	"github.com/rosterq/rosterq/internal/log"
)

// leveledLogger routes retryablehttp's logging into the application logger.
type leveledLogger struct{}

func (leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	log.Errorf("%s", withFields(msg, keysAndValues))
}

func (leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debugf("%s", withFields(msg, keysAndValues))
}

func (leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	log.Tracef("%s", withFields(msg, keysAndValues))
}

func (leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	log.Warnf("%s", withFields(msg, keysAndValues))
}

func withFields(msg string, keysAndValues []interface{}) string {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	return b.String()
}
