// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/rosterq/rosterq/internal/filters"
	"github.com/rosterq/rosterq/internal/output"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// GlobalFlagsValidator checks flag combinations no single flag validator can.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if c.Int("limit") < 0 {
		return fmt.Errorf("--limit must not be negative")
	}
	if c.Bool("count") && c.Bool("schema") {
		return fmt.Errorf("--count and --schema are mutually exclusive")
	}
	return nil
}

func OutputValidator(value any) error {
	s, _ := value.(string)
	if !slices.Contains(output.Formats, s) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}

// FilterValidator rejects a non-empty filter spec that yields no conditions.
func FilterValidator(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if len(filters.BuildFilters(s)) == 0 {
		return fmt.Errorf("no valid filters in %q", s)
	}
	return nil
}
