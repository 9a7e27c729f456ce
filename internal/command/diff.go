// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/staranto/tudsgo/internal/meta"
	"github.com/staranto/tudsgo/internal/tu"
)

// DiffCommandAction is the action handler for the "diff" subcommand. It loads
// both variants of the named dataset and reports how the cleaned variant's
// summary differs from the canonical one.
func DiffCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Bail out early if we're just dumping tldr.
	if ShortCircuitTLDR(ctx, cmd, "diff") {
		return nil
	}

	opts, err := DatasetOptions(cmd, m)
	if err != nil {
		return err
	}

	canonical, err := tu.New(opts)
	if err != nil {
		return err
	}

	opts.Cleaned = true
	cleaned, err := tu.New(opts)
	if err != nil {
		return err
	}

	if err := canonical.Load(ctx); err != nil {
		return err
	}
	if err := cleaned.Load(ctx); err != nil {
		return err
	}

	left, err := json.Marshal(canonical.Stats())
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	right, err := json.Marshal(cleaned.Stats())
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	d, err := gojsondiff.New().Compare(left, right)
	if err != nil {
		return fmt.Errorf("failed to diff variants: %w", err)
	}

	if !d.Modified() {
		fmt.Println("no differences")
		return nil
	}

	var leftMap map[string]interface{}
	if err := json.Unmarshal(left, &leftMap); err != nil {
		return err
	}

	f := formatter.NewAsciiFormatter(leftMap, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       cmd.Bool("color"),
	})
	out, err := f.Format(d)
	if err != nil {
		return fmt.Errorf("failed to format diff: %w", err)
	}

	fmt.Print(out)
	return nil
}

// DiffCommandBuilder constructs the cli.Command for "diff", wiring metadata,
// flags, and action/validator handlers.
func DiffCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "diff the canonical and cleaned variants of a dataset",
		UsageText: `tuds diff NAME [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.BoolWithInverseFlag{
				Name:    "color",
				Aliases: []string{"c"},
				Usage:   "enable colored diff output",
				Value:   false,
			},
			NewRootFlag("diff"),
			tldrFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := GlobalFlagsValidator(ctx, cmd); err != nil {
				return err
			}
			return DiffCommandAction(ctx, cmd)
		},
	}
}
