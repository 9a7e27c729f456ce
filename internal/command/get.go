// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/apex/log"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/tudsgo/internal/meta"
	"github.com/staranto/tudsgo/internal/progress"
	"github.com/staranto/tudsgo/internal/tu"
)

// GetCommandAction is the action handler for the "get" subcommand. It brings
// the named dataset's raw and processed caches up to date, downloading and
// parsing only the stages whose files are missing.
func GetCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Bail out early if we're just dumping tldr.
	if ShortCircuitTLDR(ctx, cmd, "get") {
		return nil
	}

	opts, err := DatasetOptions(cmd, m)
	if err != nil {
		return err
	}

	ds, err := tu.New(opts)
	if err != nil {
		return err
	}

	// --force discards the processed artifacts so they're rebuilt from the
	// kept raw files. It never triggers a re-download.
	if cmd.Bool("force") {
		if err := os.RemoveAll(ds.ProcessedDir()); err != nil {
			return fmt.Errorf("failed to clear processed directory: %w", err)
		}
	}

	var tracker *progress.Tracker
	if cmd.Bool("progress") {
		tracker = progress.Start(ds.Name)
		ds.Progress = tracker.Update
	}

	err = ds.Load(ctx)
	tracker.Finish()
	if err != nil {
		return err
	}

	fmt.Printf("%s cached at %s\n", ds.String(), ds.ProcessedDir())
	return nil
}

// GetCommandBuilder constructs the cli.Command for "get", wiring metadata,
// flags, and action/validator handlers.
func GetCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "download and cache a dataset",
		UsageText: `tuds get NAME [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "rebuild the processed artifacts from the raw files",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "mirror",
				Usage: "alternate base URL (https:// or s3://) for the dataset archive",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("get.mirror", altsrc.StringSourcer(cfg.Source)),
					yaml.YAML("mirror", altsrc.StringSourcer(cfg.Source)),
				),
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "show a download meter on interactive terminals",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("get.progress", altsrc.StringSourcer(cfg.Source)),
				),
				Value: false,
			},
			NewCleanedFlag("get"),
			NewRootFlag("get"),
			tldrFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := GlobalFlagsValidator(ctx, cmd); err != nil {
				return err
			}
			return GetCommandAction(ctx, cmd)
		},
	}
}
