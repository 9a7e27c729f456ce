// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/apex/log"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/tudsgo/internal/cacheutil"
	"github.com/staranto/tudsgo/internal/meta"
)

// PurgeCommandAction is the action handler for the "purge" subcommand. It
// reaps stale archives left behind by interrupted downloads.
func PurgeCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Bail out early if we're just dumping tldr.
	if ShortCircuitTLDR(ctx, cmd, "purge") {
		return nil
	}

	return cacheutil.Purge(int(cmd.Int("hours")))
}

// PurgeCommandBuilder constructs the cli.Command for "purge", wiring
// metadata, flags, and action/validator handlers.
func PurgeCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "purge",
		Usage:     "remove stale downloaded archives",
		UsageText: `tuds purge [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "hours",
				Usage: "purge archives older than this many hours (0 disables)",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("purge.hours", altsrc.StringSourcer(cfg.Source)),
					yaml.YAML("cache.clean", altsrc.StringSourcer(cfg.Source)),
				),
				Value: 168, //nolint:mnd
			},
			tldrFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := GlobalFlagsValidator(ctx, cmd); err != nil {
				return err
			}
			return PurgeCommandAction(ctx, cmd)
		},
	}
}
