// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/apex/log"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/tudsgo/internal/config"
	"github.com/staranto/tudsgo/internal/meta"
	"github.com/staranto/tudsgo/internal/tu"
)

// GqCommandAction is the action handler for the "gq" subcommand. It loads the
// named dataset (fetching and processing it first when needed) and emits one
// row per graph record.
func GqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Bail out early if we're just dumping tldr.
	if ShortCircuitTLDR(ctx, cmd, "gq") {
		return nil
	}

	config.Config.Namespace = "gq"

	opts, err := DatasetOptions(cmd, m)
	if err != nil {
		return err
	}
	opts.UseNodeAttributes = cmd.Bool("node-attrs")
	opts.UseEdgeAttributes = cmd.Bool("edge-attrs")

	ds, err := tu.New(opts)
	if err != nil {
		return err
	}
	if err := ds.Load(ctx); err != nil {
		return err
	}

	attrs := BuildAttrs(cmd,
		"graph", "nodes", "edges", "y", "!node_features", "!edge_features")
	log.Debugf("attrs: %v", attrs)

	rows := make([]map[string]any, 0, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		g := ds.Get(i)

		var y any
		switch {
		case len(g.Y) == 1:
			y = g.Y[0]
		case len(g.Y) > 1:
			y = g.Y
		}

		rows = append(rows, map[string]any{
			"graph":         i + 1,
			"nodes":         g.NumNodes(),
			"edges":         g.NumEdges(),
			"y":             y,
			"node_features": g.X.Cols,
			"edge_features": g.EdgeAttr.Cols,
		})
	}

	return EmitJSONSlice(rows, attrs, cmd)
}

// GqCommandBuilder constructs the cli.Command for "gq", wiring metadata,
// flags, and action/validator handlers.
func GqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "gq",
		Usage:     "graph query",
		UsageText: `tuds gq NAME [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "node-attrs",
				Usage: "keep continuous node attribute channels",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("gq.node-attrs", altsrc.StringSourcer(cfg.Source)),
				),
				Value: false,
			},
			&cli.BoolFlag{
				Name:  "edge-attrs",
				Usage: "keep continuous edge attribute channels",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("gq.edge-attrs", altsrc.StringSourcer(cfg.Source)),
				),
				Value: false,
			},
			NewCleanedFlag("gq"),
			NewRootFlag("gq"),
			tldrFlag,
		}, NewGlobalFlags("gq")...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := GlobalFlagsValidator(ctx, cmd); err != nil {
				return err
			}
			return GqCommandAction(ctx, cmd)
		},
	}
}
