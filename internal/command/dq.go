// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/staranto/tudsgo/internal/config"
	"github.com/staranto/tudsgo/internal/meta"
)

// DqCommandAction is the action handler for the "dq" subcommand. It scans the
// dataset root and emits one row per cached dataset variant.
func DqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Bail out early if we're just dumping tldr.
	if ShortCircuitTLDR(ctx, cmd, "dq") {
		return nil
	}

	config.Config.Namespace = "dq"

	root, err := ResolveRoot(cmd, m)
	if err != nil {
		return err
	}

	attrs := BuildAttrs(cmd, "name", "variant", "graphs", "processed", "size")
	log.Debugf("attrs: %v", attrs)

	rows, err := scanRoot(root)
	if err != nil {
		return err
	}

	return EmitJSONSlice(rows, attrs, cmd)
}

// scanRoot walks one level of the dataset root and summarizes each cached
// variant it finds.
func scanRoot(root string) ([]map[string]any, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	//nolint:prealloc
	var rows []map[string]any
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()

		for _, v := range []struct {
			label  string
			suffix string
		}{
			{"canonical", ""},
			{"cleaned", "_cleaned"},
		} {
			rawDir := filepath.Join(root, name, "raw"+v.suffix)
			processedDir := filepath.Join(root, name, "processed"+v.suffix)

			_, rawErr := os.Stat(rawDir)
			_, processedErr := os.Stat(processedDir)
			if rawErr != nil && processedErr != nil {
				continue
			}

			row := map[string]any{
				"name":      name,
				"variant":   v.label,
				"processed": processedErr == nil,
				"size":      humanize.Bytes(dirSize(filepath.Join(root, name))),
			}

			// The record count comes straight off the artifact, no need to
			// unmarshal the whole document.
			if data, err := os.ReadFile(filepath.Join(processedDir, "data.json")); err == nil {
				row["graphs"] = gjson.GetBytes(data, "#").Int()
			}

			rows = append(rows, row)
		}
	}

	return rows, nil
}

// dirSize totals the file sizes beneath dir. Unreadable entries count as 0.
func dirSize(dir string) uint64 {
	var total uint64
	_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			total += uint64(info.Size()) //nolint:gosec
		}
		return nil
	})
	return total
}

// DqCommandBuilder constructs the cli.Command for "dq", wiring metadata,
// flags, and action/validator handlers.
func DqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "dq",
		Usage:     "dataset cache query",
		UsageText: `tuds dq [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			NewRootFlag("dq"),
			tldrFlag,
		}, NewGlobalFlags("dq")...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := GlobalFlagsValidator(ctx, cmd); err != nil {
				return err
			}
			return DqCommandAction(ctx, cmd)
		},
	}
}
