// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/urfave/cli/v3"

	"github.com/staranto/tudsgo/internal/attrs"
	"github.com/staranto/tudsgo/internal/meta"
	"github.com/staranto/tudsgo/internal/output"
	"github.com/staranto/tudsgo/internal/tu"
)

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr tuds <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "tuds", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		al.SetGlobalTransformSpec()
	}
	return
}

// EmitJSONSlice marshals a slice as JSON and passes it to the common output
// routine.
func EmitJSONSlice(results any, al attrs.AttrList, cmd *cli.Command) error {
	var raw bytes.Buffer
	enc := json.NewEncoder(&raw)
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	output.SliceDiceSpit(raw, al, cmd, "", os.Stdout)
	return nil
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// ResolveRoot picks the dataset root for a command: the --root flag when
// given, otherwise the root carried in meta.
func ResolveRoot(cmd *cli.Command, m meta.Meta) (string, error) {
	if r := cmd.String("root"); r != "" {
		return r, nil
	}
	if m.Root != "" {
		return m.Root, nil
	}
	return "", fmt.Errorf("no dataset root; set --root, TUDS_ROOT or the root key of tuds.yaml")
}

// DatasetOptions assembles tu.Options from the positional dataset name and
// the command's flags. The name is required.
func DatasetOptions(cmd *cli.Command, m meta.Meta) (tu.Options, error) {
	name := cmd.Args().First()
	if name == "" {
		return tu.Options{}, fmt.Errorf("dataset name is required")
	}

	root, err := ResolveRoot(cmd, m)
	if err != nil {
		return tu.Options{}, err
	}

	return tu.Options{
		Root:    root,
		Name:    name,
		Cleaned: cmd.Bool("cleaned"),
		BaseURL: cmd.String("mirror"),
	}, nil
}
