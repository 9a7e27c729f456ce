// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/staranto/tudsgo/internal/attrs"
	"github.com/staranto/tudsgo/internal/meta"
)

func TestBuildAttrs(t *testing.T) {
	var got attrs.AttrList

	cmd := &cli.Command{
		Name:  "x",
		Flags: []cli.Flag{&cli.StringFlag{Name: "attrs"}},
		Action: func(ctx context.Context, c *cli.Command) error {
			got = BuildAttrs(c, "name", "graphs", "!node_features")
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), []string{"x", "--attrs", "variant::u,!graphs"}))

	require.Len(t, got, 4)
	assert.Equal(t, "name", got[0].Key)
	assert.True(t, got[0].Include)
	// --attrs toggled the default off.
	assert.False(t, got[1].Include)
	assert.False(t, got[2].Include)
	assert.Equal(t, "variant", got[3].Key)
	assert.Equal(t, "u", got[3].TransformSpec)
}

func TestGetMeta(t *testing.T) {
	assert.Equal(t, meta.Meta{}, GetMeta(nil))
	assert.Equal(t, meta.Meta{}, GetMeta(&cli.Command{}))
	assert.Equal(t, meta.Meta{}, GetMeta(&cli.Command{
		Metadata: map[string]any{"meta": "wrong type"},
	}))

	want := meta.Meta{Root: "/data", Args: []string{"tuds", "dq"}}
	got := GetMeta(&cli.Command{Metadata: map[string]any{"meta": want}})
	assert.Equal(t, want, got)
}

func TestDatasetOptions(t *testing.T) {
	run := func(args ...string) (err error) {
		cmd := &cli.Command{
			Name: "x",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "root"},
				&cli.BoolFlag{Name: "cleaned"},
				&cli.StringFlag{Name: "mirror"},
			},
			Metadata: map[string]any{"meta": meta.Meta{Root: "/fallback"}},
			Action: func(ctx context.Context, c *cli.Command) error {
				opts, optErr := DatasetOptions(c, GetMeta(c))
				if optErr != nil {
					return optErr
				}
				assert.Equal(t, "MUTAG", opts.Name)
				if c.String("root") != "" {
					assert.Equal(t, c.String("root"), opts.Root)
				} else {
					assert.Equal(t, "/fallback", opts.Root)
				}
				assert.Equal(t, c.Bool("cleaned"), opts.Cleaned)
				return nil
			},
		}
		return cmd.Run(context.Background(), append([]string{"x"}, args...))
	}

	assert.NoError(t, run("MUTAG"))
	assert.NoError(t, run("--root", "/data", "--cleaned", "MUTAG"))
	assert.ErrorContains(t, run(), "dataset name is required")
}

func TestScanRoot(t *testing.T) {
	root := t.TempDir()

	// MUTAG: canonical raw and processed.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "MUTAG", "raw"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "MUTAG", "processed"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "MUTAG", "processed", "data.json"),
		[]byte(`[{"x":{}},{"x":{}},{"x":{}}]`), 0o644))

	// AIDS: cleaned raw only, not yet processed.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "AIDS", "raw_cleaned"), 0o755))

	rows, err := scanRoot(root)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byName := map[string]map[string]any{}
	for _, row := range rows {
		byName[row["name"].(string)+"/"+row["variant"].(string)] = row
	}

	mutag := byName["MUTAG/canonical"]
	require.NotNil(t, mutag)
	assert.Equal(t, true, mutag["processed"])
	assert.Equal(t, int64(3), mutag["graphs"])

	aids := byName["AIDS/cleaned"]
	require.NotNil(t, aids)
	assert.Equal(t, false, aids["processed"])
	_, hasGraphs := aids["graphs"]
	assert.False(t, hasGraphs)
}

func TestScanRoot_MissingRoot(t *testing.T) {
	rows, err := scanRoot(filepath.Join(t.TempDir(), "nope"))
	assert.NoError(t, err)
	assert.Nil(t, rows)
}

func TestOutputValidator(t *testing.T) {
	for _, v := range []string{"text", "json", "raw", "yaml"} {
		assert.NoError(t, OutputValidator(v))
	}
	assert.Error(t, OutputValidator("csv"))
}

func TestJammedFlagValidator(t *testing.T) {
	assert.NoError(t, JammedFlagValidator("MUTAG"))
	assert.Error(t, JammedFlagValidator("--titles"))
}

func TestFlagValidators(t *testing.T) {
	assert.NoError(t, FlagValidators("json", OutputValidator))
	assert.Error(t, FlagValidators("--x", JammedFlagValidator))
}

func TestGlobalFlags_RejectJammedValues(t *testing.T) {
	for _, name := range []string{"attrs", "filter", "sort"} {
		cmd := &cli.Command{
			Name:  "x",
			Flags: NewGlobalFlags("x"),
			Action: func(ctx context.Context, c *cli.Command) error {
				return nil
			},
		}
		err := cmd.Run(context.Background(), []string{"x", "--" + name, "--titles"})
		assert.ErrorContains(t, err, "must not begin with '--'", name)
	}
}

func TestInitApp(t *testing.T) {
	app, err := InitApp(context.Background(), []string{"tuds", "dq"})
	require.NoError(t, err)
	assert.Equal(t, "tuds", app.Name)

	var names []string
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t,
		[]string{"diff", "dq", "get", "gq", "purge", "completion"}, names)
}
