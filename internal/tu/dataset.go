// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tu

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"

	"github.com/staranto/tudsgo/internal/config"
	"github.com/staranto/tudsgo/internal/fetch"
)

// Upstream hosts for the TU Dortmund graph kernel benchmark collection. The
// cleaned mirror carries the de-duplicated (non-isomorphic) variants.
const (
	CanonicalURL = "https://ls11-www.cs.tu-dortmund.de/people/morris/graphkerneldatasets"
	CleanedURL   = "https://raw.githubusercontent.com/nd7141/graph_datasets/master/datasets"
)

// Options configures a Dataset. Root and Name are required.
type Options struct {
	// Root is the directory under which the per-dataset raw and processed
	// trees live.
	Root string
	// Name is the upstream dataset name, e.g. "MUTAG".
	Name string
	// Cleaned selects the de-duplicated mirror and a separate on-disk
	// subtree, so both variants of a dataset can coexist.
	Cleaned bool
	// BaseURL overrides the upstream host. An s3://bucket/prefix value
	// fetches the archive from a bucket mirror.
	BaseURL string
	// Transform is applied by Get on every access. It is handed the stored
	// record without cloning.
	Transform Transform
	// PreTransform is applied once, before records are persisted.
	PreTransform Transform
	// PreFilter drops records before they are persisted. It runs before
	// PreTransform.
	PreFilter Filter
	// UseNodeAttributes keeps the continuous node attribute columns when
	// loading; otherwise only the one-hot label columns are kept.
	UseNodeAttributes bool
	// UseEdgeAttributes is the edge-channel equivalent of UseNodeAttributes.
	UseEdgeAttributes bool
	// Progress receives byte counts while the archive downloads.
	Progress fetch.ProgressFunc
}

// Dataset is a two-stage disk cache of one benchmark dataset: raw text files
// fetched from upstream, and processed JSON artifacts derived from them. Each
// stage is idempotent once its files exist. Not safe for concurrent
// invocations against the same root and name.
type Dataset struct {
	Options

	graphs            []*Graph
	numNodeAttributes int
	numEdgeAttributes int
	numNodeFeatures   int
	numEdgeFeatures   int
	loaded            bool
}

// New validates opts and returns an unloaded Dataset.
func New(opts Options) (*Dataset, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("dataset root is required")
	}
	if opts.Name == "" {
		return nil, fmt.Errorf("dataset name is required")
	}
	return &Dataset{Options: opts}, nil
}

func (d *Dataset) variant() string {
	if d.Cleaned {
		return "_cleaned"
	}
	return ""
}

// RawDir is where the upstream text files live.
func (d *Dataset) RawDir() string {
	return filepath.Join(d.Root, d.Name, "raw"+d.variant())
}

// ProcessedDir is where the derived artifacts live.
func (d *Dataset) ProcessedDir() string {
	return filepath.Join(d.Root, d.Name, "processed"+d.variant())
}

// RawFileNames lists the files whose presence marks the raw stage complete.
// Optional channel files are not required.
func (d *Dataset) RawFileNames() []string {
	return []string{d.Name + "_A.txt", d.Name + "_graph_indicator.txt"}
}

// ProcessedFileNames lists the artifacts whose presence marks the processed
// stage complete.
func (d *Dataset) ProcessedFileNames() []string {
	return []string{"data.json", "num_node_attributes.json", "num_edge_attributes.json"}
}

// BaseURLFor resolves the upstream host: explicit option first, then the
// urls.cleaned / urls.canonical keys of tuds.yaml, then the defaults.
func (d *Dataset) BaseURLFor() string {
	if d.BaseURL != "" {
		return d.BaseURL
	}
	if d.Cleaned {
		url, _ := config.GetString("urls.cleaned", CleanedURL)
		return url
	}
	url, _ := config.GetString("urls.canonical", CanonicalURL)
	return url
}

// EnsureRaw downloads and unpacks the dataset archive unless the required
// raw files already exist. The archive is removed after a successful
// extract, and any previous raw directory is replaced wholesale.
func (d *Dataset) EnsureRaw(ctx context.Context) error {
	if filesExist(d.RawDir(), d.RawFileNames()) {
		log.Debugf("raw cache hit: %s", d.RawDir())
		return nil
	}

	folder := filepath.Join(d.Root, d.Name)
	url := d.BaseURLFor() + "/" + d.Name + ".zip"

	var fetchOpts []fetch.Option
	if d.Progress != nil {
		fetchOpts = append(fetchOpts, fetch.WithProgress(d.Progress))
	}

	archive, err := fetch.Download(ctx, url, folder, fetchOpts...)
	if err != nil {
		return err
	}

	if err := fetch.ExtractZip(archive, folder); err != nil {
		return err
	}
	if err := os.Remove(archive); err != nil {
		return fmt.Errorf("failed to remove archive: %w", err)
	}

	// The archive unpacks to <folder>/<Name>; that becomes the raw dir for
	// this variant.
	if err := os.RemoveAll(d.RawDir()); err != nil {
		return fmt.Errorf("failed to clear raw directory: %w", err)
	}
	if err := os.Rename(filepath.Join(folder, d.Name), d.RawDir()); err != nil {
		return fmt.Errorf("failed to move extracted files: %w", err)
	}

	return nil
}

// EnsureProcessed parses the raw files into graph records, applies PreFilter
// then PreTransform, and persists the three artifacts. It runs at most once
// per cache configuration; EnsureRaw is invoked first when needed.
func (d *Dataset) EnsureProcessed(ctx context.Context) error {
	if filesExist(d.ProcessedDir(), d.ProcessedFileNames()) {
		log.Debugf("processed cache hit: %s", d.ProcessedDir())
		return nil
	}

	if err := d.EnsureRaw(ctx); err != nil {
		return err
	}

	graphs, numNodeAttributes, numEdgeAttributes, err := ReadDataset(d.RawDir(), d.Name)
	if err != nil {
		return err
	}

	if d.PreFilter != nil {
		kept := make([]*Graph, 0, len(graphs))
		for _, g := range graphs {
			if d.PreFilter(g) {
				kept = append(kept, g)
			}
		}
		graphs = kept
	}

	if d.PreTransform != nil {
		for i, g := range graphs {
			graphs[i] = d.PreTransform(g)
		}
	}

	if err := os.MkdirAll(d.ProcessedDir(), 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create processed directory: %w", err)
	}

	artifacts := []struct {
		name  string
		value any
	}{
		{"data.json", graphs},
		{"num_node_attributes.json", numNodeAttributes},
		{"num_edge_attributes.json", numEdgeAttributes},
	}
	for _, a := range artifacts {
		if err := writeJSON(filepath.Join(d.ProcessedDir(), a.name), a.value); err != nil {
			return err
		}
	}

	log.Debugf("processed %s: %d graphs", d.Name, len(graphs))
	return nil
}

// Load brings the processed artifacts into memory, running the earlier cache
// stages first when their files are missing. Unless the corresponding
// use-attributes flag is set, the leading attribute columns are stripped
// from every record; the Num*Attributes and Num*Features counts always
// describe the full on-disk channel split.
func (d *Dataset) Load(ctx context.Context) error {
	if d.loaded {
		return nil
	}

	if err := d.EnsureProcessed(ctx); err != nil {
		return err
	}

	if err := readJSON(filepath.Join(d.ProcessedDir(), "data.json"), &d.graphs); err != nil {
		return err
	}
	if err := readJSON(filepath.Join(d.ProcessedDir(), "num_node_attributes.json"), &d.numNodeAttributes); err != nil {
		return err
	}
	if err := readJSON(filepath.Join(d.ProcessedDir(), "num_edge_attributes.json"), &d.numEdgeAttributes); err != nil {
		return err
	}

	// Feature counts derive from the stored records. An empty dataset (a
	// reject-all PreFilter) falls back to the attribute counts so the label
	// counts clamp to zero.
	if len(d.graphs) > 0 {
		d.numNodeFeatures = d.graphs[0].X.Cols
		d.numEdgeFeatures = d.graphs[0].EdgeAttr.Cols
	} else {
		d.numNodeFeatures = d.numNodeAttributes
		d.numEdgeFeatures = d.numEdgeAttributes
	}

	if d.numNodeAttributes > 0 && !d.UseNodeAttributes {
		for _, g := range d.graphs {
			g.X = g.X.WithoutLeadingCols(d.numNodeAttributes)
		}
	}
	if d.numEdgeAttributes > 0 && !d.UseEdgeAttributes {
		for _, g := range d.graphs {
			g.EdgeAttr = g.EdgeAttr.WithoutLeadingCols(d.numEdgeAttributes)
		}
	}

	d.loaded = true
	return nil
}

// Len returns the number of loaded records.
func (d *Dataset) Len() int {
	return len(d.graphs)
}

// Get returns the i-th record, applying the per-access Transform when one is
// configured. The stored record is handed to the transform without cloning.
func (d *Dataset) Get(i int) *Graph {
	g := d.graphs[i]
	if d.Transform != nil {
		return d.Transform(g)
	}
	return g
}

// Graphs returns the loaded records without applying the per-access
// Transform.
func (d *Dataset) Graphs() []*Graph {
	return d.graphs
}

// NumNodeAttributes returns the count of continuous node channels.
func (d *Dataset) NumNodeAttributes() int { return d.numNodeAttributes }

// NumEdgeAttributes returns the count of continuous edge channels.
func (d *Dataset) NumEdgeAttributes() int { return d.numEdgeAttributes }

// NumNodeFeatures returns the full node channel count (attributes + labels).
func (d *Dataset) NumNodeFeatures() int { return d.numNodeFeatures }

// NumEdgeFeatures returns the full edge channel count (attributes + labels).
func (d *Dataset) NumEdgeFeatures() int { return d.numEdgeFeatures }

// NumNodeLabels returns the count of one-hot node label channels.
func (d *Dataset) NumNodeLabels() int { return d.numNodeFeatures - d.numNodeAttributes }

// NumEdgeLabels returns the count of one-hot edge label channels.
func (d *Dataset) NumEdgeLabels() int { return d.numEdgeFeatures - d.numEdgeAttributes }

func (d *Dataset) String() string {
	return fmt.Sprintf("%s(%d)", d.Name, d.Len())
}

// filesExist reports whether every name exists beneath dir.
func filesExist(dir string, names []string) bool {
	for _, name := range names {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}

// writeJSON persists v at path via a temp file and rename, so a killed
// process never leaves a half-written artifact with a valid name.
func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".artifact-*")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(data)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to finalize %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
