// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload(t *testing.T) {
	body := []byte("graph kernel payload")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/MUTAG.zip", r.URL.Path)
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	dest := t.TempDir()
	path, err := Download(context.Background(), srv.URL+"/MUTAG.zip", dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "MUTAG.zip"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestDownload_Progress(t *testing.T) {
	body := bytes.Repeat([]byte("x"), 64*1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Large bodies get chunked without an explicit length, and the
		// progress total would come through as -1.
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	var lastDone, lastTotal int64
	_, err := Download(context.Background(), srv.URL+"/big.zip", t.TempDir(),
		WithProgress(func(done, total int64) {
			lastDone = done
			lastTotal = total
		}))
	require.NoError(t, err)
	assert.Equal(t, int64(len(body)), lastDone)
	assert.Equal(t, int64(len(body)), lastTotal)
}

func TestDownload_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := Download(context.Background(), srv.URL+"/NOPE.zip", t.TempDir())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestExtractZip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"TRI/TRI_A.txt":               "1, 2\n",
		"TRI/TRI_graph_indicator.txt": "1\n1\n",
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	dest := t.TempDir()
	archive := filepath.Join(dest, "TRI.zip")
	require.NoError(t, os.WriteFile(archive, buf.Bytes(), 0o644))

	require.NoError(t, ExtractZip(archive, dest))

	got, err := os.ReadFile(filepath.Join(dest, "TRI", "TRI_A.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1, 2\n", string(got))
	assert.FileExists(t, filepath.Join(dest, "TRI", "TRI_graph_indicator.txt"))
}

func TestExtractZip_RejectsEscape(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("../evil.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("nope"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	dest := t.TempDir()
	archive := filepath.Join(dest, "evil.zip")
	require.NoError(t, os.WriteFile(archive, buf.Bytes(), 0o644))

	err = ExtractZip(archive, dest)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "escapes destination")
}
