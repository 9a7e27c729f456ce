// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
)

// ProgressFunc receives running byte counts while a download is in flight.
// total is -1 when the remote does not report a length.
type ProgressFunc func(done, total int64)

type options struct {
	progress ProgressFunc
}

// Option customizes a Download call.
type Option func(*options)

// WithProgress registers a callback invoked as bytes arrive.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) { o.progress = fn }
}

// Download fetches rawURL into destDir and returns the path of the written
// file, named after the last URL path segment. http:// and https:// URLs are
// fetched with a plain GET; s3://bucket/key URLs are read through the AWS
// SDK. No retry, no checksum: a failed download is fatal to the caller.
func Download(ctx context.Context, rawURL string, destDir string, opts ...Option) (string, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil { //nolint:mnd
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	if strings.HasPrefix(rawURL, "s3://") {
		return downloadS3(ctx, rawURL, destDir, o)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse url (%s): %w", rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s fetching %s", resp.Status, rawURL)
	}

	dest := filepath.Join(destDir, path.Base(u.Path))
	written, err := writeBody(dest, resp.Body, resp.ContentLength, o)
	if err != nil {
		return "", err
	}

	log.Debugf("downloaded %s (%s)", rawURL, humanize.Bytes(uint64(written)))
	return dest, nil
}

// writeBody streams body to dest, reporting progress along the way.
func writeBody(dest string, body io.Reader, total int64, o options) (int64, error) {
	f, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dest, err)
	}

	src := body
	if o.progress != nil {
		src = &progressReader{r: body, total: total, fn: o.progress}
	}

	written, err := io.Copy(f, src)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dest)
		return written, fmt.Errorf("failed to write %s: %w", dest, err)
	}

	return written, nil
}

// progressReader counts bytes as they pass through and reports them.
type progressReader struct {
	r     io.Reader
	done  int64
	total int64
	fn    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.done += int64(n)
		p.fn(p.done, p.total)
	}
	return n, err
}
