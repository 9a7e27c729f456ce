// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/staranto/tudsgo/internal/config"
)

// Dir resolves the base dataset root directory.
// Precedence:
//  1. TUDS_ROOT, if set and non-empty
//  2. "root" from tuds.yaml
//  3. os.UserCacheDir()/tuds
//
// Returns ("", false) if a base cannot be resolved.
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("TUDS_ROOT"); ok && c != "" {
		return c, true
	}
	if c, err := config.GetString("root"); err == nil && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "tuds"), true
	}
	return "", false
}

// EnsureBaseDir creates the base dataset root directory if one can be
// resolved. Returns the path, whether it is usable, and an error if creation
// failed.
func EnsureBaseDir() (string, bool, error) {
	base, ok := Dir()
	if !ok {
		return "", false, nil
	}
	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return base, false, fmt.Errorf("failed to create dataset root directory: %w", err)
	}
	return base, true, nil
}

// Purge removes leftover .zip archives older than the provided number of
// hours. An interrupted download leaves its archive behind (the flow deletes
// it only after a successful extract), so stale zips are the one artifact
// that is always safe to reap. If hours <= 0 or the root cannot be resolved,
// it is a no-op.
func Purge(hours int) error {
	if hours <= 0 {
		log.Debug("archive purging disabled")
		return nil
	}
	base, ok := Dir()
	if !ok {
		return nil
	}
	maxAge := time.Duration(hours) * time.Hour
	if err := filepath.Walk(base, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // unreadable entries are skipped.
		}
		if info.IsDir() || !strings.HasSuffix(path, ".zip") {
			return nil
		}
		if time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err == nil {
				log.Debugf("removed stale archive %s", path)
			} else {
				log.WithError(err).Warnf("failed to remove stale archive %s", path)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to purge archives: %w", err)
	}
	return nil
}
