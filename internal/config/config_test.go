// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestConfig sets TUDS_CFG to point to a test config file.
// Returns cleanup function that should be deferred.
func setupTestConfig(t *testing.T, testdataFile string) (cleanup func()) {
	t.Helper()

	configPath := filepath.Join("testdata", testdataFile)
	absPath, err := filepath.Abs(configPath)
	require.NoError(t, err, "failed to get absolute path for test config")

	t.Setenv("TUDS_CFG", absPath)

	// Reset the global Config to force reload
	Config = Type{}

	return func() {
		Config = Type{}
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		wantErr   bool
		checkFunc func(*testing.T, Type)
	}{
		{
			name:     "simple string values",
			testFile: "simple.yaml",
			wantErr:  false,
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Contains(t, cfg.Data, "root")
				assert.Equal(t, "/var/lib/tuds", cfg.Data["root"])
				assert.Equal(t, "yaml", cfg.Data["output"])
			},
		},
		{
			name:     "nested structure",
			testFile: "nested.yaml",
			wantErr:  false,
			checkFunc: func(t *testing.T, cfg Type) {
				urls, ok := cfg.Data["urls"].(map[string]interface{})
				assert.True(t, ok, "urls should be a map")
				assert.Equal(t, "https://mirror.example.com/gk", urls["canonical"])
				assert.Equal(t, "s3://gk-mirror/cleaned", urls["cleaned"])
			},
		},
		{
			name:     "mixed types",
			testFile: "mixed-types.yaml",
			wantErr:  false,
			checkFunc: func(t *testing.T, cfg Type) {
				assert.Equal(t, "bench", cfg.Data["name"])
				assert.Equal(t, 2, cfg.Data["padding"])
				assert.Equal(t, true, cfg.Data["titles"])
				names, ok := cfg.Data["datasets"].([]interface{})
				assert.True(t, ok)
				assert.Len(t, names, 2)
			},
		},
		{
			name:     "empty file",
			testFile: "empty.yaml",
			wantErr:  false,
			checkFunc: func(t *testing.T, cfg Type) {
				// Empty YAML unmarshals to nil map, which is acceptable
				assert.NotEmpty(t, cfg.Source, "should have a source path")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestConfig(t, tt.testFile)
			defer cleanup()

			cfg, err := Load()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("TUDS_CFG", "/nonexistent/path/tuds.yaml")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestGetString(t *testing.T) {
	cleanup := setupTestConfig(t, "nested.yaml")
	defer cleanup()

	_, err := Load()
	require.NoError(t, err)

	got, err := GetString("urls.canonical")
	assert.NoError(t, err)
	assert.Equal(t, "https://mirror.example.com/gk", got)

	got, err = GetString("urls.missing", "fallback")
	assert.NoError(t, err)
	assert.Equal(t, "fallback", got)

	_, err = GetString("urls.missing")
	assert.Error(t, err)
}

func TestGetString_Namespaced(t *testing.T) {
	cleanup := setupTestConfig(t, "nested.yaml")
	defer cleanup()

	_, err := Load("gq")
	require.NoError(t, err)

	// gq.output shadows the top-level output.
	got, err := GetString("output")
	assert.NoError(t, err)
	assert.Equal(t, "json", got)
}

func TestGetInt(t *testing.T) {
	cleanup := setupTestConfig(t, "mixed-types.yaml")
	defer cleanup()

	_, err := Load()
	require.NoError(t, err)

	got, err := GetInt("padding")
	assert.NoError(t, err)
	assert.Equal(t, 2, got)

	got, err = GetInt("missing", 7)
	assert.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestGetStringSlice(t *testing.T) {
	cleanup := setupTestConfig(t, "mixed-types.yaml")
	defer cleanup()

	_, err := Load()
	require.NoError(t, err)

	got, err := GetStringSlice("datasets")
	assert.NoError(t, err)
	assert.Equal(t, []string{"MUTAG", "PROTEINS"}, got)
}
