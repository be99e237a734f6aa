package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {

	t.Helper()

	path := filepath.Join(t.TempDir(), "tinybas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	return path
}

func TestLoadConfigDefaults(t *testing.T) {

	cfg, err := loadConfig("")
	require.NoError(t, err)

	assert.Equal(t, defaultConfig(), cfg)
	assert.Equal(t, "Ok", cfg.Prompt)
	assert.Equal(t, maxLineLen, cfg.MaxLineLen)
	assert.Equal(t, 0, cfg.MaxGosubDepth)
}

func TestLoadConfigEmptyFile(t *testing.T) {

	cfg, err := loadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfigFile(t *testing.T) {

	path := writeConfig(t, `
prompt: READY
max_line_length: 80
max_gosub_depth: 64
stats: true
trace: true
history_file: /tmp/history
log_level: debug
`)

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, &config{
		Prompt:        "READY",
		MaxLineLen:    80,
		MaxGosubDepth: 64,
		Stats:         true,
		Trace:         true,
		HistoryFile:   "/tmp/history",
		LogLevel:      "debug",
	}, cfg)
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {

	cfg, err := loadConfig(writeConfig(t, "stats: true\n"))
	require.NoError(t, err)

	assert.True(t, cfg.Stats)
	assert.Equal(t, defaultPrompt, cfg.Prompt)
	assert.Equal(t, maxLineLen, cfg.MaxLineLen)
}

func TestLoadConfigErrors(t *testing.T) {

	tests := []struct {
		name     string
		contents string
		want     string
	}{
		{"unknown key", "promt: X\n", "field promt not found"},
		{"bad yaml", "prompt: [\n", "config: parse"},
		{"line length too big", "max_line_length: 999\n", "max_line_length"},
		{"line length zero", "max_line_length: 0\n", "max_line_length"},
		{"negative depth", "max_gosub_depth: -1\n", "max_gosub_depth"},
		{"empty prompt", "prompt: \"\"\n", "prompt must not be empty"},
		{"bad level", "log_level: loud\n", "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.contents))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {

	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfigErrorListsAllIssues(t *testing.T) {

	cfg := &config{MaxLineLen: -1, MaxGosubDepth: -1, LogLevel: "x"}

	err := cfg.validate()

	var cerr *configError
	require.ErrorAs(t, err, &cerr)
	assert.Len(t, cerr.issues, 4)
}
