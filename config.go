package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

//
// Interpreter settings.  Everything here has a usable default, so
// the configuration file is optional.  Command line flags override
// whatever the file says
//

type config struct {
	Prompt        string `yaml:"prompt"`
	MaxLineLen    int    `yaml:"max_line_length"`
	MaxGosubDepth int    `yaml:"max_gosub_depth"`
	Stats         bool   `yaml:"stats"`
	Trace         bool   `yaml:"trace"`
	HistoryFile   string `yaml:"history_file"`
	LogLevel      string `yaml:"log_level"`
}

type configError struct {
	issues []string
}

func (e *configError) Error() string {

	var b strings.Builder

	b.WriteString("config validation failed:")
	for _, issue := range e.issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}

	return b.String()
}

func defaultConfig() *config {

	return &config{
		Prompt:     defaultPrompt,
		MaxLineLen: maxLineLen,
		LogLevel:   defaultLogLevel,
	}
}

//
// Load a YAML configuration file.  An empty path means no file,
// just the defaults.  Unknown keys are an error, as they are almost
// certainly typos
//

func loadConfig(path string) (*config, error) {

	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *config) validate() error {

	var issues []string

	if c.Prompt == "" {
		issues = append(issues, "prompt must not be empty")
	}

	if c.MaxLineLen < 1 || c.MaxLineLen > maxLineLen {
		issues = append(issues, fmt.Sprintf(
			"max_line_length must be between 1 and %d (got %d)",
			maxLineLen, c.MaxLineLen))
	}

	if c.MaxGosubDepth < 0 {
		issues = append(issues, fmt.Sprintf(
			"max_gosub_depth must not be negative (got %d)",
			c.MaxGosubDepth))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		issues = append(issues, fmt.Sprintf("log_level %q is invalid",
			c.LogLevel))
	}

	if len(issues) > 0 {
		return &configError{issues: issues}
	}

	return nil
}
