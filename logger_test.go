package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestInitLoggerLevels(t *testing.T) {

	defer initLogger(io.Discard, defaultLogLevel, false, true)

	var buf bytes.Buffer

	initLogger(&buf, "warn", false, true)

	log.Debug("hidden")
	log.Warn("shown", "key", 1)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "BASIC")
	assert.Contains(t, buf.String(), "key=1")

	buf.Reset()

	initLogger(&buf, "warn", true, true)

	log.Debug("now visible")

	assert.Contains(t, buf.String(), "now visible")
	assert.Equal(t, log.DebugLevel, log.GetLevel())
}

func TestInitLoggerBadLevelFallsBack(t *testing.T) {

	defer initLogger(io.Discard, defaultLogLevel, false, true)

	var buf bytes.Buffer

	initLogger(&buf, "chatty", false, true)

	assert.Equal(t, log.WarnLevel, log.GetLevel())
}
