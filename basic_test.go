package main

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {

	initLogger(io.Discard, defaultLogLevel, false, true)

	os.Exit(m.Run())
}

//
// Feed a scripted session through the command loop and return
// everything it printed
//

func runSessionWithConfig(t *testing.T, cfg *config, input string) string {

	t.Helper()

	var out bytes.Buffer

	initEnv(cfg, strings.NewReader(input), &out)

	commandLoop()

	require.True(t, g.exiting, "command loop did not see end of input")

	return out.String()
}

func runSession(t *testing.T, input string) string {

	t.Helper()

	return runSessionWithConfig(t, defaultConfig(), input)
}

//
// Output lines with the prompts removed
//

func outputLines(out string) []string {

	var lines []string

	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		if line != defaultPrompt {
			lines = append(lines, line)
		}
	}

	return lines
}

func catchPanic(f func()) (e any) {

	defer func() {
		e = recover()
	}()

	f()

	return nil
}

func TestPromptBeforeEachRead(t *testing.T) {

	out := runSession(t, "\n\n")

	assert.Equal(t, "Ok\nOk\nOk\n", out)
}

func TestByeStopsReading(t *testing.T) {

	out := runSession(t, "BYE\n10 PRINT 1\nRUN\n")

	assert.Equal(t, "Ok\n", out)
	assert.True(t, g.program.empty())
}

func TestCustomPrompt(t *testing.T) {

	cfg := defaultConfig()
	cfg.Prompt = "READY"

	out := runSessionWithConfig(t, cfg, "LIST\n")

	assert.Equal(t, "READY\nREADY\n", out)
}

func TestImmediateErrors(t *testing.T) {

	tests := []struct {
		input string
		want  string
	}{
		{"FOO\n", ESYNTAX},
		{"0 PRINT 1\n", EILLEGALLINENUMBER},
		{"999 PRINT 1\n", EILLEGALLINENUMBER},
		{"99999999999999999999999 PRINT 1\n", EILLEGALLINENUMBER},
		{"SAVE\n", EFILENAMEREQUIRED},
		{"LOAD\n", EFILENAMEREQUIRED},
		{"TRACE BOGUS\n", ESYNTAX},
		{strings.Repeat("1", maxLineLen+1) + "\n", ELINETOOLONG},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			out := runSession(t, tt.input)
			assert.Equal(t, []string{tt.want}, outputLines(out))
		})
	}
}

func TestOverlongLineIsDiscarded(t *testing.T) {

	input := "10 PRINT " + strings.Repeat("1", maxLineLen) + "\n" +
		"20 PRINT 7\nLIST\n"

	out := runSession(t, input)

	assert.Equal(t, []string{ELINETOOLONG, "20 PRINT 7"}, outputLines(out))
}

func TestCommandsAreCaseInsensitive(t *testing.T) {

	out := runSession(t, "10 print 3\nlist\nRun\n")

	assert.Equal(t, []string{"10 print 3", "3"}, outputLines(out))
}

func TestSplitCommand(t *testing.T) {

	tests := []struct {
		line string
		cmd  string
		arg  string
	}{
		{"RUN", "RUN", ""},
		{"  save   prog.bas  ", "save", "prog.bas"},
		{"LOAD\tdir/my prog.bas", "LOAD", "dir/my prog.bas"},
		{"10 PRINT 1", "10", "PRINT 1"},
	}

	for _, tt := range tests {
		cmd, arg := splitCommand(tt.line)
		assert.Equal(t, tt.cmd, cmd, tt.line)
		assert.Equal(t, tt.arg, arg, tt.line)
	}
}

func TestHelp(t *testing.T) {

	out := runSession(t, "HELP RUN\nHELP nothing\n")

	assert.Equal(t, []string{
		"Execute the current program from the lowest numbered line",
		`No help for "nothing"`,
	}, outputLines(out))

	out = runSession(t, "HELP\n")

	assert.Len(t, outputLines(out), len(commandHelp))
}

func TestStatsToggle(t *testing.T) {

	out := runSession(t, "STATS\n10 PRINT 1\nRUN\nSTATS\n")

	lines := outputLines(out)

	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "Statistics ON", lines[0])
	assert.Equal(t, "1", lines[1])
	assert.Contains(t, out, "CPU Usage: elapsed = ")
	assert.Contains(t, out, "1 statement executed")
	assert.Equal(t, "Statistics OFF", lines[len(lines)-1])
}

func TestRuntimeErrorFormat(t *testing.T) {

	var out bytes.Buffer

	initEnv(defaultConfig(), strings.NewReader(""), &out)

	g.running = true
	r.curLine = 40

	call(func() { runtimeError(EDIVISIONBYZERO) })

	assert.Equal(t, "Division by 0 at line 40\n", out.String())
	assert.False(t, g.running)
	assert.Equal(t, 0, r.curLine)

	out.Reset()

	call(func() { runtimeError(EDIVISIONBYZERO) })

	assert.Equal(t, "Division by 0\n", out.String())
}

func TestInterruptAbortsRun(t *testing.T) {

	var out bytes.Buffer

	initEnv(defaultConfig(), strings.NewReader(""), &out)

	g.running = true
	r.curLine = 20
	g.interrupted.Store(true)

	call(checkInterrupts)

	assert.Equal(t, "Interrupted at line 20\n", out.String())
	assert.False(t, g.interrupted.Load())
}

func TestFatalErrorCarriesLocation(t *testing.T) {

	e := catchPanic(func() { basicAssert(false, "botch") })

	bei, ok := e.(*basicErrorInfo)
	require.True(t, ok)
	assert.Equal(t, "botch", bei.msg)
	assert.True(t, strings.HasSuffix(bei.file, "basic_test.go"))
}
