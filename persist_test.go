package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineDefinition(t *testing.T) {

	tests := []struct {
		line   string
		lineNo int
		text   string
		err    error
	}{
		{"10 PRINT 1", 10, "PRINT 1", nil},
		{"  20   PRINT 2", 20, "  PRINT 2", nil},
		{"30\tREM tab", 30, "REM tab", nil},
		{"40", 40, "", nil},
		{"50 ", 50, "", nil},
		{"60PRINT", 60, "PRINT", nil},
		{"PRINT 1", 0, "", errSyntax},
		{"", 0, "", errSyntax},
		{"-5 PRINT", 0, "", errSyntax},
		{"99999999999999999999 X", 0, "", errIllegalLineNo},
	}

	for _, tt := range tests {
		lineNo, text, err := parseLineDefinition(tt.line)
		if tt.err != nil {
			assert.ErrorIs(t, err, tt.err, tt.line)
			continue
		}

		require.NoError(t, err, tt.line)
		assert.Equal(t, tt.lineNo, lineNo, tt.line)
		assert.Equal(t, tt.text, text, tt.line)
	}
}

func TestSaveProgram(t *testing.T) {

	resetTestSession(t, defaultConfig())

	require.NoError(t, defineLine("20 PRINT  \"a  b\""))
	require.NoError(t, defineLine("10 A=1"))

	var buf bytes.Buffer

	n, err := saveProgram(&buf)
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Equal(t, "10 A=1\n20 PRINT  \"a  b\"\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {

	return 0, errors.New("disk on fire")
}

func TestSaveProgramWriteError(t *testing.T) {

	resetTestSession(t, defaultConfig())

	require.NoError(t, defineLine("10 A=1"))

	_, err := saveProgram(failingWriter{})

	assert.EqualError(t, err, "disk on fire")
}

func TestLoadProgram(t *testing.T) {

	resetTestSession(t, defaultConfig())

	require.NoError(t, defineLine("10 REM old"))
	require.NoError(t, defineLine("15 REM kept"))

	src := "10 PRINT 1\r\n\n  \nbogus\n0 PRINT 0\n20 PRINT 2\n"

	loaded, dropped, err := loadProgram(strings.NewReader(src), maxLineLen)
	require.NoError(t, err)

	assert.Equal(t, 2, loaded)
	assert.Equal(t, 2, dropped)

	var buf bytes.Buffer

	_, err = saveProgram(&buf)
	require.NoError(t, err)
	assert.Equal(t, "10 PRINT 1\n15 REM kept\n20 PRINT 2\n", buf.String())
}

func TestLoadProgramBoundsLines(t *testing.T) {

	resetTestSession(t, defaultConfig())

	src := "10 PRINT 123456\n20 PRINT 1\n"

	loaded, dropped, err := loadProgram(strings.NewReader(src), 12)
	require.NoError(t, err)

	assert.Equal(t, 1, loaded)
	assert.Equal(t, 1, dropped)

	_, ok := g.program.get(20)
	assert.True(t, ok)
}
