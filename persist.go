package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

//
// Split '<number> [<text>]' into its parts.  Leading whitespace is
// skipped, and one blank or tab after the number is the separator.
// Anything after that is the line text, verbatim
//

func parseLineDefinition(line string) (int, string, error) {

	line = strings.TrimLeft(line, " \t")

	end := 0
	for end < len(line) && isDigit(line[end]) {
		end++
	}

	if end == 0 {
		return 0, "", errSyntax
	}

	lineNo, err := strconv.Atoi(line[:end])
	if err != nil {
		return 0, "", fmt.Errorf("%w: %s", errIllegalLineNo, line[:end])
	}

	text := line[end:]
	if text != "" && (text[0] == ' ' || text[0] == '\t') {
		text = text[1:]
	}

	return lineNo, text, nil
}

func defineLine(line string) error {

	lineNo, text, err := parseLineDefinition(line)
	if err != nil {
		return err
	}

	return g.program.set(lineNo, text)
}

//
// Write the program as '<number> <text>' lines, ascending.  Returns
// the number of lines written
//

func saveProgram(w io.Writer) (int, error) {

	bw := bufio.NewWriter(w)

	stmts := g.program.list()
	for _, stmt := range stmts {
		if _, err := fmt.Fprintf(bw, "%d %s\n", stmt.lineNo, stmt.text); err != nil {
			return 0, err
		}
	}

	if err := bw.Flush(); err != nil {
		return 0, err
	}

	return len(stmts), nil
}

//
// Feed each line of a saved program through the line definition
// path.  Lines that don't parse, or are too long, are dropped and
// counted, not reported.  Blank lines are skipped silently.  The
// program is merged into whatever is already stored
//

func loadProgram(rd io.Reader, maxLen int) (int, int, error) {

	var loaded, dropped int

	src := newStreamSource(rd, nil, maxLen)

	for {
		line, err := src.readLine("")
		if errors.Is(err, io.EOF) {
			return loaded, dropped, nil
		}

		if errors.Is(err, errLineTooLong) {
			dropped++
			continue
		}

		if err != nil {
			return loaded, dropped, err
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		if err := defineLine(line); err != nil {
			log.Debug("dropping line", "err", err)
			dropped++
			continue
		}

		loaded++
	}
}
