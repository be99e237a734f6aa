package main

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

//
// Diagnostics only.  Anything the BASIC user is meant to see goes
// to g.out, not through the logger
//

func initLogger(w io.Writer, level string, verbose, noColor bool) {

	if w == nil {
		w = os.Stderr
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.WarnLevel
	}

	if verbose {
		lvl = log.DebugLevel
	}

	log.SetDefault(log.NewWithOptions(w, log.Options{
		ReportCaller:    verbose,
		ReportTimestamp: verbose,
		TimeFormat:      time.TimeOnly,
		Prefix:          "BASIC",
		Level:           lvl,
	}))

	log.SetColorProfile(termenv.ANSI256)
	if noColor {
		log.SetColorProfile(termenv.Ascii)
	}
}
