package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"runtime/pprof"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/danswartzendruber/liner"
)

func main() {

	configPath := flag.String("config", "", "YAML configuration file")
	verbose := flag.Bool("v", false, "verbose (debug) logging")
	noColor := flag.Bool("n", false, "disable colored log output")
	runOnly := flag.Bool("run", false, "run the program argument and exit")
	stats := flag.Bool("stats", false, "print statistics after each RUN")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s [flags] [program]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}

	flag.Parse()

	initLogger(nil, defaultLogLevel, *verbose, *noColor)

	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		crash(err.Error())
	}

	initLogger(nil, cfg.LogLevel, *verbose, *noColor)

	if *configPath != "" {
		log.Debug("config loaded", "file", *configPath)
	}

	if *stats {
		cfg.Stats = true
	}

	if *runOnly && flag.NArg() == 0 {
		crash("-run requires a program")
	}

	//
	// We need to close the Liner instances in reverse order, to make
	// sure we end up back in normal (cooked) terminal mode
	//

	defer cleanupLiners()

	interactive := isInteractive() && !*runOnly

	if interactive {
		initEnv(cfg, nil, os.Stdout)
		setupLiners(cfg.MaxLineLen, cfg.HistoryFile)
		printVersionInfo()
	} else {
		initEnv(cfg, os.Stdin, os.Stdout)
	}

	//
	// Run the signal handling code in a goroutine
	//

	go sigHdlr()

	if flag.NArg() == 1 {
		call(func() { executeLoad(flag.Arg(0)) })
	}

	if *runOnly {
		call(executeRun)
		return
	}

	commandLoop()
}

//
// Set up the interpreter state for a session.  If in is nil, the
// caller will install its own line sources
//

func initEnv(cfg *config, in io.Reader, out io.Writer) {

	g.config = cfg
	g.out = out
	g.exiting = false
	g.running = false
	g.interrupted.Store(false)
	g.printStats = cfg.Stats
	g.traceExec = cfg.Trace
	g.traceDump = false

	if in != nil {
		src := newStreamSource(in, out, cfg.MaxLineLen)
		g.parserInput = src
		g.programInput = src
	}

	g.program = newProgramStore()

	initializeRun()

	initSymbolTable()
}

//
// Loop forever, or until we quit
//

func commandLoop() {

	for !g.exiting {
		g.running = false

		call(processCommand)
	}
}

func processCommand() {

	fmt.Fprintln(g.out, g.config.Prompt)

	line, err := g.parserInput.readLine("")
	if err != nil {
		switch {
		default:
			log.Error("unable to read command", "err", err)
			g.exiting = true

		case errors.Is(err, io.EOF):
			g.exiting = true

		case errors.Is(err, errLineTooLong):
			exitToPrompt(ELINETOOLONG)

		case errors.Is(err, liner.ErrPromptAborted):
			// ^C at the prompt just discards the line
		}

		return
	}

	dispatchCommand(line)
}

//
// Immediate commands are recognized by their first word, in any
// case.  Anything else had better be a line definition
//

func dispatchCommand(line string) {

	if strings.TrimSpace(line) == "" {
		return
	}

	cmd, arg := splitCommand(line)

	switch strings.ToUpper(cmd) {
	default:
		if err := defineLine(line); err != nil {
			switch {
			case errors.Is(err, errIllegalLineNo):
				exitToPrompt(EILLEGALLINENUMBER)

			default:
				exitToPrompt(ESYNTAX)
			}
		}

	case "RUN":
		executeRun()

	case "LIST":
		executeList()

	case "NEW":
		executeNew()

	case "BYE":
		executeBye()

	case "SAVE":
		executeSave(arg)

	case "LOAD":
		executeLoad(arg)

	case "HELP":
		executeHelp(arg)

	case "STATS":
		executeStats()

	case "TRACE":
		executeTrace(arg)
	}
}

func splitCommand(line string) (string, string) {

	line = strings.TrimLeft(line, " \t")

	idx := strings.IndexAny(line, " \t")
	if idx < 0 {
		return line, ""
	}

	return line[:idx], strings.TrimSpace(line[idx+1:])
}

func writeGoroutineStacks() {

	name := "goroutines-stacks"
	mode := (os.O_CREATE | os.O_WRONLY | os.O_TRUNC)

	dumpFile, err := os.OpenFile(name, mode, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open %s (%v)\n",
			name, mapOSError(err))
		return
	}

	_ = pprof.Lookup("goroutine").WriteTo(dumpFile, 2)

	m := fmt.Sprintf("Dumping goroutine stacks to %v and exiting", name)

	crash(m)
}

func sigHdlr() {

	ch := make(chan os.Signal, 1)

	signal.Ignore(syscall.SIGTSTP)

	signal.Notify(ch, syscall.SIGQUIT)
	signal.Notify(ch, syscall.SIGINT)

	for {
		sig := <-ch

		switch sig {

		default:
			crash(fmt.Sprintf("Unexpected signal %d", sig))

		case syscall.SIGQUIT:
			writeGoroutineStacks() // does not return

		case syscall.SIGINT:
			log.Debug("interrupt posted", "running", g.running)
			g.interrupted.Store(true)
		}
	}
}

//
// This procedure is called by the panic deferred recovery function.
// Four cases here: implicit calls to panic by the Go runtime code,
// a call to fatalError, a call to runtimeError or a crawlout exception
// (used solely to exit quietly to the command prompt).  For Go runtime
// panics it seems impossible to cleanly find the caller of panic, since
// there can be one or more support routines prior to that.  The best
// thing I've been able to come up with is to scan the call stack,
// looking for a function named 'runtime.gopanic', and picking the next
// non-runtime frame
//

func decodePanic(e any) {

	var frame runtime.Frame
	var more bool
	var panicSeen bool
	var panicFrame runtime.Frame
	var panicCount int

	wasRunning := g.running

	g.running = false
	r.curLine = 0

	switch e := e.(type) {
	default:
		pcs := make([]uintptr, 99)

		frames := runtime.CallersFrames(pcs[:runtime.Callers(1, pcs)])

		for {
			frame, more = frames.Next()
			if !more {
				break
			}

			if frame.Function == "runtime.gopanic" {
				panicSeen = true
				panicCount++
			} else if panicSeen {
				if !strings.HasPrefix(frame.Function, "runtime.") {
					panicFrame = frame
					panicSeen = false
				}
			}
		}

		if panicCount == 0 { // impossible?
			crash("Unable to locate panic caller")
		}

		fmt.Fprintf(g.out, "%v at %s line %d\n", e,
			filepath.Base(panicFrame.File), panicFrame.Line)

		debug.PrintStack()

	case *crawloutException:
		if e.msg != "" {
			fmt.Fprintln(g.out, e.msg)
		}

	case *basicErrorInfo:
		fmt.Fprintf(g.out, "%q at %s line %d\n", e.msg,
			filepath.Base(e.file), e.line)

		debug.PrintStack()

	case *runtimeErrorInfo:
		if e.lineNo != 0 {
			fmt.Fprintf(g.out, "%s at line %d\n", e.msg, e.lineNo)
		} else {
			fmt.Fprintln(g.out, e.msg)
		}

		if wasRunning {
			log.Debug("run aborted", "line", e.lineNo,
				"statements", s.numStatements)

			printStatistics()
		}
	}
}

//
// Wrapper routine for a function.  We need this so that panic calls
// can be caught and decoded before returning to our caller
//

func call(f func()) {

	defer func() {
		err := recover()
		if err != nil {
			decodePanic(err)
		}
	}()

	f()
}

//
// A couple of handy 'assert' functions
//

func basicAssert(chk bool, msg string) {

	if !chk {
		fatalError(msg)
	}
}

func runtimeCheck(chk bool, msg string) {

	if !chk {
		runtimeError(msg)
	}
}

//
// BASIC level errors.  If a program is running, the message is
// tagged with the line that was executing
//

func runtimeError(msg string) {

	lineNo := 0
	if g.running {
		lineNo = r.curLine
	}

	panic(&runtimeErrorInfo{msg: strings.TrimSuffix(msg, "\n"),
		lineNo: lineNo})
}

func syntaxError() {

	runtimeError(ESYNTAX)
}

//
// Runtime errors raised by the interpreter itself.  Almost always
// due to a basicAssertion failure.  We find filename and line number
// of our caller, and stuff those into the basicErrorInfo structure
// before calling panic
//

func fatalError(msg string) {

	_, file, line, ok := runtime.Caller(2)
	if !ok {
		crash("Unable to find caller frame!\n")
	}

	msg = strings.TrimRight(msg, "\n")

	m := &basicErrorInfo{msg, file, line}

	panic(m)
}

func printStatistics() {

	var mem runtime.MemStats

	if g.printStats {
		fmt.Fprintln(g.out)
		printCpuUsage()
		runtime.ReadMemStats(&mem)
		fmt.Fprintf(g.out, "%dMB memory used\n", convertToMB(mem.HeapAlloc))
		fmt.Fprintf(g.out, "%d %s executed\n", s.numStatements,
			pluralize("statement", s.numStatements))
	}
}

func resetStatistics() {
	s.utime = 0
	s.stime = 0
	s.numStatements = 0
}

func convertToMB(num uint64) uint64 {

	const MB = 1024 * 1024

	return (num + MB - 1) / MB
}

func printVersionInfo() {

	fmt.Fprintf(g.out, "Tiny BASIC version %s - built %s\n",
		VERSION, buildTimestampStr)
}
