package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/danswartzendruber/liner"
	"github.com/goforj/godump"
)

func executeBye() {

	g.exiting = true
}

func executeNew() {

	g.program.clear()

	initializeRun()
}

func initializeRun() {

	r = run{callStack: newCallStack()}
}

func executeRun() {

	first := g.program.firstInOrder()
	if first == nil {
		return
	}

	//
	// Reinitialize any needed fields in the 'r' structure,
	// as well as nuking the symbol table
	//

	initializeRun()

	initSymbolTable()

	resetStatistics()

	initClock()

	log.Debug("run started", "lines", g.program.lines)

	executeRunInternal(first.lineNo)

	log.Debug("run finished", "statements", s.numStatements)

	printStatistics()
}

//
// executeStmt() computes the next line to execute.  Zero means we
// ran off the end of the program, or some statement asked us to
// stop.  Errors unwind straight past us to the command loop
//

func executeRunInternal(lineNo int) {

	r.curLine = lineNo
	g.running = true
	g.interrupted.Store(false)

	for r.curLine != 0 {
		checkInterrupts()

		text, ok := g.program.get(r.curLine)
		basicAssert(ok, fmt.Sprintf("line %d vanished", r.curLine))

		r.curLine = executeStmt(r.curLine, text)

		s.numStatements++
	}

	g.running = false
}

func executeStmt(lineNo int, text string) int {

	p := newStmtParser(text, &g.vars)

	if g.traceExec {
		fmt.Fprintf(g.out, "[%d] %s\n", lineNo, text)
	}

	if g.traceDump {
		godump.Fdump(g.out, p.tokens)
	}

	if isAssignment(p.line) {
		return executeLet(p, lineNo)
	}

	tok := p.peek()
	if tok.kind != tokKeyword {
		return lineAfter(lineNo)
	}

	switch tok.text {
	default:
		// THEN or TO with nothing in front of it: not a statement
		return lineAfter(lineNo)

	case "END":
		p.next()
		p.expectEOL()
		return 0

	case "RETURN":
		p.next()
		p.expectEOL()
		return lineAfter(popReturnLine())

	case "REM":
		return lineAfter(lineNo)

	case "INPUT":
		p.next()
		return executeInput(p, lineNo)

	case "IF":
		p.next()
		return executeIf(p, lineNo)

	case "PRINT":
		p.next()
		return executePrint(p, lineNo)

	case "GOTO":
		p.next()
		return executeGoto(p, lineNo, false)

	case "GOSUB":
		p.next()
		return executeGoto(p, lineNo, true)

	case "FOR":
		p.next()
		return executeFor(p, lineNo)

	case "NEXT":
		p.next()
		return executeNext(p, lineNo)
	}
}

//
// Transfer of control.  A target below the first legal line number
// stops the program, as does a target past the last defined line.
// Anything else lands on the first defined line at or after it
//

func lineAt(target int) int {

	if target < minLineNo {
		return 0
	}

	lineNo, ok := g.program.nextDefined(target)
	if !ok {
		return 0
	}

	return lineNo
}

func lineAfter(lineNo int) int {

	return lineAt(lineNo + 1)
}

func executeLet(p *stmtParser, lineNo int) int {

	idx := p.expectVariable()
	p.expectOp(opEQ)

	val := p.evaluateExpr()
	p.expectEOL()

	g.vars.store(idx, val)

	return lineAfter(lineNo)
}

func executeInput(p *stmtParser, lineNo int) int {

	idx := p.expectVariable()
	p.expectEOL()

	line := readInputLine()

	//
	// The reply is an expression in its own right, so '2*X' is a
	// perfectly good answer
	//

	ep := newExprParser(line, &g.vars)
	val := ep.evaluateExpr()
	ep.expectEOL()

	g.vars.store(idx, val)

	return lineAfter(lineNo)
}

func readInputLine() string {

	line, err := g.programInput.readLine(executePrompt)

	switch {
	case err == nil:
		return line

	case errors.Is(err, io.EOF):
		runtimeError(EENDOFINPUT)

	case errors.Is(err, errLineTooLong):
		runtimeError(ELINETOOLONG)

	case errors.Is(err, liner.ErrPromptAborted):
		runtimeError(EINTERRUPTED)

	default:
		runtimeError(err.Error())
	}

	panic(nil) // avoid compiler complaint
}

func executeIf(p *stmtParser, lineNo int) int {

	cond := p.evaluateExpr()
	p.expectKeyword("THEN")

	if cond == 0 {
		return lineAfter(lineNo)
	}

	target := p.evaluateExpr()
	p.expectEOL()

	return lineAt(target)
}

func executePrint(p *stmtParser, lineNo int) int {

	tok := p.peek()

	switch tok.kind {
	case tokEOL:
		fmt.Fprintln(g.out)

	case tokString:
		// anything after the closing quote is ignored
		fmt.Fprintln(g.out, tok.text)

	default:
		val := p.evaluateExpr()
		p.expectEOL()
		fmt.Fprintln(g.out, val)
	}

	return lineAfter(lineNo)
}

func executeGoto(p *stmtParser, lineNo int, gosub bool) int {

	target := p.evaluateExpr()
	p.expectEOL()

	if gosub {
		pushReturnLine(lineNo)
	}

	return lineAt(target)
}

//
// FOR stores the initial value before evaluating the limit, so the
// limit expression sees the new value of the loop variable
//

func executeFor(p *stmtParser, lineNo int) int {

	idx := p.expectVariable()
	p.expectOp(opEQ)

	g.vars.store(idx, p.evaluateExpr())

	p.expectKeyword("TO")

	limit := p.evaluateExpr()
	p.expectEOL()

	setLoopContext(idx, limit, lineNo)

	return lineAfter(lineNo)
}

func executeNext(p *stmtParser, lineNo int) int {

	idx := p.expectVariable()
	p.expectEOL()

	lc := getLoopContext(idx)

	val := g.vars.fetch(idx) + 1
	g.vars.store(idx, val)

	if val <= lc.limit {
		return lineAfter(lc.resumeLine)
	}

	return lineAfter(lineNo)
}

func executeList() {

	for _, stmt := range g.program.list() {
		fmt.Fprintf(g.out, "%d %s\n", stmt.lineNo, stmt.text)
	}
}

func executeSave(name string) {

	if name == "" {
		runtimeError(EFILENAMEREQUIRED)
	}

	f, err := os.Create(name)
	if err != nil {
		runtimeError(fmt.Sprintf("Unable to save %q (%v)", name,
			mapOSError(err)))
	}

	n, err := saveProgram(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		runtimeError(fmt.Sprintf("Unable to save %q (%v)", name,
			mapOSError(err)))
	}

	log.Debug("program saved", "file", name, "lines", n)
}

func executeLoad(name string) {

	if name == "" {
		runtimeError(EFILENAMEREQUIRED)
	}

	f, err := os.Open(name)
	if err != nil {
		runtimeError(fmt.Sprintf("Unable to load %q (%v)", name,
			mapOSError(err)))
	}
	defer f.Close()

	loaded, dropped, err := loadProgram(f, g.config.MaxLineLen)

	log.Debug("program loaded", "file", name, "lines", loaded,
		"dropped", dropped)

	if err != nil {
		runtimeError(fmt.Sprintf("Unable to load %q (%v)", name,
			mapOSError(err)))
	}
}

//
// Toggle statistics printing
//

func executeStats() {

	g.printStats = !g.printStats

	fmt.Fprintf(g.out, "Statistics %s\n", switchSetting(g.printStats))
}

//
// Toggle trace flags.  No argument toggles statement tracing
//

func executeTrace(arg string) {

	switch strings.ToUpper(arg) {
	default:
		exitToPrompt(ESYNTAX)

	case "", "EXEC":
		g.traceExec = !g.traceExec
		fmt.Fprintf(g.out, "toggling traceExec %s\n",
			switchSetting(g.traceExec))

	case "DUMP":
		g.traceDump = !g.traceDump
		fmt.Fprintf(g.out, "toggling traceDump %s\n",
			switchSetting(g.traceDump))
	}
}

//
// This function hands an error message to decodePanic with a special
// exception, as we want to crawl back to command prompt without doing
// any of the usual runtimeError stuff.  This is needed for cases where
// we are not executing, but the command line itself is bad
//

func exitToPrompt(m string) {

	panic(&crawloutException{msg: m})
}
