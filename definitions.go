package main

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/danswartzendruber/avl"
	"github.com/emirpasic/gods/stacks/arraystack"
)

//
// Constants
//

const VERSION = "1.0.0"

const minLineNo = 1
const maxLineNo = 998

const maxLineLen = 998

const numVariables = 26

const defaultPrompt = "Ok"

const executePrompt = "? "

const defaultLogLevel = "warn"

//
// Token kinds produced by the lexer
//

const (
	tokEOL = iota
	tokNumber
	tokVariable
	tokString
	tokOperator
	tokKeyword
	tokInvalid
)

//
// Canonical operators.  The two character relational operators
// are folded into single tokens by the lexer, as is the '#' spelling
// of not-equal
//

const (
	opEQ = iota + 1
	opNE
	opLT
	opGT
	opLE
	opGE
	opAdd
	opSub
	opMul
	opDiv
	opLParen
	opRParen
)

//
// Type definitions
//

type token struct {
	kind  int
	op    int
	value int
	text  string
	pos   int
}

type stmtParser struct {
	line   string
	tokens []token
	pos    int
	vars   *varTable
}

type stmtNode struct {
	avl    avl.AvlNode
	lineNo int
	text   string
}

type programStore struct {
	root  *avl.AvlNode
	lines int
}

type varTable [numVariables]int

type loopContext struct {
	limit      int
	resumeLine int
	active     bool
}

type crawloutException struct {
	msg string
}

type runtimeErrorInfo struct {
	msg    string
	lineNo int
}

type basicErrorInfo struct {
	msg  string
	file string
	line int
}

//
// Input sources for the command loop and INPUT statements.  A
// terminal gets liner instances, anything else gets a bounded
// stream reader
//

type lineSource interface {
	readLine(prompt string) (string, error)
	close()
}

type run struct {
	curLine   int
	loops     [numVariables]loopContext
	callStack *arraystack.Stack
}

//
// Global variables
//

var buildTimestampStr string

//
// This structure contains the non-persistent state of a program
//

var r run

//
// This structure contains persistent data
//

var g struct {
	program      *programStore
	vars         varTable
	config       *config
	out          io.Writer
	parserInput  lineSource
	programInput lineSource
	exiting      bool
	running      bool
	interrupted  atomic.Bool
	printStats   bool
	traceExec    bool
	traceDump    bool
}

//
// Runtime statistics for executing program
//

var s struct {
	elapsed       time.Time
	utime         int64
	stime         int64
	numStatements int64
}
