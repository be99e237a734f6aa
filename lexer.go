package main

import (
	"strconv"
	"strings"
	"unicode"
)

//
// Statement keywords, in the order we try them.  Only the start of
// a statement is checked against this list
//

var stmtKeywords = []string{"RETURN", "REM", "END", "INPUT", "IF", "PRINT",
	"GOSUB", "GOTO", "FOR", "NEXT"}

//
// Keywords that can appear inside a statement, separating expressions
//

var innerKeywords = []string{"THEN", "TO"}

//
// Prettify a statement for execution.  All whitespace outside of
// double-quoted literals is discarded, and letters outside literals
// are folded to upper case.  An unterminated literal runs to the end
// of the line, and is diagnosed by the lexer
//

func compactStatement(s string) string {

	var b strings.Builder
	var quoting bool

	b.Grow(len(s))

	for _, ch := range s {
		if ch == '"' {
			quoting = !quoting
			b.WriteRune(ch)
			continue
		}

		if quoting {
			b.WriteRune(ch)
		} else if !unicode.IsSpace(ch) {
			b.WriteRune(unicode.ToUpper(ch))
		}
	}

	return b.String()
}

func isLetter(ch byte) bool {

	return ch >= 'A' && ch <= 'Z'
}

func isDigit(ch byte) bool {

	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {

	return isDigit(ch) || (ch >= 'A' && ch <= 'F')
}

//
// An implicit assignment is a variable letter immediately followed
// by '='.  This check happens before keyword matching, so 'E=1' is
// an assignment, not an END
//

func isAssignment(line string) bool {

	return len(line) >= 2 && isLetter(line[0]) && line[1] == '='
}

//
// Tokenize a compacted statement.  The first token is the statement
// keyword, if any.  Characters we don't recognize become tokInvalid
// tokens rather than failing the whole line, since PRINT of a
// literal ignores anything after the literal
//

func lexStatement(line string) []token {

	var tokens []token

	pos := 0

	if !isAssignment(line) {
		for _, kw := range stmtKeywords {
			if strings.HasPrefix(line, kw) {
				tokens = append(tokens, token{kind: tokKeyword, text: kw})
				pos = len(kw)
				break
			}
		}
	}

	//
	// Everything after REM is commentary
	//

	if len(tokens) == 1 && tokens[0].text == "REM" {
		return append(tokens, token{kind: tokEOL, pos: len(line)})
	}

	return append(tokens, lexExpression(line, pos)...)
}

//
// Tokenize from pos to the end of the line.  Also used for the
// text typed in response to an INPUT statement
//

func lexExpression(line string, pos int) []token {

	var tokens []token

	for pos < len(line) {
		tok, n := getLexeme(line, pos)
		tok.pos = pos
		tokens = append(tokens, tok)
		pos += n
	}

	return append(tokens, token{kind: tokEOL, pos: len(line)})
}

//
// Return the token starting at pos, and how many bytes it consumed
//

func getLexeme(line string, pos int) (token, int) {

	ch := line[pos]

	switch {
	case isDigit(ch):
		return lexNumber(line, pos)

	case ch == '"':
		return lexString(line, pos)

	case isLetter(ch):
		for _, kw := range innerKeywords {
			if strings.HasPrefix(line[pos:], kw) {
				return token{kind: tokKeyword, text: kw}, len(kw)
			}
		}

		return token{kind: tokVariable, value: int(ch - 'A'),
			text: string(ch)}, 1
	}

	next := byte(0)
	if pos+1 < len(line) {
		next = line[pos+1]
	}

	switch ch {
	case '=':
		return opToken(opEQ, "="), 1

	case '#':
		return opToken(opNE, "#"), 1

	case '<':
		switch next {
		case '>':
			return opToken(opNE, "<>"), 2

		case '=':
			return opToken(opLE, "<="), 2
		}

		return opToken(opLT, "<"), 1

	case '>':
		if next == '=' {
			return opToken(opGE, ">="), 2
		}

		return opToken(opGT, ">"), 1

	case '+':
		return opToken(opAdd, "+"), 1

	case '-':
		return opToken(opSub, "-"), 1

	case '*':
		return opToken(opMul, "*"), 1

	case '/':
		return opToken(opDiv, "/"), 1

	case '(':
		return opToken(opLParen, "("), 1

	case ')':
		return opToken(opRParen, ")"), 1
	}

	return token{kind: tokInvalid, text: string(ch)}, 1
}

func opToken(op int, text string) token {

	return token{kind: tokOperator, op: op, text: text}
}

//
// Unsigned integer literals.  A '0X' prefix selects hexadecimal.
// Anything too large for an int is diagnosed as invalid
//

func lexNumber(line string, pos int) (token, int) {

	end := pos
	base := 10
	start := pos

	if line[pos] == '0' && pos+2 < len(line) && line[pos+1] == 'X' &&
		isHexDigit(line[pos+2]) {
		base = 16
		start = pos + 2
		end = start
		for end < len(line) && isHexDigit(line[end]) {
			end++
		}
	} else {
		for end < len(line) && isDigit(line[end]) {
			end++
		}
	}

	n, err := strconv.ParseInt(line[start:end], base, strconv.IntSize)
	if err != nil {
		return token{kind: tokInvalid, text: line[pos:end]}, end - pos
	}

	return token{kind: tokNumber, value: int(n), text: line[pos:end]}, end - pos
}

//
// A string literal.  The token text does not include the quotes.
// A literal missing its closing quote is invalid
//

func lexString(line string, pos int) (token, int) {

	end := strings.IndexByte(line[pos+1:], '"')
	if end < 0 {
		return token{kind: tokInvalid, text: line[pos:]}, len(line) - pos
	}

	return token{kind: tokString, text: line[pos+1 : pos+1+end]}, end + 2
}

//
// Create a parser for one statement.  The parser owns the cursor
// that both the statement executor and the expression evaluator
// advance
//

func newStmtParser(text string, vars *varTable) *stmtParser {

	line := compactStatement(text)

	return &stmtParser{line: line, tokens: lexStatement(line), vars: vars}
}

func newExprParser(text string, vars *varTable) *stmtParser {

	line := compactStatement(text)

	return &stmtParser{line: line, tokens: lexExpression(line, 0), vars: vars}
}

func (p *stmtParser) peek() token {

	return p.tokens[p.pos]
}

func (p *stmtParser) next() token {

	tok := p.tokens[p.pos]

	if tok.kind != tokEOL {
		p.pos++
	}

	return tok
}

func (p *stmtParser) peekOp(ops ...int) (int, bool) {

	tok := p.peek()
	if tok.kind != tokOperator {
		return 0, false
	}

	for _, op := range ops {
		if tok.op == op {
			return op, true
		}
	}

	return 0, false
}

func (p *stmtParser) expectOp(op int) {

	if _, ok := p.peekOp(op); !ok {
		syntaxError()
	}

	p.next()
}

func (p *stmtParser) expectKeyword(kw string) {

	tok := p.next()

	if tok.kind != tokKeyword || tok.text != kw {
		syntaxError()
	}
}

func (p *stmtParser) expectVariable() int {

	tok := p.next()

	if tok.kind != tokVariable {
		syntaxError()
	}

	return tok.value
}

func (p *stmtParser) expectEOL() {

	if p.peek().kind != tokEOL {
		syntaxError()
	}
}

func (p *stmtParser) atEOL() bool {

	return p.peek().kind == tokEOL
}
