package main

import (
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"
)

//
// The symbol table is a closed namespace: one integer per letter.
// Variables are only reset by RUN
//

func initSymbolTable() {

	g.vars = varTable{}
}

func (vt *varTable) fetch(idx int) int {

	basicAssert(idx >= 0 && idx < numVariables,
		fmt.Sprintf("variable index %d out of range", idx))

	return vt[idx]
}

func (vt *varTable) store(idx int, val int) {

	basicAssert(idx >= 0 && idx < numVariables,
		fmt.Sprintf("variable index %d out of range", idx))

	vt[idx] = val
}

func varName(idx int) string {

	return string(rune('A' + idx))
}

//
// Loop contexts are a fixed table keyed by the loop variable.  A FOR
// on a letter overwrites whatever context that letter had, so nested
// loops need distinct letters.  We don't try to detect reuse
//

func setLoopContext(idx, limit, resumeLine int) {

	r.loops[idx] = loopContext{limit: limit, resumeLine: resumeLine,
		active: true}
}

func getLoopContext(idx int) *loopContext {

	lc := &r.loops[idx]

	runtimeCheck(lc.active, ENEXTWITHOUTFOR)

	return lc
}

//
// The GOSUB stack is a separate, dynamic structure.  Depth is only
// limited if the configuration asks for it
//

func newCallStack() *arraystack.Stack {

	return arraystack.New()
}

func pushReturnLine(lineNo int) {

	maxDepth := 0
	if g.config != nil {
		maxDepth = g.config.MaxGosubDepth
	}

	runtimeCheck(maxDepth == 0 || r.callStack.Size() < maxDepth,
		EGOSUBOVERFLOW)

	r.callStack.Push(lineNo)
}

func popReturnLine() int {

	v, ok := r.callStack.Pop()

	runtimeCheck(ok, EGOSUBUNDERFLOW)

	return v.(int)
}
