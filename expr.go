package main

//
// Precedence climbing evaluator.  Six tiers, lowest precedence first:
//
//   1. = #        (equality; '<>' is lexed as '#')
//   2. < >
//   3. <= >=
//   4. + -
//   5. * /
//   6. unary minus, literals, parenthesized expressions, variables
//
// Each tier takes its left operand from the next tier, then folds in
// right operands left to right, so '1<2<3' is '(1<2)<3' and '10-2-3'
// is 5.  Comparisons yield 1 or 0
//

func (p *stmtParser) evaluateExpr() int {

	return p.evaluateEquality()
}

func (p *stmtParser) evaluateEquality() int {

	left := p.evaluateRelational()

	for {
		op, ok := p.peekOp(opEQ, opNE)
		if !ok {
			return left
		}

		p.next()
		right := p.evaluateRelational()

		if op == opEQ {
			left = boolToInt(left == right)
		} else {
			left = boolToInt(left != right)
		}
	}
}

func (p *stmtParser) evaluateRelational() int {

	left := p.evaluateRelationalEq()

	for {
		op, ok := p.peekOp(opLT, opGT)
		if !ok {
			return left
		}

		p.next()
		right := p.evaluateRelationalEq()

		if op == opLT {
			left = boolToInt(left < right)
		} else {
			left = boolToInt(left > right)
		}
	}
}

func (p *stmtParser) evaluateRelationalEq() int {

	left := p.evaluateAdditive()

	for {
		op, ok := p.peekOp(opLE, opGE)
		if !ok {
			return left
		}

		p.next()
		right := p.evaluateAdditive()

		if op == opLE {
			left = boolToInt(left <= right)
		} else {
			left = boolToInt(left >= right)
		}
	}
}

func (p *stmtParser) evaluateAdditive() int {

	left := p.evaluateMultiplicative()

	for {
		op, ok := p.peekOp(opAdd, opSub)
		if !ok {
			return left
		}

		p.next()
		right := p.evaluateMultiplicative()

		if op == opAdd {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *stmtParser) evaluateMultiplicative() int {

	left := p.evaluatePrimary()

	for {
		op, ok := p.peekOp(opMul, opDiv)
		if !ok {
			return left
		}

		p.next()
		right := p.evaluatePrimary()

		if op == opMul {
			left *= right
		} else {
			runtimeCheck(right != 0, EDIVISIONBYZERO)
			left /= right
		}
	}
}

func (p *stmtParser) evaluatePrimary() int {

	tok := p.next()

	switch tok.kind {
	case tokNumber:
		return tok.value

	case tokVariable:
		return p.vars.fetch(tok.value)

	case tokOperator:
		switch tok.op {
		case opSub:
			return -p.evaluatePrimary()

		case opLParen:
			val := p.evaluateEquality()
			p.expectOp(opRParen)
			return val
		}
	}

	syntaxError()

	panic(nil) // avoid compiler complaint
}

func boolToInt(b bool) int {

	if b {
		return 1
	} else {
		return 0
	}
}
