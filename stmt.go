package main

import (
	"fmt"
	"strings"

	"github.com/danswartzendruber/avl"
)

//
// A set of wrapper routines to the AVL package.  We do this to
// hide the AVL interface from the rest of the interpreter.  The
// tree is keyed by line number, and each node owns a copy of the
// source text for that line
//

func newProgramStore() *programStore {

	return &programStore{}
}

func cmpLineNoKey(key any, node any) int {

	return cmpLineNoItems(key.(int), node.(*stmtNode).lineNo)
}

func cmpLineNoSnode(node1, node2 any) int {

	return cmpLineNoItems(node1.(*stmtNode).lineNo, node2.(*stmtNode).lineNo)
}

func cmpLineNoItems(item1, item2 int) int {

	if item1 < item2 {
		return -1
	} else if item1 > item2 {
		return 1
	} else {
		return 0
	}
}

func validLineNo(lineNo int) bool {

	return lineNo >= minLineNo && lineNo <= maxLineNo
}

func (ps *programStore) firstInOrder() *stmtNode {

	p := avl.AvlTreeFirstInOrder(ps.root)
	if p != nil {
		return p.(*stmtNode)
	} else {
		return nil
	}
}

func (ps *programStore) nextInOrder(stmt *stmtNode) *stmtNode {

	p := avl.AvlTreeNextInOrder(&stmt.avl)
	if p != nil {
		return p.(*stmtNode)
	} else {
		return nil
	}
}

func (ps *programStore) lookup(lineNo int) *stmtNode {

	p := avl.AvlTreeLookup(ps.root, lineNo, cmpLineNoKey)
	if p != nil {
		return p.(*stmtNode)
	} else {
		return nil
	}
}

//
// Insert or replace the text for a line.  Whitespace-only text
// means the line is to be deleted
//

func (ps *programStore) set(lineNo int, text string) error {

	if !validLineNo(lineNo) {
		return fmt.Errorf("%w: %d", errIllegalLineNo, lineNo)
	}

	if stmt := ps.lookup(lineNo); stmt != nil {
		ps.remove(stmt)
	}

	if strings.TrimSpace(text) == "" {
		return nil
	}

	stmt := &stmtNode{lineNo: lineNo, text: strings.Clone(text)}

	p := avl.AvlTreeInsert(&ps.root, &stmt.avl, stmt, cmpLineNoSnode)
	if p != nil {
		fatalError(fmt.Sprintf("Line %d already in tree???", lineNo))
	}

	ps.lines++

	return nil
}

func (ps *programStore) get(lineNo int) (string, bool) {

	if stmt := ps.lookup(lineNo); stmt != nil {
		return stmt.text, true
	}

	return "", false
}

func (ps *programStore) remove(stmt *stmtNode) {

	avl.AvlTreeRemove(&ps.root, &stmt.avl)

	ps.lines--
}

//
// Return the smallest stored line number >= lineNo.  The AVL
// package doesn't export the root's owner, so we climb from the
// leftmost node to the root, then descend as for a lookup,
// remembering the last node we went left from
//

func (ps *programStore) nextDefined(lineNo int) (int, bool) {

	p := avl.AvlTreeFirstInOrder(ps.root)
	if p == nil {
		return 0, false
	}

	for parent := avl.AvlGetParent(&p.(*stmtNode).avl); parent != nil; {
		p = parent
		parent = avl.AvlGetParent(&p.(*stmtNode).avl)
	}

	var best *stmtNode

	for p != nil {
		stmt := p.(*stmtNode)

		switch cmpLineNoItems(lineNo, stmt.lineNo) {
		case 0:
			return stmt.lineNo, true

		case -1:
			best = stmt
			p = avl.AvlLeftChild(&stmt.avl)

		case 1:
			p = avl.AvlRightChild(&stmt.avl)
		}
	}

	if best == nil {
		return 0, false
	}

	return best.lineNo, true
}

func (ps *programStore) list() []*stmtNode {

	ret := make([]*stmtNode, 0, ps.lines)

	for stmt := ps.firstInOrder(); stmt != nil; stmt = ps.nextInOrder(stmt) {
		ret = append(ret, stmt)
	}

	return ret
}

//
// Tricky: the nodes hold the only references into the tree, so
// dropping the root is all that's needed
//

func (ps *programStore) clear() {

	ps.root = nil
	ps.lines = 0
}

func (ps *programStore) empty() bool {

	return ps.root == nil
}
