package main

import (
	"errors"
)

//
// Manifest constants for the interpreter error messages.  These
// are printed as-is, with ' at line N' appended if a program was
// running when the error was raised
//

const (
	ESYNTAX            = "Syntax error"
	EDIVISIONBYZERO    = "Division by 0"
	EGOSUBUNDERFLOW    = "GOSUB stack underflow"
	EGOSUBOVERFLOW     = "GOSUB stack overflow"
	ENEXTWITHOUTFOR    = "NEXT without FOR"
	EENDOFINPUT        = "End of input"
	EINTERRUPTED       = "Interrupted"
	ELINETOOLONG       = "Line too long"
	EILLEGALLINENUMBER = "Illegal line number(s)"
	EFILENAMEREQUIRED  = "Filename required"
)

//
// Errors returned by the leaf components.  The dispatcher maps them
// back to the messages above
//

var errLineTooLong = errors.New(ELINETOOLONG)
var errIllegalLineNo = errors.New(EILLEGALLINENUMBER)
var errSyntax = errors.New(ESYNTAX)
