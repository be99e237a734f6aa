package main

import (
	"fmt"
	"strings"
)

var commandHelp = []struct {
	name string
	text string
}{
	{"bye", "Exit from BASIC"},
	{"help", "Describe a command, or list them all"},
	{"list", "List the current program"},
	{"load", "Merge a saved program into the current one"},
	{"new", "Erase the current program"},
	{"run", "Execute the current program from the lowest numbered line"},
	{"save", "Save the current program to the named file"},
	{"stats", "Toggle printing execution statistics when user" +
		" program stops"},
	{"trace", "Toggle statement tracing (EXEC) or token dumps (DUMP)"},
}

func executeHelp(arg string) {

	if arg == "" {
		for _, h := range commandHelp {
			fmt.Fprintln(g.out, h.name)
		}
		return
	}

	for _, h := range commandHelp {
		if strings.EqualFold(h.name, arg) {
			fmt.Fprintln(g.out, h.text)
			return
		}
	}

	exitToPrompt(fmt.Sprintf("No help for %q", arg))
}
