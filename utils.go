package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/danswartzendruber/liner"
	"github.com/tklauser/go-sysconf"
	"golang.org/x/term"
)

//
// Interactive only if both ends are a terminal.  Otherwise we read
// plain lines, which is what scripted sessions and tests want
//

func isInteractive() bool {

	return term.IsTerminal(int(os.Stdin.Fd())) &&
		term.IsTerminal(int(os.Stdout.Fd()))
}

//
// We create two Liner instances.  One for the command prompt, and one
// for INPUT statements.  We do this because we want a scrollback
// history for commands, but not for user input.  We need to create
// and destroy them in LIFO order, as the Close method is documented
// as 'restoring the terminal to its previous state'.  This means that
// if we create the parser instance, and then the 'input' instance, the
// terminal state will go normal => raw => raw.  If we then Close them
// in reverse order, we will see raw => raw => normal
//

type linerSource struct {
	state   *liner.State
	history bool
	maxLen  int
}

func setupLiners(maxLen int, historyFile string) {

	parser := &linerSource{state: setupLiner(), history: true,
		maxLen: maxLen}

	if historyFile != "" {
		readHistory(parser.state, historyFile)
	}

	g.parserInput = parser
	g.programInput = &linerSource{state: setupLiner(), maxLen: maxLen}
}

func setupLiner() *liner.State {

	l := liner.NewLiner()

	l.SetCtrlCAborts(true)

	return l
}

func readHistory(l *liner.State, name string) {

	f, err := os.Open(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn("unable to read history", "file", name,
				"err", mapOSError(err))
		}
		return
	}
	defer f.Close()

	if n, err := l.ReadHistory(f); err != nil {
		log.Warn("unable to read history", "file", name, "err", err)
	} else {
		log.Debug("history loaded", "file", name, "entries", n)
	}
}

func writeHistory(l *liner.State, name string) {

	f, err := os.Create(name)
	if err != nil {
		log.Warn("unable to write history", "file", name,
			"err", mapOSError(err))
		return
	}
	defer f.Close()

	if _, err := l.WriteHistory(f); err != nil {
		log.Warn("unable to write history", "file", name, "err", err)
	}
}

func (ls *linerSource) readLine(prompt string) (string, error) {

	//
	// Annoyingly, a non-nil error here can be totally okay.  This
	// happens in the case that the user enters ^D at the beginning
	// of the line (so EOF is seen), or ^C (aborted).  Our caller
	// decides what either means
	//

	s, err := ls.state.Prompt(prompt)
	if err != nil {
		return "", err
	}

	if len(s) > ls.maxLen {
		return "", errLineTooLong
	}

	if ls.history && strings.TrimSpace(s) != "" {
		ls.state.AppendHistory(s)
	}

	return s, nil
}

func (ls *linerSource) close() {

	if ls.state != nil {
		ls.state.Close()
		ls.state = nil
	}
}

//
// Restore terminal state
//
// We need to Close the Liner instances in reverse order, to make
// sure we end up back in cooked mode.  NB: we cannot call (or cause
// to be called) crash(), as that would recurse
//

func cleanupLiners() {

	if ls, ok := g.parserInput.(*linerSource); ok && ls.state != nil &&
		g.config != nil && g.config.HistoryFile != "" {
		writeHistory(ls.state, g.config.HistoryFile)
	}

	if g.programInput != nil {
		g.programInput.close()
	}

	if g.parserInput != nil {
		g.parserInput.close()
	}
}

//
// Plain line reader, for anything that isn't a terminal.  Lines are
// bounded: an overlong line is consumed in full and reported as
// errLineTooLong, so the next read starts on a fresh line
//

type streamSource struct {
	rd     *bufio.Reader
	echo   io.Writer
	maxLen int
}

func newStreamSource(rd io.Reader, echo io.Writer, maxLen int) *streamSource {

	return &streamSource{rd: bufio.NewReader(rd), echo: echo, maxLen: maxLen}
}

func (ss *streamSource) readLine(prompt string) (string, error) {

	var buf []byte
	var tooLong bool

	if prompt != "" && ss.echo != nil {
		fmt.Fprint(ss.echo, prompt)
	}

	for {
		frag, isPrefix, err := ss.rd.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) && (len(buf) > 0 || tooLong) {
				break
			}
			return "", err
		}

		if !tooLong {
			buf = append(buf, frag...)
			if len(buf) > ss.maxLen {
				tooLong = true
				buf = nil
			}
		}

		if !isPrefix {
			break
		}
	}

	if tooLong {
		return "", errLineTooLong
	}

	return strings.TrimSuffix(string(buf), "\r"), nil
}

func (ss *streamSource) close() {
}

func pluralize(str string, num int64) string {

	//
	// Oddity: 0 is considered plural
	//

	if num != 1 {
		return str + "s"
	}

	return str
}

//
// Check to see if sigHdlr has posted an interrupt
//

func checkInterrupts() {

	if g.interrupted.CompareAndSwap(true, false) {
		runtimeError(EINTERRUPTED)
	}
}

func switchSetting(b bool) string {

	if b {
		return "ON"
	} else {
		return "OFF"
	}
}

//
// Initialize the clock
//

func initClock() {

	s.elapsed = time.Now()

	utime, stime, err := getCPUInfo()
	if err != nil {
		log.Debug("cpu times unavailable", "err", err)
	}

	s.utime, s.stime = utime, stime
}

func printCpuUsage() {

	elapsed := time.Since(s.elapsed)

	utime, stime, err := getCPUInfo()
	if err != nil {
		fmt.Fprintf(g.out, "CPU Usage: elapsed = %s\n",
			formatCPUTime(int64(elapsed.Seconds())))
		return
	}

	fmt.Fprintf(g.out, "CPU Usage: elapsed = %s / user = %s / system = %s\n",
		formatCPUTime(int64(elapsed.Seconds())),
		formatCPUTime(utime-s.utime), formatCPUTime(stime-s.stime))
}

func formatCPUTime(t int64) string {

	var h, m int64

	if t >= 3600 {
		h = t / 3600
		t = t % 3600
	}

	if t >= 60 {
		m = t / 60
		t = t % 60
	}

	return fmt.Sprintf("%02d:%02d:%02d", h, m, t)
}

//
// User and system CPU seconds for this process, from /proc
//

func getCPUInfo() (int64, int64, error) {

	clktck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil {
		return 0, 0, err
	}

	if clktck <= 0 {
		return 0, 0, fmt.Errorf("bogus clock tick rate %d", clktck)
	}

	contents, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		return 0, 0, err
	}

	fields := strings.Fields(string(contents))
	if len(fields) < 15 {
		return 0, 0, errors.New("short /proc/self/stat")
	}

	utime, err := strconv.ParseInt(fields[13], 10, 64)
	if err != nil {
		return 0, 0, err
	}

	stime, err := strconv.ParseInt(fields[14], 10, 64)
	if err != nil {
		return 0, 0, err
	}

	return utime / clktck, stime / clktck, nil
}

//
// Print a fatal message and abort the process.  We write to standard
// error, since the user may have redirected standard output, and we
// would not see it then.  Also, dup os.Stderr, then close os.Stdout
// and os.Stderr in case another goroutine is writing to the terminal.
// Make sure to call cleanupLiners, so the terminal state is sane
//

func crash(msg string) {

	var w *os.File

	cleanupLiners()

	if msg != "" {
		fd, err := syscall.Dup(int(os.Stderr.Fd()))
		if err == nil {
			os.Stdout.Close()
			os.Stderr.Close()
			w = os.NewFile(uintptr(fd), "stderr on new fd")
		} else {
			w = os.Stderr
		}

		fmt.Fprintln(w, msg)
	}

	os.Exit(1)
}

//
// Strip the path from OS errors, since we already name the file in
// our own message
//

func mapOSError(err error) error {

	var pErr *os.PathError

	if errors.As(err, &pErr) {
		return pErr.Err
	}

	return err
}
