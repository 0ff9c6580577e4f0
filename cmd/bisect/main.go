// Binary search (bisection) in a sorted text file.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"

	"github.com/pts/pts-line-bisect"
)

// cliOptions mirrors the original program's "-<flags> <file> <key-x>
// [<key-y>]" argument form as a go-flags struct. It is local to run, not a
// package var, so independent invocations (from main, or from tests) never
// share parser state.
type cliOptions struct {
	E bool `short:"e" description:"bisect left, open interval end (default end mode is required: one of -e -t -p)"`
	T bool `short:"t" description:"bisect right, closed interval end"`
	P bool `short:"p" description:"prefix search interval end"`

	B bool `short:"b" description:"bisect left for interval start (default)"`
	A bool `short:"a" description:"bisect right for interval start (append position); needs -eo and no <key-y>"`

	C bool `short:"c" description:"print file contents (default)"`
	O bool `short:"o" description:"print file offsets"`
	Q bool `short:"q" description:"don't print anything, just detect if there is a match"`

	I bool `short:"i" long:"ignore-incomplete" description:"ignore incomplete last line (may be appended to right now)"`

	Verbose bool `short:"v" long:"verbose" description:"write debug trace to stderr"`

	Args struct {
		File string `positional-arg-name:"file" required:"yes"`
		KeyX string `positional-arg-name:"key-x" required:"yes"`
		KeyY string `positional-arg-name:"key-y"`
	} `positional-args:"yes"`
}

// trimKey strips an embedded LF and everything after it, matching the
// engine's precondition that keys never contain LF.
func trimKey(s string) []byte {
	b := []byte(s)
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		b = b[:i]
	}
	return b
}

// flagSelection is the subset of cliOptions that resolveFlags needs, pulled
// out so the flag-combination rules can be unit tested without going
// through go-flags parsing.
type flagSelection struct {
	E, T, P bool
	B, A    bool
	C, O, Q bool
	HasKeyY bool
}

// resolvedQuery is the outcome of validating a flagSelection: the two
// comparison modes and the output format the rest of run dispatches on.
type resolvedQuery struct {
	endMode   bisect.CompareMode
	startMode bisect.CompareMode
	printing  string // "contents", "offsets", or "detect"
}

// resolveFlags applies the flag-combination rules from the original
// program's usage_error checks, returning a usage error message (and a
// zero resolvedQuery) if the selection is invalid.
func resolveFlags(s flagSelection) (resolvedQuery, string) {
	var q resolvedQuery

	nEnd := btoi(s.E) + btoi(s.T) + btoi(s.P)
	if nEnd != 1 {
		return q, "exactly one of -e, -t, -p is required"
	}
	switch {
	case s.E:
		q.endMode = bisect.LE
	case s.T:
		q.endMode = bisect.LT
	case s.P:
		q.endMode = bisect.LP
	}

	if btoi(s.B)+btoi(s.A) > 1 {
		return q, "at most one of -b, -a is allowed"
	}
	q.startMode = bisect.LE
	if s.A {
		if !(s.E && s.O && !s.HasKeyY) {
			return q, "flag -a needs -eo and no <key-y>"
		}
		q.startMode = bisect.LT
	}

	nOut := btoi(s.C) + btoi(s.O) + btoi(s.Q)
	if nOut > 1 {
		return q, "at most one of -c, -o, -q is allowed"
	}
	q.printing = "contents"
	switch {
	case s.O:
		q.printing = "offsets"
	case s.Q:
		q.printing = "detect"
	}

	if !s.HasKeyY && q.printing != "offsets" && q.endMode == bisect.LE {
		return q, "single-key contents is always empty"
	}

	return q, ""
}

// run implements the whole CLI against injected args and output streams,
// returning the process exit code (0 success, 1 usage error, 2 I/O error,
// 3 no match) instead of calling os.Exit, so it can be driven from tests
// exactly as main drives it from the real process.
func run(args []string, stdout, stderr io.Writer) int {
	var opts cliOptions
	parser := flags.NewParser(&opts, flags.Default&^flags.PrintErrors)

	usage := func(msg string) int {
		if msg != "" {
			fmt.Fprintf(stderr, "usage error: %s\n\n", msg)
		}
		parser.WriteHelp(stderr)
		return 1
	}

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			parser.WriteHelp(stdout)
			return 0
		}
		return usage(err.Error())
	}

	hasY := opts.Args.KeyY != ""
	q, msg := resolveFlags(flagSelection{
		E: opts.E, T: opts.T, P: opts.P,
		B: opts.B, A: opts.A,
		C: opts.C, O: opts.O, Q: opts.Q,
		HasKeyY: hasY,
	})
	if msg != "" {
		return usage(msg)
	}
	endMode, startMode, printing := q.endMode, q.startMode, q.printing

	var logger *zerolog.Logger
	if opts.Verbose {
		l := zerolog.New(zerolog.ConsoleWriter{Out: stderr}).With().Timestamp().Logger()
		logger = &l
	}

	engine, err := bisect.NewEngine(opts.Args.File, bisect.EngineOptions{
		Logger:                 logger,
		TrimIncompleteLastLine: opts.I,
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer engine.Close()

	keyX := trimKey(opts.Args.KeyX)
	keyY := keyX
	if hasY {
		keyY = trimKey(opts.Args.KeyY)
	}

	if !hasY && endMode == bisect.LE && printing == "offsets" {
		start, err := engine.LeftOffset(0, -1, keyX, startMode)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		fmt.Fprintf(stdout, "%d\n", start)
		return 0
	}

	if printing == "detect" && (!hasY || bytes.Equal(keyX, keyY)) {
		// Shortcut only: detecting a single key's presence never needs a
		// full interval search, just the CM_LE candidate line plus one
		// predicate check against it.
		if endMode == bisect.LE {
			return 3 // start:end range would always be empty.
		}
		found, err := engine.Contains(keyX, endMode)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		if !found {
			return 3
		}
		return 0
	}

	start, end, err := engine.IntervalOffsets(0, -1, keyX, keyY, endMode)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	switch printing {
	case "contents":
		if start < end {
			if err := engine.ReadRange(start, end, stdout); err != nil {
				fmt.Fprintln(stderr, err)
				return 2
			}
		}
	case "offsets":
		fmt.Fprintf(stdout, "%d %d\n", start, end)
	}

	if start >= end {
		return 3
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
