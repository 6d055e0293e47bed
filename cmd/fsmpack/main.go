// Command fsmpack compiles word lists into packed automaton images and
// queries them.
//
// Usage:
//
//	fsmpack pack    [flags] -o out.img words.txt
//	fsmpack stat    [flags] image.img
//	fsmpack lookup  [flags] image.img word...
//	fsmpack scan    [flags] image.img [text-file]
//	fsmpack inspect [-i] image.img
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/coregx/fsmpack/image"
	"github.com/coregx/fsmpack/pack"
)

// errUsage is returned for bad command lines; the flag set has already
// printed the problem.
var errUsage = errors.New("usage")

// env is what a subcommand may touch.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *zap.Logger
}

type command struct {
	name  string
	usage string
	run   func(e *env, args []string) error
}

var commands = []command{
	{"pack", "compile a word list into an image", cmdPack},
	{"stat", "print image statistics", cmdStat},
	{"lookup", "look words up in an image", cmdLookup},
	{"scan", "find dictionary words in text", cmdScan},
	{"inspect", "list the state records of an image (-i for interactive)", cmdInspect},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "help" {
		usage(stderr)
		return 2
	}
	for _, c := range commands {
		if c.name != args[0] {
			continue
		}
		e := &env{stdin: stdin, stdout: stdout, stderr: stderr, log: zap.NewNop()}
		err := c.run(e, args[1:])
		_ = e.log.Sync()
		switch {
		case err == nil:
			return 0
		case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
			return 2
		default:
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
	usage(stderr)
	return 2
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: fsmpack <command> [flags] [args]")
	fmt.Fprintln(w)
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.usage)
	}
}

// newFlagSet returns a flag set carrying the common -v flag.
func newFlagSet(e *env, name string) (*flag.FlagSet, *bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	verbose := fs.Bool("v", false, "Verbose logging")
	return fs, verbose
}

// parse parses args and installs the logger chosen by -v.
func parse(e *env, fs *flag.FlagSet, verbose *bool, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	log, err := newLogger(*verbose)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	e.log = log
	pack.SetLogger(log.Named("pack"))
	image.SetLogger(log.Named("image"))
	return nil
}

// newLogger returns a development logger when verbose, else a production
// logger that only reports warnings.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// needArgs checks the positional argument count.
func needArgs(fs *flag.FlagSet, min int) error {
	if fs.NArg() < min {
		fmt.Fprintf(fs.Output(), "%s: missing arguments\n", fs.Name())
		fs.Usage()
		return errUsage
	}
	return nil
}
