// Package cli implements the opencm command-line tool, a thin front end
// over the three boundary operations of the opencm package: load, validate
// and save.
package cli

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/getcognition-online/openCM/internal/ctxlog"
	"github.com/getcognition-online/openCM/internal/opencm"
)

const (
	ExitSuccess          = 0
	ExitValidationError  = 1
	ExitArgOrSystemError = 2
)

// Main is the canonical entrypoint for the `opencm` CLI.
// args should exclude argv[0].
func Main(args []string, stdout, stderr io.Writer) int {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	if len(args) == 0 {
		fmt.Fprintln(stderr, "missing command (expected: validate|show|hash|fmt)")
		return ExitArgOrSystemError
	}

	switch args[0] {
	case "help", "-h", "--help":
		printHelp(stdout)
		return ExitSuccess
	case "validate":
		return cmdValidate(args[1:], stdout, stderr)
	case "show":
		return cmdShow(args[1:], stdout, stderr)
	case "hash":
		return cmdHash(args[1:], stdout, stderr)
	case "fmt":
		return cmdFmt(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", args[0])
		return ExitArgOrSystemError
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  opencm validate --file <path>")
	fmt.Fprintln(w, "  opencm show --file <path>")
	fmt.Fprintln(w, "  opencm hash --file <path>")
	fmt.Fprintln(w, "  opencm fmt --file <path> [--out <path>]")
}

// loggerContext returns a context carrying a stderr logger so warnings from
// the opencm package surface on the terminal.
func loggerContext(stderr io.Writer) context.Context {
	logger := slog.New(slog.NewTextHandler(stderr, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

type strictFlagSet struct {
	fs *flag.FlagSet
}

func newStrictFlagSet(command string) *strictFlagSet {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(&bytes.Buffer{}) // discard default usage output
	return &strictFlagSet{fs: fs}
}

func (s *strictFlagSet) parse(args []string, stderr io.Writer) error {
	if err := s.fs.Parse(args); err != nil {
		msg := err.Error()
		if strings.Contains(msg, "flag provided but not defined") {
			fmt.Fprintln(stderr, "unknown flag")
		} else {
			fmt.Fprintln(stderr, msg)
		}
		return err
	}
	if s.fs.NArg() != 0 {
		fmt.Fprintf(stderr, "unexpected positional arguments: %q\n", strings.Join(s.fs.Args(), " "))
		return fmt.Errorf("unexpected positional arguments")
	}
	return nil
}

func requireFile(s *strictFlagSet, args []string, stderr io.Writer) (string, bool) {
	var file string
	s.fs.StringVar(&file, "file", "", "Path to the .opencm.json model file")
	if err := s.parse(args, stderr); err != nil {
		return "", false
	}
	if strings.TrimSpace(file) == "" {
		fmt.Fprintln(stderr, "--file is required")
		return "", false
	}
	return file, true
}

func isSystemPathErr(err error) bool {
	return errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission)
}

func cmdValidate(args []string, stdout, stderr io.Writer) int {
	file, ok := requireFile(newStrictFlagSet("opencm validate"), args, stderr)
	if !ok {
		return ExitArgOrSystemError
	}

	report, err := opencm.ValidateFile(file)
	if err != nil {
		fmt.Fprintln(stderr, err)
		if isSystemPathErr(err) {
			return ExitArgOrSystemError
		}
		// Malformed or wrong-shaped input counts as a failed validation.
		return ExitValidationError
	}

	for _, msg := range report.Errors {
		fmt.Fprintf(stdout, "error: %s\n", msg)
	}
	for _, msg := range report.Warnings {
		fmt.Fprintf(stdout, "warning: %s\n", msg)
	}
	if !report.OK() {
		fmt.Fprintf(stdout, "invalid: %d errors, %d warnings\n", len(report.Errors), len(report.Warnings))
		return ExitValidationError
	}
	fmt.Fprintf(stdout, "valid: 0 errors, %d warnings\n", len(report.Warnings))
	return ExitSuccess
}

func cmdShow(args []string, stdout, stderr io.Writer) int {
	file, ok := requireFile(newStrictFlagSet("opencm show"), args, stderr)
	if !ok {
		return ExitArgOrSystemError
	}

	model, err := opencm.Load(loggerContext(stderr), file)
	if err != nil {
		fmt.Fprintln(stderr, err)
		if isSystemPathErr(err) {
			return ExitArgOrSystemError
		}
		return ExitValidationError
	}

	fmt.Fprintln(stdout, model.Summary())
	for _, name := range model.VariableNames() {
		v := model.Variables[name]
		fmt.Fprintf(stdout, "  %s (%s)\n", name, v.Kind)
	}
	return ExitSuccess
}

func cmdHash(args []string, stdout, stderr io.Writer) int {
	file, ok := requireFile(newStrictFlagSet("opencm hash"), args, stderr)
	if !ok {
		return ExitArgOrSystemError
	}

	model, err := opencm.Load(loggerContext(stderr), file)
	if err != nil {
		fmt.Fprintln(stderr, err)
		if isSystemPathErr(err) {
			return ExitArgOrSystemError
		}
		return ExitValidationError
	}

	hash, err := opencm.Fingerprint(model)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitArgOrSystemError
	}
	fmt.Fprintln(stdout, hash)
	return ExitSuccess
}

func cmdFmt(args []string, stdout, stderr io.Writer) int {
	s := newStrictFlagSet("opencm fmt")
	var out string
	s.fs.StringVar(&out, "out", "", "Destination path (defaults to rewriting in place)")
	file, ok := requireFile(s, args, stderr)
	if !ok {
		return ExitArgOrSystemError
	}
	if strings.TrimSpace(out) == "" {
		out = file
	}

	ctx := loggerContext(stderr)
	model, err := opencm.Load(ctx, file)
	if err != nil {
		fmt.Fprintln(stderr, err)
		if isSystemPathErr(err) {
			return ExitArgOrSystemError
		}
		return ExitValidationError
	}

	written, err := opencm.Save(ctx, model, out)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitArgOrSystemError
	}
	fmt.Fprintln(stdout, written)
	return ExitSuccess
}
