// Command latticec is the whole-program ahead-of-time compiler driver for
// Lattice (spec §6): parse/check/build subcommands over a single source
// file, each running Session.Compile through the phase its name promises
// and nothing further. Subcommand dispatch and flag parsing follow the
// teacher's cmd/funxy/main.go idiom directly: no flag package, a manual
// os.Args loop per handler, each handler returning false when its own
// subcommand name doesn't match so main can fall through to the next one.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/latticelang/latticec/internal/backend"
	"github.com/latticelang/latticec/internal/config"
	"github.com/latticelang/latticec/internal/prettyprinter"
	"github.com/latticelang/latticec/internal/session"
	"github.com/latticelang/latticec/internal/source"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	if handleHelp() {
		return
	}
	if handleParse() {
		return
	}
	if handleCheck() {
		return
	}
	if handleBuild() {
		return
	}

	usage()
	os.Exit(1)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: latticec <parse|check|build> <file> [-O0|-O1|-O2|-O3] [-emit=ast|ir|none] [--backend addr]")
}

func handleHelp() bool {
	if len(os.Args) < 2 {
		return false
	}
	switch os.Args[1] {
	case "-help", "--help", "help":
		usage()
		return true
	}
	return false
}

// handleParse runs `latticec parse <file>`: lex+parse only, always dumping
// the AST regardless of -emit (spec §6's "parse" stage never lowers, so
// there's no IR to choose between).
func handleParse() bool {
	if len(os.Args) < 3 || os.Args[1] != "parse" {
		return false
	}
	path := os.Args[2]

	sess, _, err := newSessionForFile(path, config.Default())
	if err != nil {
		fail(err)
	}

	runAndReport(sess, session.StageParse, func() {
		fmt.Println(prettyprinter.DumpFile(sess.AST))
	})
	return true
}

// handleCheck runs `latticec check <file>`: every phase through lifetime
// analysis, but never lowers to IR (spec §6's "check" stops before
// codegen).
func handleCheck() bool {
	if len(os.Args) < 3 || os.Args[1] != "check" {
		return false
	}
	path := os.Args[2]

	cfg := config.Default()
	cfg.OptLevel = parseOptLevelFlag(os.Args[3:], cfg.OptLevel)

	sess, _, err := newSessionForFile(path, cfg)
	if err != nil {
		fail(err)
	}

	runAndReport(sess, session.StageCheck, nil)
	return true
}

// handleBuild runs `latticec build <file>`: the full pipeline through
// optimization and emit, optionally handing the result off to an external
// backend over gRPC when --backend is given.
func handleBuild() bool {
	if len(os.Args) < 3 || os.Args[1] != "build" {
		return false
	}
	path := os.Args[2]

	cfg := config.Default()
	rest := os.Args[3:]
	cfg.OptLevel = parseOptLevelFlag(rest, cfg.OptLevel)
	cfg.Emit = parseEmitFlag(rest, cfg.Emit)
	backendAddr := parseBackendFlag(rest)

	sess, _, err := newSessionForFile(path, cfg)
	if err != nil {
		fail(err)
	}

	runAndReport(sess, session.StageBuild, func() {
		if sess.Dump != "" {
			fmt.Println(sess.Dump)
		}
		if backendAddr != "" {
			if err := publishToBackend(sess, backendAddr); err != nil {
				fail(err)
			}
		}
	})
	return true
}

func newSessionForFile(path string, cfg config.Configuration) (*session.Session, config.Configuration, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, cfg, fmt.Errorf("latticec: reading %s: %w", path, err)
	}

	files := source.NewMap()
	file := files.Add(path, string(content))

	return session.New(file, cfg), cfg, nil
}

// runAndReport compiles sess up to stage, writes its diagnostics to the
// tty-appropriate sink, calls onSuccess (if non-nil) when the session has
// no errors, and exits 1 on compile failure — spec §6's "errors abort the
// build, warnings don't" contract.
func runAndReport(sess *session.Session, stage session.Stage, onSuccess func()) {
	if err := sess.CompileTo(context.Background(), stage); err != nil {
		fail(err)
	}

	writeDiagnostics(sess)

	if !sess.Success() {
		os.Exit(1)
	}
	if onSuccess != nil {
		onSuccess()
	}
}

// writeDiagnostics selects between a plain and a pretty diagnostic sink
// depending on whether stdout is a terminal; the driver only *selects*
// which transport renders the diagnostics, it never colors or formats
// them itself (spec §6: the renderer is external to the compiler proper).
func writeDiagnostics(sess *session.Session) {
	sorted := sess.Diags.Sorted()
	if len(sorted) == 0 {
		return
	}

	isTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if isTTY {
		fmt.Fprint(os.Stderr, prettyprinter.DumpDiagnostics(sorted))
	} else {
		for _, d := range sorted {
			fmt.Fprintln(os.Stderr, d.Error())
		}
	}
	fmt.Fprintln(os.Stderr, sess.Diags.Summary())
}

func publishToBackend(sess *session.Session, addr string) error {
	schema, err := backend.LoadSchema()
	if err != nil {
		return err
	}
	client, err := backend.Dial(schema, addr)
	if err != nil {
		return err
	}
	defer client.Close()

	irText := sess.Dump
	if irText == "" && sess.IR != nil {
		irText = prettyprinter.DumpModule(sess.IR)
	}

	ack, err := client.Emit(context.Background(), backend.ModuleEnvelope{
		SessionID:  sess.ID,
		ModuleName: sess.IR.Name,
		IRText:     irText,
	})
	if err != nil {
		return fmt.Errorf("latticec: backend handoff failed: %w", err)
	}
	if !ack.OK {
		return fmt.Errorf("latticec: backend rejected the module: %s", ack.Message)
	}
	return nil
}

func parseOptLevelFlag(args []string, fallback int) int {
	for _, arg := range args {
		if len(arg) == 3 && strings.HasPrefix(arg, "-O") {
			if n, err := strconv.Atoi(arg[2:]); err == nil {
				return n
			}
		}
	}
	return fallback
}

func parseEmitFlag(args []string, fallback config.EmitKind) config.EmitKind {
	const prefix = "-emit="
	for _, arg := range args {
		if strings.HasPrefix(arg, prefix) {
			return config.EmitKind(strings.TrimPrefix(arg, prefix))
		}
	}
	return fallback
}

func parseBackendFlag(args []string) string {
	for i, arg := range args {
		if arg == "--backend" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
