// Command contract-lint checks the serialization contracts of Go packages
// without running them. It loads the packages, builds the contract of every
// struct type and everything reachable from it, and reports what building
// those contracts at runtime would fail on.
//
// Usage:
//
//	contract-lint [-config contracts.yaml] [-v] [-dump] [-workers N] packages...
//
// The exit status is 1 when errors were found and 2 when the packages or the
// configuration could not be loaded.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/davecgh/go-spew/spew"

	"typecontract/internal/analyze"
	"typecontract/internal/config"
	"typecontract/internal/lint"
)

const (
	exitOK    = 0
	exitLint  = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("contract-lint", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "contract configuration `file` (YAML)")
	verbose := fs.Bool("v", false, "log every checked type")
	dump := fs.Bool("dump", false, "dump the static contracts to stdout")
	workers := fs.Int("workers", 0, "concurrent type checks (default GOMAXPROCS)")

	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: contract-lint [flags] packages...")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})).
		With("component", "contract-lint")

	var file *config.File

	if *configPath != "" {
		f, err := config.LoadFile(*configPath)
		if err != nil {
			logger.Error("loading configuration", "err", err)
			return exitUsage
		}

		file = f
	}

	graph, err := analyze.NewAnalyzer().LoadPackages(fs.Args()...)
	if err != nil {
		logger.Error("loading packages", "err", err)
		return exitUsage
	}

	report, err := lint.Run(ctx, graph, lint.Options{File: file, Logger: logger, Workers: *workers})
	if err != nil {
		logger.Error("checking contracts", "err", err)
		return exitUsage
	}

	for _, d := range report.Diagnostics.All() {
		fmt.Fprintf(stdout, "%s: %s\n", d.Severity, d)
	}

	if *dump {
		cfg := spew.ConfigState{
			Indent:                  "  ",
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		}
		cfg.Fdump(stdout, report.Contracts)
	}

	if report.Diagnostics.HasErrors() {
		return exitLint
	}

	return exitOK
}
