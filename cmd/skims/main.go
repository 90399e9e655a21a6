// SPDX-License-Identifier: MIT

// Command skims computes a generalised-cost skim matrix from a GTFS feed.
//
//	skims run [-output dir] <config.yml>
//	skims -version
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/katalvlaran/skims/config"
	"github.com/katalvlaran/skims/logging"
)

var version = "dev"

var errUsage = errors.New("usage: skims run [-output dir] <config.yml>")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := flag.NewFlagSet("skims", flag.ContinueOnError)
	root.SetOutput(stderr)
	showVersion := root.Bool("version", false, "print the version and exit")
	if err := root.Parse(args); err != nil {
		return 2
	}
	if *showVersion {
		fmt.Fprintf(stdout, "skims %s\n", version)
		return 0
	}
	if root.NArg() == 0 || root.Arg(0) != "run" {
		fmt.Fprintln(stderr, errUsage)
		return 2
	}

	cmd := flag.NewFlagSet("run", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	output := cmd.String("output", "", "override paths.path_outputs")
	if err := cmd.Parse(root.Args()[1:]); err != nil {
		return 2
	}
	if cmd.NArg() == 0 {
		fmt.Fprintln(stderr, errUsage)
		return 2
	}
	path := cmd.Arg(0)
	// flags may also follow the config path
	if err := cmd.Parse(cmd.Args()[1:]); err != nil {
		return 2
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}
	if *output != "" {
		cfg.Paths.Outputs = *output
	}
	if err = os.MkdirAll(cfg.Paths.Outputs, 0o755); err != nil {
		fmt.Fprintf(stderr, "failed to create output directory: %v\n", err)
		return 1
	}

	logger, closeLog, err := logging.New(cfg.Logging, cfg.Paths.Outputs)
	if err != nil {
		fmt.Fprintf(stderr, "failed to open log: %v\n", err)
		return 1
	}
	defer closeLog()
	logger = logger.With("component", "skims")

	if err = newPipeline(cfg, logger).run(ctx); err != nil {
		logger.Error("run failed", "error", err)
		return 1
	}
	return 0
}
