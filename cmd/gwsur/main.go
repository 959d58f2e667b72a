// SPDX-License-Identifier: MIT

// Command gwsur builds, stores, evaluates and serves reduced-basis waveform
// surrogates.
//
// Usage:
//
//	gwsur build   -name q12 [-lo 1 -hi 2 -n 201 -seed 1 -noise 0 -trim 0]
//	gwsur eval    -name q12 -q 1.5 [-phi 0 -mass 60 -dist 400 -flow 0 -extrapolate]
//	gwsur timer   -name q12 [-n 1000 -seed 1]
//	gwsur export  -name q12 [-out q12.json]
//	gwsur import  -name q12 -in q12.json
//	gwsur diff    -a q12 -b q12-old
//	gwsur history [-name q12 -n 10]
//	gwsur list
//	gwsur serve
//
// Settings come from the environment (and .env); see package config.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/katalvlaran/gwsur/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// command is one subcommand.
type command func(ctx context.Context, env *env, args []string) error

var commands = map[string]command{
	"build":   cmdBuild,
	"eval":    cmdEval,
	"timer":   cmdTimer,
	"export":  cmdExport,
	"import":  cmdImport,
	"diff":    cmdDiff,
	"history": cmdHistory,
	"list":    cmdList,
	"serve":   cmdServe,
}

// env is what every subcommand shares.
type env struct {
	cfg    *config.Config
	log    *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "gwsur: unknown command %q\n", args[0])
		usage(stderr)
		return 2
	}

	cfg := config.Load()
	logger := cfg.InitLogger(stderr)
	shutdown, err := cfg.InitTracing(ctx)
	if err != nil {
		logger.Error("tracing init failed", slog.Any("error", err))
		return 1
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error("tracing shutdown failed", slog.Any("error", err))
		}
	}()

	if err := cmd(ctx, &env{cfg: cfg, log: logger, stdout: stdout, stderr: stderr}, args[1:]); err != nil {
		logger.Error("command failed", slog.String("command", args[0]), slog.Any("error", err))
		return 1
	}

	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: gwsur <build|eval|timer|export|import|diff|history|list|serve> [flags]")
}
