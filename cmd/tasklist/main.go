package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/cli"
	"github.com/sandeepkv93/tasklist/internal/config"
	"github.com/sandeepkv93/tasklist/internal/exitcode"
	"github.com/sandeepkv93/tasklist/internal/logging"
	"github.com/sandeepkv93/tasklist/internal/service"
	"github.com/sandeepkv93/tasklist/internal/update"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cli.IsHelp(args) {
		return cli.Run(ctx, nil, args, os.Stdout, os.Stderr)
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "tasklist: %v\n", err)
		return exitcode.UserError
	}
	cfg := config.RuntimeConfigFromEnv(config.DefaultRuntimeConfig())

	logger, closer, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tasklist: %v\n", err)
		return exitcode.UserError
	}
	defer closer.Close()

	mgr, err := service.Open(ctx, cfg.DBPath, service.WithLogger(logger))
	if err != nil {
		logger.Error("open store", "path", cfg.DBPath, "err", err)
		fmt.Fprintf(os.Stderr, "tasklist: %v\n", err)
		return exitcode.StoreError
	}
	defer func() {
		if err := mgr.Close(); err != nil {
			logger.Error("close store", "err", err)
		}
	}()

	if len(args) > 0 {
		return cli.Run(ctx, mgr, args, os.Stdout, os.Stderr)
	}

	logger.Info("starting list view", "db", cfg.DBPath)
	program := tea.NewProgram(update.NewModel(ctx, mgr, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		logger.Error("list view failed", "err", err)
		fmt.Fprintf(os.Stderr, "tasklist failed: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
