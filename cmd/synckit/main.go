package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	// import all targets so their registrations run
	_ "github.com/notewell/synckit/target/all"
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(logger, level).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
