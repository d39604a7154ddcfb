package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/breakout/internal/config"
	"github.com/tomz197/breakout/internal/loop/client"
	gameconfig "github.com/tomz197/breakout/internal/loop/config"
	"github.com/tomz197/breakout/internal/loop/game"
	"github.com/tomz197/breakout/internal/loop/server"
	"github.com/tomz197/breakout/internal/store"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "breakout"})
	if level, err := log.ParseLevel(config.GetEnv("BREAKOUT_LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(level)
	}

	if err := run(logger); err != nil {
		logger.SetOutput(os.Stderr)
		logger.Error("game error", "err", err)
		os.Exit(1)
	}
}

func run(logger *log.Logger) error {
	cfg, err := gameconfig.Load(config.GetEnv("BREAKOUT_CONFIG", ""))
	if err != nil {
		return err
	}

	opts := game.Options{
		PlayerName: config.GetEnv("BREAKOUT_PLAYER", config.GetEnv("USER", "player")),
		StartLevel: config.GetEnvInt("BREAKOUT_START_LEVEL", 1),
		Seed:       config.GetEnvUint64("BREAKOUT_SEED", uint64(time.Now().UnixNano())),
	}

	var sim *game.Simulation
	if path := config.GetEnv("BREAKOUT_LOAD", ""); path != "" {
		snap, err := store.NewSaveFile(path).Load()
		if err != nil {
			return err
		}
		if sim, err = game.Restore(cfg, snap); err != nil {
			return fmt.Errorf("restore %s: %w", path, err)
		}
		logger.Info("loaded save", "path", path, "level", snap.Level, "score", snap.Score)
	}

	// The terminal belongs to the game from here on; logs go to a file or nowhere.
	logFile, err := openLog(config.GetEnv("BREAKOUT_LOG_FILE", ""))
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger.SetOutput(logFile)

	srv := server.NewServer(cfg, sim, server.Options{
		Game:        opts,
		Leaderboard: store.NewLeaderboard(config.GetEnv("BREAKOUT_SCORES", "score.txt")),
		Saves:       store.NewSaveFile(config.GetEnv("BREAKOUT_SAVE", "save.bin")),
		Logger:      logger,
	})

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	c := client.NewClient(srv, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{})
	clientErr := c.Run(ctx)

	// Stopping the server flushes pending leaderboard and save writes.
	cancel()
	if err := <-done; err != nil {
		return err
	}
	return clientErr
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func openLog(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{io.Discard}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return f, nil
}
