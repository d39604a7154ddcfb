package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/breakout/internal/config"
	"github.com/tomz197/breakout/internal/draw"
	"github.com/tomz197/breakout/internal/loop/client"
	gameconfig "github.com/tomz197/breakout/internal/loop/config"
	"github.com/tomz197/breakout/internal/loop/game"
	"github.com/tomz197/breakout/internal/loop/server"
	"github.com/tomz197/breakout/internal/store"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultSaveDir     = "saves"
	defaultScoresPath  = "score.txt"
)

// host holds what every session shares: tuning, the leaderboard and the
// shutdown signal. Each session gets its own simulation and server.
type host struct {
	cfg        gameconfig.Config
	scores     *store.Leaderboard
	saveDir    string
	startLevel int
	log        *log.Logger
	root       context.Context
	sessions   sync.WaitGroup
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "ssh"})
	if level, err := log.ParseLevel(config.GetEnv("BREAKOUT_LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(level)
	}

	addr := net.JoinHostPort(config.GetEnv("SSH_HOST", defaultHost), config.GetEnv("SSH_PORT", defaultPort))
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)

	cfg, err := gameconfig.Load(config.GetEnv("BREAKOUT_CONFIG", ""))
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}

	saveDir := config.GetEnv("SSH_SAVE_DIR", defaultSaveDir)
	if err := os.MkdirAll(saveDir, 0o755); err != nil {
		logger.Fatal("failed to create save dir", "dir", saveDir, "err", err)
	}

	root, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := &host{
		cfg:        cfg,
		scores:     store.NewLeaderboard(config.GetEnv("BREAKOUT_SCORES", defaultScoresPath)),
		saveDir:    saveDir,
		startLevel: config.GetEnvInt("BREAKOUT_START_LEVEL", 1),
		log:        logger,
		root:       root,
	}
	logger.Info("ssh config", "addr", addr, "hostKey", hostKeyPath, "scores", h.scores.Path(), "saves", saveDir)

	opts := []ssh.Option{
		wish.WithAddress(addr),
		wish.WithMiddleware(
			h.gameMiddleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting ssh server", "addr", addr)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down")

	// End every game so pending scores and saves are written before exit.
	cancel()
	h.sessions.Wait()

	ctx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameMiddleware runs one game for the session's user.
func (h *host) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		h.sessions.Add(1)
		defer h.sessions.Done()

		user := sess.User()
		logger := h.log.With("user", user)
		logger.Info("new game session", "terminal", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		ctx, cancel := context.WithCancel(sess.Context())
		defer cancel()
		stopOnShutdown := context.AfterFunc(h.root, cancel)
		defer stopOnShutdown()

		saves := store.NewSaveFile(filepath.Join(h.saveDir, saveName(user)))
		srv := server.NewServer(h.cfg, h.resume(saves, logger), server.Options{
			Game: game.Options{
				PlayerName: user,
				StartLevel: h.startLevel,
				Seed:       uint64(time.Now().UnixNano()),
			},
			Leaderboard: h.scores,
			Saves:       saves,
			Logger:      logger,
		})

		done := make(chan error, 1)
		go func() { done <- srv.Run(ctx) }()

		c := client.NewClient(srv, bufio.NewReader(sess), sess, client.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
		})
		if err := c.Run(ctx); err != nil {
			logger.Error("game error", "err", err)
		}

		cancel()
		if err := <-done; err != nil {
			logger.Error("server error", "err", err)
		}

		logger.Info("session ended")
		next(sess)
	}
}

// resume loads and consumes the user's save. It returns nil when there is
// nothing usable, which starts a new game.
func (h *host) resume(saves *store.SaveFile, logger *log.Logger) *game.Simulation {
	if !saves.Exists() {
		return nil
	}
	snap, err := saves.Load()
	if err != nil {
		logger.Warn("ignoring unreadable save", "path", saves.Path(), "err", err)
		return nil
	}
	sim, err := game.Restore(h.cfg, snap)
	if err != nil {
		logger.Warn("ignoring invalid save", "path", saves.Path(), "err", err)
		return nil
	}
	if err := saves.Remove(); err != nil {
		logger.Warn("could not remove save", "err", err)
	}
	logger.Info("resumed saved game", "level", snap.Level, "score", snap.Score)
	return sim
}

// saveName maps a user name to a safe file name.
func saveName(user string) string {
	var b strings.Builder
	for _, r := range user {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
		if b.Len() >= 64 {
			break
		}
	}
	if b.Len() == 0 {
		b.WriteString("anonymous")
	}
	return b.String() + ".save"
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
