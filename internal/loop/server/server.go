// Package server drives one breakout game at a fixed cadence. It owns the
// simulation, turns queued commands into input calls at tick boundaries, and
// publishes immutable frames for the client to draw. Persistence runs on a
// separate worker so the tick path never blocks on disk.
package server

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/breakout/internal/loop/config"
	"github.com/tomz197/breakout/internal/loop/game"
	"github.com/tomz197/breakout/internal/object"
	"github.com/tomz197/breakout/internal/store"
)

const (
	bannerDuration = 2 * time.Second
	noticeDuration = 3 * time.Second
)

// Command is a discrete player action.
type Command uint8

const (
	CmdMoveLeft Command = iota
	CmdMoveRight
	CmdStart
	CmdPause
	CmdCheatPaddleSpeed
	CmdCheatBallSpeed
	CmdCheatPaddleSize
	CmdSave
	CmdRestart

	cmdSelectLevel Command = 100 // + level number
)

// LevelCommand selects the starting level of a game that has not started yet.
func LevelCommand(level int) Command {
	return cmdSelectLevel + Command(max(level, 0))
}

// Leaderboard stores finished games.
type Leaderboard interface {
	Append(r store.Record) error
	Top(n int) ([]store.Record, error)
}

// SaveStore keeps a snapshot of a running game.
type SaveStore interface {
	Save(snap game.Snapshot) error
}

// GameServer is the interface clients use to drive a game.
type GameServer interface {
	Send(cmd Command) bool
	Frame() *Frame
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// Options configures a Server. Nil stores disable the matching feature.
type Options struct {
	Game        game.Options
	Leaderboard Leaderboard
	Saves       SaveStore
	Logger      *log.Logger
	TopN        int
}

// job is a unit of work for the persistence worker.
type job struct {
	record *game.Record
	snap   *game.Snapshot
}

type notice struct {
	text  string
	until time.Time
}

// Server runs a single simulation.
type Server struct {
	cfg      config.Config
	opts     Options
	log      *log.Logger
	sim      *game.Simulation
	scene    *scene
	commands chan Command
	jobs     chan job
	frame    atomic.Pointer[Frame]
	top      atomic.Pointer[[]store.Record]
	notice   atomic.Pointer[notice]

	restarts    uint64
	final       *game.Record
	banner      int
	bannerUntil object.Tick
}

// NewServer wraps sim. When sim is nil a fresh game is created from opts.Game.
func NewServer(cfg config.Config, sim *game.Simulation, opts Options) *Server {
	if sim == nil {
		sim = game.New(cfg, opts.Game)
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.TopN <= 0 {
		opts.TopN = config.LeaderboardSize
	}

	s := &Server{
		cfg:      cfg,
		opts:     opts,
		log:      opts.Logger.With("player", sim.Player()),
		sim:      sim,
		scene:    newScene(sim.Scene()),
		commands: make(chan Command, 256),
		jobs:     make(chan job, 16),
	}
	s.publish()
	return s
}

// Run drives the game until ctx is cancelled. Pending persistence work is
// finished before Run returns.
func (s *Server) Run(ctx context.Context) error {
	s.refreshLeaderboard()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(s.jobs)
		return s.tickLoop(ctx)
	})
	g.Go(s.persistLoop)
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Send queues a command for the next tick. It never blocks; a full queue drops the command.
func (s *Server) Send(cmd Command) bool {
	select {
	case s.commands <- cmd:
		return true
	default:
		return false
	}
}

// Frame returns the latest published frame.
func (s *Server) Frame() *Frame {
	return s.frame.Load()
}

func (s *Server) tickLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Tick.Period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		s.collectCommands()
		r := s.sim.Tick()
		s.scene.apply(r.Render)

		if r.LevelCleared {
			s.banner = r.Level
			s.bannerUntil = r.Tick + object.TicksFor(bannerDuration, s.cfg.Tick.Period)
			s.log.Info("level cleared", "level", r.Level)
		}
		if r.GameOver != nil {
			s.final = r.GameOver
			s.log.Info("game over", "score", r.GameOver.Score, "level", r.Level)
			s.enqueue(job{record: r.GameOver})
		}
		s.publish()
	}
}

// collectCommands applies every queued command to the simulation.
func (s *Server) collectCommands() {
	for {
		select {
		case cmd := <-s.commands:
			s.apply(cmd)
		default:
			return
		}
	}
}

func (s *Server) apply(cmd Command) {
	switch cmd {
	case CmdMoveLeft:
		s.sim.MoveLeft()
	case CmdMoveRight:
		s.sim.MoveRight()
	case CmdStart:
		s.sim.Start()
	case CmdPause:
		s.sim.TogglePause()
	case CmdCheatPaddleSpeed:
		s.sim.Cheat(game.CheatPaddleSpeed)
	case CmdCheatBallSpeed:
		s.sim.Cheat(game.CheatBallSpeed)
	case CmdCheatPaddleSize:
		s.sim.Cheat(game.CheatPaddleSize)
	case CmdSave:
		s.save()
	case CmdRestart:
		s.restart()
	default:
		if cmd > cmdSelectLevel {
			s.selectLevel(int(cmd - cmdSelectLevel))
		}
	}
}

// selectLevel rebuilds a game that is still waiting at the start prompt.
func (s *Server) selectLevel(level int) {
	if s.sim.Started() || s.sim.Over() || level > s.cfg.Level.MaxStartLevel {
		return
	}
	s.opts.Game.StartLevel = level
	s.opts.Game.PlayerName = s.sim.Player()
	s.sim = game.New(s.cfg, s.opts.Game)
	s.scene.reset(s.sim.Scene())
	s.log.Debug("start level selected", "level", level)
}

// save pauses the game and hands a snapshot to the persistence worker.
func (s *Server) save() {
	if s.opts.Saves == nil || s.sim.Over() {
		return
	}
	if s.sim.Started() && !s.sim.Paused() {
		s.sim.TogglePause()
	}
	snap, err := s.sim.Snapshot()
	if err != nil {
		s.log.Error("snapshot failed", "err", err)
		s.setNotice("Save failed")
		return
	}
	s.enqueue(job{snap: &snap})
}

// restart replaces a finished game with a new one.
func (s *Server) restart() {
	if !s.sim.Over() {
		return
	}
	s.restarts++
	opts := s.opts.Game
	opts.Seed += s.restarts
	s.sim = game.New(s.cfg, opts)
	s.scene.reset(s.sim.Scene())
	s.final = nil
	s.banner = 0
	s.log.Info("game restarted")
}

func (s *Server) enqueue(j job) {
	select {
	case s.jobs <- j:
	default:
		s.log.Warn("persistence queue full, dropping job")
	}
}

// persistLoop writes records and saves until the job queue is closed.
func (s *Server) persistLoop() error {
	for j := range s.jobs {
		switch {
		case j.record != nil:
			s.persistRecord(*j.record)
		case j.snap != nil:
			s.persistSnapshot(*j.snap)
		}
	}
	return nil
}

func (s *Server) persistRecord(r game.Record) {
	if s.opts.Leaderboard == nil {
		return
	}
	if err := s.opts.Leaderboard.Append(store.Record{Name: r.Name, Score: r.Score}); err != nil {
		s.log.Error("leaderboard append failed", "err", err)
		return
	}
	s.log.Debug("leaderboard updated", "score", r.Score)
	s.refreshLeaderboard()
}

func (s *Server) persistSnapshot(snap game.Snapshot) {
	if err := s.opts.Saves.Save(snap); err != nil {
		s.log.Error("save failed", "err", err)
		s.setNotice("Save failed")
		return
	}
	s.log.Info("game saved", "level", snap.Level, "score", snap.Score)
	s.setNotice("Game saved")
}

func (s *Server) refreshLeaderboard() {
	if s.opts.Leaderboard == nil {
		return
	}
	top, err := s.opts.Leaderboard.Top(s.opts.TopN)
	if err != nil {
		s.log.Error("leaderboard read failed", "err", err)
		return
	}
	s.top.Store(&top)
}

func (s *Server) setNotice(text string) {
	s.notice.Store(&notice{text: text, until: time.Now().Add(noticeDuration)})
}

// publish stores a fresh frame for readers.
func (s *Server) publish() {
	f := &Frame{
		Tick:     s.sim.Now(),
		Field:    object.Field{Width: s.cfg.Field.Width, Height: s.cfg.Field.Height},
		Player:   s.sim.Player(),
		Score:    s.sim.Score(),
		Level:    s.sim.Level(),
		MaxLevel: s.cfg.Level.MaxStartLevel,
		Started:  s.sim.Started(),
		Paused:   s.sim.Paused(),
		GameOver: s.sim.Over(),
		Final:    s.final,
		Sprites:  s.scene.ordered(),
	}
	if s.banner > 0 && f.Tick < s.bannerUntil {
		f.Banner = s.banner
	}
	if n := s.notice.Load(); n != nil && time.Now().Before(n.until) {
		f.Notice = n.text
	}
	if top := s.top.Load(); top != nil {
		f.Leaderboard = *top
	}
	s.frame.Store(f)
}
