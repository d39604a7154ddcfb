package client

import (
	"bufio"
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/breakout/internal/input"
	"github.com/tomz197/breakout/internal/loop/config"
	"github.com/tomz197/breakout/internal/loop/game"
	"github.com/tomz197/breakout/internal/loop/server"
	"github.com/tomz197/breakout/internal/object"
	"github.com/tomz197/breakout/internal/store"
)

type fakeServer struct {
	mu    sync.Mutex
	frame *server.Frame
	sent  []server.Command
}

func (s *fakeServer) Send(cmd server.Command) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, cmd)
	return true
}

func (s *fakeServer) Frame() *server.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

func newFrame() *server.Frame {
	return &server.Frame{
		Field:    object.Field{Width: config.FieldWidth, Height: config.FieldHeight},
		Player:   "alice",
		Level:    1,
		MaxLevel: 3,
	}
}

func newTestClient(t *testing.T, f *server.Frame) (*Client, *fakeServer, *bytes.Buffer) {
	t.Helper()
	gs := &fakeServer{frame: f}
	var out bytes.Buffer
	c := NewClient(gs, bufio.NewReader(strings.NewReader("")), &out, ClientOptions{
		TermSizeFunc: func() (int, int, error) { return 128, 36, nil },
	})
	return c, gs, &out
}

func TestStartPhaseCommands(t *testing.T) {
	c, _, _ := newTestClient(t, newFrame())
	f := newFrame()

	cmds := c.commands(f, input.Input{Number: 2, Enter: true})
	assert.Equal(t, []server.Command{server.LevelCommand(2), server.CmdStart}, cmds)

	assert.Empty(t, c.commands(f, input.Input{Number: 7}), "level out of range")
	assert.Empty(t, c.commands(f, input.Input{Number: -1, Left: true}), "paddle is frozen at the prompt")
}

func TestPlayingPhaseCommands(t *testing.T) {
	c, _, _ := newTestClient(t, newFrame())
	f := newFrame()
	f.Started = true

	cmds := c.commands(f, input.Input{Number: -1, Left: true, CheatBallSpeed: true, Save: true})
	assert.Equal(t, []server.Command{server.CmdMoveLeft, server.CmdCheatBallSpeed, server.CmdSave}, cmds)

	cmds = c.commands(f, input.Input{Number: 3, Pause: true})
	assert.Equal(t, []server.Command{server.CmdPause}, cmds)
}

func TestPausedPhaseIgnoresMovement(t *testing.T) {
	c, _, _ := newTestClient(t, newFrame())
	f := newFrame()
	f.Started, f.Paused = true, true

	cmds := c.commands(f, input.Input{Number: -1, Right: true, Pause: true})
	assert.Equal(t, []server.Command{server.CmdPause}, cmds)
}

func TestGameOverEnterRestarts(t *testing.T) {
	c, _, _ := newTestClient(t, newFrame())
	f := newFrame()
	f.Started, f.GameOver = true, true

	assert.Equal(t, []server.Command{server.CmdRestart}, c.commands(f, input.Input{Number: -1, Enter: true}))
	assert.Empty(t, c.commands(f, input.Input{Number: -1, Save: true}))
}

func TestBossKeyPausesAndBlocksInput(t *testing.T) {
	c, _, _ := newTestClient(t, newFrame())
	f := newFrame()
	f.Started = true

	assert.Equal(t, []server.Command{server.CmdPause}, c.commands(f, input.Input{Number: -1, Boss: true}))
	require.True(t, c.state.Boss)

	f.Paused = true
	assert.Empty(t, c.commands(f, input.Input{Number: -1, Pause: true, Left: true}))

	// Leaving the boss screen leaves the game paused.
	assert.Empty(t, c.commands(f, input.Input{Number: -1, Boss: true}))
	assert.False(t, c.state.Boss)
	assert.Equal(t, PhasePaused, c.state.phaseOf(f))
}

func TestDrawFrameShowsHUDAndSprites(t *testing.T) {
	f := newFrame()
	f.Started = true
	f.Score = 42
	f.Sprites = []server.Sprite{
		{Kind: object.KindBlock, X0: 0, Y0: 80, X1: 213, Y1: 160, Colour: object.ColourGreen},
		{Kind: object.KindBall, X0: 630, Y0: 630, X1: 650, Y1: 650, Colour: object.ColourWhite},
	}
	c, _, out := newTestClient(t, f)

	require.NoError(t, c.drawFrame())

	s := out.String()
	assert.Contains(t, s, "Score: 42")
	assert.Contains(t, s, "Level: 1")
	assert.Contains(t, s, "alice")
	assert.Contains(t, s, "█")
	assert.Contains(t, s, "●")
	assert.Equal(t, PhasePlaying, c.state.prevPhase)
}

func TestDrawGameOverListsLeaderboard(t *testing.T) {
	f := newFrame()
	f.Started, f.GameOver = true, true
	f.Final = &game.Record{Name: "alice", Score: 7}
	f.Leaderboard = []store.Record{{Name: "bob", Score: 12}, {Name: "alice", Score: 7}}
	c, _, out := newTestClient(t, f)

	require.NoError(t, c.drawFrame())

	s := out.String()
	assert.Contains(t, s, "GAME OVER")
	assert.Contains(t, s, "alice scored 7")
	assert.Contains(t, s, "1. bob")
	assert.Contains(t, s, "2. alice")
}

func TestClampTermSize(t *testing.T) {
	w, h, col, row := clampTermSize(200, 60)
	assert.Equal(t, config.MaxTermWidth, w)
	assert.Equal(t, config.MaxTermHeight, h)
	assert.Equal(t, 20, col)
	assert.Equal(t, 6, row)

	w, h, col, row = clampTermSize(80, 24)
	assert.Equal(t, []int{80, 24, 0, 0}, []int{w, h, col, row})
}

func TestDisplayNameTruncates(t *testing.T) {
	assert.Equal(t, "bob", displayName("  bob "))
	assert.Len(t, []rune(displayName(strings.Repeat("x", 40))), config.MaxUsernameLength)
}
