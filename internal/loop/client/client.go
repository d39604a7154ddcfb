// Package client is the terminal presentation host: it turns key presses into
// server commands and draws published frames.
package client

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/tomz197/breakout/internal/draw"
	"github.com/tomz197/breakout/internal/input"
	"github.com/tomz197/breakout/internal/loop/config"
	"github.com/tomz197/breakout/internal/loop/server"
)

// Client handles rendering and input for a single terminal.
type Client struct {
	server       server.GameServer
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
}

// NewClient creates a client bound to gs.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	f := gs.Frame()
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	return &Client{
		server:       gs,
		state:        NewClientState(),
		canvas:       draw.NewScaledCanvas(renderWidth, renderHeight, f.Field.Width, f.Field.Height),
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    time.Now(),
		termSizeFunc: termSizeFunc,
	}
}

// Run starts the client loop. Blocks until the player quits, goes inactive
// for too long, or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	for c.state.Running {
		frameStart := time.Now()

		select {
		case <-ctx.Done():
			c.state.Running = false
			continue
		default:
		}

		c.processInput()
		c.updateScreen()

		if err := c.drawFrame(); err != nil {
			return err
		}

		if elapsed := time.Since(frameStart); elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads input and forwards the resulting commands to the server.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	idle := time.Since(c.lastInput).Seconds()
	switch {
	case len(c.state.Input.Pressed) > 0:
		c.lastInput = time.Now()
		c.state.isInactive = false
	case idle > config.InactivityDisconnectUser:
		c.state.Running = false
	case idle > config.InactivityWarnUser:
		c.state.isInactive = true
	}

	if c.state.Input.Quit {
		c.state.Running = false
		return
	}

	for _, cmd := range c.commands(c.server.Frame(), c.state.Input) {
		c.server.Send(cmd)
	}
}

// commands maps one frame of input to server commands for the current phase.
func (c *Client) commands(f *server.Frame, in input.Input) []server.Command {
	var out []server.Command

	if in.Boss {
		c.state.Boss = !c.state.Boss
		if c.state.Boss && f.Started && !f.Paused && !f.GameOver {
			out = append(out, server.CmdPause)
		}
		return out
	}

	switch c.state.phaseOf(f) {
	case PhaseBoss:
		return nil
	case PhaseOver:
		if in.Enter {
			out = append(out, server.CmdRestart)
		}
		return out
	case PhaseStart:
		if in.Number >= 1 && in.Number <= f.MaxLevel {
			out = append(out, server.LevelCommand(in.Number))
		}
		if in.Enter {
			out = append(out, server.CmdStart)
		}
	case PhasePaused:
		if in.Pause {
			out = append(out, server.CmdPause)
		}
	case PhasePlaying:
		if in.Pause {
			out = append(out, server.CmdPause)
		}
		if in.Left {
			out = append(out, server.CmdMoveLeft)
		}
		if in.Right {
			out = append(out, server.CmdMoveRight)
		}
		if in.CheatPaddleSpeed {
			out = append(out, server.CmdCheatPaddleSpeed)
		}
		if in.CheatBallSpeed {
			out = append(out, server.CmdCheatBallSpeed)
		}
		if in.CheatPaddleSize {
			out = append(out, server.CmdCheatPaddleSize)
		}
	}

	if in.Save {
		out = append(out, server.CmdSave)
	}
	return out
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual cells
// outside the new canvas area.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() {
		draw.ClearScreen(c.writer)
		c.canvas.Resize(renderWidth, renderHeight)
	}
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = max((termWidth-renderWidth)/2, 0)
	offsetRow = max((termHeight-renderHeight)/2, 0)
	return
}
