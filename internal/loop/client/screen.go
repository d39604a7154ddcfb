package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomz197/breakout/internal/draw"
	"github.com/tomz197/breakout/internal/loop/config"
	"github.com/tomz197/breakout/internal/loop/server"
	"github.com/tomz197/breakout/internal/object"
)

var colours = map[object.Colour]draw.Color{
	object.ColourWhite:  draw.ColorWhite,
	object.ColourGreen:  draw.ColorGreen,
	object.ColourOrange: draw.ColorOrange,
	object.ColourRed:    draw.ColorRed,
	object.ColourBlue:   draw.ColorBlue,
}

var powerUpGlyphs = map[object.PowerUpKind]rune{
	object.MultipleBalls: 'M',
	object.SlowMotion:    'S',
	object.ShrinkPaddle:  'P',
	object.SpeedUpBall:   'F',
}

// drawFrame draws the latest frame.
func (c *Client) drawFrame() error {
	f := c.server.Frame()
	phase := c.state.phaseOf(f)

	// Full clear on phase or inactivity transitions so stale overlays vanish.
	if phase != c.state.prevPhase || c.state.isInactive != c.state.wasInactive {
		c.chunkWriter.ClearScreen()
		c.canvas.ForceRedraw()
		c.state.prevPhase = phase
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()
	switch {
	case phase == PhaseBoss:
		c.drawBossScreen()
	case c.state.isInactive:
		c.drawInactivityScreen()
	default:
		c.drawSprites(f.Sprites)
		c.drawHUD(f)
		c.drawOverlay(phase, f)
	}

	c.canvas.Render(c.chunkWriter)
	return c.chunkWriter.Flush()
}

func (c *Client) drawSprites(sprites []server.Sprite) {
	for _, sp := range sprites {
		fg := colours[sp.Colour]
		switch sp.Kind {
		case object.KindBlock:
			c.canvas.FillRect(sp.X0, sp.Y0, sp.X1, sp.Y1, draw.BlockFull, fg)
		case object.KindMovingBlock:
			c.canvas.FillRect(sp.X0, sp.Y0, sp.X1, sp.Y1, draw.BlockDark, fg)
		case object.KindPaddle:
			c.canvas.FillRect(sp.X0, sp.Y0, sp.X1, sp.Y1, draw.BlockUpperHalf, fg)
		case object.KindPowerUp:
			c.canvas.FillRect(sp.X0, sp.Y0, sp.X1, sp.Y1, draw.BlockLight, draw.ColorCyan)
			c.canvas.Point((sp.X0+sp.X1)/2, (sp.Y0+sp.Y1)/2, powerUpGlyphs[sp.PowerUp], draw.ColorMagenta)
		case object.KindBall:
			c.canvas.Point((sp.X0+sp.X1)/2, (sp.Y0+sp.Y1)/2, draw.Ball, fg)
		}
	}
}

// drawHUD draws score and level on the top row and notices on the bottom row.
func (c *Client) drawHUD(f *server.Frame) {
	width := c.canvas.TerminalWidth()
	bottom := c.canvas.TerminalHeight() - 1

	c.canvas.Text(1, 0, fmt.Sprintf("Score: %d", f.Score), draw.ColorWhite)
	level := fmt.Sprintf("Level: %d", f.Level)
	c.canvas.Text(width-len(level)-1, 0, level, draw.ColorWhite)
	if name := displayName(f.Player); name != "" {
		c.canvas.TextCentered(0, name, draw.ColorGray)
	}
	if f.Notice != "" {
		c.canvas.Text(1, bottom, f.Notice, draw.ColorGreen)
	}
}

func (c *Client) drawOverlay(phase Phase, f *server.Frame) {
	switch phase {
	case PhaseStart:
		c.drawStartScreen(f)
	case PhasePaused:
		c.drawPausedScreen()
	case PhaseOver:
		c.drawGameOverScreen(f)
	case PhasePlaying:
		if f.Banner > 0 {
			c.drawLines(draw.ColorWhite, fmt.Sprintf("LEVEL %d", f.Banner))
		}
	}
}

// drawLines draws a framed box with the given lines centered inside it.
func (c *Client) drawLines(fg draw.Color, lines ...string) {
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	col, row := c.canvas.Box(width+4, len(lines)+2, fg)
	for i, l := range lines {
		pad := (width - len([]rune(l))) / 2
		c.canvas.Text(col+1+pad, row+i, l, fg)
	}
}

func (c *Client) drawStartScreen(f *server.Frame) {
	prompt := ""
	if time.Now().UnixMilli()/600%2 == 0 {
		prompt = ">>  Press ENTER to Start  <<"
	}
	lines := []string{
		"B R E A K O U T",
		"",
		"A D / < >  . . . .  Move",
		"SPACE / P  . . . . Pause",
		"V  . . . . . . . . . Save",
		"B  . . . . . . . Boss key",
		"Q  . . . . . . . . . Quit",
		"",
	}
	if f.MaxLevel > 1 {
		lines = append(lines, fmt.Sprintf("Level %d  (press 1-%d to change)", f.Level, f.MaxLevel), "")
	}
	c.drawLines(draw.ColorWhite, append(lines, prompt)...)
}

func (c *Client) drawPausedScreen() {
	c.drawLines(draw.ColorWhite, "PAUSED", "", "Press SPACE to resume", "Press V to save")
}

func (c *Client) drawGameOverScreen(f *server.Frame) {
	lines := []string{"GAME OVER", ""}
	if f.Final != nil {
		lines = append(lines, fmt.Sprintf("%s scored %d", displayName(f.Final.Name), f.Final.Score), "")
	}
	if len(f.Leaderboard) > 0 {
		lines = append(lines, "High scores")
		for i, r := range f.Leaderboard {
			lines = append(lines, fmt.Sprintf("%d. %-*s %6d", i+1, config.MaxUsernameLength, displayName(r.Name), r.Score))
		}
		lines = append(lines, "")
	}
	lines = append(lines, "ENTER to play again, Q to quit")
	c.drawLines(draw.ColorRed, lines...)
}

// drawBossScreen covers the game with something that looks like work.
func (c *Client) drawBossScreen() {
	fg := draw.ColorGray
	c.canvas.Text(0, 0, "$ tail -f /var/log/build.log", fg)
	for row := 1; row < c.canvas.TerminalHeight()-1; row++ {
		line := fmt.Sprintf("[%04d] compiling module %02d/%02d ... ok", 1200+row*7, row, c.canvas.TerminalHeight())
		c.canvas.Text(0, row, line, fg)
	}
	c.canvas.Text(0, c.canvas.TerminalHeight()-1, "$ ", fg)
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen() {
	remaining := int(config.InactivityDisconnectUser - time.Since(c.lastInput).Seconds())
	c.drawLines(draw.ColorOrange,
		"INACTIVITY WARNING",
		"",
		fmt.Sprintf("You will be disconnected in %d seconds.", max(remaining, 0)),
		"",
		"Press any key to continue",
	)
}

// displayName shortens a player name to the display limit.
func displayName(name string) string {
	name = strings.TrimSpace(name)
	if r := []rune(name); len(r) > config.MaxUsernameLength {
		return string(r[:config.MaxUsernameLength])
	}
	return name
}
