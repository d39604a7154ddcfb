// Package draw renders a colored cell canvas to an ANSI terminal.
package draw

import (
	"math"
	"unicode/utf8"
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockDark      = '▓'
	BlockMedium    = '▒'
	BlockLight     = '░'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
	Ball           = '●'
	Empty          = ' '
)

// Color is a terminal foreground color.
type Color uint8

const (
	ColorDefault Color = iota
	ColorWhite
	ColorGreen
	ColorOrange
	ColorRed
	ColorBlue
	ColorCyan
	ColorMagenta
	ColorGray
)

var colorCodes = [...]string{
	ColorDefault: "\033[0m",
	ColorWhite:   "\033[97m",
	ColorGreen:   "\033[32m",
	ColorOrange:  "\033[38;5;208m",
	ColorRed:     "\033[31m",
	ColorBlue:    "\033[94m",
	ColorCyan:    "\033[36m",
	ColorMagenta: "\033[35m",
	ColorGray:    "\033[90m",
}

// Cell is one terminal character.
type Cell struct {
	Ch rune
	Fg Color
}

var blank = Cell{Ch: Empty}

// Canvas is a grid of cells covering a logical coordinate space.
// Render only writes the cells that changed since the previous render.
type Canvas struct {
	cols, rows int
	cells      []Cell // Flat slice: [row * cols + col]
	prev       []Cell // What the terminal currently shows
	force      bool

	// Scaling from logical to cell coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // cols / logicalWidth
	scaleY        float64 // rows / logicalHeight
}

// NewScaledCanvas creates a canvas of cols x rows cells mapping the given logical area.
func NewScaledCanvas(cols, rows int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{logicalWidth: logicalWidth, logicalHeight: logicalHeight}
	c.Resize(cols, rows)
	return c
}

// Resize changes the terminal area. The next render redraws everything.
func (c *Canvas) Resize(cols, rows int) {
	if cols == c.cols && rows == c.rows {
		return
	}
	c.cols = max(cols, 1)
	c.rows = max(rows, 1)
	c.cells = make([]Cell, c.cols*c.rows)
	c.prev = make([]Cell, c.cols*c.rows)
	c.scaleX = float64(c.cols) / c.logicalWidth
	c.scaleY = float64(c.rows) / c.logicalHeight
	c.Clear()
	c.force = true
}

// ForceRedraw makes the next render write every cell.
func (c *Canvas) ForceRedraw() {
	c.force = true
}

// Clear blanks every cell.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = blank
	}
}

// TerminalWidth returns the canvas column count.
func (c *Canvas) TerminalWidth() int { return c.cols }

// TerminalHeight returns the canvas row count.
func (c *Canvas) TerminalHeight() int { return c.rows }

// Set writes a cell at 0-based (col, row). Out-of-range writes are ignored.
func (c *Canvas) Set(col, row int, ch rune, fg Color) {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return
	}
	c.cells[row*c.cols+col] = Cell{Ch: ch, Fg: fg}
}

// At returns the cell at 0-based (col, row).
func (c *Canvas) At(col, row int) Cell {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return blank
	}
	return c.cells[row*c.cols+col]
}

// LogicalToCell converts logical coordinates to 0-based cell coordinates.
func (c *Canvas) LogicalToCell(x, y float64) (col, row int) {
	return int(math.Floor(x * c.scaleX)), int(math.Floor(y * c.scaleY))
}

// FillRect fills every cell overlapped by the logical rectangle. A rectangle
// smaller than a cell still covers the cell holding its top-left corner.
func (c *Canvas) FillRect(x0, y0, x1, y1 float64, ch rune, fg Color) {
	c0, r0 := c.LogicalToCell(x0, y0)
	c1, r1 := c.LogicalToCell(math.Nextafter(x1, x0), math.Nextafter(y1, y0))
	for row := r0; row <= max(r0, r1); row++ {
		for col := c0; col <= max(c0, c1); col++ {
			c.Set(col, row, ch, fg)
		}
	}
}

// Point draws a single character at a logical position.
func (c *Canvas) Point(x, y float64, ch rune, fg Color) {
	col, row := c.LogicalToCell(x, y)
	c.Set(col, row, ch, fg)
}

// Text writes s starting at 0-based (col, row), clipped to the canvas.
func (c *Canvas) Text(col, row int, s string, fg Color) {
	for _, r := range s {
		c.Set(col, row, r, fg)
		col++
	}
}

// TextCentered writes s centered on row.
func (c *Canvas) TextCentered(row int, s string, fg Color) {
	c.Text((c.cols-utf8.RuneCountInString(s))/2, row, s, fg)
}

// Box draws a framed, blanked box centered on the canvas and returns its inner top-left cell.
func (c *Canvas) Box(width, height int, fg Color) (col, row int) {
	left := (c.cols - width) / 2
	top := (c.rows - height) / 2
	for r := top; r < top+height; r++ {
		for cl := left; cl < left+width; cl++ {
			ch := ' '
			switch {
			case (r == top || r == top+height-1) && (cl == left || cl == left+width-1):
				ch = '+'
			case r == top || r == top+height-1:
				ch = '-'
			case cl == left || cl == left+width-1:
				ch = '|'
			}
			c.Set(cl, r, ch, fg)
		}
	}
	return left + 1, top + 1
}

// Render writes the cells that changed since the last render.
func (c *Canvas) Render(cw *ChunkWriter) {
	last := -2
	for i, cell := range c.cells {
		if !c.force && cell == c.prev[i] {
			continue
		}
		if i != last+1 || i%c.cols == 0 {
			cw.MoveCursor(i%c.cols+1, i/c.cols+1)
		}
		cw.SetColor(cell.Fg)
		cw.WriteRune(cell.Ch)
		c.prev[i] = cell
		last = i
	}
	cw.SetColor(ColorDefault)
	c.force = false
}
