package draw

import (
	"io"
	"os"
	"strconv"
	"unicode/utf8"

	"golang.org/x/term"
)

// ANSI sequences used outside the canvas.
const (
	seqClear      = "\033[H\033[2J"
	seqHideCursor = "\033[?25l"
	seqShowCursor = "\033[?25h"
)

// packetSize bounds a single write so a frame leaves an SSH channel as a
// series of MTU-sized packets instead of one burst.
const packetSize = 1400

// ChunkWriter collects one frame of terminal output and sends it with Flush.
// It remembers the active color so repeated color changes cost nothing.
type ChunkWriter struct {
	out    io.Writer
	buf    []byte
	color  Color
	known  bool // color reflects the terminal state
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter for w. The offsets are added to every
// cursor move to center a clamped render area in a larger terminal.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{out: w, buf: make([]byte, 0, 16<<10), offCol: offsetCol, offRow: offsetRow}
}

// SetOffset updates the cursor offset after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// MoveCursor positions the cursor at 1-based render-area coordinates.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.buf = append(cw.buf, "\033["...)
	cw.buf = strconv.AppendInt(cw.buf, int64(row+cw.offRow), 10)
	cw.buf = append(cw.buf, ';')
	cw.buf = strconv.AppendInt(cw.buf, int64(col+cw.offCol), 10)
	cw.buf = append(cw.buf, 'H')
}

// SetColor switches the foreground color if it differs from the active one.
func (cw *ChunkWriter) SetColor(c Color) {
	if cw.known && cw.color == c {
		return
	}
	cw.buf = append(cw.buf, colorCodes[c]...)
	cw.color, cw.known = c, true
}

// ClearScreen queues a full clear. The active color is reset with it.
func (cw *ChunkWriter) ClearScreen() {
	cw.SetColor(ColorDefault)
	cw.buf = append(cw.buf, seqClear...)
}

// Write implements io.Writer.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	cw.buf = append(cw.buf, p...)
	return len(p), nil
}

// WriteString appends s.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf = append(cw.buf, s...)
}

// WriteRune appends r.
func (cw *ChunkWriter) WriteRune(r rune) {
	cw.buf = utf8.AppendRune(cw.buf, r)
}

// Len returns the number of queued bytes.
func (cw *ChunkWriter) Len() int { return len(cw.buf) }

// Flush sends the queued frame in packet-sized writes.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf
	cw.buf = cw.buf[:0]
	for len(data) > 0 {
		n := min(len(data), packetSize)
		if _, err := cw.out.Write(data[:n]); err != nil {
			cw.known = false
			return err
		}
		data = data[n:]
	}
	return nil
}

var _ io.Writer = (*ChunkWriter)(nil)

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	io.WriteString(w, seqClear)
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	io.WriteString(w, seqHideCursor)
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	io.WriteString(w, seqShowCursor)
}
