package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingWriter struct {
	bytes.Buffer
	writes []int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes = append(w.writes, len(p))
	return w.Buffer.Write(p)
}

func TestSetColorSkipsRepeats(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)

	cw.SetColor(ColorRed)
	cw.SetColor(ColorRed)
	cw.WriteRune('x')
	cw.SetColor(ColorGreen)
	require.NoError(t, cw.Flush())

	assert.Equal(t, colorCodes[ColorRed]+"x"+colorCodes[ColorGreen], out.String())
}

func TestFlushSplitsIntoPackets(t *testing.T) {
	w := &countingWriter{}
	cw := NewChunkWriter(w, 0, 0)
	cw.WriteString(strings.Repeat("a", packetSize*2+10))
	require.Equal(t, packetSize*2+10, cw.Len())

	require.NoError(t, cw.Flush())
	assert.Equal(t, []int{packetSize, packetSize, 10}, w.writes)
	assert.Zero(t, cw.Len())
}

func TestMoveCursorAppliesOffset(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	cw.SetOffset(10, 3)
	cw.MoveCursor(1, 1)
	require.NoError(t, cw.Flush())
	assert.Equal(t, "\033[4;11H", out.String())
}

func TestClearScreenResetsColor(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	cw.SetColor(ColorBlue)
	cw.ClearScreen()
	cw.SetColor(ColorDefault)
	require.NoError(t, cw.Flush())
	assert.Equal(t, colorCodes[ColorBlue]+colorCodes[ColorDefault]+seqClear, out.String())
}
