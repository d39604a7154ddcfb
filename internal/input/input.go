// Package input turns a raw terminal byte stream into per-frame key state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a movement key is considered "held" after its last press.
// Terminals only report key repeats, so holding is inferred from recent presses.
const keyHoldDuration = 60 * time.Millisecond

// Control bytes produced by Ctrl+letter in raw mode.
const (
	ctrlC = 0x03
	ctrlD = 0x04
	ctrlS = 0x13
)

// Input represents the current frame's input state. Left and Right are held
// keys; every other field is set only on the frame its key arrived.
type Input struct {
	Quit             bool
	Left             bool
	Right            bool
	Pause            bool
	Enter            bool
	Save             bool
	Boss             bool
	CheatPaddleSpeed bool
	CheatBallSpeed   bool
	CheatPaddleSize  bool
	Number           int // digit pressed this frame, -1 when none
	Pressed          []byte
}

// keyState tracks the last time each held key was pressed.
type keyState struct {
	left  time.Time
	right time.Time
}

// Stream delivers input bytes via a channel and tracks held keys.
type Stream struct {
	ch    chan byte
	state keyState
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking).
// A closed stream reports Quit.
func ReadInput(s *Stream) Input {
	var buf []byte
	closed := false

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := s.parse(buf, time.Now())
	if closed {
		in.Quit = true
	}
	return in
}

// parse decodes buf, handling arrow-key escape sequences, and folds it into the held-key state.
func (s *Stream) parse(buf []byte, now time.Time) Input {
	in := Input{Number: -1, Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'C':
				s.state.right = now
				i += 2
				continue
			case 'D':
				s.state.left = now
				i += 2
				continue
			case 'A', 'B':
				i += 2
				continue
			}
		}

		switch b {
		case 'q', 'Q':
			in.Quit = true
		case 'a', 'A', 'j', 'J':
			s.state.left = now
		case 'd', 'D', 'l', 'L':
			s.state.right = now
		case ' ', 'p', 'P':
			in.Pause = true
		case '\n', '\r':
			in.Enter = true
		case 'v', 'V':
			in.Save = true
		case 'b', 'B':
			in.Boss = true
		case ctrlC:
			in.CheatPaddleSpeed = true
		case ctrlD:
			in.CheatBallSpeed = true
		case ctrlS:
			in.CheatPaddleSize = true
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			in.Number = int(b - '0')
		}
	}

	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	return in
}
