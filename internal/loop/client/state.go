package client

import (
	"github.com/tomz197/breakout/internal/input"
	"github.com/tomz197/breakout/internal/loop/server"
)

// Phase is what the client is currently showing.
type Phase int

const (
	PhaseStart   Phase = iota // Start prompt and level select
	PhasePlaying              // Ball in play
	PhasePaused               // Game paused by the player
	PhaseOver                 // Final score and leaderboard
	PhaseBoss                 // Boss screen covering the game
)

// ClientState holds per-connection presentation state.
type ClientState struct {
	Input       input.Input
	Running     bool  // Client loop running
	Boss        bool  // Boss screen shown
	prevPhase   Phase // Phase drawn last frame
	isInactive  bool  // Whether the client is in inactive warning state
	wasInactive bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Running:   true,
		prevPhase: -1,
	}
}

// phaseOf derives the phase shown for frame f.
func (s *ClientState) phaseOf(f *server.Frame) Phase {
	switch {
	case s.Boss:
		return PhaseBoss
	case f.GameOver:
		return PhaseOver
	case !f.Started:
		return PhaseStart
	case f.Paused:
		return PhasePaused
	}
	return PhasePlaying
}
