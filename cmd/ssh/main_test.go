package main

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gameconfig "github.com/tomz197/breakout/internal/loop/config"
	"github.com/tomz197/breakout/internal/loop/game"
	"github.com/tomz197/breakout/internal/store"
)

func TestSaveName(t *testing.T) {
	assert.Equal(t, "alice.save", saveName("alice"))
	assert.Equal(t, "____etc_passwd.save", saveName("/../etc/passwd"))
	assert.Equal(t, "anonymous.save", saveName(""))
	assert.Len(t, saveName(strings.Repeat("a", 200)), 64+len(".save"))
}

func TestResumeConsumesSave(t *testing.T) {
	cfg := gameconfig.Default()
	h := &host{cfg: cfg, log: log.New(io.Discard)}
	saves := store.NewSaveFile(filepath.Join(t.TempDir(), "alice.save"))

	assert.Nil(t, h.resume(saves, h.log), "no save starts a new game")

	sim := game.New(cfg, game.Options{PlayerName: "alice", StartLevel: 2, Seed: 4})
	snap, err := sim.Snapshot()
	require.NoError(t, err)
	require.NoError(t, saves.Save(snap))

	got := h.resume(saves, h.log)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Level())
	assert.Equal(t, "alice", got.Player())
	assert.False(t, saves.Exists())
}

func TestSizeTracker(t *testing.T) {
	s := newSizeTracker(80, 24)
	s.update(120, 40)
	w, h, err := s.getSize()
	require.NoError(t, err)
	assert.Equal(t, 120, w)
	assert.Equal(t, 40, h)
}
