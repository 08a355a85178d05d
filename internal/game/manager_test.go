package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// TestManagerLifecycle verifies create, get, list and remove
func TestManagerLifecycle(t *testing.T) {
	m := NewManager(zaptest.NewLogger(t), nil)
	ctx := context.Background()

	a, err := m.Create(ctx, SessionOptions{Engine: testOptions(), AutoStart: true})
	require.NoError(t, err)
	b, err := m.Create(ctx, SessionOptions{Engine: testOptions()})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, m.Len())
	assert.ElementsMatch(t, []string{a.ID, b.ID}, m.List())

	got, err := m.Get(a.ID)
	require.NoError(t, err)
	assert.Same(t, a, got)
	assert.Equal(t, "FIRST_TURN", got.View(0).Phase)
	assert.Equal(t, "START_SCREEN", b.View(0).Phase)

	m.Remove(a.ID)
	_, err = m.Get(a.ID)
	assert.Error(t, err)
	assert.Equal(t, []string{b.ID}, m.List())
}

// TestManagerResetReplacesSession verifies reset swaps in a fresh session under the same ID
func TestManagerResetReplacesSession(t *testing.T) {
	m := NewManager(zaptest.NewLogger(t), nil)
	ctx := context.Background()

	old, err := m.Create(ctx, SessionOptions{Engine: testOptions(), AutoStart: true})
	require.NoError(t, err)
	require.NoError(t, old.Submit(ctx, Draw(0)))

	fresh, err := m.Reset(ctx, old.ID)
	require.NoError(t, err)
	assert.NotSame(t, old, fresh)
	assert.Equal(t, old.ID, fresh.ID)
	assert.Equal(t, 1, fresh.View(0).Turn)

	got, err := m.Get(old.ID)
	require.NoError(t, err)
	assert.Same(t, fresh, got)

	_, err = m.Reset(ctx, "missing")
	assert.Error(t, err)
}

// TestManagerRejectsBadOptions verifies invalid engine options never register
func TestManagerRejectsBadOptions(t *testing.T) {
	m := NewManager(zaptest.NewLogger(t), nil)
	opts := testOptions()
	opts.Settings.SwapBarSize = 0

	_, err := m.Create(context.Background(), SessionOptions{Engine: opts})
	assert.Error(t, err)
	assert.Equal(t, 0, m.Len())
}

// TestManagerSavesReplayOnRemove verifies the recorded game is written when a session goes away
func TestManagerSavesReplayOnRemove(t *testing.T) {
	dir := t.TempDir()
	recorder := NewReplayRecorder(zaptest.NewLogger(t), dir)
	m := NewManager(zaptest.NewLogger(t), recorder)
	ctx := context.Background()

	s, err := m.Create(ctx, SessionOptions{Engine: testOptions(), AutoStart: true})
	require.NoError(t, err)
	require.NoError(t, s.Submit(ctx, Draw(0)))
	m.Remove(s.ID)

	loaded, err := LoadReplayFromFile(dir, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Size())
}
