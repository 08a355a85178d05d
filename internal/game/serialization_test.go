package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game/scoring"
)

// TestComputeChecksum verifies that checksums are computed correctly
func TestComputeChecksum(t *testing.T) {
	e := newTestEngine(t)

	checksum, err := e.State().ComputeChecksum()
	require.NoError(t, err)
	assert.Len(t, checksum.Hash, 64)
	assert.Equal(t, 1, checksum.Version)
}

// TestDeterministicChecksum verifies that identical games produce identical checksums
func TestDeterministicChecksum(t *testing.T) {
	checksums := make([]string, 5)
	for i := range checksums {
		checksums[i] = newTestEngine(t).Checksum()
	}
	for i := 1; i < len(checksums); i++ {
		assert.Equal(t, checksums[0], checksums[i], "checksum %d differs from checksum 0", i)
	}
}

// TestChecksumDifferentStates verifies that different states produce different checksums
func TestChecksumDifferentStates(t *testing.T) {
	e := newTestEngine(t)
	before := e.Checksum()

	apply(t, e, Draw(0))
	assert.NotEqual(t, before, e.Checksum())

	opts := testOptions()
	opts.Seed = 43
	other, err := NewEngine(opts, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, other.StartNewGame())
	assert.NotEqual(t, before, other.Checksum(), "a different seed deals a different game")
}

// TestChecksumIgnoresNarrationAndActionIDs verifies the fields left out of the hash
func TestChecksumIgnoresNarrationAndActionIDs(t *testing.T) {
	e := arrangedEngine(t, table{
		active: 0,
		hands:  [2][]string{{"QH"}, nil},
	})
	apply(t, e, PlayToRow(0, "QH", scoring.RowRoyalty))
	s := e.State()
	require.NotNil(t, s.ActionContext)
	before := e.Checksum()

	s.Log = append(s.Log, "an extra line")
	s.ActionContext.ID = "another-id"
	assert.Equal(t, before, e.Checksum())

	s.ActionContext.TargetID = "KS"
	assert.NotEqual(t, before, e.Checksum())
}

// TestVerifyChecksum verifies checksum comparison
func TestVerifyChecksum(t *testing.T) {
	e := newTestEngine(t)
	checksum, err := e.State().ComputeChecksum()
	require.NoError(t, err)

	ok, err := e.State().VerifyChecksum(checksum)
	require.NoError(t, err)
	assert.True(t, ok)

	apply(t, e, Draw(0))
	ok, err = e.State().VerifyChecksum(checksum)
	require.NoError(t, err)
	assert.False(t, ok)
}
