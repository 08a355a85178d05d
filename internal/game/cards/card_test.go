package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniverse(t *testing.T) {
	deck := Universe(nil)
	require.Len(t, deck, 52)

	seen := make(map[string]bool)
	for _, c := range deck {
		assert.False(t, seen[c.ID], "duplicate card %s", c.ID)
		seen[c.ID] = true
	}
	assert.True(t, seen["10H"])
	assert.True(t, seen["AS"])
	assert.True(t, seen["KC"])
}

func TestUniverseExcludesRanks(t *testing.T) {
	deck := Universe([]Rank{Rank10, RankKing})
	require.Len(t, deck, 44)
	for _, c := range deck {
		assert.NotEqual(t, Rank10, c.Rank)
		assert.NotEqual(t, RankKing, c.Rank)
	}
}

func TestCardColorAndRoyal(t *testing.T) {
	assert.Equal(t, ColorRed, New(RankQueen, SuitHearts).Color())
	assert.Equal(t, ColorRed, New(Rank2, SuitDiamonds).Color())
	assert.Equal(t, ColorBlack, New(RankKing, SuitSpades).Color())
	assert.True(t, New(RankJack, SuitClubs).IsRoyal())
	assert.False(t, New(Rank10, SuitClubs).IsRoyal())
}

func TestParseRank(t *testing.T) {
	r, err := ParseRank(" q ")
	require.NoError(t, err)
	assert.Equal(t, RankQueen, r)

	r, err = ParseRank("10")
	require.NoError(t, err)
	assert.Equal(t, Rank10, r)

	_, err = ParseRank("11")
	assert.Error(t, err)
}

func TestLeaveBoardResetsAceAndProtection(t *testing.T) {
	ace := New(RankAce, SuitSpades)
	ace.AceValue = 5
	ace.LeaveBoard()
	assert.Equal(t, 1, ace.AceValue)

	eight := New(Rank8, SuitClubs)
	eight.Protected = true
	eight.LeaveBoard()
	assert.False(t, eight.Protected)
}

func TestRemovePreservesOrder(t *testing.T) {
	list := []*Card{New(Rank2, SuitClubs), New(Rank3, SuitClubs), New(Rank4, SuitClubs)}
	list, removed := Remove(list, "3C")
	require.NotNil(t, removed)
	assert.Equal(t, []string{"2C", "4C"}, IDs(list))

	_, missing := Remove(list, "9H")
	assert.Nil(t, missing)
}
