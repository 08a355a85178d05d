package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game/cards"
)

func TestCardValue(t *testing.T) {
	tests := []struct {
		name string
		card *cards.Card
		row  Row
		want int
	}{
		{"two", cards.New(cards.Rank2, cards.SuitClubs), RowScore, 2},
		{"ten", cards.New(cards.Rank10, cards.SuitHearts), RowScore, 10},
		{"ace default", cards.New(cards.RankAce, cards.SuitSpades), RowScore, 1},
		{"jack in score", cards.New(cards.RankJack, cards.SuitSpades), RowScore, 4},
		{"jack in royalty", cards.New(cards.RankJack, cards.SuitSpades), RowRoyalty, 5},
		{"queen", cards.New(cards.RankQueen, cards.SuitHearts), RowRoyalty, 6},
		{"king", cards.New(cards.RankKing, cards.SuitHearts), RowRoyalty, 7},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CardValue(tt.card, tt.row))
		})
	}
}

func TestPlayerScoreIsDeterministicUnderAceCycling(t *testing.T) {
	ace := cards.New(cards.RankAce, cards.SuitHearts)
	score := []*cards.Card{ace, cards.New(cards.Rank9, cards.SuitClubs)}
	royalty := []*cards.Card{cards.New(cards.RankJack, cards.SuitClubs)}

	want := []int{15, 17, 19, 15, 17, 19, 15}
	for i, expected := range want {
		assert.Equal(t, expected, PlayerScore(score, royalty), "step %d", i)
		assert.Equal(t, expected, PlayerScore(score, royalty), "repeat %d", i)
		ace.AceValue = CycleAce(ace.AceValue)
	}
}

func TestCycleAce(t *testing.T) {
	assert.Equal(t, 3, CycleAce(1))
	assert.Equal(t, 5, CycleAce(3))
	assert.Equal(t, 1, CycleAce(5))
}

func TestRowText(t *testing.T) {
	var r Row
	require.NoError(t, r.UnmarshalText([]byte("Royalty")))
	assert.Equal(t, RowRoyalty, r)

	text, err := RowScore.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "score", string(text))

	assert.Error(t, r.UnmarshalText([]byte("hand")))
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 3, Distance(18, 21))
	assert.Equal(t, 3, Distance(24, 21))
	assert.Equal(t, 0, Distance(21, 21))
}
