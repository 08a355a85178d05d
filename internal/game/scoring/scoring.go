// Package scoring computes card and player point values.
package scoring

import (
	"fmt"
	"strings"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game/cards"
)

// Row identifies one of a player's two board rows.
type Row int

const (
	RowScore Row = iota
	RowRoyalty
)

func (r Row) String() string {
	if r == RowRoyalty {
		return "royalty"
	}
	return "score"
}

// ParseRow parses "score" or "royalty".
func ParseRow(s string) (Row, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "score":
		return RowScore, nil
	case "royalty":
		return RowRoyalty, nil
	default:
		return 0, fmt.Errorf("unknown row %q", s)
	}
}

func (r Row) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Row) UnmarshalText(text []byte) error {
	parsed, err := ParseRow(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

const (
	jackScoreValue   = 4
	jackRoyaltyValue = 5
	queenValue       = 6
	kingValue        = 7
)

// CardValue returns the points a card is worth in the given row.
func CardValue(card *cards.Card, row Row) int {
	if card == nil {
		return 0
	}
	switch card.Rank {
	case cards.RankAce:
		if card.AceValue == 0 {
			return 1
		}
		return card.AceValue
	case cards.RankJack:
		if row == RowRoyalty {
			return jackRoyaltyValue
		}
		return jackScoreValue
	case cards.RankQueen:
		return queenValue
	case cards.RankKing:
		return kingValue
	default:
		return int(card.Rank)
	}
}

// RowValue sums the values of a row.
func RowValue(list []*cards.Card, row Row) int {
	total := 0
	for _, c := range list {
		total += CardValue(c, row)
	}
	return total
}

// PlayerScore is the sum over both rows.
func PlayerScore(scoreRow, royaltyRow []*cards.Card) int {
	return RowValue(scoreRow, RowScore) + RowValue(royaltyRow, RowRoyalty)
}

// CycleAce advances an ace value 1 -> 3 -> 5 -> 1.
func CycleAce(v int) int {
	switch v {
	case 1:
		return 3
	case 3:
		return 5
	default:
		return 1
	}
}

// Distance is the absolute distance of a score from the target.
func Distance(score, target int) int {
	if score > target {
		return score - target
	}
	return target - score
}
