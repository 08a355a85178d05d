package cards

import (
	"fmt"
	"strings"
)

// Rank is a card rank. Numeric ranks carry their face value.
type Rank int

const (
	RankAce Rank = iota + 1
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	RankJack
	RankQueen
	RankKing
)

var rankNames = map[Rank]string{
	RankAce:   "A",
	Rank2:     "2",
	Rank3:     "3",
	Rank4:     "4",
	Rank5:     "5",
	Rank6:     "6",
	Rank7:     "7",
	Rank8:     "8",
	Rank9:     "9",
	Rank10:    "10",
	RankJack:  "J",
	RankQueen: "Q",
	RankKing:  "K",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return fmt.Sprintf("RANK_%d", int(r))
}

// IsRoyal reports whether the rank is a court card.
func (r Rank) IsRoyal() bool {
	return r == RankJack || r == RankQueen || r == RankKing
}

// AllRanks lists the ranks in ascending order.
func AllRanks() []Rank {
	ranks := make([]Rank, 0, len(rankNames))
	for r := RankAce; r <= RankKing; r++ {
		ranks = append(ranks, r)
	}
	return ranks
}

// ParseRank parses a rank label such as "A", "10" or "q".
func ParseRank(label string) (Rank, error) {
	label = strings.ToUpper(strings.TrimSpace(label))
	for r, name := range rankNames {
		if name == label {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rank %q", label)
}

// Suit is a card suit.
type Suit int

const (
	SuitClubs Suit = iota
	SuitDiamonds
	SuitHearts
	SuitSpades
)

var suitNames = map[Suit]string{
	SuitClubs:    "C",
	SuitDiamonds: "D",
	SuitHearts:   "H",
	SuitSpades:   "S",
}

func (s Suit) String() string {
	if name, ok := suitNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SUIT_%d", int(s))
}

// Color is derived from the suit.
type Color int

const (
	ColorBlack Color = iota
	ColorRed
)

func (c Color) String() string {
	if c == ColorRed {
		return "red"
	}
	return "black"
}

// Card is a single physical card. Identity is fixed; the remaining fields are
// board state that travels with the card between containers.
type Card struct {
	ID        string
	Rank      Rank
	Suit      Suit
	FaceUp    bool
	AceValue  int
	Protected bool
}

// New creates a card with its canonical ID, e.g. "10H" or "QS".
func New(rank Rank, suit Suit) *Card {
	c := &Card{
		ID:   rank.String() + suit.String(),
		Rank: rank,
		Suit: suit,
	}
	if rank == RankAce {
		c.AceValue = 1
	}
	return c
}

// Color returns red for hearts and diamonds, black otherwise.
func (c *Card) Color() Color {
	if c.Suit == SuitHearts || c.Suit == SuitDiamonds {
		return ColorRed
	}
	return ColorBlack
}

// IsRoyal reports whether the card is a J, Q or K.
func (c *Card) IsRoyal() bool {
	return c.Rank.IsRoyal()
}

// LeaveBoard clears the state a card only carries while it sits in a row.
func (c *Card) LeaveBoard() {
	c.Protected = false
	if c.Rank == RankAce {
		c.AceValue = 1
	}
}

func (c *Card) String() string {
	return c.ID
}

// Universe builds the full deck minus any excluded ranks, ordered by suit then rank.
func Universe(excluded []Rank) []*Card {
	skip := make(map[Rank]bool, len(excluded))
	for _, r := range excluded {
		skip[r] = true
	}
	deck := make([]*Card, 0, 52)
	for s := SuitClubs; s <= SuitSpades; s++ {
		for _, r := range AllRanks() {
			if skip[r] {
				continue
			}
			deck = append(deck, New(r, s))
		}
	}
	return deck
}

// IDs returns the IDs of the given cards in order.
func IDs(list []*Card) []string {
	ids := make([]string, len(list))
	for i, c := range list {
		ids[i] = c.ID
	}
	return ids
}

// IndexOf returns the position of the card with the given ID, or -1.
func IndexOf(list []*Card, id string) int {
	for i, c := range list {
		if c != nil && c.ID == id {
			return i
		}
	}
	return -1
}

// Remove deletes the card with the given ID from the slice, preserving order.
func Remove(list []*Card, id string) ([]*Card, *Card) {
	idx := IndexOf(list, id)
	if idx < 0 {
		return list, nil
	}
	card := list[idx]
	return append(list[:idx], list[idx+1:]...), card
}

// CountRank counts cards of the given rank.
func CountRank(list []*Card, rank Rank) int {
	n := 0
	for _, c := range list {
		if c.Rank == rank {
			n++
		}
	}
	return n
}
