package rules

import (
	"fmt"
	"sync"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game/cards"
)

// ActionKind identifies what a proposed action does once it resolves.
type ActionKind int

const (
	ActionPlayToScore ActionKind = iota
	ActionPlayToRoyalty
	ActionRoyalMarriage
	ActionScuttle
	ActionBaseEffect
	ActionRummager
	ActionSecondQueenEdict
)

var actionKindNames = map[ActionKind]string{
	ActionPlayToScore:      "PLAY_TO_SCORE",
	ActionPlayToRoyalty:    "PLAY_TO_ROYALTY",
	ActionRoyalMarriage:    "ROYAL_MARRIAGE",
	ActionScuttle:          "SCUTTLE",
	ActionBaseEffect:       "BASE_EFFECT",
	ActionRummager:         "RUMMAGER",
	ActionSecondQueenEdict: "SECOND_QUEEN_EDICT",
}

func (k ActionKind) String() string {
	if name, ok := actionKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ACTION_%d", int(k))
}

// Counterable reports whether the action opens a counter window.
// effectRank only matters for base effects.
func (k ActionKind) Counterable(effectRank cards.Rank) bool {
	return len(openingCounters(k, effectRank)) > 0
}

func openingCounters(kind ActionKind, effectRank cards.Rank) []cards.Rank {
	switch kind {
	case ActionPlayToRoyalty, ActionRoyalMarriage:
		return []cards.Rank{cards.RankKing}
	case ActionScuttle:
		return []cards.Rank{cards.Rank9}
	case ActionRummager:
		return []cards.Rank{cards.RankAce}
	case ActionSecondQueenEdict:
		return []cards.Rank{cards.RankAce, cards.Rank9, cards.RankKing}
	case ActionBaseEffect:
		switch effectRank {
		case cards.RankJack, cards.Rank4, cards.Rank3, cards.Rank2:
			return []cards.Rank{cards.RankAce}
		}
	}
	return nil
}

// LegalCounterRanks returns the ranks that may be played against the action
// when the counter stack already holds depth cards.
func LegalCounterRanks(kind ActionKind, effectRank cards.Rank, depth int) []cards.Rank {
	if depth > 0 {
		return []cards.Rank{cards.RankAce}
	}
	return openingCounters(kind, effectRank)
}

// IsLegalCounter reports whether rank may be played at the given depth.
func IsLegalCounter(kind ActionKind, effectRank cards.Rank, depth int, rank cards.Rank) bool {
	for _, r := range LegalCounterRanks(kind, effectRank, depth) {
		if r == rank {
			return true
		}
	}
	return false
}

// CounterEntry is a card played onto the counter stack by a seat.
type CounterEntry struct {
	Card *cards.Card
	Seat int
}

// CounterStack holds the cards played against a pending action.
type CounterStack struct {
	mu    sync.Mutex
	items []CounterEntry
}

// NewCounterStack creates an empty counter stack.
func NewCounterStack() *CounterStack {
	return &CounterStack{
		items: make([]CounterEntry, 0, 4),
	}
}

// Push adds a counter to the top of the stack.
func (cs *CounterStack) Push(entry CounterEntry) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.items = append(cs.items, entry)
}

// List returns a copy of the stack, topmost last.
func (cs *CounterStack) List() []CounterEntry {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cpy := make([]CounterEntry, len(cs.items))
	copy(cpy, cs.items)
	return cpy
}

// Len returns the stack depth.
func (cs *CounterStack) Len() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.items)
}

// Drain empties the stack and returns its cards bottom first.
func (cs *CounterStack) Drain() []CounterEntry {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := cs.items
	cs.items = make([]CounterEntry, 0, 4)
	return out
}
