package game

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game/cards"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/rules"
)

// table describes a board to arrange. Cards not named anywhere go to the
// deck (or the discard pile when restToDiscard is set), sorted by ID, with
// deckTop stacked on top so that its last element is drawn first.
type table struct {
	turn          int
	active        int
	hands         [2][]string
	score         [2][]string
	royalty       [2][]string
	discard       []string
	swap          []string
	deckTop       []string
	restToDiscard bool
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.FirstSeat = 0
	opts.Seed = 42
	return opts
}

// newTestEngine returns an engine with a dealt game, seat 0 on turn 1.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(testOptions(), zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, e.StartNewGame())
	return e
}

// arrangedEngine returns an engine whose board matches tb.
func arrangedEngine(t *testing.T, tb table) *Engine {
	t.Helper()
	e := newTestEngine(t)
	arrange(t, e, tb)
	return e
}

func arrange(t *testing.T, e *Engine, tb table) {
	t.Helper()
	s := e.state

	pool := make(map[string]*cards.Card, len(e.universe))
	for _, c := range s.AllCards() {
		c.LeaveBoard()
		c.FaceUp = false
		pool[c.ID] = c
	}
	take := func(id string, faceUp bool) *cards.Card {
		c, ok := pool[id]
		require.True(t, ok, "card %s is unknown or placed twice", id)
		delete(pool, id)
		c.FaceUp = faceUp
		return c
	}
	takeAll := func(ids []string, faceUp bool) []*cards.Card {
		out := make([]*cards.Card, 0, len(ids))
		for _, id := range ids {
			out = append(out, take(id, faceUp))
		}
		return out
	}

	s.CounterStack.Drain()
	s.CardChoices = nil
	s.ActionContext = nil
	for seat, p := range s.Players {
		p.Hand = takeAll(tb.hands[seat], false)
		p.ScoreRow = takeAll(tb.score[seat], true)
		p.RoyaltyRow = takeAll(tb.royalty[seat], true)
		p.IsImmune = false
		p.HandRevealedUntilTurn = 0
	}
	s.DiscardPile = takeAll(tb.discard, true)
	s.SwapBar = make([]*cards.Card, e.settings.SwapBarSize)
	for i, id := range tb.swap {
		if id != "" {
			s.SwapBar[i] = take(id, i == e.settings.middleSlot())
		}
	}
	top := takeAll(tb.deckTop, false)

	rest := make([]string, 0, len(pool))
	for id := range pool {
		rest = append(rest, id)
	}
	sort.Strings(rest)
	if tb.restToDiscard {
		s.DiscardPile = append(s.DiscardPile, takeAll(rest, true)...)
		s.Deck = top
	} else {
		s.Deck = append(takeAll(rest, false), top...)
	}

	turn := tb.turn
	if turn == 0 {
		turn = 2
	}
	s.turns = rules.NewTurnManager((tb.active + turn - 1) % 2)
	for s.Turn() < turn {
		s.turns.EndTurn()
	}
	s.Phase = e.playPhase()
	s.ActionState = ActionStateIdle
	s.clearTransient()
	s.SwapBarUsedThisTurn = false
	s.Winner = NoSeat
	s.WinReason = WinReasonNone
	e.resolution.Reset()

	require.Equal(t, tb.active, s.ActivePlayerIndex())
	require.NoError(t, e.CheckConservation())
}

// apply submits an intent that must be accepted.
func apply(t *testing.T, e *Engine, in Intent) {
	t.Helper()
	require.NoError(t, e.Apply(in), "intent %s", in)
}

// playRandomly applies random legal intents until the game ends or the step
// budget runs out, checking conservation after every step.
func playRandomly(t *testing.T, e *Engine, rng *rand.Rand, maxSteps int) int {
	t.Helper()
	steps := 0
	for ; steps < maxSteps; steps++ {
		s := e.state
		if s.HasWinner() {
			break
		}
		legal := e.LegalIntents(s.CurrentPlayerIndex())
		require.NotEmpty(t, legal, "no legal intent in %s on turn %d", s.ActionState, s.Turn())
		in := legal[rng.Intn(len(legal))]
		require.NoError(t, e.Apply(in), "intent %s in %s", in, s.ActionState)
		require.NoError(t, e.CheckConservation(), "after %s", in)
	}
	return steps
}

func hasCard(list []*cards.Card, id string) bool {
	return cards.IndexOf(list, id) >= 0
}
