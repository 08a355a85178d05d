package ai

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game"
)

var errNoLegalIntent = errors.New("no legal intent offered")

// RandomStrategy picks uniformly among the legal intents of its view. It
// counters half the time when it can.
type RandomStrategy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomStrategy creates a random strategy with a fixed seed.
func NewRandomStrategy(seed int64) *RandomStrategy {
	return &RandomStrategy{rng: rand.New(rand.NewSource(seed))}
}

func (r *RandomStrategy) intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

func (r *RandomStrategy) pick(view game.GameView) (game.Intent, error) {
	if len(view.LegalIntents) == 0 {
		return game.Intent{}, errNoLegalIntent
	}
	return view.LegalIntents[r.intn(len(view.LegalIntents))], nil
}

// ChooseTurnAction implements game.DecisionAdapter.
func (r *RandomStrategy) ChooseTurnAction(_ context.Context, view game.GameView) (game.TurnDecision, error) {
	in, err := r.pick(view)
	if err != nil {
		return game.TurnDecision{}, err
	}
	return game.TurnDecision{Intent: in, Reasoning: "random"}, nil
}

// ChooseCounterResponse implements game.DecisionAdapter.
func (r *RandomStrategy) ChooseCounterResponse(_ context.Context, _ game.GameView, legal []game.CardView) (game.CounterDecision, error) {
	if len(legal) == 0 || r.intn(2) == 0 {
		return game.CounterDecision{Pass: true, Reasoning: "random"}, nil
	}
	return game.CounterDecision{CardID: legal[r.intn(len(legal))].ID, Reasoning: "random"}, nil
}

// ChooseMidTurnPick implements game.DecisionAdapter.
func (r *RandomStrategy) ChooseMidTurnPick(_ context.Context, view game.GameView) (game.Intent, error) {
	return r.pick(view)
}
