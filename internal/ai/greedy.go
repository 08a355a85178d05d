package ai

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/cards"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/scoring"
)

const winningPlay = 1000

// effectWeights is the flat worth of playing a rank for its effect.
var effectWeights = map[cards.Rank]int{
	cards.Rank7: 12,
	cards.Rank3: 10,
	cards.Rank6: 6,
	cards.Rank2: 4,
}

// GreedyStrategy scores every legal intent one step ahead and takes the
// best, keeping the first on ties. It holds no state.
type GreedyStrategy struct{}

// NewGreedyStrategy creates a greedy strategy.
func NewGreedyStrategy() *GreedyStrategy {
	return &GreedyStrategy{}
}

// ChooseTurnAction implements game.DecisionAdapter.
func (g *GreedyStrategy) ChooseTurnAction(_ context.Context, view game.GameView) (game.TurnDecision, error) {
	in, score, err := best(view.LegalIntents, func(in game.Intent) int { return scoreTurn(view, in) })
	if err != nil {
		return game.TurnDecision{}, err
	}
	reason := "best one-step gain"
	if score >= winningPlay {
		reason = "reaches the target"
	}
	return game.TurnDecision{Intent: in, Reasoning: reason}, nil
}

// ChooseCounterResponse implements game.DecisionAdapter. It counters only
// when the pending outcome currently goes against it, with the cheapest card.
func (g *GreedyStrategy) ChooseCounterResponse(_ context.Context, view game.GameView, legal []game.CardView) (game.CounterDecision, error) {
	if view.Pending == nil || len(legal) == 0 {
		return game.CounterDecision{Pass: true, Reasoning: "nothing to counter with"}, nil
	}
	wantSuccess := view.Pending.Actor == view.Seat
	succeeds := len(view.CounterStack)%2 == 0
	if wantSuccess == succeeds {
		return game.CounterDecision{Pass: true, Reasoning: "outcome already favourable"}, nil
	}

	cheapest := legal[0]
	for _, c := range legal[1:] {
		if counterCost(c) < counterCost(cheapest) {
			cheapest = c
		}
	}
	return game.CounterDecision{CardID: cheapest.ID, Reasoning: "flip the outcome"}, nil
}

// ChooseMidTurnPick implements game.DecisionAdapter.
func (g *GreedyStrategy) ChooseMidTurnPick(_ context.Context, view game.GameView) (game.Intent, error) {
	in, _, err := best(view.LegalIntents, func(in game.Intent) int { return scorePick(view, in) })
	return in, err
}

func best(intents []game.Intent, score func(game.Intent) int) (game.Intent, int, error) {
	if len(intents) == 0 {
		return game.Intent{}, 0, errNoLegalIntent
	}
	bestIdx, bestScore := 0, math.MinInt
	for i, in := range intents {
		if s := score(in); s > bestScore {
			bestIdx, bestScore = i, s
		}
	}
	return intents[bestIdx], bestScore, nil
}

// reach rates a new own score: landing on the target wins, overshooting is
// penalised, otherwise closing the distance is rewarded.
func reach(current, next, target int) int {
	switch {
	case next == target:
		return winningPlay
	case next > target:
		return -50 - (next - target)
	}
	return (scoring.Distance(current, target) - scoring.Distance(next, target)) * 10
}

func scoreTurn(view game.GameView, in game.Intent) int {
	me := view.Players[view.Seat]
	opp := view.Players[1-view.Seat]
	target := view.TargetScore

	switch in.Type {
	case game.IntentPlayToRow:
		c, ok := findCard(me.Hand, in.CardID)
		if !ok {
			return 0
		}
		return reach(me.Score, me.Score+valueOf(c, in.Row), target)

	case game.IntentRoyalMarriage:
		gain := 0
		for _, id := range in.CardIDs {
			if c, ok := findCard(me.Hand, id); ok {
				gain += valueOf(c, scoring.RowRoyalty)
			}
		}
		return reach(me.Score, me.Score+gain, target)

	case game.IntentScuttle:
		c, ok := findCard(opp.ScoreRow, in.TargetID)
		if !ok {
			return 0
		}
		threat := 40 - 2*scoring.Distance(opp.Score, target)
		if threat < 0 {
			threat = 0
		}
		return valueOf(c, scoring.RowScore)*6 + threat

	case game.IntentPlayForEffect:
		c, ok := findCard(me.Hand, in.CardID)
		if !ok {
			return 0
		}
		switch rankOf(c) {
		case cards.RankJack:
			if len(opp.ScoreRow) == 0 {
				return -10
			}
			return 15
		case cards.Rank4:
			if scoring.Distance(opp.Score, target) <= 5 {
				return 30
			}
			return 2
		}
		return effectWeights[rankOf(c)]

	case game.IntentDraw:
		if len(me.Hand) < view.HandLimit {
			return 5
		}
		return -5
	}
	return -1
}

func counterCost(c game.CardView) int {
	if rankOf(c) == cards.RankAce {
		return 0
	}
	return valueOf(c, scoring.RowRoyalty)
}

func scorePick(view game.GameView, in game.Intent) int {
	me := view.Players[view.Seat]
	opp := view.Players[1-view.Seat]
	target := view.TargetScore

	switch view.ActionState {
	case game.ActionStateAwaitingJackTarget.String():
		if c, ok := findCard(opp.ScoreRow, in.CardID); ok {
			return 100 + valueOf(c, scoring.RowScore)
		}
		if c, ok := findCard(me.ScoreRow, in.CardID); ok {
			return -valueOf(c, scoring.RowScore)
		}

	case game.ActionStateAwaitingJackPlacement.String():
		row, err := scoring.ParseRow(in.Option)
		if err != nil {
			return 0
		}
		return reach(me.Score, me.Score+scoring.CardValue(&cards.Card{Rank: cards.RankJack}, row), target)

	case game.ActionStateAwaitingOverchargeDiscard.String():
		if c, ok := findCard(me.ScoreRow, in.CardID); ok {
			return -scoring.Distance(me.Score-valueOf(c, scoring.RowScore), target)
		}
		if c, ok := findCard(me.RoyaltyRow, in.CardID); ok {
			return -scoring.Distance(me.Score-valueOf(c, scoring.RowRoyalty), target)
		}

	case game.ActionStateAwaitingFarmerReturn.String():
		if c, ok := findCard(view.CardChoices, in.CardID); ok {
			return -valueOf(c, scoring.RowScore)
		}

	case game.ActionStateAwaitingHandLimitDiscard.String():
		total := 0
		for _, id := range in.CardIDs {
			if c, ok := findCard(me.Hand, id); ok {
				total += valueOf(c, scoring.RowScore)
			}
		}
		return -total

	case game.ActionStateAwaitingSoftResetRow.String():
		seat, row, ok := strings.Cut(in.Option, ":")
		if !ok {
			return 0
		}
		n, err := strconv.Atoi(seat)
		if err != nil {
			return 0
		}
		s := 0
		if n != view.Seat {
			s += 10
		}
		if row == scoring.RowScore.String() {
			s++
		}
		return s

	case game.ActionStateAwaitingSoftResetDiscard.String():
		total := 0
		for _, id := range in.CardIDs {
			if c, ok := findCard(opp.ScoreRow, id); ok {
				total += valueOf(c, scoring.RowScore)
			} else if c, ok := findCard(opp.RoyaltyRow, id); ok {
				total += valueOf(c, scoring.RowRoyalty)
			} else if c, ok := findCard(me.ScoreRow, id); ok {
				total -= valueOf(c, scoring.RowScore)
			} else if c, ok := findCard(me.RoyaltyRow, id); ok {
				total -= valueOf(c, scoring.RowRoyalty)
			}
		}
		return total

	case game.ActionStateAwaitingLuckyDrawPick.String(),
		game.ActionStateAwaitingInterrogatorSteal.String(),
		game.ActionStateAwaitingRummagerPick.String(),
		game.ActionStateAwaitingNinePeekPick.String():
		if c, ok := findCard(view.CardChoices, in.CardID); ok {
			return valueOf(c, scoring.RowScore)
		}
	}
	return 0
}
