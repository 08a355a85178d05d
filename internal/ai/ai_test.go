package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Defients/Jakuv-vgame-sub001/internal/ai/llm"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/scoring"
)

func baseView() game.GameView {
	v := game.GameView{
		Seat:        0,
		CurrentSeat: 0,
		Turn:        5,
		TargetScore: 21,
		HandLimit:   7,
		Phase:       "NORMAL",
		ActionState: game.ActionStateIdle.String(),
	}
	v.Players[0] = game.PlayerView{Seat: 0}
	v.Players[1] = game.PlayerView{Seat: 1}
	return v
}

// TestParseKind verifies strategy names
func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Random ")
	require.NoError(t, err)
	assert.Equal(t, KindRandom, k)

	k, err = ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, KindGreedy, k)

	_, err = ParseKind("oracle")
	assert.Error(t, err)
}

// TestNewBuildsEachKind verifies the factory
func TestNewBuildsEachKind(t *testing.T) {
	a, err := New(Options{Kind: KindRandom, Seed: 1})
	require.NoError(t, err)
	assert.IsType(t, &RandomStrategy{}, a)

	a, err = New(Options{Kind: KindGreedy})
	require.NoError(t, err)
	assert.IsType(t, &GreedyStrategy{}, a)

	_, err = New(Options{Kind: KindLLM})
	assert.Error(t, err, "an llm strategy needs a key and a model")

	a, err = New(Options{Kind: KindLLM, LLM: llm.Config{APIKey: "k", Model: "m"}, Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	assert.IsType(t, &llm.Strategy{}, a)

	_, err = New(Options{Kind: "oracle"})
	assert.Error(t, err)
}

// TestGreedyTakesTheWinningPlay verifies an exact-target play beats everything
func TestGreedyTakesTheWinningPlay(t *testing.T) {
	v := baseView()
	v.Players[0].Score = 15
	v.Players[0].Hand = []game.CardView{{ID: "9H", Rank: "9"}, {ID: "6C", Rank: "6"}}
	v.LegalIntents = []game.Intent{
		game.Draw(0),
		game.PlayToRow(0, "9H", scoring.RowScore),
		game.PlayToRow(0, "6C", scoring.RowScore),
	}

	dec, err := NewGreedyStrategy().ChooseTurnAction(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, "6C", dec.Intent.CardID)
	assert.Equal(t, "reaches the target", dec.Reasoning)
}

// TestGreedyAvoidsOvershooting verifies an overshoot loses to a draw
func TestGreedyAvoidsOvershooting(t *testing.T) {
	v := baseView()
	v.Players[0].Score = 18
	v.Players[0].Hand = []game.CardView{{ID: "9H", Rank: "9"}}
	v.LegalIntents = []game.Intent{
		game.PlayToRow(0, "9H", scoring.RowScore),
		game.Draw(0),
	}

	dec, err := NewGreedyStrategy().ChooseTurnAction(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, game.IntentDraw, dec.Intent.Type)
}

// TestGreedyCounterParity verifies it only counters when the outcome is against it
func TestGreedyCounterParity(t *testing.T) {
	g := NewGreedyStrategy()
	legal := []game.CardView{{ID: "KS", Rank: "K"}, {ID: "AH", Rank: "A", AceValue: 1}}

	v := baseView()
	v.ActionState = game.ActionStateAwaitingCounter.String()
	v.Pending = &game.PendingView{Actor: 1}

	dec, err := g.ChooseCounterResponse(context.Background(), v, legal)
	require.NoError(t, err)
	assert.False(t, dec.Pass)
	assert.Equal(t, "AH", dec.CardID, "the ace is the cheapest counter")

	v.CounterStack = []game.CardView{{ID: "KD", Rank: "K"}}
	dec, err = g.ChooseCounterResponse(context.Background(), v, legal)
	require.NoError(t, err)
	assert.True(t, dec.Pass, "an odd stack already denies the opponent")

	v.Pending = &game.PendingView{Actor: 0}
	dec, err = g.ChooseCounterResponse(context.Background(), v, legal)
	require.NoError(t, err)
	assert.False(t, dec.Pass, "its own action is being denied")

	dec, err = g.ChooseCounterResponse(context.Background(), v, nil)
	require.NoError(t, err)
	assert.True(t, dec.Pass)
}

// TestGreedyJackTargetsOpponent verifies steals prefer the opponent's best card
func TestGreedyJackTargetsOpponent(t *testing.T) {
	v := baseView()
	v.ActionState = game.ActionStateAwaitingJackTarget.String()
	v.Players[0].ScoreRow = []game.CardView{{ID: "10S", Rank: "10"}}
	v.Players[1].ScoreRow = []game.CardView{{ID: "3D", Rank: "3"}, {ID: "8D", Rank: "8"}}
	v.LegalIntents = []game.Intent{
		game.CardChoice(0, "10S"),
		game.CardChoice(0, "3D"),
		game.CardChoice(0, "8D"),
	}

	in, err := NewGreedyStrategy().ChooseMidTurnPick(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, "8D", in.CardID)
}

// TestGreedyHandLimitDiscardsCheapest verifies the lowest-value discard
func TestGreedyHandLimitDiscardsCheapest(t *testing.T) {
	v := baseView()
	v.ActionState = game.ActionStateAwaitingHandLimitDiscard.String()
	v.Players[0].Hand = []game.CardView{{ID: "10S", Rank: "10"}, {ID: "2D", Rank: "2"}, {ID: "QH", Rank: "Q"}}
	v.LegalIntents = []game.Intent{
		game.ConfirmDiscard(0, "10S"),
		game.ConfirmDiscard(0, "2D"),
		game.ConfirmDiscard(0, "QH"),
	}

	in, err := NewGreedyStrategy().ChooseMidTurnPick(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, []string{"2D"}, in.CardIDs)
}

// TestGreedySoftResetPrefersOpponentScoreRow verifies the row choice
func TestGreedySoftResetPrefersOpponentScoreRow(t *testing.T) {
	v := baseView()
	v.ActionState = game.ActionStateAwaitingSoftResetRow.String()
	v.LegalIntents = []game.Intent{
		game.OptionChoice(0, "0:score"),
		game.OptionChoice(0, "1:royalty"),
		game.OptionChoice(0, "1:score"),
	}

	in, err := NewGreedyStrategy().ChooseMidTurnPick(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, "1:score", in.Option)
}

// TestStrategiesNeedLegalIntents verifies empty views error out
func TestStrategiesNeedLegalIntents(t *testing.T) {
	_, err := NewGreedyStrategy().ChooseTurnAction(context.Background(), baseView())
	assert.Error(t, err)
	_, err = NewRandomStrategy(1).ChooseMidTurnPick(context.Background(), baseView())
	assert.Error(t, err)
}

// TestRandomStaysLegal verifies random picks come from the offered list
func TestRandomStaysLegal(t *testing.T) {
	v := baseView()
	v.LegalIntents = []game.Intent{game.Draw(0), game.SwapBarChoice(0, 2, "")}
	r := NewRandomStrategy(7)
	for i := 0; i < 50; i++ {
		dec, err := r.ChooseTurnAction(context.Background(), v)
		require.NoError(t, err)
		assert.Contains(t, v.LegalIntents, dec.Intent)
	}
}

// TestStrategiesFinishGames verifies full adapter games keep every card accounted for
func TestStrategiesFinishGames(t *testing.T) {
	pairs := []struct {
		name string
		a, b game.DecisionAdapter
	}{
		{"random-vs-random", NewRandomStrategy(1), NewRandomStrategy(2)},
		{"greedy-vs-random", NewGreedyStrategy(), NewRandomStrategy(3)},
		{"greedy-vs-greedy", NewGreedyStrategy(), NewGreedyStrategy()},
	}
	for i, p := range pairs {
		i, p := i, p
		t.Run(p.name, func(t *testing.T) {
			opts := game.DefaultOptions()
			opts.Seed = int64(100 + i)
			e, err := game.NewEngine(opts, zaptest.NewLogger(t))
			require.NoError(t, err)

			s := game.NewSession(p.name, e, [2]game.DecisionAdapter{p.a, p.b},
				game.SessionConfig{DecisionTimeout: time.Second, MaxAdapterSteps: 5000}, zaptest.NewLogger(t))
			winner, err := s.RunToCompletion(context.Background())
			if err != nil {
				require.ErrorIs(t, err, game.ErrStepLimit)
			} else {
				assert.Contains(t, []int{0, 1}, winner)
			}
			s.Inspect(func(e *game.Engine) {
				assert.NoError(t, e.CheckConservation())
			})
		})
	}
}
