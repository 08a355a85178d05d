package game

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game/rules"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/scoring"
)

// funcAdapter adapts plain functions to DecisionAdapter.
type funcAdapter struct {
	turn    func(ctx context.Context, view GameView) (TurnDecision, error)
	counter func(ctx context.Context, view GameView, legal []CardView) (CounterDecision, error)
	pick    func(ctx context.Context, view GameView) (Intent, error)
}

func (f funcAdapter) ChooseTurnAction(ctx context.Context, view GameView) (TurnDecision, error) {
	return f.turn(ctx, view)
}

func (f funcAdapter) ChooseCounterResponse(ctx context.Context, view GameView, legal []CardView) (CounterDecision, error) {
	return f.counter(ctx, view, legal)
}

func (f funcAdapter) ChooseMidTurnPick(ctx context.Context, view GameView) (Intent, error) {
	return f.pick(ctx, view)
}

var errNoIdea = errors.New("no idea")

// failingAdapter errors on every decision.
func failingAdapter() DecisionAdapter {
	return funcAdapter{
		turn: func(context.Context, GameView) (TurnDecision, error) { return TurnDecision{}, errNoIdea },
		counter: func(context.Context, GameView, []CardView) (CounterDecision, error) {
			return CounterDecision{}, errNoIdea
		},
		pick: func(context.Context, GameView) (Intent, error) { return Intent{}, errNoIdea },
	}
}

// blockingAdapter waits for its deadline on every decision.
func blockingAdapter() DecisionAdapter {
	wait := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	return funcAdapter{
		turn: func(ctx context.Context, _ GameView) (TurnDecision, error) { return TurnDecision{}, wait(ctx) },
		counter: func(ctx context.Context, _ GameView, _ []CardView) (CounterDecision, error) {
			return CounterDecision{}, wait(ctx)
		},
		pick: func(ctx context.Context, _ GameView) (Intent, error) { return Intent{}, wait(ctx) },
	}
}

// randomAdapter picks uniformly among the legal intents in its view.
func randomAdapter(seed int64) DecisionAdapter {
	rng := rand.New(rand.NewSource(seed))
	pick := func(_ context.Context, view GameView) (Intent, error) {
		return view.LegalIntents[rng.Intn(len(view.LegalIntents))], nil
	}
	return funcAdapter{
		turn: func(ctx context.Context, view GameView) (TurnDecision, error) {
			in, err := pick(ctx, view)
			return TurnDecision{Intent: in, Reasoning: "random"}, err
		},
		counter: func(_ context.Context, _ GameView, legal []CardView) (CounterDecision, error) {
			if len(legal) == 0 || rng.Intn(2) == 0 {
				return CounterDecision{Pass: true}, nil
			}
			return CounterDecision{CardID: legal[rng.Intn(len(legal))].ID}, nil
		},
		pick: pick,
	}
}

func newTestSession(t *testing.T, adapters [2]DecisionAdapter, cfg SessionConfig) *Session {
	t.Helper()
	e, err := NewEngine(testOptions(), zaptest.NewLogger(t))
	require.NoError(t, err)
	return NewSession("session-1", e, adapters, cfg, zaptest.NewLogger(t))
}

// TestSessionFallbackOnTimeout verifies a silent adapter is replaced by a draw
func TestSessionFallbackOnTimeout(t *testing.T) {
	s := newTestSession(t, [2]DecisionAdapter{blockingAdapter(), nil}, SessionConfig{DecisionTimeout: 20 * time.Millisecond})

	start := time.Now()
	require.NoError(t, s.Submit(context.Background(), StartNewGameIntent()))
	assert.Less(t, time.Since(start), 2*time.Second)

	view := s.View(1)
	assert.Equal(t, 2, view.Turn)
	assert.Equal(t, 1, view.CurrentSeat)
	assert.Equal(t, 4, view.Players[0].HandSize, "the fallback draws a card")
}

// TestSessionFallbackOnError verifies a failing adapter still makes progress
func TestSessionFallbackOnError(t *testing.T) {
	s := newTestSession(t, [2]DecisionAdapter{failingAdapter(), nil}, DefaultSessionConfig())

	require.NoError(t, s.Submit(context.Background(), StartNewGameIntent()))
	assert.Equal(t, 1, s.View(1).CurrentSeat)
}

// TestSessionFallbackOnPanic verifies a panicking adapter cannot take the session down
func TestSessionFallbackOnPanic(t *testing.T) {
	panicky := funcAdapter{
		turn:    func(context.Context, GameView) (TurnDecision, error) { panic("boom") },
		counter: func(context.Context, GameView, []CardView) (CounterDecision, error) { panic("boom") },
		pick:    func(context.Context, GameView) (Intent, error) { panic("boom") },
	}
	s := newTestSession(t, [2]DecisionAdapter{panicky, nil}, DefaultSessionConfig())

	require.NoError(t, s.Submit(context.Background(), StartNewGameIntent()))
	assert.Equal(t, 1, s.View(1).CurrentSeat)
}

// TestSessionFallbackOnIllegalAnswer verifies an illegal adapter intent is replaced
func TestSessionFallbackOnIllegalAnswer(t *testing.T) {
	cheater := funcAdapter{
		turn: func(context.Context, GameView) (TurnDecision, error) {
			return TurnDecision{Intent: PlayForEffect(0, "no-such-card")}, nil
		},
		counter: func(context.Context, GameView, []CardView) (CounterDecision, error) {
			return CounterDecision{CardID: "no-such-card"}, nil
		},
		pick: func(context.Context, GameView) (Intent, error) { return Intent{Type: "bogus"}, nil },
	}
	s := newTestSession(t, [2]DecisionAdapter{cheater, nil}, DefaultSessionConfig())

	require.NoError(t, s.Submit(context.Background(), StartNewGameIntent()))
	view := s.View(1)
	assert.Equal(t, 1, view.CurrentSeat)
	assert.Equal(t, 4, view.Players[0].HandSize)
}

// TestSessionRejectsIntentsForAdapterSeats verifies humans cannot act for an adapter
func TestSessionRejectsIntentsForAdapterSeats(t *testing.T) {
	s := newTestSession(t, [2]DecisionAdapter{nil, failingAdapter()}, DefaultSessionConfig())
	require.NoError(t, s.Submit(context.Background(), StartNewGameIntent()))

	err := s.Submit(context.Background(), Draw(1))
	assert.True(t, IsIllegal(err))

	require.NoError(t, s.Submit(context.Background(), Draw(0)))
	view := s.View(0)
	assert.Equal(t, 3, view.Turn, "the adapter seat answered at once")
	assert.Equal(t, 0, view.CurrentSeat)
}

// TestSessionStepLimit verifies adapter-only sessions cannot spin forever
func TestSessionStepLimit(t *testing.T) {
	s := newTestSession(t, [2]DecisionAdapter{failingAdapter(), failingAdapter()},
		SessionConfig{DecisionTimeout: time.Second, MaxAdapterSteps: 25})

	_, err := s.RunToCompletion(context.Background())
	assert.ErrorIs(t, err, ErrStepLimit)
}

// TestSessionRunToCompletionNeedsAdapters verifies human seats cannot be auto-played
func TestSessionRunToCompletionNeedsAdapters(t *testing.T) {
	s := newTestSession(t, [2]DecisionAdapter{randomAdapter(1), nil}, DefaultSessionConfig())
	_, err := s.RunToCompletion(context.Background())
	assert.Error(t, err)
}

// TestSessionCancelledContext verifies cancellation stops the adapter loop
func TestSessionCancelledContext(t *testing.T) {
	s := newTestSession(t, [2]DecisionAdapter{randomAdapter(1), randomAdapter(2)}, DefaultSessionConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.RunToCompletion(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestSessionRecordsVerifiableReplay verifies that adapter games replay exactly
func TestSessionRecordsVerifiableReplay(t *testing.T) {
	recorder := NewReplayRecorder(zaptest.NewLogger(t), t.TempDir())
	s := newTestSession(t, [2]DecisionAdapter{randomAdapter(3), randomAdapter(4)},
		SessionConfig{DecisionTimeout: time.Second, MaxAdapterSteps: 400})
	s.WithRecorder(recorder)

	_, err := s.RunToCompletion(context.Background())
	if err != nil {
		require.ErrorIs(t, err, ErrStepLimit)
	}

	replay, ok := recorder.GetReplay(s.ID)
	require.True(t, ok)
	require.Greater(t, replay.Size(), 1)

	replayed, err := replay.Verify(zaptest.NewLogger(t))
	require.NoError(t, err)
	s.Inspect(func(e *Engine) {
		assert.Equal(t, e.Checksum(), replayed.Checksum())
		assert.NoError(t, e.CheckConservation())
	})
}

// TestSessionLogsWinUntilClosed verifies the session reports the game result
// and stops listening once closed
func TestSessionLogsWinUntilClosed(t *testing.T) {
	e := arrangedEngine(t, table{
		active: 0,
		hands:  [2][]string{{"3D"}, {"KS"}},
		score:  [2][]string{{"10C", "8C"}, nil},
	})
	core, logs := observer.New(zap.InfoLevel)
	s := NewSession("won", e, [2]DecisionAdapter{}, DefaultSessionConfig(), zap.New(core))

	require.NoError(t, s.Submit(context.Background(), PlayToRow(0, "3D", scoring.RowScore)))
	finished := logs.FilterMessage("game finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, int64(0), finished[0].ContextMap()["winner"])
	assert.Equal(t, int64(21), finished[0].ContextMap()["score"])

	s.Close()
	e.Events().Publish(rules.NewEvent(rules.EventGameWon, 1, "", "late"))
	assert.Equal(t, 1, logs.FilterMessage("game finished").Len())
}

// TestFallbackIntent verifies the deterministic defaults
func TestFallbackIntent(t *testing.T) {
	turn := GameView{Seat: 0, CurrentSeat: 0, ActionState: ActionStateIdle.String(), LegalIntents: []Intent{Draw(0)}}
	assert.Equal(t, Draw(0), fallbackIntent(turn, nil))

	counter := GameView{Seat: 1, CurrentSeat: 1, ActionState: ActionStateAwaitingCounter.String()}
	assert.Equal(t, PassCounter(1), fallbackIntent(counter, nil))
	assert.Equal(t, PlayCounter(1, "KS"), fallbackIntent(counter, []CardView{{ID: "KS"}}))

	pick := GameView{Seat: 0, CurrentSeat: 0, ActionState: ActionStateAwaitingFarmerReturn.String(),
		LegalIntents: []Intent{CardChoice(0, "2H"), CardChoice(0, "3H")}}
	assert.Equal(t, CardChoice(0, "2H"), fallbackIntent(pick, nil))
}
