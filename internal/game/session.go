package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game/rules"
)

// ErrStepLimit is returned when adapter seats keep acting past the step guard.
var ErrStepLimit = errors.New("adapter step limit reached")

// TurnDecision is an adapter's choice of turn action.
type TurnDecision struct {
	Intent    Intent
	Reasoning string
}

// CounterDecision is an adapter's answer to a pending action.
type CounterDecision struct {
	Pass      bool
	CardID    string
	Reasoning string
}

// DecisionAdapter chooses for a non-human seat. It only ever sees the
// redacted view and answers with intents the engine validates like any other.
type DecisionAdapter interface {
	ChooseTurnAction(ctx context.Context, view GameView) (TurnDecision, error)
	ChooseCounterResponse(ctx context.Context, view GameView, legal []CardView) (CounterDecision, error)
	ChooseMidTurnPick(ctx context.Context, view GameView) (Intent, error)
}

// SessionConfig bounds adapter behavior.
type SessionConfig struct {
	DecisionTimeout time.Duration
	MaxAdapterSteps int
}

// DefaultSessionConfig returns the standard adapter bounds.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		DecisionTimeout: 3 * time.Second,
		MaxAdapterSteps: 500,
	}
}

// Session owns one engine and is its single writer. Every intent, human or
// adapter, is applied under the session lock.
type Session struct {
	ID string

	mu       sync.Mutex
	engine   *Engine
	adapters [2]DecisionAdapter
	cfg      SessionConfig
	logger   *zap.Logger
	recorder *ReplayRecorder
	onWon    int
}

// NewSession wraps an engine. A nil adapter marks a human seat.
func NewSession(id string, engine *Engine, adapters [2]DecisionAdapter, cfg SessionConfig, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DecisionTimeout <= 0 {
		cfg.DecisionTimeout = DefaultSessionConfig().DecisionTimeout
	}
	if cfg.MaxAdapterSteps <= 0 {
		cfg.MaxAdapterSteps = DefaultSessionConfig().MaxAdapterSteps
	}
	s := &Session{
		ID:       id,
		engine:   engine,
		adapters: adapters,
		cfg:      cfg,
		logger:   logger.With(zap.String("session_id", id)),
	}
	s.onWon = engine.Events().SubscribeTyped(rules.EventGameWon, s.logGameWon)
	return s
}

// logGameWon runs inside Apply, with the session lock already held.
func (s *Session) logGameWon(ev rules.Event) {
	s.logger.Info("game finished",
		zap.Int("winner", ev.Seat),
		zap.Int("score", ev.Amount),
		zap.String("result", ev.Description),
	)
}

// Close detaches the session from its engine's event bus.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Events().Unsubscribe(s.onWon)
}

// WithRecorder records every accepted intent into rec.
func (s *Session) WithRecorder(rec *ReplayRecorder) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder = rec
	if rec != nil {
		opts := s.engine.opts
		opts.Seed = s.engine.Seed()
		rec.StartRecording(s.ID, opts)
	}
	return s
}

// Submit applies a human intent, then lets adapter seats act until a human
// seat is to act again or the game ends.
func (s *Session) Submit(ctx context.Context, intent Intent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if intent.Type != IntentStartNewGame && intent.Type != IntentResetGame {
		if seat := intent.Seat; seat == 0 || seat == 1 {
			if s.adapters[seat] != nil {
				return illegalf("seat %d is played by an adapter", seat)
			}
		}
	}
	if err := s.apply(intent); err != nil {
		return err
	}
	return s.drive(ctx)
}

// Drive lets adapter seats act without a human intent, e.g. when an adapter
// holds the opening turn.
func (s *Session) Drive(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drive(ctx)
}

// View returns the redacted view for a seat.
func (s *Session) View(seat int) GameView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.View(seat)
}

// Inspect runs fn with the engine under the session lock.
func (s *Session) Inspect(fn func(*Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.engine)
}

// RunToCompletion starts a game and lets adapters play it out. Every seat
// must have an adapter.
func (s *Session) RunToCompletion(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for seat, a := range s.adapters {
		if a == nil {
			return NoSeat, fmt.Errorf("seat %d has no adapter", seat)
		}
	}
	if err := s.apply(StartNewGameIntent()); err != nil {
		return NoSeat, err
	}
	if err := s.drive(ctx); err != nil {
		return NoSeat, err
	}
	return s.engine.state.Winner, nil
}

func (s *Session) apply(intent Intent) error {
	if err := s.engine.Apply(intent); err != nil {
		return err
	}
	if s.recorder != nil {
		s.recorder.Record(s.ID, intent, s.engine.Checksum())
	}
	return nil
}

func (s *Session) drive(ctx context.Context) error {
	for steps := 0; ; steps++ {
		st := s.engine.state
		if st.HasWinner() || st.Phase == rules.PhaseStartScreen {
			return nil
		}
		seat := st.CurrentPlayerIndex()
		if s.adapters[seat] == nil {
			return nil
		}
		if steps >= s.cfg.MaxAdapterSteps {
			s.logger.Warn("adapter step limit reached", zap.Int("steps", steps), zap.Int("turn", st.Turn()))
			return ErrStepLimit
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.stepAdapter(ctx, seat); err != nil {
			return err
		}
	}
}

// stepAdapter asks the seat's adapter for one intent. A failed, late or
// illegal answer falls back to a deterministic legal intent.
func (s *Session) stepAdapter(ctx context.Context, seat int) error {
	adapter := s.adapters[seat]
	view := s.engine.View(seat)
	if len(view.LegalIntents) == 0 {
		return fmt.Errorf("seat %d has no legal intent in %s", seat, view.ActionState)
	}

	var (
		intent Intent
		err    error
	)
	counters := counterViews(s.engine, seat)
	switch {
	case view.IsAwaitingCounter():
		var dec CounterDecision
		dec, err = withTimeout(ctx, s.cfg.DecisionTimeout, func(ctx context.Context) (CounterDecision, error) {
			return adapter.ChooseCounterResponse(ctx, view, counters)
		})
		if dec.Pass {
			intent = PassCounter(seat)
		} else {
			intent = PlayCounter(seat, dec.CardID)
		}
	case view.IsTurnDecision():
		var dec TurnDecision
		dec, err = withTimeout(ctx, s.cfg.DecisionTimeout, func(ctx context.Context) (TurnDecision, error) {
			return adapter.ChooseTurnAction(ctx, view)
		})
		intent = dec.Intent
	default:
		intent, err = withTimeout(ctx, s.cfg.DecisionTimeout, func(ctx context.Context) (Intent, error) {
			return adapter.ChooseMidTurnPick(ctx, view)
		})
	}

	if err == nil {
		intent.Seat = seat
		if err = s.apply(intent); err == nil {
			return nil
		}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	fallback := fallbackIntent(view, counters)
	s.logger.Warn("adapter decision replaced by fallback",
		zap.Int("seat", seat),
		zap.String("action_state", view.ActionState),
		zap.String("fallback", fallback.String()),
		zap.Error(err),
	)
	return s.apply(fallback)
}

// fallbackIntent is the deterministic default: draw on a turn, the first
// legal counter (else pass) on a pending action, the first pick otherwise.
func fallbackIntent(view GameView, counters []CardView) Intent {
	switch {
	case view.IsAwaitingCounter():
		if len(counters) > 0 {
			return PlayCounter(view.Seat, counters[0].ID)
		}
		return PassCounter(view.Seat)
	case view.IsTurnDecision():
		return Draw(view.Seat)
	}
	return view.LegalIntents[0]
}

func counterViews(e *Engine, seat int) []CardView {
	legal := e.LegalCounterCards(seat)
	out := make([]CardView, len(legal))
	for i, c := range legal {
		out[i] = cardView(c)
	}
	return out
}

// withTimeout runs an adapter call under a deadline and converts panics into
// errors.
func withTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: fmt.Errorf("adapter panic: %v", r)}
			}
		}()
		v, err := fn(ctx)
		ch <- result{value: v, err: err}
	}()

	select {
	case r := <-ch:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
