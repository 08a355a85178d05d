package game

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game/cards"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/rules"
)

// propose records an action. Uncounterable actions resolve at once; the rest
// open a counter window with the opponent to act.
func (e *Engine) propose(ctx *ActionContext) {
	s := e.state
	ctx.ID = uuid.NewString()
	s.clearTransient()
	s.ActionState = ActionStateIdle

	ev := rules.NewEvent(rules.EventActionProposed, ctx.Actor, first(ctx.CardIDs),
		s.Players[ctx.Actor].Name+" proposes "+ctx.Describe())
	ev.ActionID = ctx.ID
	ev.TargetID = ctx.TargetID
	e.events.Publish(ev)

	if !ctx.Kind.Counterable(ctx.EffectRank) {
		e.logger.Debug("action resolves unopposed",
			zap.String("action_id", ctx.ID),
			zap.Stringer("kind", ctx.Kind),
		)
		e.resolve(ctx, true)
		return
	}

	s.ActionContext = ctx
	s.CounterStack.Drain()
	s.ConsecutivePasses = 0
	s.turns.SetCurrent(rules.Opponent(ctx.Actor))
	s.Phase = rules.PhaseCounterResolution
	s.ActionState = ActionStateAwaitingCounter
	e.logger.Debug("counter window opened",
		zap.String("action_id", ctx.ID),
		zap.Stringer("kind", ctx.Kind),
		zap.Int("actor", ctx.Actor),
	)
}

// LegalCounterCards lists the hand cards the seat may counter with now.
func (e *Engine) LegalCounterCards(seat int) []*cards.Card {
	s := e.state
	ctx := s.ActionContext
	if s.ActionState != ActionStateAwaitingCounter || ctx == nil || seat != s.CurrentPlayerIndex() {
		return nil
	}
	var out []*cards.Card
	for _, c := range s.Players[seat].Hand {
		if seat == ctx.Actor && contains(ctx.CardIDs, c.ID) {
			continue
		}
		if rules.IsLegalCounter(ctx.Kind, ctx.EffectRank, s.CounterStack.Len(), c.Rank) {
			out = append(out, c)
		}
	}
	return out
}

func (e *Engine) pendingAction() (*ActionContext, error) {
	s := e.state
	if s.ActionState != ActionStateAwaitingCounter || s.ActionContext == nil {
		return nil, illegalWrap(ErrNoPendingAction, "nothing to respond to")
	}
	return s.ActionContext, nil
}

func (e *Engine) handlePlayCounter(in Intent) error {
	ctx, err := e.pendingAction()
	if err != nil {
		return err
	}
	s := e.state
	if in.Seat == ctx.Actor && contains(ctx.CardIDs, in.CardID) {
		return illegalf("%s is committed to the pending action", in.CardID)
	}
	depth := s.CounterStack.Len()
	if res := e.legality.CheckCounter(in.Seat, in.CardID, ctx.Kind, ctx.EffectRank, depth); !res.Legal {
		return illegalf("%s", res)
	}

	card := e.takeFromHand(s.Players[in.Seat], in.CardID)
	card.FaceUp = true
	s.CounterStack.Push(rules.CounterEntry{Card: card, Seat: in.Seat})
	s.ConsecutivePasses = 0
	s.turns.Flip()

	ev := rules.NewEvent(rules.EventCounterPlayed, in.Seat, card.ID,
		s.Players[in.Seat].Name+" counters with "+card.ID)
	ev.ActionID = ctx.ID
	ev.Amount = depth + 1
	e.events.Publish(ev)
	return nil
}

func (e *Engine) handlePassCounter(in Intent) error {
	ctx, err := e.pendingAction()
	if err != nil {
		return err
	}
	s := e.state
	s.ConsecutivePasses++

	ev := rules.NewEvent(rules.EventCounterPassed, in.Seat, "", s.Players[in.Seat].Name+" passes")
	ev.ActionID = ctx.ID
	ev.Amount = s.CounterStack.Len()
	e.events.Publish(ev)

	if in.Seat == ctx.Actor {
		s.turns.Flip()
		return nil
	}
	e.resolve(ctx, s.CounterStack.Len()%2 == 0)
	return nil
}

// resolve closes the counter window and applies or denies the action.
func (e *Engine) resolve(ctx *ActionContext, success bool) {
	s := e.state
	s.ActionContext = nil
	for _, entry := range s.CounterStack.Drain() {
		e.discard(entry.Card, entry.Seat)
	}
	s.ConsecutivePasses = 0
	s.turns.SetCurrent(ctx.Actor)
	s.Phase = e.playPhase()
	s.ActionState = ActionStateIdle

	outcome := "succeeds"
	if !success {
		outcome = "is denied"
	}
	ev := rules.NewEvent(rules.EventActionResolved, ctx.Actor, first(ctx.CardIDs), ctx.Describe()+" "+outcome)
	ev.ActionID = ctx.ID
	ev.Flag = success
	e.events.Publish(ev)
	e.logger.Debug("action resolved",
		zap.String("action_id", ctx.ID),
		zap.Stringer("kind", ctx.Kind),
		zap.Bool("success", success),
	)

	if !success {
		if !ctx.SourceConsumed {
			p := s.Players[ctx.Actor]
			for _, id := range ctx.CardIDs {
				if c := e.takeFromHand(p, id); c != nil {
					e.discard(c, ctx.Actor)
				}
			}
		}
		e.afterEffect(true)
		return
	}
	e.afterEffect(e.applyEffect(ctx))
}

func (e *Engine) playPhase() rules.Phase {
	if e.state.turns.IsFirstTurn() {
		return rules.PhaseFirstTurn
	}
	return rules.PhaseNormal
}

// afterEffect runs the win check that follows every effect, then ends the
// turn when the effect left nothing pending.
func (e *Engine) afterEffect(turnShouldEnd bool) {
	if e.state.HasWinner() {
		return
	}
	if e.checkScoreWin() {
		return
	}
	if turnShouldEnd {
		e.endTurn()
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
