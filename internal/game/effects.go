package game

import (
	"go.uber.org/zap"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game/cards"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/rules"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/scoring"
)

// effectFunc applies a successful action and reports whether the turn may
// end. False means a sub-phase or follow-up action is pending.
type effectFunc func(e *Engine, ctx *ActionContext) bool

// actionEffects is filled in init: the effects reach applyEffect again
// through propose, which a map literal would turn into an initialization cycle.
var actionEffects map[rules.ActionKind]effectFunc

func init() {
	actionEffects = map[rules.ActionKind]effectFunc{
		rules.ActionPlayToScore:      (*Engine).effectPlayToRow,
		rules.ActionPlayToRoyalty:    (*Engine).effectPlayToRow,
		rules.ActionRoyalMarriage:    (*Engine).effectRoyalMarriage,
		rules.ActionScuttle:          (*Engine).effectScuttle,
		rules.ActionBaseEffect:       (*Engine).effectBase,
		rules.ActionRummager:         (*Engine).effectRummager,
		rules.ActionSecondQueenEdict: (*Engine).effectSecondQueenEdict,
	}
	baseEffects = map[cards.Rank]effectFunc{
		cards.RankJack: (*Engine).effectJack,
		cards.Rank7:    (*Engine).effectLuckyDraw,
		cards.Rank6:    (*Engine).effectFarmer,
		cards.Rank4:    (*Engine).effectSoftReset,
		cards.Rank3:    (*Engine).effectInterrogator,
		cards.Rank2:    (*Engine).effectMimic,
	}
}

func (e *Engine) applyEffect(ctx *ActionContext) bool {
	fn, ok := actionEffects[ctx.Kind]
	if !ok {
		e.logger.Warn("no effect registered", zap.Stringer("kind", ctx.Kind))
		return true
	}
	return fn(e, ctx)
}

func (e *Engine) effectPlayToRow(ctx *ActionContext) bool {
	s := e.state
	p := s.Players[ctx.Actor]
	hadQueen := cards.CountRank(p.RoyaltyRow, cards.RankQueen) > 0
	hadEight := cards.CountRank(p.ScoreRow, cards.Rank8) > 0

	card := e.takeFromHand(p, first(ctx.CardIDs))
	if card == nil {
		e.logger.Warn("played card left the hand", zap.String("card", first(ctx.CardIDs)))
		return true
	}
	e.placeInRow(p, card, ctx.Row)
	e.emit(rules.EventCardPlayed, ctx.Actor, card.ID, "%s plays %s to the %s row", p.Name, card.ID, ctx.Row)
	if e.checkScoreWin() {
		return false
	}

	switch {
	case ctx.Row == scoring.RowRoyalty && card.Rank == cards.RankQueen && hadQueen:
		e.propose(&ActionContext{Kind: rules.ActionSecondQueenEdict, Actor: ctx.Actor, EffectRank: cards.RankQueen})
		return false
	case ctx.Row == scoring.RowScore && card.Rank == cards.Rank8:
		card.Protected = true
		if hadEight {
			opp := s.Opponent(ctx.Actor)
			opp.HandRevealedUntilTurn = s.Turn() + e.settings.HandRevealTurns
			e.emit(rules.EventHandRevealed, opp.ID, "", "%s must show their hand until turn %d", opp.Name, opp.HandRevealedUntilTurn)
		}
		if hadQueen {
			e.drawCard(ctx.Actor)
		}
		return true
	case ctx.Row == scoring.RowScore && card.Rank == cards.Rank5:
		if len(s.DiscardPile) == 0 {
			return true
		}
		e.propose(&ActionContext{Kind: rules.ActionRummager, Actor: ctx.Actor, EffectRank: cards.Rank5})
		return false
	}
	return true
}

func (e *Engine) effectRoyalMarriage(ctx *ActionContext) bool {
	p := e.state.Players[ctx.Actor]
	for _, id := range ctx.CardIDs {
		if c := e.takeFromHand(p, id); c != nil {
			e.placeInRow(p, c, scoring.RowRoyalty)
		}
	}
	e.emit(rules.EventCardPlayed, ctx.Actor, first(ctx.CardIDs), "%s weds %v in the royalty row", p.Name, ctx.CardIDs)
	return true
}

func (e *Engine) effectScuttle(ctx *ActionContext) bool {
	s := e.state
	p := s.Players[ctx.Actor]
	opp := s.Opponent(ctx.Actor)

	attacker := e.takeFromHand(p, first(ctx.CardIDs))
	if attacker == nil {
		e.logger.Warn("scuttling card left the hand", zap.String("card", first(ctx.CardIDs)))
		return true
	}
	rank := attacker.Rank
	e.discard(attacker, ctx.Actor)

	idx := cards.IndexOf(opp.ScoreRow, ctx.TargetID)
	if idx < 0 {
		return true
	}
	target := opp.ScoreRow[idx]
	if target.Protected && rank != cards.Rank10 {
		target.Protected = false
		e.emit(rules.EventProtectionUsed, opp.ID, target.ID, "%s is shielded and survives the scuttle", target.ID)
	} else {
		removed := e.removeFromRow(opp, scoring.RowScore, target.ID)
		e.discard(removed, opp.ID)
		ev := rules.NewEvent(rules.EventScuttled, ctx.Actor, attacker.ID, p.Name+" scuttles "+removed.ID)
		ev.TargetID = removed.ID
		e.events.Publish(ev)
	}

	if rank == cards.Rank9 {
		return !e.openNinePeek(ctx.Actor)
	}
	return true
}

func (e *Engine) openNinePeek(seat int) bool {
	if e.revealTop(seat, 2, ChoiceNinePeek) == 0 {
		return false
	}
	e.state.EffectContext = NinePeekContext{}
	e.state.ActionState = ActionStateAwaitingNinePeekPick
	return true
}

func (e *Engine) effectRummager(ctx *ActionContext) bool {
	s := e.state
	n := len(s.DiscardPile)
	if n == 0 {
		return true
	}
	k := 2
	if n < k {
		k = n
	}
	picked := append([]*cards.Card(nil), s.DiscardPile[n-k:]...)
	s.DiscardPile = s.DiscardPile[:n-k]
	s.CardChoices = picked
	s.CardChoiceContext = ChoiceRummager
	s.EffectContext = RummagerContext{}
	s.ActionState = ActionStateAwaitingRummagerPick
	e.emit(rules.EventCardsRevealed, ctx.Actor, "", "%s rummages through %v", s.Players[ctx.Actor].Name, cards.IDs(picked))
	return false
}

func (e *Engine) effectSecondQueenEdict(ctx *ActionContext) bool {
	s := e.state
	if !e.drawCard(ctx.Actor) {
		return true
	}
	opp := s.Opponent(ctx.Actor)
	for _, c := range e.randomHandCards(opp, 1) {
		e.discard(c, opp.ID)
	}
	e.emit(rules.EventEffectApplied, ctx.Actor, "", "The second queen's edict strikes %s", opp.Name)
	return true
}
