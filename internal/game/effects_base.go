package game

import (
	"go.uber.org/zap"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game/cards"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/rules"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/targeting"
)

// Option values offered by the base effects.
const (
	OptionInterrogateDiscard = "discard"
	OptionInterrogateSteal   = "steal"
	OptionDeckTop            = "deck-top"
	OptionDeckBottom         = "deck-bottom"
	OptionDiscardTop         = "discard-top"
)

// MimicRanks are the ranks a 2 may copy.
var MimicRanks = []cards.Rank{cards.Rank3, cards.Rank4, cards.Rank6, cards.Rank7}

var stealRequirement = targeting.TargetRequirement{
	Type:        targeting.TargetTypeStealable,
	MinTargets:  1,
	MaxTargets:  1,
	Description: "a card in a score row",
}

// baseEffects is keyed by effect rank and filled alongside actionEffects.
var baseEffects map[cards.Rank]effectFunc

func (e *Engine) effectBase(ctx *ActionContext) bool {
	p := e.state.Players[ctx.Actor]
	if !ctx.SourceConsumed {
		if c := e.takeFromHand(p, first(ctx.CardIDs)); c != nil {
			e.discard(c, ctx.Actor)
		}
	}
	parent, nested := e.resolution.Current()
	if err := e.resolution.BeginResolution(ctx.ID, ctx.EffectRank); err != nil {
		e.logger.Warn("effect not resolved", zap.Stringer("rank", ctx.EffectRank), zap.Error(err))
		return true
	}
	fn, ok := baseEffects[ctx.EffectRank]
	if !ok {
		return true
	}

	text := p.Name + " resolves the " + ctx.EffectRank.String() + " effect"
	if nested {
		text += " through the " + parent.Rank.String()
	}
	ev := rules.NewEvent(rules.EventEffectApplied, ctx.Actor, first(ctx.CardIDs), text)
	ev.ActionID = ctx.ID
	ev.Amount = e.resolution.GetDepth()
	e.events.Publish(ev)
	return fn(e, ctx)
}

// effectJack steals a card from any non-immune score row.
func (e *Engine) effectJack(ctx *ActionContext) bool {
	if len(e.targets.LegalTargets(ctx.Actor, stealRequirement)) == 0 {
		return true
	}
	s := e.state
	s.EffectContext = JackStealContext{}
	s.ActionState = ActionStateAwaitingJackTarget
	return false
}

// effectLuckyDraw reveals the top two cards.
func (e *Engine) effectLuckyDraw(ctx *ActionContext) bool {
	return !e.openLuckyDraw(ctx.Actor)
}

func (e *Engine) openLuckyDraw(seat int) bool {
	if e.revealTop(seat, 2, ChoiceLuckyDraw) == 0 {
		return false
	}
	s := e.state
	s.EffectContext = LuckyDrawContext{ChainUsed: e.resolution.ChainUsed()}
	s.ActionState = ActionStateAwaitingLuckyDrawPick
	return true
}

// effectFarmer reveals the top three cards; one goes back, the rest are kept.
func (e *Engine) effectFarmer(ctx *ActionContext) bool {
	s := e.state
	switch e.revealTop(ctx.Actor, 3, ChoiceFarmer) {
	case 0:
		return true
	case 1:
		for _, c := range e.drainChoices() {
			e.addToHand(s.Players[ctx.Actor], c)
		}
		s.CardChoiceContext = ChoiceNone
		return true
	}
	s.EffectContext = FarmerContext{}
	s.ActionState = ActionStateAwaitingFarmerReturn
	return false
}

// effectSoftReset offers every non-empty row of a non-immune seat.
func (e *Engine) effectSoftReset(ctx *ActionContext) bool {
	rows := e.targets.LegalRows()
	if len(rows) == 0 {
		return true
	}
	s := e.state
	s.OptionChoices = make([]Option, 0, len(rows))
	for _, rt := range rows {
		s.OptionChoices = append(s.OptionChoices, Option{
			Label: s.Players[rt.Seat].Name + " " + rt.Row.String() + " row",
			Value: rt.String(),
		})
	}
	s.EffectContext = SoftResetContext{TargetSeat: NoSeat}
	s.ActionState = ActionStateAwaitingSoftResetRow
	return false
}

// effectInterrogator works on the opponent's hand.
func (e *Engine) effectInterrogator(ctx *ActionContext) bool {
	s := e.state
	if len(s.Opponent(ctx.Actor).Hand) == 0 {
		return true
	}
	s.OptionChoices = []Option{
		{Label: "Opponent discards 2 at random", Value: OptionInterrogateDiscard},
		{Label: "Steal 1 of 3 random cards", Value: OptionInterrogateSteal},
	}
	s.EffectContext = InterrogatorContext{}
	s.ActionState = ActionStateAwaitingInterrogatorMode
	return false
}

// effectMimic asks which effect to copy.
func (e *Engine) effectMimic(ctx *ActionContext) bool {
	s := e.state
	s.OptionChoices = make([]Option, 0, len(MimicRanks))
	for _, r := range MimicRanks {
		s.OptionChoices = append(s.OptionChoices, Option{Label: "Mimic " + r.String(), Value: r.String()})
	}
	s.EffectContext = MimicContext{}
	s.ActionState = ActionStateAwaitingMimicRank
	return false
}
