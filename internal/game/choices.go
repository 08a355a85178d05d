package game

import (
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/cards"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/rules"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/scoring"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/targeting"
)

// finishEffect closes a multi-step effect and lets the turn end.
func (e *Engine) finishEffect() {
	s := e.state
	s.clearTransient()
	s.ActionState = ActionStateIdle
	e.afterEffect(true)
}

func (e *Engine) requireChoice(id string) error {
	if cards.IndexOf(e.state.CardChoices, id) < 0 {
		return illegalf("%q is not among the offered cards", id)
	}
	return nil
}

func (e *Engine) requireOption(value string) error {
	for _, o := range e.state.OptionChoices {
		if o.Value == value {
			return nil
		}
	}
	return illegalf("%q is not among the offered options", value)
}

func (e *Engine) handleCardChoice(in Intent) error {
	s := e.state
	switch s.ActionState {
	case ActionStateAwaitingJackTarget:
		return e.chooseJackTarget(in)
	case ActionStateAwaitingOverchargeDiscard:
		return e.chooseOverchargeDiscard(in)
	case ActionStateAwaitingLuckyDrawPick,
		ActionStateAwaitingFarmerReturn,
		ActionStateAwaitingInterrogatorSteal,
		ActionStateAwaitingRummagerPick,
		ActionStateAwaitingNinePeekPick:
	default:
		return illegalf("no card choice is pending while %s", s.ActionState)
	}
	if err := e.requireChoice(in.CardID); err != nil {
		return err
	}

	p := s.Players[in.Seat]
	chosen := e.takeChoice(in.CardID)
	rest := e.drainChoices()

	switch s.ActionState {
	case ActionStateAwaitingLuckyDrawPick:
		if chosen.Rank == cards.Rank7 && !e.resolution.ChainUsed() {
			e.discard(chosen, in.Seat)
			e.keepAll(p, rest)
			e.resolution.MarkChainUsed()
			e.emit(rules.EventEffectApplied, in.Seat, chosen.ID, "%s chains the lucky draw", p.Name)
			s.clearTransient()
			if e.openLuckyDraw(in.Seat) {
				return nil
			}
			e.finishEffect()
			return nil
		}
		e.keepAll(p, rest)
		row := scoring.RowScore
		if chosen.Rank == cards.RankQueen || chosen.Rank == cards.RankKing {
			row = scoring.RowRoyalty
		}
		e.placeInRow(p, chosen, row)
		e.emit(rules.EventCardPlayed, in.Seat, chosen.ID, "%s places %s in the %s row", p.Name, chosen.ID, row)

	case ActionStateAwaitingFarmerReturn:
		e.returnToTop(chosen, false)
		e.keepAll(p, rest)
		e.emit(rules.EventEffectApplied, in.Seat, "", "%s returns a card to the deck and keeps %d", p.Name, len(rest))

	case ActionStateAwaitingInterrogatorSteal:
		opp := s.Opponent(in.Seat)
		e.addToHand(p, chosen)
		e.keepAll(opp, rest)
		ev := rules.NewEvent(rules.EventCardStolen, in.Seat, chosen.ID, p.Name+" steals a card from "+opp.Name)
		e.events.Publish(ev)

	case ActionStateAwaitingRummagerPick:
		e.addToHand(p, chosen)
		for _, c := range rest {
			c.FaceUp = true
			s.DiscardPile = append(s.DiscardPile, c)
		}
		e.emit(rules.EventEffectApplied, in.Seat, chosen.ID, "%s takes %s from the discard pile", p.Name, chosen.ID)

	case ActionStateAwaitingNinePeekPick:
		e.addToHand(p, chosen)
		for i := len(rest) - 1; i >= 0; i-- {
			e.returnToTop(rest[i], true)
		}
		e.emit(rules.EventEffectApplied, in.Seat, "", "%s keeps one peeked card", p.Name)
	}
	e.finishEffect()
	return nil
}

func (e *Engine) keepAll(p *Player, list []*cards.Card) {
	for _, c := range list {
		e.addToHand(p, c)
	}
}

func (e *Engine) chooseJackTarget(in Intent) error {
	if err := e.targets.ValidateTarget(in.Seat, in.CardID, stealRequirement); err != nil {
		return illegalf("%v", err)
	}
	s := e.state
	info, _ := s.FindCard(in.CardID)
	owner := s.Players[info.Owner]
	stolen := e.removeFromRow(owner, scoring.RowScore, in.CardID)
	stolen.FaceUp = true

	ev := rules.NewEvent(rules.EventCardStolen, in.Seat, stolen.ID, s.Players[in.Seat].Name+" steals "+stolen.ID)
	ev.TargetID = stolen.ID
	e.events.Publish(ev)

	var rows []scoring.Row
	for _, row := range []scoring.Row{scoring.RowScore, scoring.RowRoyalty} {
		if rules.CanPlayToRow(stolen.Rank, row) {
			rows = append(rows, row)
		}
	}
	if len(rows) == 1 {
		p := s.Players[in.Seat]
		e.placeInRow(p, stolen, rows[0])
		e.finishEffect()
		return nil
	}
	s.CardChoices = []*cards.Card{stolen}
	s.CardChoiceContext = ChoiceJackPlacement
	s.EffectContext = JackStealContext{StolenCardID: stolen.ID}
	s.OptionChoices = make([]Option, 0, len(rows))
	for _, row := range rows {
		s.OptionChoices = append(s.OptionChoices, Option{Label: "Place in " + row.String() + " row", Value: row.String()})
	}
	s.ActionState = ActionStateAwaitingJackPlacement
	return nil
}

func (e *Engine) handleOptionChoice(in Intent) error {
	s := e.state
	switch s.ActionState {
	case ActionStateAwaitingJackPlacement,
		ActionStateAwaitingSoftResetRow,
		ActionStateAwaitingSoftResetDrawSource,
		ActionStateAwaitingInterrogatorMode,
		ActionStateAwaitingMimicRank:
	default:
		return illegalf("no option choice is pending while %s", s.ActionState)
	}
	if err := e.requireOption(in.Option); err != nil {
		return err
	}
	p := s.Players[in.Seat]

	switch s.ActionState {
	case ActionStateAwaitingJackPlacement:
		row, err := scoring.ParseRow(in.Option)
		if err != nil || len(s.CardChoices) != 1 {
			return illegalf("cannot place the stolen card in %q", in.Option)
		}
		stolen := e.drainChoices()[0]
		e.placeInRow(p, stolen, row)
		e.emit(rules.EventCardPlayed, in.Seat, stolen.ID, "%s places %s in the %s row", p.Name, stolen.ID, row)
		e.finishEffect()

	case ActionStateAwaitingSoftResetRow:
		rt, err := targeting.ParseRowTarget(in.Option)
		if err != nil {
			return illegalf("%v", err)
		}
		if err := e.targets.ValidateRow(rt); err != nil {
			return illegalf("%v", err)
		}
		s.OptionChoices = nil
		s.EffectContext = SoftResetContext{TargetSeat: rt.Seat, Row: rt.Row}
		s.ActionState = ActionStateAwaitingSoftResetDiscard

	case ActionStateAwaitingSoftResetDrawSource:
		return e.softResetDraw(in)

	case ActionStateAwaitingInterrogatorMode:
		opp := s.Opponent(in.Seat)
		if in.Option == OptionInterrogateDiscard {
			for _, c := range e.randomHandCards(opp, 2) {
				e.discard(c, opp.ID)
			}
			e.emit(rules.EventEffectApplied, in.Seat, "", "%s forces %s to discard", p.Name, opp.Name)
			e.finishEffect()
			return nil
		}
		picked := e.randomHandCards(opp, 3)
		for _, c := range picked {
			c.FaceUp = true
		}
		s.OptionChoices = nil
		s.CardChoices = picked
		s.CardChoiceContext = ChoiceInterrogator
		s.ActionState = ActionStateAwaitingInterrogatorSteal

	case ActionStateAwaitingMimicRank:
		rank, err := cards.ParseRank(in.Option)
		if err != nil {
			return illegalf("%v", err)
		}
		s.clearTransient()
		s.ActionState = ActionStateIdle
		e.propose(&ActionContext{
			Kind:           rules.ActionBaseEffect,
			Actor:          in.Seat,
			EffectRank:     rank,
			SourceConsumed: true,
		})
	}
	return nil
}

// softResetDrawOptions lists the draw sources after two cards were discarded.
func (e *Engine) softResetDrawOptions(discarded []string) []Option {
	opts := []Option{
		{Label: "Top of the deck", Value: OptionDeckTop},
		{Label: "Bottom of the deck", Value: OptionDeckBottom},
	}
	if e.discardBeneath(discarded) >= 0 {
		opts = append(opts, Option{Label: "Top of the discard pile", Value: OptionDiscardTop})
	}
	return opts
}

// discardBeneath finds the topmost discard not among the just-discarded cards.
func (e *Engine) discardBeneath(discarded []string) int {
	pile := e.state.DiscardPile
	for i := len(pile) - 1; i >= 0; i-- {
		if !contains(discarded, pile[i].ID) {
			return i
		}
	}
	return -1
}

func (e *Engine) softResetDraw(in Intent) error {
	s := e.state
	ctx, _ := s.EffectContext.(SoftResetContext)
	switch in.Option {
	case OptionDeckTop:
		e.drawCard(in.Seat)
	case OptionDeckBottom:
		e.drawBottom(in.Seat)
	case OptionDiscardTop:
		idx := e.discardBeneath(ctx.DiscardedIDs)
		if idx < 0 {
			return illegalf("the discard pile has nothing to draw")
		}
		c := s.DiscardPile[idx]
		s.DiscardPile = append(s.DiscardPile[:idx], s.DiscardPile[idx+1:]...)
		e.addToHand(s.Players[in.Seat], c)
		e.emit(rules.EventCardDrawn, in.Seat, c.ID, "%s draws %s from the discard pile", s.Players[in.Seat].Name, c.ID)
	}
	e.finishEffect()
	return nil
}

func (e *Engine) softResetDrawFromSwapBar(in Intent) error {
	s := e.state
	if err := e.swapSlot(in.Slot); err != nil {
		return err
	}
	if in.CardID != "" {
		return illegalf("the swap bar can only be drawn from here")
	}
	c := s.SwapBar[in.Slot]
	if c == nil {
		return illegalf("swap bar slot %d is empty", in.Slot)
	}
	s.SwapBar[in.Slot] = nil
	e.addToHand(s.Players[in.Seat], c)
	e.emit(rules.EventCardDrawn, in.Seat, c.ID, "%s draws from swap bar slot %d", s.Players[in.Seat].Name, in.Slot+1)
	e.finishEffect()
	return nil
}

func (e *Engine) handleConfirmDiscard(in Intent) error {
	ids := in.CardIDs
	if len(ids) == 0 {
		ids = e.state.SelectedCardIDs
	}
	switch e.state.ActionState {
	case ActionStateAwaitingSoftResetDiscard:
		return e.confirmSoftResetDiscard(in.Seat, ids)
	case ActionStateAwaitingHandLimitDiscard:
		return e.confirmHandLimitDiscard(in.Seat, ids)
	}
	return illegalf("no discard selection is pending while %s", e.state.ActionState)
}

func (e *Engine) confirmSoftResetDiscard(seat int, ids []string) error {
	s := e.state
	ctx, ok := s.EffectContext.(SoftResetContext)
	if !ok || ctx.TargetSeat == NoSeat {
		return illegalf("no row was chosen")
	}
	req := targeting.TargetRequirement{
		Type:       targeting.TargetTypeRowCard,
		MinTargets: 1,
		MaxTargets: 2,
		Row:        targeting.RowTarget{Seat: ctx.TargetSeat, Row: ctx.Row},
	}
	if err := e.targets.ValidateTargetSelection(seat, &targeting.TargetSelection{Targets: ids, Requirement: req}); err != nil {
		return illegalf("%v", err)
	}

	owner := s.Players[ctx.TargetSeat]
	for _, id := range ids {
		if c := e.removeFromRow(owner, ctx.Row, id); c != nil {
			e.discard(c, owner.ID)
		}
	}
	e.emit(rules.EventEffectApplied, seat, "", "%s resets %d card(s) from %s's %s row",
		s.Players[seat].Name, len(ids), owner.Name, ctx.Row)

	if len(ids) == 1 {
		e.drawCard(seat)
		e.finishEffect()
		return nil
	}
	ctx.DiscardedIDs = append([]string(nil), ids...)
	s.EffectContext = ctx
	s.SelectedCardIDs = nil
	s.OptionChoices = e.softResetDrawOptions(ctx.DiscardedIDs)
	s.ActionState = ActionStateAwaitingSoftResetDrawSource
	return nil
}

// SoftResetSwapSlots lists the swap bar slots that may serve as a draw source.
func (e *Engine) SoftResetSwapSlots() []int {
	if e.state.ActionState != ActionStateAwaitingSoftResetDrawSource {
		return nil
	}
	var out []int
	for i, c := range e.state.SwapBar {
		if c != nil {
			out = append(out, i)
		}
	}
	return out
}
