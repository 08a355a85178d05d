package game

import (
	"go.uber.org/zap"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game/cards"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/rules"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/scoring"
)

// effectRanks are the ranks that may be played for a base effect.
var effectRanks = map[cards.Rank]bool{
	cards.RankJack: true,
	cards.Rank7:    true,
	cards.Rank6:    true,
	cards.Rank4:    true,
	cards.Rank3:    true,
	cards.Rank2:    true,
}

// HasBaseEffect reports whether a rank can be played for effect.
func HasBaseEffect(rank cards.Rank) bool {
	return effectRanks[rank]
}

func (e *Engine) requireTurnOpen() error {
	if !e.state.ActionState.IsTurnOpen() {
		return illegalf("cannot start an action while %s", e.state.ActionState)
	}
	return nil
}

func (e *Engine) requireNotFirstTurn(what string) error {
	if e.state.turns.IsFirstTurn() {
		return illegalf("%s is not allowed on turn 1", what)
	}
	return nil
}

func (e *Engine) handCard(seat int, id string) (*cards.Card, error) {
	p := e.state.Players[seat]
	idx := cards.IndexOf(p.Hand, id)
	if idx < 0 {
		return nil, illegalf("card %q is not in your hand", id)
	}
	return p.Hand[idx], nil
}

func (e *Engine) handleSelectCard(in Intent) error {
	if err := e.requireTurnOpen(); err != nil {
		return err
	}
	if _, err := e.handCard(in.Seat, in.CardID); err != nil {
		return err
	}
	s := e.state
	if s.SelectedCardID == in.CardID {
		s.SelectedCardID = ""
		s.ActionState = ActionStateIdle
		return nil
	}
	s.SelectedCardID = in.CardID
	s.ActionState = ActionStateCardSelected
	return nil
}

func (e *Engine) handlePlayToRow(in Intent) error {
	if err := e.requireTurnOpen(); err != nil {
		return err
	}
	if res := e.legality.CheckPlayToRow(in.Seat, in.CardID, in.Row); !res.Legal {
		return illegalf("%s", res)
	}
	card, _ := e.handCard(in.Seat, in.CardID)
	kind := rules.ActionPlayToScore
	if in.Row == scoring.RowRoyalty {
		kind = rules.ActionPlayToRoyalty
	}
	e.propose(&ActionContext{
		Kind:       kind,
		Actor:      in.Seat,
		CardIDs:    []string{in.CardID},
		Row:        in.Row,
		EffectRank: card.Rank,
	})
	return nil
}

func (e *Engine) handleScuttle(in Intent) error {
	if err := e.requireTurnOpen(); err != nil {
		return err
	}
	if err := e.requireNotFirstTurn("scuttling"); err != nil {
		return err
	}
	if res := e.legality.CheckScuttle(in.Seat, in.CardID, in.TargetID); !res.Legal {
		return illegalf("%s", res)
	}
	card, _ := e.handCard(in.Seat, in.CardID)
	e.propose(&ActionContext{
		Kind:       rules.ActionScuttle,
		Actor:      in.Seat,
		CardIDs:    []string{in.CardID},
		TargetID:   in.TargetID,
		EffectRank: card.Rank,
	})
	return nil
}

func (e *Engine) handlePlayForEffect(in Intent) error {
	if err := e.requireTurnOpen(); err != nil {
		return err
	}
	if err := e.requireNotFirstTurn("playing for effect"); err != nil {
		return err
	}
	card, err := e.handCard(in.Seat, in.CardID)
	if err != nil {
		return err
	}
	if !HasBaseEffect(card.Rank) {
		return illegalf("%s has no base effect", card.ID)
	}
	e.resolution.Reset()
	e.propose(&ActionContext{
		Kind:       rules.ActionBaseEffect,
		Actor:      in.Seat,
		CardIDs:    []string{in.CardID},
		EffectRank: card.Rank,
	})
	return nil
}

func (e *Engine) handleRoyalMarriage(in Intent) error {
	if err := e.requireTurnOpen(); err != nil {
		return err
	}
	if len(in.CardIDs) != 2 {
		return illegalf("a royal marriage needs exactly two cards")
	}
	a, err := e.handCard(in.Seat, in.CardIDs[0])
	if err != nil {
		return err
	}
	b, err := e.handCard(in.Seat, in.CardIDs[1])
	if err != nil {
		return err
	}
	if a.Rank == cards.RankQueen {
		a, b = b, a
	}
	if a.Rank != cards.RankKing || b.Rank != cards.RankQueen {
		return illegalf("a royal marriage is a king and a queen")
	}
	if a.Color() != b.Color() {
		return illegalf("%s and %s are not the same color", a.ID, b.ID)
	}
	e.propose(&ActionContext{
		Kind:       rules.ActionRoyalMarriage,
		Actor:      in.Seat,
		CardIDs:    []string{a.ID, b.ID},
		Row:        scoring.RowRoyalty,
		EffectRank: cards.RankKing,
	})
	return nil
}

func (e *Engine) handleDraw(in Intent) error {
	if err := e.requireTurnOpen(); err != nil {
		return err
	}
	s := e.state
	s.clearTransient()
	s.ActionState = ActionStateIdle
	if !e.drawCard(in.Seat) {
		return nil
	}
	e.endTurn()
	return nil
}

func (e *Engine) handleSwapBarChoice(in Intent) error {
	switch e.state.ActionState {
	case ActionStateIdle, ActionStateCardSelected:
		return e.useSwapBar(in)
	case ActionStateAwaitingSoftResetDrawSource:
		return e.softResetDrawFromSwapBar(in)
	}
	return illegalf("the swap bar cannot be used while %s", e.state.ActionState)
}

func (e *Engine) swapSlot(slot int) error {
	if slot < 0 || slot >= len(e.state.SwapBar) {
		return illegalf("swap bar slot %d out of range", slot)
	}
	return nil
}

// useSwapBar takes, trades or places a card once per turn.
func (e *Engine) useSwapBar(in Intent) error {
	s := e.state
	if s.SwapBarUsedThisTurn {
		return illegalf("the swap bar was already used this turn")
	}
	if err := e.swapSlot(in.Slot); err != nil {
		return err
	}
	slotCard := s.SwapBar[in.Slot]
	if in.CardID == "" && slotCard == nil {
		return illegalf("swap bar slot %d is empty", in.Slot)
	}
	if in.CardID != "" {
		if _, err := e.handCard(in.Seat, in.CardID); err != nil {
			return err
		}
	}

	p := s.Players[in.Seat]
	s.SwapBar[in.Slot] = nil
	if in.CardID != "" {
		placed := e.takeFromHand(p, in.CardID)
		placed.FaceUp = in.Slot == e.settings.middleSlot()
		s.SwapBar[in.Slot] = placed
	}
	if slotCard != nil {
		e.addToHand(p, slotCard)
	}
	s.SwapBarUsedThisTurn = true
	s.clearTransient()
	s.ActionState = ActionStateIdle

	e.logger.Debug("swap bar used", zap.Int("seat", in.Seat), zap.Int("slot", in.Slot), zap.String("card", in.CardID))
	e.emit(rules.EventSwapBarUsed, in.Seat, in.CardID, "%s uses swap bar slot %d", p.Name, in.Slot+1)
	return nil
}
