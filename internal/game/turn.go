package game

import (
	"go.uber.org/zap"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game/cards"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/rules"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/scoring"
)

// endTurn enforces the hand limit, checks for a win, flips the seat and
// opens the next turn.
func (e *Engine) endTurn() {
	s := e.state
	if s.HasWinner() {
		return
	}
	actor := s.ActivePlayerIndex()
	p := s.Players[actor]
	s.turns.ReturnToActive()
	s.clearTransient()

	if over := len(p.Hand) - e.settings.HandLimit; over > 0 {
		s.ActionState = ActionStateAwaitingHandLimitDiscard
		e.logger.Debug("hand over limit", zap.Int("seat", actor), zap.Int("over", over))
		return
	}
	if e.checkScoreWin() {
		return
	}

	e.emit(rules.EventTurnEnded, actor, "", "%s ends turn %d", p.Name, s.Turn())
	s.turns.EndTurn()
	s.SwapBarUsedThisTurn = false
	s.Phase = rules.PhaseNormal

	next := s.Current()
	if next.Score() > e.settings.TargetScore {
		s.ActionState = ActionStateAwaitingOverchargeDiscard
		e.emit(rules.EventEffectApplied, next.ID, "", "%s is overcharged at %d and must trim the board", next.Name, next.Score())
		return
	}
	e.beginTurn()
}

// beginTurn opens the current seat's turn and runs maintenance from turn 2.
func (e *Engine) beginTurn() {
	s := e.state
	s.ActionState = ActionStateIdle
	s.Phase = e.playPhase()
	e.watchers.ResetWatchersByScope(rules.WatcherScopeTurn)
	e.emit(rules.EventTurnStarted, s.CurrentPlayerIndex(), "", "Turn %d: %s", s.Turn(), s.Current().Name)
	if s.Turn() >= 2 {
		e.runMaintenance()
	}
}

// runMaintenance cycles every Ace in play, current seat first. A player who
// lands exactly on the target wins on the spot.
func (e *Engine) runMaintenance() {
	s := e.state
	cur := s.CurrentPlayerIndex()
	for _, seat := range []int{cur, rules.Opponent(cur)} {
		p := s.Players[seat]
		if p.IsImmune {
			continue
		}
		for _, row := range []scoring.Row{scoring.RowScore, scoring.RowRoyalty} {
			for _, c := range p.Row(row) {
				if c.Rank != cards.RankAce {
					continue
				}
				c.AceValue = scoring.CycleAce(c.AceValue)
				ev := rules.NewEvent(rules.EventAceCycled, seat, c.ID, p.Name+"'s "+c.ID+" cycles")
				ev.Amount = c.AceValue
				e.events.Publish(ev)
			}
		}
		if p.Score() == e.settings.TargetScore {
			e.declareWin(seat, WinReasonReachedTarget)
			return
		}
	}
}

func (e *Engine) confirmHandLimitDiscard(seat int, ids []string) error {
	s := e.state
	p := s.Players[seat]
	need := len(p.Hand) - e.settings.HandLimit
	if len(ids) != need {
		return illegalf("discard exactly %d card(s), got %d", need, len(ids))
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return illegalf("duplicate card %s", id)
		}
		seen[id] = true
		if cards.IndexOf(p.Hand, id) < 0 {
			return illegalf("card %q is not in your hand", id)
		}
	}
	for _, id := range ids {
		e.discard(e.takeFromHand(p, id), seat)
	}
	e.emit(rules.EventEffectApplied, seat, "", "%s discards down to %d cards", p.Name, e.settings.HandLimit)
	s.ActionState = ActionStateIdle
	e.endTurn()
	return nil
}

func (e *Engine) chooseOverchargeDiscard(in Intent) error {
	s := e.state
	p := s.Players[in.Seat]
	info, ok := s.FindCard(in.CardID)
	if !ok || info.Owner != in.Seat || (info.Zone != rules.ZoneScoreRow && info.Zone != rules.ZoneRoyaltyRow) {
		return illegalf("%q is not in your rows", in.CardID)
	}
	row := scoring.RowScore
	if info.Zone == rules.ZoneRoyaltyRow {
		row = scoring.RowRoyalty
	}
	e.discard(e.removeFromRow(p, row, in.CardID), in.Seat)

	score := p.Score()
	switch {
	case score > e.settings.TargetScore:
		return nil
	case score == e.settings.TargetScore:
		e.declareWin(in.Seat, WinReasonReachedTarget)
		return nil
	}
	e.beginTurn()
	return nil
}
