package game

import (
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/cards"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/rules"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/scoring"
)

// maxDiscardCombos bounds the enumerated discard selections.
const maxDiscardCombos = 256

// LegalIntents enumerates every intent the seat may submit right now, in a
// stable order. The cosmetic select-card intent is not listed.
func (e *Engine) LegalIntents(seat int) []Intent {
	s := e.state
	if s.HasWinner() || s.Phase == rules.PhaseStartScreen || seat != s.CurrentPlayerIndex() {
		return nil
	}
	p := s.Players[seat]

	switch s.ActionState {
	case ActionStateIdle, ActionStateCardSelected:
		return e.turnIntents(seat)

	case ActionStateAwaitingCounter:
		out := []Intent{PassCounter(seat)}
		for _, c := range e.LegalCounterCards(seat) {
			out = append(out, PlayCounter(seat, c.ID))
		}
		return out

	case ActionStateAwaitingJackTarget:
		var out []Intent
		for _, id := range e.targets.LegalTargets(seat, stealRequirement) {
			out = append(out, CardChoice(seat, id))
		}
		return out

	case ActionStateAwaitingLuckyDrawPick,
		ActionStateAwaitingFarmerReturn,
		ActionStateAwaitingInterrogatorSteal,
		ActionStateAwaitingRummagerPick,
		ActionStateAwaitingNinePeekPick:
		out := make([]Intent, 0, len(s.CardChoices))
		for _, c := range s.CardChoices {
			out = append(out, CardChoice(seat, c.ID))
		}
		return out

	case ActionStateAwaitingOverchargeDiscard:
		var out []Intent
		for _, c := range p.ScoreRow {
			out = append(out, CardChoice(seat, c.ID))
		}
		for _, c := range p.RoyaltyRow {
			out = append(out, CardChoice(seat, c.ID))
		}
		return out

	case ActionStateAwaitingJackPlacement,
		ActionStateAwaitingSoftResetRow,
		ActionStateAwaitingInterrogatorMode,
		ActionStateAwaitingMimicRank,
		ActionStateAwaitingSoftResetDrawSource:
		out := make([]Intent, 0, len(s.OptionChoices))
		for _, o := range s.OptionChoices {
			out = append(out, OptionChoice(seat, o.Value))
		}
		for _, slot := range e.SoftResetSwapSlots() {
			out = append(out, SwapBarChoice(seat, slot, ""))
		}
		return out

	case ActionStateAwaitingSoftResetDiscard:
		ctx, ok := s.EffectContext.(SoftResetContext)
		if !ok || ctx.TargetSeat == NoSeat {
			return nil
		}
		ids := cards.IDs(s.Players[ctx.TargetSeat].Row(ctx.Row))
		var out []Intent
		for _, combo := range combinations(ids, 1) {
			out = append(out, ConfirmDiscard(seat, combo...))
		}
		for _, combo := range combinations(ids, 2) {
			out = append(out, ConfirmDiscard(seat, combo...))
		}
		return out

	case ActionStateAwaitingHandLimitDiscard:
		need := len(p.Hand) - e.settings.HandLimit
		var out []Intent
		for _, combo := range combinations(cards.IDs(p.Hand), need) {
			out = append(out, ConfirmDiscard(seat, combo...))
		}
		return out
	}
	return nil
}

func (e *Engine) turnIntents(seat int) []Intent {
	s := e.state
	p := s.Players[seat]
	opp := s.Opponent(seat)
	firstTurn := s.turns.IsFirstTurn()

	out := []Intent{Draw(seat)}
	for _, c := range p.Hand {
		for _, row := range []scoring.Row{scoring.RowScore, scoring.RowRoyalty} {
			if rules.CanPlayToRow(c.Rank, row) {
				out = append(out, PlayToRow(seat, c.ID, row))
			}
		}
		if firstTurn {
			continue
		}
		if HasBaseEffect(c.Rank) {
			out = append(out, PlayForEffect(seat, c.ID))
		}
		for _, target := range opp.ScoreRow {
			if e.legality.CheckScuttle(seat, c.ID, target.ID).Legal {
				out = append(out, Scuttle(seat, c.ID, target.ID))
			}
		}
	}
	for _, k := range p.Hand {
		if k.Rank != cards.RankKing {
			continue
		}
		for _, q := range p.Hand {
			if q.Rank == cards.RankQueen && q.Color() == k.Color() {
				out = append(out, RoyalMarriage(seat, k.ID, q.ID))
			}
		}
	}
	if !s.SwapBarUsedThisTurn {
		for slot, c := range s.SwapBar {
			if c != nil {
				out = append(out, SwapBarChoice(seat, slot, ""))
			}
			for _, h := range p.Hand {
				out = append(out, SwapBarChoice(seat, slot, h.ID))
			}
		}
	}
	return out
}

// combinations returns the k-element subsets of ids in lexical index order,
// capped at maxDiscardCombos.
func combinations(ids []string, k int) [][]string {
	if k <= 0 || k > len(ids) {
		return nil
	}
	var out [][]string
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for len(out) < maxDiscardCombos {
		combo := make([]string, k)
		for i, j := range idx {
			combo[i] = ids[j]
		}
		out = append(out, combo)

		i := k - 1
		for i >= 0 && idx[i] == len(ids)-k+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return out
}
