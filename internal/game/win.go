package game

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game/rules"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/scoring"
)

// checkScoreWin declares a winner if a non-immune seat sits exactly on the
// target, checking the current seat first.
func (e *Engine) checkScoreWin() bool {
	s := e.state
	if s.HasWinner() {
		return true
	}
	cur := s.CurrentPlayerIndex()
	for _, seat := range []int{cur, rules.Opponent(cur)} {
		p := s.Players[seat]
		if !p.IsImmune && p.Score() == e.settings.TargetScore {
			e.declareWin(seat, WinReasonReachedTarget)
			return true
		}
	}
	return false
}

func (e *Engine) resolveExhaustion() {
	winner := ExhaustionWinner(e.state.Players, e.settings.TargetScore, e.rng)
	e.declareWin(winner, WinReasonExhaustion)
}

// ExhaustionWinner breaks the tie when no card can be drawn: closer to the
// target, then more royalty cards, then fewer hand cards, then a coin flip.
func ExhaustionWinner(players [2]*Player, target int, rng *rand.Rand) int {
	d0 := scoring.Distance(players[0].Score(), target)
	d1 := scoring.Distance(players[1].Score(), target)
	if d0 != d1 {
		return pickLower(d0, d1)
	}
	r0, r1 := len(players[0].RoyaltyRow), len(players[1].RoyaltyRow)
	if r0 != r1 {
		return pickLower(-r0, -r1)
	}
	h0, h1 := len(players[0].Hand), len(players[1].Hand)
	if h0 != h1 {
		return pickLower(h0, h1)
	}
	return rng.Intn(2)
}

func pickLower(a, b int) int {
	if a < b {
		return 0
	}
	return 1
}

func (e *Engine) declareWin(seat int, reason WinReason) {
	s := e.state
	if s.HasWinner() {
		return
	}
	s.Winner = seat
	s.WinReason = reason
	s.Players[seat].IsImmune = true
	s.Phase = rules.PhaseGameOver
	s.ActionState = ActionStateGameOver
	s.ActionContext = nil

	p := s.Players[seat]
	e.logger.Info("game won",
		zap.Int("seat", seat),
		zap.String("winner", p.Name),
		zap.String("reason", string(reason)),
		zap.Int("score", p.Score()),
		zap.Int("turn", s.Turn()),
	)
	ev := rules.NewEvent(rules.EventGameWon, seat, "", p.Name+" wins ("+string(reason)+")")
	ev.Amount = p.Score()
	e.events.Publish(ev)
}

