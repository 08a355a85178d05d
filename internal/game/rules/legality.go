package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game/cards"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/scoring"
)

// Zone is a container a card can sit in.
type Zone int

const (
	ZoneNone Zone = iota
	ZoneDeck
	ZoneDiscard
	ZoneSwapBar
	ZoneHand
	ZoneScoreRow
	ZoneRoyaltyRow
	ZoneChoices
	ZoneCounterStack
)

var zoneNames = map[Zone]string{
	ZoneNone:         "NONE",
	ZoneDeck:         "DECK",
	ZoneDiscard:      "DISCARD",
	ZoneSwapBar:      "SWAP_BAR",
	ZoneHand:         "HAND",
	ZoneScoreRow:     "SCORE_ROW",
	ZoneRoyaltyRow:   "ROYALTY_ROW",
	ZoneChoices:      "CHOICES",
	ZoneCounterStack: "COUNTER_STACK",
}

func (z Zone) String() string {
	if name, ok := zoneNames[z]; ok {
		return name
	}
	return fmt.Sprintf("ZONE_%d", int(z))
}

// RowZone maps a board row to its zone.
func RowZone(row scoring.Row) Zone {
	if row == scoring.RowRoyalty {
		return ZoneRoyaltyRow
	}
	return ZoneScoreRow
}

// NoSeat marks a card in a shared container.
const NoSeat = -1

// LegalityChecker validates plays, scuttles and counters against the board.
type LegalityChecker struct {
	gameState GameStateAccessor
}

// GameStateAccessor provides access to game state needed for legality checks.
type GameStateAccessor interface {
	// FindCard locates a card by ID in any container
	FindCard(cardID string) (CardInfo, bool)
	// FindPlayer returns board facts about a seat
	FindPlayer(seat int) (PlayerInfo, bool)
}

// CardInfo provides information about a card for legality checks.
type CardInfo struct {
	Card  *cards.Card
	Zone  Zone
	Owner int
}

// PlayerInfo provides information about a seat for legality checks.
type PlayerInfo struct {
	Seat            int
	Immune          bool
	QueensInRoyalty int
}

// LegalityResult represents the result of a legality check.
type LegalityResult struct {
	Legal   bool
	Reason  string
	Details map[string]string
}

// String renders the reason followed by the details in key order.
func (r LegalityResult) String() string {
	if len(r.Details) == 0 {
		return r.Reason
	}
	keys := make([]string, 0, len(r.Details))
	for k := range r.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(r.Reason)
	for i, k := range keys {
		if i == 0 {
			b.WriteString(" (")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(k + "=" + r.Details[k])
	}
	b.WriteString(")")
	return b.String()
}

func legal() LegalityResult {
	return LegalityResult{Legal: true}
}

func illegal(reason string, details map[string]string) LegalityResult {
	return LegalityResult{Legal: false, Reason: reason, Details: details}
}

// NewLegalityChecker creates a new legality checker.
func NewLegalityChecker(gameState GameStateAccessor) *LegalityChecker {
	return &LegalityChecker{
		gameState: gameState,
	}
}

// CanPlayToRow reports whether a rank may occupy a row.
// Score row: A, 2-10, J. Royalty row: J, Q, K.
func CanPlayToRow(rank cards.Rank, row scoring.Row) bool {
	if row == scoring.RowRoyalty {
		return rank.IsRoyal()
	}
	return rank != cards.RankQueen && rank != cards.RankKing
}

// CheckPlayToRow validates playing a card from seat's hand into one of its rows.
func (lc *LegalityChecker) CheckPlayToRow(seat int, cardID string, row scoring.Row) LegalityResult {
	info, res := lc.handCard(seat, cardID)
	if !res.Legal {
		return res
	}
	if !CanPlayToRow(info.Card.Rank, row) {
		return illegal("card cannot be played to that row", map[string]string{
			"card_id": cardID,
			"row":     row.String(),
		})
	}
	return legal()
}

// CheckScuttle validates attacking an opponent's score-row card.
func (lc *LegalityChecker) CheckScuttle(seat int, attackerID, targetID string) LegalityResult {
	attacker, res := lc.handCard(seat, attackerID)
	if !res.Legal {
		return res
	}
	target, found := lc.gameState.FindCard(targetID)
	if !found {
		return illegal("target not found", map[string]string{"target_id": targetID})
	}
	if target.Zone != ZoneScoreRow || target.Owner == seat || target.Owner == NoSeat {
		return illegal("target is not in an opponent score row", map[string]string{
			"target_id": targetID,
			"zone":      target.Zone.String(),
		})
	}
	owner, found := lc.gameState.FindPlayer(target.Owner)
	if !found {
		return illegal("target owner not found", nil)
	}
	if owner.Immune {
		return illegal("target owner is immune", map[string]string{
			"target_id": targetID,
			"seat":      fmt.Sprintf("%d", owner.Seat),
		})
	}
	return CheckScuttleStrength(attacker.Card, target.Card, owner.QueensInRoyalty > 0)
}

// CheckScuttleStrength applies the attacker-versus-target rules. A 10 ignores
// ace immunity and queen protection; royals beat any value; everything else
// needs a value at least equal to the target's.
func CheckScuttleStrength(attacker, target *cards.Card, ownerHasQueen bool) LegalityResult {
	if attacker.Rank == cards.Rank10 {
		return legal()
	}
	if target.Rank == cards.RankAce {
		return illegal("aces can only be scuttled by a 10", map[string]string{
			"attacker_id": attacker.ID,
			"target_id":   target.ID,
		})
	}
	if ownerHasQueen {
		return illegal("target is protected by a queen", map[string]string{
			"attacker_id": attacker.ID,
			"target_id":   target.ID,
		})
	}
	if attacker.IsRoyal() {
		return legal()
	}
	av := scoring.CardValue(attacker, scoring.RowScore)
	tv := scoring.CardValue(target, scoring.RowScore)
	if av < tv {
		return illegal("attacker value too low", map[string]string{
			"attacker_id":    attacker.ID,
			"attacker_value": fmt.Sprintf("%d", av),
			"target_id":      target.ID,
			"target_value":   fmt.Sprintf("%d", tv),
		})
	}
	return legal()
}

// CheckCounter validates playing a counter card from seat's hand.
func (lc *LegalityChecker) CheckCounter(seat int, cardID string, kind ActionKind, effectRank cards.Rank, depth int) LegalityResult {
	info, res := lc.handCard(seat, cardID)
	if !res.Legal {
		return res
	}
	if !IsLegalCounter(kind, effectRank, depth, info.Card.Rank) {
		return illegal("card is not a legal counter", map[string]string{
			"card_id": cardID,
			"action":  kind.String(),
			"depth":   fmt.Sprintf("%d", depth),
		})
	}
	return legal()
}

func (lc *LegalityChecker) handCard(seat int, cardID string) (CardInfo, LegalityResult) {
	if lc == nil || lc.gameState == nil {
		return CardInfo{}, illegal("legality checker not initialized", nil)
	}
	info, found := lc.gameState.FindCard(cardID)
	if !found {
		return CardInfo{}, illegal("card not found", map[string]string{"card_id": cardID})
	}
	if info.Zone != ZoneHand || info.Owner != seat {
		return CardInfo{}, illegal("card is not in hand", map[string]string{
			"card_id": cardID,
			"zone":    info.Zone.String(),
		})
	}
	return info, legal()
}
