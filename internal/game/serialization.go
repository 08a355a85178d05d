package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game/cards"
)

// SerializationChecksum is a deterministic fingerprint of a game state.
type SerializationChecksum struct {
	Hash    string // SHA-256 of the canonical representation
	Version int
}

const checksumVersion = 1

// ComputeChecksum hashes everything that affects play. Narration and action
// IDs are left out so replays of the same seed hash identically.
func (s *GameState) ComputeChecksum() (*SerializationChecksum, error) {
	hash := sha256.New()
	if _, err := hash.Write([]byte(s.buildDeterministicRepresentation())); err != nil {
		return nil, fmt.Errorf("failed to compute hash: %w", err)
	}
	return &SerializationChecksum{
		Hash:    hex.EncodeToString(hash.Sum(nil)),
		Version: checksumVersion,
	}, nil
}

// VerifyChecksum reports whether the state still matches an earlier checksum.
func (s *GameState) VerifyChecksum(expected *SerializationChecksum) (bool, error) {
	computed, err := s.ComputeChecksum()
	if err != nil {
		return false, fmt.Errorf("failed to compute checksum: %w", err)
	}
	return computed.Hash == expected.Hash, nil
}

// Checksum returns the hex hash of the current state.
func (e *Engine) Checksum() string {
	sum, err := e.state.ComputeChecksum()
	if err != nil {
		return ""
	}
	return sum.Hash
}

func writeCards(buf *bytes.Buffer, label string, list []*cards.Card) {
	parts := make([]string, len(list))
	for i, c := range list {
		if c == nil {
			parts[i] = "-"
			continue
		}
		parts[i] = fmt.Sprintf("%s/%t/%d/%t", c.ID, c.FaceUp, c.AceValue, c.Protected)
	}
	fmt.Fprintf(buf, "%s:%s\n", label, strings.Join(parts, ","))
}

// buildDeterministicRepresentation renders the state in container order.
// Order matters everywhere here: deck, discard and rows are sequences.
func (s *GameState) buildDeterministicRepresentation() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%s|%s|%d|%d|%d|%d|%t|%d|%s\n",
		s.Phase,
		s.ActionState,
		s.Turn(),
		s.FirstPlayerIndex(),
		s.ActivePlayerIndex(),
		s.CurrentPlayerIndex(),
		s.SwapBarUsedThisTurn,
		s.Winner,
		s.WinReason,
	)

	writeCards(&buf, "DECK", s.Deck)
	writeCards(&buf, "DISCARD", s.DiscardPile)
	writeCards(&buf, "SWAP", s.SwapBar)

	for _, p := range s.Players {
		fmt.Fprintf(&buf, "PLAYER:%d|%s|%t|%d|%t\n", p.ID, p.Name, p.IsAI, p.HandRevealedUntilTurn, p.IsImmune)
		writeCards(&buf, "  HAND", p.Hand)
		writeCards(&buf, "  SCORE", p.ScoreRow)
		writeCards(&buf, "  ROYALTY", p.RoyaltyRow)
	}

	fmt.Fprintf(&buf, "SELECTED:%s|%s|%s\n",
		s.SelectedCardID, strings.Join(s.SelectedCardIDs, ","), s.SelectedSwapCardID)
	fmt.Fprintf(&buf, "EFFECT:%s|%#v\n", EffectName(s.EffectContext), s.EffectContext)
	fmt.Fprintf(&buf, "CHOICE_CONTEXT:%s\n", s.CardChoiceContext)
	writeCards(&buf, "CHOICES", s.CardChoices)
	for _, o := range s.OptionChoices {
		fmt.Fprintf(&buf, "OPTION:%s=%s\n", o.Value, o.Label)
	}

	if a := s.ActionContext; a != nil {
		fmt.Fprintf(&buf, "PENDING:%s|%d|%s|%s|%s|%s|%t\n",
			a.Kind, a.Actor, strings.Join(a.CardIDs, ","), a.TargetID, a.Row, a.EffectRank, a.SourceConsumed)
	}
	buf.WriteString("COUNTERS:\n")
	for i, entry := range s.CounterStack.List() {
		fmt.Fprintf(&buf, "  %d:%s|%d\n", i, entry.Card.ID, entry.Seat)
	}
	fmt.Fprintf(&buf, "PASSES:%d\n", s.ConsecutivePasses)

	return buf.String()
}
