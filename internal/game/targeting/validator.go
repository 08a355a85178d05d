package targeting

import (
	"fmt"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game/cards"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/rules"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/scoring"
)

// TargetValidator validates that selected targets are legal.
type TargetValidator struct {
	gameState TargetGameStateAccessor
}

// TargetGameStateAccessor provides access to game state needed for target validation.
type TargetGameStateAccessor interface {
	// FindCardForTarget finds a card by ID in any container
	FindCardForTarget(cardID string) (TargetCardInfo, bool)
	// FindPlayerForTarget finds seat info
	FindPlayerForTarget(seat int) (TargetPlayerInfo, bool)
	// RowCardsForTarget returns the cards of one row in board order
	RowCardsForTarget(seat int, row scoring.Row) []*cards.Card
}

// TargetCardInfo provides information about a card for target validation.
type TargetCardInfo struct {
	Card  *cards.Card
	Zone  rules.Zone
	Owner int
}

// TargetPlayerInfo provides information about a seat for target validation.
type TargetPlayerInfo struct {
	Seat   int
	Immune bool
}

// NewTargetValidator creates a new target validator.
func NewTargetValidator(gameState TargetGameStateAccessor) *TargetValidator {
	return &TargetValidator{
		gameState: gameState,
	}
}

// ValidateTarget checks if a single target ID is valid for the given requirement.
func (tv *TargetValidator) ValidateTarget(actor int, targetID string, requirement TargetRequirement) error {
	if tv == nil || tv.gameState == nil {
		return fmt.Errorf("target validator not initialized")
	}
	card, found := tv.gameState.FindCardForTarget(targetID)
	if !found {
		return fmt.Errorf("target %s not found", targetID)
	}
	if card.Owner == rules.NoSeat {
		return fmt.Errorf("target %s is not on the board", targetID)
	}
	owner, found := tv.gameState.FindPlayerForTarget(card.Owner)
	if !found {
		return fmt.Errorf("owner of %s not found", targetID)
	}
	if owner.Immune {
		return fmt.Errorf("target %s belongs to an immune player", targetID)
	}

	switch requirement.Type {
	case TargetTypeStealable:
		if card.Zone != rules.ZoneScoreRow {
			return fmt.Errorf("target %s is not in a score row", targetID)
		}
	case TargetTypeScuttle:
		if card.Zone != rules.ZoneScoreRow {
			return fmt.Errorf("target %s is not in a score row", targetID)
		}
		if card.Owner == actor {
			return fmt.Errorf("target %s is in your own score row", targetID)
		}
	case TargetTypeRowCard:
		if card.Owner != requirement.Row.Seat || card.Zone != rules.RowZone(requirement.Row.Row) {
			return fmt.Errorf("target %s is not in row %s", targetID, requirement.Row)
		}
	default:
		return fmt.Errorf("unknown target type %s", requirement.Type)
	}
	return nil
}

// ValidateTargetSelection validates an entire target selection against its requirements.
func (tv *TargetValidator) ValidateTargetSelection(actor int, selection *TargetSelection) error {
	if tv == nil {
		return fmt.Errorf("target validator not initialized")
	}
	if err := selection.Validate(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(selection.Targets))
	for _, targetID := range selection.Targets {
		if seen[targetID] {
			return fmt.Errorf("duplicate target: %s", targetID)
		}
		seen[targetID] = true
		if err := tv.ValidateTarget(actor, targetID, selection.Requirement); err != nil {
			return fmt.Errorf("invalid target %s: %w", targetID, err)
		}
	}
	return nil
}

// LegalTargets lists every card ID that satisfies the requirement, seat 0 first.
func (tv *TargetValidator) LegalTargets(actor int, requirement TargetRequirement) []string {
	if tv == nil || tv.gameState == nil {
		return nil
	}
	var out []string
	for seat := 0; seat < 2; seat++ {
		for _, row := range []scoring.Row{scoring.RowScore, scoring.RowRoyalty} {
			for _, c := range tv.gameState.RowCardsForTarget(seat, row) {
				if tv.ValidateTarget(actor, c.ID, requirement) == nil {
					out = append(out, c.ID)
				}
			}
		}
	}
	return out
}

// LegalRows lists the non-empty rows of non-immune seats, seat 0 first.
func (tv *TargetValidator) LegalRows() []RowTarget {
	if tv == nil || tv.gameState == nil {
		return nil
	}
	var out []RowTarget
	for seat := 0; seat < 2; seat++ {
		for _, row := range []scoring.Row{scoring.RowScore, scoring.RowRoyalty} {
			rt := RowTarget{Seat: seat, Row: row}
			if tv.ValidateRow(rt) == nil {
				out = append(out, rt)
			}
		}
	}
	return out
}

// ValidateRow checks that a row may be chosen as an effect target.
func (tv *TargetValidator) ValidateRow(rt RowTarget) error {
	if tv == nil || tv.gameState == nil {
		return fmt.Errorf("target validator not initialized")
	}
	player, found := tv.gameState.FindPlayerForTarget(rt.Seat)
	if !found {
		return fmt.Errorf("seat %d not found", rt.Seat)
	}
	if player.Immune {
		return fmt.Errorf("seat %d is immune", rt.Seat)
	}
	if len(tv.gameState.RowCardsForTarget(rt.Seat, rt.Row)) == 0 {
		return fmt.Errorf("row %s is empty", rt)
	}
	return nil
}
