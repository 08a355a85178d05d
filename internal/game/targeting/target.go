package targeting

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game/scoring"
)

// TargetType represents what an effect may point at.
type TargetType string

const (
	// TargetTypeStealable is any card in a non-immune score row
	TargetTypeStealable TargetType = "STEALABLE"
	// TargetTypeScuttle is a card in an opponent's non-immune score row
	TargetTypeScuttle TargetType = "SCUTTLE"
	// TargetTypeRowCard is a card in one specific row
	TargetTypeRowCard TargetType = "ROW_CARD"
)

// TargetRequirement defines what targets an effect requires.
type TargetRequirement struct {
	// Type specifies what kind of target is required
	Type TargetType
	// MinTargets is the minimum number of targets required
	MinTargets int
	// MaxTargets is the maximum number of targets allowed
	MaxTargets int
	// Row restricts TargetTypeRowCard to a single row
	Row RowTarget
	// Description is a human-readable description of the target requirement
	Description string
}

// TargetSelection represents a player's target selection for an effect.
type TargetSelection struct {
	Targets     []string
	Requirement TargetRequirement
}

// Validate checks the selection count against its requirement.
func (ts *TargetSelection) Validate() error {
	if ts == nil {
		return fmt.Errorf("target selection is nil")
	}
	count := len(ts.Targets)
	if count < ts.Requirement.MinTargets {
		return fmt.Errorf("not enough targets: need at least %d, got %d", ts.Requirement.MinTargets, count)
	}
	if count > ts.Requirement.MaxTargets {
		return fmt.Errorf("too many targets: need at most %d, got %d", ts.Requirement.MaxTargets, count)
	}
	return nil
}

// RowTarget names one row of one seat.
type RowTarget struct {
	Seat int
	Row  scoring.Row
}

// String encodes the row target as "seat:row", e.g. "1:royalty".
func (rt RowTarget) String() string {
	return fmt.Sprintf("%d:%s", rt.Seat, rt.Row)
}

// ParseRowTarget decodes the "seat:row" form.
func ParseRowTarget(s string) (RowTarget, error) {
	seatPart, rowPart, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return RowTarget{}, fmt.Errorf("malformed row target %q", s)
	}
	seat, err := strconv.Atoi(seatPart)
	if err != nil || (seat != 0 && seat != 1) {
		return RowTarget{}, fmt.Errorf("malformed seat in row target %q", s)
	}
	row, err := scoring.ParseRow(rowPart)
	if err != nil {
		return RowTarget{}, err
	}
	return RowTarget{Seat: seat, Row: row}, nil
}
