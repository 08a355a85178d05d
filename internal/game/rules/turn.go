package rules

import (
	"fmt"
)

// Phase is the coarse mode of the game.
type Phase int

const (
	PhaseStartScreen Phase = iota
	PhaseFirstTurn
	PhaseNormal
	PhaseCounterResolution
	PhaseGameOver
)

var phaseNames = map[Phase]string{
	PhaseStartScreen:       "START_SCREEN",
	PhaseFirstTurn:         "FIRST_TURN",
	PhaseNormal:            "NORMAL",
	PhaseCounterResolution: "COUNTER_RESOLUTION",
	PhaseGameOver:          "GAME_OVER",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// TurnManager tracks whose turn it is and which seat must act next.
// The active seat owns the turn; the current seat is whoever the game is
// waiting on, which differs from the active seat inside a counter window.
type TurnManager struct {
	turnNumber  int
	firstSeat   int
	activeSeat  int
	currentSeat int
}

// NewTurnManager creates a turn manager at turn 1 with firstSeat to act.
func NewTurnManager(firstSeat int) *TurnManager {
	return &TurnManager{
		turnNumber:  1,
		firstSeat:   firstSeat,
		activeSeat:  firstSeat,
		currentSeat: firstSeat,
	}
}

// TurnNumber returns the current turn number (1-based).
func (tm *TurnManager) TurnNumber() int {
	return tm.turnNumber
}

// FirstSeat returns the seat that took turn 1.
func (tm *TurnManager) FirstSeat() int {
	return tm.firstSeat
}

// ActiveSeat returns the seat that owns the turn.
func (tm *TurnManager) ActiveSeat() int {
	return tm.activeSeat
}

// CurrentSeat returns the seat whose input is awaited.
func (tm *TurnManager) CurrentSeat() int {
	return tm.currentSeat
}

// SetCurrent hands the next input to seat.
func (tm *TurnManager) SetCurrent(seat int) {
	tm.currentSeat = seat
}

// Flip hands the next input to the other seat.
func (tm *TurnManager) Flip() {
	tm.currentSeat = Opponent(tm.currentSeat)
}

// ReturnToActive hands the next input back to the turn owner.
func (tm *TurnManager) ReturnToActive() {
	tm.currentSeat = tm.activeSeat
}

// IsFirstTurn reports whether the game is still on turn 1.
func (tm *TurnManager) IsFirstTurn() bool {
	return tm.turnNumber == 1
}

// EndTurn passes the turn to the other seat and increments the turn number.
func (tm *TurnManager) EndTurn() int {
	tm.turnNumber++
	tm.activeSeat = Opponent(tm.activeSeat)
	tm.currentSeat = tm.activeSeat
	return tm.turnNumber
}

// Opponent returns the other seat of a two-seat game.
func Opponent(seat int) int {
	return 1 - seat
}
