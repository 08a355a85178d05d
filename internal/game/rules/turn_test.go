package rules

import "testing"

func TestTurnManagerStartsAtFirstSeat(t *testing.T) {
	tm := NewTurnManager(1)

	if tm.TurnNumber() != 1 {
		t.Fatalf("expected turn 1, got %d", tm.TurnNumber())
	}
	if tm.ActiveSeat() != 1 || tm.CurrentSeat() != 1 || tm.FirstSeat() != 1 {
		t.Fatalf("expected seat 1 to own and act, got active=%d current=%d", tm.ActiveSeat(), tm.CurrentSeat())
	}
	if !tm.IsFirstTurn() {
		t.Fatalf("expected first turn")
	}
}

func TestTurnManagerFlipAndReturn(t *testing.T) {
	tm := NewTurnManager(0)

	tm.Flip()
	if tm.CurrentSeat() != 1 {
		t.Fatalf("expected seat 1 to respond, got %d", tm.CurrentSeat())
	}
	if tm.ActiveSeat() != 0 {
		t.Fatalf("flip must not change the turn owner")
	}

	tm.Flip()
	if tm.CurrentSeat() != 0 {
		t.Fatalf("expected seat 0 after second flip, got %d", tm.CurrentSeat())
	}

	tm.SetCurrent(1)
	tm.ReturnToActive()
	if tm.CurrentSeat() != 0 {
		t.Fatalf("expected return to active seat 0, got %d", tm.CurrentSeat())
	}
}

func TestTurnManagerEndTurn(t *testing.T) {
	tm := NewTurnManager(0)

	if n := tm.EndTurn(); n != 2 {
		t.Fatalf("expected turn 2, got %d", n)
	}
	if tm.ActiveSeat() != 1 || tm.CurrentSeat() != 1 {
		t.Fatalf("expected seat 1 to own turn 2")
	}
	if tm.IsFirstTurn() {
		t.Fatalf("turn 2 is not the first turn")
	}

	tm.EndTurn()
	if tm.ActiveSeat() != 0 || tm.TurnNumber() != 3 {
		t.Fatalf("expected seat 0 on turn 3, got seat %d turn %d", tm.ActiveSeat(), tm.TurnNumber())
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseCounterResolution.String() != "COUNTER_RESOLUTION" {
		t.Fatalf("unexpected phase name %s", PhaseCounterResolution)
	}
	if Phase(42).String() != "PHASE_42" {
		t.Fatalf("unexpected fallback name %s", Phase(42))
	}
}
