package game

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalAction wraps every rejected intent.
	ErrIllegalAction = errors.New("illegal action")
	// ErrNotYourTurn is returned when a seat acts out of turn.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrGameOver is returned for intents after a winner is declared.
	ErrGameOver = errors.New("game is over")
	// ErrNoPendingAction is returned for counter intents with nothing to counter.
	ErrNoPendingAction = errors.New("no pending action")
)

func illegalf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegalAction, fmt.Sprintf(format, args...))
}

func illegalWrap(err error, format string, args ...any) error {
	return fmt.Errorf("%w: %w: %s", ErrIllegalAction, err, fmt.Sprintf(format, args...))
}
