package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game/scoring"
)

// IntentType names one kind of player input.
type IntentType string

const (
	IntentSelectCard     IntentType = "select-card"
	IntentPlayToRow      IntentType = "propose-play-to-row"
	IntentScuttle        IntentType = "propose-scuttle"
	IntentPlayForEffect  IntentType = "propose-play-for-effect"
	IntentRoyalMarriage  IntentType = "propose-royal-marriage"
	IntentDraw           IntentType = "end-turn-via-draw"
	IntentPlayCounter    IntentType = "play-counter-card"
	IntentPassCounter    IntentType = "pass-counter"
	IntentCardChoice     IntentType = "make-card-choice"
	IntentOptionChoice   IntentType = "make-option-choice"
	IntentSwapBarChoice  IntentType = "make-swap-bar-choice"
	IntentConfirmDiscard IntentType = "confirm-discard-selection"
	IntentStartNewGame   IntentType = "start-new-game"
	IntentResetGame      IntentType = "reset-game"
)

// Intent is one validated unit of player input. Human and AI seats submit
// the same intents through the same path.
type Intent struct {
	Type     IntentType  `json:"type"`
	Seat     int         `json:"seat"`
	CardID   string      `json:"card_id,omitempty"`
	CardIDs  []string    `json:"card_ids,omitempty"`
	TargetID string      `json:"target_id,omitempty"`
	Row      scoring.Row `json:"row"`
	Option   string      `json:"option,omitempty"`
	Slot     int         `json:"slot"`
}

// Key is a canonical form used to compare intents.
func (in Intent) Key() string {
	ids := append([]string(nil), in.CardIDs...)
	sort.Strings(ids)
	return fmt.Sprintf("%s|%d|%s|%s|%s|%s|%s|%d",
		in.Type, in.Seat, in.CardID, strings.Join(ids, ","), in.TargetID, in.Row, in.Option, in.Slot)
}

// String renders the intent for logs and prompts.
func (in Intent) String() string {
	switch in.Type {
	case IntentSelectCard:
		return fmt.Sprintf("select %s", in.CardID)
	case IntentPlayToRow:
		return fmt.Sprintf("play %s to %s row", in.CardID, in.Row)
	case IntentScuttle:
		return fmt.Sprintf("scuttle %s with %s", in.TargetID, in.CardID)
	case IntentPlayForEffect:
		return fmt.Sprintf("play %s for effect", in.CardID)
	case IntentRoyalMarriage:
		return fmt.Sprintf("royal marriage %s", strings.Join(in.CardIDs, "+"))
	case IntentDraw:
		return "draw and end turn"
	case IntentPlayCounter:
		return fmt.Sprintf("counter with %s", in.CardID)
	case IntentPassCounter:
		return "pass"
	case IntentCardChoice:
		return fmt.Sprintf("choose %s", in.CardID)
	case IntentOptionChoice:
		return fmt.Sprintf("choose option %s", in.Option)
	case IntentSwapBarChoice:
		if in.CardID == "" {
			return fmt.Sprintf("take swap slot %d", in.Slot)
		}
		return fmt.Sprintf("put %s into swap slot %d", in.CardID, in.Slot)
	case IntentConfirmDiscard:
		return fmt.Sprintf("discard %s", strings.Join(in.CardIDs, ","))
	}
	return string(in.Type)
}

func SelectCard(seat int, cardID string) Intent {
	return Intent{Type: IntentSelectCard, Seat: seat, CardID: cardID}
}

func PlayToRow(seat int, cardID string, row scoring.Row) Intent {
	return Intent{Type: IntentPlayToRow, Seat: seat, CardID: cardID, Row: row}
}

func Scuttle(seat int, attackerID, targetID string) Intent {
	return Intent{Type: IntentScuttle, Seat: seat, CardID: attackerID, TargetID: targetID}
}

func PlayForEffect(seat int, cardID string) Intent {
	return Intent{Type: IntentPlayForEffect, Seat: seat, CardID: cardID}
}

func RoyalMarriage(seat int, kingID, queenID string) Intent {
	return Intent{Type: IntentRoyalMarriage, Seat: seat, CardIDs: []string{kingID, queenID}}
}

func Draw(seat int) Intent {
	return Intent{Type: IntentDraw, Seat: seat}
}

func PlayCounter(seat int, cardID string) Intent {
	return Intent{Type: IntentPlayCounter, Seat: seat, CardID: cardID}
}

func PassCounter(seat int) Intent {
	return Intent{Type: IntentPassCounter, Seat: seat}
}

func CardChoice(seat int, cardID string) Intent {
	return Intent{Type: IntentCardChoice, Seat: seat, CardID: cardID}
}

func OptionChoice(seat int, value string) Intent {
	return Intent{Type: IntentOptionChoice, Seat: seat, Option: value}
}

// SwapBarChoice takes the slot card when cardID is empty, otherwise places
// the hand card into the slot, trading if it is occupied.
func SwapBarChoice(seat, slot int, cardID string) Intent {
	return Intent{Type: IntentSwapBarChoice, Seat: seat, Slot: slot, CardID: cardID}
}

func ConfirmDiscard(seat int, cardIDs ...string) Intent {
	return Intent{Type: IntentConfirmDiscard, Seat: seat, CardIDs: cardIDs}
}

func StartNewGameIntent() Intent {
	return Intent{Type: IntentStartNewGame, Seat: NoSeat}
}

func ResetGameIntent() Intent {
	return Intent{Type: IntentResetGame, Seat: NoSeat}
}
