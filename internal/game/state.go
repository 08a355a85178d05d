package game

import (
	"fmt"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game/cards"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/rules"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/scoring"
)

// NoSeat marks the absence of a seat (no winner yet, shared container).
const NoSeat = rules.NoSeat

// ActionState is the fine-grained sub-phase: exactly what input is awaited next.
type ActionState int

const (
	ActionStateIdle ActionState = iota
	ActionStateCardSelected
	ActionStateAwaitingCounter
	ActionStateAwaitingJackTarget
	ActionStateAwaitingJackPlacement
	ActionStateAwaitingLuckyDrawPick
	ActionStateAwaitingFarmerReturn
	ActionStateAwaitingSoftResetRow
	ActionStateAwaitingSoftResetDiscard
	ActionStateAwaitingSoftResetDrawSource
	ActionStateAwaitingInterrogatorMode
	ActionStateAwaitingInterrogatorSteal
	ActionStateAwaitingMimicRank
	ActionStateAwaitingRummagerPick
	ActionStateAwaitingNinePeekPick
	ActionStateAwaitingHandLimitDiscard
	ActionStateAwaitingOverchargeDiscard
	ActionStateGameOver
)

var actionStateNames = map[ActionState]string{
	ActionStateIdle:                        "IDLE",
	ActionStateCardSelected:                "CARD_SELECTED",
	ActionStateAwaitingCounter:             "AWAITING_COUNTER",
	ActionStateAwaitingJackTarget:          "AWAITING_JACK_TARGET",
	ActionStateAwaitingJackPlacement:       "AWAITING_JACK_PLACEMENT",
	ActionStateAwaitingLuckyDrawPick:       "AWAITING_LUCKY_DRAW_PICK",
	ActionStateAwaitingFarmerReturn:        "AWAITING_FARMER_RETURN",
	ActionStateAwaitingSoftResetRow:        "AWAITING_SOFT_RESET_ROW",
	ActionStateAwaitingSoftResetDiscard:    "AWAITING_SOFT_RESET_DISCARD",
	ActionStateAwaitingSoftResetDrawSource: "AWAITING_SOFT_RESET_DRAW_SOURCE",
	ActionStateAwaitingInterrogatorMode:    "AWAITING_INTERROGATOR_MODE",
	ActionStateAwaitingInterrogatorSteal:   "AWAITING_INTERROGATOR_STEAL",
	ActionStateAwaitingMimicRank:           "AWAITING_MIMIC_RANK",
	ActionStateAwaitingRummagerPick:        "AWAITING_RUMMAGER_PICK",
	ActionStateAwaitingNinePeekPick:        "AWAITING_NINE_PEEK_PICK",
	ActionStateAwaitingHandLimitDiscard:    "AWAITING_HAND_LIMIT_DISCARD",
	ActionStateAwaitingOverchargeDiscard:   "AWAITING_OVERCHARGE_DISCARD",
	ActionStateGameOver:                    "GAME_OVER",
}

func (s ActionState) String() string {
	if name, ok := actionStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ACTION_STATE_%d", int(s))
}

// IsTurnOpen reports whether the current seat may start a new action.
func (s ActionState) IsTurnOpen() bool {
	return s == ActionStateIdle || s == ActionStateCardSelected
}

// CardChoiceContext tags which effect produced the offered card choices.
type CardChoiceContext int

const (
	ChoiceNone CardChoiceContext = iota
	ChoiceLuckyDraw
	ChoiceFarmer
	ChoiceInterrogator
	ChoiceRummager
	ChoiceNinePeek
	ChoiceJackPlacement
)

var choiceContextNames = map[CardChoiceContext]string{
	ChoiceNone:          "NONE",
	ChoiceLuckyDraw:     "LUCKY_DRAW",
	ChoiceFarmer:        "FARMER",
	ChoiceInterrogator:  "INTERROGATOR",
	ChoiceRummager:      "RUMMAGER",
	ChoiceNinePeek:      "NINE_PEEK",
	ChoiceJackPlacement: "JACK_PLACEMENT",
}

func (c CardChoiceContext) String() string {
	if name, ok := choiceContextNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CHOICE_%d", int(c))
}

// WinReason explains how the game ended.
type WinReason string

const (
	WinReasonNone          WinReason = ""
	WinReasonReachedTarget WinReason = "reached target"
	WinReasonExhaustion    WinReason = "exhaustion"
)

// EffectContext holds in-flight data for a multi-step effect.
// The concrete type is the discriminant.
type EffectContext interface {
	effectName() string
}

// JackStealContext tracks a stolen card awaiting placement.
type JackStealContext struct {
	StolenCardID string
}

// LuckyDrawContext tracks a lucky draw reveal.
type LuckyDrawContext struct {
	ChainUsed bool
}

// FarmerContext tracks a farmer reveal.
type FarmerContext struct{}

// SoftResetContext tracks the chosen row and the cards discarded from it.
type SoftResetContext struct {
	TargetSeat   int
	Row          scoring.Row
	DiscardedIDs []string
}

// InterrogatorContext tracks an interrogation of the opponent's hand.
type InterrogatorContext struct{}

// MimicContext tracks a mimic awaiting its rank.
type MimicContext struct{}

// RummagerContext tracks a rummage through the discard pile.
type RummagerContext struct{}

// NinePeekContext tracks the peek after a successful 9 scuttle.
type NinePeekContext struct{}

func (JackStealContext) effectName() string    { return "jack-steal" }
func (LuckyDrawContext) effectName() string    { return "lucky-draw" }
func (FarmerContext) effectName() string       { return "farmer" }
func (SoftResetContext) effectName() string    { return "soft-reset" }
func (InterrogatorContext) effectName() string { return "interrogator" }
func (MimicContext) effectName() string        { return "mimic" }
func (RummagerContext) effectName() string     { return "rummager" }
func (NinePeekContext) effectName() string     { return "nine-peek" }

// EffectName returns the discriminant of an effect context, or "" for none.
func EffectName(ctx EffectContext) string {
	if ctx == nil {
		return ""
	}
	return ctx.effectName()
}

// Option is an abstract (label, value) choice for non-card decisions.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ActionContext is the single pending action awaiting the counter protocol.
type ActionContext struct {
	ID             string
	Kind           rules.ActionKind
	Actor          int
	CardIDs        []string
	TargetID       string
	Row            scoring.Row
	EffectRank     cards.Rank
	SourceConsumed bool
}

// Describe returns a short narration of the action.
func (a *ActionContext) Describe() string {
	switch a.Kind {
	case rules.ActionPlayToScore, rules.ActionPlayToRoyalty:
		return fmt.Sprintf("play %s to the %s row", first(a.CardIDs), a.Row)
	case rules.ActionRoyalMarriage:
		return fmt.Sprintf("royal marriage of %v", a.CardIDs)
	case rules.ActionScuttle:
		return fmt.Sprintf("scuttle %s with %s", a.TargetID, first(a.CardIDs))
	case rules.ActionBaseEffect:
		if a.SourceConsumed {
			return fmt.Sprintf("mimicked %s effect", a.EffectRank)
		}
		return fmt.Sprintf("%s effect of %s", a.EffectRank, first(a.CardIDs))
	case rules.ActionRummager:
		return "rummage the discard pile"
	case rules.ActionSecondQueenEdict:
		return "second queen edict"
	}
	return a.Kind.String()
}

func first(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// Player is one seat at the table.
type Player struct {
	ID                    int
	Name                  string
	IsAI                  bool
	Hand                  []*cards.Card
	ScoreRow              []*cards.Card
	RoyaltyRow            []*cards.Card
	HandRevealedUntilTurn int
	IsImmune              bool
}

// Row returns the requested board row.
func (p *Player) Row(row scoring.Row) []*cards.Card {
	if row == scoring.RowRoyalty {
		return p.RoyaltyRow
	}
	return p.ScoreRow
}

func (p *Player) setRow(row scoring.Row, list []*cards.Card) {
	if row == scoring.RowRoyalty {
		p.RoyaltyRow = list
		return
	}
	p.ScoreRow = list
}

// Score is the player's total over both rows.
func (p *Player) Score() int {
	return scoring.PlayerScore(p.ScoreRow, p.RoyaltyRow)
}

// HandRevealed reports whether the hand is public on the given turn.
func (p *Player) HandRevealed(turn int) bool {
	return p.HandRevealedUntilTurn >= turn
}

// GameState is the single mutable aggregate owned by the engine.
type GameState struct {
	Deck        []*cards.Card
	DiscardPile []*cards.Card
	SwapBar     []*cards.Card

	Players [2]*Player
	turns   *rules.TurnManager

	Phase       rules.Phase
	ActionState ActionState

	SelectedCardID     string
	SelectedCardIDs    []string
	SelectedSwapCardID string

	EffectContext     EffectContext
	CardChoices       []*cards.Card
	CardChoiceContext CardChoiceContext
	OptionChoices     []Option

	ActionContext       *ActionContext
	CounterStack        *rules.CounterStack
	ConsecutivePasses   int
	SwapBarUsedThisTurn bool

	Winner    int
	WinReason WinReason
	Log       []string
}

func newGameState(names [2]string, aiSeats [2]bool, firstSeat int) *GameState {
	s := &GameState{
		turns:        rules.NewTurnManager(firstSeat),
		Phase:        rules.PhaseStartScreen,
		ActionState:  ActionStateIdle,
		CounterStack: rules.NewCounterStack(),
		Winner:       NoSeat,
	}
	for seat := 0; seat < 2; seat++ {
		s.Players[seat] = &Player{ID: seat, Name: names[seat], IsAI: aiSeats[seat]}
	}
	return s
}

// CurrentPlayerIndex is the seat whose intents are currently legal.
func (s *GameState) CurrentPlayerIndex() int {
	return s.turns.CurrentSeat()
}

// ActivePlayerIndex is the seat that owns the turn.
func (s *GameState) ActivePlayerIndex() int {
	return s.turns.ActiveSeat()
}

// FirstPlayerIndex is the seat that took turn 1.
func (s *GameState) FirstPlayerIndex() int {
	return s.turns.FirstSeat()
}

// Turn is the current turn number.
func (s *GameState) Turn() int {
	return s.turns.TurnNumber()
}

// HasWinner reports whether the game is decided.
func (s *GameState) HasWinner() bool {
	return s.Winner != NoSeat
}

// Current returns the player whose input is awaited.
func (s *GameState) Current() *Player {
	return s.Players[s.CurrentPlayerIndex()]
}

// Opponent returns the other player.
func (s *GameState) Opponent(seat int) *Player {
	return s.Players[rules.Opponent(seat)]
}

// clearTransient drops every sub-phase scoped field.
func (s *GameState) clearTransient() {
	s.SelectedCardID = ""
	s.SelectedCardIDs = nil
	s.SelectedSwapCardID = ""
	s.EffectContext = nil
	s.CardChoiceContext = ChoiceNone
	s.OptionChoices = nil
}

// AllCards returns every card in every container, for conservation checks.
func (s *GameState) AllCards() []*cards.Card {
	out := make([]*cards.Card, 0, 52)
	out = append(out, s.Deck...)
	out = append(out, s.DiscardPile...)
	for _, c := range s.SwapBar {
		if c != nil {
			out = append(out, c)
		}
	}
	for _, p := range s.Players {
		out = append(out, p.Hand...)
		out = append(out, p.ScoreRow...)
		out = append(out, p.RoyaltyRow...)
	}
	out = append(out, s.CardChoices...)
	for _, e := range s.CounterStack.List() {
		out = append(out, e.Card)
	}
	return out
}
