package game

import (
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/cards"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/rules"
)

// viewLogTail is how many narration lines a view carries.
const viewLogTail = 30

// CardView is a card as one seat may see it. Hidden cards carry no identity.
type CardView struct {
	ID        string `json:"id,omitempty"`
	Rank      string `json:"rank,omitempty"`
	Suit      string `json:"suit,omitempty"`
	FaceUp    bool   `json:"face_up"`
	AceValue  int    `json:"ace_value,omitempty"`
	Protected bool   `json:"protected,omitempty"`
	Hidden    bool   `json:"hidden,omitempty"`
}

// PlayerView is one seat's board as seen by the viewer.
type PlayerView struct {
	Seat         int        `json:"seat"`
	Name         string     `json:"name"`
	IsAI         bool       `json:"is_ai"`
	Score        int        `json:"score"`
	HandSize     int        `json:"hand_size"`
	Hand         []CardView `json:"hand"`
	HandRevealed bool       `json:"hand_revealed"`
	ScoreRow     []CardView `json:"score_row"`
	RoyaltyRow   []CardView `json:"royalty_row"`
	IsImmune     bool       `json:"is_immune"`
}

// PendingView describes the action in the counter window.
type PendingView struct {
	ActionID    string   `json:"action_id"`
	Kind        string   `json:"kind"`
	Actor       int      `json:"actor"`
	Description string   `json:"description"`
	CardIDs     []string `json:"card_ids,omitempty"`
	TargetID    string   `json:"target_id,omitempty"`
	EffectRank  string   `json:"effect_rank,omitempty"`
}

// GameView is the read-only, redacted state handed to a seat: the UI and
// every decision adapter see the game through it.
type GameView struct {
	Seat              int           `json:"seat"`
	Turn              int           `json:"turn"`
	Phase             string        `json:"phase"`
	ActionState       string        `json:"action_state"`
	CurrentSeat       int           `json:"current_seat"`
	ActiveSeat        int           `json:"active_seat"`
	FirstSeat         int           `json:"first_seat"`
	TargetScore       int           `json:"target_score"`
	HandLimit         int           `json:"hand_limit"`
	DeckSize          int           `json:"deck_size"`
	DiscardPile       []CardView    `json:"discard_pile"`
	SwapBar           []*CardView   `json:"swap_bar"`
	SwapBarUsed       bool          `json:"swap_bar_used"`
	Players           [2]PlayerView `json:"players"`
	Effect            string        `json:"effect,omitempty"`
	CardChoices       []CardView    `json:"card_choices,omitempty"`
	CardChoiceContext string        `json:"card_choice_context,omitempty"`
	OptionChoices     []Option      `json:"option_choices,omitempty"`
	Pending           *PendingView  `json:"pending,omitempty"`
	CounterStack      []CardView    `json:"counter_stack,omitempty"`
	SelectedCardID    string        `json:"selected_card_id,omitempty"`
	Winner            int           `json:"winner"`
	WinReason         string        `json:"win_reason,omitempty"`
	Log               []string      `json:"log"`
	LegalIntents      []Intent      `json:"legal_intents"`
	StateHash         string        `json:"state_hash"`
}

func cardView(c *cards.Card) CardView {
	return CardView{
		ID:        c.ID,
		Rank:      c.Rank.String(),
		Suit:      c.Suit.String(),
		FaceUp:    c.FaceUp,
		AceValue:  aceValue(c),
		Protected: c.Protected,
	}
}

func aceValue(c *cards.Card) int {
	if c.Rank != cards.RankAce {
		return 0
	}
	return c.AceValue
}

func hiddenView() CardView {
	return CardView{Hidden: true}
}

func cardViews(list []*cards.Card, visible bool) []CardView {
	out := make([]CardView, len(list))
	for i, c := range list {
		if visible {
			out[i] = cardView(c)
		} else {
			out[i] = hiddenView()
		}
	}
	return out
}

// View builds the redacted game view for a seat. NoSeat yields a spectator
// view with every hand hidden and no legal intents.
func (e *Engine) View(seat int) GameView {
	s := e.state
	v := GameView{
		Seat:          seat,
		Turn:          s.Turn(),
		Phase:         s.Phase.String(),
		ActionState:   s.ActionState.String(),
		CurrentSeat:   s.CurrentPlayerIndex(),
		ActiveSeat:    s.ActivePlayerIndex(),
		FirstSeat:     s.FirstPlayerIndex(),
		TargetScore:   e.settings.TargetScore,
		HandLimit:     e.settings.HandLimit,
		DeckSize:      len(s.Deck),
		DiscardPile:   cardViews(s.DiscardPile, true),
		SwapBarUsed:   s.SwapBarUsedThisTurn,
		Effect:        EffectName(s.EffectContext),
		OptionChoices: append([]Option(nil), s.OptionChoices...),
		CounterStack:  make([]CardView, 0, s.CounterStack.Len()),
		Winner:        s.Winner,
		WinReason:     string(s.WinReason),
		LegalIntents:  e.LegalIntents(seat),
		StateHash:     e.Checksum(),
	}
	if seat == s.CurrentPlayerIndex() {
		v.SelectedCardID = s.SelectedCardID
	}

	for _, c := range s.SwapBar {
		if c == nil {
			v.SwapBar = append(v.SwapBar, nil)
			continue
		}
		cv := hiddenView()
		if c.FaceUp {
			cv = cardView(c)
		}
		v.SwapBar = append(v.SwapBar, &cv)
	}

	for i, p := range s.Players {
		revealed := p.HandRevealed(s.Turn())
		v.Players[i] = PlayerView{
			Seat:         p.ID,
			Name:         p.Name,
			IsAI:         p.IsAI,
			Score:        p.Score(),
			HandSize:     len(p.Hand),
			Hand:         cardViews(p.Hand, i == seat || revealed || s.HasWinner()),
			HandRevealed: revealed,
			ScoreRow:     cardViews(p.ScoreRow, true),
			RoyaltyRow:   cardViews(p.RoyaltyRow, true),
			IsImmune:     p.IsImmune,
		}
	}

	if len(s.CardChoices) > 0 {
		v.CardChoices = cardViews(s.CardChoices, seat == s.CurrentPlayerIndex())
		v.CardChoiceContext = s.CardChoiceContext.String()
	}
	for _, entry := range s.CounterStack.List() {
		v.CounterStack = append(v.CounterStack, cardView(entry.Card))
	}
	if a := s.ActionContext; a != nil {
		v.Pending = &PendingView{
			ActionID:    a.ID,
			Kind:        a.Kind.String(),
			Actor:       a.Actor,
			Description: a.Describe(),
			CardIDs:     append([]string(nil), a.CardIDs...),
			TargetID:    a.TargetID,
		}
		if a.EffectRank != 0 {
			v.Pending.EffectRank = a.EffectRank.String()
		}
	}

	start := len(s.Log) - viewLogTail
	if start < 0 {
		start = 0
	}
	v.Log = append([]string(nil), s.Log[start:]...)
	return v
}

// Hand returns the cards the viewer may see in its own hand.
func (v GameView) Hand() []CardView {
	if v.Seat != 0 && v.Seat != 1 {
		return nil
	}
	return v.Players[v.Seat].Hand
}

// IsAwaitingCounter reports whether the view's seat must answer a pending action.
func (v GameView) IsAwaitingCounter() bool {
	return v.ActionState == ActionStateAwaitingCounter.String() && v.Seat == v.CurrentSeat
}

// IsTurnDecision reports whether the view's seat is choosing a turn action.
func (v GameView) IsTurnDecision() bool {
	return v.Seat == v.CurrentSeat && v.Phase != rules.PhaseGameOver.String() &&
		(v.ActionState == ActionStateIdle.String() || v.ActionState == ActionStateCardSelected.String())
}
