package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game"
)

const systemPrompt = `You are playing a two-player card game. Each player scores by placing cards in a score row and a royalty row; the first to total exactly the target score wins.
Pick exactly one of the numbered legal options.
Reply with a JSON object: {"choice": <option number>, "reasoning": "<one short sentence>"}.`

// Completer returns a model reply for a prompt.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Strategy is a decision adapter backed by a chat model.
type Strategy struct {
	model  Completer
	logger *zap.Logger
}

// NewStrategy creates a strategy that asks model for every decision.
func NewStrategy(model Completer, logger *zap.Logger) *Strategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Strategy{model: model, logger: logger}
}

type reply struct {
	Choice    int    `json:"choice"`
	Reasoning string `json:"reasoning"`
}

// ChooseTurnAction implements game.DecisionAdapter.
func (s *Strategy) ChooseTurnAction(ctx context.Context, view game.GameView) (game.TurnDecision, error) {
	in, reasoning, err := s.choose(ctx, view, "Choose your action for this turn.")
	if err != nil {
		return game.TurnDecision{}, err
	}
	return game.TurnDecision{Intent: in, Reasoning: reasoning}, nil
}

// ChooseCounterResponse implements game.DecisionAdapter.
func (s *Strategy) ChooseCounterResponse(ctx context.Context, view game.GameView, legal []game.CardView) (game.CounterDecision, error) {
	if len(legal) == 0 {
		return game.CounterDecision{Pass: true, Reasoning: "no counter card"}, nil
	}
	in, reasoning, err := s.choose(ctx, view, "An action is waiting for a counter. Counter it or pass.")
	if err != nil {
		return game.CounterDecision{}, err
	}
	if in.Type == game.IntentPassCounter {
		return game.CounterDecision{Pass: true, Reasoning: reasoning}, nil
	}
	return game.CounterDecision{CardID: in.CardID, Reasoning: reasoning}, nil
}

// ChooseMidTurnPick implements game.DecisionAdapter.
func (s *Strategy) ChooseMidTurnPick(ctx context.Context, view game.GameView) (game.Intent, error) {
	in, _, err := s.choose(ctx, view, "An effect needs you to choose.")
	return in, err
}

func (s *Strategy) choose(ctx context.Context, view game.GameView, task string) (game.Intent, string, error) {
	if len(view.LegalIntents) == 0 {
		return game.Intent{}, "", errors.New("no legal options")
	}
	text, err := s.model.Complete(ctx, systemPrompt, Prompt(view, task))
	if err != nil {
		return game.Intent{}, "", err
	}
	choice, reasoning, err := ParseReply(text, len(view.LegalIntents))
	if err != nil {
		s.logger.Debug("unusable model reply", zap.String("reply", truncate(text, 200)), zap.Error(err))
		return game.Intent{}, "", err
	}
	in := view.LegalIntents[choice-1]
	s.logger.Debug("model decision",
		zap.Int("seat", view.Seat),
		zap.String("intent", in.String()),
		zap.String("reasoning", reasoning),
	)
	return in, reasoning, nil
}

// ParseReply extracts the 1-based choice from a model reply, tolerating text
// around the JSON object.
func ParseReply(text string, options int) (int, string, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return 0, "", errors.New("empty response")
	}
	var r reply
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		cleaned := extractJSONObject(raw)
		if cleaned == "" {
			return 0, "", err
		}
		if err2 := json.Unmarshal([]byte(cleaned), &r); err2 != nil {
			return 0, "", err
		}
	}
	if r.Choice < 1 || r.Choice > options {
		return 0, "", fmt.Errorf("choice %d out of range 1..%d", r.Choice, options)
	}
	return r.Choice, r.Reasoning, nil
}

// Prompt renders the seat's view and numbered legal options.
func Prompt(view game.GameView, task string) string {
	var b strings.Builder
	me := view.Players[view.Seat]
	opp := view.Players[1-view.Seat]

	fmt.Fprintf(&b, "Turn %d. Target score %d. Hand limit %d. Deck %d cards.\n", view.Turn, view.TargetScore, view.HandLimit, view.DeckSize)
	fmt.Fprintf(&b, "You: score %d, hand [%s], score row [%s], royalty row [%s].\n",
		me.Score, cardList(me.Hand), cardList(me.ScoreRow), cardList(me.RoyaltyRow))
	fmt.Fprintf(&b, "Opponent: score %d, %d cards in hand [%s], score row [%s], royalty row [%s].\n",
		opp.Score, opp.HandSize, cardList(opp.Hand), cardList(opp.ScoreRow), cardList(opp.RoyaltyRow))
	if len(view.DiscardPile) > 0 {
		fmt.Fprintf(&b, "Discard top: %s.\n", label(view.DiscardPile[len(view.DiscardPile)-1]))
	}
	if view.Pending != nil {
		fmt.Fprintf(&b, "Pending: %s (counters played: %d).\n", view.Pending.Description, len(view.CounterStack))
	}
	if len(view.CardChoices) > 0 {
		fmt.Fprintf(&b, "Cards offered: [%s].\n", cardList(view.CardChoices))
	}
	b.WriteString(task)
	b.WriteString("\nOptions:\n")
	for i, in := range view.LegalIntents {
		fmt.Fprintf(&b, "%d. %s\n", i+1, in)
	}
	return b.String()
}

func label(c game.CardView) string {
	if c.Hidden {
		return "?"
	}
	if c.AceValue > 0 {
		return fmt.Sprintf("%s(%d)", c.ID, c.AceValue)
	}
	return c.ID
}

func cardList(list []game.CardView) string {
	parts := make([]string, len(list))
	for i, c := range list {
		parts[i] = label(c)
	}
	return strings.Join(parts, " ")
}
