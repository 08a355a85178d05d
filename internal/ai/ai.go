// Package ai provides decision adapters for non-human seats.
package ai

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Defients/Jakuv-vgame-sub001/internal/ai/llm"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/cards"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/scoring"
)

// Kind names a strategy.
type Kind string

const (
	KindRandom Kind = "random"
	KindGreedy Kind = "greedy"
	KindLLM    Kind = "llm"
)

// Options configures New.
type Options struct {
	Kind   Kind
	Seed   int64
	LLM    llm.Config
	Logger *zap.Logger
}

// ParseKind parses a strategy name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindRandom, KindGreedy, KindLLM:
		return k, nil
	case "":
		return KindGreedy, nil
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}

// New creates the adapter named by opts.Kind.
func New(opts Options) (game.DecisionAdapter, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	switch opts.Kind {
	case KindRandom:
		return NewRandomStrategy(seed), nil
	case KindGreedy, "":
		return NewGreedyStrategy(), nil
	case KindLLM:
		client, err := llm.NewClient(opts.LLM)
		if err != nil {
			return nil, fmt.Errorf("llm strategy: %w", err)
		}
		return llm.NewStrategy(client, logger.Named("llm")), nil
	}
	return nil, fmt.Errorf("unknown strategy %q", opts.Kind)
}

// rankOf parses the rank of a visible card. Hidden cards report 0.
func rankOf(c game.CardView) cards.Rank {
	if c.Hidden || c.Rank == "" {
		return 0
	}
	r, err := cards.ParseRank(c.Rank)
	if err != nil {
		return 0
	}
	return r
}

// valueOf is a card's worth in a row, as the scoring package counts it.
func valueOf(c game.CardView, row scoring.Row) int {
	r := rankOf(c)
	if r == 0 {
		return 0
	}
	card := &cards.Card{Rank: r, AceValue: c.AceValue}
	return scoring.CardValue(card, row)
}

func findCard(list []game.CardView, id string) (game.CardView, bool) {
	for _, c := range list {
		if c.ID == id {
			return c, true
		}
	}
	return game.CardView{}, false
}
