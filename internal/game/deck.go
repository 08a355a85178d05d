package game

import (
	"go.uber.org/zap"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game/cards"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/rules"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/scoring"
)

// The deck top is the end of the slice; the discard top likewise.

func (e *Engine) popTop() *cards.Card {
	s := e.state
	n := len(s.Deck)
	c := s.Deck[n-1]
	s.Deck = s.Deck[:n-1]
	return c
}

func (e *Engine) popBottom() *cards.Card {
	s := e.state
	c := s.Deck[0]
	s.Deck = s.Deck[1:]
	return c
}

// fillSwapBar deals a fresh swap bar from the deck top, leaving at least
// reserve cards in the deck. The face-up middle slot is dealt first so a short
// deck still yields it; remaining slots stay nil.
func (e *Engine) fillSwapBar(reserve int) {
	s := e.state
	s.SwapBar = make([]*cards.Card, e.settings.SwapBarSize)
	middle := e.settings.middleSlot()
	order := make([]int, 0, len(s.SwapBar))
	order = append(order, middle)
	for i := range s.SwapBar {
		if i != middle {
			order = append(order, i)
		}
	}
	for _, i := range order {
		if len(s.Deck) <= reserve {
			break
		}
		c := e.popTop()
		c.FaceUp = i == middle
		s.SwapBar[i] = c
	}
}

// ensureDeckHasCards shuffles the discard pile and any swap bar cards into a
// fresh deck when the deck is empty, then refills the swap bar. When both the
// deck and the discard pile are empty the game ends by exhaustion and false is
// returned, whatever the swap bar still holds.
func (e *Engine) ensureDeckHasCards() bool {
	s := e.state
	if s.HasWinner() {
		return false
	}
	if len(s.Deck) > 0 {
		return true
	}
	if len(s.DiscardPile) == 0 {
		e.resolveExhaustion()
		return false
	}
	refill := make([]*cards.Card, 0, len(s.DiscardPile)+len(s.SwapBar))
	refill = append(refill, s.DiscardPile...)
	for _, c := range s.SwapBar {
		if c != nil {
			refill = append(refill, c)
		}
	}
	s.DiscardPile = nil
	for _, c := range refill {
		c.LeaveBoard()
		c.FaceUp = false
	}
	e.rng.Shuffle(len(refill), func(i, j int) { refill[i], refill[j] = refill[j], refill[i] })
	s.Deck = refill
	e.fillSwapBar(1)

	e.logger.Debug("deck reshuffled", zap.Int("cards", len(refill)), zap.Int("deck", len(s.Deck)))
	ev := rules.NewEvent(rules.EventDeckReshuffled, NoSeat, "", "The discard pile is shuffled into a new deck")
	ev.Amount = len(refill)
	e.events.Publish(ev)
	return true
}

// drawCard moves the deck top into the seat's hand.
func (e *Engine) drawCard(seat int) bool {
	if !e.ensureDeckHasCards() {
		return false
	}
	c := e.popTop()
	e.addToHand(e.state.Players[seat], c)
	e.emit(rules.EventCardDrawn, seat, c.ID, "%s draws a card", e.state.Players[seat].Name)
	return true
}

// drawBottom moves the deck bottom into the seat's hand.
func (e *Engine) drawBottom(seat int) bool {
	if !e.ensureDeckHasCards() {
		return false
	}
	c := e.popBottom()
	e.addToHand(e.state.Players[seat], c)
	e.emit(rules.EventCardDrawn, seat, c.ID, "%s draws from the bottom of the deck", e.state.Players[seat].Name)
	return true
}

// revealTop moves up to n deck cards face up into the card choices and
// returns how many were revealed.
func (e *Engine) revealTop(seat, n int, ctx CardChoiceContext) int {
	if !e.ensureDeckHasCards() {
		return 0
	}
	s := e.state
	if n > len(s.Deck) {
		n = len(s.Deck)
	}
	revealed := make([]*cards.Card, 0, n)
	for i := 0; i < n; i++ {
		c := e.popTop()
		c.FaceUp = true
		revealed = append(revealed, c)
	}
	s.CardChoices = revealed
	s.CardChoiceContext = ctx
	e.emit(rules.EventCardsRevealed, seat, "", "%s reveals %v", s.Players[seat].Name, cards.IDs(revealed))
	return n
}

func (e *Engine) returnToTop(c *cards.Card, faceUp bool) {
	c.LeaveBoard()
	c.FaceUp = faceUp
	e.state.Deck = append(e.state.Deck, c)
}

func (e *Engine) addToHand(p *Player, c *cards.Card) {
	c.LeaveBoard()
	c.FaceUp = false
	p.Hand = append(p.Hand, c)
}

func (e *Engine) takeFromHand(p *Player, id string) *cards.Card {
	var c *cards.Card
	p.Hand, c = cards.Remove(p.Hand, id)
	return c
}

func (e *Engine) placeInRow(p *Player, c *cards.Card, row scoring.Row) {
	c.FaceUp = true
	p.setRow(row, append(p.Row(row), c))
}

func (e *Engine) removeFromRow(p *Player, row scoring.Row, id string) *cards.Card {
	list, c := cards.Remove(p.Row(row), id)
	p.setRow(row, list)
	if c != nil {
		c.LeaveBoard()
	}
	return c
}

func (e *Engine) discard(c *cards.Card, seat int) {
	c.LeaveBoard()
	c.FaceUp = true
	e.state.DiscardPile = append(e.state.DiscardPile, c)
	e.emit(rules.EventCardDiscarded, seat, c.ID, "%s is discarded", c.ID)
}

// takeChoice removes a card from the offered choices.
func (e *Engine) takeChoice(id string) *cards.Card {
	var c *cards.Card
	e.state.CardChoices, c = cards.Remove(e.state.CardChoices, id)
	return c
}

// drainChoices empties the offered choices and returns them in order.
func (e *Engine) drainChoices() []*cards.Card {
	out := e.state.CardChoices
	e.state.CardChoices = nil
	return out
}

// randomHandCards removes up to n random cards from a hand.
func (e *Engine) randomHandCards(p *Player, n int) []*cards.Card {
	if n > len(p.Hand) {
		n = len(p.Hand)
	}
	out := make([]*cards.Card, 0, n)
	for i := 0; i < n; i++ {
		idx := e.rng.Intn(len(p.Hand))
		c := p.Hand[idx]
		p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
		out = append(out, c)
	}
	return out
}
