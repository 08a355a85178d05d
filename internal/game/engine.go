package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game/cards"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/rules"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/scoring"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/targeting"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/watchers"
)

// Settings are the table constants of one game.
type Settings struct {
	TargetScore     int
	HandLimit       int
	SwapBarSize     int
	InitialHandSize int
	HandRevealTurns int
	ExcludedRanks   []cards.Rank
}

// DefaultSettings returns the standard table constants.
func DefaultSettings() Settings {
	return Settings{
		TargetScore:     21,
		HandLimit:       7,
		SwapBarSize:     5,
		InitialHandSize: 3,
		HandRevealTurns: 2,
	}
}

// Validate rejects settings the engine cannot play with.
func (s Settings) Validate() error {
	if s.TargetScore <= 0 {
		return fmt.Errorf("target score must be positive, got %d", s.TargetScore)
	}
	if s.HandLimit <= 0 {
		return fmt.Errorf("hand limit must be positive, got %d", s.HandLimit)
	}
	if s.SwapBarSize <= 0 || s.SwapBarSize%2 == 0 {
		return fmt.Errorf("swap bar size must be a positive odd number, got %d", s.SwapBarSize)
	}
	if s.InitialHandSize < 0 {
		return fmt.Errorf("initial hand size must not be negative, got %d", s.InitialHandSize)
	}
	universe := len(cards.Universe(s.ExcludedRanks))
	if 2*s.InitialHandSize+s.SwapBarSize > universe {
		return fmt.Errorf("deck of %d cards cannot fill hands and swap bar", universe)
	}
	return nil
}

// middleSlot is the index of the face-up swap bar slot.
func (s Settings) middleSlot() int {
	return s.SwapBarSize / 2
}

// Options configure a new engine.
type Options struct {
	Settings    Settings
	PlayerNames [2]string
	AISeats     [2]bool
	// FirstSeat fixes the opening seat; NoSeat picks one at random.
	FirstSeat int
	// Seed drives every shuffle and random pick; zero seeds from the clock.
	Seed int64
}

// DefaultOptions returns options for a human-vs-AI table.
func DefaultOptions() Options {
	return Options{
		Settings:    DefaultSettings(),
		PlayerNames: [2]string{"Player", "Opponent"},
		AISeats:     [2]bool{false, true},
		FirstSeat:   NoSeat,
	}
}

// Engine owns one game and applies intents to it.
// It is not safe for concurrent use; Session serializes access.
type Engine struct {
	logger     *zap.Logger
	opts       Options
	settings   Settings
	seed       int64
	rng        *rand.Rand
	universe   []string
	state      *GameState
	events     *rules.EventBus
	watchers   *rules.WatcherRegistry
	legality   *rules.LegalityChecker
	targets    *targeting.TargetValidator
	resolution *rules.ResolutionContext
}

// NewEngine creates an engine sitting at the start screen.
func NewEngine(opts Options, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := opts.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	if opts.FirstSeat != NoSeat && opts.FirstSeat != 0 && opts.FirstSeat != 1 {
		return nil, fmt.Errorf("invalid first seat %d", opts.FirstSeat)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	universe := cards.IDs(cards.Universe(opts.Settings.ExcludedRanks))
	sort.Strings(universe)

	e := &Engine{
		logger:     logger,
		opts:       opts,
		settings:   opts.Settings,
		seed:       seed,
		rng:        rand.New(rand.NewSource(seed)),
		universe:   universe,
		events:     rules.NewEventBus(),
		watchers:   rules.NewWatcherRegistry(),
		resolution: rules.NewResolutionContext(),
	}
	e.events.Subscribe(e.narrate)
	e.events.Subscribe(e.watchers.NotifyWatchers)
	watchers.RegisterDefaults(e.watchers)
	e.installState(newGameState(opts.PlayerNames, opts.AISeats, 0))
	return e, nil
}

func (e *Engine) installState(s *GameState) {
	e.state = s
	e.legality = rules.NewLegalityChecker(s)
	e.targets = targeting.NewTargetValidator(s)
	e.resolution.Reset()
}

// narrate appends event descriptions to the game log. Rejected intents are
// reported through the logger and the bus but never touch the state.
func (e *Engine) narrate(ev rules.Event) {
	if ev.Type == rules.EventIllegalIntent || ev.Description == "" {
		return
	}
	e.state.Log = append(e.state.Log, ev.Description)
}

// State exposes the live game state. Callers must not mutate it.
func (e *Engine) State() *GameState {
	return e.state
}

// Settings returns the table constants.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Seed returns the seed driving this engine's randomness.
func (e *Engine) Seed() int64 {
	return e.seed
}

// Events returns the engine's event bus.
func (e *Engine) Events() *rules.EventBus {
	return e.events
}

// StartNewGame shuffles, deals and opens turn 1. Legal from the start
// screen and after a game is over.
func (e *Engine) StartNewGame() error {
	return e.Apply(StartNewGameIntent())
}

// Reset returns the engine to the start screen.
func (e *Engine) Reset() {
	_ = e.Apply(ResetGameIntent())
}

// Apply validates and applies one intent. Rejected intents return an error
// wrapping ErrIllegalAction and leave the state unchanged.
func (e *Engine) Apply(intent Intent) error {
	if err := e.route(intent); err != nil {
		e.reject(intent, err)
		return err
	}
	return nil
}

func (e *Engine) route(in Intent) error {
	switch in.Type {
	case IntentStartNewGame:
		return e.startNewGame()
	case IntentResetGame:
		e.resetGame()
		return nil
	}

	s := e.state
	if s.HasWinner() {
		return illegalWrap(ErrGameOver, "%s rejected", in.Type)
	}
	if s.Phase == rules.PhaseStartScreen {
		return illegalf("game has not started")
	}
	if in.Seat != s.CurrentPlayerIndex() {
		return illegalWrap(ErrNotYourTurn, "seat %d acted while seat %d is to act", in.Seat, s.CurrentPlayerIndex())
	}

	switch in.Type {
	case IntentSelectCard:
		return e.handleSelectCard(in)
	case IntentPlayToRow:
		return e.handlePlayToRow(in)
	case IntentScuttle:
		return e.handleScuttle(in)
	case IntentPlayForEffect:
		return e.handlePlayForEffect(in)
	case IntentRoyalMarriage:
		return e.handleRoyalMarriage(in)
	case IntentDraw:
		return e.handleDraw(in)
	case IntentPlayCounter:
		return e.handlePlayCounter(in)
	case IntentPassCounter:
		return e.handlePassCounter(in)
	case IntentCardChoice:
		return e.handleCardChoice(in)
	case IntentOptionChoice:
		return e.handleOptionChoice(in)
	case IntentSwapBarChoice:
		return e.handleSwapBarChoice(in)
	case IntentConfirmDiscard:
		return e.handleConfirmDiscard(in)
	}
	return illegalf("unknown intent %q", in.Type)
}

func (e *Engine) reject(in Intent, err error) {
	s := e.state
	if s.ActionState == ActionStateCardSelected {
		s.ActionState = ActionStateIdle
		s.SelectedCardID = ""
	}
	e.logger.Warn("illegal intent",
		zap.String("intent", in.String()),
		zap.Int("seat", in.Seat),
		zap.Stringer("action_state", s.ActionState),
		zap.Error(err),
	)
	ev := rules.NewEvent(rules.EventIllegalIntent, in.Seat, in.CardID, err.Error())
	e.events.Publish(ev)
}

// IsIllegal reports whether err is a rejected intent.
func IsIllegal(err error) bool {
	return errors.Is(err, ErrIllegalAction)
}

func (e *Engine) startNewGame() error {
	if e.state.Phase != rules.PhaseStartScreen && !e.state.HasWinner() {
		return illegalf("a game is already in progress")
	}
	first := e.opts.FirstSeat
	if first == NoSeat {
		first = e.rng.Intn(2)
	}
	e.installState(newGameState(e.opts.PlayerNames, e.opts.AISeats, first))
	e.watchers.ResetWatchersByScope(rules.WatcherScopeGame)
	e.watchers.ResetWatchersByScope(rules.WatcherScopeTurn)

	s := e.state
	deck := cards.Universe(e.settings.ExcludedRanks)
	e.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	s.Deck = deck

	for i := 0; i < e.settings.InitialHandSize; i++ {
		for _, seat := range []int{first, rules.Opponent(first)} {
			e.addToHand(s.Players[seat], e.popTop())
		}
	}
	e.fillSwapBar(0)

	s.Phase = rules.PhaseFirstTurn
	s.ActionState = ActionStateIdle

	e.logger.Info("game started",
		zap.Int64("seed", e.seed),
		zap.Int("first_seat", first),
		zap.Int("deck", len(s.Deck)),
	)
	e.emit(rules.EventGameStarted, first, "", "New game: %s goes first", s.Players[first].Name)
	e.emit(rules.EventTurnStarted, first, "", "Turn 1: %s", s.Players[first].Name)
	return nil
}

func (e *Engine) resetGame() {
	e.installState(newGameState(e.opts.PlayerNames, e.opts.AISeats, 0))
	e.watchers.ResetWatchersByScope(rules.WatcherScopeGame)
	e.watchers.ResetWatchersByScope(rules.WatcherScopeTurn)
	e.logger.Info("game reset")
}

// emit publishes a narrated event.
func (e *Engine) emit(t rules.EventType, seat int, cardID, format string, args ...any) rules.Event {
	ev := rules.NewEvent(t, seat, cardID, fmt.Sprintf(format, args...))
	e.events.Publish(ev)
	return ev
}

// CheckConservation verifies that every card of the universe sits in exactly
// one container.
func (e *Engine) CheckConservation() error {
	if e.state.Phase == rules.PhaseStartScreen {
		return nil
	}
	ids := cards.IDs(e.state.AllCards())
	sort.Strings(ids)
	if len(ids) != len(e.universe) {
		return fmt.Errorf("card count %d, want %d", len(ids), len(e.universe))
	}
	for i := range ids {
		if ids[i] != e.universe[i] {
			return fmt.Errorf("card %s out of place (want %s)", ids[i], e.universe[i])
		}
	}
	return nil
}

// FindCard implements rules.GameStateAccessor.
func (s *GameState) FindCard(cardID string) (rules.CardInfo, bool) {
	if cardID == "" {
		return rules.CardInfo{}, false
	}
	lookup := func(list []*cards.Card, zone rules.Zone, owner int) (rules.CardInfo, bool) {
		if idx := cards.IndexOf(list, cardID); idx >= 0 {
			return rules.CardInfo{Card: list[idx], Zone: zone, Owner: owner}, true
		}
		return rules.CardInfo{}, false
	}
	for _, p := range s.Players {
		if info, ok := lookup(p.Hand, rules.ZoneHand, p.ID); ok {
			return info, true
		}
		if info, ok := lookup(p.ScoreRow, rules.ZoneScoreRow, p.ID); ok {
			return info, true
		}
		if info, ok := lookup(p.RoyaltyRow, rules.ZoneRoyaltyRow, p.ID); ok {
			return info, true
		}
	}
	if info, ok := lookup(s.Deck, rules.ZoneDeck, NoSeat); ok {
		return info, true
	}
	if info, ok := lookup(s.DiscardPile, rules.ZoneDiscard, NoSeat); ok {
		return info, true
	}
	if info, ok := lookup(s.CardChoices, rules.ZoneChoices, NoSeat); ok {
		return info, true
	}
	for _, c := range s.SwapBar {
		if c != nil && c.ID == cardID {
			return rules.CardInfo{Card: c, Zone: rules.ZoneSwapBar, Owner: NoSeat}, true
		}
	}
	for _, entry := range s.CounterStack.List() {
		if entry.Card.ID == cardID {
			return rules.CardInfo{Card: entry.Card, Zone: rules.ZoneCounterStack, Owner: entry.Seat}, true
		}
	}
	return rules.CardInfo{}, false
}

// FindPlayer implements rules.GameStateAccessor.
func (s *GameState) FindPlayer(seat int) (rules.PlayerInfo, bool) {
	if seat != 0 && seat != 1 {
		return rules.PlayerInfo{}, false
	}
	p := s.Players[seat]
	return rules.PlayerInfo{
		Seat:            seat,
		Immune:          p.IsImmune,
		QueensInRoyalty: cards.CountRank(p.RoyaltyRow, cards.RankQueen),
	}, true
}

// FindCardForTarget implements targeting.TargetGameStateAccessor.
func (s *GameState) FindCardForTarget(cardID string) (targeting.TargetCardInfo, bool) {
	info, ok := s.FindCard(cardID)
	if !ok {
		return targeting.TargetCardInfo{}, false
	}
	return targeting.TargetCardInfo{Card: info.Card, Zone: info.Zone, Owner: info.Owner}, true
}

// FindPlayerForTarget implements targeting.TargetGameStateAccessor.
func (s *GameState) FindPlayerForTarget(seat int) (targeting.TargetPlayerInfo, bool) {
	if seat != 0 && seat != 1 {
		return targeting.TargetPlayerInfo{}, false
	}
	return targeting.TargetPlayerInfo{Seat: seat, Immune: s.Players[seat].IsImmune}, true
}

// RowCardsForTarget implements targeting.TargetGameStateAccessor.
func (s *GameState) RowCardsForTarget(seat int, row scoring.Row) []*cards.Card {
	if seat != 0 && seat != 1 {
		return nil
	}
	return s.Players[seat].Row(row)
}
