package watchers

import (
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/rules"
)

// Keys under which the standard watchers register.
const (
	KeyCounters    = "CountersWatcher"
	KeyScuttles    = "ScuttlesWatcher"
	KeyCardsDrawn  = "CardsDrawnWatcher"
	KeyReshuffles  = "ReshufflesWatcher"
	KeyResolutions = "ResolutionsWatcher"
)

func validSeat(seat int) bool {
	return seat == 0 || seat == 1
}

// CountersWatcher counts counter cards played per seat.
type CountersWatcher struct {
	*rules.BaseWatcher
	played [2]int
}

// NewCountersWatcher creates a game-scoped counters watcher.
func NewCountersWatcher() *CountersWatcher {
	return &CountersWatcher{BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame, KeyCounters)}
}

// Watch implements the Watcher interface.
func (w *CountersWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventCounterPlayed || !validSeat(event.Seat) {
		return
	}
	w.played[event.Seat]++
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CountersWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.played = [2]int{}
}

// Count returns how many counters a seat has played.
func (w *CountersWatcher) Count(seat int) int {
	if !validSeat(seat) {
		return 0
	}
	return w.played[seat]
}

// ScuttlesWatcher records the cards each seat has scuttled.
type ScuttlesWatcher struct {
	*rules.BaseWatcher
	scuttled [2][]string
}

// NewScuttlesWatcher creates a game-scoped scuttles watcher.
func NewScuttlesWatcher() *ScuttlesWatcher {
	return &ScuttlesWatcher{BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame, KeyScuttles)}
}

// Watch implements the Watcher interface.
func (w *ScuttlesWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventScuttled || !validSeat(event.Seat) || event.TargetID == "" {
		return
	}
	w.scuttled[event.Seat] = append(w.scuttled[event.Seat], event.TargetID)
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *ScuttlesWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.scuttled = [2][]string{}
}

// Scuttled returns the IDs of the cards a seat has scuttled, in order.
func (w *ScuttlesWatcher) Scuttled(seat int) []string {
	if !validSeat(seat) {
		return nil
	}
	return w.scuttled[seat]
}

// Count returns how many cards a seat has scuttled.
func (w *ScuttlesWatcher) Count(seat int) int {
	return len(w.Scuttled(seat))
}

// CardsDrawnWatcher counts the cards each seat drew. It is turn-scoped by
// default; a game-scoped instance keeps running totals.
type CardsDrawnWatcher struct {
	*rules.BaseWatcher
	drawn [2]int
}

// NewCardsDrawnWatcher creates a cards-drawn watcher with the given scope.
func NewCardsDrawnWatcher(scope rules.WatcherScope) *CardsDrawnWatcher {
	key := KeyCardsDrawn
	if scope == rules.WatcherScopeGame {
		key += ":game"
	}
	return &CardsDrawnWatcher{BaseWatcher: rules.NewBaseWatcher(scope, key)}
}

// Watch implements the Watcher interface.
func (w *CardsDrawnWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventCardDrawn || !validSeat(event.Seat) {
		return
	}
	w.drawn[event.Seat]++
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CardsDrawnWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.drawn = [2]int{}
}

// Count returns how many cards a seat drew.
func (w *CardsDrawnWatcher) Count(seat int) int {
	if !validSeat(seat) {
		return 0
	}
	return w.drawn[seat]
}

// ReshufflesWatcher counts deck reshuffles.
type ReshufflesWatcher struct {
	*rules.BaseWatcher
	count int
	cards int
}

// NewReshufflesWatcher creates a game-scoped reshuffles watcher.
func NewReshufflesWatcher() *ReshufflesWatcher {
	return &ReshufflesWatcher{BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame, KeyReshuffles)}
}

// Watch implements the Watcher interface.
func (w *ReshufflesWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventDeckReshuffled {
		return
	}
	w.count++
	w.cards += event.Amount
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *ReshufflesWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.count, w.cards = 0, 0
}

// Count returns how many times the deck was rebuilt.
func (w *ReshufflesWatcher) Count() int {
	return w.count
}

// Cards returns how many cards went back into the deck in total.
func (w *ReshufflesWatcher) Cards() int {
	return w.cards
}

// ResolutionsWatcher tallies resolved actions by outcome.
type ResolutionsWatcher struct {
	*rules.BaseWatcher
	succeeded [2]int
	denied    [2]int
}

// NewResolutionsWatcher creates a game-scoped resolutions watcher.
func NewResolutionsWatcher() *ResolutionsWatcher {
	return &ResolutionsWatcher{BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame, KeyResolutions)}
}

// Watch implements the Watcher interface.
func (w *ResolutionsWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventActionResolved || !validSeat(event.Seat) {
		return
	}
	if event.Flag {
		w.succeeded[event.Seat]++
	} else {
		w.denied[event.Seat]++
		w.SetCondition(true)
	}
}

// Reset clears the watcher's state.
func (w *ResolutionsWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.succeeded = [2]int{}
	w.denied = [2]int{}
}

// Succeeded returns how many of a seat's actions resolved.
func (w *ResolutionsWatcher) Succeeded(seat int) int {
	if !validSeat(seat) {
		return 0
	}
	return w.succeeded[seat]
}

// Denied returns how many of a seat's actions were countered.
func (w *ResolutionsWatcher) Denied(seat int) int {
	if !validSeat(seat) {
		return 0
	}
	return w.denied[seat]
}

// RegisterDefaults adds the standard watchers to a registry.
func RegisterDefaults(reg *rules.WatcherRegistry) {
	reg.AddWatcher(NewCountersWatcher())
	reg.AddWatcher(NewScuttlesWatcher())
	reg.AddWatcher(NewCardsDrawnWatcher(rules.WatcherScopeTurn))
	reg.AddWatcher(NewCardsDrawnWatcher(rules.WatcherScopeGame))
	reg.AddWatcher(NewReshufflesWatcher())
	reg.AddWatcher(NewResolutionsWatcher())
}
