package watchers

import (
	"testing"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game/rules"
)

func TestCountersWatcher(t *testing.T) {
	watcher := NewCountersWatcher()

	if watcher.ConditionMet() {
		t.Fatal("watcher should not have condition met initially")
	}
	if watcher.Count(0) != 0 {
		t.Fatalf("expected 0 counters, got %d", watcher.Count(0))
	}

	watcher.Watch(rules.NewEvent(rules.EventCounterPlayed, 1, "KS", "KS counters"))
	watcher.Watch(rules.NewEvent(rules.EventCounterPlayed, 1, "AH", "AH counters"))
	watcher.Watch(rules.NewEvent(rules.EventCounterPlayed, 0, "AS", "AS counters"))

	if !watcher.ConditionMet() {
		t.Fatal("watcher should have condition met after a counter")
	}
	if watcher.Count(1) != 2 {
		t.Fatalf("expected 2 counters for seat 1, got %d", watcher.Count(1))
	}
	if watcher.Count(0) != 1 {
		t.Fatalf("expected 1 counter for seat 0, got %d", watcher.Count(0))
	}

	// Other events are ignored
	watcher.Watch(rules.NewEvent(rules.EventCounterPassed, 0, "", "pass"))
	if watcher.Count(0) != 1 {
		t.Fatalf("passes should not count, got %d", watcher.Count(0))
	}

	watcher.Reset()
	if watcher.ConditionMet() {
		t.Fatal("watcher should not have condition met after reset")
	}
	if watcher.Count(1) != 0 {
		t.Fatalf("expected 0 counters after reset, got %d", watcher.Count(1))
	}
}

func TestScuttlesWatcher(t *testing.T) {
	watcher := NewScuttlesWatcher()

	ev := rules.NewEvent(rules.EventScuttled, 0, "9H", "scuttle")
	ev.TargetID = "5C"
	watcher.Watch(ev)

	// An event without a target is not a completed scuttle
	watcher.Watch(rules.NewEvent(rules.EventScuttled, 0, "9D", "scuttle"))

	got := watcher.Scuttled(0)
	if len(got) != 1 || got[0] != "5C" {
		t.Fatalf("expected [5C], got %v", got)
	}
	if watcher.Count(1) != 0 {
		t.Fatalf("expected no scuttles for seat 1, got %d", watcher.Count(1))
	}
	if watcher.Scuttled(7) != nil {
		t.Fatal("unknown seats should report nothing")
	}

	watcher.Reset()
	if watcher.Count(0) != 0 {
		t.Fatalf("expected 0 scuttles after reset, got %d", watcher.Count(0))
	}
}

func TestCardsDrawnWatcherScopes(t *testing.T) {
	turn := NewCardsDrawnWatcher(rules.WatcherScopeTurn)
	game := NewCardsDrawnWatcher(rules.WatcherScopeGame)

	if turn.GetKey() == game.GetKey() {
		t.Fatal("turn and game watchers need distinct keys")
	}

	reg := rules.NewWatcherRegistry()
	reg.AddWatcher(turn)
	reg.AddWatcher(game)

	for i := 0; i < 3; i++ {
		reg.NotifyWatchers(rules.NewEvent(rules.EventCardDrawn, 1, "", "draw"))
	}
	reg.NotifyWatchers(rules.NewEvent(rules.EventCardDiscarded, 1, "2H", "discard"))

	if turn.Count(1) != 3 || game.Count(1) != 3 {
		t.Fatalf("expected 3 draws in both scopes, got %d and %d", turn.Count(1), game.Count(1))
	}

	reg.ResetWatchersByScope(rules.WatcherScopeTurn)
	if turn.Count(1) != 0 {
		t.Fatalf("turn watcher should reset, got %d", turn.Count(1))
	}
	if game.Count(1) != 3 {
		t.Fatalf("game watcher should keep its total, got %d", game.Count(1))
	}
}

func TestReshufflesWatcher(t *testing.T) {
	watcher := NewReshufflesWatcher()

	ev := rules.NewEvent(rules.EventDeckReshuffled, -1, "", "reshuffle")
	ev.Amount = 44
	watcher.Watch(ev)
	ev.Amount = 30
	watcher.Watch(ev)

	if watcher.Count() != 2 {
		t.Fatalf("expected 2 reshuffles, got %d", watcher.Count())
	}
	if watcher.Cards() != 74 {
		t.Fatalf("expected 74 cards, got %d", watcher.Cards())
	}

	watcher.Reset()
	if watcher.Count() != 0 || watcher.Cards() != 0 {
		t.Fatal("expected reset to clear totals")
	}
}

func TestResolutionsWatcher(t *testing.T) {
	watcher := NewResolutionsWatcher()

	ok := rules.NewEvent(rules.EventActionResolved, 0, "JH", "succeeds")
	ok.Flag = true
	denied := rules.NewEvent(rules.EventActionResolved, 0, "QH", "is denied")

	watcher.Watch(ok)
	if watcher.ConditionMet() {
		t.Fatal("a successful action should not trip the condition")
	}
	watcher.Watch(denied)
	if !watcher.ConditionMet() {
		t.Fatal("a denied action should trip the condition")
	}
	if watcher.Succeeded(0) != 1 || watcher.Denied(0) != 1 {
		t.Fatalf("expected 1/1, got %d/%d", watcher.Succeeded(0), watcher.Denied(0))
	}
}

func TestRegisterDefaults(t *testing.T) {
	reg := rules.NewWatcherRegistry()
	RegisterDefaults(reg)

	for _, key := range []string{KeyCounters, KeyScuttles, KeyCardsDrawn, KeyCardsDrawn + ":game", KeyReshuffles, KeyResolutions} {
		if reg.GetWatcher(key) == nil {
			t.Fatalf("expected watcher %q to be registered", key)
		}
	}
	if n := len(reg.GetAllWatchers()); n != 6 {
		t.Fatalf("expected 6 watchers, got %d", n)
	}
}
