package game

import (
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/rules"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/watchers"
)

// SeatStats holds one seat's running totals for the current game.
type SeatStats struct {
	Draws     int `json:"draws"`
	Counters  int `json:"counters"`
	Scuttles  int `json:"scuttles"`
	Resolved  int `json:"resolved"`
	Denied    int `json:"denied"`
	DrawsTurn int `json:"drawsThisTurn"`
}

// GameStats summarises the current game from the engine's watchers.
type GameStats struct {
	Seats           [2]SeatStats `json:"seats"`
	Reshuffles      int          `json:"reshuffles"`
	ReshuffledCards int          `json:"reshuffledCards"`
}

// Stats reads the default watchers. Watchers that were removed from the
// registry contribute zeros.
func (e *Engine) Stats() GameStats {
	var st GameStats
	reg := e.watchers

	if w, ok := lookup[*watchers.CardsDrawnWatcher](reg, watchers.KeyCardsDrawn+":game"); ok {
		for seat := range st.Seats {
			st.Seats[seat].Draws = w.Count(seat)
		}
	}
	if w, ok := lookup[*watchers.CardsDrawnWatcher](reg, watchers.KeyCardsDrawn); ok {
		for seat := range st.Seats {
			st.Seats[seat].DrawsTurn = w.Count(seat)
		}
	}
	if w, ok := lookup[*watchers.CountersWatcher](reg, watchers.KeyCounters); ok {
		for seat := range st.Seats {
			st.Seats[seat].Counters = w.Count(seat)
		}
	}
	if w, ok := lookup[*watchers.ScuttlesWatcher](reg, watchers.KeyScuttles); ok {
		for seat := range st.Seats {
			st.Seats[seat].Scuttles = w.Count(seat)
		}
	}
	if w, ok := lookup[*watchers.ResolutionsWatcher](reg, watchers.KeyResolutions); ok {
		for seat := range st.Seats {
			st.Seats[seat].Resolved = w.Succeeded(seat)
			st.Seats[seat].Denied = w.Denied(seat)
		}
	}
	if w, ok := lookup[*watchers.ReshufflesWatcher](reg, watchers.KeyReshuffles); ok {
		st.Reshuffles = w.Count()
		st.ReshuffledCards = w.Cards()
	}
	return st
}

func lookup[W rules.Watcher](reg *rules.WatcherRegistry, key string) (W, bool) {
	w, ok := reg.GetWatcher(key).(W)
	return w, ok
}
