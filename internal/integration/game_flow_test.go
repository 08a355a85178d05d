package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/Defients/Jakuv-vgame-sub001/internal/ai"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/rules"
	"github.com/Defients/Jakuv-vgame-sub001/internal/tournament"
)

func aiOptions(seed int64) game.Options {
	opts := game.DefaultOptions()
	opts.AISeats = [2]bool{true, true}
	opts.Seed = seed
	return opts
}

// eventTally counts engine events per seat as they are published.
type eventTally struct {
	draws, counters, resolved, denied [2]int
	reshuffles                        int
}

func (c *eventTally) listen(ev rules.Event) {
	seat := ev.Seat
	inSeat := seat == 0 || seat == 1
	switch ev.Type {
	case rules.EventCardDrawn:
		if inSeat {
			c.draws[seat]++
		}
	case rules.EventCounterPlayed:
		if inSeat {
			c.counters[seat]++
		}
	case rules.EventActionResolved:
		if !inSeat {
			return
		}
		if ev.Flag {
			c.resolved[seat]++
		} else {
			c.denied[seat]++
		}
	case rules.EventDeckReshuffled:
		c.reshuffles++
	}
}

// TestAdapterGamesReplayAndStats plays full adapter games and checks that the
// recorded replay reproduces them and that the watcher totals agree with the
// raw event stream.
func TestAdapterGamesReplayAndStats(t *testing.T) {
	logger := zaptest.NewLogger(t)

	for seed := int64(1); seed <= 6; seed++ {
		seed := seed
		engine, err := game.NewEngine(aiOptions(seed), logger)
		if err != nil {
			t.Fatalf("seed %d: failed to create engine: %v", seed, err)
		}
		var tally eventTally
		engine.Events().Subscribe(tally.listen)

		adapters := [2]game.DecisionAdapter{ai.NewGreedyStrategy(), ai.NewRandomStrategy(seed)}
		recorder := game.NewReplayRecorder(logger, t.TempDir())
		sess := game.NewSession("flow", engine, adapters,
			game.SessionConfig{DecisionTimeout: time.Second, MaxAdapterSteps: 2000}, logger).WithRecorder(recorder)

		winner, err := sess.RunToCompletion(context.Background())
		if err != nil && !errors.Is(err, game.ErrStepLimit) {
			t.Fatalf("seed %d: game failed: %v", seed, err)
		}
		if err == nil && winner != 0 && winner != 1 {
			t.Fatalf("seed %d: finished game has no winner", seed)
		}

		var stats game.GameStats
		var checksum string
		sess.Inspect(func(e *game.Engine) {
			stats = e.Stats()
			checksum = e.Checksum()
			if cerr := e.CheckConservation(); cerr != nil {
				t.Fatalf("seed %d: %v", seed, cerr)
			}
		})

		for s := 0; s < 2; s++ {
			if stats.Seats[s].Draws != tally.draws[s] {
				t.Errorf("seed %d seat %d: draws %d, events %d", seed, s, stats.Seats[s].Draws, tally.draws[s])
			}
			if stats.Seats[s].Counters != tally.counters[s] {
				t.Errorf("seed %d seat %d: counters %d, events %d", seed, s, stats.Seats[s].Counters, tally.counters[s])
			}
			if stats.Seats[s].Resolved != tally.resolved[s] || stats.Seats[s].Denied != tally.denied[s] {
				t.Errorf("seed %d seat %d: resolutions %d/%d, events %d/%d", seed, s,
					stats.Seats[s].Resolved, stats.Seats[s].Denied, tally.resolved[s], tally.denied[s])
			}
		}
		if stats.Reshuffles != tally.reshuffles {
			t.Errorf("seed %d: reshuffles %d, events %d", seed, stats.Reshuffles, tally.reshuffles)
		}

		replay, ok := recorder.GetReplay("flow")
		if !ok {
			t.Fatalf("seed %d: no replay recorded", seed)
		}
		replayed, err := replay.Verify(logger)
		if err != nil {
			t.Fatalf("seed %d: replay diverged: %v", seed, err)
		}
		if replayed.Checksum() != checksum {
			t.Fatalf("seed %d: replayed final state differs", seed)
		}
		if replayed.State().Winner != winner {
			t.Fatalf("seed %d: replayed winner %d, want %d", seed, replayed.State().Winner, winner)
		}
	}
}

// TestSeriesFromAdapterGames feeds real game results into a series.
func TestSeriesFromAdapterGames(t *testing.T) {
	logger := zaptest.NewLogger(t)
	mgr := tournament.NewManager(logger)

	const games = 4
	series, err := mgr.CreateSeries("greedy-vs-random", [2]string{"greedy", "random"}, games)
	if err != nil {
		t.Fatalf("failed to create series: %v", err)
	}
	if err := series.Start(); err != nil {
		t.Fatalf("failed to start series: %v", err)
	}

	for i := 0; i < games; i++ {
		seed := int64(100 + i)
		seats := [2]string{"greedy", "random"}
		adapters := [2]game.DecisionAdapter{ai.NewGreedyStrategy(), ai.NewRandomStrategy(seed)}
		if i%2 == 1 {
			seats[0], seats[1] = seats[1], seats[0]
			adapters[0], adapters[1] = adapters[1], adapters[0]
		}

		engine, err := game.NewEngine(aiOptions(seed), logger)
		if err != nil {
			t.Fatalf("failed to create engine: %v", err)
		}
		sess := game.NewSession("series", engine, adapters,
			game.SessionConfig{DecisionTimeout: time.Second, MaxAdapterSteps: 2000}, logger)
		winner, runErr := sess.RunToCompletion(context.Background())

		res := tournament.GameResult{Seed: seed, Seats: seats, Winner: winner, Err: runErr}
		sess.Inspect(func(e *game.Engine) {
			res.Turns = e.State().Turn()
			res.FirstSeat = e.State().FirstPlayerIndex()
			res.Reason = e.State().WinReason
			res.Stats = e.Stats()
		})
		if err := series.RecordResult(res); err != nil {
			t.Fatalf("game %d: failed to record result: %v", i, err)
		}
	}

	snap := series.Snapshot()
	if snap.State != tournament.SeriesStateFinished {
		t.Fatalf("expected finished series, got %s", snap.State)
	}
	decided := 0
	for _, e := range snap.Entrants {
		decided += e.Wins
		if e.GamesFirst > games {
			t.Errorf("%s opened %d of %d games", e.Name, e.GamesFirst, games)
		}
	}
	if decided+snap.Aborted != games {
		t.Fatalf("wins %d plus aborted %d should equal %d games", decided, snap.Aborted, games)
	}
	mgr.LogStandings(series)
}
