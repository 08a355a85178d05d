// Command simulate plays adapter-vs-adapter games and reports standings.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/Defients/Jakuv-vgame-sub001/internal/ai"
	"github.com/Defients/Jakuv-vgame-sub001/internal/config"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game"
	"github.com/Defients/Jakuv-vgame-sub001/internal/tournament"
)

var (
	configPath  = flag.String("config", "config/config.yaml", "path to configuration file")
	games       = flag.Int("games", 0, "number of games (overrides simulation.games)")
	parallelism = flag.Int("parallel", 0, "concurrent games (overrides simulation.parallelism)")
	seed        = flag.Int64("seed", 0, "base seed (overrides simulation.seed)")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *games > 0 {
		cfg.Simulation.Games = *games
	}
	if *parallelism > 0 {
		cfg.Simulation.Parallelism = *parallelism
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := simulate(ctx, cfg, logger); err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}
}

func simulate(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	sim := cfg.Simulation
	if len(sim.Strategies) != 2 {
		return fmt.Errorf("simulation needs exactly two strategies, got %d", len(sim.Strategies))
	}
	entrants := [2]string{sim.Strategies[0], sim.Strategies[1]}
	if entrants[0] == entrants[1] {
		// Mirror matches still need distinct entrant names.
		entrants[1] += "-b"
	}

	engineOpts, err := cfg.EngineOptions()
	if err != nil {
		return err
	}
	engineOpts.AISeats = [2]bool{true, true}

	var recorder *game.ReplayRecorder
	if cfg.Replay.Enabled {
		recorder = game.NewReplayRecorder(logger.Named("replay"), cfg.Replay.Dir)
	}

	series := tournament.NewManager(logger.Named("series"))
	s, err := series.CreateSeries("simulation", entrants, sim.Games)
	if err != nil {
		return err
	}
	if err := s.Start(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sim.Parallelism)
	for i := 0; i < sim.Games; i++ {
		i := i
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			res := playOne(gctx, cfg, engineOpts, entrants, sim.Seed+int64(i), i%2 == 1, recorder, logger)
			if res.Err != nil && !errors.Is(res.Err, game.ErrStepLimit) {
				logger.Warn("game aborted", zap.String("game_id", res.GameID), zap.Error(res.Err))
			}
			return s.RecordResult(res)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	series.LogStandings(s)
	return nil
}

// playOne runs a single game. swap puts the second entrant in seat 0.
func playOne(ctx context.Context, cfg *config.Config, opts game.Options, entrants [2]string, gameSeed int64, swap bool,
	recorder *game.ReplayRecorder, logger *zap.Logger) tournament.GameResult {
	seats := entrants
	strategies := [2]string{cfg.Simulation.Strategies[0], cfg.Simulation.Strategies[1]}
	if swap {
		seats[0], seats[1] = seats[1], seats[0]
		strategies[0], strategies[1] = strategies[1], strategies[0]
	}
	opts.Seed = gameSeed

	res := tournament.GameResult{
		GameID: uuid.New().String(),
		Seed:   gameSeed,
		Seats:  seats,
		Winner: game.NoSeat,
	}

	var adapters [2]game.DecisionAdapter
	for seat, name := range strategies {
		so, err := cfg.StrategyOptions(name, gameSeed*2+int64(seat))
		if err != nil {
			res.Err = err
			return res
		}
		so.Logger = logger.Named("ai")
		a, err := ai.New(so)
		if err != nil {
			res.Err = err
			return res
		}
		adapters[seat] = a
	}

	engine, err := game.NewEngine(opts, logger.Named("engine").With(zap.String("game_id", res.GameID)))
	if err != nil {
		res.Err = err
		return res
	}
	sess := game.NewSession(res.GameID, engine, adapters, cfg.SessionConfig(), logger.Named("session"))
	if recorder != nil {
		sess.WithRecorder(recorder)
	}

	winner, runErr := sess.RunToCompletion(ctx)
	sess.Inspect(func(e *game.Engine) {
		st := e.State()
		res.Turns = st.Turn()
		res.FirstSeat = st.FirstPlayerIndex()
		res.Reason = st.WinReason
		res.Stats = e.Stats()
		if err := e.CheckConservation(); err != nil && runErr == nil {
			runErr = fmt.Errorf("conservation: %w", err)
		}
	})
	res.Winner = winner
	res.Err = runErr

	if recorder != nil {
		if err := recorder.SaveReplay(res.GameID); err != nil {
			logger.Warn("failed to save replay", zap.String("game_id", res.GameID), zap.Error(err))
		}
	}

	logger.Debug("game finished",
		zap.String("game_id", res.GameID),
		zap.Int64("seed", gameSeed),
		zap.Strings("seats", seats[:]),
		zap.Int("winner", winner),
		zap.String("reason", string(res.Reason)),
		zap.Int("turns", res.Turns),
	)
	return res
}

func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
