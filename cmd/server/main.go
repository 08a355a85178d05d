package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/Defients/Jakuv-vgame-sub001/internal/ai"
	"github.com/Defients/Jakuv-vgame-sub001/internal/config"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game"
	"github.com/Defients/Jakuv-vgame-sub001/internal/server"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting game server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
	logger.Info("game server stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	engineOpts, err := cfg.EngineOptions()
	if err != nil {
		return err
	}
	strategy, err := cfg.StrategyOptions(cfg.AI.Strategy, cfg.AI.Seed)
	if err != nil {
		return err
	}
	strategy.Logger = logger.Named("ai")

	// Fail on a broken strategy at startup rather than on the first connection.
	if _, err := ai.New(strategy); err != nil {
		return fmt.Errorf("invalid ai strategy: %w", err)
	}

	var recorder *game.ReplayRecorder
	if cfg.Replay.Enabled {
		recorder = game.NewReplayRecorder(logger.Named("replay"), cfg.Replay.Dir)
		logger.Info("replay recording enabled", zap.String("directory", cfg.Replay.Dir))
	}
	gameMgr := game.NewManager(logger.Named("game"), recorder)

	srv := server.New(server.Options{
		Engine:      engineOpts,
		Session:     cfg.SessionConfig(),
		WebSocket:   cfg.Server.WebSocket,
		MaxSessions: cfg.Server.MaxSessions,
	}, gameMgr, func() (game.DecisionAdapter, error) {
		return ai.New(strategy)
	}, logger.Named("server"))

	httpServer := &http.Server{
		Addr:              cfg.Server.WebSocket.Address,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		srv.Hub().Run(gctx)
		return nil
	})
	g.Go(func() error {
		logger.Info("listening",
			zap.String("address", httpServer.Addr),
			zap.String("strategy", string(strategy.Kind)),
			zap.Int("max_sessions", cfg.Server.MaxSessions),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		for _, id := range gameMgr.List() {
			gameMgr.Remove(id)
		}
		return nil
	})
	return g.Wait()
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
