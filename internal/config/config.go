// Package config loads server and simulation settings with viper: built-in
// defaults, then an optional YAML file, then JAKUV_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Defients/Jakuv-vgame-sub001/internal/ai"
	"github.com/Defients/Jakuv-vgame-sub001/internal/ai/llm"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game"
	"github.com/Defients/Jakuv-vgame-sub001/internal/game/cards"
)

// EnvPrefix prefixes every environment override, e.g. JAKUV_SERVER_WEBSOCKET_ADDRESS.
const EnvPrefix = "JAKUV"

// Config is the root configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Game       GameConfig       `mapstructure:"game"`
	AI         AIConfig         `mapstructure:"ai"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Replay     ReplayConfig     `mapstructure:"replay"`
}

// ServerConfig configures cmd/server.
type ServerConfig struct {
	WebSocket       WebSocketConfig `mapstructure:"websocket"`
	MaxSessions     int             `mapstructure:"max_sessions"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout"`
}

// WebSocketConfig configures the UI transport.
type WebSocketConfig struct {
	Address         string        `mapstructure:"address"`
	ReadBufferSize  int           `mapstructure:"read_buffer_size"`
	WriteBufferSize int           `mapstructure:"write_buffer_size"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	MaxMessageSize  int64         `mapstructure:"max_message_size"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GameConfig holds the table constants and seat names.
type GameConfig struct {
	TargetScore     int      `mapstructure:"target_score"`
	HandLimit       int      `mapstructure:"hand_limit"`
	SwapBarSize     int      `mapstructure:"swap_bar_size"`
	InitialHandSize int      `mapstructure:"initial_hand_size"`
	HandRevealTurns int      `mapstructure:"hand_reveal_turns"`
	ExcludedRanks   []string `mapstructure:"excluded_ranks"`
	PlayerName      string   `mapstructure:"player_name"`
	OpponentName    string   `mapstructure:"opponent_name"`
	// FirstSeat is "random", "0" or "1".
	FirstSeat string `mapstructure:"first_seat"`
	Seed      int64  `mapstructure:"seed"`
}

// AIConfig configures the adapter seat.
type AIConfig struct {
	Strategy        string        `mapstructure:"strategy"`
	DecisionTimeout time.Duration `mapstructure:"decision_timeout"`
	MaxAdapterSteps int           `mapstructure:"max_adapter_steps"`
	Seed            int64         `mapstructure:"seed"`
	LLM             llm.Config    `mapstructure:"llm"`
}

// SimulationConfig configures cmd/simulate.
type SimulationConfig struct {
	Games       int      `mapstructure:"games"`
	Parallelism int      `mapstructure:"parallelism"`
	Strategies  []string `mapstructure:"strategies"`
	Seed        int64    `mapstructure:"seed"`
}

// ReplayConfig controls replay recording.
type ReplayConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.websocket.address", ":8080")
	v.SetDefault("server.websocket.read_buffer_size", 1024)
	v.SetDefault("server.websocket.write_buffer_size", 1024)
	v.SetDefault("server.websocket.allowed_origins", []string{})
	v.SetDefault("server.websocket.ping_interval", 30*time.Second)
	v.SetDefault("server.websocket.max_message_size", 8192)
	v.SetDefault("server.max_sessions", 256)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	def := game.DefaultSettings()
	v.SetDefault("game.target_score", def.TargetScore)
	v.SetDefault("game.hand_limit", def.HandLimit)
	v.SetDefault("game.swap_bar_size", def.SwapBarSize)
	v.SetDefault("game.initial_hand_size", def.InitialHandSize)
	v.SetDefault("game.hand_reveal_turns", def.HandRevealTurns)
	v.SetDefault("game.excluded_ranks", []string{})
	v.SetDefault("game.player_name", "Player")
	v.SetDefault("game.opponent_name", "Opponent")
	v.SetDefault("game.first_seat", "random")
	v.SetDefault("game.seed", 0)

	v.SetDefault("ai.strategy", string(ai.KindGreedy))
	v.SetDefault("ai.decision_timeout", 3*time.Second)
	v.SetDefault("ai.max_adapter_steps", 500)
	v.SetDefault("ai.seed", 0)
	v.SetDefault("ai.llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.llm.api_key", "")
	v.SetDefault("ai.llm.model", "")
	v.SetDefault("ai.llm.timeout", 45*time.Second)
	v.SetDefault("ai.llm.temperature", 0.0)
	v.SetDefault("ai.llm.max_tokens", 200)

	v.SetDefault("simulation.games", 100)
	v.SetDefault("simulation.parallelism", 4)
	v.SetDefault("simulation.strategies", []string{string(ai.KindGreedy), string(ai.KindRandom)})
	v.SetDefault("simulation.seed", 1)

	v.SetDefault("replay.enabled", false)
	v.SetDefault("replay.dir", "replays")
}

// Load reads configuration from path, which may be empty or missing, and
// applies environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	if _, err := c.EngineSettings(); err != nil {
		return err
	}
	if _, err := c.firstSeat(); err != nil {
		return err
	}
	if _, err := ai.ParseKind(c.AI.Strategy); err != nil {
		return fmt.Errorf("ai.strategy: %w", err)
	}
	if c.AI.DecisionTimeout <= 0 {
		return fmt.Errorf("ai.decision_timeout must be positive, got %s", c.AI.DecisionTimeout)
	}
	if c.AI.MaxAdapterSteps <= 0 {
		return fmt.Errorf("ai.max_adapter_steps must be positive, got %d", c.AI.MaxAdapterSteps)
	}
	if c.Simulation.Games < 0 || c.Simulation.Parallelism <= 0 {
		return fmt.Errorf("simulation needs games >= 0 and parallelism > 0, got %d/%d",
			c.Simulation.Games, c.Simulation.Parallelism)
	}
	if len(c.Simulation.Strategies) != 2 {
		return fmt.Errorf("simulation.strategies needs exactly 2 entries, got %d", len(c.Simulation.Strategies))
	}
	for _, s := range c.Simulation.Strategies {
		if _, err := ai.ParseKind(s); err != nil {
			return fmt.Errorf("simulation.strategies: %w", err)
		}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}

// EngineSettings converts the game section into engine settings.
func (c *Config) EngineSettings() (game.Settings, error) {
	s := game.Settings{
		TargetScore:     c.Game.TargetScore,
		HandLimit:       c.Game.HandLimit,
		SwapBarSize:     c.Game.SwapBarSize,
		InitialHandSize: c.Game.InitialHandSize,
		HandRevealTurns: c.Game.HandRevealTurns,
	}
	for _, label := range c.Game.ExcludedRanks {
		r, err := cards.ParseRank(label)
		if err != nil {
			return game.Settings{}, fmt.Errorf("game.excluded_ranks: %w", err)
		}
		s.ExcludedRanks = append(s.ExcludedRanks, r)
	}
	if err := s.Validate(); err != nil {
		return game.Settings{}, fmt.Errorf("game: %w", err)
	}
	return s, nil
}

func (c *Config) firstSeat() (int, error) {
	switch strings.ToLower(strings.TrimSpace(c.Game.FirstSeat)) {
	case "", "random":
		return game.NoSeat, nil
	case "0":
		return 0, nil
	case "1":
		return 1, nil
	}
	return 0, fmt.Errorf("game.first_seat %q is not random, 0 or 1", c.Game.FirstSeat)
}

// EngineOptions builds engine options for a human seat 0 against the adapter seat 1.
func (c *Config) EngineOptions() (game.Options, error) {
	settings, err := c.EngineSettings()
	if err != nil {
		return game.Options{}, err
	}
	first, err := c.firstSeat()
	if err != nil {
		return game.Options{}, err
	}
	return game.Options{
		Settings:    settings,
		PlayerNames: [2]string{c.Game.PlayerName, c.Game.OpponentName},
		AISeats:     [2]bool{false, true},
		FirstSeat:   first,
		Seed:        c.Game.Seed,
	}, nil
}

// SessionConfig returns the adapter bounds.
func (c *Config) SessionConfig() game.SessionConfig {
	return game.SessionConfig{
		DecisionTimeout: c.AI.DecisionTimeout,
		MaxAdapterSteps: c.AI.MaxAdapterSteps,
	}
}

// StrategyOptions returns factory options for the named strategy.
func (c *Config) StrategyOptions(name string, seed int64) (ai.Options, error) {
	kind, err := ai.ParseKind(name)
	if err != nil {
		return ai.Options{}, err
	}
	return ai.Options{Kind: kind, Seed: seed, LLM: c.AI.LLM}, nil
}
