package game

import (
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ReplayStep is one applied intent and the state checksum it produced.
type ReplayStep struct {
	Intent   Intent
	Checksum string
}

// Replay records a game as its seed plus the accepted intents. Replaying
// the intents on an engine with the same options reproduces every state.
type Replay struct {
	GameID       string
	Options      Options
	Steps        []ReplayStep
	CurrentIndex int
	mu           sync.RWMutex
}

// NewReplay creates an empty replay for the given engine options. The seed
// must be fixed for the replay to be playable.
func NewReplay(gameID string, opts Options) *Replay {
	return &Replay{
		GameID:  gameID,
		Options: opts,
		Steps:   make([]ReplayStep, 0, 64),
	}
}

// Record appends an accepted intent.
func (r *Replay) Record(intent Intent, checksum string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Steps = append(r.Steps, ReplayStep{Intent: intent, Checksum: checksum})
}

// Start rewinds to the first step.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.CurrentIndex = 0
}

// Next returns the next step, or nil at the end.
func (r *Replay) Next() *ReplayStep {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex < len(r.Steps) {
		step := &r.Steps[r.CurrentIndex]
		r.CurrentIndex++
		return step
	}
	return nil
}

// Size returns the number of recorded steps.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.Steps)
}

// StepAt returns the step at index, or nil.
func (r *Replay) StepAt(index int) *ReplayStep {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index >= 0 && index < len(r.Steps) {
		return &r.Steps[index]
	}
	return nil
}

// Verify replays every step on a fresh engine and compares checksums.
func (r *Replay) Verify(logger *zap.Logger) (*Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.Options.Seed == 0 {
		return nil, errors.New("replay has no seed")
	}
	engine, err := NewEngine(r.Options, logger)
	if err != nil {
		return nil, err
	}
	for i, step := range r.Steps {
		if err := engine.Apply(step.Intent); err != nil {
			return engine, fmt.Errorf("step %d (%s): %w", i, step.Intent, err)
		}
		if got := engine.Checksum(); got != step.Checksum {
			return engine, fmt.Errorf("step %d (%s): checksum mismatch", i, step.Intent)
		}
	}
	return engine, nil
}

// replayMetadata heads a saved replay file.
type replayMetadata struct {
	GameID    string
	Timestamp time.Time
	Version   int
	StepCount int
}

const replayVersion = 1

// SaveToFile writes the replay as gzipped gob to <directory>/<game id>.replay.
// Only a ReplayRecorder the caller opted into writes files; the engine never does.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	filename := filepath.Join(directory, r.GameID+".replay")
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()
	encoder := gob.NewEncoder(gzipWriter)

	metadata := replayMetadata{
		GameID:    r.GameID,
		Timestamp: time.Now(),
		Version:   replayVersion,
		StepCount: len(r.Steps),
	}
	if err := encoder.Encode(&metadata); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := encoder.Encode(&r.Options); err != nil {
		return fmt.Errorf("failed to encode options: %w", err)
	}
	for i := range r.Steps {
		if err := encoder.Encode(&r.Steps[i]); err != nil {
			return fmt.Errorf("failed to encode step %d: %w", i, err)
		}
	}
	return nil
}

// LoadReplayFromFile reads a replay written by SaveToFile.
func LoadReplayFromFile(directory, gameID string) (*Replay, error) {
	filename := filepath.Join(directory, gameID+".replay")
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()
	decoder := gob.NewDecoder(gzipReader)

	var metadata replayMetadata
	if err := decoder.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if metadata.Version != replayVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", metadata.Version)
	}
	var opts Options
	if err := decoder.Decode(&opts); err != nil {
		return nil, fmt.Errorf("failed to decode options: %w", err)
	}

	replay := NewReplay(metadata.GameID, opts)
	for i := 0; i < metadata.StepCount; i++ {
		var step ReplayStep
		if err := decoder.Decode(&step); err != nil {
			return nil, fmt.Errorf("failed to decode step %d: %w", i, err)
		}
		replay.Steps = append(replay.Steps, step)
	}
	return replay, nil
}

// ReplayRecorder keeps in-flight replays for several sessions.
type ReplayRecorder struct {
	logger    *zap.Logger
	mu        sync.RWMutex
	replays   map[string]*Replay
	recording map[string]bool
	saveDir   string
}

// NewReplayRecorder creates a recorder that saves into saveDir.
func NewReplayRecorder(logger *zap.Logger, saveDir string) *ReplayRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayRecorder{
		logger:    logger,
		replays:   make(map[string]*Replay),
		recording: make(map[string]bool),
		saveDir:   saveDir,
	}
}

// StartRecording begins a replay for a game, replacing any earlier one.
func (rr *ReplayRecorder) StartRecording(gameID string, opts Options) *Replay {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	replay := NewReplay(gameID, opts)
	rr.replays[gameID] = replay
	rr.recording[gameID] = true
	rr.logger.Debug("started replay recording", zap.String("game_id", gameID))
	return replay
}

// StopRecording stops appending to a game's replay but keeps it in memory.
func (rr *ReplayRecorder) StopRecording(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	delete(rr.recording, gameID)
	rr.logger.Debug("stopped replay recording", zap.String("game_id", gameID))
}

// IsRecording reports whether intents for a game are being recorded.
func (rr *ReplayRecorder) IsRecording(gameID string) bool {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	return rr.recording[gameID]
}

// Record appends an intent to a game's replay if one is being recorded.
func (rr *ReplayRecorder) Record(gameID string, intent Intent, checksum string) {
	rr.mu.RLock()
	replay := rr.replays[gameID]
	active := rr.recording[gameID]
	rr.mu.RUnlock()

	if replay != nil && active {
		replay.Record(intent, checksum)
	}
}

// GetReplay returns the in-memory replay for a game.
func (rr *ReplayRecorder) GetReplay(gameID string) (*Replay, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	replay, ok := rr.replays[gameID]
	return replay, ok
}

// SaveReplay writes a replay to disk and drops it from memory.
func (rr *ReplayRecorder) SaveReplay(gameID string) error {
	rr.mu.Lock()
	replay, ok := rr.replays[gameID]
	if !ok {
		rr.mu.Unlock()
		return fmt.Errorf("no replay found for game %s", gameID)
	}
	delete(rr.replays, gameID)
	delete(rr.recording, gameID)
	rr.mu.Unlock()

	if err := replay.SaveToFile(rr.saveDir); err != nil {
		return fmt.Errorf("failed to save replay: %w", err)
	}
	rr.logger.Info("saved replay to disk",
		zap.String("game_id", gameID),
		zap.Int("step_count", replay.Size()),
		zap.String("directory", rr.saveDir),
	)
	return nil
}

// LoadReplay reads a saved replay from the recorder's directory.
func (rr *ReplayRecorder) LoadReplay(gameID string) (*Replay, error) {
	return LoadReplayFromFile(rr.saveDir, gameID)
}

// ClearReplay drops a replay without saving it.
func (rr *ReplayRecorder) ClearReplay(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	delete(rr.replays, gameID)
	delete(rr.recording, gameID)
}
