package tournament

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game"
)

// SeriesState represents the state of a series
type SeriesState int

const (
	SeriesStateWaiting SeriesState = iota
	SeriesStateInProgress
	SeriesStateFinished
)

func (s SeriesState) String() string {
	switch s {
	case SeriesStateWaiting:
		return "WAITING"
	case SeriesStateInProgress:
		return "IN_PROGRESS"
	case SeriesStateFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// Points awarded per game.
const (
	PointsWin  = 3
	PointsLoss = 0
)

// Entrant is one strategy taking part in a series
type Entrant struct {
	Name              string
	Points            int
	Wins              int
	Losses            int
	WinsByTarget      int
	WinsByExhaustion  int
	GamesFirst        int
	WinsFirst         int
	Aborted           int
	Counters          int
	Scuttles          int
	ActionsResolved   int
	ActionsCountered  int
	TotalTurnsInGames int
}

// GameResult is the outcome of one finished or aborted game. Seats maps each
// seat to an entrant name.
type GameResult struct {
	GameID    string
	Seed      int64
	Seats     [2]string
	FirstSeat int
	Winner    int
	Reason    game.WinReason
	Turns     int
	Stats     game.GameStats
	Err       error
}

// EntrantSnapshot captures entrant data for external use.
type EntrantSnapshot struct {
	Name             string
	Points           int
	Wins             int
	Losses           int
	WinsByTarget     int
	WinsByExhaustion int
	GamesFirst       int
	WinsFirst        int
	Aborted          int
	Counters         int
	Scuttles         int
	ActionsResolved  int
	ActionsCountered int
	AverageTurns     float64
}

// WinRate is wins over decided games.
func (e EntrantSnapshot) WinRate() float64 {
	played := e.Wins + e.Losses
	if played == 0 {
		return 0
	}
	return float64(e.Wins) / float64(played)
}

// SeriesSnapshot captures a consistent view of a series.
type SeriesSnapshot struct {
	ID        string
	Name      string
	State     SeriesState
	Planned   int
	Played    int
	Aborted   int
	Entrants  []EntrantSnapshot
	StartTime *time.Time
	EndTime   *time.Time
}

// Series is a run of games between two entrants
type Series struct {
	ID         string
	Name       string
	State      SeriesState
	Entrants   map[string]*Entrant
	Order      []string
	Planned    int
	Played     int
	Aborted    int
	Results    []GameResult
	CreateTime time.Time
	StartTime  *time.Time
	EndTime    *time.Time
	mu         sync.RWMutex
}

// NewSeries creates a new series between two entrants
func NewSeries(name string, entrants [2]string, planned int) (*Series, error) {
	if entrants[0] == "" || entrants[1] == "" {
		return nil, fmt.Errorf("series needs two named entrants")
	}
	if entrants[0] == entrants[1] {
		return nil, fmt.Errorf("entrant names must differ, got %q twice", entrants[0])
	}
	if planned < 0 {
		return nil, fmt.Errorf("planned games must not be negative, got %d", planned)
	}
	s := &Series{
		ID:         uuid.New().String(),
		Name:       name,
		State:      SeriesStateWaiting,
		Entrants:   make(map[string]*Entrant, 2),
		Order:      []string{entrants[0], entrants[1]},
		Planned:    planned,
		Results:    make([]GameResult, 0, planned),
		CreateTime: time.Now(),
	}
	for _, n := range entrants {
		s.Entrants[n] = &Entrant{Name: n}
	}
	return s, nil
}

// Start moves the series into progress
func (s *Series) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State != SeriesStateWaiting {
		return fmt.Errorf("series already started")
	}
	now := time.Now()
	s.State = SeriesStateInProgress
	s.StartTime = &now
	return nil
}

// GetState returns the series state
func (s *Series) GetState() SeriesState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.State
}

// RecordResult adds one game result. Results may arrive from concurrent
// workers in any order. The series finishes once every planned game is in.
func (s *Series) RecordResult(r GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State != SeriesStateInProgress {
		return fmt.Errorf("series is %s", s.State)
	}
	var seats [2]*Entrant
	for i, name := range r.Seats {
		e, ok := s.Entrants[name]
		if !ok {
			return fmt.Errorf("unknown entrant %q", name)
		}
		seats[i] = e
	}
	if seats[0] == seats[1] {
		return fmt.Errorf("entrant %q cannot play both seats", r.Seats[0])
	}

	s.Results = append(s.Results, r)
	s.Played++

	for seat, e := range seats {
		e.TotalTurnsInGames += r.Turns
		e.Counters += r.Stats.Seats[seat].Counters
		e.Scuttles += r.Stats.Seats[seat].Scuttles
		e.ActionsResolved += r.Stats.Seats[seat].Resolved
		e.ActionsCountered += r.Stats.Seats[seat].Denied
		if seat == r.FirstSeat {
			e.GamesFirst++
		}
	}

	if r.Err != nil || (r.Winner != 0 && r.Winner != 1) {
		s.Aborted++
		for _, e := range seats {
			e.Aborted++
		}
	} else {
		winner, loser := seats[r.Winner], seats[1-r.Winner]
		winner.Wins++
		winner.Points += PointsWin
		loser.Losses++
		loser.Points += PointsLoss
		switch r.Reason {
		case game.WinReasonReachedTarget:
			winner.WinsByTarget++
		case game.WinReasonExhaustion:
			winner.WinsByExhaustion++
		}
		if r.Winner == r.FirstSeat {
			winner.WinsFirst++
		}
	}

	if s.Planned > 0 && s.Played >= s.Planned {
		now := time.Now()
		s.State = SeriesStateFinished
		s.EndTime = &now
	}
	return nil
}

// Finish closes the series early
func (s *Series) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.State == SeriesStateFinished {
		return
	}
	now := time.Now()
	s.State = SeriesStateFinished
	s.EndTime = &now
}

// Snapshot returns a consistent copy of the series state.
func (s *Series) Snapshot() SeriesSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entrants := make([]EntrantSnapshot, 0, len(s.Order))
	for _, name := range s.Order {
		e := s.Entrants[name]
		snap := EntrantSnapshot{
			Name:             e.Name,
			Points:           e.Points,
			Wins:             e.Wins,
			Losses:           e.Losses,
			WinsByTarget:     e.WinsByTarget,
			WinsByExhaustion: e.WinsByExhaustion,
			GamesFirst:       e.GamesFirst,
			WinsFirst:        e.WinsFirst,
			Aborted:          e.Aborted,
			Counters:         e.Counters,
			Scuttles:         e.Scuttles,
			ActionsResolved:  e.ActionsResolved,
			ActionsCountered: e.ActionsCountered,
		}
		if s.Played > 0 {
			snap.AverageTurns = float64(e.TotalTurnsInGames) / float64(s.Played)
		}
		entrants = append(entrants, snap)
	}

	return SeriesSnapshot{
		ID:        s.ID,
		Name:      s.Name,
		State:     s.State,
		Planned:   s.Planned,
		Played:    s.Played,
		Aborted:   s.Aborted,
		Entrants:  entrants,
		StartTime: cloneTime(s.StartTime),
		EndTime:   cloneTime(s.EndTime),
	}
}

// Standings returns entrants ordered by points, then wins, then name.
func (s *Series) Standings() []EntrantSnapshot {
	out := s.Snapshot().Entrants
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	t := *src
	return &t
}

// Manager manages all series
type Manager struct {
	series map[string]*Series
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewManager creates a new series manager
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		series: make(map[string]*Series),
		logger: logger,
	}
}

// CreateSeries creates and registers a new series
func (m *Manager) CreateSeries(name string, entrants [2]string, planned int) (*Series, error) {
	s, err := NewSeries(name, entrants, planned)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.series[s.ID] = s
	m.mu.Unlock()

	m.logger.Info("series created",
		zap.String("series_id", s.ID),
		zap.String("name", name),
		zap.Strings("entrants", entrants[:]),
		zap.Int("planned", planned),
	)
	return s, nil
}

// GetSeries retrieves a series by ID
func (m *Manager) GetSeries(seriesID string) (*Series, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.series[seriesID]
	return s, ok
}

// RemoveSeries removes a series
func (m *Manager) RemoveSeries(seriesID string) {
	m.mu.Lock()
	delete(m.series, seriesID)
	m.mu.Unlock()

	m.logger.Info("series removed", zap.String("series_id", seriesID))
}

// GetAllSeries returns all series ordered by creation time
func (m *Manager) GetAllSeries() []*Series {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Series, 0, len(m.series))
	for _, s := range m.series {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreateTime.Before(out[j].CreateTime) })
	return out
}

// GetActiveSeriesCount returns the number of series still running
func (m *Manager) GetActiveSeriesCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, s := range m.series {
		if s.GetState() != SeriesStateFinished {
			count++
		}
	}
	return count
}

// LogStandings writes the standings of a series at info level.
func (m *Manager) LogStandings(s *Series) {
	snap := s.Snapshot()
	m.logger.Info("series standings",
		zap.String("series_id", snap.ID),
		zap.String("state", snap.State.String()),
		zap.Int("played", snap.Played),
		zap.Int("aborted", snap.Aborted),
	)
	for rank, e := range s.Standings() {
		m.logger.Info("entrant",
			zap.Int("rank", rank+1),
			zap.String("name", e.Name),
			zap.Int("points", e.Points),
			zap.Int("wins", e.Wins),
			zap.Int("losses", e.Losses),
			zap.Float64("win_rate", e.WinRate()),
			zap.Int("wins_by_target", e.WinsByTarget),
			zap.Int("wins_by_exhaustion", e.WinsByExhaustion),
			zap.Int("counters", e.Counters),
			zap.Int("scuttles", e.Scuttles),
			zap.Float64("avg_turns", e.AverageTurns),
		)
	}
}
