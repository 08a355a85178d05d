package rules

import (
	"fmt"
	"sync"

	"github.com/Defients/Jakuv-vgame-sub001/internal/game/cards"
)

// ResolutionEntry is one base effect resolving inside a resolution chain.
type ResolutionEntry struct {
	ActionID string
	Rank     cards.Rank
}

// ResolutionContext tracks the chain of base effects that stem from a single
// card played for effect: the effect itself and anything it mimics. It is
// reset whenever a fresh base effect is proposed from hand.
type ResolutionContext struct {
	mu        sync.RWMutex
	entries   []ResolutionEntry
	maxDepth  int
	chainUsed bool
}

// NewResolutionContext creates a resolution context that allows one nested effect.
func NewResolutionContext() *ResolutionContext {
	return &ResolutionContext{
		entries:  make([]ResolutionEntry, 0, 2),
		maxDepth: 2,
	}
}

// BeginResolution records a base effect starting to resolve.
// A mimic may only start a chain, never resolve inside one.
func (rc *ResolutionContext) BeginResolution(actionID string, rank cards.Rank) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if len(rc.entries) >= rc.maxDepth {
		return fmt.Errorf("maximum resolution depth (%d) exceeded", rc.maxDepth)
	}
	if rank == cards.Rank2 && len(rc.entries) > 0 {
		return fmt.Errorf("mimic cannot resolve inside another effect")
	}
	rc.entries = append(rc.entries, ResolutionEntry{ActionID: actionID, Rank: rank})
	return nil
}

// GetDepth returns the number of effects in the current chain.
func (rc *ResolutionContext) GetDepth() int {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return len(rc.entries)
}

// Current returns the innermost resolving effect.
func (rc *ResolutionContext) Current() (ResolutionEntry, bool) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	if len(rc.entries) == 0 {
		return ResolutionEntry{}, false
	}
	return rc.entries[len(rc.entries)-1], true
}

// MarkChainUsed records that a lucky draw chained in this resolution.
func (rc *ResolutionContext) MarkChainUsed() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.chainUsed = true
}

// ChainUsed reports whether a lucky draw already chained in this resolution.
func (rc *ResolutionContext) ChainUsed() bool {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.chainUsed
}

// Reset clears all resolution state.
func (rc *ResolutionContext) Reset() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.entries = rc.entries[:0]
	rc.chainUsed = false
}
