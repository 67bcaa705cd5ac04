// Package idgen issues unique task identifiers.
package idgen

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Generator produces unique, monotonically distinguishable identifiers.
//
// The millisecond prefix keeps ids sortable by creation time; the counter
// disambiguates ids minted within the same millisecond and the uuid suffix
// guards against collisions across sessions.
type Generator struct {
	mu       sync.Mutex
	lastMs   int64
	sequence int
	now      func() time.Time
}

// New creates a Generator using the wall clock.
func New() *Generator {
	return &Generator{now: time.Now}
}

// NewWithClock creates a Generator with an injected clock for tests.
func NewWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// NextID returns a fresh identifier. Ids are never reused within a session.
func (g *Generator) NextID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms == g.lastMs {
		g.sequence++
	} else {
		g.lastMs = ms
		g.sequence = 0
	}
	return fmt.Sprintf("%d-%d-%s", ms, g.sequence, uuid.NewString()[:8])
}
