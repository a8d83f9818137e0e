package mission

import (
	"sync"
	"time"

	"github.com/dinorampage/combat/pkg/core"
)

// Context holds the running session and its progress
type Context struct {
	mu      sync.RWMutex
	Session *core.Session
	tick    uint64
	simTime time.Duration
}

// NewContext creates a new Context with default values
func NewContext() *Context {
	return &Context{
		Session: &core.Session{Name: "No session loaded"},
	}
}

// GetSession returns the current session
func (mc *Context) GetSession() *core.Session {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.Session
}

// SetSession sets the current session and resets progress
func (mc *Context) SetSession(s *core.Session) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.Session = s
	mc.tick = 0
	mc.simTime = 0
}

// Advance records the last completed tick
func (mc *Context) Advance(tick uint64, simTime time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.tick = tick
	mc.simTime = simTime
}

// Progress returns the last completed tick and its simulation time
func (mc *Context) Progress() (uint64, time.Duration) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.tick, mc.simTime
}
