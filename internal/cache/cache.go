package cache

import (
	"sync"

	"github.com/dinorampage/combat/internal/agent"
	"github.com/dinorampage/combat/pkg/core"
)

// AgentCache indexes live and dying agents by ID while keeping spawn order for
// deterministic iteration. Lookups of despawned IDs simply miss.
type AgentCache struct {
	mu    sync.RWMutex
	byID  map[core.EntityID]*agent.Agent
	order []*agent.Agent
}

func NewAgentCache() *AgentCache {
	return &AgentCache{
		byID: make(map[core.EntityID]*agent.Agent),
	}
}

func (c *AgentCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID = make(map[core.EntityID]*agent.Agent)
	c.order = nil
}

// Add inserts a, replacing any agent with the same ID.
func (c *AgentCache) Add(a *agent.Agent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byID[a.ID]; ok {
		c.removeLocked(a.ID)
	}
	c.byID[a.ID] = a
	c.order = append(c.order, a)
}

func (c *AgentCache) Get(id core.EntityID) (*agent.Agent, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.byID[id]
	return a, ok
}

// Remove drops an agent. Unknown IDs are ignored.
func (c *AgentCache) Remove(id core.EntityID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(id)
}

func (c *AgentCache) removeLocked(id core.EntityID) {
	if _, ok := c.byID[id]; !ok {
		return
	}
	delete(c.byID, id)
	for i, a := range c.order {
		if a.ID == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// All returns every cached agent in spawn order.
func (c *AgentCache) All() []*agent.Agent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*agent.Agent, len(c.order))
	copy(out, c.order)
	return out
}

func (c *AgentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// CountAlive returns the number of agents not in the Dead state.
func (c *AgentCache) CountAlive() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, a := range c.order {
		if a.Alive() {
			n++
		}
	}
	return n
}
