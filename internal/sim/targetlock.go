package sim

import (
	"sort"

	"github.com/dinorampage/combat/internal/agent"
	"github.com/dinorampage/combat/internal/cache"
	"github.com/dinorampage/combat/pkg/core"
)

// Lock acquisition limits.
const (
	LockMinDot      = 0.3
	LockMaxDistance = 200.0
)

// TargetLock holds the agent the turret is locked on.
type TargetLock struct {
	id core.EntityID
}

// ID returns the locked agent, if any.
func (l *TargetLock) ID() (core.EntityID, bool) {
	return l.id, l.id != 0
}

func (l *TargetLock) Clear() { l.id = 0 }

type lockCandidate struct {
	id   core.EntityID
	dist float64
}

// Cycle locks the nearest live agent in front of origin, or the next nearest
// after the current lock, wrapping. With no candidates the lock is cleared.
func (l *TargetLock) Cycle(origin, forward core.Vec3, agents []*agent.Agent) {
	forward = forward.Normalize()
	var candidates []lockCandidate
	for _, a := range agents {
		if !a.Alive() {
			continue
		}
		to := a.Center().Sub(origin)
		dist := to.Length()
		if dist == 0 || dist >= LockMaxDistance {
			continue
		}
		if forward.Dot(to.Scale(1/dist)) > LockMinDot {
			candidates = append(candidates, lockCandidate{id: a.ID, dist: dist})
		}
	}
	if len(candidates) == 0 {
		l.Clear()
		return
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})

	next := candidates[0].id
	if l.id != 0 {
		for i, c := range candidates {
			if c.id == l.id {
				next = candidates[(i+1)%len(candidates)].id
				break
			}
		}
	}
	l.id = next
}

// Validate drops a lock on an agent that died or despawned.
func (l *TargetLock) Validate(agents *cache.AgentCache) {
	if l.id == 0 {
		return
	}
	if a, ok := agents.Get(l.id); !ok || !a.Alive() {
		l.Clear()
	}
}
