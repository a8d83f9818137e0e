package sim

import (
	"math"

	"github.com/dinorampage/combat/internal/agent"
	"github.com/dinorampage/combat/internal/util"
	"github.com/dinorampage/combat/pkg/core"
)

// Spawner places new agents at random inside a square around a center,
// keeping clear of a smaller square where the vehicle sits.
type Spawner struct {
	rng       *util.PRNG
	extent    float64
	exclusion float64
}

func NewSpawner(rng *util.PRNG, extent, exclusion float64) *Spawner {
	return &Spawner{rng: rng, extent: extent, exclusion: min(exclusion, extent*0.9)}
}

// Position draws a spawn point, re-rolling inside the exclusion square.
func (s *Spawner) Position(center core.Vec3) core.Vec3 {
	for {
		x := s.rng.Range(-s.extent, s.extent)
		z := s.rng.Range(-s.extent, s.extent)
		if math.Abs(x) < s.exclusion && math.Abs(z) < s.exclusion {
			continue
		}
		return core.V3(center.X+x, 0, center.Z+z)
	}
}

// Species draws a species uniformly.
func (s *Spawner) Species() core.Species {
	return core.AllSpecies[s.rng.Intn(len(core.AllSpecies))]
}

// Spawn creates an agent with the next ID.
func (s *Spawner) Spawn(id core.EntityID, center core.Vec3) *agent.Agent {
	a := agent.New(id, agent.MustStats(s.Species()), s.Position(center))
	a.Yaw = s.rng.Range(-math.Pi, math.Pi)
	a.SyncZones()
	return a
}
