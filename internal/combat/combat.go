// Package combat resolves projectile hits against agent hit zones and
// computes direct and explosion damage.
package combat

import (
	"github.com/dinorampage/combat/internal/agent"
	"github.com/dinorampage/combat/pkg/core"
)

// ZoneHitRadius is the distance within which a projectile strikes a hit zone.
const ZoneHitRadius = 1.5

// Hit is a resolved direct hit.
type Hit struct {
	Agent    *agent.Agent
	Part     core.BodyPart
	Damage   float64
	Fallback bool // no zone matched; classified as Body by body radius
}

// Damage scales base damage by the struck body part.
func Damage(base float64, part core.BodyPart) float64 {
	return base * part.Multiplier()
}

// Resolve finds what a projectile at pos strikes. The nearest zone within
// ZoneHitRadius across all live agents wins, ties going to iteration order.
// Without a zone match, the nearest agent whose body radius contains pos takes
// a Body hit.
func Resolve(pos core.Vec3, baseDamage float64, agents []*agent.Agent) (Hit, bool) {
	var (
		best     *agent.Agent
		bestPart core.BodyPart
		bestDist = ZoneHitRadius
	)
	for _, a := range agents {
		if !a.Alive() {
			continue
		}
		for _, z := range a.Zones {
			if d := pos.Distance(z.World); d < bestDist {
				best, bestPart, bestDist = a, z.Part, d
			}
		}
	}
	if best != nil {
		return Hit{Agent: best, Part: bestPart, Damage: Damage(baseDamage, bestPart)}, true
	}

	bestDist = -1
	for _, a := range agents {
		if !a.Alive() {
			continue
		}
		d := pos.Distance(a.Center())
		if d < a.Stats.BodyRadius && (best == nil || d < bestDist) {
			best, bestDist = a, d
		}
	}
	if best != nil {
		return Hit{Agent: best, Part: core.Body, Damage: Damage(baseDamage, core.Body), Fallback: true}, true
	}
	return Hit{}, false
}

// Falloff is explosion damage at distance from the blast center: full damage at
// the center, falling linearly to zero at the radius and beyond.
func Falloff(base, distance, radius float64) float64 {
	if radius <= 0 || distance >= radius {
		return 0
	}
	if distance <= 0 {
		return base
	}
	return base * (1 - distance/radius)
}

// Splash is explosion damage dealt to one agent.
type Splash struct {
	Agent    *agent.Agent
	Distance float64
	Damage   float64
}

// Explode returns the damage every live agent within radius of center takes,
// in iteration order. Agents exactly on the radius take a zero-damage hit.
func Explode(center core.Vec3, radius, base float64, agents []*agent.Agent) []Splash {
	var out []Splash
	for _, a := range agents {
		if !a.Alive() {
			continue
		}
		d := center.Distance(a.Center())
		if d > radius {
			continue
		}
		out = append(out, Splash{Agent: a, Distance: d, Damage: Falloff(base, d, radius)})
	}
	return out
}
