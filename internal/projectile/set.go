package projectile

import (
	"time"

	"github.com/dinorampage/combat/internal/weapon"
	"github.com/dinorampage/combat/pkg/core"
)

// IDSource hands out entity identifiers.
type IDSource func() core.EntityID

// Set owns every live projectile in spawn order.
type Set struct {
	items  []*Projectile
	nextID IDSource
}

func NewSet(ids IDSource) *Set {
	if ids == nil {
		var n core.EntityID
		ids = func() core.EntityID {
			n++
			return n
		}
	}
	return &Set{nextID: ids}
}

// Spawn adds a projectile built from profile p.
func (s *Set) Spawn(p weapon.Profile, origin, dir core.Vec3) *Projectile {
	pr := newProjectile(s.nextID(), p, origin, dir)
	s.items = append(s.items, pr)
	return pr
}

// Live returns the live projectiles in spawn order. The slice must not be retained.
func (s *Set) Live() []*Projectile {
	return s.items
}

func (s *Set) Len() int { return len(s.items) }

// Remove drops the projectile with the given id. Unknown ids are ignored.
func (s *Set) Remove(id core.EntityID) {
	for i, p := range s.items {
		if p.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Integrate moves every projectile by its velocity, expires spent bullets and
// converts explosives whose fuse ran out into detonations, in spawn order.
func (s *Set) Integrate(dt time.Duration) []Detonation {
	var detonations []Detonation
	secs := dt.Seconds()
	kept := s.items[:0]
	for _, p := range s.items {
		p.Position = p.Position.Add(p.Velocity.Scale(secs))
		if p.Explosive {
			if p.fuse.Tick(dt) {
				detonations = append(detonations, Detonation{
					ProjectileID: p.ID,
					Weapon:       p.Weapon,
					Position:     p.Position,
					Radius:       p.ExplosionRadius,
					Damage:       p.Damage,
				})
				continue
			}
		} else if p.lifetime.Tick(dt) {
			continue
		}
		kept = append(kept, p)
	}
	clear(s.items[len(kept):])
	s.items = kept
	return detonations
}

// Clear removes every projectile.
func (s *Set) Clear() {
	s.items = nil
}
