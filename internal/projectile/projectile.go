// Package projectile spawns and integrates projectiles fired from weapon profiles.
package projectile

import (
	"time"

	"github.com/dinorampage/combat/internal/util"
	"github.com/dinorampage/combat/internal/weapon"
	"github.com/dinorampage/combat/pkg/core"
)

// Projectile is a transient entity travelling in a straight line.
type Projectile struct {
	ID       core.EntityID
	Weapon   core.WeaponType
	Position core.Vec3
	Velocity core.Vec3
	Damage   float64
	Radius   float64

	// Non-explosive projectiles expire on lifetime; explosive ones on fuse.
	Explosive       bool
	ExplosionRadius float64
	lifetime        util.Timer
	fuse            util.Timer
}

// Detonation is produced when an explosive projectile's fuse runs out.
type Detonation struct {
	ProjectileID core.EntityID
	Weapon       core.WeaponType
	Position     core.Vec3
	Radius       float64
	Damage       float64
}

func newProjectile(id core.EntityID, p weapon.Profile, origin, dir core.Vec3) *Projectile {
	pr := &Projectile{
		ID:       id,
		Weapon:   p.Type,
		Position: origin,
		Velocity: dir.Normalize().Scale(p.Speed),
		Damage:   p.Damage,
		Radius:   p.Radius,
	}
	if p.Explosive {
		pr.Explosive = true
		pr.ExplosionRadius = p.ExplosionRadius
		pr.fuse = util.NewTimer(p.Fuse)
	} else {
		pr.lifetime = util.NewTimer(p.Lifetime)
	}
	return pr
}

// Remaining returns the time left before lifetime or fuse expiry.
func (p *Projectile) Remaining() time.Duration {
	if p.Explosive {
		return p.fuse.Remaining()
	}
	return p.lifetime.Remaining()
}
