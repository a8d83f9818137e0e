package projectile

import (
	"time"

	"github.com/dinorampage/combat/internal/util"
	"github.com/dinorampage/combat/internal/weapon"
	"github.com/dinorampage/combat/pkg/core"
)

// Launcher rate-limits fire intents per weapon and spawns pellets into a Set.
type Launcher struct {
	lastShot map[core.WeaponType]time.Duration
	rng      *util.PRNG
}

func NewLauncher(rng *util.PRNG) *Launcher {
	return &Launcher{
		lastShot: make(map[core.WeaponType]time.Duration),
		rng:      rng,
	}
}

// Ready reports whether a shot of p at time now would be accepted.
// A weapon that has never fired is always ready.
func (l *Launcher) Ready(now time.Duration, p weapon.Profile) bool {
	last, fired := l.lastShot[p.Type]
	return !fired || now-last >= p.FireInterval
}

// Fire spawns p.Pellets projectiles from origin along aim when the weapon is
// ready. Rejected intents are dropped and return nil.
func (l *Launcher) Fire(now time.Duration, p weapon.Profile, origin, aim core.Vec3, set *Set) []*Projectile {
	if !l.Ready(now, p) {
		return nil
	}
	l.lastShot[p.Type] = now

	dirs := l.PelletDirections(p, aim)
	out := make([]*Projectile, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, set.Spawn(p, origin, d))
	}
	return out
}

// PelletDirections spreads pellets linearly across the horizontal arc with a
// small random vertical jitter. Single-pellet or zero-spread profiles fire
// straight along aim.
func (l *Launcher) PelletDirections(p weapon.Profile, aim core.Vec3) []core.Vec3 {
	aim = aim.Normalize()
	if p.Pellets <= 1 || p.Spread <= 0 {
		dirs := make([]core.Vec3, p.Pellets)
		for i := range dirs {
			dirs[i] = aim
		}
		return dirs
	}

	dirs := make([]core.Vec3, p.Pellets)
	step := p.Spread / float64(p.Pellets-1)
	jitter := p.Spread / 4
	for i := range dirs {
		angle := -p.Spread/2 + step*float64(i)
		d := aim.RotateY(angle)
		d.Y += l.rng.Range(-jitter, jitter)
		dirs[i] = d.Normalize()
	}
	return dirs
}
