package weapon

import (
	"time"

	"github.com/dinorampage/combat/pkg/core"
)

// Upgrades holds purchased weapon upgrade levels.
type Upgrades struct {
	MachineGunDamage   int
	MachineGunFireRate int
	ShotgunDamage      int
	ShotgunPellets     int
	RocketDamage       int
	RocketRadius       int
}

func damageFactor(level int) float64 {
	return 1 + 0.1*float64(level)
}

// Apply derives the effective profile for p at the current levels.
func (u Upgrades) Apply(p Profile) Profile {
	switch p.Type {
	case core.MachineGun:
		p.Damage *= damageFactor(u.MachineGunDamage)
		p.FireInterval = time.Duration(float64(p.FireInterval) * (1 - 0.08*float64(u.MachineGunFireRate)))
	case core.Shotgun:
		p.Damage *= damageFactor(u.ShotgunDamage)
		p.Pellets += u.ShotgunPellets
	case core.RocketLauncher:
		p.Damage *= damageFactor(u.RocketDamage)
		p.ExplosionRadius += float64(u.RocketRadius)
	}
	return p
}
