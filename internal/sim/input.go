package sim

import (
	"github.com/dinorampage/combat/internal/shop"
	"github.com/dinorampage/combat/pkg/core"
)

// Input is the per-tick intent from the player or a driver.
type Input struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool

	TurretLeft  bool
	TurretRight bool
	Aim         *core.Vec3 // free-aim direction, overrides turret keys
	AimPoint    *core.Vec3 // world-space aim point

	Fire     bool
	LockFire bool // fire at the locked target

	LockNext  bool
	ClearLock bool

	SwitchSlot  int // 1-based weapon slot, 0 for none
	CycleWeapon int // +1 next, -1 previous

	Purchases []shop.Upgrade
	Respawn   bool
}
