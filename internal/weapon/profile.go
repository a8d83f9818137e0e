// Package weapon holds the weapon profile table, the player's inventory and
// the upgrade levels that derive effective profiles from the base table.
package weapon

import (
	"errors"
	"fmt"
	"time"

	"github.com/dinorampage/combat/pkg/core"
)

// ErrMalformedProfile is returned by ValidateTable for unusable table rows.
var ErrMalformedProfile = errors.New("malformed weapon profile")

// BulletLifetime bounds how long a non-explosive projectile lives without a hit.
const BulletLifetime = 2 * time.Second

// Profile is the immutable configuration of a weapon archetype.
type Profile struct {
	Type            core.WeaponType
	Name            string
	FireInterval    time.Duration
	Damage          float64
	Pellets         int
	Spread          float64 // radians, total horizontal arc
	Speed           float64
	Radius          float64
	Explosive       bool
	ExplosionRadius float64
	Fuse            time.Duration
	Lifetime        time.Duration
}

var profiles = []Profile{
	{
		Type:         core.MachineGun,
		Name:         "Machine Gun",
		FireInterval: 100 * time.Millisecond,
		Damage:       10,
		Pellets:      1,
		Speed:        100,
		Radius:       0.2,
		Lifetime:     BulletLifetime,
	},
	{
		Type:         core.Shotgun,
		Name:         "Shotgun",
		FireInterval: 800 * time.Millisecond,
		Damage:       15,
		Pellets:      8,
		Spread:       0.15,
		Speed:        80,
		Radius:       0.15,
		Lifetime:     BulletLifetime,
	},
	{
		Type:            core.RocketLauncher,
		Name:            "Rocket Launcher",
		FireInterval:    2 * time.Second,
		Damage:          100,
		Pellets:         1,
		Speed:           60,
		Radius:          0.3,
		Explosive:       true,
		ExplosionRadius: 8,
		Fuse:            time.Second,
	},
}

// Table returns a copy of every weapon profile in slot order.
func Table() []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	return out
}

// Lookup returns the base profile for an archetype.
func Lookup(w core.WeaponType) (Profile, bool) {
	for _, p := range profiles {
		if p.Type == w {
			return p, true
		}
	}
	return Profile{}, false
}

// MustLookup is Lookup for archetypes known to be in the table.
func MustLookup(w core.WeaponType) Profile {
	p, ok := Lookup(w)
	if !ok {
		panic(fmt.Sprintf("weapon: no profile for %s", w))
	}
	return p
}

// ValidateTable checks every profile for values the simulation cannot run with.
func ValidateTable(table []Profile) error {
	if len(table) == 0 {
		return fmt.Errorf("%w: empty table", ErrMalformedProfile)
	}
	seen := make(map[core.WeaponType]bool, len(table))
	for _, p := range table {
		if seen[p.Type] {
			return fmt.Errorf("%w: duplicate archetype %s", ErrMalformedProfile, p.Type)
		}
		seen[p.Type] = true

		switch {
		case p.FireInterval <= 0:
			return fmt.Errorf("%w: %s: fire interval must be positive", ErrMalformedProfile, p.Name)
		case p.Damage < 0:
			return fmt.Errorf("%w: %s: negative damage", ErrMalformedProfile, p.Name)
		case p.Pellets < 1:
			return fmt.Errorf("%w: %s: pellet count must be at least 1", ErrMalformedProfile, p.Name)
		case p.Spread < 0:
			return fmt.Errorf("%w: %s: negative spread", ErrMalformedProfile, p.Name)
		case p.Speed <= 0:
			return fmt.Errorf("%w: %s: projectile speed must be positive", ErrMalformedProfile, p.Name)
		case p.Explosive && (p.ExplosionRadius <= 0 || p.Fuse <= 0):
			return fmt.Errorf("%w: %s: explosive needs radius and fuse", ErrMalformedProfile, p.Name)
		case !p.Explosive && p.Lifetime <= 0:
			return fmt.Errorf("%w: %s: lifetime must be positive", ErrMalformedProfile, p.Name)
		}
	}
	return nil
}
