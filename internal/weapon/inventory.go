package weapon

import (
	"slices"
	"time"

	"github.com/dinorampage/combat/pkg/core"
)

// Stats is the HUD view of the active weapon.
type Stats struct {
	Type         core.WeaponType
	Name         string
	FireInterval time.Duration
	Damage       float64
	Pellets      int
}

// Inventory tracks the selected archetype among the unlocked ones.
type Inventory struct {
	current  core.WeaponType
	unlocked []core.WeaponType
	upgrades Upgrades
}

// NewInventory unlocks the given archetypes in order and selects the first.
// With no arguments every archetype is unlocked.
func NewInventory(unlocked ...core.WeaponType) *Inventory {
	if len(unlocked) == 0 {
		unlocked = core.AllWeapons
	}
	inv := &Inventory{unlocked: slices.Clone(unlocked)}
	inv.current = inv.unlocked[0]
	return inv
}

func (i *Inventory) Current() core.WeaponType { return i.current }

// Unlocked returns the unlocked archetypes in slot order.
func (i *Inventory) Unlocked() []core.WeaponType {
	return slices.Clone(i.unlocked)
}

// SwitchTo selects w if it is unlocked and reports whether the selection changed.
func (i *Inventory) SwitchTo(w core.WeaponType) bool {
	if w == i.current || !slices.Contains(i.unlocked, w) {
		return false
	}
	i.current = w
	return true
}

// SwitchSlot selects the slot-th unlocked weapon. Out-of-range slots are ignored.
func (i *Inventory) SwitchSlot(slot int) bool {
	if slot < 0 || slot >= len(i.unlocked) {
		return false
	}
	return i.SwitchTo(i.unlocked[slot])
}

// Next cycles forward, wrapping modulo the unlocked count.
func (i *Inventory) Next() bool {
	return i.cycle(1)
}

// Previous cycles backward, wrapping modulo the unlocked count.
func (i *Inventory) Previous() bool {
	return i.cycle(-1)
}

func (i *Inventory) cycle(step int) bool {
	n := len(i.unlocked)
	idx := max(slices.Index(i.unlocked, i.current), 0)
	return i.SwitchTo(i.unlocked[((idx+step)%n+n)%n])
}

// Upgrades exposes the upgrade levels for the shop to modify.
func (i *Inventory) Upgrades() *Upgrades {
	return &i.upgrades
}

// Profile returns the effective profile of the active weapon.
func (i *Inventory) Profile() Profile {
	return i.ProfileOf(i.current)
}

// ProfileOf returns the effective profile of any archetype.
func (i *Inventory) ProfileOf(w core.WeaponType) Profile {
	return i.upgrades.Apply(MustLookup(w))
}

func (i *Inventory) Stats() Stats {
	p := i.Profile()
	return Stats{
		Type:         p.Type,
		Name:         p.Name,
		FireInterval: p.FireInterval,
		Damage:       p.Damage,
		Pellets:      p.Pellets,
	}
}
