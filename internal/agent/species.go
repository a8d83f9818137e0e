package agent

import (
	"errors"
	"fmt"
	"time"

	"github.com/dinorampage/combat/pkg/core"
)

// ErrMalformedSpecies is returned by ValidateSpecies for unusable table rows.
var ErrMalformedSpecies = errors.New("malformed species stats")

// SpeciesStats are the base stats shared by every agent of a species.
type SpeciesStats struct {
	Species        core.Species
	Health         float64
	Speed          float64
	AttackRange    float64 // 0 for species that never attack
	AttackDamage   float64
	AttackCooldown time.Duration
	Score          int
	Coins          int
	BodyRadius     float64

	// Body layout used to place hit zones, in agent-local space with +Z forward.
	Size       core.Vec3
	HeadOffset core.Vec3
	LegHeight  float64
}

// CanAttack reports whether the species has a melee attack.
func (s SpeciesStats) CanAttack() bool {
	return s.AttackRange > 0
}

var species = []SpeciesStats{
	{
		Species:    core.Triceratops,
		Health:     150,
		Speed:      8,
		Score:      100,
		Coins:      15,
		BodyRadius: 2.5,
		Size:       core.V3(1.5, 1.2, 2.5),
		HeadOffset: core.V3(0, 1.2*0.7, 2.5*0.4),
		LegHeight:  1.2 * 0.5,
	},
	{
		Species:        core.Velociraptor,
		Health:         60,
		Speed:          15,
		AttackRange:    10,
		AttackDamage:   8,
		AttackCooldown: 1500 * time.Millisecond,
		Score:          150,
		Coins:          10,
		BodyRadius:     1.2,
		Size:           core.V3(0.6, 0.5, 1.2),
		HeadOffset:     core.V3(0, 0.5*0.8, 1.2*0.5),
		LegHeight:      0.5 * 0.5,
	},
	{
		Species:    core.Brachiosaurus,
		Health:     300,
		Speed:      4,
		Score:      200,
		Coins:      25,
		BodyRadius: 4.0,
		Size:       core.V3(2.5, 4.0, 4.0),
		HeadOffset: core.V3(0, 4.0*0.9, 4.0*0.4),
		LegHeight:  4.0 * 0.7,
	},
	{
		Species:        core.TRex,
		Health:         400,
		Speed:          10,
		AttackRange:    15,
		AttackDamage:   25,
		AttackCooldown: 2500 * time.Millisecond,
		Score:          500,
		Coins:          50,
		BodyRadius:     3.5,
		Size:           core.V3(1.8, 3.0, 4.5),
		HeadOffset:     core.V3(0, 3.0*0.9, 4.5*0.5),
		LegHeight:      3.0 * 0.6,
	},
	{
		Species:    core.Stegosaurus,
		Health:     200,
		Speed:      6,
		Score:      120,
		Coins:      20,
		BodyRadius: 3.0,
		Size:       core.V3(1.8, 2.0, 4.0),
		HeadOffset: core.V3(0, 2.0*0.4, 4.0*0.5),
		LegHeight:  2.0 * 0.4,
	},
}

// SpeciesTable returns a copy of the species table.
func SpeciesTable() []SpeciesStats {
	out := make([]SpeciesStats, len(species))
	copy(out, species)
	return out
}

// Stats looks up the base stats of a species.
func Stats(s core.Species) (SpeciesStats, bool) {
	for _, st := range species {
		if st.Species == s {
			return st, true
		}
	}
	return SpeciesStats{}, false
}

// MustStats is Stats for species known to be in the table.
func MustStats(s core.Species) SpeciesStats {
	st, ok := Stats(s)
	if !ok {
		panic(fmt.Sprintf("agent: no stats for %s", s))
	}
	return st
}

// ValidateSpecies checks the species table for values the AI cannot run with.
func ValidateSpecies(table []SpeciesStats) error {
	if len(table) == 0 {
		return fmt.Errorf("%w: empty table", ErrMalformedSpecies)
	}
	seen := make(map[core.Species]bool, len(table))
	for _, s := range table {
		if seen[s.Species] {
			return fmt.Errorf("%w: duplicate species %s", ErrMalformedSpecies, s.Species)
		}
		seen[s.Species] = true

		switch {
		case s.Health <= 0:
			return fmt.Errorf("%w: %s: health must be positive", ErrMalformedSpecies, s.Species)
		case s.Speed < 0:
			return fmt.Errorf("%w: %s: negative speed", ErrMalformedSpecies, s.Species)
		case s.AttackRange < 0:
			return fmt.Errorf("%w: %s: negative attack range", ErrMalformedSpecies, s.Species)
		case s.CanAttack() && (s.AttackDamage <= 0 || s.AttackCooldown <= 0):
			return fmt.Errorf("%w: %s: attacker needs damage and cooldown", ErrMalformedSpecies, s.Species)
		case s.Score < 0 || s.Coins < 0:
			return fmt.Errorf("%w: %s: negative reward", ErrMalformedSpecies, s.Species)
		case s.BodyRadius <= 0:
			return fmt.Errorf("%w: %s: body radius must be positive", ErrMalformedSpecies, s.Species)
		}
	}
	return nil
}
