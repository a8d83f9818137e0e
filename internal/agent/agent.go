// Package agent models hostile creatures: species stats, owned hit zones,
// the behaviour state machine, movement, melee attacks and the death lifecycle.
package agent

import (
	"github.com/dinorampage/combat/internal/util"
	"github.com/dinorampage/combat/pkg/core"
)

// Zone slots. Every agent owns exactly one zone per slot.
const (
	ZoneHead = iota
	ZoneBody
	ZoneLegFrontLeft
	ZoneLegFrontRight
	ZoneLegRearLeft
	ZoneLegRearRight
	ZoneCount
)

// HitZone is a body-part collision point owned by an agent.
type HitZone struct {
	Part  core.BodyPart
	Local core.Vec3 // offset from the agent origin, +Z forward
	World core.Vec3
}

// Agent is a hostile creature.
type Agent struct {
	ID        core.EntityID
	Stats     SpeciesStats
	Health    float64
	MaxHealth float64
	State     core.AgentState
	Position  core.Vec3
	Yaw       float64
	Zones     [ZoneCount]HitZone

	wanderTarget    core.Vec3
	hasWanderTarget bool
	fleeDirection   core.Vec3
	speedMultiplier float64

	attackCooldown  util.Timer
	attemptedAttack bool
	reaction        util.Timer
	reacting        bool
	death           util.Timer
	externalZones   bool
}

// New creates a roaming agent of species s at pos.
func New(id core.EntityID, s SpeciesStats, pos core.Vec3) *Agent {
	a := &Agent{
		ID:              id,
		Stats:           s,
		Health:          s.Health,
		MaxHealth:       s.Health,
		State:           core.Roam,
		Position:        pos,
		speedMultiplier: 1,
		attackCooldown:  util.NewTimer(s.AttackCooldown),
		reaction:        util.NewTimer(ReactionDuration),
		death:           util.NewTimer(DeathDuration),
	}
	// cooldown starts elapsed so the first attack is available immediately
	a.attackCooldown.Tick(s.AttackCooldown)
	a.layoutZones()
	a.SyncZones()
	return a
}

func (a *Agent) Species() core.Species { return a.Stats.Species }

func (a *Agent) Alive() bool { return a.State != core.Dead }

func (a *Agent) layoutZones() {
	sx, sz := a.Stats.Size.X, a.Stats.Size.Z
	legY := a.Stats.LegHeight * 0.5
	a.Zones = [ZoneCount]HitZone{
		ZoneHead:          {Part: core.Head, Local: a.Stats.HeadOffset},
		ZoneBody:          {Part: core.Body, Local: core.V3(0, a.Stats.Size.Y*0.5, 0)},
		ZoneLegFrontLeft:  {Part: core.Legs, Local: core.V3(-sx*0.3, legY, sz*0.2)},
		ZoneLegFrontRight: {Part: core.Legs, Local: core.V3(sx*0.3, legY, sz*0.2)},
		ZoneLegRearLeft:   {Part: core.Legs, Local: core.V3(-sx*0.3, legY, -sz*0.2)},
		ZoneLegRearRight:  {Part: core.Legs, Local: core.V3(sx*0.3, legY, -sz*0.2)},
	}
}

// SyncZones recomputes zone world positions from the agent transform. It is a
// no-op once an external layer has pushed positions with SetZonePosition.
func (a *Agent) SyncZones() {
	if a.externalZones {
		return
	}
	for i := range a.Zones {
		a.Zones[i].World = a.Position.Add(a.Zones[i].Local.RotateY(a.Yaw))
	}
}

// SetZonePosition overrides the world position of a zone slot.
func (a *Agent) SetZonePosition(slot int, world core.Vec3) bool {
	if slot < 0 || slot >= ZoneCount {
		return false
	}
	a.externalZones = true
	a.Zones[slot].World = world
	return true
}

// Center is the middle of the agent's body, used for proximity tests.
func (a *Agent) Center() core.Vec3 {
	return a.Zones[ZoneBody].World
}

// ApplyDamage subtracts amount from health. It returns applied=false for
// agents that are already dead, and lethal=true on the hit that kills.
func (a *Agent) ApplyDamage(amount float64) (applied, lethal bool) {
	if !a.Alive() {
		return false, false
	}
	a.Health -= amount
	if a.Health <= 0 {
		a.Health = 0
		a.die()
		return true, true
	}
	if amount > 0 {
		a.reaction.Reset()
		a.reacting = true
	}
	return true, false
}

func (a *Agent) die() {
	a.State = core.Dead
	a.reacting = false
	a.hasWanderTarget = false
	a.death.Reset()
}

// Reacting reports whether a damage reaction pause is active.
func (a *Agent) Reacting() bool { return a.reacting }

// SpeedMultiplier is the current movement speed multiplier.
func (a *Agent) SpeedMultiplier() float64 { return a.speedMultiplier }

// FleeDirection is the frozen horizontal flee heading.
func (a *Agent) FleeDirection() core.Vec3 { return a.fleeDirection }

// WanderTarget returns the current roam target, if any.
func (a *Agent) WanderTarget() (core.Vec3, bool) {
	return a.wanderTarget, a.hasWanderTarget
}

// AttackReady reports whether the attack cooldown has elapsed.
func (a *Agent) AttackReady() bool {
	return a.attackCooldown.Finished()
}

// FallProgress is the death animation progress in [0, 1].
func (a *Agent) FallProgress() float64 {
	if a.Alive() {
		return 0
	}
	return a.death.Fraction()
}

// SetIdle parks the agent in the inert Idle state.
func (a *Agent) SetIdle() {
	if a.Alive() {
		a.State = core.Idle
		a.hasWanderTarget = false
	}
}
