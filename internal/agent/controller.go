package agent

import (
	"log/slog"
	"math"
	"time"

	"github.com/dinorampage/combat/internal/util"
	"github.com/dinorampage/combat/pkg/core"
)

// Controller drives the behaviour state machine of every agent.
type Controller struct {
	rng    *util.PRNG
	logger *slog.Logger
}

func NewController(rng *util.PRNG, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{rng: rng, logger: logger}
}

// Think applies the state transition rules for one tick. Dead and Idle agents
// are left alone.
func (c *Controller) Think(a *Agent, vehicle core.Vec3, dt time.Duration) {
	if !a.Alive() {
		return
	}
	a.attackCooldown.Tick(dt)

	if a.reacting {
		if !a.reaction.Tick(dt) {
			return
		}
		a.reacting = false
		c.flee(a, vehicle, ReactionFleeBoost)
		return
	}

	if a.State == core.Idle {
		return
	}

	dist := a.Position.Distance(vehicle)

	switch {
	case a.Stats.CanAttack() && dist < a.Stats.AttackRange && a.AttackReady():
		if a.State != core.Attack {
			c.transition(a, core.Attack)
			a.hasWanderTarget = false
			a.speedMultiplier = 1
		}
		a.attemptedAttack = true
	case dist < ThreatRadius && a.State != core.Flee && a.State != core.Attack:
		c.flee(a, vehicle, 1)
	}

	if a.State == core.Flee && dist > SafeRadius {
		c.transition(a, core.Roam)
		a.speedMultiplier = 1
	}

	if a.State == core.Attack && a.attemptedAttack && dist > a.Stats.AttackRange*AttackLeash {
		c.transition(a, core.Roam)
		a.attemptedAttack = false
	}

	if a.State == core.Roam {
		if !a.hasWanderTarget || a.Position.Horizontal().Distance(a.wanderTarget.Horizontal()) < WanderReach {
			angle := c.rng.Range(0, 2*math.Pi)
			d := c.rng.Range(WanderMinDistance, WanderMaxDistance)
			a.wanderTarget = a.Position.Add(core.V3(math.Cos(angle)*d, 0, math.Sin(angle)*d))
			a.hasWanderTarget = true
		}
	}
}

// flee switches to Flee with a direction frozen away from the vehicle.
func (c *Controller) flee(a *Agent, vehicle core.Vec3, boost float64) {
	away := a.Position.Sub(vehicle).Horizontal().Normalize()
	if away == (core.Vec3{}) {
		away = core.YawDirection(a.Yaw).Scale(-1)
	}
	a.fleeDirection = away
	a.speedMultiplier = boost
	a.hasWanderTarget = false
	a.attemptedAttack = false
	c.transition(a, core.Flee)
}

func (c *Controller) transition(a *Agent, to core.AgentState) {
	if a.State == to {
		return
	}
	c.logger.Debug("agent state changed",
		"agent", a.ID,
		"species", a.Stats.Species.String(),
		"from", a.State.String(),
		"to", to.String())
	a.State = to
}

// Move integrates the agent along its current directive and smooths its yaw
// toward the movement heading.
func (c *Controller) Move(a *Agent, vehicle core.Vec3, dt time.Duration) {
	if !a.Alive() || a.State == core.Idle || a.reacting {
		return
	}

	var dir core.Vec3
	switch a.State {
	case core.Roam:
		if a.hasWanderTarget {
			dir = a.wanderTarget.Sub(a.Position).Horizontal().Normalize()
		}
	case core.Flee:
		dir = a.fleeDirection
	case core.Attack:
		to := vehicle.Sub(a.Position).Horizontal()
		if to.Length() > MeleeRange*0.5 {
			dir = to.Normalize()
		}
	}

	if dir.LengthSquared() <= minMoveSquared {
		a.SyncZones()
		return
	}

	step := dir.Scale(a.Stats.Speed * a.speedMultiplier * dt.Seconds())
	a.Position.X += step.X
	a.Position.Z += step.Z
	a.Yaw = util.LerpAngle(a.Yaw, dir.Yaw(), YawSmoothing)
	a.SyncZones()
}

// ResolveAttack lands a melee attack when an attacking agent is within
// MeleeRange of the vehicle with its cooldown elapsed. It returns the damage
// dealt and whether an attack happened.
func (c *Controller) ResolveAttack(a *Agent, vehicle core.Vec3) (float64, bool) {
	if !a.Alive() || a.State != core.Attack || !a.AttackReady() {
		return 0, false
	}
	if a.Position.Distance(vehicle) >= MeleeRange {
		return 0, false
	}
	a.attackCooldown.Reset()
	c.flee(a, vehicle, 1)
	return a.Stats.AttackDamage, true
}

// TickDeath advances the death animation and reports whether the agent should
// be removed.
func (c *Controller) TickDeath(a *Agent, dt time.Duration) bool {
	if a.Alive() {
		return false
	}
	a.death.Tick(dt)
	a.Position.Y = -a.Stats.Size.Y * 0.5 * a.death.Fraction()
	return a.death.Finished()
}
