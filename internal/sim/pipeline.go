package sim

import (
	"context"
	"slices"

	"github.com/dinorampage/combat/internal/agent"
	"github.com/dinorampage/combat/internal/combat"
	"github.com/dinorampage/combat/internal/weapon"
	"github.com/dinorampage/combat/pkg/core"
)

type step struct {
	name string
	run  func(in *Input)
}

// pipeline is the fixed per-tick order. Nothing runs concurrently within a tick.
func (e *Engine) pipeline() []step {
	return []step{
		{"input", e.applyInput},
		{"fire", e.fire},
		{"projectiles", e.integrateProjectiles},
		{"collisions", e.resolveCollisions},
		{"reactions", e.drainHits},
		{"ai", e.think},
		{"movement", e.move},
		{"attacks", e.resolveAttacks},
		{"lifecycle", e.cleanup},
	}
}

// StepNames lists the pipeline steps in execution order.
func (e *Engine) StepNames() []string {
	names := make([]string, len(e.steps))
	for i, s := range e.steps {
		names[i] = s.name
	}
	return names
}

// pendingHit is a damage event queued by collision resolution and drained by
// the reactions step in emission order.
type pendingHit struct {
	targetID  core.EntityID
	part      core.BodyPart
	weapon    core.WeaponType
	damage    float64
	position  core.Vec3
	explosion bool
}

func (e *Engine) applyInput(in *Input) {
	secs := e.dt.Seconds()

	from := e.inventory.Current()
	switch {
	case in.SwitchSlot > 0:
		e.inventory.SwitchSlot(in.SwitchSlot - 1)
	case in.CycleWeapon > 0:
		e.inventory.Next()
	case in.CycleWeapon < 0:
		e.inventory.Previous()
	}
	if to := e.inventory.Current(); to != from {
		e.emit(core.WeaponSwitchedEvent{Stamp: e.stamp(), From: from, To: to})
	}

	for _, u := range in.Purchases {
		r, err := e.shop.Purchase(u)
		if err != nil {
			e.logger.Debug("purchase rejected", "upgrade", u.String(), "error", err)
			continue
		}
		e.logger.Debug("purchase complete", "upgrade", u.String(), "level", r.Level, "cost", r.Cost)
		e.emit(core.PurchaseEvent{
			Stamp:     e.stamp(),
			Upgrade:   r.Upgrade.String(),
			Level:     r.Level,
			Cost:      r.Cost,
			CoinsLeft: r.CoinsLeft,
		})
	}

	if in.Respawn {
		e.spawnWave()
	}

	e.vehicle.Drive(in, secs)

	switch {
	case in.ClearLock:
		e.lock.Clear()
	case in.LockNext:
		e.lock.Cycle(e.vehicle.Position, e.vehicle.Forward(), e.agents.All())
	}
	e.lock.Validate(e.agents)

	var target *core.Vec3
	if id, ok := e.lock.ID(); ok {
		if a, found := e.agents.Get(id); found {
			c := a.Center()
			target = &c
		}
	}
	e.vehicle.AimTurret(in, target, secs)
}

func (e *Engine) aim(in *Input) core.Vec3 {
	switch {
	case in.Aim != nil && in.Aim.LengthSquared() > 0:
		return in.Aim.Normalize()
	case in.AimPoint != nil:
		from := e.vehicle.Position.Add(core.V3(0, TurretHeight, 0))
		if d := in.AimPoint.Sub(from); d.LengthSquared() > 0 {
			return d.Normalize()
		}
	}
	return e.vehicle.TurretForward()
}

func (e *Engine) fire(in *Input) {
	if e.vehicle.Destroyed() {
		return
	}
	if e.timeAttack != nil && e.timeAttack.Finished() {
		return
	}

	var lockedID core.EntityID
	var aimAt *core.Vec3
	if id, ok := e.lock.ID(); ok && in.LockFire {
		if a, found := e.agents.Get(id); found && a.Alive() {
			lockedID = id
			c := a.Center()
			aimAt = &c
		}
	}
	if !in.Fire && aimAt == nil {
		return
	}

	dir := e.aim(in)
	origin := e.vehicle.Muzzle(dir)
	if aimAt != nil {
		dir = aimAt.Sub(origin).Normalize()
	}

	p := e.inventory.Profile()
	shots := e.launcher.Fire(e.now, p, origin, dir, e.projectiles)
	if shots == nil {
		return
	}
	e.shots++
	e.metrics.shots.Add(context.Background(), 1)
	e.emit(core.FiredEvent{
		Stamp:     e.stamp(),
		Weapon:    p.Type,
		Origin:    origin,
		Direction: dir,
		Pellets:   len(shots),
		LockedID:  lockedID,
	})
}

func (e *Engine) integrateProjectiles(*Input) {
	e.detonations = append(e.detonations[:0], e.projectiles.Integrate(e.dt)...)
}

// resolveCollisions queues direct hits and explosion splash. An agent whose
// queued direct damage already covers its health stops absorbing bullets, so
// later projectiles in the same tick can reach agents behind it.
func (e *Engine) resolveCollisions(*Input) {
	agents := e.agents.All()
	targets := slices.Clone(agents)
	queued := make(map[core.EntityID]float64)

	live := slices.Clone(e.projectiles.Live())
	for _, p := range live {
		if p.Explosive {
			continue
		}
		hit, ok := combat.Resolve(p.Position, p.Damage, targets)
		if !ok {
			continue
		}
		id := hit.Agent.ID
		queued[id] += hit.Damage
		if queued[id] >= hit.Agent.Health {
			targets = slices.DeleteFunc(targets, func(a *agent.Agent) bool { return a.ID == id })
		}
		e.hits = append(e.hits, pendingHit{
			targetID: hit.Agent.ID,
			part:     hit.Part,
			weapon:   p.Weapon,
			damage:   hit.Damage,
			position: p.Position,
		})
		e.projectiles.Remove(p.ID)
	}

	for _, d := range e.detonations {
		splash := combat.Explode(d.Position, d.Radius, d.Damage, agents)
		e.emit(core.ExplosionEvent{
			Stamp:        e.stamp(),
			ProjectileID: d.ProjectileID,
			Weapon:       d.Weapon,
			Position:     d.Position,
			Radius:       d.Radius,
			Damage:       d.Damage,
			Affected:     len(splash),
		})
		for _, s := range splash {
			e.hits = append(e.hits, pendingHit{
				targetID:  s.Agent.ID,
				part:      core.Body,
				weapon:    d.Weapon,
				damage:    s.Damage,
				position:  s.Agent.Center(),
				explosion: true,
			})
		}
	}
	e.detonations = e.detonations[:0]
}

func (e *Engine) drainHits(*Input) {
	e.combo.Update(e.dt)

	for _, h := range e.hits {
		a, ok := e.agents.Get(h.targetID)
		if !ok {
			continue
		}
		applied, lethal := a.ApplyDamage(h.damage)
		if !applied {
			continue
		}
		e.emit(core.HitEvent{
			Stamp:     e.stamp(),
			TargetID:  a.ID,
			Species:   a.Species(),
			Part:      h.part,
			Weapon:    h.weapon,
			Damage:    h.damage,
			Position:  h.position,
			Explosion: h.explosion,
			Lethal:    lethal,
		})
		if lethal {
			e.registerKill(a.ID, a.Stats.Species, a.Stats.Score, a.Stats.Coins, a.Position, h)
		}
	}
	e.hits = e.hits[:0]

	if e.timeAttack != nil {
		e.timeAttack.Update(e.dt, e.combo.Streak())
	}
}

func (e *Engine) registerKill(id core.EntityID, s core.Species, baseScore, coins int, pos core.Vec3, h pendingHit) {
	mult := e.combo.Multiplier()
	reward := e.ledger.RecordKill(s, baseScore, coins, h.part, mult)
	e.combo.AddKill()
	if e.timeAttack != nil {
		e.timeAttack.RecordKill()
	}
	e.metrics.kills.Add(context.Background(), 1)

	e.logger.Debug("agent killed",
		"agent", id,
		"species", s.String(),
		"part", h.part.String(),
		"score", reward.Score,
		"streak", e.combo.Streak())

	e.emit(core.KillEvent{
		Stamp:      e.stamp(),
		TargetID:   id,
		Species:    s,
		Part:       h.part,
		Weapon:     h.weapon,
		Position:   pos,
		Score:      reward.Score,
		Coins:      reward.Coins,
		Streak:     e.combo.Streak(),
		Multiplier: mult,
	})
}

func (e *Engine) think(*Input) {
	for _, a := range e.agents.All() {
		e.ai.Think(a, e.vehicle.Position, e.dt)
	}
}

func (e *Engine) move(*Input) {
	for _, a := range e.agents.All() {
		e.ai.Move(a, e.vehicle.Position, e.dt)
	}
}

func (e *Engine) resolveAttacks(*Input) {
	for _, a := range e.agents.All() {
		dmg, ok := e.ai.ResolveAttack(a, e.vehicle.Position)
		if !ok {
			continue
		}
		left := e.vehicle.TakeDamage(dmg)
		e.metrics.vehicleDamage.Add(context.Background(), dmg)
		e.emit(core.AttackEvent{
			Stamp:         e.stamp(),
			AttackerID:    a.ID,
			Species:       a.Species(),
			Damage:        dmg,
			VehicleHealth: left,
		})
		if left == 0 {
			e.logger.Info("vehicle destroyed", "tick", e.tick, "attacker", a.ID)
		}
	}
}

func (e *Engine) cleanup(*Input) {
	for _, a := range e.agents.All() {
		if e.ai.TickDeath(a, e.dt) {
			e.agents.Remove(a.ID)
		}
	}
	e.lock.Validate(e.agents)
}

func (e *Engine) snapshot() *Snapshot {
	snap := &Snapshot{
		Tick: e.tick,
		Time: e.now,
		Vehicle: VehicleView{
			Position:  e.vehicle.Position,
			Yaw:       e.vehicle.Yaw,
			TurretYaw: e.vehicle.TurretYaw,
			Speed:     e.vehicle.Speed,
			Health:    e.vehicle.Health,
			MaxHealth: e.vehicle.MaxHealth,
			Destroyed: e.vehicle.Destroyed(),
		},
		Projectiles: e.projectiles.Len(),
		Combo: ComboView{
			Streak:     e.combo.Streak(),
			Max:        e.combo.Max(),
			Display:    e.combo.Display(),
			Multiplier: e.combo.Multiplier(),
		},
		Score:  e.ledger.Score(),
		Coins:  e.ledger.Coins(),
		Kills:  e.ledger.Kills(),
		Weapon: e.inventory.Stats(),
		Events: slices.Clone(e.events),
	}
	snap.LockedID, _ = e.lock.ID()

	for _, a := range e.agents.All() {
		snap.Agents = append(snap.Agents, AgentView{
			ID:           a.ID,
			Species:      a.Species(),
			State:        a.State,
			Health:       a.Health,
			MaxHealth:    a.MaxHealth,
			Position:     a.Position,
			Yaw:          a.Yaw,
			Reacting:     a.Reacting(),
			FallProgress: a.FallProgress(),
		})
	}

	if e.timeAttack != nil {
		snap.TimeAttack = &TimeAttackView{
			Remaining: e.timeAttack.Remaining(),
			Kills:     e.timeAttack.Kills(),
			MaxCombo:  e.timeAttack.MaxCombo(),
			Finished:  e.timeAttack.Finished(),
			Rank:      e.timeAttack.Rank(),
		}
	}
	return snap
}

// Weapons lists the effective profiles of every unlocked weapon.
func (e *Engine) Weapons() []weapon.Profile {
	var out []weapon.Profile
	for _, w := range e.inventory.Unlocked() {
		out = append(out, e.inventory.ProfileOf(w))
	}
	return out
}
