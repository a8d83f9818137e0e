package sim

import (
	"context"
	"testing"
	"time"

	"github.com/dinorampage/combat/internal/agent"
	"github.com/dinorampage/combat/internal/config"
	"github.com/dinorampage/combat/internal/mission"
	"github.com/dinorampage/combat/internal/projectile"
	"github.com/dinorampage/combat/internal/shop"
	"github.com/dinorampage/combat/internal/util"
	"github.com/dinorampage/combat/internal/weapon"
	"github.com/dinorampage/combat/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.SimConfig {
	return config.SimConfig{
		Seed:           42,
		TickRate:       60,
		AgentCount:     0,
		SpawnExtent:    150,
		SpawnExclusion: 20,
	}
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(testConfig(), append([]Option{WithPRNG(util.NewPRNG(42))}, opts...)...)
	require.NoError(t, err)
	return e
}

func idleAgent(e *Engine, s core.Species, pos core.Vec3) *agent.Agent {
	a := e.AddAgent(s, pos)
	a.SetIdle()
	return a
}

func forward() *core.Vec3 {
	v := core.V3(0, 0, 1)
	return &v
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.TickRate = 0
	_, err := New(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = testConfig()
	cfg.AgentCount = -1
	_, err = New(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = testConfig()
	cfg.StartingCoins = -5
	_, err = New(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewSpawnsWave(t *testing.T) {
	cfg := testConfig()
	cfg.AgentCount = 12
	mc := mission.NewContext()
	e, err := New(cfg, WithMissionContext(mc))
	require.NoError(t, err)

	assert.Equal(t, 12, e.Agents().Len())
	for _, a := range e.Agents().All() {
		outside := abs(a.Position.X) >= cfg.SpawnExclusion || abs(a.Position.Z) >= cfg.SpawnExclusion
		assert.True(t, outside, "agent %d spawned inside the exclusion square", a.ID)
	}
	assert.Equal(t, e.Session(), mc.GetSession())
	assert.Equal(t, time.Second/60, e.TickDuration())
}

func TestPipelineOrder(t *testing.T) {
	e := newEngine(t)
	assert.Equal(t, []string{
		"input", "fire", "projectiles", "collisions", "reactions",
		"ai", "movement", "attacks", "lifecycle",
	}, e.StepNames())
}

func TestMachineGunKill(t *testing.T) {
	e := newEngine(t)
	target := idleAgent(e, core.Triceratops, core.V3(0, 0, 15))

	var hits []core.HitEvent
	var kills []core.KillEvent
	for i := 0; i < 300 && len(kills) == 0; i++ {
		snap := e.Step(Input{Fire: true, Aim: forward()})
		for _, ev := range snap.Events {
			switch ev := ev.(type) {
			case core.HitEvent:
				hits = append(hits, ev)
			case core.KillEvent:
				kills = append(kills, ev)
			}
		}
	}

	require.Len(t, kills, 1)
	require.Len(t, hits, 15)
	for _, h := range hits {
		assert.Equal(t, target.ID, h.TargetID)
		assert.Equal(t, core.Body, h.Part)
		assert.InDelta(t, 10.0, h.Damage, 1e-9)
	}
	assert.True(t, hits[14].Lethal)

	k := kills[0]
	assert.Equal(t, core.Triceratops, k.Species)
	assert.Equal(t, 100, k.Score)
	assert.Equal(t, 15, k.Coins)
	assert.Equal(t, 1.0, k.Multiplier)
	assert.Equal(t, 1, k.Streak)

	st := e.Stats()
	assert.Equal(t, 100, st.Score)
	assert.Equal(t, 15, st.Coins)
	assert.Equal(t, 1, st.Kills)
	assert.Equal(t, 1, st.KillsBySpecies[core.Triceratops])
	assert.Equal(t, core.Dead, target.State)
	assert.Zero(t, target.Health)
}

func TestFireRateLimitDropsIntents(t *testing.T) {
	e := newEngine(t)
	var firedAt []uint64
	// one simulated second at 60 Hz with a 100 ms interval: a shot every 6 ticks
	for i := 0; i < 60; i++ {
		snap := e.Step(Input{Fire: true, Aim: forward()})
		if len(snap.EventsOf(core.KindFired)) > 0 {
			firedAt = append(firedAt, snap.Tick)
		}
	}
	assert.Equal(t, []uint64{1, 7, 13, 19, 25, 31, 37, 43, 49, 55}, firedAt)
	assert.Equal(t, 10, e.Stats().Shots)
	assert.Equal(t, time.Second, e.Stats().SimTime)
}

func TestSimTimeStaysExact(t *testing.T) {
	e := newEngine(t)
	var total time.Duration
	for i := 0; i < 180; i++ {
		before := e.Stats().SimTime
		e.Step(Input{})
		step := e.Stats().SimTime - before
		assert.True(t, step == 16666666 || step == 16666667, "tick %d lasted %v", i+1, step)
		total += step
	}
	assert.Equal(t, 3*time.Second, total)
	assert.Equal(t, time.Second/60, e.TickDuration())
}

func TestShotgunPellets(t *testing.T) {
	e := newEngine(t)
	snap := e.Step(Input{SwitchSlot: 2, Fire: true, Aim: forward()})

	switched := snap.EventsOf(core.KindWeaponSwitched)
	require.Len(t, switched, 1)
	assert.Equal(t, core.WeaponSwitchedEvent{Stamp: core.Stamp{Tick: 1, Time: e.TickDuration()}, From: core.MachineGun, To: core.Shotgun}, switched[0])

	fired := snap.EventsOf(core.KindFired)
	require.Len(t, fired, 1)
	assert.Equal(t, 8, fired[0].(core.FiredEvent).Pellets)
	assert.Equal(t, 8, snap.Projectiles)
	assert.Equal(t, "Shotgun", snap.Weapon.Name)
}

func TestSwitchToSameSlotIsSilent(t *testing.T) {
	e := newEngine(t)
	snap := e.Step(Input{SwitchSlot: 1})
	assert.Empty(t, snap.EventsOf(core.KindWeaponSwitched))

	snap = e.Step(Input{CycleWeapon: -1})
	require.Len(t, snap.EventsOf(core.KindWeaponSwitched), 1)
	assert.Equal(t, core.RocketLauncher, e.Inventory().Current())
}

func TestLethalHitIsIdempotent(t *testing.T) {
	e := newEngine(t)
	a := idleAgent(e, core.Velociraptor, core.V3(0, 0, 100))

	e.hits = append(e.hits,
		pendingHit{targetID: a.ID, part: core.Body, damage: 1000},
		pendingHit{targetID: a.ID, part: core.Head, damage: 1000},
	)
	e.drainHits(nil)

	var hits, kills int
	for _, ev := range e.events {
		switch ev.Kind() {
		case core.KindHit:
			hits++
		case core.KindKill:
			kills++
		}
	}
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, kills)
	assert.Equal(t, 1, e.Ledger().Kills())
	assert.Equal(t, 1, e.Combo().Streak())
	assert.Equal(t, 150, e.Ledger().Score())
}

func TestDoomedAgentLetsLaterShotsThrough(t *testing.T) {
	e := newEngine(t)
	front := idleAgent(e, core.Velociraptor, core.V3(0, 0, 40))
	behind := idleAgent(e, core.Velociraptor, core.V3(0, 0, 40))
	front.Health = 5

	p := e.Inventory().Profile()
	at := front.Zones[0].World
	e.projectiles.Spawn(p, at, core.V3(0, 0, 1))
	e.projectiles.Spawn(p, at, core.V3(0, 0, 1))

	e.resolveCollisions(nil)
	e.drainHits(nil)

	var hits []core.HitEvent
	for _, ev := range e.events {
		if h, ok := ev.(core.HitEvent); ok {
			hits = append(hits, h)
		}
	}
	require.Len(t, hits, 2)
	assert.Equal(t, front.ID, hits[0].TargetID)
	assert.True(t, hits[0].Lethal)
	assert.Equal(t, behind.ID, hits[1].TargetID)
	assert.Less(t, behind.Health, behind.MaxHealth)
	assert.Zero(t, e.projectiles.Len())
}

func TestMissingTargetIsNoop(t *testing.T) {
	e := newEngine(t)
	e.hits = append(e.hits, pendingHit{targetID: 999, part: core.Head, damage: 50})
	e.drainHits(nil)

	assert.Empty(t, e.events)
	assert.Empty(t, e.hits)
	assert.Zero(t, e.Ledger().Kills())
}

func TestComboScoring(t *testing.T) {
	e := newEngine(t)
	a1 := idleAgent(e, core.Triceratops, core.V3(-20, 0, 100))
	a2 := idleAgent(e, core.Triceratops, core.V3(0, 0, 100))
	a3 := idleAgent(e, core.Triceratops, core.V3(20, 0, 100))

	kill := func(a *agent.Agent, part core.BodyPart) core.KillEvent {
		e.events = e.events[:0]
		e.hits = append(e.hits, pendingHit{targetID: a.ID, part: part, damage: 1000})
		e.drainHits(nil)
		ev := e.events[len(e.events)-1]
		require.Equal(t, core.KindKill, ev.Kind())
		return ev.(core.KillEvent)
	}

	k1 := kill(a1, core.Body)
	assert.Equal(t, 100, k1.Score)
	assert.Equal(t, 1.0, k1.Multiplier)

	k2 := kill(a2, core.Body)
	assert.Equal(t, 110, k2.Score)
	assert.InDelta(t, 1.1, k2.Multiplier, 1e-9)

	k3 := kill(a3, core.Head)
	assert.Equal(t, 240, k3.Score)
	assert.Equal(t, 3, k3.Streak)

	assert.Equal(t, 450, e.Ledger().Score())
	assert.Equal(t, 45, e.Ledger().Coins())
	assert.Equal(t, "3x", e.Combo().Display())
}

func TestComboDecaysWithoutKills(t *testing.T) {
	e := newEngine(t)
	a := idleAgent(e, core.Velociraptor, core.V3(0, 0, 100))
	e.hits = append(e.hits, pendingHit{targetID: a.ID, part: core.Body, damage: 1000})
	e.drainHits(nil)
	require.Equal(t, 1, e.Combo().Streak())

	for i := 0; i < 121; i++ {
		e.Step(Input{})
	}
	snap := e.Step(Input{})
	assert.Zero(t, snap.Combo.Streak)
	assert.Equal(t, 1, snap.Combo.Max)
	assert.Equal(t, 1.0, snap.Combo.Multiplier)
}

func TestExplosionFalloff(t *testing.T) {
	e := newEngine(t)
	// body centre of a brachiosaurus sits 2 units above its origin
	near := idleAgent(e, core.Brachiosaurus, core.V3(4, -2, 0))
	edge := idleAgent(e, core.Brachiosaurus, core.V3(0, -2, 8))
	far := idleAgent(e, core.Brachiosaurus, core.V3(0, -2, 20))

	e.detonations = append(e.detonations, projectile.Detonation{
		ProjectileID: 77,
		Weapon:       core.RocketLauncher,
		Radius:       8,
		Damage:       100,
	})
	e.resolveCollisions(nil)
	e.drainHits(nil)

	require.IsType(t, core.ExplosionEvent{}, e.events[0])
	assert.Equal(t, 2, e.events[0].(core.ExplosionEvent).Affected)

	assert.InDelta(t, 250.0, near.Health, 1e-9)
	assert.InDelta(t, 300.0, edge.Health, 1e-9)
	assert.InDelta(t, 300.0, far.Health, 1e-9)

	var hits []core.HitEvent
	for _, ev := range e.events {
		if h, ok := ev.(core.HitEvent); ok {
			hits = append(hits, h)
		}
	}
	require.Len(t, hits, 2)
	assert.True(t, hits[0].Explosion)
	assert.InDelta(t, 50.0, hits[0].Damage, 1e-9)
	assert.Zero(t, hits[1].Damage)
	assert.False(t, edge.Reacting())
}

func TestRocketDetonatesOnFuse(t *testing.T) {
	e := newEngine(t)
	snap := e.Step(Input{SwitchSlot: 3, Fire: true, Aim: forward()})
	require.Len(t, snap.EventsOf(core.KindFired), 1)

	var explosions []core.Event
	for i := 0; i < 90; i++ {
		snap = e.Step(Input{})
		explosions = append(explosions, snap.EventsOf(core.KindExplosion)...)
	}
	require.Len(t, explosions, 1)
	ex := explosions[0].(core.ExplosionEvent)
	assert.InDelta(t, 8.0, ex.Radius, 1e-9)
	assert.Greater(t, ex.Position.Z, 55.0)
	assert.Zero(t, snap.Projectiles)
}

func TestRaptorAttacksVehicle(t *testing.T) {
	e := newEngine(t)
	raptor := e.AddAgent(core.Velociraptor, core.V3(0, 0, 2))

	snap := e.Step(Input{})
	attacks := snap.EventsOf(core.KindAttack)
	require.Len(t, attacks, 1)
	ev := attacks[0].(core.AttackEvent)
	assert.Equal(t, raptor.ID, ev.AttackerID)
	assert.InDelta(t, 8.0, ev.Damage, 1e-9)
	assert.InDelta(t, 92.0, snap.Vehicle.Health, 1e-9)
	assert.Equal(t, core.Flee, raptor.State)
	assert.False(t, raptor.AttackReady())
}

func TestDestroyedVehicleStopsFiring(t *testing.T) {
	e := newEngine(t)
	e.Vehicle().TakeDamage(1000)
	assert.True(t, e.Vehicle().Destroyed())

	snap := e.Step(Input{Fire: true})
	assert.Empty(t, snap.EventsOf(core.KindFired))
	assert.True(t, snap.Vehicle.Destroyed)
	assert.Zero(t, snap.Vehicle.Health)
}

func TestTimeAttackStopsFire(t *testing.T) {
	cfg := testConfig()
	cfg.TimeAttack = 100 * time.Millisecond
	e, err := New(cfg)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		e.Step(Input{})
	}
	snap := e.Step(Input{Fire: true})
	assert.Empty(t, snap.EventsOf(core.KindFired))
	require.NotNil(t, snap.TimeAttack)
	assert.True(t, snap.TimeAttack.Finished)
	assert.Equal(t, "C", snap.TimeAttack.Rank)
	assert.Equal(t, "C", e.Summary().Rank)
}

func TestLockCycling(t *testing.T) {
	e := newEngine(t)
	a := idleAgent(e, core.Triceratops, core.V3(0, 0, 20))
	b := idleAgent(e, core.Triceratops, core.V3(0, 0, 10))
	c := idleAgent(e, core.Triceratops, core.V3(5, 0, 30))
	idleAgent(e, core.Triceratops, core.V3(0, 0, -10))

	want := []core.EntityID{b.ID, a.ID, c.ID, b.ID}
	for _, id := range want {
		snap := e.Step(Input{LockNext: true})
		assert.Equal(t, id, snap.LockedID)
	}

	snap := e.Step(Input{ClearLock: true})
	assert.Zero(t, snap.LockedID)
}

func TestLockWithoutCandidatesClears(t *testing.T) {
	e := newEngine(t)
	idleAgent(e, core.Triceratops, core.V3(0, 0, -10))
	snap := e.Step(Input{LockNext: true})
	assert.Zero(t, snap.LockedID)
}

func TestLockFireAimsAtTarget(t *testing.T) {
	e := newEngine(t)
	target := idleAgent(e, core.TRex, core.V3(10, 0, 10))

	snap := e.Step(Input{LockNext: true})
	require.Equal(t, target.ID, snap.LockedID)
	assert.InDelta(t, target.Center().Sub(e.Vehicle().Position).Yaw(), snap.Vehicle.TurretYaw, 1e-9)

	snap = e.Step(Input{LockFire: true})
	fired := snap.EventsOf(core.KindFired)
	require.Len(t, fired, 1)
	ev := fired[0].(core.FiredEvent)
	assert.Equal(t, target.ID, ev.LockedID)

	want := target.Center().Sub(ev.Origin).Normalize()
	assert.InDelta(t, want.X, ev.Direction.X, 1e-9)
	assert.InDelta(t, want.Y, ev.Direction.Y, 1e-9)
	assert.InDelta(t, want.Z, ev.Direction.Z, 1e-9)
}

func TestLockDroppedOnDeath(t *testing.T) {
	e := newEngine(t)
	target := idleAgent(e, core.Velociraptor, core.V3(0, 0, 10))
	snap := e.Step(Input{LockNext: true})
	require.Equal(t, target.ID, snap.LockedID)

	e.hits = append(e.hits, pendingHit{targetID: target.ID, damage: 1000})
	snap = e.Step(Input{})
	assert.Zero(t, snap.LockedID)

	snap = e.Step(Input{LockFire: true})
	assert.Empty(t, snap.EventsOf(core.KindFired))
}

func TestDeadAgentsDespawn(t *testing.T) {
	e := newEngine(t)
	a := idleAgent(e, core.Velociraptor, core.V3(0, 0, 50))
	a.ApplyDamage(1000)

	// the 3 s fall takes exactly 180 ticks at 60 Hz
	for i := 0; i < 179; i++ {
		e.Step(Input{})
	}
	_, ok := e.Agents().Get(a.ID)
	require.True(t, ok, "despawned early")

	e.Step(Input{})
	_, ok = e.Agents().Get(a.ID)
	assert.False(t, ok)
	assert.Equal(t, agent.DeathDuration, e.Stats().SimTime)
}

func TestDamageReactionLastsExactTicks(t *testing.T) {
	e := newEngine(t)
	a := idleAgent(e, core.Triceratops, core.V3(0, 0, 100))
	e.hits = append(e.hits, pendingHit{targetID: a.ID, part: core.Body, damage: 10})

	// the 0.3 s pause covers 18 ticks at 60 Hz, starting with the hit tick
	var snap *Snapshot
	for i := 0; i < 17; i++ {
		snap = e.Step(Input{})
	}
	view, ok := snap.Agent(a.ID)
	require.True(t, ok)
	assert.True(t, view.Reacting)

	snap = e.Step(Input{})
	view, _ = snap.Agent(a.ID)
	assert.False(t, view.Reacting)
	assert.Equal(t, core.Flee, view.State)
}

func TestPurchases(t *testing.T) {
	cfg := testConfig()
	cfg.StartingCoins = 250
	e, err := New(cfg)
	require.NoError(t, err)
	require.Equal(t, 250, e.Ledger().Coins())

	snap := e.Step(Input{Purchases: []shop.Upgrade{shop.MachineGunDamage, shop.RocketRadius}})
	purchases := snap.EventsOf(core.KindPurchase)
	require.Len(t, purchases, 1)
	p := purchases[0].(core.PurchaseEvent)
	assert.Equal(t, "MachineGunDamage", p.Upgrade)
	assert.Equal(t, 100, p.Cost)
	assert.Equal(t, 150, p.CoinsLeft)
	assert.Equal(t, 150, snap.Coins)
	assert.InDelta(t, 11.0, snap.Weapon.Damage, 1e-9)
	assert.Equal(t, 1, e.Shop().Level(shop.MachineGunDamage))
	assert.Zero(t, e.Shop().Level(shop.RocketRadius))
}

func TestSinksReceiveEventsInOrder(t *testing.T) {
	var got [][]core.Event
	e := newEngine(t, WithSink(SinkFunc(func(events []core.Event) {
		got = append(got, events)
	})))

	snap := e.Step(Input{SwitchSlot: 2, Fire: true, Aim: forward()})
	require.Len(t, got, 1)
	assert.Equal(t, snap.Events, got[0])
	require.Len(t, got[0], 2)
	assert.Equal(t, core.KindWeaponSwitched, got[0][0].Kind())
	assert.Equal(t, core.KindFired, got[0][1].Kind())
}

func TestMissionContextAdvances(t *testing.T) {
	mc := mission.NewContext()
	e := newEngine(t, WithMissionContext(mc))
	e.Step(Input{})
	e.Step(Input{})

	tick, at := mc.Progress()
	assert.Equal(t, uint64(2), tick)
	assert.Equal(t, 2*time.Second/60, at)
}

func TestRunWithAutopilot(t *testing.T) {
	cfg := testConfig()
	cfg.AgentCount = 15
	e, err := New(cfg, WithPRNG(util.NewPRNG(7)))
	require.NoError(t, err)

	sum, err := e.Run(context.Background(), 600, NewAutopilot(e))
	require.NoError(t, err)
	assert.Equal(t, uint64(600), sum.Ticks)
	assert.Equal(t, 10*time.Second, sum.SimTime)
	assert.Positive(t, sum.Shots)
	assert.GreaterOrEqual(t, sum.VehicleHealth, 0.0)
}

func TestRunStopsOnCancel(t *testing.T) {
	e := newEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := e.Run(ctx, 100, DriverFunc(func(*Snapshot) Input { return Input{} }))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, sum.Ticks)
}

func TestWeapons(t *testing.T) {
	e := newEngine(t)
	ws := e.Weapons()
	require.Len(t, ws, 3)
	assert.Equal(t, weapon.MustLookup(core.Shotgun), ws[1])
}
