package convert

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dinorampage/combat/internal/geo"
	"github.com/dinorampage/combat/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func stamp(tick uint64) core.Stamp {
	return core.Stamp{Tick: tick, Time: time.Duration(tick) * time.Second / 60}
}

func TestSessionToModel(t *testing.T) {
	s := &core.Session{
		ID:         7,
		Name:       "arena",
		Seed:       42,
		TickRate:   60,
		AgentCount: 15,
		TimeAttack: 90 * time.Second,
		StartTime:  start,
		Tag:        "test",
	}

	m := SessionToModel(s)
	assert.Equal(t, uint(7), m.ID)
	assert.Equal(t, "arena", m.Name)
	assert.Equal(t, int64(42), m.Seed)
	assert.Equal(t, 60, m.TickRate)
	assert.Equal(t, 15, m.AgentCount)
	assert.Equal(t, int64(90000), m.TimeAttackMs)
	assert.Equal(t, start, m.StartTime)
	assert.Equal(t, "test", m.Tag)
	assert.False(t, m.EndTime.Valid)
}

func TestApplySummary(t *testing.T) {
	m := SessionToModel(&core.Session{ID: 1, StartTime: start})
	sum := &core.SessionSummary{
		SessionID:      1,
		Ticks:          600,
		SimTime:        10 * time.Second,
		Score:          450,
		Coins:          45,
		Kills:          3,
		MaxCombo:       3,
		Shots:          40,
		VehicleHealth:  92,
		Rank:           "C",
		KillsBySpecies: map[core.Species]int{core.Triceratops: 2, core.TRex: 1},
	}
	end := start.Add(time.Minute)

	ApplySummary(&m, sum, end)

	assert.True(t, m.EndTime.Valid)
	assert.Equal(t, end, m.EndTime.Time)
	assert.Equal(t, uint64(600), m.Ticks)
	assert.Equal(t, int64(10000), m.SimTimeMs)
	assert.Equal(t, 450, m.Score)
	assert.Equal(t, 45, m.Coins)
	assert.Equal(t, 3, m.Kills)
	assert.Equal(t, 3, m.MaxCombo)
	assert.Equal(t, 40, m.Shots)
	assert.Equal(t, float32(92), m.VehicleHealth)
	assert.Equal(t, "C", m.Rank)

	var kills map[string]int
	require.NoError(t, json.Unmarshal(m.KillsBySpecies, &kills))
	assert.Equal(t, map[string]int{"Triceratops": 2, "TRex": 1}, kills)
}

func TestFiredEventToModel(t *testing.T) {
	e := core.FiredEvent{
		Stamp:     stamp(120),
		Weapon:    core.Shotgun,
		Origin:    core.V3(1, 2, 3),
		Direction: core.V3(0, 0, 1),
		Pellets:   8,
	}

	m := FiredEventToModel(3, start, e)
	assert.Equal(t, uint(3), m.SessionID)
	assert.Equal(t, uint64(120), m.Tick)
	assert.Equal(t, start.Add(2*time.Second), m.Time)
	assert.Equal(t, "Shotgun", m.Weapon)
	assert.Equal(t, uint8(8), m.Pellets)
	assert.False(t, m.LockedID.Valid)
	assert.Equal(t, float32(2), m.OriginElevation)

	origin, err := geo.Vec3FromPoint(m.Origin)
	require.NoError(t, err)
	assert.Equal(t, core.V3(1, 2, 3), origin)

	var dir core.Vec3
	require.NoError(t, json.Unmarshal(m.Direction, &dir))
	assert.Equal(t, core.V3(0, 0, 1), dir)

	e.LockedID = 17
	m = FiredEventToModel(3, start, e)
	assert.True(t, m.LockedID.Valid)
	assert.Equal(t, int32(17), m.LockedID.Int32)
}

func TestHitEventToModel(t *testing.T) {
	e := core.HitEvent{
		Stamp:     stamp(60),
		TargetID:  5,
		Species:   core.Velociraptor,
		Part:      core.Head,
		Weapon:    core.RocketLauncher,
		Damage:    37.5,
		Position:  core.V3(10, 1, -4),
		Explosion: true,
		Lethal:    true,
	}

	m := HitEventToModel(2, start, e)
	assert.Equal(t, start.Add(time.Second), m.Time)
	assert.Equal(t, uint32(5), m.TargetID)
	assert.Equal(t, "Velociraptor", m.Species)
	assert.Equal(t, "Head", m.Part)
	assert.Equal(t, "RocketLauncher", m.Weapon)
	assert.Equal(t, float32(37.5), m.Damage)
	assert.True(t, m.Explosion)
	assert.True(t, m.Lethal)
	assert.Equal(t, float32(1), m.Elevation)
}

func TestKillEventToModel(t *testing.T) {
	e := core.KillEvent{
		Stamp:      stamp(90),
		TargetID:   9,
		Species:    core.TRex,
		Part:       core.Body,
		Weapon:     core.MachineGun,
		Position:   core.V3(0, 0, 20),
		Score:      550,
		Coins:      50,
		Streak:     2,
		Multiplier: 1.1,
	}

	m := KillEventToModel(4, start, e)
	assert.Equal(t, uint(4), m.SessionID)
	assert.Equal(t, uint64(90), m.Tick)
	assert.Equal(t, "TRex", m.Species)
	assert.Equal(t, "Body", m.Part)
	assert.Equal(t, 550, m.Score)
	assert.Equal(t, 50, m.Coins)
	assert.Equal(t, 2, m.Streak)
	assert.InDelta(t, 1.1, float64(m.Multiplier), 1e-6)

	pos, err := geo.Vec3FromPoint(m.Position)
	require.NoError(t, err)
	assert.Equal(t, core.V3(0, 0, 20), pos)
}

func TestExplosionEventToModel(t *testing.T) {
	e := core.ExplosionEvent{
		Stamp:        stamp(60),
		ProjectileID: 31,
		Weapon:       core.RocketLauncher,
		Position:     core.V3(5, 0, 5),
		Radius:       8,
		Damage:       100,
		Affected:     2,
	}

	m := ExplosionEventToModel(1, start, e)
	assert.Equal(t, uint32(31), m.ProjectileID)
	assert.Equal(t, "RocketLauncher", m.Weapon)
	assert.Equal(t, float32(8), m.Radius)
	assert.Equal(t, float32(100), m.Damage)
	assert.Equal(t, 2, m.Affected)
}

func TestAttackEventToModel(t *testing.T) {
	e := core.AttackEvent{
		Stamp:         stamp(30),
		AttackerID:    4,
		Species:       core.Velociraptor,
		Damage:        8,
		VehicleHealth: 92,
	}

	m := AttackEventToModel(1, start, e)
	assert.Equal(t, start.Add(500*time.Millisecond), m.Time)
	assert.Equal(t, uint32(4), m.AttackerID)
	assert.Equal(t, "Velociraptor", m.Species)
	assert.Equal(t, float32(8), m.Damage)
	assert.Equal(t, float32(92), m.VehicleHealth)
}

func TestWeaponAndPurchaseEventToModel(t *testing.T) {
	w := WeaponEventToModel(1, start, core.WeaponSwitchedEvent{
		Stamp: stamp(6),
		From:  core.MachineGun,
		To:    core.RocketLauncher,
	})
	assert.Equal(t, uint64(6), w.Tick)
	assert.Equal(t, "MachineGun", w.From)
	assert.Equal(t, "RocketLauncher", w.To)

	p := PurchaseEventToModel(1, start, core.PurchaseEvent{
		Stamp:     stamp(6),
		Upgrade:   "MachineGunDamage",
		Level:     1,
		Cost:      100,
		CoinsLeft: 150,
	})
	assert.Equal(t, "MachineGunDamage", p.Upgrade)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 100, p.Cost)
	assert.Equal(t, 150, p.CoinsLeft)
}
