package shop

import (
	"testing"

	"github.com/dinorampage/combat/internal/scoring"
	"github.com/dinorampage/combat/internal/weapon"
	"github.com/dinorampage/combat/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockVehicle struct {
	health     float64
	speed      int
	accel      int
	maxHealths int
}

func (m *mockVehicle) AddMaxHealth(amount float64) {
	m.health += amount
	m.maxHealths++
}
func (m *mockVehicle) SetSpeedLevel(level int)        { m.speed = level }
func (m *mockVehicle) SetAccelerationLevel(level int) { m.accel = level }

func newShop(coins int) (*Shop, *scoring.Ledger, *weapon.Inventory, *mockVehicle) {
	ledger := scoring.NewLedger()
	ledger.Grant(coins)
	inv := weapon.NewInventory()
	v := &mockVehicle{}
	return New(ledger, inv.Upgrades(), v), ledger, inv, v
}

func TestCostCurve(t *testing.T) {
	tests := []struct {
		upgrade  Upgrade
		level    int
		expected int
	}{
		{MachineGunDamage, 0, 100},
		{MachineGunDamage, 3, 400},
		{MachineGunFireRate, 1, 270},
		{ShotgunPellets, 2, 500},
		{RocketRadius, 4, 850},
		{VehicleMaxHealth, 1, 400},
		{VehicleAcceleration, 0, 150},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, CostAt(tt.upgrade, tt.level), "%s level %d", tt.upgrade, tt.level)
	}
}

func TestPurchaseWeaponUpgrade(t *testing.T) {
	s, ledger, inv, _ := newShop(250)

	r, err := s.Purchase(MachineGunDamage)
	require.NoError(t, err)
	assert.Equal(t, Receipt{Upgrade: MachineGunDamage, Level: 1, Cost: 100, CoinsLeft: 150}, r)
	assert.Equal(t, 150, ledger.Coins())
	assert.InDelta(t, 11.0, inv.ProfileOf(core.MachineGun).Damage, 1e-9)

	_, err = s.Purchase(MachineGunDamage)
	assert.ErrorIs(t, err, ErrInsufficientCoins)
	assert.Equal(t, 1, s.Level(MachineGunDamage), "failed purchase leaves level untouched")
	assert.Equal(t, 150, ledger.Coins(), "failed purchase leaves coins untouched")
}

func TestPurchaseMaxLevel(t *testing.T) {
	s, ledger, inv, _ := newShop(100000)
	for i := 0; i < MaxLevel; i++ {
		_, err := s.Purchase(ShotgunPellets)
		require.NoError(t, err)
	}
	coins := ledger.Coins()

	_, err := s.Purchase(ShotgunPellets)
	assert.ErrorIs(t, err, ErrMaxLevel)
	assert.Equal(t, coins, ledger.Coins())
	assert.Equal(t, 13, inv.ProfileOf(core.Shotgun).Pellets)
}

func TestPurchaseVehicleUpgrades(t *testing.T) {
	s, _, _, v := newShop(1000)

	_, err := s.Purchase(VehicleMaxHealth)
	require.NoError(t, err)
	assert.Equal(t, 1, v.maxHealths)
	assert.Equal(t, VehicleHealthBonus, v.health)

	_, err = s.Purchase(VehicleSpeed)
	require.NoError(t, err)
	_, err = s.Purchase(VehicleAcceleration)
	require.NoError(t, err)
	assert.Equal(t, 1, v.speed)
	assert.Equal(t, 1, v.accel)
	assert.Equal(t, VehicleLevels{MaxHealth: 1, Speed: 1, Acceleration: 1}, s.VehicleLevels())
}

func TestUnknownUpgrade(t *testing.T) {
	s, _, _, _ := newShop(1000)
	_, err := s.Purchase(Upgrade(42))
	assert.ErrorIs(t, err, ErrUnknownUpgrade)

	_, err = ParseUpgrade("Jetpack")
	assert.ErrorIs(t, err, ErrUnknownUpgrade)

	u, err := ParseUpgrade("RocketRadius")
	require.NoError(t, err)
	assert.Equal(t, RocketRadius, u)
}

func TestOffers(t *testing.T) {
	s, _, _, _ := newShop(150)
	offers := s.Offers()
	require.Len(t, offers, 9)
	assert.True(t, offers[MachineGunDamage].Affordable)
	assert.True(t, offers[VehicleSpeed].Affordable)
	assert.False(t, offers[RocketRadius].Affordable)
	assert.Equal(t, 250, offers[RocketRadius].Cost)
}
