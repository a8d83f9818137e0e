// Package shop sells weapon and vehicle upgrades for coins.
package shop

import (
	"errors"
	"fmt"

	"github.com/dinorampage/combat/internal/weapon"
)

var (
	ErrInsufficientCoins = errors.New("insufficient coins")
	ErrMaxLevel          = errors.New("upgrade at max level")
	ErrUnknownUpgrade    = errors.New("unknown upgrade")
)

// MaxLevel caps every upgrade.
const MaxLevel = 5

// VehicleHealthBonus is added to max and current vehicle health per purchase.
const VehicleHealthBonus = 20.0

// Upgrade identifies a purchasable upgrade.
type Upgrade uint8

const (
	MachineGunDamage Upgrade = iota
	MachineGunFireRate
	ShotgunDamage
	ShotgunPellets
	RocketDamage
	RocketRadius
	VehicleMaxHealth
	VehicleSpeed
	VehicleAcceleration
	upgradeCount
)

type price struct {
	name string
	base int
	step int
}

var prices = [upgradeCount]price{
	MachineGunDamage:    {"MachineGunDamage", 100, 100},
	MachineGunFireRate:  {"MachineGunFireRate", 150, 120},
	ShotgunDamage:       {"ShotgunDamage", 120, 100},
	ShotgunPellets:      {"ShotgunPellets", 200, 150},
	RocketDamage:        {"RocketDamage", 200, 150},
	RocketRadius:        {"RocketRadius", 250, 150},
	VehicleMaxHealth:    {"VehicleMaxHealth", 200, 200},
	VehicleSpeed:        {"VehicleSpeed", 150, 100},
	VehicleAcceleration: {"VehicleAcceleration", 150, 100},
}

// AllUpgrades lists every upgrade in menu order.
func AllUpgrades() []Upgrade {
	out := make([]Upgrade, upgradeCount)
	for i := range out {
		out[i] = Upgrade(i)
	}
	return out
}

func (u Upgrade) String() string {
	if u >= upgradeCount {
		return "Unknown"
	}
	return prices[u].name
}

// ParseUpgrade resolves an upgrade by name.
func ParseUpgrade(name string) (Upgrade, error) {
	for i, p := range prices {
		if p.name == name {
			return Upgrade(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownUpgrade, name)
}

// CostAt is the price of buying the next level when level levels are owned.
func CostAt(u Upgrade, level int) int {
	p := prices[u]
	return p.base + level*p.step
}

// Wallet holds the coins purchases are paid from.
type Wallet interface {
	Coins() int
	Spend(amount int) bool
}

// Vehicle receives vehicle upgrades.
type Vehicle interface {
	AddMaxHealth(amount float64)
	SetSpeedLevel(level int)
	SetAccelerationLevel(level int)
}

// VehicleLevels holds purchased vehicle upgrade levels.
type VehicleLevels struct {
	MaxHealth    int
	Speed        int
	Acceleration int
}

// Offer is a menu line.
type Offer struct {
	Upgrade    Upgrade
	Level      int
	MaxLevel   int
	Cost       int
	Affordable bool
}

// Receipt describes a completed purchase.
type Receipt struct {
	Upgrade   Upgrade
	Level     int
	Cost      int
	CoinsLeft int
}

// Shop applies purchases to weapon and vehicle upgrade state.
type Shop struct {
	wallet  Wallet
	weapons *weapon.Upgrades
	vehicle Vehicle
	levels  VehicleLevels
}

func New(wallet Wallet, weapons *weapon.Upgrades, vehicle Vehicle) *Shop {
	return &Shop{wallet: wallet, weapons: weapons, vehicle: vehicle}
}

func (s *Shop) level(u Upgrade) *int {
	switch u {
	case MachineGunDamage:
		return &s.weapons.MachineGunDamage
	case MachineGunFireRate:
		return &s.weapons.MachineGunFireRate
	case ShotgunDamage:
		return &s.weapons.ShotgunDamage
	case ShotgunPellets:
		return &s.weapons.ShotgunPellets
	case RocketDamage:
		return &s.weapons.RocketDamage
	case RocketRadius:
		return &s.weapons.RocketRadius
	case VehicleMaxHealth:
		return &s.levels.MaxHealth
	case VehicleSpeed:
		return &s.levels.Speed
	case VehicleAcceleration:
		return &s.levels.Acceleration
	}
	return nil
}

// Level returns the owned level of u.
func (s *Shop) Level(u Upgrade) int {
	if l := s.level(u); l != nil {
		return *l
	}
	return 0
}

func (s *Shop) VehicleLevels() VehicleLevels { return s.levels }

// Offers lists every upgrade with its next cost.
func (s *Shop) Offers() []Offer {
	offers := make([]Offer, 0, upgradeCount)
	for _, u := range AllUpgrades() {
		lvl := s.Level(u)
		cost := CostAt(u, lvl)
		offers = append(offers, Offer{
			Upgrade:    u,
			Level:      lvl,
			MaxLevel:   MaxLevel,
			Cost:       cost,
			Affordable: lvl < MaxLevel && s.wallet.Coins() >= cost,
		})
	}
	return offers
}

// Purchase buys the next level of u. On error nothing changes.
func (s *Shop) Purchase(u Upgrade) (Receipt, error) {
	lvl := s.level(u)
	if lvl == nil {
		return Receipt{}, fmt.Errorf("%w: %d", ErrUnknownUpgrade, u)
	}
	if *lvl >= MaxLevel {
		return Receipt{}, fmt.Errorf("%s: %w", u, ErrMaxLevel)
	}
	cost := CostAt(u, *lvl)
	if !s.wallet.Spend(cost) {
		return Receipt{}, fmt.Errorf("%s costs %d, have %d: %w", u, cost, s.wallet.Coins(), ErrInsufficientCoins)
	}
	*lvl++

	if s.vehicle != nil {
		switch u {
		case VehicleMaxHealth:
			s.vehicle.AddMaxHealth(VehicleHealthBonus)
		case VehicleSpeed:
			s.vehicle.SetSpeedLevel(*lvl)
		case VehicleAcceleration:
			s.vehicle.SetAccelerationLevel(*lvl)
		}
	}

	return Receipt{Upgrade: u, Level: *lvl, Cost: cost, CoinsLeft: s.wallet.Coins()}, nil
}
