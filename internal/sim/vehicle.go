package sim

import (
	"github.com/dinorampage/combat/internal/util"
	"github.com/dinorampage/combat/pkg/core"
)

// Drive model.
const (
	VehicleHealth       = 100.0
	VehicleAcceleration = 15.0
	VehicleDeceleration = 10.0
	VehicleMaxSpeed     = 25.0
	ReverseSpeedFactor  = 0.3
	VehicleTurnSpeed    = 2.5
	TurretTurnSpeed     = 2.0
	MinTurningSpeed     = 0.1
	TurretHeight        = 1.5
	MuzzleOffset        = 1.0
)

// Vehicle is the player's turreted vehicle.
type Vehicle struct {
	Position  core.Vec3
	Yaw       float64
	Speed     float64
	TurretYaw float64
	Health    float64
	MaxHealth float64

	speedLevel int
	accelLevel int
}

func NewVehicle() *Vehicle {
	return &Vehicle{Health: VehicleHealth, MaxHealth: VehicleHealth}
}

func (v *Vehicle) MaxSpeed() float64 {
	return VehicleMaxSpeed * (1 + 0.1*float64(v.speedLevel))
}

func (v *Vehicle) Acceleration() float64 {
	return VehicleAcceleration * (1 + 0.1*float64(v.accelLevel))
}

// Forward is the chassis heading.
func (v *Vehicle) Forward() core.Vec3 {
	return core.YawDirection(v.Yaw)
}

// TurretForward is the horizontal turret heading.
func (v *Vehicle) TurretForward() core.Vec3 {
	return core.YawDirection(v.TurretYaw)
}

// Muzzle is where projectiles spawn for a shot along dir.
func (v *Vehicle) Muzzle(dir core.Vec3) core.Vec3 {
	return v.Position.Add(core.V3(0, TurretHeight, 0)).Add(dir.Horizontal().Normalize().Scale(MuzzleOffset))
}

// Drive integrates throttle and steering for one tick.
func (v *Vehicle) Drive(in *Input, secs float64) {
	switch {
	case in.Forward:
		v.Speed += v.Acceleration() * secs
	case in.Backward:
		v.Speed -= v.Acceleration() * secs
	case v.Speed > 0:
		v.Speed = max(v.Speed-VehicleDeceleration*secs, 0)
	case v.Speed < 0:
		v.Speed = min(v.Speed+VehicleDeceleration*secs, 0)
	}
	v.Speed = util.Clamp(v.Speed, -v.MaxSpeed()*ReverseSpeedFactor, v.MaxSpeed())

	if abs(v.Speed) > MinTurningSpeed {
		dir := 1.0
		if in.Backward {
			dir = -1
		}
		if in.Left {
			v.Yaw = util.WrapAngle(v.Yaw + VehicleTurnSpeed*secs*dir)
		}
		if in.Right {
			v.Yaw = util.WrapAngle(v.Yaw - VehicleTurnSpeed*secs*dir)
		}
	}

	v.Position = v.Position.Add(v.Forward().Scale(v.Speed * secs))
}

// AimTurret turns the turret toward target when set, otherwise by input.
func (v *Vehicle) AimTurret(in *Input, target *core.Vec3, secs float64) {
	switch {
	case target != nil:
		if to := target.Sub(v.Position).Horizontal(); to.LengthSquared() > 0 {
			v.TurretYaw = to.Yaw()
		}
	case in.Aim != nil && in.Aim.Horizontal().LengthSquared() > 0:
		v.TurretYaw = in.Aim.Yaw()
	case in.AimPoint != nil:
		if to := in.AimPoint.Sub(v.Position).Horizontal(); to.LengthSquared() > 0 {
			v.TurretYaw = to.Yaw()
		}
	default:
		if in.TurretLeft {
			v.TurretYaw = util.WrapAngle(v.TurretYaw + TurretTurnSpeed*secs)
		}
		if in.TurretRight {
			v.TurretYaw = util.WrapAngle(v.TurretYaw - TurretTurnSpeed*secs)
		}
	}
}

// TakeDamage lowers health, never below zero, and returns what is left.
func (v *Vehicle) TakeDamage(amount float64) float64 {
	v.Health = max(v.Health-amount, 0)
	return v.Health
}

func (v *Vehicle) Destroyed() bool { return v.Health <= 0 }

// AddMaxHealth raises max health and heals by the same amount, capped.
func (v *Vehicle) AddMaxHealth(amount float64) {
	v.MaxHealth += amount
	v.Health = min(v.Health+amount, v.MaxHealth)
}

func (v *Vehicle) SetSpeedLevel(level int) { v.speedLevel = level }

func (v *Vehicle) SetAccelerationLevel(level int) { v.accelLevel = level }

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
