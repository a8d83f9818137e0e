// pkg/core/types.go
package core

import "math"

// EntityID identifies an agent or projectile within a session.
// Zero is never assigned.
type EntityID uint32

// Vec3 is a world-space vector. Y is up; agents move on the XZ plane.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// V3 is shorthand for building a Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vec3) LengthSquared() float64 {
	return v.Dot(v)
}

// Distance returns the euclidean distance between v and o.
func (v Vec3) Distance(o Vec3) float64 {
	return v.Sub(o).Length()
}

// Normalize returns the unit vector of v, or the zero vector when v has no length.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Horizontal drops the vertical component.
func (v Vec3) Horizontal() Vec3 {
	return Vec3{X: v.X, Z: v.Z}
}

// RotateY rotates v around the vertical axis by angle radians.
func (v Vec3) RotateY(angle float64) Vec3 {
	sin, cos := math.Sincos(angle)
	return Vec3{
		X: v.X*cos + v.Z*sin,
		Y: v.Y,
		Z: -v.X*sin + v.Z*cos,
	}
}

// Yaw returns the heading of v on the XZ plane, measured from +Z toward +X.
func (v Vec3) Yaw() float64 {
	return math.Atan2(v.X, v.Z)
}

// YawDirection is the inverse of Yaw: the unit horizontal vector for a heading.
func YawDirection(yaw float64) Vec3 {
	sin, cos := math.Sincos(yaw)
	return Vec3{X: sin, Z: cos}
}

// BodyPart tags a hit zone.
type BodyPart uint8

const (
	Body BodyPart = iota
	Head
	Legs
)

func (p BodyPart) String() string {
	switch p {
	case Head:
		return "Head"
	case Body:
		return "Body"
	case Legs:
		return "Legs"
	default:
		return "Unknown"
	}
}

// Multiplier is the damage and score multiplier for hits on this part.
func (p BodyPart) Multiplier() float64 {
	switch p {
	case Head:
		return 2.0
	case Legs:
		return 0.5
	default:
		return 1.0
	}
}

// AgentState is the AI state of an agent.
type AgentState uint8

const (
	Idle AgentState = iota
	Roam
	Flee
	Attack
	Dead
)

func (s AgentState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Roam:
		return "Roam"
	case Flee:
		return "Flee"
	case Attack:
		return "Attack"
	case Dead:
		return "Dead"
	default:
		return "Unknown"
	}
}

// Species identifies a creature variant with its own base stats.
type Species uint8

const (
	Triceratops Species = iota
	Velociraptor
	Brachiosaurus
	TRex
	Stegosaurus
)

// AllSpecies lists every species in table order.
var AllSpecies = []Species{Triceratops, Velociraptor, Brachiosaurus, TRex, Stegosaurus}

func (s Species) String() string {
	switch s {
	case Triceratops:
		return "Triceratops"
	case Velociraptor:
		return "Velociraptor"
	case Brachiosaurus:
		return "Brachiosaurus"
	case TRex:
		return "TRex"
	case Stegosaurus:
		return "Stegosaurus"
	default:
		return "Unknown"
	}
}

// WeaponType is a weapon archetype.
type WeaponType uint8

const (
	MachineGun WeaponType = iota
	Shotgun
	RocketLauncher
)

// AllWeapons lists every archetype in slot order.
var AllWeapons = []WeaponType{MachineGun, Shotgun, RocketLauncher}

func (w WeaponType) String() string {
	switch w {
	case MachineGun:
		return "MachineGun"
	case Shotgun:
		return "Shotgun"
	case RocketLauncher:
		return "RocketLauncher"
	default:
		return "Unknown"
	}
}
