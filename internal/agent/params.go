package agent

import "time"

// Behaviour tuning.
const (
	ThreatRadius = 30.0
	SafeRadius   = 60.0

	WanderMinDistance = 20.0
	WanderMaxDistance = 50.0
	WanderReach       = 5.0

	ReactionDuration  = 300 * time.Millisecond
	ReactionFleeBoost = 1.5

	MeleeRange  = 3.0
	AttackLeash = 1.5 // multiple of attack range before giving up

	DeathDuration = 3 * time.Second

	// YawSmoothing is the per-tick interpolation factor toward the movement heading.
	YawSmoothing = 0.1

	minMoveSquared = 0.01
)
