package server

import "time"

const (
	ProtocolVersion   = 1
	writeWait         = 10 * time.Second
	defaultTickRate   = 20 // ticks per second
	heartbeatInterval = 2 * time.Second
	disconnectAfter   = 3 * heartbeatInterval
)

// Movement tuning. Distances are world units (1u ≈ 1m), rates per second.
const (
	avatarHalf      = 0.5
	avatarHeight    = 1.8
	avatarEyeHeight = 1.6
	avatarBaseSpeed = 6.0

	inputBlendWeight = 0.25 // previous-frame share when smoothing raw input
	velocityLerpRate = 10.0
	velocityDecay    = 8.0 // geometric slowdown when no input is held
	velocityEpsilon  = 0.05
	turnLerpRate     = 12.0

	dodgeSpeedMultiplier = 2.2
)

// Camera tuning.
const (
	cameraDistance     = 6.0
	cameraHeight       = 2.5
	cameraLerpRate     = 8.0
	cameraLookAtOffset = 1.5
	cameraCollisionPad = 0.3
)

// Combat tuning. Windows and cooldowns are tick counts at defaultTickRate.
const (
	minimumDamage       = 1
	attackWindowTicks   = 8
	attackCooldownTicks = 12
	dodgeDurationTicks  = 6
	dodgeCooldownTicks  = 24
	deathLingerTicks    = 30 // post-death removal delay

	avatarAttackRange = 2.2
)

// Resource pools.
const (
	staminaDrainPerUnit   = 1.2 // stamina per world unit moved
	staminaRegenPerSecond = 12.0
	healthRegenPerSecond  = 1.0
	manaRegenPerSecond    = 4.0
	dodgeStaminaCost      = 15.0
)

// Avatar progression.
const (
	baseExperienceToLevel = 100.0
	experienceCurveFactor = 1.5
	levelHealthBonus      = 20.0
	levelStaminaBonus     = 10.0
	levelManaBonus        = 10.0
	levelAttackBonus      = 3.0
	levelDefenseBonus     = 1.0
)

// Scene transitions.
const (
	loadingStageTicks = 10 // ticks each staged loading message stays up
)
