package server

import "time"

// PlayerProfile is the customization chosen during character creation.
type PlayerProfile struct {
	Name        string `json:"name"`
	SkinColor   string `json:"skinColor"`
	HairColor   string `json:"hairColor"`
	OutfitColor string `json:"outfitColor"`
}

// moveIntent mirrors the held state of the client's fixed key set.
type moveIntent struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Attack   bool
	Block    bool
	Dodge    bool
	Interact bool
}

type playerState struct {
	combatantState
	profile PlayerProfile

	stamina     float64
	maxStamina  float64
	mana        float64
	maxMana     float64
	experience  float64
	level       int
	nextLevelAt float64

	intent        moveIntent
	smoothedInput Vec3 // previous frame's blended move direction

	attacking      bool
	blocking       bool
	dodging        bool
	attackWindow   int
	attackCooldown int
	dodgeTicks     int
	dodgeCooldown  int
	hitThisSwing   map[string]struct{}

	interactLatch bool // edge-detect the interact key
	lastInput     time.Time
	lastHeartbeat time.Time
	lastRTT       time.Duration
}

func newPlayerState(id string, profile PlayerProfile, spawn Vec3) *playerState {
	p := &playerState{
		combatantState: combatantState{
			Combatant: Combatant{
				ID:          id,
				Name:        profile.Name,
				Kind:        KindPlayer,
				Position:    spawn,
				Health:      100,
				MaxHealth:   100,
				AttackPower: 10,
				Defense:     5,
				AttackRange: avatarAttackRange,
				MoveSpeed:   avatarBaseSpeed,
				Alive:       true,
			},
			half:   avatarHalf,
			height: avatarHeight,
		},
		profile:     profile,
		stamina:     100,
		maxStamina:  100,
		mana:        50,
		maxMana:     50,
		level:       1,
		nextLevelAt: baseExperienceToLevel,
	}
	return p
}

// gainExperience awards experience and cascades level-ups: a single large
// award that crosses several thresholds levels once per crossing, compounding
// the threshold by the curve factor each time. Dead avatars gain nothing.
func (p *playerState) gainExperience(amount float64) int {
	if !p.Alive || amount <= 0 {
		return 0
	}
	p.experience += amount
	levels := 0
	for p.experience >= p.nextLevelAt {
		p.experience -= p.nextLevelAt
		p.nextLevelAt *= experienceCurveFactor
		p.level++
		levels++

		p.MaxHealth += levelHealthBonus
		p.maxStamina += levelStaminaBonus
		p.maxMana += levelManaBonus
		p.AttackPower += levelAttackBonus
		p.Defense += levelDefenseBonus

		// Level-up restores every pool to its new maximum.
		p.Health = p.MaxHealth
		p.stamina = p.maxStamina
		p.mana = p.maxMana
	}
	return levels
}

// takeHit routes damage through the block gate: the avatar's defense only
// mitigates while the block flag is held, otherwise the full amount lands.
func (p *playerState) takeHit(amount float64) float64 {
	return p.takeDamage(amount, p.blocking)
}

// tickResources drains stamina in proportion to ground speed while moving,
// and regenerates pools while near rest. Dodging suspends both directions.
func (p *playerState) tickResources(dt float64) {
	if !p.Alive {
		return
	}
	speed := p.velocity.LengthXZ()
	moving := speed > velocityEpsilon
	switch {
	case p.dodging:
		// No drain, no regen mid-dodge.
	case moving:
		p.stamina = clamp(p.stamina-speed*staminaDrainPerUnit*dt, 0, p.maxStamina)
	default:
		p.stamina = clamp(p.stamina+staminaRegenPerSecond*dt, 0, p.maxStamina)
	}
	p.Health = clamp(p.Health+healthRegenPerSecond*dt, 0, p.MaxHealth)
	p.mana = clamp(p.mana+manaRegenPerSecond*dt, 0, p.maxMana)
}

// tickActionState advances the attack window, dodge window, and cooldown
// counters, and opens new windows from the held intent.
func (p *playerState) tickActionState() {
	if p.attackWindow > 0 {
		p.attackWindow--
		if p.attackWindow == 0 {
			p.attacking = false
			p.hitThisSwing = nil
		}
	}
	if p.attackCooldown > 0 {
		p.attackCooldown--
	}
	if p.dodgeTicks > 0 {
		p.dodgeTicks--
		if p.dodgeTicks == 0 {
			p.dodging = false
		}
	}
	if p.dodgeCooldown > 0 {
		p.dodgeCooldown--
	}

	if !p.Alive {
		p.attacking = false
		p.blocking = false
		p.dodging = false
		return
	}

	p.blocking = p.intent.Block && !p.dodging

	if p.intent.Attack && p.attackCooldown == 0 && p.attackWindow == 0 && !p.blocking {
		p.attacking = true
		p.attackWindow = attackWindowTicks
		p.attackCooldown = attackCooldownTicks
		p.hitThisSwing = make(map[string]struct{})
	}

	if p.intent.Dodge && p.dodgeCooldown == 0 && !p.dodging && p.stamina >= dodgeStaminaCost {
		p.dodging = true
		p.dodgeTicks = dodgeDurationTicks
		p.dodgeCooldown = dodgeCooldownTicks
		p.stamina -= dodgeStaminaCost
	}
}

// currentSpeed applies the dodge burst on top of base movement speed.
func (p *playerState) currentSpeed() float64 {
	if p.dodging {
		return p.MoveSpeed * dodgeSpeedMultiplier
	}
	return p.MoveSpeed
}
