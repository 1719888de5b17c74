package server

import (
	"math"
	"testing"
)

func newTestCombatant(health, defense float64) *combatantState {
	return &combatantState{
		Combatant: Combatant{
			ID:        "dummy",
			Kind:      KindEnemy,
			Health:    health,
			MaxHealth: health,
			Defense:   defense,
			Alive:     true,
		},
		half:   avatarHalf,
		height: avatarHeight,
	}
}

func TestTakeDamageMitigationFloor(t *testing.T) {
	c := newTestCombatant(50, 40)

	dealt := c.takeDamage(10, true)
	if dealt != minimumDamage {
		t.Fatalf("expected mitigated hit to floor at %d, dealt %.1f", minimumDamage, dealt)
	}
	if c.Health != 49 {
		t.Fatalf("expected health 49 after floored hit, got %.1f", c.Health)
	}
}

func TestTakeDamageUnmitigatedIgnoresDefense(t *testing.T) {
	c := newTestCombatant(50, 40)

	dealt := c.takeDamage(10, false)
	if dealt != 10 {
		t.Fatalf("expected full 10 damage, dealt %.1f", dealt)
	}
	if c.Health != 40 {
		t.Fatalf("expected health 40, got %.1f", c.Health)
	}
}

func TestTakeDamageOnDeadIsNoOp(t *testing.T) {
	c := newTestCombatant(5, 0)
	c.takeDamage(10, false)
	if c.Alive {
		t.Fatalf("expected combatant to die")
	}

	ticksAtDeath := c.deathTicks
	if dealt := c.takeDamage(10, false); dealt != 0 {
		t.Fatalf("expected no damage on a corpse, dealt %.1f", dealt)
	}
	if c.Health != 0 || c.deathTicks != ticksAtDeath {
		t.Fatalf("hit on a corpse mutated state: health=%.1f deathTicks=%d", c.Health, c.deathTicks)
	}
}

func TestDeathLingerCountdown(t *testing.T) {
	c := newTestCombatant(1, 0)
	c.takeDamage(5, false)

	removed := 0
	for i := 0; i < deathLingerTicks*2; i++ {
		if c.tickDeath() {
			removed = i + 1
			break
		}
	}
	if removed != deathLingerTicks {
		t.Fatalf("expected removal after %d ticks, got %d", deathLingerTicks, removed)
	}
}

func TestAvatarBlockGatesDefense(t *testing.T) {
	p := newPlayerState("p1", PlayerProfile{Name: "Hero"}, Vec3{})

	p.blocking = false
	p.takeHit(20)
	if p.Health != 80 {
		t.Fatalf("unblocked hit should land in full: health=%.1f", p.Health)
	}

	p.blocking = true
	p.takeHit(20)
	if p.Health != 65 {
		t.Fatalf("blocked hit should be mitigated by defense %.0f: health=%.1f", p.Defense, p.Health)
	}
}

func TestExperienceCascade(t *testing.T) {
	p := newPlayerState("p1", PlayerProfile{Name: "Hero"}, Vec3{})

	levels := p.gainExperience(250)
	if levels != 2 || p.level != 3 {
		t.Fatalf("expected 250xp from level 1 to land at level 3, got +%d levels (level %d)", levels, p.level)
	}
	if p.experience != 0 {
		t.Fatalf("expected no leftover experience, got %.1f", p.experience)
	}
	if math.Abs(p.nextLevelAt-225) > 1e-9 {
		t.Fatalf("expected next threshold 225, got %.1f", p.nextLevelAt)
	}
	if p.Health != p.MaxHealth || p.stamina != p.maxStamina || p.mana != p.maxMana {
		t.Fatalf("level-up should restore every pool: hp=%.1f/%.1f st=%.1f/%.1f mp=%.1f/%.1f",
			p.Health, p.MaxHealth, p.stamina, p.maxStamina, p.mana, p.maxMana)
	}
	if p.MaxHealth != 100+2*levelHealthBonus {
		t.Fatalf("expected max health %.0f, got %.1f", 100+2*levelHealthBonus, p.MaxHealth)
	}
}

func TestDeadAvatarGainsNothing(t *testing.T) {
	p := newPlayerState("p1", PlayerProfile{}, Vec3{})
	p.takeDamage(200, false)

	if levels := p.gainExperience(500); levels != 0 {
		t.Fatalf("dead avatar leveled %d times", levels)
	}
	if p.experience != 0 {
		t.Fatalf("dead avatar accrued %.1f experience", p.experience)
	}
}

func TestDodgeRequiresStamina(t *testing.T) {
	p := newPlayerState("p1", PlayerProfile{}, Vec3{})
	p.stamina = dodgeStaminaCost - 1
	p.intent.Dodge = true

	p.tickActionState()
	if p.dodging {
		t.Fatalf("dodge should be refused below %0.f stamina", dodgeStaminaCost)
	}

	p.stamina = dodgeStaminaCost
	p.tickActionState()
	if !p.dodging {
		t.Fatalf("dodge should start at exactly the stamina cost")
	}
	if p.stamina != 0 {
		t.Fatalf("expected stamina spent, got %.1f", p.stamina)
	}
	if p.currentSpeed() != avatarBaseSpeed*dodgeSpeedMultiplier {
		t.Fatalf("expected dodge speed burst, got %.2f", p.currentSpeed())
	}
}

func TestAttackWindowAndCooldown(t *testing.T) {
	p := newPlayerState("p1", PlayerProfile{}, Vec3{})
	p.intent.Attack = true

	p.tickActionState()
	if !p.attacking || p.attackWindow != attackWindowTicks {
		t.Fatalf("expected swing window to open, attacking=%v window=%d", p.attacking, p.attackWindow)
	}
	if p.hitThisSwing == nil {
		t.Fatalf("expected a fresh per-swing hit set")
	}

	for i := 0; i < attackWindowTicks; i++ {
		p.tickActionState()
	}
	if p.attacking {
		t.Fatalf("swing should have closed after %d ticks", attackWindowTicks)
	}
	if p.hitThisSwing != nil {
		t.Fatalf("hit set should clear with the window")
	}
}
