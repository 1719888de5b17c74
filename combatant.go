package server

// CombatantKind tags the variant of a combat-capable entity. Behavior
// differences (aggro, phases, special attacks) hang off the enemy and boss
// states rather than a type hierarchy.
type CombatantKind string

const (
	KindPlayer CombatantKind = "player"
	KindEnemy  CombatantKind = "enemy"
	KindBoss   CombatantKind = "boss"
)

// Combatant is the shared stat block for anything that deals or receives
// damage. It is embedded in the runtime states and copied into snapshots.
type Combatant struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Kind        CombatantKind `json:"kind"`
	Position    Vec3          `json:"position"`
	Heading     float64       `json:"heading"`
	Health      float64       `json:"health"`
	MaxHealth   float64       `json:"maxHealth"`
	AttackPower float64       `json:"attackPower"`
	Defense     float64       `json:"defense"`
	AttackRange float64       `json:"attackRange"`
	AggroRange  float64       `json:"aggroRange,omitempty"`
	MoveSpeed   float64       `json:"moveSpeed"`
	Alive       bool          `json:"alive"`
}

// combatantState carries the runtime fields shared by avatar and enemies.
type combatantState struct {
	Combatant
	half       float64
	height     float64
	velocity   Vec3
	deathTicks int // removal countdown once dead
}

// takeDamage applies incoming damage, reducing it by defense when mitigated
// with a floor of one point dealt. Health is clamped at zero and the death
// latch fires exactly once. Calls on a dead combatant are silent no-ops.
func (c *combatantState) takeDamage(amount float64, mitigated bool) float64 {
	if !c.Alive || amount <= 0 {
		return 0
	}
	dealt := amount
	if mitigated {
		dealt = amount - c.Defense
		if dealt < minimumDamage {
			dealt = minimumDamage
		}
	}
	c.Health -= dealt
	if c.Health <= 0 {
		c.Health = 0
		c.die()
	}
	return dealt
}

// die is idempotent: the alive flag transitions to false exactly once, then
// the death linger countdown runs before the world removes the actor.
func (c *combatantState) die() {
	if !c.Alive {
		return
	}
	c.Alive = false
	c.deathTicks = deathLingerTicks
}

// tickDeath advances the post-death sequence and reports whether the
// combatant should be removed from the world this frame.
func (c *combatantState) tickDeath() bool {
	if c.Alive {
		return false
	}
	if c.deathTicks > 0 {
		c.deathTicks--
	}
	return c.deathTicks == 0
}
