package server

import (
	"math/rand"

	"duskhollow/server/internal/content"
)

// bossState layers the phase machine and special-attack kit on top of the
// generic enemy AI. Phase index only ever grows, and a transition in
// progress can never be interrupted by another one.
type bossState struct {
	enemyState
	def             content.BossDefinition
	phaseIndex      int
	transitionTicks int
	attackScale     float64 // compounded phase attack multiplier
	attackCooldowns map[string]int
	pendingHits     []pendingHit
}

// pendingHit is one scheduled strike of a multi-hit special attack.
type pendingHit struct {
	ticks  int
	damage float64
	attack string
}

func newBossState(id string, def content.BossDefinition, pos Vec3) *bossState {
	b := &bossState{
		enemyState:      *newEnemyState(id, def.EnemyArchetype, pos),
		def:             def,
		attackScale:     1,
		attackCooldowns: make(map[string]int, len(def.Attacks)),
	}
	b.Kind = KindBoss
	if len(def.Phases) > 0 {
		b.Color = def.Phases[0].Color
	}
	return b
}

func (b *bossState) phaseTransitioning() bool {
	return b.transitionTicks > 0
}

// stepPhaseMachine is evaluated once per frame. Outside a transition it
// compares the health ratio against the next phase's threshold; at or below
// it, the lock window starts. When the lock expires the phase advances
// atomically, compounding that phase's multipliers onto the current stats.
// Returns the phase index entered this frame, or -1.
func (b *bossState) stepPhaseMachine() int {
	if !b.Alive {
		return -1
	}
	if b.transitionTicks > 0 {
		b.transitionTicks--
		if b.transitionTicks > 0 {
			return -1
		}
		return b.advancePhase()
	}
	next := b.phaseIndex + 1
	if next >= len(b.def.Phases) {
		return -1
	}
	ratio := 0.0
	if b.MaxHealth > 0 {
		ratio = b.Health / b.MaxHealth
	}
	if ratio <= b.def.Phases[next].Threshold {
		ticks := b.def.TransitionTicks
		if ticks <= 0 {
			ticks = 1
		}
		b.transitionTicks = ticks
	}
	return -1
}

func (b *bossState) advancePhase() int {
	b.phaseIndex++
	phase := b.def.Phases[b.phaseIndex]
	if phase.SpeedMultiplier > 0 {
		b.MoveSpeed *= phase.SpeedMultiplier
	}
	if phase.AttackMultiplier > 0 {
		b.AttackPower *= phase.AttackMultiplier
		b.attackScale *= phase.AttackMultiplier
	}
	if phase.Color != "" {
		b.Color = phase.Color
	}
	return b.phaseIndex
}

// selectSpecialAttack picks uniformly among the attacks that are off
// cooldown and within range of the avatar. Cooldowns count down every frame
// regardless; the pick itself is locked out during a phase transition. When
// nothing is eligible the boss simply does nothing special this frame.
func (b *bossState) selectSpecialAttack(avatarDist float64, rng *rand.Rand) (content.SpecialAttack, bool) {
	for id, remaining := range b.attackCooldowns {
		if remaining > 0 {
			b.attackCooldowns[id] = remaining - 1
		}
	}
	if !b.Alive || b.phaseTransitioning() || b.aiState != aiAggro {
		return content.SpecialAttack{}, false
	}

	eligible := make([]content.SpecialAttack, 0, len(b.def.Attacks))
	for _, atk := range b.def.Attacks {
		if b.attackCooldowns[atk.ID] > 0 {
			continue
		}
		if avatarDist > atk.Range {
			continue
		}
		eligible = append(eligible, atk)
	}
	if len(eligible) == 0 {
		return content.SpecialAttack{}, false
	}
	chosen := eligible[rng.Intn(len(eligible))]
	b.attackCooldowns[chosen.ID] = chosen.CooldownTicks
	return chosen, true
}

// scheduleMultiHit queues the delayed strikes of a multi-hit attack.
func (b *bossState) scheduleMultiHit(atk content.SpecialAttack) {
	hits := atk.Hits
	if hits <= 0 {
		hits = 1
	}
	interval := atk.HitIntervalTicks
	if interval <= 0 {
		interval = 1
	}
	for i := 0; i < hits; i++ {
		b.pendingHits = append(b.pendingHits, pendingHit{
			ticks:  (i + 1) * interval,
			damage: atk.Damage * b.attackScale,
			attack: atk.ID,
		})
	}
}

// tickPendingHits advances scheduled strikes and returns those firing now.
// A dead boss's pending hits are discarded rather than fired.
func (b *bossState) tickPendingHits() []pendingHit {
	if !b.Alive {
		b.pendingHits = nil
		return nil
	}
	var fired []pendingHit
	remaining := b.pendingHits[:0]
	for _, hit := range b.pendingHits {
		hit.ticks--
		if hit.ticks <= 0 {
			fired = append(fired, hit)
		} else {
			remaining = append(remaining, hit)
		}
	}
	b.pendingHits = remaining
	return fired
}

// cancelPending drops scheduled hits, used on scene teardown so a stale
// timer can never mutate a suspended scene.
func (b *bossState) cancelPending() {
	b.pendingHits = nil
}
