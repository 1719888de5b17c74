package server

import (
	"fmt"

	"duskhollow/server/internal/content"
)

// enemyAIState is the per-enemy machine. Dormant→Aggro is one-way: once an
// enemy has noticed the avatar it never calms down while alive. Dead is
// terminal.
type enemyAIState string

const (
	aiDormant enemyAIState = "dormant"
	aiAggro   enemyAIState = "aggro"
	aiDead    enemyAIState = "dead"
)

type enemyState struct {
	combatantState
	archetype        content.EnemyArchetype
	Color            string `json:"color"`
	Scale            float64
	aiState          enemyAIState
	attackCooldown   int
	experienceReward int
}

func newEnemyState(id string, arch content.EnemyArchetype, pos Vec3) *enemyState {
	scale := arch.Scale
	if scale <= 0 {
		scale = 1
	}
	return &enemyState{
		combatantState: combatantState{
			Combatant: Combatant{
				ID:          id,
				Name:        arch.Name,
				Kind:        KindEnemy,
				Position:    pos,
				Health:      arch.MaxHealth,
				MaxHealth:   arch.MaxHealth,
				AttackPower: arch.AttackPower,
				Defense:     arch.Defense,
				AttackRange: arch.AttackRange,
				AggroRange:  arch.AggroRange,
				MoveSpeed:   arch.MoveSpeed,
				Alive:       true,
			},
			half:   avatarHalf * scale,
			height: avatarHeight * scale,
		},
		archetype:        arch,
		Color:            arch.Color,
		Scale:            scale,
		aiState:          aiDormant,
		experienceReward: arch.ExperienceReward,
	}
}

// stepEnemyAI runs the movement half of an enemy frame: aggro detection and
// straight-line pursuit. Attack resolution happens later in the frame so
// enemies always react to the avatar's post-movement position.
func (e *enemyState) stepEnemyAI(avatar *playerState, colliders []Collider, dt float64) {
	if !e.Alive {
		e.aiState = aiDead
		return
	}
	if avatar == nil || !avatar.Alive {
		e.velocity = Vec3{}
		return
	}

	dist := distanceXZ(e.Position, avatar.Position)
	if e.aiState == aiDormant && dist < e.AggroRange {
		e.aiState = aiAggro
	}
	if e.aiState != aiAggro {
		return
	}

	if dist > e.AttackRange {
		stepEnemyMovement(&e.combatantState, avatar.Position, e.MoveSpeed, colliders, dt)
	} else {
		e.velocity = Vec3{}
		faceHeading(&e.combatantState, headingOf(avatar.Position.X-e.Position.X, avatar.Position.Z-e.Position.Z), dt)
	}
}

// tryMeleeAttack deals damage to the avatar when in range and off cooldown.
// Returns the damage dealt, or zero when no swing happened.
func (e *enemyState) tryMeleeAttack(avatar *playerState) float64 {
	if e.attackCooldown > 0 {
		e.attackCooldown--
	}
	if !e.Alive || e.aiState != aiAggro || avatar == nil || !avatar.Alive {
		return 0
	}
	if e.attackCooldown > 0 || distanceXZ(e.Position, avatar.Position) > e.AttackRange {
		return 0
	}
	cooldown := e.archetype.AttackCooldownTicks
	if cooldown <= 0 {
		cooldown = attackCooldownTicks
	}
	e.attackCooldown = cooldown
	return avatar.takeHit(e.AttackPower)
}

func enemyID(scene string, n int) string {
	return fmt.Sprintf("%s-enemy-%d", scene, n)
}
