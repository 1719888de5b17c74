// Package combat provides typed combat event emitters.
package combat

import (
	"context"

	"duskhollow/server/logging"
)

const (
	DamageDealtEventType   logging.EventType = "combat.damage_dealt"
	DeathEventType         logging.EventType = "combat.death"
	LevelUpEventType       logging.EventType = "combat.level_up"
	BossPhaseEventType     logging.EventType = "combat.boss_phase"
	SpecialAttackEventType logging.EventType = "combat.special_attack"
)

type DamagePayload struct {
	Amount    float64 `json:"amount"`
	Mitigated bool    `json:"mitigated"`
	Blocking  bool    `json:"blocking,omitempty"`
}

func DamageDealt(ctx context.Context, pub logging.Publisher, tick uint64, attacker, target logging.EntityRef, amount float64, mitigated, blocking bool) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     DamageDealtEventType,
		Tick:     tick,
		Actor:    attacker,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
		Payload:  DamagePayload{Amount: amount, Mitigated: mitigated, Blocking: blocking},
	})
}

func Death(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     DeathEventType,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
	})
}

type LevelUpPayload struct {
	Level int `json:"level"`
}

func LevelUp(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, level int) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     LevelUpEventType,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  LevelUpPayload{Level: level},
	})
}

type BossPhasePayload struct {
	Phase int `json:"phase"`
}

func BossPhase(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, phase int) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     BossPhaseEventType,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  BossPhasePayload{Phase: phase},
	})
}

type SpecialAttackPayload struct {
	Attack string `json:"attack"`
	Kind   string `json:"kind"`
}

func SpecialAttack(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, attack, kind string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     SpecialAttackEventType,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
		Payload:  SpecialAttackPayload{Attack: attack, Kind: kind},
	})
}
