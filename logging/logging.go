// Package logging is the structured event pipeline for the simulation. Game
// systems publish typed events; an async router fans them out to the
// configured sinks without blocking the tick loop.
package logging

import (
	"context"
	"time"
)

type EventType string

type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

type EntityKind string

const (
	EntityKindUnknown EntityKind = "unknown"
	EntityKindPlayer  EntityKind = "player"
	EntityKindEnemy   EntityKind = "enemy"
	EntityKindBoss    EntityKind = "boss"
	EntityKindNPC     EntityKind = "npc"
	EntityKindWorld   EntityKind = "world"
)

const (
	CategoryCombat   = "combat"
	CategoryQuest    = "quest"
	CategoryScene    = "scene"
	CategoryCutscene = "cutscene"
	CategorySystem   = "system"
)

type EntityRef struct {
	ID   string     `json:"id"`
	Kind EntityKind `json:"kind"`
}

type Event struct {
	Type     EventType      `json:"type"`
	Tick     uint64         `json:"tick"`
	Time     time.Time      `json:"time"`
	Actor    EntityRef      `json:"actor"`
	Targets  []EntityRef    `json:"targets,omitempty"`
	Severity Severity       `json:"severity"`
	Category string         `json:"category,omitempty"`
	Payload  any            `json:"payload,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type PublisherFunc func(ctx context.Context, event Event)

func (f PublisherFunc) Publish(ctx context.Context, event Event) {
	if f != nil {
		f(ctx, event)
	}
}

// NopPublisher discards every event. Useful as a default collaborator.
var NopPublisher Publisher = PublisherFunc(func(context.Context, Event) {})

const SystemEventType EventType = "system.message"

// System publishes a plain system message at the given severity.
func System(ctx context.Context, pub Publisher, tick uint64, sev Severity, message string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, Event{
		Type:     SystemEventType,
		Tick:     tick,
		Actor:    EntityRef{Kind: EntityKindWorld},
		Severity: sev,
		Category: CategorySystem,
		Payload:  map[string]string{"message": message},
	})
}

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}
