// Package scene provides typed scene and cutscene event emitters.
package scene

import (
	"context"

	"duskhollow/server/logging"
)

const (
	TransitionEventType     logging.EventType = "scene.transition"
	TransitionDropEventType logging.EventType = "scene.transition_dropped"
	CutsceneEventType       logging.EventType = "scene.cutscene"
)

type TransitionPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func Transition(ctx context.Context, pub logging.Publisher, tick uint64, from, to string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     TransitionEventType,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryScene,
		Payload:  TransitionPayload{From: from, To: to},
	})
}

// TransitionDropped records a transition request ignored because another
// transition was already in flight.
func TransitionDropped(ctx context.Context, pub logging.Publisher, tick uint64, from, to string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     TransitionDropEventType,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryScene,
		Payload:  TransitionPayload{From: from, To: to},
	})
}

type CutscenePayload struct {
	CutsceneID string `json:"cutsceneId"`
	Action     string `json:"action"` // "play", "stop", "skip", "rejected"
}

func Cutscene(ctx context.Context, pub logging.Publisher, tick uint64, id, action string) {
	if pub == nil {
		return
	}
	severity := logging.SeverityInfo
	if action == "rejected" {
		severity = logging.SeverityWarn
	}
	pub.Publish(ctx, logging.Event{
		Type:     CutsceneEventType,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: severity,
		Category: logging.CategoryCutscene,
		Payload:  CutscenePayload{CutsceneID: id, Action: action},
	})
}
