// Package quest provides typed quest-lifecycle event emitters.
package quest

import (
	"context"

	"duskhollow/server/logging"
)

const (
	StartedEventType   logging.EventType = "quest.started"
	ProgressEventType  logging.EventType = "quest.progress"
	CompletedEventType logging.EventType = "quest.completed"
	RejectedEventType  logging.EventType = "quest.rejected"
)

type Payload struct {
	QuestID     string `json:"questId"`
	ObjectiveID string `json:"objectiveId,omitempty"`
	Current     int    `json:"current,omitempty"`
	Required    int    `json:"required,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

func Started(ctx context.Context, pub logging.Publisher, tick uint64, questID string) {
	publish(ctx, pub, StartedEventType, tick, logging.SeverityInfo, Payload{QuestID: questID})
}

func Progress(ctx context.Context, pub logging.Publisher, tick uint64, questID, objectiveID string, current, required int) {
	publish(ctx, pub, ProgressEventType, tick, logging.SeverityDebug, Payload{
		QuestID:     questID,
		ObjectiveID: objectiveID,
		Current:     current,
		Required:    required,
	})
}

func Completed(ctx context.Context, pub logging.Publisher, tick uint64, questID string) {
	publish(ctx, pub, CompletedEventType, tick, logging.SeverityInfo, Payload{QuestID: questID})
}

// Rejected records an invalid quest transition attempt. Rejections are
// logged and ignored, never raised.
func Rejected(ctx context.Context, pub logging.Publisher, tick uint64, questID, reason string) {
	publish(ctx, pub, RejectedEventType, tick, logging.SeverityWarn, Payload{QuestID: questID, Reason: reason})
}

func publish(ctx context.Context, pub logging.Publisher, t logging.EventType, tick uint64, sev logging.Severity, payload Payload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     t,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: sev,
		Category: logging.CategoryQuest,
		Payload:  payload,
	})
}
