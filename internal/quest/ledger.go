// Package quest tracks quest lifecycle state. The ledger is pure state: it
// holds no scene or UI references and reports changes for the caller to
// translate into world effects.
package quest

import (
	"duskhollow/server/internal/content"
)

// Status is the quest lifecycle. The only legal transitions are
// NotStarted → InProgress and InProgress → Completed.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

type Objective struct {
	ID        string `json:"id"`
	Target    string `json:"target"`
	Required  int    `json:"required"`
	Current   int    `json:"current"`
	Completed bool   `json:"completed"`
}

type Quest struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Objectives  []Objective    `json:"objectives"`
	Reward      content.Reward `json:"reward"`
	Status      Status         `json:"status"`
	Visible     bool           `json:"visible"`
	Successor   string         `json:"successor,omitempty"`
	AutoStart   bool           `json:"-"`
}

// Ledger owns every quest record for a playthrough. Quests are defined once
// at construction and never deleted; completed quests stay queryable.
type Ledger struct {
	quests      map[string]*Quest
	order       []string
	completions []string // drained by the caller each frame
}

// NewLedger builds the ledger from the static catalog.
func NewLedger(defs []content.Quest) *Ledger {
	l := &Ledger{quests: make(map[string]*Quest, len(defs))}
	for _, def := range defs {
		q := &Quest{
			ID:          def.ID,
			Title:       def.Title,
			Description: def.Description,
			Reward:      def.Reward,
			Status:      StatusNotStarted,
			Visible:     def.Visible,
			Successor:   def.Successor,
			AutoStart:   def.AutoStart,
		}
		for _, obj := range def.Objectives {
			q.Objectives = append(q.Objectives, Objective{
				ID:       obj.ID,
				Target:   obj.Target,
				Required: obj.Required,
			})
		}
		l.quests[q.ID] = q
		l.order = append(l.order, q.ID)
	}
	return l
}

// Start moves a quest from NotStarted to InProgress. Any other starting
// state is rejected with no state change.
func (l *Ledger) Start(id string) bool {
	q, ok := l.quests[id]
	if !ok || q.Status != StatusNotStarted {
		return false
	}
	q.Status = StatusInProgress
	q.Visible = true
	return true
}

// UpdateObjective advances an objective of an in-progress quest. Progress is
// clamped to the requirement; crossing it completes the objective, and the
// quest auto-completes once every objective is done.
func (l *Ledger) UpdateObjective(questID, objectiveID string, delta int) bool {
	q, ok := l.quests[questID]
	if !ok || q.Status != StatusInProgress {
		return false
	}
	var obj *Objective
	for i := range q.Objectives {
		if q.Objectives[i].ID == objectiveID {
			obj = &q.Objectives[i]
			break
		}
	}
	if obj == nil {
		return false
	}
	obj.Current += delta
	if obj.Current < 0 {
		obj.Current = 0
	}
	if obj.Current >= obj.Required {
		obj.Current = obj.Required
		obj.Completed = true
	}
	if l.allObjectivesDone(q) {
		l.complete(questID)
	}
	return true
}

// RecordProgress advances every matching objective across all in-progress
// quests, keyed by target descriptor. Used for world events such as an enemy
// death or an item pickup.
func (l *Ledger) RecordProgress(target string, delta int) {
	for _, id := range l.order {
		q := l.quests[id]
		if q.Status != StatusInProgress {
			continue
		}
		for i := range q.Objectives {
			if q.Objectives[i].Target == target && !q.Objectives[i].Completed {
				l.UpdateObjective(q.ID, q.Objectives[i].ID, delta)
			}
		}
	}
}

// complete is the auto-complete path. It is terminal: a second attempt is a
// no-op returning false. Completion reveals the declared successor.
func (l *Ledger) complete(id string) bool {
	q, ok := l.quests[id]
	if !ok || q.Status != StatusInProgress {
		return false
	}
	q.Status = StatusCompleted
	if q.Successor != "" {
		if next, ok := l.quests[q.Successor]; ok {
			next.Visible = true
			if next.AutoStart && next.Status == StatusNotStarted {
				next.Status = StatusInProgress
			}
		}
	}
	l.completions = append(l.completions, id)
	return true
}

func (l *Ledger) allObjectivesDone(q *Quest) bool {
	for _, obj := range q.Objectives {
		if !obj.Completed {
			return false
		}
	}
	return len(q.Objectives) > 0
}

// TakeCompletions drains the quests completed since the last call, in
// completion order. The caller grants rewards and emits events from these.
func (l *Ledger) TakeCompletions() []string {
	done := l.completions
	l.completions = nil
	return done
}

// Quest returns a copy of one quest record.
func (l *Ledger) Quest(id string) (Quest, bool) {
	q, ok := l.quests[id]
	if !ok {
		return Quest{}, false
	}
	return l.copyQuest(q), true
}

// Visible lists the quests the player can currently see, in catalog order.
func (l *Ledger) Visible() []Quest {
	out := make([]Quest, 0, len(l.order))
	for _, id := range l.order {
		q := l.quests[id]
		if q.Visible {
			out = append(out, l.copyQuest(q))
		}
	}
	return out
}

func (l *Ledger) copyQuest(q *Quest) Quest {
	cp := *q
	cp.Objectives = append([]Objective(nil), q.Objectives...)
	return cp
}
