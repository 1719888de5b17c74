package quest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duskhollow/server/internal/content"
)

func testDefs() []content.Quest {
	return []content.Quest{
		{
			ID:      "hunt",
			Title:   "The Hunt",
			Visible: true,
			Objectives: []content.Objective{
				{ID: "kill-wolves", Target: "wolf", Required: 3},
			},
			Reward:    content.Reward{Gold: 10, Experience: 50},
			Successor: "gather",
		},
		{
			ID:      "gather",
			Title:   "The Gathering",
			Visible: false,
			Objectives: []content.Objective{
				{ID: "collect", Target: "herb", Required: 2},
			},
		},
		{
			ID:        "finale",
			Title:     "The Finale",
			Visible:   false,
			AutoStart: true,
			Objectives: []content.Objective{
				{ID: "slay", Target: "king", Required: 1},
			},
		},
	}
}

func TestStartTransitions(t *testing.T) {
	l := NewLedger(testDefs())

	require.True(t, l.Start("hunt"))
	q, ok := l.Quest("hunt")
	require.True(t, ok)
	assert.Equal(t, StatusInProgress, q.Status)

	assert.False(t, l.Start("hunt"), "starting an in-progress quest must be rejected")
	assert.False(t, l.Start("missing"))
}

func TestProgressOnlyCountsInProgress(t *testing.T) {
	l := NewLedger(testDefs())

	l.RecordProgress("wolf", 1)
	q, _ := l.Quest("hunt")
	assert.Equal(t, 0, q.Objectives[0].Current, "a not-started quest must not accrue progress")

	l.Start("hunt")
	l.RecordProgress("wolf", 1)
	q, _ = l.Quest("hunt")
	assert.Equal(t, 1, q.Objectives[0].Current)
}

func TestObjectiveClampsAtRequirement(t *testing.T) {
	l := NewLedger(testDefs())
	l.Start("hunt")

	require.True(t, l.UpdateObjective("hunt", "kill-wolves", 10))
	q, _ := l.Quest("hunt")
	assert.Equal(t, 3, q.Objectives[0].Current)
	assert.True(t, q.Objectives[0].Completed)
	assert.Equal(t, StatusCompleted, q.Status)
}

func TestCompletionRevealsSuccessor(t *testing.T) {
	l := NewLedger(testDefs())
	l.Start("hunt")
	l.RecordProgress("wolf", 3)

	next, _ := l.Quest("gather")
	assert.True(t, next.Visible)
	assert.Equal(t, StatusNotStarted, next.Status, "a revealed quest without auto-start stays not started")

	done := l.TakeCompletions()
	require.Equal(t, []string{"hunt"}, done)
	assert.Empty(t, l.TakeCompletions(), "completions drain once")
}

func TestAutoStartOnReveal(t *testing.T) {
	defs := testDefs()
	defs[0].Successor = "finale"
	l := NewLedger(defs)
	l.Start("hunt")
	l.RecordProgress("wolf", 3)

	final, _ := l.Quest("finale")
	assert.True(t, final.Visible)
	assert.Equal(t, StatusInProgress, final.Status)
}

func TestCompletionIsTerminal(t *testing.T) {
	l := NewLedger(testDefs())
	l.Start("hunt")
	l.RecordProgress("wolf", 3)

	assert.False(t, l.complete("hunt"), "completing twice must be a no-op")
	assert.False(t, l.Start("hunt"), "a completed quest can never restart")
	assert.False(t, l.UpdateObjective("hunt", "kill-wolves", 1))
}

func TestNegativeDeltaClampsAtZero(t *testing.T) {
	l := NewLedger(testDefs())
	l.Start("hunt")
	l.UpdateObjective("hunt", "kill-wolves", 1)
	l.UpdateObjective("hunt", "kill-wolves", -5)

	q, _ := l.Quest("hunt")
	assert.Equal(t, 0, q.Objectives[0].Current)
}

func TestVisibleListsInCatalogOrder(t *testing.T) {
	l := NewLedger(testDefs())
	visible := l.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "hunt", visible[0].ID)

	l.Start("hunt")
	l.RecordProgress("wolf", 3)
	visible = l.Visible()
	require.Len(t, visible, 2)
	assert.Equal(t, "hunt", visible[0].ID)
	assert.Equal(t, "gather", visible[1].ID)
}
