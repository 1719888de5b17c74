package cutscene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duskhollow/server/internal/content"
)

func testDefs() []content.Cutscene {
	return []content.Cutscene{
		{
			ID:        "intro",
			Skippable: true,
			Nodes: []content.DialogueNode{
				{ID: "a", Speaker: "Narrator", Text: "First.", Next: "b"},
				{ID: "b", Speaker: "Narrator", Text: "Last."},
			},
		},
		{
			ID: "offer",
			Nodes: []content.DialogueNode{
				{
					ID: "ask", Speaker: "Elder", Text: "Will you help?",
					Choices: []content.DialogueChoice{
						{Text: "Yes.", Next: "yes", Effect: "start_quest:hunt"},
						{Text: "No.", Next: "no"},
					},
				},
				{ID: "yes", Speaker: "Elder", Text: "Good."},
				{ID: "no", Speaker: "Elder", Text: "Pity."},
			},
		},
		{ID: "beat", Skippable: true, DurationTicks: 3},
	}
}

func TestPlayRejectsWhileActive(t *testing.T) {
	p := NewPlayer(testDefs())

	require.True(t, p.Play("intro", nil))
	assert.Equal(t, StatePlaying, p.State())
	assert.False(t, p.Play("offer", nil), "exactly one cutscene may be active")
	assert.False(t, p.Play("missing", nil))
	assert.Equal(t, "intro", p.ActiveID())
}

func TestAdvanceFollowsLinksAndStops(t *testing.T) {
	p := NewPlayer(testDefs())
	p.Play("intro", nil)

	node, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, "First.", node.Text)

	require.True(t, p.Advance())
	node, _ = p.Current()
	assert.Equal(t, "Last.", node.Text)

	require.True(t, p.Advance(), "advancing past the last node stops the scene")
	assert.Equal(t, StateIdle, p.State())
}

func TestAdvanceIsNoOpOnChoices(t *testing.T) {
	p := NewPlayer(testDefs())
	p.Play("offer", nil)

	assert.False(t, p.Advance(), "a choice node waits for a selection")
	assert.Equal(t, StatePlaying, p.State())
}

func TestChoiceRecordsEffect(t *testing.T) {
	p := NewPlayer(testDefs())
	p.Play("offer", nil)

	assert.False(t, p.SelectChoice(5), "out-of-range choice is a no-op")
	require.True(t, p.SelectChoice(0))

	node, _ := p.Current()
	assert.Equal(t, "Good.", node.Text)
	assert.Equal(t, []string{"start_quest:hunt"}, p.TakeEffects())
	assert.Empty(t, p.TakeEffects(), "effects drain once")
}

func TestSkipRespectsSkippable(t *testing.T) {
	p := NewPlayer(testDefs())
	p.Play("offer", nil)
	assert.False(t, p.Skip(), "non-skippable scene rejects skipping")
	p.Stop()

	p.Play("intro", nil)
	assert.True(t, p.Skip())
	assert.Equal(t, StateIdle, p.State())
}

func TestTimedSceneCountsDown(t *testing.T) {
	p := NewPlayer(testDefs())
	finished := 0
	p.Play("beat", func() { finished++ })

	for i := 0; i < 3; i++ {
		assert.Equal(t, StatePlaying, p.State())
		p.Tick()
	}
	assert.Equal(t, StateIdle, p.State())
	assert.Equal(t, 1, finished, "completion callback fires exactly once")

	p.Stop()
	assert.Equal(t, 1, finished)
}

func TestFinishCallbackFiresOnceOnSkip(t *testing.T) {
	p := NewPlayer(testDefs())
	finished := 0
	p.Play("intro", func() { finished++ })
	p.Skip()
	p.Stop()
	assert.Equal(t, 1, finished)
}
