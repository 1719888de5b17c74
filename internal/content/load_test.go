package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)

	assert.NotEmpty(t, cat.Quests)
	assert.NotEmpty(t, cat.Cutscenes)
	assert.NotEmpty(t, cat.Enemies)
	assert.NotEmpty(t, cat.Bosses)
	assert.NotEmpty(t, cat.Scenes)

	_, ok := cat.SceneByID("town")
	assert.True(t, ok)
	_, ok = cat.SceneByID("keep")
	assert.True(t, ok)
}

func TestLoadOverrideDirectory(t *testing.T) {
	dir := t.TempDir()
	quests := `
- id: only-quest
  title: Only Quest
  visible: true
  objectives:
    - id: obj
      target: thing
      required: 1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quests.yaml"), []byte(quests), 0o644))

	cat, err := Load(dir)
	require.NoError(t, err)

	_, ok := cat.QuestByID("only-quest")
	assert.True(t, ok, "override file replaces the embedded quests")
	assert.NotEmpty(t, cat.Scenes, "files not overridden fall back to embedded defaults")
}

func TestValidateRejectsBadReferences(t *testing.T) {
	base := func() *Catalog {
		cat, err := Load("")
		require.NoError(t, err)
		return cat
	}

	cat := base()
	cat.Quests[0].Successor = "missing"
	assert.Error(t, cat.Validate())

	cat = base()
	cat.Quests[0].Objectives[0].Required = 0
	assert.Error(t, cat.Validate())

	cat = base()
	cat.Scenes[0].Enemies[0].Archetype = "missing"
	assert.Error(t, cat.Validate())

	cat = base()
	cat.Scenes[0].Portals[0].To = "missing"
	assert.Error(t, cat.Validate())

	cat = base()
	cat.Bosses[0].Attacks[0].Kind = "laser"
	assert.Error(t, cat.Validate())
}

func TestValidateRequiresDecreasingPhaseThresholds(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(cat.Bosses[0].Phases), 2)

	cat.Bosses[0].Phases[1].Threshold = cat.Bosses[0].Phases[0].Threshold
	assert.Error(t, cat.Validate())
}

func TestValidateRequiresNodesOrDuration(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)

	cat.Cutscenes = append(cat.Cutscenes, Cutscene{ID: "empty"})
	assert.Error(t, cat.Validate())
}
