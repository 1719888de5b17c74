package content

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var defaults embed.FS

const (
	questsFile    = "quests.yaml"
	cutscenesFile = "cutscenes.yaml"
	enemiesFile   = "enemies.yaml"
	bossesFile    = "bosses.yaml"
	scenesFile    = "scenes.yaml"
)

// Load reads the catalogs from dir, falling back to the embedded defaults for
// any file the directory does not provide. An empty dir loads defaults only.
// The returned catalog is validated; an invalid catalog aborts startup.
func Load(dir string) (*Catalog, error) {
	cat := &Catalog{}
	parts := []struct {
		file string
		dst  any
	}{
		{questsFile, &cat.Quests},
		{cutscenesFile, &cat.Cutscenes},
		{enemiesFile, &cat.Enemies},
		{bossesFile, &cat.Bosses},
		{scenesFile, &cat.Scenes},
	}
	for _, part := range parts {
		data, err := readCatalogFile(dir, part.file)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, part.dst); err != nil {
			return nil, fmt.Errorf("parse %s: %w", part.file, err)
		}
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

func readCatalogFile(dir, name string) ([]byte, error) {
	if dir != "" {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
	data, err := defaults.ReadFile("data/" + name)
	if err != nil {
		return nil, fmt.Errorf("read embedded %s: %w", name, err)
	}
	return data, nil
}

// Validate enforces the cross-file invariants the runtime relies on: quest
// successors resolve, dialogue links resolve, boss phase thresholds strictly
// decrease, and every scene reference points at a defined entry.
func (c *Catalog) Validate() error {
	for _, q := range c.Quests {
		if q.ID == "" {
			return fmt.Errorf("quest with empty id")
		}
		if len(q.Objectives) == 0 {
			return fmt.Errorf("quest %q has no objectives", q.ID)
		}
		for _, obj := range q.Objectives {
			if obj.Required <= 0 {
				return fmt.Errorf("quest %q objective %q requires %d", q.ID, obj.ID, obj.Required)
			}
		}
		if q.Successor != "" {
			if _, ok := c.QuestByID(q.Successor); !ok {
				return fmt.Errorf("quest %q names unknown successor %q", q.ID, q.Successor)
			}
		}
		if q.OnCompleteCutscene != "" {
			if _, ok := c.CutsceneByID(q.OnCompleteCutscene); !ok {
				return fmt.Errorf("quest %q names unknown cutscene %q", q.ID, q.OnCompleteCutscene)
			}
		}
	}

	for _, cs := range c.Cutscenes {
		if cs.ID == "" {
			return fmt.Errorf("cutscene with empty id")
		}
		if len(cs.Nodes) == 0 && cs.DurationTicks <= 0 {
			return fmt.Errorf("cutscene %q has neither nodes nor a duration", cs.ID)
		}
		ids := make(map[string]bool, len(cs.Nodes))
		for _, node := range cs.Nodes {
			ids[node.ID] = true
		}
		for _, node := range cs.Nodes {
			if node.Next != "" && !ids[node.Next] {
				return fmt.Errorf("cutscene %q node %q links unknown node %q", cs.ID, node.ID, node.Next)
			}
			for _, choice := range node.Choices {
				if choice.Next != "" && !ids[choice.Next] {
					return fmt.Errorf("cutscene %q node %q choice links unknown node %q", cs.ID, node.ID, choice.Next)
				}
			}
		}
	}

	for _, b := range c.Bosses {
		if len(b.Phases) == 0 {
			return fmt.Errorf("boss %q has no phases", b.ID)
		}
		prev := 2.0
		for i, phase := range b.Phases {
			if phase.Threshold >= prev {
				return fmt.Errorf("boss %q phase %d threshold %.2f must decrease", b.ID, i, phase.Threshold)
			}
			prev = phase.Threshold
		}
		for _, atk := range b.Attacks {
			switch atk.Kind {
			case "direct", "multihit", "summon":
			default:
				return fmt.Errorf("boss %q attack %q has unknown kind %q", b.ID, atk.ID, atk.Kind)
			}
			if atk.Kind == "summon" {
				if _, ok := c.EnemyByID(atk.SummonArchetype); !ok {
					return fmt.Errorf("boss %q attack %q summons unknown archetype %q", b.ID, atk.ID, atk.SummonArchetype)
				}
			}
		}
	}

	for _, s := range c.Scenes {
		if s.Intro != "" {
			if _, ok := c.CutsceneByID(s.Intro); !ok {
				return fmt.Errorf("scene %q names unknown intro cutscene %q", s.ID, s.Intro)
			}
		}
		for _, spawn := range s.Enemies {
			if _, ok := c.EnemyByID(spawn.Archetype); !ok {
				return fmt.Errorf("scene %q spawns unknown enemy %q", s.ID, spawn.Archetype)
			}
		}
		for _, npc := range s.NPCs {
			if npc.Dialogue != "" {
				if _, ok := c.CutsceneByID(npc.Dialogue); !ok {
					return fmt.Errorf("scene %q npc %q names unknown dialogue %q", s.ID, npc.ID, npc.Dialogue)
				}
			}
			if npc.OffersQuest != "" {
				if _, ok := c.QuestByID(npc.OffersQuest); !ok {
					return fmt.Errorf("scene %q npc %q offers unknown quest %q", s.ID, npc.ID, npc.OffersQuest)
				}
			}
		}
		for _, portal := range s.Portals {
			if _, ok := c.SceneByID(portal.To); !ok {
				return fmt.Errorf("scene %q portal %q leads to unknown scene %q", s.ID, portal.ID, portal.To)
			}
			if portal.Radius <= 0 {
				return fmt.Errorf("scene %q portal %q has non-positive radius", s.ID, portal.ID)
			}
		}
		if s.Boss != "" {
			if _, ok := c.BossByID(s.Boss); !ok {
				return fmt.Errorf("scene %q names unknown boss %q", s.ID, s.Boss)
			}
		}
	}
	return nil
}
