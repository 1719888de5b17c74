// Package content holds the designer-authored game catalogs: quests,
// cutscenes, enemy archetypes, boss definitions, and scene layouts. Files are
// YAML, embedded with defaults and overridable from a content directory.
package content

// Quest is a static quest record. Runtime progress lives in the quest ledger,
// never here.
type Quest struct {
	ID          string      `yaml:"id" json:"id"`
	Title       string      `yaml:"title" json:"title"`
	Description string      `yaml:"description" json:"description"`
	Objectives  []Objective `yaml:"objectives" json:"objectives"`
	Reward      Reward      `yaml:"reward" json:"reward"`
	Successor   string      `yaml:"successor,omitempty" json:"successor,omitempty"`
	Visible     bool        `yaml:"visible" json:"visible"`

	// AutoStart moves the quest straight to in-progress when a completed
	// predecessor reveals it, with no dialogue in between.
	AutoStart bool `yaml:"auto_start,omitempty" json:"autoStart,omitempty"`

	// OnCompleteCutscene names a cutscene the director chains into when this
	// quest completes.
	OnCompleteCutscene string `yaml:"on_complete_cutscene,omitempty" json:"onCompleteCutscene,omitempty"`
}

type Objective struct {
	ID       string `yaml:"id" json:"id"`
	Target   string `yaml:"target" json:"target"`
	Required int    `yaml:"required" json:"required"`
}

type Reward struct {
	Gold       int      `yaml:"gold" json:"gold"`
	Experience int      `yaml:"experience" json:"experience"`
	Items      []string `yaml:"items,omitempty" json:"items,omitempty"`
}

// Cutscene is a linear or branching dialogue graph. A scene with no nodes and
// a positive duration plays as a timed, dialogue-less sequence.
type Cutscene struct {
	ID            string         `yaml:"id" json:"id"`
	Skippable     bool           `yaml:"skippable" json:"skippable"`
	DurationTicks int            `yaml:"duration_ticks,omitempty" json:"durationTicks,omitempty"`
	Nodes         []DialogueNode `yaml:"nodes,omitempty" json:"nodes,omitempty"`
}

type DialogueNode struct {
	ID       string           `yaml:"id" json:"id"`
	Speaker  string           `yaml:"speaker" json:"speaker"`
	Text     string           `yaml:"text" json:"text"`
	Portrait string           `yaml:"portrait,omitempty" json:"portrait,omitempty"`
	Next     string           `yaml:"next,omitempty" json:"next,omitempty"`
	Choices  []DialogueChoice `yaml:"choices,omitempty" json:"choices,omitempty"`
}

type DialogueChoice struct {
	Text   string `yaml:"text" json:"text"`
	Next   string `yaml:"next,omitempty" json:"next,omitempty"`
	Effect string `yaml:"effect,omitempty" json:"effect,omitempty"`
}

// EnemyArchetype is the stat template an enemy spawns from.
type EnemyArchetype struct {
	ID                  string  `yaml:"id" json:"id"`
	Name                string  `yaml:"name" json:"name"`
	Color               string  `yaml:"color" json:"color"`
	Scale               float64 `yaml:"scale" json:"scale"`
	MaxHealth           float64 `yaml:"max_health" json:"maxHealth"`
	AttackPower         float64 `yaml:"attack_power" json:"attackPower"`
	Defense             float64 `yaml:"defense" json:"defense"`
	MoveSpeed           float64 `yaml:"move_speed" json:"moveSpeed"`
	AttackRange         float64 `yaml:"attack_range" json:"attackRange"`
	AggroRange          float64 `yaml:"aggro_range" json:"aggroRange"`
	AttackCooldownTicks int     `yaml:"attack_cooldown_ticks" json:"attackCooldownTicks"`
	ExperienceReward    int     `yaml:"experience_reward" json:"experienceReward"`
}

// BossDefinition extends an archetype with an ordered phase list and a set of
// special attacks. Phase thresholds must strictly decrease.
type BossDefinition struct {
	EnemyArchetype  `yaml:",inline"`
	Phases          []BossPhase     `yaml:"phases" json:"phases"`
	Attacks         []SpecialAttack `yaml:"attacks" json:"attacks"`
	TransitionTicks int             `yaml:"transition_ticks" json:"transitionTicks"`
}

type BossPhase struct {
	Threshold        float64 `yaml:"threshold" json:"threshold"`
	SpeedMultiplier  float64 `yaml:"speed_multiplier" json:"speedMultiplier"`
	AttackMultiplier float64 `yaml:"attack_multiplier" json:"attackMultiplier"`
	Color            string  `yaml:"color" json:"color"`
}

// SpecialAttack kinds: "direct" deals damage immediately, "multihit"
// schedules several delayed hits, "summon" spawns minions and deals none.
type SpecialAttack struct {
	ID               string  `yaml:"id" json:"id"`
	Kind             string  `yaml:"kind" json:"kind"`
	Damage           float64 `yaml:"damage,omitempty" json:"damage,omitempty"`
	Range            float64 `yaml:"range" json:"range"`
	CooldownTicks    int     `yaml:"cooldown_ticks" json:"cooldownTicks"`
	Hits             int     `yaml:"hits,omitempty" json:"hits,omitempty"`
	HitIntervalTicks int     `yaml:"hit_interval_ticks,omitempty" json:"hitIntervalTicks,omitempty"`
	SummonArchetype  string  `yaml:"summon_archetype,omitempty" json:"summonArchetype,omitempty"`
	SummonCount      int     `yaml:"summon_count,omitempty" json:"summonCount,omitempty"`
}

// SceneLayout is the static furniture of one gameplay scene.
type SceneLayout struct {
	ID        string         `yaml:"id" json:"id"`
	Intro     string         `yaml:"intro,omitempty" json:"intro,omitempty"`
	Spawn     Position       `yaml:"spawn" json:"spawn"`
	Colliders []Box          `yaml:"colliders" json:"colliders"`
	Enemies   []EnemySpawn   `yaml:"enemies,omitempty" json:"enemies,omitempty"`
	NPCs      []NPCPlacement `yaml:"npcs,omitempty" json:"npcs,omitempty"`
	Pickups   []Pickup       `yaml:"pickups,omitempty" json:"pickups,omitempty"`
	Portals   []Portal       `yaml:"portals,omitempty" json:"portals,omitempty"`
	Boss      string         `yaml:"boss,omitempty" json:"boss,omitempty"`
}

// Pickup is a collectible placed in a scene; collecting one emits an
// item-collected event keyed by the item descriptor.
type Pickup struct {
	ID       string   `yaml:"id" json:"id"`
	Item     string   `yaml:"item" json:"item"`
	Position Position `yaml:"position" json:"position"`
}

// Portal transfers the avatar to another scene when entered.
type Portal struct {
	ID       string   `yaml:"id" json:"id"`
	To       string   `yaml:"to" json:"to"`
	Position Position `yaml:"position" json:"position"`
	Radius   float64  `yaml:"radius" json:"radius"`
}

type Position struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

type Box struct {
	ID     string  `yaml:"id,omitempty" json:"id,omitempty"`
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Z      float64 `yaml:"z" json:"z"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
	Depth  float64 `yaml:"depth" json:"depth"`
	Ground bool    `yaml:"ground,omitempty" json:"ground,omitempty"`
}

type EnemySpawn struct {
	Archetype string   `yaml:"archetype" json:"archetype"`
	Position  Position `yaml:"position" json:"position"`
	Count     int      `yaml:"count,omitempty" json:"count,omitempty"`
}

type NPCPlacement struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Position    Position `yaml:"position" json:"position"`
	Dialogue    string   `yaml:"dialogue,omitempty" json:"dialogue,omitempty"`
	OffersQuest string   `yaml:"offers_quest,omitempty" json:"offersQuest,omitempty"`
}

// Catalog is the fully loaded, validated content set.
type Catalog struct {
	Quests    []Quest          `json:"quests"`
	Cutscenes []Cutscene       `json:"cutscenes"`
	Enemies   []EnemyArchetype `json:"enemies"`
	Bosses    []BossDefinition `json:"bosses"`
	Scenes    []SceneLayout    `json:"scenes"`
}

func (c *Catalog) QuestByID(id string) (Quest, bool) {
	for _, q := range c.Quests {
		if q.ID == id {
			return q, true
		}
	}
	return Quest{}, false
}

func (c *Catalog) CutsceneByID(id string) (Cutscene, bool) {
	for _, cs := range c.Cutscenes {
		if cs.ID == id {
			return cs, true
		}
	}
	return Cutscene{}, false
}

func (c *Catalog) EnemyByID(id string) (EnemyArchetype, bool) {
	for _, e := range c.Enemies {
		if e.ID == id {
			return e, true
		}
	}
	return EnemyArchetype{}, false
}

func (c *Catalog) BossByID(id string) (BossDefinition, bool) {
	for _, b := range c.Bosses {
		if b.ID == id {
			return b, true
		}
	}
	return BossDefinition{}, false
}

func (c *Catalog) SceneByID(id string) (SceneLayout, bool) {
	for _, s := range c.Scenes {
		if s.ID == id {
			return s, true
		}
	}
	return SceneLayout{}, false
}
