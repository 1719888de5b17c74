package server

// WorldEventType enumerates the one-directional events a world emits. The
// director drains them each frame and translates them into quest ledger
// calls, cutscene triggers, and scene transitions; the world itself never
// reaches into those systems.
type WorldEventType string

const (
	EventEnemyKilled   WorldEventType = "enemy_killed"
	EventBossKilled    WorldEventType = "boss_killed"
	EventAvatarDied    WorldEventType = "avatar_died"
	EventNPCTalked     WorldEventType = "npc_talked"
	EventItemCollected WorldEventType = "item_collected"
	EventPortalEntered WorldEventType = "portal_entered"
	EventLevelUp       WorldEventType = "level_up"
)

type WorldEvent struct {
	Type   WorldEventType
	Actor  string // entity id
	Target string // archetype / item / npc / scene descriptor
	Amount int
}

// DamageIndicator is a per-hit marker the client projects to screen space as
// a floating damage number.
type DamageIndicator struct {
	TargetID string  `json:"targetId"`
	Position Vec3    `json:"position"`
	Amount   float64 `json:"amount"`
	Blocked  bool    `json:"blocked,omitempty"`
}
