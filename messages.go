package server

import (
	"duskhollow/server/internal/cutscene"
	"duskhollow/server/internal/quest"
)

type joinResponse struct {
	Ver      int    `json:"ver"`
	ID       string `json:"id"`
	State    string `json:"state"`
	TickRate int    `json:"tickRate"`
}

// avatarSnapshot is the per-frame avatar payload: the public combatant block
// plus the resource and action state the HUD renders.
type avatarSnapshot struct {
	Combatant
	Stamina     float64 `json:"stamina"`
	MaxStamina  float64 `json:"maxStamina"`
	Mana        float64 `json:"mana"`
	MaxMana     float64 `json:"maxMana"`
	Experience  float64 `json:"experience"`
	NextLevelAt float64 `json:"nextLevelAt"`
	Level       int     `json:"level"`
	Attacking   bool    `json:"attacking"`
	Blocking    bool    `json:"blocking"`
	Dodging     bool    `json:"dodging"`

	Profile PlayerProfile `json:"profile"`
}

type enemySnapshot struct {
	Combatant
	Color string  `json:"color"`
	Scale float64 `json:"scale"`
}

type bossSnapshot struct {
	Combatant
	Color         string `json:"color"`
	Phase         int    `json:"phase"`
	PhaseCount    int    `json:"phaseCount"`
	Transitioning bool   `json:"transitioning"`
}

type loadingSnapshot struct {
	Stage   int    `json:"stage"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

type cutsceneSnapshot struct {
	ID   string        `json:"id"`
	Node cutscene.Node `json:"node"`
}

type stateMessage struct {
	Ver        int    `json:"ver"`
	Type       string `json:"type"`
	State      string `json:"state"`
	Tick       uint64 `json:"t"`
	ServerTime int64  `json:"serverTime"`

	Avatar    *avatarSnapshot   `json:"avatar,omitempty"`
	Camera    *cameraState      `json:"camera,omitempty"`
	Enemies   []enemySnapshot   `json:"enemies,omitempty"`
	Boss      *bossSnapshot     `json:"boss,omitempty"`
	NPCs      []npcState        `json:"npcs,omitempty"`
	Pickups   []pickupState     `json:"pickups,omitempty"`
	Colliders []Collider        `json:"colliders,omitempty"`
	Damage    []DamageIndicator `json:"damage,omitempty"`

	Quests   []quest.Quest     `json:"quests,omitempty"`
	Gold     int               `json:"gold"`
	Items    []string          `json:"items,omitempty"`
	Loading  *loadingSnapshot  `json:"loading,omitempty"`
	Cutscene *cutsceneSnapshot `json:"cutscene,omitempty"`
	GameOver bool              `json:"gameOver,omitempty"`
}

// clientCommand is the envelope for every message a client sends over the
// socket. Type selects which of the optional blocks is read.
type clientCommand struct {
	Type string `json:"type"`

	// "input"
	Forward  bool `json:"forward,omitempty"`
	Backward bool `json:"backward,omitempty"`
	Left     bool `json:"left,omitempty"`
	Right    bool `json:"right,omitempty"`
	Attack   bool `json:"attack,omitempty"`
	Block    bool `json:"block,omitempty"`
	Dodge    bool `json:"dodge,omitempty"`
	Interact bool `json:"interact,omitempty"`

	// "create_character"
	Profile *PlayerProfile `json:"profile,omitempty"`

	// "cutscene": action is "advance", "choice", or "skip"
	Action string `json:"action,omitempty"`
	Choice int    `json:"choice,omitempty"`

	// "heartbeat"
	SentAt int64 `json:"sentAt,omitempty"`
}

func (c clientCommand) intent() moveIntent {
	return moveIntent{
		Forward:  c.Forward,
		Backward: c.Backward,
		Left:     c.Left,
		Right:    c.Right,
		Attack:   c.Attack,
		Block:    c.Block,
		Dodge:    c.Dodge,
		Interact: c.Interact,
	}
}

type heartbeatMessage struct {
	Ver        int    `json:"ver"`
	Type       string `json:"type"`
	ServerTime int64  `json:"serverTime"`
	ClientTime int64  `json:"clientTime"`
	RTTMillis  int64  `json:"rtt"`
}

type diagnosticsSession struct {
	Ver           int    `json:"ver"`
	ID            string `json:"id"`
	State         string `json:"state"`
	LastHeartbeat int64  `json:"lastHeartbeat"`
	RTTMillis     int64  `json:"rttMillis"`
}
