package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"duskhollow/server/internal/content"
	"duskhollow/server/logging"
)

// Hub owns all live sessions. Each session is one single-player playthrough
// with its own director; the hub's job is the tick loop, the socket fan-out,
// and heartbeat-based eviction.
type Hub struct {
	mu        sync.Mutex
	catalog   *content.Catalog
	publisher logging.Publisher
	tickRate  int
	sessions  map[string]*session
	nextID    atomic.Uint64
}

type session struct {
	id            string
	director      *Director
	sub           *subscriber
	lastHeartbeat time.Time
	lastRTT       time.Duration
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func NewHub(catalog *content.Catalog, pub logging.Publisher, tickRate int) *Hub {
	if tickRate <= 0 {
		tickRate = defaultTickRate
	}
	return &Hub{
		catalog:   catalog,
		publisher: pub,
		tickRate:  tickRate,
		sessions:  make(map[string]*session),
	}
}

// Join creates a fresh session in the character creation state.
func (h *Hub) Join() joinResponse {
	id := fmt.Sprintf("player-%d", h.nextID.Add(1))
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	s := &session{
		id:            id,
		director:      NewDirector(id, h.catalog, h.publisher, rng),
		lastHeartbeat: time.Now(),
	}

	h.mu.Lock()
	h.sessions[id] = s
	h.mu.Unlock()

	return joinResponse{
		Ver:      ProtocolVersion,
		ID:       id,
		State:    string(s.director.State()),
		TickRate: h.tickRate,
	}
}

// Subscribe associates a WebSocket connection with an existing session. A
// second connection for the same session replaces the first.
func (h *Hub) Subscribe(sessionID string, conn *websocket.Conn) (*subscriber, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		return nil, false
	}
	s.lastHeartbeat = time.Now()

	if s.sub != nil {
		s.sub.conn.Close()
	}
	sub := &subscriber{conn: conn}
	s.sub = sub
	return sub, true
}

// Disconnect removes a session and closes its connection. The playthrough is
// gone with it; nothing persists.
func (h *Hub) Disconnect(sessionID string) {
	h.mu.Lock()
	s, ok := h.sessions[sessionID]
	if ok {
		delete(h.sessions, sessionID)
	}
	h.mu.Unlock()

	if ok && s.sub != nil {
		s.sub.conn.Close()
	}
}

// Apply routes one decoded client command into the session's director.
func (h *Hub) Apply(sessionID string, cmd clientCommand) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		return false
	}

	switch cmd.Type {
	case "input":
		s.director.SetIntent(cmd.intent())
	case "create_character":
		if cmd.Profile == nil {
			return false
		}
		return s.director.CreateCharacter(*cmd.Profile)
	case "cutscene":
		switch cmd.Action {
		case "advance":
			s.director.AdvanceCutscene()
		case "choice":
			s.director.SelectDialogueChoice(cmd.Choice)
		case "skip":
			s.director.SkipCutscene()
		default:
			return false
		}
	default:
		return false
	}
	return true
}

// UpdateHeartbeat records the most recent heartbeat time and RTT.
func (h *Hub) UpdateHeartbeat(sessionID string, receivedAt time.Time, clientSent int64) (time.Duration, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		return 0, false
	}
	s.lastHeartbeat = receivedAt

	if clientSent > 0 {
		clientTime := time.UnixMilli(clientSent)
		if clientTime.Before(receivedAt.Add(5 * time.Second)) {
			rtt := receivedAt.Sub(clientTime)
			if rtt < 0 {
				rtt = 0
			}
			s.lastRTT = rtt
		}
	}
	return s.lastRTT, true
}

// RunSimulation drives the fixed-rate tick loop until ctx is cancelled.
// Every session's director ticks once per frame and its snapshot goes out to
// its subscriber.
func (h *Hub) RunSimulation(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(h.tickRate))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			if dt <= 0 {
				dt = 1.0 / float64(h.tickRate)
			}
			last = now

			messages, toClose, stale := h.advance(now, dt)
			for _, sub := range toClose {
				sub.conn.Close()
			}
			for _, id := range stale {
				logging.System(ctx, h.publisher, 0, logging.SeverityInfo, fmt.Sprintf("session %s timed out", id))
			}
			h.broadcast(messages)
		}
	}
}

type outbound struct {
	sub  *subscriber
	id   string
	data []byte
}

// advance ticks every session once while holding the hub mutex and builds
// their snapshot messages. Heartbeat-stale sessions are evicted instead.
func (h *Hub) advance(now time.Time, dt float64) ([]outbound, []*subscriber, []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var messages []outbound
	var toClose []*subscriber
	var stale []string
	for id, s := range h.sessions {
		if now.Sub(s.lastHeartbeat) > disconnectAfter {
			if s.sub != nil {
				toClose = append(toClose, s.sub)
			}
			delete(h.sessions, id)
			stale = append(stale, id)
			continue
		}

		s.director.Tick(dt)
		if s.sub == nil {
			continue
		}
		msg := buildStateMessage(s.director, now)
		data, err := json.Marshal(msg)
		if err != nil {
			continue
		}
		messages = append(messages, outbound{sub: s.sub, id: id, data: data})
	}
	return messages, toClose, stale
}

func (h *Hub) broadcast(messages []outbound) {
	for _, out := range messages {
		out.sub.mu.Lock()
		out.sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := out.sub.conn.WriteMessage(websocket.TextMessage, out.data)
		out.sub.mu.Unlock()
		if err != nil {
			h.Disconnect(out.id)
		}
	}
}

// buildStateMessage renders one session's full presentation snapshot.
func buildStateMessage(d *Director, now time.Time) stateMessage {
	msg := stateMessage{
		Ver:        ProtocolVersion,
		Type:       "state",
		State:      string(d.State()),
		Tick:       d.tick,
		ServerTime: now.UnixMilli(),
		Quests:     d.VisibleQuests(),
		Gold:       d.Gold(),
		Items:      d.Items(),
		GameOver:   d.GameOver(),
	}

	if stage, total, message, ok := d.Loading(); ok {
		msg.Loading = &loadingSnapshot{Stage: stage, Total: total, Message: message}
	}
	if id, node, ok := d.CutsceneNode(); ok {
		msg.Cutscene = &cutsceneSnapshot{ID: id, Node: node}
	}

	w := d.activeWorld()
	if w == nil {
		return msg
	}

	avatar := avatarSnapshot{
		Combatant:   w.player.Combatant,
		Stamina:     w.player.stamina,
		MaxStamina:  w.player.maxStamina,
		Mana:        w.player.mana,
		MaxMana:     w.player.maxMana,
		Experience:  w.player.experience,
		NextLevelAt: w.player.nextLevelAt,
		Level:       w.player.level,
		Attacking:   w.player.attacking,
		Blocking:    w.player.blocking,
		Dodging:     w.player.dodging,
		Profile:     w.player.profile,
	}
	msg.Avatar = &avatar
	camera := *w.camera
	msg.Camera = &camera

	for _, e := range w.enemies {
		msg.Enemies = append(msg.Enemies, enemySnapshot{
			Combatant: e.Combatant,
			Color:     e.Color,
			Scale:     e.Scale,
		})
	}
	if b := w.boss; b != nil {
		msg.Boss = &bossSnapshot{
			Combatant:     b.Combatant,
			Color:         b.Color,
			Phase:         b.phaseIndex,
			PhaseCount:    len(b.def.Phases),
			Transitioning: b.phaseTransitioning(),
		}
	}
	msg.NPCs = append(msg.NPCs, w.npcs...)
	for _, pk := range w.pickups {
		if !pk.Collected {
			msg.Pickups = append(msg.Pickups, pk)
		}
	}
	msg.Colliders = w.colliders
	msg.Damage = append(msg.Damage, w.damage...)
	return msg
}

// DiagnosticsSnapshot exposes session health for the diagnostics endpoint.
func (h *Hub) DiagnosticsSnapshot() []diagnosticsSession {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]diagnosticsSession, 0, len(h.sessions))
	for _, s := range h.sessions {
		out = append(out, diagnosticsSession{
			Ver:           ProtocolVersion,
			ID:            s.id,
			State:         string(s.director.State()),
			LastHeartbeat: s.lastHeartbeat.UnixMilli(),
			RTTMillis:     s.lastRTT.Milliseconds(),
		})
	}
	return out
}
