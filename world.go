package server

import (
	"context"
	"fmt"
	"math/rand"

	"duskhollow/server/internal/content"
	"duskhollow/server/logging"
	loggingcombat "duskhollow/server/logging/combat"
)

// pickupState is a collectible placed by the scene layout.
type pickupState struct {
	ID        string `json:"id"`
	Item      string `json:"item"`
	Position  Vec3   `json:"position"`
	Collected bool   `json:"-"`
}

// World is one gameplay scene's simulation state: the avatar, its camera,
// the static collider set, and every enemy, NPC, pickup, and portal the
// layout placed. All mutation happens inside Step on the simulation
// goroutine; cross-system effects leave through the event buffer.
type World struct {
	sceneID   string
	layout    content.SceneLayout
	catalog   *content.Catalog
	publisher logging.Publisher
	rng       *rand.Rand

	colliders []Collider
	player    *playerState
	camera    *cameraState
	enemies   []*enemyState
	boss      *bossState
	npcs      []npcState
	pickups   []pickupState

	nextEnemyID int
	events      []WorldEvent
	damage      []DamageIndicator
}

func newWorld(layout content.SceneLayout, catalog *content.Catalog, player *playerState, pub logging.Publisher, rng *rand.Rand) *World {
	w := &World{
		sceneID:   layout.ID,
		layout:    layout,
		catalog:   catalog,
		publisher: pub,
		rng:       rng,
		player:    player,
	}
	for _, box := range layout.Colliders {
		w.colliders = append(w.colliders, Collider{
			ID: box.ID, X: box.X, Y: box.Y, Z: box.Z,
			Width: box.Width, Height: box.Height, Depth: box.Depth,
			Ground: box.Ground,
		})
	}
	for _, spawn := range layout.Enemies {
		arch, ok := catalog.EnemyByID(spawn.Archetype)
		if !ok {
			continue
		}
		count := spawn.Count
		if count <= 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			pos := contentVec(spawn.Position)
			// Fan the pack out so stacked spawns do not share a point.
			pos.X += float64(i) * 2.0
			w.spawnEnemy(arch, pos)
		}
	}
	if layout.Boss != "" {
		if def, ok := catalog.BossByID(layout.Boss); ok {
			w.boss = newBossState(fmt.Sprintf("%s-boss", layout.ID), def, contentVec(layout.Spawn).Add(Vec3{Z: 12}))
		}
	}
	for _, placement := range layout.NPCs {
		w.npcs = append(w.npcs, npcState{
			ID:          placement.ID,
			Name:        placement.Name,
			Position:    contentVec(placement.Position),
			Dialogue:    placement.Dialogue,
			OffersQuest: placement.OffersQuest,
		})
	}
	for _, pickup := range layout.Pickups {
		w.pickups = append(w.pickups, pickupState{
			ID:       pickup.ID,
			Item:     pickup.Item,
			Position: contentVec(pickup.Position),
		})
	}

	player.Position = contentVec(layout.Spawn)
	player.velocity = Vec3{}
	w.camera = newCameraState(player.Position, player.Heading)
	return w
}

func contentVec(p content.Position) Vec3 {
	return Vec3{X: p.X, Y: p.Y, Z: p.Z}
}

func (w *World) spawnEnemy(arch content.EnemyArchetype, pos Vec3) *enemyState {
	w.nextEnemyID++
	e := newEnemyState(enemyID(w.sceneID, w.nextEnemyID), arch, pos)
	w.enemies = append(w.enemies, e)
	return e
}

// Step advances the scene by one frame. Ordering is fixed: avatar movement
// resolves first, then enemy movement, then combat, so enemies always react
// to the avatar's post-movement position. Removal of dead actors happens in
// a post-iteration filter, never mid-loop.
func (w *World) Step(tick uint64, dt float64) {
	w.damage = w.damage[:0]
	ctx := context.Background()

	avatarWasAlive := w.player.Alive

	// 1. Avatar.
	w.player.tickActionState()
	stepAvatarMovement(w.player, w.camera, w.colliders, dt)
	w.camera.step(w.player.Position, w.player.Heading, w.colliders, dt)
	w.player.tickResources(dt)
	w.handleInteractions()

	// 2. Enemy and boss movement.
	for _, e := range w.enemies {
		e.stepEnemyAI(w.player, w.colliders, dt)
	}
	if w.boss != nil {
		if entered := w.boss.stepPhaseMachine(); entered >= 0 {
			loggingcombat.BossPhase(ctx, w.publisher, tick, entityRef(&w.boss.combatantState), entered)
		}
		w.boss.stepEnemyAI(w.player, w.colliders, dt)
	}

	// 3. Combat resolution.
	w.resolveAvatarAttacks(ctx, tick)
	for _, e := range w.enemies {
		if dealt := e.tryMeleeAttack(w.player); dealt > 0 {
			w.recordHit(ctx, tick, &e.combatantState, &w.player.combatantState, dealt, w.player.blocking)
		}
	}
	if w.boss != nil {
		w.resolveBossAttacks(ctx, tick)
	}
	if avatarWasAlive && !w.player.Alive {
		w.events = append(w.events, WorldEvent{Type: EventAvatarDied, Actor: w.player.ID})
		loggingcombat.Death(ctx, w.publisher, tick, entityRef(&w.player.combatantState))
	}

	// 4. Deferred removal of expired corpses.
	live := w.enemies[:0]
	for _, e := range w.enemies {
		if e.tickDeath() {
			continue
		}
		live = append(live, e)
	}
	w.enemies = live
	if w.boss != nil && w.boss.tickDeath() {
		w.boss = nil
	}
	if !w.player.Alive {
		w.player.tickDeath()
	}
}

// resolveAvatarAttacks applies the active swing window against every live
// enemy in range, at most once per window per target.
func (w *World) resolveAvatarAttacks(ctx context.Context, tick uint64) {
	p := w.player
	if !p.attacking || p.attackWindow == 0 || p.hitThisSwing == nil {
		return
	}
	targets := make([]*combatantState, 0, len(w.enemies)+1)
	for _, e := range w.enemies {
		targets = append(targets, &e.combatantState)
	}
	if w.boss != nil {
		targets = append(targets, &w.boss.combatantState)
	}
	for _, target := range targets {
		if !target.Alive {
			continue
		}
		if _, hit := p.hitThisSwing[target.ID]; hit {
			continue
		}
		if distanceXZ(p.Position, target.Position) > p.AttackRange {
			continue
		}
		p.hitThisSwing[target.ID] = struct{}{}
		dealt := target.takeDamage(p.AttackPower, true)
		w.recordHit(ctx, tick, &p.combatantState, target, dealt, false)
		if !target.Alive {
			w.onCombatantKilled(ctx, tick, target)
		}
	}
}

func (w *World) resolveBossAttacks(ctx context.Context, tick uint64) {
	b := w.boss
	if dealt := b.tryMeleeAttack(w.player); dealt > 0 {
		w.recordHit(ctx, tick, &b.combatantState, &w.player.combatantState, dealt, w.player.blocking)
	}

	dist := distanceXZ(b.Position, w.player.Position)
	if atk, ok := b.selectSpecialAttack(dist, w.rng); ok {
		loggingcombat.SpecialAttack(ctx, w.publisher, tick, entityRef(&b.combatantState), atk.ID, atk.Kind)
		switch atk.Kind {
		case "direct":
			if dealt := w.player.takeHit(atk.Damage * b.attackScale); dealt > 0 {
				w.recordHit(ctx, tick, &b.combatantState, &w.player.combatantState, dealt, w.player.blocking)
			}
		case "multihit":
			b.scheduleMultiHit(atk)
		case "summon":
			if arch, ok := w.catalog.EnemyByID(atk.SummonArchetype); ok {
				count := atk.SummonCount
				if count <= 0 {
					count = 1
				}
				for i := 0; i < count; i++ {
					pos := b.Position.Add(Vec3{X: float64(i*3 - count), Z: -3})
					minion := w.spawnEnemy(arch, pos)
					minion.aiState = aiAggro
				}
			}
		}
	}

	for _, hit := range b.tickPendingHits() {
		if dealt := w.player.takeHit(hit.damage); dealt > 0 {
			w.recordHit(ctx, tick, &b.combatantState, &w.player.combatantState, dealt, w.player.blocking)
		}
	}
}

// onCombatantKilled awards experience, emits the kill event, and logs it.
func (w *World) onCombatantKilled(ctx context.Context, tick uint64, target *combatantState) {
	loggingcombat.Death(ctx, w.publisher, tick, entityRef(target))

	reward := 0
	eventType := EventEnemyKilled
	descriptor := ""
	switch target.Kind {
	case KindBoss:
		eventType = EventBossKilled
		if w.boss != nil {
			reward = w.boss.experienceReward
			descriptor = w.boss.def.ID
		}
	case KindEnemy:
		for _, e := range w.enemies {
			if e.ID == target.ID {
				reward = e.experienceReward
				descriptor = e.archetype.ID
				break
			}
		}
	}
	w.events = append(w.events, WorldEvent{Type: eventType, Actor: target.ID, Target: descriptor, Amount: reward})
	w.grantExperience(ctx, tick, float64(reward))
}

func (w *World) grantExperience(ctx context.Context, tick uint64, amount float64) {
	levels := w.player.gainExperience(amount)
	for i := 0; i < levels; i++ {
		level := w.player.level - levels + i + 1
		w.events = append(w.events, WorldEvent{Type: EventLevelUp, Actor: w.player.ID, Amount: level})
		loggingcombat.LevelUp(ctx, w.publisher, tick, entityRef(&w.player.combatantState), level)
	}
}

func (w *World) recordHit(ctx context.Context, tick uint64, attacker, target *combatantState, amount float64, blocked bool) {
	w.damage = append(w.damage, DamageIndicator{
		TargetID: target.ID,
		Position: target.Position.Add(Vec3{Y: target.height}),
		Amount:   amount,
		Blocked:  blocked,
	})
	loggingcombat.DamageDealt(ctx, w.publisher, tick, entityRef(attacker), entityRef(target), amount, target.Kind != KindPlayer, blocked)
}

// handleInteractions edge-detects the interact key against NPCs and pickups,
// and watches portal proximity. Touching nothing is not an error.
func (w *World) handleInteractions() {
	p := w.player
	if !p.intent.Interact {
		p.interactLatch = false
	} else if !p.interactLatch && p.Alive {
		p.interactLatch = true
		if npc := w.nearestNPC(p.Position, interactRange); npc != nil {
			w.events = append(w.events, WorldEvent{Type: EventNPCTalked, Actor: npc.ID, Target: npc.Dialogue})
		} else {
			for i := range w.pickups {
				pk := &w.pickups[i]
				if pk.Collected || distanceXZ(p.Position, pk.Position) > interactRange {
					continue
				}
				pk.Collected = true
				w.events = append(w.events, WorldEvent{Type: EventItemCollected, Actor: pk.ID, Target: pk.Item, Amount: 1})
				break
			}
		}
	}

	if p.Alive {
		for _, portal := range w.layout.Portals {
			if distanceXZ(p.Position, contentVec(portal.Position)) <= portal.Radius {
				w.events = append(w.events, WorldEvent{Type: EventPortalEntered, Actor: portal.ID, Target: portal.To})
				break
			}
		}
	}
}

func (w *World) nearestNPC(pos Vec3, within float64) *npcState {
	var best *npcState
	bestDist := within
	for i := range w.npcs {
		d := distanceXZ(pos, w.npcs[i].Position)
		if d <= bestDist {
			bestDist = d
			best = &w.npcs[i]
		}
	}
	return best
}

// npcByID looks a placed NPC up, for quest-offer routing.
func (w *World) npcByID(id string) *npcState {
	for i := range w.npcs {
		if w.npcs[i].ID == id {
			return &w.npcs[i]
		}
	}
	return nil
}

// TakeEvents drains the frame's world events in emission order.
func (w *World) TakeEvents() []WorldEvent {
	events := w.events
	w.events = nil
	return events
}

// suspend neutralizes in-flight timed state when the director swaps this
// scene out: held input is dropped, the swing window closes, and scheduled
// boss hits are cancelled so nothing stale fires into a parked scene.
func (w *World) suspend() {
	w.player.intent = moveIntent{}
	w.player.smoothedInput = Vec3{}
	w.player.velocity = Vec3{}
	w.player.attacking = false
	w.player.attackWindow = 0
	w.player.hitThisSwing = nil
	if w.boss != nil {
		w.boss.cancelPending()
	}
	w.events = nil
	w.damage = w.damage[:0]
}

// resume re-enters a cached scene: the avatar returns to the spawn point and
// the camera snaps behind it.
func (w *World) resume() {
	w.player.Position = contentVec(w.layout.Spawn)
	w.player.velocity = Vec3{}
	w.camera.snapTo(w.player.Position, w.player.Heading)
}

func entityRef(c *combatantState) logging.EntityRef {
	kind := logging.EntityKindUnknown
	switch c.Kind {
	case KindPlayer:
		kind = logging.EntityKindPlayer
	case KindEnemy:
		kind = logging.EntityKindEnemy
	case KindBoss:
		kind = logging.EntityKindBoss
	}
	return logging.EntityRef{ID: c.ID, Kind: kind}
}
