package server

import (
	"context"
	"math/rand"
	"strconv"
	"strings"

	"duskhollow/server/internal/content"
	"duskhollow/server/internal/cutscene"
	"duskhollow/server/internal/quest"
	"duskhollow/server/logging"
	loggingquest "duskhollow/server/logging/quest"
	loggingscene "duskhollow/server/logging/scene"
)

// DirectorState is the top-level game state for one playthrough.
type DirectorState string

const (
	StateCharacterCreation DirectorState = "character_creation"
	StateTown              DirectorState = "town"
	StateBossEncounter     DirectorState = "boss_encounter"
	StateTransitioning     DirectorState = "transitioning"
)

const (
	townSceneID = "town"
	keepSceneID = "keep"
)

func sceneForState(s DirectorState) string {
	switch s {
	case StateTown:
		return townSceneID
	case StateBossEncounter:
		return keepSceneID
	}
	return ""
}

func stateForScene(sceneID string) (DirectorState, bool) {
	switch sceneID {
	case townSceneID:
		return StateTown, true
	case keepSceneID:
		return StateBossEncounter, true
	}
	return "", false
}

// loadingStages are the staged messages shown while a transition is in
// flight. Each stage holds for loadingStageTicks before the next one.
var loadingStages = []string{
	"Gathering the mists",
	"Raising the walls",
	"Waking what sleeps",
}

type sceneTransition struct {
	from  DirectorState
	to    DirectorState
	stage int
	ticks int
}

// Director owns one playthrough: the top-level state machine, the quest
// ledger, the cutscene player, and a lazily built World per gameplay state.
// Exactly one transition may be in flight; duplicate requests are dropped.
// All methods run on the simulation goroutine.
type Director struct {
	playerID  string
	catalog   *content.Catalog
	publisher logging.Publisher
	rng       *rand.Rand

	ledger   *quest.Ledger
	cutscene *cutscene.Player

	state      DirectorState
	scenes     map[DirectorState]*World
	player     *playerState
	transition *sceneTransition
	tick       uint64
	gameOver   bool

	// Set when the boss falls so the director returns the avatar to town
	// once the ending cutscene has finished.
	returnToTown bool

	gold  int
	items []string
}

func NewDirector(playerID string, catalog *content.Catalog, pub logging.Publisher, rng *rand.Rand) *Director {
	return &Director{
		playerID:  playerID,
		catalog:   catalog,
		publisher: pub,
		rng:       rng,
		ledger:    quest.NewLedger(catalog.Quests),
		cutscene:  cutscene.NewPlayer(catalog.Cutscenes),
		state:     StateCharacterCreation,
		scenes:    make(map[DirectorState]*World),
	}
}

// CreateCharacter builds the avatar from the submitted profile and starts
// the transition into town. Only legal from the character creation state.
func (d *Director) CreateCharacter(profile PlayerProfile) bool {
	if d.state != StateCharacterCreation || d.player != nil {
		return false
	}
	d.player = newPlayerState(d.playerID, profile, Vec3{})
	return d.RequestTransition(StateTown)
}

// RequestTransition starts a staged scene change. A request while another
// transition is in flight is dropped and logged, never queued.
func (d *Director) RequestTransition(to DirectorState) bool {
	ctx := context.Background()
	if to != StateTown && to != StateBossEncounter {
		return false
	}
	if d.transition != nil {
		loggingscene.TransitionDropped(ctx, d.publisher, d.tick, string(d.transition.to), string(to))
		return false
	}
	if to == d.state || d.player == nil {
		return false
	}
	if w := d.activeWorld(); w != nil {
		w.suspend()
	}
	d.transition = &sceneTransition{from: d.state, to: to, ticks: loadingStageTicks}
	d.state = StateTransitioning
	loggingscene.Transition(ctx, d.publisher, d.tick, string(d.transition.from), string(to))
	return true
}

// Tick advances the playthrough by one frame. An active cutscene suspends
// the gameplay tick entirely; a transition counts its loading stages down;
// otherwise the active world steps and its events are routed.
func (d *Director) Tick(dt float64) {
	d.tick++
	ctx := context.Background()

	d.applyCutsceneEffects(ctx)
	d.settleCompletions(ctx)

	if d.cutscene.Playing() {
		d.cutscene.Tick()
		return
	}

	if d.returnToTown && d.transition == nil {
		d.returnToTown = false
		if d.state == StateBossEncounter {
			d.RequestTransition(StateTown)
			return
		}
	}

	if d.transition != nil {
		d.stepTransition(ctx)
		return
	}

	if d.gameOver {
		return
	}

	w := d.activeWorld()
	if w == nil {
		return
	}
	w.Step(d.tick, dt)
	d.routeWorldEvents(ctx, w.TakeEvents())
	d.settleCompletions(ctx)
}

func (d *Director) stepTransition(ctx context.Context) {
	t := d.transition
	t.ticks--
	if t.ticks > 0 {
		return
	}
	t.stage++
	t.ticks = loadingStageTicks
	if t.stage < len(loadingStages) {
		return
	}

	to := t.to
	d.transition = nil
	d.state = to
	if w, ok := d.scenes[to]; ok {
		w.resume()
		return
	}
	layout, ok := d.catalog.SceneByID(sceneForState(to))
	if !ok {
		return
	}
	d.scenes[to] = newWorld(layout, d.catalog, d.player, d.publisher, d.rng)
	if layout.Intro != "" {
		d.playCutscene(ctx, layout.Intro)
	}
}

// routeWorldEvents translates the frame's world events into quest progress,
// cutscene playback, and scene changes. Emission is one-directional: the
// world never sees the ledger or the cutscene player.
func (d *Director) routeWorldEvents(ctx context.Context, events []WorldEvent) {
	for _, ev := range events {
		switch ev.Type {
		case EventEnemyKilled:
			d.ledger.RecordProgress(ev.Target, 1)
			d.logProgress(ctx, ev.Target)
		case EventBossKilled:
			d.ledger.RecordProgress(ev.Target, 1)
			d.logProgress(ctx, ev.Target)
			d.returnToTown = true
		case EventItemCollected:
			d.items = append(d.items, ev.Target)
			d.ledger.RecordProgress(ev.Target, ev.Amount)
			d.logProgress(ctx, ev.Target)
		case EventNPCTalked:
			if ev.Target != "" {
				d.playCutscene(ctx, ev.Target)
			}
		case EventPortalEntered:
			if to, ok := stateForScene(ev.Target); ok {
				d.RequestTransition(to)
			}
		case EventAvatarDied:
			d.gameOver = true
		}
	}
}

func (d *Director) logProgress(ctx context.Context, target string) {
	for _, q := range d.ledger.Visible() {
		if q.Status == quest.StatusNotStarted {
			continue
		}
		for _, obj := range q.Objectives {
			if obj.Target == target {
				loggingquest.Progress(ctx, d.publisher, d.tick, q.ID, obj.ID, obj.Current, obj.Required)
			}
		}
	}
}

// settleCompletions grants rewards for quests the ledger finished since the
// last frame and chains into any completion cutscene.
func (d *Director) settleCompletions(ctx context.Context) {
	for _, id := range d.ledger.TakeCompletions() {
		rec, ok := d.ledger.Quest(id)
		if !ok {
			continue
		}
		d.gold += rec.Reward.Gold
		d.items = append(d.items, rec.Reward.Items...)
		if rec.Reward.Experience > 0 {
			if w := d.activeWorld(); w != nil {
				w.grantExperience(ctx, d.tick, float64(rec.Reward.Experience))
			} else if d.player != nil {
				d.player.gainExperience(float64(rec.Reward.Experience))
			}
		}
		loggingquest.Completed(ctx, d.publisher, d.tick, id)
		if def, ok := d.catalog.QuestByID(id); ok && def.OnCompleteCutscene != "" {
			d.playCutscene(ctx, def.OnCompleteCutscene)
		}
	}
}

// applyCutsceneEffects drains dialogue-choice side effects. Effects are
// "name:arg" strings authored in content; unknown names are logged and
// ignored.
func (d *Director) applyCutsceneEffects(ctx context.Context) {
	for _, effect := range d.cutscene.TakeEffects() {
		name, arg, _ := strings.Cut(effect, ":")
		switch name {
		case "start_quest":
			if d.ledger.Start(arg) {
				loggingquest.Started(ctx, d.publisher, d.tick, arg)
			} else {
				loggingquest.Rejected(ctx, d.publisher, d.tick, arg, "not startable")
			}
		case "give_gold":
			if n, err := strconv.Atoi(arg); err == nil {
				d.gold += n
			}
		default:
			if d.publisher != nil {
				d.publisher.Publish(ctx, logging.Event{
					Type:     "cutscene.effect_ignored",
					Tick:     d.tick,
					Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
					Severity: logging.SeverityWarn,
					Category: logging.CategoryCutscene,
					Payload:  map[string]string{"effect": effect},
				})
			}
		}
	}
}

func (d *Director) playCutscene(ctx context.Context, id string) {
	if d.cutscene.Play(id, nil) {
		loggingscene.Cutscene(ctx, d.publisher, d.tick, id, "play")
	} else {
		loggingscene.Cutscene(ctx, d.publisher, d.tick, id, "rejected")
	}
}

// SetIntent replaces the avatar's held input for the next frame.
func (d *Director) SetIntent(intent moveIntent) {
	if d.player != nil {
		d.player.intent = intent
	}
}

// AdvanceCutscene follows the current dialogue node's link.
func (d *Director) AdvanceCutscene() {
	d.cutscene.Advance()
}

// SelectDialogueChoice picks a choice on the current dialogue node.
func (d *Director) SelectDialogueChoice(index int) {
	d.cutscene.SelectChoice(index)
}

// SkipCutscene ends the active cutscene early when it permits skipping.
func (d *Director) SkipCutscene() {
	id := d.cutscene.ActiveID()
	if d.cutscene.Skip() {
		loggingscene.Cutscene(context.Background(), d.publisher, d.tick, id, "skip")
	}
}

func (d *Director) State() DirectorState { return d.state }
func (d *Director) GameOver() bool       { return d.gameOver }
func (d *Director) Gold() int            { return d.gold }

func (d *Director) Items() []string {
	return append([]string(nil), d.items...)
}

func (d *Director) activeWorld() *World {
	if d.state == StateTown || d.state == StateBossEncounter {
		return d.scenes[d.state]
	}
	return nil
}

// Loading reports the in-flight transition's stage, if any.
func (d *Director) Loading() (stage int, total int, message string, ok bool) {
	if d.transition == nil {
		return 0, 0, "", false
	}
	stage = d.transition.stage
	if stage >= len(loadingStages) {
		stage = len(loadingStages) - 1
	}
	return stage, len(loadingStages), loadingStages[stage], true
}

// CutsceneNode returns the active cutscene id and dialogue node for the UI.
func (d *Director) CutsceneNode() (string, cutscene.Node, bool) {
	id := d.cutscene.ActiveID()
	if id == "" {
		return "", cutscene.Node{}, false
	}
	node, _ := d.cutscene.Current()
	return id, node, true
}

// VisibleQuests lists the player-visible quest log.
func (d *Director) VisibleQuests() []quest.Quest {
	return d.ledger.Visible()
}
