package server

import (
	"context"
	"math/rand"
	"testing"

	"duskhollow/server/internal/content"
	"duskhollow/server/internal/quest"
	"duskhollow/server/logging"
)

const testDT = 1.0 / float64(defaultTickRate)

func newTestDirector(t *testing.T) *Director {
	t.Helper()
	catalog, err := content.Load("")
	if err != nil {
		t.Fatalf("load embedded content: %v", err)
	}
	return NewDirector("player-1", catalog, logging.NopPublisher, rand.New(rand.NewSource(1)))
}

// runTransition ticks through every loading stage of an in-flight transition.
func runTransition(t *testing.T, d *Director) {
	t.Helper()
	for i := 0; i < loadingStageTicks*len(loadingStages); i++ {
		d.Tick(testDT)
	}
	if d.State() == StateTransitioning {
		t.Fatalf("transition did not finish")
	}
}

// enterTown drives a fresh director through character creation and the town
// intro cutscene.
func enterTown(t *testing.T, d *Director) {
	t.Helper()
	if !d.CreateCharacter(PlayerProfile{Name: "Hero"}) {
		t.Fatalf("character creation rejected")
	}
	runTransition(t, d)
	if d.State() != StateTown {
		t.Fatalf("expected town after creation, got %s", d.State())
	}
	for i := 0; i < 10 && d.cutscene.Playing(); i++ {
		d.AdvanceCutscene()
	}
	d.Tick(testDT)
}

func TestCharacterCreationLeadsToTown(t *testing.T) {
	d := newTestDirector(t)
	if d.State() != StateCharacterCreation {
		t.Fatalf("expected character creation first, got %s", d.State())
	}
	if d.CreateCharacter(PlayerProfile{Name: "Hero"}) != true {
		t.Fatalf("creation rejected")
	}
	if d.State() != StateTransitioning {
		t.Fatalf("expected a transition after creation, got %s", d.State())
	}
	if _, _, _, ok := d.Loading(); !ok {
		t.Fatalf("expected a loading stage while transitioning")
	}

	if d.CreateCharacter(PlayerProfile{Name: "Again"}) {
		t.Fatalf("second character creation should be rejected")
	}
	if d.RequestTransition(StateBossEncounter) {
		t.Fatalf("transition request while one is in flight should be dropped")
	}

	runTransition(t, d)
	if d.State() != StateTown {
		t.Fatalf("expected town, got %s", d.State())
	}
	if id, _, ok := d.CutsceneNode(); !ok || id != "town-intro" {
		t.Fatalf("expected the town intro to play, got %q ok=%v", id, ok)
	}
}

func TestCutsceneSuspendsGameplay(t *testing.T) {
	d := newTestDirector(t)
	if !d.CreateCharacter(PlayerProfile{Name: "Hero"}) {
		t.Fatalf("creation rejected")
	}
	runTransition(t, d)
	if !d.cutscene.Playing() {
		t.Fatalf("expected the intro cutscene")
	}

	d.SetIntent(moveIntent{Forward: true})
	start := d.player.Position
	for i := 0; i < 10; i++ {
		d.Tick(testDT)
	}
	if d.player.Position != start {
		t.Fatalf("avatar moved during a cutscene: %+v -> %+v", start, d.player.Position)
	}

	d.AdvanceCutscene()
	d.AdvanceCutscene()
	if d.cutscene.Playing() {
		t.Fatalf("intro should have ended")
	}
	for i := 0; i < 10; i++ {
		d.Tick(testDT)
	}
	if d.player.Position == start {
		t.Fatalf("avatar did not move after the cutscene ended")
	}
}

func TestDialogueChoiceStartsQuest(t *testing.T) {
	d := newTestDirector(t)
	enterTown(t, d)
	ctx := context.Background()

	d.routeWorldEvents(ctx, []WorldEvent{{Type: EventNPCTalked, Actor: "elder", Target: "elder-dialogue"}})
	if id, _, ok := d.CutsceneNode(); !ok || id != "elder-dialogue" {
		t.Fatalf("expected the elder dialogue, got %q", id)
	}

	d.SelectDialogueChoice(0) // accept the wolf hunt
	d.Tick(testDT)
	q, ok := d.ledger.Quest("wolves-at-the-gate")
	if !ok || q.Status != quest.StatusInProgress {
		t.Fatalf("expected the quest in progress, got %+v", q)
	}
}

func TestQuestCompletionGrantsRewardAndRevealsSuccessor(t *testing.T) {
	d := newTestDirector(t)
	enterTown(t, d)
	ctx := context.Background()

	d.ledger.Start("wolves-at-the-gate")
	for i := 0; i < 5; i++ {
		d.routeWorldEvents(ctx, []WorldEvent{{Type: EventEnemyKilled, Actor: "wolf", Target: "grey-wolf", Amount: 30}})
	}
	d.Tick(testDT)

	q, _ := d.ledger.Quest("wolves-at-the-gate")
	if q.Status != quest.StatusCompleted {
		t.Fatalf("expected the wolf quest completed, got %s", q.Status)
	}
	if d.Gold() != 40 {
		t.Fatalf("expected the 40 gold reward, got %d", d.Gold())
	}
	next, _ := d.ledger.Quest("embers-for-the-forge")
	if !next.Visible {
		t.Fatalf("successor quest should be revealed")
	}
}

func TestEmberQuestChainsGateCutsceneAndFinalQuest(t *testing.T) {
	d := newTestDirector(t)
	enterTown(t, d)
	ctx := context.Background()

	d.ledger.Start("embers-for-the-forge")
	for i := 0; i < 3; i++ {
		d.routeWorldEvents(ctx, []WorldEvent{{Type: EventItemCollected, Actor: "ember", Target: "ember-crystal", Amount: 1}})
	}
	d.Tick(testDT)

	if id, _, ok := d.CutsceneNode(); !ok || id != "gate-opens" {
		t.Fatalf("expected the gate cutscene after the ember quest, got %q", id)
	}
	final, _ := d.ledger.Quest("the-hollow-king")
	if final.Status != quest.StatusInProgress {
		t.Fatalf("final quest should auto-start on reveal, got %s", final.Status)
	}

	// The gate beat is a timed, dialogue-less scene.
	for i := 0; i < 61 && d.cutscene.Playing(); i++ {
		d.Tick(testDT)
	}
	if d.cutscene.Playing() {
		t.Fatalf("timed cutscene never ended")
	}
}

func TestPortalLeadsToBossEncounter(t *testing.T) {
	d := newTestDirector(t)
	enterTown(t, d)
	ctx := context.Background()

	d.routeWorldEvents(ctx, []WorldEvent{{Type: EventPortalEntered, Actor: "castle-door", Target: "keep"}})
	if d.State() != StateTransitioning {
		t.Fatalf("portal should start a transition, got %s", d.State())
	}
	runTransition(t, d)
	if d.State() != StateBossEncounter {
		t.Fatalf("expected the boss encounter, got %s", d.State())
	}
	if id, _, ok := d.CutsceneNode(); !ok || id != "boss-intro" {
		t.Fatalf("expected the boss intro, got %q", id)
	}
	if d.SkipCutscene(); d.cutscene.Playing() != true {
		t.Fatalf("boss intro is not skippable")
	}
}

func TestBossKillPlaysEndingAndReturnsToTown(t *testing.T) {
	d := newTestDirector(t)
	enterTown(t, d)
	ctx := context.Background()

	d.routeWorldEvents(ctx, []WorldEvent{{Type: EventPortalEntered, Target: "keep"}})
	runTransition(t, d)
	d.AdvanceCutscene()
	d.AdvanceCutscene() // boss intro

	d.ledger.Start("the-hollow-king")
	d.routeWorldEvents(ctx, []WorldEvent{{Type: EventBossKilled, Actor: "keep-boss", Target: "vhalor", Amount: 200}})
	d.Tick(testDT)

	if d.Gold() != 200 {
		t.Fatalf("expected the boss bounty, gold=%d", d.Gold())
	}
	if id, _, ok := d.CutsceneNode(); !ok || id != "ending" {
		t.Fatalf("expected the ending cutscene, got %q", id)
	}

	d.AdvanceCutscene()
	d.Tick(testDT)
	if d.State() != StateTransitioning {
		t.Fatalf("expected the return trip to town, got %s", d.State())
	}
	runTransition(t, d)
	if d.State() != StateTown {
		t.Fatalf("expected town after the ending, got %s", d.State())
	}
}

func TestAvatarDeathEndsTheRun(t *testing.T) {
	d := newTestDirector(t)
	enterTown(t, d)
	ctx := context.Background()

	d.routeWorldEvents(ctx, []WorldEvent{{Type: EventAvatarDied, Actor: "player-1"}})
	if !d.GameOver() {
		t.Fatalf("expected game over")
	}
	pos := d.player.Position
	d.SetIntent(moveIntent{Forward: true})
	for i := 0; i < 5; i++ {
		d.Tick(testDT)
	}
	if d.player.Position != pos {
		t.Fatalf("world kept simulating after game over")
	}
}
