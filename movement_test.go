package server

import (
	"math"
	"testing"
)

func TestApplyDisplacementRejectsOverlap(t *testing.T) {
	wall := Collider{ID: "wall", X: -5, Y: 0, Z: 1, Width: 10, Height: 2, Depth: 1}
	c := newTestCombatant(10, 0)

	if moved := applyDisplacement(c, Vec3{Z: 1}, []Collider{wall}); moved {
		t.Fatalf("expected move into wall to be rejected")
	}
	if c.Position.X != 0 || c.Position.Z != 0 {
		t.Fatalf("rejected move shifted the actor to (%.2f, %.2f)", c.Position.X, c.Position.Z)
	}
}

func TestApplyDisplacementSlidesAlongWall(t *testing.T) {
	wall := Collider{ID: "wall", X: -5, Y: 0, Z: 1, Width: 10, Height: 2, Depth: 1}
	c := newTestCombatant(10, 0)

	if moved := applyDisplacement(c, Vec3{X: 1, Z: 1}, []Collider{wall}); !moved {
		t.Fatalf("expected diagonal move to slide along the wall")
	}
	if c.Position.X != 1 || c.Position.Z != 0 {
		t.Fatalf("expected slide to (1, 0), got (%.2f, %.2f)", c.Position.X, c.Position.Z)
	}
}

func TestGroundColliderNeverBlocks(t *testing.T) {
	ground := Collider{ID: "ground", X: -50, Y: 0, Z: -50, Width: 100, Height: 0.1, Depth: 100, Ground: true}
	if positionBlocked(0, 0, avatarHalf, avatarHeight, []Collider{ground}) {
		t.Fatalf("ground plane should not block movement")
	}
}

func TestMoveIntentVectorIsCameraRelative(t *testing.T) {
	cam := &cameraState{Position: Vec3{Y: cameraHeight, Z: -cameraDistance}}
	avatar := Vec3{}

	forward := moveIntentVector(moveIntent{Forward: true}, cam, avatar)
	if math.Abs(forward.X) > 1e-9 || math.Abs(forward.Z-1) > 1e-9 {
		t.Fatalf("expected forward (0, 0, 1), got (%.2f, %.2f, %.2f)", forward.X, forward.Y, forward.Z)
	}

	opposed := moveIntentVector(moveIntent{Forward: true, Backward: true}, cam, avatar)
	if opposed.LengthXZ() != 0 {
		t.Fatalf("opposed keys should cancel, got length %.3f", opposed.LengthXZ())
	}

	diagonal := moveIntentVector(moveIntent{Forward: true, Left: true}, cam, avatar)
	if math.Abs(diagonal.LengthXZ()-1) > 1e-9 {
		t.Fatalf("diagonal input should normalize to unit length, got %.3f", diagonal.LengthXZ())
	}
}

func TestAvatarMovementStopsDecay(t *testing.T) {
	p := newPlayerState("p1", PlayerProfile{}, Vec3{})
	cam := newCameraState(p.Position, p.Heading)
	dt := 1.0 / float64(defaultTickRate)

	p.intent.Forward = true
	for i := 0; i < 40; i++ {
		stepAvatarMovement(p, cam, nil, dt)
	}
	if p.velocity.LengthXZ() < avatarBaseSpeed*0.8 {
		t.Fatalf("expected near-full speed after a second of input, got %.2f", p.velocity.LengthXZ())
	}
	moved := p.Position

	p.intent.Forward = false
	for i := 0; i < 200; i++ {
		stepAvatarMovement(p, cam, nil, dt)
	}
	if p.velocity.LengthXZ() != 0 {
		t.Fatalf("expected velocity to decay to an exact stop, got %.4f", p.velocity.LengthXZ())
	}
	if distanceXZ(p.Position, moved) > 2 {
		t.Fatalf("avatar coasted %.2f units after release", distanceXZ(p.Position, moved))
	}
}

func TestDeadAvatarDoesNotMove(t *testing.T) {
	p := newPlayerState("p1", PlayerProfile{}, Vec3{})
	cam := newCameraState(p.Position, p.Heading)
	p.takeDamage(200, false)
	p.intent.Forward = true

	stepAvatarMovement(p, cam, nil, 0.05)
	if p.Position.X != 0 || p.Position.Z != 0 {
		t.Fatalf("dead avatar moved to (%.2f, %.2f)", p.Position.X, p.Position.Z)
	}
}

func TestEnemyMovementClampsToTarget(t *testing.T) {
	c := newTestCombatant(10, 0)
	target := Vec3{Z: 0.1}

	stepEnemyMovement(c, target, 100, nil, 1)
	if math.Abs(c.Position.Z-0.1) > 1e-9 {
		t.Fatalf("expected step clamped onto the target, got z=%.3f", c.Position.Z)
	}
}

func TestRaycastFindsNearestCollider(t *testing.T) {
	near := Collider{ID: "near", X: -1, Y: 0, Z: 2, Width: 2, Height: 3, Depth: 1}
	far := Collider{ID: "far", X: -1, Y: 0, Z: 6, Width: 2, Height: 3, Depth: 1}

	dist, ok := raycastColliders(Vec3{Y: 1}, Vec3{Z: 1}, 10, []Collider{far, near})
	if !ok {
		t.Fatalf("expected a hit")
	}
	if math.Abs(dist-2) > 1e-9 {
		t.Fatalf("expected nearest hit at 2, got %.3f", dist)
	}

	if _, ok := raycastColliders(Vec3{Y: 1}, Vec3{Z: 1}, 1.5, []Collider{near}); ok {
		t.Fatalf("hit beyond max distance should be ignored")
	}
}
