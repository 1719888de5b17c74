package server

import "math"

// applyDisplacement advances an actor by delta on the ground plane. A move
// whose destination box overlaps any collider is rejected in full, then two
// independent single-axis slides are attempted so the actor can skim along
// walls instead of sticking to them.
func applyDisplacement(c *combatantState, delta Vec3, colliders []Collider) bool {
	if delta.X == 0 && delta.Z == 0 {
		return false
	}
	nx := c.Position.X + delta.X
	nz := c.Position.Z + delta.Z

	if !positionBlocked(nx, nz, c.half, c.height, colliders) {
		c.Position.X = nx
		c.Position.Z = nz
		return true
	}
	if delta.X != 0 && !positionBlocked(nx, c.Position.Z, c.half, c.height, colliders) {
		c.Position.X = nx
		return true
	}
	if delta.Z != 0 && !positionBlocked(c.Position.X, nz, c.half, c.height, colliders) {
		c.Position.Z = nz
		return true
	}
	return false
}

// faceHeading turns an actor toward the given heading along the shortest
// angular path with frame-rate-compensated smoothing.
func faceHeading(c *combatantState, target, dt float64) {
	c.Heading = approachAngle(c.Heading, target, dampFactor(turnLerpRate, dt))
}

// moveIntentVector converts held direction keys into a camera-relative unit
// move vector on the ground plane. Forward follows the camera's look
// direction projected flat; strafing follows the camera's right vector.
func moveIntentVector(intent moveIntent, cam *cameraState, avatar Vec3) Vec3 {
	forward := avatar.Sub(cam.Position)
	forward.Y = 0
	length := forward.LengthXZ()
	if length == 0 {
		forward = Vec3{Z: 1}
	} else {
		forward = forward.Scale(1 / length)
	}
	right := Vec3{X: -forward.Z, Z: forward.X}

	var dir Vec3
	if intent.Forward {
		dir = dir.Add(forward)
	}
	if intent.Backward {
		dir = dir.Sub(forward)
	}
	if intent.Right {
		dir = dir.Add(right)
	}
	if intent.Left {
		dir = dir.Sub(right)
	}
	length = dir.LengthXZ()
	if length == 0 {
		return Vec3{}
	}
	return dir.Scale(1 / length)
}

// stepAvatarMovement runs one frame of input-to-position integration for
// the avatar: input smoothing, velocity interpolation, collision-checked
// displacement, and facing.
func stepAvatarMovement(p *playerState, cam *cameraState, colliders []Collider, dt float64) {
	if !p.Alive {
		p.velocity = Vec3{}
		return
	}

	raw := moveIntentVector(p.intent, cam, p.Position)
	held := raw.LengthXZ() > 0

	if held {
		// Blend with the previous frame's direction to avoid snapping when
		// the held key set changes, then renormalize.
		blended := raw.Scale(1 - inputBlendWeight).Add(p.smoothedInput.Scale(inputBlendWeight))
		if l := blended.LengthXZ(); l > 0 {
			blended = blended.Scale(1 / l)
		} else {
			blended = raw
		}
		p.smoothedInput = blended

		target := blended.Scale(p.currentSpeed())
		blend := dampFactor(velocityLerpRate, dt)
		p.velocity.X += (target.X - p.velocity.X) * blend
		p.velocity.Z += (target.Z - p.velocity.Z) * blend
	} else {
		p.smoothedInput = Vec3{}
		decay := 1 - dampFactor(velocityDecay, dt)
		p.velocity.X *= decay
		p.velocity.Z *= decay
		if p.velocity.LengthXZ() < velocityEpsilon {
			p.velocity = Vec3{}
		}
	}

	if p.velocity.X != 0 || p.velocity.Z != 0 {
		applyDisplacement(&p.combatantState, p.velocity.Scale(dt), colliders)
		faceHeading(&p.combatantState, headingOf(p.velocity.X, p.velocity.Z), dt)
	}
}

// stepEnemyMovement steers an enemy straight toward a target point with the
// same collision-rejection rule as the avatar, scaled to the enemy's size.
func stepEnemyMovement(c *combatantState, target Vec3, speed float64, colliders []Collider, dt float64) {
	dx := target.X - c.Position.X
	dz := target.Z - c.Position.Z
	dist := math.Hypot(dx, dz)
	if dist == 0 {
		c.velocity = Vec3{}
		return
	}
	c.velocity = Vec3{X: dx / dist * speed, Z: dz / dist * speed}
	step := c.velocity.Scale(dt)
	if step.LengthXZ() > dist {
		step = Vec3{X: dx, Z: dz}
	}
	applyDisplacement(c, step, colliders)
	faceHeading(c, headingOf(dx, dz), dt)
}
