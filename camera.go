package server

import "math"

// cameraState is the third-person follow camera. It is simulated here, not on
// the client, because the movement controller reads its look direction and
// the occlusion raycast shares the scene's collider set.
type cameraState struct {
	Position Vec3 `json:"position"`
	LookAt   Vec3 `json:"lookAt"`
}

func newCameraState(avatar Vec3, heading float64) *cameraState {
	cam := &cameraState{}
	cam.snapTo(avatar, heading)
	return cam
}

// snapTo places the camera at its ideal pose with no smoothing, used when a
// scene starts so the first frame does not sweep across the world.
func (cam *cameraState) snapTo(avatar Vec3, heading float64) {
	cam.Position = idealCameraPosition(avatar, heading)
	cam.LookAt = avatar.Add(Vec3{Y: cameraLookAtOffset})
}

// idealCameraPosition sits behind-and-above the avatar along its facing
// direction at a fixed distance and height.
func idealCameraPosition(avatar Vec3, heading float64) Vec3 {
	back := Vec3{X: -math.Sin(heading), Z: -math.Cos(heading)}
	pos := avatar.Add(back.Scale(cameraDistance))
	pos.Y = avatar.Y + cameraHeight
	return pos
}

// step moves the camera toward its (possibly occlusion-shortened) target with
// exponential smoothing. A ray from avatar eye height toward the ideal
// position pulls the camera in to just short of the first obstruction so
// walls never sit between camera and avatar.
func (cam *cameraState) step(avatar Vec3, heading float64, colliders []Collider, dt float64) {
	ideal := idealCameraPosition(avatar, heading)
	eye := avatar.Add(Vec3{Y: avatarEyeHeight})

	toIdeal := ideal.Sub(eye)
	span := toIdeal.Length()
	target := ideal
	if span > 0 {
		if hit, ok := raycastColliders(eye, toIdeal, span, colliders); ok {
			pulled := hit - cameraCollisionPad
			if pulled < 0 {
				pulled = 0
			}
			target = eye.Add(toIdeal.Scale(pulled / span))
		}
	}

	blend := dampFactor(cameraLerpRate, dt)
	cam.Position.X += (target.X - cam.Position.X) * blend
	cam.Position.Y += (target.Y - cam.Position.Y) * blend
	cam.Position.Z += (target.Z - cam.Position.Z) * blend
	cam.LookAt = avatar.Add(Vec3{Y: cameraLookAtOffset})
}
