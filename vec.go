package server

import "math"

// Vec3 is a world-space position or direction. Y is up; gameplay movement
// stays on the XZ ground plane.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// LengthXZ is the ground-plane magnitude, ignoring height.
func (v Vec3) LengthXZ() float64 {
	return math.Hypot(v.X, v.Z)
}

func (v Vec3) Normalized() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{}
	}
	return v.Scale(1 / length)
}

func distanceXZ(a, b Vec3) float64 {
	return math.Hypot(a.X-b.X, a.Z-b.Z)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// dampFactor converts a per-second smoothing rate into a frame blend weight
// so exponential interpolation behaves the same at any tick rate.
func dampFactor(rate, dt float64) float64 {
	return 1 - math.Exp(-rate*dt)
}

// headingOf returns the yaw of a ground-plane direction. Zero faces +Z.
func headingOf(dx, dz float64) float64 {
	return math.Atan2(dx, dz)
}

// wrapAngle maps an angle into (-pi, pi].
func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// approachAngle rotates current toward target by blend along the shortest
// arc, never the long way around.
func approachAngle(current, target, blend float64) float64 {
	delta := wrapAngle(target - current)
	return wrapAngle(current + delta*clamp(blend, 0, 1))
}
