package server

import "math"

// Collider is a static axis-aligned box registered by a scene. X/Y/Z is the
// minimum corner. Ground surfaces are flagged so movement and camera tests
// skip them: the ground is a visual plane, not an obstacle.
type Collider struct {
	ID     string  `json:"id,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
	Ground bool    `json:"ground,omitempty"`
}

func (c Collider) maxX() float64 { return c.X + c.Width }
func (c Collider) maxY() float64 { return c.Y + c.Height }
func (c Collider) maxZ() float64 { return c.Z + c.Depth }

// actorBoxIntersects reports whether an actor box centered at (x, z) with the
// given half-extent and height overlaps the collider.
func actorBoxIntersects(x, z, half, height float64, c Collider) bool {
	if c.Ground {
		return false
	}
	if x+half <= c.X || x-half >= c.maxX() {
		return false
	}
	if height <= c.Y || c.maxY() <= 0 {
		return false
	}
	if z+half <= c.Z || z-half >= c.maxZ() {
		return false
	}
	return true
}

// positionBlocked tests a candidate actor position against every collider.
func positionBlocked(x, z, half, height float64, colliders []Collider) bool {
	for _, c := range colliders {
		if actorBoxIntersects(x, z, half, height, c) {
			return true
		}
	}
	return false
}

// raycastColliders finds the nearest collider intersection along dir within
// maxDist using the slab method. Ground surfaces never occlude.
func raycastColliders(origin, dir Vec3, maxDist float64, colliders []Collider) (float64, bool) {
	length := dir.Length()
	if length == 0 || maxDist <= 0 {
		return 0, false
	}
	dir = dir.Scale(1 / length)

	nearest := math.Inf(1)
	hit := false
	for _, c := range colliders {
		if c.Ground {
			continue
		}
		if t, ok := rayBoxDistance(origin, dir, c); ok && t < nearest {
			nearest = t
			hit = true
		}
	}
	if !hit || nearest > maxDist {
		return 0, false
	}
	return nearest, true
}

func rayBoxDistance(origin, dir Vec3, c Collider) (float64, bool) {
	tMin := 0.0
	tMax := math.Inf(1)

	lows := [3]float64{c.X, c.Y, c.Z}
	highs := [3]float64{c.maxX(), c.maxY(), c.maxZ()}
	origins := [3]float64{origin.X, origin.Y, origin.Z}
	dirs := [3]float64{dir.X, dir.Y, dir.Z}

	for i := 0; i < 3; i++ {
		if dirs[i] == 0 {
			if origins[i] < lows[i] || origins[i] > highs[i] {
				return 0, false
			}
			continue
		}
		t1 := (lows[i] - origins[i]) / dirs[i]
		t2 := (highs[i] - origins[i]) / dirs[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, false
		}
	}
	if tMin <= 0 {
		return 0, false
	}
	return tMin, true
}
