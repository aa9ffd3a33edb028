package shapes

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-5

func matsClose(a, b mgl32.Mat4) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > epsilon {
			return false
		}
	}
	return true
}

func TestTransformUnrotated(t *testing.T) {
	q := NewQuad(mgl32.Vec2{10, 20}, mgl32.Vec2{4, 6}, 0)

	// With no rotation the matrix is translate(position) * scale(size): local
	// (0,0) maps to the top-left corner, local (1,1) to the opposite corner.
	m := q.Transform()

	tl := mgl32.TransformCoordinate(mgl32.Vec3{0, 0, 0}, m)
	br := mgl32.TransformCoordinate(mgl32.Vec3{1, 1, 0}, m)

	if !tl.ApproxEqualThreshold(mgl32.Vec3{10, 20, 0}, epsilon) {
		t.Errorf("top-left corner at %v, want {10 20 0}", tl)
	}
	if !br.ApproxEqualThreshold(mgl32.Vec3{14, 26, 0}, epsilon) {
		t.Errorf("bottom-right corner at %v, want {14 26 0}", br)
	}
}

func TestTransformRotatesAboutCenter(t *testing.T) {
	q := NewQuad(mgl32.Vec2{0, 0}, mgl32.Vec2{2, 2}, 0)
	center := mgl32.TransformCoordinate(mgl32.Vec3{0.5, 0.5, 0}, q.Transform())

	for _, deg := range []float32{45, 90, 180, 270, -30} {
		q.SetRotation(deg)
		rotated := mgl32.TransformCoordinate(mgl32.Vec3{0.5, 0.5, 0}, q.Transform())
		if !rotated.ApproxEqualThreshold(center, epsilon) {
			t.Errorf("rotation %v moved the center from %v to %v", deg, center, rotated)
		}
	}
}

func TestTransformQuarterTurn(t *testing.T) {
	// A 90 degree turn of a unit quad at the origin maps the top-left local
	// corner to where the top-right corner was, relative to the center.
	q := NewQuad(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1}, 90)

	corner := mgl32.TransformCoordinate(mgl32.Vec3{0, 0, 0}, q.Transform())
	if !corner.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, epsilon) {
		t.Errorf("rotated corner at %v, want {1 0 0}", corner)
	}
}

func TestTransformCachedUntilChanged(t *testing.T) {
	q := NewQuad(mgl32.Vec2{1, 2}, mgl32.Vec2{3, 4}, 15)

	first := q.Transform()
	second := q.Transform()
	if !matsClose(first, second) {
		t.Error("repeated Transform calls disagreed without any setter")
	}

	q.SetPosition(mgl32.Vec2{5, 5})
	moved := q.Transform()
	if matsClose(first, moved) {
		t.Error("Transform unchanged after SetPosition")
	}

	want := NewQuad(mgl32.Vec2{5, 5}, mgl32.Vec2{3, 4}, 15).Transform()
	if !matsClose(moved, want) {
		t.Errorf("recomputed transform = %v, want %v", moved, want)
	}
}

func TestRotateAccumulates(t *testing.T) {
	q := NewQuad(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1}, 10)
	q.Rotate(20)
	q.Rotate(-5)

	if q.Rotation() != 25 {
		t.Errorf("rotation = %v, want 25", q.Rotation())
	}

	want := NewQuad(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1}, 25).Transform()
	if !matsClose(q.Transform(), want) {
		t.Error("accumulated rotation transform does not match direct rotation")
	}
}

func TestSettersDoNotRecomputeEagerly(t *testing.T) {
	q := NewQuad(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1}, 0)

	// Several setter calls before a single read still produce the final
	// state's matrix.
	q.SetPosition(mgl32.Vec2{1, 1})
	q.SetSize(mgl32.Vec2{2, 2})
	q.SetRotation(30)

	want := NewQuad(mgl32.Vec2{1, 1}, mgl32.Vec2{2, 2}, 30).Transform()
	if !matsClose(q.Transform(), want) {
		t.Error("batched setter calls produced a stale transform")
	}
}
