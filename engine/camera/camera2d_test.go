package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-5

func vecClose(a, b mgl32.Vec3) bool {
	return math.Abs(float64(a.X()-b.X())) < epsilon &&
		math.Abs(float64(a.Y()-b.Y())) < epsilon &&
		math.Abs(float64(a.Z()-b.Z())) < epsilon
}

func TestViewProjectionCorners(t *testing.T) {
	c := NewCamera2D(800, 600)
	m := c.ViewProjection()

	tests := []struct {
		name  string
		world mgl32.Vec3
		clip  mgl32.Vec3
	}{
		{name: "top left to upper left clip", world: mgl32.Vec3{0, 0, 0}, clip: mgl32.Vec3{-1, 1, 0}},
		{name: "bottom right to lower right clip", world: mgl32.Vec3{800, 600, 0}, clip: mgl32.Vec3{1, -1, 0}},
		{name: "center to origin", world: mgl32.Vec3{400, 300, 0}, clip: mgl32.Vec3{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mgl32.TransformCoordinate(tt.world, m)
			if !vecClose(got, tt.clip) {
				t.Errorf("world %v maps to %v, want %v", tt.world, got, tt.clip)
			}
		})
	}
}

func TestDepthRangeIsZeroToOne(t *testing.T) {
	c := NewCamera2D(100, 100)
	m := c.ViewProjection()

	// The near plane must land on clip z = 0, not the GL-style -1, or every
	// quad at depth 0 would be clipped.
	near := mgl32.TransformCoordinate(mgl32.Vec3{50, 50, 0}, m)
	far := mgl32.TransformCoordinate(mgl32.Vec3{50, 50, 1}, m)

	if math.Abs(float64(near.Z())) > epsilon {
		t.Errorf("near plane maps to clip z %v, want 0", near.Z())
	}
	if math.Abs(float64(far.Z()-1)) > epsilon {
		t.Errorf("far plane maps to clip z %v, want 1", far.Z())
	}
}

func TestResize(t *testing.T) {
	c := NewCamera2D(800, 600)
	c.Resize(400, 300)

	w, h := c.Viewport()
	if w != 400 || h != 300 {
		t.Fatalf("viewport = %vx%v, want 400x300", w, h)
	}

	// After the resize, the new bottom-right corner maps to clip (1, -1).
	got := mgl32.TransformCoordinate(mgl32.Vec3{400, 300, 0}, c.ViewProjection())
	if !vecClose(got, mgl32.Vec3{1, -1, 0}) {
		t.Errorf("new bottom right maps to %v, want {1 -1 0}", got)
	}
}

func TestUniformMarshal(t *testing.T) {
	c := NewCamera2D(640, 480)
	u := NewGPUCameraUniform(c.ViewProjection())

	if u.Size() != 64 {
		t.Fatalf("uniform size = %d, want 64", u.Size())
	}

	buf := u.Marshal()
	if len(buf) != 64 {
		t.Fatalf("marshaled %d bytes, want 64", len(buf))
	}

	// The first float is the x scale 2/width.
	got := math.Float32frombits(uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24)
	if math.Abs(float64(got-2.0/640.0)) > epsilon {
		t.Errorf("first matrix element = %v, want %v", got, 2.0/640.0)
	}
}
