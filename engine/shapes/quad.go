// Package shapes holds the drawable primitives consumed by the 2D renderer.
package shapes

import (
	"github.com/embergfx/ember/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Quad is an axis-aligned rectangle with a position, size, rotation, tint
// color, and depth index. Its model matrix is computed lazily: setters only
// mark the cached transform stale, and Transform recomputes it at most once
// per change no matter how many frames read it.
//
// Rotation is in degrees, counter-clockwise, about the quad's center.
// Position is the top-left corner in world units.
type Quad struct {
	position mgl32.Vec2
	size     mgl32.Vec2
	rotation float32

	// Color multiplies the sampled texel; White leaves the texture unchanged.
	Color common.Color

	// DepthIndex orders quads across batches: lower values draw first and
	// are covered by higher ones.
	DepthIndex int32

	transform      mgl32.Mat4
	transformDirty bool
}

// NewQuad creates a Quad with its transform already computed.
//
// Parameters:
//   - position: the top-left corner in world units
//   - size: width and height in world units
//   - rotation: rotation about the center in degrees
//
// Returns:
//   - *Quad: the new quad, tinted white at depth 0
func NewQuad(position, size mgl32.Vec2, rotation float32) *Quad {
	return &Quad{
		position:  position,
		size:      size,
		rotation:  rotation,
		Color:     common.White,
		transform: computeTransform(position, size, rotation),
	}
}

// SetPosition moves the quad's top-left corner.
func (q *Quad) SetPosition(position mgl32.Vec2) {
	q.position = position
	q.transformDirty = true
}

// Position returns the quad's top-left corner.
func (q *Quad) Position() mgl32.Vec2 {
	return q.position
}

// SetSize changes the quad's width and height.
func (q *Quad) SetSize(size mgl32.Vec2) {
	q.size = size
	q.transformDirty = true
}

// Size returns the quad's width and height.
func (q *Quad) Size() mgl32.Vec2 {
	return q.size
}

// Rotate adds delta degrees to the quad's rotation.
func (q *Quad) Rotate(delta float32) {
	q.rotation += delta
	q.transformDirty = true
}

// SetRotation sets the quad's rotation in degrees.
func (q *Quad) SetRotation(rotation float32) {
	q.rotation = rotation
	q.transformDirty = true
}

// Rotation returns the quad's rotation in degrees.
func (q *Quad) Rotation() float32 {
	return q.rotation
}

// Transform returns the quad's model matrix, recomputing it only if a setter
// ran since the last call.
//
// Returns:
//   - mgl32.Mat4: the model matrix mapping the unit quad to world space
func (q *Quad) Transform() mgl32.Mat4 {
	if q.transformDirty {
		q.transform = computeTransform(q.position, q.size, q.rotation)
		q.transformDirty = false
	}
	return q.transform
}

// computeTransform builds the model matrix for a unit quad whose local origin
// is its top-left corner. The rotation pivots about the quad's center: the
// translation moves the origin to position plus the center, offset by the
// rotated vector back to the corner.
func computeTransform(position, size mgl32.Vec2, rotation float32) mgl32.Mat4 {
	rad := mgl32.DegToRad(rotation)
	rot := mgl32.QuatRotate(rad, mgl32.Vec3{0, 0, 1})

	center := mgl32.Vec3{size.X() * 0.5, size.Y() * 0.5, 0}
	rotatedCenter := rot.Rotate(center.Mul(-1))
	final := mgl32.Vec3{position.X(), position.Y(), 0}.Add(center).Add(rotatedCenter)

	return mgl32.Translate3D(final.X(), final.Y(), final.Z()).
		Mul4(mgl32.HomogRotate3DZ(rad)).
		Mul4(mgl32.Scale3D(size.X(), size.Y(), 1))
}
