// Package camera provides the 2D orthographic camera feeding the quad
// renderer's view-projection uniform.
package camera

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

type camera2DImpl struct {
	mu *sync.Mutex

	width    float32
	height   float32
	viewProj mgl32.Mat4
}

// Camera2D maps world coordinates to clip space with a left-handed
// orthographic projection. World (0, 0) is the top-left corner of the
// viewport, x grows right, y grows down, and one world unit is one pixel at
// the configured viewport size.
type Camera2D interface {
	// ViewProjection returns the current view-projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the combined view-projection matrix
	ViewProjection() mgl32.Mat4

	// Viewport returns the viewport size the projection was built for.
	//
	// Returns:
	//   - width, height: the viewport dimensions in pixels
	Viewport() (width, height float32)

	// Resize rebuilds the projection for a new viewport size. Called by the
	// engine when the window is resized.
	//
	// Parameters:
	//   - width, height: the new viewport dimensions in pixels
	Resize(width, height float32)
}

var _ Camera2D = &camera2DImpl{}

// NewCamera2D creates a Camera2D for the given viewport size.
//
// Parameters:
//   - width, height: the viewport dimensions in pixels
//
// Returns:
//   - Camera2D: the new camera
func NewCamera2D(width, height float32) Camera2D {
	return &camera2DImpl{
		mu:       &sync.Mutex{},
		width:    width,
		height:   height,
		viewProj: orthoLH(0, width, height, 0, 0, 1),
	}
}

func (c *camera2DImpl) ViewProjection() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.viewProj
}

func (c *camera2DImpl) Viewport() (float32, float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.width, c.height
}

func (c *camera2DImpl) Resize(width, height float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.width = width
	c.height = height
	c.viewProj = orthoLH(0, width, height, 0, 0, 1)
}

// orthoLH builds a left-handed orthographic projection mapping depth in
// [near, far] to clip z in [0, 1], the range the GPU expects. The standard GL
// ortho helpers map depth to [-1, 1] and would clip everything at z = 0.
func orthoLH(left, right, bottom, top, near, far float32) mgl32.Mat4 {
	rml, tmb, fmn := right-left, top-bottom, far-near

	return mgl32.Mat4{
		2 / rml, 0, 0, 0,
		0, 2 / tmb, 0, 0,
		0, 0, 1 / fmn, 0,
		-(right + left) / rml, -(top + bottom) / tmb, -near / fmn, 1,
	}
}
