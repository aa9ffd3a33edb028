// Package backend defines the GPU boundary for the 2D quad renderer. The
// renderer records batches against this interface; the wgpu implementation
// translates them into surface configuration, buffer uploads, and draw calls.
// Keeping the boundary here lets the batching logic run in tests without a
// display or adapter present.
package backend

import (
	"fmt"

	"github.com/embergfx/ember/common"
)

// PresentMode selects how finished frames are presented to the surface.
type PresentMode int

const (
	// PresentModeVSync synchronizes presentation with the display refresh (Fifo).
	PresentModeVSync PresentMode = iota
	// PresentModeUncapped presents immediately without waiting for vertical sync.
	PresentModeUncapped
)

// Buffer is an opaque handle to a GPU buffer owned by a RendererBackend.
type Buffer interface {
	// Size returns the byte capacity of the buffer.
	Size() uint64
}

// TextureBinding is an opaque handle to a texture, its view, its sampler, and
// the bind group tying them together. Obtained from CreateTexture and passed
// back to BindTexture.
type TextureBinding interface {
	// Label returns the debug label the texture was created with.
	Label() string
}

// SurfaceError reports a failure acquiring or presenting the surface.
// Transient errors (the swapchain is outdated, lost, or timed out) are
// recoverable by reconfiguring the surface at the current size and retrying
// on the next frame; non-transient errors indicate the device is gone.
type SurfaceError struct {
	Transient bool
	Err       error
}

func (e *SurfaceError) Error() string {
	if e.Transient {
		return fmt.Sprintf("surface temporarily unavailable: %v", e.Err)
	}
	return fmt.Sprintf("surface unavailable: %v", e.Err)
}

func (e *SurfaceError) Unwrap() error {
	return e.Err
}

// RendererBackend is the set of GPU operations the quad renderer needs each
// frame. Implementations must be safe for use from the render goroutine; the
// renderer never calls frame operations concurrently.
type RendererBackend interface {
	// ConfigureSurface (re)configures the presentation surface to the given
	// pixel dimensions. Called at startup, on window resize, and after a
	// transient SurfaceError.
	ConfigureSurface(width, height int)

	// SurfaceSize returns the dimensions the surface was last configured with.
	SurfaceSize() (width, height int)

	// SetPresentMode sets the presentation mode used by the next
	// ConfigureSurface call.
	SetPresentMode(mode PresentMode)

	// CreateTexture uploads RGBA8 pixel data and returns a binding ready for
	// use with BindTexture.
	//
	// Parameters:
	//   - label: debug label attached to the GPU resources
	//   - data: pixel data, dimensions, and optional sampler overrides
	//
	// Returns:
	//   - TextureBinding: the opaque binding for draw calls
	//   - error: an error if texture or sampler creation fails
	CreateTexture(label string, data common.TextureStagingData) (TextureBinding, error)

	// CreateInstanceBuffer creates a vertex-usage buffer sized exactly to the
	// given contents and uploads them.
	CreateInstanceBuffer(label string, contents []byte) (Buffer, error)

	// WriteBuffer overwrites buf starting at offset with data. The write must
	// fit within the buffer's capacity.
	WriteBuffer(buf Buffer, offset uint64, data []byte)

	// DestroyBuffer releases the GPU memory backing buf. The handle must not
	// be used afterwards.
	DestroyBuffer(buf Buffer)

	// BeginFrame acquires the next surface texture and begins the quad render
	// pass, clearing to the given color and binding the quad pipeline together
	// with the shared unit-quad geometry. Returns a *SurfaceError when the
	// surface could not be acquired.
	BeginFrame(clear common.Color) error

	// WriteCamera uploads the frame's camera uniform bytes. Must be called
	// between BeginFrame and EndFrame.
	WriteCamera(data []byte)

	// BindTexture binds the texture resource set for subsequent draws in the
	// current pass.
	BindTexture(binding TextureBinding)

	// BindInstances binds buf as the per-instance vertex buffer, exposing the
	// first size bytes to the pipeline.
	BindInstances(buf Buffer, size uint64)

	// DrawIndexed encodes one indexed draw of the shared unit quad with the
	// given instance count, using whatever texture and instance buffer are
	// currently bound.
	DrawIndexed(instanceCount uint32)

	// EndFrame ends the render pass and submits the frame's command buffer.
	EndFrame()

	// Present presents the frame acquired by BeginFrame and releases it.
	Present()
}
