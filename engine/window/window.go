// Package window wraps platform windowing and input behind a small interface
// the engine drives its frame loop with.
package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// MouseButton identifies a mouse button in button callbacks.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// Window provides platform windowing and input event handling.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is
	// resized. Dimensions are in pixels, which differ from window units on
	// high-DPI displays.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving the scroll delta (positive = up)
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key press and repeat events.
	//
	// Parameters:
	//   - callback: function receiving the key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetMouseButtonCallback sets the callback for mouse button events.
	//
	// Parameters:
	//   - callback: function receiving the button, whether it was pressed
	//     (true) or released (false), and the cursor position
	SetMouseButtonCallback(callback func(button MouseButton, pressed bool, x, y int32))

	// SetMouseMoveCallback sets the callback for mouse movement.
	//
	// Parameters:
	//   - callback: function receiving the cursor x, y position
	SetMouseMoveCallback(callback func(x, y int32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for
	// creating a GPU surface over this window. The descriptor is
	// platform-appropriate (Windows HWND, X11, Wayland, macOS Metal).
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the surface descriptor, or nil if the
	//     window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true while the window is open.
	//
	// Returns:
	//   - bool: true if the window is running, false once closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: an error if the window was never initialized
	Close() error

	// ProcessMessages runs the window message loop on the calling goroutine.
	// Blocks until the window is closed, invoking the update callback each
	// iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int
}

type windowImpl struct {
	title  string
	width  int
	height int

	// internalWindow holds the platform-specific state (glfwWindow).
	internalWindow any

	onUpdate      func()
	onResize      func(width, height int)
	onScroll      func(delta float32)
	onKeyDown     func(keyCode uint32)
	onKeyUp       func(keyCode uint32)
	onMouseButton func(button MouseButton, pressed bool, x, y int32)
	onMouseMove   func(x, y int32)
}

var _ Window = &windowImpl{}

// NewWindow creates and opens a Window with the specified options. Defaults
// are applied first, then each option in order. Panics if the platform window
// cannot be created, since the engine cannot run without one.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the opened window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &windowImpl{
		title:  "Ember",
		width:  1280,
		height: 720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *windowImpl) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *windowImpl) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *windowImpl) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *windowImpl) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *windowImpl) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *windowImpl) SetMouseButtonCallback(callback func(button MouseButton, pressed bool, x, y int32)) {
	w.onMouseButton = callback
}

func (w *windowImpl) SetMouseMoveCallback(callback func(x, y int32)) {
	w.onMouseMove = callback
}

func (w *windowImpl) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *windowImpl) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *windowImpl) Close() error {
	return platformCloseWindow(w)
}

func (w *windowImpl) ProcessMessages() {
	for w.IsRunning() {
		if ok := platformProcessMessages(w); !ok {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		// Event polling is non-blocking; yield so the tick and render
		// goroutines are not starved.
		runtime.Gosched()
	}
}

func (w *windowImpl) Width() int {
	return w.width
}

func (w *windowImpl) Height() int {
	return w.height
}
