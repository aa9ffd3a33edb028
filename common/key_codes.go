package common

// Key codes delivered by the window key callbacks. Values match GLFW key
// codes, which use ASCII for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeySpace     uint32 = 32
	Key0         uint32 = 48 // digits 0-9 are contiguous
	Key9         uint32 = 57
	KeyA         uint32 = 65 // letters A-Z are contiguous
	KeyD         uint32 = 68
	KeyS         uint32 = 83
	KeyW         uint32 = 87
	KeyZ         uint32 = 90
	KeyEsc       uint32 = 256
	KeyEnter     uint32 = 257
	KeyTab       uint32 = 258
	KeyBackspace uint32 = 259
	KeyRight     uint32 = 262
	KeyLeft      uint32 = 263
	KeyDown      uint32 = 264
	KeyUp        uint32 = 265
	KeyF1        uint32 = 290
	KeyLeftShift uint32 = 340
	KeyLeftCtrl  uint32 = 341
)
