package camera

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUCameraUniform is the GPU-aligned representation of the camera uniform
// buffer. Matches the WGSL CameraUniform struct layout exactly.
// Size: 64 bytes (std430 / WGSL aligned).
type GPUCameraUniform struct {
	ViewProj [16]float32 // offset 0: combined view-projection matrix (mat4x4<f32>)
}

// NewGPUCameraUniform builds the uniform from a camera's view-projection
// matrix.
//
// Parameters:
//   - viewProj: the matrix to upload
//
// Returns:
//   - GPUCameraUniform: the uniform ready for Marshal
func NewGPUCameraUniform(viewProj mgl32.Mat4) GPUCameraUniform {
	return GPUCameraUniform{ViewProj: [16]float32(viewProj)}
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable
// for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
	}
	return buf
}
