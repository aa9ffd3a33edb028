package renderer2d

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/embergfx/ember/engine/assets"
	"github.com/embergfx/ember/engine/shapes"
)

// GPUQuadInstance is the GPU-aligned per-instance record for one quad.
// Matches the WGSL InstanceInput struct layout exactly (shader locations
// 2 through 8). Size: 96 bytes (std430 / WGSL aligned).
type GPUQuadInstance struct {
	Model    [16]float32 // offset  0: model matrix (mat4x4<f32>)
	Color    [4]float32  // offset 64: tint color (vec4<f32>)
	UVSize   [2]float32  // offset 80: uv scale for atlas sub-regions (vec2<f32>)
	UVOffset [2]float32  // offset 88: uv offset for atlas sub-regions (vec2<f32>)
}

// NewGPUQuadInstance captures a quad's current transform, color, and texture
// region as an instance record.
//
// Parameters:
//   - q: the quad to capture; reads its cached transform
//   - region: the texture sub-region to sample
//
// Returns:
//   - GPUQuadInstance: the instance record
func NewGPUQuadInstance(q *shapes.Quad, region assets.UVRegion) GPUQuadInstance {
	return GPUQuadInstance{
		Model:    [16]float32(q.Transform()),
		Color:    [4]float32{q.Color.R, q.Color.G, q.Color.B, q.Color.A},
		UVSize:   region.Size,
		UVOffset: region.Offset,
	}
}

// Size returns the size of the GPUQuadInstance struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (96)
func (g *GPUQuadInstance) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUQuadInstance struct into a byte buffer suitable
// for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUQuadInstance) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Model[i]))
	}
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Color[i]))
	}
	for i := range 2 {
		binary.LittleEndian.PutUint32(buf[80+i*4:], math.Float32bits(g.UVSize[i]))
	}
	for i := range 2 {
		binary.LittleEndian.PutUint32(buf[88+i*4:], math.Float32bits(g.UVOffset[i]))
	}
	return buf
}

// marshalInstances serializes a slice of instances into one contiguous
// upload buffer.
func marshalInstances(instances []GPUQuadInstance) []byte {
	if len(instances) == 0 {
		return nil
	}
	stride := instances[0].Size()
	buf := make([]byte, 0, stride*len(instances))
	for i := range instances {
		buf = append(buf, instances[i].Marshal()...)
	}
	return buf
}
