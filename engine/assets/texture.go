package assets

import "github.com/embergfx/ember/engine/renderer2d/backend"

// Texture2D is a GPU-resident 2D texture. The binding carries the texture,
// its view, its sampler, and the bind group; the dimensions are kept for
// sprite sheet slicing and debug output.
type Texture2D struct {
	Width   uint32
	Height  uint32
	Binding backend.TextureBinding
}

// UVRegion selects a rectangular sub-region of a texture in normalized
// coordinates. The shared quad geometry's uv is scaled by Size and shifted by
// Offset, so the zero-offset unit-size region samples the whole texture.
type UVRegion struct {
	Size   [2]float32
	Offset [2]float32
}

// FullTexture is the UVRegion covering an entire texture.
var FullTexture = UVRegion{Size: [2]float32{1, 1}}

// NewUVRegion builds a UVRegion from normalized edge coordinates.
//
// Parameters:
//   - top, left: the region's upper-left corner in [0, 1]
//   - bottom, right: the region's extent from that corner in [0, 1]
//
// Returns:
//   - UVRegion: the resulting region
func NewUVRegion(top, left, bottom, right float32) UVRegion {
	return UVRegion{
		Size:   [2]float32{right, bottom},
		Offset: [2]float32{left, top},
	}
}
