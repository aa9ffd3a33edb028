// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	_ "golang.org/x/image/bmp"
)

// Color is a normalized RGBA color with each channel in the [0, 1] range.
// It is used both for per-quad tint colors and for the frame clear color.
type Color struct {
	R, G, B, A float32
}

// RGBA creates a Color from normalized channel values.
//
// Parameters:
//   - r, g, b, a: channel values in the [0, 1] range
//
// Returns:
//   - Color: the resulting color
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// White is the fully opaque white color.
var White = Color{R: 1, G: 1, B: 1, A: 1}

// Vec4 returns the color as an mgl32.Vec4 in RGBA channel order.
//
// Returns:
//   - mgl32.Vec4: the color as a 4-component vector
func (c Color) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
// This is the intermediate form produced by the image decode helpers and consumed
// by the renderer backend when creating the GPU texture and bind group.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Width uint32
	// Height is the height of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Height uint32
	// Sampler optionally overrides the default sampler configuration for this texture.
	Sampler *SamplerStagingData
}

// SamplerStagingData holds the configuration for a sampler pending GPU creation.
// Zero-valued fields fall back to the backend defaults (clamp-to-edge addressing,
// linear magnification, nearest minification).
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp clamp the mipmap level of detail range.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy is the maximum anisotropic filtering level (1 disables anisotropic filtering).
	MaxAnisotropy uint16
}

// RawRGBA is a raw pixel buffer source for texture construction, bypassing any
// on-disk image format. Pixels must be RGBA, 4 bytes per pixel, row-major order.
type RawRGBA struct {
	Pixels []byte
	Width  uint32
	Height uint32
}

// DecodeImageFile opens and decodes an image file to raw RGBA staging data.
// Supports PNG, JPEG and BMP formats.
// Reference: https://pkg.go.dev/image
//
// Parameters:
//   - path: the image file path
//
// Returns:
//   - TextureStagingData: raw RGBA pixel data (4 bytes per pixel, row-major order) with dimensions
//   - error: error if the file cannot be opened or decoded
func DecodeImageFile(path string) (TextureStagingData, error) {
	file, err := os.Open(path)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()

	staging, err := DecodeImage(file)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to decode image file %s: %w", path, err)
	}
	return staging, nil
}

// DecodeImage decodes an image stream to raw RGBA staging data.
// Supports PNG, JPEG and BMP formats.
//
// Parameters:
//   - r: the reader providing encoded image data
//
// Returns:
//   - TextureStagingData: raw RGBA pixel data with dimensions
//   - error: error if decoding fails
func DecodeImage(r io.Reader) (TextureStagingData, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return TextureStagingData{}, err
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}, nil
}
