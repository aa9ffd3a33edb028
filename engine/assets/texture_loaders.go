package assets

import (
	"fmt"

	"github.com/embergfx/ember/common"
	"github.com/embergfx/ember/engine/renderer2d/backend"
)

// TextureFileLoader loads Texture2D assets from image files on disk. PNG,
// JPEG and BMP are supported.
type TextureFileLoader struct {
	backend backend.RendererBackend
}

var _ Loader[Texture2D, string] = &TextureFileLoader{}

// NewTextureFileLoader creates a TextureFileLoader uploading through the
// given backend.
//
// Parameters:
//   - b: the renderer backend used for GPU texture creation
//
// Returns:
//   - *TextureFileLoader: the loader
func NewTextureFileLoader(b backend.RendererBackend) *TextureFileLoader {
	return &TextureFileLoader{backend: b}
}

func (l *TextureFileLoader) Load(path string) (Texture2D, error) {
	staging, err := common.DecodeImageFile(path)
	if err != nil {
		return Texture2D{}, err
	}

	binding, err := l.backend.CreateTexture(path, staging)
	if err != nil {
		return Texture2D{}, fmt.Errorf("failed to create texture for %s: %w", path, err)
	}

	return Texture2D{
		Width:   staging.Width,
		Height:  staging.Height,
		Binding: binding,
	}, nil
}

// RawImageLoader loads Texture2D assets from in-memory RGBA pixel buffers,
// bypassing image decoding. The renderer uses it for its built-in white
// texture; it is also the path for procedurally generated textures.
type RawImageLoader struct {
	backend backend.RendererBackend
}

var _ Loader[Texture2D, common.RawRGBA] = &RawImageLoader{}

// NewRawImageLoader creates a RawImageLoader uploading through the given
// backend.
//
// Parameters:
//   - b: the renderer backend used for GPU texture creation
//
// Returns:
//   - *RawImageLoader: the loader
func NewRawImageLoader(b backend.RendererBackend) *RawImageLoader {
	return &RawImageLoader{backend: b}
}

func (l *RawImageLoader) Load(src common.RawRGBA) (Texture2D, error) {
	if uint32(len(src.Pixels)) != src.Width*src.Height*4 {
		return Texture2D{}, fmt.Errorf("raw image pixel count %d does not match %dx%d RGBA", len(src.Pixels), src.Width, src.Height)
	}

	binding, err := l.backend.CreateTexture(fmt.Sprintf("raw %dx%d", src.Width, src.Height), common.TextureStagingData{
		Pixels: src.Pixels,
		Width:  src.Width,
		Height: src.Height,
	})
	if err != nil {
		return Texture2D{}, fmt.Errorf("failed to create texture from raw pixels: %w", err)
	}

	return Texture2D{
		Width:   src.Width,
		Height:  src.Height,
		Binding: binding,
	}, nil
}

// RegisterTextureLoaders registers Texture2D with the registry and binds the
// file and raw-image loaders as defaults for their source types. Typical
// engine setup calls this once after the backend is created.
//
// Parameters:
//   - r: the registry to configure
//   - b: the renderer backend used for GPU texture creation
//
// Returns:
//   - error: ErrAlreadyRegistered if Texture2D was already registered
func RegisterTextureLoaders(r *Registry, b backend.RendererBackend) error {
	if err := Register[Texture2D](r); err != nil {
		return err
	}
	RegisterDefaultLoader(r, NewTextureFileLoader(b))
	RegisterDefaultLoader(r, NewRawImageLoader(b))
	return nil
}
