// Package renderer2d draws batches of textured quads. Draw calls between
// Begin and Submit are grouped by texture and depth index, so a frame with
// thousands of quads sharing a handful of textures collapses into a handful
// of instanced draws. Depth ordering follows the painter's algorithm: lower
// depth indices are drawn first and covered by higher ones.
package renderer2d

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/embergfx/ember/common"
	"github.com/embergfx/ember/engine/assets"
	"github.com/embergfx/ember/engine/camera"
	"github.com/embergfx/ember/engine/logger"
	"github.com/embergfx/ember/engine/renderer2d/backend"
	"github.com/embergfx/ember/engine/shapes"
	"go.uber.org/zap"
)

var (
	// ErrNotRecording is returned when DrawQuad, DrawQuadTextured or Submit
	// is called without a preceding Begin.
	ErrNotRecording = errors.New("renderer is not recording; call Begin first")
	// ErrAlreadyRecording is returned when Begin is called twice without an
	// intervening Submit.
	ErrAlreadyRecording = errors.New("renderer is already recording; call Submit first")
)

// batchCapacityHint presizes each batch's instance slice so steady-state
// frames append without growing.
const batchCapacityHint = 1024

// batchKey groups quads that can be drawn with a single instanced draw call:
// same texture, same depth index.
type batchKey struct {
	texture assets.Handle[assets.Texture2D]
	depth   int32
}

type renderer2DImpl struct {
	mu *sync.Mutex

	backend  backend.RendererBackend
	registry *assets.Registry

	// batches persist across frames so their instance buffers are reused;
	// Begin only clears their contents.
	batches   map[batchKey]*instanceBatch
	recording bool

	clear         common.Color
	cameraUniform camera.GPUCameraUniform

	whiteTexture assets.Handle[assets.Texture2D]
}

// Renderer2D records quads for one frame at a time and submits them as
// texture-and-depth batches. Frames follow a strict Begin, draw, Submit
// cycle; calls outside that cycle fail with ErrNotRecording or
// ErrAlreadyRecording rather than corrupting the frame.
type Renderer2D interface {
	// Begin starts recording a frame, clearing every batch from the previous
	// one. The clear color and camera apply to the whole frame.
	//
	// Parameters:
	//   - clear: the background color the frame is cleared to
	//   - cam: the camera whose view-projection the frame is drawn with
	//
	// Returns:
	//   - error: ErrAlreadyRecording if a frame is already being recorded
	Begin(clear common.Color, cam camera.Camera2D) error

	// DrawQuad records a quad drawn with the renderer's built-in white
	// texture, so only its color shows.
	//
	// Parameters:
	//   - q: the quad to draw
	//
	// Returns:
	//   - error: ErrNotRecording outside a Begin/Submit cycle
	DrawQuad(q *shapes.Quad) error

	// DrawQuadTextured records a quad sampling the given texture region.
	// Quads sharing a texture and depth index land in the same batch and
	// keep their submission order within it.
	//
	// Parameters:
	//   - q: the quad to draw
	//   - tex: the texture to sample
	//   - region: the normalized sub-region of the texture to sample
	//
	// Returns:
	//   - error: ErrNotRecording outside a Begin/Submit cycle
	DrawQuadTextured(q *shapes.Quad, tex assets.Handle[assets.Texture2D], region assets.UVRegion) error

	// Submit uploads the recorded batches and draws the frame. Batches are
	// drawn in ascending depth order; equal depths are ordered by texture
	// handle id so submission is deterministic. A transient surface failure
	// reconfigures the surface, skips the frame, and reports success.
	//
	// Returns:
	//   - error: ErrNotRecording without a preceding Begin, or a fatal
	//     surface or buffer failure
	Submit() error

	// Resize reconfigures the surface for a new drawable size.
	//
	// Parameters:
	//   - width, height: the new surface size in pixels
	Resize(width, height int)

	// WhiteTexture returns the handle of the built-in 1x1 opaque white
	// texture used by DrawQuad.
	//
	// Returns:
	//   - assets.Handle[assets.Texture2D]: the white texture handle
	WhiteTexture() assets.Handle[assets.Texture2D]
}

var _ Renderer2D = &renderer2DImpl{}

// NewRenderer2D creates a Renderer2D drawing through the given backend and
// resolving textures from the given registry. The registry must already have
// Texture2D loaders registered (see assets.RegisterTextureLoaders): the
// built-in white texture is loaded through the same raw-image path as user
// textures.
//
// Parameters:
//   - be: the GPU backend to draw through
//   - registry: the registry texture handles resolve against
//
// Returns:
//   - Renderer2D: the renderer
//   - error: an error if the built-in white texture cannot be created
func NewRenderer2D(be backend.RendererBackend, registry *assets.Registry) (Renderer2D, error) {
	white, err := assets.Load[assets.Texture2D](registry, common.RawRGBA{
		Pixels: []byte{255, 255, 255, 255},
		Width:  1,
		Height: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create white texture: %w", err)
	}

	return &renderer2DImpl{
		mu:           &sync.Mutex{},
		backend:      be,
		registry:     registry,
		batches:      make(map[batchKey]*instanceBatch),
		whiteTexture: white,
	}, nil
}

func (r *renderer2DImpl) Begin(clear common.Color, cam camera.Camera2D) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		return ErrAlreadyRecording
	}

	r.clear = clear
	r.cameraUniform = camera.NewGPUCameraUniform(cam.ViewProjection())
	for _, batch := range r.batches {
		batch.clear()
	}
	r.recording = true

	return nil
}

func (r *renderer2DImpl) DrawQuad(q *shapes.Quad) error {
	return r.DrawQuadTextured(q, r.whiteTexture, assets.FullTexture)
}

func (r *renderer2DImpl) DrawQuadTextured(q *shapes.Quad, tex assets.Handle[assets.Texture2D], region assets.UVRegion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return ErrNotRecording
	}

	key := batchKey{texture: tex, depth: q.DepthIndex}
	batch, ok := r.batches[key]
	if !ok {
		batch = newInstanceBatch(batchCapacityHint)
		r.batches[key] = batch
	}
	batch.push(NewGPUQuadInstance(q, region))

	return nil
}

func (r *renderer2DImpl) Submit() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return ErrNotRecording
	}
	r.recording = false

	if err := r.backend.BeginFrame(r.clear); err != nil {
		var surfaceErr *backend.SurfaceError
		if errors.As(err, &surfaceErr) && surfaceErr.Transient {
			// The swapchain was invalidated (resize, occlusion, ...).
			// Reconfigure at the current size and let the next frame retry.
			width, height := r.backend.SurfaceSize()
			r.backend.ConfigureSurface(width, height)
			logger.Debug("surface invalidated, skipping frame", zap.Error(err))
			return nil
		}
		logger.Error("failed to acquire frame", zap.Error(err), zap.Int("batches", len(r.batches)))
		return err
	}

	r.backend.WriteCamera(r.cameraUniform.Marshal())

	for _, key := range r.sortedBatchKeys() {
		batch := r.batches[key]

		tex, err := assets.Get(r.registry, key.texture)
		if err != nil {
			// A dangling handle skips its batch but never aborts the frame
			// mid-pass.
			logger.Warn("skipping batch with unresolvable texture", zap.Stringer("handle", key.texture), zap.Error(err))
			continue
		}

		r.backend.BindTexture(tex.Binding)
		label := fmt.Sprintf("Quad Instances tex=%d depth=%d", key.texture.ID(), key.depth)
		if err := batch.upload(r.backend, label); err != nil {
			r.backend.EndFrame()
			r.backend.Present()
			return fmt.Errorf("failed to upload batch %s: %w", label, err)
		}
	}

	r.backend.EndFrame()
	r.backend.Present()

	return nil
}

// sortedBatchKeys returns the keys of every non-empty batch in draw order:
// ascending depth, then ascending texture handle id.
func (r *renderer2DImpl) sortedBatchKeys() []batchKey {
	keys := make([]batchKey, 0, len(r.batches))
	for key, batch := range r.batches {
		if batch.len() == 0 {
			continue
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].depth != keys[j].depth {
			return keys[i].depth < keys[j].depth
		}
		return keys[i].texture.ID() < keys[j].texture.ID()
	})
	return keys
}

func (r *renderer2DImpl) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer2DImpl) WhiteTexture() assets.Handle[assets.Texture2D] {
	return r.whiteTexture
}
