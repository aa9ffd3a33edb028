package engine

import (
	"time"

	"github.com/embergfx/ember/common"
	"github.com/embergfx/ember/engine/assets"
	"github.com/embergfx/ember/engine/config"
	"github.com/embergfx/ember/engine/window"
)

// EngineBuilderOption is a functional option for configuring the engine
// during creation.
type EngineBuilderOption func(*engineImpl)

// WithConfig replaces the configuration loaded from disk.
//
// Parameters:
//   - cfg: the configuration to use
//
// Returns:
//   - EngineBuilderOption: the option function
func WithConfig(cfg *config.Config) EngineBuilderOption {
	return func(e *engineImpl) {
		if cfg == nil {
			return
		}
		e.cfg = cfg
		e.engineTickRate = time.Second / time.Duration(max(cfg.Graphics.TickRate, 1))
		e.clearColor = common.Color{
			R: cfg.Graphics.ClearColor.R,
			G: cfg.Graphics.ClearColor.G,
			B: cfg.Graphics.ClearColor.B,
			A: cfg.Graphics.ClearColor.A,
		}
		if cfg.Graphics.FPSLimit > 0 {
			e.renderFrameLimit = time.Second / time.Duration(cfg.Graphics.FPSLimit)
		} else {
			e.renderFrameLimit = 0
		}
	}
}

// WithWindow supplies a pre-built window instead of creating one from the
// configuration.
//
// Parameters:
//   - w: the window to use
//
// Returns:
//   - EngineBuilderOption: the option function
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engineImpl) {
		e.window = w
	}
}

// WithRegistry supplies a pre-built asset registry. Texture loaders are
// still registered on it during engine creation.
//
// Parameters:
//   - r: the registry to use
//
// Returns:
//   - EngineBuilderOption: the option function
func WithRegistry(r *assets.Registry) EngineBuilderOption {
	return func(e *engineImpl) {
		e.registry = r
	}
}

// WithProfiling enables frame statistics logging from the first frame.
//
// Returns:
//   - EngineBuilderOption: the option function
func WithProfiling() EngineBuilderOption {
	return func(e *engineImpl) {
		e.profilingEnabled = true
	}
}

// WithTickRate sets the tick rate in ticks per second.
//
// Parameters:
//   - fps: target ticks per second
//
// Returns:
//   - EngineBuilderOption: the option function
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engineImpl) {
		if fps <= 0 {
			fps = 60
		}
		e.engineTickRate = time.Second / time.Duration(fps)
	}
}

// WithRenderFrameLimit caps the render loop in frames per second.
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: the option function
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engineImpl) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Second / time.Duration(fps)
	}
}

// WithClearColor sets the background color frames are cleared to.
//
// Parameters:
//   - color: the clear color
//
// Returns:
//   - EngineBuilderOption: the option function
func WithClearColor(color common.Color) EngineBuilderOption {
	return func(e *engineImpl) {
		e.clearColor = color
	}
}
