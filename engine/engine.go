// Package engine ties the window, GPU backend, asset registry, camera, and
// quad renderer into a running application: a fixed-rate tick loop for game
// logic and a render loop that records and submits one frame per iteration.
package engine

import (
	"sync"
	"time"

	"github.com/embergfx/ember/common"
	"github.com/embergfx/ember/engine/assets"
	"github.com/embergfx/ember/engine/camera"
	"github.com/embergfx/ember/engine/config"
	"github.com/embergfx/ember/engine/logger"
	"github.com/embergfx/ember/engine/profiler"
	"github.com/embergfx/ember/engine/renderer2d"
	"github.com/embergfx/ember/engine/renderer2d/backend"
	"github.com/embergfx/ember/engine/window"
	"go.uber.org/zap"
)

type engineImpl struct {
	tickRateChannel chan time.Duration

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once

	cfg *config.Config

	window   window.Window
	backend  backend.RendererBackend
	registry *assets.Registry
	renderer renderer2d.Renderer2D
	camera   camera.Camera2D

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32, r renderer2d.Renderer2D)

	clearColor common.Color

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point. It owns the window and GPU resources and
// orchestrates the tick loop, the render loop, and the window message loop.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Registry returns the engine's asset registry, preconfigured with
	// texture loaders bound to the GPU backend.
	//
	// Returns:
	//   - *assets.Registry: the registry
	Registry() *assets.Registry

	// Renderer returns the quad renderer. Most code receives it through the
	// render callback instead.
	//
	// Returns:
	//   - renderer2d.Renderer2D: the renderer
	Renderer() renderer2d.Renderer2D

	// Camera returns the engine's 2D camera. The engine resizes it with the
	// window; callers may replace or drive it between frames.
	//
	// Returns:
	//   - camera.Camera2D: the camera
	Camera() camera.Camera2D

	// EnableProfiler enables frame statistics output to the log.
	EnableProfiler()

	// DisableProfiler disables frame statistics output.
	DisableProfiler()

	// SetTickRate sets the tick rate in ticks per second. Takes effect
	// immediately if the engine is running.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick. Use it
	// for game logic, physics, and input processing.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each frame between
	// Begin and Submit. Record quads on the passed renderer; the engine
	// handles the frame lifecycle around it.
	//
	// Parameters:
	//   - callback: function receiving the delta time and the recording renderer
	SetRenderCallback(callback func(deltaTime float32, r renderer2d.Renderer2D))

	// SetRenderFrameLimit caps the render loop in frames per second.
	// Pass 0 to uncap (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// SetClearColor sets the background color frames are cleared to.
	//
	// Parameters:
	//   - color: the clear color
	SetClearColor(color common.Color)

	// Run starts the tick and render goroutines and blocks in the window
	// message loop until the window closes.
	Run()

	// Quit signals all engine goroutines to stop. Safe to call multiple
	// times.
	Quit()
}

var _ Engine = &engineImpl{}

// NewEngine creates an Engine from the configuration file (falling back to
// defaults), applies the given options, then brings up the window, the GPU
// backend, the asset registry, and the renderer.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine, ready to Run
func NewEngine(options ...EngineBuilderOption) Engine {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	e := &engineImpl{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		cfg:             cfg,
		profiler:        profiler.NewProfiler(),
		engineTickRate:  time.Second / time.Duration(max(cfg.Graphics.TickRate, 1)),
		clearColor: common.Color{
			R: cfg.Graphics.ClearColor.R,
			G: cfg.Graphics.ClearColor.G,
			B: cfg.Graphics.ClearColor.B,
			A: cfg.Graphics.ClearColor.A,
		},
	}
	if cfg.Graphics.FPSLimit > 0 {
		e.renderFrameLimit = time.Second / time.Duration(cfg.Graphics.FPSLimit)
	}

	for _, opt := range options {
		opt(e)
	}

	if err := logger.Init(e.cfg.Logging.Level, e.cfg.Logging.LogFile); err != nil {
		panic(err)
	}

	if e.window == nil {
		e.window = window.NewWindow(
			window.WithTitle(e.cfg.Window.Title),
			window.WithWidth(e.cfg.Window.Width),
			window.WithHeight(e.cfg.Window.Height),
		)
	}

	if e.backend == nil {
		e.backend = backend.NewWGPU(e.window.SurfaceDescriptor(), false)
	}
	if !e.cfg.Graphics.VSync {
		e.backend.SetPresentMode(backend.PresentModeUncapped)
	}
	e.backend.ConfigureSurface(e.window.Width(), e.window.Height())

	if e.registry == nil {
		e.registry = assets.NewRegistry()
	}
	if err := assets.RegisterTextureLoaders(e.registry, e.backend); err != nil {
		panic(err)
	}

	renderer, err := renderer2d.NewRenderer2D(e.backend, e.registry)
	if err != nil {
		panic(err)
	}
	e.renderer = renderer

	e.camera = camera.NewCamera2D(float32(e.window.Width()), float32(e.window.Height()))

	e.window.SetResizeCallback(func(width, height int) {
		e.renderer.Resize(width, height)
		e.camera.Resize(float32(width), float32(height))
	})

	return e
}

func (e *engineImpl) Window() window.Window {
	return e.window
}

func (e *engineImpl) Registry() *assets.Registry {
	return e.registry
}

func (e *engineImpl) Renderer() renderer2d.Renderer2D {
	return e.renderer
}

func (e *engineImpl) Camera() camera.Camera2D {
	return e.camera
}

func (e *engineImpl) Run() {
	e.running = true
	e.handle()
	e.window.ProcessMessages()
	e.signalQuit()
	e.wg.Wait()
	logger.Sync()
}

func (e *engineImpl) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to stop the loop goroutines. sync.Once
// keeps repeated Quit calls safe.
func (e *engineImpl) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		close(e.quitChannel)
	})
}

// handle launches the tick and render goroutines.
func (e *engineImpl) handle() {
	e.wg.Add(2)
	go e.handleTick()
	go e.handleRender()
}

// handleTick runs the fixed-rate tick loop in its own goroutine. Fires the
// tick callback at the configured rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engineImpl) handleTick() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the render loop in its own goroutine. Each iteration is
// one full frame: Begin, the render callback's draws, Submit. Recovers from
// panics so a bad frame shuts the engine down instead of crashing the
// process.
func (e *engineImpl) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("render goroutine recovered from panic", zap.Any("panic", r))
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			if err := e.renderer.Begin(e.clearColor, e.camera); err != nil {
				logger.Error("failed to begin frame", zap.Error(err))
				e.signalQuit()
				return
			}
			if e.renderCallback != nil {
				e.renderCallback(dt, e.renderer)
			}
			if err := e.renderer.Submit(); err != nil {
				logger.Error("failed to submit frame", zap.Error(err))
				e.signalQuit()
				return
			}

			if e.profilingEnabled && e.profiler != nil {
				e.profiler.Tick()
			}

			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

func (e *engineImpl) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engineImpl) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the tick rate in ticks per second. If the engine is
// running the change is delivered to the tick goroutine through the rate
// channel.
func (e *engineImpl) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	if e.running {
		// Non-blocking send; replace any pending value so the latest rate
		// wins.
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

func (e *engineImpl) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engineImpl) SetRenderCallback(callback func(deltaTime float32, r renderer2d.Renderer2D)) {
	e.renderCallback = callback
}

func (e *engineImpl) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Second / time.Duration(fps)
}

func (e *engineImpl) SetClearColor(color common.Color) {
	e.clearColor = color
}
