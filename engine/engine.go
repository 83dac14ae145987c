package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/spaghettifunk/folio/engine/core"
	"github.com/spaghettifunk/folio/engine/math"
	"github.com/spaghettifunk/folio/engine/platform"
	"github.com/spaghettifunk/folio/engine/renderer"
	"github.com/spaghettifunk/folio/engine/renderer/headless"
	"github.com/spaghettifunk/folio/engine/renderer/opengl"
	"github.com/spaghettifunk/folio/engine/scene"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

const targetFrameSeconds float64 = 1.0 / 60.0

// Engine is the host loop. It owns the platform, the event bus and the frame
// loop every scene runtime schedules on, and hands out render surfaces.
type Engine struct {
	currentStage Stage
	gameInstance *Game
	config       *ApplicationConfig
	isRunning    bool
	isSuspended  bool

	platform *platform.Platform
	input    *core.Input
	bus      *core.EventBus
	loop     *core.FrameLoop
	clock    *core.Clock
	metrics  *core.FrameMetrics
	rng      *math.Random

	width      uint32
	height     uint32
	pixelRatio float32
	lastTime   float64
	listeners  []core.ListenerID
}

func New(g *Game) (*Engine, error) {
	config := g.ApplicationConfig
	if config == nil {
		config = DefaultApplicationConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	core.SetLogLevel(core.ParseLogLevel(config.LogLevel))

	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	bus := core.NewEventBus()
	e := &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		config:       config,
		bus:          bus,
		input:        core.NewInput(bus),
		loop:         core.NewFrameLoop(time.Now),
		clock:        core.NewClock(),
		metrics:      core.NewFrameMetrics(),
		rng:          math.NewRandom(seed),
		width:        config.StartWidth,
		height:       config.StartHeight,
		pixelRatio:   1,
	}
	if config.PixelRatio > 0 {
		e.pixelRatio = config.PixelRatio
	}
	if config.Backend == BackendOpenGL {
		e.platform = platform.New(e.input)
	}
	return e, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	e.register(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent)
	e.register(core.EVENT_CODE_KEY_PRESSED, e.onKey)
	e.register(core.EVENT_CODE_RESIZED, e.onResized)

	if e.platform != nil {
		if err := e.platform.Startup(e.config.Name,
			e.config.StartPosX,
			e.config.StartPosY,
			e.config.StartWidth,
			e.config.StartHeight); err != nil {
			return err
		}
		w, h, ratio := e.platform.WindowSize()
		e.width, e.height = w, h
		if e.config.PixelRatio <= 0 {
			e.pixelRatio = ratio
		}
		// The startup resize is already applied.
		e.bus.Dispatch()
	} else {
		e.input.ProcessResize(e.width, e.height, e.pixelRatio)
		e.bus.Dispatch()
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(e); err != nil {
			return err
		}
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}
	e.clock.Start()
	e.lastTime = 0
	e.isRunning = true
	e.currentStage = EngineStageInitialized
	core.LogInfo("engine initialized with %s backend at %dx%d", e.config.Backend, e.width, e.height)
	return nil
}

func (e *Engine) register(code core.SystemEventCode, fn core.FnOnEvent) {
	if id, ok := e.bus.Register(code, e, fn); ok {
		e.listeners = append(e.listeners, id)
	}
}

// Run drives frames until the window closes, a quit event arrives or ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	e.currentStage = EngineStageRunning
	for e.isRunning {
		if ctx.Err() != nil {
			core.LogInfo("context cancelled, shutting down.")
			break
		}
		if e.platform != nil && !e.platform.PumpMessages() {
			e.isRunning = false
			break
		}
		frameStart := time.Now()
		if err := e.Frame(); err != nil {
			return err
		}
		// Without a vsynced swap, give the remaining frame time back to the OS.
		if e.platform == nil {
			if remaining := targetFrameSeconds - time.Since(frameStart).Seconds(); remaining > 0 {
				time.Sleep(time.Duration(remaining * float64(time.Second)))
			}
		}
	}
	return nil
}

// Frame dispatches queued input, then runs one frame of every scheduled
// callback followed by the game update.
func (e *Engine) Frame() error {
	e.bus.Dispatch()
	if !e.isRunning || e.isSuspended {
		return nil
	}

	e.clock.Update()
	currentTime := e.clock.Elapsed()
	delta := currentTime - e.lastTime

	e.loop.RunFrame()
	if e.gameInstance.FnUpdate != nil {
		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("game update failed, shutting down: %s", err)
			e.isRunning = false
			return err
		}
	}
	e.metrics.Update(delta)

	// NOTE: Input update/state copying should always be handled
	// after any input should be recorded; I.E. before this line.
	e.input.Update()
	e.lastTime = currentTime
	return nil
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	e.isRunning = false
	var err error
	if e.gameInstance.FnShutdown != nil {
		err = e.gameInstance.FnShutdown()
	}
	for _, id := range e.listeners {
		e.bus.Unregister(id)
	}
	e.listeners = nil
	e.bus.Shutdown()
	if e.platform != nil {
		if perr := e.platform.Shutdown(); perr != nil && err == nil {
			err = perr
		}
	}
	return err
}

// AcquireSurface returns a new surface for one scene. Windowed hosts share
// the window's context, so only one surface should be live at a time.
func (e *Engine) AcquireSurface(name string) (renderer.Surface, error) {
	switch e.config.Backend {
	case BackendHeadless:
		return renderer.NewFrontend(headless.New(), e.width, e.height), nil
	case BackendOpenGL:
		if e.platform == nil || e.platform.Window == nil {
			return nil, fmt.Errorf("no window for surface %q: %w", name, core.ErrSurfaceNotReady)
		}
		return renderer.NewFrontend(opengl.New(e.platform.SwapBuffers), e.width, e.height), nil
	}
	return nil, fmt.Errorf("unknown backend %q: %w", e.config.Backend, core.ErrInvalidConfig)
}

func (e *Engine) Viewport() scene.Viewport {
	return scene.Viewport{Width: e.width, Height: e.height, PixelRatio: e.pixelRatio}
}

// SceneOptions ties a runtime to this engine's frame loop, events and seed.
func (e *Engine) SceneOptions() []scene.Option {
	return []scene.Option{
		scene.WithScheduler(e.loop),
		scene.WithEventBus(e.bus),
		scene.WithRandom(e.rng),
	}
}

func (e *Engine) EventBus() *core.EventBus {
	return e.bus
}

func (e *Engine) Input() *core.Input {
	return e.input
}

// SetTitle updates the window title when there is a window.
func (e *Engine) SetTitle(title string) {
	if e.platform != nil {
		e.platform.SetTitle(title)
	}
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

// GetFramebufferSize returns the width and height (in this order)
// of the application viewport.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) Metrics() *core.FrameMetrics {
	return e.metrics
}

func (e *Engine) onEvent(context core.EventContext) bool {
	if context.Type == core.EVENT_CODE_APPLICATION_QUIT {
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
		return true
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	if ke.KeyCode == core.KEY_ESCAPE || ke.KeyCode == core.KEY_Q {
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		e.bus.Fire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT, Sender: e})
		// Block anything else from processing this.
		return true
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	width, height := se.WindowWidth, se.WindowHeight
	if se.PixelRatio > 0 && e.config.PixelRatio <= 0 {
		e.pixelRatio = se.PixelRatio
	}

	// Handle minimization
	if width == 0 || height == 0 {
		if !e.isSuspended {
			core.LogInfo("Window minimized, suspending application.")
		}
		e.isSuspended = true
		return false
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if width == e.width && height == e.height {
		return false
	}
	e.width, e.height = width, height
	core.LogDebug("Window resize: %d, %d", width, height)
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError(err.Error())
		}
	}
	// Runtimes listen for the same event.
	return false
}
