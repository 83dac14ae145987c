package engine

// Game is the application the engine hosts. Hooks left nil are skipped.
type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

// Initialize runs once the host is ready to hand out surfaces.
type Initialize func(host *Engine) error

// Update runs once per frame after every scheduled frame callback.
type Update func(deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
