package portfolio

import (
	"context"
	"time"

	"github.com/spaghettifunk/folio/engine"
	"github.com/spaghettifunk/folio/engine/assets"
	"github.com/spaghettifunk/folio/engine/core"
	"github.com/spaghettifunk/folio/engine/math"
)

// PortfolioGame hosts the page inside the engine loop.
type PortfolioGame struct {
	*engine.Game
	ctx context.Context
}

type gameState struct {
	host     *engine.Engine
	page     *Page
	watcher  *assets.Watcher
	listener core.ListenerID

	width  uint32
	height uint32
}

func NewPortfolioGame(ctx context.Context, config *engine.ApplicationConfig) *PortfolioGame {
	pg := &PortfolioGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State:             &gameState{},
		},
		ctx: ctx,
	}

	pg.FnInitialize = pg.Initialize
	pg.FnUpdate = pg.Update
	pg.FnOnResize = pg.OnResize
	pg.FnShutdown = pg.Shutdown

	return pg
}

func (g *PortfolioGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *PortfolioGame) Initialize(host *engine.Engine) error {
	core.LogInfo("initializing portfolio...")
	state := g.state()
	state.host = host

	content, err := LoadContent(g.ApplicationConfig.ContentPath)
	if err != nil {
		return err
	}

	seed := g.ApplicationConfig.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	state.page = NewPage(content, math.NewRandom(seed))

	if g.ApplicationConfig.Watch && len(g.ApplicationConfig.ContentPath) > 0 {
		if err := g.watch(host.EventBus()); err != nil {
			// Hot reload is a convenience; the page works without it.
			core.LogWarn("content watch disabled: %s", err)
		}
	}

	state.page.Start(g.ctx, host)
	return nil
}

func (g *PortfolioGame) watch(bus *core.EventBus) error {
	state := g.state()
	w, err := assets.NewWatcher(bus)
	if err != nil {
		return err
	}
	if err := w.Watch(g.ApplicationConfig.ContentPath); err != nil {
		w.Close()
		return err
	}
	id, _ := bus.Register(assets.EVENT_CODE_ASSET_CHANGED, g, g.onContentChanged)
	state.watcher = w
	state.listener = id
	core.LogInfo("watching %s for changes", g.ApplicationConfig.ContentPath)
	return nil
}

func (g *PortfolioGame) onContentChanged(context core.EventContext) bool {
	content, err := LoadContent(g.ApplicationConfig.ContentPath)
	if err != nil {
		core.LogError("content reload failed, keeping current content: %s", err)
		return true
	}
	g.state().page.Reload(content)
	return true
}

func (g *PortfolioGame) Update(deltaTime float64) error {
	if page := g.state().page; page != nil {
		page.Tick()
	}
	return nil
}

func (g *PortfolioGame) OnResize(width uint32, height uint32) error {
	state := g.state()
	state.width = width
	state.height = height
	// Running scenes follow the resize event themselves; only the text needs rewrapping.
	if state.page != nil {
		if rt := state.page.Active().Runtime(); rt != nil {
			rt.SetOverlay(state.page.Active().Overlay())
		}
	}
	return nil
}

func (g *PortfolioGame) Shutdown() error {
	core.LogInfo("shutting down portfolio...")
	state := g.state()
	if state.page != nil {
		state.page.Stop()
	}
	if state.watcher != nil {
		state.host.EventBus().Unregister(state.listener)
		return state.watcher.Close()
	}
	return nil
}

func (g *PortfolioGame) Page() *Page {
	return g.state().page
}
