package portfolio

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/spaghettifunk/folio/engine/core"
	"github.com/spaghettifunk/folio/engine/math"
	"github.com/spaghettifunk/folio/engine/renderer"
	"github.com/spaghettifunk/folio/engine/renderer/headless"
	"github.com/spaghettifunk/folio/engine/scene"
)

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

// fakeHost hands out headless surfaces and runs frames on demand.
type fakeHost struct {
	loop     *core.FrameLoop
	bus      *core.EventBus
	viewport scene.Viewport
	acquired []*headless.Backend
	err      error
	title    string
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		loop:     core.NewFrameLoop(time.Now),
		bus:      core.NewEventBus(),
		viewport: scene.Viewport{Width: 64, Height: 48, PixelRatio: 1},
	}
}

func (h *fakeHost) AcquireSurface(name string) (renderer.Surface, error) {
	if h.err != nil {
		return nil, h.err
	}
	backend := headless.New()
	h.acquired = append(h.acquired, backend)
	return renderer.NewFrontend(backend, 0, 0), nil
}

func (h *fakeHost) Viewport() scene.Viewport {
	return h.viewport
}

func (h *fakeHost) SceneOptions() []scene.Option {
	return []scene.Option{
		scene.WithScheduler(h.loop),
		scene.WithEventBus(h.bus),
		scene.WithRandom(math.NewRandom(3)),
	}
}

func (h *fakeHost) EventBus() *core.EventBus {
	return h.bus
}

func (h *fakeHost) SetTitle(title string) {
	h.title = title
}

func mustContent(t *testing.T) *Content {
	t.Helper()
	c, err := DefaultContent()
	if err != nil {
		t.Fatalf("Expected built-in content to parse, got %v", err)
	}
	return c
}
