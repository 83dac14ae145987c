package portfolio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spaghettifunk/folio/engine/core"
	"github.com/spaghettifunk/folio/engine/math"
	"github.com/spaghettifunk/folio/engine/renderer"
	"github.com/spaghettifunk/folio/engine/renderer/headless"
	"github.com/spaghettifunk/folio/engine/renderer/metadata"
	"github.com/spaghettifunk/folio/engine/scene"
)

type SnapshotOptions struct {
	Width      uint32
	Height     uint32
	PixelRatio float32
	// Frames rendered before a scene is captured.
	Frames    int
	Seed      uint64
	OutputDir string
}

// snapshotHost gives each section its own loop, bus and software surface.
type snapshotHost struct {
	loop     *core.FrameLoop
	bus      *core.EventBus
	rng      *math.Random
	viewport scene.Viewport
	backend  *headless.Backend
	surface  *renderer.Frontend
}

func newSnapshotHost(opts SnapshotOptions, rng *math.Random) *snapshotHost {
	backend := headless.New()
	return &snapshotHost{
		loop:     core.NewFrameLoop(time.Now),
		bus:      core.NewEventBus(),
		rng:      rng,
		viewport: scene.Viewport{Width: opts.Width, Height: opts.Height, PixelRatio: opts.PixelRatio},
		backend:  backend,
		surface:  renderer.NewFrontend(backend, opts.Width, opts.Height),
	}
}

func (h *snapshotHost) AcquireSurface(string) (renderer.Surface, error) {
	return h.surface, nil
}

func (h *snapshotHost) Viewport() scene.Viewport {
	return h.viewport
}

func (h *snapshotHost) SceneOptions() []scene.Option {
	return []scene.Option{
		scene.WithScheduler(h.loop),
		scene.WithEventBus(h.bus),
		scene.WithRandom(h.rng),
	}
}

func (h *snapshotHost) EventBus() *core.EventBus {
	return h.bus
}

// renderText draws a frame holding only the section text.
func (h *snapshotHost) renderText(lines []string) error {
	surface := renderer.NewFrontend(h.backend, h.viewport.Width, h.viewport.Height)
	defer surface.Dispose()
	if err := surface.Resize(h.viewport.Width, h.viewport.Height, h.viewport.PixelRatio); err != nil {
		return err
	}
	if err := surface.Attach(); err != nil {
		return err
	}
	return surface.RenderFrame(&metadata.RenderPacket{
		ViewMatrix:       math.NewMat4Identity(),
		ProjectionMatrix: math.NewMat4Identity(),
		ClearColour:      math.NewVec4(background.X, background.Y, background.Z, 1),
		Overlay:          lines,
	})
}

// Snapshot renders every section into a PNG under opts.OutputDir and returns
// the written paths in page order.
func Snapshot(ctx context.Context, content *Content, opts SnapshotOptions) ([]string, error) {
	if opts.Width == 0 || opts.Height == 0 {
		return nil, fmt.Errorf("snapshot size %dx%d: %w", opts.Width, opts.Height, core.ErrInvalidConfig)
	}
	if opts.Frames < 1 {
		opts.Frames = 1
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, err
	}

	rng := math.NewRandom(opts.Seed)
	var paths []string
	for i, section := range NewSections(content) {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		path := filepath.Join(opts.OutputDir, fmt.Sprintf("%02d-%s.png", i, section.ID()))
		if err := snapshotSection(ctx, section, rng, opts, path); err != nil {
			return paths, fmt.Errorf("section %s: %w", section.ID(), err)
		}
		core.LogInfo("wrote %s", path)
		paths = append(paths, path)
	}
	return paths, nil
}

func snapshotSection(ctx context.Context, section Section, rng *math.Random, opts SnapshotOptions, path string) error {
	host := newSnapshotHost(opts, rng)
	view := NewSectionView(section, rng)
	view.Mount(ctx, host)
	defer view.Unmount()

	if view.State() == ViewRunning {
		for n := 0; n < opts.Frames; n++ {
			host.loop.RunFrame()
		}
	} else if err := host.renderText(view.Overlay()); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := host.backend.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
