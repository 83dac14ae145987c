package engine

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/spaghettifunk/folio/engine/core"
	"github.com/spaghettifunk/folio/engine/math"
	"github.com/spaghettifunk/folio/engine/scene"
)

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

func headlessConfig() *ApplicationConfig {
	config := DefaultApplicationConfig()
	config.Backend = BackendHeadless
	config.StartWidth = 64
	config.StartHeight = 48
	config.Seed = 42
	config.LogLevel = "error"
	return config
}

// sceneGame mounts one runtime on the engine and counts updates.
type sceneGame struct {
	runtime  *scene.Runtime
	updates  int
	resizes  [][2]uint32
	shutdown bool
}

func (s *sceneGame) game(config *ApplicationConfig) *Game {
	return &Game{
		ApplicationConfig: config,
		FnInitialize: func(host *Engine) error {
			surface, err := host.AcquireSurface("test")
			if err != nil {
				return err
			}
			d := &scene.Descriptor{
				Name: "test",
				Particles: &scene.ParticleField{
					Count:     10,
					Bounds:    math.NewVec3(2, 2, 2),
					PointSize: 0.05,
				},
			}
			s.runtime, err = scene.Create(context.Background(), surface, d, host.Viewport(), host.SceneOptions()...)
			return err
		},
		FnUpdate: func(float64) error {
			s.updates++
			return nil
		},
		FnOnResize: func(w, h uint32) error {
			s.resizes = append(s.resizes, [2]uint32{w, h})
			return nil
		},
		FnShutdown: func() error {
			s.shutdown = true
			return s.runtime.Dispose()
		},
	}
}

func TestEngineDrivesScenes(t *testing.T) {
	sg := &sceneGame{}
	e, err := New(sg.game(headlessConfig()))
	if err != nil {
		t.Fatalf("Expected engine, got %v", err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatalf("Expected initialize to succeed, got %v", err)
	}
	if e.Stage() != EngineStageInitialized {
		t.Errorf("Expected initialized stage, got %d", e.Stage())
	}

	for i := 0; i < 3; i++ {
		if err := e.Frame(); err != nil {
			t.Fatalf("Expected frame to succeed, got %v", err)
		}
	}
	if got := sg.runtime.Stats().FramesRendered; got != 3 {
		t.Errorf("Expected 3 rendered frames, got %d", got)
	}
	if sg.updates != 3 {
		t.Errorf("Expected 3 updates, got %d", sg.updates)
	}
	if e.Metrics().Frames() != 3 {
		t.Errorf("Expected 3 frames in the metrics, got %d", e.Metrics().Frames())
	}

	if err := e.Shutdown(); err != nil {
		t.Errorf("Expected clean shutdown, got %v", err)
	}
	if !sg.shutdown || !sg.runtime.Disposed() {
		t.Errorf("Expected the game to release its scene")
	}
}

func TestEngineResizeAndSuspend(t *testing.T) {
	sg := &sceneGame{}
	e, _ := New(sg.game(headlessConfig()))
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()

	e.Input().ProcessResize(128, 64, 3)
	e.Frame()
	if w, h := e.GetFramebufferSize(); w != 128 || h != 64 {
		t.Errorf("Expected 128x64, got %dx%d", w, h)
	}
	if len(sg.resizes) != 2 || sg.resizes[1] != [2]uint32{128, 64} {
		t.Errorf("Expected the game to see the resize, got %v", sg.resizes)
	}
	if v := e.Viewport(); v.PixelRatio != 3 {
		t.Errorf("Expected the host to report ratio 3, got %v", v.PixelRatio)
	}

	rendered := sg.runtime.Stats().FramesRendered
	e.Input().ProcessResize(0, 0, 1)
	e.Frame()
	e.Frame()
	if got := sg.runtime.Stats().FramesRendered; got != rendered {
		t.Errorf("Expected no frames while minimized, got %d more", got-rendered)
	}

	e.Input().ProcessResize(128, 64, 1)
	e.Frame()
	if got := sg.runtime.Stats().FramesRendered; got != rendered+1 {
		t.Errorf("Expected frames to resume, got %d", got-rendered)
	}
}

func TestEngineQuitKey(t *testing.T) {
	sg := &sceneGame{}
	e, _ := New(sg.game(headlessConfig()))
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	e.Input().ProcessKey(core.KEY_ESCAPE, true)

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()
	if err := <-done; err != nil {
		t.Errorf("Expected run to stop cleanly, got %v", err)
	}
	if err := e.Shutdown(); err != nil {
		t.Errorf("Expected clean shutdown, got %v", err)
	}
}

func TestEngineContextCancel(t *testing.T) {
	sg := &sceneGame{}
	e, _ := New(sg.game(headlessConfig()))
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Run(ctx); err != nil {
		t.Errorf("Expected a cancelled run to return nil, got %v", err)
	}
}

func TestEngineUpdateError(t *testing.T) {
	sg := &sceneGame{}
	g := sg.game(headlessConfig())
	boom := errors.New("boom")
	g.FnUpdate = func(float64) error { return boom }
	e, _ := New(g)
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()
	if err := e.Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Expected the update error, got %v", err)
	}
}

func TestEngineRejectsBadConfig(t *testing.T) {
	config := headlessConfig()
	config.Backend = "vulkan"
	if _, err := New(&Game{ApplicationConfig: config}); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}
