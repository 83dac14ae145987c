package renderer

import (
	"io"
	"os"
	"testing"

	"github.com/spaghettifunk/folio/engine/core"
	"github.com/spaghettifunk/folio/engine/math"
	"github.com/spaghettifunk/folio/engine/renderer/headless"
	"github.com/spaghettifunk/folio/engine/renderer/metadata"
	"github.com/spaghettifunk/folio/engine/systems"
)

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

// recordingBackend wraps the headless backend and remembers draw order.
type recordingBackend struct {
	*headless.Backend
	drawn     []string
	shutdowns int
}

func (r *recordingBackend) DrawGeometry(data *metadata.GeometryRenderData, packet *metadata.RenderPacket) {
	r.drawn = append(r.drawn, data.Geometry.Name)
	r.Backend.DrawGeometry(data, packet)
}

func (r *recordingBackend) Shutdown() error {
	r.shutdowns++
	return r.Backend.Shutdown()
}

func newRecording() *recordingBackend {
	return &recordingBackend{Backend: headless.New()}
}

func cube(t *testing.T, f *Frontend, name string, material *metadata.Material) *metadata.Geometry {
	t.Helper()
	config, err := systems.GenerateCubeConfig(1, 1, 1, 1, 1, name)
	if err != nil {
		t.Fatalf("Expected cube config, got %v", err)
	}
	g := &metadata.Geometry{Name: name, Material: material}
	if err := f.CreateGeometry(g, config); err != nil {
		t.Fatalf("Expected geometry creation to succeed, got %v", err)
	}
	return g
}

func TestAttachReportsNotReady(t *testing.T) {
	backend := newRecording()
	f := NewFrontend(backend, 0, 0)
	if err := f.Attach(); err != core.ErrSurfaceNotReady {
		t.Errorf("Expected ErrSurfaceNotReady, got %v", err)
	}
	if err := f.RenderFrame(&metadata.RenderPacket{}); err != core.ErrSurfaceNotReady {
		t.Errorf("Expected ErrSurfaceNotReady from RenderFrame, got %v", err)
	}
	f.Resize(32, 16, 1)
	if err := f.Attach(); err != nil {
		t.Errorf("Expected attach to succeed after resize, got %v", err)
	}
}

func TestResizeCapsPixelRatio(t *testing.T) {
	backend := newRecording()
	f := NewFrontend(backend, 100, 50)
	f.Attach()
	f.Resize(100, 50, 3)
	if f.PixelRatio() != MaxPixelRatio {
		t.Errorf("Expected pixel ratio %v, got %v", MaxPixelRatio, f.PixelRatio())
	}
	img := backend.Image()
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 100 {
		t.Errorf("Expected 200x100 device pixels, got %v", img.Bounds())
	}
	w, h := f.Size()
	if w != 100 || h != 50 {
		t.Errorf("Expected logical size 100x50, got %dx%d", w, h)
	}
	f.Resize(100, 50, 0)
	if f.PixelRatio() != 1 {
		t.Errorf("Expected non-positive ratio to fall back to 1, got %v", f.PixelRatio())
	}
}

func TestBlendedGeometryDrawsLast(t *testing.T) {
	backend := newRecording()
	f := NewFrontend(backend, 16, 16)
	f.Attach()

	glass := metadata.NewDefaultMaterial()
	glass.Opacity = 0.5
	a := cube(t, f, "glass", glass)
	b := cube(t, f, "solid", nil)

	packet := &metadata.RenderPacket{
		ViewMatrix:       math.NewMat4LookAt(math.NewVec3(0, 0, 4), math.NewVec3Zero(), math.NewVec3Up()),
		ProjectionMatrix: math.NewMat4Perspective(math.DegToRad(75), 1, 0.1, 1000),
		Geometries: []*metadata.GeometryRenderData{
			{Model: math.NewMat4Identity(), Geometry: a},
			{Model: math.NewMat4Identity(), Geometry: b},
		},
	}
	if err := f.RenderFrame(packet); err != nil {
		t.Fatalf("Expected frame to render, got %v", err)
	}
	if len(backend.drawn) != 2 || backend.drawn[0] != "solid" || backend.drawn[1] != "glass" {
		t.Errorf("Expected [solid glass], got %v", backend.drawn)
	}
}

func TestDisposeIsIdempotent(t *testing.T) {
	backend := newRecording()
	f := NewFrontend(backend, 16, 16)
	f.Attach()
	g := cube(t, f, "box", nil)

	if err := f.Dispose(); err != nil {
		t.Fatalf("Expected dispose to succeed, got %v", err)
	}
	if err := f.Dispose(); err != nil {
		t.Errorf("Expected second dispose to succeed, got %v", err)
	}
	if backend.shutdowns != 1 {
		t.Errorf("Expected 1 backend shutdown, got %d", backend.shutdowns)
	}
	if f.GeometryCount() != 0 || g.InternalID != metadata.InvalidID {
		t.Errorf("Expected geometry to be released on dispose")
	}
	if err := f.RenderFrame(&metadata.RenderPacket{}); err != nil {
		t.Errorf("Expected render after dispose to be a no-op, got %v", err)
	}
	if err := f.Attach(); err != core.ErrSurfaceLost {
		t.Errorf("Expected ErrSurfaceLost after dispose, got %v", err)
	}
	f.DestroyGeometry(g)
}
