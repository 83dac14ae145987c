package headless

import (
	"bytes"
	"image/png"
	"io"
	"os"
	"testing"

	"github.com/spaghettifunk/folio/engine/core"
	"github.com/spaghettifunk/folio/engine/math"
	"github.com/spaghettifunk/folio/engine/renderer/metadata"
	"github.com/spaghettifunk/folio/engine/systems"
)

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

func packetFor(width, height uint32, geometries ...*metadata.GeometryRenderData) *metadata.RenderPacket {
	return &metadata.RenderPacket{
		ViewMatrix:       math.NewMat4LookAt(math.NewVec3(0, 0, 4), math.NewVec3Zero(), math.NewVec3Up()),
		ProjectionMatrix: math.NewMat4Perspective(math.DegToRad(75), float32(width)/float32(height), 0.1, 1000),
		ViewPosition:     math.NewVec3(0, 0, 4),
		AmbientColour:    math.NewVec4(1, 1, 1, 1),
		ClearColour:      math.NewVec4(0, 0, 0, 1),
		Geometries:       geometries,
	}
}

func upload(t *testing.T, b *Backend, config *metadata.GeometryConfig, material *metadata.Material) *metadata.Geometry {
	t.Helper()
	g := &metadata.Geometry{Name: config.Name, Material: material}
	if err := b.CreateGeometry(g, config); err != nil {
		t.Fatalf("Expected geometry upload to succeed, got %v", err)
	}
	return g
}

func TestReadyNeedsSizeAndDrawable(t *testing.T) {
	b := New()
	if b.Ready() {
		t.Errorf("Expected uninitialized backend not to be ready")
	}
	b.Initialize(0, 0)
	if b.Ready() {
		t.Errorf("Expected zero sized backend not to be ready")
	}
	b.Resized(32, 32, 1)
	if !b.Ready() {
		t.Errorf("Expected resized backend to be ready")
	}
	b.Detach()
	if b.Ready() {
		t.Errorf("Expected detached backend not to be ready")
	}
	if err := b.BeginFrame(packetFor(32, 32)); err != core.ErrSurfaceLost {
		t.Errorf("Expected ErrSurfaceLost, got %v", err)
	}
	b.Reattach()
	if !b.Ready() {
		t.Errorf("Expected reattached backend to be ready")
	}
}

func TestCubeCoversCentre(t *testing.T) {
	b := New()
	b.Initialize(64, 64)
	config, _ := systems.GenerateCubeConfig(1, 1, 1, 1, 1, "cube")
	material := metadata.NewDefaultMaterial()
	material.Unlit = true
	g := upload(t, b, config, material)

	packet := packetFor(64, 64, &metadata.GeometryRenderData{Model: math.NewMat4Identity(), Geometry: g})
	b.BeginFrame(packet)
	for _, d := range packet.Geometries {
		b.DrawGeometry(d, packet)
	}
	b.EndFrame(packet)

	centre := b.Image().RGBAAt(32, 32)
	if centre.R != 0xff || centre.G != 0xff || centre.B != 0xff {
		t.Errorf("Expected white centre pixel, got %v", centre)
	}
	corner := b.Image().RGBAAt(0, 0)
	if corner.R != 0 || corner.G != 0 || corner.B != 0 {
		t.Errorf("Expected clear colour in corner, got %v", corner)
	}
	if b.Frames() != 1 || b.DrawCalls() != 1 {
		t.Errorf("Expected 1 frame and 1 draw call, got %d and %d", b.Frames(), b.DrawCalls())
	}
}

func TestAdditivePointsAccumulate(t *testing.T) {
	b := New()
	b.Initialize(16, 16)
	positions := []math.Vec3{math.NewVec3Zero(), math.NewVec3Zero()}
	colours := []math.Vec4{math.NewColourRGB(0.25, 0, 0), math.NewColourRGB(0.25, 0, 0)}
	config, err := systems.GeneratePointsConfig(positions, colours, "sparks")
	if err != nil {
		t.Fatalf("Expected points config, got %v", err)
	}
	material := metadata.NewDefaultMaterial()
	material.Blend = metadata.BlendAdditive
	material.PointSize = 0.1
	material.Unlit = true
	g := upload(t, b, config, material)

	packet := packetFor(16, 16, &metadata.GeometryRenderData{Model: math.NewMat4Identity(), Geometry: g})
	b.BeginFrame(packet)
	b.DrawGeometry(packet.Geometries[0], packet)
	b.EndFrame(packet)

	// Two additive splats of 0.25 red.
	got := b.Image().RGBAAt(8, 8)
	if got.R != 128 {
		t.Errorf("Expected red channel 128, got %d", got.R)
	}
}

func TestDestroyAndShutdownReleaseBuffers(t *testing.T) {
	b := New()
	b.Initialize(8, 8)
	config, _ := systems.GenerateCubeConfig(1, 1, 1, 1, 1, "cube")
	first := upload(t, b, config, nil)
	upload(t, b, config, nil)
	if b.GeometryCount() != 2 {
		t.Fatalf("Expected 2 geometries, got %d", b.GeometryCount())
	}
	b.DestroyGeometry(first)
	if b.GeometryCount() != 1 {
		t.Errorf("Expected 1 geometry, got %d", b.GeometryCount())
	}
	b.Shutdown()
	if b.GeometryCount() != 0 || b.Ready() {
		t.Errorf("Expected shutdown backend to be empty and not ready")
	}
}

func TestWritePNG(t *testing.T) {
	b := New()
	if err := b.WritePNG(io.Discard); err != core.ErrSurfaceNotReady {
		t.Errorf("Expected ErrSurfaceNotReady before any frame, got %v", err)
	}
	b.Initialize(4, 3)
	packet := packetFor(4, 3)
	packet.Overlay = []string{"hello"}
	b.BeginFrame(packet)
	b.EndFrame(packet)

	var buf bytes.Buffer
	if err := b.WritePNG(&buf); err != nil {
		t.Fatalf("Expected png to encode, got %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Expected png to decode, got %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Errorf("Expected 4x3 image, got %v", img.Bounds())
	}
}
