package headless

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/spaghettifunk/folio/engine/core"
	"github.com/spaghettifunk/folio/engine/math"
	"github.com/spaghettifunk/folio/engine/renderer/metadata"
)

type geometryBuffers struct {
	vertices []math.Vertex3D
	indices  []uint32
	topology metadata.Topology
}

type rgba struct {
	r, g, b, a float32
}

// Backend rasterizes frames in software into an RGBA image. It needs no GPU
// and is used for snapshots and tests.
type Backend struct {
	width       uint32
	height      uint32
	pixelRatio  float32
	initialized bool
	detached    bool

	colour []rgba
	depth  []float32
	frame  *image.RGBA

	nextID     uint32
	geometries map[uint32]*geometryBuffers

	viewProjection math.Mat4
	frames         uint64
	drawCalls      uint64
	face           font.Face
}

func New() *Backend {
	return &Backend{
		pixelRatio: 1,
		geometries: make(map[uint32]*geometryBuffers),
		face:       basicfont.Face7x13,
	}
}

func (b *Backend) Initialize(width, height uint32) error {
	b.initialized = true
	b.allocate(width, height)
	core.LogDebug("headless surface initialized at %dx%d", width, height)
	return nil
}

func (b *Backend) Ready() bool {
	return b.initialized && !b.detached && b.width > 0 && b.height > 0
}

// Detach simulates the host drawable going away; frames are refused until Reattach.
func (b *Backend) Detach() {
	b.detached = true
}

func (b *Backend) Reattach() {
	b.detached = false
}

func (b *Backend) Resized(width, height uint32, pixelRatio float32) error {
	b.pixelRatio = pixelRatio
	b.allocate(width, height)
	return nil
}

func (b *Backend) allocate(width, height uint32) {
	b.width, b.height = width, height
	n := int(width) * int(height)
	b.colour = make([]rgba, n)
	b.depth = make([]float32, n)
	b.frame = image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
}

func (b *Backend) CreateGeometry(geometry *metadata.Geometry, config *metadata.GeometryConfig) error {
	if config == nil || len(config.Vertices) == 0 && config.Topology != metadata.TopologyPoints {
		return fmt.Errorf("geometry %q has no vertices: %w", geometry.Name, core.ErrInvalidShape)
	}
	b.nextID++
	b.geometries[b.nextID] = &geometryBuffers{
		vertices: append([]math.Vertex3D(nil), config.Vertices...),
		indices:  append([]uint32(nil), config.Indices...),
		topology: config.Topology,
	}
	geometry.InternalID = b.nextID
	return nil
}

func (b *Backend) DestroyGeometry(geometry *metadata.Geometry) {
	delete(b.geometries, geometry.InternalID)
}

// GeometryCount reports how many geometries hold buffers.
func (b *Backend) GeometryCount() int {
	return len(b.geometries)
}

func (b *Backend) BeginFrame(packet *metadata.RenderPacket) error {
	if !b.Ready() {
		return core.ErrSurfaceLost
	}
	bg := rgba{packet.ClearColour.X, packet.ClearColour.Y, packet.ClearColour.Z, 1}
	for i := range b.colour {
		b.colour[i] = bg
		b.depth[i] = 1
	}
	b.viewProjection = packet.ViewMatrix.Mul(packet.ProjectionMatrix)
	return nil
}

func (b *Backend) DrawGeometry(data *metadata.GeometryRenderData, packet *metadata.RenderPacket) {
	buffers, ok := b.geometries[data.Geometry.InternalID]
	if !ok {
		return
	}
	material := data.Geometry.Material
	if material == nil {
		material = metadata.NewDefaultMaterial()
	}
	mvp := data.Model.Mul(b.viewProjection)
	b.drawCalls++
	switch buffers.topology {
	case metadata.TopologyPoints:
		b.drawPoints(buffers, mvp, material, packet)
	case metadata.TopologyLines:
		b.drawLines(buffers, mvp, material)
	default:
		b.drawTriangles(buffers, data.Model, mvp, material, packet)
	}
}

func (b *Backend) EndFrame(packet *metadata.RenderPacket) error {
	pix := b.frame.Pix
	for i, c := range b.colour {
		o := i * 4
		pix[o+0] = toByte(c.r)
		pix[o+1] = toByte(c.g)
		pix[o+2] = toByte(c.b)
		pix[o+3] = 0xff
	}
	if len(packet.Overlay) > 0 {
		d := &font.Drawer{
			Dst:  b.frame,
			Src:  image.NewUniform(color.RGBA{0xe5, 0xe7, 0xeb, 0xff}),
			Face: b.face,
		}
		lineHeight := b.face.Metrics().Height.Ceil() + 2
		for i, line := range packet.Overlay {
			d.Dot = fixed.P(12, 12+lineHeight*(i+1))
			d.DrawString(line)
		}
	}
	b.frames++
	return nil
}

func (b *Backend) Shutdown() error {
	b.geometries = make(map[uint32]*geometryBuffers)
	b.initialized = false
	return nil
}

// Image returns the last completed frame.
func (b *Backend) Image() *image.RGBA {
	return b.frame
}

func (b *Backend) Frames() uint64 {
	return b.frames
}

func (b *Backend) DrawCalls() uint64 {
	return b.drawCalls
}

func (b *Backend) WritePNG(w io.Writer) error {
	if b.frame == nil {
		return core.ErrSurfaceNotReady
	}
	return png.Encode(w, b.frame)
}

func toByte(v float32) uint8 {
	return uint8(math.Clamp(v, 0, 1)*255 + 0.5)
}
