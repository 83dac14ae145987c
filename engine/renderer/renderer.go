package renderer

import (
	"sort"
	"sync"

	"github.com/spaghettifunk/folio/engine/core"
	"github.com/spaghettifunk/folio/engine/renderer/metadata"
)

// MaxPixelRatio caps the device pixel ratio a surface renders at.
const MaxPixelRatio float32 = 2

// Surface is what a scene runtime draws into.
type Surface interface {
	Attach() error
	Ready() bool
	Resize(width, height uint32, pixelRatio float32) error
	CreateGeometry(geometry *metadata.Geometry, config *metadata.GeometryConfig) error
	DestroyGeometry(geometry *metadata.Geometry)
	RenderFrame(packet *metadata.RenderPacket) error
	Dispose() error
}

// Frontend adapts a RendererBackend to Surface. It caps the pixel ratio,
// orders draws so blended geometry lands after opaque geometry and makes
// every call after Dispose a no-op.
type Frontend struct {
	backend     RendererBackend
	width       uint32
	height      uint32
	pixelRatio  float32
	attached    bool
	disposed    bool
	nextID      uint32
	live        map[*metadata.Geometry]struct{}
	disposeOnce sync.Once
}

func NewFrontend(backend RendererBackend, width, height uint32) *Frontend {
	return &Frontend{
		backend:    backend,
		width:      width,
		height:     height,
		pixelRatio: 1,
		live:       make(map[*metadata.Geometry]struct{}),
	}
}

// Attach initializes the backend. It returns core.ErrSurfaceNotReady while
// the host has no drawable yet; calling it again later is expected.
func (f *Frontend) Attach() error {
	if f.disposed {
		return core.ErrSurfaceLost
	}
	if !f.attached {
		w, h := f.devicePixels()
		if err := f.backend.Initialize(w, h); err != nil {
			return err
		}
		f.attached = true
	}
	if !f.backend.Ready() {
		return core.ErrSurfaceNotReady
	}
	return nil
}

func (f *Frontend) Ready() bool {
	return f.attached && !f.disposed && f.backend.Ready()
}

// Size returns the logical size last given to Resize or NewFrontend.
func (f *Frontend) Size() (uint32, uint32) {
	return f.width, f.height
}

func (f *Frontend) PixelRatio() float32 {
	return f.pixelRatio
}

// Resize forwards the drawable size in device pixels to the backend.
func (f *Frontend) Resize(width, height uint32, pixelRatio float32) error {
	if f.disposed {
		return nil
	}
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	pixelRatio = min(pixelRatio, MaxPixelRatio)
	f.width, f.height, f.pixelRatio = width, height, pixelRatio
	if !f.attached {
		return nil
	}
	w, h := f.devicePixels()
	return f.backend.Resized(w, h, pixelRatio)
}

func (f *Frontend) devicePixels() (uint32, uint32) {
	return uint32(float32(f.width) * f.pixelRatio), uint32(float32(f.height) * f.pixelRatio)
}

func (f *Frontend) CreateGeometry(geometry *metadata.Geometry, config *metadata.GeometryConfig) error {
	if f.disposed {
		return core.ErrSurfaceLost
	}
	if !f.attached {
		return core.ErrSurfaceNotReady
	}
	if err := f.backend.CreateGeometry(geometry, config); err != nil {
		geometry.InternalID = metadata.InvalidID
		return err
	}
	f.nextID++
	geometry.ID = f.nextID
	geometry.Generation++
	geometry.Topology = config.Topology
	geometry.Center = config.Center
	geometry.Extents.Min = config.MinExtents
	geometry.Extents.Max = config.MaxExtents
	if geometry.Material == nil {
		geometry.Material = metadata.NewDefaultMaterial()
	}
	f.live[geometry] = struct{}{}
	return nil
}

func (f *Frontend) DestroyGeometry(geometry *metadata.Geometry) {
	if geometry == nil {
		return
	}
	if _, ok := f.live[geometry]; !ok {
		return
	}
	delete(f.live, geometry)
	f.backend.DestroyGeometry(geometry)
	geometry.InternalID = metadata.InvalidID
}

// GeometryCount reports how many geometries hold backend resources.
func (f *Frontend) GeometryCount() int {
	return len(f.live)
}

func (f *Frontend) RenderFrame(packet *metadata.RenderPacket) error {
	if f.disposed {
		return nil
	}
	if !f.Ready() {
		return core.ErrSurfaceNotReady
	}
	if err := f.backend.BeginFrame(packet); err != nil {
		return err
	}
	ordered := make([]*metadata.GeometryRenderData, 0, len(packet.Geometries))
	for _, g := range packet.Geometries {
		if g == nil || g.Geometry == nil || g.Geometry.InternalID == metadata.InvalidID {
			continue
		}
		ordered = append(ordered, g)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return !isBlended(ordered[i].Geometry) && isBlended(ordered[j].Geometry)
	})
	for _, g := range ordered {
		f.backend.DrawGeometry(g, packet)
	}
	return f.backend.EndFrame(packet)
}

func isBlended(g *metadata.Geometry) bool {
	m := g.Material
	return m != nil && (m.Opacity < 1 || m.Blend == metadata.BlendAdditive)
}

// Dispose releases every geometry still alive and shuts the backend down. It
// is safe to call more than once.
func (f *Frontend) Dispose() error {
	var err error
	f.disposeOnce.Do(func() {
		for g := range f.live {
			f.backend.DestroyGeometry(g)
			g.InternalID = metadata.InvalidID
		}
		f.live = make(map[*metadata.Geometry]struct{})
		if f.attached {
			err = f.backend.Shutdown()
		}
		f.disposed = true
	})
	return err
}
