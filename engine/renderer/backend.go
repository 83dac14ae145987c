package renderer

import "github.com/spaghettifunk/folio/engine/renderer/metadata"

// RendererBackend is implemented by every concrete drawing target. All calls
// come from the goroutine that owns the surface.
type RendererBackend interface {
	// Initialize binds the backend to its host drawable at the given size.
	Initialize(width, height uint32) error
	// Ready reports whether the host drawable exists and has a non-zero size.
	Ready() bool
	Resized(width, height uint32, pixelRatio float32) error
	CreateGeometry(geometry *metadata.Geometry, config *metadata.GeometryConfig) error
	DestroyGeometry(geometry *metadata.Geometry)
	BeginFrame(packet *metadata.RenderPacket) error
	DrawGeometry(data *metadata.GeometryRenderData, packet *metadata.RenderPacket)
	EndFrame(packet *metadata.RenderPacket) error
	Shutdown() error
}
