package metadata

import "github.com/spaghettifunk/folio/engine/math"

type PointLight struct {
	Position  math.Vec3
	Colour    math.Vec4
	Intensity float32
}

type GeometryRenderData struct {
	Model    math.Mat4
	Geometry *Geometry
}

/**
 * @brief A structure which is generated by a scene runtime and sent once
 * to the surface to render a given frame.
 */
type RenderPacket struct {
	DeltaTime   float64
	FrameNumber uint64
	/** @brief The current view matrix. */
	ViewMatrix math.Mat4
	/** @brief The current projection matrix. */
	ProjectionMatrix math.Mat4
	/** @brief The current view position. */
	ViewPosition math.Vec3
	/** @brief The scene ambient colour, premultiplied by its intensity. */
	AmbientColour math.Vec4
	PointLights   []PointLight
	ClearColour   math.Vec4
	/** @brief The Geometries to be drawn, in order. */
	Geometries []*GeometryRenderData
	// Overlay lines are drawn as text on top of the frame by surfaces that support it.
	Overlay []string
}
