package metadata

import "github.com/spaghettifunk/folio/engine/math"

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

type BlendMode uint8

const (
	BlendAlpha BlendMode = iota
	BlendAdditive
)

func (b BlendMode) String() string {
	if b == BlendAdditive {
		return "additive"
	}
	return "alpha"
}

/**
 * @brief A material describes how a geometry is shaded. Vertex colours, when
 * present, are multiplied by DiffuseColour.
 */
type Material struct {
	Name          string
	DiffuseColour math.Vec4
	// Opacity in [0, 1]; below 1 the geometry is blended.
	Opacity float32
	Blend   BlendMode
	// PointSize is in world units and only used by point topologies.
	PointSize float32
	// Unlit materials ignore scene lights.
	Unlit     bool
	Wireframe bool
}

func NewDefaultMaterial() *Material {
	return &Material{
		Name:          DefaultMaterialName,
		DiffuseColour: math.NewColourRGB(1, 1, 1),
		Opacity:       1,
	}
}
