package metadata

// ShapeKind selects a geometry builder.
type ShapeKind uint8

const (
	ShapeBox ShapeKind = iota
	ShapeStar
	ShapeGear
	ShapeMesh
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeStar:
		return "star"
	case ShapeGear:
		return "gear"
	case ShapeMesh:
		return "mesh"
	default:
		return "unknown"
	}
}

// ShapeParams carries the parameters of every shape kind; each builder reads
// only its own fields. Zero values pick the builder defaults where one exists.
type ShapeParams struct {
	// Box
	Width  float32
	Height float32
	// Depth is the box depth or, for extruded shapes, the extrusion depth.
	Depth float32

	// Star
	OuterRadius float32
	InnerRadius float32
	Points      int

	// Gear
	Radius      float32
	Teeth       int
	BoreRadius  float32
	ToothHeight float32

	// Extruded shapes
	BevelSize      float32
	BevelThickness float32

	// Mesh
	Mesh *GeometryConfig
}
