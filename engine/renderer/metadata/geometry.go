package metadata

import (
	"github.com/spaghettifunk/folio/engine/math"
)

/** @brief The name of the default geometry. */
const DefaultGeometryName string = "default"

// InvalidID marks a geometry that has no backend resources.
const InvalidID uint32 = 0xFFFFFFFF

/** @brief How the vertex stream is assembled into primitives. */
type Topology uint8

const (
	TopologyTriangles Topology = iota
	TopologyLines
	TopologyPoints
)

func (t Topology) String() string {
	switch t {
	case TopologyLines:
		return "lines"
	case TopologyPoints:
		return "points"
	default:
		return "triangles"
	}
}

/**
 * @brief Represents the configuration for a geometry.
 */
type GeometryConfig struct {
	/** @brief The number of vertices. */
	VertexCount uint32
	/** @brief An array of Vertices. */
	Vertices []math.Vertex3D
	/** @brief The number of indices. */
	IndexCount uint32
	/** @brief An array of Indices. Points are drawn unindexed and leave this empty. */
	Indices []uint32

	Topology Topology

	Center     math.Vec3
	MinExtents math.Vec3
	MaxExtents math.Vec3

	/** @brief The Name of the geometry. */
	Name string
}

// Clone returns a deep copy so a caller-supplied mesh is never shared between runtimes.
func (c *GeometryConfig) Clone() *GeometryConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.Vertices = append([]math.Vertex3D(nil), c.Vertices...)
	out.Indices = append([]uint32(nil), c.Indices...)
	return &out
}

/**
 * @brief Represents actual geometry in the world, paired with a material.
 */
type Geometry struct {
	/** @brief The geometry identifier, unique within one runtime. */
	ID uint32
	/** @brief The internal geometry identifier, used by the surface to map to internal resources. */
	InternalID uint32
	/** @brief The geometry generation. Incremented every time the geometry changes. */
	Generation uint16
	/** @brief The center of the geometry in local coordinates. */
	Center math.Vec3
	/** @brief The extents of the geometry in local coordinates. */
	Extents math.Extents3D
	/** @brief How the surface assembles the vertices. */
	Topology Topology
	/** @brief The geometry name. */
	Name string
	/** @brief The material drawn with this geometry. */
	Material *Material
}
