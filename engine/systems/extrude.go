package systems

import (
	"fmt"

	"github.com/spaghettifunk/folio/engine/core"
	"github.com/spaghettifunk/folio/engine/math"
	"github.com/spaghettifunk/folio/engine/renderer/metadata"
)

// extrude turns a closed planar outline, with optional closed holes, into a
// solid centred on z = 0. The side walls span depth; each cap sits
// bevelThickness further out and is inset by bevelSize, joined to the walls by
// a bevel strip. Open paths are rejected.
func extrude(name string, outline []math.Vec2, holes [][]math.Vec2, depth, bevelSize, bevelThickness float32) (*metadata.GeometryConfig, error) {
	outer, err := openRing(outline)
	if err != nil {
		return nil, fmt.Errorf("%s outline: %w", name, err)
	}
	if signedArea(outer) < 0 {
		outer = reversed(outer)
	}
	contours := [][]math.Vec2{outer}
	for i, h := range holes {
		ring, err := openRing(h)
		if err != nil {
			return nil, fmt.Errorf("%s hole %d: %w", name, i, err)
		}
		if signedArea(ring) > 0 {
			ring = reversed(ring)
		}
		contours = append(contours, ring)
	}

	capIndices, err := triangulate(contours[0], contours[1:])
	if err != nil {
		return nil, err
	}

	var flat, inset []math.Vec2
	for _, c := range contours {
		flat = append(flat, c...)
		inset = append(inset, offsetRing(c, bevelSize)...)
	}

	front := depth * 0.5
	back := -front
	capFront := front + bevelThickness
	capBack := back - bevelThickness
	bevelled := bevelSize > 0 || bevelThickness > 0

	vertices := make([]math.Vertex3D, 0, len(flat)*2+len(flat)*4*3)
	indices := make([]uint32, 0, len(capIndices)*2+len(flat)*6*3)
	white := math.NewColourRGB(1, 1, 1)

	minX, minY, spanX, spanY := bounds2D(flat)
	addCap := func(z float32, normal math.Vec3, flip bool) {
		base := uint32(len(vertices))
		for _, p := range inset {
			vertices = append(vertices, math.Vertex3D{
				Position: math.NewVec3(p.X, p.Y, z),
				Normal:   normal,
				Texcoord: math.NewVec2((p.X-minX)/spanX, (p.Y-minY)/spanY),
				Colour:   white,
			})
		}
		for i := 0; i+2 < len(capIndices); i += 3 {
			a, b, c := capIndices[i], capIndices[i+1], capIndices[i+2]
			if flip {
				b, c = c, b
			}
			indices = append(indices, base+a, base+b, base+c)
		}
	}
	addCap(capFront, math.NewVec3(0, 0, 1), false)
	addCap(capBack, math.NewVec3(0, 0, -1), true)
	capEnd := len(indices)

	// quad a-b-c-d, counter-clockwise seen from outside
	addQuad := func(a, b, c, d math.Vec3) {
		base := uint32(len(vertices))
		for _, p := range [4]math.Vec3{a, b, c, d} {
			vertices = append(vertices, math.Vertex3D{Position: p, Colour: white})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	offset := 0
	for _, c := range contours {
		n := len(c)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			p0, p1 := c[i], c[j]
			q0, q1 := inset[offset+i], inset[offset+j]
			addQuad(
				math.NewVec3(p0.X, p0.Y, front), math.NewVec3(p0.X, p0.Y, back),
				math.NewVec3(p1.X, p1.Y, back), math.NewVec3(p1.X, p1.Y, front))
			if !bevelled {
				continue
			}
			addQuad(
				math.NewVec3(p0.X, p0.Y, front), math.NewVec3(p1.X, p1.Y, front),
				math.NewVec3(q1.X, q1.Y, capFront), math.NewVec3(q0.X, q0.Y, capFront))
			addQuad(
				math.NewVec3(p0.X, p0.Y, back), math.NewVec3(q0.X, q0.Y, capBack),
				math.NewVec3(q1.X, q1.Y, capBack), math.NewVec3(p1.X, p1.Y, back))
		}
		offset += n
	}
	math.GeometryGenerateNormals(vertices, indices[capEnd:])

	config := &metadata.GeometryConfig{
		VertexCount: uint32(len(vertices)),
		Vertices:    vertices,
		IndexCount:  uint32(len(indices)),
		Indices:     indices,
		Topology:    metadata.TopologyTriangles,
		Name:        name,
	}
	ext, center := math.GeometryComputeExtents(vertices)
	config.MinExtents, config.MaxExtents, config.Center = ext.Min, ext.Max, center
	return config, nil
}

// openRing checks that path is closed and returns it without the repeated vertex.
func openRing(path []math.Vec2) ([]math.Vec2, error) {
	if len(path) < 4 {
		return nil, fmt.Errorf("path has %d vertices, a closed ring needs at least 4: %w", len(path), core.ErrInvalidShape)
	}
	if !path[0].Compare(path[len(path)-1], math.K_FLOAT_EPSILON) {
		return nil, fmt.Errorf("path is not closed: %w", core.ErrInvalidShape)
	}
	return path[:len(path)-1], nil
}

// offsetRing moves every vertex d to the left of the travel direction, which
// is into the solid for a counter-clockwise outline and for clockwise holes.
func offsetRing(ring []math.Vec2, d float32) []math.Vec2 {
	out := make([]math.Vec2, len(ring))
	if d == 0 {
		copy(out, ring)
		return out
	}
	n := len(ring)
	for i := range ring {
		prev, cur, next := ring[(i+n-1)%n], ring[i], ring[(i+1)%n]
		e1 := cur.Sub(prev).Normalize()
		e2 := next.Sub(cur).Normalize()
		n1 := math.NewVec2(-e1.Y, e1.X)
		n2 := math.NewVec2(-e2.Y, e2.X)
		m := n1.Add(n2).Normalize()
		if m.Length() == 0 {
			m = n1
		}
		// Sharp tips would push the miter far past the neighbours.
		dot := math.Clamp(m.X*n1.X+m.Y*n1.Y, 0.25, 1)
		out[i] = cur.Add(m.MulScalar(d / dot))
	}
	return out
}

func bounds2D(pts []math.Vec2) (minX, minY, spanX, spanY float32) {
	if len(pts) == 0 {
		return 0, 0, 1, 1
	}
	minX, minY = pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	spanX, spanY = maxX-minX, maxY-minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}
	return minX, minY, spanX, spanY
}
