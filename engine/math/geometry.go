package math

// GeometryGenerateNormals assigns flat face normals to every vertex referenced
// by a triangle. Vertices shared between faces end up with the normal of the
// last face that touches them, so builders emit unshared vertices for hard edges.
func GeometryGenerateNormals(vertices []Vertex3D, indices []uint32) {
	for i := 0; i+2 < len(indices); i += 3 {
		i0 := indices[i+0]
		i1 := indices[i+1]
		i2 := indices[i+2]

		edge1 := vertices[i1].Position.Sub(vertices[i0].Position)
		edge2 := vertices[i2].Position.Sub(vertices[i0].Position)

		normal := edge1.Cross(edge2).Normalize()

		vertices[i0].Normal = normal
		vertices[i1].Normal = normal
		vertices[i2].Normal = normal
	}
}

// GeometryComputeExtents returns the bounding box and its center.
func GeometryComputeExtents(vertices []Vertex3D) (Extents3D, Vec3) {
	if len(vertices) == 0 {
		return Extents3D{}, Vec3{}
	}
	ext := Extents3D{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		p := v.Position
		ext.Min = Vec3{min(ext.Min.X, p.X), min(ext.Min.Y, p.Y), min(ext.Min.Z, p.Z)}
		ext.Max = Vec3{max(ext.Max.X, p.X), max(ext.Max.Y, p.Y), max(ext.Max.Z, p.Z)}
	}
	center := ext.Min.Add(ext.Max).MulScalar(0.5)
	return ext, center
}
