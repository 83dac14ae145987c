package systems

import (
	"fmt"

	"github.com/spaghettifunk/folio/engine/core"
	"github.com/spaghettifunk/folio/engine/math"
	"github.com/spaghettifunk/folio/engine/renderer/metadata"
)

const (
	DefaultStarDepth      float32 = 0.2
	DefaultGearDepth      float32 = 0.3
	DefaultBevelSize      float32 = 0.02
	DefaultBevelThickness float32 = 0.03
	// Tooth height as a fraction of the gear radius when none is given.
	DefaultToothHeightRatio float32 = 0.3
	boreSegments                    = 32
)

// ValidateShape rejects parameters no builder can turn into geometry. Zero
// values that have a builder default are accepted.
func ValidateShape(kind metadata.ShapeKind, p metadata.ShapeParams) error {
	switch kind {
	case metadata.ShapeBox:
		if p.Width < 0 || p.Height < 0 || p.Depth < 0 {
			return fmt.Errorf("box dimensions must not be negative (%v x %v x %v): %w", p.Width, p.Height, p.Depth, core.ErrInvalidShape)
		}
	case metadata.ShapeStar:
		if p.Points < 3 {
			return fmt.Errorf("star needs at least 3 points, got %d: %w", p.Points, core.ErrInvalidShape)
		}
		if p.OuterRadius <= 0 || p.InnerRadius <= 0 {
			return fmt.Errorf("star radii must be positive (%v, %v): %w", p.OuterRadius, p.InnerRadius, core.ErrInvalidShape)
		}
		if p.InnerRadius >= p.OuterRadius {
			return fmt.Errorf("star inner radius %v must be below outer radius %v: %w", p.InnerRadius, p.OuterRadius, core.ErrInvalidShape)
		}
	case metadata.ShapeGear:
		if p.Teeth < 3 {
			return fmt.Errorf("gear needs at least 3 teeth, got %d: %w", p.Teeth, core.ErrInvalidShape)
		}
		if p.Radius <= 0 {
			return fmt.Errorf("gear radius must be positive, got %v: %w", p.Radius, core.ErrInvalidShape)
		}
		if p.BoreRadius < 0 || p.BoreRadius >= p.Radius {
			return fmt.Errorf("gear bore %v must be in [0, %v): %w", p.BoreRadius, p.Radius, core.ErrInvalidShape)
		}
		if p.ToothHeight < 0 {
			return fmt.Errorf("gear tooth height must not be negative: %w", core.ErrInvalidShape)
		}
	case metadata.ShapeMesh:
		if p.Mesh == nil || len(p.Mesh.Vertices) == 0 {
			return fmt.Errorf("mesh shape without vertices: %w", core.ErrInvalidShape)
		}
		for _, idx := range p.Mesh.Indices {
			if int(idx) >= len(p.Mesh.Vertices) {
				return fmt.Errorf("mesh index %d out of range (%d vertices): %w", idx, len(p.Mesh.Vertices), core.ErrInvalidShape)
			}
		}
	default:
		return fmt.Errorf("unknown shape kind %d: %w", kind, core.ErrInvalidShape)
	}
	if p.Depth < 0 || p.BevelSize < 0 || p.BevelThickness < 0 {
		return fmt.Errorf("depth and bevel must not be negative: %w", core.ErrInvalidShape)
	}
	if margin := bevelMargin(kind, p); margin > 0 {
		if bevel := effectiveBevel(p); bevel >= margin {
			return fmt.Errorf("bevel %v must be below the inset margin %v: %w", bevel, margin, core.ErrInvalidShape)
		}
	}
	return nil
}

// effectiveBevel is the bevel size the extruder will use for p.
func effectiveBevel(p metadata.ShapeParams) float32 {
	if p.BevelSize == 0 && p.BevelThickness == 0 {
		return DefaultBevelSize
	}
	return p.BevelSize
}

// bevelMargin is the narrowest distance a cap inset can travel before it
// crosses another edge of the outline. Zero means the shape is not bevelled.
func bevelMargin(kind metadata.ShapeKind, p metadata.ShapeParams) float32 {
	switch kind {
	case metadata.ShapeStar:
		return p.InnerRadius * math.Sin(math.K_PI/float32(p.Points))
	case metadata.ShapeGear:
		return (p.Radius - p.BoreRadius) / 2
	}
	return 0
}

// BuildGeometry dispatches to the builder for kind. The result is a fresh
// configuration owned by the caller.
func BuildGeometry(kind metadata.ShapeKind, p metadata.ShapeParams, name string) (*metadata.GeometryConfig, error) {
	if err := ValidateShape(kind, p); err != nil {
		return nil, err
	}
	switch kind {
	case metadata.ShapeBox:
		return GenerateCubeConfig(p.Width, p.Height, p.Depth, 1, 1, name)
	case metadata.ShapeStar:
		return GenerateStarConfig(p.OuterRadius, p.InnerRadius, p.Points, p.Depth, p.BevelSize, p.BevelThickness, name)
	case metadata.ShapeGear:
		return GenerateGearConfig(p.Radius, p.ToothHeight, p.Teeth, p.BoreRadius, p.Depth, p.BevelSize, p.BevelThickness, name)
	default:
		config := p.Mesh.Clone()
		config.VertexCount = uint32(len(config.Vertices))
		config.IndexCount = uint32(len(config.Indices))
		ext, center := math.GeometryComputeExtents(config.Vertices)
		config.MinExtents, config.MaxExtents, config.Center = ext.Min, ext.Max, center
		if len(name) > 0 {
			config.Name = name
		}
		return config, nil
	}
}

// cube faces as (normal, u axis, v axis); corners are normal ± u ± v.
var cubeFaces = [6][3]math.Vec3{
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},   // front
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}}, // back
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},  // left
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},  // right
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},  // bottom
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},  // top
}

// GenerateCubeConfig builds an axis-aligned box centred on the origin. Zero
// dimensions default to one with a warning.
func GenerateCubeConfig(width, height, depth, tileX, tileY float32, name string) (*metadata.GeometryConfig, error) {
	if width < 0 || height < 0 || depth < 0 {
		return nil, fmt.Errorf("cube dimensions must not be negative: %w", core.ErrInvalidShape)
	}
	if width == 0 {
		core.LogWarn("Width must be nonzero. Defaulting to one.")
		width = 1.0
	}
	if height == 0 {
		core.LogWarn("Height must be nonzero. Defaulting to one.")
		height = 1.0
	}
	if depth == 0 {
		core.LogWarn("Depth must be nonzero. Defaulting to one.")
		depth = 1
	}
	if tileX == 0 {
		tileX = 1.0
	}
	if tileY == 0 {
		tileY = 1.0
	}

	config := &metadata.GeometryConfig{
		VertexCount: 4 * 6, // 4 verts per side, 6 side
		Vertices:    make([]math.Vertex3D, 4*6),
		IndexCount:  6 * 6, // 6 indices per side, 6 side
		Indices:     make([]uint32, 6*6),
		Topology:    metadata.TopologyTriangles,
	}

	half := math.NewVec3(width*0.5, height*0.5, depth*0.5)
	config.MinExtents = half.MulScalar(-1)
	config.MaxExtents = half

	// Corner order per face: (-u,-v), (+u,+v), (-u,+v), (+u,-v).
	corners := [4][2]float32{{-1, -1}, {1, 1}, {-1, 1}, {1, -1}}
	for f, face := range cubeFaces {
		n, u, v := face[0], face[1], face[2]
		for c, s := range corners {
			p := n.Add(u.MulScalar(s[0])).Add(v.MulScalar(s[1])).Mul(half)
			vert := &config.Vertices[f*4+c]
			vert.Position = p
			vert.Normal = n
			vert.Texcoord = math.NewVec2((s[0]+1)*0.5*tileX, (s[1]+1)*0.5*tileY)
			vert.Colour = math.NewColourRGB(1, 1, 1)
		}
		vOffset := uint32(f * 4)
		iOffset := f * 6
		config.Indices[iOffset+0] = vOffset + 0
		config.Indices[iOffset+1] = vOffset + 1
		config.Indices[iOffset+2] = vOffset + 2
		config.Indices[iOffset+3] = vOffset + 0
		config.Indices[iOffset+4] = vOffset + 3
		config.Indices[iOffset+5] = vOffset + 1
	}

	if len(name) > 0 {
		config.Name = name
	} else {
		config.Name = metadata.DefaultGeometryName
	}
	return config, nil
}

// StarOutline returns the closed star path: 2·points alternating outer and
// inner vertices followed by a copy of the first vertex.
func StarOutline(outerRadius, innerRadius float32, points int) ([]math.Vec2, error) {
	if err := ValidateShape(metadata.ShapeStar, metadata.ShapeParams{OuterRadius: outerRadius, InnerRadius: innerRadius, Points: points}); err != nil {
		return nil, err
	}
	n := points * 2
	path := make([]math.Vec2, 0, n+1)
	for i := 0; i < n; i++ {
		angle := float32(i)/float32(n)*math.K_PI_2 - math.K_HALF_PI
		r := outerRadius
		if i%2 == 1 {
			r = innerRadius
		}
		path = append(path, math.NewVec2(math.Cos(angle)*r, math.Sin(angle)*r))
	}
	path = append(path, path[0])
	return path, nil
}

func GenerateStarConfig(outerRadius, innerRadius float32, points int, depth, bevelSize, bevelThickness float32, name string) (*metadata.GeometryConfig, error) {
	outline, err := StarOutline(outerRadius, innerRadius, points)
	if err != nil {
		return nil, err
	}
	if depth == 0 {
		depth = DefaultStarDepth
	}
	if bevelSize == 0 && bevelThickness == 0 {
		bevelSize, bevelThickness = DefaultBevelSize, DefaultBevelThickness
	}
	if len(name) == 0 {
		name = "star"
	}
	return extrude(name, outline, nil, depth, bevelSize, bevelThickness)
}

// GearOutline returns the closed toothed profile and the closed bore path.
// Each tooth adds four profile vertices: base-start and tip-start at i/teeth,
// tip-end and base-end at (i+0.5)/teeth; the root land runs on to (i+1)/teeth
// where the next tooth starts. The bore winds opposite to the profile and is
// nil when boreRadius is zero.
func GearOutline(radius, toothHeight float32, teeth int, boreRadius float32) ([]math.Vec2, []math.Vec2, error) {
	p := metadata.ShapeParams{Radius: radius, Teeth: teeth, BoreRadius: boreRadius, ToothHeight: toothHeight}
	if err := ValidateShape(metadata.ShapeGear, p); err != nil {
		return nil, nil, err
	}
	if toothHeight == 0 {
		toothHeight = radius * DefaultToothHeightRatio
	}
	tip := radius + toothHeight

	profile := make([]math.Vec2, 0, teeth*4+1)
	for i := 0; i < teeth; i++ {
		start := float32(i) / float32(teeth) * math.K_PI_2
		end := (float32(i) + 0.5) / float32(teeth) * math.K_PI_2
		profile = append(profile,
			math.NewVec2(math.Cos(start)*radius, math.Sin(start)*radius),
			math.NewVec2(math.Cos(start)*tip, math.Sin(start)*tip),
			math.NewVec2(math.Cos(end)*tip, math.Sin(end)*tip),
			math.NewVec2(math.Cos(end)*radius, math.Sin(end)*radius),
		)
	}
	profile = append(profile, profile[0])

	if boreRadius == 0 {
		return profile, nil, nil
	}
	bore := make([]math.Vec2, 0, boreSegments+1)
	for i := 0; i < boreSegments; i++ {
		angle := -float32(i) / float32(boreSegments) * math.K_PI_2
		bore = append(bore, math.NewVec2(math.Cos(angle)*boreRadius, math.Sin(angle)*boreRadius))
	}
	bore = append(bore, bore[0])
	return profile, bore, nil
}

func GenerateGearConfig(radius, toothHeight float32, teeth int, boreRadius, depth, bevelSize, bevelThickness float32, name string) (*metadata.GeometryConfig, error) {
	profile, bore, err := GearOutline(radius, toothHeight, teeth, boreRadius)
	if err != nil {
		return nil, err
	}
	if depth == 0 {
		depth = DefaultGearDepth
	}
	if bevelSize == 0 && bevelThickness == 0 {
		bevelSize, bevelThickness = DefaultBevelSize, DefaultBevelThickness
	}
	if len(name) == 0 {
		name = fmt.Sprintf("gear_%d", teeth)
	}
	var holes [][]math.Vec2
	if bore != nil {
		holes = append(holes, bore)
	}
	return extrude(name, profile, holes, depth, bevelSize, bevelThickness)
}

// GeneratePointsConfig builds an unindexed point cloud. colours may be nil or
// match positions one to one.
func GeneratePointsConfig(positions []math.Vec3, colours []math.Vec4, name string) (*metadata.GeometryConfig, error) {
	if colours != nil && len(colours) != len(positions) {
		return nil, fmt.Errorf("%d colours for %d points: %w", len(colours), len(positions), core.ErrInvalidShape)
	}
	config := &metadata.GeometryConfig{
		VertexCount: uint32(len(positions)),
		Vertices:    make([]math.Vertex3D, len(positions)),
		Topology:    metadata.TopologyPoints,
		Name:        name,
	}
	for i, p := range positions {
		config.Vertices[i].Position = p
		if colours != nil {
			config.Vertices[i].Colour = colours[i]
		} else {
			config.Vertices[i].Colour = math.NewColourRGB(1, 1, 1)
		}
	}
	ext, center := math.GeometryComputeExtents(config.Vertices)
	config.MinExtents, config.MaxExtents, config.Center = ext.Min, ext.Max, center
	return config, nil
}

// GenerateLinesConfig builds an indexed line list, one segment per pair.
func GenerateLinesConfig(segments [][2]math.Vec3, name string) *metadata.GeometryConfig {
	config := &metadata.GeometryConfig{
		VertexCount: uint32(len(segments) * 2),
		Vertices:    make([]math.Vertex3D, 0, len(segments)*2),
		IndexCount:  uint32(len(segments) * 2),
		Indices:     make([]uint32, 0, len(segments)*2),
		Topology:    metadata.TopologyLines,
		Name:        name,
	}
	white := math.NewColourRGB(1, 1, 1)
	for i, s := range segments {
		config.Vertices = append(config.Vertices,
			math.Vertex3D{Position: s[0], Colour: white},
			math.Vertex3D{Position: s[1], Colour: white})
		config.Indices = append(config.Indices, uint32(i*2), uint32(i*2+1))
	}
	ext, center := math.GeometryComputeExtents(config.Vertices)
	config.MinExtents, config.MaxExtents, config.Center = ext.Min, ext.Max, center
	return config
}
