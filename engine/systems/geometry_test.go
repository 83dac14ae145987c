package systems

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/spaghettifunk/folio/engine/core"
	"github.com/spaghettifunk/folio/engine/math"
	"github.com/spaghettifunk/folio/engine/renderer/metadata"
)

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

func TestStarOutlineIsClosed(t *testing.T) {
	for _, points := range []int{3, 5, 8} {
		path, err := StarOutline(1, 0.4, points)
		if err != nil {
			t.Fatalf("points=%d: unexpected error %v", points, err)
		}
		if len(path) != points*2+1 {
			t.Errorf("points=%d: expected %d vertices, got %d", points, points*2+1, len(path))
		}
		if path[0] != path[len(path)-1] {
			t.Errorf("points=%d: expected first and last vertex to coincide, got %+v and %+v", points, path[0], path[len(path)-1])
		}
		for i, p := range path[:len(path)-1] {
			want := float32(1)
			if i%2 == 1 {
				want = 0.4
			}
			if r := p.Length(); math.Abs(r-want) > 1e-5 {
				t.Errorf("points=%d vertex %d: expected radius %v, got %v", points, i, want, r)
			}
		}
	}
}

func TestStarOutlineStartsAtBottom(t *testing.T) {
	path, _ := StarOutline(2, 1, 5)
	if !path[0].Compare(math.NewVec2(0, -2), 1e-5) {
		t.Errorf("Expected first vertex at (0,-2), got %+v", path[0])
	}
}

func TestStarRejectsMalformedParams(t *testing.T) {
	tests := []struct {
		outer, inner float32
		points       int
	}{
		{1, 0.5, 2},
		{1, 1, 5},
		{1, 2, 5},
		{0, 0, 5},
	}
	for _, tt := range tests {
		if _, err := StarOutline(tt.outer, tt.inner, tt.points); !errors.Is(err, core.ErrInvalidShape) {
			t.Errorf("StarOutline(%v, %v, %d): expected ErrInvalidShape, got %v", tt.outer, tt.inner, tt.points, err)
		}
	}
}

func TestGearOutlineVertexCount(t *testing.T) {
	for _, teeth := range []int{3, 8, 12, 20} {
		profile, bore, err := GearOutline(1, 0.3, teeth, 0.3)
		if err != nil {
			t.Fatalf("teeth=%d: unexpected error %v", teeth, err)
		}
		if got := len(profile) - 1; got != 4*teeth {
			t.Errorf("teeth=%d: expected %d profile vertices, got %d", teeth, 4*teeth, got)
		}
		if profile[0] != profile[len(profile)-1] {
			t.Errorf("teeth=%d: expected closed profile", teeth)
		}
		if bore == nil || bore[0] != bore[len(bore)-1] {
			t.Fatalf("teeth=%d: expected one closed bore path", teeth)
		}
		if signedArea(bore[:len(bore)-1]) >= 0 {
			t.Errorf("teeth=%d: expected the bore to wind clockwise", teeth)
		}
	}
}

func TestGearToothLayout(t *testing.T) {
	profile, _, _ := GearOutline(1, 0.5, 4, 0)
	// first tooth: base-start, tip-start at angle 0, tip-end and base-end at 1/8 turn
	radii := []float32{1, 1.5, 1.5, 1}
	for i, want := range radii {
		if r := profile[i].Length(); math.Abs(r-want) > 1e-5 {
			t.Errorf("vertex %d: expected radius %v, got %v", i, want, r)
		}
	}
	if !profile[1].Compare(math.NewVec2(1.5, 0), 1e-5) {
		t.Errorf("Expected tip-start at (1.5,0), got %+v", profile[1])
	}
	if !profile[4].Compare(math.NewVec2(0, 1), 1e-5) {
		t.Errorf("Expected second tooth to start a quarter turn later, got %+v", profile[4])
	}
}

func TestGearRejectsMalformedParams(t *testing.T) {
	tests := []metadata.ShapeParams{
		{Radius: 1, Teeth: 2, BoreRadius: 0.2},
		{Radius: 1, Teeth: -4, BoreRadius: 0.2},
		{Radius: 1, Teeth: 8, BoreRadius: 1},
		{Radius: 0, Teeth: 8},
	}
	for _, p := range tests {
		if _, err := BuildGeometry(metadata.ShapeGear, p, ""); !errors.Is(err, core.ErrInvalidShape) {
			t.Errorf("%+v: expected ErrInvalidShape, got %v", p, err)
		}
	}
}

func TestBevelMustFitInsideShape(t *testing.T) {
	tests := []struct {
		name   string
		kind   metadata.ShapeKind
		params metadata.ShapeParams
		valid  bool
	}{
		{"star wide bevel", metadata.ShapeStar, metadata.ShapeParams{OuterRadius: 0.5, InnerRadius: 0.2, Points: 5, BevelSize: 0.4, BevelThickness: 0.03}, false},
		{"star bevel at margin", metadata.ShapeStar, metadata.ShapeParams{OuterRadius: 0.5, InnerRadius: 0.2, Points: 5, BevelSize: 0.2 * math.Sin(math.K_PI/5), BevelThickness: 0.03}, false},
		{"star section bevel", metadata.ShapeStar, metadata.ShapeParams{OuterRadius: 0.5, InnerRadius: 0.2, Points: 5, BevelSize: 0.02, BevelThickness: 0.03}, true},
		{"gear thin rim default bevel", metadata.ShapeGear, metadata.ShapeParams{Radius: 1, Teeth: 8, BoreRadius: 0.99}, false},
		{"gear thin rim explicit bevel", metadata.ShapeGear, metadata.ShapeParams{Radius: 1, Teeth: 8, BoreRadius: 0.9, BevelSize: 0.05, BevelThickness: 0.03}, false},
		{"gear thin rim no bevel", metadata.ShapeGear, metadata.ShapeParams{Radius: 1, Teeth: 8, BoreRadius: 0.99, BevelThickness: 0.03}, true},
		{"gear section bevel", metadata.ShapeGear, metadata.ShapeParams{Radius: 0.64, Teeth: 8, BoreRadius: 0.192, Depth: 0.3, BevelSize: 0.03, BevelThickness: 0.03}, true},
	}
	for _, tt := range tests {
		err := ValidateShape(tt.kind, tt.params)
		if tt.valid && err != nil {
			t.Errorf("%s: expected no error, got %v", tt.name, err)
		}
		if !tt.valid && !errors.Is(err, core.ErrInvalidShape) {
			t.Errorf("%s: expected ErrInvalidShape, got %v", tt.name, err)
		}
		if _, err := BuildGeometry(tt.kind, tt.params, ""); !tt.valid && !errors.Is(err, core.ErrInvalidShape) {
			t.Errorf("%s: expected BuildGeometry to fail with ErrInvalidShape, got %v", tt.name, err)
		}
	}
}

func TestExtrudeRejectsOpenPath(t *testing.T) {
	open := []math.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	if _, err := extrude("open", open, nil, 1, 0, 0); !errors.Is(err, core.ErrInvalidShape) {
		t.Errorf("Expected ErrInvalidShape for an open path, got %v", err)
	}
}

func capArea(config *metadata.GeometryConfig, z float32) float32 {
	var area float32
	for i := 0; i+2 < len(config.Indices); i += 3 {
		a := config.Vertices[config.Indices[i]].Position
		b := config.Vertices[config.Indices[i+1]].Position
		c := config.Vertices[config.Indices[i+2]].Position
		if a.Z != z || b.Z != z || c.Z != z {
			continue
		}
		ab := math.NewVec2(b.X-a.X, b.Y-a.Y)
		ac := math.NewVec2(c.X-a.X, c.Y-a.Y)
		area += ab.Cross(ac) * 0.5
	}
	return area
}

func TestExtrudedStarCapCoversOutline(t *testing.T) {
	outline, _ := StarOutline(1, 0.5, 5)
	config, err := extrude("star", outline, nil, 0.2, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	want := signedArea(outline[:len(outline)-1])
	if got := capArea(config, 0.1); math.Abs(got-want) > 1e-4 {
		t.Errorf("Expected front cap area %v, got %v", want, got)
	}
	if got := capArea(config, -0.1); math.Abs(got+want) > 1e-4 {
		t.Errorf("Expected back cap area %v, got %v", -want, got)
	}
}

func TestExtrudedGearCapExcludesBore(t *testing.T) {
	profile, bore, _ := GearOutline(1, 0.3, 8, 0.3)
	config, err := extrude("gear", profile, [][]math.Vec2{bore}, 0.3, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	want := signedArea(profile[:len(profile)-1]) + signedArea(bore[:len(bore)-1])
	if got := capArea(config, 0.15); math.Abs(got-want) > 1e-3 {
		t.Errorf("Expected front cap area %v, got %v", want, got)
	}
}

func TestBuildGeometryProducesValidMeshes(t *testing.T) {
	tests := []struct {
		kind   metadata.ShapeKind
		params metadata.ShapeParams
	}{
		{metadata.ShapeBox, metadata.ShapeParams{Width: 1, Height: 2, Depth: 3}},
		{metadata.ShapeStar, metadata.ShapeParams{OuterRadius: 0.5, InnerRadius: 0.2, Points: 5}},
		{metadata.ShapeGear, metadata.ShapeParams{Radius: 1, Teeth: 12, BoreRadius: 0.3}},
	}
	for _, tt := range tests {
		config, err := BuildGeometry(tt.kind, tt.params, "")
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tt.kind, err)
		}
		if len(config.Indices)%3 != 0 || len(config.Indices) == 0 {
			t.Errorf("%s: expected a triangle list, got %d indices", tt.kind, len(config.Indices))
		}
		if int(config.VertexCount) != len(config.Vertices) || int(config.IndexCount) != len(config.Indices) {
			t.Errorf("%s: counts do not match slices", tt.kind)
		}
		for _, idx := range config.Indices {
			if int(idx) >= len(config.Vertices) {
				t.Fatalf("%s: index %d out of range", tt.kind, idx)
			}
		}
	}
}

func TestBuildGeometryIsDeterministic(t *testing.T) {
	p := metadata.ShapeParams{Radius: 1, Teeth: 16, BoreRadius: 0.3}
	a, _ := BuildGeometry(metadata.ShapeGear, p, "a")
	b, _ := BuildGeometry(metadata.ShapeGear, p, "a")
	if len(a.Vertices) != len(b.Vertices) {
		t.Fatalf("Expected equal vertex counts, got %d and %d", len(a.Vertices), len(b.Vertices))
	}
	for i := range a.Vertices {
		if a.Vertices[i] != b.Vertices[i] {
			t.Fatalf("vertex %d differs", i)
		}
	}
}

func TestCubeConfig(t *testing.T) {
	config, err := GenerateCubeConfig(2, 4, 6, 1, 1, "box")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if config.VertexCount != 24 || config.IndexCount != 36 {
		t.Errorf("Expected 24 vertices and 36 indices, got %d and %d", config.VertexCount, config.IndexCount)
	}
	if config.MaxExtents != math.NewVec3(1, 2, 3) || config.MinExtents != math.NewVec3(-1, -2, -3) {
		t.Errorf("Unexpected extents %+v %+v", config.MinExtents, config.MaxExtents)
	}
	for i := 0; i < len(config.Indices); i += 3 {
		a := config.Vertices[config.Indices[i]]
		b := config.Vertices[config.Indices[i+1]]
		c := config.Vertices[config.Indices[i+2]]
		face := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position))
		if face.Dot(a.Normal) <= 0 {
			t.Errorf("triangle %d winds against its normal %+v", i/3, a.Normal)
		}
	}
}

func TestMeshIsCopied(t *testing.T) {
	mesh := &metadata.GeometryConfig{
		Vertices: []math.Vertex3D{{Position: math.NewVec3(0, 0, 0)}, {Position: math.NewVec3(1, 0, 0)}, {Position: math.NewVec3(0, 1, 0)}},
		Indices:  []uint32{0, 1, 2},
	}
	config, err := BuildGeometry(metadata.ShapeMesh, metadata.ShapeParams{Mesh: mesh}, "tri")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	config.Vertices[0].Position.X = 42
	if mesh.Vertices[0].Position.X != 0 {
		t.Errorf("Expected caller mesh to be left untouched")
	}
	if config.MaxExtents != math.NewVec3(1, 1, 0) {
		t.Errorf("Expected extents to be computed, got %+v", config.MaxExtents)
	}
}

func TestPointsAndLines(t *testing.T) {
	if _, err := GeneratePointsConfig(make([]math.Vec3, 3), make([]math.Vec4, 2), "p"); !errors.Is(err, core.ErrInvalidShape) {
		t.Errorf("Expected mismatched colours to fail, got %v", err)
	}
	lines := GenerateLinesConfig([][2]math.Vec3{{{0, 0, 0}, {1, 0, 0}}, {{0, 1, 0}, {0, 2, 0}}}, "l")
	if lines.Topology != metadata.TopologyLines || len(lines.Indices) != 4 || len(lines.Vertices) != 4 {
		t.Errorf("Unexpected line config %+v", lines)
	}
}
