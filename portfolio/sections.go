package portfolio

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/folio/engine/math"
	"github.com/spaghettifunk/folio/engine/renderer/metadata"
	"github.com/spaghettifunk/folio/engine/scene"
)

// Section is one block of the page. Static sections return a nil descriptor.
type Section interface {
	ID() string
	Title() string
	Content() []string
	Descriptor(rng *math.Random) *scene.Descriptor
}

// Slate background shared by every scene.
var background = math.NewVec3(0.06, 0.09, 0.16)

func ambient(intensity float32) scene.LightSpec {
	return scene.LightSpec{Kind: scene.LightAmbient, Colour: math.NewVec3(1, 1, 1), Intensity: intensity}
}

func point(x, y, z float32, colour math.Vec3, intensity float32) scene.LightSpec {
	return scene.LightSpec{Kind: scene.LightPoint, Position: math.NewVec3(x, y, z), Colour: colour, Intensity: intensity}
}

// NewSections builds the page sections in display order.
func NewSections(c *Content) []Section {
	return []Section{
		&Navbar{content: c},
		&Hero{content: c},
		&About{content: c},
		&Experience{content: c},
		&Projects{content: c},
		&Achievements{content: c},
		&Contact{content: c},
		&FooterSection{content: c},
	}
}

type Navbar struct{ content *Content }

func (s *Navbar) ID() string    { return "navbar" }
func (s *Navbar) Title() string { return s.content.Profile.Name }
func (s *Navbar) Content() []string {
	return []string{
		s.content.Profile.Name,
		"Home | About | Experience | Projects | Achievements | Contact",
	}
}
func (s *Navbar) Descriptor(*math.Random) *scene.Descriptor { return nil }

// Hero is a slowly turning cloud of blue points the camera drifts around
// with the pointer.
type Hero struct{ content *Content }

func (s *Hero) ID() string    { return "hero" }
func (s *Hero) Title() string { return s.content.Profile.Name }

func (s *Hero) Content() []string {
	p := s.content.Profile
	return []string{
		p.Name,
		p.Role,
		p.Tagline,
		"GitHub: " + p.GitHub,
		"LinkedIn: " + p.LinkedIn,
		"Email: " + p.Email,
	}
}

func (s *Hero) Descriptor(*math.Random) *scene.Descriptor {
	return &scene.Descriptor{
		Name: s.ID(),
		Particles: &scene.ParticleField{
			Count:     3000,
			Bounds:    math.NewVec3(12, 12, 12),
			ColourMin: math.NewVec3(0.2, 0.5, 0.9),
			ColourMax: math.NewVec3(0.5, 1.0, 1.0),
			PointSize: 0.03,
			Opacity:   0.8,
			Blend:     metadata.BlendAdditive,
			Spin:      math.NewVec3(0.0003, 0.0008, 0),
		},
		Camera:     scene.CameraSpec{Distance: 4, Sensitivity: 0.5},
		Background: background,
	}
}

// About floats a shelf of books in the blue to purple hue band.
type About struct{ content *Content }

const bookCount = 15

func (s *About) ID() string    { return "about" }
func (s *About) Title() string { return "About Me" }

func (s *About) Content() []string {
	lines := []string{s.Title(), "Education"}
	for _, e := range s.content.Education {
		lines = append(lines, fmt.Sprintf("%s, %s (%s) %s", e.Degree, e.Institution, e.Period, e.Score))
	}
	lines = append(lines, "Skills")
	lines = append(lines, groups(s.content.Skills)...)
	lines = append(lines, "Coursework")
	lines = append(lines, groups(s.content.Coursework)...)
	return lines
}

func groups(gs []Group) []string {
	lines := make([]string, 0, len(gs))
	for _, g := range gs {
		lines = append(lines, fmt.Sprintf("%s: %s", g.Category, strings.Join(g.Items, ", ")))
	}
	return lines
}

func (s *About) Descriptor(rng *math.Random) *scene.Descriptor {
	objects := make([]scene.ObjectSpec, 0, bookCount)
	for i := 0; i < bookCount; i++ {
		objects = append(objects, scene.ObjectSpec{
			Name:   fmt.Sprintf("book-%d", i),
			Kind:   metadata.ShapeBox,
			Params: metadata.ShapeParams{Width: 0.6, Height: 0.9, Depth: 0.15},
			Position: math.NewVec3(
				rng.Centered(10),
				rng.Centered(6),
				rng.Centered(4),
			),
			Rotation: math.NewVec3(rng.Centered(1), rng.Centered(math.K_PI_2), 0),
			Colour:   scene.HSL(rng.Range(0.55, 0.75), 0.7, rng.Range(0.45, 0.65)),
			Motion: scene.Motion{
				Spin:           math.NewVec3(rng.Centered(0.01), rng.Centered(0.02), 0),
				FloatAmplitude: rng.Range(0.1, 0.4),
				FloatPhase:     rng.Range(0, math.K_PI_2),
			},
		})
	}
	return &scene.Descriptor{
		Name:    s.ID(),
		Objects: objects,
		Lights: []scene.LightSpec{
			ambient(0.5),
			point(5, 5, 5, math.NewVec3(1, 1, 1), 1),
		},
		Camera:     scene.CameraSpec{Distance: 8, Sensitivity: 0.5},
		Background: background,
	}
}

// Experience turns a train of gears. Neighbouring gears spin in opposite
// directions at rates inversely proportional to their tooth count.
type Experience struct{ content *Content }

var gearTeeth = [4]int{8, 12, 16, 20}

var gearPositions = [4]math.Vec3{
	{X: -3.5, Y: 1.5, Z: -1},
	{X: -1, Y: -1, Z: 0},
	{X: 1.8, Y: 1.2, Z: -1},
	{X: 4, Y: -1.2, Z: -2},
}

var gearColours = [4]uint32{0x3b82f6, 0x8b5cf6, 0x06b6d4, 0x6366f1}

func (s *Experience) ID() string    { return "experience" }
func (s *Experience) Title() string { return "Professional Experience" }

func (s *Experience) Content() []string {
	lines := []string{s.Title()}
	for _, j := range s.content.Experience {
		header := fmt.Sprintf("%s @ %s, %s (%s)", j.Title, j.Company, j.Location, j.Period)
		if j.Current {
			header += " [Current]"
		}
		lines = append(lines, header)
		for _, d := range j.Description {
			lines = append(lines, "- "+d)
		}
	}
	return lines
}

func (s *Experience) Descriptor(*math.Random) *scene.Descriptor {
	objects := make([]scene.ObjectSpec, 0, len(gearTeeth))
	for i, teeth := range gearTeeth {
		radius := float32(teeth) * 0.08
		spin := 0.16 / float32(teeth)
		if i%2 == 1 {
			spin = -spin
		}
		objects = append(objects, scene.ObjectSpec{
			Name: fmt.Sprintf("gear-%d", teeth),
			Kind: metadata.ShapeGear,
			Params: metadata.ShapeParams{
				Radius:         radius,
				Teeth:          teeth,
				BoreRadius:     0.3 * radius,
				Depth:          0.3,
				BevelSize:      0.03,
				BevelThickness: 0.03,
			},
			Position: gearPositions[i],
			Colour:   scene.Hex(gearColours[i]),
			Motion:   scene.Motion{Spin: math.NewVec3(0, 0, spin)},
		})
	}
	return &scene.Descriptor{
		Name:    s.ID(),
		Objects: objects,
		Lights: []scene.LightSpec{
			ambient(0.4),
			point(0, 4, 6, math.NewVec3(1, 1, 1), 1.2),
		},
		Camera:     scene.CameraSpec{Distance: 7, Sensitivity: 0.4},
		Background: background,
	}
}

// ProjectsLayout is the rest position of every Projects cube.
var ProjectsLayout = [8]math.Vec3{
	{X: -3, Y: 1.5, Z: -1},
	{X: 3, Y: -1.5, Z: -1},
	{X: -1.5, Y: -2, Z: 0},
	{X: 1.5, Y: 2, Z: 0},
	{X: -4, Y: -1, Z: -2},
	{X: 4, Y: 1, Z: -2},
	{X: 0, Y: 0, Z: -3},
	{X: 0, Y: 3, Z: -1.5},
}

// Projects is a network of floating cubes linked to their close neighbours.
type Projects struct{ content *Content }

func (s *Projects) ID() string    { return "projects" }
func (s *Projects) Title() string { return "Featured Projects" }

func (s *Projects) Content() []string {
	lines := []string{s.Title()}
	for _, p := range s.content.Projects {
		lines = append(lines, fmt.Sprintf("%s (%s)", p.Title, p.Period))
		lines = append(lines, "Tech: "+strings.Join(p.Tech, ", "))
		for _, d := range p.Description {
			lines = append(lines, "- "+d)
		}
		if len(p.GitHub) > 0 {
			lines = append(lines, "GitHub: "+p.GitHub)
		}
		if len(p.Link) > 0 {
			lines = append(lines, "Link: "+p.Link)
		}
	}
	return lines
}

func (s *Projects) Descriptor(*math.Random) *scene.Descriptor {
	objects := make([]scene.ObjectSpec, 0, len(ProjectsLayout))
	for i, pos := range ProjectsLayout {
		objects = append(objects, scene.ObjectSpec{
			Name:     fmt.Sprintf("node-%d", i),
			Kind:     metadata.ShapeBox,
			Params:   metadata.ShapeParams{Width: 0.7, Height: 0.7, Depth: 0.7},
			Position: pos,
			Colour:   scene.HSL(0.6+0.02*float32(i), 0.8, 0.6),
			Opacity:  0.85,
			Motion: scene.Motion{
				Spin:           math.NewVec3(0.005, 0.01, 0),
				FloatAmplitude: 0.3,
				FloatPhase:     float32(i) * 0.8,
			},
		})
	}
	return &scene.Descriptor{
		Name:    s.ID(),
		Objects: objects,
		Particles: &scene.ParticleField{
			Count:     200,
			Bounds:    math.NewVec3(14, 10, 8),
			ColourMin: math.NewVec3(0.6, 0.7, 0.9),
			ColourMax: math.NewVec3(0.8, 0.9, 1.0),
			PointSize: 0.02,
			Opacity:   0.6,
			Blend:     metadata.BlendAdditive,
			Spin:      math.NewVec3(0, 0.0005, 0),
		},
		Links: &scene.LinkSpec{
			Threshold: scene.DefaultLinkThreshold,
			Colour:    math.NewVec3(0.4, 0.6, 1.0),
			Opacity:   0.35,
		},
		Lights: []scene.LightSpec{
			ambient(0.5),
			point(4, 4, 4, math.NewVec3(0.6, 0.7, 1), 1),
		},
		Camera:     scene.CameraSpec{Distance: 8, Sensitivity: 0.5},
		Background: background,
	}
}

var starPositions = [6]math.Vec3{
	{X: -3, Y: 1.5, Z: -1},
	{X: 0, Y: 2, Z: -2},
	{X: 3, Y: 1.5, Z: -1},
	{X: -2.5, Y: -1.5, Z: 0},
	{X: 0, Y: -2, Z: -1},
	{X: 2.5, Y: -1.5, Z: 0},
}

var starColours = [3]uint32{0xfbbf24, 0xf59e0b, 0xf97316}

// Achievements hangs gold stars in a field of sparkles.
type Achievements struct{ content *Content }

func (s *Achievements) ID() string    { return "achievements" }
func (s *Achievements) Title() string { return "Achievements & Recognition" }

func (s *Achievements) Content() []string {
	lines := []string{s.Title()}
	for _, a := range s.content.Achievements {
		lines = append(lines, fmt.Sprintf("%s: %s", a.Title, a.Subtitle))
	}
	return lines
}

func (s *Achievements) Descriptor(*math.Random) *scene.Descriptor {
	objects := make([]scene.ObjectSpec, 0, len(starPositions))
	for i, pos := range starPositions {
		spin := float32(0.01)
		if i%2 == 1 {
			spin = -spin
		}
		objects = append(objects, scene.ObjectSpec{
			Name: fmt.Sprintf("star-%d", i),
			Kind: metadata.ShapeStar,
			Params: metadata.ShapeParams{
				OuterRadius:    0.5,
				InnerRadius:    0.2,
				Points:         5,
				Depth:          0.15,
				BevelSize:      0.02,
				BevelThickness: 0.02,
			},
			Position: pos,
			Colour:   scene.Hex(starColours[i%len(starColours)]),
			Motion: scene.Motion{
				Spin:           math.NewVec3(0, spin, 0),
				FloatAmplitude: 0.2,
				FloatPhase:     float32(i),
			},
		})
	}
	return &scene.Descriptor{
		Name:    s.ID(),
		Objects: objects,
		Particles: &scene.ParticleField{
			Count:     800,
			Bounds:    math.NewVec3(10, 10, 10),
			ColourMin: math.NewVec3(0.9, 0.7, 0.2),
			ColourMax: math.NewVec3(1.0, 0.9, 0.4),
			PointSize: 0.025,
			Opacity:   0.9,
			Blend:     metadata.BlendAdditive,
			Spin:      math.NewVec3(0, 0.001, 0),
		},
		Lights: []scene.LightSpec{
			ambient(0.4),
			point(0, 3, 5, math.NewVec3(1, 0.9, 0.7), 1.5),
		},
		Camera:     scene.CameraSpec{Distance: 6, Sensitivity: 0.5},
		Background: background,
	}
}

type Contact struct{ content *Content }

func (s *Contact) ID() string    { return "contact" }
func (s *Contact) Title() string { return "Get In Touch" }

func (s *Contact) Content() []string {
	p := s.content.Profile
	return []string{
		s.Title(),
		"Email: " + p.Email,
		"GitHub: " + p.GitHub,
		"LinkedIn: " + p.LinkedIn,
		"Send a message: folio contact --name <name> --email <email> --message <text>",
	}
}

func (s *Contact) Descriptor(*math.Random) *scene.Descriptor { return nil }

type FooterSection struct{ content *Content }

func (s *FooterSection) ID() string                                { return "footer" }
func (s *FooterSection) Title() string                             { return "" }
func (s *FooterSection) Content() []string                         { return []string{s.content.Footer.Text} }
func (s *FooterSection) Descriptor(*math.Random) *scene.Descriptor { return nil }
