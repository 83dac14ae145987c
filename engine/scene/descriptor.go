package scene

import (
	"fmt"

	"github.com/spaghettifunk/folio/engine/core"
	"github.com/spaghettifunk/folio/engine/math"
	"github.com/spaghettifunk/folio/engine/renderer/components"
	"github.com/spaghettifunk/folio/engine/renderer/metadata"
	"github.com/spaghettifunk/folio/engine/systems"
)

const (
	DefaultEasing        float32 = 0.05
	DefaultDistance      float32 = 5
	DefaultLinkThreshold float32 = 4
)

// Descriptor declares everything one ambient background contains. The number
// of objects and particles is fixed once a runtime is built from it; only
// transforms change afterwards.
type Descriptor struct {
	Name       string
	Objects    []ObjectSpec
	Particles  *ParticleField
	Lights     []LightSpec
	Camera     CameraSpec
	Links      *LinkSpec
	Background math.Vec3
}

type ObjectSpec struct {
	Name     string
	Kind     metadata.ShapeKind
	Params   metadata.ShapeParams
	Position math.Vec3
	Rotation math.Vec3
	Colour   Colour
	Motion   Motion
	// Opacity of zero means fully opaque.
	Opacity   float32
	Wireframe bool
}

// Motion is applied every frame. Spin is added to the rotation once per
// frame regardless of the frame duration; the float offset is recomputed from
// elapsed time.
type Motion struct {
	Spin           math.Vec3
	FloatAmplitude float32
	FloatPhase     float32
}

type ParticleField struct {
	Count int
	// Bounds are the full extents of the box the particles fill, centred on the origin.
	Bounds    math.Vec3
	ColourMin math.Vec3
	ColourMax math.Vec3
	PointSize float32
	Opacity   float32
	Blend     metadata.BlendMode
	Spin      math.Vec3
}

type LightKind uint8

const (
	LightAmbient LightKind = iota
	LightPoint
)

type LightSpec struct {
	Kind      LightKind
	Position  math.Vec3
	Colour    math.Vec3
	Intensity float32
}

type CameraSpec struct {
	Distance    float32
	FOV         float32
	Near        float32
	Far         float32
	Sensitivity float32
	Easing      float32
}

// LinkSpec connects every pair of objects whose rest positions are closer
// than Threshold with a line.
type LinkSpec struct {
	Threshold float32
	Colour    math.Vec3
	Opacity   float32
}

type ColourModel uint8

const (
	colourUnset ColourModel = iota
	ColourModelRGB
	ColourModelHSL
)

// Colour is either an RGB triple or an HSL triple, all channels in [0, 1].
// The zero value renders white.
type Colour struct {
	Model   ColourModel
	A, B, C float32
}

func RGB(r, g, b float32) Colour {
	return Colour{Model: ColourModelRGB, A: r, B: g, C: b}
}

func HSL(h, s, l float32) Colour {
	return Colour{Model: ColourModelHSL, A: h, B: s, C: l}
}

func Hex(hex uint32) Colour {
	c := math.NewColourHex(hex)
	return RGB(c.X, c.Y, c.Z)
}

func (c Colour) Vec4() math.Vec4 {
	switch c.Model {
	case ColourModelRGB:
		return math.NewColourRGB(c.A, c.B, c.C)
	case ColourModelHSL:
		return math.NewColourHSL(c.A, c.B, c.C)
	default:
		return math.NewColourRGB(1, 1, 1)
	}
}

// Validate reports the first malformed entry. Errors wrap core.ErrInvalidShape
// for geometry problems and core.ErrInvalidDescriptor for everything else.
func (d *Descriptor) Validate() error {
	if d == nil {
		return fmt.Errorf("nil descriptor: %w", core.ErrInvalidDescriptor)
	}
	for i, o := range d.Objects {
		if err := systems.ValidateShape(o.Kind, o.Params); err != nil {
			return fmt.Errorf("object %d (%s): %w", i, o.Kind, err)
		}
		if o.Kind == metadata.ShapeBox && (o.Params.Width <= 0 || o.Params.Height <= 0 || o.Params.Depth <= 0) {
			return fmt.Errorf("object %d (box) needs positive dimensions: %w", i, core.ErrInvalidShape)
		}
		if o.Opacity < 0 || o.Opacity > 1 {
			return fmt.Errorf("object %d opacity %v outside [0, 1]: %w", i, o.Opacity, core.ErrInvalidDescriptor)
		}
	}
	if p := d.Particles; p != nil {
		if p.Count < 0 {
			return fmt.Errorf("negative particle count %d: %w", p.Count, core.ErrInvalidDescriptor)
		}
		if p.Count > 0 && p.PointSize <= 0 {
			return fmt.Errorf("particle point size must be positive, got %v: %w", p.PointSize, core.ErrInvalidDescriptor)
		}
		if p.Bounds.X < 0 || p.Bounds.Y < 0 || p.Bounds.Z < 0 {
			return fmt.Errorf("particle bounds must not be negative: %w", core.ErrInvalidDescriptor)
		}
		if p.Opacity < 0 || p.Opacity > 1 {
			return fmt.Errorf("particle opacity %v outside [0, 1]: %w", p.Opacity, core.ErrInvalidDescriptor)
		}
	}
	for i, l := range d.Lights {
		if l.Intensity < 0 {
			return fmt.Errorf("light %d has negative intensity: %w", i, core.ErrInvalidDescriptor)
		}
	}
	c := d.Camera
	if c.Distance < 0 || c.FOV < 0 || c.FOV >= 180 || c.Near < 0 || c.Far < 0 {
		return fmt.Errorf("camera lens out of range: %w", core.ErrInvalidDescriptor)
	}
	if lens := c.withDefaults(); lens.Far <= lens.Near {
		return fmt.Errorf("camera far plane %v must be beyond near plane %v: %w", lens.Far, lens.Near, core.ErrInvalidDescriptor)
	}
	if c.Easing < 0 || c.Easing > 1 {
		return fmt.Errorf("camera easing %v outside [0, 1]: %w", c.Easing, core.ErrInvalidDescriptor)
	}
	if l := d.Links; l != nil && l.Threshold < 0 {
		return fmt.Errorf("negative link threshold %v: %w", l.Threshold, core.ErrInvalidDescriptor)
	}
	return nil
}

// withDefaults fills the camera fields left at zero.
func (c CameraSpec) withDefaults() CameraSpec {
	if c.Distance == 0 {
		c.Distance = DefaultDistance
	}
	if c.FOV == 0 {
		c.FOV = components.DefaultFOV
	}
	if c.Near == 0 {
		c.Near = components.DefaultNear
	}
	if c.Far == 0 {
		c.Far = components.DefaultFar
	}
	if c.Easing == 0 {
		c.Easing = DefaultEasing
	}
	return c
}
