package scene

import (
	"github.com/spaghettifunk/folio/engine/math"
	"github.com/spaghettifunk/folio/engine/renderer/metadata"
	"github.com/spaghettifunk/folio/engine/systems"
)

type particleField struct {
	spec     ParticleField
	rotation math.Vec3
	geometry *metadata.Geometry
}

// scatterParticles places count points uniformly inside bounds and picks each
// colour channel uniformly between min and max. Each particle draws its three
// coordinates and then its three channels, so a given seed always yields the
// same field.
func scatterParticles(spec ParticleField, rng *math.Random) ([]math.Vec3, []math.Vec4) {
	positions := make([]math.Vec3, spec.Count)
	colours := make([]math.Vec4, spec.Count)
	for i := 0; i < spec.Count; i++ {
		positions[i] = math.NewVec3(
			rng.Centered(spec.Bounds.X),
			rng.Centered(spec.Bounds.Y),
			rng.Centered(spec.Bounds.Z),
		)
		colours[i] = math.NewColourRGB(
			rng.Range(spec.ColourMin.X, spec.ColourMax.X),
			rng.Range(spec.ColourMin.Y, spec.ColourMax.Y),
			rng.Range(spec.ColourMin.Z, spec.ColourMax.Z),
		)
	}
	return positions, colours
}

func buildParticles(name string, spec ParticleField, rng *math.Random) (*metadata.GeometryConfig, *metadata.Material, error) {
	positions, colours := scatterParticles(spec, rng)
	config, err := systems.GeneratePointsConfig(positions, colours, name+"_particles")
	if err != nil {
		return nil, nil, err
	}
	material := metadata.NewDefaultMaterial()
	material.Name = name + "_particles"
	material.PointSize = spec.PointSize
	material.Blend = spec.Blend
	material.Unlit = true
	if spec.Opacity > 0 {
		material.Opacity = spec.Opacity
	}
	return config, material, nil
}

func (p *particleField) model() math.Mat4 {
	return math.NewMat4EulerXYZ(p.rotation.X, p.rotation.Y, p.rotation.Z)
}
