package scene

import (
	"github.com/spaghettifunk/folio/engine/math"
	"github.com/spaghettifunk/folio/engine/renderer/metadata"
	"github.com/spaghettifunk/folio/engine/systems"
)

// Link joins two objects by index, I < J.
type Link struct {
	I, J int
}

// ComputeLinks returns every unordered pair of positions closer than
// threshold, ordered by the first then the second index.
func ComputeLinks(positions []math.Vec3, threshold float32) []Link {
	var links []Link
	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			if positions[i].Distance(positions[j]) < threshold {
				links = append(links, Link{I: i, J: j})
			}
		}
	}
	return links
}

func buildLinks(name string, spec LinkSpec, positions []math.Vec3, links []Link) (*metadata.GeometryConfig, *metadata.Material) {
	segments := make([][2]math.Vec3, len(links))
	for n, l := range links {
		segments[n] = [2]math.Vec3{positions[l.I], positions[l.J]}
	}
	config := systems.GenerateLinesConfig(segments, name+"_links")

	material := metadata.NewDefaultMaterial()
	material.Name = name + "_links"
	material.Unlit = true
	if !spec.Colour.IsZero() {
		material.DiffuseColour = math.NewColourRGB(spec.Colour.X, spec.Colour.Y, spec.Colour.Z)
	}
	if spec.Opacity > 0 {
		material.Opacity = spec.Opacity
	}
	return config, material
}
