package headless

import (
	"github.com/spaghettifunk/folio/engine/math"
	"github.com/spaghettifunk/folio/engine/renderer/metadata"
)

type screenVertex struct {
	x, y, z float32
	ok      bool
}

// project maps a model-space position to pixel coordinates and NDC depth.
// Vertices behind the near plane are flagged and skipped by callers.
func (b *Backend) project(p math.Vec3, mvp math.Mat4) (screenVertex, float32) {
	clip := p.ToVec4(1).Transform(mvp)
	if clip.W <= 1e-5 {
		return screenVertex{}, clip.W
	}
	nx, ny, nz := clip.X/clip.W, clip.Y/clip.W, clip.Z/clip.W
	return screenVertex{
		x:  (nx*0.5 + 0.5) * float32(b.width),
		y:  (1 - (ny*0.5 + 0.5)) * float32(b.height),
		z:  nz,
		ok: nz >= -1 && nz <= 1,
	}, clip.W
}

func (b *Backend) blend(idx int, src rgba, mode metadata.BlendMode) {
	dst := &b.colour[idx]
	switch {
	case mode == metadata.BlendAdditive:
		dst.r += src.r * src.a
		dst.g += src.g * src.a
		dst.b += src.b * src.a
	case src.a >= 1:
		*dst = src
	default:
		dst.r = src.r*src.a + dst.r*(1-src.a)
		dst.g = src.g*src.a + dst.g*(1-src.a)
		dst.b = src.b*src.a + dst.b*(1-src.a)
	}
}

func shade(base math.Vec4, material *metadata.Material) rgba {
	d := material.DiffuseColour
	return rgba{base.X * d.X, base.Y * d.Y, base.Z * d.Z, base.W * d.W * material.Opacity}
}

func (b *Backend) drawTriangles(buffers *geometryBuffers, model, mvp math.Mat4, material *metadata.Material, packet *metadata.RenderPacket) {
	blended := material.Opacity < 1 || material.Blend == metadata.BlendAdditive
	idx := buffers.indices
	for i := 0; i+2 < len(idx); i += 3 {
		v0, v1, v2 := buffers.vertices[idx[i]], buffers.vertices[idx[i+1]], buffers.vertices[idx[i+2]]
		s0, w0 := b.project(v0.Position, mvp)
		s1, w1 := b.project(v1.Position, mvp)
		s2, w2 := b.project(v2.Position, mvp)
		if w0 <= 1e-5 || w1 <= 1e-5 || w2 <= 1e-5 {
			continue
		}

		colour := shade(v0.Colour, material)
		if !material.Unlit {
			centre := v0.Position.Add(v1.Position).Add(v2.Position).MulScalar(1.0 / 3.0).Transform(model)
			normal := v0.Normal.TransformDirection(model).Normalize()
			l := lighting(centre, normal, packet)
			colour.r *= l.r
			colour.g *= l.g
			colour.b *= l.b
		}

		if material.Wireframe {
			b.line(s0, s1, colour, material.Blend)
			b.line(s1, s2, colour, material.Blend)
			b.line(s2, s0, colour, material.Blend)
			continue
		}
		b.fillTriangle(s0, s1, s2, colour, material.Blend, !blended)
	}
}

// lighting sums the ambient term and every point light at p with normal n.
// Faces are lit from either side.
func lighting(p, n math.Vec3, packet *metadata.RenderPacket) rgba {
	out := rgba{packet.AmbientColour.X, packet.AmbientColour.Y, packet.AmbientColour.Z, 1}
	for _, light := range packet.PointLights {
		dir := light.Position.Sub(p)
		dist := dir.Length()
		if dist == 0 {
			continue
		}
		lambert := math.Abs(n.Dot(dir.MulScalar(1 / dist)))
		k := lambert * light.Intensity
		out.r += light.Colour.X * k
		out.g += light.Colour.Y * k
		out.b += light.Colour.Z * k
	}
	return out
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func (b *Backend) fillTriangle(s0, s1, s2 screenVertex, c rgba, mode metadata.BlendMode, writeDepth bool) {
	area := edge(s0.x, s0.y, s1.x, s1.y, s2.x, s2.y)
	if area == 0 {
		return
	}
	minX := int(max(0, min(s0.x, s1.x, s2.x)))
	maxX := int(min(float32(b.width-1), max(s0.x, s1.x, s2.x)))
	minY := int(max(0, min(s0.y, s1.y, s2.y)))
	maxY := int(min(float32(b.height-1), max(s0.y, s1.y, s2.y)))
	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			w0 := edge(s1.x, s1.y, s2.x, s2.y, px, py) / area
			w1 := edge(s2.x, s2.y, s0.x, s0.y, px, py) / area
			w2 := edge(s0.x, s0.y, s1.x, s1.y, px, py) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*s0.z + w1*s1.z + w2*s2.z
			if z < -1 || z > 1 {
				continue
			}
			i := y*int(b.width) + x
			if z > b.depth[i] {
				continue
			}
			if writeDepth {
				b.depth[i] = z
			}
			b.blend(i, c, mode)
		}
	}
}

func (b *Backend) drawLines(buffers *geometryBuffers, mvp math.Mat4, material *metadata.Material) {
	idx := buffers.indices
	for i := 0; i+1 < len(idx); i += 2 {
		v0, v1 := buffers.vertices[idx[i]], buffers.vertices[idx[i+1]]
		s0, w0 := b.project(v0.Position, mvp)
		s1, w1 := b.project(v1.Position, mvp)
		if w0 <= 1e-5 || w1 <= 1e-5 {
			continue
		}
		b.line(s0, s1, shade(v0.Colour, material), material.Blend)
	}
}

// line draws a depth-tested Bresenham segment without writing depth.
func (b *Backend) line(s0, s1 screenVertex, c rgba, mode metadata.BlendMode) {
	x0, y0 := int(s0.x), int(s0.y)
	x1, y1 := int(s1.x), int(s1.y)
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	steps := max(dx, -dy)
	err := dx + dy
	for n := 0; ; n++ {
		if x0 >= 0 && y0 >= 0 && x0 < int(b.width) && y0 < int(b.height) {
			t := float32(0)
			if steps > 0 {
				t = float32(n) / float32(steps)
			}
			z := s0.z + (s1.z-s0.z)*t
			i := y0*int(b.width) + x0
			if z <= b.depth[i] {
				b.blend(i, c, mode)
			}
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// drawPoints splats each point as a square whose side shrinks with distance.
func (b *Backend) drawPoints(buffers *geometryBuffers, mvp math.Mat4, material *metadata.Material, packet *metadata.RenderPacket) {
	// Pixels per world unit at distance one.
	scale := packet.ProjectionMatrix.Data[5] * float32(b.height) * 0.5
	for _, v := range buffers.vertices {
		s, w := b.project(v.Position, mvp)
		if w <= 1e-5 || !s.ok {
			continue
		}
		size := int(material.PointSize*scale/w + 0.5)
		size = max(size, 1)
		c := shade(v.Colour, material)
		x0 := int(s.x) - size/2
		y0 := int(s.y) - size/2
		for y := y0; y < y0+size; y++ {
			if y < 0 || y >= int(b.height) {
				continue
			}
			for x := x0; x < x0+size; x++ {
				if x < 0 || x >= int(b.width) {
					continue
				}
				i := y*int(b.width) + x
				if s.z > b.depth[i] {
					continue
				}
				b.blend(i, c, material.Blend)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
