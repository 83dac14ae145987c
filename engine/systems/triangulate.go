package systems

import (
	"fmt"
	"sort"

	"github.com/spaghettifunk/folio/engine/core"
	"github.com/spaghettifunk/folio/engine/math"
)

const triangulateEpsilon float32 = 1e-9

// signedArea is positive for counter-clockwise rings.
func signedArea(ring []math.Vec2) float32 {
	var a float32
	for i := range ring {
		p := ring[i]
		q := ring[(i+1)%len(ring)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a * 0.5
}

func reversed(ring []math.Vec2) []math.Vec2 {
	out := make([]math.Vec2, len(ring))
	for i, p := range ring {
		out[len(ring)-1-i] = p
	}
	return out
}

type holeRing struct {
	indices   []int
	rightmost int
}

// triangulate splits a counter-clockwise outer ring with clockwise holes into
// counter-clockwise triangles. Indices address outer followed by every hole in order.
func triangulate(outer []math.Vec2, holes [][]math.Vec2) ([]uint32, error) {
	pts := append([]math.Vec2(nil), outer...)
	poly := make([]int, len(outer))
	for i := range outer {
		poly[i] = i
	}

	rings := make([]holeRing, 0, len(holes))
	for _, h := range holes {
		r := holeRing{indices: make([]int, len(h))}
		for i, p := range h {
			r.indices[i] = len(pts)
			pts = append(pts, p)
			if p.X > pts[r.indices[r.rightmost]].X {
				r.rightmost = i
			}
		}
		rings = append(rings, r)
	}
	// Bridging right to left keeps each bridge clear of holes merged later.
	sort.SliceStable(rings, func(a, b int) bool {
		return pts[rings[a].indices[rings[a].rightmost]].X > pts[rings[b].indices[rings[b].rightmost]].X
	})

	for h, ring := range rings {
		hv := ring.indices[ring.rightmost]
		best := -1
		var bestDist float32
		for k, ov := range poly {
			if !bridgeVisible(pts, poly, rings[h:], hv, ov) {
				continue
			}
			d := pts[hv].Distance(pts[ov])
			if best < 0 || d < bestDist {
				best, bestDist = k, d
			}
		}
		if best < 0 {
			return nil, fmt.Errorf("no bridge from hole %d to the outline: %w", h, core.ErrInvalidShape)
		}
		merged := make([]int, 0, len(poly)+len(ring.indices)+2)
		merged = append(merged, poly[:best+1]...)
		n := len(ring.indices)
		for i := 0; i <= n; i++ {
			merged = append(merged, ring.indices[(ring.rightmost+i)%n])
		}
		merged = append(merged, poly[best])
		merged = append(merged, poly[best+1:]...)
		poly = merged
	}

	return earClip(pts, poly), nil
}

// bridgeVisible reports whether the segment hv-ov crosses no edge of the
// current polygon or of the holes still to be merged.
func bridgeVisible(pts []math.Vec2, poly []int, pending []holeRing, hv, ov int) bool {
	a, b := pts[hv], pts[ov]
	crosses := func(i, j int) bool {
		if i == hv || j == hv || i == ov || j == ov {
			return false
		}
		c, d := pts[i], pts[j]
		if c == a || c == b || d == a || d == b {
			return false
		}
		return segmentsCross(a, b, c, d)
	}
	for i := range poly {
		if crosses(poly[i], poly[(i+1)%len(poly)]) {
			return false
		}
	}
	for _, ring := range pending {
		for i := range ring.indices {
			if crosses(ring.indices[i], ring.indices[(i+1)%len(ring.indices)]) {
				return false
			}
		}
	}
	return true
}

// segmentsCross reports a proper crossing; touching and collinear overlap do not count.
func segmentsCross(a, b, c, d math.Vec2) bool {
	d1 := b.Sub(a).Cross(c.Sub(a))
	d2 := b.Sub(a).Cross(d.Sub(a))
	d3 := d.Sub(c).Cross(a.Sub(c))
	d4 := d.Sub(c).Cross(b.Sub(c))
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func earClip(pts []math.Vec2, poly []int) []uint32 {
	rem := append([]int(nil), poly...)
	tris := make([]uint32, 0, max(len(rem)-2, 0)*3)
	for len(rem) > 3 {
		ear := findEar(pts, rem, false)
		if ear < 0 {
			ear = findEar(pts, rem, true)
		}
		if ear < 0 {
			// Only degenerate slivers remain around this vertex; drop it.
			ear = flattestVertex(pts, rem)
			rem = append(rem[:ear], rem[ear+1:]...)
			continue
		}
		n := len(rem)
		tris = append(tris, uint32(rem[(ear+n-1)%n]), uint32(rem[ear]), uint32(rem[(ear+1)%n]))
		rem = append(rem[:ear], rem[ear+1:]...)
	}
	if len(rem) == 3 {
		a, b, c := pts[rem[0]], pts[rem[1]], pts[rem[2]]
		if b.Sub(a).Cross(c.Sub(b)) > triangulateEpsilon {
			tris = append(tris, uint32(rem[0]), uint32(rem[1]), uint32(rem[2]))
		}
	}
	return tris
}

func findEar(pts []math.Vec2, rem []int, strict bool) int {
	n := len(rem)
	for i := 0; i < n; i++ {
		ip, ic, in := rem[(i+n-1)%n], rem[i], rem[(i+1)%n]
		a, b, c := pts[ip], pts[ic], pts[in]
		if b.Sub(a).Cross(c.Sub(b)) <= triangulateEpsilon {
			continue
		}
		blocked := false
		for _, j := range rem {
			if j == ip || j == ic || j == in {
				continue
			}
			q := pts[j]
			if q == a || q == b || q == c {
				continue
			}
			if pointInTriangle(q, a, b, c, strict) {
				blocked = true
				break
			}
		}
		if !blocked {
			return i
		}
	}
	return -1
}

func pointInTriangle(q, a, b, c math.Vec2, strict bool) bool {
	d1 := b.Sub(a).Cross(q.Sub(a))
	d2 := c.Sub(b).Cross(q.Sub(b))
	d3 := a.Sub(c).Cross(q.Sub(c))
	if strict {
		return d1 > 0 && d2 > 0 && d3 > 0
	}
	return d1 >= 0 && d2 >= 0 && d3 >= 0
}

func flattestVertex(pts []math.Vec2, rem []int) int {
	n := len(rem)
	best := 0
	bestArea := math.K_INFINITY
	for i := 0; i < n; i++ {
		a, b, c := pts[rem[(i+n-1)%n]], pts[rem[i]], pts[rem[(i+1)%n]]
		area := math.Abs(b.Sub(a).Cross(c.Sub(b)))
		if area < bestArea {
			best, bestArea = i, area
		}
	}
	return best
}
