package math

import (
	m "math"
	"testing"
)

const tolerance = 1e-5

func TestLookAtMapsTargetOntoNegativeZ(t *testing.T) {
	eye := NewVec3(0, 0, 4)
	view := NewMat4LookAt(eye, NewVec3Zero(), NewVec3Up())

	origin := NewVec3Zero().Transform(view)
	if !origin.Compare(NewVec3(0, 0, -4), tolerance) {
		t.Errorf("Expected origin at (0,0,-4) in view space, got %+v", origin)
	}

	right := NewVec3(1, 0, 0).Transform(view)
	if right.X <= 0 {
		t.Errorf("Expected +X to stay on the right, got %+v", right)
	}
	up := NewVec3(0, 1, 0).Transform(view)
	if up.Y <= 0 {
		t.Errorf("Expected +Y to stay up, got %+v", up)
	}
}

func TestLookAtFromOffsetEyeCentresTarget(t *testing.T) {
	eye := NewVec3(0.5, -0.25, 4)
	view := NewMat4LookAt(eye, NewVec3Zero(), NewVec3Up())
	p := NewVec3Zero().Transform(view)
	if Abs(p.X) > tolerance || Abs(p.Y) > tolerance {
		t.Errorf("Expected target on the view axis, got %+v", p)
	}
	if Abs(p.Z+eye.Length()) > 1e-4 {
		t.Errorf("Expected target at depth %v, got %v", -eye.Length(), p.Z)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := NewMat4Perspective(DegToRad(75), 1, 0.1, 1000)
	near := NewVec4(0, 0, -0.1, 1).Transform(proj)
	far := NewVec4(0, 0, -1000, 1).Transform(proj)

	if d := near.Z / near.W; Abs(d+1) > 1e-3 {
		t.Errorf("Expected near plane at -1, got %v", d)
	}
	if d := far.Z / far.W; Abs(d-1) > 1e-3 {
		t.Errorf("Expected far plane at 1, got %v", d)
	}
}

func TestTransformLocalAppliesRotationThenTranslation(t *testing.T) {
	tr := TransformFromPositionRotation(NewVec3(1, 2, 3), NewVec3(0, 0, K_HALF_PI))
	p := NewVec3(1, 0, 0).Transform(tr.GetLocal())
	if !p.Compare(NewVec3(1, 3, 3), tolerance) {
		t.Errorf("Expected (1,3,3), got %+v", p)
	}

	tr.Rotate(NewVec3(0, 0, K_HALF_PI))
	p = NewVec3(1, 0, 0).Transform(tr.GetLocal())
	if !p.Compare(NewVec3(0, 2, 3), tolerance) {
		t.Errorf("Expected (0,2,3) after second rotation, got %+v", p)
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	if n := NewVec3Zero().Normalize(); !n.IsZero() {
		t.Errorf("Expected zero vector, got %+v", n)
	}
}

func TestColourHSL(t *testing.T) {
	tests := []struct {
		h, s, l float32
		want    Vec4
	}{
		{0, 1, 0.5, NewColourRGB(1, 0, 0)},
		{1.0 / 3.0, 1, 0.5, NewColourRGB(0, 1, 0)},
		{2.0 / 3.0, 1, 0.5, NewColourRGB(0, 0, 1)},
		{0.4, 0, 0.25, NewColourRGB(0.25, 0.25, 0.25)},
	}
	for _, tt := range tests {
		got := NewColourHSL(tt.h, tt.s, tt.l)
		if Abs(got.X-tt.want.X) > 1e-4 || Abs(got.Y-tt.want.Y) > 1e-4 || Abs(got.Z-tt.want.Z) > 1e-4 {
			t.Errorf("HSL(%v,%v,%v): expected %+v, got %+v", tt.h, tt.s, tt.l, tt.want, got)
		}
	}
}

func TestRandomIsSeedable(t *testing.T) {
	a := NewRandom(42)
	b := NewRandom(42)
	for i := 0; i < 10; i++ {
		x, y := a.Range(-1, 1), b.Range(-1, 1)
		if x != y {
			t.Fatalf("draw %d: expected equal values, got %v and %v", i, x, y)
		}
		if x < -1 || x >= 1 {
			t.Errorf("draw %d: %v out of range", i, x)
		}
	}
}

func TestSinPhaseKeepsResolutionAfterADay(t *testing.T) {
	const day = 86400.0
	for _, dt := range []float64{0, 0.001, 0.004, 0.016} {
		want := float32(m.Sin(day + dt + 0.5))
		if got := SinPhase(day+dt, 0.5); got != want {
			t.Errorf("dt=%v: expected %v, got %v", dt, want, got)
		}
	}
	if SinPhase(day, 0) == SinPhase(day+0.004, 0) {
		t.Errorf("Expected 4ms apart to give different values after a day")
	}
}
