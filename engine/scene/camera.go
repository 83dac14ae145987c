package scene

import (
	"github.com/spaghettifunk/folio/engine/math"
	"github.com/spaghettifunk/folio/engine/renderer/components"
)

// pointerFollow eases a camera toward pointer·sensitivity on X and Y while
// holding it at a fixed distance and looking at the origin.
type pointerFollow struct {
	camera      *components.Camera
	distance    float32
	sensitivity float32
	easing      float32
}

func newPointerFollow(spec CameraSpec) *pointerFollow {
	camera := components.NewCamera()
	camera.SetPerspective(spec.FOV, spec.Near, spec.Far)
	camera.SetPosition(math.NewVec3(0, 0, spec.Distance))
	camera.SetTarget(math.NewVec3Zero())
	return &pointerFollow{
		camera:      camera,
		distance:    spec.Distance,
		sensitivity: spec.Sensitivity,
		easing:      spec.Easing,
	}
}

func (f *pointerFollow) target(pointer math.Vec2) math.Vec2 {
	return pointer.MulScalar(f.sensitivity)
}

// step moves the camera a fixed fraction of the remaining way to the target.
func (f *pointerFollow) step(pointer math.Vec2) {
	target := f.target(pointer)
	pos := f.camera.GetPosition()
	pos.X += (target.X - pos.X) * f.easing
	pos.Y += (target.Y - pos.Y) * f.easing
	pos.Z = f.distance
	f.camera.SetPosition(pos)
}
