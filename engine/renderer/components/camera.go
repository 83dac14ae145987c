package components

import (
	"github.com/spaghettifunk/folio/engine/math"
)

/**
 * @brief Represents a perspective camera that always looks at a target.
 * The view and projection matrices are rebuilt lazily when something
 * they depend on changes.
 */
type Camera struct {
	/**
	 * @brief The position of this camera.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the view matrix is recalculated when needed.
	 */
	Position math.Vec3
	/** @brief The point the camera looks at. */
	Target math.Vec3
	/** @brief Vertical field of view in degrees. */
	FOV    float32
	Near   float32
	Far    float32
	Aspect float32

	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	IsDirty           bool
	isProjectionDirty bool

	ViewMatrix       math.Mat4
	ProjectionMatrix math.Mat4
}

/** @brief The defaults every scene camera starts from. */
const (
	DefaultFOV  float32 = 75
	DefaultNear float32 = 0.1
	DefaultFar  float32 = 1000
)

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.Position = math.NewVec3Zero()
	c.Target = math.NewVec3Zero()
	c.FOV = DefaultFOV
	c.Near = DefaultNear
	c.Far = DefaultFar
	c.Aspect = 1
	c.IsDirty = true
	c.isProjectionDirty = true
	c.ViewMatrix = math.NewMat4Identity()
	c.ProjectionMatrix = math.NewMat4Identity()
}

func (c *Camera) GetPosition() math.Vec3 {
	return c.Position
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.Position = position
	c.IsDirty = true
}

func (c *Camera) SetTarget(target math.Vec3) {
	c.Target = target
	c.IsDirty = true
}

// SetPerspective replaces the lens. Zero values keep the current setting.
func (c *Camera) SetPerspective(fov, near, far float32) {
	if fov > 0 {
		c.FOV = fov
	}
	if near > 0 {
		c.Near = near
	}
	if far > 0 {
		c.Far = far
	}
	c.isProjectionDirty = true
}

// SetAspect updates the aspect ratio. A degenerate viewport is ignored.
func (c *Camera) SetAspect(width, height uint32) bool {
	if width == 0 || height == 0 {
		return false
	}
	c.Aspect = float32(width) / float32(height)
	c.isProjectionDirty = true
	return true
}

func (c *Camera) GetView() math.Mat4 {
	if c.IsDirty {
		c.ViewMatrix = math.NewMat4LookAt(c.Position, c.Target, math.NewVec3Up())
		c.IsDirty = false
	}
	return c.ViewMatrix
}

func (c *Camera) GetProjection() math.Mat4 {
	if c.isProjectionDirty {
		c.ProjectionMatrix = math.NewMat4Perspective(math.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
		c.isProjectionDirty = false
	}
	return c.ProjectionMatrix
}
