package scene

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spaghettifunk/folio/engine/core"
	"github.com/spaghettifunk/folio/engine/math"
	"github.com/spaghettifunk/folio/engine/renderer"
	"github.com/spaghettifunk/folio/engine/renderer/metadata"
	"github.com/spaghettifunk/folio/engine/systems"
)

// Viewport is the logical size of the area a runtime draws into.
type Viewport struct {
	Width      uint32
	Height     uint32
	PixelRatio float32
}

type Option func(*Runtime)

// WithScheduler drives the runtime from the host's frame loop. Without it the
// runtime owns a private loop advanced by Step.
func WithScheduler(s core.FrameScheduler) Option {
	return func(r *Runtime) {
		r.scheduler = s
	}
}

// WithEventBus subscribes the runtime to pointer and resize events on bus.
func WithEventBus(bus *core.EventBus) Option {
	return func(r *Runtime) {
		r.bus = bus
	}
}

// WithRandom sets the source used for particle placement.
func WithRandom(rng *math.Random) Option {
	return func(r *Runtime) {
		r.rng = rng
	}
}

// WithPixelRatio overrides the pixel ratio carried by the viewport.
func WithPixelRatio(ratio float32) Option {
	return func(r *Runtime) {
		r.pixelRatio = ratio
	}
}

// WithClock sets the time source used for the start time of the runtime.
func WithClock(now core.NowFunc) Option {
	return func(r *Runtime) {
		r.now = now
	}
}

type instance struct {
	spec      ObjectSpec
	transform *math.Transform
	restY     float32
	geometry  *metadata.Geometry
}

// ObjectState is a read-only snapshot of one object.
type ObjectState struct {
	Name     string
	Kind     metadata.ShapeKind
	Position math.Vec3
	Rotation math.Vec3
}

type Stats struct {
	FramesRendered uint64
	FramesSkipped  uint64
	// FrameTime is the average frame time in milliseconds.
	FrameTime float64
	FPS       float64
}

// Runtime animates one Descriptor on one surface until it is disposed.
type Runtime struct {
	id         core.Identifier
	descriptor *Descriptor
	surface    renderer.Surface

	ctx    context.Context
	cancel context.CancelFunc

	scheduler  core.FrameScheduler
	ownLoop    *core.FrameLoop
	frameID    core.FrameID
	bus        *core.EventBus
	listeners  []core.ListenerID
	rng        *math.Random
	now        core.NowFunc
	pixelRatio float32

	start     time.Time
	lastFrame time.Time
	metrics   *core.FrameMetrics
	rendered  uint64
	skipped   uint64

	pointer   math.Vec2
	follow    *pointerFollow
	objects   []*instance
	particles *particleField
	links     []Link
	linkGeom  *metadata.Geometry
	ambient   math.Vec4
	lights    []metadata.PointLight
	overlay   []string

	disposeOnce sync.Once
	disposed    bool
}

// Create builds the scene described by d on surface and schedules its first
// frame. It returns core.ErrSurfaceNotReady while the surface cannot be
// attached yet; callers retry later. On any error the surface is left to the
// caller.
func Create(ctx context.Context, surface renderer.Surface, d *Descriptor, viewport Viewport, opts ...Option) (*Runtime, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if surface == nil {
		return nil, core.ErrSurfaceNotReady
	}

	r := &Runtime{
		id:         core.NewIdentifier(),
		descriptor: d,
		surface:    surface,
		now:        time.Now,
		pixelRatio: viewport.PixelRatio,
		metrics:    core.NewFrameMetrics(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = math.NewRandom(uint64(r.now().UnixNano()))
	}
	if r.scheduler == nil {
		r.ownLoop = core.NewFrameLoop(r.now)
		r.scheduler = r.ownLoop
	}

	if viewport.Width > 0 && viewport.Height > 0 {
		if err := surface.Resize(viewport.Width, viewport.Height, r.pixelRatio); err != nil {
			return nil, err
		}
	}
	if err := surface.Attach(); err != nil {
		return nil, err
	}

	r.follow = newPointerFollow(d.Camera.withDefaults())
	r.follow.camera.SetAspect(viewport.Width, viewport.Height)
	r.setupLights()

	if err := r.build(); err != nil {
		r.release()
		return nil, err
	}

	r.ctx, r.cancel = context.WithCancel(ctx)
	if r.bus != nil {
		r.listen(core.EVENT_CODE_MOUSE_MOVED, r.onPointerMove)
		r.listen(core.EVENT_CODE_RESIZED, r.onResize)
	}

	r.start = r.now()
	r.lastFrame = r.start
	r.frameID = r.scheduler.RequestFrame(r.frame)
	core.LogDebug("[%s] scene %q created with %d objects", r.id.Short(), d.Name, len(r.objects))
	return r, nil
}

func (r *Runtime) listen(code core.SystemEventCode, fn core.FnOnEvent) {
	if id, ok := r.bus.Register(code, r, fn); ok {
		r.listeners = append(r.listeners, id)
	}
}

func (r *Runtime) setupLights() {
	r.ambient = math.NewVec4(0, 0, 0, 1)
	for _, l := range r.descriptor.Lights {
		switch l.Kind {
		case LightAmbient:
			r.ambient.X += l.Colour.X * l.Intensity
			r.ambient.Y += l.Colour.Y * l.Intensity
			r.ambient.Z += l.Colour.Z * l.Intensity
		case LightPoint:
			r.lights = append(r.lights, metadata.PointLight{
				Position:  l.Position,
				Colour:    math.NewColourRGB(l.Colour.X, l.Colour.Y, l.Colour.Z),
				Intensity: l.Intensity,
			})
		}
	}
}

func (r *Runtime) build() error {
	d := r.descriptor
	rest := make([]math.Vec3, len(d.Objects))
	for i, spec := range d.Objects {
		name := spec.Name
		if len(name) == 0 {
			name = fmt.Sprintf("%s_%s_%d", d.Name, spec.Kind, i)
		}
		config, err := systems.BuildGeometry(spec.Kind, spec.Params, name)
		if err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
		material := metadata.NewDefaultMaterial()
		material.Name = name
		material.DiffuseColour = spec.Colour.Vec4()
		material.Wireframe = spec.Wireframe
		if spec.Opacity > 0 {
			material.Opacity = spec.Opacity
		}
		geometry := &metadata.Geometry{Name: name, Material: material}
		if err := r.surface.CreateGeometry(geometry, config); err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
		r.objects = append(r.objects, &instance{
			spec:      spec,
			transform: math.TransformFromPositionRotation(spec.Position, spec.Rotation),
			restY:     spec.Position.Y,
			geometry:  geometry,
		})
		rest[i] = spec.Position
	}

	if p := d.Particles; p != nil && p.Count > 0 {
		config, material, err := buildParticles(d.Name, *p, r.rng)
		if err != nil {
			return err
		}
		geometry := &metadata.Geometry{Name: config.Name, Material: material}
		if err := r.surface.CreateGeometry(geometry, config); err != nil {
			return fmt.Errorf("particles: %w", err)
		}
		r.particles = &particleField{spec: *p, geometry: geometry}
	}

	if l := d.Links; l != nil {
		spec := *l
		if spec.Threshold == 0 {
			spec.Threshold = DefaultLinkThreshold
		}
		r.links = ComputeLinks(rest, spec.Threshold)
		if len(r.links) > 0 {
			config, material := buildLinks(d.Name, spec, rest, r.links)
			geometry := &metadata.Geometry{Name: config.Name, Material: material}
			if err := r.surface.CreateGeometry(geometry, config); err != nil {
				return fmt.Errorf("links: %w", err)
			}
			r.linkGeom = geometry
		}
	}
	return nil
}

// release destroys every geometry this runtime created.
func (r *Runtime) release() {
	for _, o := range r.objects {
		r.surface.DestroyGeometry(o.geometry)
	}
	if r.particles != nil {
		r.surface.DestroyGeometry(r.particles.geometry)
	}
	if r.linkGeom != nil {
		r.surface.DestroyGeometry(r.linkGeom)
	}
}

func (r *Runtime) onPointerMove(context core.EventContext) bool {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok || r.disposed {
		return false
	}
	x, y := core.NormalizePointer(me.PosX, me.PosY, me.ViewportWidth, me.ViewportHeight)
	r.pointer = math.NewVec2(x, y)
	return false
}

func (r *Runtime) onResize(context core.EventContext) bool {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		return false
	}
	if err := r.Resize(se.WindowWidth, se.WindowHeight, se.PixelRatio); err != nil {
		core.LogWarn("[%s] resize failed: %s", r.id.Short(), err)
	}
	return false
}

// Resize updates the projection and the surface buffers right away. Zero sized
// viewports and calls after Dispose are ignored.
func (r *Runtime) Resize(width, height uint32, pixelRatio float32) error {
	if r.disposed || width == 0 || height == 0 {
		return nil
	}
	if pixelRatio > 0 {
		r.pixelRatio = pixelRatio
	}
	r.follow.camera.SetAspect(width, height)
	return r.surface.Resize(width, height, min(r.pixelRatio, renderer.MaxPixelRatio))
}

// SetOverlay replaces the text lines drawn over the scene by surfaces that support text.
func (r *Runtime) SetOverlay(lines []string) {
	r.overlay = append([]string(nil), lines...)
}

func (r *Runtime) frame(now time.Time) {
	r.frameID = 0
	if r.ctx.Err() != nil {
		return
	}
	delta := now.Sub(r.lastFrame).Seconds()
	r.lastFrame = now

	r.update(now.Sub(r.start).Seconds())
	r.render(delta)
	r.metrics.Update(delta)

	if r.ctx.Err() == nil {
		r.frameID = r.scheduler.RequestFrame(r.frame)
	}
}

// update advances the scene to t seconds after start.
func (r *Runtime) update(t float64) {
	for _, o := range r.objects {
		m := o.spec.Motion
		if !m.Spin.IsZero() {
			o.transform.Rotate(m.Spin)
		}
		if m.FloatAmplitude != 0 {
			pos := o.transform.Position
			pos.Y = o.restY + m.FloatAmplitude*math.SinPhase(t, m.FloatPhase)
			o.transform.SetPosition(pos)
		}
	}
	if r.particles != nil {
		r.particles.rotation = r.particles.rotation.Add(r.particles.spec.Spin)
	}
	r.follow.step(r.pointer)
}

func (r *Runtime) render(delta float64) {
	if !r.surface.Ready() {
		r.skipped++
		core.LogDebug("[%s] surface not ready, skipping frame", r.id.Short())
		return
	}
	err := r.surface.RenderFrame(r.packet(delta))
	switch {
	case err == nil:
		r.rendered++
	case errors.Is(err, core.ErrSurfaceNotReady), errors.Is(err, core.ErrSurfaceLost):
		r.skipped++
		core.LogDebug("[%s] skipped frame: %s", r.id.Short(), err)
	default:
		r.skipped++
		core.LogWarn("[%s] render failed: %s", r.id.Short(), err)
	}
}

func (r *Runtime) packet(delta float64) *metadata.RenderPacket {
	camera := r.follow.camera
	geometries := make([]*metadata.GeometryRenderData, 0, len(r.objects)+2)
	for _, o := range r.objects {
		geometries = append(geometries, &metadata.GeometryRenderData{
			Model:    o.transform.GetWorld(),
			Geometry: o.geometry,
		})
	}
	if r.linkGeom != nil {
		geometries = append(geometries, &metadata.GeometryRenderData{
			Model:    math.NewMat4Identity(),
			Geometry: r.linkGeom,
		})
	}
	if r.particles != nil {
		geometries = append(geometries, &metadata.GeometryRenderData{
			Model:    r.particles.model(),
			Geometry: r.particles.geometry,
		})
	}
	bg := r.descriptor.Background
	return &metadata.RenderPacket{
		DeltaTime:        delta,
		FrameNumber:      r.rendered + r.skipped,
		ViewMatrix:       camera.GetView(),
		ProjectionMatrix: camera.GetProjection(),
		ViewPosition:     camera.GetPosition(),
		AmbientColour:    r.ambient,
		PointLights:      r.lights,
		ClearColour:      math.NewVec4(bg.X, bg.Y, bg.Z, 1),
		Geometries:       geometries,
		Overlay:          r.overlay,
	}
}

// Step runs one frame of the runtime's private loop. It does nothing when the
// runtime was created WithScheduler.
func (r *Runtime) Step() int {
	if r.ownLoop == nil {
		return 0
	}
	return r.ownLoop.RunFrame()
}

// Dispose stops the frame loop, removes the event listeners and releases the
// surface, in that order. Calling it again does nothing.
func (r *Runtime) Dispose() error {
	var err error
	r.disposeOnce.Do(func() {
		r.cancel()
		if r.frameID != 0 {
			r.scheduler.CancelFrame(r.frameID)
			r.frameID = 0
		}
		for _, id := range r.listeners {
			r.bus.Unregister(id)
		}
		r.listeners = nil
		r.release()
		err = r.surface.Dispose()
		r.disposed = true
		core.LogDebug("[%s] scene %q disposed", r.id.Short(), r.descriptor.Name)
	})
	return err
}

func (r *Runtime) ID() core.Identifier {
	return r.id
}

func (r *Runtime) Disposed() bool {
	return r.disposed
}

func (r *Runtime) Stats() Stats {
	return Stats{
		FramesRendered: r.rendered,
		FramesSkipped:  r.skipped,
		FrameTime:      r.metrics.FrameTime(),
		FPS:            r.metrics.FPS(),
	}
}

// Camera returns the current camera position.
func (r *Runtime) Camera() math.Vec3 {
	return r.follow.camera.GetPosition()
}

// Pointer returns the last normalized pointer position.
func (r *Runtime) Pointer() math.Vec2 {
	return r.pointer
}

func (r *Runtime) Objects() []ObjectState {
	out := make([]ObjectState, len(r.objects))
	for i, o := range r.objects {
		out[i] = ObjectState{
			Name:     o.geometry.Name,
			Kind:     o.spec.Kind,
			Position: o.transform.Position,
			Rotation: o.transform.Rotation,
		}
	}
	return out
}

func (r *Runtime) Links() []Link {
	return append([]Link(nil), r.links...)
}

// ParticleRotation returns the aggregate rotation of the particle field.
func (r *Runtime) ParticleRotation() math.Vec3 {
	if r.particles == nil {
		return math.NewVec3Zero()
	}
	return r.particles.rotation
}
