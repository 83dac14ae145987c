package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/spaghettifunk/folio/engine/core"
	"github.com/spaghettifunk/folio/engine/renderer/metadata"
)

// Backend draws through an OpenGL 3.3 core context. The context must be
// current on the calling goroutine, which must be locked to its OS thread.
type Backend struct {
	width       uint32
	height      uint32
	initialized bool

	program    uint32
	uniforms   sceneUniforms
	pointScale float32

	nextID     uint32
	geometries map[uint32]*geometryBuffers

	swap func()
}

// New returns a backend that calls swap at the end of every frame.
func New(swap func()) *Backend {
	return &Backend{
		swap:       swap,
		geometries: make(map[uint32]*geometryBuffers),
	}
}

func (b *Backend) Initialize(width, height uint32) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	program, err := linkProgram(sceneVertexShader, sceneFragmentShader)
	if err != nil {
		return err
	}
	b.program = program
	b.uniforms = lookupUniforms(program)
	b.width, b.height = width, height
	b.initialized = true

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	core.LogInfo("OpenGL %s initialized", gl.GoStr(gl.GetString(gl.VERSION)))
	return nil
}

func (b *Backend) Ready() bool {
	return b.initialized && b.width > 0 && b.height > 0
}

func (b *Backend) Resized(width, height uint32, pixelRatio float32) error {
	b.width, b.height = width, height
	return nil
}

func (b *Backend) CreateGeometry(geometry *metadata.Geometry, config *metadata.GeometryConfig) error {
	if config == nil || len(config.Vertices) == 0 && config.Topology != metadata.TopologyPoints {
		return fmt.Errorf("geometry %q has no vertices: %w", geometry.Name, core.ErrInvalidShape)
	}
	b.nextID++
	b.geometries[b.nextID] = uploadGeometry(config)
	geometry.InternalID = b.nextID
	return nil
}

func (b *Backend) DestroyGeometry(geometry *metadata.Geometry) {
	buffers, ok := b.geometries[geometry.InternalID]
	if !ok {
		return
	}
	buffers.release()
	delete(b.geometries, geometry.InternalID)
}

func (b *Backend) BeginFrame(packet *metadata.RenderPacket) error {
	if !b.Ready() {
		return core.ErrSurfaceLost
	}
	gl.Viewport(0, 0, int32(b.width), int32(b.height))
	c := packet.ClearColour
	gl.ClearColor(c.X, c.Y, c.Z, 1)
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(b.program)
	gl.UniformMatrix4fv(b.uniforms.view, 1, false, &packet.ViewMatrix.Data[0])
	gl.UniformMatrix4fv(b.uniforms.projection, 1, false, &packet.ProjectionMatrix.Data[0])
	b.pointScale = packet.ProjectionMatrix.Data[5] * float32(b.height) * 0.5
	gl.Uniform1f(b.uniforms.pointScale, b.pointScale)

	a := packet.AmbientColour
	gl.Uniform3f(b.uniforms.ambient, a.X, a.Y, a.Z)

	var positions, colours [MaxPointLights * 3]float32
	count := min(len(packet.PointLights), MaxPointLights)
	for i := 0; i < count; i++ {
		l := packet.PointLights[i]
		positions[i*3], positions[i*3+1], positions[i*3+2] = l.Position.X, l.Position.Y, l.Position.Z
		colours[i*3] = l.Colour.X * l.Intensity
		colours[i*3+1] = l.Colour.Y * l.Intensity
		colours[i*3+2] = l.Colour.Z * l.Intensity
	}
	gl.Uniform1i(b.uniforms.lightCount, int32(count))
	gl.Uniform3fv(b.uniforms.lightPosition, MaxPointLights, &positions[0])
	gl.Uniform3fv(b.uniforms.lightColor, MaxPointLights, &colours[0])
	return nil
}

func (b *Backend) DrawGeometry(data *metadata.GeometryRenderData, packet *metadata.RenderPacket) {
	buffers, ok := b.geometries[data.Geometry.InternalID]
	if !ok {
		return
	}
	material := data.Geometry.Material
	if material == nil {
		material = metadata.NewDefaultMaterial()
	}

	gl.UniformMatrix4fv(b.uniforms.model, 1, false, &data.Model.Data[0])
	d := material.DiffuseColour
	gl.Uniform4f(b.uniforms.diffuse, d.X, d.Y, d.Z, d.W)
	gl.Uniform1f(b.uniforms.opacity, material.Opacity)
	gl.Uniform1f(b.uniforms.pointSize, material.PointSize)
	unlit := int32(0)
	if material.Unlit {
		unlit = 1
	}
	gl.Uniform1i(b.uniforms.unlit, unlit)

	blended := material.Opacity < 1 || material.Blend == metadata.BlendAdditive
	if blended {
		gl.Enable(gl.BLEND)
		gl.DepthMask(false)
		if material.Blend == metadata.BlendAdditive {
			gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
		} else {
			gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		}
	}
	if material.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}

	buffers.draw()

	if material.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	if blended {
		gl.DepthMask(true)
		gl.Disable(gl.BLEND)
	}
}

func (b *Backend) EndFrame(packet *metadata.RenderPacket) error {
	if b.swap != nil {
		b.swap()
	}
	return nil
}

func (b *Backend) Shutdown() error {
	for id, buffers := range b.geometries {
		buffers.release()
		delete(b.geometries, id)
	}
	if b.program != 0 {
		gl.DeleteProgram(b.program)
		b.program = 0
	}
	b.initialized = false
	return nil
}
