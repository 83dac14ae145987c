package opengl

import (
	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/spaghettifunk/folio/engine/math"
	"github.com/spaghettifunk/folio/engine/renderer/metadata"
)

// floatsPerVertex is position(3) + normal(3) + texcoord(2) + colour(4).
const floatsPerVertex = 12

type geometryBuffers struct {
	vao, vbo, ebo uint32
	vertexCount   int32
	indexCount    int32
	mode          uint32
}

func interleave(vertices []math.Vertex3D) []float32 {
	out := make([]float32, 0, len(vertices)*floatsPerVertex)
	for _, v := range vertices {
		out = append(out,
			v.Position.X, v.Position.Y, v.Position.Z,
			v.Normal.X, v.Normal.Y, v.Normal.Z,
			v.Texcoord.X, v.Texcoord.Y,
			v.Colour.X, v.Colour.Y, v.Colour.Z, v.Colour.W,
		)
	}
	return out
}

func drawMode(t metadata.Topology) uint32 {
	switch t {
	case metadata.TopologyPoints:
		return gl.POINTS
	case metadata.TopologyLines:
		return gl.LINES
	}
	return gl.TRIANGLES
}

func uploadGeometry(config *metadata.GeometryConfig) *geometryBuffers {
	buffers := &geometryBuffers{
		vertexCount: int32(len(config.Vertices)),
		indexCount:  int32(len(config.Indices)),
		mode:        drawMode(config.Topology),
	}
	gl.GenVertexArrays(1, &buffers.vao)
	gl.BindVertexArray(buffers.vao)

	gl.GenBuffers(1, &buffers.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, buffers.vbo)
	if data := interleave(config.Vertices); len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}

	if len(config.Indices) > 0 {
		gl.GenBuffers(1, &buffers.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buffers.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(config.Indices)*4, gl.Ptr(config.Indices), gl.STATIC_DRAW)
	}

	stride := int32(floatsPerVertex * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(6*4))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(3, 4, gl.FLOAT, false, stride, gl.PtrOffset(8*4))
	gl.EnableVertexAttribArray(3)

	gl.BindVertexArray(0)
	return buffers
}

func (g *geometryBuffers) draw() {
	gl.BindVertexArray(g.vao)
	if g.mode == gl.POINTS || g.indexCount == 0 {
		gl.DrawArrays(g.mode, 0, g.vertexCount)
	} else {
		gl.DrawElements(g.mode, g.indexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
	}
	gl.BindVertexArray(0)
}

func (g *geometryBuffers) release() {
	if g.ebo != 0 {
		gl.DeleteBuffers(1, &g.ebo)
	}
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteVertexArrays(1, &g.vao)
}
