package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// MaxPointLights is the number of point lights the scene shader accepts.
const MaxPointLights = 4

const sceneVertexShader = `#version 330 core
layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexcoord;
layout (location = 3) in vec4 aColour;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;
uniform float uPointSize;
uniform float uPointScale;

out vec3 vWorldPos;
out vec3 vNormal;
out vec4 vColour;

void main() {
    vec4 world = uModel * vec4(aPosition, 1.0);
    vWorldPos = world.xyz;
    vNormal = mat3(uModel) * aNormal;
    vColour = aColour;
    gl_Position = uProjection * uView * world;
    gl_PointSize = max(1.0, uPointSize * uPointScale / gl_Position.w);
}
` + "\x00"

const sceneFragmentShader = `#version 330 core
in vec3 vWorldPos;
in vec3 vNormal;
in vec4 vColour;

uniform vec4 uDiffuse;
uniform float uOpacity;
uniform int uUnlit;
uniform vec3 uAmbient;
uniform int uLightCount;
uniform vec3 uLightPos[4];
uniform vec3 uLightColour[4];

out vec4 FragColor;

void main() {
    vec4 base = vColour * uDiffuse;
    vec3 light = vec3(1.0);
    if (uUnlit == 0) {
        vec3 n = normalize(vNormal);
        light = uAmbient;
        for (int i = 0; i < uLightCount; i++) {
            vec3 l = normalize(uLightPos[i] - vWorldPos);
            light += uLightColour[i] * abs(dot(n, l));
        }
    }
    FragColor = vec4(base.rgb * light, base.a * uOpacity);
}
` + "\x00"

type sceneUniforms struct {
	model, view, projection   int32
	pointSize, pointScale     int32
	diffuse, opacity, unlit   int32
	ambient, lightCount       int32
	lightPosition, lightColor int32
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile shader: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertexShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %s", strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

func lookupUniforms(program uint32) sceneUniforms {
	loc := func(name string) int32 {
		return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
	}
	return sceneUniforms{
		model:         loc("uModel"),
		view:          loc("uView"),
		projection:    loc("uProjection"),
		pointSize:     loc("uPointSize"),
		pointScale:    loc("uPointScale"),
		diffuse:       loc("uDiffuse"),
		opacity:       loc("uOpacity"),
		unlit:         loc("uUnlit"),
		ambient:       loc("uAmbient"),
		lightCount:    loc("uLightCount"),
		lightPosition: loc("uLightPos"),
		lightColor:    loc("uLightColour"),
	}
}
