// Package glcontext implements gfx.Context on top of OpenGL 4.1 core.
// An OpenGL context has to be current on the calling thread.
package glcontext

import (
	"log"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/orrery/gfx"
)

type Context struct {
	vao uint32
}

var _ gfx.Context = (*Context)(nil)

// New loads the GL entry points and binds the single vertex array object that
// core profile requires for attribute state.
func New() (*Context, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize OpenGL")
	}
	c := &Context{}
	gl.GenVertexArrays(1, &c.vao)
	if c.vao == 0 {
		return nil, errors.New("failed to create vertex array")
	}
	gl.BindVertexArray(c.vao)

	log.Printf("[gl] Version: %q", gl.GoStr(gl.GetString(gl.VERSION)))
	return c, nil
}

func (c *Context) Destroy() {
	if c.vao != 0 {
		gl.BindVertexArray(0)
		gl.DeleteVertexArrays(1, &c.vao)
		c.vao = 0
	}
}

// BeginFrame prepares the default framebuffer for a scene render. Scene
// traversal relies on the depth test enabled here.
func (c *Context) BeginFrame(width, height int32, clearColor [3]float32) {
	gl.Viewport(0, 0, width, height)

	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.DepthMask(true)

	gl.ClearColor(clearColor[0], clearColor[1], clearColor[2], 1.0)
	gl.ClearDepth(1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (c *Context) CreateShader(kind gfx.ShaderKind) gfx.Shader {
	switch kind {
	case gfx.VertexShader:
		return gfx.Shader(gl.CreateShader(gl.VERTEX_SHADER))
	case gfx.FragmentShader:
		return gfx.Shader(gl.CreateShader(gl.FRAGMENT_SHADER))
	default:
		return 0
	}
}

func (c *Context) ShaderSource(s gfx.Shader, source string) {
	csource, free := gl.Strs(source + "\x00")
	defer free()

	gl.ShaderSource(uint32(s), 1, csource, nil)
}

func (c *Context) CompileShader(s gfx.Shader) { gl.CompileShader(uint32(s)) }

func (c *Context) ShaderCompiled(s gfx.Shader) bool {
	var success int32
	gl.GetShaderiv(uint32(s), gl.COMPILE_STATUS, &success)
	return success != gl.FALSE
}

func (c *Context) ShaderInfoLog(s gfx.Shader) string {
	var logSize int32
	gl.GetShaderiv(uint32(s), gl.INFO_LOG_LENGTH, &logSize)
	buf := make([]uint8, logSize+1)
	gl.GetShaderInfoLog(uint32(s), int32(len(buf)), &logSize, &buf[0])
	return strings.TrimRight(string(buf[:logSize]), "\x00")
}

func (c *Context) DeleteShader(s gfx.Shader) { gl.DeleteShader(uint32(s)) }

func (c *Context) CreateProgram() gfx.Program { return gfx.Program(gl.CreateProgram()) }

func (c *Context) AttachShader(p gfx.Program, s gfx.Shader) { gl.AttachShader(uint32(p), uint32(s)) }
func (c *Context) DetachShader(p gfx.Program, s gfx.Shader) { gl.DetachShader(uint32(p), uint32(s)) }
func (c *Context) LinkProgram(p gfx.Program)                { gl.LinkProgram(uint32(p)) }

func (c *Context) ProgramLinked(p gfx.Program) bool {
	var isLinked int32
	gl.GetProgramiv(uint32(p), gl.LINK_STATUS, &isLinked)
	return isLinked != gl.FALSE
}

func (c *Context) ProgramInfoLog(p gfx.Program) string {
	var logSize int32
	gl.GetProgramiv(uint32(p), gl.INFO_LOG_LENGTH, &logSize)
	buf := make([]uint8, logSize+1)
	gl.GetProgramInfoLog(uint32(p), int32(len(buf)), &logSize, &buf[0])
	return strings.TrimRight(string(buf[:logSize]), "\x00")
}

func (c *Context) DeleteProgram(p gfx.Program) { gl.DeleteProgram(uint32(p)) }

func (c *Context) CreateBuffer() gfx.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return gfx.Buffer(b)
}

func (c *Context) BufferFloats(b gfx.Buffer, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (c *Context) BufferBytes(b gfx.Buffer, data []uint8) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	gl.BufferData(gl.ARRAY_BUFFER, len(data), gl.Ptr(data), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (c *Context) BufferIndices(b gfx.Buffer, data []uint16) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(b))
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data)*2, gl.Ptr(data), gl.STATIC_DRAW)
}

func (c *Context) DeleteBuffer(b gfx.Buffer) {
	name := uint32(b)
	gl.DeleteBuffers(1, &name)
}

func (c *Context) AttribLocation(p gfx.Program, name string) gfx.Attrib {
	return gfx.Attrib(gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00")))
}

func (c *Context) UniformLocation(p gfx.Program, name string) gfx.Uniform {
	return gfx.Uniform(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (c *Context) UseProgram(p gfx.Program) { gl.UseProgram(uint32(p)) }

func (c *Context) VertexAttrib(a gfx.Attrib, b gfx.Buffer, size int, typ gfx.DataType, normalized bool, stride, offset int) {
	gl.EnableVertexAttribArray(uint32(a))
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	gl.VertexAttribPointer(uint32(a), int32(size), glType(typ), normalized, int32(stride), gl.PtrOffset(offset))
}

func (c *Context) UniformMatrix4(u gfx.Uniform, m mgl32.Mat4) {
	gl.UniformMatrix4fv(int32(u), 1, false, &m[0])
}

func (c *Context) DrawElements(mode gfx.Primitive, indices gfx.Buffer, count int, typ gfx.DataType, offset int) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(indices))
	gl.DrawElements(glPrimitive(mode), int32(count), glType(typ), gl.PtrOffset(offset))
}

func glType(t gfx.DataType) uint32 {
	switch t {
	case gfx.UnsignedByte:
		return gl.UNSIGNED_BYTE
	case gfx.UnsignedShort:
		return gl.UNSIGNED_SHORT
	default:
		return gl.FLOAT
	}
}

func glPrimitive(p gfx.Primitive) uint32 {
	switch p {
	case gfx.Lines:
		return gl.LINES
	case gfx.Points:
		return gl.POINTS
	default:
		return gl.TRIANGLES
	}
}
