// Package gfx describes the graphics context capability set the scene graph
// needs from its environment. Handles are plain GL-style names: zero is the
// null handle and negative locations mean "not found".
package gfx

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

type Shader uint32
type Program uint32
type Buffer uint32

// Attrib is a vertex attribute location, NoAttrib when the program has none.
type Attrib int32

// Uniform is a uniform location, NoUniform when the program has none.
type Uniform int32

const (
	NoAttrib  Attrib  = -1
	NoUniform Uniform = -1
)

type ShaderKind uint8

const (
	VertexShader ShaderKind = iota
	FragmentShader
)

func (k ShaderKind) String() string {
	switch k {
	case VertexShader:
		return "vertex"
	case FragmentShader:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderKind(%d)", uint8(k))
	}
}

type DataType uint8

const (
	Float DataType = iota
	UnsignedByte
	UnsignedShort
)

func (t DataType) String() string {
	switch t {
	case Float:
		return "float"
	case UnsignedByte:
		return "ubyte"
	case UnsignedShort:
		return "ushort"
	default:
		return fmt.Sprintf("DataType(%d)", uint8(t))
	}
}

// Size returns the byte size of a single component.
func (t DataType) Size() int {
	switch t {
	case UnsignedByte:
		return 1
	case UnsignedShort:
		return 2
	default:
		return 4
	}
}

type Primitive uint8

const (
	Triangles Primitive = iota
	Lines
	Points
)

func (p Primitive) String() string {
	switch p {
	case Triangles:
		return "triangles"
	case Lines:
		return "lines"
	case Points:
		return "points"
	default:
		return fmt.Sprintf("Primitive(%d)", uint8(p))
	}
}

// Context is a single-threaded graphics context. None of the methods are safe
// for concurrent use; the owner must call them from the thread that holds
// the underlying GL context.
type Context interface {
	CreateShader(kind ShaderKind) Shader
	ShaderSource(s Shader, source string)
	CompileShader(s Shader)
	ShaderCompiled(s Shader) bool
	ShaderInfoLog(s Shader) string
	DeleteShader(s Shader)

	CreateProgram() Program
	AttachShader(p Program, s Shader)
	DetachShader(p Program, s Shader)
	LinkProgram(p Program)
	ProgramLinked(p Program) bool
	ProgramInfoLog(p Program) string
	DeleteProgram(p Program)

	CreateBuffer() Buffer
	// Buffer uploads are static: data is copied once and never updated.
	BufferFloats(b Buffer, data []float32)
	BufferBytes(b Buffer, data []uint8)
	BufferIndices(b Buffer, data []uint16)
	DeleteBuffer(b Buffer)

	AttribLocation(p Program, name string) Attrib
	UniformLocation(p Program, name string) Uniform

	UseProgram(p Program)
	// VertexAttrib enables the attribute and sources it from the buffer.
	VertexAttrib(a Attrib, b Buffer, size int, typ DataType, normalized bool, stride, offset int)
	UniformMatrix4(u Uniform, m mgl32.Mat4)
	DrawElements(mode Primitive, indices Buffer, count int, typ DataType, offset int)
}
