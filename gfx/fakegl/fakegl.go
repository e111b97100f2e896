// Package fakegl is a headless gfx.Context. It keeps GL object state in
// memory, "compiles" shaders by scanning their declarations and validates
// draw calls against bound state, so scene code can run without a GPU.
package fakegl

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/orrery/gfx"
)

// Op names a handle-creating operation that can be made to fail.
type Op int

const (
	OpCreateShader Op = iota
	OpCreateProgram
	OpCreateBuffer
)

type shader struct {
	kind     gfx.ShaderKind
	source   string
	compiled bool
	infoLog  string
	unit     *glslUnit
}

type program struct {
	attached []gfx.Shader
	linked   bool
	infoLog  string
	attribs  map[string]gfx.Attrib
	uniforms map[string]gfx.Uniform
	values   map[gfx.Uniform]mgl32.Mat4
}

type buffer struct {
	floats  []float32
	bytes   []uint8
	indices []uint16
}

type attribBinding struct {
	buffer     gfx.Buffer
	size       int
	typ        gfx.DataType
	normalized bool
}

type Context struct {
	next uint32

	shaders  map[gfx.Shader]*shader
	programs map[gfx.Program]*program
	buffers  map[gfx.Buffer]*buffer

	current  gfx.Program
	bindings map[gfx.Attrib]attribBinding
	failing  map[Op]int

	draws  int
	errors []error
}

var _ gfx.Context = (*Context)(nil)

func New() *Context {
	return &Context{
		shaders:  make(map[gfx.Shader]*shader),
		programs: make(map[gfx.Program]*program),
		buffers:  make(map[gfx.Buffer]*buffer),
		bindings: make(map[gfx.Attrib]attribBinding),
		failing:  make(map[Op]int),
	}
}

// FailNext makes the next call of op return the null handle.
func (c *Context) FailNext(op Op) { c.failing[op]++ }

func (c *Context) fail(op Op) bool {
	if c.failing[op] > 0 {
		c.failing[op]--
		return true
	}
	return false
}

func (c *Context) handle() uint32 {
	c.next++
	return c.next
}

func (c *Context) errorf(format string, args ...interface{}) {
	c.errors = append(c.errors, errors.Errorf(format, args...))
}

// Errors returns misuse detected so far, in the order it happened.
func (c *Context) Errors() []error { return c.errors }

// Draws returns the number of draw calls that passed validation.
func (c *Context) Draws() int { return c.draws }

// Live reports objects created and not deleted yet.
func (c *Context) Live() (shaders, programs, buffers int) {
	return len(c.shaders), len(c.programs), len(c.buffers)
}

func (c *Context) CreateShader(kind gfx.ShaderKind) gfx.Shader {
	if c.fail(OpCreateShader) {
		return 0
	}
	s := gfx.Shader(c.handle())
	c.shaders[s] = &shader{kind: kind}
	return s
}

func (c *Context) ShaderSource(s gfx.Shader, source string) {
	if sh, ok := c.shaders[s]; ok {
		sh.source = source
	} else {
		c.errorf("ShaderSource: invalid shader %d", s)
	}
}

func (c *Context) CompileShader(s gfx.Shader) {
	sh, ok := c.shaders[s]
	if !ok {
		c.errorf("CompileShader: invalid shader %d", s)
		return
	}
	unit, err := parseGLSL(sh.source)
	if err != nil {
		sh.compiled, sh.unit = false, nil
		sh.infoLog = fmt.Sprintf("ERROR: %s shader: %v", sh.kind, err)
		return
	}
	sh.compiled, sh.unit, sh.infoLog = true, unit, ""
}

func (c *Context) ShaderCompiled(s gfx.Shader) bool {
	sh, ok := c.shaders[s]
	return ok && sh.compiled
}

func (c *Context) ShaderInfoLog(s gfx.Shader) string {
	if sh, ok := c.shaders[s]; ok {
		return sh.infoLog
	}
	return ""
}

func (c *Context) DeleteShader(s gfx.Shader) {
	if s == 0 {
		return
	}
	if _, ok := c.shaders[s]; !ok {
		c.errorf("DeleteShader: invalid shader %d", s)
		return
	}
	delete(c.shaders, s)
}

func (c *Context) CreateProgram() gfx.Program {
	if c.fail(OpCreateProgram) {
		return 0
	}
	p := gfx.Program(c.handle())
	c.programs[p] = &program{}
	return p
}

func (c *Context) AttachShader(p gfx.Program, s gfx.Shader) {
	prog, ok := c.programs[p]
	if !ok {
		c.errorf("AttachShader: invalid program %d", p)
		return
	}
	if _, ok := c.shaders[s]; !ok {
		c.errorf("AttachShader: invalid shader %d", s)
		return
	}
	prog.attached = append(prog.attached, s)
}

func (c *Context) DetachShader(p gfx.Program, s gfx.Shader) {
	prog, ok := c.programs[p]
	if !ok {
		c.errorf("DetachShader: invalid program %d", p)
		return
	}
	for i, a := range prog.attached {
		if a == s {
			prog.attached = append(prog.attached[:i], prog.attached[i+1:]...)
			return
		}
	}
	c.errorf("DetachShader: shader %d is not attached to program %d", s, p)
}

func (c *Context) LinkProgram(p gfx.Program) {
	prog, ok := c.programs[p]
	if !ok {
		c.errorf("LinkProgram: invalid program %d", p)
		return
	}
	if err := c.link(prog); err != nil {
		prog.linked = false
		prog.infoLog = fmt.Sprintf("ERROR: %v", err)
		prog.attribs, prog.uniforms = nil, nil
		return
	}
	prog.linked, prog.infoLog = true, ""
	prog.values = make(map[gfx.Uniform]mgl32.Mat4)
}

func (c *Context) link(prog *program) error {
	var vertex, fragment *glslUnit
	for _, s := range prog.attached {
		sh := c.shaders[s]
		if sh == nil || !sh.compiled {
			return errors.Errorf("shader %d is not compiled", s)
		}
		switch sh.kind {
		case gfx.VertexShader:
			if vertex != nil {
				return errors.New("multiple vertex shaders attached")
			}
			vertex = sh.unit
		case gfx.FragmentShader:
			if fragment != nil {
				return errors.New("multiple fragment shaders attached")
			}
			fragment = sh.unit
		}
	}
	if vertex == nil || fragment == nil {
		return errors.New("program needs a vertex and a fragment shader")
	}

	outputs := make(map[string]string)
	for _, d := range vertex.filter("out", "varying") {
		outputs[d.Name] = d.Type
	}
	for _, d := range fragment.filter("in", "varying") {
		typ, ok := outputs[d.Name]
		if !ok {
			return errors.Errorf("fragment input %q is not written by the vertex stage", d.Name)
		}
		if typ != d.Type {
			return errors.Errorf("type mismatch for %q: %s vs %s", d.Name, typ, d.Type)
		}
	}

	prog.attribs = make(map[string]gfx.Attrib)
	for i, d := range vertex.filter("in", "attribute") {
		prog.attribs[d.Name] = gfx.Attrib(i)
	}
	prog.uniforms = make(map[string]gfx.Uniform)
	for _, unit := range []*glslUnit{vertex, fragment} {
		for _, d := range unit.filter("uniform") {
			if _, ok := prog.uniforms[d.Name]; !ok {
				prog.uniforms[d.Name] = gfx.Uniform(len(prog.uniforms))
			}
		}
	}
	return nil
}

func (c *Context) ProgramLinked(p gfx.Program) bool {
	prog, ok := c.programs[p]
	return ok && prog.linked
}

func (c *Context) ProgramInfoLog(p gfx.Program) string {
	if prog, ok := c.programs[p]; ok {
		return prog.infoLog
	}
	return ""
}

func (c *Context) DeleteProgram(p gfx.Program) {
	if p == 0 {
		return
	}
	if _, ok := c.programs[p]; !ok {
		c.errorf("DeleteProgram: invalid program %d", p)
		return
	}
	delete(c.programs, p)
	if c.current == p {
		c.current = 0
	}
}

func (c *Context) CreateBuffer() gfx.Buffer {
	if c.fail(OpCreateBuffer) {
		return 0
	}
	b := gfx.Buffer(c.handle())
	c.buffers[b] = &buffer{}
	return b
}

func (c *Context) buffer(op string, b gfx.Buffer) *buffer {
	buf, ok := c.buffers[b]
	if !ok {
		c.errorf("%s: invalid buffer %d", op, b)
	}
	return buf
}

func (c *Context) BufferFloats(b gfx.Buffer, data []float32) {
	if buf := c.buffer("BufferFloats", b); buf != nil {
		buf.floats = append([]float32(nil), data...)
	}
}

func (c *Context) BufferBytes(b gfx.Buffer, data []uint8) {
	if buf := c.buffer("BufferBytes", b); buf != nil {
		buf.bytes = append([]uint8(nil), data...)
	}
}

func (c *Context) BufferIndices(b gfx.Buffer, data []uint16) {
	if buf := c.buffer("BufferIndices", b); buf != nil {
		buf.indices = append([]uint16(nil), data...)
	}
}

// Floats returns the data uploaded with BufferFloats.
func (c *Context) Floats(b gfx.Buffer) []float32 {
	if buf, ok := c.buffers[b]; ok {
		return buf.floats
	}
	return nil
}

// Bytes returns the data uploaded with BufferBytes.
func (c *Context) Bytes(b gfx.Buffer) []uint8 {
	if buf, ok := c.buffers[b]; ok {
		return buf.bytes
	}
	return nil
}

// Indices returns the data uploaded with BufferIndices.
func (c *Context) Indices(b gfx.Buffer) []uint16 {
	if buf, ok := c.buffers[b]; ok {
		return buf.indices
	}
	return nil
}

func (c *Context) DeleteBuffer(b gfx.Buffer) {
	if b == 0 {
		return
	}
	if _, ok := c.buffers[b]; !ok {
		c.errorf("DeleteBuffer: invalid buffer %d", b)
		return
	}
	delete(c.buffers, b)
	for a, binding := range c.bindings {
		if binding.buffer == b {
			delete(c.bindings, a)
		}
	}
}

func (c *Context) AttribLocation(p gfx.Program, name string) gfx.Attrib {
	prog, ok := c.programs[p]
	if !ok || !prog.linked {
		c.errorf("AttribLocation: program %d is not linked", p)
		return gfx.NoAttrib
	}
	if a, ok := prog.attribs[name]; ok {
		return a
	}
	return gfx.NoAttrib
}

func (c *Context) UniformLocation(p gfx.Program, name string) gfx.Uniform {
	prog, ok := c.programs[p]
	if !ok || !prog.linked {
		c.errorf("UniformLocation: program %d is not linked", p)
		return gfx.NoUniform
	}
	if u, ok := prog.uniforms[name]; ok {
		return u
	}
	return gfx.NoUniform
}

// AttribNames lists the active attributes of a linked program ordered by
// location.
func (c *Context) AttribNames(p gfx.Program) []string {
	prog, ok := c.programs[p]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(prog.attribs))
	for name := range prog.attribs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return prog.attribs[names[i]] < prog.attribs[names[j]] })
	return names
}

func (c *Context) UseProgram(p gfx.Program) {
	if p != 0 {
		if prog, ok := c.programs[p]; !ok || !prog.linked {
			c.errorf("UseProgram: program %d is not linked", p)
			return
		}
	}
	c.current = p
}

func (c *Context) VertexAttrib(a gfx.Attrib, b gfx.Buffer, size int, typ gfx.DataType, normalized bool, stride, offset int) {
	if a < 0 {
		c.errorf("VertexAttrib: invalid location %d", a)
		return
	}
	if c.buffer("VertexAttrib", b) == nil {
		return
	}
	if size < 1 || size > 4 {
		c.errorf("VertexAttrib: invalid size %d", size)
		return
	}
	c.bindings[a] = attribBinding{buffer: b, size: size, typ: typ, normalized: normalized}
}

func (c *Context) UniformMatrix4(u gfx.Uniform, m mgl32.Mat4) {
	if c.current == 0 {
		c.errorf("UniformMatrix4: no program in use")
		return
	}
	if u == gfx.NoUniform {
		// GL silently ignores uploads to location -1
		return
	}
	c.programs[c.current].values[u] = m
}

// UniformValue returns the matrix last uploaded to a uniform of the program.
func (c *Context) UniformValue(p gfx.Program, u gfx.Uniform) (mgl32.Mat4, bool) {
	prog, ok := c.programs[p]
	if !ok || prog.values == nil {
		return mgl32.Mat4{}, false
	}
	m, ok := prog.values[u]
	return m, ok
}

func (c *Context) DrawElements(mode gfx.Primitive, indices gfx.Buffer, count int, typ gfx.DataType, offset int) {
	if c.current == 0 {
		c.errorf("DrawElements: no program in use")
		return
	}
	buf := c.buffer("DrawElements", indices)
	if buf == nil {
		return
	}
	if typ != gfx.UnsignedShort {
		c.errorf("DrawElements: unsupported index type %s", typ)
		return
	}
	first := offset / typ.Size()
	if first+count > len(buf.indices) {
		c.errorf("DrawElements: %d indices from %d exceed buffer of %d", count, first, len(buf.indices))
		return
	}
	prog := c.programs[c.current]
	for name, a := range prog.attribs {
		binding, ok := c.bindings[a]
		if !ok {
			c.errorf("DrawElements: attribute %q (%d) has no buffer", name, a)
			return
		}
		vertices := c.vertexCount(binding)
		for _, idx := range buf.indices[first : first+count] {
			if int(idx) >= vertices {
				c.errorf("DrawElements: index %d out of range for attribute %q (%d vertices)", idx, name, vertices)
				return
			}
		}
	}
	c.draws++
}

func (c *Context) vertexCount(b attribBinding) int {
	buf := c.buffers[b.buffer]
	switch b.typ {
	case gfx.UnsignedByte:
		return len(buf.bytes) / b.size
	case gfx.UnsignedShort:
		return len(buf.indices) / b.size
	default:
		return len(buf.floats) / b.size
	}
}
