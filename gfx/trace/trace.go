// Package trace records the calls made on a gfx.Context. Calls issued
// between BeginFrame and EndFrame are grouped into frames; everything else
// (resource creation mostly) is kept as setup.
package trace

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/orrery/gfx"
)

type Call struct {
	Op         string      `yaml:"op" json:"op"`
	Handle     uint32      `yaml:"handle,omitempty" json:"handle,omitempty"`
	Target     uint32      `yaml:"target,omitempty" json:"target,omitempty"`
	Kind       string      `yaml:"kind,omitempty" json:"kind,omitempty"`
	Name       string      `yaml:"name,omitempty" json:"name,omitempty"`
	Location   *int32      `yaml:"location,omitempty" json:"location,omitempty"`
	Size       int         `yaml:"size,omitempty" json:"size,omitempty"`
	Normalized bool        `yaml:"normalized,omitempty" json:"normalized,omitempty"`
	Stride     int         `yaml:"stride,omitempty" json:"stride,omitempty"`
	Offset     int         `yaml:"offset,omitempty" json:"offset,omitempty"`
	Count      int         `yaml:"count,omitempty" json:"count,omitempty"`
	Matrix     *mgl32.Mat4 `yaml:"matrix,omitempty" json:"matrix,omitempty"`
	Ok         *bool       `yaml:"ok,omitempty" json:"ok,omitempty"`
}

type Frame struct {
	Index int    `yaml:"index" json:"index"`
	Draws int    `yaml:"draws" json:"draws"`
	Calls []Call `yaml:"calls" json:"calls"`
}

// Filter returns the calls of the frame with the given op.
func (f *Frame) Filter(op string) []Call {
	var result []Call
	for _, c := range f.Calls {
		if c.Op == op {
			result = append(result, c)
		}
	}
	return result
}

type Recorder struct {
	next gfx.Context

	setup   []Call
	frame   *Frame
	last    Frame
	count   int
	history []Frame
	keep    int
}

var _ gfx.Context = (*Recorder)(nil)

func Wrap(next gfx.Context) *Recorder {
	return &Recorder{next: next}
}

// Unwrap returns the context the recorder forwards to.
func (r *Recorder) Unwrap() gfx.Context { return r.next }

// KeepFrames makes the recorder retain up to n completed frames for History.
func (r *Recorder) KeepFrames(n int) { r.keep = n }

func (r *Recorder) BeginFrame() {
	r.frame = &Frame{Index: r.count}
	r.count++
}

// EndFrame closes the current frame and returns it.
func (r *Recorder) EndFrame() Frame {
	if r.frame == nil {
		return Frame{}
	}
	f := *r.frame
	r.frame = nil
	r.last = f
	if r.keep > 0 {
		r.history = append(r.history, f)
		if len(r.history) > r.keep {
			r.history = r.history[len(r.history)-r.keep:]
		}
	}
	return f
}

func (r *Recorder) LastFrame() Frame { return r.last }
func (r *Recorder) Setup() []Call    { return r.setup }
func (r *Recorder) History() []Frame { return r.history }
func (r *Recorder) Frames() int      { return r.count }

// Current returns the calls recorded so far in the open frame, or the setup
// calls when no frame is open.
func (r *Recorder) Current() []Call {
	if r.frame != nil {
		return r.frame.Calls
	}
	return r.setup
}

// Clear forgets the setup calls.
func (r *Recorder) Clear() { r.setup = nil }

func (r *Recorder) record(c Call) {
	if r.frame != nil {
		r.frame.Calls = append(r.frame.Calls, c)
		if c.Op == "DrawElements" {
			r.frame.Draws++
		}
	} else {
		r.setup = append(r.setup, c)
	}
}

func loc(l int32) *int32 { return &l }
func flag(b bool) *bool  { return &b }

func (r *Recorder) CreateShader(kind gfx.ShaderKind) gfx.Shader {
	s := r.next.CreateShader(kind)
	r.record(Call{Op: "CreateShader", Kind: kind.String(), Handle: uint32(s)})
	return s
}

func (r *Recorder) ShaderSource(s gfx.Shader, source string) {
	r.record(Call{Op: "ShaderSource", Handle: uint32(s), Size: len(source)})
	r.next.ShaderSource(s, source)
}

func (r *Recorder) CompileShader(s gfx.Shader) {
	r.record(Call{Op: "CompileShader", Handle: uint32(s)})
	r.next.CompileShader(s)
}

func (r *Recorder) ShaderCompiled(s gfx.Shader) bool {
	ok := r.next.ShaderCompiled(s)
	r.record(Call{Op: "ShaderCompiled", Handle: uint32(s), Ok: flag(ok)})
	return ok
}

func (r *Recorder) ShaderInfoLog(s gfx.Shader) string {
	return r.next.ShaderInfoLog(s)
}

func (r *Recorder) DeleteShader(s gfx.Shader) {
	r.record(Call{Op: "DeleteShader", Handle: uint32(s)})
	r.next.DeleteShader(s)
}

func (r *Recorder) CreateProgram() gfx.Program {
	p := r.next.CreateProgram()
	r.record(Call{Op: "CreateProgram", Handle: uint32(p)})
	return p
}

func (r *Recorder) AttachShader(p gfx.Program, s gfx.Shader) {
	r.record(Call{Op: "AttachShader", Handle: uint32(p), Target: uint32(s)})
	r.next.AttachShader(p, s)
}

func (r *Recorder) DetachShader(p gfx.Program, s gfx.Shader) {
	r.record(Call{Op: "DetachShader", Handle: uint32(p), Target: uint32(s)})
	r.next.DetachShader(p, s)
}

func (r *Recorder) LinkProgram(p gfx.Program) {
	r.record(Call{Op: "LinkProgram", Handle: uint32(p)})
	r.next.LinkProgram(p)
}

func (r *Recorder) ProgramLinked(p gfx.Program) bool {
	ok := r.next.ProgramLinked(p)
	r.record(Call{Op: "ProgramLinked", Handle: uint32(p), Ok: flag(ok)})
	return ok
}

func (r *Recorder) ProgramInfoLog(p gfx.Program) string {
	return r.next.ProgramInfoLog(p)
}

func (r *Recorder) DeleteProgram(p gfx.Program) {
	r.record(Call{Op: "DeleteProgram", Handle: uint32(p)})
	r.next.DeleteProgram(p)
}

func (r *Recorder) CreateBuffer() gfx.Buffer {
	b := r.next.CreateBuffer()
	r.record(Call{Op: "CreateBuffer", Handle: uint32(b)})
	return b
}

func (r *Recorder) BufferFloats(b gfx.Buffer, data []float32) {
	r.record(Call{Op: "BufferFloats", Handle: uint32(b), Count: len(data)})
	r.next.BufferFloats(b, data)
}

func (r *Recorder) BufferBytes(b gfx.Buffer, data []uint8) {
	r.record(Call{Op: "BufferBytes", Handle: uint32(b), Count: len(data)})
	r.next.BufferBytes(b, data)
}

func (r *Recorder) BufferIndices(b gfx.Buffer, data []uint16) {
	r.record(Call{Op: "BufferIndices", Handle: uint32(b), Count: len(data)})
	r.next.BufferIndices(b, data)
}

func (r *Recorder) DeleteBuffer(b gfx.Buffer) {
	r.record(Call{Op: "DeleteBuffer", Handle: uint32(b)})
	r.next.DeleteBuffer(b)
}

func (r *Recorder) AttribLocation(p gfx.Program, name string) gfx.Attrib {
	a := r.next.AttribLocation(p, name)
	r.record(Call{Op: "AttribLocation", Handle: uint32(p), Name: name, Location: loc(int32(a))})
	return a
}

func (r *Recorder) UniformLocation(p gfx.Program, name string) gfx.Uniform {
	u := r.next.UniformLocation(p, name)
	r.record(Call{Op: "UniformLocation", Handle: uint32(p), Name: name, Location: loc(int32(u))})
	return u
}

func (r *Recorder) UseProgram(p gfx.Program) {
	r.record(Call{Op: "UseProgram", Handle: uint32(p)})
	r.next.UseProgram(p)
}

func (r *Recorder) VertexAttrib(a gfx.Attrib, b gfx.Buffer, size int, typ gfx.DataType, normalized bool, stride, offset int) {
	r.record(Call{
		Op:         "VertexAttrib",
		Handle:     uint32(b),
		Location:   loc(int32(a)),
		Size:       size,
		Kind:       typ.String(),
		Normalized: normalized,
		Stride:     stride,
		Offset:     offset,
	})
	r.next.VertexAttrib(a, b, size, typ, normalized, stride, offset)
}

func (r *Recorder) UniformMatrix4(u gfx.Uniform, m mgl32.Mat4) {
	r.record(Call{Op: "UniformMatrix4", Location: loc(int32(u)), Matrix: &m})
	r.next.UniformMatrix4(u, m)
}

func (r *Recorder) DrawElements(mode gfx.Primitive, indices gfx.Buffer, count int, typ gfx.DataType, offset int) {
	r.record(Call{
		Op:     "DrawElements",
		Handle: uint32(indices),
		Kind:   mode.String() + "/" + typ.String(),
		Count:  count,
		Offset: offset,
	})
	r.next.DrawElements(mode, indices, count, typ, offset)
}

type document struct {
	Setup  []Call  `yaml:"setup"`
	Frames []Frame `yaml:"frames"`
}

// WriteYAML dumps setup calls followed by frames.
func WriteYAML(w io.Writer, setup []Call, frames []Frame) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&document{Setup: setup, Frames: frames}); err != nil {
		return errors.Wrap(err, "Failed to encode trace")
	}
	return errors.Wrap(enc.Close(), "Failed to flush trace")
}

// ReadYAML parses a dump written by WriteYAML.
func ReadYAML(r io.Reader) ([]Call, []Frame, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, errors.Wrap(err, "Failed to decode trace")
	}
	return doc.Setup, doc.Frames, nil
}
