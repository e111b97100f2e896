package trace

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/orrery/gfx"
	"github.com/mogaika/orrery/gfx/fakegl"
)

func drawOnce(r *Recorder, p gfx.Program, idx gfx.Buffer, m mgl32.Mat4) {
	r.UseProgram(p)
	r.UniformMatrix4(gfx.NoUniform, m)
	r.DrawElements(gfx.Triangles, idx, 0, gfx.UnsignedShort, 0)
}

func TestRecorderFrames(t *testing.T) {
	gl := fakegl.New()
	r := Wrap(gl)
	assert.Equal(t, gl, r.Unwrap())

	vs := r.CreateShader(gfx.VertexShader)
	r.ShaderSource(vs, "out vec3 v;\nvoid main() {}")
	r.CompileShader(vs)
	assert.True(t, r.ShaderCompiled(vs))
	fs := r.CreateShader(gfx.FragmentShader)
	r.ShaderSource(fs, "void main() {}")
	r.CompileShader(fs)
	p := r.CreateProgram()
	r.AttachShader(p, vs)
	r.AttachShader(p, fs)
	r.LinkProgram(p)
	require.True(t, r.ProgramLinked(p))
	idx := r.CreateBuffer()
	r.BufferIndices(idx, nil)

	setup := r.Setup()
	require.NotEmpty(t, setup)
	assert.Equal(t, "CreateShader", setup[0].Op)
	assert.Equal(t, "vertex", setup[0].Kind)
	assert.Equal(t, uint32(vs), setup[0].Handle)
	assert.Equal(t, setup, r.Current())

	r.KeepFrames(2)
	for i := 0; i < 3; i++ {
		r.BeginFrame()
		drawOnce(r, p, idx, mgl32.Translate3D(float32(i), 0, 0))
		assert.Len(t, r.Current(), 3)
		f := r.EndFrame()
		assert.Equal(t, i, f.Index)
		assert.Equal(t, 1, f.Draws)
	}

	assert.Equal(t, 3, r.Frames())
	assert.Equal(t, 2, r.LastFrame().Index)
	history := r.History()
	require.Len(t, history, 2)
	assert.Equal(t, 1, history[0].Index)
	assert.Equal(t, 2, history[1].Index)

	uploads := history[1].Filter("UniformMatrix4")
	require.Len(t, uploads, 1)
	assert.Equal(t, mgl32.Translate3D(2, 0, 0), *uploads[0].Matrix)
	assert.Equal(t, int32(gfx.NoUniform), *uploads[0].Location)

	// frame calls never leak into setup
	assert.Len(t, r.Setup(), len(setup))
	r.Clear()
	assert.Empty(t, r.Setup())

	assert.Equal(t, Frame{}, r.EndFrame())
	assert.Equal(t, 3, gl.Draws())
}

func TestYAMLRoundTrip(t *testing.T) {
	r := Wrap(fakegl.New())
	b := r.CreateBuffer()
	r.BufferFloats(b, []float32{1, 2, 3})
	a := r.AttribLocation(0, "a_position")
	r.KeepFrames(1)
	r.BeginFrame()
	r.VertexAttrib(a, b, 3, gfx.Float, false, 12, 4)
	r.UniformMatrix4(0, mgl32.Ident4())
	r.EndFrame()

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, r.Setup(), r.History()))
	assert.Contains(t, buf.String(), "op: CreateBuffer")

	setup, frames, err := ReadYAML(&buf)
	require.NoError(t, err)
	assert.Equal(t, r.Setup(), setup)
	assert.Equal(t, r.History(), frames)
}

func TestReadYAMLError(t *testing.T) {
	_, _, err := ReadYAML(bytes.NewBufferString("setup: [oops"))
	assert.Error(t, err)
}
