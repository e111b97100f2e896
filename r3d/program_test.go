package r3d

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/orrery/gfx"
)

func TestLoadProgram(t *testing.T) {
	gl, ctx := newTestContext()
	p, err := LoadProgram(ctx, cuboidVertexShader, cuboidFragmentShader)
	require.NoError(t, err)

	assert.NotZero(t, p.Id)
	assert.NotZero(t, p.VertexShader)
	assert.NotZero(t, p.FragmentShader)

	a, err := p.Attrib("a_position")
	require.NoError(t, err)
	assert.Equal(t, gfx.Attrib(0), a)
	_, err = p.Uniform("u_worldViewProjection")
	require.NoError(t, err)

	_, err = p.Attrib("a_normal")
	assert.Equal(t, ErrLocation, errors.Cause(err))
	_, err = p.Uniform("u_model")
	assert.Equal(t, ErrLocation, errors.Cause(err))

	p.Delete()
	p.Delete()
	assertNothingLive(t, gl)
	assert.Empty(t, gl.Errors())
	assert.Equal(t, 2, countOps(ctx.Setup(), "DetachShader"))
}

func TestLoadShaderInfoLog(t *testing.T) {
	gl, ctx := newTestContext()
	_, err := LoadShader(ctx, gfx.FragmentShader, "void main() {")
	require.Error(t, err)
	assert.Equal(t, ErrCompile, errors.Cause(err))
	assert.Contains(t, err.Error(), "unbalanced braces")
	assertNothingLive(t, gl)
}

func TestMustLoadProgram(t *testing.T) {
	_, ctx := newTestContext()
	assert.NotPanics(t, func() {
		MustLoadProgram(ctx, cuboidVertexShader, cuboidFragmentShader).Delete()
	})
	assert.Panics(t, func() {
		MustLoadProgram(ctx, "", cuboidFragmentShader)
	})
}
