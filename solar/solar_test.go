package solar

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/orrery/config"
	"github.com/mogaika/orrery/gfx"
	"github.com/mogaika/orrery/gfx/fakegl"
	"github.com/mogaika/orrery/gfx/trace"
	"github.com/mogaika/orrery/r3d"
)

const epsilon = 1e-4

func newSystem(t *testing.T, cfg *config.Config) (*System, *fakegl.Context, *trace.Recorder) {
	t.Helper()
	gl := fakegl.New()
	rec := trace.Wrap(gl)
	sys, err := New(rec, cfg, cfg.Window.Aspect())
	require.NoError(t, err)
	return sys, gl, rec
}

func bodyPosition(t *testing.T, sys *System, name string) mgl32.Vec3 {
	t.Helper()
	id, ok := sys.Body(name)
	require.True(t, ok, name)
	world, ok := sys.Scene.World(id, mgl32.Ident4())
	require.True(t, ok, name)
	return world.Col(3).Vec3()
}

func TestSystemLayout(t *testing.T) {
	sys, gl, _ := newSystem(t, config.Default())
	defer sys.Release()

	assert.Equal(t, 3, sys.Bodies())
	assert.Equal(t, 6, sys.Scene.Len())
	require.Len(t, sys.Scene.Roots(), 1)

	root := sys.Scene.Roots()[0]
	assert.Equal(t, "solar-system", sys.Scene.Name(root))
	children := sys.Scene.Children(root)
	require.Len(t, children, 2)
	assert.Equal(t, "sun", sys.Scene.Name(children[0]))
	assert.Equal(t, "earth-orbit", sys.Scene.Name(children[1]))

	sun, ok := sys.Scene.Node(children[0]).(*r3d.Cuboid)
	require.True(t, ok)
	assert.Equal(t, [3]uint8{255, 255, 0}, sun.Color())

	_, programs, buffers := gl.Live()
	assert.Equal(t, 3, programs)
	assert.Equal(t, 9, buffers)
}

func TestSystemFrame(t *testing.T) {
	sys, gl, rec := newSystem(t, config.Default())
	defer sys.Release()

	rec.BeginFrame()
	sys.Frame(0.1)
	f := rec.EndFrame()

	assert.Equal(t, 3, f.Draws)
	assert.Len(t, f.Filter("UniformMatrix4"), 3)
	assert.InDelta(t, 5, sys.Rotation(), epsilon)
	assert.Equal(t, 3, gl.Draws())
	assert.Empty(t, gl.Errors())
}

func TestSystemPose(t *testing.T) {
	sys, _, _ := newSystem(t, config.Default())
	defer sys.Release()

	sys.SetRotation(0)
	sys.Pose()
	assert.InDelta(t, 0, bodyPosition(t, sys, "sun").Len(), epsilon)
	assert.True(t, mgl32.Vec3{8.5, 0, 0}.ApproxEqualThreshold(bodyPosition(t, sys, "earth"), epsilon))

	sys.SetRotation(90)
	sys.Pose()
	assert.True(t, mgl32.Vec3{0, 0, -8.5}.ApproxEqualThreshold(bodyPosition(t, sys, "earth"), epsilon),
		"%v", bodyPosition(t, sys, "earth"))
	assert.True(t, mgl32.Vec3{-2.38, 0, -8.5}.ApproxEqualThreshold(bodyPosition(t, sys, "moon"), epsilon),
		"%v", bodyPosition(t, sys, "moon"))

	// posing twice gives the same result
	sys.Pose()
	assert.True(t, mgl32.Vec3{0, 0, -8.5}.ApproxEqualThreshold(bodyPosition(t, sys, "earth"), epsilon))

	assert.True(t, mgl32.Vec3{0, 20, 10}.ApproxEqualThreshold(sys.Camera.Position(), epsilon))
}

func TestSystemTickWraps(t *testing.T) {
	sys, _, _ := newSystem(t, config.Default())
	defer sys.Release()

	sys.SetRotation(350)
	sys.Tick(0.5)
	assert.InDelta(t, 15, sys.Rotation(), epsilon)

	sys.SetRotation(-30)
	assert.InDelta(t, 330, sys.Rotation(), epsilon)
}

func TestSystemFractionalSpeedAcrossWrap(t *testing.T) {
	cfg := config.Default()
	cfg.System.Orbits[0].Speed = 0.5
	cfg.Camera.Orbit = &config.OrbitCamera{Distance: 20, Speed: 0.25}
	sys, _, _ := newSystem(t, cfg)
	defer sys.Release()

	sys.SetRotation(359)
	sys.Pose()
	angle, ok := sys.OrbitAngle("earth-orbit")
	require.True(t, ok)
	assert.InDelta(t, 179.5, angle, epsilon)
	moonBefore := bodyPosition(t, sys, "moon")
	camBefore := sys.Camera.Position()

	// two base degrees: the base angle wraps, the earth orbit moves one degree
	sys.Tick(2.0 / cfg.Speed)
	sys.Pose()
	assert.InDelta(t, 1, sys.Rotation(), epsilon)
	angle, _ = sys.OrbitAngle("earth-orbit")
	assert.InDelta(t, 180.5, angle, epsilon)

	moved := bodyPosition(t, sys, "moon").Sub(moonBefore).Len()
	assert.Less(t, moved, float32(1), "moon moved %v for a small step", moved)
	assert.Less(t, sys.Camera.Position().Sub(camBefore).Len(), float32(0.5))

	_, ok = sys.OrbitAngle("pluto-orbit")
	assert.False(t, ok)
}

func TestSystemOrbitCamera(t *testing.T) {
	cfg := config.Default()
	cfg.Camera.Orbit = &config.OrbitCamera{Distance: 20, Pitch: 0, Speed: 1}
	sys, _, _ := newSystem(t, cfg)
	defer sys.Release()

	sys.SetRotation(90)
	sys.Pose()
	assert.True(t, mgl32.Vec3{20, 0, 0}.ApproxEqualThreshold(sys.Camera.Position(), epsilon), "%v", sys.Camera.Position())

	target := sys.Camera.View().Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	assert.True(t, mgl32.Vec3{0, 0, -20}.ApproxEqualThreshold(target, epsilon), "%v", target)
}

func TestSystemResize(t *testing.T) {
	sys, _, _ := newSystem(t, config.Default())
	defer sys.Release()

	before := sys.Camera.Projection()
	sys.Resize(2)
	assert.NotEqual(t, before, sys.Camera.Projection())
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(75), 2, 0.1, 1000), sys.Camera.Projection())
}

func TestSystemRelease(t *testing.T) {
	sys, gl, _ := newSystem(t, config.Default())
	sys.Release()

	shaders, programs, buffers := gl.Live()
	assert.Zero(t, shaders+programs+buffers)
	assert.Empty(t, gl.Errors())
}

func TestSystemBuildFailure(t *testing.T) {
	gl := fakegl.New()
	// the sun takes three buffers, the earth fails on its third
	limited := &limitBuffers{Recorder: trace.Wrap(gl), gl: gl, left: 5}

	sys, err := New(limited, config.Default(), 1)
	assert.Nil(t, sys)
	require.Error(t, err)
	assert.Equal(t, r3d.ErrResource, errors.Cause(err))
	assert.Contains(t, err.Error(), `body "earth"`)

	shaders, programs, buffers := gl.Live()
	assert.Zero(t, shaders+programs+buffers)
	assert.Empty(t, gl.Errors())
}

type limitBuffers struct {
	*trace.Recorder
	gl   *fakegl.Context
	left int
}

func (l *limitBuffers) CreateBuffer() gfx.Buffer {
	if l.left == 0 {
		l.gl.FailNext(fakegl.OpCreateBuffer)
	} else {
		l.left--
	}
	return l.Recorder.CreateBuffer()
}
