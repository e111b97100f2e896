package r3d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestCameraIdentityViewProjection(t *testing.T) {
	cam := NewCamera(75, 4.0/3.0, 0.1, 1000)
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(75), 4.0/3.0, 0.1, 1000), cam.Projection())
	assert.Equal(t, cam.Projection(), cam.ViewProjection())
}

func TestCameraViewProjection(t *testing.T) {
	cam := NewCamera(60, 1, 0.5, 50)
	cam.Translate(mgl32.Vec3{3, -2, 7})
	cam.RotateY(25)
	cam.RotateX(-10)

	assertMatrix(t, cam.Projection().Mul4(cam.Matrix().Inv()), cam.ViewProjection())
	assertMatrix(t, mgl32.Ident4(), cam.View().Mul4(cam.Matrix()))

	// recomputed on each call
	cam.Translate(mgl32.Vec3{0, 0, 1})
	assertMatrix(t, cam.Projection().Mul4(cam.Matrix().Inv()), cam.ViewProjection())
}

func TestCameraLookAt(t *testing.T) {
	for _, test := range []struct {
		name     string
		position mgl32.Vec3
		target   mgl32.Vec3
		up       mgl32.Vec3
	}{
		{"above", mgl32.Vec3{0, 20, 10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}},
		{"front", mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}},
		{"side", mgl32.Vec3{-8, 1, 0}, mgl32.Vec3{2, 1, 0}, mgl32.Vec3{0, 1, 0}},
		{"offset target", mgl32.Vec3{4, 4, 4}, mgl32.Vec3{1, 0, -1}, mgl32.Vec3{0, 0, 1}},
	} {
		cam := NewCamera(75, 1, 0.1, 100)
		cam.Translate(test.position)
		cam.LookAt(test.target, test.up)
		m := cam.Matrix()

		x, y, z := m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()
		for _, axis := range []mgl32.Vec3{x, y, z} {
			assert.InDelta(t, 1, axis.Len(), epsilon, test.name)
		}
		assert.InDelta(t, 0, x.Dot(y), epsilon, test.name)
		assert.InDelta(t, 0, y.Dot(z), epsilon, test.name)
		assert.InDelta(t, 0, z.Dot(x), epsilon, test.name)
		assertVec3(t, test.position, m.Col(3).Vec3(), test.name)

		// target lands on the negative Z axis of the view
		inView := cam.View().Mul4x1(test.target.Vec4(1)).Vec3()
		assert.InDelta(t, 0, inView.X(), epsilon, test.name)
		assert.InDelta(t, 0, inView.Y(), epsilon, test.name)
		assert.InDelta(t, -test.target.Sub(test.position).Len(), inView.Z(), epsilon, test.name)
	}
}

func TestCameraLookAtReplacesRotation(t *testing.T) {
	plain := NewCamera(75, 1, 0.1, 100)
	plain.Translate(mgl32.Vec3{0, 20, 10})
	plain.LookAt(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})

	rotated := NewCamera(75, 1, 0.1, 100)
	rotated.Translate(mgl32.Vec3{0, 20, 10})
	rotated.RotateZ(33)
	rotated.Scale(mgl32.Vec3{2, 2, 2})
	rotated.LookAt(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})

	assertMatrix(t, plain.Matrix(), rotated.Matrix())
}

func TestOrbitController(t *testing.T) {
	o := NewOrbitController(mgl32.Vec3{1, 0, 0}, 10, 0, 0)
	assertVec3(t, mgl32.Vec3{1, 0, 10}, o.Position())

	o.Yaw = 90
	assertVec3(t, mgl32.Vec3{11, 0, 0}, o.Position())

	o.Pitch = 90
	assertVec3(t, mgl32.Vec3{1, 10, 0}, o.Position())

	o.Pitch, o.Yaw = 30, 45
	pos := o.Position()
	assert.InDelta(t, 10, pos.Sub(o.Target).Len(), epsilon)
	assert.InDelta(t, 10*math.Sin(math.Pi/6), pos.Y(), epsilon)

	cam := NewCamera(75, 1, 0.1, 100)
	cam.RotateX(50)
	o.Apply(cam, mgl32.Vec3{0, 1, 0})
	assertVec3(t, pos, cam.Position())
	inView := cam.View().Mul4x1(o.Target.Vec4(1)).Vec3()
	assertVec3(t, mgl32.Vec3{0, 0, -10}, inView)
}
