package r3d

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a local 4x4 transform. Every compose operation
// right-multiplies the current matrix, so calls apply in the order issued:
// Translate then RotateY rotates around the translated origin.
// The zero value is the identity transform.
type Transform struct {
	m   mgl32.Mat4
	set bool
}

func (t *Transform) Matrix() mgl32.Mat4 {
	if !t.set {
		return mgl32.Ident4()
	}
	return t.m
}

// Position returns the translation column.
func (t *Transform) Position() mgl32.Vec3 {
	return t.Matrix().Col(3).Vec3()
}

func (t *Transform) Reset() {
	t.m = mgl32.Ident4()
	t.set = true
}

func (t *Transform) compose(m mgl32.Mat4) {
	t.m = t.Matrix().Mul4(m)
	t.set = true
}

func (t *Transform) replace(m mgl32.Mat4) {
	t.m = m
	t.set = true
}

func (t *Transform) Translate(v mgl32.Vec3) {
	t.compose(mgl32.Translate3D(v[0], v[1], v[2]))
}

func (t *Transform) Scale(v mgl32.Vec3) {
	t.compose(mgl32.Scale3D(v[0], v[1], v[2]))
}

// RotateX rotates about the local X axis, angle in degrees.
func (t *Transform) RotateX(degrees float32) {
	t.compose(mgl32.HomogRotate3DX(mgl32.DegToRad(degrees)))
}

// RotateY rotates about the local Y axis, angle in degrees.
func (t *Transform) RotateY(degrees float32) {
	t.compose(mgl32.HomogRotate3DY(mgl32.DegToRad(degrees)))
}

// RotateZ rotates about the local Z axis, angle in degrees.
func (t *Transform) RotateZ(degrees float32) {
	t.compose(mgl32.HomogRotate3DZ(mgl32.DegToRad(degrees)))
}
