package r3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a transform with a perspective projection. The projection is
// fixed at construction; a new aspect ratio needs a new Camera.
type Camera struct {
	Transform

	projection mgl32.Mat4
}

// NewCamera builds a perspective camera, fovY in degrees.
func NewCamera(fovY, aspect, near, far float32) *Camera {
	return &Camera{
		projection: mgl32.Perspective(mgl32.DegToRad(fovY), aspect, near, far),
	}
}

func (c *Camera) Projection() mgl32.Mat4 { return c.projection }

// LookAt points the camera at target from its current position, which is
// read from the translation column (set it with Translate first).
//
// Unlike every other transform operation LookAt does not compose: it
// replaces the whole local matrix with the look-at basis, discarding any
// rotation or scale applied before. Target must differ from the position
// and up must not be parallel to the view direction; degenerate input
// produces NaNs.
func (c *Camera) LookAt(target, up mgl32.Vec3) {
	position := c.Position()
	zAxis := position.Sub(target).Normalize()
	xAxis := up.Cross(zAxis).Normalize()
	yAxis := zAxis.Cross(xAxis).Normalize()

	c.replace(mgl32.Mat4FromCols(
		xAxis.Vec4(0),
		yAxis.Vec4(0),
		zAxis.Vec4(0),
		position.Vec4(1),
	))
}

// View is the inverse of the camera transform.
func (c *Camera) View() mgl32.Mat4 {
	return c.Matrix().Inv()
}

// ViewProjection is recomputed on every call.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.projection.Mul4(c.View())
}

type OrbitController struct {
	Target   mgl32.Vec3
	Distance float32
	Pitch    float32 // x rotation
	Yaw      float32 // y rotation
}

func NewOrbitController(target mgl32.Vec3, dist, pitch, yaw float32) *OrbitController {
	return &OrbitController{
		Target:   target,
		Distance: dist,
		Pitch:    pitch,
		Yaw:      yaw,
	}
}

func (c *OrbitController) Position() mgl32.Vec3 {
	return mgl32.Vec3{
		c.Distance * float32(math.Cos(float64(mgl32.DegToRad(c.Pitch)))*math.Sin(float64(mgl32.DegToRad(c.Yaw)))),
		c.Distance * float32(math.Sin(float64(mgl32.DegToRad(c.Pitch)))),
		c.Distance * float32(math.Cos(float64(mgl32.DegToRad(c.Pitch)))*math.Cos(float64(mgl32.DegToRad(c.Yaw)))),
	}.Add(c.Target)
}

// Apply poses the camera on the orbit looking at the target.
func (c *OrbitController) Apply(cam *Camera, up mgl32.Vec3) {
	cam.Reset()
	cam.Translate(c.Position())
	cam.LookAt(c.Target, up)
}
