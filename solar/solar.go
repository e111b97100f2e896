// Package solar drives a scene of nested orbits: every orbit is a group node
// holding an optional body and further orbits, so a moon circles a planet
// circling a star without special cases.
package solar

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/orrery/config"
	"github.com/mogaika/orrery/gfx"
	"github.com/mogaika/orrery/r3d"
	"github.com/mogaika/orrery/utils"
)

type orbitNode struct {
	id  r3d.NodeID
	cfg *config.Orbit
	// angle about Y in degrees, wrapped on its own so fractional speeds
	// stay continuous
	angle float64
}

type System struct {
	Scene  *r3d.Scene
	Camera *r3d.Camera

	cfg      *config.Config
	orbit    *r3d.OrbitController
	orbits   []orbitNode
	bodies   map[string]r3d.NodeID
	rotation float64
	yaw      float64
}

// New builds the scene described by cfg. On error every GPU resource created
// so far is released.
func New(ctx gfx.Context, cfg *config.Config, aspect float32) (*System, error) {
	s := &System{
		Scene:  r3d.NewScene(),
		cfg:    cfg,
		bodies: make(map[string]r3d.NodeID),
	}
	s.Resize(aspect)
	if cfg.Camera.Orbit != nil {
		s.orbit = r3d.NewOrbitController(cfg.Camera.Target, cfg.Camera.Orbit.Distance, cfg.Camera.Orbit.Pitch, 0)
	}

	if err := s.addOrbit(ctx, -1, &cfg.System); err != nil {
		s.Scene.Release()
		return nil, err
	}
	return s, nil
}

func (s *System) addOrbit(ctx gfx.Context, parent r3d.NodeID, o *config.Orbit) error {
	var id r3d.NodeID
	var err error
	if parent < 0 {
		id, err = s.Scene.AddNode(r3d.NewGroup())
	} else {
		id, err = s.Scene.AddChild(parent, r3d.NewGroup())
	}
	if err != nil {
		return errors.Wrapf(err, "orbit %q", o.Name)
	}
	s.Scene.SetName(id, o.Name)
	s.orbits = append(s.orbits, orbitNode{id: id, cfg: o})

	if b := o.Body; b != nil {
		cuboid, err := r3d.NewCuboid(ctx, r3d.CuboidOptions{
			Position: b.Offset,
			Width:    b.Size[0],
			Height:   b.Size[1],
			Depth:    b.Size[2],
			Color:    b.Color,
		})
		if err != nil {
			return errors.Wrapf(err, "body %q", b.Name)
		}
		bodyID, err := s.Scene.AddChild(id, cuboid)
		if err != nil {
			cuboid.Release()
			return errors.Wrapf(err, "body %q", b.Name)
		}
		s.Scene.SetName(bodyID, b.Name)
		s.bodies[b.Name] = bodyID
	}

	for i := range o.Orbits {
		if err := s.addOrbit(ctx, id, &o.Orbits[i]); err != nil {
			return err
		}
	}
	return nil
}

// Resize replaces the camera; its projection cannot change after creation.
func (s *System) Resize(aspect float32) {
	c := s.cfg.Camera
	s.Camera = r3d.NewCamera(c.FOV, aspect, c.Near, c.Far)
}

// Tick advances the rotation by dt seconds.
func (s *System) Tick(dt float64) {
	step := dt * s.cfg.Speed
	s.rotation = utils.WrapDegrees(s.rotation + step)
	for i := range s.orbits {
		o := &s.orbits[i]
		o.angle = utils.WrapDegrees(o.angle + step*float64(o.cfg.Speed))
	}
	if orbit := s.cfg.Camera.Orbit; orbit != nil {
		s.yaw = utils.WrapDegrees(s.yaw + step*float64(orbit.Speed))
	}
}

// Rotation returns the base angle in degrees, before orbit speeds apply.
func (s *System) Rotation() float64 { return s.rotation }

// OrbitAngle returns the current angle of a named orbit.
func (s *System) OrbitAngle(name string) (float64, bool) {
	for _, o := range s.orbits {
		if o.cfg.Name == name {
			return o.angle, true
		}
	}
	return 0, false
}

// SetRotation jumps to a base angle; every orbit is placed at degrees times
// its speed.
func (s *System) SetRotation(degrees float64) {
	s.rotation = utils.WrapDegrees(degrees)
	for i := range s.orbits {
		o := &s.orbits[i]
		o.angle = utils.WrapDegrees(degrees * float64(o.cfg.Speed))
	}
	if orbit := s.cfg.Camera.Orbit; orbit != nil {
		s.yaw = utils.WrapDegrees(degrees * float64(orbit.Speed))
	}
}

// Pose rebuilds every transform for the current rotation.
func (s *System) Pose() {
	s.Scene.Reset()

	cam := s.cfg.Camera
	if s.orbit != nil {
		s.orbit.Yaw = float32(s.yaw)
		s.orbit.Apply(s.Camera, cam.Up)
	} else {
		s.Camera.Reset()
		s.Camera.Translate(cam.Position)
		s.Camera.LookAt(cam.Target, cam.Up)
	}

	for _, o := range s.orbits {
		t := s.Scene.Local(o.id)
		scale := o.cfg.ScaleOrOne()
		t.Translate(mgl32.Vec3{o.cfg.Radius, 0, 0})
		t.RotateY(float32(o.angle))
		t.Scale(mgl32.Vec3{scale, scale, scale})
	}
}

// Frame runs one tick of the render loop.
func (s *System) Frame(dt float64) {
	s.Tick(dt)
	s.Pose()
	s.Scene.Render(s.Camera)
}

// Body returns the node of a named body.
func (s *System) Body(name string) (r3d.NodeID, bool) {
	id, ok := s.bodies[name]
	return id, ok
}

// Bodies returns how many drawable bodies the system has.
func (s *System) Bodies() int { return len(s.bodies) }

func (s *System) Release() {
	s.Scene.Release()
}
