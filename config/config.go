// Package config holds the settings of the orrery demo. Files are YAML and
// are laid over Default, so a file only needs the keys it changes.
package config

import (
	"io/ioutil"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Window     Window   `yaml:"window"`
	Camera     Camera   `yaml:"camera"`
	ClearColor [3]uint8 `yaml:"clear_color"`
	// Speed is the base rotation speed in degrees per second.
	Speed  float64 `yaml:"speed"`
	System Orbit   `yaml:"system"`
}

type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type Camera struct {
	FOV      float32    `yaml:"fov"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	Position mgl32.Vec3 `yaml:"position"`
	Target   mgl32.Vec3 `yaml:"target"`
	Up       mgl32.Vec3 `yaml:"up"`
	// Orbit, when set, replaces Position with a point circling the target.
	Orbit *OrbitCamera `yaml:"orbit,omitempty"`
}

type OrbitCamera struct {
	Distance float32 `yaml:"distance"`
	Pitch    float32 `yaml:"pitch"`
	// Speed multiplies the base rotation to get the yaw.
	Speed float32 `yaml:"speed"`
}

// Orbit is a node of the system tree. Each frame it is moved out by Radius
// along X, rotated about Y by rotation*Speed and scaled by Scale.
type Orbit struct {
	Name   string  `yaml:"name"`
	Radius float32 `yaml:"radius"`
	Speed  float32 `yaml:"speed"`
	// Zero means 1.
	Scale  float32 `yaml:"scale"`
	Body   *Body   `yaml:"body,omitempty"`
	Orbits []Orbit `yaml:"orbits,omitempty"`
}

type Body struct {
	Name string `yaml:"name"`
	// Zero extents mean 1.
	Size   mgl32.Vec3 `yaml:"size"`
	Color  [3]uint8   `yaml:"color"`
	Offset mgl32.Vec3 `yaml:"offset"`
}

// Default is the sun, earth and moon system.
func Default() *Config {
	return &Config{
		Window: Window{
			Title:  "orrery",
			Width:  800,
			Height: 600,
		},
		Camera: Camera{
			FOV:      75,
			Near:     0.1,
			Far:      1000,
			Position: mgl32.Vec3{0, 20, 10},
			Target:   mgl32.Vec3{0, 0, 0},
			Up:       mgl32.Vec3{0, 1, 0},
		},
		Speed: 50,
		System: Orbit{
			Name:  "solar-system",
			Speed: 1,
			Scale: 1.7,
			Body:  &Body{Name: "sun", Size: mgl32.Vec3{1, 1, 1}, Color: [3]uint8{255, 255, 0}},
			Orbits: []Orbit{{
				Name:   "earth-orbit",
				Radius: 5,
				Speed:  1,
				Scale:  0.7,
				Body:   &Body{Name: "earth", Size: mgl32.Vec3{1, 1, 1}, Color: [3]uint8{0, 128, 192}},
				Orbits: []Orbit{{
					Name:   "moon-orbit",
					Radius: 2,
					Speed:  1,
					Scale:  0.5,
					Body:   &Body{Name: "moon", Size: mgl32.Vec3{1, 1, 1}, Color: [3]uint8{128, 128, 128}},
				}},
			}},
		},
	}
}

// Parse lays YAML data over the defaults. A system given in the data
// replaces the default system as a whole.
func Parse(data []byte) (*Config, error) {
	var probe struct {
		System *yaml.Node `yaml:"system"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, errors.Wrap(err, "Unmarshaling error")
	}

	cfg := Default()
	if probe.System != nil {
		cfg.System = Orbit{}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "Unmarshaling error")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Load(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read file %s", path)
	}
	cfg, err := Parse(data)
	return cfg, errors.Wrapf(err, "config %s", path)
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return errors.Errorf("camera fov %v out of range (0, 180)", c.Camera.FOV)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return errors.Errorf("camera near %v / far %v: need 0 < near < far", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.Up.Len() == 0 {
		return errors.New("camera up vector is zero")
	}
	if c.Camera.Orbit == nil && c.Camera.Position.ApproxEqual(c.Camera.Target) {
		return errors.New("camera position equals its target")
	}
	if c.Camera.Orbit != nil && c.Camera.Orbit.Distance <= 0 {
		return errors.Errorf("camera orbit distance %v must be positive", c.Camera.Orbit.Distance)
	}
	names := make(map[string]bool)
	return c.System.validate(names)
}

func (o *Orbit) validate(names map[string]bool) error {
	if err := unique(names, o.Name); err != nil {
		return errors.Wrap(err, "orbit")
	}
	if o.Scale < 0 {
		return errors.Errorf("orbit %q: negative scale %v", o.Name, o.Scale)
	}
	if o.Body != nil {
		if err := unique(names, o.Body.Name); err != nil {
			return errors.Wrapf(err, "body of orbit %q", o.Name)
		}
		for _, v := range o.Body.Size {
			if v < 0 {
				return errors.Errorf("body %q: negative size %v", o.Body.Name, o.Body.Size)
			}
		}
	}
	for i := range o.Orbits {
		if err := o.Orbits[i].validate(names); err != nil {
			return err
		}
	}
	return nil
}

func unique(names map[string]bool, name string) error {
	if name == "" {
		return errors.New("empty name")
	}
	if names[name] {
		return errors.Errorf("duplicate name %q", name)
	}
	names[name] = true
	return nil
}

// ScaleOrOne returns Scale, treating zero as unset.
func (o *Orbit) ScaleOrOne() float32 {
	if o.Scale == 0 {
		return 1
	}
	return o.Scale
}

// Aspect returns the window aspect ratio.
func (w Window) Aspect() float32 {
	return float32(w.Width) / float32(w.Height)
}
