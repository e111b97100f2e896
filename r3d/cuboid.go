package r3d

import (
	_ "embed"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/orrery/gfx"
)

//go:embed shaders/cuboid.vert
var cuboidVertexShader string

//go:embed shaders/cuboid.frag
var cuboidFragmentShader string

const (
	cuboidVertexCount = 24
	cuboidIndexCount  = 36
)

type CuboidOptions struct {
	// Offset of the cuboid center from the node origin.
	Position mgl32.Vec3
	// Zero extents default to 1.
	Width, Height, Depth float32
	Color                [3]uint8

	// Shader sources override the built-in flat color program. They must
	// declare a_position, a_color and u_worldViewProjection.
	VertexShader, FragmentShader string
}

// Cuboid is a drawable box node. It owns its program and buffers, which are
// created once by NewCuboid and live until Release.
type Cuboid struct {
	Transform

	ctx     gfx.Context
	options CuboidOptions

	program   *Program
	positions gfx.Buffer
	colors    gfx.Buffer
	indices   gfx.Buffer

	aPosition            gfx.Attrib
	aColor               gfx.Attrib
	uWorldViewProjection gfx.Uniform
}

// NewCuboid compiles the program, uploads geometry and resolves shader
// locations. Any failure releases what was already created and returns an
// error; there is no partially built cuboid.
func NewCuboid(ctx gfx.Context, options CuboidOptions) (*Cuboid, error) {
	if options.Width == 0 {
		options.Width = 1
	}
	if options.Height == 0 {
		options.Height = 1
	}
	if options.Depth == 0 {
		options.Depth = 1
	}
	if options.VertexShader == "" {
		options.VertexShader = cuboidVertexShader
	}
	if options.FragmentShader == "" {
		options.FragmentShader = cuboidFragmentShader
	}

	c := &Cuboid{
		ctx:                  ctx,
		options:              options,
		aPosition:            gfx.NoAttrib,
		aColor:               gfx.NoAttrib,
		uWorldViewProjection: gfx.NoUniform,
	}
	built := false
	defer func() {
		if !built {
			c.Release()
		}
	}()

	program, err := LoadProgram(ctx, options.VertexShader, options.FragmentShader)
	if err != nil {
		return nil, errors.Wrap(err, "cuboid")
	}
	c.program = program

	positions, colors, indices := cuboidGeometry(options)

	if c.positions, err = newBuffer(ctx, "positions"); err != nil {
		return nil, err
	}
	ctx.BufferFloats(c.positions, positions)

	if c.colors, err = newBuffer(ctx, "colors"); err != nil {
		return nil, err
	}
	ctx.BufferBytes(c.colors, colors)

	if c.indices, err = newBuffer(ctx, "indices"); err != nil {
		return nil, err
	}
	ctx.BufferIndices(c.indices, indices)

	if c.aPosition, err = program.Attrib("a_position"); err != nil {
		return nil, errors.Wrap(err, "cuboid")
	}
	if c.aColor, err = program.Attrib("a_color"); err != nil {
		return nil, errors.Wrap(err, "cuboid")
	}
	if c.uWorldViewProjection, err = program.Uniform("u_worldViewProjection"); err != nil {
		return nil, errors.Wrap(err, "cuboid")
	}

	built = true
	return c, nil
}

func newBuffer(ctx gfx.Context, what string) (gfx.Buffer, error) {
	b := ctx.CreateBuffer()
	if b == 0 {
		return 0, errors.Wrapf(ErrResource, "cuboid %s buffer", what)
	}
	return b, nil
}

func (c *Cuboid) Local() *Transform { return &c.Transform }

// Size returns width, height and depth.
func (c *Cuboid) Size() mgl32.Vec3 {
	return mgl32.Vec3{c.options.Width, c.options.Height, c.options.Depth}
}

func (c *Cuboid) Color() [3]uint8 { return c.options.Color }

// Render issues a single indexed draw with world as the
// world-view-projection matrix.
func (c *Cuboid) Render(world mgl32.Mat4) {
	c.ctx.UseProgram(c.program.Id)
	c.ctx.VertexAttrib(c.aPosition, c.positions, 3, gfx.Float, false, 0, 0)
	c.ctx.VertexAttrib(c.aColor, c.colors, 3, gfx.UnsignedByte, true, 0, 0)
	c.ctx.UniformMatrix4(c.uWorldViewProjection, world)
	c.ctx.DrawElements(gfx.Triangles, c.indices, cuboidIndexCount, gfx.UnsignedShort, 0)
}

// Release deletes the GPU objects. The cuboid must not be rendered after.
func (c *Cuboid) Release() {
	for _, b := range []*gfx.Buffer{&c.positions, &c.colors, &c.indices} {
		if *b != 0 {
			c.ctx.DeleteBuffer(*b)
			*b = 0
		}
	}
	if c.program != nil {
		c.program.Delete()
		c.program = nil
	}
}
