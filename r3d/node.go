package r3d

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Node is anything that can be placed in a Scene. Render receives the
// node's world matrix (parent world × local) and must not recurse; the
// scene walks children itself.
type Node interface {
	Local() *Transform
	Render(world mgl32.Mat4)
}

// Releaser is implemented by nodes owning GPU resources.
type Releaser interface {
	Release()
}

// Group is a transform-only node used to build hierarchies.
type Group struct {
	Transform
}

func NewGroup() *Group { return &Group{} }

func (g *Group) Local() *Transform { return &g.Transform }

func (g *Group) Render(world mgl32.Mat4) {}
