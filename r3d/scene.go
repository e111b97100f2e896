package r3d

import (
	"fmt"
	"reflect"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/orrery/utils"
)

// NodeID indexes a node in its Scene.
type NodeID int

// Viewer supplies the matrix a frame is rendered against.
type Viewer interface {
	ViewProjection() mgl32.Mat4
}

type entry struct {
	node     Node
	name     string
	children []NodeID
}

// Scene owns a forest of nodes stored in an arena. Children are referenced
// by index and every attach creates a new slot, so a node value can live in
// exactly one place of the tree.
type Scene struct {
	nodes    []entry
	roots    []NodeID
	attached map[Node]NodeID
	names    utils.RandomNameGenerator
}

func NewScene() *Scene {
	return &Scene{attached: make(map[Node]NodeID)}
}

func (s *Scene) add(n Node) (NodeID, error) {
	if n == nil {
		return -1, errors.New("nil node")
	}
	if v := reflect.ValueOf(n); v.Kind() == reflect.Ptr && v.IsNil() {
		return -1, errors.Errorf("nil %T node", n)
	}
	hashable := reflect.TypeOf(n).Comparable()
	if hashable {
		if id, ok := s.attached[n]; ok {
			return -1, errors.Wrapf(ErrAlreadyAttached, "node %q", s.nodes[id].name)
		}
	}
	id := NodeID(len(s.nodes))
	s.nodes = append(s.nodes, entry{node: n, name: s.names.RandomName()})
	if hashable {
		s.attached[n] = id
	}
	return id, nil
}

// AddNode appends a root node.
func (s *Scene) AddNode(n Node) (NodeID, error) {
	id, err := s.add(n)
	if err != nil {
		return -1, err
	}
	s.roots = append(s.roots, id)
	return id, nil
}

// AddChild appends n to the children of parent; insertion order is draw
// order.
func (s *Scene) AddChild(parent NodeID, n Node) (NodeID, error) {
	if !s.valid(parent) {
		return -1, errors.Wrapf(ErrNoNode, "parent %d", parent)
	}
	id, err := s.add(n)
	if err != nil {
		return -1, err
	}
	s.nodes[parent].children = append(s.nodes[parent].children, id)
	return id, nil
}

func (s *Scene) valid(id NodeID) bool { return id >= 0 && int(id) < len(s.nodes) }

func (s *Scene) Len() int { return len(s.nodes) }

func (s *Scene) Node(id NodeID) Node { return s.nodes[id].node }

// Local is a shortcut for Node(id).Local().
func (s *Scene) Local(id NodeID) *Transform { return s.nodes[id].node.Local() }

func (s *Scene) Roots() []NodeID {
	return append([]NodeID(nil), s.roots...)
}

func (s *Scene) Children(id NodeID) []NodeID {
	return append([]NodeID(nil), s.nodes[id].children...)
}

// Name returns the node name; unnamed nodes get a generated one.
func (s *Scene) Name(id NodeID) string { return s.nodes[id].name }

func (s *Scene) SetName(id NodeID, name string) {
	s.names.Reserve(name)
	s.nodes[id].name = name
}

// Find returns the first node with the given name.
func (s *Scene) Find(name string) (NodeID, bool) {
	for i := range s.nodes {
		if s.nodes[i].name == name {
			return NodeID(i), true
		}
	}
	return -1, false
}

// ResetNode sets the node and its whole subtree back to identity.
func (s *Scene) ResetNode(id NodeID) {
	e := &s.nodes[id]
	e.node.Local().Reset()
	for _, child := range e.children {
		s.ResetNode(child)
	}
}

func (s *Scene) Reset() {
	for _, root := range s.roots {
		s.ResetNode(root)
	}
}

// DrawNode renders the subtree rooted at id against the parent world matrix.
func (s *Scene) DrawNode(id NodeID, parent mgl32.Mat4) {
	e := &s.nodes[id]
	world := parent.Mul4(e.node.Local().Matrix())
	e.node.Render(world)
	for _, child := range e.children {
		s.DrawNode(child, world)
	}
}

// Render draws every root against the viewer's view-projection matrix,
// computed once per call. Siblings are drawn in insertion order without
// sorting, so the caller must have depth testing enabled for correct
// occlusion.
func (s *Scene) Render(v Viewer) {
	viewProjection := v.ViewProjection()
	for _, root := range s.roots {
		s.DrawNode(root, viewProjection)
	}
}

// Walk visits every node in draw order with its world matrix.
func (s *Scene) Walk(base mgl32.Mat4, fn func(id NodeID, world mgl32.Mat4)) {
	var walk func(id NodeID, parent mgl32.Mat4)
	walk = func(id NodeID, parent mgl32.Mat4) {
		world := parent.Mul4(s.nodes[id].node.Local().Matrix())
		fn(id, world)
		for _, child := range s.nodes[id].children {
			walk(child, world)
		}
	}
	for _, root := range s.roots {
		walk(root, base)
	}
}

// World returns the world matrix of a node against base.
func (s *Scene) World(id NodeID, base mgl32.Mat4) (mgl32.Mat4, bool) {
	var result mgl32.Mat4
	found := false
	s.Walk(base, func(n NodeID, world mgl32.Mat4) {
		if n == id && !found {
			result, found = world, true
		}
	})
	return result, found
}

// Release frees GPU resources of every node that owns some.
func (s *Scene) Release() {
	for i := range s.nodes {
		if r, ok := s.nodes[i].node.(Releaser); ok {
			r.Release()
		}
	}
}

type NodeInfo struct {
	ID       NodeID     `json:"id"`
	Name     string     `json:"name"`
	Kind     string     `json:"kind"`
	Children []NodeID   `json:"children,omitempty"`
	Local    mgl32.Mat4 `json:"local"`
	World    mgl32.Mat4 `json:"world"`
}

// Describe returns a snapshot of the tree in draw order. It does not touch
// the graphics context, so the result can be handed to other goroutines.
func (s *Scene) Describe(base mgl32.Mat4) []NodeInfo {
	infos := make([]NodeInfo, 0, len(s.nodes))
	s.Walk(base, func(id NodeID, world mgl32.Mat4) {
		e := &s.nodes[id]
		infos = append(infos, NodeInfo{
			ID:       id,
			Name:     e.name,
			Kind:     kindOf(e.node),
			Children: append([]NodeID(nil), e.children...),
			Local:    e.node.Local().Matrix(),
			World:    world,
		})
	})
	return infos
}

func kindOf(n Node) string {
	switch n.(type) {
	case *Group:
		return "group"
	case *Cuboid:
		return "cuboid"
	default:
		return fmt.Sprintf("%T", n)
	}
}
