package brender

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max mgl32.Vec3
}

// Light describes a light source attached to an actor.
type Light struct {
	Type         LightType
	Colour       mgl32.Vec3
	AttenuationC float32 // constant
	AttenuationL float32 // linear
	AttenuationQ float32 // quadratic
	ConeInner    float32
	ConeOuter    float32
	Name         string
}

// Camera describes a camera attached to an actor.
type Camera struct {
	Type   CameraType
	FOV    float32
	Hither float32
	Yon    float32
	Aspect float32
	Name   string
}

// ClipPlane is a plane equation (a, b, c, d) with ax+by+cz+d = 0.
type ClipPlane struct {
	Equation mgl32.Vec4
}

// ActorData is the optional payload of an actor: *Light, *Camera, *Bounds
// or *ClipPlane.
type ActorData interface {
	Resource
	actorData()
}

func (*Light) actorData()     {}
func (*Camera) actorData()    {}
func (*Bounds) actorData()    {}
func (*ClipPlane) actorData() {}

// ActorNode is one actor in an ActorTree.
type ActorNode struct {
	Name         string
	Type         ActorType
	RenderStyle  RenderStyle
	Transform    Transform
	ModelName    string
	MaterialName string
	Data         ActorData

	Parent   int // -1 for the root
	Children []int
}

// ActorTree is an actor hierarchy stored as an arena. Nodes refer to each
// other by index into Nodes.
type ActorTree struct {
	Nodes []ActorNode
	Root  int
}

// actorRef is the stack entry for an actor: its index in the tree being built.
type actorRef struct {
	index int
}

// Node returns the node at index i.
func (t *ActorTree) Node(i int) *ActorNode {
	return &t.Nodes[i]
}

// RootNode returns the root actor.
func (t *ActorTree) RootNode() *ActorNode {
	return &t.Nodes[t.Root]
}

// Depth returns the number of ancestors of node i.
func (t *ActorTree) Depth(i int) int {
	depth := 0
	for p := t.Nodes[i].Parent; p >= 0; p = t.Nodes[p].Parent {
		depth++
	}
	return depth
}

// Walk visits every node in pre-order, children in attachment order.
// Returning an error from fn stops the walk.
func (t *ActorTree) Walk(fn func(i, depth int) error) error {
	if len(t.Nodes) == 0 {
		return nil
	}
	return t.walk(t.Root, 0, fn)
}

func (t *ActorTree) walk(i, depth int, fn func(i, depth int) error) error {
	if err := fn(i, depth); err != nil {
		return err
	}
	for _, c := range t.Nodes[i].Children {
		if err := t.walk(c, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// Find returns the index of the first node named name in pre-order.
func (t *ActorTree) Find(name string) (int, bool) {
	found := -1
	_ = t.Walk(func(i, _ int) error {
		if t.Nodes[i].Name == name {
			found = i
			return io.EOF
		}
		return nil
	})
	return found, found >= 0
}

// ModelNames returns the distinct model references in pre-order.
func (t *ActorTree) ModelNames() []string {
	seen := make(map[string]bool)
	var names []string
	_ = t.Walk(func(i, _ int) error {
		name := t.Nodes[i].ModelName
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		return nil
	})
	return names
}

// WorldMatrix returns the transform of node i relative to the root's parent.
func (t *ActorTree) WorldMatrix(i int) (mgl32.Mat4, error) {
	m := mgl32.Ident4()
	for ; i >= 0; i = t.Nodes[i].Parent {
		local, err := t.Nodes[i].Transform.Matrix()
		if err != nil {
			return m, fmt.Errorf("actor %q: %w", t.Nodes[i].Name, err)
		}
		m = local.Mul4(m)
	}
	return m, nil
}

// Format writes the tree as an indented listing.
func (t *ActorTree) Format(w io.Writer) error {
	return t.Walk(func(i, depth int) error {
		n := &t.Nodes[i]
		line := fmt.Sprintf("%s%s [%s]", strings.Repeat("  ", depth), n.Name, n.Type)
		if n.ModelName != "" {
			line += " model=" + n.ModelName
		}
		if n.MaterialName != "" {
			line += " material=" + n.MaterialName
		}
		if n.Transform.Kind != TransformIdentity {
			line += " " + n.Transform.String()
		}
		_, err := fmt.Fprintln(w, line)
		return err
	})
}

// actorBuilder collects nodes while a block is assembled.
type actorBuilder struct {
	nodes []ActorNode
}

func (b *actorBuilder) top(s *Stack) (*ActorNode, error) {
	ref, err := TopOf[*actorRef](s)
	if err != nil {
		return nil, err
	}
	return &b.nodes[ref.index], nil
}

// attach pops a finished T and stores it on the actor beneath it.
func attach[T Resource](b *actorBuilder, s *Stack, set func(n *ActorNode, v T)) error {
	v, err := Pop[T](s)
	if err != nil {
		return err
	}
	n, err := b.top(s)
	if err != nil {
		return err
	}
	set(n, v)
	return nil
}

func (b *actorBuilder) handle(c Chunk, s *Stack) error {
	switch c := c.(type) {
	case ActorChunk:
		b.nodes = append(b.nodes, ActorNode{
			Name:        c.Name,
			Type:        c.ActorType,
			RenderStyle: c.RenderStyle,
			Transform:   IdentityTransform(),
			Parent:      -1,
		})
		s.Push(&actorRef{index: len(b.nodes) - 1})
	case NameRefChunk:
		n, err := b.top(s)
		if err != nil {
			return err
		}
		switch c.Kind {
		case ChunkActorModel:
			n.ModelName = c.Name
		case ChunkActorMaterial:
			n.MaterialName = c.Name
		default:
			return unexpected(c)
		}
	case TransformChunk:
		t := c.Transform
		s.Push(&t)
	case BoundsChunk:
		v := c.Bounds
		s.Push(&v)
	case LightChunk:
		v := c.Light
		s.Push(&v)
	case CameraChunk:
		v := c.Camera
		s.Push(&v)
	case PlaneChunk:
		v := c.Plane
		s.Push(&v)
	case ActionChunk:
		switch c.Kind {
		case ChunkActorTransform:
			return attach(b, s, func(n *ActorNode, t *Transform) { n.Transform = *t })
		case ChunkActorBounds:
			return attach(b, s, func(n *ActorNode, v *Bounds) { n.Data = v })
		case ChunkActorLight:
			return attach(b, s, func(n *ActorNode, v *Light) { n.Data = v })
		case ChunkActorCamera:
			return attach(b, s, func(n *ActorNode, v *Camera) { n.Data = v })
		case ChunkActorClipPlane:
			return attach(b, s, func(n *ActorNode, v *ClipPlane) { n.Data = v })
		case ChunkActorAddChild:
			child, err := Pop[*actorRef](s)
			if err != nil {
				return err
			}
			parent, err := TopOf[*actorRef](s)
			if err != nil {
				return err
			}
			b.nodes[child.index].Parent = parent.index
			b.nodes[parent.index].Children = append(b.nodes[parent.index].Children, child.index)
		default:
			return unexpected(c)
		}
	default:
		return unexpected(c)
	}
	return nil
}

// readActor assembles one actor block into a tree.
func readActor(cr *ChunkReader) (*ActorTree, bool, error) {
	var b actorBuilder
	root, header, err := assemble[*actorRef](cr, FileActor, b.handle)
	if err != nil || header {
		return nil, header, err
	}
	return &ActorTree{Nodes: b.nodes, Root: root.index}, false, nil
}

// ReadActor reads a single actor block. A block holding only the file
// header yields an empty tree.
func ReadActor(r io.Reader) (*ActorTree, error) {
	t, header, err := readActor(NewChunkReader(r))
	if err != nil {
		return nil, err
	}
	if header {
		return &ActorTree{}, nil
	}
	return t, nil
}
