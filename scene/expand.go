package scene

import (
	"fmt"
	"log/slog"

	"github.com/hupe1980/vimgo/document"
	"github.com/hupe1980/vimgo/math3d"
)

// NodeFunc builds one output value. source is the index of the emitting
// node in the input array, index its position in the output, transform its
// world transform and geometry the geometry it places (-1 for none).
type NodeFunc[T any] func(source int, node document.Node, index int, transform math3d.Matrix4x4, geometry int32) T

// ModeFor returns the expansion mode of a header.
func ModeFor(h document.Header) document.ExpansionMode {
	return h.ExpansionMode()
}

type expander[T any] struct {
	nodes    []document.Node
	children [][]int
	mode     document.ExpansionMode
	fn       NodeFunc[T]
	logger   *slog.Logger

	// instance sources being expanded on the current path
	active []bool
	out    []T
}

// Expand flattens nodes into one value per emitted node, in pre-order from
// the roots, siblings in array order. Nodes whose parent index is negative
// or out of range are roots.
//
// An instance node is emitted with its source's geometry and then the
// source's children are expanded under the instance's basis. When the
// source transform cannot be inverted the instance is still emitted but the
// source subtree is skipped and logged.
func Expand[T any](nodes []document.Node, mode document.ExpansionMode, fn NodeFunc[T], opts ...Option) ([]T, error) {
	o := applyOptions(opts)

	e := &expander[T]{
		nodes:    nodes,
		children: make([][]int, len(nodes)),
		mode:     mode,
		fn:       fn,
		logger:   o.logger,
		active:   make([]bool, len(nodes)),
		out:      make([]T, 0, len(nodes)),
	}

	var roots []int
	for i, n := range nodes {
		p := int(n.Parent)
		if p < 0 || p >= len(nodes) {
			roots = append(roots, i)
			continue
		}
		e.children[p] = append(e.children[p], i)
	}

	if err := e.walk(roots, math3d.Identity()); err != nil {
		return nil, err
	}
	return e.out, nil
}

// ExpandedNode is the default output of Expand.
type ExpandedNode struct {
	// Index is the position in the expanded list.
	Index int
	// Source is the index of the emitting node in the input.
	Source    int
	Transform math3d.Matrix4x4
	Geometry  int32
}

// ExpandNodes is Expand with ExpandedNode output.
func ExpandNodes(nodes []document.Node, mode document.ExpansionMode, opts ...Option) ([]ExpandedNode, error) {
	return Expand(nodes, mode, func(source int, _ document.Node, index int, transform math3d.Matrix4x4, geometry int32) ExpandedNode {
		return ExpandedNode{Index: index, Source: source, Transform: transform, Geometry: geometry}
	}, opts...)
}

func (e *expander[T]) emit(source int, transform math3d.Matrix4x4, geometry int32) {
	e.out = append(e.out, e.fn(source, e.nodes[source], len(e.out), transform, geometry))
}

func (e *expander[T]) walk(indices []int, parentBasis math3d.Matrix4x4) error {
	for _, i := range indices {
		n := e.nodes[i]
		if !n.IsInstance() {
			if err := e.plain(i, n, parentBasis); err != nil {
				return err
			}
			continue
		}
		if err := e.instance(i, n, parentBasis); err != nil {
			return err
		}
	}
	return nil
}

func (e *expander[T]) plain(i int, n document.Node, parentBasis math3d.Matrix4x4) error {
	if e.mode == document.WorldSpaceGeometry {
		// Geometry is already in world space.
		e.emit(i, parentBasis, n.Geometry)
		return e.walk(e.children[i], parentBasis)
	}
	basis := n.Transform.Mul(parentBasis)
	e.emit(i, basis, n.Geometry)
	return e.walk(e.children[i], basis)
}

func (e *expander[T]) instance(i int, n document.Node, parentBasis math3d.Matrix4x4) error {
	src := int(n.Instance)
	if src >= len(e.nodes) {
		return &ExpansionError{
			Node:     i,
			Instance: n.Instance,
			Err:      fmt.Errorf("%w: instance %d of %d nodes", ErrIndexOutOfRange, src, len(e.nodes)),
		}
	}
	source := e.nodes[src]
	instanceBasis := n.Transform.Mul(parentBasis)
	inverse, invertible := source.Transform.Invert()

	var basis math3d.Matrix4x4
	switch {
	case e.mode == document.LocalGeometry:
		e.emit(i, instanceBasis, source.Geometry)
		basis = inverse.Mul(instanceBasis)
	case invertible:
		basis = inverse.Mul(instanceBasis)
		e.emit(i, basis, source.Geometry)
	default:
		e.emit(i, instanceBasis, source.Geometry)
	}

	if len(e.children[src]) > 0 {
		if !invertible {
			if e.logger != nil {
				e.logger.Warn("skipping instance subtree with non-invertible source transform",
					"node", i, "instance", src, "children", len(e.children[src]))
			}
		} else {
			if e.active[src] {
				return &ExpansionError{Node: i, Instance: n.Instance, Err: ErrCyclicInstanceGraph}
			}
			e.active[src] = true
			err := e.walk(e.children[src], basis)
			e.active[src] = false
			if err != nil {
				return err
			}
		}
	}

	if src == i {
		return nil
	}
	// Children attached to the instance node itself.
	if e.mode == document.WorldSpaceGeometry {
		return e.walk(e.children[i], parentBasis)
	}
	return e.walk(e.children[i], instanceBasis)
}
