package scene

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/vimgo/document"
	"github.com/hupe1980/vimgo/g3d"
	"github.com/hupe1980/vimgo/math3d"
)

// ElementTables are the tables whose "Element" relation LoadScene indexes.
var ElementTables = []string{
	document.TableFamilyInstance,
	document.TableFamilyType,
	document.TableFamily,
	document.TableView,
	document.TableAssemblyInstance,
	document.TableDesignOption,
	document.TableLevel,
	document.TablePhase,
	document.TableRoom,
}

// Node is one expanded scene node.
type Node struct {
	// Index is the position in Scene.Nodes.
	Index int
	// Source is the index of the emitting node in the document.
	Source    int
	Transform math3d.Matrix4x4
	Geometry  int32
	// Element is the Rvt.Element row of the source node, or -1.
	Element int32
}

// HasGeometry reports whether the node places a mesh.
func (n Node) HasGeometry() bool { return n.Geometry >= 0 }

// Scene is an expanded, indexed view of a document. It is immutable.
type Scene struct {
	Document *document.Document
	Mode     document.ExpansionMode
	Nodes    []Node
	// Meshes is nil when the geometry buffer was not loaded.
	Meshes []*g3d.Mesh

	elementByID    map[int64]int
	nodesByElement map[int32][]int
	byElement      map[string]*document.RelationIndex
}

// LoadScene expands the nodes, unpacks the meshes and builds the element
// lookups of doc. Independent steps run concurrently.
func LoadScene(ctx context.Context, doc *document.Document, opts ...Option) (*Scene, error) {
	o := applyOptions(opts)
	start := time.Now()

	s := &Scene{
		Document:  doc,
		Mode:      doc.Header().ExpansionMode(),
		byElement: make(map[string]*document.RelationIndex, len(ElementTables)),
	}
	if o.mode != nil {
		s.Mode = *o.mode
	}

	nodeElements := elementColumn(doc, document.TableNode)
	lookups := make([]*document.RelationIndex, len(ElementTables))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	g.Go(func() error {
		nodes, err := Expand(doc.Nodes(), s.Mode, func(source int, _ document.Node, index int, transform math3d.Matrix4x4, geometry int32) Node {
			element := int32(-1)
			if source < len(nodeElements) {
				element = nodeElements[source]
			}
			return Node{Index: index, Source: source, Transform: transform, Geometry: geometry, Element: element}
		}, WithLogger(o.logger))
		if err != nil {
			return err
		}
		s.Nodes = nodes
		return nil
	})

	g.Go(func() error {
		geometry, err := doc.Geometry()
		if errors.Is(err, document.ErrGeometryNotLoaded) {
			return nil
		}
		if err != nil {
			return err
		}
		meshes, err := geometry.Meshes()
		if err != nil {
			return err
		}
		s.Meshes = meshes
		return nil
	})

	g.Go(func() error {
		s.elementByID = idLookup(doc, document.TableElement)
		return nil
	})

	for i, table := range ElementTables {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			lookups[i] = elementIndex(doc, table)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, table := range ElementTables {
		if lookups[i] != nil {
			s.byElement[document.TableKey(table)] = lookups[i]
		}
	}
	s.nodesByElement = make(map[int32][]int)
	for _, n := range s.Nodes {
		if n.Element >= 0 {
			s.nodesByElement[n.Element] = append(s.nodesByElement[n.Element], n.Index)
		}
	}

	if o.logger != nil {
		o.logger.Info("scene loaded",
			"mode", s.Mode.String(),
			"nodes", len(s.Nodes),
			"meshes", len(s.Meshes),
			"elements", len(s.elementByID),
			"duration", time.Since(start))
	}
	return s, nil
}

func elementColumn(doc *document.Document, table string) []int32 {
	t, err := doc.Table(table)
	if err != nil {
		return nil
	}
	values, _ := t.Index("Element")
	return values
}

// elementIndex returns nil when the table or its Element relation is absent.
func elementIndex(doc *document.Document, table string) *document.RelationIndex {
	t, err := doc.Table(table)
	if err != nil {
		return nil
	}
	ri, err := document.NewRelationIndex(t, "Element")
	if err != nil {
		return nil
	}
	return ri
}

func idLookup(doc *document.Document, table string) map[int64]int {
	m := make(map[int64]int)
	t, err := doc.Table(table)
	if err != nil {
		return m
	}
	ids, ok := t.Numeric("Id")
	if !ok {
		return m
	}
	for row, id := range ids {
		if _, dup := m[int64(id)]; !dup {
			m[int64(id)] = row
		}
	}
	return m
}

// ElementIndex returns the Rvt.Element row with the given Id.
func (s *Scene) ElementIndex(id int64) (int, bool) {
	row, ok := s.elementByID[id]
	return row, ok
}

// NodesForElement returns the expanded nodes of an Rvt.Element row.
func (s *Scene) NodesForElement(element int32) []Node {
	idx := s.nodesByElement[element]
	out := make([]Node, len(idx))
	for i, j := range idx {
		out[i] = s.Nodes[j]
	}
	return out
}

// RowForElement returns the row of table ("Level", "Rvt.Room", ...) whose
// Element relation points at element.
func (s *Scene) RowForElement(table string, element int32) (int, bool) {
	rows := s.RowsForElement(table, element)
	if len(rows) == 0 {
		return 0, false
	}
	return rows[0], true
}

// RowsForElement returns every row of table whose Element relation points at
// element, in ascending order.
func (s *Scene) RowsForElement(table string, element int32) []int {
	ri, ok := s.byElement[document.TableKey(table)]
	if !ok {
		return nil
	}
	rows := ri.ReferencingRows(element)
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = int(r)
	}
	return out
}

// Mesh returns the mesh of a geometry index, or nil.
func (s *Scene) Mesh(geometry int32) *g3d.Mesh {
	if geometry < 0 || int(geometry) >= len(s.Meshes) {
		return nil
	}
	return s.Meshes[geometry]
}

// Bounds returns the world-space bounding box of every placed mesh.
func (s *Scene) Bounds() math3d.AABox {
	box := math3d.EmptyBox()
	for _, n := range s.Nodes {
		m := s.Mesh(n.Geometry)
		if m == nil {
			continue
		}
		for _, v := range m.Vertices {
			box = box.MergePoint(v.Transform(n.Transform))
		}
	}
	return box
}
