package testutil

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/hupe1980/vimgo/document"
	"github.com/hupe1980/vimgo/g3d"
	"github.com/hupe1980/vimgo/math3d"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// Bytes returns n random bytes.
func (r *RNG) Bytes(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := make([]byte, n)
	_, _ = r.rand.Read(b)
	return b
}

// DocumentConfig sizes a generated document.
type DocumentConfig struct {
	Elements   int
	Levels     int
	Geometries int
	Nodes      int
	// InstanceRatio is the share of nodes that instance an earlier node.
	InstanceRatio float32
	Assets        int
	// Properties per element.
	Properties int
}

// DefaultDocumentConfig returns a small document.
func DefaultDocumentConfig() DocumentConfig {
	return DocumentConfig{
		Elements:      32,
		Levels:        4,
		Geometries:    8,
		Nodes:         64,
		InstanceRatio: 0.25,
		Assets:        3,
		Properties:    2,
	}
}

// Document generates a document builder. The same seed and config always
// produce the same bytes.
func (r *RNG) Document(cfg DocumentConfig) *document.DocumentBuilder {
	r.mu.Lock()
	defer r.mu.Unlock()
	rnd := r.rand

	db := document.NewDocumentBuilder()

	levels := db.Table(document.TableLevel)
	elevation := make([]float64, cfg.Levels)
	levelNames := make([]string, cfg.Levels)
	for i := range elevation {
		elevation[i] = float64(i) * 3.5
		levelNames[i] = fmt.Sprintf("Level %d", i)
	}
	must(levels.AddNumericColumn("Elevation", elevation))
	must(levels.AddStringColumn("Name", levelNames))

	elements := db.Table(document.TableElement)
	ids := make([]int64, cfg.Elements)
	names := make([]string, cfg.Elements)
	elementLevel := make([]int32, cfg.Elements)
	for i := range ids {
		ids[i] = int64(1000 + i)
		names[i] = fmt.Sprintf("Element %d", i)
		elementLevel[i] = pick(rnd, cfg.Levels)
		for p := range cfg.Properties {
			elements.AddProperty(int32(i), fmt.Sprintf("Param%d", p), fmt.Sprintf("%d", rnd.Intn(100)))
		}
	}
	must(document.AddColumn(elements, "Id", ids))
	must(elements.AddStringColumn("Name", names))
	must(elements.AddIndexColumn(document.TableLevel, "Level", elementLevel))

	for range cfg.Geometries {
		_, err := db.AddGeometry(randomGeometry(rnd))
		must(err)
	}

	// Plain nodes are kept apart so instances never reach a subtree that
	// contains an instance.
	var plain []int32
	nodeElement := make([]int32, cfg.Nodes)
	for i := range cfg.Nodes {
		nodeElement[i] = pick(rnd, cfg.Elements)
		if len(plain) > 0 && rnd.Float32() < cfg.InstanceRatio {
			source := plain[rnd.Intn(len(plain))]
			db.AddNode(randomTransform(rnd), -1, source, -1)
			continue
		}
		parent := int32(-1)
		if len(plain) > 0 && rnd.Intn(2) == 0 {
			parent = plain[rnd.Intn(len(plain))]
		}
		plain = append(plain, db.AddNode(randomTransform(rnd), pick(rnd, cfg.Geometries), -1, parent))
	}
	must(db.Table(document.TableNode).AddIndexColumn(document.TableElement, "Element", nodeElement))

	for i := range cfg.Assets {
		data := make([]byte, 16+rnd.Intn(256))
		_, _ = rnd.Read(data)
		db.AddAsset(fmt.Sprintf("textures/t%d.png", i), data)
	}
	return db
}

// pick returns a random index below n, or -1 for an empty range or about
// one time in eight.
func pick(rnd *rand.Rand, n int) int32 {
	if n == 0 || rnd.Intn(8) == 0 {
		return -1
	}
	return int32(rnd.Intn(n))
}

func randomVector(rnd *rand.Rand, scale float32) math3d.Vector3 {
	return math3d.Vector3{
		X: (rnd.Float32()*2 - 1) * scale,
		Y: (rnd.Float32()*2 - 1) * scale,
		Z: (rnd.Float32()*2 - 1) * scale,
	}
}

func randomTransform(rnd *rand.Rand) math3d.Matrix4x4 {
	if rnd.Intn(4) == 0 {
		return math3d.Identity()
	}
	s := 0.5 + rnd.Float32()
	return math3d.Scaling(math3d.Vector3{X: s, Y: s, Z: s}).Mul(math3d.Translation(randomVector(rnd, 50)))
}

func randomGeometry(rnd *rand.Rand) *g3d.GeometryBuilder {
	g := &g3d.GeometryBuilder{}
	n := 3 + rnd.Intn(6)
	for range n {
		g.AddVertex(randomVector(rnd, 5))
	}
	for i := 1; i+1 < n; i++ {
		g.AddFace(0, int32(i), int32(i+1))
	}
	return g
}

// ExpectedNodeCount returns how many nodes a local-geometry expansion of
// nodes emits: every plain node once, and every instance once plus once per
// descendant of its source.
func ExpectedNodeCount(nodes []document.Node) int {
	children := make([][]int, len(nodes))
	for i, n := range nodes {
		if n.Parent >= 0 && int(n.Parent) < len(nodes) {
			children[n.Parent] = append(children[n.Parent], i)
		}
	}
	var descendants func(i int) int
	descendants = func(i int) int {
		total := 0
		for _, c := range children[i] {
			total += 1 + descendants(c)
		}
		return total
	}

	count := 0
	for _, n := range nodes {
		count++
		if n.IsInstance() {
			count += descendants(int(n.Instance))
		}
	}
	return count
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
