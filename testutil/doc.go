// Package testutil generates reproducible random documents for tests and
// benchmarks.
//
//	rng := testutil.NewRNG(seed)
//	db := rng.Document(testutil.DefaultDocumentConfig())
//	doc, _ := db.Build()
//
// Generated node graphs are acyclic: instance nodes are roots that place an
// earlier plain node, and plain nodes only parent plain nodes.
// ExpectedNodeCount returns the number of nodes expansion must emit.
package testutil
