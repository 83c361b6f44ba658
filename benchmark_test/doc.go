// Package benchmark holds end-to-end benchmarks for reading, writing and
// expanding generated documents.
//
//	go test -bench=. -benchmem ./benchmark_test/
package benchmark
