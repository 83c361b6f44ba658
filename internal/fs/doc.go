// Package fs abstracts the file system operations of the local blob store so
// tests can inject write, sync, close and rename failures.
//
//   - [LocalFS]: the os package
//   - [FaultyFS]: wraps another FileSystem and fails matching files
//
// Reads are not covered: blobs are opened through memory mappings, which
// need a real path.
package fs
