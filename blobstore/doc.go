// Package blobstore provides the storage abstraction documents are read
// from and written to.
//
// A BlobStore holds immutable named blobs. Implementations must be safe
// for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests and caches
//   - LocalStore: local filesystem, mmap-backed reads and atomic writes
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible services
//
// Readers that need an io.ReaderAt, such as the container reader, wrap a
// Blob with ReaderAt.
package blobstore
