// Package document implements the VIM document model: entity tables, the
// shared string table, scene nodes, assets and the geometry buffer, plus
// the serializer that maps them onto a bfast container.
//
// A Document is read once and is immutable afterwards; every accessor is
// safe for concurrent use. DocumentBuilder and TableBuilder are the mutable
// counterparts used to produce new files and are not safe for concurrent
// use.
//
// Top-level layout:
//
//	header    "vim:<file version>:objectmodel:<object model version>"
//	assets    container of named blobs (textures are prefixed "textures\")
//	entities  container of "table:<Name>" containers
//	strings   NUL-joined string table
//	geometry  g3d container
//	nodes     76-byte scene node records
//
// Unknown top-level buffers are skipped.
package document
