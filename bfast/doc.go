// Package bfast implements the aligned named-buffer container used by VIM files.
//
// A container is a header followed by a data section:
//
//	[entryCount u32]
//	entryCount × [nameLength u32][name][byteOffset u64][byteLength u64]
//	zero padding to an 8-byte boundary
//	data section: each body at its byteOffset, zero-padded to 8 bytes
//
// All integers are little-endian. Offsets are relative to the start of the
// data section and always 8-byte aligned. Byte lengths are exact; padding is
// never exposed to callers.
//
// A body may itself be a container. Builder implements Component, so nested
// containers are written by adding one Builder to another, and read by
// calling Reader.Sub or by calling ReadStreamSize on a body reader, which
// rejects entries that end past the enclosing body.
package bfast
