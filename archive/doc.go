// Package archive wraps serialized documents in a compressed envelope.
//
// Layout:
//
//	[magic "VIMZ"][algorithm u8][reserved 3][raw size u64][blake3 digest 32][payload]
//
// The payload is a zstd stream, an lz4 frame or the raw bytes. Integers are
// little endian. The digest covers the uncompressed bytes and is verified
// on every decompression.
package archive
