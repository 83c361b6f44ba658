// Package conv provides checked integer conversions for values read from
// container headers and column buffers.
//
// Counts, offsets and lengths in a VIM file are untrusted input. Converting
// them with a plain cast can silently wrap on overflow; these helpers return
// an error instead. Use direct casts where the range is already proven.
package conv
