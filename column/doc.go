// Package column implements the typed column buffers of an entity table.
//
// Three kinds exist. Index columns hold int32 row indices into another table
// (-1 means no relation). String columns hold int32 ids into the document
// string table. Numeric columns hold float64 values; every on-disk number is
// a double, so narrower types are widened explicitly with Widen or FromBools
// before a column is built.
//
// On disk a column is a bfast entry whose name carries the kind as a prefix
// ("index:", "string:", "numeric:") and whose body is the packed little-endian
// array.
package column
