// Package g3d reads and writes the geometry buffer of a VIM document.
//
// A G3D is a bfast container. Its first entry, "meta", holds an 8-byte
// header; every other entry is a packed attribute array named by a
// descriptor of the form
//
//	g3d:<association>:<semantic>:<index>:<datatype>:<arity>
//
// for example "g3d:vertex:position:0:float32:3". The legacy VIM layout
// concatenates all meshes: per-mesh vertex and index offsets are stored in
// the group attributes, and corner indices are global.
package g3d
