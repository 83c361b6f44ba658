// Package scene expands the instanced scene graph of a VIM document into a
// flat list of placed geometries and builds the lookup tables needed to
// navigate from elements to nodes.
//
// Transforms use the row-vector convention: a child's world transform is
// child.Transform * parentBasis.
package scene
