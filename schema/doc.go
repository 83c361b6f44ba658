// Package schema describes the tables and columns of VIM documents.
//
// A VimSchema is the shape of one document: its object model version and
// the names and kinds of every column. Schemas can be diffed, exported
// through any codec and digested. TableDescriptor values describe the
// tables the object model defines, with typed fields and relations, and
// Validate checks a document against them.
package schema
