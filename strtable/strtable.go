// Package strtable implements the document-wide deduplicated string table.
//
// Every string-valued field in a document is stored as an int32 id into one
// table. The empty string is always id 0. On disk the table is a single blob
// of the strings in id order joined by NUL bytes.
package strtable

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrIndexOutOfRange is returned for string ids outside the table.
var ErrIndexOutOfRange = errors.New("index out of range")

const separator = "\x00"

// Builder interns strings and assigns ids in first-seen order.
// It is not safe for concurrent use.
type Builder struct {
	ids     map[string]int32
	strings []string
}

// NewBuilder returns a Builder holding only the empty string at id 0.
func NewBuilder() *Builder {
	return &Builder{
		ids:     map[string]int32{"": 0},
		strings: []string{""},
	}
}

// Intern returns the id of s, assigning the next id if s is new.
func (b *Builder) Intern(s string) int32 {
	if id, ok := b.ids[s]; ok {
		return id
	}
	id := int32(len(b.strings))
	b.ids[s] = id
	b.strings = append(b.strings, s)
	return id
}

// InternNullable interns *s, treating nil as the empty string.
func (b *Builder) InternNullable(s *string) int32 {
	if s == nil {
		return 0
	}
	return b.Intern(*s)
}

// InternAll interns every value in order.
func (b *Builder) InternAll(values []string) {
	for _, s := range values {
		b.Intern(s)
	}
}

// ID returns the id of an interned string.
func (b *Builder) ID(s string) (int32, bool) {
	id, ok := b.ids[s]
	return id, ok
}

// Len returns the number of distinct strings, the empty string included.
func (b *Builder) Len() int {
	return len(b.strings)
}

// Strings returns the interned strings ordered by id.
func (b *Builder) Strings() []string {
	return b.strings
}

// Size returns the byte length of the packed table.
func (b *Builder) Size() int64 {
	var n int64
	for _, s := range b.strings {
		n += int64(len(s))
	}
	return n + int64(len(b.strings)-1)
}

// Pack returns the strings in id order joined by NUL bytes.
func (b *Builder) Pack() []byte {
	return []byte(strings.Join(b.strings, separator))
}

// Table is the immutable, read side of the string table.
// It is safe for concurrent use.
type Table struct {
	strings []string

	lookupOnce sync.Once
	lookup     map[string]int32
}

// New wraps an ordered slice of strings.
func New(values []string) *Table {
	return &Table{strings: values}
}

// Unpack splits a packed blob on NUL bytes. An empty blob yields a table
// holding only the empty string.
func Unpack(data []byte) *Table {
	return New(strings.Split(string(data), separator))
}

// Get returns the string with the given id.
func (t *Table) Get(id int32) (string, error) {
	if id < 0 || int(id) >= len(t.strings) {
		return "", fmt.Errorf("%w: string id %d, table has %d entries", ErrIndexOutOfRange, id, len(t.strings))
	}
	return t.strings[id], nil
}

// GetOrEmpty returns the string with the given id, or "" when out of range.
func (t *Table) GetOrEmpty(id int32) string {
	if id < 0 || int(id) >= len(t.strings) {
		return ""
	}
	return t.strings[id]
}

// Lookup returns the lowest id holding s.
func (t *Table) Lookup(s string) (int32, bool) {
	t.lookupOnce.Do(func() {
		t.lookup = make(map[string]int32, len(t.strings))
		for i, v := range t.strings {
			if _, ok := t.lookup[v]; !ok {
				t.lookup[v] = int32(i)
			}
		}
	})
	id, ok := t.lookup[s]
	return id, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.strings)
}

// Strings returns the entries ordered by id. The slice must not be modified.
func (t *Table) Strings() []string {
	return t.strings
}

// Pack returns the packed on-disk representation.
func (t *Table) Pack() []byte {
	return []byte(strings.Join(t.strings, separator))
}
