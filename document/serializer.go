package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/hupe1980/vimgo/bfast"
	"github.com/hupe1980/vimgo/column"
	"github.com/hupe1980/vimgo/strtable"
)

// parts are the pieces of a document in write order.
type parts struct {
	header     Header
	headerText string // overrides header.String() when set
	assets     []Asset
	tables     []*SerializableTable
	strings    []byte
	geometry   bfast.Component
	nodes      []Node
}

func (p *parts) container() (*bfast.Builder, error) {
	b := bfast.NewBuilder()
	text := p.headerText
	if text == "" {
		text = p.header.String()
	}
	if err := b.AddBytes(BufferHeader, []byte(text)); err != nil {
		return nil, err
	}

	assets := bfast.NewBuilder()
	for _, a := range p.assets {
		if err := assets.AddBytes(a.Name, a.Data); err != nil {
			return nil, fmt.Errorf("asset %q: %w", a.Name, err)
		}
	}
	if err := b.Add(BufferAssets, assets); err != nil {
		return nil, err
	}

	entities := bfast.NewBuilder()
	for _, t := range p.tables {
		tc, err := t.Container()
		if err != nil {
			return nil, err
		}
		if err := entities.Add(TablePrefix+t.Name, tc); err != nil {
			return nil, &TableError{Table: t.Name, Err: err}
		}
	}
	if err := b.Add(BufferEntities, entities); err != nil {
		return nil, err
	}

	if err := b.AddBytes(BufferStrings, p.strings); err != nil {
		return nil, err
	}
	if p.geometry != nil {
		if err := b.Add(BufferGeometry, p.geometry); err != nil {
			return nil, err
		}
	}
	if err := b.AddBytes(BufferNodes, EncodeNodes(p.nodes)); err != nil {
		return nil, err
	}
	return b, nil
}

// Read parses a document from ra[0:size]. Only the requested buffers are
// fetched.
func Read(ra io.ReaderAt, size int64, opts ...Option) (*Document, error) {
	o := applyOptions(opts)
	r, err := bfast.NewReader(ra, size)
	if err != nil {
		return nil, err
	}
	l := newLoader(o)
	for _, e := range r.Entries() {
		if err := l.buffer(e.Name, int64(e.Length), r.EntrySection(e)); err != nil {
			return nil, err
		}
	}
	return l.finish()
}

// ReadFrom parses a document from a sequential stream. Skipped buffers are
// discarded without being buffered.
func ReadFrom(r io.Reader, opts ...Option) (*Document, error) {
	o := applyOptions(opts)
	l := newLoader(o)
	if err := bfast.ReadStream(r, l.buffer); err != nil {
		return nil, err
	}
	return l.finish()
}

// ReadBytes parses an in-memory document.
func ReadBytes(data []byte, opts ...Option) (*Document, error) {
	return Read(bytes.NewReader(data), int64(len(data)), opts...)
}

type loader struct {
	opts   options
	header *Header
	strs   *strtable.Table
	tables []*SerializableTable
	doc    *Document
}

func newLoader(o options) *loader {
	return &loader{
		opts: o,
		doc:  &Document{assets: make(map[string]int)},
	}
}

func (l *loader) debug(msg string, args ...any) {
	if l.opts.logger != nil {
		l.opts.logger.Debug(msg, args...)
	}
}

// maxPrealloc caps the allocation made up front for a declared length.
// Larger bodies grow as their bytes arrive.
const maxPrealloc = 64 << 20

func readAll(name string, size int64, body io.Reader) ([]byte, error) {
	buf := make([]byte, 0, min(size, maxPrealloc))
	for int64(len(buf)) < size {
		if len(buf) == cap(buf) {
			buf = slices.Grow(buf, int(min(size-int64(len(buf)), int64(len(buf)))))
		}
		end := min(int64(cap(buf)), size)
		n, err := io.ReadFull(body, buf[len(buf):end])
		buf = buf[:len(buf)+n]
		if err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("buffer %q: %w: read %d of %d bytes", name, bfast.ErrTruncatedStream, len(buf), size)
			}
			return nil, fmt.Errorf("buffer %q: %w", name, err)
		}
	}
	return buf, nil
}

func (l *loader) skip(name string, size int64) {
	l.debug("skipping buffer", "buffer", name, "size", size)
	l.doc.skipped = append(l.doc.skipped, name)
}

func (l *loader) buffer(name string, size int64, body io.Reader) error {
	l.debug("reading buffer", "buffer", name, "size", size)

	switch name {
	case BufferHeader:
		data, err := readAll(name, size, body)
		if err != nil {
			return err
		}
		h, err := ParseHeader(string(data))
		if err != nil {
			return err
		}
		l.header = &h
		l.doc.headerText = string(data)

	case BufferAssets:
		if l.opts.load.SkipAssets {
			l.skip(name, size)
			return nil
		}
		return bfast.ReadStreamSize(body, size, func(asset string, n int64, r io.Reader) error {
			data, err := readAll(asset, n, r)
			if err != nil {
				return err
			}
			if _, dup := l.doc.assets[asset]; !dup {
				l.doc.assets[asset] = len(l.doc.assetOrder)
				l.doc.assetOrder = append(l.doc.assetOrder, Asset{Name: asset, Data: data})
			}
			return nil
		})

	case BufferEntities:
		return bfast.ReadStreamSize(body, size, l.table)

	case BufferStrings:
		data, err := readAll(name, size, body)
		if err != nil {
			return err
		}
		l.strs = strtable.Unpack(data)

	case BufferGeometry:
		if l.opts.load.SkipGeometry {
			l.skip(name, size)
			return nil
		}
		data, err := readAll(name, size, body)
		if err != nil {
			return err
		}
		l.doc.geometryRaw = data

	case BufferNodes:
		data, err := readAll(name, size, body)
		if err != nil {
			return err
		}
		nodes, err := DecodeNodes(data)
		if err != nil {
			return err
		}
		l.doc.nodes = nodes

	default:
		l.debug("skipping unrecognized buffer", "buffer", name, "size", size)
	}
	return nil
}

func (l *loader) table(entry string, size int64, body io.Reader) error {
	t := &SerializableTable{Name: SimplifiedName(entry)}
	err := bfast.ReadStreamSize(body, size, func(name string, size int64, r io.Reader) error {
		data, err := readAll(name, size, r)
		if err != nil {
			return err
		}
		if name == column.PropertiesName {
			props, err := decodeProperties(data)
			if err != nil {
				return err
			}
			t.Properties = props
			return nil
		}
		key, ok := column.ParseEntryName(name)
		if !ok {
			l.debug("skipping unrecognized table buffer", "table", t.Name, "buffer", name)
			return nil
		}
		c, err := column.Decode(key, data)
		if err != nil {
			return err
		}
		t.Columns = append(t.Columns, c)
		return nil
	})
	if err != nil {
		return &TableError{Table: t.Name, Err: err}
	}
	l.tables = append(l.tables, t)
	return nil
}

func (l *loader) finish() (*Document, error) {
	d := l.doc
	if l.header != nil {
		d.header = *l.header
	} else {
		d.header = CurrentHeader()
		l.debug("missing header buffer, assuming current", "header", d.header.String())
	}
	if l.strs != nil {
		d.strings = l.strs
	} else {
		d.strings = strtable.New([]string{""})
	}

	d.tables = make(map[string]*EntityTable, len(l.tables))
	for _, st := range l.tables {
		t, err := newEntityTable(d, st)
		if err != nil {
			return nil, err
		}
		key := t.Key()
		if _, dup := d.tables[key]; dup {
			return nil, &TableError{Table: st.Name, Err: ErrDuplicateTable}
		}
		d.tables[key] = t
		d.tableOrder = append(d.tableOrder, t)
	}
	return d, nil
}
