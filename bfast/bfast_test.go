package bfast

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildContainer(t *testing.T, entries map[string][]byte, order []string) []byte {
	t.Helper()
	b := NewBuilder()
	for _, name := range order {
		require.NoError(t, b.AddBytes(name, entries[name]))
	}
	data, err := b.Bytes()
	require.NoError(t, err)
	require.Equal(t, b.Size(), int64(len(data)))
	return data
}

func TestBuilder_RoundTrip(t *testing.T) {
	entries := map[string][]byte{
		"header": []byte("vim:0.9:objectmodel:3.5.0"),
		"empty":  {},
		"odd":    {1, 2, 3},
		"eight":  {1, 2, 3, 4, 5, 6, 7, 8},
	}
	order := []string{"header", "empty", "odd", "eight"}
	data := buildContainer(t, entries, order)

	r, err := NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Equal(t, len(order), r.Len())

	assert.Zero(t, r.Header().DataStart%Alignment)
	for i, e := range r.Entries() {
		assert.Equal(t, order[i], e.Name)
		assert.Zero(t, e.Offset%Alignment, "entry %q offset must be aligned", e.Name)
		assert.Equal(t, uint64(len(entries[e.Name])), e.Length, "padding must not be exposed")

		got, err := r.Bytes(e.Name)
		require.NoError(t, err)
		assert.Equal(t, entries[e.Name], got)
	}
	assert.Equal(t, int64(len(data)), r.Header().Size())
}

func TestBuilder_Nested(t *testing.T) {
	columns := NewBuilder()
	require.NoError(t, columns.AddBytes("numeric:Elevation", make([]byte, 16)))
	require.NoError(t, columns.AddBytes("properties", nil))

	tables := NewBuilder()
	require.NoError(t, tables.Add("table:Rvt.Level", columns))

	root := NewBuilder()
	require.NoError(t, root.AddBytes("header", []byte("vim")))
	require.NoError(t, root.Add("entities", tables))

	data, err := root.Bytes()
	require.NoError(t, err)

	r, err := NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	entities, err := r.Sub("entities")
	require.NoError(t, err)
	level, err := entities.Sub("table:Rvt.Level")
	require.NoError(t, err)

	e, ok := level.Lookup("numeric:Elevation")
	require.True(t, ok)
	assert.Equal(t, uint64(16), e.Length)

	props, err := level.Bytes("properties")
	require.NoError(t, err)
	assert.Empty(t, props)
}

func TestBuilder_DuplicateName(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddBytes("a", nil))
	err := b.AddBytes("a", nil)
	assert.ErrorIs(t, err, ErrDuplicateEntry)
}

func TestBuilder_SizeMismatch(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddFunc("short", 8, func(w io.Writer) error {
		_, err := w.Write([]byte{1, 2, 3})
		return err
	}))

	_, err := b.WriteTo(io.Discard)
	require.ErrorIs(t, err, ErrSizeMismatch)

	var ce *ContainerError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "short", ce.Name)
}

func TestBuilder_AddFunc(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddFunc("ints", 12, func(w io.Writer) error {
		return binary.Write(w, binary.LittleEndian, []int32{1, -1, 7})
	}))
	data, err := b.Bytes()
	require.NoError(t, err)

	r, err := NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	raw, err := r.Bytes("ints")
	require.NoError(t, err)
	assert.Equal(t, int32(-1), int32(binary.LittleEndian.Uint32(raw[4:])))
}

func TestReader_Errors(t *testing.T) {
	data := buildContainer(t, map[string][]byte{"a": make([]byte, 20)}, []string{"a"})

	t.Run("truncated body", func(t *testing.T) {
		short := data[:len(data)-16]
		_, err := NewReader(bytes.NewReader(short), int64(len(short)))
		assert.ErrorIs(t, err, ErrTruncatedStream)
	})

	t.Run("truncated header", func(t *testing.T) {
		_, err := NewReader(bytes.NewReader(data[:6]), 6)
		assert.ErrorIs(t, err, ErrTruncatedStream)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := NewReader(bytes.NewReader(nil), 0)
		assert.ErrorIs(t, err, ErrTruncatedStream)
	})

	t.Run("unaligned offset", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		// count(4) + nameLen(4) + "a"(1) -> offset field
		binary.LittleEndian.PutUint64(bad[9:], 3)
		_, err := NewReader(bytes.NewReader(bad), int64(len(bad)))
		assert.ErrorIs(t, err, ErrMalformedContainer)
	})

	t.Run("overlapping offsets", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.AddBytes("a", make([]byte, 16)))
		require.NoError(t, b.AddBytes("b", make([]byte, 8)))
		two, err := b.Bytes()
		require.NoError(t, err)
		// second entry offset: 4 + (4+1+16) + (4+1) = 30
		binary.LittleEndian.PutUint64(two[30:], 8)
		_, err = NewReader(bytes.NewReader(two), int64(len(two)))
		assert.ErrorIs(t, err, ErrMalformedContainer)
	})

	t.Run("absurd entry count", func(t *testing.T) {
		bad := make([]byte, 8)
		binary.LittleEndian.PutUint32(bad, MaxEntries+1)
		_, err := NewReader(bytes.NewReader(bad), int64(len(bad)))
		assert.ErrorIs(t, err, ErrMalformedContainer)
	})

	t.Run("entry count beyond size", func(t *testing.T) {
		bad := make([]byte, 8)
		binary.LittleEndian.PutUint32(bad, 2)
		_, err := NewReader(bytes.NewReader(bad), int64(len(bad)))
		assert.ErrorIs(t, err, ErrTruncatedStream)
	})

	t.Run("absurd name length", func(t *testing.T) {
		bad := make([]byte, 16)
		binary.LittleEndian.PutUint32(bad, 1)
		binary.LittleEndian.PutUint32(bad[4:], MaxNameLength+1)
		_, err := NewReader(bytes.NewReader(bad), int64(len(bad)))
		assert.ErrorIs(t, err, ErrMalformedContainer)
	})

	t.Run("missing entry", func(t *testing.T) {
		r, err := NewReader(bytes.NewReader(data), int64(len(data)))
		require.NoError(t, err)
		_, err = r.Section("nope")
		assert.ErrorIs(t, err, ErrEntryNotFound)
		_, err = r.Sub("nope")
		assert.ErrorIs(t, err, ErrEntryNotFound)
	})
}

func TestReadStream(t *testing.T) {
	entries := map[string][]byte{
		"header":           []byte("vim:0.9:objectmodel:3.5.0"),
		"future_extension": bytes.Repeat([]byte{0xAB}, 13),
		"nodes":            make([]byte, 76),
	}
	order := []string{"header", "future_extension", "nodes"}
	data := buildContainer(t, entries, order)

	t.Run("reads every body", func(t *testing.T) {
		var names []string
		err := ReadStream(bytes.NewReader(data), func(name string, size int64, body io.Reader) error {
			names = append(names, name)
			got, err := io.ReadAll(body)
			require.NoError(t, err)
			assert.Equal(t, entries[name], got)
			assert.Equal(t, int64(len(got)), size)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, order, names)
	})

	t.Run("unread bodies are skipped", func(t *testing.T) {
		var nodes []byte
		err := ReadStream(bytes.NewReader(data), func(name string, _ int64, body io.Reader) error {
			if name == "nodes" {
				var err error
				nodes, err = io.ReadAll(body)
				return err
			}
			return nil
		})
		require.NoError(t, err)
		assert.Len(t, nodes, 76)
	})

	t.Run("callback error propagates", func(t *testing.T) {
		stop := errors.New("stop")
		err := ReadStream(bytes.NewReader(data), func(string, int64, io.Reader) error { return stop })
		assert.ErrorIs(t, err, stop)
	})

	t.Run("truncated", func(t *testing.T) {
		err := ReadStream(bytes.NewReader(data[:len(data)-40]), func(string, int64, io.Reader) error { return nil })
		assert.ErrorIs(t, err, ErrTruncatedStream)
	})

	t.Run("nested", func(t *testing.T) {
		inner := NewBuilder()
		require.NoError(t, inner.AddBytes("x", []byte{9}))
		outer := NewBuilder()
		require.NoError(t, outer.Add("inner", inner))
		raw, err := outer.Bytes()
		require.NoError(t, err)

		var got []byte
		err = ReadStream(bytes.NewReader(raw), func(_ string, _ int64, body io.Reader) error {
			return ReadStream(body, func(_ string, _ int64, b io.Reader) error {
				got, err = io.ReadAll(b)
				return err
			})
		})
		require.NoError(t, err)
		assert.Equal(t, []byte{9}, got)
	})
}

func TestReadHeader_BoundedAllocation(t *testing.T) {
	data := binary.LittleEndian.AppendUint32(nil, MaxEntries)

	allocated := func(fn func()) uint64 {
		var before, after runtime.MemStats
		runtime.GC()
		runtime.ReadMemStats(&before)
		fn()
		runtime.ReadMemStats(&after)
		return after.TotalAlloc - before.TotalAlloc
	}

	n := allocated(func() {
		_, err := ReadHeader(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrTruncatedStream)
	})
	assert.Less(t, n, uint64(1<<20))

	n = allocated(func() {
		_, err := NewReader(bytes.NewReader(data), int64(len(data)))
		assert.ErrorIs(t, err, ErrTruncatedStream)
	})
	assert.Less(t, n, uint64(1<<20))
}

func TestReadStreamSize(t *testing.T) {
	inner := NewBuilder()
	require.NoError(t, inner.AddBytes("x", []byte{1, 2, 3}))
	raw, err := inner.Bytes()
	require.NoError(t, err)

	t.Run("within size", func(t *testing.T) {
		var got []byte
		err := ReadStreamSize(bytes.NewReader(raw), int64(len(raw)), func(_ string, _ int64, body io.Reader) error {
			got, err = io.ReadAll(body)
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, got)
	})

	t.Run("does not read past size", func(t *testing.T) {
		trailing := append(append([]byte(nil), raw...), 0xFF, 0xFF)
		r := bytes.NewReader(trailing)
		err := ReadStreamSize(r, int64(len(raw)), func(string, int64, io.Reader) error { return nil })
		require.NoError(t, err)
		assert.GreaterOrEqual(t, r.Len(), 2)
	})

	t.Run("entry ends past size", func(t *testing.T) {
		lying := append([]byte(nil), raw...)
		// count(4) + nameLen(4) + "x"(1) + offset(8) -> length field
		binary.LittleEndian.PutUint64(lying[17:], 1<<62)
		called := false
		err := ReadStreamSize(bytes.NewReader(lying), int64(len(lying)), func(string, int64, io.Reader) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, ErrTruncatedStream)
		assert.False(t, called)

		var ce *ContainerError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "x", ce.Name)
	})

	t.Run("entry count beyond size", func(t *testing.T) {
		bad := binary.LittleEndian.AppendUint32(nil, MaxEntries)
		err := ReadStreamSize(bytes.NewReader(bad), int64(len(bad)), func(string, int64, io.Reader) error { return nil })
		assert.ErrorIs(t, err, ErrTruncatedStream)
	})

	t.Run("oversized body in unsized stream", func(t *testing.T) {
		lying := append([]byte(nil), raw...)
		binary.LittleEndian.PutUint64(lying[17:], 1<<62)
		err := ReadStream(bytes.NewReader(lying), func(_ string, _ int64, body io.Reader) error {
			_, err := io.Copy(io.Discard, body)
			return err
		})
		assert.ErrorIs(t, err, ErrTruncatedStream)
	})
}

func TestAlign(t *testing.T) {
	for in, want := range map[uint64]uint64{0: 0, 1: 8, 7: 8, 8: 8, 9: 16} {
		assert.Equal(t, want, Align(in))
	}
}
