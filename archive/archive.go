package archive

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/zeebo/blake3"
)

// Magic starts every archive.
const Magic = "VIMZ"

// HeaderSize is the size of the envelope header.
const HeaderSize = 48

var (
	// ErrInvalidHeader is returned when the input does not start with an
	// archive header.
	ErrInvalidHeader = errors.New("archive: invalid header")
	// ErrUnknownAlgorithm is returned for an unsupported algorithm byte.
	ErrUnknownAlgorithm = errors.New("archive: unknown algorithm")
	// ErrChecksumMismatch is returned when the decompressed bytes do not
	// match the recorded digest.
	ErrChecksumMismatch = errors.New("archive: checksum mismatch")
	// ErrSizeMismatch is returned when the decompressed size differs from
	// the recorded size.
	ErrSizeMismatch = errors.New("archive: size mismatch")
)

// Algorithm selects the payload compression.
type Algorithm uint8

const (
	// None stores the payload uncompressed.
	None Algorithm = 0
	// Zstd compresses with zstd (better ratio).
	Zstd Algorithm = 1
	// LZ4 compresses with an lz4 frame (faster).
	LZ4 Algorithm = 2
)

func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("algorithm(%d)", uint8(a))
	}
}

// ParseAlgorithm parses "none", "zstd" or "lz4".
func ParseAlgorithm(s string) (Algorithm, error) {
	for _, a := range []Algorithm{None, Zstd, LZ4} {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

func (a Algorithm) valid() bool { return a <= LZ4 }

// Header is the decoded envelope header.
type Header struct {
	Algorithm Algorithm
	RawSize   uint64
	Digest    [32]byte
}

// MarshalBinary encodes the header.
func (h Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, HeaderSize)
	copy(b, Magic)
	b[4] = byte(h.Algorithm)
	binary.LittleEndian.PutUint64(b[8:], h.RawSize)
	copy(b[16:], h.Digest[:])
	return b, nil
}

// ReadHeader reads and validates an envelope header.
func ReadHeader(r io.Reader) (Header, error) {
	var b [HeaderSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	if string(b[:4]) != Magic {
		return Header{}, fmt.Errorf("%w: bad magic %q", ErrInvalidHeader, b[:4])
	}
	h := Header{
		Algorithm: Algorithm(b[4]),
		RawSize:   binary.LittleEndian.Uint64(b[8:]),
	}
	copy(h.Digest[:], b[16:])
	if h.RawSize >= math.MaxInt64 {
		return Header{}, fmt.Errorf("%w: raw size %d", ErrInvalidHeader, h.RawSize)
	}
	if !h.Algorithm.valid() {
		return Header{}, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, b[4])
	}
	return h, nil
}

// IsArchive reports whether prefix starts with the archive magic.
func IsArchive(prefix []byte) bool {
	return bytes.HasPrefix(prefix, []byte(Magic))
}

// Compress reads all of r and writes it to w as an archive.
func Compress(w io.Writer, r io.Reader, alg Algorithm) (Header, error) {
	if !alg.valid() {
		return Header{}, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, uint8(alg))
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return Header{}, fmt.Errorf("archive: read input: %w", err)
	}
	return CompressBytes(w, raw, alg)
}

// CompressBytes writes raw to w as an archive.
func CompressBytes(w io.Writer, raw []byte, alg Algorithm) (Header, error) {
	if !alg.valid() {
		return Header{}, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, uint8(alg))
	}
	h := Header{Algorithm: alg, RawSize: uint64(len(raw)), Digest: blake3.Sum256(raw)}
	hb, _ := h.MarshalBinary()
	if _, err := w.Write(hb); err != nil {
		return Header{}, fmt.Errorf("archive: write header: %w", err)
	}

	var err error
	switch alg {
	case Zstd:
		err = writeZstd(w, raw)
	case LZ4:
		err = writeLZ4(w, raw)
	default:
		_, err = w.Write(raw)
	}
	if err != nil {
		return Header{}, fmt.Errorf("archive: %s: %w", alg, err)
	}
	return h, nil
}

// maxPrealloc caps the buffer reserved from an untrusted raw size.
const maxPrealloc = 64 << 20

// Decompress reads an archive from r and returns the verified raw bytes.
func Decompress(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	buf.Grow(int(min(h.RawSize, maxPrealloc)))
	if err := decompressBody(&buf, r, h); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecompressTo streams the raw bytes of an archive to w. The digest is
// checked after the last byte is written; on mismatch w has already
// received the corrupt data.
func DecompressTo(w io.Writer, r io.Reader) (Header, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return Header{}, err
	}
	return h, decompressBody(w, r, h)
}

func decompressBody(w io.Writer, r io.Reader, h Header) error {
	body, release, err := payloadReader(r, h.Algorithm)
	if err != nil {
		return err
	}
	defer release()

	hasher := blake3.New()
	// One extra byte detects payloads longer than recorded.
	n, err := io.Copy(io.MultiWriter(w, hasher), io.LimitReader(body, int64(h.RawSize)+1))
	if err != nil {
		return fmt.Errorf("archive: %s: %w", h.Algorithm, err)
	}
	if uint64(n) != h.RawSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, n, h.RawSize)
	}

	var sum [32]byte
	copy(sum[:], hasher.Sum(nil))
	if sum != h.Digest {
		return ErrChecksumMismatch
	}
	return nil
}

func payloadReader(r io.Reader, alg Algorithm) (io.Reader, func(), error) {
	switch alg {
	case Zstd:
		dec := getZstdDecoder()
		if err := dec.Reset(r); err != nil {
			putZstdDecoder(dec)
			return nil, nil, fmt.Errorf("archive: zstd: %w", err)
		}
		return dec, func() { putZstdDecoder(dec) }, nil
	case LZ4:
		zr := getLZ4Reader(r)
		return zr, func() { putLZ4Reader(zr) }, nil
	default:
		return r, func() {}, nil
	}
}
