package schema

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/vimgo/codec"
	"github.com/hupe1980/vimgo/document"
)

// Digest is a BLAKE3-256 digest.
type Digest [32]byte

// String returns the hex encoding of d.
func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// MarshalText implements encoding.TextMarshaler.
func (d Digest) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDigest parses a hex-encoded digest.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	b, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("schema: parse digest: %w", err)
	}
	if len(b) != len(d) {
		return d, fmt.Errorf("schema: digest is %d bytes, want %d", len(b), len(d))
	}
	copy(d[:], b)
	return d, nil
}

// SchemaDigest hashes the deterministic CBOR encoding of s. Equal schemas,
// including the version, have equal digests.
func SchemaDigest(s VimSchema) (Digest, error) {
	data, err := codec.CBOR{}.Marshal(s)
	if err != nil {
		return Digest{}, fmt.Errorf("schema: encode: %w", err)
	}
	return blake3.Sum256(data), nil
}

// AssetDigest is the digest of one document asset.
type AssetDigest struct {
	Name   string `json:"name" yaml:"name"`
	Size   int    `json:"size" yaml:"size"`
	Digest Digest `json:"digest" yaml:"digest"`
}

// AssetDigests hashes every asset of doc, at most concurrency at a time.
// The result keeps document asset order.
func AssetDigests(ctx context.Context, doc *document.Document, concurrency int) ([]AssetDigest, error) {
	assets := doc.Assets()
	out := make([]AssetDigest, len(assets))
	if concurrency < 1 {
		concurrency = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, a := range assets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = AssetDigest{Name: a.Name, Size: len(a.Data), Digest: blake3.Sum256(a.Data)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
