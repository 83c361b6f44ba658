package archive

import (
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
	lz4WriterPool   sync.Pool
	lz4ReaderPool   sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	_ = dec.Reset(nil)
	zstdDecoderPool.Put(dec)
}

func getLZ4Writer(w io.Writer) *lz4.Writer {
	if v := lz4WriterPool.Get(); v != nil {
		zw := v.(*lz4.Writer)
		zw.Reset(w)
		return zw
	}
	return lz4.NewWriter(w)
}

func putLZ4Writer(zw *lz4.Writer) {
	zw.Reset(nil)
	lz4WriterPool.Put(zw)
}

func getLZ4Reader(r io.Reader) *lz4.Reader {
	if v := lz4ReaderPool.Get(); v != nil {
		zr := v.(*lz4.Reader)
		zr.Reset(r)
		return zr
	}
	return lz4.NewReader(r)
}

func putLZ4Reader(zr *lz4.Reader) {
	zr.Reset(nil)
	lz4ReaderPool.Put(zr)
}

func writeZstd(w io.Writer, raw []byte) error {
	enc := getZstdEncoder()
	defer putZstdEncoder(enc)

	enc.Reset(w)
	if _, err := enc.Write(raw); err != nil {
		return err
	}
	return enc.Close()
}

func writeLZ4(w io.Writer, raw []byte) error {
	zw := getLZ4Writer(w)
	defer putLZ4Writer(zw)

	if _, err := zw.Write(raw); err != nil {
		return err
	}
	return zw.Close()
}
