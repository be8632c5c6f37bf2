// Package compress implements the byte-slice-in/byte-slice-out compression
// step used by the block codec: a Blob's raw payload is compressed
// independently of the OSM semantics layered on top of it.
package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Kind names which compressed representation a Blob carries.
type Kind int

const (
	Raw Kind = iota
	Zlib
	Lzma
)

// Decompress returns the rawSize uncompressed bytes for data encoded as
// kind. Lzma is recognized (it appears on the wire in some real extracts)
// but not supported: no LZMA library is wired into this module, so it is
// rejected rather than faked.
func Decompress(kind Kind, data []byte, rawSize int) ([]byte, error) {
	switch kind {
	case Raw:
		return data, nil
	case Zlib:
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("compress: open zlib stream: %w", err)
		}
		defer zr.Close()
		buf := make([]byte, rawSize)
		if _, err := io.ReadFull(zr, buf); err != nil {
			return nil, fmt.Errorf("compress: read zlib stream: %w", err)
		}
		return buf, nil
	case Lzma:
		return nil, fmt.Errorf("compress: lzma blobs are not supported")
	default:
		return nil, fmt.Errorf("compress: unknown compression kind %d", kind)
	}
}

// Compress zlib-compresses data at the given level (pass DefaultLevel for
// the library default).
func Compress(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("compress: open zlib writer: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return nil, fmt.Errorf("compress: write zlib stream: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress: close zlib stream: %w", err)
	}
	return buf.Bytes(), nil
}

// DefaultLevel re-exports the zlib default compression level so callers
// don't need to import klauspost/compress/zlib directly.
const DefaultLevel = zlib.DefaultCompression
