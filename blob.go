package osmpbf

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/golang/protobuf/proto"

	"github.com/MAPSWorks/osmpbf/internal/compress"
	"github.com/MAPSWorks/osmpbf/internal/wireformat"
)

// Wire-format limits from the upstream .osm.pbf specification.
const (
	maxBlobHeaderSize = 64 * 1024
	maxBlobSize       = 32 * 1024 * 1024
)

// BlobKind names the type field of a BlobHeader.
type BlobKind string

const (
	BlobHeaderKind BlobKind = "OSMHeader"
	BlobDataKind   BlobKind = "OSMData"
)

// readBlob reads one length-prefixed BlobHeader+Blob pair from r and
// returns its kind and decompressed payload. It is component A's read
// side: framing and decompression, nothing OSM-specific.
func readBlob(r io.Reader) (BlobKind, []byte, error) {
	var sizeBuf [4]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		if err == io.EOF {
			return "", nil, io.EOF
		}
		return "", nil, newFormatError("read blob header size", err)
	}
	headerSize := binary.BigEndian.Uint32(sizeBuf[:])
	if headerSize == 0 || headerSize >= maxBlobHeaderSize {
		return "", nil, newFormatError("read blob header size", fmt.Errorf("size %d out of range", headerSize))
	}

	headerBuf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBuf); err != nil {
		return "", nil, newFormatError("read blob header", err)
	}
	header := &wireformat.BlobHeader{}
	if err := proto.Unmarshal(headerBuf, header); err != nil {
		return "", nil, newFormatError("unmarshal blob header", err)
	}

	dataSize := header.GetDatasize()
	if dataSize < 0 || dataSize >= maxBlobSize {
		return "", nil, newFormatError("read blob", fmt.Errorf("blob size %d out of range", dataSize))
	}

	dataBuf := make([]byte, dataSize)
	if _, err := io.ReadFull(r, dataBuf); err != nil {
		return "", nil, newFormatError("read blob data", err)
	}
	blob := &wireformat.Blob{}
	if err := proto.Unmarshal(dataBuf, blob); err != nil {
		return "", nil, newFormatError("unmarshal blob", err)
	}

	payload, err := decodeBlobPayload(blob)
	if err != nil {
		return "", nil, err
	}

	return BlobKind(header.GetType()), payload, nil
}

func decodeBlobPayload(blob *wireformat.Blob) ([]byte, error) {
	switch {
	case blob.Raw != nil:
		return blob.GetRaw(), nil
	case blob.ZlibData != nil:
		data, err := compress.Decompress(compress.Zlib, blob.GetZlibData(), int(blob.GetRawSize()))
		if err != nil {
			return nil, newFormatError("decompress blob", err)
		}
		return data, nil
	case blob.LzmaData != nil:
		return nil, newFormatError("decompress blob", fmt.Errorf("lzma blobs are not supported"))
	default:
		return nil, newFormatError("decompress blob", fmt.Errorf("blob has no payload"))
	}
}

// writeBlob frames payload as kind and writes it to w, optionally
// zlib-compressing it first. It is component A's write side.
func writeBlob(w io.Writer, kind BlobKind, payload []byte, useZlib bool) error {
	blob := &wireformat.Blob{}
	if useZlib {
		compressed, err := compress.Compress(payload, compress.DefaultLevel)
		if err != nil {
			return fmt.Errorf("osmpbf: compress blob: %w", err)
		}
		rawSize := int32(len(payload))
		blob.ZlibData = compressed
		blob.RawSize = &rawSize
	} else {
		blob.Raw = payload
	}

	blobBytes, err := proto.Marshal(blob)
	if err != nil {
		return fmt.Errorf("osmpbf: marshal blob: %w", err)
	}

	typ := string(kind)
	dataSize := int32(len(blobBytes))
	header := &wireformat.BlobHeader{Type: &typ, Datasize: &dataSize}
	headerBytes, err := proto.Marshal(header)
	if err != nil {
		return fmt.Errorf("osmpbf: marshal blob header: %w", err)
	}
	if len(headerBytes) >= maxBlobHeaderSize {
		return fmt.Errorf("osmpbf: blob header size %d exceeds limit", len(headerBytes))
	}

	var sizeBuf [4]byte
	binary.BigEndian.PutUint32(sizeBuf[:], uint32(len(headerBytes)))
	if _, err := w.Write(sizeBuf[:]); err != nil {
		return err
	}
	if _, err := w.Write(headerBytes); err != nil {
		return err
	}
	if _, err := w.Write(blobBytes); err != nil {
		return err
	}
	return nil
}
