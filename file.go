package osmpbf

import (
	"fmt"
	"io"
	"os"

	"github.com/golang/protobuf/proto"

	"github.com/MAPSWorks/osmpbf/internal/wireformat"
)

// knownFeatures are the optional/required features this library can parse.
// Any required feature outside this set makes the file unreadable.
var knownFeatures = map[string]bool{
	"OsmSchema-V0.6": true,
	"DenseNodes":     true,
}

// HeaderInfo is the parsed content of the leading OSMHeader blob.
type HeaderInfo struct {
	RequiredFeatures []string
	OptionalFeatures []string
	WritingProgram   string
	Source           string
	HasBBox          bool
	MinLat, MinLon   float64
	MaxLat, MaxLon   float64
}

// OSMFileIn sequences the header blob and subsequent data blobs of an
// .osm.pbf stream. It presents data blocks as a finite
// lazy sequence via ParseNextBlock/GetNextBlocks.
type OSMFileIn struct {
	r      io.Reader
	closer io.Closer
	Header HeaderInfo
	err    error
}

// OpenOSMFile opens path and reads its leading header blob.
func OpenOSMFile(path string) (*OSMFileIn, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	in, err := NewOSMFileIn(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	in.closer = f
	return in, nil
}

// NewOSMFileIn wraps an already-open reader, reading and validating its
// header blob immediately.
func NewOSMFileIn(r io.Reader) (*OSMFileIn, error) {
	in := &OSMFileIn{r: r}
	if err := in.readHeader(); err != nil {
		return nil, err
	}
	return in, nil
}

func (in *OSMFileIn) readHeader() error {
	kind, payload, err := readBlob(in.r)
	if err != nil {
		return err
	}
	if kind != BlobHeaderKind {
		return newFormatError("read header", fmt.Errorf("expected %s blob, got %s", BlobHeaderKind, kind))
	}

	hb := &wireformat.HeaderBlock{}
	if err := proto.Unmarshal(payload, hb); err != nil {
		return newFormatError("unmarshal header block", err)
	}

	for _, feature := range hb.GetRequiredFeatures() {
		if !knownFeatures[feature] {
			return newFormatError("read header", fmt.Errorf("unsupported required feature %q", feature))
		}
	}

	in.Header = HeaderInfo{
		RequiredFeatures: hb.RequiredFeatures,
		OptionalFeatures: hb.OptionalFeatures,
		WritingProgram:   stringOrEmpty(hb.Writingprogram),
		Source:           stringOrEmpty(hb.Source),
	}
	if hb.Bbox != nil {
		in.Header.HasBBox = true
		in.Header.MinLon = float64(ptrOrZero(hb.Bbox.Left)) * 1e-9
		in.Header.MaxLon = float64(ptrOrZero(hb.Bbox.Right)) * 1e-9
		in.Header.MaxLat = float64(ptrOrZero(hb.Bbox.Top)) * 1e-9
		in.Header.MinLat = float64(ptrOrZero(hb.Bbox.Bottom)) * 1e-9
	}
	return nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptrOrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

// ParseNextBlock consumes exactly one data block and decodes it. It
// returns io.EOF once the stream is exhausted.
func (in *OSMFileIn) ParseNextBlock() (*PrimitiveBlockDecoder, error) {
	if in.err != nil {
		return nil, in.err
	}
	kind, payload, err := readBlob(in.r)
	if err != nil {
		if err == io.EOF {
			in.err = io.EOF
		}
		return nil, err
	}
	if kind != BlobDataKind {
		return nil, newFormatError("read block", fmt.Errorf("unexpected blob kind %s", kind))
	}

	pb := &wireformat.PrimitiveBlock{}
	if err := proto.Unmarshal(payload, pb); err != nil {
		return newNullDecoder(), nil //nolint:nilerr // malformed block -> isNull() decoder, not an error
	}
	return newPrimitiveBlockDecoder(pb), nil
}

// GetNextBlocks consumes up to n data blocks, returning the ones obtained
// and true if at least one was read. This is the read-ahead primitive the
// parallel pipeline (component G) uses to batch work under one lock
// acquisition.
func (in *OSMFileIn) GetNextBlocks(n int) ([]*PrimitiveBlockDecoder, bool, error) {
	blocks := make([]*PrimitiveBlockDecoder, 0, n)
	for i := 0; i < n; i++ {
		dec, err := in.ParseNextBlock()
		if err == io.EOF {
			break
		}
		if err != nil {
			return blocks, len(blocks) > 0, err
		}
		blocks = append(blocks, dec)
	}
	return blocks, len(blocks) > 0, nil
}

// Close releases the underlying file, if OpenOSMFile opened one.
func (in *OSMFileIn) Close() error {
	if in.closer != nil {
		return in.closer.Close()
	}
	return nil
}

// OSMFileOut writes the header blob once, then a stream of already-flushed
// data-block bytes framed by component A.
type OSMFileOut struct {
	w          io.Writer
	closer     io.Closer
	useZlib    bool
	wroteHdr   bool
}

// OSMFileOutOption configures an OSMFileOut.
type OSMFileOutOption func(*OSMFileOut)

// WithZlibCompression toggles zlib compression for every blob this writer
// emits (both the header and data blocks). Enabled by default.
func WithZlibCompression(enabled bool) OSMFileOutOption {
	return func(o *OSMFileOut) { o.useZlib = enabled }
}

// CreateOSMFile creates (truncating) path and returns a writer for it.
func CreateOSMFile(path string, header HeaderInfo, opts ...OSMFileOutOption) (*OSMFileOut, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	out, err := NewOSMFileOut(f, header, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	out.closer = f
	return out, nil
}

// NewOSMFileOut wraps an already-open writer and immediately writes the
// header blob.
func NewOSMFileOut(w io.Writer, header HeaderInfo, opts ...OSMFileOutOption) (*OSMFileOut, error) {
	out := &OSMFileOut{w: w, useZlib: true}
	for _, opt := range opts {
		opt(out)
	}
	if err := out.writeHeader(header); err != nil {
		return nil, err
	}
	return out, nil
}

func (out *OSMFileOut) writeHeader(header HeaderInfo) error {
	hb := &wireformat.HeaderBlock{
		RequiredFeatures: header.RequiredFeatures,
		OptionalFeatures: header.OptionalFeatures,
	}
	if len(hb.RequiredFeatures) == 0 {
		hb.RequiredFeatures = []string{"OsmSchema-V0.6", "DenseNodes"}
	}
	if header.WritingProgram != "" {
		hb.Writingprogram = &header.WritingProgram
	}
	if header.Source != "" {
		hb.Source = &header.Source
	}
	if header.HasBBox {
		left := int64(header.MinLon * 1e9)
		right := int64(header.MaxLon * 1e9)
		top := int64(header.MaxLat * 1e9)
		bottom := int64(header.MinLat * 1e9)
		hb.Bbox = &wireformat.HeaderBBox{Left: &left, Right: &right, Top: &top, Bottom: &bottom}
	}

	payload, err := proto.Marshal(hb)
	if err != nil {
		return fmt.Errorf("osmpbf: marshal header block: %w", err)
	}
	if err := writeBlob(out.w, BlobHeaderKind, payload, out.useZlib); err != nil {
		return err
	}
	out.wroteHdr = true
	return nil
}

// WriteBlock frames and writes one already-flushed PrimitiveBlock payload
// (see PrimitiveBlockEncoder.Flush).
func (out *OSMFileOut) WriteBlock(payload []byte) error {
	if !out.wroteHdr {
		return fmt.Errorf("osmpbf: header blob was never written")
	}
	return writeBlob(out.w, BlobDataKind, payload, out.useZlib)
}

// Close releases the underlying file, if CreateOSMFile opened one.
func (out *OSMFileOut) Close() error {
	if out.closer != nil {
		return out.closer.Close()
	}
	return nil
}
