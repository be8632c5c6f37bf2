// Package wireformat holds the generated-style message types for the two
// .proto schemas that make up an .osm.pbf file: fileformat.proto (blob
// framing) and osmformat.proto (OSM primitives). Field numbers and wire
// types mirror the upstream OSM-binary schema so that output is
// bit-compatible with real .osm.pbf readers.
//
// These types are hand-written in the shape protoc-gen-go would produce
// for proto2 optional/required fields (pointer scalars, plain slices for
// repeated fields); (Un)marshaling is delegated to the golang/protobuf
// runtime via struct tags rather than hand-rolled wire code.
package wireformat

import (
	"github.com/golang/protobuf/proto"
)

// Blob is the payload envelope: either raw bytes or one compressed
// representation of raw_size uncompressed bytes.
type Blob struct {
	Raw             []byte `protobuf:"bytes,1,opt,name=raw" json:"raw,omitempty"`
	RawSize         *int32 `protobuf:"varint,2,opt,name=raw_size,json=rawSize" json:"raw_size,omitempty"`
	ZlibData        []byte `protobuf:"bytes,3,opt,name=zlib_data,json=zlibData" json:"zlib_data,omitempty"`
	LzmaData        []byte `protobuf:"bytes,4,opt,name=lzma_data,json=lzmaData" json:"lzma_data,omitempty"`
	ObsoleteBzip2   []byte `protobuf:"bytes,5,opt,name=OBSOLETE_bzip2_data,json=OBSOLETEBzip2Data" json:"OBSOLETE_bzip2_data,omitempty"`
}

func (m *Blob) Reset()         { *m = Blob{} }
func (m *Blob) String() string { return proto.CompactTextString(m) }
func (m *Blob) ProtoMessage()  {}

func (m *Blob) GetRaw() []byte {
	if m != nil {
		return m.Raw
	}
	return nil
}

func (m *Blob) GetRawSize() int32 {
	if m != nil && m.RawSize != nil {
		return *m.RawSize
	}
	return 0
}

func (m *Blob) GetZlibData() []byte {
	if m != nil {
		return m.ZlibData
	}
	return nil
}

func (m *Blob) GetLzmaData() []byte {
	if m != nil {
		return m.LzmaData
	}
	return nil
}

// BlobHeader precedes every Blob on the wire and names its type
// ("OSMHeader" or "OSMData") and encoded size.
type BlobHeader struct {
	Type      *string `protobuf:"bytes,1,req,name=type" json:"type,omitempty"`
	Indexdata []byte  `protobuf:"bytes,2,opt,name=indexdata" json:"indexdata,omitempty"`
	Datasize  *int32  `protobuf:"varint,3,req,name=datasize" json:"datasize,omitempty"`
}

func (m *BlobHeader) Reset()         { *m = BlobHeader{} }
func (m *BlobHeader) String() string { return proto.CompactTextString(m) }
func (m *BlobHeader) ProtoMessage()  {}

func (m *BlobHeader) GetType() string {
	if m != nil && m.Type != nil {
		return *m.Type
	}
	return ""
}

func (m *BlobHeader) GetDatasize() int32 {
	if m != nil && m.Datasize != nil {
		return *m.Datasize
	}
	return 0
}
