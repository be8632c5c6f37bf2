package wireformat

import (
	"github.com/golang/protobuf/proto"
)

// Relation_MemberType enumerates the kind of OSM entity a relation member
// references. Values match the wire enum in osmformat.proto exactly.
type Relation_MemberType int32

const (
	Relation_NODE     Relation_MemberType = 0
	Relation_WAY      Relation_MemberType = 1
	Relation_RELATION Relation_MemberType = 2
)

// HeaderBBox is the optional bounding box carried in the file's leading
// HeaderBlock, in nanodegrees.
type HeaderBBox struct {
	Left   *int64 `protobuf:"zigzag64,1,req,name=left" json:"left,omitempty"`
	Right  *int64 `protobuf:"zigzag64,2,req,name=right" json:"right,omitempty"`
	Top    *int64 `protobuf:"zigzag64,3,req,name=top" json:"top,omitempty"`
	Bottom *int64 `protobuf:"zigzag64,4,req,name=bottom" json:"bottom,omitempty"`
}

func (m *HeaderBBox) Reset()         { *m = HeaderBBox{} }
func (m *HeaderBBox) String() string { return proto.CompactTextString(m) }
func (m *HeaderBBox) ProtoMessage()  {}

// HeaderBlock is the first blob ("OSMHeader") of every .osm.pbf file.
type HeaderBlock struct {
	Bbox             *HeaderBBox `protobuf:"bytes,1,opt,name=bbox" json:"bbox,omitempty"`
	RequiredFeatures []string    `protobuf:"bytes,4,rep,name=required_features,json=requiredFeatures" json:"required_features,omitempty"`
	OptionalFeatures []string    `protobuf:"bytes,5,rep,name=optional_features,json=optionalFeatures" json:"optional_features,omitempty"`
	Writingprogram   *string     `protobuf:"bytes,16,opt,name=writingprogram" json:"writingprogram,omitempty"`
	Source           *string     `protobuf:"bytes,17,opt,name=source" json:"source,omitempty"`
}

func (m *HeaderBlock) Reset()         { *m = HeaderBlock{} }
func (m *HeaderBlock) String() string { return proto.CompactTextString(m) }
func (m *HeaderBlock) ProtoMessage()  {}

func (m *HeaderBlock) GetRequiredFeatures() []string {
	if m != nil {
		return m.RequiredFeatures
	}
	return nil
}

// StringTable is the per-block interning table; index 0 is reserved for
// the empty/absent string and is never stored on the wire.
type StringTable struct {
	S [][]byte `protobuf:"bytes,1,rep,name=s" json:"s,omitempty"`
}

func (m *StringTable) Reset()         { *m = StringTable{} }
func (m *StringTable) String() string { return proto.CompactTextString(m) }
func (m *StringTable) ProtoMessage()  {}

// Node is a plain (non-dense) node: absolute id/lat/lon and parallel
// key/value string-table index slices.
type Node struct {
	Id   *int64   `protobuf:"zigzag64,1,req,name=id" json:"id,omitempty"`
	Keys []uint32 `protobuf:"varint,2,rep,packed,name=keys" json:"keys,omitempty"`
	Vals []uint32 `protobuf:"varint,3,rep,packed,name=vals" json:"vals,omitempty"`
	Lat  *int64   `protobuf:"zigzag64,8,req,name=lat" json:"lat,omitempty"`
	Lon  *int64   `protobuf:"zigzag64,9,req,name=lon" json:"lon,omitempty"`
}

func (m *Node) Reset()         { *m = Node{} }
func (m *Node) String() string { return proto.CompactTextString(m) }
func (m *Node) ProtoMessage()  {}

func (m *Node) GetId() int64 {
	if m != nil && m.Id != nil {
		return *m.Id
	}
	return 0
}

func (m *Node) GetLat() int64 {
	if m != nil && m.Lat != nil {
		return *m.Lat
	}
	return 0
}

func (m *Node) GetLon() int64 {
	if m != nil && m.Lon != nil {
		return *m.Lon
	}
	return 0
}

// DenseNodes packs a whole group of nodes into three delta-coded parallel
// sequences plus a flat, sentinel-terminated tag stream.
type DenseNodes struct {
	Id       []int64 `protobuf:"zigzag64,1,rep,packed,name=id" json:"id,omitempty"`
	Lat      []int64 `protobuf:"zigzag64,8,rep,packed,name=lat" json:"lat,omitempty"`
	Lon      []int64 `protobuf:"zigzag64,9,rep,packed,name=lon" json:"lon,omitempty"`
	KeysVals []int32 `protobuf:"varint,10,rep,packed,name=keys_vals,json=keysVals" json:"keys_vals,omitempty"`
}

func (m *DenseNodes) Reset()         { *m = DenseNodes{} }
func (m *DenseNodes) String() string { return proto.CompactTextString(m) }
func (m *DenseNodes) ProtoMessage()  {}

// Way is an ordered polyline: delta-coded node-id refs plus tags.
type Way struct {
	Id   *int64   `protobuf:"varint,1,req,name=id" json:"id,omitempty"`
	Keys []uint32 `protobuf:"varint,2,rep,packed,name=keys" json:"keys,omitempty"`
	Vals []uint32 `protobuf:"varint,3,rep,packed,name=vals" json:"vals,omitempty"`
	Refs []int64  `protobuf:"zigzag64,8,rep,packed,name=refs" json:"refs,omitempty"`
}

func (m *Way) Reset()         { *m = Way{} }
func (m *Way) String() string { return proto.CompactTextString(m) }
func (m *Way) ProtoMessage()  {}

func (m *Way) GetId() int64 {
	if m != nil && m.Id != nil {
		return *m.Id
	}
	return 0
}

// Relation is a tagged collection of member references.
type Relation struct {
	Id       *int64                `protobuf:"varint,1,req,name=id" json:"id,omitempty"`
	Keys     []uint32              `protobuf:"varint,2,rep,packed,name=keys" json:"keys,omitempty"`
	Vals     []uint32              `protobuf:"varint,3,rep,packed,name=vals" json:"vals,omitempty"`
	RolesSid []int32               `protobuf:"varint,8,rep,packed,name=roles_sid,json=rolesSid" json:"roles_sid,omitempty"`
	Memids   []int64               `protobuf:"zigzag64,9,rep,packed,name=memids" json:"memids,omitempty"`
	Types    []Relation_MemberType `protobuf:"varint,10,rep,packed,name=types,enum=wireformat.Relation_MemberType" json:"types,omitempty"`
}

func (m *Relation) Reset()         { *m = Relation{} }
func (m *Relation) String() string { return proto.CompactTextString(m) }
func (m *Relation) ProtoMessage()  {}

func (m *Relation) GetId() int64 {
	if m != nil && m.Id != nil {
		return *m.Id
	}
	return 0
}

// PrimitiveGroup is a homogeneous container: in practice exactly one of
// Nodes, Dense, Ways, Relations is populated per group.
type PrimitiveGroup struct {
	Nodes     []*Node     `protobuf:"bytes,1,rep,name=nodes" json:"nodes,omitempty"`
	Dense     *DenseNodes `protobuf:"bytes,2,opt,name=dense" json:"dense,omitempty"`
	Ways      []*Way      `protobuf:"bytes,3,rep,name=ways" json:"ways,omitempty"`
	Relations []*Relation `protobuf:"bytes,4,rep,name=relations" json:"relations,omitempty"`
}

func (m *PrimitiveGroup) Reset()         { *m = PrimitiveGroup{} }
func (m *PrimitiveGroup) String() string { return proto.CompactTextString(m) }
func (m *PrimitiveGroup) ProtoMessage()  {}

// PrimitiveBlock is the decoded payload of one "OSMData" blob: a string
// table, one or more primitive groups, and the coordinate scaling params.
type PrimitiveBlock struct {
	Stringtable      *StringTable      `protobuf:"bytes,1,req,name=stringtable" json:"stringtable,omitempty"`
	Primitivegroup   []*PrimitiveGroup `protobuf:"bytes,2,rep,name=primitivegroup" json:"primitivegroup,omitempty"`
	Granularity      *int32            `protobuf:"varint,17,opt,name=granularity,def=100" json:"granularity,omitempty"`
	DateGranularity  *int32            `protobuf:"varint,18,opt,name=date_granularity,json=dateGranularity,def=1000" json:"date_granularity,omitempty"`
	LatOffset        *int64            `protobuf:"varint,19,opt,name=lat_offset,json=latOffset,def=0" json:"lat_offset,omitempty"`
	LonOffset        *int64            `protobuf:"varint,20,opt,name=lon_offset,json=lonOffset,def=0" json:"lon_offset,omitempty"`
}

func (m *PrimitiveBlock) Reset()         { *m = PrimitiveBlock{} }
func (m *PrimitiveBlock) String() string { return proto.CompactTextString(m) }
func (m *PrimitiveBlock) ProtoMessage()  {}

func (m *PrimitiveBlock) GetStringtable() *StringTable {
	if m != nil {
		return m.Stringtable
	}
	return nil
}

func (m *PrimitiveBlock) GetPrimitivegroup() []*PrimitiveGroup {
	if m != nil {
		return m.Primitivegroup
	}
	return nil
}

func (m *PrimitiveBlock) GetGranularity() int32 {
	if m != nil && m.Granularity != nil {
		return *m.Granularity
	}
	return 100
}

func (m *PrimitiveBlock) GetLatOffset() int64 {
	if m != nil && m.LatOffset != nil {
		return *m.LatOffset
	}
	return 0
}

func (m *PrimitiveBlock) GetLonOffset() int64 {
	if m != nil && m.LonOffset != nil {
		return *m.LonOffset
	}
	return 0
}
