package osmpbf

import (
	"github.com/golang/protobuf/proto"

	"github.com/MAPSWorks/osmpbf/internal/wireformat"
)

// PrimitiveBlockEncoder accumulates nodes, ways, and relations for one
// output block and flushes them to a PrimitiveBlock payload on demand.
// It is not safe for concurrent use: callers that want parallel encoding
// run one encoder per worker and interleave flushed payloads at the
// OSMFileOut writer, which is itself single-writer.
type PrimitiveBlockEncoder struct {
	strings *stringTableOut
	scale   coordScale

	plainNodes     []*wireformat.Node
	dense          *wireformat.DenseNodes
	denseAccID     int64
	denseAccLat    int64
	denseAccLon    int64
	denseNodeCount int  // nodes added to the current dense group
	denseAnyTags   bool // true once any node in the current dense group carried a tag
	ways           []*wireformat.Way
	relations      []*wireformat.Relation

	dirty bool // at least one primitive was added since the last flush
}

// NewPrimitiveBlockEncoder builds an encoder using the given granularity
// and offsets for every coordinate it writes. Pass DefaultGranularity,
// DefaultLatOffset, DefaultLonOffset for the common case.
func NewPrimitiveBlockEncoder(granularity, latOffset, lonOffset int64) *PrimitiveBlockEncoder {
	if granularity == 0 {
		granularity = DefaultGranularity
	}
	return &PrimitiveBlockEncoder{
		strings: newStringTableOut(),
		scale:   coordScale{granularity: granularity, latOffset: latOffset, lonOffset: lonOffset},
	}
}

// AddNode appends a plain (non-dense) node. Most encoders should prefer
// AddDenseNode for bulk node data; plain nodes exist for files that mix
// representations or that need per-node Info blocks this library doesn't
// model.
func (e *PrimitiveBlockEncoder) AddNode(id int64, lat, lon float64, tags map[string]string) {
	n := &wireformat.Node{
		Id:  &id,
		Lat: ptrInt64(e.scale.fromNanoLat(int64(lat * 1e9))),
		Lon: ptrInt64(e.scale.fromNanoLon(int64(lon * 1e9))),
	}
	for k, v := range tags {
		n.Keys = append(n.Keys, e.strings.intern(k))
		n.Vals = append(n.Vals, e.strings.intern(v))
	}
	e.plainNodes = append(e.plainNodes, n)
	e.dirty = true
}

// AddDenseNode appends a node to the dense-node stream. Nodes must be
// added in the order they should appear on the wire; this encoder
// performs the delta encoding itself, seeding its accumulators from the
// first node added after construction or after Flush.
func (e *PrimitiveBlockEncoder) AddDenseNode(id int64, lat, lon float64, tags map[string]string) {
	if e.dense == nil {
		e.dense = &wireformat.DenseNodes{}
		e.denseAccID, e.denseAccLat, e.denseAccLon = 0, 0, 0
		e.denseNodeCount, e.denseAnyTags = 0, false
	}
	rawLat := e.scale.fromNanoLat(int64(lat * 1e9))
	rawLon := e.scale.fromNanoLon(int64(lon * 1e9))

	e.dense.Id = append(e.dense.Id, id-e.denseAccID)
	e.dense.Lat = append(e.dense.Lat, rawLat-e.denseAccLat)
	e.dense.Lon = append(e.dense.Lon, rawLon-e.denseAccLon)
	e.denseAccID, e.denseAccLat, e.denseAccLon = id, rawLat, rawLon

	// Once any node in the group is tagged, every node needs a sentinel,
	// including ones already added untagged — backfill those now.
	if len(tags) > 0 && !e.denseAnyTags {
		for i := 0; i < e.denseNodeCount; i++ {
			e.dense.KeysVals = append(e.dense.KeysVals, 0)
		}
		e.denseAnyTags = true
	}
	if e.denseAnyTags {
		for k, v := range tags {
			e.dense.KeysVals = append(e.dense.KeysVals, int32(e.strings.intern(k)), int32(e.strings.intern(v)))
		}
		e.dense.KeysVals = append(e.dense.KeysVals, 0)
	}
	e.denseNodeCount++
	e.dirty = true
}

// AddWay appends a way with the given node references, in order.
func (e *PrimitiveBlockEncoder) AddWay(id int64, refs []int64, tags map[string]string) {
	w := &wireformat.Way{Id: &id}
	var prev int64
	for _, ref := range refs {
		w.Refs = append(w.Refs, ref-prev)
		prev = ref
	}
	for k, v := range tags {
		w.Keys = append(w.Keys, e.strings.intern(k))
		w.Vals = append(w.Vals, e.strings.intern(v))
	}
	e.ways = append(e.ways, w)
	e.dirty = true
}

// RelationMemberInput is one member to add via AddRelation.
type RelationMemberInput struct {
	ID   int64
	Kind MemberType
	Role string
}

// AddRelation appends a relation with the given members, in order.
func (e *PrimitiveBlockEncoder) AddRelation(id int64, members []RelationMemberInput, tags map[string]string) {
	r := &wireformat.Relation{Id: &id}
	var prev int64
	for _, m := range members {
		r.Memids = append(r.Memids, m.ID-prev)
		prev = m.ID
		r.Types = append(r.Types, memberTypeToWire(m.Kind))
		r.RolesSid = append(r.RolesSid, int32(e.strings.intern(m.Role)))
	}
	for k, v := range tags {
		r.Keys = append(r.Keys, e.strings.intern(k))
		r.Vals = append(r.Vals, e.strings.intern(v))
	}
	e.relations = append(e.relations, r)
	e.dirty = true
}

func memberTypeToWire(k MemberType) wireformat.Relation_MemberType {
	switch k {
	case MemberWay:
		return wireformat.Relation_WAY
	case MemberRelation:
		return wireformat.Relation_RELATION
	default:
		return wireformat.Relation_NODE
	}
}

// Flush marshals the accumulated primitives into one PrimitiveBlock
// payload and resets the encoder for the next block. It returns
// InternalEncoderError if nothing was added since construction or the
// last Flush.
func (e *PrimitiveBlockEncoder) Flush() ([]byte, error) {
	if !e.dirty {
		return nil, &InternalEncoderError{Reason: "flush called with no primitives added"}
	}

	st, remap := e.strings.finalize()
	pb := &wireformat.PrimitiveBlock{
		Stringtable: st,
		Granularity: ptrInt32(int32(e.scale.granularity)),
		LatOffset:   &e.scale.latOffset,
		LonOffset:   &e.scale.lonOffset,
	}

	group := &wireformat.PrimitiveGroup{}
	if len(e.plainNodes) > 0 {
		for _, n := range e.plainNodes {
			remapIDs(n.Keys, remap)
			remapIDs(n.Vals, remap)
		}
		group.Nodes = e.plainNodes
	}
	if e.dense != nil {
		remapDenseKeysVals(e.dense.KeysVals, remap)
		group.Dense = e.dense
	}
	if len(e.ways) > 0 {
		for _, w := range e.ways {
			remapIDs(w.Keys, remap)
			remapIDs(w.Vals, remap)
		}
		group.Ways = e.ways
	}
	if len(e.relations) > 0 {
		for _, r := range e.relations {
			remapIDs(r.Keys, remap)
			remapIDs(r.Vals, remap)
			remapInt32IDs(r.RolesSid, remap)
		}
		group.Relations = e.relations
	}
	pb.Primitivegroup = []*wireformat.PrimitiveGroup{group}

	payload, err := proto.Marshal(pb)
	if err != nil {
		return nil, err
	}

	e.reset()
	return payload, nil
}

func (e *PrimitiveBlockEncoder) reset() {
	e.strings.reset()
	e.plainNodes = nil
	e.dense = nil
	e.denseAccID, e.denseAccLat, e.denseAccLon = 0, 0, 0
	e.denseNodeCount, e.denseAnyTags = 0, false
	e.ways = nil
	e.relations = nil
	e.dirty = false
}

// remapIDs rewrites a slice of interned string ids through remap
// in-place. This interner's remap is currently the identity (see
// stringTableOut.finalize), but every reference goes through this
// function so a future compacting interner only needs to change finalize.
func remapIDs(ids []uint32, remap []uint32) {
	for i, id := range ids {
		ids[i] = remap[id]
	}
}

func remapInt32IDs(ids []int32, remap []uint32) {
	for i, id := range ids {
		ids[i] = int32(remap[uint32(id)])
	}
}

func remapDenseKeysVals(kv []int32, remap []uint32) {
	for i, id := range kv {
		if id != 0 {
			kv[i] = int32(remap[uint32(id)])
		}
	}
}

func ptrInt64(v int64) *int64 { return &v }
func ptrInt32(v int32) *int32 { return &v }
