package osmpbf

// NodeStream iterates every node of a block — plain nodes first (in group
// order), then dense nodes — presenting a single monotonically increasing
// position, mirroring the original NodeStreamInputAdaptor's choice to
// treat "plain" and "dense" nodes as one logical sequence.
type NodeStream struct {
	dec *PrimitiveBlockDecoder

	pos   int // -1 before first Next(), len(total) once exhausted
	total int

	// dense accumulator state, valid once pos has entered the dense range.
	curSpan   *denseSpan
	spanLocal int
	accID     int64
	accLat    int64
	accLon    int64
	seeded    bool
}

// NewNodeStream builds a stream over dec's plain and dense nodes, in that
// order. This is the library's UnifiedNodeStream constructor.
func NewNodeStream(dec *PrimitiveBlockDecoder) *NodeStream {
	if dec.IsNull() {
		return &NodeStream{dec: dec, pos: -1, total: 0}
	}
	return &NodeStream{dec: dec, pos: -1, total: len(dec.plainNodes) + dec.denseTotal}
}

// NewDenseNodeStream builds a stream over only dec's dense nodes, skipping
// any plain Node messages in the block. Positions are dense-local: index 0
// is the first dense node, not the first plain node.
func NewDenseNodeStream(dec *PrimitiveBlockDecoder) *NodeStream {
	if dec.IsNull() {
		return &NodeStream{dec: dec, pos: -1, total: 0}
	}
	plain := len(dec.plainNodes)
	return &NodeStream{dec: dec, pos: plain - 1, total: plain + dec.denseTotal}
}

// Next advances to the next node, returning false once exhausted.
func (s *NodeStream) Next() bool {
	if s.pos+1 >= s.total {
		s.pos = s.total
		return false
	}
	s.pos++
	s.advanceDenseIfNeeded(1)
	return true
}

// Previous rewinds to the previous node, returning false if already at
// the first node (or the stream is empty).
func (s *NodeStream) Previous() bool {
	if s.pos <= 0 {
		return false
	}
	s.pos--
	s.advanceDenseIfNeeded(-1)
	return true
}

// IsNull reports whether the stream has no node to read at its current
// position: an empty block, or a position before the first/after the
// last call to Next/Previous/Seek.
func (s *NodeStream) IsNull() bool {
	return s.dec.IsNull() || s.pos < 0 || s.pos >= s.total
}

// Seek positions the stream at the i'th node (0-indexed), the random
// positioning spec.md §4.D requires of every cursor. It returns false,
// leaving the stream null, if i is out of range.
func (s *NodeStream) Seek(i int) bool {
	if s.dec.IsNull() || i < 0 || i >= s.total {
		s.pos = -1
		s.curSpan = nil
		s.seeded = false
		return false
	}
	s.pos = i
	s.seeded = false
	s.advanceDenseIfNeeded(0)
	return true
}

// isDense reports whether the node at the current position is stored as a
// dense node (as opposed to a plain Node message).
func (s *NodeStream) isDense() bool {
	return s.pos >= len(s.dec.plainNodes)
}

// denseIndex returns the global dense-stream index of the current
// position; only meaningful when isDense() is true.
func (s *NodeStream) denseIndex() int {
	return s.pos - len(s.dec.plainNodes)
}

// advanceDenseIfNeeded keeps the accumulator in sync with s.pos after a
// single-step move of dir (+1 or -1). Plain-node positions don't touch the
// accumulator; crossing into, across, or out of the dense range reseeds or
// steps it exactly like the original DenseNodeInputAdaptor.next()/previous().
func (s *NodeStream) advanceDenseIfNeeded(dir int) {
	if !s.isDense() {
		s.curSpan = nil
		s.seeded = false
		return
	}
	gi := s.denseIndex()
	sp, local := s.dec.spanAt(gi)
	if sp == nil {
		return
	}

	if s.dec.denseNodesUnpacked {
		// Caller already materialized absolute values; no accumulation.
		s.curSpan, s.spanLocal = sp, local
		s.seeded = true
		return
	}

	if s.curSpan != sp || !s.seeded || local == 0 {
		// Entering a new span (or first dense position): reseed from the
		// span's own first element, matching each DenseNodes message's
		// self-contained delta stream, then walk forward to local.
		s.accID, s.accLat, s.accLon = 0, 0, 0
		for i := 0; i <= local; i++ {
			s.accID += sp.dense.Id[i]
			s.accLat += sp.dense.Lat[i]
			s.accLon += sp.dense.Lon[i]
		}
		s.curSpan, s.spanLocal, s.seeded = sp, local, true
		return
	}

	if dir > 0 && local == s.spanLocal+1 {
		s.accID += sp.dense.Id[local]
		s.accLat += sp.dense.Lat[local]
		s.accLon += sp.dense.Lon[local]
		s.spanLocal = local
		return
	}
	if dir < 0 && local == s.spanLocal-1 {
		s.accID -= sp.dense.Id[s.spanLocal]
		s.accLat -= sp.dense.Lat[s.spanLocal]
		s.accLon -= sp.dense.Lon[s.spanLocal]
		s.spanLocal = local
		return
	}

	// Random jump within the span: recompute from the span's start. This
	// is O(local), matching the original's uncached id()/lat()/lon() cost.
	s.accID, s.accLat, s.accLon = 0, 0, 0
	for i := 0; i <= local; i++ {
		s.accID += sp.dense.Id[i]
		s.accLat += sp.dense.Lat[i]
		s.accLon += sp.dense.Lon[i]
	}
	s.spanLocal = local
}

// ID returns the id of the node at the current position, or 0 if the
// stream is null.
func (s *NodeStream) ID() int64 {
	if s.IsNull() {
		return 0
	}
	if s.isDense() {
		if s.dec.denseNodesUnpacked {
			return s.curSpan.dense.Id[s.spanLocal]
		}
		return s.accID
	}
	return s.dec.plainNodes[s.pos].GetId()
}

// LatLon returns the decoded WGS84 degrees of the node at the current
// position, or (0, 0) if the stream is null.
func (s *NodeStream) LatLon() (lat, lon float64) {
	if s.IsNull() {
		return 0, 0
	}
	if s.isDense() {
		var rawLat, rawLon int64
		if s.dec.denseNodesUnpacked {
			rawLat, rawLon = s.curSpan.dense.Lat[s.spanLocal], s.curSpan.dense.Lon[s.spanLocal]
		} else {
			rawLat, rawLon = s.accLat, s.accLon
		}
		return s.dec.scale.toDegLat(rawLat), s.dec.scale.toDegLon(rawLon)
	}
	n := s.dec.plainNodes[s.pos]
	return s.dec.scale.toDegLat(n.GetLat()), s.dec.scale.toDegLon(n.GetLon())
}

// TagCount returns the number of tags on the node at the current
// position, or 0 if the stream is null.
func (s *NodeStream) TagCount() int {
	if s.IsNull() {
		return 0
	}
	if s.isDense() {
		_, count := s.curSpan.denseKeyValIndex(s.spanLocal)
		return count
	}
	return len(s.dec.plainNodes[s.pos].Keys)
}

// Tag returns the i'th key/value pair (0-indexed, i < TagCount()) of the
// node at the current position, resolved through the block's string
// table, or ("", "") if the stream is null.
func (s *NodeStream) Tag(i int) (key, value string) {
	if s.IsNull() {
		return "", ""
	}
	if s.isDense() {
		start, _ := s.curSpan.denseKeyValIndex(s.spanLocal)
		kv := s.curSpan.dense.KeysVals
		return s.dec.strIn.get(uint32(kv[start+2*i])), s.dec.strIn.get(uint32(kv[start+2*i+1]))
	}
	n := s.dec.plainNodes[s.pos]
	return s.dec.strIn.get(n.Keys[i]), s.dec.strIn.get(n.Vals[i])
}

// Kind implements Primitive.
func (s *NodeStream) Kind() PrimitiveKind { return KindNode }

// KeyAt implements Primitive.
func (s *NodeStream) KeyAt(i int) string { k, _ := s.Tag(i); return k }

// ValueAt implements Primitive.
func (s *NodeStream) ValueAt(i int) string { _, v := s.Tag(i); return v }

// KeyIDAt implements Primitive, returning the raw block-local string id
// without resolving it, or 0 if the stream is null.
func (s *NodeStream) KeyIDAt(i int) uint32 {
	if s.IsNull() {
		return 0
	}
	if s.isDense() {
		start, _ := s.curSpan.denseKeyValIndex(s.spanLocal)
		return uint32(s.curSpan.dense.KeysVals[start+2*i])
	}
	return s.dec.plainNodes[s.pos].Keys[i]
}

// ValueIDAt implements Primitive, returning 0 if the stream is null.
func (s *NodeStream) ValueIDAt(i int) uint32 {
	if s.IsNull() {
		return 0
	}
	if s.isDense() {
		start, _ := s.curSpan.denseKeyValIndex(s.spanLocal)
		return uint32(s.curSpan.dense.KeysVals[start+2*i+1])
	}
	return s.dec.plainNodes[s.pos].Vals[i]
}
