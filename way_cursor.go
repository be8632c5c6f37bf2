package osmpbf

// WayStream iterates every Way message across all Ways groups of a block,
// in group order. Unlike dense nodes, a Way's
// own fields (id, tags, refs) carry no cross-way accumulator state beyond
// the ref delta stream, which is self-contained per way — so, unlike
// nodes, there is no reason to special-case crossing a group boundary.
type WayStream struct {
	dec *PrimitiveBlockDecoder
	pos int // -1 before first Next()
}

// NewWayStream builds a stream over dec's ways.
func NewWayStream(dec *PrimitiveBlockDecoder) *WayStream {
	return &WayStream{dec: dec, pos: -1}
}

// Next advances to the next way, returning false once exhausted.
func (s *WayStream) Next() bool {
	if s.dec.IsNull() || s.pos+1 >= len(s.dec.ways) {
		s.pos = len(s.dec.ways)
		return false
	}
	s.pos++
	return true
}

// Previous rewinds to the previous way, returning false if already at the
// first way (or the stream is empty).
func (s *WayStream) Previous() bool {
	if s.pos <= 0 {
		return false
	}
	s.pos--
	return true
}

// IsNull reports whether the stream has no way to read at its current
// position: an empty/null block, or a position before the first/after
// the last call to Next/Previous/Seek.
func (s *WayStream) IsNull() bool {
	return s.dec.IsNull() || s.pos < 0 || s.pos >= len(s.dec.ways)
}

// Seek positions the stream at the i'th way (0-indexed), the random
// positioning spec.md §4.D requires of every cursor. It returns false,
// leaving the stream null, if i is out of range.
func (s *WayStream) Seek(i int) bool {
	if s.dec.IsNull() || i < 0 || i >= len(s.dec.ways) {
		s.pos = -1
		return false
	}
	s.pos = i
	return true
}

// ID returns the id of the way at the current position, or 0 if the
// stream is null.
func (s *WayStream) ID() int64 {
	if s.IsNull() {
		return 0
	}
	return s.dec.ways[s.pos].GetId()
}

// TagCount returns the number of tags on the way at the current
// position, or 0 if the stream is null.
func (s *WayStream) TagCount() int {
	if s.IsNull() {
		return 0
	}
	return len(s.dec.ways[s.pos].Keys)
}

// Tag returns the i'th key/value pair of the way at the current position,
// resolved through the block's string table, or ("", "") if the stream
// is null.
func (s *WayStream) Tag(i int) (key, value string) {
	if s.IsNull() {
		return "", ""
	}
	w := s.dec.ways[s.pos]
	return s.dec.strIn.get(w.Keys[i]), s.dec.strIn.get(w.Vals[i])
}

// RefCount returns the number of node references of the way at the
// current position, or 0 if the stream is null.
func (s *WayStream) RefCount() int {
	if s.IsNull() {
		return 0
	}
	return len(s.dec.ways[s.pos].Refs)
}

// Ref returns the i'th node id referenced by the way at the current
// position, undoing the delta encoding of Way.refs, or 0 if the stream
// is null.
func (s *WayStream) Ref(i int) int64 {
	if s.IsNull() {
		return 0
	}
	refs := s.dec.ways[s.pos].Refs
	var id int64
	for j := 0; j <= i; j++ {
		id += refs[j]
	}
	return id
}

// Refs returns every node id referenced by the way at the current
// position, in order, decoded in a single forward pass, or nil if the
// stream is null.
func (s *WayStream) Refs() []int64 {
	if s.IsNull() {
		return nil
	}
	refs := s.dec.ways[s.pos].Refs
	out := make([]int64, len(refs))
	var id int64
	for i, d := range refs {
		id += d
		out[i] = id
	}
	return out
}

// Kind implements Primitive.
func (s *WayStream) Kind() PrimitiveKind { return KindWay }

// KeyAt implements Primitive.
func (s *WayStream) KeyAt(i int) string { k, _ := s.Tag(i); return k }

// ValueAt implements Primitive.
func (s *WayStream) ValueAt(i int) string { _, v := s.Tag(i); return v }

// KeyIDAt implements Primitive, returning 0 if the stream is null.
func (s *WayStream) KeyIDAt(i int) uint32 {
	if s.IsNull() {
		return 0
	}
	return s.dec.ways[s.pos].Keys[i]
}

// ValueIDAt implements Primitive, returning 0 if the stream is null.
func (s *WayStream) ValueIDAt(i int) uint32 {
	if s.IsNull() {
		return 0
	}
	return s.dec.ways[s.pos].Vals[i]
}
