package osmpbf

import "github.com/MAPSWorks/osmpbf/internal/wireformat"

// MemberType names the kind of entity a relation member refers to.
type MemberType int

const (
	MemberNode MemberType = iota
	MemberWay
	MemberRelation
)

func memberTypeFrom(t wireformat.Relation_MemberType) MemberType {
	switch t {
	case wireformat.Relation_WAY:
		return MemberWay
	case wireformat.Relation_RELATION:
		return MemberRelation
	default:
		return MemberNode
	}
}

// RelationStream iterates every Relation message across all Relations
// groups of a block, in group order.
type RelationStream struct {
	dec *PrimitiveBlockDecoder
	pos int // -1 before first Next()
}

// NewRelationStream builds a stream over dec's relations.
func NewRelationStream(dec *PrimitiveBlockDecoder) *RelationStream {
	return &RelationStream{dec: dec, pos: -1}
}

// Next advances to the next relation, returning false once exhausted.
func (s *RelationStream) Next() bool {
	if s.dec.IsNull() || s.pos+1 >= len(s.dec.relations) {
		s.pos = len(s.dec.relations)
		return false
	}
	s.pos++
	return true
}

// Previous rewinds to the previous relation, returning false if already
// at the first relation (or the stream is empty).
func (s *RelationStream) Previous() bool {
	if s.pos <= 0 {
		return false
	}
	s.pos--
	return true
}

// IsNull reports whether the stream has no relation to read at its
// current position: an empty/null block, or a position before the
// first/after the last call to Next/Previous/Seek.
func (s *RelationStream) IsNull() bool {
	return s.dec.IsNull() || s.pos < 0 || s.pos >= len(s.dec.relations)
}

// Seek positions the stream at the i'th relation (0-indexed), the random
// positioning spec.md §4.D requires of every cursor. It returns false,
// leaving the stream null, if i is out of range.
func (s *RelationStream) Seek(i int) bool {
	if s.dec.IsNull() || i < 0 || i >= len(s.dec.relations) {
		s.pos = -1
		return false
	}
	s.pos = i
	return true
}

// ID returns the id of the relation at the current position, or 0 if
// the stream is null.
func (s *RelationStream) ID() int64 {
	if s.IsNull() {
		return 0
	}
	return s.dec.relations[s.pos].GetId()
}

// TagCount returns the number of tags on the relation at the current
// position, or 0 if the stream is null.
func (s *RelationStream) TagCount() int {
	if s.IsNull() {
		return 0
	}
	return len(s.dec.relations[s.pos].Keys)
}

// Tag returns the i'th key/value pair of the relation at the current
// position, resolved through the block's string table, or ("", "") if
// the stream is null.
func (s *RelationStream) Tag(i int) (key, value string) {
	if s.IsNull() {
		return "", ""
	}
	r := s.dec.relations[s.pos]
	return s.dec.strIn.get(r.Keys[i]), s.dec.strIn.get(r.Vals[i])
}

// MemberCount returns the number of members of the relation at the
// current position, or 0 if the stream is null.
func (s *RelationStream) MemberCount() int {
	if s.IsNull() {
		return 0
	}
	return len(s.dec.relations[s.pos].Memids)
}

// Member returns the i'th member of the relation at the current
// position: its referenced entity id (delta-decoded), its kind, and its
// role string (resolved through the string table). Returns the zero
// member if the stream is null.
func (s *RelationStream) Member(i int) (id int64, kind MemberType, role string) {
	if s.IsNull() {
		return 0, MemberNode, ""
	}
	r := s.dec.relations[s.pos]
	var memid int64
	for j := 0; j <= i; j++ {
		memid += r.Memids[j]
	}
	role = s.dec.strIn.get(uint32(r.RolesSid[i]))
	return memid, memberTypeFrom(r.Types[i]), role
}

// Members returns every member of the relation at the current position,
// in order, decoding the memid delta stream in a single forward pass, or
// nil if the stream is null.
func (s *RelationStream) Members() []RelationMember {
	if s.IsNull() {
		return nil
	}
	r := s.dec.relations[s.pos]
	out := make([]RelationMember, len(r.Memids))
	var memid int64
	for i := range r.Memids {
		memid += r.Memids[i]
		out[i] = RelationMember{
			ID:   memid,
			Kind: memberTypeFrom(r.Types[i]),
			Role: s.dec.strIn.get(uint32(r.RolesSid[i])),
		}
	}
	return out
}

// RelationMember is one decoded member of a relation.
type RelationMember struct {
	ID   int64
	Kind MemberType
	Role string
}

// Kind implements Primitive.
func (s *RelationStream) Kind() PrimitiveKind { return KindRelation }

// KeyAt implements Primitive.
func (s *RelationStream) KeyAt(i int) string { k, _ := s.Tag(i); return k }

// ValueAt implements Primitive.
func (s *RelationStream) ValueAt(i int) string { _, v := s.Tag(i); return v }

// KeyIDAt implements Primitive, returning 0 if the stream is null.
func (s *RelationStream) KeyIDAt(i int) uint32 {
	if s.IsNull() {
		return 0
	}
	return s.dec.relations[s.pos].Keys[i]
}

// ValueIDAt implements Primitive, returning 0 if the stream is null.
func (s *RelationStream) ValueIDAt(i int) uint32 {
	if s.IsNull() {
		return 0
	}
	return s.dec.relations[s.pos].Vals[i]
}
