package osmpbf

import "github.com/MAPSWorks/osmpbf/internal/wireformat"

// stringTableOut is the deduplicating interner used while flushing a
// block. Strings are assigned ids in insertion order starting at 1; the
// empty string always maps to 0 and is never interned into the on-wire
// table.
type stringTableOut struct {
	ids     map[string]uint32
	strings []string // strings[i] was assigned id i+1
}

func newStringTableOut() *stringTableOut {
	return &stringTableOut{ids: make(map[string]uint32)}
}

// intern returns s's id, assigning the next one if s hasn't been seen in
// this block yet.
func (t *stringTableOut) intern(s string) uint32 {
	if s == "" {
		return 0
	}
	if id, ok := t.ids[s]; ok {
		return id
	}
	id := uint32(len(t.strings) + 1)
	t.strings = append(t.strings, s)
	t.ids[s] = id
	return id
}

// finalize produces the on-wire StringTable and a remap table such that
// remap[internedID] == onWireID. Because ids accumulate in pure insertion
// order while the encoder's cleanup pass may drop entries referencing id 0
// afterwards, the remap indirection lets the encoder compact without
// having to renumber every already-assigned reference in place.
//
// This interner never removes entries once assigned, so finalize's remap
// is the identity — but the indirection is kept (rather than collapsed to
// a plain []byte slice) because the flush path is written against the
// general, remap-capable shape, and a future dedup-after-the-fact pass
// would only need to change this method.
func (t *stringTableOut) finalize() (*wireformat.StringTable, []uint32) {
	st := &wireformat.StringTable{S: make([][]byte, len(t.strings))}
	remap := make([]uint32, len(t.strings)+1)
	for i, s := range t.strings {
		st.S[i] = []byte(s)
		remap[i+1] = uint32(i + 1)
	}
	return st, remap
}

// reset clears the interner for reuse across flushes of a new block.
func (t *stringTableOut) reset() {
	t.ids = make(map[string]uint32)
	t.strings = t.strings[:0]
}
