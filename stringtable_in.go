package osmpbf

import "github.com/MAPSWorks/osmpbf/internal/wireformat"

// stringTableIn is the block-scoped, index-to-string lookup. Index 0
// always denotes the empty/absent string; it is never present in
// the on-wire table, so lookups against it (and against out-of-range
// indices) return "" rather than panicking.
type stringTableIn struct {
	s [][]byte
}

func newStringTableIn(st *wireformat.StringTable) stringTableIn {
	if st == nil {
		return stringTableIn{}
	}
	return stringTableIn{s: st.S}
}

// get returns the string at id, or "" if id is 0 or out of range.
func (t stringTableIn) get(id uint32) string {
	if id == 0 || int(id) > len(t.s) {
		return ""
	}
	return string(t.s[id-1])
}

// size returns the number of real (non-sentinel) strings in the table.
// Valid indices are 1..size(); the bound for "index out of range" is
// index > size(), checked consistently at every call site rather than
// mixing ">=" and ">" depending on which accessor is asked.
func (t stringTableIn) size() int {
	return len(t.s)
}
