package osmpbf

import "github.com/MAPSWorks/osmpbf/internal/wireformat"

// PrimitiveBlockDecoder exposes lazy cursor views over one decoded
// PrimitiveBlock message. It owns the decoded protobuf tree for its whole
// lifetime; every cursor obtained from it is a non-owning view that must
// not outlive the decoder.
//
// A decoder built from malformed input enters a permanent null state
// (IsNull returns true) rather than erroring — every cursor over a null
// decoder reports zero/empty reads, matching the IncompleteBlock error
// kind's "permanently unusable" semantics.
type PrimitiveBlockDecoder struct {
	pb    *wireformat.PrimitiveBlock
	null  bool
	scale coordScale
	strIn stringTableIn

	plainNodes []*wireformat.Node
	denseSpans []denseSpan
	denseTotal int
	ways       []*wireformat.Way
	relations  []*wireformat.Relation

	// denseNodesUnpacked, when set by the caller, tells dense cursors that
	// the id/lat/lon slices of every dense span already hold absolute
	// values (because the caller pre-walked them for random access)
	// rather than deltas.
	denseNodesUnpacked bool
}

// denseSpan is one DenseNodes group's worth of nodes. Real files carry
// exactly one dense-nodes group per block; this decoder supports more by
// treating each as an independently delta-coded span and reseeding
// accumulators at every span boundary, matching the wire semantics (each
// DenseNodes message's delta streams are self-contained).
type denseSpan struct {
	dense   *wireformat.DenseNodes
	start   int // global dense-stream index of this span's first node
	size    int
	kvIndex []int // lazily built: kvIndex[2i]=start offset, kvIndex[2i+1]=tag count
}

// newPrimitiveBlockDecoder builds a decoder from an already-unmarshaled
// PrimitiveBlock message. It validates the block's structural invariants
// and falls back to the permanent null state if any of them are violated.
func newPrimitiveBlockDecoder(pb *wireformat.PrimitiveBlock) *PrimitiveBlockDecoder {
	d := &PrimitiveBlockDecoder{pb: pb}
	if pb == nil || pb.Stringtable == nil {
		d.null = true
		return d
	}

	d.strIn = newStringTableIn(pb.Stringtable)
	d.scale = coordScale{
		granularity: int64(pb.GetGranularity()),
		latOffset:   pb.GetLatOffset(),
		lonOffset:   pb.GetLonOffset(),
	}
	if d.scale.granularity == 0 {
		d.scale.granularity = DefaultGranularity
	}

	for _, g := range pb.Primitivegroup {
		d.plainNodes = append(d.plainNodes, g.Nodes...)
		d.ways = append(d.ways, g.Ways...)
		d.relations = append(d.relations, g.Relations...)
		if g.Dense != nil {
			size := len(g.Dense.Id)
			if len(g.Dense.Lat) != size || len(g.Dense.Lon) != size {
				d.null = true
				return d
			}
			if err := validateDenseTagSentinels(g.Dense, size); err != nil {
				d.null = true
				return d
			}
			d.denseSpans = append(d.denseSpans, denseSpan{dense: g.Dense, start: d.denseTotal, size: size})
			d.denseTotal += size
		}
	}

	for _, n := range d.plainNodes {
		if len(n.Keys) != len(n.Vals) {
			d.null = true
			return d
		}
	}
	for _, w := range d.ways {
		if len(w.Keys) != len(w.Vals) {
			d.null = true
			return d
		}
	}
	for _, r := range d.relations {
		if len(r.Keys) != len(r.Vals) || len(r.Memids) != len(r.Types) {
			d.null = true
			return d
		}
	}

	return d
}

// newNullDecoder builds a decoder already in the permanent failure state,
// used when the surrounding blob itself didn't even unmarshal as a
// PrimitiveBlock.
func newNullDecoder() *PrimitiveBlockDecoder {
	return &PrimitiveBlockDecoder{null: true}
}

// validateDenseTagSentinels checks that the number of zero sentinels in
// keys_vals equals the number of dense nodes (unless
// keys_vals is empty entirely, the documented "no node has tags" case).
func validateDenseTagSentinels(dn *wireformat.DenseNodes, nodeCount int) error {
	if len(dn.KeysVals) == 0 {
		return nil
	}
	sentinels := 0
	for _, v := range dn.KeysVals {
		if v == 0 {
			sentinels++
		}
	}
	if sentinels != nodeCount {
		return &IncompleteBlock{Reason: "dense tag sentinel count does not match node count"}
	}
	return nil
}

// IsNull reports whether this decoder is in the permanent failure state.
func (d *PrimitiveBlockDecoder) IsNull() bool { return d == nil || d.null }

// SetDenseNodesUnpacked toggles the two-mode accumulator behavior of
// dense-node cursors; see the denseNodesUnpacked field doc.
func (d *PrimitiveBlockDecoder) SetDenseNodesUnpacked(unpacked bool) {
	d.denseNodesUnpacked = unpacked
}

// DenseNodesUnpacked reports the current mode.
func (d *PrimitiveBlockDecoder) DenseNodesUnpacked() bool { return d.denseNodesUnpacked }

// StringTableSize returns the number of real (non-sentinel) strings in
// this block's string table.
func (d *PrimitiveBlockDecoder) StringTableSize() int {
	if d.IsNull() {
		return 0
	}
	return d.strIn.size()
}

// QueryStringTable looks up a string by its block-local id (0 means
// empty/absent).
func (d *PrimitiveBlockDecoder) QueryStringTable(id uint32) string {
	if d.IsNull() {
		return ""
	}
	return d.strIn.get(id)
}

// FindStringID does the reverse lookup used by the tag filter engine's
// rebuildCache: the first id whose string equals s, or 0 if absent. This
// is a linear scan, fine at once-per-block-per-filter granularity.
func (d *PrimitiveBlockDecoder) FindStringID(s string) uint32 {
	if d.IsNull() || s == "" {
		return 0
	}
	for id := 1; id <= d.strIn.size(); id++ {
		if d.strIn.get(uint32(id)) == s {
			return uint32(id)
		}
	}
	return 0
}

// spanAt returns the dense span containing global dense index i and i's
// offset within that span.
func (d *PrimitiveBlockDecoder) spanAt(i int) (*denseSpan, int) {
	for idx := range d.denseSpans {
		sp := &d.denseSpans[idx]
		if i >= sp.start && i < sp.start+sp.size {
			return sp, i - sp.start
		}
	}
	return nil, 0
}

// buildKeyValIndex lazily computes sp.kvIndex on first tag access for
// this span with a single linear scan counting zero sentinels.
func (sp *denseSpan) buildKeyValIndex() {
	if sp.kvIndex != nil || len(sp.dense.KeysVals) == 0 {
		return
	}
	kv := sp.dense.KeysVals
	index := make([]int, sp.size*2)
	pos := 0
	for i := 0; i < sp.size; i++ {
		start := pos
		count := 0
		for kv[pos] != 0 {
			pos += 2
			count++
		}
		pos++ // skip the sentinel
		index[2*i] = start
		index[2*i+1] = count
	}
	sp.kvIndex = index
}

// denseKeyValIndex returns (startOffsetInKeysVals, tagCount) for local
// dense index i within sp, building the lazy index table if needed. If
// the span carries no tags at all, every node has zero tags.
func (sp *denseSpan) denseKeyValIndex(i int) (int, int) {
	if len(sp.dense.KeysVals) == 0 {
		return 0, 0
	}
	sp.buildKeyValIndex()
	return sp.kvIndex[2*i], sp.kvIndex[2*i+1]
}
