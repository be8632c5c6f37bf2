package osmpbf

import (
	"bytes"
	"io"
	"testing"

	"github.com/MAPSWorks/osmpbf/internal/wireformat"
)

// roundTripFile writes one block through an OSMFileOut/OSMFileIn pair and
// hands back a decoder positioned to read it, exercising the full frame
// codec (component A) and file sequencing (component H) rather than
// decoder.go in isolation.
func roundTripFile(t *testing.T, payload []byte) *PrimitiveBlockDecoder {
	t.Helper()
	var buf bytes.Buffer
	out, err := NewOSMFileOut(&buf, HeaderInfo{}, WithZlibCompression(false))
	if err != nil {
		t.Fatalf("NewOSMFileOut: %v", err)
	}
	if err := out.WriteBlock(payload); err != nil {
		t.Fatalf("WriteBlock: %v", err)
	}

	in, err := NewOSMFileIn(&buf)
	if err != nil {
		t.Fatalf("NewOSMFileIn: %v", err)
	}
	dec, err := in.ParseNextBlock()
	if err != nil {
		t.Fatalf("ParseNextBlock: %v", err)
	}
	if _, err := in.ParseNextBlock(); err != io.EOF {
		t.Fatalf("second ParseNextBlock err = %v, want io.EOF", err)
	}
	return dec
}

// TestRoundTripSinglePlainNode covers spec scenario 1: a single plain
// node with one tag survives write+read with its id, coordinates, and
// tags intact. Degrees are chosen as whole numbers so the float64<->int64
// nanodegree conversion in AddNode/fromNanoLat never has to round.
func TestRoundTripSinglePlainNode(t *testing.T) {
	enc := NewPrimitiveBlockEncoder(DefaultGranularity, DefaultLatOffset, DefaultLonOffset)
	enc.AddNode(42, 52.0, 13.0, map[string]string{"name": "X"})
	payload, err := enc.Flush()
	if err != nil {
		t.Fatalf("Flush: %v", err)
	}

	dec := roundTripFile(t, payload)
	if dec.IsNull() {
		t.Fatal("decoder is null")
	}

	ns := NewNodeStream(dec)
	if !ns.Next() {
		t.Fatal("expected one node")
	}
	if ns.ID() != 42 {
		t.Errorf("ID() = %d, want 42", ns.ID())
	}
	lat, lon := ns.LatLon()
	if lat != 52.0 || lon != 13.0 {
		t.Errorf("LatLon() = (%v, %v), want (52, 13)", lat, lon)
	}
	if ns.TagCount() != 1 {
		t.Fatalf("TagCount() = %d, want 1", ns.TagCount())
	}
	if k, v := ns.Tag(0); k != "name" || v != "X" {
		t.Errorf("Tag(0) = (%q, %q), want (name, X)", k, v)
	}
	if ns.Next() {
		t.Error("expected exactly one node")
	}
}

// TestRoundTripDenseNodes exercises the encoder's dense path end to end:
// several nodes with and without tags, written via AddDenseNode and read
// back through the unified NodeStream.
func TestRoundTripDenseNodes(t *testing.T) {
	enc := NewPrimitiveBlockEncoder(DefaultGranularity, DefaultLatOffset, DefaultLonOffset)
	enc.AddDenseNode(10, 1.0, 1.0, map[string]string{"amenity": "cafe"})
	enc.AddDenseNode(15, 2.0, 2.0, nil)
	enc.AddDenseNode(12, 3.0, 3.0, map[string]string{"amenity": "bar", "name": "Joe's"})
	payload, err := enc.Flush()
	if err != nil {
		t.Fatalf("Flush: %v", err)
	}

	dec := roundTripFile(t, payload)
	ns := NewNodeStream(dec)

	wantIDs := []int64{10, 15, 12}
	wantTagCounts := []int{1, 0, 2}
	var gotIDs []int64
	var gotTagCounts []int
	for ns.Next() {
		gotIDs = append(gotIDs, ns.ID())
		gotTagCounts = append(gotTagCounts, ns.TagCount())
	}
	if len(gotIDs) != 3 {
		t.Fatalf("got %d nodes, want 3", len(gotIDs))
	}
	for i := range wantIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Errorf("node %d id = %d, want %d", i, gotIDs[i], wantIDs[i])
		}
		if gotTagCounts[i] != wantTagCounts[i] {
			t.Errorf("node %d tag count = %d, want %d", i, gotTagCounts[i], wantTagCounts[i])
		}
	}
}

// TestRoundTripDenseNodesLeadingUntagged covers the case where the
// untagged nodes precede the first tagged node in a dense group: the
// sentinels for those leading nodes must be backfilled once the group
// turns out to need a tag stream at all, or the block decodes short.
func TestRoundTripDenseNodesLeadingUntagged(t *testing.T) {
	enc := NewPrimitiveBlockEncoder(DefaultGranularity, DefaultLatOffset, DefaultLonOffset)
	enc.AddDenseNode(1, 1.0, 1.0, nil)
	enc.AddDenseNode(2, 2.0, 2.0, nil)
	enc.AddDenseNode(3, 3.0, 3.0, map[string]string{"amenity": "cafe"})
	payload, err := enc.Flush()
	if err != nil {
		t.Fatalf("Flush: %v", err)
	}

	dec := roundTripFile(t, payload)
	ns := NewNodeStream(dec)

	wantIDs := []int64{1, 2, 3}
	wantTagCounts := []int{0, 0, 1}
	var gotIDs []int64
	var gotTagCounts []int
	for ns.Next() {
		gotIDs = append(gotIDs, ns.ID())
		gotTagCounts = append(gotTagCounts, ns.TagCount())
	}
	if len(gotIDs) != 3 {
		t.Fatalf("got %d nodes, want 3", len(gotIDs))
	}
	for i := range wantIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Errorf("node %d id = %d, want %d", i, gotIDs[i], wantIDs[i])
		}
		if gotTagCounts[i] != wantTagCounts[i] {
			t.Errorf("node %d tag count = %d, want %d", i, gotTagCounts[i], wantTagCounts[i])
		}
	}
}

// TestRoundTripWay covers a way's delta-coded refs and tags.
func TestRoundTripWay(t *testing.T) {
	enc := NewPrimitiveBlockEncoder(DefaultGranularity, DefaultLatOffset, DefaultLonOffset)
	enc.AddWay(100, []int64{1, 2, 3, 2}, map[string]string{"highway": "primary"})
	payload, err := enc.Flush()
	if err != nil {
		t.Fatalf("Flush: %v", err)
	}

	dec := roundTripFile(t, payload)
	ws := NewWayStream(dec)
	if !ws.Next() {
		t.Fatal("expected one way")
	}
	if ws.ID() != 100 {
		t.Errorf("ID() = %d, want 100", ws.ID())
	}
	want := []int64{1, 2, 3, 2}
	got := ws.Refs()
	if len(got) != len(want) {
		t.Fatalf("Refs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Refs()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if k, v := ws.Tag(0); k != "highway" || v != "primary" {
		t.Errorf("Tag(0) = (%q, %q), want (highway, primary)", k, v)
	}
}

// TestRoundTripRelation covers a relation's delta-coded memids, types,
// and role strings.
func TestRoundTripRelation(t *testing.T) {
	enc := NewPrimitiveBlockEncoder(DefaultGranularity, DefaultLatOffset, DefaultLonOffset)
	members := []RelationMemberInput{
		{ID: 5, Kind: MemberWay, Role: "outer"},
		{ID: 6, Kind: MemberWay, Role: "inner"},
		{ID: 1, Kind: MemberNode, Role: ""},
	}
	enc.AddRelation(200, members, map[string]string{"type": "multipolygon"})
	payload, err := enc.Flush()
	if err != nil {
		t.Fatalf("Flush: %v", err)
	}

	dec := roundTripFile(t, payload)
	rs := NewRelationStream(dec)
	if !rs.Next() {
		t.Fatal("expected one relation")
	}
	if rs.ID() != 200 {
		t.Errorf("ID() = %d, want 200", rs.ID())
	}
	got := rs.Members()
	if len(got) != 3 {
		t.Fatalf("Members() len = %d, want 3", len(got))
	}
	wantIDs := []int64{5, 6, 1}
	wantKinds := []MemberType{MemberWay, MemberWay, MemberNode}
	wantRoles := []string{"outer", "inner", ""}
	for i := range got {
		if got[i].ID != wantIDs[i] {
			t.Errorf("member %d id = %d, want %d", i, got[i].ID, wantIDs[i])
		}
		if got[i].Kind != wantKinds[i] {
			t.Errorf("member %d kind = %v, want %v", i, got[i].Kind, wantKinds[i])
		}
		if got[i].Role != wantRoles[i] {
			t.Errorf("member %d role = %q, want %q", i, got[i].Role, wantRoles[i])
		}
	}
}

// TestFlushWithoutPrimitivesFails covers the InternalEncoderError path.
func TestFlushWithoutPrimitivesFails(t *testing.T) {
	enc := NewPrimitiveBlockEncoder(DefaultGranularity, DefaultLatOffset, DefaultLonOffset)
	_, err := enc.Flush()
	if err == nil {
		t.Fatal("expected InternalEncoderError, got nil")
	}
	if _, ok := err.(*InternalEncoderError); !ok {
		t.Errorf("err = %T, want *InternalEncoderError", err)
	}
}

// TestFlushResetsEncoderForNextBlock ensures Flush resets the encoder: a
// second Flush only carries the primitives added since the first Flush
// (string ids restart, per stringTableOut.reset).
func TestFlushResetsEncoderForNextBlock(t *testing.T) {
	enc := NewPrimitiveBlockEncoder(DefaultGranularity, DefaultLatOffset, DefaultLonOffset)
	enc.AddNode(1, 1.0, 1.0, map[string]string{"name": "A"})
	if _, err := enc.Flush(); err != nil {
		t.Fatalf("first Flush: %v", err)
	}

	enc.AddNode(2, 2.0, 2.0, map[string]string{"name": "B"})
	payload, err := enc.Flush()
	if err != nil {
		t.Fatalf("second Flush: %v", err)
	}

	dec := roundTripFile(t, payload)
	ns := NewNodeStream(dec)
	if !ns.Next() {
		t.Fatal("expected one node")
	}
	if ns.ID() != 2 {
		t.Errorf("ID() = %d, want 2 (only the second block's node)", ns.ID())
	}
	if k, v := ns.Tag(0); k != "name" || v != "B" {
		t.Errorf("Tag(0) = (%q, %q), want (name, B)", k, v)
	}
}

// TestDenseDeltaDecode covers spec scenario 2 directly against the wire
// representation: dense.id = [10, 5, -3, 7] prefix-sums to [10, 15, 12, 19].
func TestDenseDeltaDecode(t *testing.T) {
	pb := &wireformat.PrimitiveBlock{
		Stringtable: &wireformat.StringTable{},
		Primitivegroup: []*wireformat.PrimitiveGroup{{
			Dense: &wireformat.DenseNodes{
				Id:  []int64{10, 5, -3, 7},
				Lat: []int64{0, 0, 0, 0},
				Lon: []int64{0, 0, 0, 0},
			},
		}},
	}
	dec := newPrimitiveBlockDecoder(pb)
	if dec.IsNull() {
		t.Fatal("decoder unexpectedly null")
	}

	ns := NewNodeStream(dec)
	want := []int64{10, 15, 12, 19}
	var got []int64
	for ns.Next() {
		got = append(got, ns.ID())
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("id[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

// TestDenseTagIteration covers spec scenario 3 exactly:
// keys_vals=[1,2,0, 0, 3,4,3,5,0] over three nodes.
func TestDenseTagIteration(t *testing.T) {
	pb := &wireformat.PrimitiveBlock{
		Stringtable: &wireformat.StringTable{S: [][]byte{
			[]byte("k1"), []byte("v1"), []byte("k3"), []byte("v4"), []byte("v5"),
		}},
		Primitivegroup: []*wireformat.PrimitiveGroup{{
			Dense: &wireformat.DenseNodes{
				Id:       []int64{1, 1, 1},
				Lat:      []int64{0, 0, 0},
				Lon:      []int64{0, 0, 0},
				KeysVals: []int32{1, 2, 0, 0, 3, 4, 3, 5, 0},
			},
		}},
	}
	dec := newPrimitiveBlockDecoder(pb)
	if dec.IsNull() {
		t.Fatal("decoder unexpectedly null")
	}

	ns := NewNodeStream(dec)

	if !ns.Next() {
		t.Fatal("expected node 0")
	}
	if ns.TagCount() != 1 {
		t.Fatalf("node 0 TagCount() = %d, want 1", ns.TagCount())
	}
	if k, v := ns.Tag(0); k != "k1" || v != "v1" {
		t.Errorf("node 0 Tag(0) = (%q, %q), want (k1, v1)", k, v)
	}

	if !ns.Next() {
		t.Fatal("expected node 1")
	}
	if ns.TagCount() != 0 {
		t.Errorf("node 1 TagCount() = %d, want 0", ns.TagCount())
	}

	if !ns.Next() {
		t.Fatal("expected node 2")
	}
	if ns.TagCount() != 2 {
		t.Fatalf("node 2 TagCount() = %d, want 2", ns.TagCount())
	}
	if k, v := ns.Tag(0); k != "k3" || v != "v4" {
		t.Errorf("node 2 Tag(0) = (%q, %q), want (k3, v4)", k, v)
	}
	if k, v := ns.Tag(1); k != "k3" || v != "v5" {
		t.Errorf("node 2 Tag(1) = (%q, %q), want (k3, v5)", k, v)
	}
}

// TestIncompleteBlockSentinelMismatch covers the IncompleteBlock path:
// a dense-node group whose sentinel count doesn't match its node count
// makes the decoder permanently null.
func TestIncompleteBlockSentinelMismatch(t *testing.T) {
	pb := &wireformat.PrimitiveBlock{
		Stringtable: &wireformat.StringTable{S: [][]byte{[]byte("a"), []byte("b")}},
		Primitivegroup: []*wireformat.PrimitiveGroup{{
			Dense: &wireformat.DenseNodes{
				Id:       []int64{1, 1},
				Lat:      []int64{0, 0},
				Lon:      []int64{0, 0},
				KeysVals: []int32{1, 2, 0}, // only one sentinel for two nodes
			},
		}},
	}
	dec := newPrimitiveBlockDecoder(pb)
	if !dec.IsNull() {
		t.Fatal("expected decoder to be null on sentinel mismatch")
	}
	ns := NewNodeStream(dec)
	if ns.Next() {
		t.Error("expected no nodes from a null decoder")
	}
}

// TestMissingStringTableIsNull covers the other documented IncompleteBlock
// trigger: a block with no string table at all.
func TestMissingStringTableIsNull(t *testing.T) {
	dec := newPrimitiveBlockDecoder(&wireformat.PrimitiveBlock{})
	if !dec.IsNull() {
		t.Fatal("expected decoder to be null without a string table")
	}
	if dec.StringTableSize() != 0 {
		t.Errorf("StringTableSize() = %d, want 0", dec.StringTableSize())
	}
	if dec.QueryStringTable(1) != "" {
		t.Errorf("QueryStringTable(1) = %q, want empty", dec.QueryStringTable(1))
	}
}
