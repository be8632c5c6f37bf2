package osmpbf

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFilterDoc(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "filters.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func matches(t *testing.T, f TagFilter, p Primitive) bool {
	t.Helper()
	f.AssignInputAdaptor(nil)
	f.RebuildCache()
	return f.Matches(p)
}

func buildTagFilter(t *testing.T, cfg *FilterConfig) TagFilter {
	t.Helper()
	f, err := BuildTagFilter(cfg)
	if err != nil {
		t.Fatalf("BuildTagFilter: %v", err)
	}
	return f
}

func TestBuildTagFilterNilIsAlwaysTrue(t *testing.T) {
	f := buildTagFilter(t, nil)
	if !matches(t, f, &stubPrimitive{kind: KindNode}) {
		t.Error("BuildTagFilter(nil).Matches() = false, want true")
	}
}

func TestBuildTagFilterEmptyConfigIsAlwaysTrue(t *testing.T) {
	f := buildTagFilter(t, &FilterConfig{})
	if !matches(t, f, &stubPrimitive{kind: KindWay}) {
		t.Error("BuildTagFilter(&FilterConfig{}).Matches() = false, want true")
	}
}

func TestBuildTagFilterInclude(t *testing.T) {
	f := buildTagFilter(t, &FilterConfig{
		Include: map[string][]string{"highway": {"primary", "secondary"}},
	})
	match := &stubPrimitive{kind: KindWay, keys: []string{"highway"}, vals: []string{"primary"}}
	noMatch := &stubPrimitive{kind: KindWay, keys: []string{"highway"}, vals: []string{"track"}}
	if !matches(t, f, match) {
		t.Error("expected match on highway=primary")
	}
	if matches(t, f, noMatch) {
		t.Error("unexpected match on highway=track")
	}
}

func TestBuildTagFilterIncludeWildcard(t *testing.T) {
	f := buildTagFilter(t, &FilterConfig{
		Include: map[string][]string{"building": {"*"}},
	})
	match := &stubPrimitive{kind: KindWay, keys: []string{"building"}, vals: []string{"yes"}}
	if !matches(t, f, match) {
		t.Error("expected a wildcard include to match any value for the key")
	}
}

func TestBuildTagFilterExclude(t *testing.T) {
	f := buildTagFilter(t, &FilterConfig{
		Include: map[string][]string{"highway": {"*"}},
		Exclude: map[string][]string{"highway": {"proposed"}},
	})
	included := &stubPrimitive{kind: KindWay, keys: []string{"highway"}, vals: []string{"residential"}}
	excluded := &stubPrimitive{kind: KindWay, keys: []string{"highway"}, vals: []string{"proposed"}}
	if !matches(t, f, included) {
		t.Error("expected highway=residential to pass the exclude filter")
	}
	if matches(t, f, excluded) {
		t.Error("expected highway=proposed to be excluded")
	}
}

func TestBuildTagFilterRequireAny(t *testing.T) {
	f := buildTagFilter(t, &FilterConfig{RequireAny: []string{"name", "ref"}})
	withName := &stubPrimitive{kind: KindWay, keys: []string{"name"}, vals: []string{"Main St"}}
	withNeither := &stubPrimitive{kind: KindWay, keys: []string{"surface"}, vals: []string{"paved"}}
	if !matches(t, f, withName) {
		t.Error("expected a primitive with one of the require_any keys to match")
	}
	if matches(t, f, withNeither) {
		t.Error("unexpected match on a primitive with none of the require_any keys")
	}
}

func TestLoadFilterDocument(t *testing.T) {
	path := writeFilterDoc(t, `
points:
  include:
    amenity: ["*"]
lines:
  include:
    highway: ["primary", "secondary"]
  exclude:
    access: ["private"]
`)
	doc, err := LoadFilterDocument(path)
	if err != nil {
		t.Fatalf("LoadFilterDocument: %v", err)
	}
	if doc.Points == nil || doc.Lines == nil {
		t.Fatal("expected both points and lines sections to be populated")
	}
	if doc.Polygons != nil {
		t.Error("expected polygons section to be absent")
	}

	pointsFilter := buildTagFilter(t, doc.Points)
	amenity := &stubPrimitive{kind: KindNode, keys: []string{"amenity"}, vals: []string{"cafe"}}
	if !matches(t, pointsFilter, amenity) {
		t.Error("expected points filter to match any amenity value")
	}

	linesFilter := buildTagFilter(t, doc.Lines)
	privateRoad := &stubPrimitive{kind: KindWay, keys: []string{"highway", "access"}, vals: []string{"primary", "private"}}
	if matches(t, linesFilter, privateRoad) {
		t.Error("expected a private primary road to be excluded")
	}
}

func TestLoadFilterDocumentMissingFile(t *testing.T) {
	if _, err := LoadFilterDocument(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error reading a missing filter document")
	}
}

// TestBuildTagFilterMatchAndOrNot covers the declarative node vocabulary:
// and/or/not nesting composed from key/key_value leaves.
func TestBuildTagFilterMatchAndOrNot(t *testing.T) {
	f := buildTagFilter(t, &FilterConfig{
		Match: &FilterNode{
			And: []FilterNode{
				{Or: []FilterNode{
					{Key: "highway"},
					{Key: "railway"},
				}},
				{Not: &FilterNode{KeyValue: &KeyValueNode{Key: "access", Value: "private"}}},
			},
		},
	})
	open := &stubPrimitive{kind: KindWay, keys: []string{"highway"}, vals: []string{"primary"}}
	private := &stubPrimitive{kind: KindWay, keys: []string{"highway", "access"}, vals: []string{"primary", "private"}}
	unrelated := &stubPrimitive{kind: KindWay, keys: []string{"name"}, vals: []string{"x"}}
	if !matches(t, f, open) {
		t.Error("expected an open highway to match")
	}
	if matches(t, f, private) {
		t.Error("expected a private highway to be excluded by the not node")
	}
	if matches(t, f, unrelated) {
		t.Error("expected a way with neither highway nor railway to be excluded")
	}
}

// TestBuildTagFilterMatchKeyIn covers the key_in node, compiling to
// KeyMultiValueFilter.
func TestBuildTagFilterMatchKeyIn(t *testing.T) {
	f := buildTagFilter(t, &FilterConfig{
		Match: &FilterNode{KeyIn: &KeyInNode{Key: "highway", Values: []string{"primary", "secondary"}}},
	})
	match := &stubPrimitive{kind: KindWay, keys: []string{"highway"}, vals: []string{"secondary"}}
	noMatch := &stubPrimitive{kind: KindWay, keys: []string{"highway"}, vals: []string{"track"}}
	if !matches(t, f, match) {
		t.Error("expected highway=secondary to match a key_in node")
	}
	if matches(t, f, noMatch) {
		t.Error("unexpected match on highway=track")
	}
}

// TestBuildTagFilterMatchKeysAny covers the keys_any node, compiling to
// MultiKeyFilter — the variant that had no declarative path before.
func TestBuildTagFilterMatchKeysAny(t *testing.T) {
	f := buildTagFilter(t, &FilterConfig{
		Match: &FilterNode{KeysAny: []string{"name", "ref"}},
	})
	withRef := &stubPrimitive{kind: KindWay, keys: []string{"ref"}, vals: []string{"A1"}}
	withNeither := &stubPrimitive{kind: KindWay, keys: []string{"surface"}, vals: []string{"paved"}}
	if !matches(t, f, withRef) {
		t.Error("expected a way with ref to match keys_any")
	}
	if matches(t, f, withNeither) {
		t.Error("unexpected match on a way with none of the keys_any keys")
	}
}

// TestBuildTagFilterMatchRegexKey covers the regex_key node, compiling to
// RegexKeyFilter — the variant that had no declarative path before.
func TestBuildTagFilterMatchRegexKey(t *testing.T) {
	f := buildTagFilter(t, &FilterConfig{
		Match: &FilterNode{RegexKey: `^addr:`},
	})
	match := &stubPrimitive{kind: KindNode, keys: []string{"addr:city"}, vals: []string{"Berlin"}}
	noMatch := &stubPrimitive{kind: KindNode, keys: []string{"name"}, vals: []string{"x"}}
	if !matches(t, f, match) {
		t.Error("expected addr:city to match regex_key ^addr:")
	}
	if matches(t, f, noMatch) {
		t.Error("unexpected match on a key not starting with addr:")
	}
}

// TestBuildTagFilterMatchRegexKeyInvalid covers error propagation for a
// malformed regex_key pattern.
func TestBuildTagFilterMatchRegexKeyInvalid(t *testing.T) {
	_, err := BuildTagFilter(&FilterConfig{Match: &FilterNode{RegexKey: `(`}})
	if err == nil {
		t.Fatal("expected an error for an unparseable regex_key pattern")
	}
}

// TestBuildTagFilterMatchIntTag covers the int_tag node, compiling to
// IntTagFilter — the variant that had no declarative path before.
func TestBuildTagFilterMatchIntTag(t *testing.T) {
	f := buildTagFilter(t, &FilterConfig{
		Match: &FilterNode{IntTag: &IntTagNode{Key: "lanes", Value: 3}},
	})
	match := &stubPrimitive{kind: KindWay, keys: []string{"lanes"}, vals: []string{"3"}}
	noMatch := &stubPrimitive{kind: KindWay, keys: []string{"lanes"}, vals: []string{"3 "}}
	if !matches(t, f, match) {
		t.Error("expected lanes=3 to match int_tag {lanes, 3}")
	}
	if matches(t, f, noMatch) {
		t.Error("unexpected match on lanes=\"3 \" (trailing space must not parse)")
	}
}

// TestBuildTagFilterMatchEmptyNodeErrors covers the required-error case:
// a node with no recognized field set must fail to compile rather than
// silently behaving as always-true.
func TestBuildTagFilterMatchEmptyNodeErrors(t *testing.T) {
	_, err := BuildTagFilter(&FilterConfig{Match: &FilterNode{}})
	if err == nil {
		t.Fatal("expected an error for an empty filter node")
	}
}

// TestBuildTagFilterMatchComposesWithIncludeExclude covers Match and the
// include/exclude shorthand composing via an implicit AndFilter when both
// are present on the same FilterConfig.
func TestBuildTagFilterMatchComposesWithIncludeExclude(t *testing.T) {
	f := buildTagFilter(t, &FilterConfig{
		Include: map[string][]string{"highway": {"*"}},
		Match:   &FilterNode{IntTag: &IntTagNode{Key: "lanes", Value: 2}},
	})
	match := &stubPrimitive{kind: KindWay, keys: []string{"highway", "lanes"}, vals: []string{"primary", "2"}}
	wrongLanes := &stubPrimitive{kind: KindWay, keys: []string{"highway", "lanes"}, vals: []string{"primary", "4"}}
	notHighway := &stubPrimitive{kind: KindWay, keys: []string{"lanes"}, vals: []string{"2"}}
	if !matches(t, f, match) {
		t.Error("expected a highway with lanes=2 to satisfy both clauses")
	}
	if matches(t, f, wrongLanes) {
		t.Error("expected a highway with lanes=4 to fail the int_tag clause")
	}
	if matches(t, f, notHighway) {
		t.Error("expected a non-highway to fail the include clause")
	}
}

// TestBuildTagFilterMatchLoadFromYAML covers the vocabulary end to end
// through LoadFilterDocument, the path a real filter-file argument takes.
func TestBuildTagFilterMatchLoadFromYAML(t *testing.T) {
	path := writeFilterDoc(t, `
points:
  match:
    or:
      - regex_key: "^addr:"
      - int_tag:
          key: population
          value: 1000000
`)
	doc, err := LoadFilterDocument(path)
	if err != nil {
		t.Fatalf("LoadFilterDocument: %v", err)
	}
	f := buildTagFilter(t, doc.Points)
	addr := &stubPrimitive{kind: KindNode, keys: []string{"addr:city"}, vals: []string{"Berlin"}}
	megacity := &stubPrimitive{kind: KindNode, keys: []string{"population"}, vals: []string{"1000000"}}
	neither := &stubPrimitive{kind: KindNode, keys: []string{"name"}, vals: []string{"x"}}
	if !matches(t, f, addr) {
		t.Error("expected addr:city to match via the regex_key branch")
	}
	if !matches(t, f, megacity) {
		t.Error("expected population=1000000 to match via the int_tag branch")
	}
	if matches(t, f, neither) {
		t.Error("unexpected match on a primitive matching neither branch")
	}
}
