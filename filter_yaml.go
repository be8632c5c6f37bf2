package osmpbf

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FilterConfig is the YAML shape one geometry class's rules are authored
// in: the include/exclude/require_any shorthand, an arbitrary FilterNode
// tree under match, or both — the two compose with an implicit AndFilter
// when both are present. "*" as an include/exclude value means "any
// value for this key".
type FilterConfig struct {
	Include    map[string][]string `yaml:"include,omitempty"`
	Exclude    map[string][]string `yaml:"exclude,omitempty"`
	RequireAny []string            `yaml:"require_any,omitempty"`
	Match      *FilterNode         `yaml:"match,omitempty"`
}

// FilterNode is one node of a declaratively authored TagFilter tree. Each
// node kind compiles to one filter variant of §4.F; PrimitiveType,
// Constant and MultiKeyMultiValue have no node kind. Exactly one field
// should be set per node. Compound nodes (and/or/not) nest further FilterNodes;
// leaf nodes name the filter they compile to directly.
type FilterNode struct {
	And []FilterNode `yaml:"and,omitempty"`
	Or  []FilterNode `yaml:"or,omitempty"`
	Not *FilterNode  `yaml:"not,omitempty"`

	Key      string        `yaml:"key,omitempty"`
	KeyValue *KeyValueNode `yaml:"key_value,omitempty"`
	KeyIn    *KeyInNode    `yaml:"key_in,omitempty"`
	KeysAny  []string      `yaml:"keys_any,omitempty"`
	RegexKey string        `yaml:"regex_key,omitempty"`
	IntTag   *IntTagNode   `yaml:"int_tag,omitempty"`
}

// KeyValueNode is the leaf shape of a "key_value" filter node.
type KeyValueNode struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// KeyInNode is the leaf shape of a "key_in" filter node.
type KeyInNode struct {
	Key    string   `yaml:"key"`
	Values []string `yaml:"values"`
}

// IntTagNode is the leaf shape of an "int_tag" filter node.
type IntTagNode struct {
	Key   string `yaml:"key"`
	Value int64  `yaml:"value"`
}

// FilterDocument groups the three geometry classes a style file
// configures, mirroring how OSM data is conventionally split downstream.
type FilterDocument struct {
	Points   *FilterConfig `yaml:"points,omitempty"`
	Lines    *FilterConfig `yaml:"lines,omitempty"`
	Polygons *FilterConfig `yaml:"polygons,omitempty"`
}

// LoadFilterDocument reads and parses a YAML filter document from path.
func LoadFilterDocument(path string) (*FilterDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("osmpbf: read filter document: %w", err)
	}
	var doc FilterDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("osmpbf: parse filter document: %w", err)
	}
	return &doc, nil
}

// BuildTagFilter compiles one FilterConfig into a TagFilter DAG: an
// AndFilter of (RequireAny as an Or of KeyOnly) ∧ (Include as an Or of
// per-key matchers) ∧ ¬(Exclude as an Or of per-key matchers) ∧ (Match,
// compiled via buildFilterNode). A nil cfg, or an all-empty one, compiles
// to an always-true ConstantFilter. The only failure mode is a malformed
// Match tree: an unrecognized node shape, or a regex_key that fails to
// compile.
func BuildTagFilter(cfg *FilterConfig) (TagFilter, error) {
	if cfg == nil {
		return NewConstantFilter(true), nil
	}

	var clauses []TagFilter

	if len(cfg.RequireAny) > 0 {
		keys := make([]TagFilter, 0, len(cfg.RequireAny))
		for _, k := range cfg.RequireAny {
			keys = append(keys, NewKeyOnlyFilter(k))
		}
		clauses = append(clauses, orOf(keys))
	}

	if len(cfg.Include) > 0 {
		clauses = append(clauses, orOf(keyRuleFilters(cfg.Include)))
	}

	if len(cfg.Exclude) > 0 {
		clauses = append(clauses, NewInversionFilter(orOf(keyRuleFilters(cfg.Exclude))))
	}

	if cfg.Match != nil {
		f, err := buildFilterNode(cfg.Match)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, f)
	}

	if len(clauses) == 0 {
		return NewConstantFilter(true), nil
	}
	if len(clauses) == 1 {
		return clauses[0], nil
	}
	return NewAndFilter(clauses...), nil
}

// buildFilterNode compiles one declaratively authored FilterNode into the
// TagFilter variant §4.F defines for it. Exactly one field of n is
// expected to be set; a node with none set is an error rather than a
// silent always-true filter.
func buildFilterNode(n *FilterNode) (TagFilter, error) {
	switch {
	case len(n.And) > 0:
		children, err := buildFilterNodes(n.And)
		if err != nil {
			return nil, err
		}
		return NewAndFilter(children...), nil
	case len(n.Or) > 0:
		children, err := buildFilterNodes(n.Or)
		if err != nil {
			return nil, err
		}
		return NewOrFilter(children...), nil
	case n.Not != nil:
		child, err := buildFilterNode(n.Not)
		if err != nil {
			return nil, err
		}
		return NewInversionFilter(child), nil
	case n.Key != "":
		return NewKeyOnlyFilter(n.Key), nil
	case n.KeyValue != nil:
		return NewKeyValueFilter(n.KeyValue.Key, n.KeyValue.Value), nil
	case n.KeyIn != nil:
		return NewKeyMultiValueFilter(n.KeyIn.Key, n.KeyIn.Values...), nil
	case len(n.KeysAny) > 0:
		return NewMultiKeyFilter(n.KeysAny...), nil
	case n.RegexKey != "":
		return NewRegexKeyFilter(n.RegexKey)
	case n.IntTag != nil:
		return NewIntTagFilter(n.IntTag.Key, n.IntTag.Value), nil
	default:
		return nil, fmt.Errorf("osmpbf: filter node has no recognized field set")
	}
}

func buildFilterNodes(nodes []FilterNode) ([]TagFilter, error) {
	out := make([]TagFilter, 0, len(nodes))
	for i := range nodes {
		f, err := buildFilterNode(&nodes[i])
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// keyRuleFilters turns a key->values include/exclude map into one filter
// per key: KeyOnly if values is empty or contains "*", KeyMultiValue
// otherwise.
func keyRuleFilters(rules map[string][]string) []TagFilter {
	filters := make([]TagFilter, 0, len(rules))
	for key, values := range rules {
		if len(values) == 0 || containsWildcard(values) {
			filters = append(filters, NewKeyOnlyFilter(key))
			continue
		}
		filters = append(filters, NewKeyMultiValueFilter(key, values...))
	}
	return filters
}

func containsWildcard(values []string) bool {
	for _, v := range values {
		if v == "*" {
			return true
		}
	}
	return false
}

func orOf(filters []TagFilter) TagFilter {
	if len(filters) == 1 {
		return filters[0]
	}
	return NewOrFilter(filters...)
}
