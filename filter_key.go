package osmpbf

import "regexp"

// stringIDCache resolves a configured string to a block-local id once per
// AssignInputAdaptor/RebuildCache cycle, falling back to string
// comparison (id stays 0, resolved=false) when unbound.
type stringIDCache struct {
	dec      *PrimitiveBlockDecoder
	resolved bool
	id       uint32
	found    bool
}

func (c *stringIDCache) assign(dec *PrimitiveBlockDecoder) {
	c.dec, c.resolved = dec, false
}

func (c *stringIDCache) rebuild(s string) bool {
	if c.dec == nil {
		c.resolved, c.found = false, true // no decoder: always "maybe matches"
		return true
	}
	c.id = c.dec.FindStringID(s)
	c.found = c.id != 0
	c.resolved = true
	return c.found
}

// matchKey reports whether the i'th tag's key equals s, using the id
// cache when bound.
func matchKey(c *stringIDCache, p Primitive, i int, s string) bool {
	if c.dec != nil {
		return p.KeyIDAt(i) == c.id
	}
	return p.KeyAt(i) == s
}

func matchValue(c *stringIDCache, p Primitive, i int, s string) bool {
	if c.dec != nil {
		return p.ValueIDAt(i) == c.id
	}
	return p.ValueAt(i) == s
}

// KeyOnlyFilter matches any primitive carrying a tag with this key.
type KeyOnlyFilter struct {
	baseFilter
	Key   string
	cache stringIDCache
}

func NewKeyOnlyFilter(key string) *KeyOnlyFilter { return &KeyOnlyFilter{Key: key} }

func (f *KeyOnlyFilter) AssignInputAdaptor(dec *PrimitiveBlockDecoder) { f.cache.assign(dec) }
func (f *KeyOnlyFilter) RebuildCache() bool                            { return f.cache.rebuild(f.Key) }
func (f *KeyOnlyFilter) Matches(p Primitive) bool {
	for i := 0; i < p.TagCount(); i++ {
		if matchKey(&f.cache, p, i, f.Key) {
			return result(&f.baseFilter, true)
		}
	}
	return result(&f.baseFilter, false)
}
func (f *KeyOnlyFilter) Copy(seen map[TagFilter]TagFilter) TagFilter {
	if c, ok := seen[f]; ok {
		return c
	}
	c := &KeyOnlyFilter{baseFilter: f.baseFilter, Key: f.Key}
	seen[f] = c
	return c
}

// KeyValueFilter matches a primitive with this exact (key, value) tag.
type KeyValueFilter struct {
	baseFilter
	Key, Value string
	keyCache   stringIDCache
	valCache   stringIDCache
}

func NewKeyValueFilter(key, value string) *KeyValueFilter {
	return &KeyValueFilter{Key: key, Value: value}
}

func (f *KeyValueFilter) AssignInputAdaptor(dec *PrimitiveBlockDecoder) {
	f.keyCache.assign(dec)
	f.valCache.assign(dec)
}
func (f *KeyValueFilter) RebuildCache() bool {
	k := f.keyCache.rebuild(f.Key)
	v := f.valCache.rebuild(f.Value)
	return k && v
}
func (f *KeyValueFilter) Matches(p Primitive) bool {
	for i := 0; i < p.TagCount(); i++ {
		if matchKey(&f.keyCache, p, i, f.Key) && matchValue(&f.valCache, p, i, f.Value) {
			return result(&f.baseFilter, true)
		}
	}
	return result(&f.baseFilter, false)
}
func (f *KeyValueFilter) Copy(seen map[TagFilter]TagFilter) TagFilter {
	if c, ok := seen[f]; ok {
		return c
	}
	c := &KeyValueFilter{baseFilter: f.baseFilter, Key: f.Key, Value: f.Value}
	seen[f] = c
	return c
}

// KeyMultiValueFilter matches a tag with this key whose value is in Values.
type KeyMultiValueFilter struct {
	baseFilter
	Key      string
	Values   map[string]bool
	keyCache stringIDCache
}

func NewKeyMultiValueFilter(key string, values ...string) *KeyMultiValueFilter {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return &KeyMultiValueFilter{Key: key, Values: set}
}

func (f *KeyMultiValueFilter) AssignInputAdaptor(dec *PrimitiveBlockDecoder) { f.keyCache.assign(dec) }
func (f *KeyMultiValueFilter) RebuildCache() bool                            { return f.keyCache.rebuild(f.Key) }
func (f *KeyMultiValueFilter) Matches(p Primitive) bool {
	for i := 0; i < p.TagCount(); i++ {
		if matchKey(&f.keyCache, p, i, f.Key) && f.Values[p.ValueAt(i)] {
			return result(&f.baseFilter, true)
		}
	}
	return result(&f.baseFilter, false)
}
func (f *KeyMultiValueFilter) Copy(seen map[TagFilter]TagFilter) TagFilter {
	if c, ok := seen[f]; ok {
		return c
	}
	values := make(map[string]bool, len(f.Values))
	for k, v := range f.Values {
		values[k] = v
	}
	c := &KeyMultiValueFilter{baseFilter: f.baseFilter, Key: f.Key, Values: values}
	seen[f] = c
	return c
}

// MultiKeyFilter matches any tag whose key is in Keys.
type MultiKeyFilter struct {
	baseFilter
	Keys map[string]bool

	dec   *PrimitiveBlockDecoder
	idSet map[uint32]bool
}

func NewMultiKeyFilter(keys ...string) *MultiKeyFilter {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return &MultiKeyFilter{Keys: set}
}

func (f *MultiKeyFilter) AssignInputAdaptor(dec *PrimitiveBlockDecoder) {
	f.dec, f.idSet = dec, nil
}

// RebuildCache resolves every configured key to a block-local id, mirroring
// KeyOnlyFilter/KeyValueFilter. It returns false if none of the keys are
// present in the assigned decoder's string table, letting callers skip the
// block without a per-tag string scan.
func (f *MultiKeyFilter) RebuildCache() bool {
	if f.dec == nil {
		return true
	}
	f.idSet = make(map[uint32]bool, len(f.Keys))
	for k := range f.Keys {
		if id := f.dec.FindStringID(k); id != 0 {
			f.idSet[id] = true
		}
	}
	return len(f.idSet) > 0
}
func (f *MultiKeyFilter) Matches(p Primitive) bool {
	for i := 0; i < p.TagCount(); i++ {
		if f.dec != nil {
			if f.idSet[p.KeyIDAt(i)] {
				return result(&f.baseFilter, true)
			}
			continue
		}
		if f.Keys[p.KeyAt(i)] {
			return result(&f.baseFilter, true)
		}
	}
	return result(&f.baseFilter, false)
}
func (f *MultiKeyFilter) Copy(seen map[TagFilter]TagFilter) TagFilter {
	if c, ok := seen[f]; ok {
		return c
	}
	keys := make(map[string]bool, len(f.Keys))
	for k, v := range f.Keys {
		keys[k] = v
	}
	c := &MultiKeyFilter{baseFilter: f.baseFilter, Keys: keys}
	seen[f] = c
	return c
}

// MultiKeyMultiValueFilter matches any tag (k, v) with v in ValuesByKey[k].
type MultiKeyMultiValueFilter struct {
	baseFilter
	ValuesByKey map[string]map[string]bool

	dec             *PrimitiveBlockDecoder
	idValuesByKeyID map[uint32]map[uint32]bool
}

func NewMultiKeyMultiValueFilter(valuesByKey map[string][]string) *MultiKeyMultiValueFilter {
	m := make(map[string]map[string]bool, len(valuesByKey))
	for k, values := range valuesByKey {
		set := make(map[string]bool, len(values))
		for _, v := range values {
			set[v] = true
		}
		m[k] = set
	}
	return &MultiKeyMultiValueFilter{ValuesByKey: m}
}

func (f *MultiKeyMultiValueFilter) AssignInputAdaptor(dec *PrimitiveBlockDecoder) {
	f.dec, f.idValuesByKeyID = dec, nil
}

// RebuildCache resolves every configured key and its value set to
// block-local ids, mirroring KeyMultiValueFilter. It returns false if no
// configured key has both itself and at least one of its values present
// in the assigned decoder's string table.
func (f *MultiKeyMultiValueFilter) RebuildCache() bool {
	if f.dec == nil {
		return true
	}
	f.idValuesByKeyID = make(map[uint32]map[uint32]bool, len(f.ValuesByKey))
	for k, values := range f.ValuesByKey {
		keyID := f.dec.FindStringID(k)
		if keyID == 0 {
			continue
		}
		valueIDs := make(map[uint32]bool, len(values))
		for v := range values {
			if id := f.dec.FindStringID(v); id != 0 {
				valueIDs[id] = true
			}
		}
		if len(valueIDs) > 0 {
			f.idValuesByKeyID[keyID] = valueIDs
		}
	}
	return len(f.idValuesByKeyID) > 0
}
func (f *MultiKeyMultiValueFilter) Matches(p Primitive) bool {
	for i := 0; i < p.TagCount(); i++ {
		if f.dec != nil {
			if valueIDs, ok := f.idValuesByKeyID[p.KeyIDAt(i)]; ok && valueIDs[p.ValueIDAt(i)] {
				return result(&f.baseFilter, true)
			}
			continue
		}
		if values, ok := f.ValuesByKey[p.KeyAt(i)]; ok && values[p.ValueAt(i)] {
			return result(&f.baseFilter, true)
		}
	}
	return result(&f.baseFilter, false)
}
func (f *MultiKeyMultiValueFilter) Copy(seen map[TagFilter]TagFilter) TagFilter {
	if c, ok := seen[f]; ok {
		return c
	}
	m := make(map[string]map[string]bool, len(f.ValuesByKey))
	for k, values := range f.ValuesByKey {
		set := make(map[string]bool, len(values))
		for v, ok := range values {
			set[v] = ok
		}
		m[k] = set
	}
	c := &MultiKeyMultiValueFilter{baseFilter: f.baseFilter, ValuesByKey: m}
	seen[f] = c
	return c
}

// RegexKeyFilter matches any tag whose key matches Regex.
type RegexKeyFilter struct {
	baseFilter
	Regex *regexp.Regexp
}

func NewRegexKeyFilter(pattern string) (*RegexKeyFilter, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexKeyFilter{Regex: re}, nil
}

func (f *RegexKeyFilter) AssignInputAdaptor(*PrimitiveBlockDecoder) {}
func (f *RegexKeyFilter) RebuildCache() bool                        { return true }
func (f *RegexKeyFilter) Matches(p Primitive) bool {
	for i := 0; i < p.TagCount(); i++ {
		if f.Regex.MatchString(p.KeyAt(i)) {
			return result(&f.baseFilter, true)
		}
	}
	return result(&f.baseFilter, false)
}
func (f *RegexKeyFilter) Copy(seen map[TagFilter]TagFilter) TagFilter {
	if c, ok := seen[f]; ok {
		return c
	}
	c := &RegexKeyFilter{baseFilter: f.baseFilter, Regex: f.Regex}
	seen[f] = c
	return c
}

// IntTagFilter matches a tag with Key whose value, parsed as a base-10
// integer using every character (no partial parse, no trailing garbage —
// "3 " does not match 3), equals Value.
type IntTagFilter struct {
	baseFilter
	Key      string
	Value    int64
	keyCache stringIDCache
}

func NewIntTagFilter(key string, value int64) *IntTagFilter {
	return &IntTagFilter{Key: key, Value: value}
}

func (f *IntTagFilter) AssignInputAdaptor(dec *PrimitiveBlockDecoder) { f.keyCache.assign(dec) }
func (f *IntTagFilter) RebuildCache() bool                            { return f.keyCache.rebuild(f.Key) }
func (f *IntTagFilter) Matches(p Primitive) bool {
	for i := 0; i < p.TagCount(); i++ {
		if !matchKey(&f.keyCache, p, i, f.Key) {
			continue
		}
		if n, ok := parseFullInt64(p.ValueAt(i)); ok && n == f.Value {
			return result(&f.baseFilter, true)
		}
	}
	return result(&f.baseFilter, false)
}
func (f *IntTagFilter) Copy(seen map[TagFilter]TagFilter) TagFilter {
	if c, ok := seen[f]; ok {
		return c
	}
	c := &IntTagFilter{baseFilter: f.baseFilter, Key: f.Key, Value: f.Value}
	seen[f] = c
	return c
}

// parseFullInt64 parses s as a base-10 integer, requiring every character
// to be consumed (an optional leading '-', then one or more digits). "3 "
// and "3x" both fail; "-3" succeeds.
func parseFullInt64(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	neg := false
	i := 0
	if s[0] == '-' {
		neg = true
		i = 1
	}
	if i == len(s) {
		return 0, false
	}
	var n int64
	for ; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int64(c-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}
