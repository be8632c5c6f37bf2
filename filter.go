package osmpbf

// PrimitiveKind names the kind of OSM entity a Primitive view wraps, used
// by PrimitiveType filters.
type PrimitiveKind int

const (
	KindNode PrimitiveKind = iota
	KindWay
	KindRelation
)

// Primitive is the minimal read surface a TagFilter needs: enough to
// inspect one entity's type and tags without depending on which cursor
// produced it.
type Primitive interface {
	Kind() PrimitiveKind
	TagCount() int
	// KeyAt/ValueAt return the raw key/value strings of the i'th tag.
	KeyAt(i int) string
	ValueAt(i int) string
	// KeyIDAt/ValueIDAt return the block-local string table ids of the
	// i'th tag, or 0 if the primitive isn't bound to a decoder's string
	// table (forcing filters to fall back to string comparison).
	KeyIDAt(i int) uint32
	ValueIDAt(i int) uint32
}

// TagFilter is a node in a composable predicate tree over OSM tags.
// Implementations are not safe for concurrent use; the parallel pipeline
// gives each worker its own Copy of the tree.
type TagFilter interface {
	// AssignInputAdaptor binds (or unbinds, passing nil) the filter to a
	// block decoder so it can resolve strings to block-local ids once per
	// block rather than on every Matches call.
	AssignInputAdaptor(dec *PrimitiveBlockDecoder)
	// RebuildCache resolves this filter's configured strings against the
	// currently assigned decoder. It returns false if the filter, before
	// its own Inverted flag is applied, can be proven to match nothing in
	// this block; Matches then returns Inverted() for every primitive of
	// the block. For a filter without the flag set this is a fast-reject
	// hint callers may use to skip the block entirely.
	RebuildCache() bool
	// Matches evaluates the predicate against p, honoring Inverted().
	Matches(p Primitive) bool
	// Inverted reports whether this filter's result is negated.
	Inverted() bool
	SetInverted(inverted bool)
	// Copy produces an independent deep copy of the subtree rooted here,
	// reusing seen to preserve DAG sharing: a child visited twice through
	// different parents is copied once.
	Copy(seen map[TagFilter]TagFilter) TagFilter
}

// baseFilter carries the inverted flag every variant embeds.
type baseFilter struct {
	inverted bool
}

func (b *baseFilter) Inverted() bool          { return b.inverted }
func (b *baseFilter) SetInverted(inverted bool) { b.inverted = inverted }

func result(b *baseFilter, matched bool) bool {
	if b.inverted {
		return !matched
	}
	return matched
}

// PrimitiveTypeFilter matches primitives whose kind is in its set.
type PrimitiveTypeFilter struct {
	baseFilter
	Types map[PrimitiveKind]bool
}

func NewPrimitiveTypeFilter(types ...PrimitiveKind) *PrimitiveTypeFilter {
	set := make(map[PrimitiveKind]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return &PrimitiveTypeFilter{Types: set}
}

func (f *PrimitiveTypeFilter) AssignInputAdaptor(*PrimitiveBlockDecoder) {}
func (f *PrimitiveTypeFilter) RebuildCache() bool                        { return true }
func (f *PrimitiveTypeFilter) Matches(p Primitive) bool {
	return result(&f.baseFilter, f.Types[p.Kind()])
}
func (f *PrimitiveTypeFilter) Copy(seen map[TagFilter]TagFilter) TagFilter {
	if c, ok := seen[f]; ok {
		return c
	}
	types := make(map[PrimitiveKind]bool, len(f.Types))
	for k, v := range f.Types {
		types[k] = v
	}
	c := &PrimitiveTypeFilter{baseFilter: f.baseFilter, Types: types}
	seen[f] = c
	return c
}

// ConstantFilter always returns the same value, before inversion.
type ConstantFilter struct {
	baseFilter
	Value bool
}

func NewConstantFilter(value bool) *ConstantFilter { return &ConstantFilter{Value: value} }

func (f *ConstantFilter) AssignInputAdaptor(*PrimitiveBlockDecoder) {}
func (f *ConstantFilter) RebuildCache() bool                        { return f.Value }
func (f *ConstantFilter) Matches(Primitive) bool                    { return result(&f.baseFilter, f.Value) }
func (f *ConstantFilter) Copy(seen map[TagFilter]TagFilter) TagFilter {
	if c, ok := seen[f]; ok {
		return c
	}
	c := &ConstantFilter{baseFilter: f.baseFilter, Value: f.Value}
	seen[f] = c
	return c
}

// InversionFilter negates its one child. Composing with a filter's own
// Inverted flag is equivalent but this variant exists for trees authored
// with an explicit "not" node (e.g. from the YAML filter builder).
type InversionFilter struct {
	baseFilter
	Child TagFilter
}

func NewInversionFilter(child TagFilter) *InversionFilter { return &InversionFilter{Child: child} }

func (f *InversionFilter) AssignInputAdaptor(dec *PrimitiveBlockDecoder) { f.Child.AssignInputAdaptor(dec) }

// RebuildCache rebuilds the child's cache but always returns true: a child
// that matches nothing in this block makes the inversion match everything,
// so the inversion itself can never be fast-rejected.
func (f *InversionFilter) RebuildCache() bool {
	f.Child.RebuildCache()
	return true
}

func (f *InversionFilter) Matches(p Primitive) bool {
	return result(&f.baseFilter, !f.Child.Matches(p))
}
func (f *InversionFilter) Copy(seen map[TagFilter]TagFilter) TagFilter {
	if c, ok := seen[f]; ok {
		return c
	}
	c := &InversionFilter{baseFilter: f.baseFilter}
	seen[f] = c
	c.Child = f.Child.Copy(seen)
	return c
}

// OrFilter matches if any child matches, short-circuiting.
type OrFilter struct {
	baseFilter
	Children []TagFilter
}

func NewOrFilter(children ...TagFilter) *OrFilter { return &OrFilter{Children: children} }

func (f *OrFilter) AssignInputAdaptor(dec *PrimitiveBlockDecoder) {
	for _, c := range f.Children {
		c.AssignInputAdaptor(dec)
	}
}

// RebuildCache is false only if every child's rebuild is false — a single
// child that might match keeps the whole Or alive.
func (f *OrFilter) RebuildCache() bool {
	any := false
	for _, c := range f.Children {
		if c.RebuildCache() {
			any = true
		}
	}
	return any
}

func (f *OrFilter) Matches(p Primitive) bool {
	matched := false
	for _, c := range f.Children {
		if c.Matches(p) {
			matched = true
			break
		}
	}
	return result(&f.baseFilter, matched)
}

func (f *OrFilter) Copy(seen map[TagFilter]TagFilter) TagFilter {
	if c, ok := seen[f]; ok {
		return c
	}
	c := &OrFilter{baseFilter: f.baseFilter}
	seen[f] = c
	c.Children = make([]TagFilter, len(f.Children))
	for i, ch := range f.Children {
		c.Children[i] = ch.Copy(seen)
	}
	return c
}

// AndFilter matches only if every child matches, short-circuiting.
type AndFilter struct {
	baseFilter
	Children []TagFilter
}

func NewAndFilter(children ...TagFilter) *AndFilter { return &AndFilter{Children: children} }

func (f *AndFilter) AssignInputAdaptor(dec *PrimitiveBlockDecoder) {
	for _, c := range f.Children {
		c.AssignInputAdaptor(dec)
	}
}

// RebuildCache is true only if every child's rebuild is true.
func (f *AndFilter) RebuildCache() bool {
	for _, c := range f.Children {
		if !c.RebuildCache() {
			return false
		}
	}
	return true
}

func (f *AndFilter) Matches(p Primitive) bool {
	matched := true
	for _, c := range f.Children {
		if !c.Matches(p) {
			matched = false
			break
		}
	}
	return result(&f.baseFilter, matched)
}

func (f *AndFilter) Copy(seen map[TagFilter]TagFilter) TagFilter {
	if c, ok := seen[f]; ok {
		return c
	}
	c := &AndFilter{baseFilter: f.baseFilter}
	seen[f] = c
	c.Children = make([]TagFilter, len(f.Children))
	for i, ch := range f.Children {
		c.Children[i] = ch.Copy(seen)
	}
	return c
}

