package typemap

import "context"

// Entry is one property of a query's result shape.
type Entry struct {
	Name       string
	Table      string // owning table, used by the nested-by-table format
	Descriptor TypeDescriptor
}

// Registry is the ordered mapping from output property name to type
// descriptor for one query's result shape. Insertion order matches the
// SELECT-list column order; order matters for tuple rendering only.
type Registry struct {
	entries []Entry
	index   map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Put inserts or overwrites a property. A later column with a colliding
// property name overwrites the earlier descriptor in place, keeping the
// first insertion position. Last-write-wins is intentional, not defended
// against.
func (r *Registry) Put(entry Entry) {
	if i, ok := r.index[entry.Name]; ok {
		r.entries[i] = entry
		return
	}
	r.index[entry.Name] = len(r.entries)
	r.entries = append(r.entries, entry)
}

// Get returns the descriptor for a property name.
func (r *Registry) Get(name string) (Entry, bool) {
	i, ok := r.index[name]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Delete removes a property, preserving the order of the rest.
func (r *Registry) Delete(name string) {
	i, ok := r.index[name]
	if !ok {
		return
	}
	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	delete(r.index, name)
	for j := i; j < len(r.entries); j++ {
		r.index[r.entries[j].Name] = j
	}
}

// Entries returns the properties in insertion order.
// The returned slice must not be mutated.
func (r *Registry) Entries() []Entry {
	return r.entries
}

// Names returns the property names in insertion order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of properties.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	out := NewRegistry()
	for _, e := range r.entries {
		out.Put(e)
	}
	return out
}

// EquivalentTo reports whether two registries describe the same result
// shape: same property set, same base types, same nullability, and equal
// enum value sets. Null tokens and entry order are ignored; this is the
// round-trip equivalence of render followed by parse.
func (r *Registry) EquivalentTo(other *Registry) bool {
	if other == nil || r.Len() != other.Len() {
		return false
	}
	for _, e := range r.entries {
		o, ok := other.Get(e.Name)
		if !ok {
			return false
		}
		if e.Descriptor.Base != o.Descriptor.Base ||
			e.Descriptor.Nullable != o.Descriptor.Nullable ||
			!e.Descriptor.EnumSetEqual(o.Descriptor) {
			return false
		}
	}
	return true
}

// Builder assembles registries from normalized column metadata.
type Builder struct {
	normalizer *Normalizer
}

// NewBuilder creates a registry builder on top of the given normalizer.
func NewBuilder(normalizer *Normalizer) *Builder {
	return &Builder{normalizer: normalizer}
}

// Build produces the registry for an ordered column sequence: property
// name is the alias when present, the physical name otherwise; descriptors
// come from the normalizer. No reordering, no deduplication beyond the
// registry's last-write-wins rule.
func (b *Builder) Build(ctx context.Context, columns []ColumnMeta) *Registry {
	registry := NewRegistry()
	for _, col := range columns {
		registry.Put(Entry{
			Name:       col.PropertyName(),
			Table:      col.Table,
			Descriptor: b.normalizer.Normalize(ctx, col),
		})
	}
	return registry
}
