// Package property resolves descriptive metadata for named properties.
//
// Owner types are registered explicitly, each naming its parent, with the
// annotations of its fields and accessors. A lookup finds the most specific
// field and the most specific accessor for a property along the ancestor
// chain and merges their annotations. Results are cached until the registry
// changes.
package property

import (
	"sort"
	"sync"
)

// Common annotation keys.
const (
	Column = "column"
	Type   = "type"
)

// Annotations are descriptive key/value metadata.
type Annotations map[string]string

func (a Annotations) clone() Annotations {
	if len(a) == 0 {
		return nil
	}
	out := make(Annotations, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Source identifies where resolved metadata came from.
type Source int

const (
	// None means neither a field nor an accessor carried annotations.
	None Source = iota
	// FieldSource means only the field carried annotations.
	FieldSource
	// AccessorSource means only the accessor carried annotations.
	AccessorSource
	// Merged means both did; accessor annotations win on conflicts.
	Merged
)

func (s Source) String() string {
	switch s {
	case FieldSource:
		return "field"
	case AccessorSource:
		return "accessor"
	case Merged:
		return "merged"
	default:
		return "none"
	}
}

// Metadata is the resolved view of one property.
type Metadata struct {
	Owner       string
	Name        string
	Source      Source
	Annotations Annotations
}

// Empty reports whether no annotations were found.
func (m Metadata) Empty() bool { return m.Source == None }

// Get returns an annotation value.
func (m Metadata) Get(key string) (string, bool) {
	v, ok := m.Annotations[key]
	return v, ok
}

// Registry holds owner type definitions. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*TypeDef
	cache map[cacheKey]Metadata
}

type cacheKey struct {
	owner string
	name  string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]*TypeDef),
		cache: make(map[cacheKey]Metadata),
	}
}

// Default is the registry used by the package-level functions.
var Default = NewRegistry()

// TypeDef is the registered shape of one owner type.
type TypeDef struct {
	r         *Registry
	name      string
	parent    string
	fields    map[string]Annotations
	accessors map[string]Annotations
}

// Define registers an owner type, replacing any previous definition of the
// same name. parent is empty for a root type.
func (r *Registry) Define(name, parent string) *TypeDef {
	d := &TypeDef{
		r:         r,
		name:      name,
		parent:    parent,
		fields:    make(map[string]Annotations),
		accessors: make(map[string]Annotations),
	}
	r.mu.Lock()
	r.types[name] = d
	r.invalidate()
	r.mu.Unlock()
	return d
}

// Field declares a field backing property name.
func (d *TypeDef) Field(name string, a Annotations) *TypeDef {
	d.r.mu.Lock()
	d.fields[name] = a.clone()
	d.r.invalidate()
	d.r.mu.Unlock()
	return d
}

// Accessor declares an accessor for property name.
func (d *TypeDef) Accessor(name string, a Annotations) *TypeDef {
	d.r.mu.Lock()
	d.accessors[name] = a.clone()
	d.r.invalidate()
	d.r.mu.Unlock()
	return d
}

// Name returns the owner type name.
func (d *TypeDef) Name() string { return d.name }

// Parent returns the parent type name.
func (d *TypeDef) Parent() string { return d.parent }

// invalidate drops cached lookups. Callers hold r.mu.
func (r *Registry) invalidate() {
	if len(r.cache) > 0 {
		r.cache = make(map[cacheKey]Metadata)
	}
}

// Defined reports whether owner is registered.
func (r *Registry) Defined(owner string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[owner]
	return ok
}

// Owners returns the registered owner names, sorted.
func (r *Registry) Owners() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves property name of owner. The field and the accessor are
// each taken from the most specific type along the ancestor chain that
// declares them. The second result is false when neither carries
// annotations.
func (r *Registry) Lookup(owner, name string) (Metadata, bool) {
	key := cacheKey{owner: owner, name: name}

	r.mu.RLock()
	m, ok := r.cache[key]
	r.mu.RUnlock()
	if !ok {
		r.mu.Lock()
		m = r.resolve(owner, name)
		r.cache[key] = m
		r.mu.Unlock()
	}

	m.Annotations = m.Annotations.clone()
	return m, !m.Empty()
}

func (r *Registry) resolve(owner, name string) Metadata {
	var (
		field, accessor       Annotations
		hasField, hasAccessor bool
	)
	seen := make(map[string]struct{})
	for t := r.types[owner]; t != nil; t = r.types[t.parent] {
		if _, loop := seen[t.name]; loop {
			break
		}
		seen[t.name] = struct{}{}

		if !hasField {
			field, hasField = t.fields[name]
		}
		if !hasAccessor {
			accessor, hasAccessor = t.accessors[name]
		}
		if hasField && hasAccessor {
			break
		}
	}

	m := Metadata{Owner: owner, Name: name}
	switch {
	case len(field) == 0 && len(accessor) == 0:
	case len(field) == 0:
		m.Source = AccessorSource
		m.Annotations = accessor.clone()
	case len(accessor) == 0:
		m.Source = FieldSource
		m.Annotations = field.clone()
	default:
		m.Source = Merged
		m.Annotations = field.clone()
		for k, v := range accessor {
			m.Annotations[k] = v
		}
	}
	return m
}

// Define registers an owner type in the Default registry.
func Define(name, parent string) *TypeDef { return Default.Define(name, parent) }

// Lookup resolves a property in the Default registry.
func Lookup(owner, name string) (Metadata, bool) { return Default.Lookup(owner, name) }
