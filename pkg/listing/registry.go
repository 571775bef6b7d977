package listing

import (
	"context"
	"fmt"
	"strings"
)

// Record is a fully loaded entity instance handed to computed accessors.
type Record any

// Accessor derives a non-stored column value from a loaded record.
type Accessor func(ctx context.Context, record Record) (any, error)

// Loader fetches a single record by primary key.
type Loader func(ctx context.Context, id any) (Record, error)

// Field is a stored column of an entity.
type Field struct {
	Name       string
	Label      string
	Searchable bool
}

// Relation describes a join used by foreign-key column paths. The path
// "account.display_name" resolves through the relation named "account".
type Relation struct {
	Table     string
	LocalKey  string
	RemoteKey string
}

// Entity is a registered list target.
type Entity struct {
	Namespace  string
	Name       string
	Table      string
	PrimaryKey string
	Fields     []Field

	// ValidityColumn, when set, restricts every query to rows where it is true.
	ValidityColumn string
	Relations      map[string]Relation

	Accessors   map[string]Accessor
	OrderingFor func(accessor string) string
	Load        Loader
}

func (e *Entity) Key() string { return Key(e.Namespace, e.Name) }

func Key(namespace, name string) string { return namespace + "." + name }

func (e *Entity) PK() string {
	if e.PrimaryKey == "" {
		return "id"
	}
	return e.PrimaryKey
}

func (e *Entity) Field(name string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (e *Entity) HasField(name string) bool {
	_, ok := e.Field(name)
	return ok
}

func (e *Entity) Accessor(name string) (Accessor, bool) {
	if e.Accessors == nil {
		return nil, false
	}
	fn, ok := e.Accessors[name]
	return fn, ok && fn != nil
}

// Ordering resolves the sortable storage key for an accessor. It returns an
// empty string when the accessor has no ordering.
func (e *Entity) Ordering(accessor string) string {
	if e.OrderingFor == nil {
		return ""
	}
	return e.OrderingFor(accessor)
}

func (e *Entity) validate() error {
	if e.Namespace == "" || e.Name == "" {
		return fmt.Errorf("entity requires namespace and name")
	}
	if e.Table == "" {
		return fmt.Errorf("entity %s requires a table", e.Key())
	}
	if len(e.Fields) == 0 {
		return fmt.Errorf("entity %s declares no fields", e.Key())
	}
	seen := make(map[string]struct{}, len(e.Fields))
	for _, f := range e.Fields {
		if f.Name == "" {
			return fmt.Errorf("entity %s has a field without a name", e.Key())
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("entity %s declares field %s twice", e.Key(), f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	for name := range e.Accessors {
		if !strings.HasPrefix(name, AccessorPrefix) {
			return fmt.Errorf("entity %s accessor %s must start with %q", e.Key(), name, AccessorPrefix)
		}
	}
	return nil
}

// Registry maps namespace.name to entities. It is populated once at startup
// and only read afterwards.
type Registry struct {
	entities map[string]*Entity
}

func NewRegistry(entities ...*Entity) (*Registry, error) {
	r := &Registry{entities: make(map[string]*Entity, len(entities))}
	for _, e := range entities {
		if err := e.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.entities[e.Key()]; dup {
			return nil, fmt.Errorf("entity %s registered twice", e.Key())
		}
		r.entities[e.Key()] = e
	}
	return r, nil
}

func (r *Registry) Lookup(namespace, name string) (*Entity, error) {
	e, ok := r.entities[Key(namespace, name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, Key(namespace, name))
	}
	return e, nil
}
