package listing

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// NotEqualSuffix marks a filter key as a negated match.
const NotEqualSuffix = "__ne"

// Op is the kind of a filter predicate.
type Op int

const (
	Equals Op = iota
	NotEquals
	OneOf
	NoneOf
)

func (o Op) String() string {
	switch o {
	case Equals:
		return "equals"
	case NotEquals:
		return "not_equals"
	case OneOf:
		return "one_of"
	case NoneOf:
		return "none_of"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Predicate is a single field condition. Value is set for Equals and
// NotEquals, Values for OneOf and NoneOf.
type Predicate struct {
	Op     Op
	Field  string
	Value  any
	Values []any
}

func Eq(field string, value any) Predicate { return Predicate{Op: Equals, Field: field, Value: value} }

func Ne(field string, value any) Predicate { return Predicate{Op: NotEquals, Field: field, Value: value} }

func In(field string, values ...any) Predicate {
	return Predicate{Op: OneOf, Field: field, Values: values}
}

func NotIn(field string, values ...any) Predicate {
	return Predicate{Op: NoneOf, Field: field, Values: values}
}

// Matches reports whether v satisfies the predicate. It lets in-memory
// stores and tests evaluate a filter with the same semantics as storage.
func (p Predicate) Matches(v any) bool {
	switch p.Op {
	case Equals:
		return equalValues(v, p.Value)
	case NotEquals:
		return !equalValues(v, p.Value)
	case OneOf:
		return anyEqual(v, p.Values)
	case NoneOf:
		return !anyEqual(v, p.Values)
	}
	return false
}

func (p Predicate) validate() error {
	if strings.TrimSpace(p.Field) == "" {
		return fmt.Errorf("%w: empty field name", ErrInvalidFilter)
	}
	switch p.Op {
	case Equals, NotEquals:
		if !isScalar(p.Value) {
			return fmt.Errorf("%w: %s expects a scalar value", ErrInvalidFilter, p.Field)
		}
	case OneOf, NoneOf:
		if len(p.Values) == 0 {
			return fmt.Errorf("%w: %s expects at least one value", ErrInvalidFilter, p.Field)
		}
		for _, v := range p.Values {
			if !isScalar(v) {
				return fmt.Errorf("%w: %s contains a non scalar value", ErrInvalidFilter, p.Field)
			}
		}
	default:
		return fmt.Errorf("%w: unsupported operator %s", ErrInvalidFilter, p.Op)
	}
	return nil
}

// Filter is a conjunction of predicates, applied in order.
type Filter []Predicate

func (f Filter) And(p ...Predicate) Filter {
	out := make(Filter, 0, len(f)+len(p))
	out = append(out, f...)
	return append(out, p...)
}

func (f Filter) Validate() error {
	for _, p := range f {
		if err := p.validate(); err != nil {
			return err
		}
	}
	return nil
}

// Matches reports whether a row satisfies every predicate.
func (f Filter) Matches(row map[string]any) bool {
	for _, p := range f {
		if !p.Matches(row[p.Field]) {
			return false
		}
	}
	return true
}

// Fields returns the distinct field names referenced by the filter.
func (f Filter) Fields() []string {
	seen := make(map[string]struct{}, len(f))
	out := make([]string, 0, len(f))
	for _, p := range f {
		if _, ok := seen[p.Field]; ok {
			continue
		}
		seen[p.Field] = struct{}{}
		out = append(out, p.Field)
	}
	return out
}

// ParseFilter converts the key convention used by query strings and forms
// into predicates. A key ending in "__ne" negates the match and a slice value
// turns equality into membership. Keys are processed in sorted order.
func ParseFilter(raw map[string]any) (Filter, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	filter := make(Filter, 0, len(keys))
	for _, key := range keys {
		value := raw[key]
		field, negated := strings.CutSuffix(key, NotEqualSuffix)

		var p Predicate
		if values, isList := asList(value); isList {
			p = Predicate{Op: OneOf, Field: field, Values: values}
			if negated {
				p.Op = NoneOf
			}
		} else {
			p = Predicate{Op: Equals, Field: field, Value: value}
			if negated {
				p.Op = NotEquals
			}
		}

		if err := p.validate(); err != nil {
			return nil, err
		}
		filter = append(filter, p)
	}
	return filter, nil
}

func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func isScalar(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Func, reflect.Chan, reflect.Pointer:
		_, stringer := v.(fmt.Stringer)
		return stringer
	}
	return true
}

func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func anyEqual(v any, values []any) bool {
	for _, candidate := range values {
		if equalValues(v, candidate) {
			return true
		}
	}
	return false
}
