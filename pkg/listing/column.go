package listing

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Humanize turns a storage or accessor name into a display label:
// "get_signed_amount" becomes "Signed Amount".
func Humanize(name string) string {
	name = strings.TrimPrefix(name, AccessorPrefix)
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// ResolveColumns builds every column available for the entity: permitted
// computed accessors first, then the declared fields. Excluded names are
// dropped and hidden names are flagged.
func ResolveColumns(e *Entity, cfg Config) []ColumnInfo {
	exclude := toSet(cfg.excludeColumns())
	hidden := toSet(cfg.HiddenColumns)

	columns := make([]ColumnInfo, 0, len(cfg.AllowedAccessors)+len(e.Fields))
	seen := make(map[string]struct{}, cap(columns))
	add := func(c ColumnInfo) {
		if _, dup := seen[c.Name]; dup {
			return
		}
		if _, excluded := exclude[c.Name]; excluded {
			return
		}
		_, c.Hidden = hidden[c.Name]
		seen[c.Name] = struct{}{}
		columns = append(columns, c)
	}

	for _, name := range cfg.AllowedAccessors {
		if _, ok := e.Accessor(name); !ok {
			continue
		}
		add(ColumnInfo{Name: name, FieldName: e.Ordering(name), Label: Humanize(name)})
	}
	for _, f := range e.Fields {
		label := f.Label
		if label == "" {
			label = Humanize(f.Name)
		}
		add(ColumnInfo{Name: f.Name, FieldName: f.Name, Label: label})
	}
	return columns
}

// SelectColumns narrows all to the requested names plus hidden names. An
// empty request or one containing AllColumns keeps everything.
func SelectColumns(all []ColumnInfo, requested, hidden []string) []ColumnInfo {
	if len(requested) == 0 || contains(requested, AllColumns) {
		return append([]ColumnInfo(nil), all...)
	}
	keep := toSet(requested)
	for _, h := range hidden {
		keep[h] = struct{}{}
	}

	out := make([]ColumnInfo, 0, len(keep))
	for _, c := range all {
		if _, ok := keep[c.Name]; ok {
			out = append(out, c)
		}
	}
	return out
}

// OrderByPriority sorts columns by their position in priority. Columns not
// named there follow all named ones in their original order.
func OrderByPriority(columns []ColumnInfo, priority []string) []ColumnInfo {
	rank := make(map[string]int, len(priority))
	for i, name := range priority {
		if _, dup := rank[name]; !dup {
			rank[name] = i
		}
	}
	position := func(name string) int {
		if r, ok := rank[name]; ok {
			return r
		}
		return len(priority)
	}

	out := append([]ColumnInfo(nil), columns...)
	sort.SliceStable(out, func(i, j int) bool {
		return position(out[i].Name) < position(out[j].Name)
	})
	return out
}

func ColumnNames(columns []ColumnInfo) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
