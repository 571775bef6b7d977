package listing

import "strings"

// ParseSorting splits a comma-joined multi-column sort string.
func ParseSorting(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" && p != "-" {
			out = append(out, p)
		}
	}
	return out
}

func JoinSorting(sorting []string) string {
	return strings.Join(sorting, ",")
}

// SortField strips the descending marker from a sort key.
func SortField(key string) (field string, desc bool) {
	if strings.HasPrefix(key, "-") {
		return key[1:], true
	}
	return key, false
}

// ToggleSort flips key inside the multi-column sort state. An absent key is
// appended ascending, an ascending key becomes descending and a descending
// key becomes ascending again. Other keys keep their position.
func ToggleSort(sorting []string, key string) []string {
	field, _ := SortField(strings.TrimSpace(key))
	out := append([]string(nil), sorting...)
	if field == "" {
		return out
	}

	for i, existing := range out {
		f, desc := SortField(existing)
		if f != field {
			continue
		}
		if desc {
			out[i] = field
		} else {
			out[i] = "-" + field
		}
		return out
	}
	return append(out, field)
}
