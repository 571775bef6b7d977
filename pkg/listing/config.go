package listing

// AllColumns is the sentinel requested-column value that selects every column.
const AllColumns = "all"

// AccessorPrefix marks a column or sort key as a computed accessor.
const AccessorPrefix = "get_"

// DefaultExcludeColumns are audit and validity columns never shown in a table.
func DefaultExcludeColumns() []string {
	return []string{"created_at", "modified_at", "created_by", "modified_by", "is_valid"}
}

// Config describes one list request against a registered entity.
type Config struct {
	Namespace string
	Entity    string

	Query  string
	Filter Filter

	// SortBy is toggled into Sorting.
	SortBy  string
	Sorting string

	Page      int
	PageLimit int // 0 returns every matching row on a single page

	RequestedColumns []string
	// ExcludeColumns falls back to DefaultExcludeColumns when nil.
	ExcludeColumns   []string
	HiddenColumns    []string
	AllowedAccessors []string
	DefaultColumns   []string

	// ForeignKeys maps a logical column to a relation path such as "account.display_name".
	ForeignKeys map[string]string

	PerPageOptions []int
}

func (c Config) excludeColumns() []string {
	if c.ExcludeColumns == nil {
		return DefaultExcludeColumns()
	}
	return c.ExcludeColumns
}

func (c Config) wantsAll() bool {
	return contains(c.RequestedColumns, AllColumns)
}

// ColumnInfo is one resolved table column.
type ColumnInfo struct {
	Name      string `json:"name"`
	FieldName string `json:"field_name"`
	Label     string `json:"verbose_name"`
	Hidden    bool   `json:"hidden"`
}

// Response is the envelope handed to the presentation layer.
type Response struct {
	Data             []map[string]any `json:"data"`
	Search           string           `json:"search"`
	Columns          []ColumnInfo     `json:"columns"`
	AllColumns       []ColumnInfo     `json:"all_columns"`
	Pagination       Pagination       `json:"pagination"`
	HiddenColumns    []string         `json:"hidden_columns"`
	RequestedColumns []string         `json:"requested_columns"`
	Sorting          string           `json:"sorting"`
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
