package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"expense-log-be/internal/pkg/logger"
)

// ErrAccessorUnavailable is returned by an accessor when the loaded record
// cannot provide the value. The column is left out of that row.
var ErrAccessorUnavailable = errors.New("listing: accessor unavailable for record")

// Selection is a persisted column to fetch. Path differs from Name when the
// column is read through a relation.
type Selection struct {
	Name string
	Path string
}

// Query is what the storage layer needs to count or fetch one page.
// Sorting holds resolved keys: declared field names or relation paths, with
// a leading "-" for descending order.
type Query struct {
	Entity  *Entity
	Columns []Selection
	Search  string
	Filter  Filter
	Sorting []string
	Offset  int
	Limit   int
}

// Store is the storage boundary used by Service.
type Store interface {
	Count(ctx context.Context, q Query) (int64, error)
	Fetch(ctx context.Context, q Query) ([]map[string]any, error)
}

// Service runs list requests. It holds no per-request state.
type Service struct {
	registry *Registry
	store    Store
	logger   logger.ILogger
}

func NewService(registry *Registry, store Store, log logger.ILogger) *Service {
	return &Service{registry: registry, store: store, logger: log}
}

func (s *Service) Registry() *Registry { return s.registry }

func (s *Service) List(ctx context.Context, cfg Config) (*Response, error) {
	entity, err := s.registry.Lookup(cfg.Namespace, cfg.Entity)
	if err != nil {
		return nil, err
	}

	// 1. filter
	if err := s.checkFilter(entity, cfg.Filter); err != nil {
		return nil, err
	}

	// 2. columns
	allColumns := ResolveColumns(entity, cfg)
	columns := SelectColumns(allColumns, cfg.RequestedColumns, cfg.HiddenColumns)

	// 3. persisted vs computed, 4. foreign-key paths
	var persisted []Selection
	var computed []string
	for _, c := range columns {
		if entity.HasField(c.Name) {
			persisted = append(persisted, Selection{Name: c.Name, Path: foreignKeyPath(cfg.ForeignKeys, c.Name)})
			continue
		}
		computed = append(computed, c.Name)
	}
	if err := checkRelations(entity, persisted); err != nil {
		return nil, err
	}

	query := Query{
		Entity:  entity,
		Columns: persisted,
		Search:  strings.TrimSpace(cfg.Query),
		Filter:  cfg.Filter,
	}

	// 5. count before slicing
	total, err := s.store.Count(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", entity.Key(), err)
	}

	// 6. page limit
	limit := cfg.PageLimit
	if limit <= 0 {
		limit = int(total)
	}

	// 7. sort
	sorting, err := s.resolveSorting(entity, cfg)
	if err != nil {
		return nil, err
	}
	query.Sorting = make([]string, len(sorting))
	for i, key := range sorting {
		field, desc := SortField(key)
		query.Sorting[i] = foreignKeyPath(cfg.ForeignKeys, field)
		if desc {
			query.Sorting[i] = "-" + query.Sorting[i]
		}
	}

	// 8. page slice + computed values, 9. pagination
	pagination := Paginate(total, cfg.Page, limit, cfg.PerPageOptions...)
	data := make([]map[string]any, 0, pagination.Limit())
	if total > 0 && pagination.Limit() > 0 {
		query.Offset = pagination.Offset()
		query.Limit = pagination.Limit()
		rows, err := s.store.Fetch(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", entity.Key(), err)
		}
		for _, row := range rows {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			s.fillComputed(ctx, entity, row, computed)
			data = append(data, row)
		}
	}

	// 10. echo requested columns
	requested := append([]string(nil), cfg.RequestedColumns...)
	if cfg.wantsAll() {
		requested = append(ColumnNames(columns), AllColumns)
	}

	// 11. display order
	columns = OrderByPriority(columns, cfg.DefaultColumns)

	hidden := append([]string{}, cfg.HiddenColumns...)
	if requested == nil {
		requested = []string{}
	}

	return &Response{
		Data:             data,
		Search:           cfg.Query,
		Columns:          columns,
		AllColumns:       allColumns,
		Pagination:       pagination,
		HiddenColumns:    hidden,
		RequestedColumns: requested,
		Sorting:          JoinSorting(sorting),
	}, nil
}

func (s *Service) checkFilter(e *Entity, f Filter) error {
	if err := f.Validate(); err != nil {
		return err
	}
	for _, field := range f.Fields() {
		if !e.HasField(field) {
			return fmt.Errorf("%w: %s has no field %q", ErrInvalidFilter, e.Key(), field)
		}
	}
	return nil
}

func (s *Service) resolveSorting(e *Entity, cfg Config) ([]string, error) {
	sorting := ParseSorting(cfg.Sorting)

	if sortBy, _ := SortField(strings.TrimSpace(cfg.SortBy)); sortBy != "" {
		if strings.HasPrefix(sortBy, AccessorPrefix) {
			ordering := e.Ordering(sortBy)
			if ordering == "" {
				return nil, fmt.Errorf("%w: %s has no ordering", ErrInvalidSort, sortBy)
			}
			sortBy = ordering
		}
		sorting = ToggleSort(sorting, sortBy)
	}

	for _, key := range sorting {
		field, _ := SortField(key)
		if !e.HasField(field) {
			return nil, fmt.Errorf("%w: %s has no field %q", ErrInvalidSort, e.Key(), field)
		}
	}
	return sorting, nil
}

// fillComputed loads the row's record once and evaluates each accessor.
// Failures only drop the affected values.
func (s *Service) fillComputed(ctx context.Context, e *Entity, row map[string]any, computed []string) {
	if len(computed) == 0 || e.Load == nil {
		return
	}

	id := row[e.PK()]
	record, err := e.Load(ctx, id)
	if err != nil || record == nil {
		s.logger.Warn(logger.ModuleListing, "Record lookup for computed columns failed", map[string]interface{}{
			"entity": e.Key(),
			"id":     fmt.Sprint(id),
			"error":  fmt.Sprint(err),
		})
		return
	}

	for _, name := range computed {
		accessor, ok := e.Accessor(name)
		if !ok {
			continue
		}
		value, err := accessor(ctx, record)
		if err != nil {
			if !errors.Is(err, ErrAccessorUnavailable) {
				s.logger.Warn(logger.ModuleListing, "Computed column skipped", map[string]interface{}{
					"entity":   e.Key(),
					"accessor": name,
					"error":    err.Error(),
				})
			}
			continue
		}
		row[name] = value
	}
}

func foreignKeyPath(foreignKeys map[string]string, name string) string {
	if path, ok := foreignKeys[name]; ok && path != "" {
		return path
	}
	return name
}

func checkRelations(e *Entity, columns []Selection) error {
	for _, c := range columns {
		if c.Path == c.Name {
			continue
		}
		relation, _, ok := strings.Cut(c.Path, ".")
		if !ok {
			return fmt.Errorf("%w: foreign key path %q must be relation.column", ErrInvalidConfig, c.Path)
		}
		if _, ok := e.Relations[relation]; !ok {
			return fmt.Errorf("%w: %s has no relation %q", ErrInvalidConfig, e.Key(), relation)
		}
	}
	return nil
}
