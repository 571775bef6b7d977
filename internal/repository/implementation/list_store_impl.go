package implementation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"expense-log-be/pkg/listing"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListStoreImpl serves generic list queries straight from the entity's
// table, joining registered relations for foreign-key column paths.
type ListStoreImpl struct {
	db *gorm.DB
}

func NewListStore(db *gorm.DB) listing.Store {
	return &ListStoreImpl{db: db}
}

func (s *ListStoreImpl) Count(ctx context.Context, q listing.Query) (int64, error) {
	query, err := s.base(ctx, q)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *ListStoreImpl) Fetch(ctx context.Context, q listing.Query) ([]map[string]any, error) {
	query, err := s.base(ctx, q)
	if err != nil {
		return nil, err
	}

	e := q.Entity
	selects := []clause.Column{{Table: e.Table, Name: e.PK(), Alias: e.PK()}}
	for _, c := range q.Columns {
		if c.Name == e.PK() {
			continue
		}
		col := columnFor(e, c.Path)
		col.Alias = c.Name
		selects = append(selects, col)
	}
	query = query.Clauses(clause.Select{Columns: selects})

	for _, key := range q.Sorting {
		path, desc := strings.CutPrefix(key, "-")
		query = query.Order(clause.OrderByColumn{Column: columnFor(e, path), Desc: desc})
	}
	if len(q.Sorting) == 0 {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Table: e.Table, Name: e.PK()}})
	}

	rows := make([]map[string]any, 0, q.Limit)
	if err := query.Offset(q.Offset).Limit(q.Limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// base applies joins, validity, filter and search shared by Count and Fetch.
func (s *ListStoreImpl) base(ctx context.Context, q listing.Query) (*gorm.DB, error) {
	e := q.Entity
	if e == nil {
		return nil, fmt.Errorf("%w: query without entity", listing.ErrInvalidConfig)
	}

	db := s.db.WithContext(ctx).Table(e.Table)

	joins, err := relationsUsed(e, q)
	if err != nil {
		return nil, err
	}
	for _, name := range joins {
		rel := e.Relations[name]
		remote := rel.RemoteKey
		if remote == "" {
			remote = "id"
		}
		db = db.Joins(fmt.Sprintf("LEFT JOIN %s %s ON %s = %s",
			db.Statement.Quote(rel.Table),
			db.Statement.Quote(name),
			db.Statement.Quote(clause.Column{Table: name, Name: remote}),
			db.Statement.Quote(clause.Column{Table: e.Table, Name: rel.LocalKey}),
		))
	}

	if e.ValidityColumn != "" {
		db = db.Where(clause.Eq{Column: clause.Column{Table: e.Table, Name: e.ValidityColumn}, Value: true})
	}

	for _, p := range q.Filter {
		expr, err := predicateExpr(e, p)
		if err != nil {
			return nil, err
		}
		db = db.Where(expr)
	}

	if q.Search != "" {
		if search := searchExpr(e, q); search != nil {
			db = db.Where(search)
		}
	}
	return db, nil
}

func predicateExpr(e *listing.Entity, p listing.Predicate) (clause.Expression, error) {
	if !e.HasField(p.Field) {
		return nil, fmt.Errorf("%w: %s has no field %q", listing.ErrInvalidFilter, e.Key(), p.Field)
	}
	col := clause.Column{Table: e.Table, Name: p.Field}

	switch p.Op {
	case listing.Equals:
		return clause.Eq{Column: col, Value: p.Value}, nil
	case listing.NotEquals:
		return clause.Neq{Column: col, Value: p.Value}, nil
	case listing.OneOf:
		return clause.IN{Column: col, Values: p.Values}, nil
	case listing.NoneOf:
		return clause.Not(clause.IN{Column: col, Values: p.Values}), nil
	default:
		return nil, fmt.Errorf("%w: unsupported operator %s", listing.ErrInvalidFilter, p.Op)
	}
}

// searchExpr ORs a case-insensitive match over the selected searchable
// columns. Nil means nothing is searchable.
func searchExpr(e *listing.Entity, q listing.Query) clause.Expression {
	pattern := "%" + q.Search + "%"

	var exprs []clause.Expression
	for _, c := range q.Columns {
		f, ok := e.Field(c.Name)
		if !ok || !f.Searchable {
			continue
		}
		exprs = append(exprs, clause.Expr{
			SQL:  "CAST(? AS TEXT) ILIKE ?",
			Vars: []interface{}{columnFor(e, c.Path), pattern},
		})
	}
	if len(exprs) == 0 {
		return nil
	}
	return clause.Or(exprs...)
}

func columnFor(e *listing.Entity, path string) clause.Column {
	if relation, column, ok := strings.Cut(path, "."); ok {
		return clause.Column{Table: relation, Name: column}
	}
	return clause.Column{Table: e.Table, Name: path}
}

// relationsUsed lists the relations referenced by column or sort paths in a
// stable order.
func relationsUsed(e *listing.Entity, q listing.Query) ([]string, error) {
	used := map[string]struct{}{}
	note := func(path string) error {
		relation, _, ok := strings.Cut(path, ".")
		if !ok {
			return nil
		}
		if _, known := e.Relations[relation]; !known {
			return fmt.Errorf("%w: %s has no relation %q", listing.ErrInvalidConfig, e.Key(), relation)
		}
		used[relation] = struct{}{}
		return nil
	}

	for _, c := range q.Columns {
		if err := note(c.Path); err != nil {
			return nil, err
		}
	}
	for _, key := range q.Sorting {
		if err := note(strings.TrimPrefix(key, "-")); err != nil {
			return nil, err
		}
	}

	names := make([]string, 0, len(used))
	for name := range used {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
