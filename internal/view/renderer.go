package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"sync"
	"time"

	"expense-log-be/internal/constant"
	"expense-log-be/internal/pkg/serverutils"

	"github.com/shopspring/decimal"
)

// Page wraps the data of a full page render.
type Page struct {
	Title    string
	Active   string
	Username string
	Messages []serverutils.Message
	Data     any
}

// Renderer executes the embedded templates. It satisfies fiber.Views, so
// handlers render through ctx.Render.
type Renderer struct {
	fsys    fs.FS
	pattern string

	mu   sync.RWMutex
	tmpl *template.Template
}

func NewRenderer(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{fsys: fsys, pattern: "templates/*.html"}
	if err := r.Load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) Load() error {
	t, err := template.New("").Funcs(Funcs()).ParseFS(r.fsys, r.pattern)
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	r.mu.Lock()
	r.tmpl = t
	r.mu.Unlock()
	return nil
}

// Render executes name into a buffer first so a failing template never
// leaves a half written response. Layouts are not used.
func (r *Renderer) Render(w io.Writer, name string, binding interface{}, _ ...string) error {
	r.mu.RLock()
	t := r.tmpl
	r.mu.RUnlock()

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, binding); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"money":      Money,
		"date":       func(t time.Time) string { return t.Format(constant.DisplayDate) },
		"isoDate":    func(t time.Time) string { return t.Format(constant.DateLayout) },
		"datetime":   func(t time.Time) string { return t.Format("2006-01-02T15:04") },
		"monthLabel": func(t time.Time) string { return t.Format(constant.DisplayMonth) },
		"monthValue": func(t time.Time) string { return t.Format(constant.MonthLayout) },
		"negative":   isNegative,
		"has":        has,
		"cell":       cell,
		"deref":      deref,
		"dict":       dict,
	}
}

// dict builds a map from alternating keys and values so partials can take
// more than one argument.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict needs an even number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

// Money formats amounts with two decimals. Missing values render as a dash.
func Money(v any) string {
	switch d := v.(type) {
	case decimal.Decimal:
		return d.StringFixed(2)
	case *decimal.Decimal:
		if d == nil {
			return "-"
		}
		return d.StringFixed(2)
	case string:
		if parsed, err := decimal.NewFromString(d); err == nil {
			return parsed.StringFixed(2)
		}
		return d
	case nil:
		return "-"
	default:
		return fmt.Sprint(v)
	}
}

func isNegative(v any) bool {
	switch d := v.(type) {
	case decimal.Decimal:
		return d.IsNegative()
	case *decimal.Decimal:
		return d != nil && d.IsNegative()
	}
	return false
}

func has(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// cell reads one column of a listed row for display.
func cell(row map[string]any, column string) string {
	v, ok := row[column]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case time.Time:
		return t.Format(constant.DisplayDate)
	case []byte:
		return string(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
