// Package resources describes the admin list screens: every resource names
// its columns once, and the list endpoint and spreadsheet export both render
// from that description.
package resources

import (
	"fmt"
	"reflect"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ColumnType string

const (
	ColumnText   ColumnType = "text"
	ColumnNumber ColumnType = "number"
	ColumnMoney  ColumnType = "money"
	ColumnDate   ColumnType = "date"
	ColumnStatus ColumnType = "status"
	ColumnBool   ColumnType = "bool"
)

const dateLayout = "2006-01-02"

type Column struct {
	Key   string     `json:"key"`
	Label string     `json:"label"`
	Type  ColumnType `json:"type"`
	get   func(any) any
}

// col binds a typed accessor to a column.
func col[T any](key, label string, typ ColumnType, get func(*T) any) Column {
	return Column{Key: key, Label: label, Type: typ, get: func(v any) any { return get(v.(*T)) }}
}

// Value renders one cell for JSON: decimals stay exact, dates become
// YYYY-MM-DD, nil pointers become nil.
func (c Column) Value(row any) any {
	switch v := c.get(row).(type) {
	case time.Time:
		return v.Format(dateLayout)
	case *time.Time:
		if v == nil {
			return nil
		}
		return v.Format(dateLayout)
	case *string:
		if v == nil {
			return nil
		}
		return *v
	case *decimal.Decimal:
		if v == nil {
			return nil
		}
		return *v
	default:
		return v
	}
}

// cell renders one value for a spreadsheet, where numbers must be numbers.
func (c Column) cell(row any) any {
	switch v := c.Value(row).(type) {
	case decimal.Decimal:
		return v.InexactFloat64()
	case nil:
		return ""
	default:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
			return rv.String()
		}
		return v
	}
}

// Filter narrows a listing. Status applies only to resources with a status
// column.
type Filter struct {
	Status string
	Limit  int
	Offset int
}

type Resource struct {
	Name    string   `json:"name"`
	Title   string   `json:"title"`
	Section string   `json:"section"`
	Columns []Column `json:"columns"`

	load func(db *gorm.DB, f Filter) ([]any, error)
}

func (r Resource) hasStatus() bool {
	for _, c := range r.Columns {
		if c.Key == "status" {
			return true
		}
	}
	return false
}

// Load fetches rows newest first.
func (r Resource) Load(db *gorm.DB, f Filter) ([]any, error) {
	if f.Status != "" && !r.hasStatus() {
		f.Status = ""
	}
	return r.load(db, f)
}

// Render turns loaded rows into column-keyed maps.
func (r Resource) Render(rows []any) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		m := make(map[string]any, len(r.Columns))
		for _, c := range r.Columns {
			m[c.Key] = c.Value(row)
		}
		out = append(out, m)
	}
	return out
}

func loader[T any](order string, status bool) func(*gorm.DB, Filter) ([]any, error) {
	return func(db *gorm.DB, f Filter) ([]any, error) {
		q := db.Model(new(T)).Order(order)
		if status && f.Status != "" {
			q = q.Where("status = ?", f.Status)
		}
		if f.Limit > 0 {
			q = q.Limit(f.Limit)
		}
		if f.Offset > 0 {
			q = q.Offset(f.Offset)
		}
		var rows []T
		if err := q.Find(&rows).Error; err != nil {
			return nil, err
		}
		out := make([]any, len(rows))
		for i := range rows {
			out[i] = &rows[i]
		}
		return out, nil
	}
}

func define[T any](name, title, section, order string, cols ...Column) Resource {
	r := Resource{Name: name, Title: title, Section: section, Columns: cols}
	r.load = loader[T](order, r.hasStatus())
	return r
}

type Registry struct {
	order  []string
	byName map[string]Resource
}

// NewRegistry indexes resources by name. Names and column keys must be
// unique.
func NewRegistry(rs ...Resource) (*Registry, error) {
	reg := &Registry{byName: make(map[string]Resource, len(rs))}
	for _, r := range rs {
		if _, dup := reg.byName[r.Name]; dup {
			return nil, fmt.Errorf("resource %q registered twice", r.Name)
		}
		keys := map[string]bool{}
		for _, c := range r.Columns {
			if keys[c.Key] {
				return nil, fmt.Errorf("resource %q: column %q declared twice", r.Name, c.Key)
			}
			keys[c.Key] = true
		}
		reg.byName[r.Name] = r
		reg.order = append(reg.order, r.Name)
	}
	return reg, nil
}

func (reg *Registry) Get(name string) (Resource, bool) {
	r, ok := reg.byName[name]
	return r, ok
}

func (reg *Registry) All() []Resource {
	out := make([]Resource, 0, len(reg.order))
	for _, n := range reg.order {
		out = append(out, reg.byName[n])
	}
	return out
}
