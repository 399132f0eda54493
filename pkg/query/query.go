// Package query turns a flat filter/sort/fields/page request specification
// into a fully-specified SQL read over a named collection, through four
// composable stages applied in order: Filter, Sort, Fields, Paginate.
package query

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Reserved control keys, excluded from the filter predicate.
var reservedKeys = map[string]bool{
	"page":   true,
	"sort":   true,
	"limit":  true,
	"fields": true,
}

// Comparison operators rewritten into SQL syntax. Anything else found in an
// operator position is embedded as-is (charset-checked) and left for the
// database to reject, surfacing through error normalization.
var opSQL = map[string]string{
	"gt":  ">",
	"gte": ">=",
	"lt":  "<",
	"lte": "<=",
}

const (
	defaultLimit = 100
	defaultSort  = `"created_at" DESC`
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Spec is the flat key→value request specification. A value is either a
// string (equality) or a map[string]string of comparison operators.
type Spec map[string]any

// ParseValues derives a Spec from URL query parameters, folding the bracket
// form `price[gt]=1000` into nested operator maps.
func ParseValues(values url.Values) Spec {
	spec := Spec{}
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		v := vals[0]
		if i := strings.IndexByte(key, '['); i > 0 && strings.HasSuffix(key, "]") {
			field := key[:i]
			op := key[i+1 : len(key)-1]
			m, _ := spec[field].(map[string]string)
			if m == nil {
				m = map[string]string{}
			}
			m[op] = v
			spec[field] = m
			continue
		}
		spec[key] = v
	}
	return spec
}

// Definition accumulates the stages of a read over one collection.
type Definition struct {
	table   string
	columns []string
	hidden  map[string]bool

	where    []string
	args     []any
	orderBy  []string
	selected []string
	limit    int
	offset   int
}

// New starts a read over table. columns is the collection's full column set;
// hidden columns are never exposed, even when explicitly selected.
func New(table string, columns []string, hidden ...string) *Definition {
	h := make(map[string]bool, len(hidden))
	for _, c := range hidden {
		h[c] = true
	}
	return &Definition{table: table, columns: columns, hidden: h, limit: defaultLimit}
}

// Scope adds an equality predicate outside the request specification,
// e.g. restricting reviews to one parent tour.
func (d *Definition) Scope(filter map[string]any) *Definition {
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !identRe.MatchString(k) {
			continue
		}
		d.args = append(d.args, filter[k])
		d.where = append(d.where, fmt.Sprintf("%q = $%d", k, len(d.args)))
	}
	return d
}

// Filter builds the predicate from spec, skipping the reserved control keys.
// The caller's spec is never mutated.
func (d *Definition) Filter(spec Spec) *Definition {
	keys := make([]string, 0, len(spec))
	for k := range spec {
		if reservedKeys[k] || !identRe.MatchString(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := spec[k].(type) {
		case map[string]string:
			ops := make([]string, 0, len(v))
			for op := range v {
				ops = append(ops, op)
			}
			sort.Strings(ops)
			for _, op := range ops {
				sqlOp, known := opSQL[op]
				if !known {
					if !identRe.MatchString(op) {
						continue
					}
					sqlOp = op // let the database reject it
				}
				d.args = append(d.args, v[op])
				d.where = append(d.where, fmt.Sprintf("%q %s $%d", k, sqlOp, len(d.args)))
			}
		default:
			d.args = append(d.args, v)
			d.where = append(d.where, fmt.Sprintf("%q = $%d", k, len(d.args)))
		}
	}
	return d
}

// Sort applies the comma-separated sort list; a leading '-' marks descending.
// Without a sort key the read defaults to newest-first.
func (d *Definition) Sort(spec Spec) *Definition {
	raw, _ := spec["sort"].(string)
	if raw == "" {
		d.orderBy = append(d.orderBy, defaultSort)
		return d
	}
	for _, f := range strings.Split(raw, ",") {
		f = strings.TrimSpace(f)
		dir := "ASC"
		if strings.HasPrefix(f, "-") {
			dir = "DESC"
			f = f[1:]
		}
		if !identRe.MatchString(f) {
			continue
		}
		d.orderBy = append(d.orderBy, fmt.Sprintf("%q %s", f, dir))
	}
	if len(d.orderBy) == 0 {
		d.orderBy = append(d.orderBy, defaultSort)
	}
	return d
}

// Fields restricts the returned shape to the requested comma-separated list,
// always still excluding hidden columns. Without a fields key all columns
// except the hidden ones are returned.
func (d *Definition) Fields(spec Spec) *Definition {
	raw, _ := spec["fields"].(string)
	if raw == "" {
		for _, c := range d.columns {
			if !d.hidden[c] {
				d.selected = append(d.selected, c)
			}
		}
		return d
	}
	for _, f := range strings.Split(raw, ",") {
		f = strings.TrimSpace(f)
		if f == "" || d.hidden[f] || !identRe.MatchString(f) {
			continue
		}
		d.selected = append(d.selected, f)
	}
	if len(d.selected) == 0 {
		for _, c := range d.columns {
			if !d.hidden[c] {
				d.selected = append(d.selected, c)
			}
		}
	}
	return d
}

// Paginate computes LIMIT/OFFSET from page and limit, both coerced from
// strings. Invalid or non-positive input falls back to the defaults.
func (d *Definition) Paginate(spec Spec) *Definition {
	page := atoiOr(spec["page"], 1)
	limit := atoiOr(spec["limit"], defaultLimit)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	d.limit = limit
	d.offset = (page - 1) * limit
	return d
}

// Apply runs all four stages in the canonical order.
func (d *Definition) Apply(spec Spec) *Definition {
	return d.Filter(spec).Sort(spec).Fields(spec).Paginate(spec)
}

// SQL renders the SELECT statement and its arguments.
func (d *Definition) SQL() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	if len(d.selected) == 0 {
		d.Fields(Spec{})
	}
	for i, c := range d.selected {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q", c)
	}
	fmt.Fprintf(&b, " FROM %q", d.table)
	if len(d.where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(d.where, " AND "))
	}
	if len(d.orderBy) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(d.orderBy, ", "))
	}
	fmt.Fprintf(&b, " LIMIT %d OFFSET %d", d.limit, d.offset)
	return b.String(), d.args
}

// Where exposes the predicate fragments, used by tests and repositories.
func (d *Definition) Where() ([]string, []any) { return d.where, d.args }

// Selected exposes the selected column list.
func (d *Definition) Selected() []string { return d.selected }

// OrderBy exposes the sort expressions.
func (d *Definition) OrderBy() []string { return d.orderBy }

// Limits exposes the computed limit and offset.
func (d *Definition) Limits() (limit, offset int) { return d.limit, d.offset }

func atoiOr(v any, def int) int {
	s, ok := v.(string)
	if !ok || s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
