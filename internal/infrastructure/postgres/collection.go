package postgres

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlastrek/tours-api/pkg/query"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// collection implements the generic read/update/delete capability set for
// one table; each repository embeds it and adds Create plus its own queries.
type collection[T any] struct {
	pool    *pgxpool.Pool
	table   string
	columns []string
	hidden  []string
}

func newCollection[T any](pool *pgxpool.Pool, table string, columns []string, hidden ...string) collection[T] {
	return collection[T]{pool: pool, table: table, columns: columns, hidden: hidden}
}

// Query starts the base read over the table.
func (c *collection[T]) Query() *query.Definition {
	return query.New(c.table, c.columns, c.hidden...)
}

func (c *collection[T]) visibleColumns() string {
	hide := make(map[string]bool, len(c.hidden))
	for _, h := range c.hidden {
		hide[h] = true
	}
	var b strings.Builder
	for _, col := range c.columns {
		if hide[col] {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q", col)
	}
	return b.String()
}

func (c *collection[T]) FindMany(ctx context.Context, def *query.Definition) ([]T, error) {
	sqlStr, args := def.SQL()
	rows, err := c.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	docs, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []T{}
	}
	return docs, nil
}

func (c *collection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	sqlStr := fmt.Sprintf(`SELECT %s FROM %q WHERE "id" = $1`, c.visibleColumns(), c.table)
	rows, err := c.pool.Query(ctx, sqlStr, id)
	if err != nil {
		return nil, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[T])
}

func (c *collection[T]) UpdateByID(ctx context.Context, id string, patch map[string]any) (*T, error) {
	if len(patch) == 0 {
		return c.FindByID(ctx, id)
	}
	keys := make([]string, 0, len(patch))
	for k := range patch {
		if identRe.MatchString(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	args := make([]any, 0, len(keys)+1)
	fmt.Fprintf(&b, "UPDATE %q SET ", c.table)
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		args = append(args, patch[k])
		fmt.Fprintf(&b, "%q = $%d", k, len(args))
	}
	b.WriteString(`, "updated_at" = now()`)
	args = append(args, id)
	fmt.Fprintf(&b, ` WHERE "id" = $%d RETURNING %s`, len(args), c.visibleColumns())

	rows, err := c.pool.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[T])
}

func (c *collection[T]) DeleteByID(ctx context.Context, id string) error {
	tag, err := c.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %q WHERE "id" = $1`, c.table), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
