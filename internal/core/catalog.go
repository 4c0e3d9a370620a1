package core

import (
	"context"
	"sort"
	"strings"
)

// Catalog enumerates schemas and tables and derives table metadata.
// It performs no authorization; the Service checks access before
// consulting it.
type Catalog struct {
	perms PermissionStore
	rows  RowStore
}

// NewCatalog builds a catalog over the permission and row stores.
func NewCatalog(perms PermissionStore, rows RowStore) *Catalog {
	return &Catalog{perms: perms, rows: rows}
}

// AccessibleSchemas returns the distinct schema names the user's group
// holds any grant on (READ is enough for visibility), sorted ascending
// for deterministic client rendering. A user with no group gets nil.
func (c *Catalog) AccessibleSchemas(ctx context.Context, user User) ([]string, error) {
	if user.GroupID == 0 {
		return nil, nil
	}

	grants, err := c.perms.GrantsFor(ctx, user.GroupID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(grants))
	var schemas []string
	for _, g := range grants {
		if !seen[g.Schema] {
			seen[g.Schema] = true
			schemas = append(schemas, g.Schema)
		}
	}
	sort.Strings(schemas)
	return schemas, nil
}

// TablesIn returns the table names under a schema, derived from the row
// store keys with the "schema." prefix stripped. Order is storage
// order, not sorted.
func (c *Catalog) TablesIn(ctx context.Context, schema string) ([]string, error) {
	keys, err := c.rows.Keys(ctx)
	if err != nil {
		return nil, err
	}

	prefix := schema + "."
	var tables []string
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) {
			tables = append(tables, strings.TrimPrefix(k, prefix))
		}
	}
	return tables, nil
}

// InfoFor derives metadata for one table. It always succeeds: a table
// that does not exist reports zero counts rather than an error, so
// empty catalog entries render as zero-row tables.
func (c *Catalog) InfoFor(ctx context.Context, schema, table string) (TableInfo, error) {
	key := TableKey(schema, table)
	rows, err := c.rows.Load(ctx, key)
	if err != nil {
		return TableInfo{}, err
	}

	info := TableInfo{
		Schema:   schema,
		Table:    table,
		FullName: key,
		RowCount: len(rows),
	}
	if len(rows) > 0 {
		info.ColumnCount = len(rows[0])
	}
	return info, nil
}
