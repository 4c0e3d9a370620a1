package core

import (
	"context"
	"fmt"
	"strings"
)

// PageSize is the fixed number of rows per result page.
const PageSize = 50

// QueryEngine applies filtering and pagination to a table's rows. It
// trusts its input: filter text must already have passed ValidateFilter,
// and authorization is the Service's job.
type QueryEngine struct {
	rows RowStore
}

// NewQueryEngine builds an engine over the row store.
func NewQueryEngine(rows RowStore) *QueryEngine {
	return &QueryEngine{rows: rows}
}

// Query returns one page of a table's rows, optionally filtered.
//
// The filter is a whole-row substring match: a row is kept iff any of
// its values, rendered as text and lower-cased, contains the lower-cased
// filter text. There is no column targeting and there are no operators;
// this crude matching is the contract, not a placeholder for predicate
// evaluation.
//
// A missing table yields an empty result, and a page beyond the last
// yields an empty row slice with TotalRows unchanged. Rows are never
// reordered: insertion order survives both filtering and slicing.
func (q *QueryEngine) Query(ctx context.Context, schema, table string, page int, filter string) (*QueryResult, error) {
	all, err := q.rows.Load(ctx, TableKey(schema, table))
	if err != nil {
		return nil, err
	}

	matched := all
	if filter != "" {
		needle := strings.ToLower(filter)
		matched = make([]Row, 0, len(all))
		for _, row := range all {
			if rowMatches(row, needle) {
				matched = append(matched, row)
			}
		}
	}

	total := len(matched)
	totalPages := (total + PageSize - 1) / PageSize
	if page < 1 {
		page = 1
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	pageRows := make([]Row, end-start)
	copy(pageRows, matched[start:end])

	return &QueryResult{
		Rows:       pageRows,
		RowCount:   len(pageRows),
		TotalRows:  total,
		Page:       page,
		PageSize:   PageSize,
		TotalPages: totalPages,
	}, nil
}

// rowMatches reports whether any field value contains needle.
// needle must already be lower-cased.
func rowMatches(row Row, needle string) bool {
	for _, v := range row {
		if strings.Contains(strings.ToLower(fmt.Sprint(v)), needle) {
			return true
		}
	}
	return false
}
