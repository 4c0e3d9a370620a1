package core

import (
	"context"
	"reflect"
	"testing"
)

func TestAccessibleSchemas_SortedAndDeduplicated(t *testing.T) {
	store := NewMemoryPermissionStore([]SchemaPermission{
		{GroupID: 1, Schema: "zeta", Level: LevelRead},
		{GroupID: 1, Schema: "alpha", Level: LevelWrite},
		{GroupID: 1, Schema: "zeta", Level: LevelAdmin}, // duplicate schema
		{GroupID: 1, Schema: "mid", Level: LevelRead},
		{GroupID: 9, Schema: "other", Level: LevelAdmin}, // different group
	})
	catalog := NewCatalog(store, NewMemoryRowStore())

	got, err := catalog.AccessibleSchemas(context.Background(), User{ID: 1, GroupID: 1})
	if err != nil {
		t.Fatalf("AccessibleSchemas: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("schemas = %v, want %v", got, want)
	}
}

func TestAccessibleSchemas_NoGroup(t *testing.T) {
	store := NewMemoryPermissionStore([]SchemaPermission{
		{GroupID: 1, Schema: "sales", Level: LevelAdmin},
	})
	catalog := NewCatalog(store, NewMemoryRowStore())

	got, err := catalog.AccessibleSchemas(context.Background(), User{ID: 7})
	if err != nil {
		t.Fatalf("AccessibleSchemas: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("user with no group got schemas %v, want none", got)
	}
}

func TestAccessibleSchemas_ReadIsEnoughForVisibility(t *testing.T) {
	store := NewMemoryPermissionStore([]SchemaPermission{
		{GroupID: 2, Schema: "sales", Level: LevelRead},
	})
	catalog := NewCatalog(store, NewMemoryRowStore())

	got, err := catalog.AccessibleSchemas(context.Background(), User{ID: 1, GroupID: 2})
	if err != nil {
		t.Fatalf("AccessibleSchemas: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"sales"}) {
		t.Errorf("schemas = %v, want [sales]", got)
	}
}

func TestTablesIn_PrefixStripped(t *testing.T) {
	rows := NewMemoryRowStore()
	ctx := context.Background()
	rows.Replace(ctx, "sales.orders", nil)
	rows.Replace(ctx, "sales.customers", nil)
	rows.Replace(ctx, "finance.ledger", nil)
	rows.Replace(ctx, "salesx.bogus", nil) // prefix must include the dot

	catalog := NewCatalog(NewMemoryPermissionStore(nil), rows)

	got, err := catalog.TablesIn(ctx, "sales")
	if err != nil {
		t.Fatalf("TablesIn: %v", err)
	}
	want := []string{"orders", "customers"} // storage order, not sorted
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tables = %v, want %v", got, want)
	}
}

func TestInfoFor_MissingTableIsZeroValued(t *testing.T) {
	catalog := NewCatalog(NewMemoryPermissionStore(nil), NewMemoryRowStore())

	info, err := catalog.InfoFor(context.Background(), "sales", "ghost")
	if err != nil {
		t.Fatalf("InfoFor must not fail for a missing table: %v", err)
	}
	if info.RowCount != 0 || info.ColumnCount != 0 {
		t.Errorf("counts = %d/%d, want 0/0", info.RowCount, info.ColumnCount)
	}
	if info.FullName != "sales.ghost" {
		t.Errorf("full_name = %q, want sales.ghost", info.FullName)
	}
}

func TestInfoFor_ColumnCountFromFirstRow(t *testing.T) {
	rows := NewMemoryRowStore()
	ctx := context.Background()
	rows.Replace(ctx, "s.t", []Row{
		{"a": 1, "b": 2, "c": 3},
		{"a": 1}, // rows need not be uniform; the first is representative
	})

	catalog := NewCatalog(NewMemoryPermissionStore(nil), rows)
	info, err := catalog.InfoFor(ctx, "s", "t")
	if err != nil {
		t.Fatalf("InfoFor: %v", err)
	}
	if info.RowCount != 2 {
		t.Errorf("row_count = %d, want 2", info.RowCount)
	}
	if info.ColumnCount != 3 {
		t.Errorf("column_count = %d, want 3", info.ColumnCount)
	}
}
