package core

import (
	"context"
	"testing"
)

func TestPermissionFor_AbsenceMeansNone(t *testing.T) {
	store := NewMemoryPermissionStore([]SchemaPermission{
		{GroupID: 1, Schema: "sales", Level: LevelRead},
	})

	if _, ok, _ := store.PermissionFor(context.Background(), 2, "sales"); ok {
		t.Error("expected no record for group 2")
	}
	if _, ok, _ := store.PermissionFor(context.Background(), 1, "finance"); ok {
		t.Error("expected no record for schema finance")
	}
}

func TestPermissionFor_FirstMatchWins(t *testing.T) {
	// Duplicate records for the same pair are legal in the memory store;
	// the first in storage order governs.
	store := NewMemoryPermissionStore([]SchemaPermission{
		{GroupID: 1, Schema: "sales", Level: LevelRead},
		{GroupID: 1, Schema: "sales", Level: LevelAdmin},
	})

	level, ok, err := store.PermissionFor(context.Background(), 1, "sales")
	if err != nil {
		t.Fatalf("PermissionFor: %v", err)
	}
	if !ok {
		t.Fatal("expected a record")
	}
	if level != LevelRead {
		t.Errorf("level = %s, want %s (first record)", level, LevelRead)
	}
}

func TestGrantsFor_StorageOrder(t *testing.T) {
	grants := []SchemaPermission{
		{GroupID: 1, Schema: "zeta", Level: LevelRead},
		{GroupID: 2, Schema: "alpha", Level: LevelWrite},
		{GroupID: 1, Schema: "alpha", Level: LevelWrite},
	}
	store := NewMemoryPermissionStore(grants)

	got, err := store.GrantsFor(context.Background(), 1)
	if err != nil {
		t.Fatalf("GrantsFor: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Schema != "zeta" || got[1].Schema != "alpha" {
		t.Errorf("order = [%s %s], want [zeta alpha]", got[0].Schema, got[1].Schema)
	}
}

func TestPermissionLevel_AllowsWrite(t *testing.T) {
	if LevelRead.AllowsWrite() {
		t.Error("READ must not allow write")
	}
	if !LevelWrite.AllowsWrite() {
		t.Error("WRITE must allow write")
	}
	if !LevelAdmin.AllowsWrite() {
		t.Error("ADMIN must allow write")
	}
}
