package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"tablegate/internal/core"
)

const sampleSeed = `
groups:
  - id: 1
    name: analysts
    description: read-only access to reporting schemas
  - id: 2
    name: operators

grants:
  - group_id: 1
    schema: sales
    level: read
  - group_id: 2
    schema: sales
    level: WRITE
  - group_id: 2
    schema: finance
    level: admin

users:
  - email: ops@example.com
    password: hunter2
    group_id: 2
  - email: legacy@example.com
    group_id: 1

tables:
  - name: sales.orders
    rows:
      - id: 1
        customer: acme
      - id: 2
        customer: globex
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func TestLoad_ParsesAndNormalizes(t *testing.T) {
	f, err := Load(writeSeed(t, sampleSeed))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(f.Groups) != 2 || len(f.Grants) != 3 || len(f.Users) != 2 || len(f.Tables) != 1 {
		t.Fatalf("unexpected counts: %d groups, %d grants, %d users, %d tables",
			len(f.Groups), len(f.Grants), len(f.Users), len(f.Tables))
	}

	perms := f.Permissions()
	if perms[0].Level != core.LevelRead {
		t.Errorf("level = %s, want READ (lowercase input normalized)", perms[0].Level)
	}
	if perms[2].Level != core.LevelAdmin {
		t.Errorf("level = %s, want ADMIN", perms[2].Level)
	}

	groups := f.CoreGroups()
	if groups[0].Name != "analysts" || groups[0].ID != 1 {
		t.Errorf("group = %+v", groups[0])
	}
}

func TestLoad_RejectsUnknownLevel(t *testing.T) {
	bad := `
groups:
  - id: 1
    name: g
grants:
  - group_id: 1
    schema: s
    level: OWNER
`
	if _, err := Load(writeSeed(t, bad)); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestLoad_RejectsGrantForUnknownGroup(t *testing.T) {
	bad := `
groups:
  - id: 1
    name: g
grants:
  - group_id: 9
    schema: s
    level: READ
`
	if _, err := Load(writeSeed(t, bad)); err == nil {
		t.Fatal("expected error for unknown group id")
	}
}

func TestLoad_RejectsBadTableName(t *testing.T) {
	bad := `
tables:
  - name: no-dot
`
	if _, err := Load(writeSeed(t, bad)); err == nil {
		t.Fatal("expected error for table name without schema")
	}
}

func TestApply_ProvisionsUsersAndTables(t *testing.T) {
	f, err := Load(writeSeed(t, sampleSeed))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	ctx := context.Background()
	users := core.NewMemoryUserStore()
	rows := core.NewMemoryRowStore()
	groupName := func(id int) string {
		if id == 2 {
			return "operators"
		}
		return ""
	}

	if err := f.Apply(ctx, users, rows, groupName); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	u, secret, ok, err := users.ByEmail(ctx, "ops@example.com")
	if err != nil || !ok {
		t.Fatalf("seeded user missing: ok=%v err=%v", ok, err)
	}
	if u.ID != 1 || !u.Active || u.GroupName != "operators" {
		t.Errorf("user = %+v", u)
	}
	if secret == "" || secret == "hunter2" {
		t.Errorf("password must be stored hashed, got %q", secret)
	}

	_, secret, ok, _ = users.ByEmail(ctx, "legacy@example.com")
	if !ok || secret != "" {
		t.Errorf("passwordless user must have empty secret, got %q", secret)
	}

	loaded, err := rows.Load(ctx, "sales.orders")
	if err != nil {
		t.Fatalf("Load rows: %v", err)
	}
	if len(loaded) != 2 || loaded[0]["customer"] != "acme" {
		t.Errorf("rows = %v", loaded)
	}
}

func TestApply_Idempotent(t *testing.T) {
	f, err := Load(writeSeed(t, sampleSeed))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	ctx := context.Background()
	users := core.NewMemoryUserStore()
	rows := core.NewMemoryRowStore()
	noName := func(int) string { return "" }

	if err := f.Apply(ctx, users, rows, noName); err != nil {
		t.Fatalf("first Apply: %v", err)
	}

	// Mutate a seeded table, then re-apply: existing data must survive.
	if err := rows.Replace(ctx, "sales.orders", []core.Row{{"id": 99}}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := f.Apply(ctx, users, rows, noName); err != nil {
		t.Fatalf("second Apply: %v", err)
	}

	loaded, _ := rows.Load(ctx, "sales.orders")
	if len(loaded) != 1 || loaded[0]["id"] != 99 {
		t.Errorf("re-apply overwrote live data: %v", loaded)
	}

	u, _, _, _ := users.ByEmail(ctx, "ops@example.com")
	if u.ID != 1 {
		t.Errorf("re-apply duplicated users: id = %d", u.ID)
	}
}
