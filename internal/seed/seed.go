// Package seed loads startup provisioning data from a YAML file:
// groups, schema grants, optional users, and initial table rows. Grants
// have no runtime mutation API, so the seed file is how they are
// provisioned out-of-band.
package seed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"tablegate/internal/auth"
	"tablegate/internal/core"
)

// File is the parsed seed document.
type File struct {
	Groups []Group `yaml:"groups"`
	Grants []Grant `yaml:"grants"`
	Users  []User  `yaml:"users"`
	Tables []Table `yaml:"tables"`
}

// Group mirrors core.Group for YAML decoding.
type Group struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Grant is one (group, schema, level) permission record. Records keep
// their file order: if a pair is granted twice, the first record wins at
// lookup time.
type Grant struct {
	GroupID int    `yaml:"group_id"`
	Schema  string `yaml:"schema"`
	Level   string `yaml:"level"`
}

// User is a provisioned account. Password, when set, is bcrypt-hashed
// before storage; users without one authenticate with the shared secret.
type User struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	GroupID  int    `yaml:"group_id"`
	Inactive bool   `yaml:"inactive"`
}

// Table is an initial table with its rows. Name must be "schema.table".
type Table struct {
	Name string           `yaml:"name"`
	Rows []map[string]any `yaml:"rows"`
}

// Load reads and validates a seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return &f, nil
}

func (f *File) validate() error {
	ids := make(map[int]bool, len(f.Groups))
	for _, g := range f.Groups {
		if g.ID <= 0 {
			return fmt.Errorf("group %q: id must be positive", g.Name)
		}
		if ids[g.ID] {
			return fmt.Errorf("duplicate group id %d", g.ID)
		}
		ids[g.ID] = true
	}

	for i, gr := range f.Grants {
		level := core.PermissionLevel(strings.ToUpper(gr.Level))
		if !level.Valid() {
			return fmt.Errorf("grant %d: unknown level %q (want READ, WRITE, or ADMIN)", i, gr.Level)
		}
		if gr.Schema == "" {
			return fmt.Errorf("grant %d: schema is required", i)
		}
		if !ids[gr.GroupID] {
			return fmt.Errorf("grant %d: unknown group id %d", i, gr.GroupID)
		}
	}

	for i, t := range f.Tables {
		if !strings.Contains(t.Name, ".") {
			return fmt.Errorf("table %d: name %q must be schema.table", i, t.Name)
		}
	}
	return nil
}

// CoreGroups converts the declared groups for the directory.
func (f *File) CoreGroups() []core.Group {
	out := make([]core.Group, len(f.Groups))
	for i, g := range f.Groups {
		out[i] = core.Group{ID: g.ID, Name: g.Name, Description: g.Description}
	}
	return out
}

// Permissions converts the declared grants, preserving file order.
func (f *File) Permissions() []core.SchemaPermission {
	out := make([]core.SchemaPermission, len(f.Grants))
	for i, g := range f.Grants {
		out[i] = core.SchemaPermission{
			GroupID: g.GroupID,
			Schema:  g.Schema,
			Level:   core.PermissionLevel(strings.ToUpper(g.Level)),
		}
	}
	return out
}

// Apply provisions seeded users and table rows. It is idempotent:
// existing users are left alone and tables that already hold rows are
// not overwritten, so a durable backend survives restarts intact.
func (f *File) Apply(ctx context.Context, users core.UserStore, rows core.RowStore, groupName func(int) string) error {
	for _, su := range f.Users {
		if _, _, exists, err := users.ByEmail(ctx, su.Email); err != nil {
			return fmt.Errorf("seed user %s: %w", su.Email, err)
		} else if exists {
			continue
		}

		secret := ""
		if su.Password != "" {
			h, err := auth.HashCredential(su.Password)
			if err != nil {
				return fmt.Errorf("seed user %s: %w", su.Email, err)
			}
			secret = h
		}

		u := core.User{
			Email:     su.Email,
			Active:    !su.Inactive,
			GroupID:   su.GroupID,
			GroupName: groupName(su.GroupID),
		}
		if _, err := users.Create(ctx, u, secret); err != nil {
			return fmt.Errorf("seed user %s: %w", su.Email, err)
		}
	}

	for _, t := range f.Tables {
		existing, err := rows.Load(ctx, t.Name)
		if err != nil {
			return fmt.Errorf("seed table %s: %w", t.Name, err)
		}
		if len(existing) > 0 {
			continue
		}

		seeded := make([]core.Row, len(t.Rows))
		for i, r := range t.Rows {
			seeded[i] = core.Row(r)
		}
		if err := rows.Replace(ctx, t.Name, seeded); err != nil {
			return fmt.Errorf("seed table %s: %w", t.Name, err)
		}
	}
	return nil
}
