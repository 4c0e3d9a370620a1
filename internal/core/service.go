package core

import (
	"context"
	"log/slog"
	"strings"
)

// Service is the access gate: the single authorization boundary external
// callers use for data operations. It wraps the catalog, query engine,
// and row store with permission checks; the identity directory is
// exposed through it for login and registration only.
type Service struct {
	perms     PermissionStore
	rows      RowStore
	directory *Directory
	catalog   *Catalog
	engine    *QueryEngine
	audit     *AuditLog
}

// NewService wires the gate over its stores. The audit log may be nil if
// auditing is not wanted.
func NewService(perms PermissionStore, rows RowStore, directory *Directory, audit *AuditLog) *Service {
	return &Service{
		perms:     perms,
		rows:      rows,
		directory: directory,
		catalog:   NewCatalog(perms, rows),
		engine:    NewQueryEngine(rows),
		audit:     audit,
	}
}

// Login authenticates a caller and records the event.
func (s *Service) Login(ctx context.Context, email, credential string) (User, error) {
	u, err := s.directory.Login(ctx, email, credential)
	if err != nil {
		return User{}, err
	}
	s.record(AuditEntry{Action: ActionLogin, Actor: u.Email})
	return u, nil
}

// Register creates a new account. Any requested group ID takes effect
// immediately; when that group already holds grants this is effectively
// self-service privilege assignment, so it is logged at WARN.
func (s *Service) Register(ctx context.Context, email string, groupID int) (User, error) {
	u, err := s.directory.Register(ctx, email, groupID)
	if err != nil {
		return User{}, err
	}

	if groupID != 0 {
		if grants, gerr := s.perms.GrantsFor(ctx, groupID); gerr == nil && len(grants) > 0 {
			slog.Warn("registration self-assigned a privileged group",
				"email", u.Email,
				"group_id", groupID,
				"grants", len(grants),
			)
		}
	}
	s.record(AuditEntry{Action: ActionRegister, Actor: u.Email})
	return u, nil
}

// ListGroups lists the provisioned groups.
func (s *Service) ListGroups() []Group {
	return s.directory.Groups()
}

// ListAccessibleSchemas returns the schemas the caller may see, sorted.
// Empty (not an error) for callers with no group.
func (s *Service) ListAccessibleSchemas(ctx context.Context, caller User) ([]string, error) {
	return s.catalog.AccessibleSchemas(ctx, caller)
}

// ListTables lists the tables in a schema the caller can read.
func (s *Service) ListTables(ctx context.Context, caller User, schema string) ([]string, error) {
	if err := s.requireRead(ctx, caller, schema); err != nil {
		return nil, err
	}
	return s.catalog.TablesIn(ctx, schema)
}

// GetTableInfo returns derived metadata for a readable table. A table
// that does not exist reports zero counts, not an error.
func (s *Service) GetTableInfo(ctx context.Context, caller User, schema, table string) (TableInfo, error) {
	if err := s.requireRead(ctx, caller, schema); err != nil {
		return TableInfo{}, err
	}
	return s.catalog.InfoFor(ctx, schema, table)
}

// Query returns one page of a readable table, after validating the
// filter text. The engine itself does not re-validate.
func (s *Service) Query(ctx context.Context, caller User, schema, table string, page int, filter string) (*QueryResult, error) {
	if err := s.requireRead(ctx, caller, schema); err != nil {
		return nil, err
	}
	if err := ValidateFilter(filter); err != nil {
		return nil, err
	}
	return s.engine.Query(ctx, schema, table, page, filter)
}

// Replace atomically swaps a table's entire row sequence. Requires
// write access; there is no per-row validation or shape checking
// against the previous content.
func (s *Service) Replace(ctx context.Context, caller User, schema, table string, rows []Row) error {
	ok, err := s.CanWrite(ctx, caller, schema)
	if err != nil {
		return err
	}
	if !ok {
		return &ForbiddenError{Schema: schema}
	}

	key := TableKey(schema, table)
	if err := s.rows.Replace(ctx, key, rows); err != nil {
		return err
	}
	s.record(AuditEntry{
		Action:       ActionReplace,
		Actor:        caller.Email,
		TableKey:     key,
		RowsAffected: len(rows),
	})
	return nil
}

// CanRead reports whether any grant exists for the caller's group on the
// schema. False for callers with no group.
func (s *Service) CanRead(ctx context.Context, caller User, schema string) (bool, error) {
	if caller.GroupID == 0 {
		return false, nil
	}
	_, ok, err := s.perms.PermissionFor(ctx, caller.GroupID, schema)
	return ok, err
}

// CanWrite reports whether the caller's group holds WRITE or ADMIN on
// the schema. Fail-closed: no group or no record means false.
func (s *Service) CanWrite(ctx context.Context, caller User, schema string) (bool, error) {
	if caller.GroupID == 0 {
		return false, nil
	}
	level, ok, err := s.perms.PermissionFor(ctx, caller.GroupID, schema)
	if err != nil || !ok {
		return false, err
	}
	return level.AllowsWrite(), nil
}

// AuditEntries returns the full audit log, newest first. It is
// unfiltered and meant for operators; anything caller-facing goes
// through AuditEntriesFor.
func (s *Service) AuditEntries() []AuditEntry {
	if s.audit == nil {
		return nil
	}
	return s.audit.Entries()
}

// AuditEntriesFor returns the slice of the audit log the caller may
// see, newest first: replace events on tables in schemas the caller's
// group can read, plus the caller's own login and registration events.
// Other actors' identity events and tables outside the caller's grants
// stay hidden, so the log leaks neither emails nor table keys.
func (s *Service) AuditEntriesFor(ctx context.Context, caller User) ([]AuditEntry, error) {
	if s.audit == nil {
		return nil, nil
	}
	schemas, err := s.catalog.AccessibleSchemas(ctx, caller)
	if err != nil {
		return nil, err
	}
	readable := make(map[string]bool, len(schemas))
	for _, schema := range schemas {
		readable[schema] = true
	}

	var out []AuditEntry
	for _, e := range s.audit.Entries() {
		switch e.Action {
		case ActionReplace:
			schema, _, ok := strings.Cut(e.TableKey, ".")
			if ok && readable[schema] {
				out = append(out, e)
			}
		default:
			if e.Actor == caller.Email {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func (s *Service) requireRead(ctx context.Context, caller User, schema string) error {
	ok, err := s.CanRead(ctx, caller, schema)
	if err != nil {
		return err
	}
	if !ok {
		return &ForbiddenError{Schema: schema}
	}
	return nil
}

func (s *Service) record(e AuditEntry) {
	if s.audit != nil {
		s.audit.Record(e)
	}
}
