package core

// PermissionLevel is the grant strength for a (group, schema) pair.
type PermissionLevel string

const (
	LevelRead  PermissionLevel = "READ"
	LevelWrite PermissionLevel = "WRITE"
	LevelAdmin PermissionLevel = "ADMIN"
)

// Valid reports whether l is one of the known levels.
func (l PermissionLevel) Valid() bool {
	return l == LevelRead || l == LevelWrite || l == LevelAdmin
}

// AllowsWrite reports whether the level authorizes mutation.
// READ does not; WRITE and ADMIN do.
func (l PermissionLevel) AllowsWrite() bool {
	return l == LevelWrite || l == LevelAdmin
}

// Group is a named role. Users belong to at most one group, and schema
// permissions are granted to groups, never to individual users.
type Group struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// User is an authenticated caller identity. GroupID is 0 for users with
// no group; such users have no schema access. GroupName is denormalized
// for display at registration time and is not re-validated afterwards.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Active    bool   `json:"active"`
	GroupID   int    `json:"group_id,omitempty"`
	GroupName string `json:"group_name,omitempty"`
}

// SchemaPermission grants a group a permission level on one schema.
type SchemaPermission struct {
	GroupID int             `json:"group_id"`
	Schema  string          `json:"schema"`
	Level   PermissionLevel `json:"level"`
}

// Row is a single table row, keyed by column name. Rows in one table are
// not required to share a column set; table metadata treats the first
// row as representative.
type Row map[string]any

// TableKey joins schema and table into the row store key, e.g.
// "sales.orders".
func TableKey(schema, table string) string {
	return schema + "." + table
}

// TableInfo is derived metadata about one table. ColumnCount is the
// field count of the table's first row, or 0 for an empty or missing
// table.
type TableInfo struct {
	Schema      string `json:"schema"`
	Table       string `json:"table"`
	FullName    string `json:"full_name"`
	RowCount    int    `json:"row_count"`
	ColumnCount int    `json:"column_count"`
}

// QueryResult is one page of filtered table data plus pagination
// metadata. RowCount is the number of rows in this page; TotalRows is
// the filtered total across all pages.
type QueryResult struct {
	Rows       []Row `json:"rows"`
	RowCount   int   `json:"row_count"`
	TotalRows  int   `json:"total_rows"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}
