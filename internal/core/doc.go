// Package core implements the permission-gated query and mutation layer
// over named tabular resources. It contains all domain logic independent
// of any transport, and can be driven by web handlers, CLI tools, or
// tests without modification.
//
// # Architecture
//
// The package is organized around a few key pieces:
//
//   - Stores: [PermissionStore], [UserStore], and [RowStore] hold the
//     grant set, the user directory, and table rows. In-memory
//     implementations live here; a durable postgres implementation lives
//     in internal/store/postgres.
//   - Directory: login, registration, and group listing.
//   - Catalog: schema/table enumeration and derived table metadata.
//   - QueryEngine: substring filtering and fixed-size pagination.
//   - Service: the access gate. Every external data operation goes
//     through it, and it is the only place authorization is checked.
//
// # Authorization
//
// Access is granted per (group, schema) pair. A user with no group has no
// access to anything; absence of a grant means no access. READ grants
// visibility, WRITE and ADMIN additionally authorize mutation. The
// [Service] enforces these checks before touching the catalog, the query
// engine, or the row store; calling those components directly bypasses
// authorization and is not a supported path.
//
// # Error Handling
//
// Domain failures are typed ([ForbiddenError], [FilterError]) or sentinel
// errors ([ErrInvalidCredentials], [ErrDuplicateEmail]). [MapError]
// translates them to user-facing messages with stable codes for support
// reference.
package core
