package core

import (
	"context"
	"sync"
)

// PermissionStore holds the group-to-schema grant set. Grants are
// provisioned out-of-band (seed file or direct inserts); no mutation
// operation is part of this interface.
type PermissionStore interface {
	// PermissionFor returns the grant level for (groupID, schema) and
	// whether any record exists. If duplicate records exist for the
	// pair, the first in storage order wins.
	PermissionFor(ctx context.Context, groupID int, schema string) (PermissionLevel, bool, error)

	// GrantsFor returns all permission records for a group in storage
	// order. The result may contain several records per schema.
	GrantsFor(ctx context.Context, groupID int) ([]SchemaPermission, error)
}

// MemoryPermissionStore keeps the grant set in a slice, preserving the
// provisioning order. It deliberately does not enforce uniqueness per
// (group, schema): duplicates are resolved by the documented
// first-match-wins scan in PermissionFor.
type MemoryPermissionStore struct {
	mu     sync.RWMutex
	grants []SchemaPermission
}

// NewMemoryPermissionStore builds a store from the provisioned grants.
func NewMemoryPermissionStore(grants []SchemaPermission) *MemoryPermissionStore {
	s := &MemoryPermissionStore{
		grants: make([]SchemaPermission, len(grants)),
	}
	copy(s.grants, grants)
	return s
}

// PermissionFor scans the grants in storage order and returns the first
// record matching (groupID, schema).
func (s *MemoryPermissionStore) PermissionFor(_ context.Context, groupID int, schema string) (PermissionLevel, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.grants {
		if g.GroupID == groupID && g.Schema == schema {
			return g.Level, true, nil
		}
	}
	return "", false, nil
}

// GrantsFor returns the group's records in storage order.
func (s *MemoryPermissionStore) GrantsFor(_ context.Context, groupID int) ([]SchemaPermission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []SchemaPermission
	for _, g := range s.grants {
		if g.GroupID == groupID {
			out = append(out, g)
		}
	}
	return out, nil
}
