package core

import (
	"context"
	"strings"
	"sync"
)

// Verifier checks a presented credential against a user's stored secret.
// Implementations live in internal/auth; the reference behavior (a
// process-wide shared secret) and real per-user hashes both fit behind
// this interface, so swapping the mechanism never changes the Login
// contract.
type Verifier interface {
	Verify(storedSecret, credential string) bool
}

// UserStore persists users and their stored secrets. The secret never
// appears on the public User type.
type UserStore interface {
	// ByEmail looks up a user by exact email match, returning the user,
	// its stored secret, and whether it exists.
	ByEmail(ctx context.Context, email string) (User, string, bool, error)

	// Create persists a new user with the given stored secret (may be
	// empty) and returns it with its assigned sequential ID. The
	// uniqueness check and the insert share one critical section:
	// Create returns ErrDuplicateEmail if the email is already taken,
	// even under concurrent calls for the same email.
	Create(ctx context.Context, u User, secret string) (User, error)
}

// MemoryUserStore keeps users in memory, assigning IDs sequentially
// starting at 1.
type MemoryUserStore struct {
	mu    sync.Mutex
	users []User
	// secrets is indexed in step with users.
	secrets []string
}

// NewMemoryUserStore returns an empty store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{}
}

func (s *MemoryUserStore) ByEmail(_ context.Context, email string) (User, string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, u := range s.users {
		if u.Email == email {
			return u, s.secrets[i], true, nil
		}
	}
	return User{}, "", false, nil
}

func (s *MemoryUserStore) Create(_ context.Context, u User, secret string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return User{}, ErrDuplicateEmail
		}
	}
	u.ID = len(s.users) + 1
	s.users = append(s.users, u)
	s.secrets = append(s.secrets, secret)
	return u, nil
}

// Directory handles login, registration, and group listing. Groups are
// provisioned once at construction and are immutable afterwards.
type Directory struct {
	users    UserStore
	groups   []Group
	verifier Verifier
}

// NewDirectory builds a directory over the given user store and the
// provisioned group list.
func NewDirectory(users UserStore, groups []Group, verifier Verifier) *Directory {
	d := &Directory{
		users:    users,
		groups:   make([]Group, len(groups)),
		verifier: verifier,
	}
	copy(d.groups, groups)
	return d
}

// Login authenticates by exact email match and delegated credential
// verification. Unknown email, failed verification, and inactive
// accounts all return ErrInvalidCredentials so the responses are
// indistinguishable.
func (d *Directory) Login(ctx context.Context, email, credential string) (User, error) {
	u, secret, ok, err := d.users.ByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if !ok || !u.Active || !d.verifier.Verify(secret, credential) {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Register creates a user with the next sequential ID, returning
// ErrDuplicateEmail when the email is already on file. groupID 0 means
// no group. Any requested group ID is accepted as-is; there is no
// approval step before membership takes effect (see DESIGN.md). The
// group name is denormalized onto the user for display.
func (d *Directory) Register(ctx context.Context, email string, groupID int) (User, error) {
	email = strings.TrimSpace(email)
	u := User{
		Email:     email,
		Active:    true,
		GroupID:   groupID,
		GroupName: d.GroupName(groupID),
	}
	return d.users.Create(ctx, u, "")
}

// Groups returns the provisioned groups in their original order.
func (d *Directory) Groups() []Group {
	out := make([]Group, len(d.groups))
	copy(out, d.groups)
	return out
}

// GroupName returns the display name for a group ID, or "" if the ID is
// 0 or unknown.
func (d *Directory) GroupName(id int) string {
	for _, g := range d.groups {
		if g.ID == id {
			return g.Name
		}
	}
	return ""
}
