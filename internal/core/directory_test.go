package core

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// staticVerifier accepts one credential for every user, standing in for
// the pluggable verifier in internal/auth.
type staticVerifier struct {
	credential string
}

func (v staticVerifier) Verify(_, credential string) bool {
	return credential == v.credential
}

func testGroups() []Group {
	return []Group{
		{ID: 1, Name: "analysts", Description: "read-only analysts"},
		{ID: 2, Name: "operators"},
	}
}

func newTestDirectory() *Directory {
	return NewDirectory(NewMemoryUserStore(), testGroups(), staticVerifier{credential: "sesame"})
}

func TestRegister_SequentialIDs(t *testing.T) {
	d := newTestDirectory()
	ctx := context.Background()

	first, err := d.Register(ctx, "a@x.com", 1)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	second, err := d.Register(ctx, "b@x.com", 0)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if first.ID != 1 || second.ID != 2 {
		t.Errorf("ids = %d, %d, want 1, 2", first.ID, second.ID)
	}
	if !first.Active {
		t.Error("registered user must start active")
	}
	if first.GroupName != "analysts" {
		t.Errorf("group name = %q, want analysts", first.GroupName)
	}
	if second.GroupID != 0 || second.GroupName != "" {
		t.Errorf("ungrouped user got group %d/%q", second.GroupID, second.GroupName)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	d := newTestDirectory()
	ctx := context.Background()

	if _, err := d.Register(ctx, "a@x.com", 0); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := d.Register(ctx, "a@x.com", 0)
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("second Register = %v, want ErrDuplicateEmail", err)
	}
}

func TestRegister_ConcurrentSameEmail(t *testing.T) {
	d := newTestDirectory()
	ctx := context.Background()

	const attempts = 8
	start := make(chan struct{})
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := d.Register(ctx, "a@x.com", 1)
			results <- err
		}()
	}
	close(start)
	wg.Wait()
	close(results)

	var wins, dups int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrDuplicateEmail):
			dups++
		default:
			t.Errorf("Register: %v", err)
		}
	}
	if wins != 1 || dups != attempts-1 {
		t.Errorf("wins = %d, dups = %d, want 1 and %d", wins, dups, attempts-1)
	}

	// Losing attempts must not have consumed IDs.
	u, err := d.Register(ctx, "b@x.com", 0)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.ID != 2 {
		t.Errorf("next id = %d, want 2", u.ID)
	}
}

func TestRegister_UnknownGroupAccepted(t *testing.T) {
	// Any requested group id is accepted without an approval step.
	d := newTestDirectory()

	u, err := d.Register(context.Background(), "a@x.com", 99)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.GroupID != 99 {
		t.Errorf("group id = %d, want 99", u.GroupID)
	}
	if u.GroupName != "" {
		t.Errorf("unknown group must have empty name, got %q", u.GroupName)
	}
}

func TestLogin(t *testing.T) {
	d := newTestDirectory()
	ctx := context.Background()

	if _, err := d.Register(ctx, "a@x.com", 1); err != nil {
		t.Fatalf("Register: %v", err)
	}

	u, err := d.Login(ctx, "a@x.com", "sesame")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.Email != "a@x.com" || u.GroupID != 1 {
		t.Errorf("user = %+v", u)
	}

	if _, err := d.Login(ctx, "a@x.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong credential: %v, want ErrInvalidCredentials", err)
	}
	if _, err := d.Login(ctx, "nobody@x.com", "sesame"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_InactiveUser(t *testing.T) {
	users := NewMemoryUserStore()
	d := NewDirectory(users, testGroups(), staticVerifier{credential: "sesame"})

	if _, err := users.Create(context.Background(), User{Email: "gone@x.com", Active: false}, ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := d.Login(context.Background(), "gone@x.com", "sesame")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("inactive login = %v, want ErrInvalidCredentials", err)
	}
}

func TestGroups_Listing(t *testing.T) {
	d := newTestDirectory()

	groups := d.Groups()
	if len(groups) != 2 {
		t.Fatalf("len = %d, want 2", len(groups))
	}
	if groups[0].Name != "analysts" || groups[1].Name != "operators" {
		t.Errorf("groups = %v", groups)
	}

	// The returned slice is a copy
	groups[0].Name = "mutated"
	if d.Groups()[0].Name != "analysts" {
		t.Error("Groups must return a copy")
	}
}
