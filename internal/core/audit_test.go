package core

import "testing"

func TestAuditLog_BoundedAndNewestFirst(t *testing.T) {
	log := NewAuditLog(3)

	for _, actor := range []string{"a", "b", "c", "d"} {
		log.Record(AuditEntry{Action: ActionLogin, Actor: actor})
	}

	entries := log.Entries()
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3 (oldest dropped)", len(entries))
	}
	if entries[0].Actor != "d" || entries[2].Actor != "b" {
		t.Errorf("order = [%s %s %s], want [d c b]",
			entries[0].Actor, entries[1].Actor, entries[2].Actor)
	}
	for _, e := range entries {
		if e.ID == "" || e.CreatedAt.IsZero() {
			t.Errorf("entry missing id or timestamp: %+v", e)
		}
	}
}
