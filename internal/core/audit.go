package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of action being audited.
type AuditAction string

const (
	ActionLogin    AuditAction = "login"
	ActionRegister AuditAction = "register"
	ActionReplace  AuditAction = "table_replace"
)

// AuditEntry is a single audit log record.
type AuditEntry struct {
	ID           string      `json:"id"`
	Action       AuditAction `json:"action"`
	Actor        string      `json:"actor,omitempty"` // user email
	TableKey     string      `json:"table_key,omitempty"`
	RowsAffected int         `json:"rows_affected,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// AuditLog is a bounded in-memory log of logins, registrations, and
// replaces. When the bound is exceeded the oldest entries are dropped.
type AuditLog struct {
	mu      sync.Mutex
	entries []AuditEntry
	max     int
}

// NewAuditLog returns a log that retains at most max entries.
func NewAuditLog(max int) *AuditLog {
	if max <= 0 {
		max = 1000
	}
	return &AuditLog{max: max}
}

// Record appends an entry, assigning its ID and timestamp.
func (l *AuditLog) Record(e AuditEntry) AuditEntry {
	e.ID = uuid.New().String()
	e.CreatedAt = time.Now().UTC()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, e)
	if len(l.entries) > l.max {
		l.entries = l.entries[len(l.entries)-l.max:]
	}
	return e
}

// Entries returns a copy of the log, newest first.
func (l *AuditLog) Entries() []AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]AuditEntry, len(l.entries))
	for i, e := range l.entries {
		out[len(l.entries)-1-i] = e
	}
	return out
}
