package web

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tablegate/internal/core"
)

// sessionStore holds issued bearer tokens in memory. A session is a
// snapshot of the user at login time; it expires after the configured
// TTL and is replaced by logging in again.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]session
	ttl      time.Duration
}

type session struct {
	user    core.User
	expires time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	st := &sessionStore{
		sessions: make(map[string]session),
		ttl:      ttl,
	}
	go st.cleanup()
	return st
}

// Issue creates a token for an authenticated user.
func (st *sessionStore) Issue(u core.User) string {
	token := uuid.New().String()

	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[token] = session{user: u, expires: time.Now().Add(st.ttl)}
	return token
}

// Resolve returns the caller identity for a token, if valid and fresh.
func (st *sessionStore) Resolve(token string) (core.User, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	sess, ok := st.sessions[token]
	if !ok || time.Now().After(sess.expires) {
		return core.User{}, false
	}
	return sess.user, true
}

// cleanup drops expired sessions every minute.
func (st *sessionStore) cleanup() {
	for {
		time.Sleep(time.Minute)
		now := time.Now()
		st.mu.Lock()
		for token, sess := range st.sessions {
			if now.After(sess.expires) {
				delete(st.sessions, token)
			}
		}
		st.mu.Unlock()
	}
}

type contextKey string

const ctxKeyCaller contextKey = "caller"

// requireSession resolves the Authorization bearer token to the caller
// identity the core expects, rejecting requests without a valid session.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		caller, ok := s.sessions.Resolve(token)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyCaller, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// callerFrom returns the authenticated caller stored by requireSession.
func callerFrom(ctx context.Context) (core.User, bool) {
	u, ok := ctx.Value(ctxKeyCaller).(core.User)
	return u, ok
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
