package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tablegate/internal/core"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

type loginRequest struct {
	Email      string `json:"email"`
	Credential string `json:"credential"`
}

type sessionResponse struct {
	Token string    `json:"token"`
	User  core.User `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.service.Login(r.Context(), req.Email, req.Credential)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, sessionResponse{Token: s.sessions.Issue(user), User: user})
}

type registerRequest struct {
	Email   string `json:"email"`
	GroupID int    `json:"group_id,omitempty"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	user, err := s.service.Register(r.Context(), req.Email, req.GroupID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, sessionResponse{Token: s.sessions.Issue(user), User: user})
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.ListGroups())
}

func (s *Server) handleSchemas(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no caller identity")
		return
	}

	schemas, err := s.service.ListAccessibleSchemas(r.Context(), caller)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if schemas == nil {
		schemas = []string{}
	}
	writeJSON(w, schemas)
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no caller identity")
		return
	}

	tables, err := s.service.ListTables(r.Context(), caller, chi.URLParam(r, "schema"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if tables == nil {
		tables = []string{}
	}
	writeJSON(w, tables)
}

func (s *Server) handleTableInfo(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no caller identity")
		return
	}

	info, err := s.service.GetTableInfo(r.Context(), caller,
		chi.URLParam(r, "schema"), chi.URLParam(r, "table"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, info)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no caller identity")
		return
	}

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		page = n
	}

	result, err := s.service.Query(r.Context(), caller,
		chi.URLParam(r, "schema"), chi.URLParam(r, "table"),
		page, r.URL.Query().Get("filter"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, result)
}

type replaceRequest struct {
	Rows []core.Row `json:"rows"`
}

type replaceResponse struct {
	Table    string `json:"table"`
	RowCount int    `json:"row_count"`
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no caller identity")
		return
	}

	var req replaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	schema := chi.URLParam(r, "schema")
	table := chi.URLParam(r, "table")
	if err := s.service.Replace(r.Context(), caller, schema, table, req.Rows); err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, replaceResponse{
		Table:    core.TableKey(schema, table),
		RowCount: len(req.Rows),
	})
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no caller identity")
		return
	}

	entries, err := s.service.AuditEntriesFor(r.Context(), caller)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if entries == nil {
		entries = []core.AuditEntry{}
	}
	writeJSON(w, entries)
}
