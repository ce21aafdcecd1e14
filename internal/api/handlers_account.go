package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/stash-tracker/internal/service"
)

// handleGetAccount handles GET /api/accounts/{name} - Get account by name
func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Account name required", nil)
		return
	}

	account, err := s.accountService.GetAccount(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, account)
}

// handleGetConnection handles GET /api/accounts/{name}/connection - Get the
// account's registered connection
func (s *Server) handleGetConnection(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Account name required", nil)
		return
	}

	connection, err := s.accountService.GetConnection(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, connection)
}

// handleAddAccount handles POST /api/accounts - Register a new account
func (s *Server) handleAddAccount(w http.ResponseWriter, r *http.Request) {
	var model service.AccountModel
	if err := parseJSONBody(r, &model); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	account, err := s.accountService.AddAccount(r.Context(), &model)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, account)
}

// handleEditAccount handles PUT /api/accounts/{name} - Edit an account,
// merging its profile list
func (s *Server) handleEditAccount(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var model service.AccountModel
	if err := parseJSONBody(r, &model); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	// The path segment is authoritative for the lookup key
	model.Name = name

	account, err := s.accountService.EditAccount(r.Context(), &model)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, account)
}

// handleRemoveAccount handles DELETE /api/accounts/{name} - Remove an
// account and everything it owns
func (s *Server) handleRemoveAccount(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	account, err := s.accountService.RemoveAccount(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, account)
}
