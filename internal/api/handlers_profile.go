package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/stash-tracker/internal/service"
)

// handleProfileExists handles POST /api/accounts/{name}/profiles/exists -
// Idempotent probe for a profile's presence under the account
func (s *Server) handleProfileExists(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var model service.SnapshotProfileModel
	if err := parseJSONBody(r, &model); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	profile, err := s.profileService.ProfileExists(r.Context(), name, model)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// handleGetProfile handles GET /api/profiles/{clientId} - Get a profile by
// client identifier
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	clientID := mux.Vars(r)["clientId"]

	profile, err := s.profileService.GetProfile(r.Context(), clientID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// handleGetProfileWithSnapshots handles GET /api/profiles/{clientId}/snapshots -
// Get a profile together with its snapshot history
func (s *Server) handleGetProfileWithSnapshots(w http.ResponseWriter, r *http.Request) {
	clientID := mux.Vars(r)["clientId"]

	profile, err := s.profileService.GetProfileWithSnapshots(r.Context(), clientID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// handleGetActiveProfile handles GET /api/by-id/{accountClientId}/profiles/active -
// Get the account's active profile with snapshots
func (s *Server) handleGetActiveProfile(w http.ResponseWriter, r *http.Request) {
	accountClientID := mux.Vars(r)["accountClientId"]

	profile, err := s.profileService.GetActiveProfileWithSnapshots(r.Context(), accountClientID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// handleGetAllProfiles handles GET /api/by-id/{accountClientId}/profiles -
// List every profile owned by the account
func (s *Server) handleGetAllProfiles(w http.ResponseWriter, r *http.Request) {
	accountClientID := mux.Vars(r)["accountClientId"]

	profiles, err := s.profileService.GetAllProfiles(r.Context(), accountClientID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profiles)
}

// handleAddProfile handles POST /api/accounts/{name}/profiles - Add a new
// profile to the account
func (s *Server) handleAddProfile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var model service.SnapshotProfileModel
	if err := parseJSONBody(r, &model); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	profile, err := s.profileService.AddProfile(r.Context(), name, model)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, profile)
}

// handleEditProfile handles PUT /api/accounts/{name}/profiles/{clientId} -
// Edit a profile's scalar fields
func (s *Server) handleEditProfile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["name"]

	var model service.SnapshotProfileModel
	if err := parseJSONBody(r, &model); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	// The path segment is authoritative for the profile identity
	model.ClientID = vars["clientId"]

	profile, err := s.profileService.EditProfile(r.Context(), name, model)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// handleRemoveProfile handles DELETE /api/accounts/{name}/profiles/{clientId} -
// Remove a profile and its snapshots
func (s *Server) handleRemoveProfile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	profile, err := s.profileService.RemoveProfile(r.Context(), vars["name"], vars["clientId"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// handleRemoveAllProfiles handles DELETE /api/by-id/{accountClientId}/profiles -
// Clear the account's entire profile collection
func (s *Server) handleRemoveAllProfiles(w http.ResponseWriter, r *http.Request) {
	accountClientID := mux.Vars(r)["accountClientId"]

	if err := s.profileService.RemoveAllProfiles(r.Context(), accountClientID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// handleAddSnapshot handles POST /api/profiles/{clientId}/snapshots - Record
// a captured snapshot under the profile
func (s *Server) handleAddSnapshot(w http.ResponseWriter, r *http.Request) {
	clientID := mux.Vars(r)["clientId"]

	var model service.SnapshotModel
	if err := parseJSONBody(r, &model); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	snapshot, err := s.profileService.AddSnapshot(r.Context(), clientID, model)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, snapshot)
}

// handleChangeActiveProfile handles POST /api/accounts/{name}/profiles/{clientId}/activate -
// Switch the account's active profile
func (s *Server) handleChangeActiveProfile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	profile, err := s.profileService.ChangeActiveProfile(r.Context(), vars["name"], vars["clientId"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}
