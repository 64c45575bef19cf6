package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/DiegoFarias19/GrowingAPP/internal/farm"
)

// handleCreateFarm inserts a farm owned by the user_uid query parameter.
// Every call creates a new farm with a fresh id.
func (s *Server) handleCreateFarm(w http.ResponseWriter, r *http.Request) {
	userUID := strings.TrimSpace(r.URL.Query().Get("user_uid"))
	if userUID == "" {
		writeBadRequest(w, "user_uid query parameter is required")
		return
	}

	var req farm.CreateRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "request body must be a JSON object")
		return
	}

	f, recognised, err := farm.NewFarm(userUID, req)
	if err != nil {
		if errors.Is(err, farm.ErrInvalidName) {
			writeBadRequest(w, "farm_name must be a non-empty string")
			return
		}
		writeBadRequest(w, err.Error())
		return
	}
	if !recognised {
		s.logger.Warn("unrecognised farm status, defaulting to active",
			"status", req.Status, "request_id", requestID(r.Context()))
	}

	if err := s.farms.Create(r.Context(), f); err != nil {
		s.logger.Error("creating farm", "error", err, "user_uid", userUID)
		writeInternalError(w, "failed to create farm", err)
		return
	}

	s.logger.Info("farm created", "farm_id", f.ID, "user_uid", userUID)
	writeJSON(w, http.StatusCreated, f)
}

// handleListUserFarms returns the farms of a user ordered by name.
func (s *Server) handleListUserFarms(w http.ResponseWriter, r *http.Request) {
	userUID := strings.TrimSpace(r.URL.Query().Get("user_uid"))
	if userUID == "" {
		writeBadRequest(w, "user_uid query parameter is required")
		return
	}

	farms, err := s.farms.ListByUser(r.Context(), userUID)
	if err != nil {
		s.logger.Error("listing farms", "error", err, "user_uid", userUID)
		writeInternalError(w, "failed to list farms", err)
		return
	}
	if farms == nil {
		farms = []farm.Summary{}
	}

	writeJSON(w, http.StatusOK, farms)
}

// handleGetFarmCrops returns the crops of a farm ordered by name.
func (s *Server) handleGetFarmCrops(w http.ResponseWriter, r *http.Request) {
	farmID := strings.TrimSpace(r.URL.Query().Get("farm_id"))
	if farmID == "" {
		writeBadRequest(w, "farm_id query parameter is required")
		return
	}

	crops, err := s.farms.ListCrops(r.Context(), farmID)
	if err != nil {
		s.logger.Error("listing crops", "error", err, "farm_id", farmID)
		writeInternalError(w, "failed to list crops", err)
		return
	}
	if crops == nil {
		crops = []farm.Crop{}
	}

	writeJSON(w, http.StatusOK, crops)
}
