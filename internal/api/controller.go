package api

import (
	"net/http"

	"github.com/DiegoFarias19/GrowingAPP/internal/controller"
)

type controllerResponse struct {
	Status string `json:"status"`
	*controller.Result
}

// handleTemperatureController runs one threshold evaluation.
func (s *Server) handleTemperatureController(w http.ResponseWriter, r *http.Request) {
	res, err := s.ctrl.Evaluate(r.Context())
	if err != nil {
		s.logger.Error("temperature control failed", "error", err, "request_id", requestID(r.Context()))
		writeInternalError(w, "temperature control failed", err)
		return
	}

	writeJSON(w, http.StatusOK, controllerResponse{Status: "success", Result: res})
}
