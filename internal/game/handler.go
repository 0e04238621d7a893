package game

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quizladder/backend/internal/models"
	"github.com/quizladder/backend/internal/progress"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req models.StartGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.Start(r.Context(), req)
	if err != nil {
		writeServiceError(w, "[game] Start", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.Submit(r.Context(), req)
	if err != nil {
		writeServiceError(w, "[game] Submit", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Complete is kept for older clients; it never changes stored results.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Deprecation", "true")

	var req models.CompleteGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.Complete(r.Context(), req)
	if err != nil {
		writeServiceError(w, "[game] Complete", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrMissingFields):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Missing required fields"})
	case errors.Is(err, ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
	case errors.Is(err, ErrLevelNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Level not found"})
	case errors.Is(err, ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Session not found"})
	case errors.Is(err, ErrSessionCompleted):
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Session already submitted"})
	default:
		progress.WriteStoreError(w, op, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
